package doctor

import (
	"context"
	"fmt"
	"io/fs"
	"os"
	"path/filepath"
	"runtime"
	"strings"

	"github.com/thoreinstein/mcpconf/internal/errors"
)

const (
	// secureFilePerm is the target for config files (rw-r--r--).
	secureFilePerm os.FileMode = 0o644
	// secureDirPerm is the target for config directories (rwxr-xr-x).
	secureDirPerm os.FileMode = 0o755
)

// PermissionCheck validates that client config files, their ownership
// sidecars and the directories holding them can be written by mcpconf and
// are not writable by other users. Server entries carry environment
// variables, which often hold tokens.
type PermissionCheck struct {
	targets []Target
	issues  []pathIssue
}

var (
	_ Check = (*PermissionCheck)(nil)
	_ Fixer = (*PermissionCheck)(nil)
)

// NewPermissionCheck creates a permission check for targets.
func NewPermissionCheck(targets ...Target) *PermissionCheck {
	return &PermissionCheck{targets: targets}
}

func (c *PermissionCheck) Name() string     { return "permissions" }
func (c *PermissionCheck) Category() string { return "filesystem" }

// pathIssue represents a single path or permission problem.
type pathIssue struct {
	path     string
	client   string
	dir      bool
	problem  string
	severity Severity
	fixable  bool
}

// Run stats every path belonging to the targets. Paths that do not exist
// yet are skipped; setup creates them.
func (c *PermissionCheck) Run(context.Context) *CheckResult {
	c.issues = nil
	checked := 0
	for _, t := range c.targets {
		for _, p := range targetFiles(t) {
			if _, err := os.Stat(p); err == nil {
				checked++
			}
			c.issues = append(c.issues, checkFile(p, t.Name())...)
		}
		dir := filepath.Dir(t.ConfigPath())
		if _, err := os.Stat(dir); err == nil {
			checked++
		}
		c.issues = append(c.issues, checkDirectory(dir, t.Name())...)
	}
	return c.buildResult(checked)
}

// targetFiles lists the files mcpconf writes for t.
func targetFiles(t Target) []string {
	files := []string{t.ConfigPath()}
	if sc, ok := t.Tracker().(interface{ Path() string }); ok && t.Tracker().Separated() {
		files = append(files, sc.Path())
	}
	return files
}

func checkFile(path, client string) []pathIssue {
	info, err := os.Stat(path)
	if errors.Is(err, fs.ErrNotExist) {
		return nil
	}
	if err != nil {
		return []pathIssue{{path: path, client: client, problem: fmt.Sprintf("cannot stat file: %v", err), severity: SeverityError}}
	}
	if info.IsDir() {
		return []pathIssue{{path: path, client: client, problem: "expected a file but found a directory", severity: SeverityError}}
	}

	f, err := os.Open(path)
	if err != nil {
		return []pathIssue{{path: path, client: client, problem: "file is not readable", severity: SeverityError}}
	}
	_ = f.Close()

	if runtime.GOOS == "windows" {
		return nil
	}
	if info.Mode().Perm()&0o022 != 0 {
		return []pathIssue{{
			path:     path,
			client:   client,
			problem:  fmt.Sprintf("file is writable by other users (mode %04o)", info.Mode().Perm()),
			severity: SeverityWarning,
			fixable:  true,
		}}
	}
	return nil
}

func checkDirectory(path, client string) []pathIssue {
	info, err := os.Stat(path)
	if errors.Is(err, fs.ErrNotExist) {
		return nil
	}
	if err != nil {
		return []pathIssue{{path: path, client: client, dir: true, problem: fmt.Sprintf("cannot stat directory: %v", err), severity: SeverityError}}
	}
	if !info.IsDir() {
		return []pathIssue{{path: path, client: client, dir: true, problem: "expected a directory but found a file", severity: SeverityError}}
	}

	var issues []pathIssue
	if !isDirectoryWritable(path) {
		issues = append(issues, pathIssue{
			path:     path,
			client:   client,
			dir:      true,
			problem:  "directory is not writable, so configs and backups cannot be saved",
			severity: SeverityError,
		})
	}
	if runtime.GOOS != "windows" && info.Mode().Perm()&0o002 != 0 {
		issues = append(issues, pathIssue{
			path:     path,
			client:   client,
			dir:      true,
			problem:  fmt.Sprintf("directory is world-writable (mode %04o)", info.Mode().Perm()),
			severity: SeverityWarning,
			fixable:  true,
		})
	}
	return issues
}

// isDirectoryWritable creates and removes a temp file in path.
func isDirectoryWritable(path string) bool {
	f, err := os.CreateTemp(path, ".mcpconf-doctor-*")
	if err != nil {
		return false
	}
	name := f.Name()
	_ = f.Close()
	_ = os.Remove(name)
	return true
}

func (c *PermissionCheck) buildResult(checked int) *CheckResult {
	result := &CheckResult{Name: c.Name(), Category: c.Category()}
	if len(c.issues) == 0 {
		result.Message = fmt.Sprintf("all %d paths have valid permissions", checked)
		return result
	}

	findings := make([]Finding, 0, len(c.issues))
	var hints []string
	for _, issue := range c.issues {
		findings = append(findings, Finding{
			Severity: issue.severity,
			Client:   issue.client,
			Path:     issue.path,
			Message:  issue.problem,
		})
		if issue.fixable {
			result.Fixable = true
			hints = append(hints, fmt.Sprintf("chmod %04o %s", targetPerm(issue), issue.path))
		}
	}
	result.Message = fmt.Sprintf("found %d permission issue(s) across %d paths", len(c.issues), checked)
	result.FixHint = strings.Join(hints, "; ")
	return resultFromFindings(result, findings)
}

func targetPerm(issue pathIssue) os.FileMode {
	if issue.dir {
		return secureDirPerm
	}
	return secureFilePerm
}

// Fix chmods every fixable path found by the last Run.
func (c *PermissionCheck) Fix(context.Context) []FixResult {
	var results []FixResult
	for _, issue := range c.issues {
		if !issue.fixable {
			continue
		}
		perm := targetPerm(issue)
		res := FixResult{Path: issue.path}
		if err := os.Chmod(issue.path, perm); err != nil {
			res.Description = fmt.Sprintf("failed to chmod %04o: %v", perm, err)
			res.Err = errors.Wrapf(err, "chmod %04o %s", perm, issue.path)
		} else {
			res.Fixed = true
			res.Description = fmt.Sprintf("chmod %04o", perm)
		}
		results = append(results, res)
	}
	return results
}
