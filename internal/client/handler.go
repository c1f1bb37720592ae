package client

import (
	"bytes"
	"encoding/json"
	"fmt"
	"io/fs"
	"log/slog"
	"os"
	"sort"
	"strings"

	"github.com/thoreinstein/mcpconf/internal/backup"
	"github.com/thoreinstein/mcpconf/internal/errors"
	"github.com/thoreinstein/mcpconf/internal/jsondoc"
	"github.com/thoreinstein/mcpconf/internal/ownership"
	"github.com/thoreinstein/mcpconf/internal/paths"
	"github.com/thoreinstein/mcpconf/internal/server"
	"github.com/thoreinstein/mcpconf/internal/validator"
	"github.com/thoreinstein/mcpconf/pkg/fileutil"
)

// ConfigHandler manages the servers section of one host config file.
type ConfigHandler struct {
	v           *variant
	projectRoot string
	configPath  string
	opts        *options
	tracker     ownership.Tracker
	backups     *backup.Manager
	logger      *slog.Logger
}

var _ Handler = (*ConfigHandler)(nil)

// New returns the handler for the named client variant. projectRoot
// defaults to the working directory and anchors project-scoped config
// files and relative path parameters.
func New(name, projectRoot string, opts ...Option) (*ConfigHandler, error) {
	v, ok := lookupVariant(name)
	if !ok {
		return nil, errors.Mark(
			errors.Newf("unknown client %q (supported: %s)", name, strings.Join(Variants(), ", ")),
			errors.ErrInvalidArgument,
		)
	}

	o := defaultOptions()
	for _, opt := range opts {
		opt(o)
	}

	root, err := paths.ProjectRoot(projectRoot)
	if err != nil {
		return nil, errors.Wrap(err, "resolving project root")
	}

	configPath := o.configPath
	if configPath == "" {
		configPath, err = v.locate(root)
		if err != nil {
			return nil, errors.Wrapf(err, "locating %s config", v.display)
		}
	} else if configPath, err = paths.ExpandHome(configPath); err != nil {
		return nil, err
	}

	return &ConfigHandler{
		v:           v,
		projectRoot: root,
		configPath:  configPath,
		opts:        o,
		tracker:     v.tracker(configDir(configPath), o),
		backups:     backup.NewManager(v.backupStyle, backup.WithClock(o.now)),
		logger:      o.logger.With("client", v.name),
	}, nil
}

func (h *ConfigHandler) Name() string        { return h.v.name }
func (h *ConfigHandler) DisplayName() string { return h.v.display }
func (h *ConfigHandler) ConfigPath() string  { return h.configPath }
func (h *ConfigHandler) ProjectRoot() string { return h.projectRoot }

func (h *ConfigHandler) PathStyle() server.PathStyle { return h.v.pathStyle }

// Section returns the key of the servers object.
func (h *ConfigHandler) Section() string { return h.v.section }

// PreservesFormat reports whether comments and layout survive a save.
func (h *ConfigHandler) PreservesFormat() bool { return h.v.preserve }

// Tracker returns the ownership tracker.
func (h *ConfigHandler) Tracker() ownership.Tracker { return h.tracker }

func (h *ConfigHandler) NormalizeName(name string) (string, bool, error) {
	return h.v.normalize(name)
}

// LoadConfig reads the config, adds an empty servers section when it is
// missing and loads ownership state.
func (h *ConfigHandler) LoadConfig() (*jsondoc.Document, error) {
	doc, err := h.load()
	if err != nil {
		return nil, err
	}
	if _, _, err := jsondoc.Object(doc.Root(), h.v.section); err != nil {
		return nil, errors.Mark(errors.Wrapf(err, "%s", h.configPath), errors.ErrMalformedDocument)
	}
	if err := h.tracker.Load(); err != nil {
		return nil, errors.Wrap(err, "loading ownership metadata")
	}
	return doc, nil
}

// SaveConfig writes the config and then the ownership state. When the
// sidecar cannot be written the config is put back to its previous bytes,
// so an entry is never left on disk without its ownership record.
func (h *ConfigHandler) SaveConfig(doc *jsondoc.Document) error {
	var prev *snapshot
	if h.tracker.Separated() {
		var err error
		if prev, err = h.readSnapshot(); err != nil {
			return err
		}
	}

	if err := jsondoc.Save(doc, jsondoc.WithWriter(jsondoc.WriteFunc(h.opts.write))); err != nil {
		return err
	}
	if err := h.tracker.Save(); err != nil {
		err = errors.Wrap(err, "saving ownership metadata")
		if rerr := h.restore(prev); rerr != nil {
			return errors.WithSecondaryError(err, errors.Wrapf(rerr, "restoring %s", h.configPath))
		}
		h.logger.Warn("restored config after ownership metadata write failed", "path", h.configPath)
		return err
	}
	h.logger.Debug("saved config", "path", h.configPath)
	return nil
}

// snapshot holds the config bytes as they were before a save.
type snapshot struct {
	data   []byte
	perm   os.FileMode
	exists bool
}

func (h *ConfigHandler) readSnapshot() (*snapshot, error) {
	data, err := fileutil.ReadFileWithLimit(h.configPath)
	switch {
	case errors.Is(err, fs.ErrNotExist):
		return &snapshot{}, nil
	case err != nil:
		return nil, errors.Wrapf(err, "reading %s", h.configPath)
	}
	return &snapshot{data: data, perm: fileutil.FileMode(h.configPath, fileutil.DefaultFilePerm), exists: true}, nil
}

func (h *ConfigHandler) restore(prev *snapshot) error {
	if prev == nil {
		return nil
	}
	if !prev.exists {
		if err := os.Remove(h.configPath); err != nil && !errors.Is(err, fs.ErrNotExist) {
			return err
		}
		return nil
	}
	write := h.opts.write
	if write == nil {
		write = fileutil.AtomicWriteFile
	}
	return write(h.configPath, prev.data, prev.perm)
}

// SetupServer writes entry under name, replacing a managed entry of the
// same name. Entries mcpconf does not own are never overwritten.
func (h *ConfigHandler) SetupServer(name string, entry Entry) (*SetupResult, error) {
	p, err := h.plan(name, entry)
	if err != nil {
		return nil, err
	}

	if p.res.BackupPath, err = h.backupBeforeWrite(); err != nil {
		return nil, err
	}

	p.servers[p.res.Name] = p.written
	h.tracker.Record(p.res.Name, p.serverType)

	if err := h.SaveConfig(p.doc); err != nil {
		return nil, err
	}

	h.logger.Info("server configured", "name", p.res.Name, "replaced", p.res.Replaced)
	return p.res, nil
}

// PlanSetup runs every check SetupServer does, including the ownership
// refusal, and returns the result it would produce without backing up or
// writing anything.
func (h *ConfigHandler) PlanSetup(name string, entry Entry) (*SetupResult, error) {
	p, err := h.plan(name, entry)
	if err != nil {
		return nil, err
	}
	return p.res, nil
}

type setupPlan struct {
	res        *SetupResult
	doc        *jsondoc.Document
	servers    map[string]any
	written    map[string]any
	serverType string
}

func (h *ConfigHandler) plan(name string, entry Entry) (*setupPlan, error) {
	if name == "" {
		return nil, errors.ErrMissingName
	}

	final, renamed, err := h.v.normalize(name)
	if err != nil {
		return nil, err
	}
	res := &SetupResult{
		Name:          final,
		RequestedName: name,
		Renamed:       renamed,
		ConfigPath:    h.configPath,
	}
	if renamed {
		res.Warnings = append(res.Warnings,
			fmt.Sprintf("instance name %q is not allowed by %s; using %q", name, h.v.display, final))
	}
	if w := h.siblingWarning(); w != "" {
		res.Warnings = append(res.Warnings, w)
	}

	written, serverType, err := h.buildEntry(entry)
	if err != nil {
		return nil, err
	}

	doc, err := h.LoadConfig()
	if err != nil {
		return nil, err
	}
	servers := doc.Root()[h.v.section].(map[string]any)

	if _, exists := servers[final]; exists {
		if !h.tracker.Managed(final) {
			return nil, errors.Wrapf(errors.ErrOwnership, "refusing to overwrite %q in %s", final, h.configPath)
		}
		res.Replaced = true
	}
	res.Entry = jsondoc.Clone(written).(map[string]any)

	return &setupPlan{res: res, doc: doc, servers: servers, written: written, serverType: serverType}, nil
}

// RemoveServer deletes the named entry. The servers section stays, empty
// if it was the last entry.
func (h *ConfigHandler) RemoveServer(name string) (*RemoveResult, error) {
	if name == "" {
		return nil, errors.ErrMissingName
	}

	doc, err := h.LoadConfig()
	if err != nil {
		return nil, err
	}
	servers := doc.Root()[h.v.section].(map[string]any)

	key, ok := h.resolveName(servers, name)
	if !ok {
		return nil, errors.Wrapf(errors.ErrNotFound, "%q in %s", name, h.configPath)
	}
	if !h.tracker.Managed(key) {
		return nil, errors.Wrapf(errors.ErrOwnership, "refusing to remove %q from %s", key, h.configPath)
	}

	res := &RemoveResult{
		Name:       key,
		ConfigPath: h.configPath,
		Entry:      jsondoc.Clone(servers[key]),
	}
	if res.BackupPath, err = h.backupBeforeWrite(); err != nil {
		return nil, err
	}

	delete(servers, key)
	h.tracker.Forget(key)

	if err := h.SaveConfig(doc); err != nil {
		return nil, err
	}

	h.logger.Info("server removed", "name", key)
	return res, nil
}

// ListAllServers returns every entry, managed or not, sorted by name.
func (h *ConfigHandler) ListAllServers() ([]ServerInfo, error) {
	doc, err := h.LoadConfig()
	if err != nil {
		return nil, err
	}
	servers := doc.Root()[h.v.section].(map[string]any)

	names := make([]string, 0, len(servers))
	for name := range servers {
		names = append(names, name)
	}
	sort.Strings(names)

	infos := make([]ServerInfo, 0, len(names))
	for _, name := range names {
		infos = append(infos, h.describe(name, servers[name]))
	}
	return infos, nil
}

// ListManagedServers returns the entries mcpconf owns, sorted by name.
func (h *ConfigHandler) ListManagedServers() ([]ServerInfo, error) {
	all, err := h.ListAllServers()
	if err != nil {
		return nil, err
	}
	managed := make([]ServerInfo, 0, len(all))
	for _, info := range all {
		if info.Managed {
			managed = append(managed, info)
		}
	}
	return managed, nil
}

func (h *ConfigHandler) BackupConfig() (string, error) {
	b, err := h.backups.Create(h.configPath)
	if err != nil || b == nil {
		return "", err
	}
	h.logger.Debug("backed up config", "backup", b.Path)
	return b.Path, nil
}

// Backups lists the backups of the config file, newest first.
func (h *ConfigHandler) Backups() ([]backup.Backup, error) {
	return h.backups.List(h.configPath)
}

// RestoreBackup replaces the config with a backup after backing up the
// current file. It returns that new backup's path.
func (h *ConfigHandler) RestoreBackup(backupPath string) (string, error) {
	prev, err := h.backups.Restore(h.configPath, backupPath)
	if err != nil {
		return "", err
	}
	if prev == nil {
		return "", nil
	}
	return prev.Path, nil
}

// ValidateConfig collects structural issues in the config. Only I/O and
// parse failures are returned as errors.
func (h *ConfigHandler) ValidateConfig() ([]validator.Issue, error) {
	doc, err := h.load()
	if err != nil {
		return nil, err
	}
	if err := h.tracker.Load(); err != nil {
		return nil, errors.Wrap(err, "loading ownership metadata")
	}

	res := validator.Result{Path: h.configPath}
	if !doc.Exists() {
		res.Add(validator.Issue{Severity: validator.SeverityInfo, Message: "config file does not exist yet"})
		return res.Issues, nil
	}

	raw, ok := doc.Root()[h.v.section]
	if !ok {
		res.AddWarning("", h.v.section, "servers section is missing", nil)
		return res.Issues, nil
	}
	servers, ok := raw.(map[string]any)
	if !ok {
		res.AddError("", h.v.section, "servers section must be an object", jsondoc.Kind(raw))
		return res.Issues, nil
	}

	names := make([]string, 0, len(servers))
	for name := range servers {
		names = append(names, name)
	}
	sort.Strings(names)
	for _, name := range names {
		res.Add(checkEntry(name, servers[name])...)
	}

	for _, name := range h.tracker.Names() {
		if _, ok := servers[name]; !ok {
			res.AddWarning(name, "", "ownership record has no matching entry", nil)
		}
	}
	return res.Issues, nil
}

// ValidateServer checks a single entry.
func (h *ConfigHandler) ValidateServer(name string) ([]validator.Issue, error) {
	doc, err := h.load()
	if err != nil {
		return nil, err
	}
	servers, _ := doc.Root()[h.v.section].(map[string]any)
	key, ok := h.resolveName(servers, name)
	if !ok {
		return nil, errors.Wrapf(errors.ErrNotFound, "%q in %s", name, h.configPath)
	}
	issues := checkEntry(key, servers[key])
	if issues == nil {
		issues = []validator.Issue{}
	}
	return issues, nil
}

func (h *ConfigHandler) load() (*jsondoc.Document, error) {
	var opts []jsondoc.Option
	if h.v.preserve {
		opts = append(opts, jsondoc.WithPreserveFormat())
	}
	return jsondoc.Load(h.configPath, opts...)
}

// resolveName finds name in servers, falling back to its normalized form.
func (h *ConfigHandler) resolveName(servers map[string]any, name string) (string, bool) {
	if _, ok := servers[name]; ok {
		return name, true
	}
	if normalized, changed, err := h.v.normalize(name); err == nil && changed {
		if _, ok := servers[normalized]; ok {
			return normalized, true
		}
	}
	return "", false
}

func (h *ConfigHandler) backupBeforeWrite() (string, error) {
	if !h.opts.backups {
		return "", nil
	}
	path, err := h.BackupConfig()
	if err != nil {
		return "", errors.Wrap(err, "backing up config")
	}
	return path, nil
}

// buildEntry converts a caller entry to its JSON form, drops bookkeeping
// fields and adds the host's required fields.
func (h *ConfigHandler) buildEntry(entry Entry) (map[string]any, string, error) {
	data, err := json.Marshal(entry)
	if err != nil {
		return nil, "", errors.Wrap(err, "encoding server entry")
	}
	dec := json.NewDecoder(bytes.NewReader(data))
	dec.UseNumber()
	var out map[string]any
	if err := dec.Decode(&out); err != nil {
		return nil, "", errors.Wrap(err, "encoding server entry")
	}
	if out == nil {
		out = map[string]any{}
	}

	serverType, _ := out[ServerTypeField].(string)
	for k := range out {
		if strings.HasPrefix(k, "_") {
			delete(out, k)
		}
	}
	h.v.decorate(out)
	return out, serverType, nil
}

func (h *ConfigHandler) siblingWarning() string {
	var (
		path string
		err  error
	)
	switch {
	case h.opts.userConfig != nil:
		path = *h.opts.userConfig
	case h.v.sibling != nil:
		path, err = h.v.sibling()
	}
	if err != nil || path == "" || path == h.configPath || !fileutil.Exists(path) {
		return ""
	}
	h.logger.Debug("user-scope config present", "path", path)
	return fmt.Sprintf("%s also reads MCP servers from %s; entries there are used alongside this config", h.v.display, path)
}

func (h *ConfigHandler) describe(name string, raw any) ServerInfo {
	info := ServerInfo{
		Name:    name,
		Managed: h.tracker.Managed(name),
		Entry:   jsondoc.Clone(raw),
	}
	if rec, ok := h.tracker.Lookup(name); ok {
		info.ServerType = rec.ServerType
		created, updated := rec.CreatedAt, rec.UpdatedAt
		info.CreatedAt, info.UpdatedAt = &created, &updated
	}

	entry, ok := raw.(map[string]any)
	if !ok {
		return info
	}
	info.Command, _ = entry["command"].(string)
	info.URL, _ = entry["url"].(string)
	if args, ok := entry["args"].([]any); ok {
		for _, a := range args {
			if s, ok := a.(string); ok {
				info.Args = append(info.Args, s)
			}
		}
	}
	if env, ok := entry["env"].(map[string]any); ok && len(env) > 0 {
		info.Env = make(map[string]string, len(env))
		for k, val := range env {
			if s, ok := val.(string); ok {
				info.Env[k] = s
			}
		}
	}
	return info
}
