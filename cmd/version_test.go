package cmd

import (
	"runtime"
	"runtime/debug"
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestInfo_LdflagsWin(t *testing.T) {
	old := []string{Version, Commit, Date}
	t.Cleanup(func() { Version, Commit, Date = old[0], old[1], old[2] })
	Version, Commit, Date = "v1.2.3", "abc123", "2026-01-02"

	got := Info()
	assert.Equal(t, Build{Version: "v1.2.3", Commit: "abc123", Date: "2026-01-02", GoVersion: runtime.Version()}, got)
}

func TestFillFromBuildInfo(t *testing.T) {
	bi := &debug.BuildInfo{
		Main: debug.Module{Version: "v0.4.0"},
		Settings: []debug.BuildSetting{
			{Key: "vcs.revision", Value: "deadbeef"},
			{Key: "vcs.time", Value: "2026-05-06T07:08:09Z"},
		},
	}

	got := fillFromBuildInfo(Build{Version: "dev", Commit: "none", Date: "unknown"}, bi)
	assert.Equal(t, "v0.4.0", got.Version)
	assert.Equal(t, "deadbeef", got.Commit)
	assert.Equal(t, "2026-05-06T07:08:09Z", got.Date)

	kept := fillFromBuildInfo(Build{Version: "v9", Commit: "c", Date: "d"}, bi)
	assert.Equal(t, Build{Version: "v9", Commit: "c", Date: "d"}, kept)

	devel := fillFromBuildInfo(Build{Version: "dev"}, &debug.BuildInfo{Main: debug.Module{Version: "(devel)"}})
	assert.Equal(t, "dev", devel.Version)
}
