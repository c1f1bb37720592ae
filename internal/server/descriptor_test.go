package server

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/thoreinstein/mcpconf/internal/errors"
)

func TestDescriptor_Validate(t *testing.T) {
	base := func(params ...Param) *Descriptor {
		return &Descriptor{TypeName: "demo", LaunchModule: "mcp_server_demo", Params: params}
	}

	tests := []struct {
		name    string
		d       *Descriptor
		wantErr bool
	}{
		{"valid", testDescriptor(), false},
		{"nil", nil, true},
		{"empty type name", &Descriptor{LaunchModule: "m"}, true},
		{"type name with space", &Descriptor{TypeName: "my server", LaunchModule: "m"}, true},
		{"missing launch module", &Descriptor{TypeName: "demo"}, true},
		{"duplicate params", base(Param{Name: "a", Type: TypeString}, Param{Name: "a", Type: TypePath}), true},
		{"unnamed param", base(Param{Type: TypeString}), true},
		{"unknown type", base(Param{Name: "a", Type: "number"}), true},
		{"choice without choices", base(Param{Name: "a", Type: TypeChoice}), true},
		{"repeatable flag", base(Param{Name: "a", Type: TypeBoolean, IsFlag: true, Repeatable: true}), true},
		{"is_flag on string", base(Param{Name: "a", Type: TypeString, IsFlag: true}), true},
		{"default outside choices", base(Param{Name: "a", Type: TypeChoice, Choices: []string{"x"}, Default: "y"}), true},
		{"boolean default wrong type", base(Param{Name: "a", Type: TypeBoolean, Default: []string{"x"}}), true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			err := tt.d.Validate()
			if (err != nil) != tt.wantErr {
				t.Errorf("Validate() error = %v, wantErr %v", err, tt.wantErr)
			}
		})
	}
}

func TestDescriptor_Resolve(t *testing.T) {
	d := testDescriptor()

	t.Run("fills defaults and canonicalizes", func(t *testing.T) {
		got, err := d.Resolve(Values{"root": "/r", "include": []any{"a", "b"}, "color": "false"})
		require.NoError(t, err)
		assert.Equal(t, Values{
			"root":    "/r",
			"include": []string{"a", "b"},
			"mode":    "fast",
			"color":   false,
		}, got)
	})

	t.Run("missing required", func(t *testing.T) {
		_, err := d.Resolve(Values{})
		require.Error(t, err)
		assert.True(t, errors.Is(err, errors.ErrInvalidArgument))
		assert.Contains(t, err.Error(), "--root")
	})

	t.Run("unknown parameter", func(t *testing.T) {
		_, err := d.Resolve(Values{"root": "/r", "bogus": "1"})
		require.Error(t, err)
		assert.True(t, errors.Is(err, errors.ErrInvalidArgument))
		assert.Contains(t, err.Error(), "bogus")
	})

	t.Run("invalid choice", func(t *testing.T) {
		_, err := d.Resolve(Values{"root": "/r", "mode": "medium"})
		require.Error(t, err)
		assert.True(t, errors.Is(err, errors.ErrInvalidArgument))
	})

	t.Run("bad boolean", func(t *testing.T) {
		_, err := d.Resolve(Values{"root": "/r", "verbose": "maybe"})
		require.Error(t, err)
	})

	t.Run("required repeatable must be non-empty", func(t *testing.T) {
		rd := &Descriptor{
			TypeName:     "multi",
			LaunchModule: "m",
			Params:       []Param{{Name: "dir", Type: TypePath, Repeatable: true, Required: true}},
		}
		_, err := rd.Resolve(Values{"dir": []string{}})
		require.Error(t, err)
	})

	t.Run("does not mutate input", func(t *testing.T) {
		in := Values{"root": "/r", "tag": []string{"a"}}
		got, err := d.Resolve(in)
		require.NoError(t, err)
		got["tag"].([]string)[0] = "changed"
		assert.Equal(t, "a", in["tag"].([]string)[0])
	})
}

func TestParam_CLIFlag(t *testing.T) {
	assert.Equal(t, "--project-dir", Param{Name: "project-dir"}.CLIFlag())
	assert.Equal(t, "-p", Param{Name: "project-dir", Flag: "-p"}.CLIFlag())
}

func TestDescriptor_Title(t *testing.T) {
	assert.Equal(t, "Demo Server", (&Descriptor{TypeName: "demo", DisplayName: "Demo Server"}).Title())
	assert.Equal(t, "demo", (&Descriptor{TypeName: "demo"}).Title())
}
