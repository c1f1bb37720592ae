package errors

import (
	"fmt"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestExitError_Error(t *testing.T) {
	tests := []struct {
		name string
		err  *ExitError
		want string
	}{
		{"sentinel", NewUserError(ErrNotFound, ""), "server not found"},
		{"wrapped", NewUserError(fmt.Errorf("loading config: %w", ErrInvalidConfig), ""), "loading config: invalid configuration"},
		{"nil cause", &ExitError{Code: ExitUser}, "exit code 1"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, tt.err.Error())
		})
	}
}

func TestWrap(t *testing.T) {
	err := Wrapf(ErrOwnership, "removing %q", "github")
	assert.True(t, Is(err, ErrOwnership))
	assert.Equal(t, `removing "github": server is not managed by mcpconf`, err.Error())

	assert.NoError(t, Wrap(nil, "context"))
	assert.NoError(t, Wrapf(nil, "context %d", 1))
}

func TestMark(t *testing.T) {
	base := New("invalid character '}' looking for beginning of value")
	err := Wrapf(Mark(base, ErrMalformedDocument), "parsing %s", "/tmp/x.json")

	assert.True(t, Is(err, ErrMalformedDocument))
	assert.Equal(t, "parsing /tmp/x.json: invalid character '}' looking for beginning of value", err.Error())
}

func TestNewConfigError(t *testing.T) {
	err := NewConfigError(ErrInvalidConfig)
	assert.Equal(t, ExitUser, err.Code)
	assert.Contains(t, err.Suggestion, "config.yaml")
	assert.True(t, Is(err, ErrInvalidConfig))
}

func TestClassify(t *testing.T) {
	tests := []struct {
		name           string
		err            error
		wantCode       int
		wantSuggestion string
	}{
		{"not found", Wrap(ErrNotFound, "removing"), ExitUser, "mcpconf list"},
		{"ownership", ErrOwnership, ExitUser, "created by mcpconf"},
		{"normalization", ErrNormalization, ExitUser, "instance name"},
		{"malformed", Mark(New("bad"), ErrMalformedDocument), ExitUser, "restore a backup"},
		{"invalid argument", Mark(New("missing --root"), ErrInvalidArgument), ExitUser, ""},
		{"missing name", ErrMissingName, ExitUser, ""},
		{"io", New("permission denied"), ExitSystem, ""},
		{"existing exit error", &ExitError{Err: New("x"), Code: 7}, 7, ""},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := Classify(tt.err)
			require.NotNil(t, got)
			assert.Equal(t, tt.wantCode, got.Code)
			assert.Contains(t, got.Suggestion, tt.wantSuggestion)
		})
	}

	assert.Nil(t, Classify(nil))
}

func TestExitError_As(t *testing.T) {
	err := fmt.Errorf("command failed: %w", NewUserError(ErrNotFound, "Run: mcpconf list"))

	var exitErr *ExitError
	require.True(t, As(err, &exitErr))
	assert.Equal(t, ExitUser, exitErr.Code)
	assert.Equal(t, "Run: mcpconf list", exitErr.Suggestion)
	assert.True(t, Is(err, ErrNotFound), "Is sees through ExitError")
}

func TestWithSecondaryError(t *testing.T) {
	err := WithSecondaryError(Wrap(ErrNotFound, "saving"), New("restore failed"))
	assert.True(t, Is(err, ErrNotFound))
	assert.Equal(t, "saving: server not found", err.Error())
}
