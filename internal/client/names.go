package client

import (
	"strings"

	"github.com/thoreinstein/mcpconf/internal/errors"
)

// MaxNameLength is the longest instance name NormalizeName produces.
const MaxNameLength = 64

// NormalizeName restricts name to [A-Za-z0-9_-]: spaces become
// underscores, other characters are dropped and the result is cut to
// MaxNameLength. A name with nothing left is an ErrNormalization error.
func NormalizeName(name string) (string, bool, error) {
	var sb strings.Builder
	for _, r := range name {
		switch {
		case r == ' ':
			sb.WriteByte('_')
		case r >= 'a' && r <= 'z', r >= 'A' && r <= 'Z', r >= '0' && r <= '9', r == '_', r == '-':
			sb.WriteRune(r)
		}
	}

	out := sb.String()
	if len(out) > MaxNameLength {
		out = out[:MaxNameLength]
	}
	if out == "" {
		return "", false, errors.Wrapf(errors.ErrNormalization, "%q has no usable characters", name)
	}
	return out, out != name, nil
}
