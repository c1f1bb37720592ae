// Package redact masks secret-looking values before they reach logs or
// terminal output.
package redact

import (
	"net/url"
	"strings"
)

// Key fragments that mark a name as secret, compared upper-case.
var secretKeyParts = []string{"TOKEN", "KEY", "SECRET", "PASSWORD", "AUTH", "CREDENTIAL", "PRIVATE"}

// Prefixes of well-known API tokens. A value carrying one is masked
// whatever its key is called.
var tokenPrefixes = []string{
	"ghp_", "gho_", "ghu_", "ghs_", "ghr_", // GitHub
	"sk-",            // OpenAI and Anthropic
	"AKIA",           // AWS access key
	"xoxb-", "xoxp-", // Slack
}

const (
	fullMask = "********"
	visible  = 4
)

// ShouldMask reports whether key names something secret.
func ShouldMask(key string) bool {
	upper := strings.ToUpper(key)
	for _, part := range secretKeyParts {
		if strings.Contains(upper, part) {
			return true
		}
	}
	return false
}

// ContainsTokenPrefix reports whether value starts like a known API token.
func ContainsTokenPrefix(value string) bool {
	for _, p := range tokenPrefixes {
		if strings.HasPrefix(value, p) {
			return true
		}
	}
	return false
}

// MaskValue hides all but the last four characters of value. Short values
// are hidden entirely.
func MaskValue(value string) string {
	if len(value) <= visible {
		return fullMask
	}
	return "****" + value[len(value)-visible:]
}

// Value masks value when either its key or its shape looks secret.
func Value(key, value string) string {
	if ShouldMask(key) || ContainsTokenPrefix(value) {
		return MaskValue(value)
	}
	return value
}

// Map returns a masked copy of an env or header map. The input is not
// modified.
func Map(m map[string]string) map[string]string {
	if m == nil {
		return nil
	}
	out := make(map[string]string, len(m))
	for k, v := range m {
		out[k] = Value(k, v)
	}
	return out
}

// Args returns a copy of a command-line argument list with the values of
// secret-looking flags masked. Both "--api-key value" and "--api-key=value"
// forms are handled.
func Args(args []string) []string {
	if args == nil {
		return nil
	}
	out := make([]string, len(args))
	pending := false // previous arg was a secret flag without inline value
	for i, arg := range args {
		isFlag := strings.HasPrefix(arg, "-")
		switch {
		case pending && !isFlag:
			out[i] = MaskValue(arg)
		case isFlag:
			name, value, inline := strings.Cut(arg, "=")
			secret := ShouldMask(strings.TrimLeft(name, "-"))
			out[i] = arg
			if secret && inline {
				out[i] = name + "=" + MaskValue(value)
			}
			pending = secret && !inline
			continue
		default:
			out[i] = Value("", arg)
		}
		pending = false
	}
	return out
}

// MaskURL hides the password of user:pass@host URLs and the values of
// secret-looking query parameters. Unparseable URLs come back unchanged.
func MaskURL(rawURL string) string {
	u, err := url.Parse(rawURL)
	if rawURL == "" || err != nil {
		return rawURL
	}

	changed := false
	if u.User != nil {
		if pw, ok := u.User.Password(); ok && pw != "" {
			u.User = url.UserPassword(u.User.Username(), MaskValue(pw))
			changed = true
		}
	}
	if q, ok := maskQuery(u.Query()); ok {
		u.RawQuery = q.Encode()
		changed = true
	}
	if !changed {
		return rawURL
	}
	return u.String()
}

func maskQuery(q url.Values) (url.Values, bool) {
	masked := false
	for k, vs := range q {
		for i, v := range vs {
			if m := Value(k, v); m != v {
				vs[i] = m
				masked = true
			}
		}
	}
	return q, masked
}
