package logging

import (
	"context"
	"fmt"
	"io"
	"log/slog"
	"slices"
	"sync"
	"time"

	"github.com/fatih/color"

	"github.com/thoreinstein/mcpconf/internal/redact"
)

// textHandler writes one line per record:
//
//	15:04:05 WARN  backup skipped path=/home/me/.vscode/mcp.json
//
// Groups become dotted key prefixes. Values whose key or content looks
// like a credential are masked.
type textHandler struct {
	level slog.Leveler
	out   io.Writer
	mu    *sync.Mutex
	color bool

	// prefix applies to attributes added after WithGroup.
	prefix string
	// attrs holds attributes from WithAttrs, already rendered.
	attrs []byte
}

// The handler decides on color itself because the log writer is usually
// stderr while fatih/color checks stdout.
var (
	timeColor  = forcedColor(color.FgHiBlack)
	keyColor   = forcedColor(color.FgCyan)
	traceColor = forcedColor(color.FgHiBlack)
	debugColor = forcedColor(color.FgMagenta)
	infoColor  = forcedColor(color.FgGreen)
	warnColor  = forcedColor(color.FgYellow)
	errorColor = forcedColor(color.FgRed, color.Bold)
)

func forcedColor(attrs ...color.Attribute) *color.Color {
	c := color.New(attrs...)
	c.EnableColor()
	return c
}

func newTextHandler(out io.Writer, level slog.Leveler) *textHandler {
	if level == nil {
		level = slog.LevelInfo
	}
	return &textHandler{
		level: level,
		out:   out,
		mu:    &sync.Mutex{},
		color: colorEnabled(out),
	}
}

func (h *textHandler) Enabled(_ context.Context, level slog.Level) bool {
	return level >= h.level.Level()
}

func (h *textHandler) Handle(_ context.Context, r slog.Record) error {
	buf := make([]byte, 0, 256)
	if !r.Time.IsZero() {
		buf = append(buf, h.paint(timeColor, r.Time.Format(time.TimeOnly))...)
		buf = append(buf, ' ')
	}
	buf = append(buf, h.paint(levelColor(r.Level), fmt.Sprintf("%-5s", levelName(r.Level)))...)
	buf = append(buf, ' ')
	buf = append(buf, r.Message...)
	buf = append(buf, h.attrs...)
	r.Attrs(func(a slog.Attr) bool {
		buf = h.appendAttr(buf, h.prefix, a)
		return true
	})
	buf = append(buf, '\n')

	h.mu.Lock()
	defer h.mu.Unlock()
	_, err := h.out.Write(buf)
	return err
}

func (h *textHandler) WithAttrs(attrs []slog.Attr) slog.Handler {
	if len(attrs) == 0 {
		return h
	}
	h2 := *h
	h2.attrs = slices.Clip(h.attrs)
	for _, a := range attrs {
		h2.attrs = h2.appendAttr(h2.attrs, h.prefix, a)
	}
	return &h2
}

func (h *textHandler) WithGroup(name string) slog.Handler {
	if name == "" {
		return h
	}
	h2 := *h
	h2.prefix = h.prefix + name + "."
	return &h2
}

func (h *textHandler) appendAttr(buf []byte, prefix string, a slog.Attr) []byte {
	a.Value = a.Value.Resolve()
	if a.Equal(slog.Attr{}) {
		return buf
	}
	if a.Value.Kind() == slog.KindGroup {
		if a.Key != "" {
			prefix += a.Key + "."
		}
		for _, ga := range a.Value.Group() {
			buf = h.appendAttr(buf, prefix, ga)
		}
		return buf
	}

	buf = append(buf, ' ')
	buf = append(buf, h.paint(keyColor, prefix+a.Key)...)
	buf = append(buf, '=')
	return append(buf, maskedValue(a)...)
}

func maskedValue(a slog.Attr) string {
	s := a.Value.String()
	if redact.ShouldMask(a.Key) || redact.ContainsTokenPrefix(s) {
		return redact.MaskValue(s)
	}
	return s
}

func (h *textHandler) paint(c *color.Color, s string) string {
	if !h.color {
		return s
	}
	return c.Sprint(s)
}

func levelColor(l slog.Level) *color.Color {
	switch {
	case l >= slog.LevelError:
		return errorColor
	case l >= slog.LevelWarn:
		return warnColor
	case l >= slog.LevelInfo:
		return infoColor
	case l <= LevelTrace:
		return traceColor
	default:
		return debugColor
	}
}
