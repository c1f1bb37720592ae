package logging

import (
	"io"
	"os"

	"golang.org/x/term"
)

// IsTTY reports whether w is a terminal. Anything with an Fd method is
// checked, so *os.File and wrappers around it work.
func IsTTY(w io.Writer) bool {
	f, ok := w.(interface{ Fd() uintptr })
	return ok && term.IsTerminal(int(f.Fd()))
}

// colorEnabled decides whether the text handler colors output written to w.
func colorEnabled(w io.Writer) bool {
	return colorFor(IsTTY(w), os.LookupEnv)
}

// colorFor applies the NO_COLOR and FORCE_COLOR conventions. TERM=dumb
// disables color as well.
func colorFor(tty bool, lookup func(string) (string, bool)) bool {
	if _, ok := lookup("NO_COLOR"); ok {
		return false
	}
	if v, _ := lookup("TERM"); v == "dumb" {
		return false
	}
	if v, ok := lookup("FORCE_COLOR"); ok && v != "" && v != "0" {
		return true
	}
	return tty
}
