// Package detector provides terminal detection for client output coloring.
package detector

import (
	"io"
	"os"

	"golang.org/x/term"
)

// ColorMode selects whether client output is colored.
type ColorMode int

const (
	// ColorAuto colors output written to a terminal unless NO_COLOR is set.
	ColorAuto ColorMode = iota
	// ColorAlways forces colors.
	ColorAlways
	// ColorNever disables colors.
	ColorNever
)

// IsTerminal reports whether w is a file attached to a terminal.
func IsTerminal(w io.Writer) bool {
	f, ok := w.(*os.File)
	if !ok {
		return false
	}
	return term.IsTerminal(int(f.Fd())) //nolint:gosec // fd fits in int
}

// DetectColor returns the automatic choice for w.
func DetectColor(w io.Writer) ColorMode {
	if os.Getenv("NO_COLOR") != "" || !IsTerminal(w) {
		return ColorNever
	}
	return ColorAlways
}

// ResolveColor applies the user's --color flag to auto-detection.
// userFlag should be one of: "auto", "always", "never", or empty.
func ResolveColor(autoDetected ColorMode, userFlag string) ColorMode {
	switch userFlag {
	case "always":
		return ColorAlways
	case "never":
		return ColorNever
	default:
		return autoDetected
	}
}

// UseColor reports whether output to w should be colored given the --color flag.
func UseColor(w io.Writer, userFlag string) bool {
	return ResolveColor(DetectColor(w), userFlag) == ColorAlways
}
