package console

import (
	"os"

	"github.com/fatih/color"
	"golang.org/x/term"
)

// IsTerminal reports whether the given file is attached to a terminal.
func IsTerminal(f *os.File) bool {
	return term.IsTerminal(int(f.Fd()))
}

// IsAccessibleMode reports whether accessible prompt rendering was requested
// via the ACCESSIBLE environment variable.
func IsAccessibleMode() bool {
	return os.Getenv("ACCESSIBLE") != ""
}

// ForceColors enables ANSI color output even when stdout is not a terminal.
// The GitHub Actions log renderer understands ANSI escapes, so command
// echoes and status icons keep their colors in CI logs.
func ForceColors() {
	color.NoColor = false
}
