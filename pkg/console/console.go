// Package console provides user-facing terminal formatting: status messages
// with colored icons, command echoes, and table rendering.
//
// Informational output belongs on stderr so that stdout stays reserved for
// the workflow-command protocol and captured command output; callers pick
// the stream, this package only formats.
package console

import (
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/fatih/color"
)

var (
	infoColor    = color.New(color.FgCyan)
	warningColor = color.New(color.FgYellow)
	successColor = color.New(color.FgGreen)
	errorColor   = color.New(color.FgRed)
	commandColor = color.New(color.FgCyan, color.Bold)
)

// FormatInfoMessage formats an informational message with the info icon.
func FormatInfoMessage(message string) string {
	return infoColor.Sprintf("ℹ %s", message)
}

// FormatWarningMessage formats a warning message with the warning icon.
func FormatWarningMessage(message string) string {
	return warningColor.Sprintf("⚠ %s", message)
}

// FormatSuccessMessage formats a success message with a checkmark icon.
func FormatSuccessMessage(message string) string {
	return successColor.Sprintf("✓ %s", message)
}

// FormatErrorMessage formats an error message with a cross icon.
func FormatErrorMessage(message string) string {
	return errorColor.Sprintf("✗ %s", message)
}

// FormatCommandMessage formats a command line, either one about to be
// executed or one suggested to the user. The text itself is unchanged so
// log consumers that match on command lines still recognize it.
func FormatCommandMessage(command string) string {
	return commandColor.Sprint(command)
}

// FormatErrorWithSuggestions formats an error message followed by a bulleted
// list of suggestions. With no suggestions it degrades to FormatErrorMessage.
func FormatErrorWithSuggestions(message string, suggestions []string) string {
	var b strings.Builder
	b.WriteString(FormatErrorMessage(message))
	if len(suggestions) > 0 {
		b.WriteString("\n\nSuggestions:\n")
		for _, suggestion := range suggestions {
			fmt.Fprintf(&b, "  • %s\n", suggestion)
		}
	}
	return b.String()
}

// ToRelativePath converts an absolute path into a path relative to the
// current working directory when possible. Relative paths pass through
// unchanged, as do paths that cannot be made relative.
func ToRelativePath(path string) string {
	if !filepath.IsAbs(path) {
		return path
	}
	cwd, err := os.Getwd()
	if err != nil {
		return path
	}
	if rel, err := filepath.Rel(cwd, path); err == nil {
		return rel
	}
	return path
}
