//go:build !integration

package console

import (
	"os"
	"testing"

	"github.com/fatih/color"
	"github.com/stretchr/testify/assert"
)

func TestIsTerminalOnPipe(t *testing.T) {
	// Test processes run with stdout/stderr redirected, and a plain pipe is
	// definitely not a terminal either way.
	r, w, err := os.Pipe()
	if err != nil {
		t.Fatalf("Failed to create pipe: %v", err)
	}
	defer r.Close()
	defer w.Close()

	assert.False(t, IsTerminal(w), "a pipe should not be detected as a terminal")
}

func TestIsAccessibleMode(t *testing.T) {
	t.Run("disabled by default", func(t *testing.T) {
		t.Setenv("ACCESSIBLE", "")
		assert.False(t, IsAccessibleMode())
	})

	t.Run("enabled via environment", func(t *testing.T) {
		t.Setenv("ACCESSIBLE", "1")
		assert.True(t, IsAccessibleMode())
	})
}

func TestForceColors(t *testing.T) {
	original := color.NoColor
	defer func() { color.NoColor = original }()

	color.NoColor = true
	ForceColors()
	assert.False(t, color.NoColor, "ForceColors should re-enable color output")
}
