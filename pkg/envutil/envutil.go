// Package envutil reads typed override values from the environment.
package envutil

import (
	"fmt"
	"os"
	"strconv"

	"github.com/buildwright/buildwright/pkg/console"
	"github.com/buildwright/buildwright/pkg/logger"
)

var envLog = logger.New("envutil:envutil")

// IntInRange reads an integer from the named environment variable,
// accepting values in [minValue, maxValue]. Unset variables silently fall
// back to def; unparsable or out-of-range values also fall back but warn
// on stderr so a mistyped override is visible in the CI transcript.
func IntInRange(name string, def, minValue, maxValue int) int {
	raw := os.Getenv(name)
	if raw == "" {
		return def
	}

	val, err := strconv.Atoi(raw)
	if err != nil {
		fmt.Fprintln(os.Stderr, console.FormatWarningMessage(
			fmt.Sprintf("Invalid %s value '%s' (must be a number), using default %d", name, raw, def),
		))
		return def
	}

	if val < minValue || val > maxValue {
		fmt.Fprintln(os.Stderr, console.FormatWarningMessage(
			fmt.Sprintf("%s value %d is out of bounds (must be %d-%d), using default %d", name, val, minValue, maxValue, def),
		))
		return def
	}

	envLog.Printf("Using %s=%d", name, val)
	return val
}
