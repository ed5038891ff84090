package cli

import (
	"os"

	"github.com/buildwright/buildwright/pkg/logger"
)

var ciLog = logger.New("cli:ci")

// ciEnvVars are the markers CI systems conventionally export.
var ciEnvVars = []string{"CI", "CONTINUOUS_INTEGRATION", "GITHUB_ACTIONS"}

// IsRunningInCI reports whether a CI environment marker is set. Commands
// that would prompt interactively check this to fail fast instead of
// hanging a non-interactive job.
func IsRunningInCI() bool {
	for _, v := range ciEnvVars {
		if os.Getenv(v) != "" {
			ciLog.Printf("CI environment detected via %s", v)
			return true
		}
	}
	ciLog.Print("No CI environment detected")
	return false
}

// IsRunningInGitHubActions reports whether this is the GitHub Actions
// runner specifically; workflow commands and forced colors only make
// sense there.
func IsRunningInGitHubActions() bool {
	return os.Getenv("GITHUB_ACTIONS") != ""
}
