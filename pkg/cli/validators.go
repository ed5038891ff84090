package cli

import (
	"errors"
	"fmt"
	"regexp"
	"strings"

	"github.com/buildwright/buildwright/pkg/logger"
)

var validatorsLog = logger.New("cli:validators")

// buildDefRegex validates cmake cache definitions: NAME, NAME=VALUE or
// NAME:TYPE=VALUE.
var buildDefRegex = regexp.MustCompile(`^[A-Za-z_][A-Za-z0-9_-]*(:[A-Za-z]+)?(=.*)?$`)

// ValidateBuildDef checks that a -D definition is something cmake will
// accept.
func ValidateBuildDef(s string) error {
	validatorsLog.Printf("Validating build definition: %s", s)
	if s == "" {
		return errors.New("build definition cannot be empty")
	}
	if !buildDefRegex.MatchString(s) {
		validatorsLog.Printf("Build definition validation failed: %s", s)
		return fmt.Errorf("invalid build definition %q: expected NAME, NAME=VALUE or NAME:TYPE=VALUE", s)
	}
	return nil
}

// ValidateConfigPath checks that a configuration file path has one of the
// supported extensions.
func ValidateConfigPath(s string) error {
	validatorsLog.Printf("Validating configuration path: %s", s)
	if strings.TrimSpace(s) == "" {
		return errors.New("configuration path cannot be empty")
	}
	for _, ext := range []string{".yml", ".yaml", ".json"} {
		if strings.HasSuffix(s, ext) {
			return nil
		}
	}
	validatorsLog.Printf("Configuration path validation failed: %s", s)
	return errors.New("configuration path must end in .yml, .yaml or .json")
}
