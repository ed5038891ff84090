package cli

import (
	"errors"
	"fmt"
	"os"
	"strings"

	"github.com/buildwright/buildwright/pkg/console"
	"github.com/buildwright/buildwright/pkg/logger"
	"github.com/charmbracelet/huh"
	"github.com/goccy/go-yaml"
	"github.com/spf13/cobra"
)

var initLog = logger.New("cli:init")

const configFileHeader = `# Build pipeline configuration.
# Consumed by 'buildwright configure --config <path>'; the tests listed
# here run during 'buildwright test'.
`

type starterTest struct {
	Cmd      []string `yaml:"cmd"`
	Optional bool     `yaml:"optional,omitempty"`
}

type starterConfig struct {
	Tests []starterTest `yaml:"tests,omitempty"`
}

// NewInitCommand creates the init command.
func NewInitCommand() *cobra.Command {
	var (
		force       bool
		useDefaults bool
	)

	cmd := &cobra.Command{
		Use:   "init",
		Short: "Create a starter build configuration file",
		Long: `Create a starter build configuration file for this project. Without
--defaults an interactive form asks for the file location and the test
binaries to declare; the answers become a commented YAML file that
'buildwright configure --config' consumes.

Examples:
  buildwright init
  buildwright init --defaults
  buildwright init --defaults --force`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			configPath := "build-config.yml"
			tests := "unit_tests"

			if !useDefaults && IsRunningInCI() {
				return errors.New("interactive init is not available in CI, use --defaults")
			}

			if !useDefaults {
				// Accessible rendering also covers piped stdin: the
				// full-screen form needs a terminal to drive.
				accessible := console.IsAccessibleMode() || !console.IsTerminal(os.Stdin)
				form := huh.NewForm(
					huh.NewGroup(
						huh.NewInput().
							Title("Where should the configuration live?").
							Description("Path of the YAML file to create").
							Value(&configPath).
							Validate(ValidateConfigPath),
						huh.NewInput().
							Title("Which test binaries does the build produce?").
							Description("Comma separated, relative to the build directory; leave empty for none").
							Value(&tests),
					),
				).WithAccessible(accessible)

				if err := form.Run(); err != nil {
					return fmt.Errorf("init form failed: %w", err)
				}
			}

			if err := ValidateConfigPath(configPath); err != nil {
				return err
			}

			if _, err := os.Stat(configPath); err == nil && !force {
				return fmt.Errorf("%s already exists (use --force to overwrite)", configPath)
			}

			content, err := renderStarterConfig(tests)
			if err != nil {
				return err
			}
			if err := os.WriteFile(configPath, content, 0644); err != nil {
				return fmt.Errorf("failed to write %s: %w", configPath, err)
			}

			initLog.Printf("Wrote starter configuration to %s", configPath)
			display := console.ToRelativePath(configPath)
			fmt.Fprintln(cmd.OutOrStdout(), console.FormatSuccessMessage(fmt.Sprintf("Created %s", display)))
			fmt.Fprintln(cmd.OutOrStdout(), console.FormatInfoMessage(fmt.Sprintf("Configure with: buildwright configure --config %s", display)))
			return nil
		},
	}

	cmd.Flags().BoolVar(&force, "force", false, "Overwrite an existing configuration file")
	cmd.Flags().BoolVar(&useDefaults, "defaults", false, "Skip the form and use the default answers")
	return cmd
}

// renderStarterConfig renders the starter YAML for the given comma
// separated test list.
func renderStarterConfig(tests string) ([]byte, error) {
	cfg := starterConfig{}
	for _, name := range strings.Split(tests, ",") {
		if name = strings.TrimSpace(name); name != "" {
			cfg.Tests = append(cfg.Tests, starterTest{Cmd: []string{name}})
		}
	}

	body, err := yaml.Marshal(cfg)
	if err != nil {
		return nil, fmt.Errorf("failed to render the configuration: %w", err)
	}
	return append([]byte(configFileHeader), body...), nil
}
