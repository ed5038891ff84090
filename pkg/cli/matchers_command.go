package cli

import (
	"fmt"
	"strings"

	"github.com/buildwright/buildwright/pkg/console"
	"github.com/buildwright/buildwright/pkg/matcher"
	"github.com/spf13/cobra"
)

// NewMatchersCommand creates the matchers command.
func NewMatchersCommand() *cobra.Command {
	return &cobra.Command{
		Use:   "matchers",
		Short: "List the available problem matchers",
		Long: `List the problem matchers the pipeline can register, the phase scope each
one activates in, and the owner tags used when they are removed again.

Pass these names to --problem-matcher as a comma separated list, or use
"auto" to select the matchers that fit the chosen diagnostics mode.`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			defs := matcher.Definitions()
			rows := make([][]string, len(defs))
			for i, def := range defs {
				rows[i] = []string{def.Name, string(def.Scope), strings.Join(def.Provides, ", ")}
			}

			fmt.Fprintln(cmd.OutOrStdout(), console.RenderTable(console.TableConfig{
				Title:   "Problem matchers",
				Headers: []string{"Name", "Scope", "Owners"},
				Rows:    rows,
			}))
			return nil
		},
	}
}
