// Package platforms implements the platforms command, listing the
// supported publishing platforms.
package platforms

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/minkyu-dev/blogcrawl/internal/platform"
)

// Command returns the platforms command for use in the root command.
func Command() *cobra.Command {
	return &cobra.Command{
		Use:   "platforms",
		Short: "List supported platforms",
		RunE: func(cmd *cobra.Command, args []string) error {
			for _, name := range platform.Names() {
				fmt.Fprintln(cmd.OutOrStdout(), name)
			}
			return nil
		},
	}
}
