// Package commands implements splitctl, an offline companion to the server
// that runs the expense engine over a YAML ledger file.
package commands

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/mmynk/splitsheets/internal/buildinfo"
)

// NewRootCommand creates the root CLI command with all subcommands registered.
func NewRootCommand() *cobra.Command {
	rootCmd := &cobra.Command{
		Use:     "splitctl",
		Short:   "Split expenses and settle up from a ledger file",
		Version: fmt.Sprintf("%s (commit: %s)", buildinfo.Version, buildinfo.Commit),
		CompletionOptions: cobra.CompletionOptions{
			DisableDefaultCmd: true,
		},
		SilenceUsage: true,
	}

	rootCmd.AddCommand(newAllocateCommand())
	rootCmd.AddCommand(newBalancesCommand())
	rootCmd.AddCommand(newSettleCommand())

	return rootCmd
}
