package commands

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/mmynk/splitsheets/internal/calculator"
)

func newSettleCommand() *cobra.Command {
	var file string

	cmd := &cobra.Command{
		Use:   "settle",
		Short: "Suggest the transfers that settle every balance",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			b, err := loadBook(file)
			if err != nil {
				return err
			}
			sums, err := b.summaries()
			if err != nil {
				return err
			}
			transfers, err := calculator.SimplifyDebts(calculator.SortBalances(b.participants, sums))
			if err != nil {
				return err
			}

			out := cmd.OutOrStdout()
			if len(transfers) == 0 {
				fmt.Fprintln(out, "All settled up.")
				return nil
			}
			for _, t := range transfers {
				fmt.Fprintf(out, "%s pays %s %s\n", b.name(t.FromParticipantID), b.name(t.ToParticipantID), t.Money)
			}
			return nil
		},
	}

	cmd.Flags().StringVarP(&file, "file", "f", "ledger.yaml", "ledger file")

	return cmd
}
