package commands

import (
	"fmt"
	"text/tabwriter"

	"github.com/spf13/cobra"
)

func newBalancesCommand() *cobra.Command {
	var file string

	cmd := &cobra.Command{
		Use:   "balances",
		Short: "Show what each participant spent, cost and is owed",
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

			w := tabwriter.NewWriter(cmd.OutOrStdout(), 0, 0, 2, ' ', tabwriter.AlignRight)
			fmt.Fprintln(w, "PARTICIPANT\tSPENT\tCOST\tBALANCE\t")
			for _, p := range b.participants {
				s := sums[p.ID]
				fmt.Fprintf(w, "%s\t%s\t%s\t%s\t\n", b.name(p.ID), s.Spent, s.Cost, s.Balance)
			}
			return w.Flush()
		},
	}

	cmd.Flags().StringVarP(&file, "file", "f", "ledger.yaml", "ledger file")

	return cmd
}
