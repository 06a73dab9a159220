package commands

import (
	"errors"
	"fmt"
	"strings"

	"github.com/spf13/cobra"

	"github.com/mmynk/splitsheets/internal/money"
)

func newAllocateCommand() *cobra.Command {
	var total, currency string
	var weights []int64

	cmd := &cobra.Command{
		Use:   "allocate",
		Short: "Split a total into parts proportional to weights",
		Example: `  splitctl allocate --total 10.01 --currency USD --weights 1,1,1
  splitctl allocate --total 1000 --currency JPY --weights 2,1`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			code := strings.ToUpper(currency)
			if err := money.ValidateCurrency(code); err != nil {
				return err
			}
			if len(weights) == 0 {
				return errors.New("at least one weight is required")
			}
			m, err := money.Parse(total, code, money.MinorUnits(code))
			if err != nil {
				return err
			}

			parts, err := money.Allocate(m, weights)
			if err != nil {
				return err
			}
			out := cmd.OutOrStdout()
			for i, part := range parts {
				fmt.Fprintf(out, "%d\t%s\n", weights[i], part)
			}
			return nil
		},
	}

	cmd.Flags().StringVar(&total, "total", "", "amount to split, e.g. 10.01 (required)")
	_ = cmd.MarkFlagRequired("total")
	cmd.Flags().StringVar(&currency, "currency", "USD", "ISO 4217 currency code")
	cmd.Flags().Int64SliceVar(&weights, "weights", nil, "comma-separated non-negative weights")

	return cmd
}
