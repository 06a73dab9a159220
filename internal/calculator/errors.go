package calculator

import (
	"errors"
	"fmt"

	"github.com/shopspring/decimal"

	"github.com/mmynk/splitsheets/internal/money"
)

var (
	ErrInvalidSplit       = errors.New("invalid split")
	ErrUnbalancedLedger   = errors.New("unbalanced ledger")
	ErrUnknownParticipant = errors.New("unknown participant")
	ErrInvalidTransaction = errors.New("invalid transaction")
)

// InvalidSplitError reports split input that does not resolve to shares
// summing to the transaction total. Expected and Actual are in Unit
// (participants, shares, percent or a currency code) so callers can tell the
// user exactly how much to add or remove.
type InvalidSplitError struct {
	Mode     string
	Expected decimal.Decimal
	Actual   decimal.Decimal
	Unit     string

	// Reason is set instead of Expected/Actual when the input is malformed
	// rather than mis-summed.
	Reason string
}

// Difference is Expected minus Actual: positive means "add", negative
// means "remove".
func (e *InvalidSplitError) Difference() decimal.Decimal {
	return e.Expected.Sub(e.Actual)
}

func (e *InvalidSplitError) Error() string {
	if e.Reason != "" {
		return fmt.Sprintf("invalid %s split: %s", e.Mode, e.Reason)
	}
	return fmt.Sprintf("invalid %s split: expected %s %s, got %s (difference %s)",
		e.Mode, e.Expected, e.Unit, e.Actual, e.Difference())
}

func (e *InvalidSplitError) Unwrap() error {
	return ErrInvalidSplit
}

// UnbalancedLedgerError means credits and debits did not cancel out. It can
// only come from corrupt upstream data and must never be swallowed.
type UnbalancedLedgerError struct {
	Credits money.Money
	Debits  money.Money
}

func (e *UnbalancedLedgerError) Error() string {
	return fmt.Sprintf("unbalanced ledger: credits %s, debits %s", e.Credits, e.Debits)
}

func (e *UnbalancedLedgerError) Unwrap() error {
	return ErrUnbalancedLedger
}
