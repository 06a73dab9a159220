package calculator

import (
	"fmt"

	"github.com/mmynk/splitsheets/internal/models"
	"github.com/mmynk/splitsheets/internal/money"
)

// Summary is one participant's position on a sheet.
type Summary struct {
	// Spent is the cash the participant laid out on expenses they paid for.
	Spent money.Money
	// Cost is the sum of the participant's own expense shares, whoever paid.
	Cost money.Money
	// Balance is positive when the group owes the participant money and
	// negative when the participant owes the group.
	Balance money.Money
}

// ParticipantBalance is a participant's net balance, the simplifier's input.
type ParticipantBalance struct {
	ParticipantID string
	Balance       money.Money
}

// ComputeBalances folds the transactions of one sheet into a Summary per
// participant. Every participant gets an entry, zero if they took part in
// nothing. The fold is commutative, so transaction order does not matter,
// and it is recomputed from scratch on every call.
//
// Effect on Balance per transaction type:
//   - EXPENSE: payer +money, every split participant -share
//   - INCOME: receiver -money, every split participant +share
//   - TRANSFER: sender +money, recipient -money (paying clears a debt)
//
// For any valid transaction set the balances sum to zero.
func ComputeBalances(currency string, scale int32, transactions []models.Transaction, participants []models.Participant) (map[string]Summary, error) {
	zero := money.New(0, scale, currency)
	acc := make(map[string]*Summary, len(participants))
	for _, p := range participants {
		acc[p.ID] = &Summary{Spent: zero, Cost: zero, Balance: zero}
	}
	lookup := func(id string) (*Summary, error) {
		s, ok := acc[id]
		if !ok {
			return nil, fmt.Errorf("%w: %q", ErrUnknownParticipant, id)
		}
		return s, nil
	}

	for _, tx := range transactions {
		if tx.Money.Currency != currency {
			return nil, fmt.Errorf("transaction %s: %w: %q and %q", tx.ID, money.ErrCurrencyMismatch, tx.Money.Currency, currency)
		}
		var err error
		switch tx.Type {
		case models.TransactionTypeExpense:
			err = applyShared(tx, lookup, 1)
		case models.TransactionTypeIncome:
			err = applyShared(tx, lookup, -1)
		case models.TransactionTypeTransfer:
			err = applyTransfer(tx, lookup)
		default:
			err = fmt.Errorf("%w: unknown type %q", ErrInvalidTransaction, tx.Type)
		}
		if err != nil {
			return nil, fmt.Errorf("transaction %s: %w", tx.ID, err)
		}
	}

	// Shares stored at a finer scale than the sheet widen every summary, so
	// all participants are reported at one common scale.
	common := scale
	for _, s := range acc {
		common = max(common, s.Spent.Scale, s.Cost.Scale, s.Balance.Scale)
	}
	out := make(map[string]Summary, len(acc))
	for id, s := range acc {
		spent, err := s.Spent.Rescale(common)
		if err != nil {
			return nil, err
		}
		cost, err := s.Cost.Rescale(common)
		if err != nil {
			return nil, err
		}
		balance, err := s.Balance.Rescale(common)
		if err != nil {
			return nil, err
		}
		out[id] = Summary{Spent: spent, Cost: cost, Balance: balance}
	}
	return out, nil
}

// applyShared books an EXPENSE (sign 1) or INCOME (sign -1).
func applyShared(tx models.Transaction, lookup func(string) (*Summary, error), sign int) error {
	if len(tx.Splits) == 0 {
		return fmt.Errorf("%w: %s without splits", ErrInvalidTransaction, tx.Type)
	}
	if err := checkSplitTotal(tx); err != nil {
		return err
	}
	payer, err := lookup(tx.PaidOrReceivedByID)
	if err != nil {
		return err
	}

	amount := tx.Money
	if sign < 0 {
		amount = amount.Negate()
	}
	if err := addTo(&payer.Balance, amount); err != nil {
		return err
	}
	if sign > 0 {
		if err := addTo(&payer.Spent, tx.Money); err != nil {
			return err
		}
	}

	for _, split := range tx.Splits {
		s, err := lookup(split.ParticipantID)
		if err != nil {
			return err
		}
		share := split.Share
		if sign > 0 {
			if err := addTo(&s.Cost, share); err != nil {
				return err
			}
			share = share.Negate()
		}
		if err := addTo(&s.Balance, share); err != nil {
			return err
		}
	}
	return nil
}

func applyTransfer(tx models.Transaction, lookup func(string) (*Summary, error)) error {
	if len(tx.Splits) != 0 {
		return fmt.Errorf("%w: TRANSFER with splits", ErrInvalidTransaction)
	}
	if tx.FromID == tx.ToID {
		return fmt.Errorf("%w: TRANSFER from %q to itself", ErrInvalidTransaction, tx.FromID)
	}
	from, err := lookup(tx.FromID)
	if err != nil {
		return err
	}
	to, err := lookup(tx.ToID)
	if err != nil {
		return err
	}
	if err := addTo(&from.Balance, tx.Money); err != nil {
		return err
	}
	return addTo(&to.Balance, tx.Money.Negate())
}

// checkSplitTotal verifies the stored shares still add up to the total.
func checkSplitTotal(tx models.Transaction) error {
	sum := money.Zero(tx.Money.Currency)
	for _, split := range tx.Splits {
		var err error
		if sum, err = sum.Add(split.Share); err != nil {
			return err
		}
	}
	if !sum.Equal(tx.Money) {
		return &InvalidSplitError{
			Mode:     string(tx.Type),
			Expected: tx.Money.Decimal(),
			Actual:   sum.Decimal(),
			Unit:     tx.Money.Currency,
		}
	}
	return nil
}

func addTo(dst *money.Money, m money.Money) error {
	v, err := dst.Add(m)
	if err != nil {
		return err
	}
	*dst = v
	return nil
}

// SortBalances lists net balances in participant order, the stable order the
// simplifier breaks ties by.
func SortBalances(participants []models.Participant, summaries map[string]Summary) []ParticipantBalance {
	out := make([]ParticipantBalance, 0, len(participants))
	for _, p := range participants {
		if s, ok := summaries[p.ID]; ok {
			out = append(out, ParticipantBalance{ParticipantID: p.ID, Balance: s.Balance})
		}
	}
	return out
}

// CheckZeroSum verifies that balances cancel out.
func CheckZeroSum(currency string, summaries map[string]Summary) error {
	credits, debits := money.Zero(currency), money.Zero(currency)
	for _, s := range summaries {
		var err error
		switch s.Balance.Sign() {
		case 1:
			credits, err = credits.Add(s.Balance)
		case -1:
			debits, err = debits.Add(s.Balance.Abs())
		}
		if err != nil {
			return err
		}
	}
	if !credits.Equal(debits) {
		return &UnbalancedLedgerError{Credits: credits, Debits: debits}
	}
	return nil
}
