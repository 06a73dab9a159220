package calculator

import (
	"fmt"
	"slices"

	"github.com/mmynk/splitsheets/internal/models"
	"github.com/mmynk/splitsheets/internal/money"
)

// SettlementCategory is the category of transfers recorded from settlement
// suggestions.
const SettlementCategory = "settlement"

type position struct {
	id        string
	remaining int64 // always positive
}

// SimplifyDebts turns net balances into transfers that bring every balance
// to exactly zero.
//
// Algorithm: greedy largest-first matching. Repeatedly pair the creditor
// owed the most with the debtor owing the most (earlier input entries win
// ties), move the smaller of the two amounts, and drop whoever reaches zero.
// Every step clears at least one participant, so at most len(balances)-1
// transfers are emitted.
//
// Credits and debits that do not cancel out fail with *UnbalancedLedgerError
// instead of producing wrong transfers.
func SimplifyDebts(balances []ParticipantBalance) ([]models.Settlement, error) {
	if len(balances) == 0 {
		return nil, nil
	}
	currency := balances[0].Balance.Currency
	scale := int32(0)
	for _, b := range balances {
		if b.Balance.Currency != currency {
			return nil, fmt.Errorf("participant %q: %w: %q and %q", b.ParticipantID, money.ErrCurrencyMismatch, b.Balance.Currency, currency)
		}
		scale = max(scale, b.Balance.Scale)
	}

	var creditors, debtors []*position
	credits, debits := money.New(0, scale, currency), money.New(0, scale, currency)
	for _, b := range balances {
		bal, err := b.Balance.Rescale(scale)
		if err != nil {
			return nil, err
		}
		switch bal.Sign() {
		case 1:
			creditors = append(creditors, &position{id: b.ParticipantID, remaining: bal.Amount})
			credits, err = credits.Add(bal)
		case -1:
			debtors = append(debtors, &position{id: b.ParticipantID, remaining: -bal.Amount})
			debits, err = debits.Add(bal.Abs())
		}
		if err != nil {
			return nil, err
		}
	}
	if !credits.Equal(debits) {
		return nil, &UnbalancedLedgerError{Credits: credits, Debits: debits}
	}

	var transfers []models.Settlement
	for len(creditors) > 0 && len(debtors) > 0 {
		ci, di := largest(creditors), largest(debtors)
		c, d := creditors[ci], debtors[di]

		amount := min(c.remaining, d.remaining)
		if amount > 0 {
			transfers = append(transfers, models.Settlement{
				FromParticipantID: d.id,
				ToParticipantID:   c.id,
				Money:             money.New(amount, scale, currency),
			})
		}
		c.remaining -= amount
		d.remaining -= amount

		if c.remaining == 0 {
			creditors = slices.Delete(creditors, ci, ci+1)
		}
		if d.remaining == 0 {
			debtors = slices.Delete(debtors, di, di+1)
		}
	}
	return transfers, nil
}

// largest returns the index of the biggest remaining amount, the earliest one
// on ties.
func largest(ps []*position) int {
	best := 0
	for i, p := range ps {
		if p.remaining > ps[best].remaining {
			best = i
		}
	}
	return best
}

// SettlementTransaction builds the TRANSFER recorded when a suggestion is
// confirmed.
func SettlementTransaction(sheetID string, s models.Settlement) models.Transaction {
	return models.Transaction{
		SheetID:     sheetID,
		Type:        models.TransactionTypeTransfer,
		Money:       s.Money,
		Description: "Settle up",
		Category:    SettlementCategory,
		FromID:      s.FromParticipantID,
		ToID:        s.ToParticipantID,
	}
}
