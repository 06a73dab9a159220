package models

import "github.com/mmynk/splitsheets/internal/money"

// Settlement is a suggested payment between participants to clear debts.
// It is derived, not stored: confirming it records a TRANSFER transaction.
type Settlement struct {
	// FromParticipantID is the participant who pays (debtor settling up).
	FromParticipantID string

	// ToParticipantID is the participant who receives (creditor being paid).
	ToParticipantID string

	Money money.Money
}
