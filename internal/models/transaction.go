package models

import "github.com/mmynk/splitsheets/internal/money"

// TransactionType is the kind of a recorded transaction.
type TransactionType string

const (
	TransactionTypeExpense  TransactionType = "EXPENSE"
	TransactionTypeIncome   TransactionType = "INCOME"
	TransactionTypeTransfer TransactionType = "TRANSFER"
)

// Valid reports whether t is a known transaction type.
func (t TransactionType) Valid() bool {
	switch t {
	case TransactionTypeExpense, TransactionTypeIncome, TransactionTypeTransfer:
		return true
	}
	return false
}

// Transaction is an immutable entry on a sheet.
//
// EXPENSE and INCOME carry a payer (or receiver) and splits whose shares sum
// exactly to Money. TRANSFER moves Money from FromID to ToID and has no splits.
type Transaction struct {
	// ID is the unique identifier for the transaction (UUID format).
	ID      string
	SheetID string
	Type    TransactionType
	Money   money.Money

	// SpentAt is the Unix timestamp the money changed hands.
	SpentAt     int64
	Description string
	Category    string

	// PaidOrReceivedByID is the participant who paid an EXPENSE or received
	// an INCOME.
	PaidOrReceivedByID string

	// Splits apportion an EXPENSE or INCOME between participants.
	Splits []Split

	// FromID and ToID are set for TRANSFER only.
	FromID string
	ToID   string

	// CreatedBy is the user ID who recorded the transaction.
	CreatedBy string
	CreatedAt int64
}

// Split is one participant's share of an EXPENSE or INCOME.
type Split struct {
	ParticipantID string
	Share         money.Money
}
