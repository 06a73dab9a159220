package models

// SheetType distinguishes a private ledger from a shared one.
type SheetType string

const (
	SheetTypePersonal SheetType = "PERSONAL"
	SheetTypeGroup    SheetType = "GROUP"
)

// Valid reports whether t is a known sheet type.
func (t SheetType) Valid() bool {
	return t == SheetTypePersonal || t == SheetTypeGroup
}

// Sheet is a ledger of transactions kept in one currency.
type Sheet struct {
	// ID is the unique identifier for the sheet (UUID format).
	ID string

	Type SheetType

	// Name is the display name (e.g., "Roommates", "Trip to Lisbon").
	Name string

	// CurrencyCode is the ISO 4217 code every transaction on the sheet uses.
	CurrencyCode string

	// Scale is the number of fractional digits amounts are stored with,
	// normally money.MinorUnits(CurrencyCode).
	Scale int32

	// CreatedBy is the user ID of the creator.
	CreatedBy string

	// ArchivedAt is the Unix timestamp the sheet was archived at, 0 if active.
	// Archived sheets are hidden from active views but keep their transactions.
	ArchivedAt int64

	// CreatedAt is the Unix timestamp when the sheet was created.
	CreatedAt int64
}

// Archived reports whether the sheet is hidden from active views.
func (s Sheet) Archived() bool {
	return s.ArchivedAt != 0
}

// Participant is a member of a sheet. Personal sheets have exactly one,
// implicit participant: the owner.
type Participant struct {
	ID      string
	SheetID string
	Name    string

	// UserID links the participant to a registered account. Empty for
	// people who were added by name only.
	UserID string

	// IsAdmin participants may archive or delete the sheet.
	IsAdmin bool

	CreatedAt int64
}

// SheetSnapshot is a consistent view of a sheet read in a single storage
// transaction. It is the balance calculator's input.
type SheetSnapshot struct {
	Sheet        Sheet
	Participants []Participant
	Transactions []Transaction
}

// Participant returns the participant with the given ID.
func (s *SheetSnapshot) Participant(id string) (Participant, bool) {
	for _, p := range s.Participants {
		if p.ID == id {
			return p, true
		}
	}
	return Participant{}, false
}

// ParticipantForUser returns the participant linked to userID.
func (s *SheetSnapshot) ParticipantForUser(userID string) (Participant, bool) {
	if userID == "" {
		return Participant{}, false
	}
	for _, p := range s.Participants {
		if p.UserID == userID {
			return p, true
		}
	}
	return Participant{}, false
}
