package api

import "github.com/mmynk/splitsheets/internal/models"

// UserFromModel converts a stored user to its wire form. The password hash is never sent.
func UserFromModel(u *models.User) *User {
	return &User{
		ID:          u.ID,
		Email:       u.Email,
		DisplayName: u.DisplayName,
		CreatedAt:   u.CreatedAt,
	}
}

// SheetFromModel converts a sheet to its wire form.
func SheetFromModel(s *models.Sheet) *Sheet {
	return &Sheet{
		ID:           s.ID,
		Type:         string(s.Type),
		Name:         s.Name,
		CurrencyCode: s.CurrencyCode,
		Scale:        s.Scale,
		CreatedBy:    s.CreatedBy,
		ArchivedAt:   s.ArchivedAt,
		CreatedAt:    s.CreatedAt,
	}
}

// ParticipantsFromModel converts participants, keeping their order.
func ParticipantsFromModel(ps []models.Participant) []*Participant {
	out := make([]*Participant, len(ps))
	for i, p := range ps {
		out[i] = &Participant{ID: p.ID, Name: p.Name, UserID: p.UserID, IsAdmin: p.IsAdmin}
	}
	return out
}

// SplitsFromModel converts resolved splits, keeping their order.
func SplitsFromModel(splits []models.Split) []Split {
	out := make([]Split, len(splits))
	for i, s := range splits {
		out[i] = Split{ParticipantID: s.ParticipantID, Share: s.Share}
	}
	return out
}

// TransactionFromModel converts a transaction with its splits.
func TransactionFromModel(t *models.Transaction) *Transaction {
	tx := &Transaction{
		ID:                 t.ID,
		SheetID:            t.SheetID,
		Type:               string(t.Type),
		Money:              t.Money,
		SpentAt:            t.SpentAt,
		Description:        t.Description,
		Category:           t.Category,
		PaidOrReceivedByID: t.PaidOrReceivedByID,
		FromID:             t.FromID,
		ToID:               t.ToID,
		CreatedBy:          t.CreatedBy,
		CreatedAt:          t.CreatedAt,
	}
	if len(t.Splits) > 0 {
		tx.Splits = SplitsFromModel(t.Splits)
	}
	return tx
}
