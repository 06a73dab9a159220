package service

import (
	"context"
	"fmt"

	"github.com/mmynk/splitsheets/internal/auth"
	"github.com/mmynk/splitsheets/internal/middleware"
	"github.com/mmynk/splitsheets/internal/models"
	"github.com/mmynk/splitsheets/internal/storage"
)

// sheetAccess is a sheet as seen by the calling user.
type sheetAccess struct {
	sheet        *models.Sheet
	participants []models.Participant
	caller       models.Participant
}

// loadSheet fetches a sheet with its participants and checks that the
// caller takes part in it.
func loadSheet(ctx context.Context, store storage.SheetStore, sheetID string) (*sheetAccess, error) {
	userID := middleware.GetUserID(ctx)
	if userID == "" {
		return nil, auth.ErrMissingToken
	}
	if sheetID == "" {
		return nil, invalidArgument("sheet_id is required")
	}

	sheet, err := store.GetSheet(ctx, sheetID)
	if err != nil {
		return nil, err
	}
	participants, err := store.ListParticipants(ctx, sheetID)
	if err != nil {
		return nil, err
	}

	a := &sheetAccess{sheet: sheet, participants: participants}
	caller, ok := a.participantForUser(userID)
	if !ok {
		return nil, errNotMember
	}
	a.caller = caller
	return a, nil
}

func (a *sheetAccess) participantForUser(userID string) (models.Participant, bool) {
	for _, p := range a.participants {
		if p.UserID == userID {
			return p, true
		}
	}
	return models.Participant{}, false
}

func (a *sheetAccess) has(participantID string) bool {
	for _, p := range a.participants {
		if p.ID == participantID {
			return true
		}
	}
	return false
}

// requireParticipants checks that every id names a participant of the sheet.
func (a *sheetAccess) requireParticipants(ids ...string) error {
	for _, id := range ids {
		if !a.has(id) {
			return invalidArgument("%q is not a participant of sheet %s", id, a.sheet.ID)
		}
	}
	return nil
}

func (a *sheetAccess) requireAdmin() error {
	if !a.caller.IsAdmin {
		return errNotAdmin
	}
	return nil
}

// requireWritable rejects changes to archived sheets.
func (a *sheetAccess) requireWritable() error {
	if a.sheet.Archived() {
		return fmt.Errorf("%w: restore it first", errArchived)
	}
	return nil
}
