package service

import (
	"context"
	"errors"
	"log/slog"
	"strings"
	"time"

	"connectrpc.com/connect"

	"github.com/mmynk/splitsheets/internal/api"
	"github.com/mmynk/splitsheets/internal/auth"
	"github.com/mmynk/splitsheets/internal/middleware"
	"github.com/mmynk/splitsheets/internal/models"
	"github.com/mmynk/splitsheets/internal/money"
	"github.com/mmynk/splitsheets/internal/storage"
)

// SheetService implements the SheetService RPC interface.
type SheetService struct {
	store  storage.Store
	logger *slog.Logger
}

// NewSheetService creates a new SheetService with the given storage backend.
func NewSheetService(store storage.Store, logger *slog.Logger) *SheetService {
	return &SheetService{store: store, logger: logger}
}

// CreateSheet creates a sheet owned by the caller. A PERSONAL sheet gets the
// owner as its only participant; a GROUP sheet gets the owner as admin plus
// the listed members.
func (s *SheetService) CreateSheet(ctx context.Context, req *connect.Request[api.CreateSheetRequest]) (*connect.Response[api.CreateSheetResponse], error) {
	userID := middleware.GetUserID(ctx)
	if userID == "" {
		return nil, connect.NewError(connect.CodeUnauthenticated, auth.ErrMissingToken)
	}
	s.logger.Info("CreateSheet request", "user_id", userID, "type", req.Msg.Type, "members_count", len(req.Msg.Members))

	sheetType := models.SheetType(strings.ToUpper(req.Msg.Type))
	if !sheetType.Valid() {
		return nil, invalidArgument("unknown sheet type %q", req.Msg.Type)
	}
	name := strings.TrimSpace(req.Msg.Name)
	if name == "" {
		return nil, invalidArgument("sheet name is required")
	}
	currency := strings.ToUpper(strings.TrimSpace(req.Msg.CurrencyCode))
	if err := money.ValidateCurrency(currency); err != nil {
		return nil, toConnectError(err)
	}
	if sheetType == models.SheetTypePersonal && len(req.Msg.Members) > 0 {
		return nil, invalidArgument("personal sheets cannot have members")
	}

	owner, err := s.store.GetUserByID(ctx, userID)
	if err != nil {
		s.logger.Error("CreateSheet failed to load owner", "user_id", userID, "error", err)
		return nil, toConnectError(err)
	}

	participants := []*models.Participant{{Name: owner.DisplayName, UserID: owner.ID, IsAdmin: true}}
	linked := map[string]bool{owner.ID: true}
	for _, m := range req.Msg.Members {
		p, err := s.resolveParticipant(ctx, m)
		if err != nil {
			return nil, err
		}
		if p.UserID != "" {
			if linked[p.UserID] {
				return nil, invalidArgument("%s is listed twice", m.UserEmail)
			}
			linked[p.UserID] = true
		}
		participants = append(participants, p)
	}

	sheet := &models.Sheet{
		Type:         sheetType,
		Name:         name,
		CurrencyCode: currency,
		Scale:        money.MinorUnits(currency),
		CreatedBy:    userID,
	}
	if err := s.store.CreateSheet(ctx, sheet, participants); err != nil {
		s.logger.Error("CreateSheet failed", "error", err)
		return nil, toConnectError(err)
	}

	s.logger.Info("Sheet created", "sheet_id", sheet.ID, "participants", len(participants))

	out := make([]models.Participant, len(participants))
	for i, p := range participants {
		out[i] = *p
	}
	return connect.NewResponse(&api.CreateSheetResponse{
		Sheet:        api.SheetFromModel(sheet),
		Participants: api.ParticipantsFromModel(out),
	}), nil
}

// resolveParticipant turns a request entry into an unsaved participant,
// linking it to the account registered under UserEmail if one is given.
func (s *SheetService) resolveParticipant(ctx context.Context, np api.NewParticipant) (*models.Participant, error) {
	p := &models.Participant{Name: strings.TrimSpace(np.Name)}
	if email := strings.TrimSpace(np.UserEmail); email != "" {
		user, err := s.store.GetUserByEmail(ctx, email)
		if errors.Is(err, storage.ErrNotFound) {
			return nil, invalidArgument("no account registered for %s", email)
		}
		if err != nil {
			return nil, toConnectError(err)
		}
		p.UserID = user.ID
		if p.Name == "" {
			p.Name = user.DisplayName
		}
	}
	if p.Name == "" {
		return nil, invalidArgument("participant name is required")
	}
	return p, nil
}

// GetSheet returns a sheet and its participants.
func (s *SheetService) GetSheet(ctx context.Context, req *connect.Request[api.GetSheetRequest]) (*connect.Response[api.GetSheetResponse], error) {
	a, err := loadSheet(ctx, s.store, req.Msg.SheetID)
	if err != nil {
		return nil, toConnectError(err)
	}
	return connect.NewResponse(&api.GetSheetResponse{
		Sheet:        api.SheetFromModel(a.sheet),
		Participants: api.ParticipantsFromModel(a.participants),
	}), nil
}

// ListSheets returns the sheets the caller takes part in, newest first.
func (s *SheetService) ListSheets(ctx context.Context, req *connect.Request[api.ListSheetsRequest]) (*connect.Response[api.ListSheetsResponse], error) {
	userID := middleware.GetUserID(ctx)
	if userID == "" {
		return nil, connect.NewError(connect.CodeUnauthenticated, auth.ErrMissingToken)
	}

	sheets, err := s.store.ListSheetsForUser(ctx, userID, req.Msg.IncludeArchived)
	if err != nil {
		s.logger.Error("ListSheets failed", "user_id", userID, "error", err)
		return nil, toConnectError(err)
	}

	out := make([]*api.Sheet, len(sheets))
	for i, sheet := range sheets {
		out[i] = api.SheetFromModel(sheet)
	}
	return connect.NewResponse(&api.ListSheetsResponse{Sheets: out}), nil
}

// ArchiveSheet hides a sheet from active views, or restores it.
func (s *SheetService) ArchiveSheet(ctx context.Context, req *connect.Request[api.ArchiveSheetRequest]) (*connect.Response[api.ArchiveSheetResponse], error) {
	a, err := loadSheet(ctx, s.store, req.Msg.SheetID)
	if err != nil {
		return nil, toConnectError(err)
	}
	if err := a.requireAdmin(); err != nil {
		return nil, toConnectError(err)
	}

	var at int64
	if req.Msg.Archived {
		at = time.Now().Unix()
	}
	if err := s.store.ArchiveSheet(ctx, a.sheet.ID, at); err != nil {
		s.logger.Error("ArchiveSheet failed", "sheet_id", a.sheet.ID, "error", err)
		return nil, toConnectError(err)
	}

	sheet, err := s.store.GetSheet(ctx, a.sheet.ID)
	if err != nil {
		return nil, toConnectError(err)
	}
	s.logger.Info("Sheet archive state changed", "sheet_id", sheet.ID, "archived", sheet.Archived())
	return connect.NewResponse(&api.ArchiveSheetResponse{Sheet: api.SheetFromModel(sheet)}), nil
}

// DeleteSheet removes a sheet with all its participants and transactions.
func (s *SheetService) DeleteSheet(ctx context.Context, req *connect.Request[api.DeleteSheetRequest]) (*connect.Response[api.DeleteSheetResponse], error) {
	a, err := loadSheet(ctx, s.store, req.Msg.SheetID)
	if err != nil {
		return nil, toConnectError(err)
	}
	if err := a.requireAdmin(); err != nil {
		return nil, toConnectError(err)
	}

	if err := s.store.DeleteSheet(ctx, a.sheet.ID); err != nil {
		s.logger.Error("DeleteSheet failed", "sheet_id", a.sheet.ID, "error", err)
		return nil, toConnectError(err)
	}

	s.logger.Info("Sheet deleted", "sheet_id", a.sheet.ID)
	return connect.NewResponse(&api.DeleteSheetResponse{}), nil
}

// AddParticipant adds someone to a group sheet.
func (s *SheetService) AddParticipant(ctx context.Context, req *connect.Request[api.AddParticipantRequest]) (*connect.Response[api.AddParticipantResponse], error) {
	a, err := loadSheet(ctx, s.store, req.Msg.SheetID)
	if err != nil {
		return nil, toConnectError(err)
	}
	if a.sheet.Type == models.SheetTypePersonal {
		return nil, connect.NewError(connect.CodeFailedPrecondition, errors.New("personal sheets have a single participant"))
	}
	if err := a.requireWritable(); err != nil {
		return nil, toConnectError(err)
	}

	p, err := s.resolveParticipant(ctx, req.Msg.Participant)
	if err != nil {
		return nil, err
	}
	if p.UserID != "" {
		if _, ok := a.participantForUser(p.UserID); ok {
			return nil, connect.NewError(connect.CodeAlreadyExists, errors.New("account already takes part in this sheet"))
		}
	}
	p.SheetID = a.sheet.ID

	if err := s.store.AddParticipant(ctx, p); err != nil {
		s.logger.Error("AddParticipant failed", "sheet_id", a.sheet.ID, "error", err)
		return nil, toConnectError(err)
	}

	s.logger.Info("Participant added", "sheet_id", a.sheet.ID, "participant_id", p.ID)
	return connect.NewResponse(&api.AddParticipantResponse{
		Participant: api.ParticipantsFromModel([]models.Participant{*p})[0],
	}), nil
}
