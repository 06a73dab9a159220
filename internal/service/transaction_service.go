package service

import (
	"context"
	"errors"
	"log/slog"
	"strings"

	"connectrpc.com/connect"

	"github.com/mmynk/splitsheets/internal/api"
	"github.com/mmynk/splitsheets/internal/calculator"
	"github.com/mmynk/splitsheets/internal/metrics"
	"github.com/mmynk/splitsheets/internal/middleware"
	"github.com/mmynk/splitsheets/internal/models"
	"github.com/mmynk/splitsheets/internal/money"
	"github.com/mmynk/splitsheets/internal/storage"
)

// TransactionService implements the TransactionService RPC interface.
// Transactions are immutable: they are created and deleted, never updated.
type TransactionService struct {
	store   storage.Store
	logger  *slog.Logger
	metrics *metrics.Metrics
}

// NewTransactionService creates a new TransactionService. m may be nil.
func NewTransactionService(store storage.Store, logger *slog.Logger, m *metrics.Metrics) *TransactionService {
	return &TransactionService{store: store, logger: logger, metrics: m}
}

// PreviewSplit resolves a split without recording anything, so clients can
// show each participant's share before saving.
func (s *TransactionService) PreviewSplit(ctx context.Context, req *connect.Request[api.PreviewSplitRequest]) (*connect.Response[api.PreviewSplitResponse], error) {
	a, err := loadSheet(ctx, s.store, req.Msg.SheetID)
	if err != nil {
		return nil, toConnectError(err)
	}
	total, err := a.parseAmount("amount", req.Msg.Amount)
	if err != nil {
		return nil, err
	}

	splits, err := s.validateSplit(a, &req.Msg.Split, total)
	if err != nil {
		return nil, toConnectError(err)
	}
	return connect.NewResponse(&api.PreviewSplitResponse{Splits: api.SplitsFromModel(splits)}), nil
}

// CreateTransaction records an EXPENSE, INCOME or TRANSFER on a sheet.
func (s *TransactionService) CreateTransaction(ctx context.Context, req *connect.Request[api.CreateTransactionRequest]) (*connect.Response[api.CreateTransactionResponse], error) {
	msg := req.Msg
	s.logger.Info("CreateTransaction request", "sheet_id", msg.SheetID, "type", msg.Type)

	a, err := loadSheet(ctx, s.store, msg.SheetID)
	if err != nil {
		return nil, toConnectError(err)
	}
	if err := a.requireWritable(); err != nil {
		return nil, toConnectError(err)
	}

	tx, err := s.buildTransaction(a, msg)
	if err != nil {
		return nil, toConnectError(err)
	}
	tx.CreatedBy = middleware.GetUserID(ctx)

	if err := s.store.CreateTransaction(ctx, tx); err != nil {
		s.logger.Error("CreateTransaction failed", "sheet_id", a.sheet.ID, "error", err)
		return nil, toConnectError(err)
	}

	s.logger.Info("Transaction created", "sheet_id", a.sheet.ID, "transaction_id", tx.ID, "money", tx.Money.String())
	return connect.NewResponse(&api.CreateTransactionResponse{Transaction: api.TransactionFromModel(tx)}), nil
}

func (s *TransactionService) buildTransaction(a *sheetAccess, msg *api.CreateTransactionRequest) (*models.Transaction, error) {
	txType := models.TransactionType(strings.ToUpper(msg.Type))
	if !txType.Valid() {
		return nil, invalidArgument("unknown transaction type %q", msg.Type)
	}
	total, err := a.parseAmount("amount", msg.Amount)
	if err != nil {
		return nil, err
	}

	tx := &models.Transaction{
		SheetID:     a.sheet.ID,
		Type:        txType,
		Money:       total,
		SpentAt:     msg.SpentAt,
		Description: strings.TrimSpace(msg.Description),
		Category:    strings.TrimSpace(msg.Category),
	}
	personal := a.sheet.Type == models.SheetTypePersonal

	switch txType {
	case models.TransactionTypeTransfer:
		if personal {
			return nil, invalidArgument("personal sheets cannot record transfers")
		}
		if msg.Split != nil {
			return nil, invalidArgument("transfers have no split")
		}
		if msg.FromID == "" || msg.ToID == "" {
			return nil, invalidArgument("from_id and to_id are required for a transfer")
		}
		if msg.FromID == msg.ToID {
			return nil, invalidArgument("cannot transfer from a participant to themselves")
		}
		if err := a.requireParticipants(msg.FromID, msg.ToID); err != nil {
			return nil, err
		}
		tx.FromID, tx.ToID = msg.FromID, msg.ToID

	default:
		if msg.FromID != "" || msg.ToID != "" {
			return nil, invalidArgument("from_id and to_id are only valid for transfers")
		}
		split := msg.Split
		tx.PaidOrReceivedByID = msg.PaidOrReceivedByID
		if personal {
			// The owner pays for and bears everything on a personal sheet.
			tx.PaidOrReceivedByID = a.caller.ID
			split = &api.SplitInput{Mode: api.SplitModeEvenly}
		}
		if tx.PaidOrReceivedByID == "" {
			return nil, invalidArgument("paid_or_received_by_id is required")
		}
		if err := a.requireParticipants(tx.PaidOrReceivedByID); err != nil {
			return nil, err
		}
		if tx.Splits, err = s.validateSplit(a, split, total); err != nil {
			return nil, err
		}
	}
	return tx, nil
}

func (s *TransactionService) validateSplit(a *sheetAccess, in *api.SplitInput, total money.Money) ([]models.Split, error) {
	mode, err := a.splitMode(in)
	if err != nil {
		return nil, err
	}
	splits, err := calculator.ValidateSplit(mode, total)
	if err != nil {
		if errors.Is(err, calculator.ErrInvalidSplit) {
			s.metrics.SplitRejected(mode.Name())
			s.logger.Debug("Split rejected", "sheet_id", a.sheet.ID, "mode", mode.Name(), "error", err)
		}
		return nil, err
	}
	return splits, nil
}

// ListTransactions returns a sheet's transactions, most recent first.
func (s *TransactionService) ListTransactions(ctx context.Context, req *connect.Request[api.ListTransactionsRequest]) (*connect.Response[api.ListTransactionsResponse], error) {
	a, err := loadSheet(ctx, s.store, req.Msg.SheetID)
	if err != nil {
		return nil, toConnectError(err)
	}

	txs, err := s.store.ListTransactions(ctx, a.sheet.ID)
	if err != nil {
		s.logger.Error("ListTransactions failed", "sheet_id", a.sheet.ID, "error", err)
		return nil, toConnectError(err)
	}

	out := make([]*api.Transaction, len(txs))
	for i := range txs {
		out[i] = api.TransactionFromModel(&txs[i])
	}
	return connect.NewResponse(&api.ListTransactionsResponse{Transactions: out}), nil
}

// DeleteTransaction removes a transaction and its splits.
func (s *TransactionService) DeleteTransaction(ctx context.Context, req *connect.Request[api.DeleteTransactionRequest]) (*connect.Response[api.DeleteTransactionResponse], error) {
	a, err := loadSheet(ctx, s.store, req.Msg.SheetID)
	if err != nil {
		return nil, toConnectError(err)
	}
	if err := a.requireWritable(); err != nil {
		return nil, toConnectError(err)
	}

	if err := s.store.DeleteTransaction(ctx, a.sheet.ID, req.Msg.TransactionID); err != nil {
		if !errors.Is(err, storage.ErrNotFound) {
			s.logger.Error("DeleteTransaction failed", "sheet_id", a.sheet.ID, "transaction_id", req.Msg.TransactionID, "error", err)
		}
		return nil, toConnectError(err)
	}

	s.logger.Info("Transaction deleted", "sheet_id", a.sheet.ID, "transaction_id", req.Msg.TransactionID)
	return connect.NewResponse(&api.DeleteTransactionResponse{}), nil
}
