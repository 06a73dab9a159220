package service

import (
	"context"
	"errors"
	"log/slog"

	"connectrpc.com/connect"

	"github.com/mmynk/splitsheets/internal/api"
	"github.com/mmynk/splitsheets/internal/calculator"
	"github.com/mmynk/splitsheets/internal/metrics"
	"github.com/mmynk/splitsheets/internal/middleware"
	"github.com/mmynk/splitsheets/internal/models"
	"github.com/mmynk/splitsheets/internal/storage"
)

// BalanceService implements the BalanceService RPC interface. Balances are
// never stored or shared between calls; every call folds the sheet's full
// transaction set again, so a read sees every write committed before it.
type BalanceService struct {
	store   storage.Store
	logger  *slog.Logger
	metrics *metrics.Metrics
}

// NewBalanceService creates a new BalanceService. m may be nil.
func NewBalanceService(store storage.Store, logger *slog.Logger, m *metrics.Metrics) *BalanceService {
	return &BalanceService{store: store, logger: logger, metrics: m}
}

// sheetBalances is the result of one computation.
type sheetBalances struct {
	snapshot    *models.SheetSnapshot
	summaries   map[string]calculator.Summary
	settlements []models.Settlement
}

// GetBalances returns every participant's spent, cost and balance together
// with the transfers that would settle the sheet.
func (s *BalanceService) GetBalances(ctx context.Context, req *connect.Request[api.GetBalancesRequest]) (*connect.Response[api.GetBalancesResponse], error) {
	a, err := loadSheet(ctx, s.store, req.Msg.SheetID)
	if err != nil {
		return nil, toConnectError(err)
	}

	result, err := s.computeBalances(ctx, a.sheet.ID)
	if err != nil {
		return nil, toConnectError(err)
	}

	resp := &api.GetBalancesResponse{
		Balances:    make([]*api.ParticipantSummary, 0, len(result.snapshot.Participants)),
		Settlements: make([]*api.Settlement, len(result.settlements)),
	}
	for _, p := range result.snapshot.Participants {
		sum := result.summaries[p.ID]
		resp.Balances = append(resp.Balances, &api.ParticipantSummary{
			ParticipantID: p.ID,
			Name:          p.Name,
			Spent:         sum.Spent,
			Cost:          sum.Cost,
			Balance:       sum.Balance,
		})
	}
	for i, st := range result.settlements {
		resp.Settlements[i] = &api.Settlement{
			FromParticipantID: st.FromParticipantID,
			ToParticipantID:   st.ToParticipantID,
			Money:             st.Money,
		}
	}
	return connect.NewResponse(resp), nil
}

func (s *BalanceService) computeBalances(ctx context.Context, sheetID string) (*sheetBalances, error) {
	snap, err := s.store.Snapshot(ctx, sheetID)
	if err != nil {
		return nil, err
	}
	sheet := snap.Sheet

	summaries, err := calculator.ComputeBalances(sheet.CurrencyCode, sheet.Scale, snap.Transactions, snap.Participants)
	if err != nil {
		s.logger.Error("Balance computation failed", "sheet_id", sheetID, "error", err)
		return nil, err
	}
	if err := calculator.CheckZeroSum(sheet.CurrencyCode, summaries); err != nil {
		return nil, s.unbalanced(sheetID, err)
	}

	settlements, err := calculator.SimplifyDebts(calculator.SortBalances(snap.Participants, summaries))
	if err != nil {
		if errors.Is(err, calculator.ErrUnbalancedLedger) {
			return nil, s.unbalanced(sheetID, err)
		}
		s.logger.Error("Debt simplification failed", "sheet_id", sheetID, "error", err)
		return nil, err
	}
	s.metrics.SettlementsSuggested(len(settlements))

	return &sheetBalances{snapshot: snap, summaries: summaries, settlements: settlements}, nil
}

// unbalanced logs and counts a corrupt ledger.
func (s *BalanceService) unbalanced(sheetID string, err error) error {
	var ue *calculator.UnbalancedLedgerError
	if errors.As(err, &ue) {
		s.logger.Error("Unbalanced ledger", "sheet_id", sheetID, "credits", ue.Credits.String(), "debits", ue.Debits.String())
	} else {
		s.logger.Error("Unbalanced ledger", "sheet_id", sheetID, "error", err)
	}
	s.metrics.LedgerUnbalanced()
	return err
}

// ConfirmSettlement records a suggested payment as a TRANSFER.
func (s *BalanceService) ConfirmSettlement(ctx context.Context, req *connect.Request[api.ConfirmSettlementRequest]) (*connect.Response[api.ConfirmSettlementResponse], error) {
	msg := req.Msg
	s.logger.Info("ConfirmSettlement request", "sheet_id", msg.SheetID, "from", msg.FromParticipantID, "to", msg.ToParticipantID)

	a, err := loadSheet(ctx, s.store, msg.SheetID)
	if err != nil {
		return nil, toConnectError(err)
	}
	if err := a.requireWritable(); err != nil {
		return nil, toConnectError(err)
	}
	if a.sheet.Type == models.SheetTypePersonal {
		return nil, invalidArgument("personal sheets have nobody to settle with")
	}
	if msg.FromParticipantID == msg.ToParticipantID {
		return nil, invalidArgument("cannot settle with oneself")
	}
	if err := a.requireParticipants(msg.FromParticipantID, msg.ToParticipantID); err != nil {
		return nil, err
	}
	amount, err := a.parseAmount("amount", msg.Amount)
	if err != nil {
		return nil, err
	}

	tx := calculator.SettlementTransaction(a.sheet.ID, models.Settlement{
		FromParticipantID: msg.FromParticipantID,
		ToParticipantID:   msg.ToParticipantID,
		Money:             amount,
	})
	tx.CreatedBy = middleware.GetUserID(ctx)

	if err := s.store.CreateTransaction(ctx, &tx); err != nil {
		s.logger.Error("ConfirmSettlement failed", "sheet_id", a.sheet.ID, "error", err)
		return nil, toConnectError(err)
	}

	s.logger.Info("Settlement recorded", "sheet_id", a.sheet.ID, "transaction_id", tx.ID, "money", tx.Money.String())
	return connect.NewResponse(&api.ConfirmSettlementResponse{Transaction: api.TransactionFromModel(&tx)}), nil
}
