package sqlite

import (
	"context"
	"database/sql"
	"fmt"
	"time"

	"github.com/google/uuid"

	"github.com/mmynk/splitsheets/internal/models"
	"github.com/mmynk/splitsheets/internal/money"
)

const transactionColumns = `id, sheet_id, type, amount, scale, currency_code, spent_at, description,
	category, paid_or_received_by, from_participant, to_participant, created_by, created_at`

// CreateTransaction persists a transaction and its splits in one transaction.
func (s *SQLiteStore) CreateTransaction(ctx context.Context, t *models.Transaction) error {
	if t.ID == "" {
		t.ID = uuid.New().String()
	}
	if t.CreatedAt == 0 {
		t.CreatedAt = time.Now().Unix()
	}
	if t.SpentAt == 0 {
		t.SpentAt = t.CreatedAt
	}

	return s.withTx(ctx, nil, func(tx *sql.Tx) error {
		if _, err := getSheet(ctx, tx, t.SheetID); err != nil {
			return err
		}

		_, err := tx.ExecContext(ctx,
			`INSERT INTO transactions (`+transactionColumns+`)
			 VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?)`,
			t.ID, t.SheetID, t.Type, t.Money.Amount, t.Money.Scale, t.Money.Currency, t.SpentAt,
			t.Description, t.Category, nullString(t.PaidOrReceivedByID),
			nullString(t.FromID), nullString(t.ToID), t.CreatedBy, t.CreatedAt,
		)
		if err != nil {
			return fmt.Errorf("failed to insert transaction: %w", err)
		}

		for i, split := range t.Splits {
			_, err := tx.ExecContext(ctx,
				`INSERT INTO transaction_splits (transaction_id, participant_id, position, amount, scale, currency_code)
				 VALUES (?, ?, ?, ?, ?, ?)`,
				t.ID, split.ParticipantID, i, split.Share.Amount, split.Share.Scale, split.Share.Currency,
			)
			if err != nil {
				return fmt.Errorf("failed to insert split: %w", err)
			}
		}
		return nil
	})
}

// ListTransactions returns a sheet's transactions, most recent first.
func (s *SQLiteStore) ListTransactions(ctx context.Context, sheetID string) ([]models.Transaction, error) {
	var txs []models.Transaction
	err := s.withTx(ctx, nil, func(tx *sql.Tx) error {
		if _, err := getSheet(ctx, tx, sheetID); err != nil {
			return err
		}
		var err error
		txs, err = listTransactions(ctx, tx, sheetID)
		return err
	})
	return txs, err
}

// DeleteTransaction removes a transaction and its splits.
func (s *SQLiteStore) DeleteTransaction(ctx context.Context, sheetID, transactionID string) error {
	res, err := s.db.ExecContext(ctx,
		"DELETE FROM transactions WHERE id = ? AND sheet_id = ?",
		transactionID, sheetID,
	)
	if err != nil {
		return fmt.Errorf("failed to delete transaction: %w", err)
	}
	return checkAffected(res, "transaction", transactionID)
}

// Snapshot reads a sheet with its participants and transactions in one read
// transaction.
func (s *SQLiteStore) Snapshot(ctx context.Context, sheetID string) (*models.SheetSnapshot, error) {
	snap := &models.SheetSnapshot{}
	err := s.withTx(ctx, nil, func(tx *sql.Tx) error {
		sheet, err := getSheet(ctx, tx, sheetID)
		if err != nil {
			return err
		}
		snap.Sheet = *sheet

		if snap.Participants, err = listParticipants(ctx, tx, sheetID); err != nil {
			return err
		}
		snap.Transactions, err = listTransactions(ctx, tx, sheetID)
		return err
	})
	if err != nil {
		return nil, err
	}
	return snap, nil
}

func listTransactions(ctx context.Context, q queryer, sheetID string) ([]models.Transaction, error) {
	rows, err := q.QueryContext(ctx,
		`SELECT `+transactionColumns+` FROM transactions
		 WHERE sheet_id = ? ORDER BY spent_at DESC, created_at DESC, id`,
		sheetID,
	)
	if err != nil {
		return nil, fmt.Errorf("failed to list transactions: %w", err)
	}
	defer rows.Close()

	var txs []models.Transaction
	index := make(map[string]int)
	for rows.Next() {
		var t models.Transaction
		var payer, from, to sql.NullString
		if err := rows.Scan(&t.ID, &t.SheetID, &t.Type, &t.Money.Amount, &t.Money.Scale, &t.Money.Currency,
			&t.SpentAt, &t.Description, &t.Category, &payer, &from, &to, &t.CreatedBy, &t.CreatedAt); err != nil {
			return nil, fmt.Errorf("failed to scan transaction: %w", err)
		}
		t.PaidOrReceivedByID = payer.String
		t.FromID = from.String
		t.ToID = to.String
		index[t.ID] = len(txs)
		txs = append(txs, t)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("failed to iterate transactions: %w", err)
	}
	if len(txs) == 0 {
		return txs, nil
	}

	splitRows, err := q.QueryContext(ctx,
		`SELECT ts.transaction_id, ts.participant_id, ts.amount, ts.scale, ts.currency_code
		 FROM transaction_splits ts
		 JOIN transactions t ON t.id = ts.transaction_id
		 WHERE t.sheet_id = ?
		 ORDER BY ts.transaction_id, ts.position`,
		sheetID,
	)
	if err != nil {
		return nil, fmt.Errorf("failed to get splits: %w", err)
	}
	defer splitRows.Close()

	for splitRows.Next() {
		var txID string
		var split models.Split
		var share money.Money
		if err := splitRows.Scan(&txID, &split.ParticipantID, &share.Amount, &share.Scale, &share.Currency); err != nil {
			return nil, fmt.Errorf("failed to scan split: %w", err)
		}
		split.Share = share
		if i, ok := index[txID]; ok {
			txs[i].Splits = append(txs[i].Splits, split)
		}
	}
	if err := splitRows.Err(); err != nil {
		return nil, fmt.Errorf("failed to iterate splits: %w", err)
	}
	return txs, nil
}
