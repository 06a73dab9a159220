package sqlite

import (
	"context"
	"database/sql"
	"fmt"
	"time"

	"github.com/google/uuid"

	"github.com/mmynk/splitsheets/internal/models"
)

const sheetColumns = `id, type, name, currency_code, scale, created_by, archived_at, created_at`

const participantColumns = `id, sheet_id, name, user_id, is_admin, created_at`

// CreateSheet persists a new sheet and its participants in one transaction.
func (s *SQLiteStore) CreateSheet(ctx context.Context, sheet *models.Sheet, participants []*models.Participant) error {
	if sheet.ID == "" {
		sheet.ID = uuid.New().String()
	}
	if sheet.CreatedAt == 0 {
		sheet.CreatedAt = time.Now().Unix()
	}

	return s.withTx(ctx, nil, func(tx *sql.Tx) error {
		_, err := tx.ExecContext(ctx,
			`INSERT INTO sheets (`+sheetColumns+`) VALUES (?, ?, ?, ?, ?, ?, ?, ?)`,
			sheet.ID, sheet.Type, sheet.Name, sheet.CurrencyCode, sheet.Scale,
			sheet.CreatedBy, sheet.ArchivedAt, sheet.CreatedAt,
		)
		if err != nil {
			return fmt.Errorf("failed to insert sheet: %w", err)
		}

		for _, p := range participants {
			p.SheetID = sheet.ID
			if err := insertParticipant(ctx, tx, p); err != nil {
				return err
			}
		}
		return nil
	})
}

// GetSheet retrieves a sheet by ID.
func (s *SQLiteStore) GetSheet(ctx context.Context, sheetID string) (*models.Sheet, error) {
	return getSheet(ctx, s.db, sheetID)
}

func getSheet(ctx context.Context, q queryer, sheetID string) (*models.Sheet, error) {
	sheet := &models.Sheet{}
	err := q.QueryRowContext(ctx,
		`SELECT `+sheetColumns+` FROM sheets WHERE id = ?`,
		sheetID,
	).Scan(&sheet.ID, &sheet.Type, &sheet.Name, &sheet.CurrencyCode, &sheet.Scale,
		&sheet.CreatedBy, &sheet.ArchivedAt, &sheet.CreatedAt)
	if isNoRows(err) {
		return nil, notFound("sheet", sheetID)
	}
	if err != nil {
		return nil, fmt.Errorf("failed to get sheet: %w", err)
	}
	return sheet, nil
}

// ListSheetsForUser retrieves the sheets a user participates in, newest first.
func (s *SQLiteStore) ListSheetsForUser(ctx context.Context, userID string, includeArchived bool) ([]*models.Sheet, error) {
	query := `SELECT s.id, s.type, s.name, s.currency_code, s.scale, s.created_by, s.archived_at, s.created_at
		FROM sheets s
		JOIN participants p ON p.sheet_id = s.id
		WHERE p.user_id = ?`
	if !includeArchived {
		query += ` AND s.archived_at = 0`
	}
	query += ` ORDER BY s.created_at DESC, s.id`

	rows, err := s.db.QueryContext(ctx, query, userID)
	if err != nil {
		return nil, fmt.Errorf("failed to list sheets: %w", err)
	}
	defer rows.Close()

	var sheets []*models.Sheet
	for rows.Next() {
		sheet := &models.Sheet{}
		if err := rows.Scan(&sheet.ID, &sheet.Type, &sheet.Name, &sheet.CurrencyCode, &sheet.Scale,
			&sheet.CreatedBy, &sheet.ArchivedAt, &sheet.CreatedAt); err != nil {
			return nil, fmt.Errorf("failed to scan sheet: %w", err)
		}
		sheets = append(sheets, sheet)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("failed to iterate sheets: %w", err)
	}
	return sheets, nil
}

// ArchiveSheet sets a sheet's archive time. Archiving an archived sheet keeps
// the first time; at == 0 unarchives it.
func (s *SQLiteStore) ArchiveSheet(ctx context.Context, sheetID string, at int64) error {
	return s.withTx(ctx, nil, func(tx *sql.Tx) error {
		if _, err := getSheet(ctx, tx, sheetID); err != nil {
			return err
		}
		query := "UPDATE sheets SET archived_at = ? WHERE id = ? AND archived_at = 0"
		if at == 0 {
			query = "UPDATE sheets SET archived_at = ? WHERE id = ?"
		}
		if _, err := tx.ExecContext(ctx, query, at, sheetID); err != nil {
			return fmt.Errorf("failed to archive sheet: %w", err)
		}
		return nil
	})
}

// DeleteSheet removes a sheet and everything recorded on it.
func (s *SQLiteStore) DeleteSheet(ctx context.Context, sheetID string) error {
	return s.withTx(ctx, nil, func(tx *sql.Tx) error {
		// Transactions reference participants, so they go first.
		if _, err := tx.ExecContext(ctx, "DELETE FROM transactions WHERE sheet_id = ?", sheetID); err != nil {
			return fmt.Errorf("failed to delete transactions: %w", err)
		}
		if _, err := tx.ExecContext(ctx, "DELETE FROM participants WHERE sheet_id = ?", sheetID); err != nil {
			return fmt.Errorf("failed to delete participants: %w", err)
		}
		res, err := tx.ExecContext(ctx, "DELETE FROM sheets WHERE id = ?", sheetID)
		if err != nil {
			return fmt.Errorf("failed to delete sheet: %w", err)
		}
		return checkAffected(res, "sheet", sheetID)
	})
}

// AddParticipant adds a participant to an existing sheet.
func (s *SQLiteStore) AddParticipant(ctx context.Context, participant *models.Participant) error {
	return s.withTx(ctx, nil, func(tx *sql.Tx) error {
		if _, err := getSheet(ctx, tx, participant.SheetID); err != nil {
			return err
		}
		return insertParticipant(ctx, tx, participant)
	})
}

func insertParticipant(ctx context.Context, tx *sql.Tx, p *models.Participant) error {
	if p.ID == "" {
		p.ID = uuid.New().String()
	}
	if p.CreatedAt == 0 {
		p.CreatedAt = time.Now().Unix()
	}
	_, err := tx.ExecContext(ctx,
		`INSERT INTO participants (`+participantColumns+`) VALUES (?, ?, ?, ?, ?, ?)`,
		p.ID, p.SheetID, p.Name, nullString(p.UserID), p.IsAdmin, p.CreatedAt,
	)
	if err != nil {
		return fmt.Errorf("failed to insert participant: %w", err)
	}
	return nil
}

// ListParticipants returns a sheet's participants in the order they joined.
func (s *SQLiteStore) ListParticipants(ctx context.Context, sheetID string) ([]models.Participant, error) {
	return listParticipants(ctx, s.db, sheetID)
}

func listParticipants(ctx context.Context, q queryer, sheetID string) ([]models.Participant, error) {
	rows, err := q.QueryContext(ctx,
		`SELECT `+participantColumns+` FROM participants WHERE sheet_id = ? ORDER BY created_at, rowid`,
		sheetID,
	)
	if err != nil {
		return nil, fmt.Errorf("failed to list participants: %w", err)
	}
	defer rows.Close()

	var participants []models.Participant
	for rows.Next() {
		var p models.Participant
		var userID sql.NullString
		if err := rows.Scan(&p.ID, &p.SheetID, &p.Name, &userID, &p.IsAdmin, &p.CreatedAt); err != nil {
			return nil, fmt.Errorf("failed to scan participant: %w", err)
		}
		p.UserID = userID.String
		participants = append(participants, p)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("failed to iterate participants: %w", err)
	}
	return participants, nil
}
