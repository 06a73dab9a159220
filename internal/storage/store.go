// Package storage provides abstractions for persistent data storage.
package storage

import (
	"context"
	"errors"

	"github.com/mmynk/splitsheets/internal/models"
)

// ErrNotFound is returned (wrapped) when a requested record does not exist.
var ErrNotFound = errors.New("not found")

// Store defines the persistence operations the services need.
// This abstraction allows swapping storage backends without changing the
// service layer. Every method that writes more than one row does so in a
// single database transaction.
type Store interface {
	UserStore
	SheetStore
	TransactionStore

	// Close releases any resources held by the store.
	Close() error
}

// UserStore persists registered accounts.
type UserStore interface {
	CreateUser(ctx context.Context, user *models.User) error
	GetUserByEmail(ctx context.Context, email string) (*models.User, error)
	GetUserByID(ctx context.Context, id string) (*models.User, error)
}

// SheetStore persists sheets and their participants.
type SheetStore interface {
	// CreateSheet persists a new sheet together with its initial
	// participants. Empty IDs and timestamps are filled in by the store.
	CreateSheet(ctx context.Context, sheet *models.Sheet, participants []*models.Participant) error

	GetSheet(ctx context.Context, sheetID string) (*models.Sheet, error)

	// ListSheetsForUser returns the sheets userID participates in, newest
	// first. Archived sheets are included only when includeArchived is set.
	ListSheetsForUser(ctx context.Context, userID string, includeArchived bool) ([]*models.Sheet, error)

	// ArchiveSheet marks a sheet archived at the given Unix time, or active
	// again when at is 0.
	ArchiveSheet(ctx context.Context, sheetID string, at int64) error

	// DeleteSheet removes a sheet with all its participants and transactions.
	DeleteSheet(ctx context.Context, sheetID string) error

	AddParticipant(ctx context.Context, participant *models.Participant) error
	ListParticipants(ctx context.Context, sheetID string) ([]models.Participant, error)
}

// TransactionStore persists transactions. Transactions are immutable once
// written; there is no update.
type TransactionStore interface {
	// CreateTransaction persists a transaction and its splits atomically.
	CreateTransaction(ctx context.Context, tx *models.Transaction) error

	// ListTransactions returns a sheet's transactions, most recent first.
	ListTransactions(ctx context.Context, sheetID string) ([]models.Transaction, error)

	DeleteTransaction(ctx context.Context, sheetID, transactionID string) error

	// Snapshot reads a sheet, its participants and its transactions in one
	// read transaction so balances are computed over a consistent view.
	Snapshot(ctx context.Context, sheetID string) (*models.SheetSnapshot, error)
}
