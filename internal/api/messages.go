package api

import "github.com/mmynk/splitsheets/internal/money"

// Amounts in requests are decimal strings ("12.50") read at the sheet's
// scale. Amounts in responses are exact money.Money values.

type User struct {
	ID          string `json:"id"`
	Email       string `json:"email"`
	DisplayName string `json:"display_name"`
	CreatedAt   int64  `json:"created_at"`
}

type RegisterRequest struct {
	Email       string `json:"email"`
	Password    string `json:"password"`
	DisplayName string `json:"display_name,omitempty"`
}

type RegisterResponse struct {
	User      *User  `json:"user"`
	Token     string `json:"token"`
	ExpiresAt int64  `json:"expires_at"`
}

type LoginRequest struct {
	Email    string `json:"email"`
	Password string `json:"password"`
}

type LoginResponse struct {
	User      *User  `json:"user"`
	Token     string `json:"token"`
	ExpiresAt int64  `json:"expires_at"`
}

type GetCurrentUserRequest struct{}

type GetCurrentUserResponse struct {
	User *User `json:"user"`
}

type Sheet struct {
	ID           string `json:"id"`
	Type         string `json:"type"`
	Name         string `json:"name"`
	CurrencyCode string `json:"currency_code"`
	Scale        int32  `json:"scale"`
	CreatedBy    string `json:"created_by"`
	ArchivedAt   int64  `json:"archived_at,omitempty"`
	CreatedAt    int64  `json:"created_at"`
}

type Participant struct {
	ID      string `json:"id"`
	Name    string `json:"name"`
	UserID  string `json:"user_id,omitempty"`
	IsAdmin bool   `json:"is_admin,omitempty"`
}

// NewParticipant names someone to add to a sheet. Setting UserEmail links the
// participant to that registered account.
type NewParticipant struct {
	Name      string `json:"name"`
	UserEmail string `json:"user_email,omitempty"`
}

type CreateSheetRequest struct {
	Type         string           `json:"type"`
	Name         string           `json:"name"`
	CurrencyCode string           `json:"currency_code"`
	Members      []NewParticipant `json:"members,omitempty"`
}

type CreateSheetResponse struct {
	Sheet        *Sheet         `json:"sheet"`
	Participants []*Participant `json:"participants"`
}

type GetSheetRequest struct {
	SheetID string `json:"sheet_id"`
}

type GetSheetResponse struct {
	Sheet        *Sheet         `json:"sheet"`
	Participants []*Participant `json:"participants"`
}

type ListSheetsRequest struct {
	IncludeArchived bool `json:"include_archived,omitempty"`
}

type ListSheetsResponse struct {
	Sheets []*Sheet `json:"sheets"`
}

type ArchiveSheetRequest struct {
	SheetID  string `json:"sheet_id"`
	Archived bool   `json:"archived"`
}

type ArchiveSheetResponse struct {
	Sheet *Sheet `json:"sheet"`
}

type DeleteSheetRequest struct {
	SheetID string `json:"sheet_id"`
}

type DeleteSheetResponse struct{}

type AddParticipantRequest struct {
	SheetID     string         `json:"sheet_id"`
	Participant NewParticipant `json:"participant"`
}

type AddParticipantResponse struct {
	Participant *Participant `json:"participant"`
}

// SplitMode names how a split apportions a total.
const (
	SplitModeEvenly     = "evenly"
	SplitModeSelected   = "selected"
	SplitModeShares     = "shares"
	SplitModePercentage = "percentage"
	SplitModeAmounts    = "amounts"
)

// SplitInput describes how to apportion a total. Which entry field is read
// depends on Mode: none for evenly, Selected, Shares, Percent (decimal
// string) or Amount (decimal string).
type SplitInput struct {
	Mode    string       `json:"mode"`
	Entries []SplitEntry `json:"entries"`
}

type SplitEntry struct {
	ParticipantID string `json:"participant_id"`
	Selected      bool   `json:"selected,omitempty"`
	Shares        int64  `json:"shares,omitempty"`
	Percent       string `json:"percent,omitempty"`
	Amount        string `json:"amount,omitempty"`
}

type Split struct {
	ParticipantID string      `json:"participant_id"`
	Share         money.Money `json:"share"`
}

type Transaction struct {
	ID                 string      `json:"id"`
	SheetID            string      `json:"sheet_id"`
	Type               string      `json:"type"`
	Money              money.Money `json:"money"`
	SpentAt            int64       `json:"spent_at"`
	Description        string      `json:"description,omitempty"`
	Category           string      `json:"category,omitempty"`
	PaidOrReceivedByID string      `json:"paid_or_received_by_id,omitempty"`
	Splits             []Split     `json:"splits,omitempty"`
	FromID             string      `json:"from_id,omitempty"`
	ToID               string      `json:"to_id,omitempty"`
	CreatedBy          string      `json:"created_by"`
	CreatedAt          int64       `json:"created_at"`
}

type PreviewSplitRequest struct {
	SheetID string     `json:"sheet_id"`
	Amount  string     `json:"amount"`
	Split   SplitInput `json:"split"`
}

type PreviewSplitResponse struct {
	Splits []Split `json:"splits"`
}

type CreateTransactionRequest struct {
	SheetID            string      `json:"sheet_id"`
	Type               string      `json:"type"`
	Amount             string      `json:"amount"`
	SpentAt            int64       `json:"spent_at,omitempty"`
	Description        string      `json:"description,omitempty"`
	Category           string      `json:"category,omitempty"`
	PaidOrReceivedByID string      `json:"paid_or_received_by_id,omitempty"`
	Split              *SplitInput `json:"split,omitempty"`
	FromID             string      `json:"from_id,omitempty"`
	ToID               string      `json:"to_id,omitempty"`
}

type CreateTransactionResponse struct {
	Transaction *Transaction `json:"transaction"`
}

type ListTransactionsRequest struct {
	SheetID string `json:"sheet_id"`
}

type ListTransactionsResponse struct {
	Transactions []*Transaction `json:"transactions"`
}

type DeleteTransactionRequest struct {
	SheetID       string `json:"sheet_id"`
	TransactionID string `json:"transaction_id"`
}

type DeleteTransactionResponse struct{}

type ParticipantSummary struct {
	ParticipantID string      `json:"participant_id"`
	Name          string      `json:"name"`
	Spent         money.Money `json:"spent"`
	Cost          money.Money `json:"cost"`
	Balance       money.Money `json:"balance"`
}

type Settlement struct {
	FromParticipantID string      `json:"from_participant_id"`
	ToParticipantID   string      `json:"to_participant_id"`
	Money             money.Money `json:"money"`
}

type GetBalancesRequest struct {
	SheetID string `json:"sheet_id"`
}

type GetBalancesResponse struct {
	Balances    []*ParticipantSummary `json:"balances"`
	Settlements []*Settlement         `json:"settlements"`
}

type ConfirmSettlementRequest struct {
	SheetID           string `json:"sheet_id"`
	FromParticipantID string `json:"from_participant_id"`
	ToParticipantID   string `json:"to_participant_id"`
	Amount            string `json:"amount"`
}

type ConfirmSettlementResponse struct {
	Transaction *Transaction `json:"transaction"`
}
