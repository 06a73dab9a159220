package commands

import (
	"errors"
	"fmt"
	"os"
	"strings"

	"github.com/shopspring/decimal"
	"gopkg.in/yaml.v3"

	"github.com/mmynk/splitsheets/internal/calculator"
	"github.com/mmynk/splitsheets/internal/models"
	"github.com/mmynk/splitsheets/internal/money"
)

// Ledger is the YAML form of a sheet:
//
//	currency: USD
//	participants:
//	  - {id: alice, name: Alice}
//	  - {id: bob, name: Bob}
//	transactions:
//	  - type: EXPENSE
//	    amount: "30.00"
//	    paid_by: alice
//	    split: {mode: evenly}
//	  - {type: TRANSFER, amount: "15.00", from: bob, to: alice}
type Ledger struct {
	Currency     string              `yaml:"currency"`
	Participants []LedgerParticipant `yaml:"participants"`
	Transactions []LedgerTransaction `yaml:"transactions"`
}

// LedgerParticipant is a person on the sheet. Name defaults to ID.
type LedgerParticipant struct {
	ID   string `yaml:"id"`
	Name string `yaml:"name,omitempty"`
}

// LedgerTransaction is one EXPENSE, INCOME or TRANSFER. Expenses and income
// use PaidBy and Split; transfers use From and To.
type LedgerTransaction struct {
	Type        string       `yaml:"type"`
	Amount      string       `yaml:"amount"`
	Description string       `yaml:"description,omitempty"`
	PaidBy      string       `yaml:"paid_by,omitempty"`
	From        string       `yaml:"from,omitempty"`
	To          string       `yaml:"to,omitempty"`
	Split       *LedgerSplit `yaml:"split,omitempty"`
}

// LedgerSplit mirrors the RPC split input. An evenly split without entries
// covers every participant.
type LedgerSplit struct {
	Mode    string             `yaml:"mode"`
	Entries []LedgerSplitEntry `yaml:"entries,omitempty"`
}

// LedgerSplitEntry is one participant's line of a split.
type LedgerSplitEntry struct {
	Participant string `yaml:"participant"`
	Selected    bool   `yaml:"selected,omitempty"`
	Shares      int64  `yaml:"shares,omitempty"`
	Percent     string `yaml:"percent,omitempty"`
	Amount      string `yaml:"amount,omitempty"`
}

// LoadLedger reads a ledger file from disk.
func LoadLedger(path string) (*Ledger, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("reading ledger: %w", err)
	}
	var l Ledger
	if err := yaml.Unmarshal(data, &l); err != nil {
		return nil, fmt.Errorf("parsing ledger: %w", err)
	}
	return &l, nil
}

// book is a ledger resolved into engine types.
type book struct {
	currency     string
	scale        int32
	participants []models.Participant
	transactions []models.Transaction
}

func (b *book) name(id string) string {
	for _, p := range b.participants {
		if p.ID == id && p.Name != "" {
			return p.Name
		}
	}
	return id
}

// resolve validates the ledger and converts it to engine types. Every
// EXPENSE and INCOME split goes through the split validator.
func (l *Ledger) resolve() (*book, error) {
	currency := strings.ToUpper(l.Currency)
	if err := money.ValidateCurrency(currency); err != nil {
		return nil, err
	}
	b := &book{currency: currency, scale: money.MinorUnits(currency)}

	seen := make(map[string]bool, len(l.Participants))
	for _, p := range l.Participants {
		if p.ID == "" {
			return nil, errors.New("participant without id")
		}
		if seen[p.ID] {
			return nil, fmt.Errorf("participant %q listed twice", p.ID)
		}
		seen[p.ID] = true
		b.participants = append(b.participants, models.Participant{ID: p.ID, Name: p.Name})
	}
	if len(b.participants) == 0 {
		return nil, errors.New("ledger has no participants")
	}

	for i, lt := range l.Transactions {
		tx, err := b.transaction(i, lt)
		if err != nil {
			return nil, fmt.Errorf("transaction %d: %w", i+1, err)
		}
		b.transactions = append(b.transactions, tx)
	}
	return b, nil
}

func (b *book) transaction(i int, lt LedgerTransaction) (models.Transaction, error) {
	total, err := money.Parse(lt.Amount, b.currency, b.scale)
	if err != nil {
		return models.Transaction{}, err
	}
	tx := models.Transaction{
		ID:          fmt.Sprintf("tx-%d", i+1),
		Type:        models.TransactionType(strings.ToUpper(lt.Type)),
		Money:       total,
		Description: lt.Description,
	}

	switch tx.Type {
	case models.TransactionTypeExpense, models.TransactionTypeIncome:
		tx.PaidOrReceivedByID = lt.PaidBy
		mode, err := b.splitMode(lt.Split)
		if err != nil {
			return models.Transaction{}, err
		}
		if tx.Splits, err = calculator.ValidateSplit(mode, total); err != nil {
			return models.Transaction{}, err
		}
	case models.TransactionTypeTransfer:
		tx.FromID, tx.ToID = lt.From, lt.To
	default:
		return models.Transaction{}, fmt.Errorf("%w: unknown type %q", calculator.ErrInvalidTransaction, lt.Type)
	}
	return tx, nil
}

func (b *book) splitMode(s *LedgerSplit) (calculator.SplitMode, error) {
	if s == nil {
		return nil, fmt.Errorf("%w: split is required", calculator.ErrInvalidTransaction)
	}

	mode := strings.ToLower(s.Mode)
	entries := make([]calculator.Entry, len(s.Entries))
	for i, e := range s.Entries {
		entries[i] = calculator.Entry{ParticipantID: e.Participant, Selected: e.Selected, Shares: e.Shares}
		switch mode {
		case calculator.ModePercentage:
			pct, err := decimal.NewFromString(e.Percent)
			if err != nil {
				return nil, fmt.Errorf("percent of %q: %w", e.Participant, err)
			}
			entries[i].Percent = pct
		case calculator.ModeAmounts:
			m, err := money.Parse(e.Amount, b.currency, b.scale)
			if err != nil {
				return nil, fmt.Errorf("amount of %q: %w", e.Participant, err)
			}
			entries[i].Amount = m
		}
	}

	everyone := make([]string, len(b.participants))
	for i, p := range b.participants {
		everyone[i] = p.ID
	}
	return calculator.NewSplitMode(mode, entries, everyone)
}

// summaries folds the ledger into per-participant balances and checks that
// they cancel out.
func (b *book) summaries() (map[string]calculator.Summary, error) {
	sums, err := calculator.ComputeBalances(b.currency, b.scale, b.transactions, b.participants)
	if err != nil {
		return nil, err
	}
	if err := calculator.CheckZeroSum(b.currency, sums); err != nil {
		return nil, err
	}
	return sums, nil
}

func loadBook(path string) (*book, error) {
	l, err := LoadLedger(path)
	if err != nil {
		return nil, err
	}
	return l.resolve()
}
