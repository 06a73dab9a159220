package service

import (
	"strings"

	"github.com/shopspring/decimal"

	"github.com/mmynk/splitsheets/internal/api"
	"github.com/mmynk/splitsheets/internal/calculator"
	"github.com/mmynk/splitsheets/internal/money"
)

// parseAmount reads a positive decimal amount at the sheet's scale.
func (a *sheetAccess) parseAmount(field, s string) (money.Money, error) {
	m, err := money.Parse(strings.TrimSpace(s), a.sheet.CurrencyCode, a.sheet.Scale)
	if err != nil {
		return money.Money{}, invalidArgument("invalid %s %q: %v", field, s, err)
	}
	if m.Sign() <= 0 {
		return money.Money{}, invalidArgument("%s must be positive, got %s", field, s)
	}
	return m, nil
}

// splitMode converts the wire form of a split into a calculator mode. An
// evenly split without entries covers every participant of the sheet.
func (a *sheetAccess) splitMode(in *api.SplitInput) (calculator.SplitMode, error) {
	if in == nil {
		return nil, invalidArgument("split is required")
	}

	mode := strings.ToLower(in.Mode)
	ids := make([]string, len(in.Entries))
	entries := make([]calculator.Entry, len(in.Entries))
	for i, e := range in.Entries {
		ids[i] = e.ParticipantID
		entries[i] = calculator.Entry{ParticipantID: e.ParticipantID, Selected: e.Selected, Shares: e.Shares}
		switch mode {
		case api.SplitModePercentage:
			pct, err := decimal.NewFromString(strings.TrimSpace(e.Percent))
			if err != nil {
				return nil, invalidArgument("invalid percent %q for participant %q", e.Percent, e.ParticipantID)
			}
			entries[i].Percent = pct
		case api.SplitModeAmounts:
			m, err := money.Parse(strings.TrimSpace(e.Amount), a.sheet.CurrencyCode, a.sheet.Scale)
			if err != nil {
				return nil, invalidArgument("invalid amount %q for participant %q: %v", e.Amount, e.ParticipantID, err)
			}
			entries[i].Amount = m
		}
	}
	if err := a.requireParticipants(ids...); err != nil {
		return nil, err
	}

	everyone := make([]string, len(a.participants))
	for i, p := range a.participants {
		everyone[i] = p.ID
	}
	m, err := calculator.NewSplitMode(mode, entries, everyone)
	if err != nil {
		return nil, invalidArgument("unknown split mode %q", in.Mode)
	}
	return m, nil
}
