package calculator

import (
	"errors"
	"fmt"
	"strings"

	"github.com/shopspring/decimal"

	"github.com/mmynk/splitsheets/internal/models"
	"github.com/mmynk/splitsheets/internal/money"
)

// Split mode names, as used on the wire and in error messages.
const (
	ModeEvenly     = "evenly"
	ModeSelected   = "selected"
	ModeShares     = "shares"
	ModePercentage = "percentage"
	ModeAmounts    = "amounts"
)

// maxPercentPlaces bounds percentage precision so 100% shifted to an
// integer weight still fits in an int64.
const maxPercentPlaces = 16

var hundred = decimal.NewFromInt(100)

// SplitMode is how a total is apportioned between participants. It is one of
// Evenly, Selected, Shares, Percentage or Amounts.
type SplitMode interface {
	Name() string
}

// Evenly splits the total equally between all listed participants.
type Evenly struct {
	ParticipantIDs []string
}

// Selected splits the total equally between the chosen participants. The
// others get a zero share.
type Selected struct {
	Choices []Choice
}

// Choice marks whether one participant takes part in a Selected split.
type Choice struct {
	ParticipantID string
	Selected      bool
}

// Shares splits the total proportionally to integer share counts.
type Shares struct {
	Entries []ShareEntry
}

// ShareEntry is one participant's share count.
type ShareEntry struct {
	ParticipantID string
	Shares        int64
}

// Percentage splits the total by percentages that must add up to exactly 100.
type Percentage struct {
	Entries []PercentEntry
}

// PercentEntry is one participant's percentage of the total.
type PercentEntry struct {
	ParticipantID string
	Percent       decimal.Decimal
}

// Amounts assigns explicit shares that must add up to exactly the total.
type Amounts struct {
	Entries []AmountEntry
}

// AmountEntry is one participant's explicit share of the total.
type AmountEntry struct {
	ParticipantID string
	Amount        money.Money
}

func (Evenly) Name() string     { return ModeEvenly }
func (Selected) Name() string   { return ModeSelected }
func (Shares) Name() string     { return ModeShares }
func (Percentage) Name() string { return ModePercentage }
func (Amounts) Name() string    { return ModeAmounts }

// Entry is one participant's line of a split as entered. Which field is read
// depends on the mode: none for evenly, then Selected, Shares, Percent or
// Amount.
type Entry struct {
	ParticipantID string
	Selected      bool
	Shares        int64
	Percent       decimal.Decimal
	Amount        money.Money
}

// NewSplitMode builds the split mode called name (case-insensitive) from
// entries. An evenly split without entries covers everyone.
func NewSplitMode(name string, entries []Entry, everyone []string) (SplitMode, error) {
	switch strings.ToLower(name) {
	case ModeEvenly:
		ids := make([]string, 0, len(entries))
		for _, e := range entries {
			ids = append(ids, e.ParticipantID)
		}
		if len(ids) == 0 {
			ids = append(ids, everyone...)
		}
		return Evenly{ParticipantIDs: ids}, nil
	case ModeSelected:
		choices := make([]Choice, len(entries))
		for i, e := range entries {
			choices[i] = Choice{ParticipantID: e.ParticipantID, Selected: e.Selected}
		}
		return Selected{Choices: choices}, nil
	case ModeShares:
		shares := make([]ShareEntry, len(entries))
		for i, e := range entries {
			shares[i] = ShareEntry{ParticipantID: e.ParticipantID, Shares: e.Shares}
		}
		return Shares{Entries: shares}, nil
	case ModePercentage:
		pcts := make([]PercentEntry, len(entries))
		for i, e := range entries {
			pcts[i] = PercentEntry{ParticipantID: e.ParticipantID, Percent: e.Percent}
		}
		return Percentage{Entries: pcts}, nil
	case ModeAmounts:
		amounts := make([]AmountEntry, len(entries))
		for i, e := range entries {
			amounts[i] = AmountEntry{ParticipantID: e.ParticipantID, Amount: e.Amount}
		}
		return Amounts{Entries: amounts}, nil
	}
	return nil, fmt.Errorf("%w: unknown split mode %q", ErrInvalidTransaction, name)
}

// ValidateSplit resolves mode against total into concrete per-participant
// shares, in input order, whose sum is exactly total. Input that cannot be
// resolved fails with an *InvalidSplitError.
func ValidateSplit(mode SplitMode, total money.Money) ([]models.Split, error) {
	switch m := mode.(type) {
	case Evenly:
		weights := make([]int64, len(m.ParticipantIDs))
		for i := range weights {
			weights[i] = 1
		}
		return allocateWeights(ModeEvenly, "participants", total, m.ParticipantIDs, weights)
	case Selected:
		ids := make([]string, len(m.Choices))
		weights := make([]int64, len(m.Choices))
		for i, c := range m.Choices {
			ids[i] = c.ParticipantID
			if c.Selected {
				weights[i] = 1
			}
		}
		return allocateWeights(ModeSelected, "participants", total, ids, weights)
	case Shares:
		ids := make([]string, len(m.Entries))
		weights := make([]int64, len(m.Entries))
		for i, e := range m.Entries {
			ids[i] = e.ParticipantID
			weights[i] = e.Shares
		}
		return allocateWeights(ModeShares, "shares", total, ids, weights)
	case Percentage:
		return splitByPercentage(m, total)
	case Amounts:
		return splitByAmounts(m, total)
	case nil:
		return nil, &InvalidSplitError{Mode: "unknown", Reason: "no split mode given"}
	default:
		return nil, &InvalidSplitError{Mode: mode.Name(), Reason: "unsupported split mode"}
	}
}

func allocateWeights(mode, unit string, total money.Money, ids []string, weights []int64) ([]models.Split, error) {
	if err := checkParticipants(mode, ids); err != nil {
		return nil, err
	}
	for i, w := range weights {
		if w < 0 {
			return nil, &InvalidSplitError{Mode: mode, Reason: fmt.Sprintf("negative %s for participant %q", unit, ids[i])}
		}
	}

	parts, err := money.Allocate(total, weights)
	if errors.Is(err, money.ErrZeroWeights) {
		return nil, &InvalidSplitError{
			Mode:     mode,
			Expected: decimal.NewFromInt(1),
			Actual:   decimal.Zero,
			Unit:     unit,
		}
	}
	if err != nil {
		return nil, err
	}
	return toSplits(ids, parts), nil
}

func splitByPercentage(m Percentage, total money.Money) ([]models.Split, error) {
	ids := make([]string, len(m.Entries))
	sum := decimal.Zero
	places := int32(0)
	for i, e := range m.Entries {
		ids[i] = e.ParticipantID
		if e.Percent.IsNegative() {
			return nil, &InvalidSplitError{Mode: ModePercentage, Reason: fmt.Sprintf("negative percentage for participant %q", e.ParticipantID)}
		}
		sum = sum.Add(e.Percent)
		if exp := e.Percent.Exponent(); exp < 0 {
			places = max(places, -exp)
		}
	}
	if err := checkParticipants(ModePercentage, ids); err != nil {
		return nil, err
	}
	if !sum.Equal(hundred) {
		return nil, &InvalidSplitError{
			Mode:     ModePercentage,
			Expected: hundred,
			Actual:   sum,
			Unit:     "percent",
		}
	}
	if places > maxPercentPlaces {
		return nil, &InvalidSplitError{Mode: ModePercentage, Reason: fmt.Sprintf("more than %d decimal places", maxPercentPlaces)}
	}

	weights := make([]int64, len(m.Entries))
	for i, e := range m.Entries {
		weights[i] = e.Percent.Shift(places).IntPart()
	}
	parts, err := money.Allocate(total, weights)
	if err != nil {
		return nil, err
	}
	return toSplits(ids, parts), nil
}

func splitByAmounts(m Amounts, total money.Money) ([]models.Split, error) {
	ids := make([]string, len(m.Entries))
	parts := make([]money.Money, len(m.Entries))
	sum := money.Zero(total.Currency)
	for i, e := range m.Entries {
		ids[i] = e.ParticipantID
		if e.Amount.Currency != total.Currency {
			return nil, fmt.Errorf("share of participant %q: %w: %q and %q",
				e.ParticipantID, money.ErrCurrencyMismatch, e.Amount.Currency, total.Currency)
		}
		if e.Amount.Sign()*total.Sign() < 0 {
			return nil, &InvalidSplitError{Mode: ModeAmounts, Reason: fmt.Sprintf("share of participant %q has the wrong sign", e.ParticipantID)}
		}
		share, err := e.Amount.Rescale(total.Scale)
		if err != nil {
			return nil, &InvalidSplitError{Mode: ModeAmounts, Reason: fmt.Sprintf("share of participant %q: %v", e.ParticipantID, err)}
		}
		parts[i] = share
		if sum, err = sum.Add(share); err != nil {
			return nil, err
		}
	}
	if err := checkParticipants(ModeAmounts, ids); err != nil {
		return nil, err
	}
	if !sum.Equal(total) {
		return nil, &InvalidSplitError{
			Mode:     ModeAmounts,
			Expected: total.Decimal(),
			Actual:   sum.Decimal(),
			Unit:     total.Currency,
		}
	}
	return toSplits(ids, parts), nil
}

func checkParticipants(mode string, ids []string) error {
	seen := make(map[string]bool, len(ids))
	for _, id := range ids {
		if id == "" {
			return &InvalidSplitError{Mode: mode, Reason: "empty participant id"}
		}
		if seen[id] {
			return &InvalidSplitError{Mode: mode, Reason: fmt.Sprintf("participant %q listed twice", id)}
		}
		seen[id] = true
	}
	return nil
}

func toSplits(ids []string, parts []money.Money) []models.Split {
	splits := make([]models.Split, len(ids))
	for i, id := range ids {
		splits[i] = models.Split{ParticipantID: id, Share: parts[i]}
	}
	return splits
}
