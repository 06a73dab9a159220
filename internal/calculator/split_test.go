package calculator

import (
	"math"
	"testing"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/mmynk/splitsheets/internal/models"
	"github.com/mmynk/splitsheets/internal/money"
)

func usd(amount int64) money.Money {
	return money.New(amount, 2, "USD")
}

func shares(splits []models.Split) map[string]int64 {
	out := make(map[string]int64, len(splits))
	for _, s := range splits {
		out[s.ParticipantID] = s.Share.Amount
	}
	return out
}

func requireInvalidSplit(t *testing.T, err error) *InvalidSplitError {
	t.Helper()
	require.ErrorIs(t, err, ErrInvalidSplit)
	var splitErr *InvalidSplitError
	require.ErrorAs(t, err, &splitErr)
	return splitErr
}

func TestValidateSplit(t *testing.T) {
	tests := []struct {
		name  string
		mode  SplitMode
		total money.Money
		want  map[string]int64
	}{
		{
			name:  "evenly three ways",
			mode:  Evenly{ParticipantIDs: []string{"p1", "p2", "p3"}},
			total: usd(3000),
			want:  map[string]int64{"p1": 1000, "p2": 1000, "p3": 1000},
		},
		{
			name:  "evenly with remainder",
			mode:  Evenly{ParticipantIDs: []string{"p1", "p2", "p3"}},
			total: usd(1001),
			want:  map[string]int64{"p1": 334, "p2": 334, "p3": 333},
		},
		{
			name: "selected subset",
			mode: Selected{Choices: []Choice{
				{ParticipantID: "p1", Selected: true},
				{ParticipantID: "p2", Selected: false},
				{ParticipantID: "p3", Selected: true},
			}},
			total: usd(1001),
			want:  map[string]int64{"p1": 501, "p2": 0, "p3": 500},
		},
		{
			name: "by shares",
			mode: Shares{Entries: []ShareEntry{
				{ParticipantID: "p1", Shares: 2},
				{ParticipantID: "p2", Shares: 1},
				{ParticipantID: "p3", Shares: 1},
			}},
			total: usd(1000),
			want:  map[string]int64{"p1": 500, "p2": 250, "p3": 250},
		},
		{
			name: "by fractional percentage",
			mode: Percentage{Entries: []PercentEntry{
				{ParticipantID: "p1", Percent: decimal.NewFromInt(50)},
				{ParticipantID: "p2", Percent: decimal.RequireFromString("25.5")},
				{ParticipantID: "p3", Percent: decimal.RequireFromString("24.5")},
			}},
			total: usd(1000),
			want:  map[string]int64{"p1": 500, "p2": 255, "p3": 245},
		},
		{
			name: "by percentage with remainder",
			mode: Percentage{Entries: []PercentEntry{
				{ParticipantID: "p1", Percent: decimal.RequireFromString("33.34")},
				{ParticipantID: "p2", Percent: decimal.RequireFromString("33.33")},
				{ParticipantID: "p3", Percent: decimal.RequireFromString("33.33")},
			}},
			total: usd(100),
			want:  map[string]int64{"p1": 34, "p2": 33, "p3": 33},
		},
		{
			name: "by exact amounts",
			mode: Amounts{Entries: []AmountEntry{
				{ParticipantID: "p1", Amount: usd(700)},
				{ParticipantID: "p2", Amount: money.New(3, 0, "USD")},
			}},
			total: usd(1000),
			want:  map[string]int64{"p1": 700, "p2": 300},
		},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			splits, err := ValidateSplit(tt.mode, tt.total)
			require.NoError(t, err)
			assert.Equal(t, tt.want, shares(splits))

			sum := money.Zero("USD")
			for _, s := range splits {
				assert.Equal(t, tt.total.Scale, s.Share.Scale)
				sum, err = sum.Add(s.Share)
				require.NoError(t, err)
			}
			assert.True(t, sum.Equal(tt.total), "shares sum to %s, want %s", sum, tt.total)
		})
	}
}

func TestValidateSplit_KeepsInputOrder(t *testing.T) {
	splits, err := ValidateSplit(Evenly{ParticipantIDs: []string{"c", "a", "b"}}, usd(300))
	require.NoError(t, err)
	require.Len(t, splits, 3)
	assert.Equal(t, "c", splits[0].ParticipantID)
	assert.Equal(t, "a", splits[1].ParticipantID)
	assert.Equal(t, "b", splits[2].ParticipantID)
}

func TestValidateSplit_PercentageShortfall(t *testing.T) {
	_, err := ValidateSplit(Percentage{Entries: []PercentEntry{
		{ParticipantID: "p1", Percent: decimal.NewFromInt(50)},
		{ParticipantID: "p2", Percent: decimal.NewFromInt(49)},
	}}, usd(1000))

	splitErr := requireInvalidSplit(t, err)
	assert.Equal(t, ModePercentage, splitErr.Mode)
	assert.Equal(t, "percent", splitErr.Unit)
	assert.True(t, splitErr.Difference().Equal(decimal.NewFromInt(1)), "difference %s", splitErr.Difference())
}

func TestValidateSplit_PercentageExcess(t *testing.T) {
	_, err := ValidateSplit(Percentage{Entries: []PercentEntry{
		{ParticipantID: "p1", Percent: decimal.NewFromInt(60)},
		{ParticipantID: "p2", Percent: decimal.RequireFromString("40.5")},
	}}, usd(1000))

	splitErr := requireInvalidSplit(t, err)
	assert.True(t, splitErr.Difference().Equal(decimal.RequireFromString("-0.5")), "difference %s", splitErr.Difference())
}

func TestValidateSplit_AmountsShortfall(t *testing.T) {
	_, err := ValidateSplit(Amounts{Entries: []AmountEntry{
		{ParticipantID: "p1", Amount: usd(700)},
		{ParticipantID: "p2", Amount: usd(200)},
	}}, usd(1000))

	splitErr := requireInvalidSplit(t, err)
	assert.Equal(t, "USD", splitErr.Unit)
	assert.True(t, splitErr.Difference().Equal(decimal.NewFromInt(1)), "difference %s", splitErr.Difference())
}

func TestValidateSplit_AmountsCurrencyMismatch(t *testing.T) {
	_, err := ValidateSplit(Amounts{Entries: []AmountEntry{
		{ParticipantID: "p1", Amount: money.New(1000, 2, "EUR")},
	}}, usd(1000))
	assert.ErrorIs(t, err, money.ErrCurrencyMismatch)
}

func TestValidateSplit_Rejects(t *testing.T) {
	tests := []struct {
		name string
		mode SplitMode
	}{
		{"no participants", Evenly{}},
		{"nobody selected", Selected{Choices: []Choice{{ParticipantID: "p1"}, {ParticipantID: "p2"}}}},
		{"zero shares", Shares{Entries: []ShareEntry{{ParticipantID: "p1", Shares: 0}}}},
		{"negative shares", Shares{Entries: []ShareEntry{{ParticipantID: "p1", Shares: 3}, {ParticipantID: "p2", Shares: -1}}}},
		{"duplicate participant", Evenly{ParticipantIDs: []string{"p1", "p1"}}},
		{"empty participant id", Evenly{ParticipantIDs: []string{""}}},
		{"negative percentage", Percentage{Entries: []PercentEntry{
			{ParticipantID: "p1", Percent: decimal.NewFromInt(110)},
			{ParticipantID: "p2", Percent: decimal.NewFromInt(-10)},
		}}},
		{"amount finer than total scale", Amounts{Entries: []AmountEntry{
			{ParticipantID: "p1", Amount: money.New(10005, 3, "USD")},
		}}},
		{"negative amount", Amounts{Entries: []AmountEntry{
			{ParticipantID: "p1", Amount: usd(1100)},
			{ParticipantID: "p2", Amount: usd(-100)},
		}}},
		{"no mode", nil},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := ValidateSplit(tt.mode, usd(1000))
			requireInvalidSplit(t, err)
		})
	}
}

func TestValidateSplit_ZeroWeightsReportShortfall(t *testing.T) {
	_, err := ValidateSplit(Selected{Choices: []Choice{{ParticipantID: "p1"}}}, usd(1000))
	splitErr := requireInvalidSplit(t, err)
	assert.True(t, splitErr.Difference().Equal(decimal.NewFromInt(1)))
	assert.Equal(t, "participants", splitErr.Unit)
}

func TestValidateSplit_HugeShares(t *testing.T) {
	mode := Shares{Entries: []ShareEntry{
		{ParticipantID: "p1", Shares: math.MaxInt64},
		{ParticipantID: "p2", Shares: math.MaxInt64},
	}}
	splits, err := ValidateSplit(mode, usd(1001))
	require.NoError(t, err)
	assert.Equal(t, map[string]int64{"p1": 501, "p2": 500}, shares(splits))
}

func TestNewSplitMode(t *testing.T) {
	everyone := []string{"p1", "p2", "p3"}

	t.Run("evenly without entries covers everyone", func(t *testing.T) {
		mode, err := NewSplitMode("Evenly", nil, everyone)
		require.NoError(t, err)
		assert.Equal(t, Evenly{ParticipantIDs: everyone}, mode)
	})

	t.Run("evenly with entries", func(t *testing.T) {
		mode, err := NewSplitMode(ModeEvenly, []Entry{{ParticipantID: "p2"}}, everyone)
		require.NoError(t, err)
		assert.Equal(t, Evenly{ParticipantIDs: []string{"p2"}}, mode)
	})

	t.Run("each mode reads its own field", func(t *testing.T) {
		entries := []Entry{
			{ParticipantID: "p1", Selected: true, Shares: 2, Percent: decimal.NewFromInt(75), Amount: usd(300)},
			{ParticipantID: "p2", Shares: 1, Percent: decimal.NewFromInt(25), Amount: usd(100)},
		}
		tests := []struct {
			name string
			want map[string]int64
		}{
			{ModeSelected, map[string]int64{"p1": 400, "p2": 0}},
			{ModeShares, map[string]int64{"p1": 267, "p2": 133}},
			{ModePercentage, map[string]int64{"p1": 300, "p2": 100}},
			{ModeAmounts, map[string]int64{"p1": 300, "p2": 100}},
		}
		for _, tt := range tests {
			t.Run(tt.name, func(t *testing.T) {
				mode, err := NewSplitMode(tt.name, entries, everyone)
				require.NoError(t, err)
				assert.Equal(t, tt.name, mode.Name())
				splits, err := ValidateSplit(mode, usd(400))
				require.NoError(t, err)
				assert.Equal(t, tt.want, shares(splits))
			})
		}
	})

	t.Run("unknown mode", func(t *testing.T) {
		_, err := NewSplitMode("lottery", nil, everyone)
		assert.ErrorIs(t, err, ErrInvalidTransaction)
	})
}
