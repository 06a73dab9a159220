package commands

import (
	"bytes"
	"errors"
	"io"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/mmynk/splitsheets/internal/calculator"
	"github.com/mmynk/splitsheets/internal/money"
)

const tripLedger = `currency: usd
participants:
  - {id: alice, name: Alice}
  - {id: bob, name: Bob}
  - {id: carol, name: Carol}
transactions:
  - type: EXPENSE
    amount: "30.00"
    description: Dinner
    paid_by: alice
    split: {mode: evenly}
  - {type: TRANSFER, amount: "10.00", from: bob, to: alice}
`

func runSplitctl(t *testing.T, args ...string) (string, error) {
	t.Helper()
	cmd := NewRootCommand()
	var out bytes.Buffer
	cmd.SetOut(&out)
	cmd.SetErr(io.Discard)
	cmd.SetArgs(args)
	err := cmd.Execute()
	return out.String(), err
}

func writeLedger(t *testing.T, contents string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), "ledger.yaml")
	require.NoError(t, os.WriteFile(path, []byte(contents), 0o644))
	return path
}

func TestAllocate(t *testing.T) {
	out, err := runSplitctl(t, "allocate", "--total", "10.01", "--weights", "1,1,1")
	require.NoError(t, err)
	assert.Equal(t, "1\t3.34 USD\n1\t3.34 USD\n1\t3.33 USD\n", out)

	out, err = runSplitctl(t, "allocate", "--total", "1000", "--currency", "jpy", "--weights", "2,1")
	require.NoError(t, err)
	assert.Equal(t, "2\t667 JPY\n1\t333 JPY\n", out)
}

func TestAllocate_Rejects(t *testing.T) {
	tests := []struct {
		name string
		args []string
	}{
		{"zero weights", []string{"--total", "5.00", "--weights", "0,0"}},
		{"negative weight", []string{"--total", "5.00", "--weights", "1,-1"}},
		{"no weights", []string{"--total", "5.00"}},
		{"too precise", []string{"--total", "5.001", "--weights", "1"}},
		{"bad currency", []string{"--total", "5", "--currency", "dollars", "--weights", "1"}},
		{"missing total", []string{"--weights", "1"}},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := runSplitctl(t, append([]string{"allocate"}, tt.args...)...)
			assert.Error(t, err)
		})
	}
}

func TestBalances(t *testing.T) {
	path := writeLedger(t, tripLedger)

	out, err := runSplitctl(t, "balances", "--file", path)
	require.NoError(t, err)

	lines := strings.Split(strings.TrimSpace(out), "\n")
	require.Len(t, lines, 4)
	assert.Contains(t, lines[0], "BALANCE")
	assert.Equal(t, "Alice 30.00 USD 10.00 USD 10.00 USD", strings.Join(strings.Fields(lines[1]), " "))
	assert.Equal(t, "Bob 0.00 USD 10.00 USD 0.00 USD", strings.Join(strings.Fields(lines[2]), " "))
	assert.Equal(t, "Carol 0.00 USD 10.00 USD -10.00 USD", strings.Join(strings.Fields(lines[3]), " "))
}

func TestSettle(t *testing.T) {
	out, err := runSplitctl(t, "settle", "-f", writeLedger(t, tripLedger))
	require.NoError(t, err)
	assert.Equal(t, "Carol pays Alice 10.00 USD\n", out)

	settled := tripLedger + "  - {type: TRANSFER, amount: \"10.00\", from: carol, to: alice}\n"
	out, err = runSplitctl(t, "settle", "-f", writeLedger(t, settled))
	require.NoError(t, err)
	assert.Equal(t, "All settled up.\n", out)
}

func TestLedgerErrors(t *testing.T) {
	header := "currency: USD\nparticipants: [{id: a}, {id: b}]\ntransactions:\n"
	tests := []struct {
		name   string
		ledger string
		target error
	}{
		{
			name:   "percentages short of 100",
			ledger: header + "  - {type: EXPENSE, amount: \"9.00\", paid_by: a, split: {mode: percentage, entries: [{participant: a, percent: \"50\"}, {participant: b, percent: \"40\"}]}}\n",
			target: calculator.ErrInvalidSplit,
		},
		{
			name:   "unknown payer",
			ledger: header + "  - {type: EXPENSE, amount: \"9.00\", paid_by: z, split: {mode: evenly}}\n",
			target: calculator.ErrUnknownParticipant,
		},
		{
			name:   "transfer to self",
			ledger: header + "  - {type: TRANSFER, amount: \"9.00\", from: a, to: a}\n",
			target: calculator.ErrInvalidTransaction,
		},
		{
			name:   "unknown type",
			ledger: header + "  - {type: GIFT, amount: \"9.00\"}\n",
			target: calculator.ErrInvalidTransaction,
		},
		{
			name:   "too many decimals",
			ledger: header + "  - {type: TRANSFER, amount: \"9.001\", from: a, to: b}\n",
			target: money.ErrPrecisionLoss,
		},
		{
			name:   "bad currency",
			ledger: "currency: dollars\nparticipants: [{id: a}]\n",
			target: money.ErrInvalidCurrency,
		},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := runSplitctl(t, "balances", "-f", writeLedger(t, tt.ledger))
			require.Error(t, err)
			assert.True(t, errors.Is(err, tt.target), "got %v", err)
		})
	}

	_, err := runSplitctl(t, "balances", "-f", filepath.Join(t.TempDir(), "missing.yaml"))
	assert.ErrorIs(t, err, os.ErrNotExist)
}
