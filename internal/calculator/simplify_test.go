package calculator

import (
	"fmt"
	"math/rand/v2"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/mmynk/splitsheets/internal/models"
	"github.com/mmynk/splitsheets/internal/money"
)

func bal(id string, amount int64) ParticipantBalance {
	return ParticipantBalance{ParticipantID: id, Balance: usd(amount)}
}

// assertSettled applies transfers to balances and checks everything ends at zero.
func assertSettled(t *testing.T, balances []ParticipantBalance, transfers []models.Settlement) {
	t.Helper()
	left := make(map[string]int64, len(balances))
	for _, b := range balances {
		v, err := b.Balance.Rescale(2)
		require.NoError(t, err)
		left[b.ParticipantID] = v.Amount
	}
	for _, s := range transfers {
		require.Positive(t, s.Money.Amount, "transfer %s -> %s", s.FromParticipantID, s.ToParticipantID)
		require.NotEqual(t, s.FromParticipantID, s.ToParticipantID)
		v, err := s.Money.Rescale(2)
		require.NoError(t, err)
		left[s.FromParticipantID] += v.Amount
		left[s.ToParticipantID] -= v.Amount
	}
	for id, v := range left {
		assert.Zero(t, v, "participant %s not settled", id)
	}
}

func TestSimplifyDebts_SingleDebtor(t *testing.T) {
	balances := []ParticipantBalance{bal("p1", 1000), bal("p2", 0), bal("p3", -1000)}

	got, err := SimplifyDebts(balances)
	require.NoError(t, err)
	assert.Equal(t, []models.Settlement{
		{FromParticipantID: "p3", ToParticipantID: "p1", Money: usd(1000)},
	}, got)
}

func TestSimplifyDebts_LargestFirst(t *testing.T) {
	balances := []ParticipantBalance{bal("a", 5000), bal("b", 3000), bal("c", -4000), bal("d", -4000)}

	got, err := SimplifyDebts(balances)
	require.NoError(t, err)
	assert.Equal(t, []models.Settlement{
		{FromParticipantID: "c", ToParticipantID: "a", Money: usd(4000)},
		{FromParticipantID: "d", ToParticipantID: "b", Money: usd(3000)},
		{FromParticipantID: "d", ToParticipantID: "a", Money: usd(1000)},
	}, got)
	assertSettled(t, balances, got)
}

func TestSimplifyDebts_AllSettled(t *testing.T) {
	got, err := SimplifyDebts([]ParticipantBalance{bal("a", 0), bal("b", 0)})
	require.NoError(t, err)
	assert.Empty(t, got)

	got, err = SimplifyDebts(nil)
	require.NoError(t, err)
	assert.Empty(t, got)
}

func TestSimplifyDebts_Unbalanced(t *testing.T) {
	_, err := SimplifyDebts([]ParticipantBalance{bal("a", 1000), bal("b", -999)})
	require.ErrorIs(t, err, ErrUnbalancedLedger)

	var unbalanced *UnbalancedLedgerError
	require.ErrorAs(t, err, &unbalanced)
	assert.Equal(t, usd(1000), unbalanced.Credits)
	assert.Equal(t, usd(999), unbalanced.Debits)
}

func TestSimplifyDebts_CurrencyMismatch(t *testing.T) {
	_, err := SimplifyDebts([]ParticipantBalance{
		bal("a", 1000),
		{ParticipantID: "b", Balance: money.New(-1000, 2, "EUR")},
	})
	assert.ErrorIs(t, err, money.ErrCurrencyMismatch)
}

func TestSimplifyDebts_MixedScales(t *testing.T) {
	balances := []ParticipantBalance{
		{ParticipantID: "a", Balance: money.New(10, 0, "USD")},
		{ParticipantID: "b", Balance: money.New(-10005, 3, "USD")},
		{ParticipantID: "c", Balance: money.New(5, 3, "USD")},
	}
	got, err := SimplifyDebts(balances)
	require.NoError(t, err)
	assert.Equal(t, []models.Settlement{
		{FromParticipantID: "b", ToParticipantID: "a", Money: money.New(10000, 3, "USD")},
		{FromParticipantID: "b", ToParticipantID: "c", Money: money.New(5, 3, "USD")},
	}, got)
}

func TestSimplifyDebts_RandomBalances(t *testing.T) {
	rng := rand.New(rand.NewPCG(3, 5))
	for round := 0; round < 500; round++ {
		n := 1 + rng.IntN(12)
		balances := make([]ParticipantBalance, n)
		var total int64
		for i := 0; i < n-1; i++ {
			v := rng.Int64N(20_001) - 10_000
			balances[i] = bal(fmt.Sprintf("p%d", i), v)
			total += v
		}
		balances[n-1] = bal(fmt.Sprintf("p%d", n-1), -total)

		got, err := SimplifyDebts(balances)
		require.NoError(t, err)
		require.LessOrEqual(t, len(got), n-1)
		assertSettled(t, balances, got)

		// Deterministic for the same input.
		again, err := SimplifyDebts(balances)
		require.NoError(t, err)
		require.Equal(t, got, again)
	}
}

func TestSettlementTransaction(t *testing.T) {
	s := models.Settlement{FromParticipantID: "p3", ToParticipantID: "p1", Money: usd(1000)}
	tx := SettlementTransaction("sheet-1", s)

	assert.Equal(t, models.TransactionTypeTransfer, tx.Type)
	assert.Equal(t, "sheet-1", tx.SheetID)
	assert.Equal(t, "p3", tx.FromID)
	assert.Equal(t, "p1", tx.ToID)
	assert.Equal(t, SettlementCategory, tx.Category)

	// Recording the suggestion clears both sides.
	people := participants("p1", "p3")
	owed := expense(t, "t1", "p1", usd(1000), Amounts{Entries: []AmountEntry{{ParticipantID: "p3", Amount: usd(1000)}}})
	got, err := ComputeBalances("USD", 2, []models.Transaction{owed, tx}, people)
	require.NoError(t, err)
	assert.Equal(t, map[string]int64{"p1": 0, "p3": 0}, balanceAmounts(got))
}

func TestCheckZeroSum(t *testing.T) {
	ok := map[string]Summary{
		"a": {Balance: usd(500)},
		"b": {Balance: usd(-200)},
		"c": {Balance: usd(-300)},
	}
	require.NoError(t, CheckZeroSum("USD", ok))

	broken := map[string]Summary{
		"a": {Balance: usd(500)},
		"b": {Balance: usd(-200)},
	}
	var unbalanced *UnbalancedLedgerError
	require.ErrorAs(t, CheckZeroSum("USD", broken), &unbalanced)
	assert.Equal(t, usd(500), unbalanced.Credits)
	assert.Equal(t, usd(200), unbalanced.Debits)
}

func TestSortBalances(t *testing.T) {
	people := participants("z", "a", "m")
	summaries := map[string]Summary{
		"a": {Balance: usd(1)},
		"m": {Balance: usd(-1)},
		"z": {Balance: usd(0)},
	}
	got := SortBalances(people, summaries)
	require.Len(t, got, 3)
	assert.Equal(t, []string{"z", "a", "m"}, []string{got[0].ParticipantID, got[1].ParticipantID, got[2].ParticipantID})
}
