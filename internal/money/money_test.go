package money

import (
	"math"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestAddNormalizesScale(t *testing.T) {
	a := New(105, 1, "USD") // 10.5
	b := New(25, 2, "USD")  // 0.25

	sum, err := a.Add(b)
	require.NoError(t, err)
	assert.Equal(t, New(1075, 2, "USD"), sum)

	diff, err := a.Sub(b)
	require.NoError(t, err)
	assert.Equal(t, New(1025, 2, "USD"), diff)
}

func TestCurrencyMismatch(t *testing.T) {
	usd := New(100, 2, "USD")
	eur := New(100, 2, "EUR")

	_, err := usd.Add(eur)
	assert.ErrorIs(t, err, ErrCurrencyMismatch)

	_, err = usd.Compare(eur)
	assert.ErrorIs(t, err, ErrCurrencyMismatch)

	assert.False(t, usd.Equal(eur))
}

func TestCompare(t *testing.T) {
	tests := []struct {
		a, b Money
		want int
	}{
		{New(100, 1, "USD"), New(1000, 2, "USD"), 0},
		{New(999, 2, "USD"), New(10, 0, "USD"), -1},
		{New(-1, 2, "USD"), New(-2, 2, "USD"), 1},
	}
	for _, tt := range tests {
		got, err := tt.a.Compare(tt.b)
		require.NoError(t, err)
		assert.Equal(t, tt.want, got, "%s vs %s", tt.a, tt.b)
	}
	assert.True(t, New(100, 1, "USD").Equal(New(1000, 2, "USD")))
}

func TestNegateAndSign(t *testing.T) {
	m := New(250, 2, "USD")
	assert.Equal(t, New(-250, 2, "USD"), m.Negate())
	assert.Equal(t, 1, m.Sign())
	assert.Equal(t, -1, m.Negate().Sign())
	assert.Equal(t, 0, Zero("USD").Sign())
	assert.Equal(t, m, m.Negate().Abs())
}

func TestParse(t *testing.T) {
	tests := []struct {
		in      string
		scale   int32
		want    int64
		wantErr error
	}{
		{"10.01", 2, 1001, nil},
		{" 30 ", 2, 3000, nil},
		{"-3.5", 2, -350, nil},
		{"1000", 0, 1000, nil},
		{"0.125", 3, 125, nil},
		{"10.001", 2, 0, ErrPrecisionLoss},
		{"99999999999999999999", 2, 0, ErrOverflow},
	}
	for _, tt := range tests {
		got, err := Parse(tt.in, "USD", tt.scale)
		if tt.wantErr != nil {
			assert.ErrorIs(t, err, tt.wantErr, "Parse(%q)", tt.in)
			continue
		}
		require.NoError(t, err, "Parse(%q)", tt.in)
		assert.Equal(t, New(tt.want, tt.scale, "USD"), got)
	}

	_, err := Parse("abc", "USD", 2)
	assert.Error(t, err)
}

func TestString(t *testing.T) {
	assert.Equal(t, "30.00 USD", New(3000, 2, "USD").String())
	assert.Equal(t, "-0.05 EUR", New(-5, 2, "EUR").String())
	assert.Equal(t, "1500 JPY", New(1500, 0, "JPY").String())
}

func TestRescale(t *testing.T) {
	up, err := New(1001, 2, "USD").Rescale(4)
	require.NoError(t, err)
	assert.Equal(t, New(100100, 4, "USD"), up)

	down, err := New(1000, 2, "USD").Rescale(0)
	require.NoError(t, err)
	assert.Equal(t, New(10, 0, "USD"), down)

	_, err = New(1001, 2, "USD").Rescale(0)
	assert.ErrorIs(t, err, ErrPrecisionLoss)

	_, err = New(math.MaxInt64, 0, "USD").Rescale(2)
	assert.ErrorIs(t, err, ErrOverflow)

	_, err = New(1, 0, "USD").Rescale(-1)
	assert.ErrorIs(t, err, ErrInvalidScale)
}

func TestAddOverflow(t *testing.T) {
	_, err := New(math.MaxInt64, 0, "USD").Add(New(1, 0, "USD"))
	assert.ErrorIs(t, err, ErrOverflow)
}

func TestSum(t *testing.T) {
	total, err := Sum("USD", New(1000, 2, "USD"), New(5, 1, "USD"), New(-1, 0, "USD"))
	require.NoError(t, err)
	assert.Equal(t, New(950, 2, "USD"), total)

	_, err = Sum("USD", New(1, 2, "EUR"))
	assert.ErrorIs(t, err, ErrCurrencyMismatch)
}

func TestMinorUnits(t *testing.T) {
	assert.Equal(t, int32(2), MinorUnits("USD"))
	assert.Equal(t, int32(0), MinorUnits("JPY"))
	assert.Equal(t, int32(3), MinorUnits("KWD"))

	assert.NoError(t, ValidateCurrency("EUR"))
	assert.ErrorIs(t, ValidateCurrency("eur"), ErrInvalidCurrency)
	assert.ErrorIs(t, ValidateCurrency("EURO"), ErrInvalidCurrency)
}
