package billing

import (
	"testing"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func d(s string) decimal.Decimal {
	v, err := decimal.NewFromString(s)
	if err != nil {
		panic(err)
	}
	return v
}

func TestLineAmount_RoundsHalfUp(t *testing.T) {
	// 3 × 33.335 = 100.005 → 100.01
	amount, err := LineAmount(d("3"), d("33.335"))
	require.NoError(t, err)
	assert.True(t, amount.Equal(d("100.01")), "got %s", amount)
}

func TestLineAmount_RejectsNegatives(t *testing.T) {
	_, err := LineAmount(d("-1"), d("10"))
	assert.Error(t, err)

	_, err = LineAmount(d("1"), d("-10"))
	assert.Error(t, err)
}

func TestTotal_SingleRate(t *testing.T) {
	// 2 × 50.00 at 19 % → net 100.00, tax 19.00, gross 119.00
	totals, err := Total([]Line{
		{Quantity: d("2"), UnitPrice: d("50.00"), TaxRate: d("19")},
	}, false)
	require.NoError(t, err)

	assert.True(t, totals.Net.Equal(d("100.00")), "net %s", totals.Net)
	assert.True(t, totals.Tax.Equal(d("19.00")), "tax %s", totals.Tax)
	assert.True(t, totals.Gross.Equal(d("119.00")), "gross %s", totals.Gross)
	require.Len(t, totals.Breakdown, 1)
	assert.True(t, totals.Breakdown[0].Rate.Equal(d("19")))
}

func TestTotal_MixedRates(t *testing.T) {
	// 100.00 at 19 % + 50.00 at 7 % → tax 19.00 + 3.50 = 22.50, gross 172.50
	totals, err := Total([]Line{
		{Quantity: d("1"), UnitPrice: d("100.00"), TaxRate: d("19")},
		{Quantity: d("1"), UnitPrice: d("50.00"), TaxRate: d("7")},
	}, false)
	require.NoError(t, err)

	assert.True(t, totals.Net.Equal(d("150.00")), "net %s", totals.Net)
	assert.True(t, totals.Tax.Equal(d("22.50")), "tax %s", totals.Tax)
	assert.True(t, totals.Gross.Equal(d("172.50")), "gross %s", totals.Gross)
	require.Len(t, totals.Breakdown, 2)
}

func TestTotal_SmallBusinessZeroesTax(t *testing.T) {
	lines := []Line{
		{Quantity: d("1"), UnitPrice: d("100.00"), TaxRate: d("19")},
		{Quantity: d("1"), UnitPrice: d("50.00"), TaxRate: d("7")},
	}
	totals, err := Total(lines, true)
	require.NoError(t, err)

	assert.True(t, totals.Tax.IsZero(), "tax %s", totals.Tax)
	assert.True(t, totals.Gross.Equal(totals.Net))
	assert.Empty(t, totals.Breakdown)
	// Stored line rates are untouched — small-business only affects totalling
	assert.True(t, lines[0].TaxRate.Equal(d("19")))
}

func TestTotal_RoundingPerRateGroup(t *testing.T) {
	// Three lines of 0.10 at 19 %: tax on grouped net 0.30 is 0.057 → 0.06.
	// Per-line rounding would give 3 × 0.02 = 0.06 too, but 0.33 at 19 %
	// distinguishes: grouped 0.0627 → 0.06.
	totals, err := Total([]Line{
		{Quantity: d("1"), UnitPrice: d("0.11"), TaxRate: d("19")},
		{Quantity: d("1"), UnitPrice: d("0.11"), TaxRate: d("19")},
		{Quantity: d("1"), UnitPrice: d("0.11"), TaxRate: d("19")},
	}, false)
	require.NoError(t, err)
	assert.True(t, totals.Net.Equal(d("0.33")))
	assert.True(t, totals.Tax.Equal(d("0.06")), "tax %s", totals.Tax)
}

func TestTotal_EmptyLines(t *testing.T) {
	totals, err := Total(nil, false)
	require.NoError(t, err)
	assert.True(t, totals.Net.IsZero())
	assert.True(t, totals.Tax.IsZero())
	assert.True(t, totals.Gross.IsZero())
	assert.Empty(t, totals.Breakdown)
}

func TestRemainingBalance_NeverNegative(t *testing.T) {
	rem := RemainingBalance(d("100.00"), d("120.00"))
	assert.True(t, rem.IsZero())
}

func TestIsSettled_Epsilon(t *testing.T) {
	assert.True(t, IsSettled(d("0.00")))
	assert.True(t, IsSettled(d("0.01")))
	assert.False(t, IsSettled(d("0.02")))
}
