package interest_test

import (
	"testing"

	"github.com/SscSPs/cdt_management_app/internal/utils/interest"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestCalculateReturn_ReferenceValue(t *testing.T) {
	// 10,000,000 at 12% annual, 360 days of daily compounding.
	got := interest.CalculateReturn(decimal.NewFromInt(10_000_000), decimal.NewFromInt(12), 360)

	expected := decimal.RequireFromString("1256230.59")
	diff := got.Sub(expected).Abs()
	require.Truef(t, diff.LessThanOrEqual(decimal.RequireFromString("0.01")),
		"expected ~%s, got %s (diff %s)", expected, got, diff)
}

func TestCalculateReturn_TwoDecimalPlaces(t *testing.T) {
	got := interest.CalculateReturn(decimal.RequireFromString("1234.56"), decimal.RequireFromString("7.5"), 123)
	assert.LessOrEqual(t, int(got.Exponent())*-1, 2)
}

func TestCalculateReturn_IncreasingInRate(t *testing.T) {
	principal := decimal.NewFromInt(5_000_000)
	prev := decimal.Zero
	for rate := 1; rate <= 20; rate++ {
		got := interest.CalculateReturn(principal, decimal.NewFromInt(int64(rate)), 180)
		assert.Truef(t, got.GreaterThan(prev), "return must grow with rate: rate=%d got=%s prev=%s", rate, got, prev)
		prev = got
	}
}

func TestCalculateReturn_IncreasingInTerm(t *testing.T) {
	principal := decimal.NewFromInt(5_000_000)
	rate := decimal.NewFromInt(10)
	prev := decimal.Zero
	for _, days := range []int{30, 60, 90, 180, 360, 720} {
		got := interest.CalculateReturn(principal, rate, days)
		assert.Truef(t, got.GreaterThan(prev), "return must grow with term: days=%d got=%s prev=%s", days, got, prev)
		prev = got
	}
}

func TestMaturityAmount(t *testing.T) {
	principal := decimal.NewFromInt(10_000_000)
	rate := decimal.NewFromInt(12)

	ret := interest.CalculateReturn(principal, rate, 360)
	assert.True(t, interest.MaturityAmount(principal, rate, 360).Equal(principal.Add(ret)))
}
