package stats

import (
	"testing"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestConfidenceFor(t *testing.T) {
	assert.Equal(t, ConfidenceLow, ConfidenceFor(0))
	assert.Equal(t, ConfidenceLow, ConfidenceFor(9))
	assert.Equal(t, ConfidenceMedium, ConfidenceFor(10))
	assert.Equal(t, ConfidenceMedium, ConfidenceFor(49))
	assert.Equal(t, ConfidenceHigh, ConfidenceFor(50))
}

func TestSummarize(t *testing.T) {
	t.Run("empty", func(t *testing.T) {
		s := Summarize(nil)
		assert.Equal(t, 0, s.Count)
		assert.Nil(t, s.StdDev)
	})

	t.Run("single roll has no deviation", func(t *testing.T) {
		s := Summarize([]float64{21.5})
		assert.Equal(t, 1, s.Count)
		assert.Equal(t, 21.5, s.Mean)
		assert.Equal(t, 21.5, s.Min)
		assert.Equal(t, 21.5, s.Max)
		assert.Nil(t, s.StdDev)
	})

	t.Run("sample deviation", func(t *testing.T) {
		s := Summarize([]float64{20, 22, 24})
		assert.Equal(t, 3, s.Count)
		assert.Equal(t, 66.0, s.Total)
		assert.Equal(t, 22.0, s.Mean)
		assert.Equal(t, 20.0, s.Min)
		assert.Equal(t, 24.0, s.Max)
		require.NotNil(t, s.StdDev)
		assert.InDelta(t, 2.0, *s.StdDev, 1e-9)
	})
}

func TestEstimateRolls(t *testing.T) {
	_, ok := EstimateRolls(500, RollSummary{})
	assert.False(t, ok)

	s := Summarize([]float64{20, 25, 30})
	est, ok := EstimateRolls(500, s)
	require.True(t, ok)

	assert.Equal(t, 20, est.Rolls)
	assert.Equal(t, 20.0, est.RollsExact)
	require.NotNil(t, est.MinRolls)
	require.NotNil(t, est.MaxRolls)
	assert.Equal(t, 16, *est.MinRolls) // floor(500/30)
	assert.Equal(t, 25, *est.MaxRolls) // ceil(500/20)
	assert.Equal(t, ConfidenceLow, est.Confidence)
}

func TestRollsPer1000Kg(t *testing.T) {
	assert.Nil(t, RollsPer1000Kg(0))
	v := RollsPer1000Kg(22.5)
	require.NotNil(t, v)
	assert.Equal(t, 44.4, *v)
}

func TestRound(t *testing.T) {
	assert.Equal(t, 1.23, Round(1.2345, 2))
	assert.Equal(t, 1.24, Round(1.235, 2))
	assert.Equal(t, 44.4, Round(44.444, 1))
}

func TestProgressPercent(t *testing.T) {
	got := ProgressPercent(decimal.RequireFromString("250"), decimal.RequireFromString("1000"))
	assert.True(t, decimal.RequireFromString("25").Equal(got), got.String())

	assert.True(t, ProgressPercent(decimal.NewFromInt(5), decimal.Zero).IsZero())
}

func TestMarginPercent(t *testing.T) {
	got, ok := MarginPercent(decimal.RequireFromString("80"), decimal.RequireFromString("120"))
	require.True(t, ok)
	assert.Equal(t, "33.33", got.StringFixed(2))

	_, ok = MarginPercent(decimal.NewFromInt(10), decimal.Zero)
	assert.False(t, ok)
}

func TestSum(t *testing.T) {
	got := Sum([]decimal.Decimal{decimal.RequireFromString("1.10"), decimal.RequireFromString("2.25")})
	assert.Equal(t, "3.35", got.StringFixed(2))
}
