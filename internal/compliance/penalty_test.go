package compliance

import (
	"testing"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestPenaltyForShortfall(t *testing.T) {
	got := PenaltyForShortfall(MY2026, decimal.RequireFromString("10"))
	assert.True(t, got.Equal(decimal.RequireFromString("50000.00")), "got %s", got)

	got = PenaltyForShortfall(MY2026, decimal.RequireFromString("2.5"))
	assert.True(t, got.Equal(decimal.RequireFromString("12500.00")), "got %s", got)
}

func TestPenaltyZeroOrNegativeShortfall(t *testing.T) {
	assert.True(t, PenaltyForShortfall(MY2026, decimal.Zero).IsZero())
	assert.True(t, PenaltyForShortfall(MY2026, decimal.RequireFromString("-3")).IsZero())
}

func TestPenaltyUndefinedYearIsZero(t *testing.T) {
	// The table is sparse past MY2026; no published rate means no penalty.
	_, ok := PenaltyRate(MY2030)
	require.False(t, ok)
	assert.True(t, PenaltyForShortfall(MY2030, decimal.RequireFromString("100")).IsZero())
}
