package compliance

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestFromYear(t *testing.T) {
	my, err := FromYear(2024)
	require.NoError(t, err)
	assert.Equal(t, MY2024, my)
	assert.Equal(t, 2024, my.Year())

	_, err = FromYear(2018)
	assert.Error(t, err)
	var cfgErr *ConfigurationError
	assert.ErrorAs(t, err, &cfgErr)

	_, err = FromYear(2036)
	assert.Error(t, err)
}

func TestNextPrev(t *testing.T) {
	next, err := MY2024.Next()
	require.NoError(t, err)
	assert.Equal(t, MY2025, next)

	prev, err := MY2024.Prev()
	require.NoError(t, err)
	assert.Equal(t, MY2023, prev)

	_, err = MaxModelYear.Next()
	assert.Error(t, err)
	_, err = MinModelYear.Prev()
	assert.Error(t, err)
}

func TestPreceding(t *testing.T) {
	years, err := MY2024.Preceding(3)
	require.NoError(t, err)
	assert.Equal(t, []ModelYear{MY2023, MY2022, MY2021}, years)
}

func TestPrecedingInsufficientHistory(t *testing.T) {
	// MY2021 has only two predecessors in the enumeration; a short window
	// must fail, never be returned truncated.
	_, err := MY2021.Preceding(3)
	require.Error(t, err)
	var cfgErr *ConfigurationError
	assert.ErrorAs(t, err, &cfgErr)
	assert.Contains(t, err.Error(), "insufficient model-year history")

	_, err = MY2022.Preceding(3)
	assert.NoError(t, err)
}

func TestOrderingIsTotal(t *testing.T) {
	assert.True(t, MY2019 < MY2020)
	assert.True(t, MY2034 < MY2035)
	cur := MinModelYear
	for cur < MaxModelYear {
		next, err := cur.Next()
		require.NoError(t, err)
		assert.Equal(t, cur.Year()+1, next.Year())
		cur = next
	}
}
