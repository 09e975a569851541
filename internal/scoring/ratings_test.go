package scoring

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestAggregateRatings_TypicalSet(t *testing.T) {
	summary := AggregateRatings([]float64{6, 8, 10})

	require.NotNil(t, summary.Avg)
	require.NotNil(t, summary.Min)
	require.NotNil(t, summary.Max)
	assert.Equal(t, 8.0, *summary.Avg)
	assert.Equal(t, 6.0, *summary.Min)
	assert.Equal(t, 10.0, *summary.Max)
	assert.Equal(t, 3, summary.Count)
	assert.Equal(t, []float64{6, 8, 10}, summary.Ratings)
}

func TestAggregateRatings_Empty(t *testing.T) {
	summary := AggregateRatings(nil)

	assert.Nil(t, summary.Avg)
	assert.Nil(t, summary.Min)
	assert.Nil(t, summary.Max)
	assert.Equal(t, 0, summary.Count)
	assert.Empty(t, summary.Ratings)
}

func TestAggregateRatings_NoRounding(t *testing.T) {
	// The mean stays raw; any rounding happens at presentation time.
	summary := AggregateRatings([]float64{5, 6, 6})

	require.NotNil(t, summary.Avg)
	assert.InDelta(t, 17.0/3.0, *summary.Avg, 1e-12)
}

func TestAggregateRatings_SingleRating(t *testing.T) {
	summary := AggregateRatings([]float64{4})

	require.NotNil(t, summary.Avg)
	assert.Equal(t, 4.0, *summary.Avg)
	assert.Equal(t, 4.0, *summary.Min)
	assert.Equal(t, 4.0, *summary.Max)
	assert.Equal(t, 1, summary.Count)
}
