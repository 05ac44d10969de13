package fedavg_test

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/absmach/federator/pkg/fedavg"
)

const epsilon = 1e-12

func TestAggregateWeightedMean(t *testing.T) {
	agg := fedavg.NewFedAvg()

	contributions := []fedavg.Contribution{
		{ClientID: "a", Vector: []float64{1, 1, 1, 1, 1}, SampleCount: 100},
		{ClientID: "b", Vector: []float64{2, 2, 2, 2, 2}, SampleCount: 150},
		{ClientID: "c", Vector: []float64{3, 3, 3, 3, 3}, SampleCount: 50},
	}

	result, err := agg.Aggregate(contributions)
	require.NoError(t, err)
	require.Len(t, result, 5)

	// (100*1 + 150*2 + 50*3) / 300
	expected := 550.0 / 300.0
	for i := range result {
		assert.InDelta(t, expected, result[i], epsilon)
	}
}

func TestAggregateOrderIndependent(t *testing.T) {
	agg := fedavg.NewFedAvg()

	forward := []fedavg.Contribution{
		{ClientID: "a", Vector: []float64{0.25, -4}, SampleCount: 10},
		{ClientID: "b", Vector: []float64{8, 0.5}, SampleCount: 30},
	}
	reversed := []fedavg.Contribution{forward[1], forward[0]}

	r1, err := agg.Aggregate(forward)
	require.NoError(t, err)
	r2, err := agg.Aggregate(reversed)
	require.NoError(t, err)

	require.Len(t, r2, len(r1))
	for i := range r1 {
		assert.InDelta(t, r1[i], r2[i], epsilon)
	}
}

func TestAggregateSingleContributor(t *testing.T) {
	agg := fedavg.NewFedAvg()

	result, err := agg.Aggregate([]fedavg.Contribution{
		{ClientID: "a", Vector: []float64{0.5, -0.5, 1.5}, SampleCount: 42},
	})
	require.NoError(t, err)
	assert.Equal(t, []float64{0.5, -0.5, 1.5}, result)
}

func TestAggregateErrors(t *testing.T) {
	agg := fedavg.NewFedAvg()

	tests := []struct {
		name          string
		contributions []fedavg.Contribution
		expected      error
	}{
		{
			name:     "empty set",
			expected: fedavg.ErrNoContributions,
		},
		{
			name: "zero-length vectors",
			contributions: []fedavg.Contribution{
				{ClientID: "a", Vector: []float64{}, SampleCount: 10},
			},
			expected: fedavg.ErrLengthMismatch,
		},
		{
			name: "length mismatch",
			contributions: []fedavg.Contribution{
				{ClientID: "a", Vector: []float64{1, 2, 3, 4, 5}, SampleCount: 10},
				{ClientID: "b", Vector: []float64{1, 2, 3, 4}, SampleCount: 10},
			},
			expected: fedavg.ErrLengthMismatch,
		},
		{
			name: "zero total weight",
			contributions: []fedavg.Contribution{
				{ClientID: "a", Vector: []float64{1, 2}, SampleCount: 0},
				{ClientID: "b", Vector: []float64{3, 4}, SampleCount: 0},
			},
			expected: fedavg.ErrZeroWeight,
		},
	}

	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			result, err := agg.Aggregate(tc.contributions)
			assert.ErrorIs(t, err, tc.expected)
			assert.Nil(t, result)
		})
	}
}
