package participant_test

import (
	"context"
	"testing"

	"github.com/absmach/federator/participant"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestSyntheticTrainerDeterministicSeed(t *testing.T) {
	a := participant.NewSyntheticTrainer("alice", 100, 5)
	b := participant.NewSyntheticTrainer("alice", 100, 5)

	va, aa, err := a.Train(context.Background())
	require.NoError(t, err)
	vb, ab, err := b.Train(context.Background())
	require.NoError(t, err)

	assert.Equal(t, va, vb)
	assert.Equal(t, aa, ab)
}

func TestSyntheticTrainerDistinctSeeds(t *testing.T) {
	a := participant.NewSyntheticTrainer("alice", 100, 5)
	b := participant.NewSyntheticTrainer("bob", 100, 5)

	va, _, err := a.Train(context.Background())
	require.NoError(t, err)
	vb, _, err := b.Train(context.Background())
	require.NoError(t, err)

	assert.NotEqual(t, va, vb)
}

func TestSyntheticTrainerVectorShape(t *testing.T) {
	tr := participant.NewSyntheticTrainer("alice", 200, 8)

	vector, accuracy, err := tr.Train(context.Background())
	require.NoError(t, err)
	assert.Len(t, vector, 9)
	assert.GreaterOrEqual(t, accuracy, 0.55)
	assert.LessOrEqual(t, accuracy, 0.9)
	assert.Equal(t, 200, tr.SampleCount())
	assert.Equal(t, 8, tr.FeatureCount())
}

func TestSyntheticTrainerApplyGlobal(t *testing.T) {
	tr := participant.NewSyntheticTrainer("alice", 100, 2)

	_, local, err := tr.Train(context.Background())
	require.NoError(t, err)

	global, err := tr.ApplyGlobal([]float64{0.5, -0.5, 0.25})
	require.NoError(t, err)
	assert.GreaterOrEqual(t, global, local)
	assert.LessOrEqual(t, global, 1.0)

	// The adopted vector seeds the next training step.
	vector, _, err := tr.Train(context.Background())
	require.NoError(t, err)
	require.Len(t, vector, 3)
	assert.InDelta(t, 0.5, vector[0], 0.3)
	assert.InDelta(t, -0.5, vector[1], 0.3)
	assert.InDelta(t, 0.25, vector[2], 0.3)
}
