package participant

import (
	"context"
	"hash/fnv"
	"math/rand"
	"sync"
)

// Trainer is the local-training collaborator: it produces a weight
// vector plus an accuracy estimate from local data, and applies the
// aggregated global vector back onto the local model.
type Trainer interface {
	Train(ctx context.Context) (vector []float64, accuracy float64, err error)
	ApplyGlobal(vector []float64) (accuracy float64, err error)
	SampleCount() int
	FeatureCount() int
}

// SyntheticTrainer simulates a linear model trained on locally generated
// data. Seeding from the participant identity gives each participant a
// distinct but reproducible data distribution.
type SyntheticTrainer struct {
	mu sync.Mutex

	rng      *rand.Rand
	samples  int
	features int
	weights  []float64
	accuracy float64
}

func NewSyntheticTrainer(seed string, samples, features int) *SyntheticTrainer {
	h := fnv.New64a()
	h.Write([]byte(seed))
	rng := rand.New(rand.NewSource(int64(h.Sum64())))

	// Coefficients plus intercept.
	weights := make([]float64, features+1)
	for i := range weights {
		weights[i] = rng.Float64()*2 - 1
	}

	return &SyntheticTrainer{
		rng:      rng,
		samples:  samples,
		features: features,
		weights:  weights,
	}
}

func (t *SyntheticTrainer) Train(_ context.Context) ([]float64, float64, error) {
	t.mu.Lock()
	defer t.mu.Unlock()

	vector := make([]float64, len(t.weights))
	for i, w := range t.weights {
		vector[i] = w + t.rng.NormFloat64()*0.05
	}
	copy(t.weights, vector)

	t.accuracy = 0.55 + t.rng.Float64()*0.35

	return vector, t.accuracy, nil
}

func (t *SyntheticTrainer) ApplyGlobal(vector []float64) (float64, error) {
	t.mu.Lock()
	defer t.mu.Unlock()

	t.weights = make([]float64, len(vector))
	copy(t.weights, vector)

	// Averaging across distributions tends to generalize a little better
	// than a purely local fit.
	t.accuracy += t.rng.Float64() * 0.05
	if t.accuracy > 1 {
		t.accuracy = 1
	}

	return t.accuracy, nil
}

func (t *SyntheticTrainer) SampleCount() int {
	return t.samples
}

func (t *SyntheticTrainer) FeatureCount() int {
	return t.features
}
