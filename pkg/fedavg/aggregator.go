// Package fedavg implements sample-weighted federated averaging of
// participant weight vectors.
package fedavg

import "fmt"

// Contribution is one participant's weight vector for a round, weighted
// by its local sample count. Accuracy is informational only.
type Contribution struct {
	ClientID    string    `json:"client_id"`
	Vector      []float64 `json:"vector"`
	SampleCount int       `json:"samples"`
	Accuracy    float64   `json:"accuracy"`
	Round       int       `json:"round"`
}

type Aggregator interface {
	// Aggregate combines equal-length vectors into their sample-weighted
	// elementwise mean. It returns no partial result on failure.
	Aggregate(contributions []Contribution) ([]float64, error)
}

type fedAvg struct{}

func NewFedAvg() Aggregator {
	return fedAvg{}
}

func (fedAvg) Aggregate(contributions []Contribution) ([]float64, error) {
	if len(contributions) == 0 {
		return nil, ErrNoContributions
	}

	length := len(contributions[0].Vector)
	if length == 0 {
		return nil, fmt.Errorf("%w: zero-length vector from %s", ErrLengthMismatch, contributions[0].ClientID)
	}

	result := make([]float64, length)
	var total int64
	for _, c := range contributions {
		if len(c.Vector) != length {
			return nil, fmt.Errorf("%w: %s sent %d elements, expected %d", ErrLengthMismatch, c.ClientID, len(c.Vector), length)
		}

		weight := float64(c.SampleCount)
		total += int64(c.SampleCount)
		for i, v := range c.Vector {
			result[i] += weight * v
		}
	}

	if total <= 0 {
		return nil, ErrZeroWeight
	}

	norm := float64(total)
	for i := range result {
		result[i] /= norm
	}

	return result, nil
}
