// Package proto implements the coordinator/participant wire protocol:
// a closed set of JSON messages delimited by a 4-byte big-endian length
// prefix, with weight vectors carried as hex-encoded CBOR blobs.
package proto

import "fmt"

type Kind string

const (
	KindRegister      Kind = "register"
	KindRegistered    Kind = "registered"
	KindStartTraining Kind = "start_training"
	KindWeights       Kind = "weights"
	KindGlobalWeights Kind = "global_weights"
	KindPing          Kind = "ping"
	KindPong          Kind = "pong"
)

// Message is the wire envelope for every kind. Fields not used by a
// given kind stay at their zero value and are omitted from the payload.
type Message struct {
	Type         Kind    `json:"type"`
	ClientID     string  `json:"client_id,omitempty"`
	SampleCount  int     `json:"samples,omitempty"`
	FeatureCount int     `json:"features,omitempty"`
	Weights      string  `json:"weights,omitempty"`
	Accuracy     float64 `json:"accuracy,omitempty"`
	Round        int     `json:"round"`
}

// Validate enforces the per-kind field contract. Unknown kinds and
// missing required fields are protocol errors.
func (m Message) Validate() error {
	switch m.Type {
	case KindRegister:
		if m.SampleCount < 0 {
			return fmt.Errorf("%w: register with negative sample count %d", ErrProtocol, m.SampleCount)
		}
		if m.FeatureCount < 0 {
			return fmt.Errorf("%w: register with negative feature count %d", ErrProtocol, m.FeatureCount)
		}
	case KindRegistered:
		if m.ClientID == "" {
			return fmt.Errorf("%w: registered without assigned identity", ErrProtocol)
		}
	case KindStartTraining:
		if m.Round < 0 {
			return fmt.Errorf("%w: start_training with negative round %d", ErrProtocol, m.Round)
		}
	case KindWeights:
		if m.ClientID == "" {
			return fmt.Errorf("%w: weights without identity", ErrProtocol)
		}
		if m.Weights == "" {
			return fmt.Errorf("%w: weights without vector blob", ErrProtocol)
		}
		if m.SampleCount < 0 {
			return fmt.Errorf("%w: weights with negative sample count %d", ErrProtocol, m.SampleCount)
		}
	case KindGlobalWeights:
		if m.Weights == "" {
			return fmt.Errorf("%w: global_weights without vector blob", ErrProtocol)
		}
	case KindPing, KindPong:
	default:
		return fmt.Errorf("%w: unknown message kind %q", ErrProtocol, m.Type)
	}

	return nil
}
