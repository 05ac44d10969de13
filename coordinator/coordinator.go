// Package coordinator implements the round coordination engine: the
// registration table, the collection barrier that triggers federated
// averaging exactly once per round, and the broadcast of global weights.
package coordinator

import (
	"context"
	"time"

	"github.com/absmach/federator/pkg/fedavg"
	"github.com/absmach/federator/pkg/proto"
)

type RunState string

const (
	StateAwaitingParticipants RunState = "awaiting_participants"
	StateCollecting           RunState = "collecting"
	StateAggregating          RunState = "aggregating"
	StateBroadcasting         RunState = "broadcasting"
)

type ParticipantState string

const (
	Connected    ParticipantState = "connected"
	Registered   ParticipantState = "registered"
	Disconnected ParticipantState = "disconnected"
)

// Sender delivers framed messages to one participant. Each connection
// handler owns its connection and hands the coordinator a Sender for
// acknowledgments and broadcasts.
type Sender interface {
	Send(m proto.Message) error
	Close() error
}

type Participant struct {
	ID           string           `json:"id"`
	SampleCount  int              `json:"samples"`
	FeatureCount int              `json:"features"`
	State        ParticipantState `json:"state"`
	RegisteredAt time.Time        `json:"registered_at"`
}

type ParticipantPage struct {
	Offset       uint64        `json:"offset"`
	Limit        uint64        `json:"limit"`
	Total        uint64        `json:"total"`
	Participants []Participant `json:"participants"`
}

// RoundReport records one successful aggregation.
type RoundReport struct {
	ID           string    `json:"id"`
	Round        int       `json:"round"`
	Contributors []string  `json:"contributors"`
	TotalSamples int       `json:"total_samples"`
	VectorLength int       `json:"vector_length"`
	MeanAccuracy float64   `json:"mean_accuracy"`
	CompletedAt  time.Time `json:"completed_at"`
}

type RoundPage struct {
	Offset uint64        `json:"offset"`
	Limit  uint64        `json:"limit"`
	Total  uint64        `json:"total"`
	Rounds []RoundReport `json:"rounds"`
}

type Status struct {
	Round         int      `json:"round"`
	State         RunState `json:"state"`
	Target        int      `json:"target"`
	Registered    int      `json:"registered"`
	Contributions int      `json:"contributions"`
}

type Service interface {
	// Register adds a participant to the registration table, assigning a
	// unique identity, and returns the record plus the current round. When
	// the table first reaches the target count the start signal is
	// broadcast to every registered participant.
	Register(ctx context.Context, hint string, samples, features int, sender Sender) (Participant, int, error)

	// Submit accepts one contribution per participant per round. Reaching
	// the target count triggers aggregation and broadcast exactly once.
	Submit(ctx context.Context, c fedavg.Contribution) error

	// Disconnect removes a participant; pending rounds simply wait on the
	// remaining target count.
	Disconnect(ctx context.Context, id string) error

	Status(ctx context.Context) (Status, error)
	ListParticipants(ctx context.Context, offset, limit uint64) (ParticipantPage, error)
	ListRounds(ctx context.Context, offset, limit uint64) (RoundPage, error)
}
