package coordinator

import (
	"context"
	"fmt"
	"log/slog"
	"strconv"
	"sync"
	"time"

	"github.com/google/uuid"

	pkgerrors "github.com/absmach/federator/pkg/errors"
	"github.com/absmach/federator/pkg/fedavg"
	"github.com/absmach/federator/pkg/proto"
	"github.com/absmach/federator/pkg/storage"
)

type service struct {
	mu sync.Mutex

	target        int
	state         RunState
	round         int
	contributions []fedavg.Contribution
	contributed   map[string]struct{}
	vectorLen     int
	global        []float64

	registry   *registry
	aggregator fedavg.Aggregator
	roundsDB   storage.Storage
	logger     *slog.Logger
}

func NewService(target int, aggregator fedavg.Aggregator, roundsDB storage.Storage, logger *slog.Logger) Service {
	return &service{
		target:      target,
		state:       StateAwaitingParticipants,
		contributed: make(map[string]struct{}),
		registry:    newRegistry(),
		aggregator:  aggregator,
		roundsDB:    roundsDB,
		logger:      logger,
	}
}

func (svc *service) Register(ctx context.Context, hint string, samples, features int, sender Sender) (Participant, int, error) {
	if samples < 0 || features < 0 {
		return Participant{}, 0, pkgerrors.ErrInvalidData
	}

	ss := &sequencedSender{sender: sender}

	svc.mu.Lock()
	id := svc.registry.assignID(hint)
	p := Participant{
		ID:           id,
		SampleCount:  samples,
		FeatureCount: features,
		State:        Registered,
		RegisteredAt: time.Now(),
	}

	// Claim the participant's send slot before its table entry becomes
	// visible. Broadcasts queue behind the slot, so the ack reaches the
	// wire first even though the write happens after the unlock.
	ss.mu.Lock()
	svc.registry.add(p, ss)
	round := svc.round

	var start []target
	if svc.state == StateAwaitingParticipants && svc.registry.size() >= svc.target {
		svc.state = StateCollecting
		start = svc.registry.targets()
	}
	svc.mu.Unlock()

	ackErr := ss.sender.Send(proto.Message{Type: proto.KindRegistered, ClientID: id, Round: round})
	ss.mu.Unlock()
	if ackErr != nil {
		svc.drop(id)
	} else {
		svc.logger.Info("Participant registered",
			slog.String("participant", id),
			slog.Int("samples", samples),
			slog.Int("features", features))
	}

	if start != nil {
		svc.logger.Info("Target participant count reached, starting round",
			slog.Int("round", round),
			slog.Int("participants", len(start)))
		svc.broadcast(start, proto.Message{Type: proto.KindStartTraining, Round: round})
	}

	if ackErr != nil {
		return Participant{}, 0, fmt.Errorf("failed to acknowledge registration of %s: %w", id, ackErr)
	}

	return p, round, nil
}

func (svc *service) Submit(ctx context.Context, c fedavg.Contribution) error {
	svc.mu.Lock()
	if _, ok := svc.registry.get(c.ClientID); !ok {
		svc.mu.Unlock()

		return fmt.Errorf("%w: %s", ErrNotRegistered, c.ClientID)
	}
	if c.Round != svc.round {
		svc.mu.Unlock()

		return fmt.Errorf("%w: got %d, current %d", ErrRoundMismatch, c.Round, svc.round)
	}
	// The round counter advances only after aggregation finishes, so the
	// old number would otherwise admit stragglers into the next pool
	// while a claimed set is still averaging.
	if svc.state == StateAggregating {
		svc.mu.Unlock()

		return fmt.Errorf("%w: round %d is already aggregating", ErrRoundMismatch, svc.round)
	}
	if _, dup := svc.contributed[c.ClientID]; dup {
		svc.mu.Unlock()

		return fmt.Errorf("%w: %s", ErrDuplicateContribution, c.ClientID)
	}
	if len(svc.contributions) == 0 {
		svc.vectorLen = len(c.Vector)
	} else if len(c.Vector) != svc.vectorLen {
		svc.mu.Unlock()

		return fmt.Errorf("%w: %s sent %d elements, round expects %d", fedavg.ErrLengthMismatch, c.ClientID, len(c.Vector), svc.vectorLen)
	}

	svc.contributions = append(svc.contributions, c)
	svc.contributed[c.ClientID] = struct{}{}
	round := svc.round
	pending := len(svc.contributions)

	// The barrier: the goroutine that brings the count to target claims
	// aggregation inside the critical section, so it fires exactly once.
	var claimed []fedavg.Contribution
	if pending == svc.target {
		svc.state = StateAggregating
		claimed = svc.contributions
		svc.contributions = nil
		svc.contributed = make(map[string]struct{})
		svc.vectorLen = 0
	}
	svc.mu.Unlock()

	svc.logger.Info("Contribution accepted",
		slog.String("participant", c.ClientID),
		slog.Int("round", round),
		slog.Int("samples", c.SampleCount),
		slog.String("progress", fmt.Sprintf("%d/%d", pending, svc.target)))

	if claimed != nil {
		svc.aggregate(ctx, round, claimed)
	}

	return nil
}

// aggregate averages the claimed contributions, then broadcasts the
// global vector and the next round's start signal. On failure the round
// is abandoned: contributions are gone, the round number holds.
func (svc *service) aggregate(ctx context.Context, round int, claimed []fedavg.Contribution) {
	contributors := make([]string, 0, len(claimed))
	totalSamples := 0
	meanAccuracy := 0.0
	for _, c := range claimed {
		contributors = append(contributors, c.ClientID)
		totalSamples += c.SampleCount
		meanAccuracy += c.Accuracy
	}
	meanAccuracy /= float64(len(claimed))

	global, err := svc.aggregator.Aggregate(claimed)
	if err != nil {
		svc.logger.Error("Round abandoned: aggregation failed",
			slog.Int("round", round),
			slog.Any("contributors", contributors),
			slog.Any("error", err))
		svc.mu.Lock()
		svc.state = StateCollecting
		svc.mu.Unlock()

		return
	}

	svc.mu.Lock()
	svc.global = global
	svc.round++
	next := svc.round
	svc.state = StateBroadcasting
	svc.mu.Unlock()

	report := RoundReport{
		ID:           uuid.NewString(),
		Round:        round,
		Contributors: contributors,
		TotalSamples: totalSamples,
		VectorLength: len(global),
		MeanAccuracy: meanAccuracy,
		CompletedAt:  time.Now(),
	}
	if err := svc.roundsDB.Create(ctx, strconv.Itoa(round), report); err != nil {
		svc.logger.Warn("Failed to store round report",
			slog.Int("round", round),
			slog.Any("error", err))
	}

	svc.logger.Info("Federated averaging completed",
		slog.Int("round", round),
		slog.Int("contributors", len(contributors)),
		slog.Int("total_samples", totalSamples),
		slog.Int("vector_length", len(global)))

	blob, err := proto.EncodeVector(global)
	if err != nil {
		svc.logger.Error("Failed to encode global vector", slog.Any("error", err))
		svc.mu.Lock()
		svc.state = StateCollecting
		svc.mu.Unlock()

		return
	}

	svc.mu.Lock()
	targets := svc.registry.targets()
	svc.mu.Unlock()
	svc.broadcast(targets, proto.Message{Type: proto.KindGlobalWeights, Weights: blob, Round: next})

	// Send failures above may have dropped participants, so re-snapshot
	// before signalling the next round.
	svc.mu.Lock()
	svc.state = StateCollecting
	targets = svc.registry.targets()
	svc.mu.Unlock()
	svc.broadcast(targets, proto.Message{Type: proto.KindStartTraining, Round: next})
}

// broadcast delivers m to every target, isolating per-participant send
// failures: the failed participant is dropped, the rest still receive.
func (svc *service) broadcast(targets []target, m proto.Message) {
	for _, t := range targets {
		if err := t.sender.Send(m); err != nil {
			svc.logger.Warn("Broadcast delivery failed, dropping participant",
				slog.String("participant", t.id),
				slog.String("kind", string(m.Type)),
				slog.Any("error", err))
			svc.drop(t.id)
		}
	}
}

func (svc *service) drop(id string) bool {
	svc.mu.Lock()
	rec, ok := svc.registry.get(id)
	if ok {
		rec.State = Disconnected
		svc.registry.remove(id)
	}
	svc.mu.Unlock()

	if ok && rec.sender != nil {
		if err := rec.sender.Close(); err != nil {
			svc.logger.Debug("Closing dropped participant connection",
				slog.String("participant", id),
				slog.Any("error", err))
		}
	}

	return ok
}

// sequencedSender serializes sends to one participant. Register claims
// the slot under the coordination lock and writes the ack after
// releasing it, so broadcasts from other goroutines queue behind the ack
// without any socket I/O happening inside the coordination lock.
type sequencedSender struct {
	mu     sync.Mutex
	sender Sender
}

func (s *sequencedSender) Send(m proto.Message) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	return s.sender.Send(m)
}

func (s *sequencedSender) Close() error {
	return s.sender.Close()
}

func (svc *service) Disconnect(ctx context.Context, id string) error {
	if id == "" {
		return pkgerrors.ErrMissingID
	}
	if !svc.drop(id) {
		return pkgerrors.ErrNotFound
	}

	svc.logger.Info("Participant disconnected", slog.String("participant", id))

	return nil
}

func (svc *service) Status(ctx context.Context) (Status, error) {
	svc.mu.Lock()
	defer svc.mu.Unlock()

	return Status{
		Round:         svc.round,
		State:         svc.state,
		Target:        svc.target,
		Registered:    svc.registry.size(),
		Contributions: len(svc.contributions),
	}, nil
}

func (svc *service) ListParticipants(ctx context.Context, offset, limit uint64) (ParticipantPage, error) {
	svc.mu.Lock()
	all := svc.registry.snapshot()
	svc.mu.Unlock()

	total := uint64(len(all))
	if offset >= total {
		return ParticipantPage{Offset: offset, Limit: limit, Total: total}, nil
	}
	end := offset + limit
	if end > total {
		end = total
	}

	return ParticipantPage{
		Offset:       offset,
		Limit:        limit,
		Total:        total,
		Participants: all[offset:end],
	}, nil
}

func (svc *service) ListRounds(ctx context.Context, offset, limit uint64) (RoundPage, error) {
	data, total, err := svc.roundsDB.List(ctx, offset, limit)
	if err != nil {
		return RoundPage{}, err
	}

	rounds := make([]RoundReport, len(data))
	for i := range data {
		r, ok := data[i].(RoundReport)
		if !ok {
			return RoundPage{}, pkgerrors.ErrInvalidData
		}
		rounds[i] = r
	}

	return RoundPage{
		Offset: offset,
		Limit:  limit,
		Total:  total,
		Rounds: rounds,
	}, nil
}
