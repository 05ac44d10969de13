// Package participant implements the client-side round state machine:
// connect, register, wait for the start signal, train locally, submit
// the contribution, apply the aggregated global vector, repeat.
package participant

import (
	"context"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"net"
	"sync"

	"github.com/absmach/federator/pkg/proto"
)

type State string

const (
	StateDisconnected   State = "disconnected"
	StateConnecting     State = "connecting"
	StateRegistered     State = "registered"
	StateAwaitingStart  State = "awaiting_start"
	StateTraining       State = "training"
	StateSubmitting     State = "submitting"
	StateAwaitingGlobal State = "awaiting_global"
	StateApplied        State = "applied"
)

type Participant struct {
	cfg     Config
	trainer Trainer
	logger  *slog.Logger

	mu        sync.Mutex
	state     State
	id        string
	round     int
	localAcc  float64
	completed int
}

func New(cfg Config, trainer Trainer, logger *slog.Logger) *Participant {
	return &Participant{
		cfg:     cfg,
		trainer: trainer,
		logger:  logger,
		state:   StateDisconnected,
	}
}

// State reports the current lifecycle state.
func (p *Participant) State() State {
	p.mu.Lock()
	defer p.mu.Unlock()

	return p.state
}

// CompletedRounds reports how many global vectors have been applied.
func (p *Participant) CompletedRounds() int {
	p.mu.Lock()
	defer p.mu.Unlock()

	return p.completed
}

// Run drives the session until the configured round count completes,
// the context is cancelled, or the connection fails. There is no
// automatic reconnect: any socket or protocol error ends the session.
func (p *Participant) Run(ctx context.Context) error {
	p.setState(StateConnecting)

	dialer := net.Dialer{Timeout: p.cfg.DialTimeout}
	conn, err := dialer.DialContext(ctx, "tcp", p.cfg.ServerAddress)
	if err != nil {
		p.setState(StateDisconnected)

		return fmt.Errorf("failed to connect to coordinator at %s: %w", p.cfg.ServerAddress, err)
	}
	defer conn.Close()

	// Unblock the framed read when the context is cancelled.
	done := make(chan struct{})
	defer close(done)
	go func() {
		select {
		case <-ctx.Done():
			conn.Close()
		case <-done:
		}
	}()

	p.logger.Info("Connected to coordinator", slog.String("address", p.cfg.ServerAddress))

	register := proto.Message{
		Type:         proto.KindRegister,
		ClientID:     p.cfg.ID,
		SampleCount:  p.trainer.SampleCount(),
		FeatureCount: p.trainer.FeatureCount(),
	}
	if err := proto.Encode(conn, register); err != nil {
		p.setState(StateDisconnected)

		return fmt.Errorf("failed to send registration: %w", err)
	}

	for {
		m, err := proto.Decode(conn)
		if err != nil {
			p.setState(StateDisconnected)
			if ctx.Err() != nil {
				return ctx.Err()
			}
			if errors.Is(err, io.EOF) {
				p.logger.Info("Coordinator closed the connection")

				return nil
			}

			return fmt.Errorf("session ended: %w", err)
		}

		stop, err := p.handle(ctx, conn, m)
		if err != nil {
			p.setState(StateDisconnected)

			return err
		}
		if stop {
			p.setState(StateDisconnected)

			return nil
		}
	}
}

func (p *Participant) handle(ctx context.Context, conn net.Conn, m proto.Message) (bool, error) {
	switch m.Type {
	case proto.KindRegistered:
		p.mu.Lock()
		p.id = m.ClientID
		p.round = m.Round
		p.state = StateAwaitingStart
		p.mu.Unlock()
		p.logger.Info("Registration confirmed",
			slog.String("assigned_id", m.ClientID),
			slog.Int("round", m.Round))

		return false, nil

	case proto.KindStartTraining:
		return false, p.trainAndSubmit(ctx, conn, m.Round)

	case proto.KindGlobalWeights:
		return p.applyGlobal(m)

	case proto.KindPing:
		return false, proto.Encode(conn, proto.Message{Type: proto.KindPong})

	case proto.KindPong:
		p.logger.Debug("Received pong from coordinator")

		return false, nil

	default:
		return false, fmt.Errorf("%w: unexpected %s from coordinator", proto.ErrProtocol, m.Type)
	}
}

func (p *Participant) trainAndSubmit(ctx context.Context, conn net.Conn, round int) error {
	p.mu.Lock()
	p.round = round
	p.state = StateTraining
	id := p.id
	p.mu.Unlock()

	p.logger.Info("Starting training round", slog.Int("round", round))

	vector, accuracy, err := p.trainer.Train(ctx)
	if err != nil {
		return fmt.Errorf("local training failed in round %d: %w", round, err)
	}

	p.mu.Lock()
	p.localAcc = accuracy
	p.state = StateSubmitting
	p.mu.Unlock()

	blob, err := proto.EncodeVector(vector)
	if err != nil {
		return fmt.Errorf("failed to encode weight vector: %w", err)
	}

	submit := proto.Message{
		Type:        proto.KindWeights,
		ClientID:    id,
		Weights:     blob,
		SampleCount: p.trainer.SampleCount(),
		Accuracy:    accuracy,
		Round:       round,
	}
	if err := proto.Encode(conn, submit); err != nil {
		return fmt.Errorf("failed to submit contribution: %w", err)
	}

	p.setState(StateAwaitingGlobal)
	p.logger.Info("Contribution submitted",
		slog.Int("round", round),
		slog.Int("vector_length", len(vector)),
		slog.Float64("local_accuracy", accuracy))

	return nil
}

func (p *Participant) applyGlobal(m proto.Message) (bool, error) {
	vector, err := proto.DecodeVector(m.Weights)
	if err != nil {
		return false, fmt.Errorf("failed to decode global vector: %w", err)
	}

	accuracy, err := p.trainer.ApplyGlobal(vector)
	if err != nil {
		return false, fmt.Errorf("failed to apply global vector: %w", err)
	}

	p.mu.Lock()
	p.state = StateApplied
	p.round = m.Round
	p.completed++
	completed := p.completed
	improvement := accuracy - p.localAcc
	p.mu.Unlock()

	p.logger.Info("Applied global weights",
		slog.Int("round", m.Round),
		slog.Int("vector_length", len(vector)),
		slog.Float64("global_accuracy", accuracy),
		slog.Float64("improvement", improvement))

	if p.cfg.Rounds > 0 && completed >= p.cfg.Rounds {
		p.logger.Info("Configured round count reached", slog.Int("rounds", completed))

		return true, nil
	}

	// Ready for the coordinator's next start signal.
	p.setState(StateAwaitingStart)

	return false, nil
}

func (p *Participant) setState(s State) {
	p.mu.Lock()
	p.state = s
	p.mu.Unlock()
}
