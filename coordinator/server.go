package coordinator

import (
	"context"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"net"
	"sync"

	"github.com/absmach/federator/pkg/fedavg"
	"github.com/absmach/federator/pkg/proto"
)

// Server accepts participant connections and runs one handler goroutine
// per connection. Handlers own their connection exclusively; all shared
// state lives behind the Service.
type Server struct {
	address string
	svc     Service
	logger  *slog.Logger

	mu    sync.Mutex
	bound string
}

func NewServer(address string, svc Service, logger *slog.Logger) *Server {
	return &Server{
		address: address,
		svc:     svc,
		logger:  logger,
	}
}

// Addr returns the bound listen address, empty until Listen has bound.
func (s *Server) Addr() string {
	s.mu.Lock()
	defer s.mu.Unlock()

	return s.bound
}

func (s *Server) Listen(ctx context.Context) error {
	var lc net.ListenConfig
	listener, err := lc.Listen(ctx, "tcp", s.address)
	if err != nil {
		return fmt.Errorf("failed to listen on %s: %w", s.address, err)
	}

	go func() {
		<-ctx.Done()
		listener.Close()
	}()

	s.mu.Lock()
	s.bound = listener.Addr().String()
	s.mu.Unlock()

	s.logger.Info("Coordinator listening", slog.String("address", listener.Addr().String()))

	for {
		conn, err := listener.Accept()
		if err != nil {
			if ctx.Err() != nil {
				return nil
			}

			return fmt.Errorf("accept failed: %w", err)
		}

		go s.handle(ctx, conn)
	}
}

func (s *Server) handle(ctx context.Context, conn net.Conn) {
	fc := &framedConn{conn: conn}
	defer fc.Close()

	remote := conn.RemoteAddr().String()
	s.logger.Info("New connection", slog.String("remote", remote))

	var id string
	defer func() {
		if id != "" {
			if err := s.svc.Disconnect(ctx, id); err != nil {
				s.logger.Debug("Disconnect after session end",
					slog.String("participant", id),
					slog.Any("error", err))
			}
		}
	}()

	for {
		m, err := proto.Decode(conn)
		switch {
		case err == nil:
		case errors.Is(err, io.EOF):
			s.logger.Info("Connection closed by peer", slog.String("remote", remote))

			return
		default:
			s.logger.Warn("Closing connection",
				slog.String("remote", remote),
				slog.Any("error", err))

			return
		}

		switch m.Type {
		case proto.KindRegister:
			p, round, err := s.svc.Register(ctx, m.ClientID, m.SampleCount, m.FeatureCount, fc)
			if err != nil {
				s.logger.Warn("Registration rejected",
					slog.String("remote", remote),
					slog.Any("error", err))

				return
			}
			id = p.ID
			s.logger.Info("Registration acknowledged",
				slog.String("participant", p.ID),
				slog.Int("round", round))

		case proto.KindWeights:
			if id == "" || m.ClientID != id {
				s.logger.Warn("Contribution rejected: sender identity mismatch",
					slog.String("remote", remote),
					slog.String("claimed", m.ClientID))

				continue
			}
			vector, err := proto.DecodeVector(m.Weights)
			if err != nil {
				s.logger.Warn("Closing connection: undecodable vector blob",
					slog.String("participant", id),
					slog.Any("error", err))

				return
			}
			c := fedavg.Contribution{
				ClientID:    m.ClientID,
				Vector:      vector,
				SampleCount: m.SampleCount,
				Accuracy:    m.Accuracy,
				Round:       m.Round,
			}
			if err := s.svc.Submit(ctx, c); err != nil {
				s.logger.Warn("Contribution rejected",
					slog.String("participant", id),
					slog.Int("round", m.Round),
					slog.Any("error", err))
			}

		case proto.KindPing:
			if err := fc.Send(proto.Message{Type: proto.KindPong}); err != nil {
				s.logger.Warn("Failed to send pong",
					slog.String("remote", remote),
					slog.Any("error", err))

				return
			}

		case proto.KindPong:

		default:
			s.logger.Warn("Closing connection: unexpected message kind",
				slog.String("remote", remote),
				slog.String("kind", string(m.Type)))

			return
		}
	}
}

// framedConn serializes writes so broadcasts and handler replies cannot
// interleave frames on the wire.
type framedConn struct {
	conn net.Conn
	mu   sync.Mutex
}

func (c *framedConn) Send(m proto.Message) error {
	c.mu.Lock()
	defer c.mu.Unlock()

	return proto.Encode(c.conn, m)
}

func (c *framedConn) Close() error {
	return c.conn.Close()
}
