package middleware

import (
	"context"

	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/trace"

	"github.com/absmach/federator/coordinator"
	"github.com/absmach/federator/pkg/fedavg"
)

var _ coordinator.Service = (*tracing)(nil)

type tracing struct {
	tracer trace.Tracer
	svc    coordinator.Service
}

func Tracing(tracer trace.Tracer, svc coordinator.Service) coordinator.Service {
	return &tracing{tracer, svc}
}

func (tm *tracing) Register(ctx context.Context, hint string, samples, features int, sender coordinator.Sender) (coordinator.Participant, int, error) {
	ctx, span := tm.tracer.Start(ctx, "register", trace.WithAttributes(
		attribute.String("hint", hint),
		attribute.Int("samples", samples),
		attribute.Int("features", features),
	))
	defer span.End()

	return tm.svc.Register(ctx, hint, samples, features, sender)
}

func (tm *tracing) Submit(ctx context.Context, c fedavg.Contribution) error {
	ctx, span := tm.tracer.Start(ctx, "submit", trace.WithAttributes(
		attribute.String("participant", c.ClientID),
		attribute.Int("round", c.Round),
	))
	defer span.End()

	return tm.svc.Submit(ctx, c)
}

func (tm *tracing) Disconnect(ctx context.Context, id string) error {
	ctx, span := tm.tracer.Start(ctx, "disconnect", trace.WithAttributes(
		attribute.String("participant", id),
	))
	defer span.End()

	return tm.svc.Disconnect(ctx, id)
}

func (tm *tracing) Status(ctx context.Context) (coordinator.Status, error) {
	ctx, span := tm.tracer.Start(ctx, "status")
	defer span.End()

	return tm.svc.Status(ctx)
}

func (tm *tracing) ListParticipants(ctx context.Context, offset, limit uint64) (coordinator.ParticipantPage, error) {
	ctx, span := tm.tracer.Start(ctx, "list-participants", trace.WithAttributes(
		attribute.Int64("offset", int64(offset)),
		attribute.Int64("limit", int64(limit)),
	))
	defer span.End()

	return tm.svc.ListParticipants(ctx, offset, limit)
}

func (tm *tracing) ListRounds(ctx context.Context, offset, limit uint64) (coordinator.RoundPage, error) {
	ctx, span := tm.tracer.Start(ctx, "list-rounds", trace.WithAttributes(
		attribute.Int64("offset", int64(offset)),
		attribute.Int64("limit", int64(limit)),
	))
	defer span.End()

	return tm.svc.ListRounds(ctx, offset, limit)
}
