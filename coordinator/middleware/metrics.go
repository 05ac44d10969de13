package middleware

import (
	"context"
	"time"

	"github.com/go-kit/kit/metrics"

	"github.com/absmach/federator/coordinator"
	"github.com/absmach/federator/pkg/fedavg"
)

var _ coordinator.Service = (*metricsMiddleware)(nil)

type metricsMiddleware struct {
	counter metrics.Counter
	latency metrics.Histogram
	svc     coordinator.Service
}

func Metrics(counter metrics.Counter, latency metrics.Histogram, svc coordinator.Service) coordinator.Service {
	return &metricsMiddleware{
		counter: counter,
		latency: latency,
		svc:     svc,
	}
}

func (mm *metricsMiddleware) Register(ctx context.Context, hint string, samples, features int, sender coordinator.Sender) (coordinator.Participant, int, error) {
	defer func(begin time.Time) {
		mm.counter.With("method", "register").Add(1)
		mm.latency.With("method", "register").Observe(time.Since(begin).Seconds())
	}(time.Now())

	return mm.svc.Register(ctx, hint, samples, features, sender)
}

func (mm *metricsMiddleware) Submit(ctx context.Context, c fedavg.Contribution) error {
	defer func(begin time.Time) {
		mm.counter.With("method", "submit").Add(1)
		mm.latency.With("method", "submit").Observe(time.Since(begin).Seconds())
	}(time.Now())

	return mm.svc.Submit(ctx, c)
}

func (mm *metricsMiddleware) Disconnect(ctx context.Context, id string) error {
	defer func(begin time.Time) {
		mm.counter.With("method", "disconnect").Add(1)
		mm.latency.With("method", "disconnect").Observe(time.Since(begin).Seconds())
	}(time.Now())

	return mm.svc.Disconnect(ctx, id)
}

func (mm *metricsMiddleware) Status(ctx context.Context) (coordinator.Status, error) {
	defer func(begin time.Time) {
		mm.counter.With("method", "status").Add(1)
		mm.latency.With("method", "status").Observe(time.Since(begin).Seconds())
	}(time.Now())

	return mm.svc.Status(ctx)
}

func (mm *metricsMiddleware) ListParticipants(ctx context.Context, offset, limit uint64) (coordinator.ParticipantPage, error) {
	defer func(begin time.Time) {
		mm.counter.With("method", "list-participants").Add(1)
		mm.latency.With("method", "list-participants").Observe(time.Since(begin).Seconds())
	}(time.Now())

	return mm.svc.ListParticipants(ctx, offset, limit)
}

func (mm *metricsMiddleware) ListRounds(ctx context.Context, offset, limit uint64) (coordinator.RoundPage, error) {
	defer func(begin time.Time) {
		mm.counter.With("method", "list-rounds").Add(1)
		mm.latency.With("method", "list-rounds").Observe(time.Since(begin).Seconds())
	}(time.Now())

	return mm.svc.ListRounds(ctx, offset, limit)
}
