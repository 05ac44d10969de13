package federatord

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"net/http"
	"os"
	"time"

	"github.com/absmach/federator"
	"github.com/absmach/federator/coordinator"
	"github.com/absmach/federator/coordinator/api"
	"github.com/absmach/federator/coordinator/middleware"
	"github.com/absmach/federator/pkg/fedavg"
	"github.com/absmach/federator/pkg/storage"
	kitprometheus "github.com/go-kit/kit/metrics/prometheus"
	"github.com/google/uuid"
	stdprometheus "github.com/prometheus/client_golang/prometheus"
	"github.com/spf13/cobra"
	"go.opentelemetry.io/otel/trace/noop"
	"golang.org/x/sync/errgroup"
)

const (
	coordinatorSvcName = "coordinator"
	shutdownTimeout    = 5 * time.Second
)

type CoordinatorConfig struct {
	LogLevel           string
	InstanceID         string
	ListenAddress      string
	HTTPAddress        string
	TargetParticipants int
}

func StartCoordinator(ctx context.Context, cancel context.CancelFunc, cfg CoordinatorConfig) error {
	g, ctx := errgroup.WithContext(ctx)

	if cfg.InstanceID == "" {
		cfg.InstanceID = uuid.NewString()
	}

	var level slog.Level
	if err := level.UnmarshalText([]byte(cfg.LogLevel)); err != nil {
		return fmt.Errorf("failed to parse log level: %s", err.Error())
	}
	logHandler := slog.NewJSONHandler(os.Stdout, &slog.HandlerOptions{
		Level: level,
	})
	logger := slog.New(logHandler)
	slog.SetDefault(logger)

	tp := noop.NewTracerProvider()
	tracer := tp.Tracer(coordinatorSvcName)

	svc := coordinator.NewService(
		cfg.TargetParticipants,
		fedavg.NewFedAvg(),
		storage.NewInMemoryStorage(),
		logger,
	)
	svc = middleware.Logging(logger, svc)
	svc = middleware.Tracing(tracer, svc)
	counter := kitprometheus.NewCounterFrom(stdprometheus.CounterOpts{
		Namespace: "federator",
		Subsystem: coordinatorSvcName,
		Name:      "request_count",
		Help:      "Number of requests received.",
	}, []string{"method"})
	latency := kitprometheus.NewSummaryFrom(stdprometheus.SummaryOpts{
		Namespace: "federator",
		Subsystem: coordinatorSvcName,
		Name:      "request_latency_microseconds",
		Help:      "Total duration of requests in microseconds.",
	}, []string{"method"})
	svc = middleware.Metrics(counter, latency, svc)

	srv := coordinator.NewServer(cfg.ListenAddress, svc, logger)

	hs := &http.Server{
		Addr:    cfg.HTTPAddress,
		Handler: api.MakeHandler(svc, logger, cfg.InstanceID),
	}

	g.Go(func() error {
		return srv.Listen(ctx)
	})

	g.Go(func() error {
		logger.Info(coordinatorSvcName+" HTTP server listening", slog.String("address", cfg.HTTPAddress))
		if err := hs.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			return err
		}

		return nil
	})

	g.Go(func() error {
		<-ctx.Done()
		sctx, scancel := context.WithTimeout(context.Background(), shutdownTimeout)
		defer scancel()

		return hs.Shutdown(sctx)
	})

	if err := g.Wait(); err != nil {
		logger.Error(fmt.Sprintf("%s service exited with error: %s", coordinatorSvcName, err))

		return err
	}

	return nil
}

var (
	listenAddress      = ":8080"
	httpAddress        = ":7070"
	targetParticipants = 3
)

var coordinatorCmd = []cobra.Command{
	{
		Use:   "start",
		Short: "Start coordinator",
		Long:  `Start coordinator.`,
		Run: func(cmd *cobra.Command, _ []string) {
			cfg := CoordinatorConfig{
				LogLevel:           logLevel,
				ListenAddress:      listenAddress,
				HTTPAddress:        httpAddress,
				TargetParticipants: targetParticipants,
			}
			if configPath != "" {
				fileCfg, err := federator.LoadConfig(configPath)
				if err != nil {
					slog.Error("invalid config file", slog.Any("error", err))

					return
				}
				cfg = CoordinatorConfig{
					LogLevel:           fileCfg.Coordinator.LogLevel,
					ListenAddress:      fileCfg.Coordinator.ListenAddress,
					HTTPAddress:        fileCfg.Coordinator.HTTPAddress,
					TargetParticipants: fileCfg.Coordinator.TargetParticipants,
				}
			}

			ctx, cancel := context.WithCancel(cmd.Context())
			defer cancel()
			if err := StartCoordinator(ctx, cancel, cfg); err != nil {
				slog.Error("failed to start coordinator", slog.String("error", err.Error()))
			}
		},
	},
}

func NewCoordinatorCmd() *cobra.Command {
	cmd := cobra.Command{
		Use:   "coordinator [start]",
		Short: "Coordinator management",
		Long:  `Create coordinator for Federator.`,
	}

	for i := range coordinatorCmd {
		cmd.AddCommand(&coordinatorCmd[i])
	}

	cmd.PersistentFlags().StringVarP(
		&logLevel,
		"log-level",
		"l",
		logLevel,
		"Log level",
	)

	cmd.PersistentFlags().StringVarP(
		&listenAddress,
		"listen-address",
		"a",
		listenAddress,
		"Participant TCP listen address",
	)

	cmd.PersistentFlags().StringVarP(
		&httpAddress,
		"http-address",
		"H",
		httpAddress,
		"Status HTTP listen address",
	)

	cmd.PersistentFlags().IntVarP(
		&targetParticipants,
		"target-participants",
		"t",
		targetParticipants,
		"Participants required before a round starts",
	)

	cmd.PersistentFlags().StringVarP(
		&configPath,
		"config",
		"c",
		configPath,
		"Path to TOML config file",
	)

	return &cmd
}
