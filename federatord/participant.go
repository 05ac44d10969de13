package federatord

import (
	"context"
	"fmt"
	"log/slog"
	"os"
	"time"

	"github.com/absmach/federator"
	"github.com/absmach/federator/participant"
	"github.com/google/uuid"
	"github.com/spf13/cobra"
)

const participantSvcName = "participant"

type ParticipantConfig struct {
	LogLevel string
	Client   participant.Config
}

func StartParticipant(ctx context.Context, cancel context.CancelFunc, cfg ParticipantConfig) error {
	var level slog.Level
	if err := level.UnmarshalText([]byte(cfg.LogLevel)); err != nil {
		return fmt.Errorf("failed to parse log level: %s", err.Error())
	}
	logHandler := slog.NewJSONHandler(os.Stdout, &slog.HandlerOptions{
		Level: level,
	})
	logger := slog.New(logHandler)
	slog.SetDefault(logger)

	if err := cfg.Client.Validate(); err != nil {
		return fmt.Errorf("invalid participant configuration: %s", err.Error())
	}

	seed := cfg.Client.ID
	if seed == "" {
		seed = uuid.NewString()
	}
	trainer := participant.NewSyntheticTrainer(seed, cfg.Client.SampleCount, cfg.Client.FeatureCount)

	p := participant.New(cfg.Client, trainer, logger)
	if err := p.Run(ctx); err != nil {
		logger.Error(fmt.Sprintf("%s exited with error: %s", participantSvcName, err))

		return err
	}

	return nil
}

var (
	serverAddress = "localhost:8080"
	participantID = ""
	sampleCount   = 300
	featureCount  = 10
	rounds        = 0
	dialTimeout   = 10 * time.Second
)

var participantCmd = []cobra.Command{
	{
		Use:   "start",
		Short: "Start participant",
		Long:  `Start participant.`,
		Run: func(cmd *cobra.Command, _ []string) {
			cfg := ParticipantConfig{
				LogLevel: logLevel,
				Client: participant.Config{
					ID:            participantID,
					ServerAddress: serverAddress,
					SampleCount:   sampleCount,
					FeatureCount:  featureCount,
					Rounds:        rounds,
					DialTimeout:   dialTimeout,
				},
			}
			if configPath != "" {
				fileCfg, err := federator.LoadConfig(configPath)
				if err != nil {
					slog.Error("invalid config file", slog.Any("error", err))

					return
				}
				cfg = ParticipantConfig{
					LogLevel: fileCfg.Participant.LogLevel,
					Client: participant.Config{
						ID:            fileCfg.Participant.ID,
						ServerAddress: fileCfg.Participant.ServerAddress,
						SampleCount:   fileCfg.Participant.SampleCount,
						FeatureCount:  fileCfg.Participant.FeatureCount,
						Rounds:        fileCfg.Participant.Rounds,
						DialTimeout:   dialTimeout,
					},
				}
			}

			ctx, cancel := context.WithCancel(cmd.Context())
			defer cancel()
			if err := StartParticipant(ctx, cancel, cfg); err != nil {
				slog.Error("failed to start participant", slog.String("error", err.Error()))
			}
		},
	},
}

func NewParticipantCmd() *cobra.Command {
	cmd := cobra.Command{
		Use:   "participant [start]",
		Short: "Participant management",
		Long:  `Create participant for Federator.`,
	}

	for i := range participantCmd {
		cmd.AddCommand(&participantCmd[i])
	}

	cmd.PersistentFlags().StringVarP(
		&logLevel,
		"log-level",
		"l",
		logLevel,
		"Log level",
	)

	cmd.PersistentFlags().StringVarP(
		&participantID,
		"id",
		"i",
		participantID,
		"Participant ID",
	)

	cmd.PersistentFlags().StringVarP(
		&serverAddress,
		"server-address",
		"s",
		serverAddress,
		"Coordinator TCP address",
	)

	cmd.PersistentFlags().IntVarP(
		&sampleCount,
		"samples",
		"n",
		sampleCount,
		"Local training sample count",
	)

	cmd.PersistentFlags().IntVarP(
		&featureCount,
		"features",
		"f",
		featureCount,
		"Model feature count",
	)

	cmd.PersistentFlags().IntVarP(
		&rounds,
		"rounds",
		"r",
		rounds,
		"Rounds to participate in before leaving, 0 for unlimited",
	)

	cmd.PersistentFlags().DurationVarP(
		&dialTimeout,
		"dial-timeout",
		"o",
		dialTimeout,
		"Coordinator dial timeout",
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
