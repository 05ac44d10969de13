package main

import (
	"context"
	"log"
	"os"
	"os/signal"
	"syscall"

	"github.com/absmach/federator/federatord"
	"github.com/caarlos0/env/v11"
	"github.com/google/uuid"
	"github.com/joho/godotenv"
)

const pathEnv = ".env"

type envConfig struct {
	LogLevel           string `env:"COORDINATOR_LOG_LEVEL"           envDefault:"info"`
	InstanceID         string `env:"COORDINATOR_INSTANCE_ID"`
	ListenAddress      string `env:"COORDINATOR_LISTEN_ADDRESS"      envDefault:":8080"`
	HTTPAddress        string `env:"COORDINATOR_HTTP_ADDRESS"        envDefault:":7070"`
	TargetParticipants int    `env:"COORDINATOR_TARGET_PARTICIPANTS" envDefault:"3"`
}

func main() {
	ctx, cancel := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer cancel()

	if _, err := os.Stat(pathEnv); err == nil {
		_ = godotenv.Load(pathEnv)
	}

	cfg := envConfig{}
	if err := env.Parse(&cfg); err != nil {
		log.Fatalf("failed to load configuration : %s", err.Error())
	}

	if cfg.InstanceID == "" {
		cfg.InstanceID = uuid.NewString()
	}

	if err := federatord.StartCoordinator(ctx, cancel, federatord.CoordinatorConfig{
		LogLevel:           cfg.LogLevel,
		InstanceID:         cfg.InstanceID,
		ListenAddress:      cfg.ListenAddress,
		HTTPAddress:        cfg.HTTPAddress,
		TargetParticipants: cfg.TargetParticipants,
	}); err != nil {
		log.Fatalf("coordinator exited with error: %s", err.Error())
	}
}
