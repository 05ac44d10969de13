package main

import (
	"context"
	"log"
	"os"
	"os/signal"
	"syscall"

	"github.com/absmach/federator/federatord"
	"github.com/absmach/federator/participant"
	"github.com/caarlos0/env/v11"
	"github.com/joho/godotenv"
)

const pathEnv = ".env"

type envConfig struct {
	LogLevel string `env:"PARTICIPANT_LOG_LEVEL" envDefault:"info"`
	Client   participant.Config
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

	if err := federatord.StartParticipant(ctx, cancel, federatord.ParticipantConfig{
		LogLevel: cfg.LogLevel,
		Client:   cfg.Client,
	}); err != nil {
		log.Fatalf("participant exited with error: %s", err.Error())
	}
}
