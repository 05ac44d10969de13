package federator

import (
	"fmt"
	"os"

	"github.com/pelletier/go-toml"
)

type Config struct {
	Coordinator CoordinatorConfig `toml:"coordinator"`
	Participant ParticipantConfig `toml:"participant"`
}

type CoordinatorConfig struct {
	ListenAddress      string `toml:"listen_address"`
	HTTPAddress        string `toml:"http_address"`
	TargetParticipants int    `toml:"target_participants"`
	LogLevel           string `toml:"log_level"`
}

type ParticipantConfig struct {
	ServerAddress string `toml:"server_address"`
	ID            string `toml:"id"`
	SampleCount   int    `toml:"samples"`
	FeatureCount  int    `toml:"features"`
	Rounds        int    `toml:"rounds"`
	LogLevel      string `toml:"log_level"`
}

func LoadConfig(path string) (*Config, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("error reading config file: %w", err)
	}

	tree, err := toml.Load(string(data))
	if err != nil {
		return nil, fmt.Errorf("error parsing config file: %w", err)
	}

	var cfg Config
	if err := tree.Unmarshal(&cfg); err != nil {
		return nil, fmt.Errorf("error unmarshaling config: %w", err)
	}

	return &cfg, nil
}
