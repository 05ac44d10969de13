package participant

import (
	"errors"
	"time"
)

type Config struct {
	ID            string        `env:"PARTICIPANT_ID"`
	ServerAddress string        `env:"PARTICIPANT_SERVER_ADDRESS" envDefault:"localhost:8080"`
	SampleCount   int           `env:"PARTICIPANT_SAMPLES"        envDefault:"300"`
	FeatureCount  int           `env:"PARTICIPANT_FEATURES"       envDefault:"10"`
	Rounds        int           `env:"PARTICIPANT_ROUNDS"         envDefault:"0"`
	DialTimeout   time.Duration `env:"PARTICIPANT_DIAL_TIMEOUT"   envDefault:"10s"`
}

func (c Config) Validate() error {
	if c.ServerAddress == "" {
		return errors.New("server address is required")
	}
	if c.SampleCount <= 0 {
		return errors.New("sample count must be positive")
	}
	if c.FeatureCount <= 0 {
		return errors.New("feature count must be positive")
	}
	if c.Rounds < 0 {
		return errors.New("rounds must not be negative")
	}

	return nil
}
