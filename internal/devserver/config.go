package devserver

import (
	"fmt"
	"time"

	"github.com/caarlos0/env/v9"
)

// Config holds the dev server settings, read from FEDADMIN_DEV_* variables.
type Config struct {
	Addr      string `env:"FEDADMIN_DEV_ADDR" envDefault:"127.0.0.1:8088"`
	JWTSecret string `env:"FEDADMIN_DEV_JWT_SECRET" envDefault:"fedadmin-dev-secret"`
	// Latency delays every API response, to make loading states visible.
	Latency time.Duration `env:"FEDADMIN_DEV_LATENCY" envDefault:"0s"`
	Seed    uint64        `env:"FEDADMIN_DEV_SEED" envDefault:"42"`
	// Rows is the number of seeded rows per domain.
	Rows        int      `env:"FEDADMIN_DEV_ROWS" envDefault:"57"`
	FailExport  bool     `env:"FEDADMIN_DEV_FAIL_EXPORT" envDefault:"false"`
	CORSOrigins []string `env:"FEDADMIN_DEV_CORS_ORIGINS" envSeparator:","`
}

// LoadConfig reads the configuration from the environment.
func LoadConfig() (Config, error) {
	var cfg Config
	if err := env.Parse(&cfg); err != nil {
		return Config{}, fmt.Errorf("parsing dev server env: %w", err)
	}
	if err := cfg.Validate(); err != nil {
		return Config{}, err
	}
	return cfg, nil
}

// Validate checks the values env parsing cannot.
func (c Config) Validate() error {
	if c.JWTSecret == "" {
		return fmt.Errorf("FEDADMIN_DEV_JWT_SECRET must not be empty")
	}
	if c.Rows < 0 {
		return fmt.Errorf("FEDADMIN_DEV_ROWS must not be negative")
	}
	if c.Latency < 0 {
		return fmt.Errorf("FEDADMIN_DEV_LATENCY must not be negative")
	}
	return nil
}
