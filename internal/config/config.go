package config

import (
	"fmt"
	"time"

	"github.com/kelseyhightower/envconfig"
)

const (
	ModePolling = "polling"
	ModeSweep   = "sweep"

	DriverJSON   = "json"
	DriverSQLite = "sqlite"
)

// Config holds application configuration loaded from environment variables.
type Config struct {
	BotToken       string        `envconfig:"BOT_TOKEN" required:"true"`
	RunMode        string        `envconfig:"RUN_MODE" default:"polling"` // polling|sweep
	ReminderMode   bool          `envconfig:"REMINDER_MODE" default:"false"`
	StoreDriver    string        `envconfig:"STORE_DRIVER" default:"json"` // json|sqlite
	UsersFile      string        `envconfig:"USERS_FILE" default:"users.json"`
	DBPath         string        `envconfig:"DB_PATH" default:"./data/users.db"`
	ProfileURL     string        `envconfig:"PROFILE_API_URL" default:"https://api.monkeytype.com/users/profile"`
	ProfileTimeout time.Duration `envconfig:"PROFILE_TIMEOUT" default:"10s"`
	SessionTTL     time.Duration `envconfig:"SESSION_TTL" default:"30m"`
	SweepCron      string        `envconfig:"SWEEP_CRON"`                // optional, e.g. "0 * * * *"
	CredentialKey  string        `envconfig:"CREDENTIAL_KEY"`            // optional base64 AES-256 key
	LogLevel       string        `envconfig:"LOG_LEVEL" default:"info"`  // debug|info|warn|error
	HTTPAddr       string        `envconfig:"HTTP_ADDR" default:":8080"` // healthz
}

// Load reads environment variables into Config and validates it.
func Load() (Config, error) {
	var cfg Config
	if err := envconfig.Process("", &cfg); err != nil {
		return cfg, err
	}
	// REMINDER_MODE=true is the legacy way to request a single sweep.
	if cfg.ReminderMode {
		cfg.RunMode = ModeSweep
	}
	return cfg, cfg.Validate()
}

// Validate rejects unknown modes and drivers.
func (c Config) Validate() error {
	if c.BotToken == "" {
		return fmt.Errorf("BOT_TOKEN is empty")
	}
	switch c.RunMode {
	case ModePolling, ModeSweep:
	default:
		return fmt.Errorf("RUN_MODE: unknown mode %q", c.RunMode)
	}
	switch c.StoreDriver {
	case DriverJSON, DriverSQLite:
	default:
		return fmt.Errorf("STORE_DRIVER: unknown driver %q", c.StoreDriver)
	}
	if c.ProfileTimeout <= 0 {
		return fmt.Errorf("PROFILE_TIMEOUT must be positive")
	}
	return nil
}
