package config

import (
	"fmt"
	"time"

	"github.com/joho/godotenv"
	"github.com/kelseyhightower/envconfig"
)

type Config struct {
	Port        string `envconfig:"PORT" default:"3000"`
	GRPCPort    string `envconfig:"GRPC_PORT" default:"50051"`
	Environment string `envconfig:"ENVIRONMENT" default:"development"`
	LogLevel    string `envconfig:"LOG_LEVEL" default:"info"`

	Rankings   Rankings
	Draft      Draft
	Sessions   Sessions
	NATS       NATS
	ClickHouse ClickHouse
	Auth       Auth
}

type Rankings struct {
	Source      string        `envconfig:"RANKINGS_SOURCE" default:"csv"`
	PlayersCSV  string        `envconfig:"PLAYERS_CSV" default:"data/players.csv"`
	SQLiteFile  string        `envconfig:"SQLITE_FILE" default:"dev.sqlite"`
	DatabaseURL string        `envconfig:"DATABASE_URL"`
	Refresh     time.Duration `envconfig:"RANKINGS_REFRESH" default:"0s"`
}

type Draft struct {
	Teams       int `envconfig:"DRAFT_TEAMS" default:"12"`
	Rounds      int `envconfig:"DRAFT_ROUNDS" default:"20"`
	DefaultSlot int `envconfig:"DRAFT_DEFAULT_SLOT" default:"4"`
	TopN        int `envconfig:"DRAFT_TOP_N" default:"20"`
}

type Sessions struct {
	TTL   time.Duration `envconfig:"SESSION_TTL" default:"2h"`
	Sweep time.Duration `envconfig:"SESSION_SWEEP" default:"5m"`
}

type NATS struct {
	URL     string `envconfig:"NATS_URL" default:"nats://localhost:4222"`
	Subject string `envconfig:"NATS_SUBJECT" default:"draft.events"`
}

type ClickHouse struct {
	Addr     string `envconfig:"CLICKHOUSE_ADDR" default:"localhost:9000"`
	Database string `envconfig:"CLICKHOUSE_DB" default:"default"`
	User     string `envconfig:"CLICKHOUSE_USER" default:"default"`
	Password string `envconfig:"CLICKHOUSE_PASSWORD"`
	Table    string `envconfig:"CLICKHOUSE_TABLE" default:"player_rankings"`
}

type Auth struct {
	Mode         string `envconfig:"AUTH_MODE" default:"none"`
	BaseURL      string `envconfig:"AUTHENTIK_BASE_URL"`
	ClientID     string `envconfig:"AUTHENTIK_CLIENT_ID"`
	ClientSecret string `envconfig:"AUTHENTIK_CLIENT_SECRET"`
	RedirectURL  string `envconfig:"AUTHENTIK_REDIRECT_URL" default:"http://localhost:3000/auth/callback"`
	AppSlug      string `envconfig:"AUTHENTIK_APP_SLUG" default:"snake-draft"`
}

// Load reads an optional .env file and then the process environment
func Load() (*Config, error) {
	// a missing .env is normal outside local development
	_ = godotenv.Load()
	return New()
}

// New builds the config from the process environment only
func New() (*Config, error) {
	var c Config
	if err := envconfig.Process("", &c); err != nil {
		return nil, err
	}
	if err := c.Validate(); err != nil {
		return nil, err
	}
	return &c, nil
}

// IsDevelopment reports whether local stand-ins should replace infrastructure
func (c *Config) IsDevelopment() bool {
	return c.Environment == "" || c.Environment == "development"
}

// Validate checks values envconfig cannot
func (c *Config) Validate() error {
	if c.Draft.Teams < 1 {
		return fmt.Errorf("DRAFT_TEAMS must be at least 1, got %d", c.Draft.Teams)
	}
	if c.Draft.Rounds < 0 {
		return fmt.Errorf("DRAFT_ROUNDS must not be negative, got %d", c.Draft.Rounds)
	}
	if c.Draft.DefaultSlot < 1 || c.Draft.DefaultSlot > c.Draft.Teams {
		return fmt.Errorf("DRAFT_DEFAULT_SLOT must be between 1 and %d, got %d", c.Draft.Teams, c.Draft.DefaultSlot)
	}
	if c.Draft.TopN < 1 {
		return fmt.Errorf("DRAFT_TOP_N must be at least 1, got %d", c.Draft.TopN)
	}

	switch c.Rankings.Source {
	case "csv", "memory", "sqlite", "clickhouse":
	case "postgres":
		if c.Rankings.DatabaseURL == "" {
			return fmt.Errorf("DATABASE_URL is required for postgres rankings")
		}
	default:
		return fmt.Errorf("unknown RANKINGS_SOURCE %q (valid: csv, memory, sqlite, postgres, clickhouse)", c.Rankings.Source)
	}

	switch c.Auth.Mode {
	case "none", "mock":
	case "authentik":
		if c.Auth.BaseURL == "" || c.Auth.ClientID == "" || c.Auth.ClientSecret == "" {
			return fmt.Errorf("AUTHENTIK_BASE_URL, AUTHENTIK_CLIENT_ID and AUTHENTIK_CLIENT_SECRET are required for authentik auth")
		}
	default:
		return fmt.Errorf("unknown AUTH_MODE %q (valid: none, mock, authentik)", c.Auth.Mode)
	}
	return nil
}
