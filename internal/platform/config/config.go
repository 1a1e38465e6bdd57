package config

import (
	"errors"
	"fmt"
	"os"
	"strconv"
	"strings"
	"time"

	"github.com/joho/godotenv"
)

// Client captures configuration for the realty CLI and the application core
// it drives.
type Client struct {
	BaseURL string        `yaml:"base_url"`
	Timeout time.Duration `yaml:"timeout"`
	State   State         `yaml:"state"`
	Logging Logging       `yaml:"logging"`
	// MetricsFile receives the invocation's metrics in the Prometheus text
	// format when set, for a node_exporter textfile collector.
	MetricsFile string `yaml:"metrics_file"`
}

// State selects the device-local key/value store that holds the session.
type State struct {
	Backend string      `yaml:"backend"` // sqlite|redis|memory
	Path    string      `yaml:"path"`    // sqlite file
	Redis   RedisConfig `yaml:"redis"`
}

// Server captures configuration for the contract stub server.
type Server struct {
	Addr          string
	JWTSigningKey string
	TokenTTL      time.Duration
	DatabaseURL   string // empty keeps records in memory
	SeedFile      string // optional YAML lookup seed
	Logging       Logging
}

// RedisConfig configures the go-redis client.
type RedisConfig struct {
	URL          string        `yaml:"url"`
	PoolSize     int           `yaml:"pool_size"`
	MinIdleConns int           `yaml:"min_idle_conns"`
	DialTimeout  time.Duration `yaml:"dial_timeout"`
	ReadTimeout  time.Duration `yaml:"read_timeout"`
	WriteTimeout time.Duration `yaml:"write_timeout"`
}

// Logging controls slog output.
type Logging struct {
	Level  string `yaml:"level"`
	Format string `yaml:"format"` // text|json
}

const (
	defaultBaseURL       = "http://localhost:8080"
	defaultClientTimeout = 30 * time.Second
	defaultStateBackend  = "sqlite"
	defaultStateFile     = "realty-state.db"
	defaultServerAddr    = ":8080"
	defaultTokenTTL      = 30 * 24 * time.Hour
	defaultLogLevel      = "info"
	defaultLogFormat     = "text"
)

// StateBackends lists the accepted values of State.Backend.
var StateBackends = []string{"sqlite", "redis", "memory"}

// LoadDotEnv loads variables from .env files into the process environment.
// Missing files are ignored; existing variables are never overwritten.
func LoadDotEnv(paths ...string) error {
	if len(paths) == 0 {
		paths = []string{".env"}
	}
	for _, p := range paths {
		if err := godotenv.Load(p); err != nil {
			if errors.Is(err, os.ErrNotExist) {
				continue
			}
			return fmt.Errorf("load %s: %w", p, err)
		}
	}
	return nil
}

// ClientFromEnv builds a Client config from environment variables.
func ClientFromEnv() (Client, error) {
	cfg := Client{
		BaseURL: valueOrDefault("REALTY_BASE_URL", defaultBaseURL),
		Timeout: defaultClientTimeout,
		State: State{
			Backend: strings.ToLower(valueOrDefault("REALTY_STATE_BACKEND", defaultStateBackend)),
			Path:    valueOrDefault("REALTY_STATE_PATH", defaultStateFile),
			Redis:   redisFromEnv("REALTY_REDIS_URL"),
		},
		Logging:     loggingFromEnv(),
		MetricsFile: os.Getenv("REALTY_METRICS_FILE"),
	}

	if v := os.Getenv("REALTY_TIMEOUT"); v != "" {
		d, err := time.ParseDuration(v)
		if err != nil {
			return Client{}, fmt.Errorf("invalid REALTY_TIMEOUT: %w", err)
		}
		cfg.Timeout = d
	}

	if err := cfg.Validate(); err != nil {
		return Client{}, err
	}
	return cfg, nil
}

// Validate checks values that cannot be defaulted.
func (c Client) Validate() error {
	if strings.TrimSpace(c.BaseURL) == "" {
		return errors.New("base URL is required")
	}
	switch c.State.Backend {
	case "sqlite":
		if c.State.Path == "" {
			return errors.New("state path is required for the sqlite backend")
		}
	case "redis":
		if c.State.Redis.URL == "" {
			return errors.New("redis URL is required for the redis backend")
		}
	case "memory":
	default:
		return fmt.Errorf("unknown state backend %q (want one of %s)", c.State.Backend, strings.Join(StateBackends, ", "))
	}
	return nil
}

// ServerFromEnv builds a Server config from environment variables.
func ServerFromEnv() (Server, error) {
	cfg := Server{
		Addr:          valueOrDefault("STUB_ADDR", defaultServerAddr),
		JWTSigningKey: os.Getenv("JWT_SIGNING_KEY"),
		TokenTTL:      defaultTokenTTL,
		DatabaseURL:   os.Getenv("DATABASE_URL"),
		SeedFile:      os.Getenv("STUB_SEED_FILE"),
		Logging:       loggingFromEnv(),
	}
	if cfg.JWTSigningKey == "" {
		// Development default; the stub never runs in production.
		cfg.JWTSigningKey = "dev-secret-key-change-me"
	}
	if v := os.Getenv("STUB_TOKEN_TTL"); v != "" {
		d, err := time.ParseDuration(v)
		if err != nil {
			return Server{}, fmt.Errorf("invalid STUB_TOKEN_TTL: %w", err)
		}
		cfg.TokenTTL = d
	}
	return cfg, nil
}

func loggingFromEnv() Logging {
	return Logging{
		Level:  valueOrDefault("LOG_LEVEL", defaultLogLevel),
		Format: valueOrDefault("LOG_FORMAT", defaultLogFormat),
	}
}

func redisFromEnv(urlKey string) RedisConfig {
	return RedisConfig{
		URL:          os.Getenv(urlKey),
		PoolSize:     parseIntWithDefault("REDIS_POOL_SIZE", 10),
		MinIdleConns: parseIntWithDefault("REDIS_MIN_IDLE_CONNS", 1),
		DialTimeout:  5 * time.Second,
		ReadTimeout:  3 * time.Second,
		WriteTimeout: 3 * time.Second,
	}
}

func valueOrDefault(key, fallback string) string {
	if v := os.Getenv(key); v != "" {
		return v
	}
	return fallback
}

func parseIntWithDefault(key string, fallback int) int {
	if v := os.Getenv(key); v != "" {
		if val, err := strconv.Atoi(v); err == nil {
			return val
		}
	}
	return fallback
}
