package config

import (
	"errors"
	"io/fs"
	"log/slog"

	"github.com/caarlos0/env/v11"
	"github.com/go-playground/validator/v10"
	"github.com/joho/godotenv"
)

// Supported values of DB_DRIVER.
const (
	DriverPGX      = "pgx"
	DriverPostgres = "postgres"
	DriverSQLX     = "sqlx"
	DriverSQLite   = "sqlite"
)

var (
	ErrLoadingEnvFileFailed = errors.New("loading env file failed")
	ErrParsingConfigFailed  = errors.New("parsing config from environment failed")
	ErrInvalidConfig        = errors.New("invalid config")
)

// Config is the runtime configuration.
type Config struct {
	DBDriver    string `env:"DB_DRIVER" envDefault:"sqlite" validate:"oneof=pgx postgres sqlx sqlite"`
	DBDSN       string `env:"DB_DSN,required" validate:"required"`
	TablePrefix string `env:"TABLE_PREFIX"`

	AsyncWorkers   int `env:"ASYNC_WORKERS" envDefault:"4" validate:"min=1,max=256"`
	AsyncQueueSize int `env:"ASYNC_QUEUE_SIZE" envDefault:"256" validate:"min=0"`

	LogLevel     string `env:"LOG_LEVEL" envDefault:"info" validate:"oneof=debug info warn error"`
	OTLPEndpoint string `env:"OTLP_ENDPOINT" validate:"omitempty,hostname_port"`
	ServiceName  string `env:"SERVICE_NAME" envDefault:"content-eventbus" validate:"required"`
}

// Load reads the given .env files, when they exist, then parses and validates the environment.
// Variables already set in the environment win over the files.
func Load(envFiles ...string) (Config, error) {
	for _, file := range envFiles {
		if err := godotenv.Load(file); err != nil && !errors.Is(err, fs.ErrNotExist) {
			return Config{}, errors.Join(ErrLoadingEnvFileFailed, err)
		}
	}

	cfg, err := env.ParseAs[Config]()
	if err != nil {
		return Config{}, errors.Join(ErrParsingConfigFailed, err)
	}

	if err = cfg.Validate(); err != nil {
		return Config{}, err
	}

	return cfg, nil
}

// Validate checks the value constraints of cfg.
func (cfg Config) Validate() error {
	if err := validator.New().Struct(cfg); err != nil {
		return errors.Join(ErrInvalidConfig, err)
	}

	return nil
}

// SlogLevel maps LogLevel to a slog.Level.
func (cfg Config) SlogLevel() slog.Level {
	switch cfg.LogLevel {
	case "debug":
		return slog.LevelDebug
	case "warn":
		return slog.LevelWarn
	case "error":
		return slog.LevelError
	default:
		return slog.LevelInfo
	}
}
