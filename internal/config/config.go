package config

import (
	"errors"
	"fmt"
	"io/fs"
	"time"

	"github.com/caarlos0/env/v6"
	"github.com/joho/godotenv"
)

type Config struct {
	ServerAddress string `env:"SERVER_ADDRESS" envDefault:"0.0.0.0:8080"`
	LogLevel      string `env:"LOG_LEVEL" envDefault:"DEBUG"`
	APIConfig
	SessionConfig
	PostgresConfig
	NotifyConfig
	SearchConfig
}

// NewConfig loads variables from the optional env file (ENV_FILE, default .env),
// then parses the process environment. Variables already set take precedence.
func NewConfig() (*Config, error) {
	config := &Config{}

	if err := LoadEnvFile(); err != nil {
		return config, fmt.Errorf("config.NewConfig: %w", err)
	}

	err := env.Parse(config)
	if err != nil {
		err = fmt.Errorf("config.NewConfig: %w", err)
	}
	return config, err
}

func LoadEnvFile() error {
	path := struct {
		File string `env:"ENV_FILE" envDefault:".env"`
	}{}
	if err := env.Parse(&path); err != nil {
		return err
	}

	err := godotenv.Load(path.File)
	if err != nil && !errors.Is(err, fs.ErrNotExist) {
		return err
	}
	return nil
}

type APIConfig struct {
	BaseURL      string        `env:"API_BASE_URL" envDefault:"http://localhost:8000/api"`
	LoginTimeout time.Duration `env:"API_LOGIN_TIMEOUT" envDefault:"15s"`
	MaxRetries   int           `env:"API_MAX_RETRIES" envDefault:"0"`
	RetryDelay   time.Duration `env:"API_RETRY_DELAY" envDefault:"500ms"`
}

type SessionConfig struct {
	Backend string `env:"SESSION_BACKEND" envDefault:"badger"`
	Path    string `env:"SESSION_PATH" envDefault:"./data/session"`
	Secret  string `env:"SESSION_SECRET" envDefault:"change-me"`
}

type NotifyConfig struct {
	Enabled      bool   `env:"NOTIFY_ENABLED" envDefault:"false"`
	Permission   string `env:"NOTIFY_PERMISSION" envDefault:"denied"`
	RegisterPath string `env:"NOTIFY_REGISTER_PATH" envDefault:"/notifications/devices/"`
}

type SearchConfig struct {
	Debounce time.Duration `env:"SEARCH_DEBOUNCE" envDefault:"800ms"`
}

type PostgresConfig struct {
	Conn            string `env:"POSTGRES_CONN" envDefault:"postgres://test:test@db:5432/test?sslmode=disable"`
	Host            string `env:"POSTGRES_HOST" envDefault:"db"`
	Port            string `env:"POSTGRES_PORT" envDefault:"5432"`
	Username        string `env:"POSTGRES_USERNAME" envDefault:"test"`
	Password        string `env:"POSTGRES_PASSWORD" envDefault:"test"`
	Database        string `env:"POSTGRES_DATABASE" envDefault:"test"`
	AutoMigrateUp   string `env:"AUTO_MIGRATE_UP" envDefault:"true"`
	AutoMigrateDown string `env:"AUTO_MIGRATE_DOWN" envDefault:"false"`
	MigrationsURL   string `env:"MIGRATIONS_URL" envDefault:""`
}

func NewPostgresConfig() (*PostgresConfig, error) {
	config := &PostgresConfig{}

	err := env.Parse(config)
	if err != nil {
		err = fmt.Errorf("config.NewPostgresConfig: %w", err)
	}
	return config, err
}
