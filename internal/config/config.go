package config

import (
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/joho/godotenv"
	"github.com/spf13/viper"
)

var ErrMissingEnvironmentVariables = errors.New("missing required environment variables")

const (
	DriverSQLite   = "sqlite"
	DriverPostgres = "postgres"
	DriverMemory   = "memory"
)

// Config holds application configuration loaded from files and environment variables.
type Config struct {
	Env     string  `mapstructure:"env"` // local, dev, prod
	HTTP    HTTP    `mapstructure:"http"`
	Storage Storage `mapstructure:"storage"`
	Catalog Catalog `mapstructure:"catalog"`
	Streak  Streak  `mapstructure:"streak"`
	Hint    Hint    `mapstructure:"hint"`
	Log     Log     `mapstructure:"log"`
}

type HTTP struct {
	Addr              string        `mapstructure:"addr"`
	ReadHeaderTimeout time.Duration `mapstructure:"read_header_timeout"`
	CORSOrigins       []string      `mapstructure:"cors_origins"`
	AuthRatePerMinute int           `mapstructure:"auth_rate_per_minute"` // signup/login attempts per client IP
}

type Storage struct {
	Driver          string        `mapstructure:"driver"`
	SQLitePath      string        `mapstructure:"sqlite_path"`
	URL             string        `mapstructure:"-"` // postgres connection string loaded from DATABASE_URL
	MaxConnections  int           `mapstructure:"max_connections"`
	MaxConnLifetime time.Duration `mapstructure:"max_conn_lifetime"`
}

// DSN returns the postgres connection string if it is configured.
func (s Storage) DSN() (string, error) {
	if s.URL == "" {
		return "", ErrMissingEnvironmentVariables
	}
	return s.URL, nil
}

type Catalog struct {
	Path            string `mapstructure:"path"`             // fixture file; empty uses the bundled catalog
	TriviaQuestions int    `mapstructure:"trivia_questions"` // 0 disables the OpenTriviaDB import
}

type Streak struct {
	Timezone string `mapstructure:"timezone"` // IANA name or UTC offset; empty is the process zone
}

// Hint configures the Gemini answer hint. Without an API key the hint route
// answers 503.
type Hint struct {
	APIKey  string        `mapstructure:"-"` // loaded from GEMINI_API_KEY
	Model   string        `mapstructure:"model"`
	BaseURL string        `mapstructure:"base_url"`
	Timeout time.Duration `mapstructure:"timeout"`
}

func (h Hint) Enabled() bool {
	return strings.TrimSpace(h.APIKey) != ""
}

type Log struct {
	Level string `mapstructure:"level"`
	File  string `mapstructure:"file"` // optional rotating log file
}

// Load reads .env, config/config.yaml and the environment, in that order of
// precedence from lowest to highest. Extra search paths replace ./config.
func Load(paths ...string) (*Config, error) {
	// A missing .env is normal outside local development.
	_ = godotenv.Load()

	v := viper.New()
	v.SetConfigName("config")
	v.SetConfigType("yaml")
	if len(paths) == 0 {
		paths = []string{"./config"}
	}
	for _, path := range paths {
		v.AddConfigPath(path)
	}

	v.SetDefault("env", "local")
	v.SetDefault("http.addr", ":8080")
	v.SetDefault("http.read_header_timeout", "5s")
	v.SetDefault("http.cors_origins", []string{"*"})
	v.SetDefault("http.auth_rate_per_minute", 20)
	v.SetDefault("storage.driver", DriverSQLite)
	v.SetDefault("storage.sqlite_path", "quizboard.db")
	v.SetDefault("storage.max_connections", 10)
	v.SetDefault("storage.max_conn_lifetime", "30m")
	v.SetDefault("catalog.path", "")
	v.SetDefault("catalog.trivia_questions", 0)
	v.SetDefault("streak.timezone", "")
	v.SetDefault("hint.model", "gemini-1.5-flash")
	v.SetDefault("hint.base_url", "https://generativelanguage.googleapis.com")
	v.SetDefault("hint.timeout", "10s")
	v.SetDefault("log.level", "info")
	v.SetDefault("log.file", "")

	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	v.AutomaticEnv()

	_ = v.BindEnv("database_url", "DATABASE_URL")
	_ = v.BindEnv("env", "APP_ENV")
	_ = v.BindEnv("gemini_api_key", "GEMINI_API_KEY")

	if err := v.ReadInConfig(); err != nil {
		var fileLookupErr viper.ConfigFileNotFoundError
		if !errors.As(err, &fileLookupErr) {
			return nil, fmt.Errorf("error loading config file: %w", err)
		}
	}

	var cfg Config
	if err := v.Unmarshal(&cfg); err != nil {
		return nil, fmt.Errorf("error unmarshalling config: %w", err)
	}

	cfg.Storage.Driver = strings.ToLower(strings.TrimSpace(cfg.Storage.Driver))
	cfg.Storage.URL = v.GetString("database_url")
	cfg.Hint.APIKey = v.GetString("gemini_api_key")

	switch cfg.Storage.Driver {
	case DriverSQLite, DriverMemory:
	case DriverPostgres:
		if _, err := cfg.Storage.DSN(); err != nil {
			return nil, err
		}
	default:
		return nil, fmt.Errorf("unknown storage driver %q", cfg.Storage.Driver)
	}

	return &cfg, nil
}
