package config

import (
	"fmt"
	"os"
	"strings"
	"time"

	"github.com/caarlos0/env/v11"
	"github.com/joho/godotenv"
	"github.com/sirupsen/logrus"

	"namecraft/backend/internal/ai"
	"namecraft/backend/internal/store"
)

// OpenAIConfig holds the chat completion settings read from OPENAI_* variables.
type OpenAIConfig struct {
	APIKey      string  `env:"API_KEY"`
	Model       string  `env:"MODEL" envDefault:"gpt-4o-mini"`
	BaseURL     string  `env:"BASE_URL"`
	Temperature float64 `env:"TEMPERATURE" envDefault:"0.9"`
	MaxTokens   int     `env:"MAX_TOKENS" envDefault:"400"`
}

// Config is the process configuration.
type Config struct {
	Port      string        `env:"PORT" envDefault:"8001"`
	OpenAI    OpenAIConfig  `envPrefix:"OPENAI_"`
	AITimeout time.Duration `env:"AI_TIMEOUT" envDefault:"30s"`

	MongoURL            string        `env:"MONGO_URL"`
	DBName              string        `env:"DB_NAME" envDefault:"namecraft"`
	MongoConnectTimeout time.Duration `env:"MONGO_CONNECT_TIMEOUT" envDefault:"10s"`
	HistoryDBPath       string        `env:"HISTORY_DB_PATH" envDefault:"data/namecraft.db"`

	CORSOrigins []string `env:"CORS_ORIGINS" envSeparator:","`

	LogLevel  string `env:"LOG_LEVEL" envDefault:"info"`
	LogFormat string `env:"LOG_FORMAT" envDefault:"text"`
}

// Load reads an optional .env file and then the process environment.
// Variables already set in the environment win over the file.
func Load(files ...string) (Config, error) {
	if len(files) == 0 {
		files = []string{".env"}
	}
	for _, file := range files {
		if err := godotenv.Load(file); err != nil && !os.IsNotExist(err) {
			return Config{}, fmt.Errorf("load %s: %w", file, err)
		}
	}
	var cfg Config
	if err := env.Parse(&cfg); err != nil {
		return Config{}, fmt.Errorf("parse environment: %w", err)
	}
	cfg.CORSOrigins = trimAll(cfg.CORSOrigins)
	return cfg, nil
}

// AI converts the OpenAI settings into a client config.
func (c Config) AI() ai.Config {
	return ai.Config{
		APIKey:      c.OpenAI.APIKey,
		Model:       c.OpenAI.Model,
		BaseURL:     c.OpenAI.BaseURL,
		Temperature: &c.OpenAI.Temperature,
		MaxTokens:   c.OpenAI.MaxTokens,
		Timeout:     c.AITimeout,
	}
}

// Store selects the history backend. MONGO_URL takes precedence over the SQLite path.
func (c Config) Store() store.Options {
	return store.Options{
		MongoURL:       c.MongoURL,
		MongoDatabase:  c.DBName,
		ConnectTimeout: c.MongoConnectTimeout,
		SQLitePath:     c.HistoryDBPath,
		SilentSQL:      !strings.EqualFold(c.LogLevel, "debug"),
	}
}

// Addr is the listen address for the HTTP server.
func (c Config) Addr() string {
	port := strings.TrimPrefix(strings.TrimSpace(c.Port), ":")
	if port == "" {
		port = "8001"
	}
	return ":" + port
}

// ConfigureLogging applies LOG_LEVEL and LOG_FORMAT to the standard logger.
func ConfigureLogging(cfg Config) error {
	level, err := logrus.ParseLevel(strings.TrimSpace(cfg.LogLevel))
	if err != nil {
		return fmt.Errorf("log level: %w", err)
	}
	logrus.SetLevel(level)
	switch strings.ToLower(strings.TrimSpace(cfg.LogFormat)) {
	case "", "text":
		logrus.SetFormatter(&logrus.TextFormatter{FullTimestamp: true})
	case "json":
		logrus.SetFormatter(&logrus.JSONFormatter{})
	default:
		return fmt.Errorf("unknown log format %q", cfg.LogFormat)
	}
	return nil
}

func trimAll(values []string) []string {
	out := make([]string, 0, len(values))
	for _, v := range values {
		if v = strings.TrimSpace(v); v != "" {
			out = append(out, v)
		}
	}
	return out
}
