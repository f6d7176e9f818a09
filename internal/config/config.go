package config

import (
	"encoding/json"
	"errors"
	"fmt"
	"io/fs"
	"os"
	"sync"
	"time"

	"github.com/joho/godotenv"
)

// APIKeyEnv is the only environment variable the app reads for secrets.
const APIKeyEnv = "GEMINI_API_KEY"

// ErrMissingAPIKey is returned by Validate when no model API key is configured.
var ErrMissingAPIKey = errors.New("gemini api key must be set in config or " + APIKeyEnv)

type GeminiConfig struct {
	APIKey string `json:"api_key"`
	Model  string `json:"model"`
}

type FetcherConfig struct {
	TimeoutSeconds int    `json:"timeout_seconds"`
	UserAgent      string `json:"user_agent"`
	MaxPageSizeMB  int    `json:"max_page_size_mb"`
	Extractor      string `json:"extractor"` // "paragraphs" or "readability"
}

type Config struct {
	Server struct {
		Host    string `json:"host"`
		Port    int    `json:"port"`
		Subpath string `json:"subpath"`
	} `json:"server"`
	Gemini  GeminiConfig  `json:"gemini"`
	Fetcher FetcherConfig `json:"fetcher"`
	Limits  struct {
		CategoryChars int `json:"category_chars"`
		SummaryChars  int `json:"summary_chars"`
	} `json:"limits"`
	Retry struct {
		Attempts            int `json:"attempts"`
		InitialDelaySeconds int `json:"initial_delay_seconds"`
	} `json:"retry"`
	Database struct {
		Driver string `json:"driver"` // "postgres" or "sqlite"
		DSN    string `json:"dsn"`
	} `json:"database"`
	Redis struct {
		Addr     string `json:"addr"`
		Password string `json:"password"`
		DB       int    `json:"db"`
	} `json:"redis"`
	Logging struct {
		Level  string `json:"level"`
		Pretty bool   `json:"pretty"`
	} `json:"logging"`
}

var (
	once   sync.Once
	cfg    *Config
	cfgErr error
)

// LoadConfig reads config.json from disk (singleton). A .env file in the
// working directory is loaded first; GEMINI_API_KEY wins over the file.
// A missing config file is fine as long as the key comes from the environment.
func LoadConfig(path string) (*Config, error) {
	once.Do(func() {
		if err := godotenv.Load(); err != nil && !errors.Is(err, fs.ErrNotExist) {
			cfgErr = fmt.Errorf("failed to load .env: %w", err)
			return
		}

		var c Config
		raw, err := os.ReadFile(path)
		switch {
		case err == nil:
			if err := json.Unmarshal(raw, &c); err != nil {
				cfgErr = fmt.Errorf("invalid config format: %w", err)
				return
			}
		case errors.Is(err, fs.ErrNotExist) && os.Getenv(APIKeyEnv) != "":
			// env-only setup, defaults below
		default:
			cfgErr = fmt.Errorf("failed to read config file: %w", err)
			return
		}

		if key := os.Getenv(APIKeyEnv); key != "" {
			c.Gemini.APIKey = key
		}
		c.ApplyDefaults()
		cfg = &c
	})
	return cfg, cfgErr
}

// ApplyDefaults fills zero values with the stock settings.
func (c *Config) ApplyDefaults() {
	if c.Server.Host == "" {
		c.Server.Host = "0.0.0.0"
	}
	if c.Server.Port == 0 {
		c.Server.Port = 5000
	}
	if c.Gemini.Model == "" {
		c.Gemini.Model = "gemini-1.5-flash-latest"
	}
	if c.Fetcher.TimeoutSeconds <= 0 {
		c.Fetcher.TimeoutSeconds = 10
	}
	if c.Fetcher.UserAgent == "" {
		c.Fetcher.UserAgent = "go-newscrew/1.0"
	}
	if c.Fetcher.MaxPageSizeMB <= 0 {
		c.Fetcher.MaxPageSizeMB = 5
	}
	if c.Fetcher.Extractor == "" {
		c.Fetcher.Extractor = "paragraphs"
	}
	if c.Limits.CategoryChars <= 0 {
		c.Limits.CategoryChars = 3000
	}
	if c.Limits.SummaryChars <= 0 {
		c.Limits.SummaryChars = 7000
	}
	if c.Retry.Attempts <= 0 {
		c.Retry.Attempts = 3
	}
	if c.Retry.InitialDelaySeconds <= 0 {
		c.Retry.InitialDelaySeconds = 30
	}
	if c.Database.Driver == "" {
		c.Database.Driver = "postgres"
	}
	if c.Logging.Level == "" {
		c.Logging.Level = "info"
	}
}

// Validate checks the settings needed to call the model.
func (c *Config) Validate() error {
	if c.Gemini.APIKey == "" {
		return ErrMissingAPIKey
	}
	return nil
}

func (c *Config) FetchTimeout() time.Duration {
	return time.Duration(c.Fetcher.TimeoutSeconds) * time.Second
}

func (c *Config) RetryDelay() time.Duration {
	return time.Duration(c.Retry.InitialDelaySeconds) * time.Second
}

// GetConfig returns the loaded config (must call LoadConfig first)
func GetConfig() *Config {
	return cfg
}

// ResetConfigForTest resets the singleton state (for testing only)
func ResetConfigForTest() {
	once = sync.Once{}
	cfg = nil
	cfgErr = nil
}
