package config

import (
	"errors"
	"fmt"
	"os"
	"strconv"
	"strings"
	"time"

	"gopkg.in/yaml.v3"
)

// Storage backend selectors.
const (
	StorageCSV      = "csv"
	StorageMemory   = "memory"
	StoragePostgres = "postgres"

	StoreMemory = "memory"
	StoreValkey = "valkey"
)

// Config aggregates runtime configuration used across the service.
type Config struct {
	HTTP       HTTPConfig       `yaml:"http"`
	FAQ        FAQConfig        `yaml:"faq"`
	LLM        LLMConfig        `yaml:"llm"`
	Generation GenerationConfig `yaml:"generation"`
	RefDocs    RefDocsConfig    `yaml:"refDocs"`
	Store      StoreConfig      `yaml:"store"`
	Postgres   PostgresConfig   `yaml:"postgres"`
	Auth       AuthConfig       `yaml:"auth"`
}

// HTTPConfig controls server level behavior.
type HTTPConfig struct {
	Address      string          `yaml:"address"`
	ReadTimeout  time.Duration   `yaml:"readTimeout"`
	WriteTimeout time.Duration   `yaml:"writeTimeout"`
	RateLimit    RateLimitConfig `yaml:"rateLimit"`
}

// RateLimitConfig drives the request limiting middleware.
type RateLimitConfig struct {
	Enabled           bool `yaml:"enabled"`
	RequestsPerMinute int  `yaml:"requestsPerMinute"`
	Burst             int  `yaml:"burst"`
}

// FAQConfig controls the matching engine and its persistence.
type FAQConfig struct {
	// Storage selects the entry/pending backend: csv, memory or postgres.
	Storage          string  `yaml:"storage"`
	EntriesPath      string  `yaml:"entriesPath"`
	PendingPath      string  `yaml:"pendingPath"`
	SearchThreshold  float64 `yaml:"searchThreshold"`
	ConfirmThreshold float64 `yaml:"confirmThreshold"`
	NoMatchMessage   string  `yaml:"noMatchMessage"`
}

// LLMConfig contains ChatGPT/OpenAI settings. An empty API key disables the
// LLM and generation runs on the rule-based source alone.
type LLMConfig struct {
	APIKey      string  `yaml:"apiKey"`
	BaseURL     string  `yaml:"baseUrl"`
	Model       string  `yaml:"model"`
	Temperature float32 `yaml:"temperature"`
}

// GenerationConfig tunes bulk candidate generation.
type GenerationConfig struct {
	DefaultCount         int `yaml:"defaultCount"`
	AttemptFactor        int `yaml:"attemptFactor"`
	PromptEntryLimit     int `yaml:"promptEntryLimit"`
	ReferenceTokenBudget int `yaml:"referenceTokenBudget"`
}

// RefDocsConfig selects where reference documents come from. When Bucket is
// configured it wins over Dir; both empty disables reference documents.
type RefDocsConfig struct {
	Dir    string       `yaml:"dir"`
	Bucket BucketConfig `yaml:"bucket"`
}

// BucketConfig points at an S3-compatible bucket.
type BucketConfig struct {
	Endpoint  string `yaml:"endpoint"`
	AccessKey string `yaml:"accessKey"`
	SecretKey string `yaml:"secretKey"`
	Name      string `yaml:"name"`
	Prefix    string `yaml:"prefix"`
	UseSSL    bool   `yaml:"useSsl"`
}

// StoreConfig selects the query-statistics backend.
type StoreConfig struct {
	Backend string `yaml:"backend"`
	Addr    string `yaml:"addr"`
	Prefix  string `yaml:"prefix"`
}

// PostgresConfig contains DSN and pooling settings.
type PostgresConfig struct {
	DSN      string `yaml:"dsn"`
	MaxConns int32  `yaml:"maxConns"`
	MinConns int32  `yaml:"minConns"`
}

// AuthConfig secures the admin API. AdminKeyHash is a bcrypt hash of the
// shared admin key; JWTSecret signs the session tokens issued against it.
type AuthConfig struct {
	AdminKeyHash string        `yaml:"adminKeyHash"`
	JWTSecret    string        `yaml:"jwtSecret"`
	TokenTTL     time.Duration `yaml:"tokenTtl"`
}

// Load reads configuration from a YAML file and environment variables.
func Load() (*Config, error) {
	cfg := defaultConfig()

	if path := os.Getenv("CONFIG_PATH"); path != "" {
		if err := hydrateFromFile(cfg, path); err != nil {
			return nil, err
		}
	} else if _, err := os.Stat("configs/config.yaml"); err == nil {
		if err := hydrateFromFile(cfg, "configs/config.yaml"); err != nil {
			return nil, err
		}
	}

	applyEnvOverrides(cfg)

	if err := cfg.Validate(); err != nil {
		return nil, fmt.Errorf("invalid config: %w", err)
	}

	return cfg, nil
}

func hydrateFromFile(cfg *Config, path string) error {
	data, err := os.ReadFile(path)
	if err != nil {
		return fmt.Errorf("read config file: %w", err)
	}
	if err := yaml.Unmarshal(data, cfg); err != nil {
		return fmt.Errorf("parse config file: %w", err)
	}
	return nil
}

func applyEnvOverrides(cfg *Config) {
	if v := os.Getenv("HTTP_ADDRESS"); v != "" {
		cfg.HTTP.Address = v
	}
	if v := os.Getenv("HTTP_RATE_LIMIT_ENABLED"); v != "" {
		cfg.HTTP.RateLimit.Enabled = boolValue(v)
	}
	if v := os.Getenv("HTTP_RATE_LIMIT_RPM"); v != "" {
		if parsed, err := strconv.Atoi(v); err == nil {
			cfg.HTTP.RateLimit.RequestsPerMinute = parsed
		}
	}
	if v := os.Getenv("HTTP_RATE_LIMIT_BURST"); v != "" {
		if parsed, err := strconv.Atoi(v); err == nil {
			cfg.HTTP.RateLimit.Burst = parsed
		}
	}
	if v := os.Getenv("FAQ_STORAGE"); v != "" {
		cfg.FAQ.Storage = v
	}
	if v := os.Getenv("FAQ_ENTRIES_PATH"); v != "" {
		cfg.FAQ.EntriesPath = v
	}
	if v := os.Getenv("FAQ_PENDING_PATH"); v != "" {
		cfg.FAQ.PendingPath = v
	}
	if v := os.Getenv("FAQ_SEARCH_THRESHOLD"); v != "" {
		if parsed, err := strconv.ParseFloat(v, 64); err == nil {
			cfg.FAQ.SearchThreshold = parsed
		}
	}
	if v := os.Getenv("FAQ_CONFIRM_THRESHOLD"); v != "" {
		if parsed, err := strconv.ParseFloat(v, 64); err == nil {
			cfg.FAQ.ConfirmThreshold = parsed
		}
	}
	if v := os.Getenv("FAQ_NO_MATCH_MESSAGE"); v != "" {
		cfg.FAQ.NoMatchMessage = v
	}
	if v := os.Getenv("LLM_API_KEY"); v != "" {
		cfg.LLM.APIKey = v
	}
	if v := os.Getenv("LLM_BASE_URL"); v != "" {
		cfg.LLM.BaseURL = v
	}
	if v := os.Getenv("LLM_MODEL"); v != "" {
		cfg.LLM.Model = v
	}
	if v := os.Getenv("LLM_TEMPERATURE"); v != "" {
		if parsed, err := strconv.ParseFloat(v, 32); err == nil {
			cfg.LLM.Temperature = float32(parsed)
		}
	}
	if v := os.Getenv("GENERATION_COUNT"); v != "" {
		if parsed, err := strconv.Atoi(v); err == nil {
			cfg.Generation.DefaultCount = parsed
		}
	}
	if v := os.Getenv("GENERATION_ATTEMPT_FACTOR"); v != "" {
		if parsed, err := strconv.Atoi(v); err == nil {
			cfg.Generation.AttemptFactor = parsed
		}
	}
	if v := os.Getenv("GENERATION_REFERENCE_BUDGET"); v != "" {
		if parsed, err := strconv.Atoi(v); err == nil {
			cfg.Generation.ReferenceTokenBudget = parsed
		}
	}
	if v := os.Getenv("REFDOCS_DIR"); v != "" {
		cfg.RefDocs.Dir = v
	}
	if v := os.Getenv("REFDOCS_BUCKET_ENDPOINT"); v != "" {
		cfg.RefDocs.Bucket.Endpoint = v
	}
	if v := os.Getenv("REFDOCS_BUCKET_ACCESS_KEY"); v != "" {
		cfg.RefDocs.Bucket.AccessKey = v
	}
	if v := os.Getenv("REFDOCS_BUCKET_SECRET_KEY"); v != "" {
		cfg.RefDocs.Bucket.SecretKey = v
	}
	if v := os.Getenv("REFDOCS_BUCKET_NAME"); v != "" {
		cfg.RefDocs.Bucket.Name = v
	}
	if v := os.Getenv("REFDOCS_BUCKET_PREFIX"); v != "" {
		cfg.RefDocs.Bucket.Prefix = v
	}
	if v := os.Getenv("REFDOCS_BUCKET_USE_SSL"); v != "" {
		cfg.RefDocs.Bucket.UseSSL = boolValue(v)
	}
	if v := os.Getenv("STORE_BACKEND"); v != "" {
		cfg.Store.Backend = v
	}
	if v := os.Getenv("STORE_ADDR"); v != "" {
		cfg.Store.Addr = v
	}
	if v := os.Getenv("STORE_PREFIX"); v != "" {
		cfg.Store.Prefix = v
	}
	if v := os.Getenv("POSTGRES_DSN"); v != "" {
		cfg.Postgres.DSN = v
	}
	if v := os.Getenv("POSTGRES_MAX_CONNS"); v != "" {
		if parsed, err := strconv.Atoi(v); err == nil {
			cfg.Postgres.MaxConns = int32(parsed)
		}
	}
	if v := os.Getenv("POSTGRES_MIN_CONNS"); v != "" {
		if parsed, err := strconv.Atoi(v); err == nil {
			cfg.Postgres.MinConns = int32(parsed)
		}
	}
	if v := os.Getenv("AUTH_ADMIN_KEY_HASH"); v != "" {
		cfg.Auth.AdminKeyHash = v
	}
	if v := os.Getenv("AUTH_JWT_SECRET"); v != "" {
		cfg.Auth.JWTSecret = v
	}
	if v := os.Getenv("AUTH_TOKEN_TTL"); v != "" {
		if parsed, err := time.ParseDuration(v); err == nil {
			cfg.Auth.TokenTTL = parsed
		}
	}
}

func boolValue(v string) bool {
	return v == "1" || strings.EqualFold(v, "true")
}

func defaultConfig() *Config {
	return &Config{
		HTTP: HTTPConfig{
			Address:      ":8080",
			ReadTimeout:  5 * time.Second,
			WriteTimeout: 10 * time.Second,
			RateLimit: RateLimitConfig{
				Enabled:           true,
				RequestsPerMinute: 60,
				Burst:             20,
			},
		},
		FAQ: FAQConfig{
			Storage:     StorageCSV,
			EntriesPath: "data/faq_data.csv",
			PendingPath: "data/pending_faq.csv",
		},
		LLM: LLMConfig{
			Model:       "gpt-4o-mini",
			Temperature: 0.7,
		},
		Store: StoreConfig{
			Backend: StoreMemory,
			Prefix:  "visafaq",
		},
		Postgres: PostgresConfig{
			MaxConns: 4,
			MinConns: 0,
		},
		Auth: AuthConfig{
			TokenTTL: 12 * time.Hour,
		},
	}
}

// Validate ensures the configuration is safe to use.
func (c *Config) Validate() error {
	if c.HTTP.Address == "" {
		return errors.New("http.address cannot be empty")
	}
	switch c.FAQ.Storage {
	case StorageCSV:
		if strings.TrimSpace(c.FAQ.EntriesPath) == "" || strings.TrimSpace(c.FAQ.PendingPath) == "" {
			return errors.New("faq.entriesPath and faq.pendingPath are required for csv storage")
		}
	case StorageMemory:
	case StoragePostgres:
		if strings.TrimSpace(c.Postgres.DSN) == "" {
			return errors.New("postgres.dsn is required for postgres storage")
		}
	default:
		return fmt.Errorf("faq.storage must be one of %s, %s, %s", StorageCSV, StorageMemory, StoragePostgres)
	}
	if c.FAQ.SearchThreshold < 0 {
		return errors.New("faq.searchThreshold must be non-negative")
	}
	if c.FAQ.ConfirmThreshold < 0 {
		return errors.New("faq.confirmThreshold must be non-negative")
	}
	switch c.Store.Backend {
	case StoreMemory:
	case StoreValkey:
		if strings.TrimSpace(c.Store.Addr) == "" {
			return errors.New("store.addr is required for the valkey backend")
		}
	default:
		return fmt.Errorf("store.backend must be %s or %s", StoreMemory, StoreValkey)
	}
	if c.RefDocs.Bucket.Name != "" && c.RefDocs.Bucket.Endpoint == "" {
		return errors.New("refDocs.bucket.endpoint is required when a bucket is configured")
	}
	if c.Auth.AdminKeyHash != "" && c.Auth.JWTSecret == "" {
		return errors.New("auth.jwtSecret is required when an admin key is configured")
	}
	if c.Auth.TokenTTL <= 0 {
		return errors.New("auth.tokenTtl must be positive")
	}
	return nil
}
