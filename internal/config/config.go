// Package config loads runtime settings from the environment. An optional
// .env file in the working directory is loaded first; variables already set
// in the environment take precedence over it.
package config

import (
	"errors"
	"fmt"
	"os"
	"strconv"
	"strings"
	"time"

	"github.com/joho/godotenv"

	"github.com/leofalp/songscene/core/recovery"
	"github.com/leofalp/songscene/internal/logging"
)

const (
	DefaultBaseURL       = "https://api.deepseek.com/v1"
	DefaultModel         = "deepseek-chat"
	DefaultGeminiBaseURL = "https://generativelanguage.googleapis.com"
	DefaultGeminiModel   = "gemini-2.0-flash-lite"
	DefaultTimeout       = 30 * time.Second
	DefaultMaxResults    = 3
	DefaultMaxTokens     = 2000
	DefaultCacheTTL      = 24 * time.Hour
)

// Provider selects the completion backend.
type Provider string

const (
	ProviderOpenAI Provider = "openai"
	ProviderGemini Provider = "gemini"
)

// CacheKind selects where lookup results are cached.
type CacheKind string

const (
	CacheNone     CacheKind = "none"
	CacheMemory   CacheKind = "memory"
	CachePostgres CacheKind = "postgres"
)

// Config holds every setting the CLI needs. APIKey, BaseURL and Model belong
// to the selected Provider.
type Config struct {
	Provider   Provider
	APIKey     string
	BaseURL    string
	Model      string
	Timeout    time.Duration
	MaxTokens  int
	MaxResults int

	Shape  recovery.Shape
	Repair recovery.RepairStrategy

	DatabaseURL string
	Cache       CacheKind
	CacheTTL    time.Duration

	TelegramToken string

	LogFormat logging.Format
}

// Load reads .env (if present) and the environment. Invalid values are
// reported together.
func Load() (Config, error) {
	if err := godotenv.Load(); err != nil && !errors.Is(err, os.ErrNotExist) {
		return Config{}, fmt.Errorf("config: load .env: %w", err)
	}
	return FromEnv()
}

// FromEnv reads the configuration from the process environment only.
func FromEnv() (Config, error) {
	cfg := Config{
		DatabaseURL:   strings.TrimSpace(os.Getenv("DATABASE_URL")),
		TelegramToken: strings.TrimSpace(os.Getenv("TELEGRAM_BOT_TOKEN")),
	}

	var errs []error
	var err error

	if cfg.Provider, err = parseProvider(os.Getenv("SONGSCENE_PROVIDER")); err != nil {
		errs = append(errs, err)
	}
	switch cfg.Provider {
	case ProviderGemini:
		cfg.APIKey = strings.TrimSpace(os.Getenv("GEMINI_API_KEY"))
		cfg.BaseURL = envOr("GEMINI_API_BASE_URL", DefaultGeminiBaseURL)
		cfg.Model = envOr("SONGSCENE_MODEL", DefaultGeminiModel)
	default:
		cfg.APIKey = strings.TrimSpace(os.Getenv("DEEPSEEK_API_KEY"))
		cfg.BaseURL = envOr("DEEPSEEK_BASE_URL", DefaultBaseURL)
		cfg.Model = envOr("SONGSCENE_MODEL", DefaultModel)
	}

	if cfg.Timeout, err = durationEnv("SONGSCENE_TIMEOUT", DefaultTimeout); err != nil {
		errs = append(errs, err)
	}
	if cfg.MaxTokens, err = intEnv("SONGSCENE_MAX_TOKENS", DefaultMaxTokens); err != nil {
		errs = append(errs, err)
	}
	if cfg.MaxResults, err = intEnv("SONGSCENE_MAX_RESULTS", DefaultMaxResults); err != nil {
		errs = append(errs, err)
	}
	if cfg.Shape, err = recovery.ParseShape(os.Getenv("SONGSCENE_SHAPE")); err != nil {
		errs = append(errs, fmt.Errorf("SONGSCENE_SHAPE: %w", err))
	}
	if cfg.Repair, err = recovery.ParseRepairStrategy(os.Getenv("SONGSCENE_REPAIR")); err != nil {
		errs = append(errs, fmt.Errorf("SONGSCENE_REPAIR: %w", err))
	}
	if cfg.Cache, err = parseCacheKind(os.Getenv("SONGSCENE_CACHE"), cfg.DatabaseURL); err != nil {
		errs = append(errs, err)
	}
	if cfg.CacheTTL, err = durationEnv("SONGSCENE_CACHE_TTL", DefaultCacheTTL); err != nil {
		errs = append(errs, err)
	}
	if cfg.LogFormat, err = logging.ParseFormat(os.Getenv("SONGSCENE_LOG_FORMAT")); err != nil {
		errs = append(errs, fmt.Errorf("SONGSCENE_LOG_FORMAT: %w", err))
	}

	if len(errs) > 0 {
		return cfg, fmt.Errorf("config: %w", errors.Join(errs...))
	}
	return cfg, nil
}

// Configured reports whether the upstream API key and base URL are set.
func (c Config) Configured() bool {
	return c.APIKey != "" && c.BaseURL != ""
}

func parseProvider(v string) (Provider, error) {
	switch p := Provider(strings.ToLower(strings.TrimSpace(v))); p {
	case "":
		return ProviderOpenAI, nil
	case ProviderOpenAI, ProviderGemini:
		return p, nil
	default:
		return ProviderOpenAI, fmt.Errorf("SONGSCENE_PROVIDER: unknown provider %q", v)
	}
}

// parseCacheKind defaults to postgres when a database is configured.
func parseCacheKind(v, databaseURL string) (CacheKind, error) {
	switch kind := CacheKind(strings.ToLower(strings.TrimSpace(v))); kind {
	case "":
		if databaseURL != "" {
			return CachePostgres, nil
		}
		return CacheNone, nil
	case CacheNone, CacheMemory:
		return kind, nil
	case CachePostgres:
		if databaseURL == "" {
			return CacheNone, errors.New("SONGSCENE_CACHE: postgres requires DATABASE_URL")
		}
		return kind, nil
	default:
		return CacheNone, fmt.Errorf("SONGSCENE_CACHE: unknown cache %q", v)
	}
}

func envOr(key, fallback string) string {
	if v := strings.TrimSpace(os.Getenv(key)); v != "" {
		return v
	}
	return fallback
}

func durationEnv(key string, fallback time.Duration) (time.Duration, error) {
	v := strings.TrimSpace(os.Getenv(key))
	if v == "" {
		return fallback, nil
	}
	d, err := time.ParseDuration(v)
	if err != nil {
		return fallback, fmt.Errorf("%s: %w", key, err)
	}
	if d < 0 {
		return fallback, fmt.Errorf("%s: negative duration %s", key, v)
	}
	return d, nil
}

func intEnv(key string, fallback int) (int, error) {
	v := strings.TrimSpace(os.Getenv(key))
	if v == "" {
		return fallback, nil
	}
	n, err := strconv.Atoi(v)
	if err != nil {
		return fallback, fmt.Errorf("%s: %w", key, err)
	}
	if n < 0 {
		return fallback, fmt.Errorf("%s: negative value %d", key, n)
	}
	return n, nil
}
