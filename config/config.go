package config

import (
	"bufio"
	"fmt"
	"os"
	"strconv"
	"strings"
	"time"

	"github.com/rs/zerolog/log"
	"github.com/spf13/cast"
	"github.com/spf13/viper"
)

// Config holds the application configuration
type Config struct {
	Server      ServerConfig      `mapstructure:"server"`
	Store       StoreConfig       `mapstructure:"store"`
	Catalog     CatalogConfig     `mapstructure:"catalog"`
	Translation TranslationConfig `mapstructure:"translation"`
	Assistant   AssistantConfig   `mapstructure:"assistant"`
	RateLimit   RateLimitConfig   `mapstructure:"rate_limit"`
	Logging     LoggingConfig     `mapstructure:"logging"`
}

// ServerConfig holds HTTP server configuration
type ServerConfig struct {
	Port         int           `mapstructure:"port"`
	Host         string        `mapstructure:"host"`
	ReadTimeout  time.Duration `mapstructure:"read_timeout"`
	WriteTimeout time.Duration `mapstructure:"write_timeout"`
}

// StoreConfig holds key-value store configuration.
// Type is "local" (one file per key under base_path) or "postgres".
type StoreConfig struct {
	Type     string `mapstructure:"type"`
	BasePath string `mapstructure:"base_path"`
	URL      string `mapstructure:"url"`
}

// CatalogConfig holds product catalog configuration
type CatalogConfig struct {
	BaseURL        string        `mapstructure:"base_url"`
	RequestTimeout time.Duration `mapstructure:"request_timeout"`
	CacheTTL       time.Duration `mapstructure:"cache_ttl"`
	// Discounts maps product ID -> discount percent. When empty the
	// built-in demo table is used. Decoded by hand in Load: YAML map
	// keys arrive as strings and mapstructure will not convert them
	// to int keys.
	Discounts map[int]int `mapstructure:"-"`
}

// TranslationConfig holds translation service configuration
type TranslationConfig struct {
	BaseURL        string        `mapstructure:"base_url"`
	RequestTimeout time.Duration `mapstructure:"request_timeout"`
	CallDelay      time.Duration `mapstructure:"call_delay"`
	SourceLang     string        `mapstructure:"source_lang"`
	TargetLang     string        `mapstructure:"target_lang"`
}

// AssistantConfig holds generative-language API configuration
type AssistantConfig struct {
	APIKey         string        `mapstructure:"api_key"`
	Model          string        `mapstructure:"model"`
	RequestTimeout time.Duration `mapstructure:"request_timeout"`
	HistoryWindow  int           `mapstructure:"history_window"`
	CatalogExcerpt int           `mapstructure:"catalog_excerpt"`
}

// RateLimitConfig holds outbound HTTP rate limiting configuration
type RateLimitConfig struct {
	RequestsPerSecond int `mapstructure:"requests_per_second"`
	MaxRetries        int `mapstructure:"max_retries"`
	InitialBackoffMs  int `mapstructure:"initial_backoff_ms"`
	MaxBackoffMs      int `mapstructure:"max_backoff_ms"`
}

// LoggingConfig holds logging configuration
type LoggingConfig struct {
	Level   string `mapstructure:"level"`
	Format  string `mapstructure:"format"`
	NoColor bool   `mapstructure:"no_color"`
}

var globalConfig *Config

// Load loads the configuration from file, .env, and environment variables
func Load(configPath string) (*Config, error) {
	v := viper.New()

	// Set defaults
	setDefaults(v)

	// Read config file
	if configPath != "" {
		v.SetConfigFile(configPath)
	} else {
		v.SetConfigName("config")
		v.SetConfigType("yaml")
		v.AddConfigPath("./config")
		v.AddConfigPath(".")
	}

	// Load .env file
	if err := loadEnvFile(); err != nil {
		// .env is optional, log but don't fail
		log.Warn().Err(err).Msg("Warning: .env file not loaded")
	}

	// Enable environment variable override
	v.AutomaticEnv()
	v.SetEnvPrefix("FROSTMART")

	// Bind env keys for nested config
	bindEnvVars(v)

	// Read config file (optional)
	if err := v.ReadInConfig(); err != nil {
		if _, ok := err.(viper.ConfigFileNotFoundError); !ok {
			return nil, fmt.Errorf("error reading config file: %w", err)
		}
		// Config file not found, use defaults and env vars
	}

	var cfg Config
	if err := v.Unmarshal(&cfg); err != nil {
		return nil, fmt.Errorf("error unmarshaling config: %w", err)
	}

	discounts, err := parseDiscounts(v.GetStringMap("catalog.discounts"))
	if err != nil {
		return nil, fmt.Errorf("error parsing catalog discounts: %w", err)
	}
	cfg.Catalog.Discounts = discounts

	globalConfig = &cfg
	return &cfg, nil
}

// parseDiscounts converts the raw catalog.discounts map into typed
// product-ID keys.
func parseDiscounts(raw map[string]interface{}) (map[int]int, error) {
	if len(raw) == 0 {
		return nil, nil
	}
	discounts := make(map[int]int, len(raw))
	for key, value := range raw {
		id, err := strconv.Atoi(key)
		if err != nil {
			return nil, fmt.Errorf("discount key %q is not a product id", key)
		}
		pct, err := cast.ToIntE(value)
		if err != nil {
			return nil, fmt.Errorf("discount for product %d: %w", id, err)
		}
		discounts[id] = pct
	}
	return discounts, nil
}

// loadEnvFile loads .env file by parsing KEY=VALUE lines and setting them as environment variables
func loadEnvFile() error {
	envPaths := []string{
		".",
		"./config",
	}

	for _, path := range envPaths {
		envFile := fmt.Sprintf("%s/.env", path)
		if _, err := os.Stat(envFile); err == nil {
			if err := loadDotEnvFile(envFile); err == nil {
				return nil
			}
		}
	}
	return fmt.Errorf("no .env file found")
}

// loadDotEnvFile reads a .env file and sets environment variables
func loadDotEnvFile(filename string) error {
	file, err := os.Open(filename)
	if err != nil {
		return err
	}
	defer file.Close()

	scanner := bufio.NewScanner(file)
	for scanner.Scan() {
		line := strings.TrimSpace(scanner.Text())

		// Skip empty lines and comments
		if line == "" || strings.HasPrefix(line, "#") {
			continue
		}

		// Parse KEY=VALUE
		parts := strings.SplitN(line, "=", 2)
		if len(parts) == 2 {
			key := strings.TrimSpace(parts[0])
			value := strings.TrimSpace(parts[1])
			value = strings.Trim(value, "\"'")
			os.Setenv(key, value)
		}
	}
	return scanner.Err()
}

// bindEnvVars binds environment variables to config keys
func bindEnvVars(v *viper.Viper) {
	// Server
	v.BindEnv("server.port", "PORT")
	v.BindEnv("server.host", "HOST")

	// Store
	v.BindEnv("store.type", "STORE_TYPE")
	v.BindEnv("store.base_path", "STORE_PATH")
	v.BindEnv("store.url", "DATABASE_URL")

	// Assistant
	v.BindEnv("assistant.api_key", "GEMINI_API_KEY")
	v.BindEnv("assistant.model", "GEMINI_MODEL")

	// Logging
	v.BindEnv("logging.level", "LOG_LEVEL")
}

// setDefaults sets default configuration values
func setDefaults(v *viper.Viper) {
	// Server defaults
	v.SetDefault("server.port", 3000)
	v.SetDefault("server.host", "0.0.0.0")
	v.SetDefault("server.read_timeout", 30*time.Second)
	v.SetDefault("server.write_timeout", 30*time.Second)

	// Store defaults
	v.SetDefault("store.type", "local")
	v.SetDefault("store.base_path", "./data/store")

	// Catalog defaults
	v.SetDefault("catalog.base_url", "https://fakestoreapi.com")
	v.SetDefault("catalog.request_timeout", 10*time.Second)
	v.SetDefault("catalog.cache_ttl", 30*time.Minute)

	// Translation defaults
	v.SetDefault("translation.base_url", "https://api.mymemory.translated.net")
	v.SetDefault("translation.request_timeout", 8*time.Second)
	v.SetDefault("translation.call_delay", 300*time.Millisecond)
	v.SetDefault("translation.source_lang", "en")
	v.SetDefault("translation.target_lang", "es")

	// Assistant defaults
	v.SetDefault("assistant.model", "gemini-2.0-flash")
	v.SetDefault("assistant.request_timeout", 15*time.Second)
	v.SetDefault("assistant.history_window", 10)
	v.SetDefault("assistant.catalog_excerpt", 20)

	// Rate limit defaults
	v.SetDefault("rate_limit.requests_per_second", 2)
	v.SetDefault("rate_limit.max_retries", 3)
	v.SetDefault("rate_limit.initial_backoff_ms", 100)
	v.SetDefault("rate_limit.max_backoff_ms", 30000)

	// Logging defaults
	v.SetDefault("logging.level", "info")
	v.SetDefault("logging.format", "json")
	v.SetDefault("logging.no_color", false)
}

// Get returns the global configuration
func Get() *Config {
	return globalConfig
}

// GetStoreURL returns the Postgres store URL from config or environment
func GetStoreURL() string {
	if cfg := Get(); cfg != nil && cfg.Store.URL != "" {
		return cfg.Store.URL
	}
	return os.Getenv("DATABASE_URL")
}
