package config

import (
	"errors"
	"fmt"
	"io/fs"
	"strings"

	"github.com/joho/godotenv"
	"github.com/spf13/viper"

	"github.com/Git-of-Ritesh/NextGen-Medicine-Recommendation/internal/domain"
)

// Options controls where configuration is read from
type Options struct {
	ConfigPaths []string
	EnvFile     string
}

// DefaultOptions reads config.yaml from the usual locations and .env from the
// working directory
func DefaultOptions() Options {
	return Options{
		ConfigPaths: []string{".", "./config", "/etc/medrec/"},
		EnvFile:     ".env",
	}
}

// Manager implements the ConfigManager interface using Viper
type Manager struct {
	v      *viper.Viper
	config *domain.Config
}

// NewManager creates a new configuration manager with default options
func NewManager() (*Manager, error) {
	return NewManagerWithOptions(DefaultOptions())
}

// NewManagerWithOptions creates a configuration manager reading from opts
func NewManagerWithOptions(opts Options) (*Manager, error) {
	m := &Manager{v: viper.New()}
	if err := m.loadConfig(opts); err != nil {
		return nil, fmt.Errorf("failed to load configuration: %w", err)
	}
	return m, nil
}

// loadConfig loads configuration from defaults, config file, .env and environment
func (m *Manager) loadConfig(opts Options) error {
	// .env never overrides variables already set in the process environment
	if opts.EnvFile != "" {
		if err := godotenv.Load(opts.EnvFile); err != nil && !errors.Is(err, fs.ErrNotExist) {
			return fmt.Errorf("error reading env file: %w", err)
		}
	}

	v := m.v
	v.SetConfigName("config")
	v.SetConfigType("yaml")
	for _, p := range opts.ConfigPaths {
		v.AddConfigPath(p)
	}

	v.SetEnvPrefix("MEDREC")
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	v.AutomaticEnv()

	m.setDefaults()
	if err := m.bindCompatEnv(); err != nil {
		return err
	}

	// Read configuration file (optional - will use defaults and env vars if not found)
	if len(opts.ConfigPaths) > 0 {
		if err := v.ReadInConfig(); err != nil {
			var notFound viper.ConfigFileNotFoundError
			if !errors.As(err, &notFound) {
				return fmt.Errorf("error reading config file: %w", err)
			}
		}
	}

	config := &domain.Config{}
	if err := v.Unmarshal(config); err != nil {
		return fmt.Errorf("error unmarshaling config: %w", err)
	}

	config.Generation.Provider = strings.ToLower(config.Generation.Provider)
	config.Generation.StreamMode = strings.ToLower(config.Generation.StreamMode)
	config.Cache.Backend = strings.ToLower(config.Cache.Backend)

	if config.Generation.APIKey == "" {
		switch config.Generation.Provider {
		case domain.ProviderGemini:
			config.Generation.APIKey = v.GetString("compat.gemini_api_key")
		case domain.ProviderOpenAI:
			config.Generation.APIKey = v.GetString("compat.openai_api_key")
		}
	}

	m.config = config
	return nil
}

// bindCompatEnv binds the unprefixed variable names used by existing deployments
func (m *Manager) bindCompatEnv() error {
	bindings := map[string][]string{
		"server.port":           {"MEDREC_SERVER_PORT", "PORT"},
		"prediction.base_url":   {"MEDREC_PREDICTION_BASE_URL", "PREDICTION_URL"},
		"lookup.api_key":        {"MEDREC_LOOKUP_API_KEY", "OPENFDA_API_KEY"},
		"cache.redis_url":       {"MEDREC_CACHE_REDIS_URL", "REDIS_URL"},
		"compat.gemini_api_key": {"GEMINI_API_KEY"},
		"compat.openai_api_key": {"OPENAI_API_KEY"},
	}
	for key, envs := range bindings {
		args := append([]string{key}, envs...)
		if err := m.v.BindEnv(args...); err != nil {
			return fmt.Errorf("failed to bind %s: %w", key, err)
		}
	}
	return nil
}

// setDefaults sets default configuration values
func (m *Manager) setDefaults() {
	v := m.v

	// Server defaults
	v.SetDefault("server.host", "0.0.0.0")
	v.SetDefault("server.port", 5001)
	v.SetDefault("server.read_timeout", "30s")
	v.SetDefault("server.write_timeout", "0s") // streaming responses outlive any fixed write deadline
	v.SetDefault("server.idle_timeout", "120s")
	v.SetDefault("server.shutdown_timeout", "15s")
	v.SetDefault("server.max_body_bytes", 1<<20)
	v.SetDefault("server.cors_origins", []string{"http://localhost:5173", "http://localhost:3000"})

	// Logging defaults
	v.SetDefault("logging.level", "info")
	v.SetDefault("logging.format", "json")

	// Prediction service defaults
	v.SetDefault("prediction.base_url", "http://localhost:8000")
	v.SetDefault("prediction.timeout", "30s")

	// Generation defaults
	v.SetDefault("generation.provider", domain.ProviderGemini)
	v.SetDefault("generation.model", "gemini-1.5-flash")
	v.SetDefault("generation.api_key", "")
	v.SetDefault("generation.base_url", "")
	v.SetDefault("generation.timeout", "120s")
	v.SetDefault("generation.stream_mode", string(domain.StreamWhole))

	// OpenFDA defaults
	v.SetDefault("lookup.base_url", "https://api.fda.gov")
	v.SetDefault("lookup.api_key", "")
	v.SetDefault("lookup.limit", 3)
	v.SetDefault("lookup.rate_limit", 4)
	v.SetDefault("lookup.timeout", "15s")
	v.SetDefault("lookup.circuit_breaker.max_requests", 5)
	v.SetDefault("lookup.circuit_breaker.interval", "30s")
	v.SetDefault("lookup.circuit_breaker.timeout", "60s")
	v.SetDefault("lookup.circuit_breaker.failure_threshold", 3)

	// Cache defaults
	v.SetDefault("cache.backend", domain.CacheMemory)
	v.SetDefault("cache.ttl", "6h")
	v.SetDefault("cache.memory_size", 1000)
	v.SetDefault("cache.redis_url", "")
	v.SetDefault("cache.key_prefix", "medrec:lookup:")
}

// GetConfig returns the complete configuration
func (m *Manager) GetConfig() *domain.Config {
	return m.config
}

// GetServerConfig returns server configuration
func (m *Manager) GetServerConfig() *domain.ServerConfig {
	return &m.config.Server
}

// Validate validates the configuration
func (m *Manager) Validate() error {
	config := m.config

	if config.Server.Port <= 0 || config.Server.Port > 65535 {
		return fmt.Errorf("invalid server port: %d", config.Server.Port)
	}

	if config.Prediction.BaseURL == "" {
		return fmt.Errorf("prediction service base URL is required")
	}

	switch config.Generation.Provider {
	case domain.ProviderGemini, domain.ProviderOpenAI:
	default:
		return fmt.Errorf("unsupported generation provider: %s", config.Generation.Provider)
	}
	if config.Generation.APIKey == "" {
		return fmt.Errorf("generation API key is required (set GEMINI_API_KEY, OPENAI_API_KEY or MEDREC_GENERATION_API_KEY)")
	}
	if config.Generation.Model == "" {
		return fmt.Errorf("generation model is required")
	}
	if _, ok := domain.ParseStreamMode(config.Generation.StreamMode); !ok {
		return fmt.Errorf("invalid stream mode: %s", config.Generation.StreamMode)
	}

	if config.Lookup.BaseURL == "" {
		return fmt.Errorf("OpenFDA base URL is required")
	}
	if config.Lookup.Limit <= 0 {
		return fmt.Errorf("invalid lookup limit: %d", config.Lookup.Limit)
	}

	switch config.Cache.Backend {
	case domain.CacheNone, domain.CacheMemory:
	case domain.CacheRedis:
		if config.Cache.RedisURL == "" {
			return fmt.Errorf("Redis URL is required for the redis cache backend")
		}
	default:
		return fmt.Errorf("unsupported cache backend: %s", config.Cache.Backend)
	}

	validLogLevels := map[string]bool{
		"trace": true, "debug": true, "info": true, "warn": true, "error": true, "fatal": true, "panic": true,
	}
	if !validLogLevels[strings.ToLower(config.Logging.Level)] {
		return fmt.Errorf("invalid log level: %s", config.Logging.Level)
	}

	return nil
}
