// Package config loads the guide's settings from the environment.
package config

import (
	"fmt"
	"strings"
	"time"

	"github.com/caarlos0/env/v11"
)

// Model providers.
const (
	ProviderAnthropic = "anthropic"
	ProviderOpenAI    = "openai"
	ProviderGemini    = "gemini"
	ProviderOllama    = "ollama"
)

// Memory backends.
const (
	MemoryInProcess = "memory"
	MemorySQLite    = "sqlite"
)

// Config is the full runtime configuration.
type Config struct {
	Provider        string `env:"GUIDE_MODEL_PROVIDER" envDefault:"anthropic"`
	Model           string `env:"GUIDE_MODEL"`
	AnthropicAPIKey string `env:"ANTHROPIC_API_KEY"`
	OpenAIAPIKey    string `env:"OPENAI_API_KEY"`
	OpenAIBaseURL   string `env:"OPENAI_BASE_URL"`
	GeminiAPIKey    string `env:"GEMINI_API_KEY"`
	OllamaHost      string `env:"OLLAMA_HOST"`

	SupervisorTemperature float64 `env:"GUIDE_SUPERVISOR_TEMPERATURE" envDefault:"0.3"`
	SupervisorTopP        float64 `env:"GUIDE_SUPERVISOR_TOP_P" envDefault:"0.8"`
	HandlerTemperature    float64 `env:"GUIDE_HANDLER_TEMPERATURE" envDefault:"0.3"`
	HandlerTopP           float64 `env:"GUIDE_HANDLER_TOP_P" envDefault:"0.3"`
	MaxIterations         int     `env:"GUIDE_MAX_ITERATIONS" envDefault:"8"`

	KnowledgeFile       string  `env:"GUIDE_KNOWLEDGE_FILE"`
	KnowledgeBase       string  `env:"GUIDE_KNOWLEDGE_BASE" envDefault:"reinvent"`
	KnowledgeMinScore   float64 `env:"GUIDE_KNOWLEDGE_MIN_SCORE" envDefault:"0.2"`
	KnowledgeMaxResults int     `env:"GUIDE_KNOWLEDGE_MAX_RESULTS" envDefault:"5"`

	DefaultCity    string        `env:"GUIDE_DEFAULT_CITY" envDefault:"Las Vegas"`
	Timezone       string        `env:"GUIDE_FORECAST_TIMEZONE" envDefault:"America/Los_Angeles"`
	GeocodeTimeout time.Duration `env:"GUIDE_GEOCODE_TIMEOUT" envDefault:"10s"`
	VenueTimeout   time.Duration `env:"GUIDE_VENUE_TIMEOUT" envDefault:"30s"`
	Locale         string        `env:"GUIDE_LOCALE" envDefault:"zh"`

	Addr string `env:"GUIDE_ADDR" envDefault:":8081"`

	MemoryBackend string `env:"GUIDE_MEMORY_BACKEND" envDefault:"memory"`
	SQLitePath    string `env:"GUIDE_SQLITE_PATH" envDefault:"guide.db"`
	DigestCap     int    `env:"GUIDE_DIGEST_CAP" envDefault:"4000"`

	LogLevel  string `env:"GUIDE_LOG_LEVEL" envDefault:"info"`
	LogFormat string `env:"GUIDE_LOG_FORMAT" envDefault:"json"`

	OTLPEndpoint string `env:"OTEL_EXPORTER_OTLP_ENDPOINT"`
	ServiceName  string `env:"OTEL_SERVICE_NAME" envDefault:"attendeeguide"`
}

// Load parses the environment and validates the result.
func Load() (Config, error) {
	var cfg Config
	if err := env.Parse(&cfg); err != nil {
		return Config{}, fmt.Errorf("parse env: %w", err)
	}
	if err := cfg.Validate(); err != nil {
		return Config{}, err
	}
	return cfg, nil
}

// Validate checks enumerations and ranges.
func (c Config) Validate() error {
	switch strings.ToLower(c.Provider) {
	case ProviderAnthropic, ProviderOpenAI, ProviderGemini, ProviderOllama:
	default:
		return fmt.Errorf("unknown model provider %q", c.Provider)
	}
	switch c.MemoryBackend {
	case MemoryInProcess:
	case MemorySQLite:
		if strings.TrimSpace(c.SQLitePath) == "" {
			return fmt.Errorf("GUIDE_SQLITE_PATH is required for the sqlite memory backend")
		}
	default:
		return fmt.Errorf("unknown memory backend %q", c.MemoryBackend)
	}
	for name, v := range map[string]float64{
		"supervisor temperature": c.SupervisorTemperature,
		"supervisor top_p":       c.SupervisorTopP,
		"handler temperature":    c.HandlerTemperature,
		"handler top_p":          c.HandlerTopP,
	} {
		if v < 0 || v > 1 {
			return fmt.Errorf("%s must be within [0,1], got %v", name, v)
		}
	}
	if c.KnowledgeMaxResults <= 0 {
		return fmt.Errorf("knowledge max results must be positive")
	}
	if c.DigestCap < 0 {
		return fmt.Errorf("digest cap must not be negative")
	}
	return nil
}
