package domain

import (
	"context"
	"time"
)

// Predictor maps a validated symptom profile to a disease label
type Predictor interface {
	Predict(ctx context.Context, req RecommendationRequest) (string, error)
}

// Chunk is one fragment of a generation stream. A chunk with Err set is the
// last value delivered before the channel closes.
type Chunk struct {
	Text string
	Err  error
}

// Generator produces treatment text from a prompt
type Generator interface {
	// Generate blocks until the full text is available
	Generate(ctx context.Context, prompt string) (string, error)
	// GenerateStream delivers fragments in arrival order and closes the channel at end of stream
	GenerateStream(ctx context.Context, prompt string) (<-chan Chunk, error)
}

// DrugLookup finds brand names of drug labels matching a brand name query
type DrugLookup interface {
	LookupBrand(ctx context.Context, name string) ([]string, error)
}

// LookupCache stores drug lookup results keyed by normalized medicine name
type LookupCache interface {
	Get(ctx context.Context, key string) ([]string, bool, error)
	Set(ctx context.Context, key string, names []string, ttl time.Duration) error
}

// ConfigManager defines the interface for configuration management
type ConfigManager interface {
	GetConfig() *Config
	GetServerConfig() *ServerConfig
	Validate() error
}
