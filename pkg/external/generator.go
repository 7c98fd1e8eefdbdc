package external

import (
	"context"
	"fmt"
	"time"

	"github.com/sirupsen/logrus"

	"github.com/Git-of-Ritesh/NextGen-Medicine-Recommendation/internal/domain"
)

// NewGenerator builds the generation client selected by config.Provider
func NewGenerator(ctx context.Context, config domain.GenerationConfig, logger *logrus.Logger) (domain.Generator, error) {
	switch config.Provider {
	case domain.ProviderGemini:
		return NewGeminiGenerator(ctx, config, logger)
	case domain.ProviderOpenAI:
		return NewOpenAIGenerator(config, logger), nil
	default:
		return nil, fmt.Errorf("unsupported generation provider: %q", config.Provider)
	}
}

// withTimeout bounds ctx by d when d is positive
func withTimeout(ctx context.Context, d time.Duration) (context.Context, context.CancelFunc) {
	if d <= 0 {
		return context.WithCancel(ctx)
	}
	return context.WithTimeout(ctx, d)
}

// sendChunk delivers c unless ctx is done first
func sendChunk(ctx context.Context, ch chan<- domain.Chunk, c domain.Chunk) bool {
	select {
	case ch <- c:
		return true
	case <-ctx.Done():
		return false
	}
}

func generationError(service string, err error) error {
	return domain.NewUpstreamError(domain.ErrUpstreamGeneration, service, 0, err)
}
