package api

import (
	"context"
	"io"
	"sync"

	"github.com/sirupsen/logrus"

	"github.com/Git-of-Ritesh/NextGen-Medicine-Recommendation/internal/domain"
)

func quietLogger() *logrus.Logger {
	logger := logrus.New()
	logger.SetOutput(io.Discard)
	return logger
}

type staticConfig struct {
	config domain.Config
}

func (s *staticConfig) GetConfig() *domain.Config             { return &s.config }
func (s *staticConfig) GetServerConfig() *domain.ServerConfig { return &s.config.Server }
func (s *staticConfig) Validate() error                       { return nil }

type fakePredictor struct {
	mu      sync.Mutex
	calls   int
	disease string
	err     error
}

func (f *fakePredictor) Predict(_ context.Context, _ domain.RecommendationRequest) (string, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.calls++
	return f.disease, f.err
}

func (f *fakePredictor) Calls() int {
	f.mu.Lock()
	defer f.mu.Unlock()
	return f.calls
}

type fakeGenerator struct {
	mu        sync.Mutex
	calls     int
	text      string
	err       error
	fragments []string
	streamErr error
}

func (f *fakeGenerator) Generate(_ context.Context, _ string) (string, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.calls++
	return f.text, f.err
}

func (f *fakeGenerator) GenerateStream(ctx context.Context, _ string) (<-chan domain.Chunk, error) {
	f.mu.Lock()
	f.calls++
	fragments, streamErr := f.fragments, f.streamErr
	f.mu.Unlock()

	ch := make(chan domain.Chunk)
	go func() {
		defer close(ch)
		for _, frag := range fragments {
			select {
			case ch <- domain.Chunk{Text: frag}:
			case <-ctx.Done():
				return
			}
		}
		if streamErr != nil {
			select {
			case ch <- domain.Chunk{Err: streamErr}:
			case <-ctx.Done():
			}
		}
	}()
	return ch, nil
}

func (f *fakeGenerator) Calls() int {
	f.mu.Lock()
	defer f.mu.Unlock()
	return f.calls
}

type fakeLookup struct {
	mu    sync.Mutex
	calls int
	names []string
	err   error
}

func (f *fakeLookup) LookupBrand(_ context.Context, _ string) ([]string, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.calls++
	return f.names, f.err
}
