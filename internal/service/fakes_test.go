package service

import (
	"context"
	"io"
	"sync"
	"time"

	"github.com/sirupsen/logrus"

	"github.com/Git-of-Ritesh/NextGen-Medicine-Recommendation/internal/domain"
)

func quietLogger() *logrus.Logger {
	logger := logrus.New()
	logger.SetOutput(io.Discard)
	return logger
}

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
	mu          sync.Mutex
	calls       int
	streamCalls int
	prompts     []string
	text        string
	err         error
	fragments   []string
	streamErr   error
}

func (f *fakeGenerator) Generate(_ context.Context, prompt string) (string, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.calls++
	f.prompts = append(f.prompts, prompt)
	return f.text, f.err
}

// GenerateStream sends fragments then streamErr, if set
func (f *fakeGenerator) GenerateStream(ctx context.Context, prompt string) (<-chan domain.Chunk, error) {
	f.mu.Lock()
	f.streamCalls++
	f.prompts = append(f.prompts, prompt)
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

func (f *fakeGenerator) TotalCalls() int {
	f.mu.Lock()
	defer f.mu.Unlock()
	return f.calls + f.streamCalls
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

type mapCache struct {
	mu      sync.Mutex
	entries map[string][]string
	err     error
}

func newMapCache() *mapCache {
	return &mapCache{entries: map[string][]string{}}
}

func (m *mapCache) Get(_ context.Context, key string) ([]string, bool, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	if m.err != nil {
		return nil, false, m.err
	}
	names, ok := m.entries[key]
	return names, ok, nil
}

func (m *mapCache) Set(_ context.Context, key string, names []string, _ time.Duration) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	if m.err != nil {
		return m.err
	}
	m.entries[key] = names
	return nil
}
