package external

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/sirupsen/logrus"
	genai "google.golang.org/genai"

	"github.com/Git-of-Ritesh/NextGen-Medicine-Recommendation/internal/domain"
	"github.com/Git-of-Ritesh/NextGen-Medicine-Recommendation/internal/metrics"
)

const geminiService = "gemini"

// GeminiGenerator is a thin wrapper around the official genai client
type GeminiGenerator struct {
	cli     *genai.Client
	model   string
	timeout time.Duration
	logger  *logrus.Logger
}

// NewGeminiGenerator creates a Gemini API backed generator
func NewGeminiGenerator(ctx context.Context, config domain.GenerationConfig, logger *logrus.Logger) (*GeminiGenerator, error) {
	cc := &genai.ClientConfig{
		APIKey:  config.APIKey,
		Backend: genai.BackendGeminiAPI,
	}
	if config.BaseURL != "" {
		cc.HTTPOptions = genai.HTTPOptions{BaseURL: config.BaseURL}
	}

	cli, err := genai.NewClient(ctx, cc)
	if err != nil {
		return nil, fmt.Errorf("failed to create gemini client: %w", err)
	}
	return &GeminiGenerator{cli: cli, model: config.Model, timeout: config.Timeout, logger: logger}, nil
}

func (g *GeminiGenerator) contents(prompt string) []*genai.Content {
	return []*genai.Content{{Parts: []*genai.Part{{Text: prompt}}}}
}

// Generate returns the full generated text
func (g *GeminiGenerator) Generate(ctx context.Context, prompt string) (text string, err error) {
	start := time.Now()
	defer func() { metrics.ObserveUpstream(geminiService, start, err) }()

	ctx, cancel := withTimeout(ctx, g.timeout)
	defer cancel()

	resp, err := g.cli.Models.GenerateContent(ctx, g.model, g.contents(prompt), nil)
	if err != nil {
		return "", generationError(geminiService, err)
	}

	text = responseText(resp)
	if strings.TrimSpace(text) == "" {
		return "", generationError(geminiService, errors.New("empty response"))
	}
	return text, nil
}

// GenerateStream streams generated text fragments
func (g *GeminiGenerator) GenerateStream(ctx context.Context, prompt string) (<-chan domain.Chunk, error) {
	ch := make(chan domain.Chunk)

	go func() {
		defer close(ch)
		start := time.Now()
		var streamErr error
		defer func() { metrics.ObserveUpstream(geminiService, start, streamErr) }()

		callCtx, cancel := withTimeout(ctx, g.timeout)
		defer cancel()

		for resp, err := range g.cli.Models.GenerateContentStream(callCtx, g.model, g.contents(prompt), nil) {
			if err != nil {
				streamErr = generationError(geminiService, err)
				sendChunk(ctx, ch, domain.Chunk{Err: streamErr})
				return
			}
			text := responseText(resp)
			if text == "" {
				continue
			}
			if !sendChunk(ctx, ch, domain.Chunk{Text: text}) {
				streamErr = ctx.Err()
				g.logger.WithField("service", geminiService).Debug("Generation stream abandoned by consumer")
				return
			}
		}
	}()

	return ch, nil
}

// responseText joins the text parts of the first candidate
func responseText(resp *genai.GenerateContentResponse) string {
	if resp == nil || len(resp.Candidates) == 0 {
		return ""
	}
	cand := resp.Candidates[0]
	if cand == nil || cand.Content == nil {
		return ""
	}
	var sb strings.Builder
	for _, part := range cand.Content.Parts {
		if part != nil {
			sb.WriteString(part.Text)
		}
	}
	return sb.String()
}
