package external

import (
	"context"
	"errors"
	"io"
	"strings"
	"time"

	openai "github.com/sashabaranov/go-openai"
	"github.com/sirupsen/logrus"

	"github.com/Git-of-Ritesh/NextGen-Medicine-Recommendation/internal/domain"
	"github.com/Git-of-Ritesh/NextGen-Medicine-Recommendation/internal/metrics"
)

const openAIService = "openai"

// OpenAIGenerator calls an OpenAI compatible chat completion API
type OpenAIGenerator struct {
	client  *openai.Client
	model   string
	timeout time.Duration
	logger  *logrus.Logger
}

// NewOpenAIGenerator constructs an OpenAI backed generator. BaseURL overrides
// the API endpoint for compatible gateways.
func NewOpenAIGenerator(config domain.GenerationConfig, logger *logrus.Logger) *OpenAIGenerator {
	oc := openai.DefaultConfig(config.APIKey)
	if config.BaseURL != "" {
		oc.BaseURL = strings.TrimRight(config.BaseURL, "/")
	}
	return &OpenAIGenerator{
		client:  openai.NewClientWithConfig(oc),
		model:   config.Model,
		timeout: config.Timeout,
		logger:  logger,
	}
}

func (o *OpenAIGenerator) request(prompt string, stream bool) openai.ChatCompletionRequest {
	return openai.ChatCompletionRequest{
		Model: o.model,
		Messages: []openai.ChatCompletionMessage{
			{Role: openai.ChatMessageRoleUser, Content: prompt},
		},
		Temperature: 0.2,
		Stream:      stream,
	}
}

// Generate returns the full completion text
func (o *OpenAIGenerator) Generate(ctx context.Context, prompt string) (text string, err error) {
	start := time.Now()
	defer func() { metrics.ObserveUpstream(openAIService, start, err) }()

	ctx, cancel := withTimeout(ctx, o.timeout)
	defer cancel()

	resp, err := o.client.CreateChatCompletion(ctx, o.request(prompt, false))
	if err != nil {
		return "", generationError(openAIService, err)
	}
	if len(resp.Choices) == 0 || strings.TrimSpace(resp.Choices[0].Message.Content) == "" {
		return "", generationError(openAIService, errors.New("empty response"))
	}
	return resp.Choices[0].Message.Content, nil
}

// GenerateStream streams completion deltas
func (o *OpenAIGenerator) GenerateStream(ctx context.Context, prompt string) (<-chan domain.Chunk, error) {
	callCtx, cancel := withTimeout(ctx, o.timeout)

	stream, err := o.client.CreateChatCompletionStream(callCtx, o.request(prompt, true))
	if err != nil {
		cancel()
		metrics.ObserveUpstream(openAIService, time.Now(), err)
		return nil, generationError(openAIService, err)
	}

	ch := make(chan domain.Chunk)
	go func() {
		defer close(ch)
		defer cancel()
		defer stream.Close()
		start := time.Now()
		var streamErr error
		defer func() { metrics.ObserveUpstream(openAIService, start, streamErr) }()

		for {
			resp, err := stream.Recv()
			if errors.Is(err, io.EOF) {
				return
			}
			if err != nil {
				streamErr = generationError(openAIService, err)
				sendChunk(ctx, ch, domain.Chunk{Err: streamErr})
				return
			}
			if len(resp.Choices) == 0 || resp.Choices[0].Delta.Content == "" {
				continue
			}
			if !sendChunk(ctx, ch, domain.Chunk{Text: resp.Choices[0].Delta.Content}) {
				streamErr = ctx.Err()
				o.logger.WithField("service", openAIService).Debug("Generation stream abandoned by consumer")
				return
			}
		}
	}()

	return ch, nil
}
