package service

import (
	"context"
	"errors"
	"fmt"
	"io"
	"strings"

	"github.com/sirupsen/logrus"

	"github.com/Git-of-Ritesh/NextGen-Medicine-Recommendation/internal/domain"
	"github.com/Git-of-Ritesh/NextGen-Medicine-Recommendation/internal/logging"
	"github.com/Git-of-Ritesh/NextGen-Medicine-Recommendation/internal/metrics"
)

// Recommender runs the validate, predict, prompt, generate and classify pipeline.
// It holds no per-request state and is safe for concurrent use.
type Recommender struct {
	validator *Validator
	predictor domain.Predictor
	generator domain.Generator
	logger    *logrus.Logger
}

// NewRecommender wires the pipeline collaborators
func NewRecommender(validator *Validator, predictor domain.Predictor, generator domain.Generator, logger *logrus.Logger) *Recommender {
	return &Recommender{
		validator: validator,
		predictor: predictor,
		generator: generator,
		logger:    logger,
	}
}

// Prediction is a validated request with its predicted disease
type Prediction struct {
	Request domain.RecommendationRequest
	Disease string
}

// Predict validates req and calls the prediction service. No upstream call is
// made when validation fails.
func (r *Recommender) Predict(ctx context.Context, req domain.RecommendationRequest) (*Prediction, error) {
	valid, err := r.validator.Validate(req)
	if err != nil {
		return nil, err
	}

	disease, err := r.predictor.Predict(ctx, valid)
	if err != nil {
		logging.FromContext(ctx, r.logger).WithFields(logrus.Fields{
			"service": "prediction",
			"symptom": valid.Symptom,
		}).WithError(err).Error("Disease prediction failed")
		return nil, err
	}

	logging.FromContext(ctx, r.logger).WithField("predicted_disease", disease).Info("Disease predicted")
	return &Prediction{Request: valid, Disease: disease}, nil
}

// Recommend runs the whole-text pipeline
func (r *Recommender) Recommend(ctx context.Context, req domain.RecommendationRequest) (*domain.RecommendationResult, error) {
	prediction, err := r.Predict(ctx, req)
	if err != nil {
		return nil, err
	}

	text, err := r.generator.Generate(ctx, BuildPrompt(prediction.Disease))
	if err != nil {
		r.logGenerationError(ctx, err)
		return nil, err
	}

	return &domain.RecommendationResult{
		PredictedDisease:    prediction.Disease,
		AlternativeMedicine: text,
		Sections:            ClassifyText(text),
	}, nil
}

// Stream generates text for a prediction and writes it to w in the given mode.
// Errors returned here happen after w may have received output.
func (r *Recommender) Stream(ctx context.Context, w Sink, prediction *Prediction, mode domain.StreamMode) error {
	prompt := BuildPrompt(prediction.Disease)

	switch mode {
	case domain.StreamWhole:
		text, err := r.generator.Generate(ctx, prompt)
		if err != nil {
			r.logGenerationError(ctx, err)
			return err
		}
		return RenderSections(w, prediction.Disease, ClassifyText(text), true)

	case domain.StreamChunked:
		reassembler := NewReassembler()
		if err := r.consume(ctx, prompt, mode, func(text string) error {
			reassembler.WriteString(text)
			return nil
		}); err != nil {
			return err
		}
		return RenderSections(w, prediction.Disease, reassembler.Close(), false)

	case domain.StreamPassthrough:
		return r.consume(ctx, prompt, mode, func(text string) error {
			if _, err := io.WriteString(w, text); err != nil {
				return err
			}
			w.Flush()
			return nil
		})

	default:
		return fmt.Errorf("unsupported stream mode: %q", mode)
	}
}

// errEmptyGeneration reports a stream that produced no text
var errEmptyGeneration = errors.New("empty response")

// consume drains a generation stream in arrival order. A stream that ends
// without any non-blank text is a generation failure.
func (r *Recommender) consume(ctx context.Context, prompt string, mode domain.StreamMode, fn func(string) error) error {
	chunks, err := r.generator.GenerateStream(ctx, prompt)
	if err != nil {
		r.logGenerationError(ctx, err)
		return err
	}

	received := false
	for {
		select {
		case <-ctx.Done():
			return ctx.Err()
		case chunk, ok := <-chunks:
			if !ok {
				// a producer stopped by cancellation also closes the channel
				if err := ctx.Err(); err != nil {
					return err
				}
				if !received {
					err := domain.NewUpstreamError(domain.ErrUpstreamGeneration, "generation", 0, errEmptyGeneration)
					r.logGenerationError(ctx, err)
					return err
				}
				return nil
			}
			if chunk.Err != nil {
				r.logGenerationError(ctx, chunk.Err)
				return chunk.Err
			}
			if strings.TrimSpace(chunk.Text) != "" {
				received = true
			}
			metrics.StreamChunks.WithLabelValues(string(mode)).Inc()
			if err := fn(chunk.Text); err != nil {
				return err
			}
		}
	}
}

func (r *Recommender) logGenerationError(ctx context.Context, err error) {
	entry := logging.FromContext(ctx, r.logger).WithField("service", "generation").WithError(err)
	if errors.Is(err, context.Canceled) {
		entry.Warn("Generation aborted by client")
		return
	}
	entry.Error("Text generation failed")
}
