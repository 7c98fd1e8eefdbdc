package external

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"strings"
	"time"

	"github.com/Git-of-Ritesh/NextGen-Medicine-Recommendation/internal/domain"
	"github.com/Git-of-Ritesh/NextGen-Medicine-Recommendation/internal/metrics"
)

const predictionService = "prediction"

// PredictionClient calls the disease prediction microservice
type PredictionClient struct {
	baseURL    string
	httpClient *http.Client
}

// NewPredictionClient creates a new prediction service client
func NewPredictionClient(config domain.PredictionConfig) *PredictionClient {
	return &PredictionClient{
		baseURL: strings.TrimRight(config.BaseURL, "/"),
		httpClient: &http.Client{
			Timeout: config.Timeout,
		},
	}
}

// Predict posts the symptom profile to /predict and returns the predicted disease
func (c *PredictionClient) Predict(ctx context.Context, req domain.RecommendationRequest) (disease string, err error) {
	start := time.Now()
	defer func() { metrics.ObserveUpstream(predictionService, start, err) }()

	body, err := json.Marshal(domain.PredictionRequest{
		Symptom:        req.Symptom,
		HealthFactor:   req.HealthFactor,
		AgeGroup:       req.AgeGroup,
		Severity:       req.Severity,
		UserPreference: req.UserPreference,
	})
	if err != nil {
		return "", c.fail(0, fmt.Errorf("failed to encode request: %w", err))
	}

	httpReq, err := http.NewRequestWithContext(ctx, http.MethodPost, c.baseURL+"/predict", bytes.NewReader(body))
	if err != nil {
		return "", c.fail(0, fmt.Errorf("failed to create request: %w", err))
	}
	httpReq.Header.Set("Content-Type", "application/json")
	httpReq.Header.Set("Accept", "application/json")

	resp, err := c.httpClient.Do(httpReq)
	if err != nil {
		return "", c.fail(0, fmt.Errorf("request failed: %w", err))
	}
	defer resp.Body.Close()

	if resp.StatusCode < 200 || resp.StatusCode >= 300 {
		msg, _ := io.ReadAll(io.LimitReader(resp.Body, 512))
		return "", c.fail(resp.StatusCode, fmt.Errorf("unexpected response: %s", strings.TrimSpace(string(msg))))
	}

	var prediction domain.PredictionResponse
	if err := json.NewDecoder(resp.Body).Decode(&prediction); err != nil {
		return "", c.fail(0, fmt.Errorf("failed to decode response: %w", err))
	}

	disease = strings.TrimSpace(prediction.PredictedDisease)
	if disease == "" {
		return "", c.fail(0, errors.New("response has no predicted_disease"))
	}
	return disease, nil
}

func (c *PredictionClient) fail(status int, err error) error {
	return domain.NewUpstreamError(domain.ErrUpstreamPrediction, predictionService, status, err)
}
