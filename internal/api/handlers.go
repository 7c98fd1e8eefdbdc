package api

import (
	"context"
	"errors"
	"fmt"
	"io"
	"net/http"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/sirupsen/logrus"

	"github.com/Git-of-Ritesh/NextGen-Medicine-Recommendation/internal/domain"
	"github.com/Git-of-Ritesh/NextGen-Medicine-Recommendation/internal/health"
	"github.com/Git-of-Ritesh/NextGen-Medicine-Recommendation/internal/logging"
)

const (
	msgInvalidBody       = "Invalid request body."
	msgBodyTooLarge      = "Request body too large."
	msgInvalidStreamMode = "Invalid stream mode."
	msgPredictionFailed  = "Failed to predict disease"
	msgGenerationFailed  = "Failed to generate recommendations"
	msgInternal          = "Internal server error"
)

// handleHealth handles health check requests
func (s *Server) handleHealth(c *gin.Context) {
	c.JSON(http.StatusOK, gin.H{
		"status":    "healthy",
		"timestamp": time.Now().UTC(),
		"version":   Version,
	})
}

// handleReady reports whether upstream dependencies are reachable
func (s *Server) handleReady(c *gin.Context) {
	if s.readiness == nil {
		c.JSON(http.StatusOK, gin.H{"status": health.StateHealthy})
		return
	}
	status := s.readiness.Run(c.Request.Context())
	c.JSON(status.HTTPStatus(), status)
}

// handleRecommendation returns the predicted disease and the generated text as JSON
func (s *Server) handleRecommendation(c *gin.Context) {
	var req domain.RecommendationRequest
	if err := bindJSON(c, &req); err != nil {
		s.respondError(c, err)
		return
	}

	result, err := s.recommendations.Recommend(c.Request.Context(), req)
	if err != nil {
		s.respondError(c, err)
		return
	}

	c.JSON(http.StatusOK, result)
}

// handleRecommendationStream streams the classified recommendation text.
// Failures before generation starts get a JSON status; later ones are
// reported in-band.
func (s *Server) handleRecommendationStream(c *gin.Context) {
	mode, ok := s.streamMode(c)
	if !ok {
		verrs := &domain.ValidationErrors{Summary: msgInvalidStreamMode}
		verrs.Add("mode", "must be one of whole, chunked, passthrough", c.Query("mode"))
		s.respondError(c, verrs)
		return
	}

	var req domain.RecommendationRequest
	if err := bindJSON(c, &req); err != nil {
		s.respondError(c, err)
		return
	}

	ctx := c.Request.Context()
	prediction, err := s.recommendations.Predict(ctx, req)
	if err != nil {
		s.respondError(c, err)
		return
	}

	stream := NewStreamWriter(c.Writer)
	stream.Begin()

	if err := s.recommendations.Stream(ctx, stream, prediction, mode); err != nil {
		if ctx.Err() != nil {
			logging.FromContext(ctx, s.logger).WithField("mode", mode).Warn("Client disconnected during stream")
			return
		}
		if werr := stream.WriteError(err); werr != nil {
			logging.FromContext(ctx, s.logger).WithError(werr).Warn("Failed to write stream error event")
		}
	}
}

// handleAlternatives looks up brand-name alternatives for a medicine
func (s *Server) handleAlternatives(c *gin.Context) {
	var req domain.AlternativesRequest
	if err := bindJSON(c, &req); err != nil {
		s.respondError(c, err)
		return
	}

	resp, err := s.alternatives.Alternatives(c.Request.Context(), req.MedicineName)
	if err != nil {
		s.respondError(c, err)
		return
	}

	c.JSON(http.StatusOK, resp)
}

// streamMode picks the mode from the query string, falling back to configuration
func (s *Server) streamMode(c *gin.Context) (domain.StreamMode, bool) {
	if q, ok := c.GetQuery("mode"); ok {
		return domain.ParseStreamMode(q)
	}
	return domain.ParseStreamMode(s.configManager.GetConfig().Generation.StreamMode)
}

// bindJSON decodes the body into dst. An empty body decodes to the zero value
// so missing fields are reported by validation.
func bindJSON(c *gin.Context, dst interface{}) error {
	err := c.ShouldBindJSON(dst)
	if err == nil || errors.Is(err, io.EOF) {
		return nil
	}

	var tooLarge *http.MaxBytesError
	if errors.As(err, &tooLarge) {
		return fmt.Errorf("%w: %w", &domain.ValidationErrors{Summary: msgBodyTooLarge}, err)
	}
	return fmt.Errorf("%w: %w", &domain.ValidationErrors{Summary: msgInvalidBody}, err)
}

// respondError writes err as a JSON APIError and logs upstream failures
func (s *Server) respondError(c *gin.Context, err error) {
	status := domain.MapStatus(err)
	var tooLarge *http.MaxBytesError
	if errors.As(err, &tooLarge) {
		status = http.StatusRequestEntityTooLarge
	}

	code := domain.ErrorCode(err)
	if status >= http.StatusInternalServerError && !errors.Is(err, context.Canceled) {
		logging.FromContext(c.Request.Context(), s.logger).WithFields(logrus.Fields{
			"path": c.Request.URL.Path,
			"code": code,
		}).WithError(err).Error("Request failed")
	}

	c.AbortWithStatusJSON(status, domain.NewAPIError(code, clientMessage(err), err.Error(), c.GetString("correlation_id")))
}

// clientMessage returns the user-facing message for err
func clientMessage(err error) string {
	var verrs *domain.ValidationErrors
	if errors.As(err, &verrs) && verrs.Summary != "" {
		return verrs.Summary
	}
	var verr *domain.ValidationError
	if errors.As(err, &verr) {
		return verr.Error()
	}

	switch {
	case errors.Is(err, domain.ErrUpstreamPrediction):
		return msgPredictionFailed
	case errors.Is(err, domain.ErrUpstreamGeneration):
		return msgGenerationFailed
	case errors.Is(err, domain.ErrUpstreamLookup):
		return domain.MsgLookupFailed
	default:
		return msgInternal
	}
}
