package logging

import (
	"bytes"
	"context"
	"encoding/json"
	"testing"

	"github.com/sirupsen/logrus"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/Git-of-Ritesh/NextGen-Medicine-Recommendation/internal/domain"
)

func TestNew_Levels(t *testing.T) {
	tests := []struct {
		level    string
		expected logrus.Level
	}{
		{"debug", logrus.DebugLevel},
		{"warn", logrus.WarnLevel},
		{"error", logrus.ErrorLevel},
		{"bogus", logrus.InfoLevel},
		{"", logrus.InfoLevel},
	}

	for _, tt := range tests {
		t.Run(tt.level, func(t *testing.T) {
			logger := New(domain.LoggingConfig{Level: tt.level})
			assert.Equal(t, tt.expected, logger.GetLevel())
		})
	}
}

func TestNewWithOutput_JSONCorrelation(t *testing.T) {
	var buf bytes.Buffer
	logger := NewWithOutput(domain.LoggingConfig{Level: "info", Format: "json"}, &buf)

	ctx := WithCorrelationID(context.Background(), "abc-123")
	FromContext(ctx, logger).Info("prediction complete")

	var line map[string]interface{}
	require.NoError(t, json.Unmarshal(buf.Bytes(), &line))
	assert.Equal(t, "prediction complete", line["message"])
	assert.Equal(t, "abc-123", line["correlation_id"])
	assert.Equal(t, "info", line["level"])
}

func TestNewWithOutput_Text(t *testing.T) {
	var buf bytes.Buffer
	logger := NewWithOutput(domain.LoggingConfig{Level: "info", Format: "text"}, &buf)

	FromContext(context.Background(), logger).Info("hello")

	assert.Contains(t, buf.String(), "msg=hello")
	assert.NotContains(t, buf.String(), "correlation_id")
	assert.Equal(t, "", CorrelationID(context.Background()))
}
