package health

import (
	"context"
	"errors"
	"io"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/sirupsen/logrus"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func quietLogger() *logrus.Logger {
	logger := logrus.New()
	logger.SetOutput(io.Discard)
	return logger
}

func ok(context.Context) error   { return nil }
func fail(context.Context) error { return errors.New("down") }

func TestChecker_Run(t *testing.T) {
	tests := []struct {
		name     string
		checks   []Check
		expected State
		code     int
	}{
		{
			name:     "no checks",
			expected: StateHealthy,
			code:     http.StatusOK,
		},
		{
			name: "all healthy",
			checks: []Check{
				FuncCheck{CheckName: "a", Critical: true, Fn: ok},
				FuncCheck{CheckName: "b", Fn: ok},
			},
			expected: StateHealthy,
			code:     http.StatusOK,
		},
		{
			name: "non-critical failure warns",
			checks: []Check{
				FuncCheck{CheckName: "a", Critical: true, Fn: ok},
				FuncCheck{CheckName: "b", Fn: fail},
			},
			expected: StateWarning,
			code:     http.StatusOK,
		},
		{
			name: "critical failure",
			checks: []Check{
				FuncCheck{CheckName: "a", Critical: true, Fn: fail},
				FuncCheck{CheckName: "b", Fn: fail},
			},
			expected: StateUnhealthy,
			code:     http.StatusServiceUnavailable,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			checker := NewChecker("test", time.Second, quietLogger())
			for _, c := range tt.checks {
				checker.RegisterCheck(c)
			}

			status := checker.Run(context.Background())
			assert.Equal(t, tt.expected, status.Overall)
			assert.Equal(t, tt.code, status.HTTPStatus())
			assert.Equal(t, "test", status.Version)
			assert.Len(t, status.Components, len(tt.checks))
		})
	}
}

func TestChecker_Timeout(t *testing.T) {
	checker := NewChecker("test", 50*time.Millisecond, quietLogger())
	checker.RegisterCheck(FuncCheck{CheckName: "slow", Critical: true, Fn: func(ctx context.Context) error {
		<-ctx.Done()
		return ctx.Err()
	}})

	status := checker.Run(context.Background())
	assert.Equal(t, StateUnhealthy, status.Overall)
	assert.Contains(t, status.Components["slow"].Error, "deadline")
}

func TestHTTPCheck(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		switch r.URL.Path {
		case "/broken":
			w.WriteHeader(http.StatusBadGateway)
		default:
			http.NotFound(w, r)
		}
	}))
	defer server.Close()

	reachable := HTTPCheck{CheckName: "prediction", URL: server.URL + "/", Critical: true}.Check(context.Background())
	assert.Equal(t, StateHealthy, reachable.Status)

	broken := HTTPCheck{CheckName: "prediction", URL: server.URL + "/broken", Critical: true}.Check(context.Background())
	assert.Equal(t, StateUnhealthy, broken.Status)
	require.NotEmpty(t, broken.Error)

	server.Close()
	down := HTTPCheck{CheckName: "prediction", URL: server.URL, Critical: true}.Check(context.Background())
	assert.Equal(t, StateUnhealthy, down.Status)
}
