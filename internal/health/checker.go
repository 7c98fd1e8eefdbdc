package health

import (
	"context"
	"fmt"
	"net/http"
	"sync"
	"time"

	"github.com/sirupsen/logrus"
)

type State string

const (
	StateHealthy   State = "healthy"
	StateWarning   State = "warning"
	StateUnhealthy State = "unhealthy"
)

// ComponentHealth is the result of one dependency check
type ComponentHealth struct {
	Name     string `json:"name"`
	Status   State  `json:"status"`
	Duration string `json:"duration"`
	Error    string `json:"error,omitempty"`
}

// Status is the aggregated readiness report
type Status struct {
	Overall    State                      `json:"status"`
	Timestamp  time.Time                  `json:"timestamp"`
	Version    string                     `json:"version"`
	Uptime     string                     `json:"uptime"`
	Components map[string]ComponentHealth `json:"components"`
}

// Check verifies one dependency
type Check interface {
	Name() string
	Check(ctx context.Context) ComponentHealth
}

// Checker runs registered checks in parallel
type Checker struct {
	mu      sync.RWMutex
	checks  []Check
	timeout time.Duration
	version string
	started time.Time
	logger  *logrus.Logger
}

// NewChecker creates a checker bounding each run by timeout
func NewChecker(version string, timeout time.Duration, logger *logrus.Logger) *Checker {
	if timeout <= 0 {
		timeout = 5 * time.Second
	}
	return &Checker{
		timeout: timeout,
		version: version,
		started: time.Now(),
		logger:  logger,
	}
}

func (h *Checker) RegisterCheck(check Check) {
	h.mu.Lock()
	defer h.mu.Unlock()
	h.checks = append(h.checks, check)
}

// Run executes every check and aggregates the results. Any unhealthy
// component makes the whole report unhealthy.
func (h *Checker) Run(ctx context.Context) *Status {
	ctx, cancel := context.WithTimeout(ctx, h.timeout)
	defer cancel()

	h.mu.RLock()
	checks := append([]Check(nil), h.checks...)
	h.mu.RUnlock()

	results := make(chan ComponentHealth, len(checks))
	var wg sync.WaitGroup
	for _, check := range checks {
		wg.Add(1)
		go func(c Check) {
			defer wg.Done()
			results <- c.Check(ctx)
		}(check)
	}
	wg.Wait()
	close(results)

	status := &Status{
		Overall:    StateHealthy,
		Timestamp:  time.Now().UTC(),
		Version:    h.version,
		Uptime:     time.Since(h.started).Round(time.Second).String(),
		Components: make(map[string]ComponentHealth, len(checks)),
	}

	var failing []string
	for result := range results {
		status.Components[result.Name] = result
		switch result.Status {
		case StateUnhealthy:
			status.Overall = StateUnhealthy
			failing = append(failing, result.Name)
		case StateWarning:
			if status.Overall == StateHealthy {
				status.Overall = StateWarning
			}
			failing = append(failing, result.Name)
		}
	}

	if status.Overall != StateHealthy {
		h.logger.WithFields(logrus.Fields{
			"overall_status":       status.Overall,
			"unhealthy_components": failing,
		}).Warn("Readiness check completed with issues")
	}
	return status
}

// HTTPStatus maps a report to its response code
func (s *Status) HTTPStatus() int {
	if s.Overall == StateUnhealthy {
		return http.StatusServiceUnavailable
	}
	return http.StatusOK
}

// FuncCheck adapts a check function. A failing non-critical check only
// downgrades the report to warning.
type FuncCheck struct {
	CheckName string
	Critical  bool
	Fn        func(ctx context.Context) error
}

func (f FuncCheck) Name() string { return f.CheckName }

func (f FuncCheck) Check(ctx context.Context) ComponentHealth {
	start := time.Now()
	err := f.Fn(ctx)
	result := ComponentHealth{
		Name:     f.CheckName,
		Status:   StateHealthy,
		Duration: time.Since(start).String(),
	}
	if err != nil {
		result.Error = err.Error()
		result.Status = StateWarning
		if f.Critical {
			result.Status = StateUnhealthy
		}
	}
	return result
}

// HTTPCheck treats any response below 500 as reachable. Services without a
// health route still answer unknown paths with 404.
type HTTPCheck struct {
	CheckName string
	URL       string
	Critical  bool
	Client    *http.Client
}

func (c HTTPCheck) Name() string { return c.CheckName }

func (c HTTPCheck) Check(ctx context.Context) ComponentHealth {
	return FuncCheck{CheckName: c.CheckName, Critical: c.Critical, Fn: c.ping}.Check(ctx)
}

func (c HTTPCheck) ping(ctx context.Context) error {
	client := c.Client
	if client == nil {
		client = http.DefaultClient
	}
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, c.URL, nil)
	if err != nil {
		return err
	}
	resp, err := client.Do(req)
	if err != nil {
		return err
	}
	resp.Body.Close()
	if resp.StatusCode >= http.StatusInternalServerError {
		return fmt.Errorf("unexpected status %d", resp.StatusCode)
	}
	return nil
}
