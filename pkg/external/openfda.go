package external

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strconv"
	"strings"
	"time"

	"github.com/sirupsen/logrus"
	"github.com/sony/gobreaker"
	"golang.org/x/time/rate"

	"github.com/Git-of-Ritesh/NextGen-Medicine-Recommendation/internal/domain"
	"github.com/Git-of-Ritesh/NextGen-Medicine-Recommendation/internal/metrics"
)

const openFDAService = "openfda"

// OpenFDAClient queries the OpenFDA drug label endpoint
type OpenFDAClient struct {
	baseURL    string
	apiKey     string
	limit      int
	httpClient *http.Client
	rateLimit  *rate.Limiter
	breaker    *gobreaker.CircuitBreaker
	logger     *logrus.Logger
}

// OpenFDALabelResponse is the subset of drug/label.json the service reads
type OpenFDALabelResponse struct {
	Results []OpenFDALabel `json:"results"`
}

// OpenFDALabel is one drug label record
type OpenFDALabel struct {
	OpenFDA struct {
		BrandName   []string `json:"brand_name"`
		GenericName []string `json:"generic_name,omitempty"`
	} `json:"openfda"`
}

type labelResult struct {
	names    []string
	notFound bool
}

// NewOpenFDAClient creates a new OpenFDA client
func NewOpenFDAClient(config domain.LookupConfig, logger *logrus.Logger) *OpenFDAClient {
	limit := config.Limit
	if limit <= 0 {
		limit = 3
	}
	rps := config.RateLimit
	if rps <= 0 {
		rps = 4
	}

	return &OpenFDAClient{
		baseURL: strings.TrimRight(config.BaseURL, "/"),
		apiKey:  config.APIKey,
		limit:   limit,
		httpClient: &http.Client{
			Timeout: config.Timeout,
		},
		rateLimit: rate.NewLimiter(rate.Limit(rps), 1),
		breaker:   newCircuitBreaker("OpenFDA", config.CircuitBreaker, logger),
		logger:    logger,
	}
}

// LookupBrand returns the first brand name of every label matching name, in
// response order. An absent brand name yields "Unknown Alternative". No match
// fails with domain.ErrLookupNotFound.
func (c *OpenFDAClient) LookupBrand(ctx context.Context, name string) (names []string, err error) {
	start := time.Now()
	defer func() { metrics.ObserveUpstream(openFDAService, start, err) }()

	if err := c.rateLimit.Wait(ctx); err != nil {
		return nil, c.fail(0, fmt.Errorf("rate limit wait: %w", err))
	}

	// not-found results are not breaker failures
	result, err := c.breaker.Execute(func() (interface{}, error) {
		return c.fetch(ctx, name)
	})
	if err != nil {
		if err == gobreaker.ErrOpenState || err == gobreaker.ErrTooManyRequests {
			return nil, c.fail(0, fmt.Errorf("OpenFDA service unavailable (circuit breaker open): %w", err))
		}
		return nil, err
	}

	res := result.(labelResult)
	if res.notFound {
		return nil, domain.ErrLookupNotFound
	}
	return res.names, nil
}

// Available reports an error while the circuit breaker is open
func (c *OpenFDAClient) Available(_ context.Context) error {
	if state := c.breaker.State(); state == gobreaker.StateOpen {
		return fmt.Errorf("circuit breaker %s", state)
	}
	return nil
}

func (c *OpenFDAClient) fetch(ctx context.Context, name string) (labelResult, error) {
	query := url.Values{}
	query.Set("search", "openfda.brand_name:"+searchTerm(name))
	query.Set("limit", strconv.Itoa(c.limit))
	if c.apiKey != "" {
		query.Set("api_key", c.apiKey)
	}
	fullURL := fmt.Sprintf("%s/drug/label.json?%s", c.baseURL, query.Encode())

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, fullURL, nil)
	if err != nil {
		return labelResult{}, c.fail(0, fmt.Errorf("failed to create request: %w", err))
	}
	req.Header.Set("Accept", "application/json")

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return labelResult{}, c.fail(0, fmt.Errorf("request failed: %w", err))
	}
	defer resp.Body.Close()

	if resp.StatusCode == http.StatusNotFound {
		return labelResult{notFound: true}, nil
	}
	if resp.StatusCode != http.StatusOK {
		msg, _ := io.ReadAll(io.LimitReader(resp.Body, 512))
		return labelResult{}, c.fail(resp.StatusCode, fmt.Errorf("unexpected response: %s", strings.TrimSpace(string(msg))))
	}

	var labels OpenFDALabelResponse
	if err := json.NewDecoder(resp.Body).Decode(&labels); err != nil {
		return labelResult{}, c.fail(0, fmt.Errorf("failed to decode response: %w", err))
	}
	if len(labels.Results) == 0 {
		return labelResult{notFound: true}, nil
	}

	names := make([]string, 0, len(labels.Results))
	for _, label := range labels.Results {
		if len(label.OpenFDA.BrandName) > 0 && strings.TrimSpace(label.OpenFDA.BrandName[0]) != "" {
			names = append(names, label.OpenFDA.BrandName[0])
		} else {
			names = append(names, domain.UnknownAlternative)
		}
	}

	c.logger.WithFields(logrus.Fields{
		"service": openFDAService,
		"query":   name,
		"labels":  len(labels.Results),
	}).Debug("Drug label lookup complete")

	return labelResult{names: names}, nil
}

func (c *OpenFDAClient) fail(status int, err error) error {
	return domain.NewUpstreamError(domain.ErrUpstreamLookup, openFDAService, status, err)
}

// searchTerm quotes multi-word names so they match as one phrase
func searchTerm(name string) string {
	name = strings.ReplaceAll(strings.TrimSpace(name), `"`, "")
	if strings.ContainsAny(name, " \t") {
		return `"` + name + `"`
	}
	return name
}
