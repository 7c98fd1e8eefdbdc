package service

import (
	"context"
	"errors"
	"strings"
	"time"

	"github.com/sirupsen/logrus"

	"github.com/Git-of-Ritesh/NextGen-Medicine-Recommendation/internal/domain"
	"github.com/Git-of-Ritesh/NextGen-Medicine-Recommendation/internal/logging"
	"github.com/Git-of-Ritesh/NextGen-Medicine-Recommendation/internal/metrics"
)

// LookupService resolves alternative brand names for a medicine, with an
// optional result cache in front of the drug label API
type LookupService struct {
	lookup   domain.DrugLookup
	cache    domain.LookupCache
	cacheTTL time.Duration
	logger   *logrus.Logger
}

// NewLookupService creates a lookup service. cache may be nil.
func NewLookupService(lookup domain.DrugLookup, cache domain.LookupCache, cacheTTL time.Duration, logger *logrus.Logger) *LookupService {
	return &LookupService{
		lookup:   lookup,
		cache:    cache,
		cacheTTL: cacheTTL,
		logger:   logger,
	}
}

// Alternatives returns the deduplicated brand names matching name. A lookup
// with no matches is a normal result carrying a single placeholder entry.
func (s *LookupService) Alternatives(ctx context.Context, name string) (*domain.AlternativesResponse, error) {
	name = strings.TrimSpace(name)
	if name == "" {
		return nil, &domain.ValidationErrors{
			Summary: domain.MsgMedicineNameRequired,
			Fields:  []*domain.ValidationError{domain.NewValidationError("medicineName", "is required", nil)},
		}
	}

	log := logging.FromContext(ctx, s.logger).WithField("medicine_name", name)
	key := normalizeMedicineName(name)

	if s.cache != nil {
		names, found, err := s.cache.Get(ctx, key)
		switch {
		case err != nil:
			log.WithError(err).Warn("Lookup cache read failed")
		case found:
			metrics.LookupCache.WithLabelValues("hit").Inc()
			log.Debug("Lookup cache hit")
			return &domain.AlternativesResponse{MedicineName: name, Alternatives: names}, nil
		default:
			metrics.LookupCache.WithLabelValues("miss").Inc()
		}
	}

	names, err := s.lookup.LookupBrand(ctx, name)
	if err != nil && !errors.Is(err, domain.ErrLookupNotFound) {
		log.WithField("service", "openfda").WithError(err).Error("Error fetching alternative medicines")
		return nil, err
	}

	alternatives := dedupe(names)
	if err != nil || len(alternatives) == 0 {
		return &domain.AlternativesResponse{MedicineName: name, Alternatives: []string{domain.NoAlternativesFound}}, nil
	}

	if s.cache != nil {
		if err := s.cache.Set(ctx, key, alternatives, s.cacheTTL); err != nil {
			log.WithError(err).Warn("Lookup cache write failed")
		}
	}

	return &domain.AlternativesResponse{MedicineName: name, Alternatives: alternatives}, nil
}

// dedupe keeps the first occurrence of each name
func dedupe(names []string) []string {
	seen := make(map[string]struct{}, len(names))
	out := make([]string, 0, len(names))
	for _, n := range names {
		if _, ok := seen[n]; ok {
			continue
		}
		seen[n] = struct{}{}
		out = append(out, n)
	}
	return out
}

func normalizeMedicineName(name string) string {
	return strings.ToLower(strings.Join(strings.Fields(name), " "))
}
