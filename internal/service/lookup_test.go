package service

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/Git-of-Ritesh/NextGen-Medicine-Recommendation/internal/domain"
)

func TestLookupService_Alternatives(t *testing.T) {
	tests := []struct {
		name     string
		names    []string
		err      error
		expected []string
	}{
		{
			name:     "duplicates collapse",
			names:    []string{"Advil", "Motrin", "Advil", "Motrin", "Advil Migraine"},
			expected: []string{"Advil", "Motrin", "Advil Migraine"},
		},
		{
			name:     "not found is a normal result",
			err:      domain.ErrLookupNotFound,
			expected: []string{domain.NoAlternativesFound},
		},
		{
			name:     "empty result gets placeholder",
			names:    []string{},
			expected: []string{domain.NoAlternativesFound},
		},
		{
			name:     "unknown brand kept once",
			names:    []string{domain.UnknownAlternative, domain.UnknownAlternative},
			expected: []string{domain.UnknownAlternative},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			svc := NewLookupService(&fakeLookup{names: tt.names, err: tt.err}, nil, time.Minute, quietLogger())

			resp, err := svc.Alternatives(context.Background(), " Advil ")
			require.NoError(t, err)
			assert.Equal(t, "Advil", resp.MedicineName)
			assert.Equal(t, tt.expected, resp.Alternatives)
		})
	}
}

func TestLookupService_MissingName(t *testing.T) {
	lookup := &fakeLookup{}
	svc := NewLookupService(lookup, nil, 0, quietLogger())

	_, err := svc.Alternatives(context.Background(), "   ")
	require.Error(t, err)
	assert.True(t, domain.IsValidation(err))
	assert.Equal(t, 0, lookup.calls)

	var verrs *domain.ValidationErrors
	require.True(t, errors.As(err, &verrs))
	assert.Equal(t, domain.MsgMedicineNameRequired, verrs.Summary)
}

func TestLookupService_UpstreamFailure(t *testing.T) {
	upstream := domain.NewUpstreamError(domain.ErrUpstreamLookup, "openfda", 500, errors.New("boom"))
	cache := newMapCache()
	svc := NewLookupService(&fakeLookup{err: upstream}, cache, time.Minute, quietLogger())

	_, err := svc.Alternatives(context.Background(), "Advil")
	require.Error(t, err)
	assert.True(t, errors.Is(err, domain.ErrUpstreamLookup))
	assert.Empty(t, cache.entries, "failures must not be cached")
}

func TestLookupService_Cache(t *testing.T) {
	lookup := &fakeLookup{names: []string{"Tylenol", "Tylenol"}}
	cache := newMapCache()
	svc := NewLookupService(lookup, cache, time.Minute, quietLogger())

	first, err := svc.Alternatives(context.Background(), "Tylenol")
	require.NoError(t, err)
	second, err := svc.Alternatives(context.Background(), "  tylenol ")
	require.NoError(t, err)

	assert.Equal(t, 1, lookup.calls)
	assert.Equal(t, []string{"Tylenol"}, first.Alternatives)
	assert.Equal(t, first.Alternatives, second.Alternatives)
	assert.Equal(t, "tylenol", second.MedicineName)
	assert.Contains(t, cache.entries, "tylenol")
}

func TestLookupService_CacheErrorsIgnored(t *testing.T) {
	lookup := &fakeLookup{names: []string{"Aleve"}}
	cache := newMapCache()
	cache.err = errors.New("redis down")
	svc := NewLookupService(lookup, cache, time.Minute, quietLogger())

	resp, err := svc.Alternatives(context.Background(), "Aleve")
	require.NoError(t, err)
	assert.Equal(t, []string{"Aleve"}, resp.Alternatives)
	assert.Equal(t, 1, lookup.calls)
}

func TestLookupService_NotFoundNotCached(t *testing.T) {
	lookup := &fakeLookup{err: domain.ErrLookupNotFound}
	cache := newMapCache()
	svc := NewLookupService(lookup, cache, time.Minute, quietLogger())

	first, err := svc.Alternatives(context.Background(), "Zzzquil")
	require.NoError(t, err)
	assert.Equal(t, []string{domain.NoAlternativesFound}, first.Alternatives)
	assert.Empty(t, cache.entries, "not-found results must not be cached")

	lookup.err = nil
	lookup.names = []string{"ZzzQuil Ultra"}

	second, err := svc.Alternatives(context.Background(), "Zzzquil")
	require.NoError(t, err)
	assert.Equal(t, []string{"ZzzQuil Ultra"}, second.Alternatives)
	assert.Equal(t, 2, lookup.calls)
	assert.Contains(t, cache.entries, "zzzquil")
}
