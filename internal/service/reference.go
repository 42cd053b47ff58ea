package service

import (
	"context"
	"log/slog"
	"sync"
	"time"

	"golang.org/x/sync/errgroup"
	"golang.org/x/sync/singleflight"

	"github.com/pkordes/trip-wizard/internal/derive"
	"github.com/pkordes/trip-wizard/internal/domain"
)

// ReferenceSource fetches the selector catalogs. Satisfied by *lookup.Client.
type ReferenceSource interface {
	Countries(ctx context.Context) ([]domain.Country, error)
	Currencies(ctx context.Context) ([]domain.Currency, error)
}

// DefaultReferenceTTL is used when NewReferenceService is given a zero TTL.
const DefaultReferenceTTL = time.Hour

type cached[T any] struct {
	value   []T
	expires time.Time
}

// ReferenceService serves countries and currencies from a TTL cache.
// Concurrent misses share one upstream request. A failed load yields an empty
// list and is not cached, so the next caller tries again.
type ReferenceService struct {
	src ReferenceSource
	ttl time.Duration
	now func() time.Time
	log *slog.Logger

	group singleflight.Group

	mu         sync.Mutex
	countries  cached[domain.Country]
	currencies cached[domain.Currency]
}

// NewReferenceService constructs a ReferenceService backed by src.
func NewReferenceService(src ReferenceSource, ttl time.Duration, log *slog.Logger) *ReferenceService {
	if ttl <= 0 {
		ttl = DefaultReferenceTTL
	}
	if log == nil {
		log = slog.Default()
	}
	return &ReferenceService{src: src, ttl: ttl, now: time.Now, log: log}
}

// Countries returns the country catalog, or an empty list when it cannot be loaded.
func (s *ReferenceService) Countries(ctx context.Context) []domain.Country {
	return load(ctx, s, "countries", &s.countries, s.src.Countries)
}

// Currencies returns the currency catalog, or an empty list when it cannot be loaded.
func (s *ReferenceService) Currencies(ctx context.Context) []domain.Currency {
	return load(ctx, s, "currencies", &s.currencies, s.src.Currencies)
}

// Preload fills both caches concurrently. It reports the first load failure;
// the service stays usable either way.
func (s *ReferenceService) Preload(ctx context.Context) error {
	g, ctx := errgroup.WithContext(ctx)
	g.Go(func() error {
		_, err := fetch(ctx, s, "countries", &s.countries, s.src.Countries)
		return err
	})
	g.Go(func() error {
		_, err := fetch(ctx, s, "currencies", &s.currencies, s.src.Currencies)
		return err
	})
	return g.Wait()
}

// Rates returns currency code → rate against the shared base currency.
func (s *ReferenceService) Rates(ctx context.Context) map[string]float64 {
	currencies := s.Currencies(ctx)
	rates := make(map[string]float64, len(currencies))
	for _, c := range currencies {
		rates[c.Code] = c.Rate
	}
	return rates
}

// Convert converts amount between currencies using the cached rates. Unknown
// currencies leave the amount unchanged.
func (s *ReferenceService) Convert(ctx context.Context, amount float64, from, to string) float64 {
	return derive.Convert(amount, from, to, s.Rates(ctx))
}

func load[T any](ctx context.Context, s *ReferenceService, key string, c *cached[T], fn func(context.Context) ([]T, error)) []T {
	s.mu.Lock()
	if c.value != nil && s.now().Before(c.expires) {
		out := append([]T{}, c.value...)
		s.mu.Unlock()
		return out
	}
	s.mu.Unlock()

	out, err := fetch(ctx, s, key, c, fn)
	if err != nil {
		s.log.WarnContext(ctx, "reference data unavailable", "catalog", key, "error", err)
		return []T{}
	}
	return out
}

// fetch loads key through the singleflight group and caches a success.
// A caller that lost the race to a finished flight reads the fresh cache.
func fetch[T any](ctx context.Context, s *ReferenceService, key string, c *cached[T], fn func(context.Context) ([]T, error)) ([]T, error) {
	// Detached so one caller's cancellation does not fail the shared request.
	shared := context.WithoutCancel(ctx)
	v, err, _ := s.group.Do(key, func() (any, error) {
		s.mu.Lock()
		if c.value != nil && s.now().Before(c.expires) {
			list := c.value
			s.mu.Unlock()
			return list, nil
		}
		s.mu.Unlock()

		list, err := fn(shared)
		if err != nil {
			return nil, err
		}
		if list == nil {
			list = []T{}
		}
		s.mu.Lock()
		c.value = list
		c.expires = s.now().Add(s.ttl)
		s.mu.Unlock()
		return list, nil
	})
	if err != nil {
		return nil, err
	}
	return append([]T{}, v.([]T)...), nil
}
