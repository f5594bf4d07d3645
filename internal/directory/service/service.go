// Package service is the resolution facade: it validates a location query,
// derives the jurisdiction ID set, probes the result cache, and runs the
// regulation resolver and incentive ranker on misses.
package service

import (
	"context"
	"encoding/json"
	"log/slog"
	"strings"
	"time"

	"golang.org/x/sync/errgroup"

	"watershed/internal/directory/cache"
	"watershed/internal/directory/metrics"
	"watershed/internal/directory/models"
	"watershed/internal/directory/ranker"
	"watershed/internal/directory/resolver"
	"watershed/internal/directory/store"
	"watershed/internal/jurisdiction"
	dErrors "watershed/pkg/domain-errors"
	"watershed/pkg/requestcontext"
)

// Query is a location resolution request.
type Query struct {
	Level        jurisdiction.Level
	StateCode    string
	CountyName   string
	CityName     string
	ResourceKind models.ResourceKind
}

// Service orchestrates resolution. The regulation and incentive sub-lookups
// are independent: each degrades to its own empty value on failure rather
// than failing the whole request.
type Service struct {
	resolver *resolver.Resolver
	ranker   *ranker.Ranker
	store    store.Store
	cache    cache.Cache
	ttl      time.Duration
	logger   *slog.Logger
	metrics  *metrics.Metrics
}

// Option configures a Service.
type Option func(*Service)

// WithCache fronts resolution with a result cache.
func WithCache(c cache.Cache, ttl time.Duration) Option {
	return func(s *Service) {
		s.cache = c
		if ttl > 0 {
			s.ttl = ttl
		}
	}
}

// WithLogger sets the structured logger.
func WithLogger(logger *slog.Logger) Option {
	return func(s *Service) { s.logger = logger }
}

// WithMetrics enables Prometheus metrics.
func WithMetrics(m *metrics.Metrics) Option {
	return func(s *Service) { s.metrics = m }
}

// New constructs the facade. Without WithCache every query recomputes.
func New(res *resolver.Resolver, rank *ranker.Ranker, st store.Store, opts ...Option) *Service {
	s := &Service{
		resolver: res,
		ranker:   rank,
		store:    st,
		ttl:      cache.DefaultTTL,
		logger:   slog.Default(),
	}
	for _, opt := range opts {
		opt(s)
	}
	return s
}

// ResolveLocation answers which rules and programs apply at a location.
// Typed errors are returned only for malformed input and unsupported
// resource kinds; data unavailability degrades to the Varies sentinel and an
// empty incentive list.
func (s *Service) ResolveLocation(ctx context.Context, q Query) (*models.ResolvedLocation, error) {
	start := time.Now()

	loc, idSet, err := s.validate(ctx, q)
	if err != nil {
		return nil, err
	}
	if !s.resolver.Supports(q.ResourceKind) {
		return nil, dErrors.Newf(dErrors.CodeResourceKindUnsupported, "resource kind %q is not configured", q.ResourceKind)
	}

	result := &models.ResolvedLocation{
		Location:     loc,
		ResourceKind: q.ResourceKind,
		ResolvedAt:   requestcontext.Now(ctx),
	}

	// The two sub-lookups are independent and run in parallel. Neither
	// returns an error: each degrades internally.
	g, gctx := errgroup.WithContext(ctx)
	g.Go(func() error {
		result.EffectiveRegulation = s.regulation(gctx, idSet, q.ResourceKind)
		return nil
	})
	g.Go(func() error {
		result.Incentives = s.incentives(gctx, idSet, q.ResourceKind)
		return nil
	})
	_ = g.Wait()

	result.Summary = models.Summarize(result.Incentives)

	s.metrics.ObserveResolveLatency(time.Since(start))
	s.logger.InfoContext(ctx, "location resolved",
		"request_id", requestcontext.RequestID(ctx),
		"level", loc.Level,
		"jurisdiction_ids", idSet,
		"resource_kind", q.ResourceKind,
		"incentives", len(result.Incentives),
		"regulation_no_data", result.EffectiveRegulation.NoData,
		"duration_ms", time.Since(start).Milliseconds(),
	)
	return result, nil
}

func (s *Service) validate(ctx context.Context, q Query) (models.Location, []string, error) {
	if !q.Level.Valid() {
		return models.Location{}, nil, dErrors.Newf(dErrors.CodeBadRequest, "unknown jurisdiction level %q", q.Level)
	}

	county := strings.TrimSpace(q.CountyName)
	city := strings.TrimSpace(q.CityName)
	switch q.Level {
	case jurisdiction.LevelState:
		county, city = "", ""
	case jurisdiction.LevelCounty:
		if county == "" {
			return models.Location{}, nil, dErrors.New(dErrors.CodeBadRequest, "county name is required for county level")
		}
		city = ""
	case jurisdiction.LevelCity:
		if city == "" {
			return models.Location{}, nil, dErrors.New(dErrors.CodeBadRequest, "city name is required for city level")
		}
		if county == "" {
			// Best effort: the curated city/county mapping fills in the
			// county chain so county-level programs still apply.
			if mapped, ok := s.lookupCounty(ctx, q.StateCode, city); ok {
				county = mapped
			}
		}
	}

	// EncodeID validates the state code and the level-specific name.
	if _, err := jurisdiction.EncodeID(q.Level, q.StateCode, county, city); err != nil {
		return models.Location{}, nil, err
	}

	idSet, err := jurisdiction.IDSet(q.StateCode, county, city)
	if err != nil {
		return models.Location{}, nil, err
	}

	state := strings.ToUpper(strings.TrimSpace(q.StateCode))
	loc := models.Location{
		Level:      q.Level,
		StateCode:  state,
		StateName:  jurisdiction.StateName(state),
		CountyName: county,
		CityName:   city,
	}
	return loc, idSet, nil
}

// lookupCounty resolves a city's county through the result cache, since the
// mapping is as static as the regulation data. Mapped counties are cached;
// unmapped cities are not, per the empty-result policy. Lookup failures
// degrade to "no county" so the query still resolves on a state+city chain.
func (s *Service) lookupCounty(ctx context.Context, stateCode, city string) (string, bool) {
	const op = "county"
	key := cache.Key(op, strings.ToUpper(strings.TrimSpace(stateCode)), jurisdiction.NormalizeName(city))

	var cached string
	if s.cacheGet(ctx, op, key, &cached) {
		return cached, true
	}

	county, ok, err := s.store.LookupCounty(ctx, stateCode, city)
	if err != nil {
		s.logger.WarnContext(ctx, "county lookup failed, resolving without county chain",
			"state", stateCode, "city", city, "error", err)
		return "", false
	}
	if ok {
		s.cachePut(ctx, op, key, county)
	}
	return county, ok
}

// regulation runs the cached regulation sub-lookup.
func (s *Service) regulation(ctx context.Context, idSet []string, kind models.ResourceKind) models.EffectiveRegulation {
	const op = "regulation"
	start := time.Now()
	defer func() {
		s.metrics.ObserveLookupLatency(op, time.Since(start))
	}()

	key := cache.Key(op, append([]string{string(kind)}, idSet...)...)
	var cached models.EffectiveRegulation
	if s.cacheGet(ctx, op, key, &cached) {
		return cached
	}

	eff, err := s.resolver.Resolve(ctx, idSet, kind)
	if err != nil {
		// Kind support is pre-checked, so this is unexpected; degrade to
		// the sentinel rather than failing the whole request.
		s.logger.ErrorContext(ctx, "regulation resolution failed", "error", err)
		s.metrics.IncrementStoreError(op)
		return models.EffectiveRegulation{
			RegulationRecord: models.RegulationRecord{ResourceKind: kind, LegalStatus: models.StatusVaries},
			NoData:           true,
		}
	}

	// A no-data sentinel is an empty result: never cached, so a transient
	// upstream hiccup is not remembered as "no data" for a full TTL.
	if !eff.NoData {
		s.cachePut(ctx, op, key, eff)
	}
	return eff
}

// incentives runs the cached incentive sub-lookup.
func (s *Service) incentives(ctx context.Context, idSet []string, kind models.ResourceKind) []models.RankedIncentive {
	const op = "incentives"
	start := time.Now()
	defer func() {
		s.metrics.ObserveLookupLatency(op, time.Since(start))
	}()

	key := cache.Key(op, append([]string{string(kind)}, idSet...)...)
	var cached []models.RankedIncentive
	if s.cacheGet(ctx, op, key, &cached) {
		return cached
	}

	ranked, err := s.ranker.Incentives(ctx, idSet, kind)
	if err != nil {
		s.logger.ErrorContext(ctx, "incentive ranking failed", "error", err)
		s.metrics.IncrementStoreError(op)
		return nil
	}

	if len(ranked) > 0 {
		s.cachePut(ctx, op, key, ranked)
	}
	return ranked
}

// cacheGet probes the cache into out. A cache failure is a pure pass-through:
// compute fresh, never fatal.
func (s *Service) cacheGet(ctx context.Context, op, key string, out any) bool {
	if s.cache == nil {
		return false
	}
	raw, ok, err := s.cache.Get(ctx, key)
	if err != nil {
		s.logger.WarnContext(ctx, "cache get failed, bypassing", "key", key, "error", err)
		s.metrics.IncrementCacheOutcome(op, "bypass")
		return false
	}
	if !ok {
		s.metrics.IncrementCacheOutcome(op, "miss")
		return false
	}
	if err := json.Unmarshal(raw, out); err != nil {
		s.logger.WarnContext(ctx, "cache entry undecodable, treating as miss", "key", key, "error", err)
		s.metrics.IncrementCacheOutcome(op, "miss")
		return false
	}
	s.metrics.IncrementCacheOutcome(op, "hit")
	return true
}

func (s *Service) cachePut(ctx context.Context, op, key string, value any) {
	if s.cache == nil {
		return
	}
	raw, err := json.Marshal(value)
	if err != nil {
		s.logger.WarnContext(ctx, "cache value not serializable", "key", key, "error", err)
		return
	}
	if err := s.cache.Put(ctx, key, raw, s.ttl); err != nil {
		s.logger.WarnContext(ctx, "cache put failed", "key", key, "error", err)
		s.metrics.IncrementCacheOutcome(op, "bypass")
	}
}
