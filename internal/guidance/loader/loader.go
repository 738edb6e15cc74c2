// internal/guidance/loader/loader.go

// Package loader orchestrates the daily guidance pipeline: fingerprint
// and dateKey derivation, the cache-first-unless-forced policy, the
// fetch-normalize-store path, the cache-only degraded fallback, and the
// race guard for overlapping loads.
package loader

import (
	"context"
	"sync"
	"time"

	"guidance-engine/internal/common/errors"
	"guidance-engine/internal/common/logger"
	"guidance-engine/internal/common/metrics"
	"guidance-engine/internal/common/observability"
	"guidance-engine/internal/guidance/cache"
	"guidance-engine/internal/guidance/fingerprint"
	"guidance-engine/internal/guidance/normalize"
	"guidance-engine/internal/models"
)

// Aggregator is the remote fan-out stage.
type Aggregator interface {
	Fetch(ctx context.Context, profile models.Profile, dateKey string) (*models.RawBundle, error)
}

// Options control one load.
type Options struct {
	// Date selects the target calendar day; zero means now. The key is
	// computed in the profile's timezone either way.
	Date time.Time
	// ForceRefresh skips the cache read (but not the error fallback read).
	ForceRefresh bool
}

// Result is the caller-facing outcome of a load.
type Result struct {
	Payload   *models.GuidancePayload
	FromCache bool
	// Fallback marks a stale cache read served after a fetch failure;
	// callers should flag the UI as offline/stale.
	Fallback bool
}

type Loader struct {
	cache      *cache.Store
	aggregator Aggregator
	normalizer *normalize.Normalizer
	logger     logger.Logger
	obs        *observability.Observability
	now        func() time.Time

	// Request-token race guard. A caller has one active selection at a
	// time; each load takes the next token and only the invocation still
	// holding the newest token may commit a cache write or a result.
	mu     sync.Mutex
	seq    uint64
	newest uint64
}

func New(store *cache.Store, agg Aggregator, norm *normalize.Normalizer, log logger.Logger, obs *observability.Observability) *Loader {
	return &Loader{
		cache:      store,
		aggregator: agg,
		normalizer: norm,
		logger:     log.WithFields(map[string]interface{}{"component": "loader"}),
		obs:        obs,
		now:        time.Now,
	}
}

// WithClock overrides the time source. For tests.
func (l *Loader) WithClock(now func() time.Time) *Loader {
	l.now = now
	return l
}

func (l *Loader) begin() uint64 {
	l.mu.Lock()
	defer l.mu.Unlock()
	l.seq++
	l.newest = l.seq
	return l.seq
}

func (l *Loader) isCurrent(token uint64) bool {
	l.mu.Lock()
	defer l.mu.Unlock()
	return token == l.newest
}

// commit writes the payload only while token is still the newest. It
// holds the same lock begin takes, so no newer load can begin between
// the check and the write.
func (l *Loader) commit(ctx context.Context, token uint64, fp, dateKey string, payload *models.GuidancePayload) bool {
	l.mu.Lock()
	defer l.mu.Unlock()
	if token != l.newest {
		return false
	}
	l.cache.Set(ctx, fp, dateKey, payload)
	return true
}

// LoadDaily runs the full pipeline for (profile, opts). A load whose
// target selection was superseded mid-flight returns ErrSuperseded with
// nothing committed; callers discard it and keep waiting for the newer
// load's result.
func (l *Loader) LoadDaily(ctx context.Context, profile models.Profile, opts Options) (*Result, error) {
	start := l.now()

	target := opts.Date
	if target.IsZero() {
		target = start
	}
	dateKey := profile.DateKeyFor(target)
	fp := fingerprint.Compute(profile)
	token := l.begin()

	log := l.logger.WithFields(map[string]interface{}{
		"dateKey": dateKey,
		"subject": profile.Name,
	})

	if !opts.ForceRefresh {
		if payload, ok := l.cache.Get(ctx, fp, dateKey); ok {
			if !l.isCurrent(token) {
				return l.drop(ctx, log)
			}
			l.record(ctx, "cache_hit", start)
			return &Result{Payload: payload, FromCache: true}, nil
		}
	}

	bundle, err := l.aggregator.Fetch(ctx, profile, dateKey)
	if err != nil {
		return l.fallback(ctx, log, token, fp, dateKey, start, err)
	}

	payload := l.normalizer.Build(bundle, profile, dateKey, l.now())

	// A newer load may have started while this one was fetching; the
	// token check and the cache write happen under one lock so it
	// cannot slip in between them either.
	if !l.commit(ctx, token, fp, dateKey, payload) {
		return l.drop(ctx, log)
	}

	l.record(ctx, "fresh", start)
	log.Info("daily guidance generated", map[string]interface{}{
		"bestArea":  payload.BestArea,
		"worstArea": payload.WorstArea,
	})
	return &Result{Payload: payload, FromCache: false}, nil
}

// fallback serves a stale cache entry after a fetch failure, even for
// forced loads; with no entry it raises the caller-facing error.
func (l *Loader) fallback(ctx context.Context, log logger.Logger, token uint64, fp, dateKey string, start time.Time, cause error) (*Result, error) {
	log.WithError(cause).Warn("fetch failed, attempting cache fallback", nil)

	if payload, ok := l.cache.Get(ctx, fp, dateKey); ok {
		if !l.isCurrent(token) {
			return l.drop(ctx, log)
		}
		l.record(ctx, "fallback", start)
		return &Result{Payload: payload, FromCache: true, Fallback: true}, nil
	}

	if !l.isCurrent(token) {
		return l.drop(ctx, log)
	}
	l.record(ctx, "unavailable", start)
	return nil, errors.NewGuidanceUnavailableError(cause)
}

func (l *Loader) drop(ctx context.Context, log logger.Logger) (*Result, error) {
	metrics.SupersededDrops.Inc()
	if l.obs != nil {
		l.obs.RecordLoad(ctx, "superseded")
	}
	log.Debug("load superseded, result dropped", nil)
	return nil, errors.ErrSuperseded
}

func (l *Loader) record(ctx context.Context, result string, start time.Time) {
	elapsed := l.now().Sub(start)
	metrics.Loads.WithLabelValues(result).Inc()
	metrics.LoadDuration.Observe(elapsed.Seconds())
	if l.obs != nil {
		l.obs.RecordLoad(ctx, result)
		l.obs.RecordLoadDuration(ctx, elapsed, result)
	}
}
