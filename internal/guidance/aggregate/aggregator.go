// internal/guidance/aggregate/aggregator.go

// Package aggregate fans one (profile, dateKey) request out to every
// configured remote source and gathers the per-source outcomes into a
// RawBundle. Sources settle independently: one failing or timing out
// never cancels the others.
package aggregate

import (
	"context"
	"fmt"
	"sync"
	"time"

	"guidance-engine/internal/common/errors"
	"guidance-engine/internal/common/logger"
	"guidance-engine/internal/common/metrics"
	"guidance-engine/internal/guidance/fingerprint"
	"guidance-engine/internal/guidance/sources"
	"guidance-engine/internal/models"
)

type Aggregator struct {
	clients []sources.Client
	logger  logger.Logger
}

func New(clients []sources.Client, log logger.Logger) *Aggregator {
	return &Aggregator{
		clients: clients,
		logger:  log.WithFields(map[string]interface{}{"component": "aggregator"}),
	}
}

// SourceNames lists the configured sources in client order.
func (a *Aggregator) SourceNames() []models.SourceName {
	names := make([]models.SourceName, len(a.clients))
	for i, c := range a.clients {
		names[i] = c.Name()
	}
	return names
}

// Fetch issues all source requests concurrently and returns the merged
// bundle. The bundle always carries an entry for every configured
// source. An empty or missing primary (horoscope) result set is the one
// failure that aborts: the payload has no sensible defaults for
// life-area scores.
func (a *Aggregator) Fetch(ctx context.Context, profile models.Profile, dateKey string) (*models.RawBundle, error) {
	bundle := models.NewRawBundle(fingerprint.Compute(profile), dateKey, a.SourceNames())

	type settled struct {
		name models.SourceName
		data map[string]interface{}
		err  error
	}
	results := make([]settled, len(a.clients))

	var wg sync.WaitGroup
	for i, client := range a.clients {
		wg.Add(1)
		go func(i int, client sources.Client) {
			defer wg.Done()
			start := time.Now()
			data, err := client.Fetch(ctx, profile, dateKey)
			metrics.SourceFetchDuration.WithLabelValues(string(client.Name())).Observe(time.Since(start).Seconds())

			outcome := "ok"
			if err != nil {
				outcome = "error"
			}
			metrics.SourceFetches.WithLabelValues(string(client.Name()), outcome).Inc()

			results[i] = settled{name: client.Name(), data: data, err: err}
		}(i, client)
	}
	wg.Wait()

	for _, r := range results {
		if r.err != nil {
			a.logger.Warn("source degraded", map[string]interface{}{
				"source":  string(r.name),
				"dateKey": dateKey,
				"error":   r.err,
			})
		}
		bundle.Results[r.name] = models.SourceResult{
			Attempted: true,
			Data:      r.data,
			Err:       r.err,
		}
	}

	if err := a.checkRequired(bundle); err != nil {
		return nil, err
	}

	return bundle, nil
}

// checkRequired enforces the loud-failure rule for sources whose
// fallback policy forbids degrading, which in practice is the primary
// horoscope source.
func (a *Aggregator) checkRequired(bundle *models.RawBundle) error {
	sawPrimary := false
	for _, client := range a.clients {
		if client.Degrades() {
			continue
		}
		if client.Name() == models.SourceHoroscope {
			sawPrimary = true
		}

		result := bundle.Results[client.Name()]
		if result.Data == nil {
			details := string(client.Name()) + " source absent"
			if result.Err != nil {
				details = result.Err.Error()
			}
			return errors.NewPrimarySourceEmptyError(details)
		}

		if client.Name() == models.SourceHoroscope {
			areas, _ := result.Data["areas"].([]interface{})
			if len(areas) == 0 {
				return errors.NewPrimarySourceEmptyError(fmt.Sprintf("horoscope returned %d life areas", len(areas)))
			}
		}
	}

	if !sawPrimary {
		return errors.NewPrimarySourceEmptyError("horoscope source not configured")
	}
	return nil
}
