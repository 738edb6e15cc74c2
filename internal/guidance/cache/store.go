// internal/guidance/cache/store.go
package cache

import (
	"context"
	"encoding/json"

	"guidance-engine/internal/common/logger"
	"guidance-engine/internal/common/metrics"
	"guidance-engine/internal/models"
)

// DefaultNamespace prefixes every payload cache key.
const DefaultNamespace = "guidance:daily"

// Store persists GuidancePayloads keyed by (fingerprint, dateKey).
type Store struct {
	kv        KeyValue
	namespace string
	logger    logger.Logger
}

func NewStore(kv KeyValue, namespace string, log logger.Logger) *Store {
	if namespace == "" {
		namespace = DefaultNamespace
	}
	return &Store{
		kv:        kv,
		namespace: namespace,
		logger:    log.WithFields(map[string]interface{}{"component": "cache-store"}),
	}
}

// Key builds the storage key for one (fingerprint, dateKey) pair.
// Distinct dateKeys never share an entry, even for the same fingerprint.
func (s *Store) Key(fingerprint, dateKey string) string {
	return s.namespace + ":" + fingerprint + ":" + dateKey
}

// Get returns the cached payload for the pair, or (nil, false) when the
// entry is missing, unreadable, or the medium is unavailable. This is
// the one permitted silent failure in the pipeline.
func (s *Store) Get(ctx context.Context, fingerprint, dateKey string) (*models.GuidancePayload, bool) {
	raw, ok := s.kv.GetString(ctx, s.Key(fingerprint, dateKey))
	if !ok {
		metrics.CacheMisses.Inc()
		return nil, false
	}

	var payload models.GuidancePayload
	if err := json.Unmarshal([]byte(raw), &payload); err != nil {
		s.logger.Warn("discarding unreadable cache entry", map[string]interface{}{
			"dateKey": dateKey,
			"error":   err,
		})
		metrics.CacheMisses.Inc()
		return nil, false
	}

	metrics.CacheHits.Inc()
	return &payload, true
}

// Set writes the payload for the pair. Serialization or storage errors
// are swallowed; caching is best-effort.
func (s *Store) Set(ctx context.Context, fingerprint, dateKey string, payload *models.GuidancePayload) {
	if payload == nil {
		return
	}
	data, err := json.Marshal(payload)
	if err != nil {
		s.logger.Warn("cache write skipped", map[string]interface{}{
			"dateKey": dateKey,
			"error":   err,
		})
		return
	}
	s.kv.SetString(ctx, s.Key(fingerprint, dateKey), string(data))
}
