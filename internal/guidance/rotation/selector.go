// internal/guidance/rotation/selector.go

// Package rotation deterministically selects which optional content
// cards a dashboard surfaces for one day. Selections are persisted per
// rotation key and returned verbatim thereafter: idempotence takes
// priority over re-randomizing.
package rotation

import (
	"context"
	"encoding/json"

	"guidance-engine/internal/common/logger"
	"guidance-engine/internal/guidance/cache"
	"guidance-engine/internal/models"
)

// DefaultPool is the fixed pool of optional category tags.
var DefaultPool = []string{
	"mood-tracker",
	"affirmation",
	"mantra-practice",
	"gemstone",
	"color-of-day",
	"compatibility",
	"meditation",
	"journal-prompt",
}

// Selection size bounds.
const (
	DefaultMinTags = 2
	DefaultMaxTags = 4
)

const keyPrefix = "guidance:rotation:"

// Hints bias the selection toward categories the user just interacted
// with. They influence only the first computation for a key; an
// existing persisted selection always wins.
type Hints struct {
	MoodLogged       bool
	LastExpandedArea string
}

// areaCompanions maps a life area to the optional card that complements it.
var areaCompanions = map[string]string{
	models.AreaCareer:        "affirmation",
	models.AreaWealth:        "gemstone",
	models.AreaRelationships: "compatibility",
	models.AreaHealth:        "meditation",
	models.AreaTravel:        "color-of-day",
	models.AreaLearning:      "journal-prompt",
}

type Selector struct {
	store   cache.KeyValue
	pool    []string
	minTags int
	maxTags int
	logger  logger.Logger
}

func NewSelector(store cache.KeyValue, pool []string, minTags, maxTags int, log logger.Logger) *Selector {
	if len(pool) == 0 {
		pool = DefaultPool
	}
	if minTags <= 0 {
		minTags = DefaultMinTags
	}
	if maxTags < minTags {
		maxTags = DefaultMaxTags
	}
	if maxTags > len(pool) {
		maxTags = len(pool)
	}
	// A pool smaller than the requested minimum pulls the minimum down;
	// the bounds must stay ordered or compute's modulus collapses.
	if minTags > maxTags {
		minTags = maxTags
	}
	return &Selector{
		store:   store,
		pool:    pool,
		minTags: minTags,
		maxTags: maxTags,
		logger:  log.WithFields(map[string]interface{}{"component": "rotation"}),
	}
}

// Select returns the ordered distinct tags for rotationKey. A persisted
// selection is returned unchanged regardless of seed or hints; otherwise
// the selection is computed from the seed, persisted, and returned.
func (s *Selector) Select(ctx context.Context, rotationKey, seed string, hints Hints) []string {
	if existing, ok := s.load(ctx, rotationKey); ok {
		return existing
	}

	selection := s.compute(seed, hints)
	s.persist(ctx, rotationKey, selection)
	return selection
}

func (s *Selector) compute(seed string, hints Hints) []string {
	state := Hash32(seed)
	count := s.minTags + int(state%uint32(s.maxTags-s.minTags+1))

	selection := make([]string, 0, count)
	seen := make(map[string]bool, count)

	// Hint-implied tags queue first, never duplicated.
	for _, tag := range s.hintTags(hints) {
		if len(selection) == count {
			break
		}
		if !seen[tag] {
			selection = append(selection, tag)
			seen[tag] = true
		}
	}

	// Seeded pick-and-remove over the remaining pool: no replacement,
	// so the result can never repeat a tag.
	remaining := make([]string, 0, len(s.pool))
	for _, tag := range s.pool {
		if !seen[tag] {
			remaining = append(remaining, tag)
		}
	}
	for len(selection) < count && len(remaining) > 0 {
		state = step(state)
		idx := int(state % uint32(len(remaining)))
		selection = append(selection, remaining[idx])
		remaining = append(remaining[:idx], remaining[idx+1:]...)
	}

	return selection
}

// hintTags translates hints into priority tags, restricted to the pool.
func (s *Selector) hintTags(hints Hints) []string {
	var tags []string
	if hints.MoodLogged {
		tags = append(tags, "mood-tracker")
	}
	if companion, ok := areaCompanions[hints.LastExpandedArea]; ok {
		tags = append(tags, companion)
	}

	inPool := make(map[string]bool, len(s.pool))
	for _, tag := range s.pool {
		inPool[tag] = true
	}
	out := tags[:0]
	for _, tag := range tags {
		if inPool[tag] {
			out = append(out, tag)
		}
	}
	return out
}

func (s *Selector) load(ctx context.Context, rotationKey string) ([]string, bool) {
	raw, ok := s.store.GetString(ctx, keyPrefix+rotationKey)
	if !ok {
		return nil, false
	}
	var selection []string
	if err := json.Unmarshal([]byte(raw), &selection); err != nil || len(selection) == 0 {
		return nil, false
	}
	return selection, true
}

func (s *Selector) persist(ctx context.Context, rotationKey string, selection []string) {
	data, err := json.Marshal(selection)
	if err != nil {
		s.logger.Warn("rotation persist skipped", map[string]interface{}{
			"rotationKey": rotationKey,
			"error":       err,
		})
		return
	}
	s.store.SetString(ctx, keyPrefix+rotationKey, string(data))
}
