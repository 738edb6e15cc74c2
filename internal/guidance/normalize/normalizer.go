// internal/guidance/normalize/normalizer.go

// Package normalize turns a RawBundle into the canonical GuidancePayload.
// Build is a pure transform: no wall-clock reads beyond the passed-in
// now, no randomness, and every output field resolves to a safe default
// when its source field is absent.
package normalize

import (
	"fmt"
	"time"

	"guidance-engine/internal/models"
)

// DefaultOverviewMaxRunes caps the per-area overview text.
const DefaultOverviewMaxRunes = 160

// Ellipsis marks truncated overview text.
const Ellipsis = "…"

// Documented defaults for fields whose source is absent.
const (
	defaultHeadline      = "Your day at a glance"
	defaultParagraph     = "A steady day. Planetary influences are balanced, with no single area dominating."
	defaultFocus         = "Keep to your usual routine."
	defaultAvoid         = "Avoid forcing outcomes on matters that can wait."
	defaultHint          = "No specific guidance for this area today."
	defaultOverview      = "Influences for this area are neutral today."
	defaultDetail        = "No detailed reading is available for this area today."
	defaultRemedy        = "Spend a few quiet minutes outdoors after sunrise."
	defaultDecisionBasis = "Overall favorability across life areas."
	defaultEnergyNote    = "Typical energy for this part of the day."
)

// Normalizer builds payloads with a configurable overview cap.
type Normalizer struct {
	overviewMaxRunes int
}

func New(overviewMaxRunes int) *Normalizer {
	if overviewMaxRunes <= 0 {
		overviewMaxRunes = DefaultOverviewMaxRunes
	}
	return &Normalizer{overviewMaxRunes: overviewMaxRunes}
}

// Build assembles the payload from the bundle. It never fails: absent
// sources degrade to defaults. The bundle's horoscope entry is expected
// to have passed the aggregator's emptiness check; even so, a fully
// empty one yields an all-neutral payload rather than a panic.
func (n *Normalizer) Build(bundle *models.RawBundle, profile models.Profile, dateKey string, now time.Time) *models.GuidancePayload {
	horoscope := bundle.Data(models.SourceHoroscope)
	areaData := indexAreas(horoscope)

	areas := make([]models.AreaRow, 0, len(models.LifeAreas))
	quick := make([]models.QuickMetric, 0, len(models.LifeAreas))
	total := 0
	for _, key := range models.LifeAreas {
		entry := areaData[key]

		score := NeutralScore
		if v, ok := numberField(entry, "favorability"); ok {
			score = Clamp(int(v))
		}
		total += score

		overview := Truncate(stringField(entry, "insight", defaultOverview), n.overviewMaxRunes)
		detail := stringField(entry, "detail", "")
		if detail == "" {
			detail = stringField(entry, "insight", defaultDetail)
		}

		areas = append(areas, models.AreaRow{
			Area:     key,
			Score:    score,
			Status:   Status(score),
			Overview: overview,
			Detail:   detail,
		})
		quick = append(quick, models.QuickMetric{
			Area:   key,
			Score:  score,
			Status: Status(score),
			Hint:   Truncate(stringField(entry, "hint", defaultHint), n.overviewMaxRunes),
		})
	}
	average := total / len(models.LifeAreas)

	best, worst := rankAreas(areas)

	return &models.GuidancePayload{
		Header:       buildHeader(bundle, profile, now),
		QuickMetrics: quick,
		Hero:         buildHero(horoscope),
		Areas:        areas,
		BestArea:     best,
		WorstArea:    worst,
		Decision:     buildDecision(bundle, average, worst),
		Energy:       buildEnergy(bundle, average),
		Remedy:       stringField(bundle.Data(models.SourceRemedy), "remedy", defaultRemedy),
		Mantra:       stringField(bundle.Data(models.SourceRemedy), "mantra", ""),
		Nakshatra:    buildNakshatra(bundle),
		Transits:     buildTransits(bundle),
		Activities:   stringListField(bundle.Data(models.SourceNakshatra), "activities"),
		Meta: models.Meta{
			GeneratedAt: now.UTC(),
			Subject:     profile.Name,
			DateKey:     dateKey,
		},
	}
}

// indexAreas maps the horoscope's area list by area key.
func indexAreas(horoscope map[string]interface{}) map[string]map[string]interface{} {
	out := make(map[string]map[string]interface{})
	if horoscope == nil {
		return out
	}
	list, _ := horoscope["areas"].([]interface{})
	for _, item := range list {
		entry, ok := item.(map[string]interface{})
		if !ok {
			continue
		}
		key, _ := entry["area"].(string)
		if key == "" {
			continue
		}
		if _, exists := out[key]; !exists {
			out[key] = entry
		}
	}
	return out
}

// rankAreas picks best and worst by plain numeric comparison. Ties
// resolve to the first-encountered element, which keeps the result
// stable for equal scores.
func rankAreas(areas []models.AreaRow) (best, worst string) {
	if len(areas) == 0 {
		return "", ""
	}
	bestIdx, worstIdx := 0, 0
	for i, row := range areas {
		if row.Score > areas[bestIdx].Score {
			bestIdx = i
		}
		if row.Score < areas[worstIdx].Score {
			worstIdx = i
		}
	}
	return areas[bestIdx].Area, areas[worstIdx].Area
}

func buildHeader(bundle *models.RawBundle, profile models.Profile, now time.Time) models.Header {
	name := profile.Name
	if name == "" {
		name = "there"
	}

	var greeting string
	switch hour := localHour(profile, now); {
	case hour < 12:
		greeting = fmt.Sprintf("Good morning, %s", name)
	case hour < 17:
		greeting = fmt.Sprintf("Good afternoon, %s", name)
	default:
		greeting = fmt.Sprintf("Good evening, %s", name)
	}

	return models.Header{
		DateLabel:  localDate(profile, now).Format("Monday, 2 January 2006"),
		Greeting:   greeting,
		LunarPhase: stringField(bundle.Data(models.SourcePanchang), "lunarPhase", ""),
	}
}

func localHour(profile models.Profile, now time.Time) int {
	return localDate(profile, now).Hour()
}

func localDate(profile models.Profile, now time.Time) time.Time {
	loc, err := time.LoadLocation(profile.Timezone)
	if err != nil || profile.Timezone == "" {
		return now
	}
	return now.In(loc)
}

func buildHero(horoscope map[string]interface{}) models.HeroSummary {
	paragraphs := stringListField(horoscope, "paragraphs")
	if len(paragraphs) == 0 {
		if synthesis := stringField(horoscope, "synthesis", ""); synthesis != "" {
			paragraphs = []string{synthesis}
		} else {
			paragraphs = []string{defaultParagraph}
		}
	}
	if len(paragraphs) > 3 {
		paragraphs = paragraphs[:3]
	}

	return models.HeroSummary{
		Headline:   stringField(horoscope, "headline", defaultHeadline),
		Paragraphs: paragraphs,
		Focus:      stringField(horoscope, "focus", defaultFocus),
		Avoid:      stringField(horoscope, "avoid", defaultAvoid),
	}
}

func buildDecision(bundle *models.RawBundle, average int, worst string) models.DecisionBlock {
	dasha := bundle.Data(models.SourceDasha)

	basis := stringField(dasha, "theme", defaultDecisionBasis)
	favorable := average >= thresholdFavorable

	var recommendation string
	if favorable {
		recommendation = "A supportive day for commitments and major decisions."
	} else if average >= thresholdNeutral {
		recommendation = fmt.Sprintf("Routine decisions are fine; hold major %s moves for a stronger day.", worst)
	} else {
		recommendation = "Defer major decisions; review and prepare instead."
	}

	return models.DecisionBlock{
		Favorable:      favorable,
		Recommendation: recommendation,
		Basis:          basis,
	}
}

// buildEnergy prefers per-period scores from the panchang source and
// otherwise derives a gentle curve around the day's average.
func buildEnergy(bundle *models.RawBundle, average int) []models.EnergyPeriod {
	panchang := bundle.Data(models.SourcePanchang)

	periods := []struct {
		name   string
		offset int
	}{
		{"morning", +5},
		{"afternoon", 0},
		{"evening", -5},
	}

	provided := make(map[string]map[string]interface{})
	if panchang != nil {
		list, _ := panchang["periods"].([]interface{})
		for _, item := range list {
			entry, ok := item.(map[string]interface{})
			if !ok {
				continue
			}
			if name, _ := entry["period"].(string); name != "" {
				provided[name] = entry
			}
		}
	}

	out := make([]models.EnergyPeriod, 0, len(periods))
	for _, p := range periods {
		score := Clamp(average + p.offset)
		note := defaultEnergyNote
		if entry, ok := provided[p.name]; ok {
			if v, ok := numberField(entry, "score"); ok {
				score = Clamp(int(v))
			}
			note = stringField(entry, "note", defaultEnergyNote)
		}
		out = append(out, models.EnergyPeriod{Period: p.name, Score: score, Note: note})
	}
	return out
}

func buildNakshatra(bundle *models.RawBundle) models.NakshatraInfo {
	data := bundle.Data(models.SourceNakshatra)
	pada := 0
	if v, ok := numberField(data, "pada"); ok {
		pada = int(v)
	}
	return models.NakshatraInfo{
		Name:  stringField(data, "nakshatra", ""),
		Pada:  pada,
		Deity: stringField(data, "deity", ""),
	}
}

func buildTransits(bundle *models.RawBundle) []models.Transit {
	data := bundle.Data(models.SourceTransits)
	out := []models.Transit{}
	if data == nil {
		return out
	}
	list, _ := data["transits"].([]interface{})
	for _, item := range list {
		entry, ok := item.(map[string]interface{})
		if !ok {
			continue
		}
		out = append(out, models.Transit{
			Planet:   stringField(entry, "planet", ""),
			Movement: stringField(entry, "movement", ""),
			Effect:   stringField(entry, "effect", ""),
		})
	}
	return out
}

// Truncate caps s at max runes, appending the ellipsis marker when it
// actually cut something. Rune-based so multi-byte text never splits
// mid-character.
func Truncate(s string, max int) string {
	if max <= 0 {
		return s
	}
	runes := []rune(s)
	if len(runes) <= max {
		return s
	}
	return string(runes[:max]) + Ellipsis
}

// --- field extraction helpers; every absent value folds to a default ---

func stringField(data map[string]interface{}, key, fallback string) string {
	if data == nil {
		return fallback
	}
	if v, ok := data[key].(string); ok && v != "" {
		return v
	}
	return fallback
}

func numberField(data map[string]interface{}, key string) (float64, bool) {
	if data == nil {
		return 0, false
	}
	switch v := data[key].(type) {
	case float64:
		return v, true
	case int:
		return float64(v), true
	}
	return 0, false
}

func stringListField(data map[string]interface{}, key string) []string {
	out := []string{}
	if data == nil {
		return out
	}
	list, _ := data[key].([]interface{})
	for _, item := range list {
		if s, ok := item.(string); ok && s != "" {
			out = append(out, s)
		}
	}
	return out
}
