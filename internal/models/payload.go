// internal/models/payload.go
package models

import "time"

// StatusBand is the qualitative bucket a favorability score maps into.
type StatusBand string

const (
	StatusExcellent StatusBand = "excellent"
	StatusFavorable StatusBand = "favorable"
	StatusNeutral   StatusBand = "neutral"
	StatusSensitive StatusBand = "sensitive"
	StatusCaution   StatusBand = "caution"
)

// BandRank orders status bands from worst to best for comparisons.
func BandRank(s StatusBand) int {
	switch s {
	case StatusCaution:
		return 0
	case StatusSensitive:
		return 1
	case StatusNeutral:
		return 2
	case StatusFavorable:
		return 3
	case StatusExcellent:
		return 4
	}
	return -1
}

// LifeArea keys, in the fixed display order used everywhere.
const (
	AreaCareer        = "career"
	AreaWealth        = "wealth"
	AreaRelationships = "relationships"
	AreaHealth        = "health"
	AreaTravel        = "travel"
	AreaLearning      = "learning"
)

// LifeAreas is the canonical ordered list of life-area keys.
var LifeAreas = []string{
	AreaCareer,
	AreaWealth,
	AreaRelationships,
	AreaHealth,
	AreaTravel,
	AreaLearning,
}

// Header carries the top-of-page labels.
type Header struct {
	DateLabel  string `json:"dateLabel"`
	Greeting   string `json:"greeting"`
	LunarPhase string `json:"lunarPhase"`
}

// QuickMetric is one tile in the metrics strip.
type QuickMetric struct {
	Area   string     `json:"area"`
	Score  int        `json:"score"`
	Status StatusBand `json:"status"`
	Hint   string     `json:"hint"`
}

// HeroSummary is the banner block under the header.
type HeroSummary struct {
	Headline   string   `json:"headline"`
	Paragraphs []string `json:"paragraphs"` // 1-3 short paragraphs
	Focus      string   `json:"focus"`
	Avoid      string   `json:"avoid"`
}

// AreaRow is one expandable per-life-area row.
type AreaRow struct {
	Area     string     `json:"area"`
	Score    int        `json:"score"`
	Status   StatusBand `json:"status"`
	Overview string     `json:"overview"`
	Detail   string     `json:"detail"`
}

// DecisionBlock recommends whether the day suits major decisions.
type DecisionBlock struct {
	Favorable      bool   `json:"favorable"`
	Recommendation string `json:"recommendation"`
	Basis          string `json:"basis"`
}

// EnergyPeriod is one slot of the three-period energy profile.
type EnergyPeriod struct {
	Period string `json:"period"` // morning | afternoon | evening
	Score  int    `json:"score"`
	Note   string `json:"note"`
}

// Transit is one entry of the planetary transit list.
type Transit struct {
	Planet   string `json:"planet"`
	Movement string `json:"movement"`
	Effect   string `json:"effect"`
}

// NakshatraInfo is the lunar-mansion widget.
type NakshatraInfo struct {
	Name  string `json:"name"`
	Pada  int    `json:"pada"`
	Deity string `json:"deity"`
}

// Meta records where a payload came from.
type Meta struct {
	GeneratedAt time.Time `json:"generatedAt"`
	Subject     string    `json:"subject"`
	DateKey     string    `json:"dateKey"`
}

// GuidancePayload is the canonical daily guidance output. Every field is
// always populated; absent sources resolve to documented defaults, never
// to nil required fields.
type GuidancePayload struct {
	Header       Header         `json:"header"`
	QuickMetrics []QuickMetric  `json:"quickMetrics"`
	Hero         HeroSummary    `json:"hero"`
	Areas        []AreaRow      `json:"areas"`
	BestArea     string         `json:"bestArea"`
	WorstArea    string         `json:"worstArea"`
	Decision     DecisionBlock  `json:"decision"`
	Energy       []EnergyPeriod `json:"energy"`
	Remedy       string         `json:"remedy"`
	Mantra       string         `json:"mantra"`
	Nakshatra    NakshatraInfo  `json:"nakshatra"`
	Transits     []Transit      `json:"transits"`
	Activities   []string       `json:"activities"`
	Meta         Meta           `json:"meta"`
}
