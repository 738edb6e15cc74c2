// internal/guidance/normalize/status.go
package normalize

import "guidance-engine/internal/models"

// Status thresholds, inclusive on the lower bound. Applied identically
// everywhere a band is derived from a score.
const (
	thresholdExcellent = 85
	thresholdFavorable = 70
	thresholdNeutral   = 50
	thresholdSensitive = 30
)

// NeutralScore is the documented per-area default when the primary
// source omits an area.
const NeutralScore = 50

// Clamp forces a raw favorability value into [0,100].
func Clamp(score int) int {
	if score < 0 {
		return 0
	}
	if score > 100 {
		return 100
	}
	return score
}

// Status maps a clamped score to its band.
func Status(score int) models.StatusBand {
	switch {
	case score >= thresholdExcellent:
		return models.StatusExcellent
	case score >= thresholdFavorable:
		return models.StatusFavorable
	case score >= thresholdNeutral:
		return models.StatusNeutral
	case score >= thresholdSensitive:
		return models.StatusSensitive
	default:
		return models.StatusCaution
	}
}
