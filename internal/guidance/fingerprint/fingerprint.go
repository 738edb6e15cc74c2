// internal/guidance/fingerprint/fingerprint.go

// Package fingerprint derives the deterministic cache identity of a profile.
package fingerprint

import (
	"strconv"
	"strings"

	"guidance-engine/internal/models"
)

// Separator joins the identity fields. Chosen to never appear in the
// fields themselves (names, dates, zone names, coordinates).
const Separator = "|"

// Compute returns the deterministic identity string for a profile.
// It is a pure function of the identity fields: the persisted identifier
// (or the display name when no identifier exists), birth date, birth time,
// timezone, coordinates, and location label. Presentation-only fields do
// not participate. Missing fields fold in as empty strings, so Compute is
// total and never fails.
func Compute(p models.Profile) string {
	ident := p.ID
	if ident == "" {
		ident = p.Name
	}

	parts := []string{
		ident,
		p.BirthDate,
		p.BirthTime,
		p.Timezone,
		formatCoord(p.Latitude),
		formatCoord(p.Longitude),
		p.Place,
	}
	return strings.Join(parts, Separator)
}

// formatCoord renders a coordinate with the shortest exact representation
// so equal float values always produce byte-identical strings.
func formatCoord(f float64) string {
	return strconv.FormatFloat(f, 'f', -1, 64)
}
