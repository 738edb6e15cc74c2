// internal/guidance/sources/source.go

// Package sources holds the clients for the remote guidance data
// sources. Each source is an opaque JSON-over-HTTP collaborator: the
// engine submits a profile-derived request plus a dateKey and receives
// a JSON object or an error.
package sources

import (
	"context"

	"guidance-engine/internal/models"
)

// Client fetches one source's raw result for a (profile, dateKey) pair.
type Client interface {
	Name() models.SourceName
	// Fallback reports whether a failure of this source may be absorbed
	// by defaults (true) or must abort the pipeline (false).
	Degrades() bool
	Fetch(ctx context.Context, profile models.Profile, dateKey string) (map[string]interface{}, error)
}

// request is the wire shape every source accepts.
type request struct {
	Name      string  `json:"name"`
	BirthDate string  `json:"birthDate"`
	BirthTime string  `json:"birthTime"`
	Timezone  string  `json:"timezone"`
	Latitude  float64 `json:"latitude"`
	Longitude float64 `json:"longitude"`
	Place     string  `json:"place"`
	Date      string  `json:"date"`
}

func newRequest(p models.Profile, dateKey string) request {
	return request{
		Name:      p.Name,
		BirthDate: p.BirthDate,
		BirthTime: p.BirthTime,
		Timezone:  p.Timezone,
		Latitude:  p.Latitude,
		Longitude: p.Longitude,
		Place:     p.Place,
		Date:      dateKey,
	}
}
