// internal/models/profile.go
package models

import "time"

// Profile identifies the subject daily guidance is generated for.
// Identity fields (ID-or-Name, BirthDate, BirthTime, Timezone, Latitude,
// Longitude, Place) drive caching; everything else is presentation-only.
type Profile struct {
	ID        string  `json:"id,omitempty"` // opaque persisted identifier, may be empty
	Name      string  `json:"name"`
	BirthDate string  `json:"birthDate"` // YYYY-MM-DD
	BirthTime string  `json:"birthTime"` // HH:MM, 24h clock
	Timezone  string  `json:"timezone"`  // IANA zone name
	Latitude  float64 `json:"latitude"`
	Longitude float64 `json:"longitude"`
	Place     string  `json:"place"`

	// Presentation-only fields, excluded from the fingerprint.
	AvatarColor string    `json:"avatarColor,omitempty"`
	CreatedAt   time.Time `json:"createdAt,omitempty"`
}

// DateKeyFor returns the canonical YYYY-MM-DD key for t in the profile's
// timezone. An unparseable zone falls back to t's own location so the key
// is always derivable.
func (p Profile) DateKeyFor(t time.Time) string {
	loc, err := time.LoadLocation(p.Timezone)
	if err != nil || p.Timezone == "" {
		loc = t.Location()
	}
	return t.In(loc).Format("2006-01-02")
}
