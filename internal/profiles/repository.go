// internal/profiles/repository.go

// Package profiles persists dashboard subject profiles. The guidance
// core does not depend on it; it exists so the manager binary and the
// surrounding dashboard can load stored subjects before requesting
// guidance.
package profiles

import (
	"context"
	"database/sql"
	"time"

	"github.com/google/uuid"

	"guidance-engine/internal/common/errors"
	"guidance-engine/internal/common/logger"
	"guidance-engine/internal/models"
)

type Repository struct {
	db     *sql.DB
	logger logger.Logger
}

func NewRepository(db *sql.DB, log logger.Logger) *Repository {
	return &Repository{
		db:     db,
		logger: log.WithFields(map[string]interface{}{"component": "profile-repository"}),
	}
}

// Save inserts or updates a profile and returns its identifier. A new
// profile gets a generated UUID; the caller's Profile is not mutated.
func (r *Repository) Save(ctx context.Context, p models.Profile) (string, error) {
	id := p.ID
	if id == "" {
		id = uuid.NewString()
	}
	createdAt := p.CreatedAt
	if createdAt.IsZero() {
		createdAt = time.Now().UTC()
	}

	_, err := r.db.ExecContext(ctx, `
		INSERT INTO dashboard_profiles
			(id, name, birth_date, birth_time, timezone, latitude, longitude, place, avatar_color, created_at)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10)
		ON CONFLICT (id) DO UPDATE SET
			name = EXCLUDED.name,
			birth_date = EXCLUDED.birth_date,
			birth_time = EXCLUDED.birth_time,
			timezone = EXCLUDED.timezone,
			latitude = EXCLUDED.latitude,
			longitude = EXCLUDED.longitude,
			place = EXCLUDED.place,
			avatar_color = EXCLUDED.avatar_color`,
		id, p.Name, p.BirthDate, p.BirthTime, p.Timezone, p.Latitude, p.Longitude, p.Place, p.AvatarColor, createdAt)
	if err != nil {
		return "", errors.NewProfileQueryFailedError(err)
	}
	return id, nil
}

// GetByID loads one stored profile.
func (r *Repository) GetByID(ctx context.Context, id string) (*models.Profile, error) {
	row := r.db.QueryRowContext(ctx, `
		SELECT id, name, birth_date, birth_time, timezone, latitude, longitude, place, avatar_color, created_at
		FROM dashboard_profiles WHERE id = $1`, id)

	var p models.Profile
	err := row.Scan(&p.ID, &p.Name, &p.BirthDate, &p.BirthTime, &p.Timezone,
		&p.Latitude, &p.Longitude, &p.Place, &p.AvatarColor, &p.CreatedAt)
	if err == sql.ErrNoRows {
		return nil, errors.NewProfileNotFoundError(id)
	}
	if err != nil {
		return nil, errors.NewProfileQueryFailedError(err)
	}
	return &p, nil
}

// List returns all stored profiles ordered by creation time.
func (r *Repository) List(ctx context.Context) ([]models.Profile, error) {
	rows, err := r.db.QueryContext(ctx, `
		SELECT id, name, birth_date, birth_time, timezone, latitude, longitude, place, avatar_color, created_at
		FROM dashboard_profiles ORDER BY created_at`)
	if err != nil {
		return nil, errors.NewProfileQueryFailedError(err)
	}
	defer rows.Close()

	var out []models.Profile
	for rows.Next() {
		var p models.Profile
		if err := rows.Scan(&p.ID, &p.Name, &p.BirthDate, &p.BirthTime, &p.Timezone,
			&p.Latitude, &p.Longitude, &p.Place, &p.AvatarColor, &p.CreatedAt); err != nil {
			return nil, errors.NewProfileQueryFailedError(err)
		}
		out = append(out, p)
	}
	if err := rows.Err(); err != nil {
		return nil, errors.NewProfileQueryFailedError(err)
	}
	return out, nil
}
