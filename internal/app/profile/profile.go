/*
Package profile contains the user profile domain: the denormalized Profile
record, its Postgres repository, the per-view state store, form validation
rules, and the update coordinator that serializes profile submissions.
*/
package profile

import (
	"context"
	"errors"
	"fmt"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"
)

// ErrNotFound is returned when no profile row exists for the requested user.
var ErrNotFound = errors.New("profile: not found")

// Profile is the denormalized profile record, one per authenticated user,
// created at signup time and mutated only through the UpdateCoordinator.
// An empty AvatarURL means no avatar has been uploaded.
type Profile struct {
	ID        string `json:"id"`
	Email     string `json:"email"`
	Name      string `json:"name"`
	Introduce string `json:"introduce"`
	AvatarURL string `json:"avatarUrl"`
}

// UpdateFields carries the mutable profile columns for a single update.
// A nil AvatarURL leaves the stored avatar reference untouched; a pointer to
// the empty string clears it.
type UpdateFields struct {
	Name      string
	Introduce string
	AvatarURL *string
}

// Repository is the persistence interface consumed by the coordinator and handlers.
type Repository interface {
	GetByID(ctx context.Context, id string) (*Profile, error)
	Update(ctx context.Context, id string, fields UpdateFields) (*Profile, error)
}

// PGRepository implements Repository against the profiles table.
type PGRepository struct {
	pool *pgxpool.Pool
}

// NewPGRepository constructs the Postgres-backed repository.
func NewPGRepository(pool *pgxpool.Pool) *PGRepository {
	return &PGRepository{pool: pool}
}

// GetByID fetches the profile row for the given user id.
func (r *PGRepository) GetByID(ctx context.Context, id string) (*Profile, error) {
	row := r.pool.QueryRow(ctx,
		`SELECT id, email, name, introduce, COALESCE(avatar_url, '')
		   FROM profiles
		  WHERE id = $1`, id)

	var p Profile
	if err := row.Scan(&p.ID, &p.Email, &p.Name, &p.Introduce, &p.AvatarURL); err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, ErrNotFound
		}
		return nil, fmt.Errorf("profile: query by id: %w", err)
	}

	return &p, nil
}

// Update persists the mutable fields for the given user id and returns the
// fully resolved row. The avatar column is only written when fields.AvatarURL
// is non-nil, so updates without a new avatar never disturb the stored URL.
func (r *PGRepository) Update(ctx context.Context, id string, fields UpdateFields) (*Profile, error) {
	hasAvatar := fields.AvatarURL != nil
	avatarURL := ""
	if hasAvatar {
		avatarURL = *fields.AvatarURL
	}

	row := r.pool.QueryRow(ctx,
		`UPDATE profiles
		    SET name = $2,
		        introduce = $3,
		        avatar_url = CASE WHEN $4 THEN NULLIF($5, '') ELSE avatar_url END,
		        updated_at = now()
		  WHERE id = $1
		  RETURNING id, email, name, introduce, COALESCE(avatar_url, '')`,
		id, fields.Name, fields.Introduce, hasAvatar, avatarURL)

	var p Profile
	if err := row.Scan(&p.ID, &p.Email, &p.Name, &p.Introduce, &p.AvatarURL); err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, ErrNotFound
		}
		return nil, fmt.Errorf("profile: update: %w", err)
	}

	return &p, nil
}
