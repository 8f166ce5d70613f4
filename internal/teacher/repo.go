// Package teacher stores the signed-in teacher's profile and the refresh
// tokens backing session rotation. Identity itself is delegated to
// Google; this package only keeps what the service needs locally.
package teacher

import (
	"context"
	"database/sql"
	"errors"
	"time"

	"github.com/google/uuid"
)

// ErrNotFound is returned when no teacher matches.
var ErrNotFound = errors.New("teacher not found")

// Teacher is the local profile row for one Google identity.
type Teacher struct {
	ID        string    `json:"id"`
	GoogleID  string    `json:"-"`
	Email     string    `json:"email"`
	Name      string    `json:"name"`
	School    string    `json:"school"`
	CreatedAt time.Time `json:"created_at"`
	UpdatedAt time.Time `json:"updated_at"`
}

// Store is the persistence surface handlers depend on.
type Store interface {
	UpsertByGoogleID(ctx context.Context, googleID, email, name string) (Teacher, error)
	Get(ctx context.Context, id string) (Teacher, error)
	UpdateProfile(ctx context.Context, id, name, school string) (Teacher, error)
	SaveRefreshToken(ctx context.Context, teacherID, token string, expiresAt time.Time) error
	RefreshTokenTeacher(ctx context.Context, token string) (string, error)
	RevokeRefreshToken(ctx context.Context, token string) error
}

// Repository persists teachers in Postgres.
type Repository struct {
	db *sql.DB
}

// NewRepository creates a repo.
func NewRepository(db *sql.DB) *Repository {
	return &Repository{db: db}
}

const teacherColumns = `id, google_id, email, name, school, created_at, updated_at`

// UpsertByGoogleID creates the profile on first sign-in and refreshes
// email/name on every later one.
func (r *Repository) UpsertByGoogleID(ctx context.Context, googleID, email, name string) (Teacher, error) {
	row := r.db.QueryRowContext(ctx, `
		INSERT INTO teachers (id, google_id, email, name)
		VALUES ($1, $2, $3, $4)
		ON CONFLICT (google_id) DO UPDATE SET
			email = EXCLUDED.email,
			name = CASE WHEN teachers.name = '' THEN EXCLUDED.name ELSE teachers.name END,
			updated_at = NOW()
		RETURNING `+teacherColumns+`
	`, uuid.NewString(), googleID, email, name)
	return scanTeacher(row)
}

// Get returns one teacher by id.
func (r *Repository) Get(ctx context.Context, id string) (Teacher, error) {
	row := r.db.QueryRowContext(ctx, `
		SELECT `+teacherColumns+` FROM teachers WHERE id = $1
	`, id)
	t, err := scanTeacher(row)
	if errors.Is(err, sql.ErrNoRows) {
		return Teacher{}, ErrNotFound
	}
	return t, err
}

// UpdateProfile edits the mutable profile fields.
func (r *Repository) UpdateProfile(ctx context.Context, id, name, school string) (Teacher, error) {
	row := r.db.QueryRowContext(ctx, `
		UPDATE teachers SET name = $2, school = $3, updated_at = NOW()
		WHERE id = $1
		RETURNING `+teacherColumns+`
	`, id, name, school)
	t, err := scanTeacher(row)
	if errors.Is(err, sql.ErrNoRows) {
		return Teacher{}, ErrNotFound
	}
	return t, err
}

// SaveRefreshToken stores a refresh token for rotation checks.
func (r *Repository) SaveRefreshToken(ctx context.Context, teacherID, token string, expiresAt time.Time) error {
	_, err := r.db.ExecContext(ctx, `
		INSERT INTO refresh_tokens (token, teacher_id, expires_at)
		VALUES ($1, $2, $3)
	`, token, teacherID, expiresAt)
	return err
}

// RefreshTokenTeacher returns the teacher id a live refresh token belongs
// to, or ErrNotFound when the token is unknown, revoked, or expired.
func (r *Repository) RefreshTokenTeacher(ctx context.Context, token string) (string, error) {
	row := r.db.QueryRowContext(ctx, `
		SELECT teacher_id FROM refresh_tokens
		WHERE token = $1 AND NOT revoked AND expires_at > NOW()
	`, token)
	var teacherID string
	if err := row.Scan(&teacherID); err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return "", ErrNotFound
		}
		return "", err
	}
	return teacherID, nil
}

// RevokeRefreshToken marks a token revoked.
func (r *Repository) RevokeRefreshToken(ctx context.Context, token string) error {
	_, err := r.db.ExecContext(ctx, `UPDATE refresh_tokens SET revoked = TRUE WHERE token = $1`, token)
	return err
}

type rowScanner interface {
	Scan(dest ...any) error
}

func scanTeacher(row rowScanner) (Teacher, error) {
	var t Teacher
	err := row.Scan(&t.ID, &t.GoogleID, &t.Email, &t.Name, &t.School, &t.CreatedAt, &t.UpdatedAt)
	return t, err
}
