package store

import (
	"context"
	"database/sql"
	"log"
)

var schemaStatements = []string{
	`CREATE TABLE IF NOT EXISTS teachers (
		id UUID PRIMARY KEY,
		google_id TEXT UNIQUE NOT NULL,
		email TEXT NOT NULL,
		name TEXT NOT NULL DEFAULT '',
		school TEXT NOT NULL DEFAULT '',
		created_at TIMESTAMPTZ NOT NULL DEFAULT NOW(),
		updated_at TIMESTAMPTZ NOT NULL DEFAULT NOW()
	)`,
	`CREATE TABLE IF NOT EXISTS refresh_tokens (
		token TEXT PRIMARY KEY,
		teacher_id UUID NOT NULL,
		expires_at TIMESTAMPTZ NOT NULL,
		revoked BOOLEAN NOT NULL DEFAULT FALSE,
		created_at TIMESTAMPTZ NOT NULL DEFAULT NOW()
	)`,
	`CREATE TABLE IF NOT EXISTS students (
		id UUID PRIMARY KEY,
		teacher_id UUID NOT NULL,
		name TEXT NOT NULL,
		class TEXT NOT NULL,
		section TEXT NOT NULL,
		student_code CHAR(8) UNIQUE NOT NULL,
		qr_code_url TEXT NOT NULL DEFAULT '',
		created_at TIMESTAMPTZ NOT NULL DEFAULT NOW()
	)`,
	// One record per (teacher, student, day) is checked against the scan
	// session snapshot before writing, not enforced with a unique index.
	// Two devices scanning the same student can still race; see DESIGN.md.
	`CREATE TABLE IF NOT EXISTS attendance_records (
		id UUID PRIMARY KEY,
		teacher_id UUID NOT NULL,
		student_code CHAR(8) NOT NULL,
		day DATE NOT NULL,
		recorded_at TIMESTAMPTZ NOT NULL,
		status TEXT NOT NULL CHECK (status IN ('present', 'on_leave'))
	)`,
	`CREATE INDEX IF NOT EXISTS idx_attendance_teacher_day ON attendance_records (teacher_id, day)`,
	`CREATE TABLE IF NOT EXISTS holidays (
		id UUID PRIMARY KEY,
		teacher_id UUID NOT NULL,
		name TEXT NOT NULL,
		day DATE NOT NULL,
		range_id UUID NOT NULL
	)`,
	`CREATE INDEX IF NOT EXISTS idx_holidays_range ON holidays (range_id)`,
}

// EnsureSchema applies the base schema. Statements are idempotent so the
// call is safe on every startup.
func EnsureSchema(ctx context.Context, db *sql.DB) error {
	log.Println("ensuring database schema...")
	for _, stmt := range schemaStatements {
		if _, err := db.ExecContext(ctx, stmt); err != nil {
			return err
		}
	}
	log.Println("database schema ready")
	return nil
}
