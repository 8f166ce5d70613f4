package roster

import (
	"context"
	"database/sql"
	"errors"
	"time"

	"github.com/google/uuid"
)

// ErrNotFound is returned when a student does not exist for the teacher.
var ErrNotFound = errors.New("student not found")

// Store is the persistence surface the service and handlers depend on.
type Store interface {
	Insert(ctx context.Context, st Student) (Student, error)
	Update(ctx context.Context, teacherID, id, name, class, section string) (Student, error)
	List(ctx context.Context, teacherID string) ([]Student, error)
	GetByID(ctx context.Context, teacherID, id string) (Student, error)
	Codes(ctx context.Context, teacherID string) ([]string, error)
	SetQRCodeURL(ctx context.Context, code, url string) error
}

// Repository persists students in Postgres.
type Repository struct {
	db *sql.DB
}

// NewRepository creates a repo.
func NewRepository(db *sql.DB) *Repository {
	return &Repository{db: db}
}

const studentColumns = `id, teacher_id, name, class, section, student_code, qr_code_url, created_at`

// Insert writes a new student row.
func (r *Repository) Insert(ctx context.Context, st Student) (Student, error) {
	if st.ID == "" {
		st.ID = uuid.NewString()
	}
	if st.CreatedAt.IsZero() {
		st.CreatedAt = time.Now().UTC()
	}
	_, err := r.db.ExecContext(ctx, `
		INSERT INTO students (id, teacher_id, name, class, section, student_code, qr_code_url, created_at)
		VALUES ($1,$2,$3,$4,$5,$6,$7,$8)
	`, st.ID, st.TeacherID, st.Name, st.Class, st.Section, st.Code, st.QRCodeURL, st.CreatedAt)
	if err != nil {
		return Student{}, err
	}
	return st, nil
}

// Update rewrites the mutable fields of a student. The credential code is
// immutable and deliberately not touched here.
func (r *Repository) Update(ctx context.Context, teacherID, id, name, class, section string) (Student, error) {
	row := r.db.QueryRowContext(ctx, `
		UPDATE students SET name = $3, class = $4, section = $5
		WHERE id = $1 AND teacher_id = $2
		RETURNING `+studentColumns+`
	`, id, teacherID, name, class, section)
	st, err := scanStudent(row)
	if errors.Is(err, sql.ErrNoRows) {
		return Student{}, ErrNotFound
	}
	return st, err
}

// List returns the teacher's full roster ordered by class, section, name.
func (r *Repository) List(ctx context.Context, teacherID string) ([]Student, error) {
	rows, err := r.db.QueryContext(ctx, `
		SELECT `+studentColumns+` FROM students
		WHERE teacher_id = $1
		ORDER BY class, section, name
	`, teacherID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()
	var res []Student
	for rows.Next() {
		st, err := scanStudent(rows)
		if err != nil {
			return nil, err
		}
		res = append(res, st)
	}
	return res, rows.Err()
}

// GetByID returns one student scoped to the owning teacher.
func (r *Repository) GetByID(ctx context.Context, teacherID, id string) (Student, error) {
	row := r.db.QueryRowContext(ctx, `
		SELECT `+studentColumns+` FROM students WHERE id = $1 AND teacher_id = $2
	`, id, teacherID)
	st, err := scanStudent(row)
	if errors.Is(err, sql.ErrNoRows) {
		return Student{}, ErrNotFound
	}
	return st, err
}

// Codes returns every credential code on the teacher's roster. This feeds
// the scan session's roster snapshot.
func (r *Repository) Codes(ctx context.Context, teacherID string) ([]string, error) {
	rows, err := r.db.QueryContext(ctx, `
		SELECT student_code FROM students WHERE teacher_id = $1
	`, teacherID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()
	var codes []string
	for rows.Next() {
		var code string
		if err := rows.Scan(&code); err != nil {
			return nil, err
		}
		codes = append(codes, code)
	}
	return codes, rows.Err()
}

// SetQRCodeURL records the uploaded QR image URL for a student code.
func (r *Repository) SetQRCodeURL(ctx context.Context, code, url string) error {
	_, err := r.db.ExecContext(ctx, `
		UPDATE students SET qr_code_url = $2 WHERE student_code = $1
	`, code, url)
	return err
}

type rowScanner interface {
	Scan(dest ...any) error
}

func scanStudent(row rowScanner) (Student, error) {
	var st Student
	err := row.Scan(&st.ID, &st.TeacherID, &st.Name, &st.Class, &st.Section, &st.Code, &st.QRCodeURL, &st.CreatedAt)
	return st, err
}
