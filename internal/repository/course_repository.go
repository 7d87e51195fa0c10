package repository

import (
	"context"
	"database/sql"
	"errors"
	"fmt"

	"github.com/google/uuid"
	"github.com/jmoiron/sqlx"
)

// CourseRepository resolves courses by their external code.
type CourseRepository struct {
	db *sqlx.DB
}

// NewCourseRepository creates a new course repository.
func NewCourseRepository(db *sqlx.DB) *CourseRepository {
	return &CourseRepository{db: db}
}

// FindOrCreate resolves a course by external code, creating it on first
// reference. A second call with the same code returns the existing id and
// performs no write.
func (r *CourseRepository) FindOrCreate(ctx context.Context, code, title string, department *string) (string, error) {
	id, _, err := findOrCreateCourse(ctx, r.db, code, title, department)
	return id, err
}

// findOrCreateCourse works on either *sqlx.DB or *sqlx.Tx so the import
// reconciler can run it inside its batch transaction. The boolean reports
// whether a new row was inserted.
func findOrCreateCourse(ctx context.Context, q sqlx.ExtContext, code, title string, department *string) (string, bool, error) {
	var id string
	err := sqlx.GetContext(ctx, q, &id, `SELECT id FROM courses WHERE code = ? LIMIT 1`, code)
	if err == nil {
		return id, false, nil
	}
	if !errors.Is(err, sql.ErrNoRows) {
		return "", false, fmt.Errorf("find course: %w", err)
	}

	id = uuid.NewString()
	if _, err := q.ExecContext(ctx, `INSERT INTO courses (id, code, title, department) VALUES (?, ?, ?, ?)`, id, code, title, department); err != nil {
		return "", false, fmt.Errorf("create course: %w", err)
	}
	return id, true, nil
}

// findOrCreateSource resolves a source_integration row by provider name.
func findOrCreateSource(ctx context.Context, q sqlx.ExtContext, provider, status string) (string, error) {
	var id string
	err := sqlx.GetContext(ctx, q, &id, `SELECT id FROM source_integration WHERE provider = ? LIMIT 1`, provider)
	if err == nil {
		return id, nil
	}
	if !errors.Is(err, sql.ErrNoRows) {
		return "", fmt.Errorf("find source: %w", err)
	}

	id = uuid.NewString()
	if _, err := q.ExecContext(ctx, `INSERT INTO source_integration (id, provider, status) VALUES (?, ?, ?)`, id, provider, status); err != nil {
		return "", fmt.Errorf("create source: %w", err)
	}
	return id, nil
}
