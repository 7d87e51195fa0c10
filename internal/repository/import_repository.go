package repository

import (
	"context"
	"fmt"

	"github.com/google/uuid"
	"github.com/jmoiron/sqlx"

	"github.com/noah-isme/campus-cal/internal/models"
)

// ImportRepository persists a reconciled import batch.
type ImportRepository struct {
	db *sqlx.DB
}

// NewImportRepository creates a new import repository.
func NewImportRepository(db *sqlx.DB) *ImportRepository {
	return &ImportRepository{db: db}
}

// ImportCourses upserts the batch in one all-or-nothing transaction:
// the provider's source row and every course are resolved or created,
// every event gets a base row plus an academic subtype row, and any error
// rolls the whole batch back.
func (r *ImportRepository) ImportCourses(ctx context.Context, provider string, courses []models.CourseImport) (*models.ImportSummary, error) {
	tx, err := r.db.BeginTxx(ctx, nil)
	if err != nil {
		return nil, fmt.Errorf("import courses: %w", err)
	}

	summary := &models.ImportSummary{}

	sourceID, err := findOrCreateSource(ctx, tx, provider, "active")
	if err != nil {
		tx.Rollback() //nolint:errcheck
		return nil, fmt.Errorf("import courses: %w", err)
	}

	for _, course := range courses {
		courseID, created, err := findOrCreateCourse(ctx, tx, course.Code, course.Title, course.Department)
		if err != nil {
			tx.Rollback() //nolint:errcheck
			return nil, fmt.Errorf("import courses: %w", err)
		}
		if created {
			summary.CoursesCreated++
		} else {
			summary.CoursesReused++
		}

		for _, item := range course.Events {
			event := &models.Event{
				ID:       uuid.NewString(),
				Title:    item.Title,
				StartAt:  item.StartAt,
				EndAt:    item.EndAt,
				CourseID: &courseID,
				SourceID: &sourceID,
			}
			if err := insertEvent(ctx, tx, event); err != nil {
				tx.Rollback() //nolint:errcheck
				return nil, fmt.Errorf("import courses: %w", err)
			}
			row := &models.AcademicEvent{
				EventID:      event.ID,
				DueAt:        item.DueAt,
				AcademicType: item.AcademicType,
			}
			if err := insertAcademicEvent(ctx, tx, row); err != nil {
				tx.Rollback() //nolint:errcheck
				return nil, fmt.Errorf("import courses: %w", err)
			}
			summary.EventsCreated++
		}
	}

	if err := tx.Commit(); err != nil {
		return nil, fmt.Errorf("commit import: %w", err)
	}
	return summary, nil
}
