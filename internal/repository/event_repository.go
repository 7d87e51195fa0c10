package repository

import (
	"context"
	"database/sql"
	"fmt"

	"github.com/google/uuid"
	"github.com/jmoiron/sqlx"

	"github.com/noah-isme/campus-cal/internal/models"
)

// EventRepository handles base events, their subtype rows and the
// attachment tables (reminders, tags).
type EventRepository struct {
	db *sqlx.DB
}

// NewEventRepository creates a new event repository.
func NewEventRepository(db *sqlx.DB) *EventRepository {
	return &EventRepository{db: db}
}

const insertEventQuery = `INSERT INTO events (id, title, start_at, end_at, status, priority, user_id, course_id, section_id, source_id, calendar_id)
        VALUES (:id, :title, :start_at, :end_at, :status, :priority, :user_id, :course_id, :section_id, :source_id, :calendar_id)`

func insertEvent(ctx context.Context, q sqlx.ExtContext, event *models.Event) error {
	if event.ID == "" {
		event.ID = uuid.NewString()
	}
	if _, err := sqlx.NamedExecContext(ctx, q, insertEventQuery, event); err != nil {
		return fmt.Errorf("insert event: %w", err)
	}
	return nil
}

func insertAcademicEvent(ctx context.Context, q sqlx.ExtContext, row *models.AcademicEvent) error {
	const query = `INSERT INTO academic_events (event_id, due_at, academic_type) VALUES (:event_id, :due_at, :academic_type)`
	if _, err := sqlx.NamedExecContext(ctx, q, query, row); err != nil {
		return fmt.Errorf("insert academic event: %w", err)
	}
	return nil
}

// CreatePersonal writes the base event and its personal subtype row in one
// transaction. Callers never observe a base event without its subtype.
func (r *EventRepository) CreatePersonal(ctx context.Context, event *models.Event, privacy *string) error {
	tx, err := r.db.BeginTxx(ctx, nil)
	if err != nil {
		return fmt.Errorf("create personal event: %w", err)
	}
	if err := insertEvent(ctx, tx, event); err != nil {
		tx.Rollback() //nolint:errcheck
		return err
	}
	if _, err := tx.ExecContext(ctx, `INSERT INTO personal_events (event_id, privacy) VALUES (?, ?)`, event.ID, privacy); err != nil {
		tx.Rollback() //nolint:errcheck
		return fmt.Errorf("insert personal event: %w", err)
	}
	if err := tx.Commit(); err != nil {
		return fmt.Errorf("commit personal event: %w", err)
	}
	return nil
}

// CreateAcademic writes the base event and its academic subtype row in one
// transaction.
func (r *EventRepository) CreateAcademic(ctx context.Context, event *models.Event, row *models.AcademicEvent) error {
	tx, err := r.db.BeginTxx(ctx, nil)
	if err != nil {
		return fmt.Errorf("create academic event: %w", err)
	}
	if err := insertEvent(ctx, tx, event); err != nil {
		tx.Rollback() //nolint:errcheck
		return err
	}
	row.EventID = event.ID
	if err := insertAcademicEvent(ctx, tx, row); err != nil {
		tx.Rollback() //nolint:errcheck
		return err
	}
	if err := tx.Commit(); err != nil {
		return fmt.Errorf("commit academic event: %w", err)
	}
	return nil
}

// FindByID looks the event up in the base table first; if absent it probes
// the academic subtype table directly, so rows written by the flattened
// schema variant remain addressable. Subtype-only hits yield an event with
// no owner.
func (r *EventRepository) FindByID(ctx context.Context, id string) (*models.Event, error) {
	const query = `SELECT id, title, start_at, end_at, status, priority, user_id, course_id, section_id, source_id, calendar_id FROM events WHERE id = ? LIMIT 1`
	var event models.Event
	err := r.db.GetContext(ctx, &event, query, id)
	if err == nil {
		return &event, nil
	}
	if err != sql.ErrNoRows {
		return nil, fmt.Errorf("find event by id: %w", err)
	}

	var sub models.AcademicEvent
	if err := r.db.GetContext(ctx, &sub, `SELECT event_id, due_at, academic_type FROM academic_events WHERE event_id = ? LIMIT 1`, id); err != nil {
		if err == sql.ErrNoRows {
			return nil, err
		}
		return nil, fmt.Errorf("find academic event by id: %w", err)
	}
	return &models.Event{ID: sub.EventID}, nil
}

// Delete removes the event from whichever table holds it: the base table
// first (subtype rows cascade), else the academic subtype table. Finding a
// match in either place completes the operation.
func (r *EventRepository) Delete(ctx context.Context, id string) error {
	res, err := r.db.ExecContext(ctx, `DELETE FROM events WHERE id = ?`, id)
	if err != nil {
		return fmt.Errorf("delete event: %w", err)
	}
	if n, err := res.RowsAffected(); err == nil && n > 0 {
		return nil
	}

	res, err = r.db.ExecContext(ctx, `DELETE FROM academic_events WHERE event_id = ?`, id)
	if err != nil {
		return fmt.Errorf("delete academic event: %w", err)
	}
	if n, err := res.RowsAffected(); err == nil && n > 0 {
		return nil
	}
	return sql.ErrNoRows
}

// List returns events, either all of them or one owner's. No ordering is
// defined; callers needing determinism sort explicitly.
func (r *EventRepository) List(ctx context.Context, filter models.EventFilter) ([]models.Event, error) {
	const columns = `SELECT id, title, start_at, end_at, status, priority, user_id, course_id, section_id, source_id, calendar_id FROM events`
	var events []models.Event
	var err error
	if filter.OwnerID != nil {
		err = r.db.SelectContext(ctx, &events, columns+` WHERE user_id = ?`, *filter.OwnerID)
	} else {
		err = r.db.SelectContext(ctx, &events, columns)
	}
	if err != nil {
		return nil, fmt.Errorf("list events: %w", err)
	}
	return events, nil
}

// ListAcademic returns academic subtype rows joined with base-event fields.
func (r *EventRepository) ListAcademic(ctx context.Context) ([]models.AcademicEventDetail, error) {
	const query = `SELECT ae.event_id, e.title, ae.due_at, ae.academic_type, e.course_id
        FROM academic_events ae
        JOIN events e ON e.id = ae.event_id`
	var rows []models.AcademicEventDetail
	if err := r.db.SelectContext(ctx, &rows, query); err != nil {
		return nil, fmt.Errorf("list academic events: %w", err)
	}
	return rows, nil
}

// AddReminder attaches a reminder to an event.
func (r *EventRepository) AddReminder(ctx context.Context, reminder *models.Reminder) error {
	if reminder.ID == "" {
		reminder.ID = uuid.NewString()
	}
	const query = `INSERT INTO reminders (id, event_id, offset_minutes, method) VALUES (:id, :event_id, :offset_minutes, :method)`
	if _, err := r.db.NamedExecContext(ctx, query, reminder); err != nil {
		return fmt.Errorf("add reminder: %w", err)
	}
	return nil
}

// TagEvent associates a tag (created on first use) with an event. Tagging
// the same pair twice is a no-op.
func (r *EventRepository) TagEvent(ctx context.Context, eventID, tagName string) error {
	tx, err := r.db.BeginTxx(ctx, nil)
	if err != nil {
		return fmt.Errorf("tag event: %w", err)
	}
	var tagID string
	err = tx.GetContext(ctx, &tagID, `SELECT id FROM tags WHERE name = ?`, tagName)
	if err == sql.ErrNoRows {
		tagID = uuid.NewString()
		if _, err := tx.ExecContext(ctx, `INSERT INTO tags (id, name) VALUES (?, ?)`, tagID, tagName); err != nil {
			tx.Rollback() //nolint:errcheck
			return fmt.Errorf("create tag: %w", err)
		}
	} else if err != nil {
		tx.Rollback() //nolint:errcheck
		return fmt.Errorf("find tag: %w", err)
	}
	if _, err := tx.ExecContext(ctx, `INSERT INTO event_tags (event_id, tag_id) VALUES (?, ?) ON DUPLICATE KEY UPDATE tag_id = tag_id`, eventID, tagID); err != nil {
		tx.Rollback() //nolint:errcheck
		return fmt.Errorf("associate tag: %w", err)
	}
	if err := tx.Commit(); err != nil {
		return fmt.Errorf("commit tag: %w", err)
	}
	return nil
}
