package models

import "time"

// Event is the base calendar entry. All organizational references are
// nullable: deleting the referenced user, course, section, source or
// calendar nulls the reference, it never destroys the event.
type Event struct {
	ID         string     `db:"id"`
	Title      string     `db:"title"`
	StartAt    *time.Time `db:"start_at"`
	EndAt      *time.Time `db:"end_at"`
	Status     *string    `db:"status"`
	Priority   *string    `db:"priority"`
	UserID     *string    `db:"user_id"`
	CourseID   *string    `db:"course_id"`
	SectionID  *string    `db:"section_id"`
	SourceID   *string    `db:"source_id"`
	CalendarID *string    `db:"calendar_id"`
}

// AcademicEvent is the academic subtype row. EventID is both primary key
// and foreign key to the base event; it cannot outlive the base row.
type AcademicEvent struct {
	EventID      string     `db:"event_id"`
	DueAt        *time.Time `db:"due_at"`
	AcademicType *string    `db:"academic_type"`
}

// AcademicEventDetail joins the subtype row with base-event fields for
// display.
type AcademicEventDetail struct {
	EventID      string     `db:"event_id"`
	Title        string     `db:"title"`
	DueAt        *time.Time `db:"due_at"`
	AcademicType *string    `db:"academic_type"`
	CourseID     *string    `db:"course_id"`
}

// PersonalEvent is the personal subtype row, sharing the base event id.
type PersonalEvent struct {
	EventID string  `db:"event_id"`
	Privacy *string `db:"privacy"`
}

// Reminder belongs to exactly one event and is cascade-deleted with it.
type Reminder struct {
	ID            string  `db:"id"`
	EventID       string  `db:"event_id"`
	OffsetMinutes *int    `db:"offset_minutes"`
	Method        *string `db:"method"`
}

// Tag and EventTag form the many-to-many association with events.
type Tag struct {
	ID   string `db:"id"`
	Name string `db:"name"`
}

type EventTag struct {
	EventID string `db:"event_id"`
	TagID   string `db:"tag_id"`
}

// EventFilter narrows a listing to one owner. A nil OwnerID lists all
// events (admin view).
type EventFilter struct {
	OwnerID *string
}
