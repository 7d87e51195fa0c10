package models

import "time"

// CourseImport is a normalized course from an external source, ready to
// be reconciled against the courses table.
type CourseImport struct {
	Code       string
	Title      string
	Department *string
	Events     []EventImport
}

// EventImport is a normalized academic event from an external source.
// Timestamps that failed to parse upstream arrive as nil.
type EventImport struct {
	Title        string
	StartAt      *time.Time
	EndAt        *time.Time
	DueAt        *time.Time
	AcademicType *string
}

// ImportSummary reports what a completed import batch did.
type ImportSummary struct {
	CoursesCreated int
	CoursesReused  int
	EventsCreated  int
}
