package models

// Course is an externally-sourced course. Code is the external identifier
// (unique) and serves as the idempotency key during import.
type Course struct {
	ID         string  `db:"id"`
	Code       string  `db:"code"`
	Title      string  `db:"title"`
	Department *string `db:"department"`
}

// Section is an optional grouping under a Course.
type Section struct {
	ID             string  `db:"id"`
	CourseID       *string `db:"course_id"`
	TermCode       *string `db:"term_code"`
	SectionNumber  *string `db:"section_number"`
	InstructorName *string `db:"instructor_name"`
}
