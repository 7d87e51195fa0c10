package models

// Calendar is a user-owned grouping for events.
type Calendar struct {
	ID         string  `db:"id"`
	Name       string  `db:"name"`
	Visibility *string `db:"visibility"`
	Color      *string `db:"color"`
	UserID     *string `db:"user_id"`
}
