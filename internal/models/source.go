package models

// SourceIntegration records the origin of imported data (e.g. "canvas").
type SourceIntegration struct {
	ID       string  `db:"id"`
	Provider *string `db:"provider"`
	Status   *string `db:"status"`
}
