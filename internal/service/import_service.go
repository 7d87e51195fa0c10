package service

import (
	"context"
	"fmt"
	"time"

	"go.uber.org/zap"

	"github.com/noah-isme/campus-cal/internal/canvas"
	"github.com/noah-isme/campus-cal/internal/models"
	appErrors "github.com/noah-isme/campus-cal/pkg/errors"
)

type importRepository interface {
	ImportCourses(ctx context.Context, provider string, courses []models.CourseImport) (*models.ImportSummary, error)
}

type courseFetcher interface {
	FetchCourses(ctx context.Context, url, token string) ([]canvas.Course, error)
}

// importTimeLayouts are tried in order against every raw timestamp; the
// first layout that parses wins and an all-miss degrades to an absent
// value rather than aborting the import.
var importTimeLayouts = []string{
	time.RFC3339,
	"2006-01-02 15:04",
	"2006-01-02",
}

// ImportService reconciles externally-sourced course and assignment data
// into the event domain model.
type ImportService struct {
	repo    importRepository
	fetcher courseFetcher
	logger  *zap.Logger
}

// NewImportService creates an instance of ImportService.
func NewImportService(repo importRepository, fetcher courseFetcher, logger *zap.Logger) *ImportService {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &ImportService{repo: repo, fetcher: fetcher, logger: logger}
}

// ImportCanvas fetches the course payload and upserts it in one
// all-or-nothing batch. Courses are deduplicated by their stringified
// external id, never by title. A fetch failure aborts before any write.
func (s *ImportService) ImportCanvas(ctx context.Context, url, token string) (*models.ImportSummary, error) {
	if url == "" {
		return nil, appErrors.Clone(appErrors.ErrValidation, "import URL is required")
	}

	raw, err := s.fetcher.FetchCourses(ctx, url, token)
	if err != nil {
		return nil, appErrors.Wrap(err, appErrors.ErrFetch.Code, "failed to fetch course data")
	}

	batch := normalizeCourses(raw)

	summary, err := s.repo.ImportCourses(ctx, "canvas", batch)
	if err != nil {
		return nil, appErrors.Wrap(err, appErrors.ErrStorage.Code, "import failed, no changes were applied")
	}

	s.logger.Info("canvas import complete",
		zap.Int("courses_created", summary.CoursesCreated),
		zap.Int("courses_reused", summary.CoursesReused),
		zap.Int("events_created", summary.EventsCreated),
	)
	return summary, nil
}

// normalizeCourses resolves every fallback chain up front so persistence
// operates on one canonical shape.
func normalizeCourses(raw []canvas.Course) []models.CourseImport {
	batch := make([]models.CourseImport, 0, len(raw))
	for _, c := range raw {
		code := c.ID.String()

		title := firstNonEmpty(c.Name, c.CourseName)
		if title == "" {
			title = fmt.Sprintf("Course %s", code)
		}

		items := c.Events
		if len(items) == 0 {
			items = c.Assignments
		}

		events := make([]models.EventImport, 0, len(items))
		for _, item := range items {
			events = append(events, models.EventImport{
				Title:        firstNonEmpty(item.Title, item.Name, "Untitled"),
				StartAt:      parseTimestamp(item.Start, item.StartAt),
				EndAt:        parseTimestamp(item.End, item.EndAt),
				DueAt:        parseTimestamp(item.Due, item.DueAt, item.DueDt),
				AcademicType: optional(firstNonEmpty(item.AcademicType, item.Type)),
			})
		}

		batch = append(batch, models.CourseImport{
			Code:       code,
			Title:      title,
			Department: c.Department,
			Events:     events,
		})
	}
	return batch
}

// parseTimestamp tries each candidate value against the ordered layout
// list. Malformed candidates are skipped, not fatal.
func parseTimestamp(candidates ...string) *time.Time {
	for _, raw := range candidates {
		if raw == "" {
			continue
		}
		for _, layout := range importTimeLayouts {
			if ts, err := time.Parse(layout, raw); err == nil {
				return &ts
			}
		}
	}
	return nil
}

func firstNonEmpty(values ...string) string {
	for _, v := range values {
		if v != "" {
			return v
		}
	}
	return ""
}
