package service

import (
	"context"
	"database/sql"
	"errors"
	"time"

	"github.com/go-playground/validator/v10"
	"github.com/google/uuid"
	"go.uber.org/zap"

	"github.com/noah-isme/campus-cal/internal/models"
	appErrors "github.com/noah-isme/campus-cal/pkg/errors"
)

type eventRepository interface {
	CreatePersonal(ctx context.Context, event *models.Event, privacy *string) error
	FindByID(ctx context.Context, id string) (*models.Event, error)
	Delete(ctx context.Context, id string) error
	List(ctx context.Context, filter models.EventFilter) ([]models.Event, error)
	ListAcademic(ctx context.Context) ([]models.AcademicEventDetail, error)
}

// eventTimeLayout is the operator-facing datetime format.
const eventTimeLayout = "2006-01-02 15:04"

// CreateEventRequest represents payload for a new personal event. Start
// and End are raw operator input; unparseable values are stored as NULL
// rather than failing the creation.
type CreateEventRequest struct {
	Title    string `validate:"required"`
	Start    string
	End      string
	Status   string
	Priority string
}

// EventService handles event creation, deletion and listing with
// ownership-based access control.
type EventService struct {
	repo      eventRepository
	validator *validator.Validate
	logger    *zap.Logger
}

// NewEventService creates an instance of EventService.
func NewEventService(repo eventRepository, validate *validator.Validate, logger *zap.Logger) *EventService {
	if logger == nil {
		logger = zap.NewNop()
	}
	if validate == nil {
		validate = validator.New()
	}
	return &EventService{repo: repo, validator: validate, logger: logger}
}

// CreatePersonal creates a base event owned by the actor together with its
// personal subtype row in one transaction.
func (s *EventService) CreatePersonal(ctx context.Context, actor *models.User, req CreateEventRequest) (*models.Event, error) {
	if actor == nil {
		return nil, appErrors.Clone(appErrors.ErrPermissionDenied, "must be logged in to add events")
	}

	if err := s.validator.Struct(req); err != nil {
		return nil, appErrors.Wrap(err, appErrors.ErrValidation.Code, "invalid event payload")
	}

	event := &models.Event{
		ID:       uuid.NewString(),
		Title:    req.Title,
		StartAt:  parseEventTime(req.Start),
		EndAt:    parseEventTime(req.End),
		Status:   optional(req.Status),
		Priority: optional(req.Priority),
		UserID:   &actor.ID,
	}

	if err := s.repo.CreatePersonal(ctx, event, nil); err != nil {
		return nil, appErrors.Wrap(err, appErrors.ErrStorage.Code, "failed to create event")
	}

	s.logger.Info("event created", zap.String("event_id", event.ID), zap.String("owner", actor.Username))
	return event, nil
}

// Delete removes an event after the ownership check. The lookup and the
// delete both probe the base table first and fall back to the academic
// subtype table.
func (s *EventService) Delete(ctx context.Context, actor *models.User, id string) error {
	event, err := s.repo.FindByID(ctx, id)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return appErrors.Clone(appErrors.ErrNotFound, "event not found")
		}
		return appErrors.Wrap(err, appErrors.ErrStorage.Code, "failed to look up event")
	}

	if !AuthorizeEventDeletion(actor, event) {
		return appErrors.Clone(appErrors.ErrPermissionDenied, "cannot delete others' events")
	}

	if err := s.repo.Delete(ctx, id); err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return appErrors.Clone(appErrors.ErrNotFound, "event not found")
		}
		return appErrors.Wrap(err, appErrors.ErrStorage.Code, "failed to delete event")
	}

	s.logger.Info("event deleted", zap.String("event_id", id))
	return nil
}

// List returns all events for admins, the actor's own events otherwise.
func (s *EventService) List(ctx context.Context, actor *models.User) ([]models.Event, error) {
	if actor == nil {
		return nil, appErrors.Clone(appErrors.ErrPermissionDenied, "must be logged in to list events")
	}

	filter := models.EventFilter{}
	if !actor.IsAdmin {
		filter.OwnerID = &actor.ID
	}

	events, err := s.repo.List(ctx, filter)
	if err != nil {
		return nil, appErrors.Wrap(err, appErrors.ErrStorage.Code, "failed to list events")
	}
	return events, nil
}

// ListAcademic returns academic events joined with their base rows.
func (s *EventService) ListAcademic(ctx context.Context, actor *models.User) ([]models.AcademicEventDetail, error) {
	if actor == nil {
		return nil, appErrors.Clone(appErrors.ErrPermissionDenied, "must be logged in to list events")
	}
	rows, err := s.repo.ListAcademic(ctx)
	if err != nil {
		return nil, appErrors.Wrap(err, appErrors.ErrStorage.Code, "failed to list academic events")
	}
	return rows, nil
}

// parseEventTime parses operator datetime input. Blank or malformed input
// yields nil, never an error.
func parseEventTime(raw string) *time.Time {
	if raw == "" {
		return nil
	}
	ts, err := time.Parse(eventTimeLayout, raw)
	if err != nil {
		return nil
	}
	return &ts
}

func optional(raw string) *string {
	if raw == "" {
		return nil
	}
	return &raw
}
