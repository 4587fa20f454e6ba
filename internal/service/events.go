package service

import (
	"context"
	"fmt"

	"github.com/google/uuid"

	"github.com/Shivanand-hulikatti/festival-events/internal/apperr"
	"github.com/Shivanand-hulikatti/festival-events/internal/auth"
	"github.com/Shivanand-hulikatti/festival-events/internal/ledger"
	"github.com/Shivanand-hulikatti/festival-events/internal/lifecycle"
	"github.com/Shivanand-hulikatti/festival-events/internal/model"
	"github.com/Shivanand-hulikatti/festival-events/internal/notify"
)

// EventService orchestrates event-related business operations.
type EventService struct {
	events   EventStore
	notifier Notifier
	clock    Clock
}

// NewEventService constructs an EventService with its dependencies.
func NewEventService(events EventStore, notifier Notifier, clock Clock) *EventService {
	return &EventService{events: events, notifier: notifier, clock: clock}
}

// CreateEvent validates the request and stores a new Draft owned by who.
func (s *EventService) CreateEvent(ctx context.Context, who auth.Identity, req model.CreateEventRequest) (*model.Event, error) {
	if who.Role != model.RoleOrganizer {
		return nil, apperr.ErrForbidden
	}
	ev, err := lifecycle.NewEvent(uuid.NewString(), who.UserID, req, s.clock.now())
	if err != nil {
		return nil, err
	}
	if err := s.events.Create(ctx, ev); err != nil {
		return nil, fmt.Errorf("create event: %w", err)
	}
	return ev, nil
}

// GetEvent returns a single event by ID.
func (s *EventService) GetEvent(ctx context.Context, who auth.Identity, id string) (*model.Event, error) {
	return loadEvent(ctx, s.events, who, id)
}

// ListEvents returns the public catalogue. Drafts are never listed here.
func (s *EventService) ListEvents(ctx context.Context, f model.EventFilter) ([]model.Event, error) {
	if f.Type != "" && !f.Type.Valid() {
		return nil, apperr.ErrInvalidEventType.WithField(model.FieldEventType)
	}
	if f.Status != "" && !f.Status.Valid() {
		return nil, apperr.ErrInvalidStatus.WithField(model.FieldStatus)
	}
	f.OrganizerID = ""
	f.IncludeDraft = false
	events, err := s.events.List(ctx, f)
	if err != nil {
		return nil, fmt.Errorf("list events: %w", err)
	}
	return events, nil
}

// ListMyEvents returns every event the organizer owns, drafts included.
func (s *EventService) ListMyEvents(ctx context.Context, who auth.Identity) ([]model.Event, error) {
	if who.Role != model.RoleOrganizer {
		return nil, apperr.ErrForbidden
	}
	events, err := s.events.List(ctx, model.EventFilter{OrganizerID: who.UserID, IncludeDraft: true})
	if err != nil {
		return nil, fmt.Errorf("list organizer events: %w", err)
	}
	return events, nil
}

// UpdateEvent applies a partial update as one step. Cancelling an event
// cancels its active registrations in the same step; each affected
// participant and, for a first publication, the announcement channel are
// notified afterwards.
func (s *EventService) UpdateEvent(ctx context.Context, who auth.Identity, id string, patch model.EventPatch) (*model.Event, error) {
	now := s.clock.now()
	var before model.EventStatus

	ev, cancelled, err := s.events.Update(ctx, id,
		func(ev *model.Event) (bool, error) {
			if !visible(who, ev) {
				return false, apperr.ErrEventNotFound
			}
			if ev.OrganizerID != who.UserID {
				return false, apperr.ErrNotOwner
			}
			before = ev.Status
			if err := lifecycle.ApplyPatch(ev, patch); err != nil {
				return false, err
			}
			ev.UpdatedAt = now
			return lifecycle.Cancelling(before, patch), nil
		},
		func(ev *model.Event, active []model.Registration) []model.Registration {
			return ledger.ReleaseAll(ev, active, now)
		},
	)
	if err != nil {
		return nil, storeErr(err, apperr.ErrEventNotFound, "update event")
	}

	for i := range cancelled {
		s.notifier.Notify(notify.ForRegistration(notify.EventCancelled, ev, &cancelled[i]))
	}
	if lifecycle.Publishing(before, patch) {
		s.notifier.Notify(notify.Published(ev))
	}
	return ev, nil
}

// ReplaceForm swaps the registration form of a Normal event whose form is
// still unlocked.
func (s *EventService) ReplaceForm(ctx context.Context, who auth.Identity, id string, fields []model.FormField) (*model.Event, error) {
	now := s.clock.now()
	ev, _, err := s.events.Update(ctx, id,
		func(ev *model.Event) (bool, error) {
			if !visible(who, ev) {
				return false, apperr.ErrEventNotFound
			}
			if ev.OrganizerID != who.UserID {
				return false, apperr.ErrNotOwner
			}
			if err := lifecycle.ReplaceForm(ev, fields); err != nil {
				return false, err
			}
			ev.UpdatedAt = now
			return false, nil
		}, nil)
	if err != nil {
		return nil, storeErr(err, apperr.ErrEventNotFound, "replace form")
	}
	return ev, nil
}

// DeleteEvent removes a Draft and everything attached to it.
func (s *EventService) DeleteEvent(ctx context.Context, who auth.Identity, id string) error {
	err := s.events.Delete(ctx, id, func(ev *model.Event) error {
		if !visible(who, ev) {
			return apperr.ErrEventNotFound
		}
		if !owns(who, ev) {
			return apperr.ErrNotOwner
		}
		return lifecycle.CheckDelete(ev)
	})
	if err != nil {
		return storeErr(err, apperr.ErrEventNotFound, "delete event")
	}
	return nil
}
