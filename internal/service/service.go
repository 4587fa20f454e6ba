// Package service implements business logic, authorization, and
// orchestration between HTTP handlers and the stores.
package service

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/Shivanand-hulikatti/festival-events/internal/apperr"
	"github.com/Shivanand-hulikatti/festival-events/internal/auth"
	"github.com/Shivanand-hulikatti/festival-events/internal/model"
	"github.com/Shivanand-hulikatti/festival-events/internal/repository"
)

// Clock returns the current time. Tests pin it.
type Clock func() time.Time

func (c Clock) now() time.Time {
	if c == nil {
		return time.Now().UTC()
	}
	return c()
}

// storeErr translates store sentinels into caller-facing errors. Errors
// produced by callbacks are already *apperr.Error and pass through.
func storeErr(err error, missing *apperr.Error, op string) error {
	switch {
	case errors.Is(err, repository.ErrNotFound):
		return missing
	case errors.Is(err, repository.ErrAlreadyRegistered):
		return apperr.ErrAlreadyRegistered
	case errors.Is(err, repository.ErrFeedbackExists):
		return apperr.ErrFeedbackExists
	}
	if _, ok := apperr.As(err); ok {
		return err
	}
	return fmt.Errorf("%s: %w", op, err)
}

// owns reports whether who may manage ev.
func owns(who auth.Identity, ev *model.Event) bool {
	return who.IsAdmin() || ev.OrganizerID == who.UserID
}

// visible reports whether who may see ev at all. Drafts stay hidden from
// everyone but their organizer and admins.
func visible(who auth.Identity, ev *model.Event) bool {
	return ev.Status != model.StatusDraft || owns(who, ev)
}

// loadEvent fetches an event who is allowed to see.
func loadEvent(ctx context.Context, events EventStore, who auth.Identity, id string) (*model.Event, error) {
	ev, err := events.GetByID(ctx, id)
	if err != nil {
		return nil, storeErr(err, apperr.ErrEventNotFound, "get event")
	}
	if !visible(who, ev) {
		return nil, apperr.ErrEventNotFound
	}
	return ev, nil
}

// loadOwnedEvent fetches an event who manages.
func loadOwnedEvent(ctx context.Context, events EventStore, who auth.Identity, id string) (*model.Event, error) {
	ev, err := loadEvent(ctx, events, who, id)
	if err != nil {
		return nil, err
	}
	if !owns(who, ev) {
		return nil, apperr.ErrNotOwner
	}
	return ev, nil
}
