package service

import (
	"context"

	"github.com/Shivanand-hulikatti/festival-events/internal/model"
	"github.com/Shivanand-hulikatti/festival-events/internal/notify"
	"github.com/Shivanand-hulikatti/festival-events/internal/repository"
	"github.com/Shivanand-hulikatti/festival-events/internal/stream"
)

// EventStore persists events. Update and Delete run their callbacks while
// the event is locked.
type EventStore interface {
	Create(ctx context.Context, ev *model.Event) error
	GetByID(ctx context.Context, id string) (*model.Event, error)
	List(ctx context.Context, f model.EventFilter) ([]model.Event, error)
	Update(ctx context.Context, id string, mutate repository.EventUpdateFunc, cascade repository.CascadeFunc) (*model.Event, []model.Registration, error)
	Delete(ctx context.Context, id string, guard repository.EventGuardFunc) error
}

// RegistrationStore persists registrations and the event counters they hold.
type RegistrationStore interface {
	Book(ctx context.Context, eventID, participantID string, admit repository.AdmitFunc) (*model.Event, *model.Registration, error)
	Cancel(ctx context.Context, regID string, release repository.ReleaseFunc) (*model.Event, *model.Registration, error)
	Mutate(ctx context.Context, regID string, fn repository.RegistrationFunc) (*model.Registration, error)
	SetQRCode(ctx context.Context, regID, qr string) error
	GetByID(ctx context.Context, id string) (*model.Registration, error)
	GetByTicket(ctx context.Context, ticketID string) (*model.Registration, error)
	Find(ctx context.Context, eventID, participantID string) (*model.Registration, error)
	ListByEvent(ctx context.Context, eventID string) ([]model.Registration, error)
	ListByParticipant(ctx context.Context, participantID string) ([]model.Registration, error)
}

// MessageStore persists forum posts.
type MessageStore interface {
	Create(ctx context.Context, msg *model.Message) error
	GetByID(ctx context.Context, id string) (*model.Message, error)
	Mutate(ctx context.Context, id string, fn repository.MessageFunc) (*model.Message, error)
	ToggleReaction(ctx context.Context, id, emoji, userID string, guard repository.MessageFunc) (*model.Message, bool, error)
	List(ctx context.Context, eventID string, page, limit int) ([]model.Message, int, error)
}

// FeedbackStore persists post-event feedback.
type FeedbackStore interface {
	Create(ctx context.Context, fb *model.Feedback) error
	ListByEvent(ctx context.Context, eventID string) ([]model.Feedback, error)
}

// Notifier accepts notification intents. It must not block.
type Notifier interface {
	Notify(in notify.Intent)
}

// Broadcaster pushes forum frames to live viewers.
type Broadcaster interface {
	Publish(eventID string, f stream.Frame) int64
}
