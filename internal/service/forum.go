package service

import (
	"context"
	"errors"
	"fmt"
	"math"
	"strings"
	"unicode/utf8"

	"github.com/google/uuid"

	"github.com/Shivanand-hulikatti/festival-events/internal/apperr"
	"github.com/Shivanand-hulikatti/festival-events/internal/auth"
	"github.com/Shivanand-hulikatti/festival-events/internal/model"
	"github.com/Shivanand-hulikatti/festival-events/internal/repository"
	"github.com/Shivanand-hulikatti/festival-events/internal/stream"
)

// Forum page bounds.
const (
	DefaultPageLimit = 50
	MaxPageLimit     = 100

	// maxPage keeps (page-1)*limit inside a 32-bit offset.
	maxPage = math.MaxInt32 / MaxPageLimit
)

// ForumService runs the per-event discussion. Every change is stored first
// and then broadcast to live viewers.
type ForumService struct {
	events        EventStore
	registrations RegistrationStore
	messages      MessageStore
	broadcaster   Broadcaster
	clock         Clock
}

// NewForumService constructs a ForumService with its dependencies.
func NewForumService(events EventStore, registrations RegistrationStore, messages MessageStore, broadcaster Broadcaster, clock Clock) *ForumService {
	return &ForumService{
		events:        events,
		registrations: registrations,
		messages:      messages,
		broadcaster:   broadcaster,
		clock:         clock,
	}
}

// OpenStream checks that who may watch the event's forum.
func (s *ForumService) OpenStream(ctx context.Context, who auth.Identity, eventID string) error {
	_, err := loadEvent(ctx, s.events, who, eventID)
	return err
}

// Post adds a message to the event's forum.
func (s *ForumService) Post(ctx context.Context, who auth.Identity, eventID string, req model.PostMessageRequest) (*model.Message, error) {
	content := strings.TrimSpace(req.Content)
	if content == "" {
		return nil, apperr.ErrContentRequired.WithField("content")
	}
	if utf8.RuneCountInString(content) > model.MaxMessageLength {
		return nil, apperr.ErrContentTooLong.WithField("content").
			WithParams(map[string]any{"Max": model.MaxMessageLength})
	}

	ev, err := loadEvent(ctx, s.events, who, eventID)
	if err != nil {
		return nil, err
	}
	if err := s.canPost(ctx, who, ev); err != nil {
		return nil, err
	}

	if req.ParentID != nil {
		parent, err := s.messages.GetByID(ctx, *req.ParentID)
		if err != nil {
			return nil, storeErr(err, apperr.ErrParentNotFound, "get parent message")
		}
		if parent.EventID != eventID {
			return nil, apperr.ErrParentNotFound
		}
	}

	now := s.clock.now()
	msg := &model.Message{
		ID:         uuid.NewString(),
		EventID:    eventID,
		AuthorID:   who.UserID,
		AuthorRole: who.Role,
		Content:    content,
		ParentID:   req.ParentID,
		Reactions:  map[string][]string{},
		CreatedAt:  now,
		UpdatedAt:  now,
	}
	if err := s.messages.Create(ctx, msg); err != nil {
		return nil, storeErr(err, apperr.ErrEventNotFound, "create message")
	}
	s.broadcaster.Publish(eventID, stream.MessageFrame(stream.NewMessage, msg))
	return msg, nil
}

// canPost admits the organizer, admins, and participants holding a
// registration that was not cancelled.
func (s *ForumService) canPost(ctx context.Context, who auth.Identity, ev *model.Event) error {
	if owns(who, ev) {
		return nil
	}
	if who.Role != model.RoleParticipant {
		return apperr.ErrForbidden
	}
	reg, err := s.registrations.Find(ctx, ev.ID, who.UserID)
	if errors.Is(err, repository.ErrNotFound) {
		return apperr.ErrForbidden
	}
	if err != nil {
		return fmt.Errorf("find registration: %w", err)
	}
	if reg.Status == model.RegistrationCancelled {
		return apperr.ErrForbidden
	}
	return nil
}

// List returns one page of the forum, pinned posts first.
func (s *ForumService) List(ctx context.Context, who auth.Identity, eventID string, page, limit int) (*model.MessagePage, error) {
	if _, err := loadEvent(ctx, s.events, who, eventID); err != nil {
		return nil, err
	}
	if page < 1 {
		page = 1
	}
	if limit < 1 {
		limit = DefaultPageLimit
	}
	limit = min(limit, MaxPageLimit)

	// past maxPage the offset exceeds any forum, so the page is empty
	msgs, total, err := s.messages.List(ctx, eventID, min(page, maxPage), limit)
	if err != nil {
		return nil, fmt.Errorf("list messages: %w", err)
	}
	if msgs == nil {
		msgs = []model.Message{}
	}
	return &model.MessagePage{Messages: msgs, Total: total, Page: page, Limit: limit}, nil
}

// TogglePin flips the pinned flag. Organizer or admin only.
func (s *ForumService) TogglePin(ctx context.Context, who auth.Identity, messageID string) (*model.Message, error) {
	_, ev, err := s.messageAndEvent(ctx, messageID)
	if err != nil {
		return nil, err
	}
	if !owns(who, ev) {
		return nil, apperr.ErrNotOwner
	}

	now := s.clock.now()
	msg, err := s.messages.Mutate(ctx, messageID, func(m *model.Message) error {
		if m.Deleted {
			return apperr.ErrMessageDeleted
		}
		m.Pinned = !m.Pinned
		m.UpdatedAt = now
		return nil
	})
	if err != nil {
		return nil, storeErr(err, apperr.ErrMessageNotFound, "pin message")
	}
	s.broadcaster.Publish(msg.EventID, stream.MessageFrame(stream.PinToggle, msg))
	return msg, nil
}

// Delete soft-deletes a message. Deleting twice is a no-op.
func (s *ForumService) Delete(ctx context.Context, who auth.Identity, messageID string) (*model.Message, error) {
	current, ev, err := s.messageAndEvent(ctx, messageID)
	if err != nil {
		return nil, err
	}
	if current.AuthorID != who.UserID && !owns(who, ev) {
		return nil, apperr.ErrForbidden
	}

	now := s.clock.now()
	changed := false
	msg, err := s.messages.Mutate(ctx, messageID, func(m *model.Message) error {
		if m.Deleted {
			return nil
		}
		m.SoftDelete(now)
		changed = true
		return nil
	})
	if err != nil {
		return nil, storeErr(err, apperr.ErrMessageNotFound, "delete message")
	}
	if changed {
		s.broadcaster.Publish(msg.EventID, stream.MessageFrame(stream.DeleteMessage, msg))
	}
	return msg, nil
}

// React toggles who's reaction on a message.
func (s *ForumService) React(ctx context.Context, who auth.Identity, messageID, emoji string) (*model.Message, error) {
	if !model.ValidReaction(emoji) {
		return nil, apperr.ErrInvalidEmoji.WithField("emoji")
	}
	if _, _, err := s.messageAndEvent(ctx, messageID); err != nil {
		return nil, err
	}

	msg, added, err := s.messages.ToggleReaction(ctx, messageID, emoji, who.UserID, func(m *model.Message) error {
		if m.Deleted {
			return apperr.ErrMessageDeleted
		}
		return nil
	})
	if err != nil {
		return nil, storeErr(err, apperr.ErrMessageNotFound, "toggle reaction")
	}
	s.broadcaster.Publish(msg.EventID, stream.ReactionFrame(msg, emoji, who.UserID, added))
	return msg, nil
}

func (s *ForumService) messageAndEvent(ctx context.Context, messageID string) (*model.Message, *model.Event, error) {
	msg, err := s.messages.GetByID(ctx, messageID)
	if err != nil {
		return nil, nil, storeErr(err, apperr.ErrMessageNotFound, "get message")
	}
	ev, err := s.events.GetByID(ctx, msg.EventID)
	if err != nil {
		return nil, nil, storeErr(err, apperr.ErrMessageNotFound, "get message event")
	}
	return msg, ev, nil
}
