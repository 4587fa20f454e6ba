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
)

// MaxCommentLength is the longest feedback comment accepted, in characters.
const MaxCommentLength = 1000

// FeedbackService collects anonymous ratings from attendees.
type FeedbackService struct {
	events        EventStore
	registrations RegistrationStore
	feedback      FeedbackStore
	clock         Clock
}

// NewFeedbackService constructs a FeedbackService.
func NewFeedbackService(events EventStore, registrations RegistrationStore, feedback FeedbackStore, clock Clock) *FeedbackService {
	return &FeedbackService{events: events, registrations: registrations, feedback: feedback, clock: clock}
}

// Submit records who's rating of an event they attended. One per event.
func (s *FeedbackService) Submit(ctx context.Context, who auth.Identity, eventID string, req model.FeedbackRequest) (*model.Feedback, error) {
	if req.Rating < 1 || req.Rating > 5 {
		return nil, apperr.ErrInvalidRating.WithField("rating")
	}
	comment := strings.TrimSpace(req.Comment)
	if utf8.RuneCountInString(comment) > MaxCommentLength {
		return nil, apperr.ErrCommentTooLong.WithField("comment").
			WithParams(map[string]any{"Max": MaxCommentLength})
	}
	if _, err := loadEvent(ctx, s.events, who, eventID); err != nil {
		return nil, err
	}

	reg, err := s.registrations.Find(ctx, eventID, who.UserID)
	if errors.Is(err, repository.ErrNotFound) {
		return nil, apperr.ErrNotAttendee
	}
	if err != nil {
		return nil, fmt.Errorf("find registration: %w", err)
	}
	if !reg.Attended {
		return nil, apperr.ErrNotAttendee
	}

	fb := &model.Feedback{
		ID:            uuid.NewString(),
		EventID:       eventID,
		ParticipantID: who.UserID,
		Rating:        req.Rating,
		Comment:       comment,
		CreatedAt:     s.clock.now(),
	}
	if err := s.feedback.Create(ctx, fb); err != nil {
		return nil, storeErr(err, apperr.ErrEventNotFound, "create feedback")
	}
	return fb, nil
}

// Summary aggregates an event's feedback for its organizer.
func (s *FeedbackService) Summary(ctx context.Context, who auth.Identity, eventID string) (*model.FeedbackSummary, error) {
	if _, err := loadOwnedEvent(ctx, s.events, who, eventID); err != nil {
		return nil, err
	}
	items, err := s.feedback.ListByEvent(ctx, eventID)
	if err != nil {
		return nil, fmt.Errorf("list feedback: %w", err)
	}

	sum := &model.FeedbackSummary{EventID: eventID, Count: len(items), Items: items}
	if sum.Items == nil {
		sum.Items = []model.Feedback{}
	}
	if len(items) > 0 {
		total := 0
		for _, fb := range items {
			total += fb.Rating
		}
		sum.AverageRating = math.Round(float64(total)/float64(len(items))*100) / 100
	}
	return sum, nil
}
