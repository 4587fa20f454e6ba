package memory

import (
	"context"
	"slices"

	"github.com/Shivanand-hulikatti/festival-events/internal/model"
	"github.com/Shivanand-hulikatti/festival-events/internal/repository"
)

// FeedbackStore keeps feedback in memory.
type FeedbackStore struct {
	s *state
}

// Create stores fb unless the participant already left feedback.
func (f *FeedbackStore) Create(_ context.Context, fb *model.Feedback) error {
	f.s.mu.Lock()
	defer f.s.mu.Unlock()
	for _, existing := range f.s.feedback[fb.EventID] {
		if existing.ParticipantID == fb.ParticipantID {
			return repository.ErrFeedbackExists
		}
	}
	f.s.feedback[fb.EventID] = append(f.s.feedback[fb.EventID], *fb)
	return nil
}

// ListByEvent returns the event's feedback, newest first.
func (f *FeedbackStore) ListByEvent(_ context.Context, eventID string) ([]model.Feedback, error) {
	f.s.mu.RLock()
	out := slices.Clone(f.s.feedback[eventID])
	f.s.mu.RUnlock()
	slices.Reverse(out)
	return out, nil
}
