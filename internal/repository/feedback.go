package repository

import (
	"context"
	"fmt"

	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/Shivanand-hulikatti/festival-events/internal/model"
)

// FeedbackRepository handles persistence for post-event feedback.
type FeedbackRepository struct {
	db *pgxpool.Pool
}

// NewFeedbackRepository constructs a FeedbackRepository.
func NewFeedbackRepository(db *pgxpool.Pool) *FeedbackRepository {
	return &FeedbackRepository{db: db}
}

// Create stores fb, or returns ErrFeedbackExists for a second submission.
func (r *FeedbackRepository) Create(ctx context.Context, fb *model.Feedback) error {
	_, err := r.db.Exec(ctx,
		`INSERT INTO feedback (id, event_id, participant_id, rating, comment, created_at)
		 VALUES ($1, $2, $3, $4, $5, $6)`,
		fb.ID, fb.EventID, fb.ParticipantID, fb.Rating, fb.Comment, fb.CreatedAt,
	)
	if err != nil {
		if _, ok := uniqueViolation(err); ok {
			return ErrFeedbackExists
		}
		return fmt.Errorf("insert feedback: %w", err)
	}
	return nil
}

// ListByEvent returns an event's feedback, newest first.
func (r *FeedbackRepository) ListByEvent(ctx context.Context, eventID string) ([]model.Feedback, error) {
	rows, err := r.db.Query(ctx,
		`SELECT id, event_id, participant_id, rating, comment, created_at
		 FROM feedback WHERE event_id = $1
		 ORDER BY created_at DESC, id`, eventID)
	if err != nil {
		return nil, fmt.Errorf("list feedback: %w", err)
	}
	defer rows.Close()

	var out []model.Feedback
	for rows.Next() {
		var fb model.Feedback
		if err := rows.Scan(&fb.ID, &fb.EventID, &fb.ParticipantID, &fb.Rating, &fb.Comment, &fb.CreatedAt); err != nil {
			return nil, fmt.Errorf("scan feedback: %w", err)
		}
		out = append(out, fb)
	}
	return out, rows.Err()
}
