package repository

import (
	"context"
	"fmt"
	"strings"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/Shivanand-hulikatti/festival-events/internal/model"
)

const eventColumns = `id, organizer_id, name, description, event_type, eligibility, tags,
	start_date, end_date, registration_deadline, registration_limit, current_registrations,
	registration_fee, status, custom_form, item_details, created_at, updated_at`

// EventRepository handles persistence for events.
type EventRepository struct {
	db *pgxpool.Pool
}

// NewEventRepository constructs an EventRepository.
func NewEventRepository(db *pgxpool.Pool) *EventRepository {
	return &EventRepository{db: db}
}

func scanEvent(row rowScanner) (*model.Event, error) {
	var e model.Event
	err := row.Scan(
		&e.ID, &e.OrganizerID, &e.Name, &e.Description, &e.Type, &e.Eligibility, &e.Tags,
		&e.StartDate, &e.EndDate, &e.RegistrationDeadline, &e.RegistrationLimit, &e.CurrentRegistrations,
		&e.RegistrationFee, &e.Status, &e.CustomForm, &e.ItemDetails, &e.CreatedAt, &e.UpdatedAt,
	)
	if err != nil {
		return nil, err
	}
	return &e, nil
}

// Create inserts a new event.
func (r *EventRepository) Create(ctx context.Context, ev *model.Event) error {
	tags := ev.Tags
	if tags == nil {
		tags = []string{}
	}
	_, err := r.db.Exec(ctx,
		`INSERT INTO events (`+eventColumns+`)
		 VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11, $12, $13, $14, $15, $16, $17, $18)`,
		ev.ID, ev.OrganizerID, ev.Name, ev.Description, ev.Type, ev.Eligibility, tags,
		ev.StartDate, ev.EndDate, ev.RegistrationDeadline, ev.RegistrationLimit, ev.CurrentRegistrations,
		ev.RegistrationFee, ev.Status, ev.CustomForm, ev.ItemDetails, ev.CreatedAt, ev.UpdatedAt,
	)
	if err != nil {
		return fmt.Errorf("insert event: %w", err)
	}
	return nil
}

// GetByID returns a single event or ErrNotFound.
func (r *EventRepository) GetByID(ctx context.Context, id string) (*model.Event, error) {
	ev, err := scanEvent(r.db.QueryRow(ctx, `SELECT `+eventColumns+` FROM events WHERE id = $1`, id))
	if err != nil {
		if notFound(err) {
			return nil, ErrNotFound
		}
		return nil, fmt.Errorf("get event: %w", err)
	}
	return ev, nil
}

// List returns the events matching f, newest first.
func (r *EventRepository) List(ctx context.Context, f model.EventFilter) ([]model.Event, error) {
	var (
		where []string
		args  []any
	)
	arg := func(v any) string {
		args = append(args, v)
		return fmt.Sprintf("$%d", len(args))
	}
	if f.OrganizerID != "" {
		where = append(where, "organizer_id = "+arg(f.OrganizerID))
	}
	if !f.IncludeDraft {
		where = append(where, "status <> 'Draft'")
	}
	if f.Status != "" {
		where = append(where, "status = "+arg(f.Status))
	}
	if f.Type != "" {
		where = append(where, "event_type = "+arg(f.Type))
	}
	if f.Tag != "" {
		where = append(where, arg(f.Tag)+" = ANY(tags)")
	}

	query := `SELECT ` + eventColumns + ` FROM events`
	if len(where) > 0 {
		query += " WHERE " + strings.Join(where, " AND ")
	}
	query += " ORDER BY created_at DESC, id"

	rows, err := r.db.Query(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("list events: %w", err)
	}
	defer rows.Close()

	var events []model.Event
	for rows.Next() {
		ev, err := scanEvent(rows)
		if err != nil {
			return nil, fmt.Errorf("scan event: %w", err)
		}
		events = append(events, *ev)
	}
	return events, rows.Err()
}

// Update locks the event row, applies mutate and, when asked, cancels the
// event's active registrations through cascade, all in one transaction.
func (r *EventRepository) Update(ctx context.Context, id string, mutate EventUpdateFunc, cascade CascadeFunc) (_ *model.Event, _ []model.Registration, err error) {
	tx, err := r.db.Begin(ctx)
	if err != nil {
		return nil, nil, fmt.Errorf("begin transaction: %w", err)
	}
	defer rollback(ctx, tx, &err)

	ev, err := scanEvent(tx.QueryRow(ctx, `SELECT `+eventColumns+` FROM events WHERE id = $1 FOR UPDATE`, id))
	if err != nil {
		if notFound(err) {
			return nil, nil, ErrNotFound
		}
		return nil, nil, fmt.Errorf("lock event row: %w", err)
	}

	doCascade, err := mutate(ev)
	if err != nil {
		return nil, nil, err
	}

	var cancelled []model.Registration
	if doCascade && cascade != nil {
		var active []model.Registration
		active, err = listRegistrations(ctx, tx,
			`WHERE event_id = $1 AND status IN ('Registered', 'Pending') ORDER BY created_at FOR UPDATE`, id)
		if err != nil {
			return nil, nil, err
		}
		cancelled = cascade(ev, active)
		for _, reg := range cancelled {
			if _, err = tx.Exec(ctx,
				`UPDATE registrations SET status = $2, updated_at = $3 WHERE id = $1`,
				reg.ID, reg.Status, reg.UpdatedAt,
			); err != nil {
				return nil, nil, fmt.Errorf("cancel registration %s: %w", reg.ID, err)
			}
		}
	}

	if err = writeEvent(ctx, tx, ev); err != nil {
		return nil, nil, err
	}
	if err = tx.Commit(ctx); err != nil {
		return nil, nil, fmt.Errorf("commit transaction: %w", err)
	}
	return ev, cancelled, nil
}

// Delete removes the event after guard approves it. Registrations, messages,
// reactions and feedback go with it through the foreign keys.
func (r *EventRepository) Delete(ctx context.Context, id string, guard EventGuardFunc) (err error) {
	tx, err := r.db.Begin(ctx)
	if err != nil {
		return fmt.Errorf("begin transaction: %w", err)
	}
	defer rollback(ctx, tx, &err)

	ev, err := scanEvent(tx.QueryRow(ctx, `SELECT `+eventColumns+` FROM events WHERE id = $1 FOR UPDATE`, id))
	if err != nil {
		if notFound(err) {
			return ErrNotFound
		}
		return fmt.Errorf("lock event row: %w", err)
	}
	if err = guard(ev); err != nil {
		return err
	}
	if _, err = tx.Exec(ctx, `DELETE FROM events WHERE id = $1`, id); err != nil {
		return fmt.Errorf("delete event: %w", err)
	}
	if err = tx.Commit(ctx); err != nil {
		return fmt.Errorf("commit transaction: %w", err)
	}
	return nil
}

func writeEvent(ctx context.Context, tx pgx.Tx, ev *model.Event) error {
	tags := ev.Tags
	if tags == nil {
		tags = []string{}
	}
	_, err := tx.Exec(ctx,
		`UPDATE events SET
			name = $2, description = $3, event_type = $4, eligibility = $5, tags = $6,
			start_date = $7, end_date = $8, registration_deadline = $9, registration_limit = $10,
			current_registrations = $11, registration_fee = $12, status = $13,
			custom_form = $14, item_details = $15, updated_at = $16
		 WHERE id = $1`,
		ev.ID, ev.Name, ev.Description, ev.Type, ev.Eligibility, tags,
		ev.StartDate, ev.EndDate, ev.RegistrationDeadline, ev.RegistrationLimit,
		ev.CurrentRegistrations, ev.RegistrationFee, ev.Status,
		ev.CustomForm, ev.ItemDetails, ev.UpdatedAt,
	)
	if err != nil {
		return fmt.Errorf("update event: %w", err)
	}
	return nil
}
