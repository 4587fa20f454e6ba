package repository

import (
	"context"
	"fmt"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/Shivanand-hulikatti/festival-events/internal/model"
)

const registrationColumns = `id, event_id, participant_id, participant_email, status, form_responses,
	merchandise, ticket_id, qr_code, attended, attendance_timestamp, created_at, updated_at`

// RegistrationRepository handles persistence for registrations.
type RegistrationRepository struct {
	db *pgxpool.Pool
}

// NewRegistrationRepository constructs a RegistrationRepository.
func NewRegistrationRepository(db *pgxpool.Pool) *RegistrationRepository {
	return &RegistrationRepository{db: db}
}

func scanRegistration(row rowScanner) (*model.Registration, error) {
	var reg model.Registration
	err := row.Scan(
		&reg.ID, &reg.EventID, &reg.ParticipantID, &reg.ParticipantEmail, &reg.Status, &reg.FormResponses,
		&reg.Merchandise, &reg.TicketID, &reg.QRCode, &reg.Attended, &reg.AttendanceTimestamp,
		&reg.CreatedAt, &reg.UpdatedAt,
	)
	if err != nil {
		return nil, err
	}
	return &reg, nil
}

type querier interface {
	Query(ctx context.Context, sql string, args ...any) (pgx.Rows, error)
}

func listRegistrations(ctx context.Context, q querier, clause string, args ...any) ([]model.Registration, error) {
	rows, err := q.Query(ctx, `SELECT `+registrationColumns+` FROM registrations `+clause, args...)
	if err != nil {
		return nil, fmt.Errorf("list registrations: %w", err)
	}
	defer rows.Close()

	var regs []model.Registration
	for rows.Next() {
		reg, err := scanRegistration(rows)
		if err != nil {
			return nil, fmt.Errorf("scan registration: %w", err)
		}
		regs = append(regs, *reg)
	}
	return regs, rows.Err()
}

// Book performs a concurrency-safe admission inside one transaction.
//
// SELECT … FOR UPDATE takes a row-level lock on the event, so concurrent
// bookings for the same event queue behind each other and each one sees the
// counter, stock and form lock left by the previous commit. Without it two
// transactions could read the same remaining capacity and both admit.
// The (event_id, participant_id) unique index backs up the duplicate check.
func (r *RegistrationRepository) Book(ctx context.Context, eventID, participantID string, admit AdmitFunc) (_ *model.Event, _ *model.Registration, err error) {
	tx, err := r.db.Begin(ctx)
	if err != nil {
		return nil, nil, fmt.Errorf("begin transaction: %w", err)
	}
	defer rollback(ctx, tx, &err)

	ev, err := scanEvent(tx.QueryRow(ctx, `SELECT `+eventColumns+` FROM events WHERE id = $1 FOR UPDATE`, eventID))
	if err != nil {
		if notFound(err) {
			return nil, nil, ErrNotFound
		}
		return nil, nil, fmt.Errorf("lock event row: %w", err)
	}

	var exists bool
	err = tx.QueryRow(ctx,
		`SELECT EXISTS (SELECT 1 FROM registrations WHERE event_id = $1 AND participant_id = $2)`,
		eventID, participantID,
	).Scan(&exists)
	if err != nil {
		return nil, nil, fmt.Errorf("check duplicate: %w", err)
	}

	reg, err := admit(ev, exists)
	if err != nil {
		return nil, nil, err
	}

	_, err = tx.Exec(ctx,
		`INSERT INTO registrations (`+registrationColumns+`)
		 VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11, $12, $13)`,
		reg.ID, reg.EventID, reg.ParticipantID, reg.ParticipantEmail, reg.Status, reg.FormResponses,
		reg.Merchandise, reg.TicketID, reg.QRCode, reg.Attended, reg.AttendanceTimestamp,
		reg.CreatedAt, reg.UpdatedAt,
	)
	if err != nil {
		if constraint, ok := uniqueViolation(err); ok {
			if constraint == "registrations_ticket_key" {
				return nil, nil, ErrTicketConflict
			}
			return nil, nil, ErrAlreadyRegistered
		}
		return nil, nil, fmt.Errorf("insert registration: %w", err)
	}

	if err = writeEvent(ctx, tx, ev); err != nil {
		return nil, nil, err
	}
	if err = tx.Commit(ctx); err != nil {
		return nil, nil, fmt.Errorf("commit transaction: %w", err)
	}
	return ev, reg, nil
}

// Cancel locks the registration's event and then the registration, and
// applies release to both.
func (r *RegistrationRepository) Cancel(ctx context.Context, regID string, release ReleaseFunc) (_ *model.Event, _ *model.Registration, err error) {
	tx, err := r.db.Begin(ctx)
	if err != nil {
		return nil, nil, fmt.Errorf("begin transaction: %w", err)
	}
	defer rollback(ctx, tx, &err)

	// event first, same order as Book
	ev, err := scanEvent(tx.QueryRow(ctx,
		`SELECT `+eventColumns+` FROM events
		 WHERE id = (SELECT event_id FROM registrations WHERE id = $1)
		 FOR UPDATE`, regID))
	if err != nil {
		if notFound(err) {
			return nil, nil, ErrNotFound
		}
		return nil, nil, fmt.Errorf("lock event row: %w", err)
	}
	reg, err := scanRegistration(tx.QueryRow(ctx,
		`SELECT `+registrationColumns+` FROM registrations WHERE id = $1 FOR UPDATE`, regID))
	if err != nil {
		if notFound(err) {
			return nil, nil, ErrNotFound
		}
		return nil, nil, fmt.Errorf("lock registration row: %w", err)
	}

	if err = release(ev, reg); err != nil {
		return nil, nil, err
	}
	if err = writeRegistration(ctx, tx, reg); err != nil {
		return nil, nil, err
	}
	if err = writeEvent(ctx, tx, ev); err != nil {
		return nil, nil, err
	}
	if err = tx.Commit(ctx); err != nil {
		return nil, nil, fmt.Errorf("commit transaction: %w", err)
	}
	return ev, reg, nil
}

// Mutate locks one registration row and applies fn to it.
func (r *RegistrationRepository) Mutate(ctx context.Context, regID string, fn RegistrationFunc) (_ *model.Registration, err error) {
	tx, err := r.db.Begin(ctx)
	if err != nil {
		return nil, fmt.Errorf("begin transaction: %w", err)
	}
	defer rollback(ctx, tx, &err)

	reg, err := scanRegistration(tx.QueryRow(ctx,
		`SELECT `+registrationColumns+` FROM registrations WHERE id = $1 FOR UPDATE`, regID))
	if err != nil {
		if notFound(err) {
			return nil, ErrNotFound
		}
		return nil, fmt.Errorf("lock registration row: %w", err)
	}
	if err = fn(reg); err != nil {
		return nil, err
	}
	if err = writeRegistration(ctx, tx, reg); err != nil {
		return nil, err
	}
	if err = tx.Commit(ctx); err != nil {
		return nil, fmt.Errorf("commit transaction: %w", err)
	}
	return reg, nil
}

func writeRegistration(ctx context.Context, tx pgx.Tx, reg *model.Registration) error {
	_, err := tx.Exec(ctx,
		`UPDATE registrations
		 SET status = $2, attended = $3, attendance_timestamp = $4, updated_at = $5
		 WHERE id = $1`,
		reg.ID, reg.Status, reg.Attended, reg.AttendanceTimestamp, reg.UpdatedAt,
	)
	if err != nil {
		return fmt.Errorf("update registration: %w", err)
	}
	return nil
}

// SetQRCode stores the rendered QR payload. The ticket id never changes.
func (r *RegistrationRepository) SetQRCode(ctx context.Context, regID, qr string) error {
	tag, err := r.db.Exec(ctx, `UPDATE registrations SET qr_code = $2 WHERE id = $1`, regID, qr)
	if err != nil {
		if notFound(err) {
			return ErrNotFound
		}
		return fmt.Errorf("set qr code: %w", err)
	}
	if tag.RowsAffected() == 0 {
		return ErrNotFound
	}
	return nil
}

// GetByID returns one registration or ErrNotFound.
func (r *RegistrationRepository) GetByID(ctx context.Context, id string) (*model.Registration, error) {
	return r.getOne(ctx, `WHERE id = $1`, id)
}

// GetByTicket looks a registration up by its ticket id.
func (r *RegistrationRepository) GetByTicket(ctx context.Context, ticketID string) (*model.Registration, error) {
	return r.getOne(ctx, `WHERE ticket_id = $1`, ticketID)
}

// Find returns the participant's registration for an event, whatever its
// status.
func (r *RegistrationRepository) Find(ctx context.Context, eventID, participantID string) (*model.Registration, error) {
	return r.getOne(ctx, `WHERE event_id = $1 AND participant_id = $2`, eventID, participantID)
}

func (r *RegistrationRepository) getOne(ctx context.Context, clause string, args ...any) (*model.Registration, error) {
	reg, err := scanRegistration(r.db.QueryRow(ctx, `SELECT `+registrationColumns+` FROM registrations `+clause, args...))
	if err != nil {
		if notFound(err) {
			return nil, ErrNotFound
		}
		return nil, fmt.Errorf("get registration: %w", err)
	}
	return reg, nil
}

// ListByEvent returns all registrations for an event, oldest first.
func (r *RegistrationRepository) ListByEvent(ctx context.Context, eventID string) ([]model.Registration, error) {
	regs, err := listRegistrations(ctx, r.db, `WHERE event_id = $1 ORDER BY created_at ASC, id`, eventID)
	if err != nil && notFound(err) {
		return nil, nil
	}
	return regs, err
}

// ListByParticipant returns a participant's registrations, newest first.
func (r *RegistrationRepository) ListByParticipant(ctx context.Context, participantID string) ([]model.Registration, error) {
	return listRegistrations(ctx, r.db, `WHERE participant_id = $1 ORDER BY created_at DESC, id`, participantID)
}
