// Package repository implements persistence for the festival platform.
// It uses pgx directly (no ORM); the memory subpackage mirrors every
// contract for local runs and tests.
package repository

import (
	"context"
	"errors"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgconn"
	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/Shivanand-hulikatti/festival-events/internal/model"
)

// ErrNotFound is returned when a requested resource does not exist.
var ErrNotFound = errors.New("not found")

// ErrAlreadyRegistered is returned when the participant/event pair already
// has a registration. The admission rules catch this first; the unique index
// is the backstop.
var ErrAlreadyRegistered = errors.New("participant already registered for this event")

// ErrTicketConflict is returned when a freshly minted ticket id collides.
var ErrTicketConflict = errors.New("ticket id already issued")

// ErrFeedbackExists is returned on a second feedback for the same pair.
var ErrFeedbackExists = errors.New("feedback already submitted for this event")

// AdmitFunc decides an admission against the locked event. exists reports
// whether the participant already has a registration of any status. On
// success it returns the registration to insert and has updated ev in place.
type AdmitFunc func(ev *model.Event, exists bool) (*model.Registration, error)

// ReleaseFunc cancels reg against the locked event, updating both in place.
type ReleaseFunc func(ev *model.Event, reg *model.Registration) error

// EventUpdateFunc mutates the locked event in place. Returning cascade=true
// asks the store to pass every active registration of the event through the
// CascadeFunc in the same transaction.
type EventUpdateFunc func(ev *model.Event) (cascade bool, err error)

// CascadeFunc cancels the given active registrations against ev and returns
// the ones it changed.
type CascadeFunc func(ev *model.Event, active []model.Registration) []model.Registration

// EventGuardFunc inspects the locked event and vetoes the operation by
// returning an error.
type EventGuardFunc func(ev *model.Event) error

// RegistrationFunc mutates a locked registration in place.
type RegistrationFunc func(reg *model.Registration) error

// MessageFunc mutates a locked message in place.
type MessageFunc func(msg *model.Message) error

// ─── Postgres plumbing ────────────────────────────────────────────────────────

const (
	codeUniqueViolation = "23505"
	codeInvalidText     = "22P02"
)

// Postgres bundles the pgx repositories over one pool.
type Postgres struct {
	Events        *EventRepository
	Registrations *RegistrationRepository
	Messages      *MessageRepository
	Feedback      *FeedbackRepository
}

// NewPostgres wires every repository to db.
func NewPostgres(db *pgxpool.Pool) *Postgres {
	return &Postgres{
		Events:        NewEventRepository(db),
		Registrations: NewRegistrationRepository(db),
		Messages:      NewMessageRepository(db),
		Feedback:      NewFeedbackRepository(db),
	}
}

// rowScanner is satisfied by pgx.Row and pgx.Rows.
type rowScanner interface {
	Scan(dest ...any) error
}

// notFound maps missing rows, and ids that are not UUIDs, to ErrNotFound.
func notFound(err error) bool {
	if errors.Is(err, pgx.ErrNoRows) {
		return true
	}
	var pgErr *pgconn.PgError
	return errors.As(err, &pgErr) && pgErr.Code == codeInvalidText
}

// uniqueViolation returns the violated constraint name, if err is one.
func uniqueViolation(err error) (string, bool) {
	var pgErr *pgconn.PgError
	if errors.As(err, &pgErr) && pgErr.Code == codeUniqueViolation {
		return pgErr.ConstraintName, true
	}
	return "", false
}

// rollback is deferred by every transactional method.
func rollback(ctx context.Context, tx pgx.Tx, err *error) {
	if *err != nil {
		_ = tx.Rollback(ctx)
	}
}
