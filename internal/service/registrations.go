package service

import (
	"context"
	"errors"
	"fmt"
	"log"

	"github.com/google/uuid"

	"github.com/Shivanand-hulikatti/festival-events/internal/apperr"
	"github.com/Shivanand-hulikatti/festival-events/internal/auth"
	"github.com/Shivanand-hulikatti/festival-events/internal/ledger"
	"github.com/Shivanand-hulikatti/festival-events/internal/model"
	"github.com/Shivanand-hulikatti/festival-events/internal/notify"
	"github.com/Shivanand-hulikatti/festival-events/internal/repository"
	"github.com/Shivanand-hulikatti/festival-events/internal/ticket"
)

// ticketAttempts bounds retries after a ticket id collision.
const ticketAttempts = 3

// RegistrationService admits, cancels and checks in participants.
type RegistrationService struct {
	events        EventStore
	registrations RegistrationStore
	qr            ticket.Encoder
	notifier      Notifier
	clock         Clock
}

// NewRegistrationService constructs a RegistrationService. qr may be nil,
// in which case tickets carry no QR image.
func NewRegistrationService(events EventStore, registrations RegistrationStore, qr ticket.Encoder, notifier Notifier, clock Clock) *RegistrationService {
	return &RegistrationService{
		events:        events,
		registrations: registrations,
		qr:            qr,
		notifier:      notifier,
		clock:         clock,
	}
}

// Register admits who to the event.
//
// The admission decision and every write it implies (counter, stock, form
// lock, the registration row) happen under the store's per-event lock, so
// concurrent requests for the last slot admit exactly one. The QR image is
// attached after commit; failing to render it does not undo the admission.
func (s *RegistrationService) Register(ctx context.Context, who auth.Identity, eventID string, req model.RegisterRequest) (*model.Registration, error) {
	if who.Role != model.RoleParticipant {
		return nil, apperr.ErrForbidden
	}

	var (
		ev  *model.Event
		reg *model.Registration
		err error
	)
	for attempt := 0; attempt < ticketAttempts; attempt++ {
		lr := ledger.Request{
			RegistrationID: uuid.NewString(),
			TicketID:       ticket.NewID(),
			Participant:    who.Participant(),
			FormResponses:  req.FormResponses,
			Merchandise: &model.MerchandiseDetails{
				Size:     req.Size,
				Color:    req.Color,
				Variant:  req.Variant,
				Quantity: req.Quantity,
			},
		}
		now := s.clock.now()
		ev, reg, err = s.registrations.Book(ctx, eventID, who.UserID,
			func(ev *model.Event, exists bool) (*model.Registration, error) {
				if ev.Status == model.StatusDraft {
					return nil, apperr.ErrEventNotFound
				}
				return ledger.Admit(ev, lr, exists, now)
			})
		if !errors.Is(err, repository.ErrTicketConflict) {
			break
		}
		log.Printf("service: ticket id collision on attempt %d, retrying", attempt+1)
	}
	if err != nil {
		return nil, storeErr(err, apperr.ErrEventNotFound, "register for event")
	}

	s.attachQR(ctx, reg)
	s.notifier.Notify(notify.ForRegistration(notify.RegistrationConfirmed, ev, reg))
	return reg, nil
}

func (s *RegistrationService) attachQR(ctx context.Context, reg *model.Registration) {
	if s.qr == nil {
		return
	}
	qr, err := s.qr.Encode(reg.TicketID)
	if err != nil {
		log.Printf("service: render qr for registration %s: %v", reg.ID, err)
		return
	}
	if err := s.registrations.SetQRCode(ctx, reg.ID, qr); err != nil {
		log.Printf("service: store qr for registration %s: %v", reg.ID, err)
		return
	}
	reg.QRCode = &qr
}

// Cancel withdraws the caller's own registration and returns its slot.
func (s *RegistrationService) Cancel(ctx context.Context, who auth.Identity, regID string) (*model.Registration, error) {
	now := s.clock.now()
	ev, reg, err := s.registrations.Cancel(ctx, regID, func(ev *model.Event, reg *model.Registration) error {
		if reg.ParticipantID != who.UserID {
			return apperr.ErrForbidden
		}
		return ledger.Release(ev, reg, now)
	})
	if err != nil {
		return nil, storeErr(err, apperr.ErrRegistrationNotFound, "cancel registration")
	}
	s.notifier.Notify(notify.ForRegistration(notify.RegistrationCancelled, ev, reg))
	return reg, nil
}

// CheckIn marks the ticket holder as attended. Only the event's organizer
// or an admin may scan.
func (s *RegistrationService) CheckIn(ctx context.Context, who auth.Identity, ticketID string) (*model.Registration, error) {
	ticketID = ticket.Normalize(ticketID)
	if ticketID == "" {
		return nil, apperr.ErrTicketRequired.WithField("ticketId")
	}
	if who.Role != model.RoleOrganizer && !who.IsAdmin() {
		return nil, apperr.ErrForbidden
	}

	reg, err := s.registrations.GetByTicket(ctx, ticketID)
	if err != nil {
		return nil, storeErr(err, apperr.ErrTicketNotFound, "find ticket")
	}
	ev, err := s.events.GetByID(ctx, reg.EventID)
	if err != nil {
		return nil, storeErr(err, apperr.ErrTicketNotFound, "get ticket event")
	}
	if !owns(who, ev) {
		return nil, apperr.ErrNotOwner
	}

	now := s.clock.now()
	reg, err = s.registrations.Mutate(ctx, reg.ID, func(reg *model.Registration) error {
		return ledger.CheckIn(reg, now)
	})
	if err != nil {
		return nil, storeErr(err, apperr.ErrTicketNotFound, "check in")
	}
	return reg, nil
}

// Ticket returns the registration behind a ticket id to its holder, the
// event's organizer or an admin.
func (s *RegistrationService) Ticket(ctx context.Context, who auth.Identity, ticketID string) (*model.Registration, error) {
	ticketID = ticket.Normalize(ticketID)
	if ticketID == "" {
		return nil, apperr.ErrTicketRequired.WithField("ticketId")
	}
	reg, err := s.registrations.GetByTicket(ctx, ticketID)
	if err != nil {
		return nil, storeErr(err, apperr.ErrTicketNotFound, "find ticket")
	}
	if reg.ParticipantID == who.UserID || who.IsAdmin() {
		return reg, nil
	}
	ev, err := s.events.GetByID(ctx, reg.EventID)
	if err != nil {
		return nil, storeErr(err, apperr.ErrTicketNotFound, "get ticket event")
	}
	if ev.OrganizerID != who.UserID {
		return nil, apperr.ErrForbidden
	}
	return reg, nil
}

// ListForEvent returns the event's registrations, oldest first.
func (s *RegistrationService) ListForEvent(ctx context.Context, who auth.Identity, eventID string) ([]model.Registration, error) {
	if _, err := loadOwnedEvent(ctx, s.events, who, eventID); err != nil {
		return nil, err
	}
	regs, err := s.registrations.ListByEvent(ctx, eventID)
	if err != nil {
		return nil, fmt.Errorf("list registrations: %w", err)
	}
	return regs, nil
}

// ListMine returns the caller's registrations, newest first.
func (s *RegistrationService) ListMine(ctx context.Context, who auth.Identity) ([]model.Registration, error) {
	regs, err := s.registrations.ListByParticipant(ctx, who.UserID)
	if err != nil {
		return nil, fmt.Errorf("list participant registrations: %w", err)
	}
	return regs, nil
}
