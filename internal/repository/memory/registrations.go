package memory

import (
	"context"

	"github.com/Shivanand-hulikatti/festival-events/internal/model"
	"github.com/Shivanand-hulikatti/festival-events/internal/repository"
)

// RegistrationStore keeps registrations in memory.
type RegistrationStore struct {
	s *state
}

// Book serialises on the event key, so the admission decision and the
// writes below happen as one step for that event.
func (r *RegistrationStore) Book(_ context.Context, eventID, participantID string, admit repository.AdmitFunc) (*model.Event, *model.Registration, error) {
	unlock := r.s.locks.lock(eventID)
	defer unlock()

	s := r.s
	s.mu.RLock()
	stored, ok := s.events[eventID]
	var ev model.Event
	if ok {
		ev = stored.Clone()
	}
	_, exists := s.byPair[pairKey{eventID, participantID}]
	s.mu.RUnlock()
	if !ok {
		return nil, nil, repository.ErrNotFound
	}

	reg, err := admit(&ev, exists)
	if err != nil {
		return nil, nil, err
	}

	s.mu.Lock()
	defer s.mu.Unlock()
	if _, dup := s.byPair[pairKey{reg.EventID, reg.ParticipantID}]; dup {
		return nil, nil, repository.ErrAlreadyRegistered
	}
	if _, dup := s.byTicket[reg.TicketID]; dup {
		return nil, nil, repository.ErrTicketConflict
	}
	storedEv := ev.Clone()
	s.events[eventID] = &storedEv
	storedReg := reg.Clone()
	s.regs[reg.ID] = &storedReg
	s.byPair[pairKey{reg.EventID, reg.ParticipantID}] = reg.ID
	s.byTicket[reg.TicketID] = reg.ID
	return &ev, reg, nil
}

// Cancel serialises on the registration's event and applies release.
func (r *RegistrationStore) Cancel(_ context.Context, regID string, release repository.ReleaseFunc) (*model.Event, *model.Registration, error) {
	eventID, err := r.eventOf(regID)
	if err != nil {
		return nil, nil, err
	}
	unlock := r.s.locks.lock(eventID)
	defer unlock()

	s := r.s
	s.mu.RLock()
	storedReg, okReg := s.regs[regID]
	storedEv, okEv := s.events[eventID]
	var (
		reg model.Registration
		ev  model.Event
	)
	if okReg && okEv {
		reg = storedReg.Clone()
		ev = storedEv.Clone()
	}
	s.mu.RUnlock()
	if !okReg || !okEv {
		return nil, nil, repository.ErrNotFound
	}

	if err := release(&ev, &reg); err != nil {
		return nil, nil, err
	}

	s.mu.Lock()
	evCopy, regCopy := ev.Clone(), reg.Clone()
	s.events[eventID] = &evCopy
	s.regs[regID] = &regCopy
	s.mu.Unlock()
	return &ev, &reg, nil
}

// Mutate serialises on the registration's event and applies fn.
func (r *RegistrationStore) Mutate(_ context.Context, regID string, fn repository.RegistrationFunc) (*model.Registration, error) {
	eventID, err := r.eventOf(regID)
	if err != nil {
		return nil, err
	}
	unlock := r.s.locks.lock(eventID)
	defer unlock()

	reg, err := r.GetByID(context.Background(), regID)
	if err != nil {
		return nil, err
	}
	if err := fn(reg); err != nil {
		return nil, err
	}

	r.s.mu.Lock()
	cp := reg.Clone()
	r.s.regs[regID] = &cp
	r.s.mu.Unlock()
	return reg, nil
}

// SetQRCode attaches the rendered QR payload to a registration.
func (r *RegistrationStore) SetQRCode(_ context.Context, regID, qr string) error {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	reg, ok := r.s.regs[regID]
	if !ok {
		return repository.ErrNotFound
	}
	reg.QRCode = &qr
	return nil
}

// GetByID returns a copy of one registration.
func (r *RegistrationStore) GetByID(_ context.Context, id string) (*model.Registration, error) {
	r.s.mu.RLock()
	defer r.s.mu.RUnlock()
	return r.s.registration(id)
}

// GetByTicket looks a registration up by ticket id.
func (r *RegistrationStore) GetByTicket(_ context.Context, ticketID string) (*model.Registration, error) {
	r.s.mu.RLock()
	defer r.s.mu.RUnlock()
	id, ok := r.s.byTicket[ticketID]
	if !ok {
		return nil, repository.ErrNotFound
	}
	return r.s.registration(id)
}

// Find returns the participant's registration for the event, if any.
func (r *RegistrationStore) Find(_ context.Context, eventID, participantID string) (*model.Registration, error) {
	r.s.mu.RLock()
	defer r.s.mu.RUnlock()
	id, ok := r.s.byPair[pairKey{eventID, participantID}]
	if !ok {
		return nil, repository.ErrNotFound
	}
	return r.s.registration(id)
}

// ListByEvent returns the event's registrations, oldest first.
func (r *RegistrationStore) ListByEvent(_ context.Context, eventID string) ([]model.Registration, error) {
	return r.filter(func(reg *model.Registration) bool { return reg.EventID == eventID }, false), nil
}

// ListByParticipant returns a participant's registrations, newest first.
func (r *RegistrationStore) ListByParticipant(_ context.Context, participantID string) ([]model.Registration, error) {
	return r.filter(func(reg *model.Registration) bool { return reg.ParticipantID == participantID }, true), nil
}

func (r *RegistrationStore) filter(keep func(*model.Registration) bool, newestFirst bool) []model.Registration {
	r.s.mu.RLock()
	var out []model.Registration
	for _, reg := range r.s.regs {
		if keep(reg) {
			out = append(out, reg.Clone())
		}
	}
	r.s.mu.RUnlock()
	sortRegistrations(out, newestFirst)
	return out
}

func (r *RegistrationStore) eventOf(regID string) (string, error) {
	r.s.mu.RLock()
	defer r.s.mu.RUnlock()
	reg, ok := r.s.regs[regID]
	if !ok {
		return "", repository.ErrNotFound
	}
	return reg.EventID, nil
}

// registration returns a copy; callers hold s.mu.
func (s *state) registration(id string) (*model.Registration, error) {
	reg, ok := s.regs[id]
	if !ok {
		return nil, repository.ErrNotFound
	}
	cp := reg.Clone()
	return &cp, nil
}
