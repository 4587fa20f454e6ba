package memory

import (
	"context"
	"fmt"
	"sort"

	"github.com/Shivanand-hulikatti/festival-events/internal/model"
	"github.com/Shivanand-hulikatti/festival-events/internal/repository"
)

// EventStore keeps events in memory.
type EventStore struct {
	s *state
}

// Create stores a copy of ev.
func (e *EventStore) Create(_ context.Context, ev *model.Event) error {
	e.s.mu.Lock()
	defer e.s.mu.Unlock()
	if _, ok := e.s.events[ev.ID]; ok {
		return fmt.Errorf("insert event: duplicate id %s", ev.ID)
	}
	cp := ev.Clone()
	e.s.events[ev.ID] = &cp
	return nil
}

// GetByID returns a copy of one event.
func (e *EventStore) GetByID(_ context.Context, id string) (*model.Event, error) {
	e.s.mu.RLock()
	defer e.s.mu.RUnlock()
	ev, ok := e.s.events[id]
	if !ok {
		return nil, repository.ErrNotFound
	}
	cp := ev.Clone()
	return &cp, nil
}

// List returns matching events, newest first.
func (e *EventStore) List(_ context.Context, f model.EventFilter) ([]model.Event, error) {
	e.s.mu.RLock()
	var out []model.Event
	for _, ev := range e.s.events {
		if f.Match(ev) {
			out = append(out, ev.Clone())
		}
	}
	e.s.mu.RUnlock()

	sort.Slice(out, func(i, j int) bool {
		if !out[i].CreatedAt.Equal(out[j].CreatedAt) {
			return out[i].CreatedAt.After(out[j].CreatedAt)
		}
		return out[i].ID < out[j].ID
	})
	return out, nil
}

// Update serialises on the event key, applies mutate to a copy and commits
// the copy (plus any cascade) only when everything succeeded.
func (e *EventStore) Update(_ context.Context, id string, mutate repository.EventUpdateFunc, cascade repository.CascadeFunc) (*model.Event, []model.Registration, error) {
	unlock := e.s.locks.lock(id)
	defer unlock()

	ev, err := e.snapshot(id)
	if err != nil {
		return nil, nil, err
	}
	doCascade, err := mutate(ev)
	if err != nil {
		return nil, nil, err
	}

	var cancelled []model.Registration
	if doCascade && cascade != nil {
		cancelled = cascade(ev, e.s.activeRegistrations(id))
	}

	e.s.mu.Lock()
	stored := ev.Clone()
	e.s.events[id] = &stored
	for _, reg := range cancelled {
		cp := reg.Clone()
		e.s.regs[reg.ID] = &cp
	}
	e.s.mu.Unlock()
	return ev, cancelled, nil
}

// Delete removes the event and everything hanging off it once guard
// approves.
func (e *EventStore) Delete(_ context.Context, id string, guard repository.EventGuardFunc) error {
	unlock := e.s.locks.lock(id)
	defer unlock()

	ev, err := e.snapshot(id)
	if err != nil {
		return err
	}
	if err := guard(ev); err != nil {
		return err
	}

	s := e.s
	s.mu.Lock()
	defer s.mu.Unlock()
	delete(s.events, id)
	for regID, reg := range s.regs {
		if reg.EventID == id {
			delete(s.byPair, pairKey{reg.EventID, reg.ParticipantID})
			delete(s.byTicket, reg.TicketID)
			delete(s.regs, regID)
		}
	}
	for msgID, msg := range s.messages {
		if msg.EventID == id {
			delete(s.messages, msgID)
		}
	}
	delete(s.feedback, id)
	return nil
}

func (e *EventStore) snapshot(id string) (*model.Event, error) {
	e.s.mu.RLock()
	defer e.s.mu.RUnlock()
	ev, ok := e.s.events[id]
	if !ok {
		return nil, repository.ErrNotFound
	}
	cp := ev.Clone()
	return &cp, nil
}

func (s *state) activeRegistrations(eventID string) []model.Registration {
	s.mu.RLock()
	defer s.mu.RUnlock()
	var out []model.Registration
	for _, reg := range s.regs {
		if reg.EventID == eventID && reg.Status.Active() {
			out = append(out, reg.Clone())
		}
	}
	sortRegistrations(out, false)
	return out
}

func sortRegistrations(regs []model.Registration, newestFirst bool) {
	sort.Slice(regs, func(i, j int) bool {
		a, b := regs[i], regs[j]
		if !a.CreatedAt.Equal(b.CreatedAt) {
			if newestFirst {
				return a.CreatedAt.After(b.CreatedAt)
			}
			return a.CreatedAt.Before(b.CreatedAt)
		}
		return a.ID < b.ID
	})
}
