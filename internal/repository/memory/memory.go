// Package memory is an in-process implementation of the repository
// contracts. A keyed mutex per event serialises the same critical sections
// the Postgres store serialises with row locks.
package memory

import (
	"sync"

	"github.com/Shivanand-hulikatti/festival-events/internal/model"
)

type pairKey struct {
	eventID       string
	participantID string
}

// state is shared by the four stores of one Store.
type state struct {
	mu sync.RWMutex

	events   map[string]*model.Event
	regs     map[string]*model.Registration
	byPair   map[pairKey]string
	byTicket map[string]string

	messages map[string]*model.Message
	seq      int64

	feedback map[string][]model.Feedback

	locks keyedMutex
}

// Store bundles the memory repositories over one shared state.
type Store struct {
	Events        *EventStore
	Registrations *RegistrationStore
	Messages      *MessageStore
	Feedback      *FeedbackStore
}

// New returns an empty store.
func New() *Store {
	s := &state{
		events:   make(map[string]*model.Event),
		regs:     make(map[string]*model.Registration),
		byPair:   make(map[pairKey]string),
		byTicket: make(map[string]string),
		messages: make(map[string]*model.Message),
		feedback: make(map[string][]model.Feedback),
		locks:    keyedMutex{locks: make(map[string]*refMutex)},
	}
	return &Store{
		Events:        &EventStore{s: s},
		Registrations: &RegistrationStore{s: s},
		Messages:      &MessageStore{s: s},
		Feedback:      &FeedbackStore{s: s},
	}
}

// keyedMutex hands out one mutex per key and forgets it once nobody holds
// or waits on it.
type keyedMutex struct {
	mu    sync.Mutex
	locks map[string]*refMutex
}

type refMutex struct {
	sync.Mutex
	refs int
}

func (k *keyedMutex) lock(key string) func() {
	k.mu.Lock()
	m, ok := k.locks[key]
	if !ok {
		m = &refMutex{}
		k.locks[key] = m
	}
	m.refs++
	k.mu.Unlock()

	m.Lock()
	return func() {
		m.Unlock()
		k.mu.Lock()
		m.refs--
		if m.refs == 0 {
			delete(k.locks, key)
		}
		k.mu.Unlock()
	}
}
