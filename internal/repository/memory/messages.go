package memory

import (
	"context"
	"fmt"

	"github.com/Shivanand-hulikatti/festival-events/internal/model"
	"github.com/Shivanand-hulikatti/festival-events/internal/repository"
)

// MessageStore keeps forum messages in memory.
type MessageStore struct {
	s *state
}

// Create stores msg and assigns the next sequence number.
func (m *MessageStore) Create(_ context.Context, msg *model.Message) error {
	m.s.mu.Lock()
	defer m.s.mu.Unlock()
	if _, ok := m.s.messages[msg.ID]; ok {
		return fmt.Errorf("insert message: duplicate id %s", msg.ID)
	}
	m.s.seq++
	msg.Seq = m.s.seq
	if msg.Reactions == nil {
		msg.Reactions = map[string][]string{}
	}
	cp := msg.Clone()
	m.s.messages[msg.ID] = &cp
	return nil
}

// GetByID returns a copy of one message.
func (m *MessageStore) GetByID(_ context.Context, id string) (*model.Message, error) {
	m.s.mu.RLock()
	defer m.s.mu.RUnlock()
	msg, ok := m.s.messages[id]
	if !ok {
		return nil, repository.ErrNotFound
	}
	cp := msg.Clone()
	return &cp, nil
}

// Mutate applies fn under the store lock.
func (m *MessageStore) Mutate(_ context.Context, id string, fn repository.MessageFunc) (*model.Message, error) {
	m.s.mu.Lock()
	defer m.s.mu.Unlock()
	stored, ok := m.s.messages[id]
	if !ok {
		return nil, repository.ErrNotFound
	}
	cp := stored.Clone()
	if err := fn(&cp); err != nil {
		return nil, err
	}
	next := cp.Clone()
	m.s.messages[id] = &next
	return &cp, nil
}

// ToggleReaction flips userID's emoji on the message once guard approves.
func (m *MessageStore) ToggleReaction(_ context.Context, id, emoji, userID string, guard repository.MessageFunc) (*model.Message, bool, error) {
	m.s.mu.Lock()
	defer m.s.mu.Unlock()
	stored, ok := m.s.messages[id]
	if !ok {
		return nil, false, repository.ErrNotFound
	}
	cp := stored.Clone()
	if err := guard(&cp); err != nil {
		return nil, false, err
	}
	added := cp.ToggleReaction(emoji, userID)
	next := cp.Clone()
	m.s.messages[id] = &next
	return &cp, added, nil
}

// List returns one page of the event's forum, pinned first.
func (m *MessageStore) List(_ context.Context, eventID string, page, limit int) ([]model.Message, int, error) {
	m.s.mu.RLock()
	var all []model.Message
	for _, msg := range m.s.messages {
		if msg.EventID == eventID {
			all = append(all, msg.Clone())
		}
	}
	m.s.mu.RUnlock()

	model.SortMessages(all)
	total := len(all)
	if page < 1 || limit < 1 || page-1 >= (total+limit-1)/limit {
		return nil, total, nil
	}
	start := (page - 1) * limit
	end := min(start+limit, total)
	return all[start:end], total, nil
}
