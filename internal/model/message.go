package model

import (
	"maps"
	"slices"
	"time"
)

// MaxMessageLength is the longest forum post accepted, in characters.
const MaxMessageLength = 2000

// DeletedContent replaces the body of a soft-deleted message.
const DeletedContent = "[This message was deleted]"

// Reactions is the fixed emoji set a message can be reacted with.
var Reactions = []string{"👍", "❤️", "😂", "😮", "😢", "🎉"}

// ValidReaction reports whether emoji is in the reaction palette.
func ValidReaction(emoji string) bool {
	return slices.Contains(Reactions, emoji)
}

// Message is one post in an event's discussion forum. Deleted messages keep
// their row so replies still resolve their parent.
type Message struct {
	ID         string              `json:"id"`
	Seq        int64               `json:"seq"`
	EventID    string              `json:"event"`
	AuthorID   string              `json:"author"`
	AuthorRole Role                `json:"authorRole"`
	Content    string              `json:"content"`
	Pinned     bool                `json:"pinned"`
	ParentID   *string             `json:"parentMessage,omitempty"`
	Reactions  map[string][]string `json:"reactions"`
	Deleted    bool                `json:"deleted"`
	CreatedAt  time.Time           `json:"createdAt"`
	UpdatedAt  time.Time           `json:"updatedAt"`
}

// SoftDelete blanks the content and flags the message.
func (m *Message) SoftDelete(now time.Time) {
	m.Deleted = true
	m.Content = DeletedContent
	m.Pinned = false
	m.UpdatedAt = now
}

// ToggleReaction adds userID to the emoji's reactor set, or removes it when
// already present. It reports whether the user is now a reactor.
func (m *Message) ToggleReaction(emoji, userID string) bool {
	if m.Reactions == nil {
		m.Reactions = make(map[string][]string)
	}
	users := m.Reactions[emoji]
	if i := slices.Index(users, userID); i >= 0 {
		users = slices.Delete(users, i, i+1)
		if len(users) == 0 {
			delete(m.Reactions, emoji)
		} else {
			m.Reactions[emoji] = users
		}
		return false
	}
	m.Reactions[emoji] = append(users, userID)
	return true
}

// ReactionCounts returns the number of reactors per emoji.
func (m *Message) ReactionCounts() map[string]int {
	counts := make(map[string]int, len(m.Reactions))
	for emoji, users := range m.Reactions {
		counts[emoji] = len(users)
	}
	return counts
}

// Clone returns a deep copy of m, reactions and parent included.
func (m Message) Clone() Message {
	if m.ParentID != nil {
		p := *m.ParentID
		m.ParentID = &p
	}
	m.Reactions = maps.Clone(m.Reactions)
	for k, v := range m.Reactions {
		m.Reactions[k] = slices.Clone(v)
	}
	return m
}

// SortMessages orders messages pinned first, then by creation sequence.
func SortMessages(msgs []Message) {
	slices.SortStableFunc(msgs, func(a, b Message) int {
		if a.Pinned != b.Pinned {
			if a.Pinned {
				return -1
			}
			return 1
		}
		switch {
		case a.Seq < b.Seq:
			return -1
		case a.Seq > b.Seq:
			return 1
		}
		return 0
	})
}
