package model

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestTagVocabulary(t *testing.T) {
	assert.Len(t, Tags, 13)
	assert.True(t, ValidTag("Hackathon"))
	assert.False(t, ValidTag("hackathon"))
}

func TestEvent_RemainingAndFull(t *testing.T) {
	ev := Event{RegistrationLimit: 3, CurrentRegistrations: 2}
	assert.Equal(t, 1, ev.Remaining())
	assert.False(t, ev.IsFull())

	ev.CurrentRegistrations = 3
	assert.Equal(t, 0, ev.Remaining())
	assert.True(t, ev.IsFull())
}

func TestEventClone_DoesNotAlias(t *testing.T) {
	ev := Event{
		Tags:        []string{"Music"},
		CustomForm:  &CustomForm{Fields: []FormField{{Label: "Team", Type: FieldDropdown, Options: []string{"A"}}}},
		ItemDetails: &ItemDetails{Sizes: []string{"M"}, Stock: 3},
	}
	cp := ev.Clone()
	cp.Tags[0] = "Art"
	cp.CustomForm.Fields[0].Options[0] = "B"
	cp.CustomForm.Locked = true
	cp.ItemDetails.Stock = 0

	assert.Equal(t, "Music", ev.Tags[0])
	assert.Equal(t, "A", ev.CustomForm.Fields[0].Options[0])
	assert.False(t, ev.CustomForm.Locked)
	assert.Equal(t, 3, ev.ItemDetails.Stock)
}

func TestEventPatch_PresentOrder(t *testing.T) {
	name := "X"
	limit := 10
	status := StatusOngoing
	p := EventPatch{Status: &status, Name: &name, RegistrationLimit: &limit}
	assert.Equal(t, []string{FieldEventName, FieldRegistrationLimit, FieldStatus}, p.Present())
	assert.Empty(t, EventPatch{}.Present())
}

func TestMessage_ToggleReaction(t *testing.T) {
	var m Message
	require.True(t, m.ToggleReaction("👍", "u1"))
	require.True(t, m.ToggleReaction("👍", "u2"))
	assert.Equal(t, 2, m.ReactionCounts()["👍"])

	assert.False(t, m.ToggleReaction("👍", "u1"))
	assert.Equal(t, []string{"u2"}, m.Reactions["👍"])

	assert.False(t, m.ToggleReaction("👍", "u2"))
	_, ok := m.Reactions["👍"]
	assert.False(t, ok, "empty reactor sets are dropped")
}

func TestSortMessages_PinnedFirstThenChronological(t *testing.T) {
	msgs := []Message{
		{ID: "a", Seq: 1},
		{ID: "b", Seq: 2, Pinned: true},
		{ID: "c", Seq: 3},
		{ID: "d", Seq: 4, Pinned: true},
	}
	SortMessages(msgs)
	ids := make([]string, len(msgs))
	for i, m := range msgs {
		ids[i] = m.ID
	}
	assert.Equal(t, []string{"b", "d", "a", "c"}, ids)
}

func TestMessage_SoftDelete(t *testing.T) {
	m := Message{Content: "hello", Pinned: true}
	m.SoftDelete(m.CreatedAt)
	assert.True(t, m.Deleted)
	assert.False(t, m.Pinned)
	assert.Equal(t, DeletedContent, m.Content)
}

func TestEventFilter_Match(t *testing.T) {
	ev := &Event{OrganizerID: "o1", Status: StatusPublished, Type: EventTypeNormal, Tags: []string{"Music"}}
	assert.True(t, EventFilter{}.Match(ev))
	assert.True(t, EventFilter{Tag: "Music", Type: EventTypeNormal}.Match(ev))
	assert.False(t, EventFilter{Tag: "Art"}.Match(ev))
	assert.False(t, EventFilter{OrganizerID: "o2"}.Match(ev))

	draft := &Event{Status: StatusDraft}
	assert.False(t, EventFilter{}.Match(draft))
	assert.True(t, EventFilter{IncludeDraft: true}.Match(draft))
}
