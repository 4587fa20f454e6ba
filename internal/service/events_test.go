package service

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/Shivanand-hulikatti/festival-events/internal/apperr"
	"github.com/Shivanand-hulikatti/festival-events/internal/model"
	"github.com/Shivanand-hulikatti/festival-events/internal/notify"
)

func TestCreateEvent(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()

	ev, err := f.events.CreateEvent(ctx, organizer, normalRequest(10))
	require.NoError(t, err)
	assert.Equal(t, model.StatusDraft, ev.Status)
	assert.Equal(t, organizer.UserID, ev.OrganizerID)
	assert.Equal(t, testNow, ev.CreatedAt)

	_, err = f.events.CreateEvent(ctx, participant(1), normalRequest(10))
	assert.ErrorIs(t, err, apperr.ErrForbidden)

	bad := normalRequest(0)
	_, err = f.events.CreateEvent(ctx, organizer, bad)
	assert.ErrorIs(t, err, apperr.ErrInvalidLimit)
}

func TestGetEvent_DraftHiddenFromOthers(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()
	ev, err := f.events.CreateEvent(ctx, organizer, normalRequest(10))
	require.NoError(t, err)

	_, err = f.events.GetEvent(ctx, organizer, ev.ID)
	assert.NoError(t, err)
	_, err = f.events.GetEvent(ctx, admin, ev.ID)
	assert.NoError(t, err)
	_, err = f.events.GetEvent(ctx, participant(1), ev.ID)
	assert.ErrorIs(t, err, apperr.ErrEventNotFound)
	_, err = f.events.GetEvent(ctx, organizer, "missing")
	assert.ErrorIs(t, err, apperr.ErrEventNotFound)
}

func TestListEvents(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()

	_, err := f.events.CreateEvent(ctx, organizer, normalRequest(10))
	require.NoError(t, err)
	published := f.publish(t, normalRequest(10))
	merch := f.publish(t, merchRequest(10, 2))

	all, err := f.events.ListEvents(ctx, model.EventFilter{IncludeDraft: true})
	require.NoError(t, err)
	assert.Len(t, all, 2, "drafts never appear in the public list")

	only, err := f.events.ListEvents(ctx, model.EventFilter{Type: model.EventTypeMerchandise})
	require.NoError(t, err)
	require.Len(t, only, 1)
	assert.Equal(t, merch.ID, only[0].ID)

	tagged, err := f.events.ListEvents(ctx, model.EventFilter{Tag: "Technical", Type: model.EventTypeNormal})
	require.NoError(t, err)
	require.Len(t, tagged, 1)
	assert.Equal(t, published.ID, tagged[0].ID)

	_, err = f.events.ListEvents(ctx, model.EventFilter{Status: "Sleeping"})
	assert.ErrorIs(t, err, apperr.ErrInvalidStatus)

	mine, err := f.events.ListMyEvents(ctx, organizer)
	require.NoError(t, err)
	assert.Len(t, mine, 3)

	mine, err = f.events.ListMyEvents(ctx, organizer2)
	require.NoError(t, err)
	assert.Empty(t, mine)
}

func TestUpdateEvent_PublishQueuesAnnouncement(t *testing.T) {
	f := newFixture(t)
	ev := f.publish(t, normalRequest(10))

	got := f.notes.of(notify.EventPublished)
	require.Len(t, got, 1)
	assert.Equal(t, ev.ID, got[0].EventID)
	assert.Equal(t, "Robo Wars", got[0].EventName)
}

func TestUpdateEvent_OnlyOwner(t *testing.T) {
	f := newFixture(t)
	ev := f.publish(t, normalRequest(10))
	desc := "changed"

	_, err := f.events.UpdateEvent(context.Background(), organizer2, ev.ID, model.EventPatch{Description: &desc})
	assert.ErrorIs(t, err, apperr.ErrNotOwner)
	_, err = f.events.UpdateEvent(context.Background(), organizer, "missing", model.EventPatch{Description: &desc})
	assert.ErrorIs(t, err, apperr.ErrEventNotFound)
}

func TestUpdateEvent_PublishedRejectsWholeUpdate(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()
	ev := f.publish(t, normalRequest(10))

	desc, name := "new description", "New Name"
	_, err := f.events.UpdateEvent(ctx, organizer, ev.ID, model.EventPatch{Description: &desc, Name: &name})
	require.ErrorIs(t, err, apperr.ErrFieldNotEditable)
	appErr, ok := apperr.As(err)
	require.True(t, ok)
	assert.Equal(t, model.FieldEventName, appErr.Field)

	stored, err := f.events.GetEvent(ctx, organizer, ev.ID)
	require.NoError(t, err)
	assert.Equal(t, "Bring your bot", stored.Description)
	assert.Equal(t, "Robo Wars", stored.Name)

	later := ev.RegistrationDeadline.Add(time.Hour)
	limit := 20
	updated, err := f.events.UpdateEvent(ctx, organizer, ev.ID, model.EventPatch{
		Description:          &desc,
		RegistrationDeadline: &later,
		RegistrationLimit:    &limit,
	})
	require.NoError(t, err)
	assert.Equal(t, desc, updated.Description)
	assert.Equal(t, 20, updated.RegistrationLimit)
}

func TestUpdateEvent_CancelCascades(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()
	ev := f.publish(t, normalRequest(10))

	var regs []*model.Registration
	for i := 1; i <= 3; i++ {
		reg, err := f.regs.Register(ctx, participant(i), ev.ID, model.RegisterRequest{})
		require.NoError(t, err)
		regs = append(regs, reg)
	}

	cancelled, err := f.events.UpdateEvent(ctx, organizer, ev.ID, model.EventPatch{Status: statusPtr(model.StatusCancelled)})
	require.NoError(t, err)
	assert.Equal(t, model.StatusCancelled, cancelled.Status)
	assert.Equal(t, 0, cancelled.CurrentRegistrations)

	intents := f.notes.of(notify.EventCancelled)
	require.Len(t, intents, 3)
	emails := map[string]bool{}
	for _, in := range intents {
		emails[in.Email] = true
	}
	for i := 1; i <= 3; i++ {
		assert.True(t, emails[participant(i).Email])
	}

	for _, reg := range regs {
		stored, err := f.store.Registrations.GetByID(ctx, reg.ID)
		require.NoError(t, err)
		assert.Equal(t, model.RegistrationCancelled, stored.Status)
	}

	desc := "too late"
	_, err = f.events.UpdateEvent(ctx, organizer, ev.ID, model.EventPatch{Description: &desc})
	assert.ErrorIs(t, err, apperr.ErrEventCancelled)
}

func TestReplaceForm(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()
	ev := f.publish(t, normalRequest(10))
	fields := []model.FormField{{Label: "Team name", Type: model.FieldText, Required: true}}

	_, err := f.events.ReplaceForm(ctx, organizer2, ev.ID, fields)
	assert.ErrorIs(t, err, apperr.ErrNotOwner)

	updated, err := f.events.ReplaceForm(ctx, organizer, ev.ID, fields)
	require.NoError(t, err)
	assert.Equal(t, fields, updated.CustomForm.Fields)

	_, err = f.regs.Register(ctx, participant(1), ev.ID, model.RegisterRequest{
		FormResponses: map[string]any{"Team name": "Bots"},
	})
	require.NoError(t, err)

	_, err = f.events.ReplaceForm(ctx, organizer, ev.ID, nil)
	assert.ErrorIs(t, err, apperr.ErrFormLocked)
}

func TestDeleteEvent(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()

	draft, err := f.events.CreateEvent(ctx, organizer, normalRequest(10))
	require.NoError(t, err)
	published := f.publish(t, normalRequest(10))

	assert.ErrorIs(t, f.events.DeleteEvent(ctx, organizer, published.ID), apperr.ErrDeleteNotDraft)
	assert.ErrorIs(t, f.events.DeleteEvent(ctx, organizer2, draft.ID), apperr.ErrEventNotFound)
	require.NoError(t, f.events.DeleteEvent(ctx, admin, draft.ID))
	assert.ErrorIs(t, f.events.DeleteEvent(ctx, organizer, draft.ID), apperr.ErrEventNotFound)
}
