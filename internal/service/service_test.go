package service

import (
	"context"
	"fmt"
	"sync"
	"testing"
	"time"

	"github.com/stretchr/testify/require"

	"github.com/Shivanand-hulikatti/festival-events/internal/auth"
	"github.com/Shivanand-hulikatti/festival-events/internal/model"
	"github.com/Shivanand-hulikatti/festival-events/internal/notify"
	"github.com/Shivanand-hulikatti/festival-events/internal/repository/memory"
	"github.com/Shivanand-hulikatti/festival-events/internal/stream"
	"github.com/Shivanand-hulikatti/festival-events/internal/ticket"
)

var (
	testNow = time.Date(2026, 2, 1, 10, 0, 0, 0, time.UTC)

	organizer  = auth.Identity{UserID: "org-1", Email: "org@iiit.ac.in", Role: model.RoleOrganizer}
	organizer2 = auth.Identity{UserID: "org-2", Email: "org2@iiit.ac.in", Role: model.RoleOrganizer}
	admin      = auth.Identity{UserID: "admin-1", Email: "admin@iiit.ac.in", Role: model.RoleAdmin}
)

func participant(n int) auth.Identity {
	return auth.Identity{
		UserID:          fmt.Sprintf("p-%d", n),
		Email:           fmt.Sprintf("p%d@students.iiit.ac.in", n),
		Role:            model.RoleParticipant,
		ParticipantType: model.ParticipantIIIT,
	}
}

type recorder struct {
	mu      sync.Mutex
	intents []notify.Intent
}

func (r *recorder) Notify(in notify.Intent) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.intents = append(r.intents, in)
}

func (r *recorder) of(kind notify.Kind) []notify.Intent {
	r.mu.Lock()
	defer r.mu.Unlock()
	var out []notify.Intent
	for _, in := range r.intents {
		if in.Kind == kind {
			out = append(out, in)
		}
	}
	return out
}

type frames struct {
	mu  sync.Mutex
	got []stream.Frame
}

func (f *frames) Publish(eventID string, fr stream.Frame) int64 {
	f.mu.Lock()
	defer f.mu.Unlock()
	fr.EventID = eventID
	fr.Seq = int64(len(f.got) + 1)
	f.got = append(f.got, fr)
	return fr.Seq
}

func (f *frames) types() []stream.FrameType {
	f.mu.Lock()
	defer f.mu.Unlock()
	out := make([]stream.FrameType, 0, len(f.got))
	for _, fr := range f.got {
		out = append(out, fr.Type)
	}
	return out
}

type fixture struct {
	store    *memory.Store
	notes    *recorder
	frames   *frames
	events   *EventService
	regs     *RegistrationService
	forum    *ForumService
	feedback *FeedbackService
	now      time.Time
}

func newFixture(t *testing.T) *fixture {
	t.Helper()
	f := &fixture{store: memory.New(), notes: &recorder{}, frames: &frames{}, now: testNow}
	clock := Clock(func() time.Time { return f.now })
	st := f.store
	f.events = NewEventService(st.Events, f.notes, clock)
	f.regs = NewRegistrationService(st.Events, st.Registrations, ticket.NewQREncoder(), f.notes, clock)
	f.forum = NewForumService(st.Events, st.Registrations, st.Messages, f.frames, clock)
	f.feedback = NewFeedbackService(st.Events, st.Registrations, st.Feedback, clock)
	return f
}

func normalRequest(limit int) model.CreateEventRequest {
	return model.CreateEventRequest{
		Name:                 "Robo Wars",
		Description:          "Bring your bot",
		Type:                 model.EventTypeNormal,
		Eligibility:          model.EligibilityAll,
		Tags:                 []string{"Technical"},
		StartDate:            testNow.Add(30 * 24 * time.Hour),
		EndDate:              testNow.Add(31 * 24 * time.Hour),
		RegistrationDeadline: testNow.Add(20 * 24 * time.Hour),
		RegistrationLimit:    limit,
	}
}

func merchRequest(stock, purchaseLimit int) model.CreateEventRequest {
	req := normalRequest(100)
	req.Name = "Festival Tee"
	req.Type = model.EventTypeMerchandise
	req.ItemDetails = &model.ItemDetails{
		Sizes:         []string{"S", "M", "L"},
		Colors:        []string{"Black"},
		Stock:         stock,
		PurchaseLimit: purchaseLimit,
	}
	return req
}

func statusPtr(s model.EventStatus) *model.EventStatus { return &s }

// publish creates an event from req and moves it to Published.
func (f *fixture) publish(t *testing.T, req model.CreateEventRequest) *model.Event {
	t.Helper()
	ctx := context.Background()
	ev, err := f.events.CreateEvent(ctx, organizer, req)
	require.NoError(t, err)
	ev, err = f.events.UpdateEvent(ctx, organizer, ev.ID, model.EventPatch{Status: statusPtr(model.StatusPublished)})
	require.NoError(t, err)
	return ev
}

// attend registers and checks in p.
func (f *fixture) attend(t *testing.T, eventID string, p auth.Identity) *model.Registration {
	t.Helper()
	ctx := context.Background()
	reg, err := f.regs.Register(ctx, p, eventID, model.RegisterRequest{})
	require.NoError(t, err)
	reg, err = f.regs.CheckIn(ctx, organizer, reg.TicketID)
	require.NoError(t, err)
	return reg
}
