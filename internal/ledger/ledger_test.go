package ledger

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/Shivanand-hulikatti/festival-events/internal/apperr"
	"github.com/Shivanand-hulikatti/festival-events/internal/model"
)

var now = time.Date(2026, 2, 1, 12, 0, 0, 0, time.UTC)

func normalEvent() *model.Event {
	return &model.Event{
		ID:                   "ev-1",
		Type:                 model.EventTypeNormal,
		Eligibility:          model.EligibilityAll,
		Status:               model.StatusPublished,
		RegistrationDeadline: now.Add(time.Hour),
		EndDate:              now.Add(48 * time.Hour),
		RegistrationLimit:    2,
		CustomForm: &model.CustomForm{Fields: []model.FormField{
			{Label: "Team", Type: model.FieldText, Required: true},
			{Label: "Track", Type: model.FieldDropdown, Options: []string{"AI", "Web"}},
		}},
	}
}

func merchEvent(stock, limit int) *model.Event {
	return &model.Event{
		ID:                   "ev-m",
		Type:                 model.EventTypeMerchandise,
		Eligibility:          model.EligibilityAll,
		Status:               model.StatusPublished,
		RegistrationDeadline: now.Add(time.Hour),
		RegistrationLimit:    100,
		ItemDetails:          &model.ItemDetails{Sizes: []string{"S", "M"}, Stock: stock, PurchaseLimit: limit},
	}
}

func request(participant string) Request {
	return Request{
		RegistrationID: "reg-" + participant,
		TicketID:       "TKT-" + participant,
		Participant:    model.Participant{ID: participant, Email: participant + "@iiit.ac.in", Type: model.ParticipantIIIT},
		FormResponses:  map[string]any{"Team": "Rockets"},
	}
}

func TestAdmit_NormalLocksFormAndCounts(t *testing.T) {
	ev := normalEvent()
	reg, err := Admit(ev, request("p1"), false, now)
	require.NoError(t, err)

	assert.Equal(t, model.RegistrationRegistered, reg.Status)
	assert.Equal(t, "TKT-p1", reg.TicketID)
	assert.Equal(t, "Rockets", reg.FormResponses["Team"])
	assert.Equal(t, 1, ev.CurrentRegistrations)
	assert.True(t, ev.CustomForm.Locked)
}

func TestAdmit_RejectionOrder(t *testing.T) {
	cases := []struct {
		name   string
		mutate func(ev *model.Event, req *Request) bool
		want   *apperr.Error
	}{
		{"draft", func(ev *model.Event, _ *Request) bool { ev.Status = model.StatusDraft; return false }, apperr.ErrEventNotOpen},
		{"completed", func(ev *model.Event, _ *Request) bool { ev.Status = model.StatusCompleted; return false }, apperr.ErrEventNotOpen},
		{"deadline", func(ev *model.Event, _ *Request) bool { ev.RegistrationDeadline = now.Add(-time.Second); return false }, apperr.ErrDeadlinePassed},
		{"full beats duplicate", func(ev *model.Event, _ *Request) bool { ev.CurrentRegistrations = 2; return true }, apperr.ErrLimitReached},
		{"ineligible", func(ev *model.Event, req *Request) bool {
			ev.Eligibility = model.EligibilityIIITOnly
			req.Participant.Type = model.ParticipantNonIIIT
			return false
		}, apperr.ErrIneligible},
		{"duplicate", func(*model.Event, *Request) bool { return true }, apperr.ErrAlreadyRegistered},
		{"missing required answer", func(_ *model.Event, req *Request) bool { req.FormResponses = nil; return false }, apperr.ErrMissingFormResponse},
		{"bad dropdown", func(_ *model.Event, req *Request) bool {
			req.FormResponses = map[string]any{"Team": "x", "Track": "Blockchain"}
			return false
		}, apperr.ErrInvalidOption},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			ev := normalEvent()
			req := request("p1")
			exists := tc.mutate(ev, &req)
			before := ev.Clone()

			_, err := Admit(ev, req, exists, now)
			require.Error(t, err)
			assert.ErrorIs(t, err, tc.want)
			assert.Equal(t, before, *ev, "rejection must not mutate the event")
		})
	}
}

func TestAdmit_DeadlineIsInclusive(t *testing.T) {
	ev := normalEvent()
	ev.RegistrationDeadline = now
	_, err := Admit(ev, request("p1"), false, now)
	assert.NoError(t, err)
}

func TestAdmit_MerchandiseStock(t *testing.T) {
	ev := merchEvent(5, 3)
	req := request("p1")
	req.Merchandise = &model.MerchandiseDetails{Size: "M", Quantity: 3}

	reg, err := Admit(ev, req, false, now)
	require.NoError(t, err)
	assert.Equal(t, 3, reg.Quantity())
	assert.Equal(t, 2, ev.ItemDetails.Stock)

	req = request("p2")
	req.Merchandise = &model.MerchandiseDetails{Quantity: 3}
	_, err = Admit(ev, req, false, now)
	assert.ErrorIs(t, err, apperr.ErrInsufficientStock)

	ev = merchEvent(10, 2)
	req.Merchandise = &model.MerchandiseDetails{Quantity: 3}
	_, err = Admit(ev, req, false, now)
	assert.ErrorIs(t, err, apperr.ErrPurchaseLimitExceeded)
	assert.Equal(t, 10, ev.ItemDetails.Stock)

	req.Merchandise = &model.MerchandiseDetails{Size: "XXL", Quantity: 1}
	_, err = Admit(ev, req, false, now)
	assert.ErrorIs(t, err, apperr.ErrInvalidOption)

	req.Merchandise = &model.MerchandiseDetails{Quantity: -2}
	_, err = Admit(ev, req, false, now)
	assert.ErrorIs(t, err, apperr.ErrInvalidQuantity)
}

func TestAdmit_MerchandiseDefaultsToOneUnit(t *testing.T) {
	ev := merchEvent(1, 1)
	reg, err := Admit(ev, request("p1"), false, now)
	require.NoError(t, err)
	assert.Equal(t, 1, reg.Quantity())
	assert.Equal(t, 0, ev.ItemDetails.Stock)
}

func TestRelease_RestoresExactQuantity(t *testing.T) {
	ev := merchEvent(10, 4)
	req := request("p1")
	req.Merchandise = &model.MerchandiseDetails{Quantity: 4}
	reg, err := Admit(ev, req, false, now)
	require.NoError(t, err)
	require.Equal(t, 6, ev.ItemDetails.Stock)

	require.NoError(t, Release(ev, reg, now))
	assert.Equal(t, 10, ev.ItemDetails.Stock)
	assert.Equal(t, 0, ev.CurrentRegistrations)
	assert.Equal(t, model.RegistrationCancelled, reg.Status)

	assert.ErrorIs(t, Release(ev, reg, now), apperr.ErrAlreadyCancelled)
	assert.Equal(t, 10, ev.ItemDetails.Stock, "second release is a no-op")
}

func TestRelease_FloorsAtZero(t *testing.T) {
	ev := normalEvent()
	reg := &model.Registration{Status: model.RegistrationRegistered}
	require.NoError(t, Release(ev, reg, now))
	assert.Equal(t, 0, ev.CurrentRegistrations)
}

func TestRelease_AttendedNotCancellable(t *testing.T) {
	ev := normalEvent()
	ev.CurrentRegistrations = 1
	reg := &model.Registration{Status: model.RegistrationAttended}
	assert.ErrorIs(t, Release(ev, reg, now), apperr.ErrNotCancellable)
	assert.Equal(t, 1, ev.CurrentRegistrations)
}

func TestReleaseAll_OnlyActive(t *testing.T) {
	ev := normalEvent()
	ev.CurrentRegistrations = 2
	regs := []model.Registration{
		{ID: "a", Status: model.RegistrationRegistered},
		{ID: "b", Status: model.RegistrationPending},
		{ID: "c", Status: model.RegistrationCancelled},
		{ID: "d", Status: model.RegistrationAttended},
	}
	cancelled := ReleaseAll(ev, regs, now)
	require.Len(t, cancelled, 2)
	assert.Equal(t, "a", cancelled[0].ID)
	assert.Equal(t, "b", cancelled[1].ID)
	assert.Equal(t, model.RegistrationAttended, regs[3].Status)
	assert.Equal(t, 0, ev.CurrentRegistrations)
}

func TestCheckIn_Idempotent(t *testing.T) {
	reg := &model.Registration{Status: model.RegistrationRegistered}
	require.NoError(t, CheckIn(reg, now))
	first := *reg.AttendanceTimestamp

	err := CheckIn(reg, now.Add(time.Minute))
	assert.ErrorIs(t, err, apperr.ErrAlreadyCheckedIn)
	assert.Equal(t, first, *reg.AttendanceTimestamp)
	assert.Equal(t, model.RegistrationAttended, reg.Status)
}

func TestCheckIn_CancelledRejected(t *testing.T) {
	reg := &model.Registration{Status: model.RegistrationCancelled}
	assert.ErrorIs(t, CheckIn(reg, now), apperr.ErrRegistrationInactive)
	assert.False(t, reg.Attended)
}
