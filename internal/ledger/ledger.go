// Package ledger holds the capacity rules for registrations: admission,
// release and check-in. The functions are pure; callers run them inside a
// store transaction that serialises access to one event.
package ledger

import (
	"fmt"
	"slices"
	"strings"
	"time"

	"github.com/Shivanand-hulikatti/festival-events/internal/apperr"
	"github.com/Shivanand-hulikatti/festival-events/internal/model"
)

// Request is one admission attempt. The identifiers are minted by the caller
// once per attempt.
type Request struct {
	RegistrationID string
	TicketID       string
	Participant    model.Participant
	FormResponses  map[string]any
	Merchandise    *model.MerchandiseDetails
}

// Admit decides whether req may register for ev. On success ev's counters
// (and stock, and form lock) are updated in place and the new registration
// is returned. exists reports whether any registration for the pair is
// already stored, whatever its status.
func Admit(ev *model.Event, req Request, exists bool, now time.Time) (*model.Registration, error) {
	if ev.Status != model.StatusPublished && ev.Status != model.StatusOngoing {
		return nil, apperr.ErrEventNotOpen
	}
	if now.After(ev.RegistrationDeadline) {
		return nil, apperr.ErrDeadlinePassed
	}
	if ev.IsFull() {
		return nil, apperr.ErrLimitReached
	}
	if ev.Eligibility == model.EligibilityIIITOnly && req.Participant.Type != model.ParticipantIIIT {
		return nil, apperr.ErrIneligible
	}
	if exists {
		return nil, apperr.ErrAlreadyRegistered
	}

	reg := &model.Registration{
		ID:               req.RegistrationID,
		EventID:          ev.ID,
		ParticipantID:    req.Participant.ID,
		ParticipantEmail: req.Participant.Email,
		Status:           model.RegistrationRegistered,
		TicketID:         req.TicketID,
		CreatedAt:        now,
		UpdatedAt:        now,
	}

	switch ev.Type {
	case model.EventTypeNormal:
		if err := checkResponses(ev.CustomForm, req.FormResponses); err != nil {
			return nil, err
		}
		reg.FormResponses = req.FormResponses
		if ev.CustomForm == nil {
			ev.CustomForm = &model.CustomForm{}
		}
		ev.CustomForm.Locked = true
	case model.EventTypeMerchandise:
		details, err := reserveStock(ev.ItemDetails, req.Merchandise)
		if err != nil {
			return nil, err
		}
		reg.Merchandise = details
	default:
		return nil, fmt.Errorf("admit: unknown event type %q", ev.Type)
	}

	ev.CurrentRegistrations++
	ev.UpdatedAt = now
	return reg, nil
}

// Release cancels reg and returns its slot (and stock) to ev. It is the
// exact inverse of Admit.
func Release(ev *model.Event, reg *model.Registration, now time.Time) error {
	if reg.Status == model.RegistrationCancelled {
		return apperr.ErrAlreadyCancelled
	}
	if !reg.Status.Active() {
		return apperr.ErrNotCancellable.WithParams(map[string]any{"Status": string(reg.Status)})
	}
	reg.Status = model.RegistrationCancelled
	reg.UpdatedAt = now

	ev.CurrentRegistrations = max(ev.CurrentRegistrations-1, 0)
	if ev.Type == model.EventTypeMerchandise && ev.ItemDetails != nil {
		ev.ItemDetails.Stock += reg.Quantity()
	}
	ev.UpdatedAt = now
	return nil
}

// ReleaseAll cancels every active registration in regs against ev and
// returns the ones it changed.
func ReleaseAll(ev *model.Event, regs []model.Registration, now time.Time) []model.Registration {
	var cancelled []model.Registration
	for i := range regs {
		if !regs[i].Status.Active() {
			continue
		}
		if err := Release(ev, &regs[i], now); err == nil {
			cancelled = append(cancelled, regs[i])
		}
	}
	return cancelled
}

// CheckIn marks reg attended. A second scan is rejected without mutation.
func CheckIn(reg *model.Registration, now time.Time) error {
	if reg.Attended || reg.Status == model.RegistrationAttended {
		return apperr.ErrAlreadyCheckedIn
	}
	if !reg.Status.Active() {
		return apperr.ErrRegistrationInactive.WithParams(map[string]any{"Status": string(reg.Status)})
	}
	ts := now
	reg.Attended = true
	reg.AttendanceTimestamp = &ts
	reg.Status = model.RegistrationAttended
	reg.UpdatedAt = now
	return nil
}

func reserveStock(item *model.ItemDetails, want *model.MerchandiseDetails) (*model.MerchandiseDetails, error) {
	if item == nil {
		return nil, apperr.ErrItemDetailsRequired
	}
	details := model.MerchandiseDetails{Quantity: 1}
	if want != nil {
		details = *want
		if details.Quantity == 0 {
			details.Quantity = 1
		}
	}
	if details.Quantity < 1 {
		return nil, apperr.ErrInvalidQuantity.WithField("quantity")
	}
	if err := checkOption("size", item.Sizes, details.Size); err != nil {
		return nil, err
	}
	if err := checkOption("color", item.Colors, details.Color); err != nil {
		return nil, err
	}
	if err := checkOption("variant", item.Variants, details.Variant); err != nil {
		return nil, err
	}
	if details.Quantity > item.Stock {
		return nil, apperr.ErrInsufficientStock.WithParams(map[string]any{"Stock": item.Stock})
	}
	if details.Quantity > item.PurchaseLimit {
		return nil, apperr.ErrPurchaseLimitExceeded.WithParams(map[string]any{"Limit": item.PurchaseLimit})
	}
	item.Stock -= details.Quantity
	return &details, nil
}

func checkOption(field string, offered []string, chosen string) error {
	if chosen == "" || len(offered) == 0 || slices.Contains(offered, chosen) {
		return nil
	}
	return apperr.ErrInvalidOption.WithField(field)
}

// checkResponses enforces required answers and dropdown options. Other field
// types are stored as given.
func checkResponses(form *model.CustomForm, responses map[string]any) error {
	if form == nil {
		return nil
	}
	for _, f := range form.Fields {
		v, ok := responses[f.Label]
		if f.Required && (!ok || blank(v)) {
			return apperr.ErrMissingFormResponse.WithField(f.Label)
		}
		if f.Type == model.FieldDropdown && ok && !blank(v) {
			s, isString := v.(string)
			if !isString || !slices.Contains(f.Options, s) {
				return apperr.ErrInvalidOption.WithField(f.Label)
			}
		}
	}
	return nil
}

func blank(v any) bool {
	switch t := v.(type) {
	case nil:
		return true
	case string:
		return strings.TrimSpace(t) == ""
	case bool:
		// an unticked required checkbox counts as unanswered
		return !t
	case []any:
		return len(t) == 0
	}
	return false
}
