// Package lifecycle owns the event state machine: which status transitions
// are legal and which fields an organizer may edit in each status.
package lifecycle

import (
	"strings"

	"github.com/Shivanand-hulikatti/festival-events/internal/apperr"
	"github.com/Shivanand-hulikatti/festival-events/internal/model"
)

var transitions = map[model.EventStatus][]model.EventStatus{
	model.StatusDraft:     {model.StatusPublished},
	model.StatusPublished: {model.StatusOngoing, model.StatusCancelled},
	model.StatusOngoing:   {model.StatusCompleted, model.StatusCancelled},
}

// editable lists the fields that may change per status. A missing entry
// means every field is editable.
var editable = map[model.EventStatus]map[string]bool{
	model.StatusPublished: {
		model.FieldEventDescription:     true,
		model.FieldRegistrationDeadline: true,
		model.FieldRegistrationLimit:    true,
		model.FieldStatus:               true,
	},
	model.StatusOngoing:   {model.FieldStatus: true},
	model.StatusCompleted: {model.FieldStatus: true},
}

// CanTransition reports whether an event may move from one status to another.
func CanTransition(from, to model.EventStatus) bool {
	for _, next := range transitions[from] {
		if next == to {
			return true
		}
	}
	return false
}

// Editable reports whether field may be changed while the event is in status.
func Editable(status model.EventStatus, field string) bool {
	if status == model.StatusCancelled {
		return false
	}
	allowed, restricted := editable[status]
	return !restricted || allowed[field]
}

// ApplyPatch validates p against the event's current status and applies it.
// The event is left untouched when any part of the patch is rejected.
func ApplyPatch(ev *model.Event, p model.EventPatch) error {
	if ev.Status == model.StatusCancelled {
		return apperr.ErrEventCancelled
	}
	for _, field := range p.Present() {
		if !Editable(ev.Status, field) {
			return apperr.ErrFieldNotEditable.WithField(field).
				WithParams(map[string]any{"Status": string(ev.Status)})
		}
	}

	next := ev.Clone()
	if p.Name != nil {
		next.Name = strings.TrimSpace(*p.Name)
	}
	if p.Description != nil {
		next.Description = *p.Description
	}
	if p.Type != nil && *p.Type != next.Type {
		next.Type = *p.Type
		// switching type drops the payload of the old type
		next.CustomForm = nil
		next.ItemDetails = nil
	}
	if p.Eligibility != nil {
		next.Eligibility = *p.Eligibility
	}
	if p.Tags != nil {
		next.Tags = dedupe(*p.Tags)
	}
	if p.StartDate != nil {
		next.StartDate = *p.StartDate
	}
	if p.EndDate != nil {
		next.EndDate = *p.EndDate
	}
	if p.RegistrationDeadline != nil {
		if ev.Status != model.StatusDraft && p.RegistrationDeadline.Before(ev.RegistrationDeadline) {
			return apperr.ErrDeadlineMovedEarlier.WithField(model.FieldRegistrationDeadline)
		}
		next.RegistrationDeadline = *p.RegistrationDeadline
	}
	if p.RegistrationLimit != nil {
		if ev.Status != model.StatusDraft && *p.RegistrationLimit < ev.RegistrationLimit {
			return apperr.ErrLimitDecreased.WithField(model.FieldRegistrationLimit)
		}
		next.RegistrationLimit = *p.RegistrationLimit
	}
	if p.RegistrationFee != nil {
		next.RegistrationFee = *p.RegistrationFee
	}
	if p.Status != nil && *p.Status != ev.Status {
		to := *p.Status
		if !to.Valid() {
			return apperr.ErrInvalidStatus.WithField(model.FieldStatus)
		}
		if !CanTransition(ev.Status, to) {
			return apperr.ErrInvalidTransition.WithField(model.FieldStatus).
				WithParams(map[string]any{"From": string(ev.Status), "To": string(to)})
		}
		next.Status = to
	}
	if p.CustomForm != nil {
		if next.Type != model.EventTypeNormal {
			return apperr.ErrPayloadMismatch.WithField(model.FieldCustomForm)
		}
		if ev.FormLocked() {
			return apperr.ErrFormLocked.WithField(model.FieldCustomForm)
		}
		form := *p.CustomForm
		form.Locked = false
		next.CustomForm = &form
	}
	if p.ItemDetails != nil {
		if next.Type != model.EventTypeMerchandise {
			return apperr.ErrPayloadMismatch.WithField(model.FieldItemDetails)
		}
		item := *p.ItemDetails
		next.ItemDetails = &item
	}

	if err := Validate(&next); err != nil {
		return err
	}
	*ev = next
	return nil
}

// Cancelling reports whether applying p moves ev into Cancelled, which
// cascades to its active registrations.
func Cancelling(before model.EventStatus, p model.EventPatch) bool {
	return p.Status != nil && *p.Status == model.StatusCancelled && before != model.StatusCancelled
}

// Publishing reports whether applying p publishes a draft.
func Publishing(before model.EventStatus, p model.EventPatch) bool {
	return p.Status != nil && *p.Status == model.StatusPublished && before == model.StatusDraft
}

// CheckDelete rejects deletion of anything but a draft.
func CheckDelete(ev *model.Event) error {
	if ev.Status != model.StatusDraft {
		return apperr.ErrDeleteNotDraft
	}
	return nil
}

// ReplaceForm swaps the custom form fields of a Normal event that has not
// yet received a registration.
func ReplaceForm(ev *model.Event, fields []model.FormField) error {
	if ev.Type != model.EventTypeNormal {
		return apperr.ErrNotNormalEvent
	}
	if ev.Status != model.StatusDraft && ev.Status != model.StatusPublished {
		return apperr.ErrFormNotEditable.WithParams(map[string]any{"Status": string(ev.Status)})
	}
	if ev.FormLocked() {
		return apperr.ErrFormLocked
	}
	if err := validateForm(&model.CustomForm{Fields: fields}); err != nil {
		return err
	}
	ev.CustomForm = &model.CustomForm{Fields: fields}
	return nil
}

func dedupe(tags []string) []string {
	seen := make(map[string]bool, len(tags))
	out := make([]string, 0, len(tags))
	for _, t := range tags {
		t = strings.TrimSpace(t)
		if seen[t] {
			continue
		}
		seen[t] = true
		out = append(out, t)
	}
	return out
}
