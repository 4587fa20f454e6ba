package lifecycle

import (
	"fmt"
	"strings"
	"time"

	"github.com/Shivanand-hulikatti/festival-events/internal/apperr"
	"github.com/Shivanand-hulikatti/festival-events/internal/model"
)

// NewEvent builds a Draft event owned by organizerID from a create request.
func NewEvent(id, organizerID string, req model.CreateEventRequest, now time.Time) (*model.Event, error) {
	ev := &model.Event{
		ID:                   id,
		OrganizerID:          organizerID,
		Name:                 strings.TrimSpace(req.Name),
		Description:          req.Description,
		Type:                 req.Type,
		Eligibility:          req.Eligibility,
		Tags:                 dedupe(req.Tags),
		StartDate:            req.StartDate,
		EndDate:              req.EndDate,
		RegistrationDeadline: req.RegistrationDeadline,
		RegistrationLimit:    req.RegistrationLimit,
		RegistrationFee:      req.RegistrationFee,
		Status:               model.StatusDraft,
		CreatedAt:            now,
		UpdatedAt:            now,
	}
	if ev.Eligibility == "" {
		ev.Eligibility = model.EligibilityAll
	}
	switch ev.Type {
	case model.EventTypeNormal:
		form := model.CustomForm{}
		if req.CustomForm != nil {
			form.Fields = req.CustomForm.Fields
		}
		ev.CustomForm = &form
		if req.ItemDetails != nil {
			return nil, apperr.ErrPayloadMismatch.WithField(model.FieldItemDetails)
		}
	case model.EventTypeMerchandise:
		if req.CustomForm != nil {
			return nil, apperr.ErrPayloadMismatch.WithField(model.FieldCustomForm)
		}
		if req.ItemDetails != nil {
			item := *req.ItemDetails
			ev.ItemDetails = &item
		}
	}
	if err := Validate(ev); err != nil {
		return nil, err
	}
	return ev, nil
}

// Validate checks the invariants every stored event satisfies.
func Validate(ev *model.Event) error {
	if ev.Name == "" {
		return apperr.ErrNameRequired.WithField(model.FieldEventName)
	}
	if !ev.Type.Valid() {
		return apperr.ErrInvalidEventType.WithField(model.FieldEventType)
	}
	if !ev.Eligibility.Valid() {
		return apperr.ErrInvalidEligibility.WithField(model.FieldEligibility)
	}
	for _, tag := range ev.Tags {
		if !model.ValidTag(tag) {
			return apperr.ErrInvalidTag.WithField(model.FieldTags).WithParams(map[string]any{"Tag": tag})
		}
	}
	if ev.StartDate.IsZero() || ev.EndDate.IsZero() || ev.StartDate.After(ev.EndDate) {
		return apperr.ErrInvalidDates.WithField(model.FieldEventStartDate)
	}
	if ev.RegistrationDeadline.IsZero() || ev.RegistrationDeadline.After(ev.EndDate) {
		return apperr.ErrDeadlineAfterEnd.WithField(model.FieldRegistrationDeadline)
	}
	if ev.RegistrationLimit < 1 {
		return apperr.ErrInvalidLimit.WithField(model.FieldRegistrationLimit)
	}
	if ev.CurrentRegistrations > ev.RegistrationLimit {
		return apperr.ErrLimitBelowCount.WithField(model.FieldRegistrationLimit)
	}
	if ev.RegistrationFee < 0 {
		return apperr.ErrInvalidFee.WithField(model.FieldRegistrationFee)
	}
	if !ev.Status.Valid() {
		return apperr.ErrInvalidStatus.WithField(model.FieldStatus)
	}

	switch ev.Type {
	case model.EventTypeNormal:
		if ev.ItemDetails != nil {
			return apperr.ErrPayloadMismatch.WithField(model.FieldItemDetails)
		}
		if ev.CustomForm != nil {
			if err := validateForm(ev.CustomForm); err != nil {
				return err
			}
		}
	case model.EventTypeMerchandise:
		if ev.CustomForm != nil {
			return apperr.ErrPayloadMismatch.WithField(model.FieldCustomForm)
		}
		if ev.ItemDetails == nil {
			return apperr.ErrItemDetailsRequired.WithField(model.FieldItemDetails)
		}
		if ev.ItemDetails.Stock < 0 {
			return apperr.ErrInvalidStock.WithField(model.FieldItemDetails)
		}
		if ev.ItemDetails.PurchaseLimit < 1 {
			return apperr.ErrInvalidPurchaseLimit.WithField(model.FieldItemDetails)
		}
	}
	return nil
}

func validateForm(form *model.CustomForm) error {
	labels := make(map[string]bool, len(form.Fields))
	for i, f := range form.Fields {
		label := strings.TrimSpace(f.Label)
		switch {
		case label == "":
			return invalidField(i, "label is required")
		case labels[label]:
			return invalidField(i, "duplicate label "+label)
		case !f.Type.Valid():
			return invalidField(i, "unknown type "+string(f.Type))
		case f.Type == model.FieldDropdown && len(f.Options) == 0:
			return invalidField(i, "dropdown needs options")
		}
		labels[label] = true
	}
	return nil
}

func invalidField(index int, reason string) error {
	return apperr.ErrInvalidFormField.WithField(model.FieldCustomForm).
		WithParams(map[string]any{"Index": index, "Reason": reason}).
		Wrap(fmt.Errorf("field %d: %s", index, reason))
}
