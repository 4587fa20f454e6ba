// Package model defines the core domain types for the festival event platform.
package model

import (
	"slices"
	"time"
)

// EventType selects which type-specific payload an event carries.
type EventType string

const (
	EventTypeNormal      EventType = "Normal"
	EventTypeMerchandise EventType = "Merchandise"
)

// Valid reports whether t is a known event type.
func (t EventType) Valid() bool {
	return t == EventTypeNormal || t == EventTypeMerchandise
}

// Eligibility restricts who may register for an event.
type Eligibility string

const (
	EligibilityIIITOnly Eligibility = "IIITOnly"
	EligibilityAll      Eligibility = "All"
)

// Valid reports whether e is a known eligibility rule.
func (e Eligibility) Valid() bool {
	return e == EligibilityIIITOnly || e == EligibilityAll
}

// EventStatus is the lifecycle state of an event.
type EventStatus string

const (
	StatusDraft     EventStatus = "Draft"
	StatusPublished EventStatus = "Published"
	StatusOngoing   EventStatus = "Ongoing"
	StatusCompleted EventStatus = "Completed"
	StatusCancelled EventStatus = "Cancelled"
)

// Valid reports whether s is a known lifecycle status.
func (s EventStatus) Valid() bool {
	switch s {
	case StatusDraft, StatusPublished, StatusOngoing, StatusCompleted, StatusCancelled:
		return true
	}
	return false
}

// Tags is the fixed vocabulary an event may be labelled with.
var Tags = []string{
	"Technical", "Cultural", "Sports", "Gaming", "Music", "Dance", "Drama",
	"Art", "Literature", "Workshop", "Hackathon", "Quiz", "Other",
}

// ValidTag reports whether tag belongs to the vocabulary.
func ValidTag(tag string) bool {
	return slices.Contains(Tags, tag)
}

// FieldType is the input kind of a custom registration form field.
type FieldType string

const (
	FieldText     FieldType = "text"
	FieldNumber   FieldType = "number"
	FieldEmail    FieldType = "email"
	FieldDropdown FieldType = "dropdown"
	FieldCheckbox FieldType = "checkbox"
	FieldFile     FieldType = "file"
	FieldTextarea FieldType = "textarea"
)

// Valid reports whether t is a supported form field type.
func (t FieldType) Valid() bool {
	switch t {
	case FieldText, FieldNumber, FieldEmail, FieldDropdown, FieldCheckbox, FieldFile, FieldTextarea:
		return true
	}
	return false
}

// FormField is one entry of a Normal event's registration form.
type FormField struct {
	Label    string    `json:"label"`
	Type     FieldType `json:"type"`
	Options  []string  `json:"options,omitempty"`
	Required bool      `json:"required"`
}

// CustomForm is the ordered registration form of a Normal event. Once Locked
// is set it never changes again.
type CustomForm struct {
	Fields []FormField `json:"fields"`
	Locked bool        `json:"locked"`
}

// ItemDetails describes the stock of a Merchandise event.
type ItemDetails struct {
	Sizes         []string `json:"sizes"`
	Colors        []string `json:"colors"`
	Variants      []string `json:"variants"`
	Stock         int      `json:"stock"`
	PurchaseLimit int      `json:"purchaseLimit"`
}

// Event is an organizer-owned festival event.
type Event struct {
	ID                   string       `json:"id"`
	OrganizerID          string       `json:"organizer"`
	Name                 string       `json:"eventName"`
	Description          string       `json:"eventDescription"`
	Type                 EventType    `json:"eventType"`
	Eligibility          Eligibility  `json:"eligibility"`
	Tags                 []string     `json:"tags"`
	StartDate            time.Time    `json:"eventStartDate"`
	EndDate              time.Time    `json:"eventEndDate"`
	RegistrationDeadline time.Time    `json:"registrationDeadline"`
	RegistrationLimit    int          `json:"registrationLimit"`
	CurrentRegistrations int          `json:"currentRegistrations"`
	RegistrationFee      int64        `json:"registrationFee"`
	Status               EventStatus  `json:"status"`
	CustomForm           *CustomForm  `json:"customForm,omitempty"`
	ItemDetails          *ItemDetails `json:"itemDetails,omitempty"`
	CreatedAt            time.Time    `json:"createdAt"`
	UpdatedAt            time.Time    `json:"updatedAt"`
}

// Remaining returns the number of available registration slots.
func (e *Event) Remaining() int {
	return e.RegistrationLimit - e.CurrentRegistrations
}

// IsFull returns true when no slots remain.
func (e *Event) IsFull() bool {
	return e.Remaining() <= 0
}

// FormLocked reports whether the custom form has been frozen.
func (e *Event) FormLocked() bool {
	return e.CustomForm != nil && e.CustomForm.Locked
}

// Clone returns a deep copy so stores never share mutable state with callers.
func (e Event) Clone() Event {
	e.Tags = slices.Clone(e.Tags)
	if e.CustomForm != nil {
		form := *e.CustomForm
		form.Fields = slices.Clone(e.CustomForm.Fields)
		for i := range form.Fields {
			form.Fields[i].Options = slices.Clone(form.Fields[i].Options)
		}
		e.CustomForm = &form
	}
	if e.ItemDetails != nil {
		item := *e.ItemDetails
		item.Sizes = slices.Clone(item.Sizes)
		item.Colors = slices.Clone(item.Colors)
		item.Variants = slices.Clone(item.Variants)
		e.ItemDetails = &item
	}
	return e
}

// EventFilter narrows event listings. Zero fields match everything.
type EventFilter struct {
	OrganizerID  string
	Status       EventStatus
	Type         EventType
	Tag          string
	IncludeDraft bool
}

// Match reports whether e passes the filter.
func (f EventFilter) Match(e *Event) bool {
	if f.OrganizerID != "" && e.OrganizerID != f.OrganizerID {
		return false
	}
	if !f.IncludeDraft && e.Status == StatusDraft {
		return false
	}
	if f.Status != "" && e.Status != f.Status {
		return false
	}
	if f.Type != "" && e.Type != f.Type {
		return false
	}
	if f.Tag != "" && !slices.Contains(e.Tags, f.Tag) {
		return false
	}
	return true
}

// ErrorResponse is a standard JSON error envelope.
type ErrorResponse struct {
	Error string `json:"error"`
	Code  string `json:"code,omitempty"`
	Field string `json:"field,omitempty"`
}
