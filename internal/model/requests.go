package model

import "time"

// CreateEventRequest is the payload for creating a new event.
type CreateEventRequest struct {
	Name                 string       `json:"eventName"`
	Description          string       `json:"eventDescription"`
	Type                 EventType    `json:"eventType"`
	Eligibility          Eligibility  `json:"eligibility"`
	Tags                 []string     `json:"tags"`
	StartDate            time.Time    `json:"eventStartDate"`
	EndDate              time.Time    `json:"eventEndDate"`
	RegistrationDeadline time.Time    `json:"registrationDeadline"`
	RegistrationLimit    int          `json:"registrationLimit"`
	RegistrationFee      int64        `json:"registrationFee"`
	CustomForm           *CustomForm  `json:"customForm,omitempty"`
	ItemDetails          *ItemDetails `json:"itemDetails,omitempty"`
}

// EventPatch is a partial event update. A nil field is absent from the
// request.
type EventPatch struct {
	Name                 *string      `json:"eventName,omitempty"`
	Description          *string      `json:"eventDescription,omitempty"`
	Type                 *EventType   `json:"eventType,omitempty"`
	Eligibility          *Eligibility `json:"eligibility,omitempty"`
	Tags                 *[]string    `json:"tags,omitempty"`
	StartDate            *time.Time   `json:"eventStartDate,omitempty"`
	EndDate              *time.Time   `json:"eventEndDate,omitempty"`
	RegistrationDeadline *time.Time   `json:"registrationDeadline,omitempty"`
	RegistrationLimit    *int         `json:"registrationLimit,omitempty"`
	RegistrationFee      *int64       `json:"registrationFee,omitempty"`
	Status               *EventStatus `json:"status,omitempty"`
	CustomForm           *CustomForm  `json:"customForm,omitempty"`
	ItemDetails          *ItemDetails `json:"itemDetails,omitempty"`
}

// Field names as they appear on the wire.
const (
	FieldEventName            = "eventName"
	FieldEventDescription     = "eventDescription"
	FieldEventType            = "eventType"
	FieldEligibility          = "eligibility"
	FieldTags                 = "tags"
	FieldEventStartDate       = "eventStartDate"
	FieldEventEndDate         = "eventEndDate"
	FieldRegistrationDeadline = "registrationDeadline"
	FieldRegistrationLimit    = "registrationLimit"
	FieldRegistrationFee      = "registrationFee"
	FieldStatus               = "status"
	FieldCustomForm           = "customForm"
	FieldItemDetails          = "itemDetails"
)

// Present lists the fields set in the patch, in declaration order.
func (p EventPatch) Present() []string {
	var out []string
	add := func(set bool, name string) {
		if set {
			out = append(out, name)
		}
	}
	add(p.Name != nil, FieldEventName)
	add(p.Description != nil, FieldEventDescription)
	add(p.Type != nil, FieldEventType)
	add(p.Eligibility != nil, FieldEligibility)
	add(p.Tags != nil, FieldTags)
	add(p.StartDate != nil, FieldEventStartDate)
	add(p.EndDate != nil, FieldEventEndDate)
	add(p.RegistrationDeadline != nil, FieldRegistrationDeadline)
	add(p.RegistrationLimit != nil, FieldRegistrationLimit)
	add(p.RegistrationFee != nil, FieldRegistrationFee)
	add(p.Status != nil, FieldStatus)
	add(p.CustomForm != nil, FieldCustomForm)
	add(p.ItemDetails != nil, FieldItemDetails)
	return out
}

// RegisterRequest is the payload for registering for an event. Only the
// part matching the event type is read.
type RegisterRequest struct {
	FormResponses map[string]any `json:"formResponses,omitempty"`
	Size          string         `json:"size,omitempty"`
	Color         string         `json:"color,omitempty"`
	Variant       string         `json:"variant,omitempty"`
	Quantity      int            `json:"quantity,omitempty"`
}

// CheckInRequest is the payload of a ticket scan.
type CheckInRequest struct {
	TicketID string `json:"ticketId"`
}

// UpdateFormRequest replaces a Normal event's custom form fields.
type UpdateFormRequest struct {
	Fields []FormField `json:"fields"`
}

// PostMessageRequest is the payload for a new forum post.
type PostMessageRequest struct {
	Content  string  `json:"content"`
	ParentID *string `json:"parentMessage,omitempty"`
}

// ReactRequest toggles a reaction on a forum post.
type ReactRequest struct {
	Emoji string `json:"emoji"`
}

// MessagePage is one page of an event's forum, pinned posts first.
type MessagePage struct {
	Messages []Message `json:"messages"`
	Total    int       `json:"total"`
	Page     int       `json:"page"`
	Limit    int       `json:"limit"`
}

// FeedbackRequest is the payload for rating an attended event.
type FeedbackRequest struct {
	Rating  int    `json:"rating"`
	Comment string `json:"comment"`
}
