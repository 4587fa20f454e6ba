package model

import (
	"maps"
	"time"
)

// Role is the account role carried by an authenticated identity.
type Role string

const (
	RoleParticipant Role = "Participant"
	RoleOrganizer   Role = "Organizer"
	RoleAdmin       Role = "Admin"
)

// Valid reports whether r is a known role.
func (r Role) Valid() bool {
	return r == RoleParticipant || r == RoleOrganizer || r == RoleAdmin
}

// ParticipantType distinguishes campus members from outside visitors.
type ParticipantType string

const (
	ParticipantIIIT    ParticipantType = "IIIT"
	ParticipantNonIIIT ParticipantType = "Non-IIIT"
)

// RegistrationStatus is the state of a single registration.
type RegistrationStatus string

const (
	RegistrationRegistered RegistrationStatus = "Registered"
	RegistrationPending    RegistrationStatus = "Pending"
	RegistrationAttended   RegistrationStatus = "Attended"
	RegistrationCancelled  RegistrationStatus = "Cancelled"
	RegistrationRejected   RegistrationStatus = "Rejected"
)

// Active reports whether the registration still holds a slot.
func (s RegistrationStatus) Active() bool {
	return s == RegistrationRegistered || s == RegistrationPending
}

// MerchandiseDetails is the purchase payload of a Merchandise registration.
type MerchandiseDetails struct {
	Size     string `json:"size,omitempty"`
	Color    string `json:"color,omitempty"`
	Variant  string `json:"variant,omitempty"`
	Quantity int    `json:"quantity"`
}

// Registration records one participant's admission to one event.
type Registration struct {
	ID                  string              `json:"id"`
	EventID             string              `json:"event"`
	ParticipantID       string              `json:"participant"`
	ParticipantEmail    string              `json:"participantEmail,omitempty"`
	Status              RegistrationStatus  `json:"status"`
	FormResponses       map[string]any      `json:"formResponses,omitempty"`
	Merchandise         *MerchandiseDetails `json:"merchandiseDetails,omitempty"`
	TicketID            string              `json:"ticketId"`
	QRCode              *string             `json:"qrCode"`
	Attended            bool                `json:"attended"`
	AttendanceTimestamp *time.Time          `json:"attendanceTimestamp,omitempty"`
	CreatedAt           time.Time           `json:"createdAt"`
	UpdatedAt           time.Time           `json:"updatedAt"`
}

// Quantity returns the number of stock units this registration holds.
func (r *Registration) Quantity() int {
	if r.Merchandise == nil {
		return 0
	}
	return r.Merchandise.Quantity
}

// Clone returns a deep copy of r.
func (r Registration) Clone() Registration {
	r.FormResponses = maps.Clone(r.FormResponses)
	if r.Merchandise != nil {
		m := *r.Merchandise
		r.Merchandise = &m
	}
	if r.QRCode != nil {
		qr := *r.QRCode
		r.QRCode = &qr
	}
	if r.AttendanceTimestamp != nil {
		ts := *r.AttendanceTimestamp
		r.AttendanceTimestamp = &ts
	}
	return r
}

// Participant is the admission-relevant view of the caller.
type Participant struct {
	ID    string
	Email string
	Type  ParticipantType
}

// Feedback is an anonymous post-event rating left by an attendee.
type Feedback struct {
	ID            string    `json:"id"`
	EventID       string    `json:"event"`
	ParticipantID string    `json:"-"`
	Rating        int       `json:"rating"`
	Comment       string    `json:"comment,omitempty"`
	CreatedAt     time.Time `json:"createdAt"`
}

// FeedbackSummary aggregates the feedback of one event.
type FeedbackSummary struct {
	EventID       string     `json:"event"`
	Count         int        `json:"count"`
	AverageRating float64    `json:"averageRating"`
	Items         []Feedback `json:"items"`
}
