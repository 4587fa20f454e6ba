// Package notify delivers best-effort notifications off the request path.
// Callers enqueue intents; a single worker renders and sends them.
package notify

import (
	"context"
	"log"
	"time"

	"github.com/Shivanand-hulikatti/festival-events/internal/model"
)

// Kind names what happened.
type Kind string

const (
	RegistrationConfirmed Kind = "registration_confirmed"
	RegistrationCancelled Kind = "registration_cancelled"
	EventCancelled        Kind = "event_cancelled"
	EventPublished        Kind = "event_published"
)

// Intent is one notification to deliver. Participant fields are empty for
// EventPublished.
type Intent struct {
	Kind           Kind
	EventID        string
	EventName      string
	EventType      model.EventType
	Deadline       time.Time
	RegistrationID string
	TicketID       string
	ParticipantID  string
	Email          string
}

// ForRegistration builds a participant-facing intent.
func ForRegistration(kind Kind, ev *model.Event, reg *model.Registration) Intent {
	return Intent{
		Kind:           kind,
		EventID:        ev.ID,
		EventName:      ev.Name,
		EventType:      ev.Type,
		Deadline:       ev.RegistrationDeadline,
		RegistrationID: reg.ID,
		TicketID:       reg.TicketID,
		ParticipantID:  reg.ParticipantID,
		Email:          reg.ParticipantEmail,
	}
}

// Published builds the announcement intent for a newly published event.
func Published(ev *model.Event) Intent {
	return Intent{
		Kind:      EventPublished,
		EventID:   ev.ID,
		EventName: ev.Name,
		EventType: ev.Type,
		Deadline:  ev.RegistrationDeadline,
	}
}

// Translator renders catalogue messages.
type Translator interface {
	T(locale, key string, data map[string]any) string
}

// Options configures a Dispatcher.
type Options struct {
	QueueSize  int
	Mailer     Mailer
	Publisher  Publisher // optional
	Translator Translator
	From       string
	Locale     string
}

// Dispatcher queues intents and delivers them from Run.
type Dispatcher struct {
	queue     chan Intent
	mailer    Mailer
	publisher Publisher
	tr        Translator
	from      string
	locale    string
}

// NewDispatcher returns a dispatcher; call Run to start delivery.
func NewDispatcher(opts Options) *Dispatcher {
	if opts.QueueSize < 1 {
		opts.QueueSize = 1
	}
	return &Dispatcher{
		queue:     make(chan Intent, opts.QueueSize),
		mailer:    opts.Mailer,
		publisher: opts.Publisher,
		tr:        opts.Translator,
		from:      opts.From,
		locale:    opts.Locale,
	}
}

// Notify enqueues in without blocking. A full queue drops the intent.
func (d *Dispatcher) Notify(in Intent) {
	select {
	case d.queue <- in:
	default:
		log.Printf("notify: queue full, dropping %s for event %s", in.Kind, in.EventID)
	}
}

// Run delivers queued intents until ctx is cancelled.
func (d *Dispatcher) Run(ctx context.Context) error {
	for {
		select {
		case <-ctx.Done():
			return nil
		case in := <-d.queue:
			d.deliver(ctx, in)
		}
	}
}

func (d *Dispatcher) deliver(ctx context.Context, in Intent) {
	data := map[string]any{
		"EventName": in.EventName,
		"EventType": string(in.EventType),
		"TicketID":  in.TicketID,
		"Deadline":  in.Deadline.UTC().Format("2006-01-02 15:04 MST"),
	}

	if in.Kind == EventPublished {
		if d.publisher == nil {
			return
		}
		content := d.tr.T(d.locale, "webhook_event_published", data)
		if err := d.publisher.Publish(ctx, content); err != nil {
			log.Printf("notify: publish webhook for event %s: %v", in.EventID, err)
		}
		return
	}

	if d.mailer == nil || in.Email == "" {
		return
	}
	key := "mail_" + string(in.Kind)
	mail := Mail{
		From:    d.from,
		To:      in.Email,
		Subject: d.tr.T(d.locale, key+"_subject", data),
		Body:    d.tr.T(d.locale, key+"_body", data),
	}
	if err := d.mailer.Send(ctx, mail); err != nil {
		log.Printf("notify: mail %s to %s: %v", in.Kind, in.Email, err)
	}
}
