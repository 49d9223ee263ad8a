package events

import (
	"context"
	"time"

	"safari/pkg/model"
)

type Type string

const (
	BookingCreated          Type = "booking.created"
	BookingPaymentConfirmed Type = "booking.payment_confirmed"
	BookingAssigned         Type = "booking.assigned"
	BookingAccepted         Type = "booking.accepted"
	BookingCompleted        Type = "booking.completed"
	BookingConfirmed        Type = "booking.confirmed"
	BookingStatusOverridden Type = "booking.status_overridden"
	BookingCancelled        Type = "booking.cancelled"
	BookingExpired          Type = "booking.expired"
)

// Event is the payload published for every booking state change.
type Event struct {
	Type       Type                `json:"type"`
	BookingID  string              `json:"bookingId"`
	CustomerID string              `json:"customerId"`
	Phase      model.BookingStatus `json:"phase"`
	Status     model.BookingStatus `json:"status"`
	Version    int64               `json:"version"`
	Role       model.Role          `json:"role,omitempty"`
	ActorID    string              `json:"actorId,omitempty"`
	AssigneeID string              `json:"assigneeId,omitempty"`
	OccurredAt time.Time           `json:"occurredAt"`
}

func New(t Type, b *model.Booking) Event {
	return Event{
		Type:       t,
		BookingID:  b.ID,
		CustomerID: b.CustomerID,
		Phase:      b.Phase,
		Status:     b.Status,
		Version:    b.Version,
		OccurredAt: b.UpdatedAt,
	}
}

func (e Event) WithActor(role model.Role, actorID string) Event {
	e.Role = role
	e.ActorID = actorID
	return e
}

func (e Event) WithAssignee(assigneeID string) Event {
	e.AssigneeID = assigneeID
	return e
}

type Publisher interface {
	Publish(ctx context.Context, event Event) error
	Close() error
}

type noopPublisher struct{}

// NewNoopPublisher is used when no Kafka brokers are configured.
func NewNoopPublisher() Publisher {
	return noopPublisher{}
}

func (noopPublisher) Publish(context.Context, Event) error { return nil }

func (noopPublisher) Close() error { return nil }
