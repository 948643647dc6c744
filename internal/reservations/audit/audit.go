// Package audit publishes reservation lifecycle events to the audit stream.
// Emission is fire-and-forget: a failed publish is logged and never rolls
// back the reservation it describes.
package audit

import (
	"context"
	"time"

	"tabletop/pkg/kafka"
	"tabletop/pkg/logger"
	"tabletop/pkg/model"
)

const (
	EventReservationCreated   = "reservation.created"
	EventReservationCancelled = "reservation.cancelled"

	source = "reservations"
)

type Event struct {
	ReservationID string    `json:"reservation_id"`
	ActorID       string    `json:"actor_id"`
	MemberID      string    `json:"member_id"`
	ResourceID    string    `json:"resource_id"`
	PartySize     int       `json:"party_size"`
	StartAt       time.Time `json:"start_at"`
	EndAt         time.Time `json:"end_at"`
	OccurredAt    time.Time `json:"occurred_at"`
}

// Publisher is satisfied by *kafka.Producer.
type Publisher interface {
	Publish(ctx context.Context, msg kafka.Message) error
}

type Emitter struct {
	publisher Publisher
	log       *logger.Logger
}

// NewEmitter builds an emitter. A nil publisher disables emission, which
// keeps local development working without a broker.
func NewEmitter(publisher Publisher, log *logger.Logger) *Emitter {
	return &Emitter{
		publisher: publisher,
		log:       log,
	}
}

func (e *Emitter) ReservationCreated(ctx context.Context, reservation *model.Reservation, actorID string) {
	e.emit(ctx, EventReservationCreated, reservation, actorID)
}

func (e *Emitter) ReservationCancelled(ctx context.Context, reservation *model.Reservation, actorID string) {
	e.emit(ctx, EventReservationCancelled, reservation, actorID)
}

func (e *Emitter) emit(ctx context.Context, eventType string, reservation *model.Reservation, actorID string) {
	if e.publisher == nil {
		e.log.Debug("Audit emission disabled, skipping event",
			"event_type", eventType,
			"reservation_id", reservation.ID,
		)
		return
	}

	event := Event{
		ReservationID: reservation.ID,
		ActorID:       actorID,
		MemberID:      reservation.MemberID,
		ResourceID:    reservation.ResourceID,
		PartySize:     reservation.PartySize,
		StartAt:       reservation.StartAt,
		EndAt:         reservation.EndAt,
		OccurredAt:    time.Now().UTC(),
	}

	msg := kafka.NewMessage().
		WithKey(reservation.ID).
		WithValue(event).
		WithEventType(eventType).
		WithSource(source).
		Build()

	if err := e.publisher.Publish(ctx, msg); err != nil {
		e.log.Error("Failed to publish audit event",
			"event_type", eventType,
			"reservation_id", reservation.ID,
			"error", err,
		)
	}
}
