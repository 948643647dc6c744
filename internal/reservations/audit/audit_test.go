package audit

import (
	"context"
	"errors"
	"testing"
	"time"

	"tabletop/pkg/kafka"
	"tabletop/pkg/logger"
	"tabletop/pkg/model"
)

type mockPublisher struct {
	publishFunc func(ctx context.Context, msg kafka.Message) error
	published   []kafka.Message
}

func (m *mockPublisher) Publish(ctx context.Context, msg kafka.Message) error {
	m.published = append(m.published, msg)
	if m.publishFunc != nil {
		return m.publishFunc(ctx, msg)
	}
	return nil
}

func testLogger() *logger.Logger {
	return logger.New(logger.Config{Level: "error", Format: logger.JSON, Service: "test"})
}

func testReservation() *model.Reservation {
	start := time.Now().Add(24 * time.Hour)
	return &model.Reservation{
		ID:         "64a0000000000000000000aa",
		MemberID:   "64a000000000000000000001",
		ResourceID: "64a000000000000000000010",
		StartAt:    start,
		EndAt:      start.Add(90 * time.Minute),
		PartySize:  4,
		Status:     model.StatusConfirmed,
	}
}

func TestReservationCreated_PublishesEvent(t *testing.T) {
	pub := &mockPublisher{}
	emitter := NewEmitter(pub, testLogger())
	resv := testReservation()

	emitter.ReservationCreated(context.Background(), resv, "64a0000000000000000000ff")

	if len(pub.published) != 1 {
		t.Fatalf("expected 1 published message, got %d", len(pub.published))
	}

	msg := pub.published[0]
	if msg.Key != resv.ID {
		t.Errorf("message key = %s, want reservation id %s", msg.Key, resv.ID)
	}
	if msg.GetEventType() != EventReservationCreated {
		t.Errorf("event type = %s, want %s", msg.GetEventType(), EventReservationCreated)
	}
	if msg.GetEventID() == "" {
		t.Error("event id header must be set")
	}

	var event Event
	if err := msg.DecodeValue(&event); err != nil {
		t.Fatalf("failed to decode event payload: %v", err)
	}
	if event.ActorID != "64a0000000000000000000ff" {
		t.Errorf("actor id = %s, want the staff actor", event.ActorID)
	}
	if event.MemberID != resv.MemberID || event.ResourceID != resv.ResourceID {
		t.Error("event must carry the reservation's member and resource")
	}
}

func TestEmit_PublishFailureIsSwallowed(t *testing.T) {
	pub := &mockPublisher{
		publishFunc: func(ctx context.Context, msg kafka.Message) error {
			return errors.New("broker unreachable")
		},
	}
	emitter := NewEmitter(pub, testLogger())

	// Must not panic or surface the error: auditing never fails a booking.
	emitter.ReservationCancelled(context.Background(), testReservation(), "64a000000000000000000001")
}

func TestEmit_NilPublisherIsNoop(t *testing.T) {
	emitter := NewEmitter(nil, testLogger())
	emitter.ReservationCreated(context.Background(), testReservation(), "64a000000000000000000001")
}
