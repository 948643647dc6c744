package validator

import (
	"testing"
	"time"

	"tabletop/pkg/logger"
	"tabletop/pkg/model"
)

func testLogger() *logger.Logger {
	return logger.New(logger.Config{
		Level:   "error",
		Format:  logger.JSON,
		Service: "test",
	})
}

func validRequest() *model.ReservationRequest {
	start := time.Now().Add(24 * time.Hour).Truncate(time.Minute)
	return &model.ReservationRequest{
		ResourceID: "64a000000000000000000010",
		StartAt:    start,
		EndAt:      start.Add(90 * time.Minute),
		PartySize:  4,
		Note:       "window table please",
		ItemPicks: []model.ItemPick{
			{ItemID: "64a000000000000000000020", Quantity: 1},
		},
	}
}

func TestValidateRequest(t *testing.T) {
	v := NewReservationValidator(testLogger())

	tests := []struct {
		name    string
		mutate  func(*model.ReservationRequest)
		wantErr bool
	}{
		{"valid", func(r *model.ReservationRequest) {}, false},
		{"no picks is valid", func(r *model.ReservationRequest) { r.ItemPicks = nil }, false},
		{"missing resource", func(r *model.ReservationRequest) { r.ResourceID = "" }, true},
		{"malformed resource id", func(r *model.ReservationRequest) { r.ResourceID = "not-an-oid" }, true},
		{"zero party", func(r *model.ReservationRequest) { r.PartySize = 0 }, true},
		{"party too large", func(r *model.ReservationRequest) { r.PartySize = 21 }, true},
		{"end before start", func(r *model.ReservationRequest) { r.EndAt = r.StartAt.Add(-time.Hour) }, true},
		{"end equals start", func(r *model.ReservationRequest) { r.EndAt = r.StartAt }, true},
		{"zero quantity pick", func(r *model.ReservationRequest) { r.ItemPicks[0].Quantity = 0 }, true},
		{"malformed item id", func(r *model.ReservationRequest) { r.ItemPicks[0].ItemID = "game" }, true},
		{"note too long", func(r *model.ReservationRequest) {
			for len(r.Note) <= 500 {
				r.Note += " birthday"
			}
		}, true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			req := validRequest()
			tt.mutate(req)

			err := v.ValidateRequest(req)
			if tt.wantErr && err == nil {
				t.Error("expected validation error, got nil")
			}
			if !tt.wantErr && err != nil {
				t.Errorf("unexpected validation error: %v", err)
			}
		})
	}
}

func TestValidateReservation_StatusValues(t *testing.T) {
	v := NewReservationValidator(testLogger())
	start := time.Now().Add(24 * time.Hour)

	resv := &model.Reservation{
		MemberID:   "64a000000000000000000001",
		ResourceID: "64a000000000000000000010",
		StartAt:    start,
		EndAt:      start.Add(90 * time.Minute),
		PartySize:  2,
		Status:     model.StatusConfirmed,
		CreatedBy:  "64a000000000000000000001",
	}
	if err := v.ValidateReservation(resv); err != nil {
		t.Errorf("unexpected error for CONFIRMED: %v", err)
	}

	resv.Status = "APPROVED"
	if err := v.ValidateReservation(resv); err == nil {
		t.Error("unknown status must be rejected")
	}
}
