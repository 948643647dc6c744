package model

import "time"

// Reservation status values. Creation goes straight to CONFIRMED under the
// current policy; PENDING and COMPLETED are reserved for a future approval /
// completion workflow and have no producing transition here. The overlap
// predicate still treats PENDING as active so that workflow cannot
// double-book when it arrives.
const (
	StatusPending   = "PENDING"
	StatusConfirmed = "CONFIRMED"
	StatusCancelled = "CANCELLED"
	StatusCompleted = "COMPLETED"
)

// ActiveStatuses are the statuses that block a resource's time window.
var ActiveStatuses = []string{StatusPending, StatusConfirmed}

type Reservation struct {
	ID         string          `json:"id,omitempty" bson:"_id,omitempty" validate:"omitempty,mongodb"`
	MemberID   string          `json:"member_id" bson:"member_id" validate:"required,mongodb"`
	ResourceID string          `json:"resource_id" bson:"resource_id" validate:"required,mongodb"`
	StartAt    time.Time       `json:"start_at" bson:"start_at" validate:"required"`
	EndAt      time.Time       `json:"end_at" bson:"end_at" validate:"required,gtfield=StartAt"`
	PartySize  int             `json:"party_size" bson:"party_size" validate:"required,min=1,max=20"`
	Note       string          `json:"note,omitempty" bson:"note,omitempty" validate:"omitempty,max=500"`
	Status     string          `json:"status" bson:"status" validate:"required,oneof=PENDING CONFIRMED CANCELLED COMPLETED"`
	CreatedBy  string          `json:"created_by" bson:"created_by" validate:"required,mongodb"`
	CreatedAt  time.Time       `json:"created_at" bson:"created_at" validate:"omitempty"`
	Holds      []InventoryHold `json:"holds,omitempty" bson:"holds,omitempty"`
}

// IsActive reports whether the reservation blocks its resource's window.
func (r *Reservation) IsActive() bool {
	return r.Status == StatusPending || r.Status == StatusConfirmed
}

// ReservationRequest is the create-operation payload. Timestamps arrive as
// RFC3339; unparsable ones fail in the JSON decoder before any state is read.
type ReservationRequest struct {
	OwnerID    string     `json:"owner_id,omitempty" validate:"omitempty,mongodb"`
	ResourceID string     `json:"resource_id" validate:"required,mongodb"`
	StartAt    time.Time  `json:"start_at" validate:"required"`
	EndAt      time.Time  `json:"end_at" validate:"required,gtfield=StartAt"`
	PartySize  int        `json:"party_size" validate:"required,min=1,max=20"`
	Note       string     `json:"note,omitempty" validate:"omitempty,max=500"`
	ItemPicks  []ItemPick `json:"item_picks,omitempty" validate:"omitempty,max=20,dive"`
}

// ReservationFilter narrows list queries. Self-service scoping overwrites
// MemberID regardless of what the caller supplied.
type ReservationFilter struct {
	MemberID   string
	ResourceID string
	Status     string
	From       *time.Time
	To         *time.Time
}

// ReservationDetail is the hydrated response shape: the reservation plus
// display summaries for its resource and owner.
type ReservationDetail struct {
	Reservation
	Resource ResourceSummary `json:"resource"`
	Owner    MemberSummary   `json:"owner"`
}

// CancelResult is the cancel-operation response.
type CancelResult struct {
	ID     string `json:"id"`
	Status string `json:"status"`
}
