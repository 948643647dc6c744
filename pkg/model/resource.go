package model

import "time"

// Resource is a reservable table. Resources are never deleted; deactivating
// one hides it from booking flows while keeping reservation history intact.
type Resource struct {
	ID        string    `json:"id,omitempty" bson:"_id,omitempty" validate:"omitempty,mongodb"`
	Code      string    `json:"code" bson:"code" validate:"required,min=1,max=20"`
	Capacity  int       `json:"capacity" bson:"capacity" validate:"required,min=1,max=200"`
	Zone      string    `json:"zone" bson:"zone" validate:"required,min=1,max=50"`
	Active    bool      `json:"active" bson:"active"`
	CreatedAt time.Time `json:"created_at" bson:"created_at" validate:"omitempty"`
}

// ResourceSummary is the hydrated view embedded in reservation responses.
type ResourceSummary struct {
	ID       string `json:"id"`
	Code     string `json:"code"`
	Zone     string `json:"zone"`
	Capacity int    `json:"capacity"`
}

func (r *Resource) Summary() ResourceSummary {
	return ResourceSummary{
		ID:       r.ID,
		Code:     r.Code,
		Zone:     r.Zone,
		Capacity: r.Capacity,
	}
}

// ResourceAvailability reports whether a resource is free for a query window.
type ResourceAvailability struct {
	Resource  ResourceSummary `json:"resource"`
	From      time.Time       `json:"from"`
	To        time.Time       `json:"to"`
	Available bool            `json:"available"`
}
