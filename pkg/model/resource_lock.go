package model

import "time"

// ResourceLock is an advisory lock serializing concurrent creates for the
// same resource. It is keyed on the resource alone, not the slot: Mongo
// transactions read from a snapshot, so two overlapping windows inserted
// concurrently would never see each other. Holding one lock per resource
// across the whole create transaction is what makes the overlap re-check
// sound. The TTL index on ExpiresAt reaps locks abandoned by crashed
// requests.
type ResourceLock struct {
	ID        string    `bson:"_id" json:"id"`
	ExpiresAt time.Time `bson:"expires_at" json:"expires_at"`
	CreatedAt time.Time `bson:"created_at" json:"created_at"`
}
