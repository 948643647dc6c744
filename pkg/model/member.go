package model

import "time"

// Member is the minimal owner profile the booking engine needs. Profiles are
// written by the identity service; this service only reads them.
type Member struct {
	ID        string    `json:"id,omitempty" bson:"_id,omitempty"`
	Name      string    `json:"name" bson:"name"`
	Phone     string    `json:"phone,omitempty" bson:"phone,omitempty"`
	Active    bool      `json:"active" bson:"active"`
	CreatedAt time.Time `json:"created_at" bson:"created_at"`
}

type MemberSummary struct {
	ID   string `json:"id"`
	Name string `json:"name,omitempty"`
}

func (m *Member) Summary() MemberSummary {
	return MemberSummary{ID: m.ID, Name: m.Name}
}
