// Package access models who is calling the booking engine. Authentication
// happens upstream; this package only interprets the resulting identity and
// decides what the caller may own and see.
package access

import (
	"net/http"

	apperrors "tabletop/pkg/errors"
	"tabletop/pkg/model"
)

const (
	HeaderMemberID   = "X-Member-ID"
	HeaderMemberRole = "X-Member-Role"

	RoleMember = "member"
	RoleStaff  = "staff"
)

// Actor is the strategy over the two caller kinds. SelfService resolves
// everything to its own member; Privileged acts on behalf of any owner and
// sees the full dataset.
type Actor interface {
	MemberID() string
	Privileged() bool

	// ResolveOwner decides which member the reservation belongs to given
	// the owner the request named (possibly empty).
	ResolveOwner(requestedOwner string) (string, error)

	// Scope narrows a list filter to what the actor may see.
	Scope(f *model.ReservationFilter)
}

type SelfService struct {
	ID string
}

func (a SelfService) MemberID() string { return a.ID }
func (a SelfService) Privileged() bool { return false }

func (a SelfService) ResolveOwner(requestedOwner string) (string, error) {
	if requestedOwner != "" && requestedOwner != a.ID {
		return "", apperrors.Forbidden("members may only book for themselves")
	}
	return a.ID, nil
}

func (a SelfService) Scope(f *model.ReservationFilter) {
	f.MemberID = a.ID
}

type Privileged struct {
	ID string
}

func (a Privileged) MemberID() string { return a.ID }
func (a Privileged) Privileged() bool { return true }

func (a Privileged) ResolveOwner(requestedOwner string) (string, error) {
	if requestedOwner == "" {
		return "", apperrors.InvalidInput("owner_id is required for staff bookings")
	}
	return requestedOwner, nil
}

func (a Privileged) Scope(f *model.ReservationFilter) {
	// Staff see the full set; the filter stays as the caller built it.
}

// FromRequest reads the actor identity the upstream auth layer attached to
// the request.
func FromRequest(r *http.Request) (Actor, error) {
	memberID := r.Header.Get(HeaderMemberID)
	if memberID == "" {
		return nil, apperrors.Unauthorized("missing member identity")
	}

	switch role := r.Header.Get(HeaderMemberRole); role {
	case "", RoleMember:
		return SelfService{ID: memberID}, nil
	case RoleStaff:
		return Privileged{ID: memberID}, nil
	default:
		return nil, apperrors.Unauthorized("unknown member role: " + role)
	}
}
