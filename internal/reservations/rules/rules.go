// Package rules holds the pure admission checks a reservation request must
// pass before any live state is touched. Every function is deterministic
// given its inputs; nothing here performs I/O.
package rules

import (
	"fmt"
	"time"
)

// Rule names surfaced in rejection details so callers can tell which check
// failed without parsing messages.
const (
	RuleSlotDuration     = "slot_duration"
	RuleOperatingWindow  = "operating_window"
	RuleFutureStart      = "future_start"
	RulePartyCapacity    = "party_capacity"
	RuleReservationQuota = "reservation_quota"
)

// Policy is the booking policy handed to the evaluator and the transaction
// manager at construction time. It is read-only after Load.
type Policy struct {
	SlotDuration          time.Duration
	OpeningHour           int
	ClosingHour           int
	MaxActiveReservations int
	CancellationCutoff    time.Duration
	Location              *time.Location
}

// Violation identifies the first rule a request broke.
type Violation struct {
	Rule    string
	Message string
}

func (v *Violation) Error() string {
	return fmt.Sprintf("%s: %s", v.Rule, v.Message)
}

func (p Policy) location() *time.Location {
	if p.Location != nil {
		return p.Location
	}
	return time.UTC
}

// DurationMatchesSlot reports whether the interval spans exactly one slot.
// There is no tolerance; partial slots fragment the schedule.
func (p Policy) DurationMatchesSlot(start, end time.Time) bool {
	return end.Sub(start) == p.SlotDuration
}

// WithinOperatingWindow reports whether the interval fits inside the venue's
// opening hours on a single calendar day. An end that lands exactly on the
// closing instant is allowed.
func (p Policy) WithinOperatingWindow(start, end time.Time) bool {
	loc := p.location()
	s := start.In(loc)
	e := end.In(loc)

	sy, sm, sd := s.Date()
	ey, em, ed := e.Date()
	if sy != ey || sm != em || sd != ed {
		return false
	}

	open := time.Date(sy, sm, sd, p.OpeningHour, 0, 0, 0, loc)
	closeAt := time.Date(sy, sm, sd, p.ClosingHour, 0, 0, 0, loc)

	return !s.Before(open) && !e.After(closeAt)
}

// IsFutureRequest reports whether the reservation starts strictly after now.
func (p Policy) IsFutureRequest(start, now time.Time) bool {
	return start.After(now)
}

// WithinPartyCapacity reports whether the party fits the resource.
func (p Policy) WithinPartyCapacity(partySize, resourceCapacity int) bool {
	return partySize <= resourceCapacity
}

// WithinActiveReservationQuota reports whether the member may hold one more
// active future reservation.
func (p Policy) WithinActiveReservationQuota(activeFutureCount int) bool {
	return activeFutureCount < p.MaxActiveReservations
}

// Admit runs the full chain in order: duration, operating window, future
// start, party capacity, member quota. Evaluation stops at the first failure.
func (p Policy) Admit(start, end, now time.Time, partySize, resourceCapacity, activeFutureCount int) error {
	if !p.DurationMatchesSlot(start, end) {
		return &Violation{
			Rule:    RuleSlotDuration,
			Message: fmt.Sprintf("reservation must span exactly %d minutes", int(p.SlotDuration.Minutes())),
		}
	}
	if !p.WithinOperatingWindow(start, end) {
		return &Violation{
			Rule:    RuleOperatingWindow,
			Message: fmt.Sprintf("reservation must fall within opening hours (%02d:00-%02d:00) on a single day", p.OpeningHour, p.ClosingHour),
		}
	}
	if !p.IsFutureRequest(start, now) {
		return &Violation{
			Rule:    RuleFutureStart,
			Message: "reservation must start in the future",
		}
	}
	if !p.WithinPartyCapacity(partySize, resourceCapacity) {
		return &Violation{
			Rule:    RulePartyCapacity,
			Message: fmt.Sprintf("party of %d exceeds table capacity of %d", partySize, resourceCapacity),
		}
	}
	if !p.WithinActiveReservationQuota(activeFutureCount) {
		return &Violation{
			Rule:    RuleReservationQuota,
			Message: fmt.Sprintf("member already holds %d active reservations (limit %d)", activeFutureCount, p.MaxActiveReservations),
		}
	}
	return nil
}

// Overlaps implements the half-open interval predicate shared by the read
// and write paths: [s1,e1) and [s2,e2) overlap iff s1 < e2 && s2 < e1.
func Overlaps(start1, end1, start2, end2 time.Time) bool {
	return start1.Before(end2) && end1.After(start2)
}
