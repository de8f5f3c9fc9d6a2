// Copyright 2026 The Medley Authors
// SPDX-License-Identifier: Apache-2.0

package market

import "time"

// ConcertIndex is an explicit lookup of concerts by id. Ticket
// reconciliation pairs certificates with concerts through this map
// rather than by position in two independently fetched slices, which
// would silently misalign the moment one fetch dropped an element.
type ConcertIndex map[ConcertID]Concert

// BuildIndex indexes a concert slice by id. Later duplicates win,
// matching "the most recently fetched copy is the freshest".
func BuildIndex(concerts []Concert) ConcertIndex {
	index := make(ConcertIndex, len(concerts))
	for _, concert := range concerts {
		index[concert.ID] = concert
	}
	return index
}

// TicketStatus is the derived display state of an owned certificate.
type TicketStatus int

const (
	// TicketValid means the validity flag is still set. Only the
	// backend flips it; the concert date never overrides a live flag.
	TicketValid TicketStatus = iota
	// TicketUsed means an organizer consumed the certificate before
	// the event.
	TicketUsed
	// TicketExpired means the flag is down and the concert's date has
	// passed. The raw validity flag cannot distinguish an expired
	// ticket from a used one; the concert date is the distinguishing
	// input.
	TicketExpired
	// TicketUnresolved means the owning concert is absent from the
	// current catalog (deleted, or not loaded yet). Rendered as an
	// explicit placeholder, never dropped.
	TicketUnresolved
)

// String returns the display label for the status.
func (s TicketStatus) String() string {
	switch s {
	case TicketValid:
		return "Valid"
	case TicketUsed:
		return "Used"
	case TicketExpired:
		return "Expired (Concert Date Passed)"
	case TicketUnresolved:
		return "Unresolved"
	}
	return "Unknown"
}

// ResolvedTicket pairs a certificate with its concert, when found.
type ResolvedTicket struct {
	Ticket  Ticket
	Concert *Concert
}

// Resolved reports whether the owning concert was found.
func (r ResolvedTicket) Resolved() bool {
	return r.Concert != nil
}

// Status derives the certificate's display state at the given time.
// A still-valid flag always displays as Valid, even after the event:
// only the backend flips validity. A flag-false ticket splits on the
// concert date — consumed before the event means Used, a flag that
// lapsed with the event means Expired.
func (r ResolvedTicket) Status(now time.Time) TicketStatus {
	if r.Concert == nil {
		return TicketUnresolved
	}
	if r.Ticket.IsValid {
		return TicketValid
	}
	if !r.Concert.StartsAt().After(now) {
		return TicketExpired
	}
	return TicketUsed
}

// Reconcile maps an ordered certificate sequence against the concert
// index. The output is positionally parallel to the input: element i
// resolves ticket i, with a nil Concert marking a reconciliation gap.
// Ordering is preserved so the customer dashboard can pair ticket
// cards with concert names.
func Reconcile(tickets []Ticket, index ConcertIndex) []ResolvedTicket {
	resolved := make([]ResolvedTicket, len(tickets))
	for i, ticket := range tickets {
		resolved[i] = ResolvedTicket{Ticket: ticket}
		if concert, found := index[ticket.ConcertID]; found {
			copyOfConcert := concert
			resolved[i].Concert = &copyOfConcert
		}
	}
	return resolved
}
