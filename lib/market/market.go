// Copyright 2026 The Medley Authors
// SPDX-License-Identifier: Apache-2.0

// Package market holds the Medley marketplace domain model: concerts,
// owned ticket certificates, roles, filter criteria, and the pure
// derived-state logic over them (availability classification, ticket
// reconciliation).
//
// Everything here is client-side: the backend is the sole authority
// over the catalog and the ledger, and these types carry its values
// in wire form (scaled integers for money, nanosecond instants for
// dates) plus helpers to interpret them locally.
package market

import (
	"time"

	"github.com/medley-live/medley/lib/apperr"
	"github.com/medley-live/medley/lib/money"
)

// Role is a session role, assigned exactly once per session via
// registration.
type Role string

const (
	// RoleCustomer buys tickets and holds certificates.
	RoleCustomer Role = "Customer"
	// RoleOrganizer creates concerts and validates tickets.
	RoleOrganizer Role = "Organizer"
	// RoleAdmin manages the token economy and user accounts.
	RoleAdmin Role = "Admin"
)

// Roles lists the assignable roles in registration-form order.
var Roles = []Role{RoleCustomer, RoleOrganizer, RoleAdmin}

// ParseRole validates a role string from the backend or a form.
func ParseRole(text string) (Role, error) {
	switch Role(text) {
	case RoleCustomer, RoleOrganizer, RoleAdmin:
		return Role(text), nil
	}
	return "", apperr.Validation("unknown role %q", text)
}

// ConcertID identifies a concert. Assigned by the backend.
type ConcertID int64

// Concert is a listed event. Money fields are ledger-scaled integers;
// Date is a backend instant (nanoseconds since the epoch).
type Concert struct {
	ID            ConcertID `json:"id"`
	Name          string    `json:"name"`
	Date          int64     `json:"date"`
	OrganizerID   string    `json:"organizerId"`
	Price         uint64    `json:"price"`
	SoldCount     uint32    `json:"soldTickets"`
	TotalCapacity uint32    `json:"totalTickets"`
}

// StartsAt returns the concert's start time in local terms.
func (c Concert) StartsAt() time.Time {
	return money.FromInstant(c.Date)
}

// CanModify reports whether the concert may still be edited or
// deleted by its organizer. The backend enforces the same rule; the
// client refuses up front to avoid a round trip that will certainly
// fail.
func (c Concert) CanModify() bool {
	return c.SoldCount == 0
}

// Availability classifies the concert's sale status at the given time.
func (c Concert) Availability(now time.Time) Availability {
	return Classify(c.SoldCount, c.TotalCapacity, c.StartsAt(), now)
}

// Revenue returns the concert's gross ticket revenue as a scaled
// amount: sold count times unit price.
func (c Concert) Revenue() uint64 {
	return uint64(c.SoldCount) * c.Price
}

// TicketID is an opaque certificate id issued by the backend.
type TicketID string

// Ticket is an owned certificate of entry for one concert. Tickets are
// append-only from the client's perspective: created on purchase,
// never deleted, with the validity flag flipping to false when an
// organizer consumes the ticket.
type Ticket struct {
	ID        TicketID  `json:"id"`
	ConcertID ConcertID `json:"concertId"`
	IsValid   bool      `json:"isValid"`
}

// FilterCriteria is the catalog query input: name substring, price
// bounds (scaled; zero means unbounded), and an availability-only
// flag. Criteria have no lifecycle of their own — they are a pure
// input to the fetch coordinator.
type FilterCriteria struct {
	Search        string `json:"search"`
	MinPrice      uint64 `json:"minPrice"`
	MaxPrice      uint64 `json:"maxPrice"`
	OnlyAvailable bool   `json:"onlyAvailable"`
}

// TokenSettings describes the ledger token as reported by the backend.
// A zero TransferFee is a genuine zero fee, distinct from settings
// that were never fetched; presence is tracked by the caller, not by
// sentinel values inside this struct.
type TokenSettings struct {
	Name        string `json:"token_name"`
	Symbol      string `json:"token_symbol"`
	Decimals    uint8  `json:"decimals"`
	TransferFee uint64 `json:"transfer_fee"`
	TotalSupply uint64 `json:"total_supply"`
	Logo        string `json:"logo"`
}

// UserAccount is one row of the admin user listing.
type UserAccount struct {
	Role    Role   `json:"role"`
	Name    string `json:"name"`
	Balance uint64 `json:"balance"`
}
