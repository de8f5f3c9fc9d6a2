// Copyright 2026 The Medley Authors
// SPDX-License-Identifier: Apache-2.0

// Package backend defines the remote ledger/ownership service as the
// client sees it, and provides two implementations: an HTTP client
// for a real deployment and an in-memory demo backend for offline use
// and tests.
//
// The backend is the sole authority over balances, ownership, and
// business rules. The client never computes a balance locally; it
// re-fetches after every mutating operation. All monetary values
// crossing this boundary are integers scaled by 10^8, and all dates
// are nanosecond instants.
package backend

import (
	"context"

	"github.com/medley-live/medley/lib/market"
)

// TokenInit is the admin/organizer token initialization request.
// InitialSupply is ledger-scaled.
type TokenInit struct {
	Name          string `json:"token_name"`
	Symbol        string `json:"token_symbol"`
	InitialSupply uint64 `json:"initial_supply"`
	Logo          string `json:"token_logo"`
}

// Backend is the remote service contract. Every call is asynchronous
// from the UI's point of view: implementations block only the calling
// goroutine, and the UI invokes them from command goroutines, never
// from the render loop.
//
// Mutating operations return tagged results on the wire; a tagged
// failure or a rejected call both surface as a remote-operation error
// carrying the backend's message verbatim.
type Backend interface {
	// IsTokenInitialized reports whether the token economy exists yet.
	IsTokenInitialized(ctx context.Context) (bool, error)

	// GetRole returns the registered role for an identity, with found
	// false when the identity has never registered.
	GetRole(ctx context.Context, identity string) (market.Role, bool, error)

	// Register assigns a role and display name to an identity.
	Register(ctx context.Context, identity string, role market.Role, name string) error

	// GetConcerts queries the catalog with the given filter criteria.
	GetConcerts(ctx context.Context, criteria market.FilterCriteria) ([]market.Concert, error)

	// GetConcert looks up one concert by id.
	GetConcert(ctx context.Context, id market.ConcertID) (market.Concert, bool, error)

	// GetOrganizerConcerts returns the concert ids owned by an identity.
	GetOrganizerConcerts(ctx context.Context, identity string) ([]market.ConcertID, error)

	// CreateConcert lists a new concert and returns its id. The date
	// is a nanosecond instant; the price is ledger-scaled.
	CreateConcert(ctx context.Context, identity, name string, date int64, totalCapacity uint32, price uint64) (market.ConcertID, error)

	// EditConcert updates a concert. Returns false when the backend
	// refuses (tickets sold, or caller is not the organizer).
	EditConcert(ctx context.Context, identity string, id market.ConcertID, name string, date int64, totalCapacity uint32, price uint64) (bool, error)

	// DeleteConcert removes a concert. Returns false when refused.
	DeleteConcert(ctx context.Context, identity string, id market.ConcertID) (bool, error)

	// BuyTicket purchases one ticket and returns the minted
	// certificate id.
	BuyTicket(ctx context.Context, identity string, concertID market.ConcertID) (market.TicketID, error)

	// ValidateTicket consumes a certificate at the venue and returns
	// the backend's confirmation message.
	ValidateTicket(ctx context.Context, identity string, ticketID market.TicketID) (string, error)

	// GetCustomerTickets returns the certificates owned by an identity,
	// in purchase order.
	GetCustomerTickets(ctx context.Context, identity string) ([]market.Ticket, error)

	// Balance returns the identity's token balance, ledger-scaled.
	Balance(ctx context.Context, identity string) (uint64, error)

	// Revenue returns an organizer's accumulated ticket revenue,
	// ledger-scaled.
	Revenue(ctx context.Context, identity string) (uint64, error)

	// InitializeToken creates the token economy and returns the
	// backend's confirmation message.
	InitializeToken(ctx context.Context, identity string, init TokenInit) (string, error)

	// Transfer moves tokens from the caller to another identity and
	// returns the transaction id.
	Transfer(ctx context.Context, identity, to string, amount uint64) (string, error)

	// GetAllUsers returns every registered account with its display
	// balance. Admin only.
	GetAllUsers(ctx context.Context, identity string) ([]market.UserAccount, error)

	// TokenSettings returns the token configuration, with found false
	// when the token is not initialized. A zero transfer fee inside a
	// found settings record is a genuine zero, not "unset".
	TokenSettings(ctx context.Context, identity string) (market.TokenSettings, bool, error)
}
