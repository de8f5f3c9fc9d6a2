// Copyright 2026 The Medley Authors
// SPDX-License-Identifier: Apache-2.0

package dashboard

import (
	"context"
	"log/slog"
	"sync"
	"time"

	"github.com/medley-live/medley/lib/backend"
	"github.com/medley-live/medley/lib/market"
)

// Customer drives the customer dashboard: token balance plus the
// owned tickets reconciled against the concerts they reference.
type Customer struct {
	backend  backend.Backend
	identity string
	logger   *slog.Logger

	mutex   sync.Mutex
	balance uint64
	tickets []market.ResolvedTicket
}

// NewCustomer creates a controller for the given identity.
func NewCustomer(b backend.Backend, identity string, logger *slog.Logger) *Customer {
	if logger == nil {
		logger = slog.Default()
	}
	return &Customer{backend: b, identity: identity, logger: logger}
}

// Role implements Controller.
func (c *Customer) Role() market.Role { return market.RoleCustomer }

// Refresh implements Controller. It refetches the balance and the
// ticket wallet, then resolves each ticket's concert; tickets whose
// concert has been deleted stay in the list unresolved.
func (c *Customer) Refresh(ctx context.Context) error {
	balance, err := c.backend.Balance(ctx, c.identity)
	if err != nil {
		return err
	}
	tickets, err := c.backend.GetCustomerTickets(ctx, c.identity)
	if err != nil {
		return err
	}

	ids := make([]market.ConcertID, len(tickets))
	for i, ticket := range tickets {
		ids[i] = ticket.ConcertID
	}
	concerts, err := resolveConcerts(ctx, c.backend, ids, c.logger)
	if err != nil {
		return err
	}
	resolved := market.Reconcile(tickets, market.BuildIndex(concerts))

	c.mutex.Lock()
	defer c.mutex.Unlock()
	c.balance = balance
	c.tickets = resolved
	return nil
}

// Balance returns the scaled token balance from the last refresh.
func (c *Customer) Balance() uint64 {
	c.mutex.Lock()
	defer c.mutex.Unlock()
	return c.balance
}

// Tickets returns the reconciled wallet from the last refresh.
func (c *Customer) Tickets() []market.ResolvedTicket {
	c.mutex.Lock()
	defer c.mutex.Unlock()
	return c.tickets
}

// TicketStatus derives the display status of a wallet entry.
func (c *Customer) TicketStatus(ticket market.ResolvedTicket) market.TicketStatus {
	return ticket.Status(time.Now())
}

// BuyTicket purchases one ticket for the concert. On success the
// wallet and balance are refetched; on failure they are untouched and
// the backend's reason is returned as-is.
func (c *Customer) BuyTicket(ctx context.Context, concertID market.ConcertID) (market.TicketID, error) {
	ticketID, err := c.backend.BuyTicket(ctx, c.identity, concertID)
	if err != nil {
		return "", err
	}
	c.logger.Info("ticket purchased", "concert_id", concertID, "ticket_id", ticketID)
	return ticketID, c.Refresh(ctx)
}
