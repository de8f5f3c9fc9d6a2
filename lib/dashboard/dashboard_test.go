// Copyright 2026 The Medley Authors
// SPDX-License-Identifier: Apache-2.0

package dashboard

import (
	"context"
	"testing"
	"time"

	"github.com/medley-live/medley/lib/apperr"
	"github.com/medley-live/medley/lib/backend"
	"github.com/medley-live/medley/lib/market"
	"github.com/medley-live/medley/lib/money"
)

func newDemo(t *testing.T) *backend.DemoBackend {
	t.Helper()
	demo := backend.NewDemoBackend()
	now := time.Now()
	demo.SetClock(func() time.Time { return now })
	return demo
}

func register(t *testing.T, demo *backend.DemoBackend, identity string, role market.Role) {
	t.Helper()
	if err := demo.Register(context.Background(), identity, role, identity); err != nil {
		t.Fatalf("Register(%s): %v", identity, err)
	}
}

func TestCustomerRefreshAndBuy(t *testing.T) {
	demo := newDemo(t)
	ctx := context.Background()
	register(t, demo, "alice", market.RoleCustomer)

	customer := NewCustomer(demo, "alice", nil)
	if customer.Role() != market.RoleCustomer {
		t.Fatalf("Role = %q", customer.Role())
	}

	if err := customer.Refresh(ctx); err != nil {
		t.Fatalf("Refresh: %v", err)
	}
	startingBalance := customer.Balance()
	if startingBalance == 0 {
		t.Fatal("fresh customer has zero balance")
	}
	if len(customer.Tickets()) != 0 {
		t.Fatalf("fresh customer owns tickets: %+v", customer.Tickets())
	}

	// Concert 1 is the future, in-capacity seed.
	ticketID, err := customer.BuyTicket(ctx, 1)
	if err != nil {
		t.Fatalf("BuyTicket: %v", err)
	}
	tickets := customer.Tickets()
	if len(tickets) != 1 || tickets[0].Ticket.ID != ticketID {
		t.Fatalf("wallet after purchase = %+v", tickets)
	}
	if !tickets[0].Resolved() {
		t.Fatal("purchased ticket did not resolve its concert")
	}
	if status := customer.TicketStatus(tickets[0]); status != market.TicketValid {
		t.Fatalf("fresh ticket status = %v", status)
	}
	if customer.Balance() >= startingBalance {
		t.Fatal("purchase did not deduct the balance")
	}
}

func TestCustomerFailedBuyLeavesStateUntouched(t *testing.T) {
	demo := newDemo(t)
	ctx := context.Background()
	register(t, demo, "alice", market.RoleCustomer)

	customer := NewCustomer(demo, "alice", nil)
	if err := customer.Refresh(ctx); err != nil {
		t.Fatalf("Refresh: %v", err)
	}
	balance := customer.Balance()

	// Concert 2 has already happened.
	if _, err := customer.BuyTicket(ctx, 2); !apperr.IsRemote(err) {
		t.Fatalf("buying a past concert = %v, want remote error", err)
	}
	if customer.Balance() != balance || len(customer.Tickets()) != 0 {
		t.Fatal("failed purchase disturbed local state")
	}
}

// hidingBackend makes one concert unresolvable, standing in for a
// backend that purged a concert record while tickets for it survive.
type hidingBackend struct {
	backend.Backend
	hidden market.ConcertID
}

func (h hidingBackend) GetConcert(ctx context.Context, id market.ConcertID) (market.Concert, bool, error) {
	if id == h.hidden {
		return market.Concert{}, false, nil
	}
	return h.Backend.GetConcert(ctx, id)
}

func TestCustomerUnresolvedTicketSurvivesDeletion(t *testing.T) {
	demo := newDemo(t)
	ctx := context.Background()
	register(t, demo, "alice", market.RoleCustomer)

	customer := NewCustomer(demo, "alice", nil)
	if _, err := customer.BuyTicket(ctx, 1); err != nil {
		t.Fatalf("BuyTicket: %v", err)
	}
	if _, err := customer.BuyTicket(ctx, 5); err != nil {
		t.Fatalf("BuyTicket: %v", err)
	}

	// The same wallet viewed through a backend that lost concert 1:
	// the ticket stays, unresolved, and the other still resolves.
	dangling := NewCustomer(hidingBackend{Backend: demo, hidden: 1}, "alice", nil)
	if err := dangling.Refresh(ctx); err != nil {
		t.Fatalf("Refresh: %v", err)
	}
	tickets := dangling.Tickets()
	if len(tickets) != 2 {
		t.Fatalf("wallet = %+v, want 2 tickets", tickets)
	}
	if tickets[0].Resolved() {
		t.Fatal("ticket for the purged concert still resolved")
	}
	if status := dangling.TicketStatus(tickets[0]); status != market.TicketUnresolved {
		t.Fatalf("purged ticket status = %v", status)
	}
	if !tickets[1].Resolved() {
		t.Fatal("gap spilled into the neighboring ticket")
	}
}

func TestOrganizerLifecycle(t *testing.T) {
	demo := newDemo(t)
	ctx := context.Background()

	organizer := NewOrganizer(demo, "demo-organizer-1", nil)
	if organizer.Role() != market.RoleOrganizer {
		t.Fatalf("Role = %q", organizer.Role())
	}
	if err := organizer.Refresh(ctx); err != nil {
		t.Fatalf("Refresh: %v", err)
	}
	seeded := len(organizer.Concerts())
	if seeded == 0 {
		t.Fatal("seed organizer owns no concerts")
	}

	draft := ConcertDraft{
		Name:          "Solstice Set",
		StartsAt:      time.Now().Add(72 * time.Hour),
		TotalCapacity: 80,
		Price:         3 * money.Scale,
	}
	id, err := organizer.CreateConcert(ctx, draft)
	if err != nil {
		t.Fatalf("CreateConcert: %v", err)
	}
	if len(organizer.Concerts()) != seeded+1 {
		t.Fatal("create did not refetch the concert list")
	}

	draft.Name = "Solstice Set (Rescheduled)"
	draft.StartsAt = time.Now().Add(96 * time.Hour)
	if err := organizer.EditConcert(ctx, id, draft); err != nil {
		t.Fatalf("EditConcert: %v", err)
	}

	if err := organizer.DeleteConcert(ctx, id); err != nil {
		t.Fatalf("DeleteConcert: %v", err)
	}
	if len(organizer.Concerts()) != seeded {
		t.Fatal("delete did not refetch the concert list")
	}
}

func TestOrganizerDraftValidation(t *testing.T) {
	demo := newDemo(t)
	organizer := NewOrganizer(demo, "demo-organizer-1", nil)

	tests := []struct {
		name  string
		draft ConcertDraft
	}{
		{"blank name", ConcertDraft{Name: " ", StartsAt: time.Now().Add(time.Hour), TotalCapacity: 10}},
		{"zero capacity", ConcertDraft{Name: "X", StartsAt: time.Now().Add(time.Hour), TotalCapacity: 0}},
		{"past date", ConcertDraft{Name: "X", StartsAt: time.Now().Add(-time.Hour), TotalCapacity: 10}},
	}
	for _, test := range tests {
		t.Run(test.name, func(t *testing.T) {
			if _, err := organizer.CreateConcert(context.Background(), test.draft); !apperr.IsValidation(err) {
				t.Fatalf("CreateConcert = %v, want validation error", err)
			}
		})
	}
}

func TestOrganizerEditBlockedAfterSales(t *testing.T) {
	demo := newDemo(t)
	ctx := context.Background()
	register(t, demo, "alice", market.RoleCustomer)

	organizer := NewOrganizer(demo, "demo-organizer-1", nil)
	draft := ConcertDraft{
		Name:          "Locked In",
		StartsAt:      time.Now().Add(24 * time.Hour),
		TotalCapacity: 10,
		Price:         money.Scale,
	}
	id, err := organizer.CreateConcert(ctx, draft)
	if err != nil {
		t.Fatalf("CreateConcert: %v", err)
	}

	customer := NewCustomer(demo, "alice", nil)
	if _, err := customer.BuyTicket(ctx, id); err != nil {
		t.Fatalf("BuyTicket: %v", err)
	}
	if err := organizer.Refresh(ctx); err != nil {
		t.Fatalf("Refresh: %v", err)
	}

	// The guard trips locally, before the backend sees the request.
	if err := organizer.EditConcert(ctx, id, draft); !apperr.IsValidation(err) {
		t.Fatalf("EditConcert after sale = %v, want validation error", err)
	}
	if err := organizer.DeleteConcert(ctx, id); !apperr.IsValidation(err) {
		t.Fatalf("DeleteConcert after sale = %v, want validation error", err)
	}

	if organizer.Revenue() != money.Scale {
		t.Fatalf("Revenue = %d, want %d", organizer.Revenue(), money.Scale)
	}
}

func TestOrganizerValidateTicket(t *testing.T) {
	demo := newDemo(t)
	ctx := context.Background()
	register(t, demo, "alice", market.RoleCustomer)

	customer := NewCustomer(demo, "alice", nil)
	ticketID, err := customer.BuyTicket(ctx, 1)
	if err != nil {
		t.Fatalf("BuyTicket: %v", err)
	}

	organizer := NewOrganizer(demo, "demo-organizer-1", nil)
	if _, err := organizer.ValidateTicket(ctx, " "); !apperr.IsValidation(err) {
		t.Fatalf("blank ticket id = %v, want validation error", err)
	}
	message, err := organizer.ValidateTicket(ctx, ticketID)
	if err != nil || message == "" {
		t.Fatalf("ValidateTicket = %q, %v", message, err)
	}

	if err := customer.Refresh(ctx); err != nil {
		t.Fatalf("Refresh: %v", err)
	}
	wallet := customer.Tickets()
	if len(wallet) != 1 || customer.TicketStatus(wallet[0]) != market.TicketUsed {
		t.Fatalf("wallet after validation = %+v", wallet)
	}
}

func TestAdminDashboard(t *testing.T) {
	demo := newDemo(t)
	ctx := context.Background()
	register(t, demo, "root", market.RoleAdmin)
	register(t, demo, "alice", market.RoleCustomer)

	admin := NewAdmin(demo, "root", nil)
	if admin.Role() != market.RoleAdmin {
		t.Fatalf("Role = %q", admin.Role())
	}
	if err := admin.Refresh(ctx); err != nil {
		t.Fatalf("Refresh: %v", err)
	}

	settings, found := admin.TokenSettings()
	if !found || settings.Symbol == "" {
		t.Fatalf("TokenSettings = %+v, %t", settings, found)
	}
	if len(admin.Users()) == 0 {
		t.Fatal("Users empty after refresh")
	}

	if _, err := admin.Transfer(ctx, " ", money.Scale); !apperr.IsValidation(err) {
		t.Fatalf("blank recipient = %v, want validation error", err)
	}
	if _, err := admin.Transfer(ctx, "alice", 0); !apperr.IsValidation(err) {
		t.Fatalf("zero amount = %v, want validation error", err)
	}

	balance := admin.Balance()
	receipt, err := admin.Transfer(ctx, "alice", 5*money.Scale)
	if err != nil || receipt == "" {
		t.Fatalf("Transfer = %q, %v", receipt, err)
	}
	if admin.Balance() != balance-5*money.Scale {
		t.Fatalf("balance after transfer = %d, want %d", admin.Balance(), balance-5*money.Scale)
	}

	if _, err := admin.InitializeToken(ctx, backend.TokenInit{Name: " ", Symbol: ""}); !apperr.IsValidation(err) {
		t.Fatalf("blank token init = %v, want validation error", err)
	}
	// The demo economy is already initialized, so a well-formed init
	// is refused remotely.
	if _, err := admin.InitializeToken(ctx, backend.TokenInit{Name: "Again", Symbol: "AGN"}); !apperr.IsRemote(err) {
		t.Fatalf("re-init = %v, want remote error", err)
	}
}
