// Copyright 2026 The Medley Authors
// SPDX-License-Identifier: Apache-2.0

package market

import (
	"testing"
	"time"

	"github.com/medley-live/medley/lib/money"
)

var reconcileNow = time.Date(2026, time.March, 1, 12, 0, 0, 0, time.UTC)

func futureConcert(id ConcertID, name string) Concert {
	return Concert{
		ID:            id,
		Name:          name,
		Date:          money.ToInstant(reconcileNow.Add(48 * time.Hour)),
		TotalCapacity: 100,
	}
}

func pastConcert(id ConcertID, name string) Concert {
	concert := futureConcert(id, name)
	concert.Date = money.ToInstant(reconcileNow.Add(-48 * time.Hour))
	return concert
}

func TestReconcilePreservesOrderAndMarksGaps(t *testing.T) {
	index := BuildIndex([]Concert{
		futureConcert(1, "Electric Summer Fest"),
		futureConcert(3, "Pop & Rock Carnival"),
	})
	tickets := []Ticket{
		{ID: "nft-001", ConcertID: 1, IsValid: true},
		{ID: "nft-002", ConcertID: 2, IsValid: true}, // concert 2 missing
		{ID: "nft-003", ConcertID: 3, IsValid: false},
	}

	resolved := Reconcile(tickets, index)
	if len(resolved) != len(tickets) {
		t.Fatalf("output length %d, want %d", len(resolved), len(tickets))
	}
	for i := range tickets {
		if resolved[i].Ticket.ID != tickets[i].ID {
			t.Errorf("position %d holds ticket %s, want %s", i, resolved[i].Ticket.ID, tickets[i].ID)
		}
	}
	if !resolved[0].Resolved() || resolved[0].Concert.Name != "Electric Summer Fest" {
		t.Errorf("position 0 resolved to %+v", resolved[0].Concert)
	}
	if resolved[1].Resolved() {
		t.Error("position 1 should be an unresolved gap")
	}
	if resolved[1].Status(reconcileNow) != TicketUnresolved {
		t.Errorf("gap status = %v, want TicketUnresolved", resolved[1].Status(reconcileNow))
	}
	if !resolved[2].Resolved() {
		t.Error("position 2 should resolve")
	}
}

func TestReconcileEmptyInput(t *testing.T) {
	resolved := Reconcile(nil, BuildIndex(nil))
	if len(resolved) != 0 {
		t.Errorf("expected empty output, got %d entries", len(resolved))
	}
}

func TestTicketStatusDerivation(t *testing.T) {
	future := futureConcert(1, "Indie Vibes Showcase")
	past := pastConcert(2, "Jazz Night Live")

	tests := []struct {
		name    string
		ticket  Ticket
		concert *Concert
		want    TicketStatus
	}{
		{"valid flag, future event", Ticket{IsValid: true}, &future, TicketValid},
		{"consumed flag, future event", Ticket{IsValid: false}, &future, TicketUsed},
		// The raw flag is identical in these two cases; the concert
		// date is what distinguishes expired from used.
		{"consumed flag, past event", Ticket{IsValid: false}, &past, TicketExpired},
		// A still-valid flag displays as Valid even after the event;
		// only the backend flips validity.
		{"valid flag, past event", Ticket{IsValid: true}, &past, TicketValid},
		{"no concert", Ticket{IsValid: true}, nil, TicketUnresolved},
	}
	for _, test := range tests {
		resolved := ResolvedTicket{Ticket: test.ticket, Concert: test.concert}
		if got := resolved.Status(reconcileNow); got != test.want {
			t.Errorf("%s: Status = %v, want %v", test.name, got, test.want)
		}
	}
}

func TestConcertDerivedHelpers(t *testing.T) {
	concert := futureConcert(1, "Classical Evening Gala")
	concert.Price = 4 * money.Scale
	concert.SoldCount = 60

	if concert.CanModify() {
		t.Error("concert with sold tickets must not be modifiable")
	}
	concert.SoldCount = 0
	if !concert.CanModify() {
		t.Error("concert with no sold tickets must be modifiable")
	}

	concert.SoldCount = 60
	if got := concert.Revenue(); got != 240*money.Scale {
		t.Errorf("Revenue = %d, want %d", got, 240*money.Scale)
	}
}

func TestBuildIndexLaterDuplicateWins(t *testing.T) {
	stale := futureConcert(1, "Old Name")
	fresh := futureConcert(1, "New Name")
	index := BuildIndex([]Concert{stale, fresh})
	if index[1].Name != "New Name" {
		t.Errorf("index kept stale copy: %q", index[1].Name)
	}
}
