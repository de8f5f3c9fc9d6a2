// Copyright 2026 The Medley Authors
// SPDX-License-Identifier: Apache-2.0

package backend

import (
	"context"
	"fmt"
	"sort"
	"strings"
	"sync"
	"time"

	"github.com/google/uuid"

	"github.com/medley-live/medley/lib/apperr"
	"github.com/medley-live/medley/lib/market"
	"github.com/medley-live/medley/lib/money"
)

// demoStartingBalance is granted to every newly registered demo
// account so purchases work out of the box.
const demoStartingBalance = 200 * money.Scale

// demoAccount is one registered identity in the demo ledger.
type demoAccount struct {
	role    market.Role
	name    string
	balance uint64
	revenue uint64
}

// DemoBackend is an in-memory Backend for offline demos and tests. It
// enforces the same business rules the real backend does (no edits
// after a sale, no oversold concerts, no purchases of started events)
// so the client's guard logic can be exercised against it.
type DemoBackend struct {
	mutex sync.Mutex

	now func() time.Time

	tokenInitialized bool
	settings         market.TokenSettings

	nextConcertID market.ConcertID
	concerts      map[market.ConcertID]market.Concert
	accounts      map[string]*demoAccount
	tickets       map[string][]market.Ticket // identity -> owned certificates
	ticketOwners  map[market.TicketID]string
}

// NewDemoBackend creates a demo backend seeded with the standard demo
// catalog: a mix of future and past concerts across the availability
// spectrum, and an initialized token economy.
func NewDemoBackend() *DemoBackend {
	demo := &DemoBackend{
		now:              time.Now,
		tokenInitialized: true,
		settings: market.TokenSettings{
			Name:        "Medley Token",
			Symbol:      "MDY",
			Decimals:    8,
			TransferFee: 10_000,
			TotalSupply: 1_000_000 * money.Scale,
			Logo:        "https://medley.live/token.png",
		},
		nextConcertID: 1,
		concerts:      make(map[market.ConcertID]market.Concert),
		accounts:      make(map[string]*demoAccount),
		tickets:       make(map[string][]market.Ticket),
		ticketOwners:  make(map[market.TicketID]string),
	}
	demo.seedCatalog()
	return demo
}

// SetClock replaces the demo clock. Tests use a fixed instant so
// availability classifications stay deterministic.
func (d *DemoBackend) SetClock(now func() time.Time) {
	d.mutex.Lock()
	defer d.mutex.Unlock()
	d.now = now
}

// seedCatalog installs the demo concerts. Dates are relative to the
// clock so the catalog always shows the full availability spectrum.
func (d *DemoBackend) seedCatalog() {
	now := d.now()
	day := 24 * time.Hour
	seeds := []struct {
		name      string
		offset    time.Duration
		organizer string
		price     uint64
		sold      uint32
		total     uint32
	}{
		{"Electric Summer Fest", 5 * day, "demo-organizer-1", 5 * money.Scale, 30, 200},
		{"Jazz Night Live", -10 * day, "demo-organizer-2", 7 * money.Scale, 120, 150},
		{"Pop & Rock Carnival", 15 * day, "demo-organizer-3", 2 * money.Scale, 90, 100},
		{"Classical Evening Gala", -3 * day, "demo-organizer-2", 4 * money.Scale, 60, 300},
		{"Indie Vibes Showcase", 2 * day, "demo-organizer-3", 3 * money.Scale, 10, 230},
	}
	for _, seed := range seeds {
		id := d.nextConcertID
		d.nextConcertID++
		d.concerts[id] = market.Concert{
			ID:            id,
			Name:          seed.name,
			Date:          money.ToInstant(now.Add(seed.offset)),
			OrganizerID:   seed.organizer,
			Price:         seed.price,
			SoldCount:     seed.sold,
			TotalCapacity: seed.total,
		}
	}
	for _, organizer := range []string{"demo-organizer-1", "demo-organizer-2", "demo-organizer-3"} {
		d.accounts[organizer] = &demoAccount{
			role:    market.RoleOrganizer,
			name:    strings.TrimPrefix(organizer, "demo-"),
			balance: demoStartingBalance,
		}
	}
}

// IsTokenInitialized implements Backend.
func (d *DemoBackend) IsTokenInitialized(ctx context.Context) (bool, error) {
	d.mutex.Lock()
	defer d.mutex.Unlock()
	return d.tokenInitialized, nil
}

// GetRole implements Backend.
func (d *DemoBackend) GetRole(ctx context.Context, identity string) (market.Role, bool, error) {
	d.mutex.Lock()
	defer d.mutex.Unlock()
	account, found := d.accounts[identity]
	if !found {
		return "", false, nil
	}
	return account.role, true, nil
}

// Register implements Backend.
func (d *DemoBackend) Register(ctx context.Context, identity string, role market.Role, name string) error {
	d.mutex.Lock()
	defer d.mutex.Unlock()
	if _, exists := d.accounts[identity]; exists {
		return apperr.Remote("Error: identity is already registered")
	}
	d.accounts[identity] = &demoAccount{
		role:    role,
		name:    name,
		balance: demoStartingBalance,
	}
	return nil
}

// GetConcerts implements Backend.
func (d *DemoBackend) GetConcerts(ctx context.Context, criteria market.FilterCriteria) ([]market.Concert, error) {
	d.mutex.Lock()
	defer d.mutex.Unlock()

	now := d.now()
	search := strings.ToLower(strings.TrimSpace(criteria.Search))
	var matched []market.Concert
	for _, concert := range d.concerts {
		if search != "" && !strings.Contains(strings.ToLower(concert.Name), search) {
			continue
		}
		if criteria.MinPrice != 0 && concert.Price < criteria.MinPrice {
			continue
		}
		if criteria.MaxPrice != 0 && concert.Price > criteria.MaxPrice {
			continue
		}
		if criteria.OnlyAvailable {
			switch concert.Availability(now) {
			case market.Available, market.FewLeft:
			default:
				continue
			}
		}
		matched = append(matched, concert)
	}
	sort.Slice(matched, func(i, j int) bool { return matched[i].ID < matched[j].ID })
	return matched, nil
}

// GetConcert implements Backend.
func (d *DemoBackend) GetConcert(ctx context.Context, id market.ConcertID) (market.Concert, bool, error) {
	d.mutex.Lock()
	defer d.mutex.Unlock()
	concert, found := d.concerts[id]
	return concert, found, nil
}

// GetOrganizerConcerts implements Backend.
func (d *DemoBackend) GetOrganizerConcerts(ctx context.Context, identity string) ([]market.ConcertID, error) {
	d.mutex.Lock()
	defer d.mutex.Unlock()
	var ids []market.ConcertID
	for id, concert := range d.concerts {
		if concert.OrganizerID == identity {
			ids = append(ids, id)
		}
	}
	sort.Slice(ids, func(i, j int) bool { return ids[i] < ids[j] })
	return ids, nil
}

// CreateConcert implements Backend.
func (d *DemoBackend) CreateConcert(ctx context.Context, identity, name string, date int64, totalCapacity uint32, price uint64) (market.ConcertID, error) {
	d.mutex.Lock()
	defer d.mutex.Unlock()
	if account, found := d.accounts[identity]; !found || account.role != market.RoleOrganizer {
		return 0, apperr.Remote("Error: only organizers can create concerts")
	}
	id := d.nextConcertID
	d.nextConcertID++
	d.concerts[id] = market.Concert{
		ID:            id,
		Name:          name,
		Date:          date,
		OrganizerID:   identity,
		Price:         price,
		TotalCapacity: totalCapacity,
	}
	return id, nil
}

// EditConcert implements Backend.
func (d *DemoBackend) EditConcert(ctx context.Context, identity string, id market.ConcertID, name string, date int64, totalCapacity uint32, price uint64) (bool, error) {
	d.mutex.Lock()
	defer d.mutex.Unlock()
	concert, found := d.concerts[id]
	if !found || concert.OrganizerID != identity || !concert.CanModify() {
		return false, nil
	}
	concert.Name = name
	concert.Date = date
	concert.TotalCapacity = totalCapacity
	concert.Price = price
	d.concerts[id] = concert
	return true, nil
}

// DeleteConcert implements Backend.
func (d *DemoBackend) DeleteConcert(ctx context.Context, identity string, id market.ConcertID) (bool, error) {
	d.mutex.Lock()
	defer d.mutex.Unlock()
	concert, found := d.concerts[id]
	if !found || concert.OrganizerID != identity || !concert.CanModify() {
		return false, nil
	}
	delete(d.concerts, id)
	return true, nil
}

// BuyTicket implements Backend.
func (d *DemoBackend) BuyTicket(ctx context.Context, identity string, concertID market.ConcertID) (market.TicketID, error) {
	d.mutex.Lock()
	defer d.mutex.Unlock()

	buyer, found := d.accounts[identity]
	if !found {
		return "", apperr.Remote("Error: identity is not registered")
	}
	concert, found := d.concerts[concertID]
	if !found {
		return "", apperr.Remote("Error: concert not found")
	}
	switch concert.Availability(d.now()) {
	case market.NotAvailable:
		return "", apperr.Remote("Error: concert has already started")
	case market.SoldOut:
		return "", apperr.Remote("Error: concert is sold out")
	}
	if buyer.balance < concert.Price {
		return "", apperr.Remote("Error: insufficient balance")
	}

	buyer.balance -= concert.Price
	if organizer, found := d.accounts[concert.OrganizerID]; found {
		organizer.balance += concert.Price
		organizer.revenue += concert.Price
	}
	concert.SoldCount++
	d.concerts[concertID] = concert

	ticketID := market.TicketID(uuid.NewString())
	d.tickets[identity] = append(d.tickets[identity], market.Ticket{
		ID:        ticketID,
		ConcertID: concertID,
		IsValid:   true,
	})
	d.ticketOwners[ticketID] = identity
	return ticketID, nil
}

// ValidateTicket implements Backend.
func (d *DemoBackend) ValidateTicket(ctx context.Context, identity string, ticketID market.TicketID) (string, error) {
	d.mutex.Lock()
	defer d.mutex.Unlock()

	owner, found := d.ticketOwners[ticketID]
	if !found {
		return "", apperr.Remote("Error: ticket %s not found", ticketID)
	}
	owned := d.tickets[owner]
	for i, ticket := range owned {
		if ticket.ID != ticketID {
			continue
		}
		concert, concertFound := d.concerts[ticket.ConcertID]
		if !concertFound || concert.OrganizerID != identity {
			return "", apperr.Remote("Error: caller is not the concert's organizer")
		}
		if !ticket.IsValid {
			return "", apperr.Remote("Error: ticket has already been used")
		}
		owned[i].IsValid = false
		return fmt.Sprintf("Ticket %s validated for %s", ticketID, concert.Name), nil
	}
	return "", apperr.Remote("Error: ticket %s not found", ticketID)
}

// GetCustomerTickets implements Backend.
func (d *DemoBackend) GetCustomerTickets(ctx context.Context, identity string) ([]market.Ticket, error) {
	d.mutex.Lock()
	defer d.mutex.Unlock()
	owned := d.tickets[identity]
	tickets := make([]market.Ticket, len(owned))
	copy(tickets, owned)
	return tickets, nil
}

// Balance implements Backend.
func (d *DemoBackend) Balance(ctx context.Context, identity string) (uint64, error) {
	d.mutex.Lock()
	defer d.mutex.Unlock()
	account, found := d.accounts[identity]
	if !found {
		return 0, nil
	}
	return account.balance, nil
}

// Revenue implements Backend.
func (d *DemoBackend) Revenue(ctx context.Context, identity string) (uint64, error) {
	d.mutex.Lock()
	defer d.mutex.Unlock()
	account, found := d.accounts[identity]
	if !found {
		return 0, nil
	}
	return account.revenue, nil
}

// InitializeToken implements Backend.
func (d *DemoBackend) InitializeToken(ctx context.Context, identity string, init TokenInit) (string, error) {
	d.mutex.Lock()
	defer d.mutex.Unlock()
	if d.tokenInitialized {
		return "", apperr.Remote("Error: token is already initialized")
	}
	d.tokenInitialized = true
	d.settings = market.TokenSettings{
		Name:        init.Name,
		Symbol:      init.Symbol,
		Decimals:    8,
		TransferFee: 0,
		TotalSupply: init.InitialSupply,
		Logo:        init.Logo,
	}
	if account, found := d.accounts[identity]; found {
		account.balance += init.InitialSupply
	}
	return fmt.Sprintf("Token %s (%s) initialized", init.Name, init.Symbol), nil
}

// Transfer implements Backend.
func (d *DemoBackend) Transfer(ctx context.Context, identity, to string, amount uint64) (string, error) {
	d.mutex.Lock()
	defer d.mutex.Unlock()

	sender, found := d.accounts[identity]
	if !found {
		return "", apperr.Remote("Error: sender is not registered")
	}
	recipient, found := d.accounts[to]
	if !found {
		return "", apperr.Remote("Error: recipient %s is not registered", to)
	}
	if sender.balance < amount {
		return "", apperr.Remote("Error: insufficient balance")
	}
	sender.balance -= amount
	recipient.balance += amount
	return uuid.NewString(), nil
}

// GetAllUsers implements Backend.
func (d *DemoBackend) GetAllUsers(ctx context.Context, identity string) ([]market.UserAccount, error) {
	d.mutex.Lock()
	defer d.mutex.Unlock()
	caller, found := d.accounts[identity]
	if !found || caller.role != market.RoleAdmin {
		return nil, apperr.Remote("Error: only admins can list users")
	}
	users := make([]market.UserAccount, 0, len(d.accounts))
	for _, account := range d.accounts {
		users = append(users, market.UserAccount{
			Role:    account.role,
			Name:    account.name,
			Balance: account.balance,
		})
	}
	sort.Slice(users, func(i, j int) bool { return users[i].Name < users[j].Name })
	return users, nil
}

// TokenSettings implements Backend.
func (d *DemoBackend) TokenSettings(ctx context.Context, identity string) (market.TokenSettings, bool, error) {
	d.mutex.Lock()
	defer d.mutex.Unlock()
	if !d.tokenInitialized {
		return market.TokenSettings{}, false, nil
	}
	return d.settings, true, nil
}
