// Copyright 2026 The Medley Authors
// SPDX-License-Identifier: Apache-2.0

package dashboard

import (
	"context"
	"log/slog"
	"strings"
	"sync"
	"time"

	"github.com/medley-live/medley/lib/apperr"
	"github.com/medley-live/medley/lib/backend"
	"github.com/medley-live/medley/lib/market"
	"github.com/medley-live/medley/lib/money"
)

// ConcertDraft is the validated input for creating or editing a
// concert.
type ConcertDraft struct {
	Name          string
	StartsAt      time.Time
	TotalCapacity uint32
	Price         uint64
}

// validate checks the draft locally before any backend call.
func (draft ConcertDraft) validate() error {
	if strings.TrimSpace(draft.Name) == "" {
		return apperr.Validation("concert name must not be blank")
	}
	if draft.TotalCapacity == 0 {
		return apperr.Validation("total capacity must be at least 1")
	}
	if draft.StartsAt.Before(time.Now()) {
		return apperr.Validation("concert date must be in the future")
	}
	return nil
}

// Organizer drives the organizer dashboard: the organizer's own
// concerts plus their balance and accumulated ticket revenue.
type Organizer struct {
	backend  backend.Backend
	identity string
	logger   *slog.Logger

	mutex    sync.Mutex
	balance  uint64
	revenue  uint64
	concerts []market.Concert
}

// NewOrganizer creates a controller for the given identity.
func NewOrganizer(b backend.Backend, identity string, logger *slog.Logger) *Organizer {
	if logger == nil {
		logger = slog.Default()
	}
	return &Organizer{backend: b, identity: identity, logger: logger}
}

// Role implements Controller.
func (o *Organizer) Role() market.Role { return market.RoleOrganizer }

// Refresh implements Controller.
func (o *Organizer) Refresh(ctx context.Context) error {
	balance, err := o.backend.Balance(ctx, o.identity)
	if err != nil {
		return err
	}
	revenue, err := o.backend.Revenue(ctx, o.identity)
	if err != nil {
		return err
	}
	ids, err := o.backend.GetOrganizerConcerts(ctx, o.identity)
	if err != nil {
		return err
	}
	concerts, err := resolveConcerts(ctx, o.backend, ids, o.logger)
	if err != nil {
		return err
	}

	o.mutex.Lock()
	defer o.mutex.Unlock()
	o.balance = balance
	o.revenue = revenue
	o.concerts = concerts
	return nil
}

// Balance returns the scaled token balance from the last refresh.
func (o *Organizer) Balance() uint64 {
	o.mutex.Lock()
	defer o.mutex.Unlock()
	return o.balance
}

// Revenue returns the scaled ticket revenue from the last refresh.
func (o *Organizer) Revenue() uint64 {
	o.mutex.Lock()
	defer o.mutex.Unlock()
	return o.revenue
}

// Concerts returns the organizer's concerts from the last refresh.
func (o *Organizer) Concerts() []market.Concert {
	o.mutex.Lock()
	defer o.mutex.Unlock()
	return o.concerts
}

// concert returns the local copy of one of the organizer's concerts.
func (o *Organizer) concert(id market.ConcertID) (market.Concert, bool) {
	o.mutex.Lock()
	defer o.mutex.Unlock()
	for _, concert := range o.concerts {
		if concert.ID == id {
			return concert, true
		}
	}
	return market.Concert{}, false
}

// CreateConcert validates the draft, creates the concert, and
// refetches the dashboard.
func (o *Organizer) CreateConcert(ctx context.Context, draft ConcertDraft) (market.ConcertID, error) {
	if err := draft.validate(); err != nil {
		return 0, err
	}
	id, err := o.backend.CreateConcert(ctx, o.identity, draft.Name,
		money.ToInstant(draft.StartsAt), draft.TotalCapacity, draft.Price)
	if err != nil {
		return 0, err
	}
	o.logger.Info("concert created", "concert_id", id, "name", draft.Name)
	return id, o.Refresh(ctx)
}

// EditConcert updates a concert that has no sales yet. The sold-out
// guard runs locally first so the common refusal never leaves the
// client, then again on the backend, which is authoritative.
func (o *Organizer) EditConcert(ctx context.Context, id market.ConcertID, draft ConcertDraft) error {
	if err := draft.validate(); err != nil {
		return err
	}
	if current, found := o.concert(id); found && !current.CanModify() {
		return apperr.Validation("concert %q already has ticket sales and cannot be edited", current.Name)
	}
	applied, err := o.backend.EditConcert(ctx, o.identity, id,
		draft.Name, money.ToInstant(draft.StartsAt), draft.TotalCapacity, draft.Price)
	if err != nil {
		return err
	}
	if !applied {
		return apperr.Remote("edit refused: the concert has sales or is not yours")
	}
	o.logger.Info("concert edited", "concert_id", id)
	return o.Refresh(ctx)
}

// DeleteConcert removes a concert that has no sales yet, with the
// same local-then-authoritative guard as EditConcert.
func (o *Organizer) DeleteConcert(ctx context.Context, id market.ConcertID) error {
	if current, found := o.concert(id); found && !current.CanModify() {
		return apperr.Validation("concert %q already has ticket sales and cannot be deleted", current.Name)
	}
	applied, err := o.backend.DeleteConcert(ctx, o.identity, id)
	if err != nil {
		return err
	}
	if !applied {
		return apperr.Remote("delete refused: the concert has sales or is not yours")
	}
	o.logger.Info("concert deleted", "concert_id", id)
	return o.Refresh(ctx)
}

// ValidateTicket marks a ticket used at the door and returns the
// backend's confirmation message.
func (o *Organizer) ValidateTicket(ctx context.Context, ticketID market.TicketID) (string, error) {
	if strings.TrimSpace(string(ticketID)) == "" {
		return "", apperr.Validation("ticket id must not be blank")
	}
	message, err := o.backend.ValidateTicket(ctx, o.identity, ticketID)
	if err != nil {
		return "", err
	}
	o.logger.Info("ticket validated", "ticket_id", ticketID)
	return message, nil
}

// InitializeToken performs one-time token setup.
func (o *Organizer) InitializeToken(ctx context.Context, init backend.TokenInit) (string, error) {
	return initializeToken(ctx, o.backend, o.identity, o.logger, init)
}

// initializeToken is shared between the organizer and admin
// dashboards, which both expose the setup form.
func initializeToken(ctx context.Context, b backend.Backend, identity string, logger *slog.Logger, init backend.TokenInit) (string, error) {
	if strings.TrimSpace(init.Name) == "" || strings.TrimSpace(init.Symbol) == "" {
		return "", apperr.Validation("token name and symbol must not be blank")
	}
	message, err := b.InitializeToken(ctx, identity, init)
	if err != nil {
		return "", err
	}
	logger.Info("token initialized", "name", init.Name, "symbol", init.Symbol)
	return message, nil
}
