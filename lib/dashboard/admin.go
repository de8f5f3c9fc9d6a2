// Copyright 2026 The Medley Authors
// SPDX-License-Identifier: Apache-2.0

package dashboard

import (
	"context"
	"log/slog"
	"strings"
	"sync"

	"github.com/medley-live/medley/lib/apperr"
	"github.com/medley-live/medley/lib/backend"
	"github.com/medley-live/medley/lib/market"
)

// Admin drives the admin dashboard: token settings, the registered
// user roster, and the admin's own balance.
type Admin struct {
	backend  backend.Backend
	identity string
	logger   *slog.Logger

	mutex         sync.Mutex
	balance       uint64
	settings      market.TokenSettings
	settingsFound bool
	users         []market.UserAccount
}

// NewAdmin creates a controller for the given identity.
func NewAdmin(b backend.Backend, identity string, logger *slog.Logger) *Admin {
	if logger == nil {
		logger = slog.Default()
	}
	return &Admin{backend: b, identity: identity, logger: logger}
}

// Role implements Controller.
func (a *Admin) Role() market.Role { return market.RoleAdmin }

// Refresh implements Controller. Token settings may legitimately be
// absent before initialization; absence is recorded, not an error.
func (a *Admin) Refresh(ctx context.Context) error {
	balance, err := a.backend.Balance(ctx, a.identity)
	if err != nil {
		return err
	}
	settings, found, err := a.backend.TokenSettings(ctx, a.identity)
	if err != nil {
		return err
	}
	users, err := a.backend.GetAllUsers(ctx, a.identity)
	if err != nil {
		return err
	}

	a.mutex.Lock()
	defer a.mutex.Unlock()
	a.balance = balance
	a.settings = settings
	a.settingsFound = found
	a.users = users
	return nil
}

// Balance returns the scaled token balance from the last refresh.
func (a *Admin) Balance() uint64 {
	a.mutex.Lock()
	defer a.mutex.Unlock()
	return a.balance
}

// TokenSettings returns the token settings from the last refresh and
// whether the token has been initialized. A zero transfer fee with
// found=true is a real fee of zero, not an uninitialized token.
func (a *Admin) TokenSettings() (market.TokenSettings, bool) {
	a.mutex.Lock()
	defer a.mutex.Unlock()
	return a.settings, a.settingsFound
}

// Users returns the registered accounts from the last refresh.
func (a *Admin) Users() []market.UserAccount {
	a.mutex.Lock()
	defer a.mutex.Unlock()
	return a.users
}

// InitializeToken performs one-time token setup and refetches the
// dashboard so the new settings appear.
func (a *Admin) InitializeToken(ctx context.Context, init backend.TokenInit) (string, error) {
	message, err := initializeToken(ctx, a.backend, a.identity, a.logger, init)
	if err != nil {
		return "", err
	}
	return message, a.Refresh(ctx)
}

// Transfer moves scaled tokens to another identity and refetches the
// dashboard on success.
func (a *Admin) Transfer(ctx context.Context, to string, amount uint64) (string, error) {
	if strings.TrimSpace(to) == "" {
		return "", apperr.Validation("recipient must not be blank")
	}
	if amount == 0 {
		return "", apperr.Validation("transfer amount must be positive")
	}
	receipt, err := a.backend.Transfer(ctx, a.identity, to, amount)
	if err != nil {
		return "", err
	}
	a.logger.Info("tokens transferred", "to", to, "amount", amount)
	return receipt, a.Refresh(ctx)
}
