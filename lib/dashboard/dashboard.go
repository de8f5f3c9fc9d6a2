// Copyright 2026 The Medley Authors
// SPDX-License-Identifier: Apache-2.0

// Package dashboard holds the per-role view controllers. Each
// controller owns the remote state its dashboard renders and follows
// one refresh discipline: a mutating operation that succeeds refetches
// everything it touched, and one that fails leaves the local state
// exactly as it was, surfacing the backend's reason verbatim.
package dashboard

import (
	"context"
	"log/slog"

	"github.com/medley-live/medley/lib/backend"
	"github.com/medley-live/medley/lib/market"
)

// Controller is the common surface of the role dashboards.
type Controller interface {
	// Role identifies which dashboard this controller drives.
	Role() market.Role
	// Refresh refetches all state the dashboard renders.
	Refresh(ctx context.Context) error
}

// resolveConcerts fetches each referenced concert once, skipping ids
// the backend no longer knows. Deleted concerts are a normal condition
// (tickets outlive them), not an error.
func resolveConcerts(ctx context.Context, b backend.Backend, ids []market.ConcertID, logger *slog.Logger) ([]market.Concert, error) {
	seen := make(map[market.ConcertID]bool, len(ids))
	concerts := make([]market.Concert, 0, len(ids))
	for _, id := range ids {
		if seen[id] {
			continue
		}
		seen[id] = true
		concert, found, err := b.GetConcert(ctx, id)
		if err != nil {
			return nil, err
		}
		if !found {
			logger.Debug("skipping unresolvable concert", "concert_id", id)
			continue
		}
		concerts = append(concerts, concert)
	}
	return concerts, nil
}
