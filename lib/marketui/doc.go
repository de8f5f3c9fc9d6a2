// Copyright 2026 The Medley Authors
// SPDX-License-Identifier: Apache-2.0

// Package marketui is the terminal client for the Medley ticket
// marketplace, built on bubbletea's Model/Update/View loop.
//
// The client moves through three screens. The login screen asks for an
// identity; the registration screen appears only for identities the
// backend has never seen, asking for a role and display name; the
// dashboard is a two-tab view shared by every role. Tab one is the
// browsable concert catalog with an incremental filter bar, tab two is
// the role-specific panel: the customer's ticket wallet, the
// organizer's concert list, or the admin's token and user overview.
//
// All backend calls run as tea.Cmd closures and come back as typed
// messages, so Update never blocks. Catalog fetches are serialized
// through a catalog.Coordinator: every keystroke in the filter bar
// issues a new sequenced request and stale responses are discarded, so
// the list always reflects the latest query. Mutating actions (buy,
// create, edit, delete, validate, transfer) report through
// actionResultMsg and land in the status bar notice, which fades after
// a few seconds.
//
// Log records flow into the same loop: TUILogHandler turns slog output
// into notice messages instead of writing to the terminal underneath
// the UI.
package marketui
