// Copyright 2026 The Medley Authors
// SPDX-License-Identifier: Apache-2.0

package marketui

import "github.com/charmbracelet/bubbles/key"

// KeyMap defines all key bindings for the Medley TUI.
type KeyMap struct {
	// Navigation.
	Up       key.Binding
	Down     key.Binding
	PageUp   key.Binding
	PageDown key.Binding
	Home     key.Binding
	End      key.Binding

	// Tab switching between the catalog and the role view.
	TabCatalog key.Binding
	TabRole    key.Binding

	// Catalog filter.
	FilterActivate key.Binding // Enter filter mode.
	FilterClear    key.Binding // Clear filter and exit filter mode.
	ToggleAvail    key.Binding // Toggle the only-available criterion.

	// Selection and actions.
	Select    key.Binding // Open the detail modal for the cursor row.
	Buy       key.Binding // Customer: buy a ticket for the cursor concert.
	New       key.Binding // Organizer: open the create-concert form.
	Edit      key.Binding // Organizer: edit the cursor concert.
	Delete    key.Binding // Organizer: delete the cursor concert.
	Validate  key.Binding // Organizer: open the validate-ticket form.
	Transfer  key.Binding // Admin: open the transfer form.
	InitToken key.Binding // Admin/organizer: one-time token setup.
	Refresh   key.Binding // Refetch the active dashboard.

	Logout key.Binding
	Quit   key.Binding
}

// DefaultKeyMap is the built-in key binding set. Vim-style navigation
// (j/k) alongside standard arrow keys and page up/down.
var DefaultKeyMap = KeyMap{
	Up: key.NewBinding(
		key.WithKeys("k", "up"),
		key.WithHelp("k/↑", "up"),
	),
	Down: key.NewBinding(
		key.WithKeys("j", "down"),
		key.WithHelp("j/↓", "down"),
	),
	PageUp: key.NewBinding(
		key.WithKeys("ctrl+u", "pgup"),
		key.WithHelp("C-u", "page up"),
	),
	PageDown: key.NewBinding(
		key.WithKeys("ctrl+d", "pgdown"),
		key.WithHelp("C-d", "page down"),
	),
	Home: key.NewBinding(
		key.WithKeys("g", "home"),
		key.WithHelp("g", "top"),
	),
	End: key.NewBinding(
		key.WithKeys("G", "end"),
		key.WithHelp("G", "bottom"),
	),
	TabCatalog: key.NewBinding(
		key.WithKeys("1"),
		key.WithHelp("1", "concerts"),
	),
	TabRole: key.NewBinding(
		key.WithKeys("2"),
		key.WithHelp("2", "dashboard"),
	),
	FilterActivate: key.NewBinding(
		key.WithKeys("/"),
		key.WithHelp("/", "filter"),
	),
	FilterClear: key.NewBinding(
		key.WithKeys("esc"),
		key.WithHelp("Esc", "clear filter"),
	),
	ToggleAvail: key.NewBinding(
		key.WithKeys("a"),
		key.WithHelp("a", "available only"),
	),
	Select: key.NewBinding(
		key.WithKeys("enter"),
		key.WithHelp("Enter", "details"),
	),
	Buy: key.NewBinding(
		key.WithKeys("b"),
		key.WithHelp("b", "buy ticket"),
	),
	New: key.NewBinding(
		key.WithKeys("n"),
		key.WithHelp("n", "new concert"),
	),
	Edit: key.NewBinding(
		key.WithKeys("e"),
		key.WithHelp("e", "edit"),
	),
	Delete: key.NewBinding(
		key.WithKeys("d"),
		key.WithHelp("d", "delete"),
	),
	Validate: key.NewBinding(
		key.WithKeys("v"),
		key.WithHelp("v", "validate ticket"),
	),
	Transfer: key.NewBinding(
		key.WithKeys("t"),
		key.WithHelp("t", "transfer"),
	),
	InitToken: key.NewBinding(
		key.WithKeys("i"),
		key.WithHelp("i", "init token"),
	),
	Refresh: key.NewBinding(
		key.WithKeys("r"),
		key.WithHelp("r", "refresh"),
	),
	Logout: key.NewBinding(
		key.WithKeys("ctrl+l"),
		key.WithHelp("C-l", "logout"),
	),
	Quit: key.NewBinding(
		key.WithKeys("q", "ctrl+c"),
		key.WithHelp("q", "quit"),
	),
}
