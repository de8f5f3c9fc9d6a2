// Copyright 2026 The Medley Authors
// SPDX-License-Identifier: Apache-2.0

package marketui

import (
	"context"
	"strings"
	"testing"

	tea "github.com/charmbracelet/bubbletea"

	"github.com/medley-live/medley/lib/backend"
	"github.com/medley-live/medley/lib/market"
	"github.com/medley-live/medley/lib/money"
	"github.com/medley-live/medley/lib/session"
)

func keyRunes(text string) tea.KeyMsg {
	return tea.KeyMsg{Type: tea.KeyRunes, Runes: []rune(text)}
}

func press(t *testing.T, model Model, message tea.Msg) (Model, tea.Cmd) {
	t.Helper()
	updated, cmd := model.Update(message)
	return updated.(Model), cmd
}

// settle executes a command tree (possibly a batch) and applies every
// resulting message. Login and registration outcomes chain into the
// dashboard's initial fetches, so those recurse; notice fade timers
// are deliberately never executed.
func settle(t *testing.T, model Model, cmd tea.Cmd) Model {
	t.Helper()
	if cmd == nil {
		return model
	}
	message := cmd()
	if batch, ok := message.(tea.BatchMsg); ok {
		for _, sub := range batch {
			model = settle(t, model, sub)
		}
		return model
	}

	var next tea.Cmd
	model, next = press(t, model, message)
	switch message.(type) {
	case roleLookupMsg, registeredMsg:
		if model.screen == ScreenDashboard {
			return settle(t, model, next)
		}
	}
	return model
}

func typeText(t *testing.T, model Model, text string) Model {
	t.Helper()
	for _, character := range text {
		model, _ = press(t, model, keyRunes(string(character)))
	}
	return model
}

// newTestModel creates a model against a fresh demo backend, sized and
// ready.
func newTestModel(t *testing.T) (Model, *backend.DemoBackend) {
	t.Helper()
	demo := backend.NewDemoBackend()
	model := NewModel(demo, 0)
	model, _ = press(t, model, tea.WindowSizeMsg{Width: 100, Height: 30})
	return model, demo
}

// loginAs drives the login form and settles the role lookup.
func loginAs(t *testing.T, model Model, identity string) Model {
	t.Helper()
	model = typeText(t, model, identity)
	model, cmd := press(t, model, tea.KeyMsg{Type: tea.KeyEnter})
	return settle(t, model, cmd)
}

func TestModelLoginUnknownIdentityAsksToRegister(t *testing.T) {
	model, _ := newTestModel(t)

	model = loginAs(t, model, "alice")
	if model.screen != ScreenRegister {
		t.Fatalf("screen = %v, want ScreenRegister", model.screen)
	}
	if model.session.Identity() != "alice" {
		t.Fatalf("session identity = %q", model.session.Identity())
	}
}

func TestModelRegisterFlow(t *testing.T) {
	model, demo := newTestModel(t)
	model = loginAs(t, model, "alice")

	// Cycle the role picker to Organizer.
	model, _ = press(t, model, tea.KeyMsg{Type: tea.KeyRight})
	if got := market.Roles[model.registerRoleCursor]; got != market.RoleOrganizer {
		t.Fatalf("role cursor at %v, want organizer", got)
	}

	model = typeText(t, model, "Alice Org")
	model, cmd := press(t, model, tea.KeyMsg{Type: tea.KeyEnter})
	model = settle(t, model, cmd)

	if model.screen != ScreenDashboard {
		t.Fatalf("screen = %v, want ScreenDashboard", model.screen)
	}
	if model.organizer == nil {
		t.Fatal("organizer controller not built")
	}
	if got := len(model.coordinator.Concerts()); got != 5 {
		t.Fatalf("catalog has %d concerts after initial fetch, want 5", got)
	}

	// The registration reached the backend.
	role, found, err := demo.GetRole(context.Background(), "alice")
	if err != nil || !found || role != market.RoleOrganizer {
		t.Fatalf("GetRole = %v %v %v", role, found, err)
	}
}

func TestModelRegisterValidationStaysLocal(t *testing.T) {
	model, demo := newTestModel(t)
	model = loginAs(t, model, "bob")

	// Blank name: rejected before any backend call.
	model, _ = press(t, model, tea.KeyMsg{Type: tea.KeyEnter})
	if model.screen != ScreenRegister {
		t.Fatalf("screen = %v, want ScreenRegister", model.screen)
	}
	if model.notice == "" || !model.noticeError {
		t.Fatalf("notice = %q (error=%v), want a validation notice", model.notice, model.noticeError)
	}
	if _, found, _ := demo.GetRole(context.Background(), "bob"); found {
		t.Fatal("rejected registration reached the backend")
	}
}

func TestModelRegisteredIdentitySkipsRegistration(t *testing.T) {
	model, demo := newTestModel(t)
	if err := demo.Register(context.Background(), "carol", market.RoleCustomer, "Carol"); err != nil {
		t.Fatal(err)
	}

	model = loginAs(t, model, "carol")
	if model.screen != ScreenDashboard {
		t.Fatalf("screen = %v, want ScreenDashboard", model.screen)
	}
	if model.customer == nil {
		t.Fatal("customer controller not built")
	}
	if got := model.customer.Balance(); got != 200*money.Scale {
		t.Fatalf("Balance() = %d, want starting balance", got)
	}
}

func TestModelStaleCatalogFetchDiscarded(t *testing.T) {
	model, demo := newTestModel(t)
	if err := demo.Register(context.Background(), "carol", market.RoleCustomer, "Carol"); err != nil {
		t.Fatal(err)
	}
	model = loginAs(t, model, "carol")

	// Activate the filter and type a query that matches nothing.
	model, _ = press(t, model, keyRunes("/"))
	if !model.filter.Active {
		t.Fatal("filter did not activate")
	}
	model, stale := press(t, model, keyRunes("x"))

	// Backspacing issues a newer request for the empty query.
	model, fresh := press(t, model, tea.KeyMsg{Type: tea.KeyBackspace})

	// The newer response lands first; the older one arrives late and
	// must be discarded.
	model = settle(t, model, fresh)
	model = settle(t, model, stale)

	if got := len(model.coordinator.Concerts()); got != 5 {
		t.Fatalf("catalog has %d concerts, want 5 from the newest request", got)
	}
	if model.coordinator.Loading() {
		t.Fatal("coordinator still loading after the newest response")
	}
	if got := model.coordinator.Criteria().Search; got != "" {
		t.Fatalf("criteria search = %q, want empty", got)
	}
}

func TestModelBuyTicket(t *testing.T) {
	model, demo := newTestModel(t)
	if err := demo.Register(context.Background(), "carol", market.RoleCustomer, "Carol"); err != nil {
		t.Fatal(err)
	}
	model = loginAs(t, model, "carol")

	// Cursor starts on the first catalog row, an upcoming concert.
	model, cmd := press(t, model, keyRunes("b"))
	model = settle(t, model, cmd)

	if model.noticeError {
		t.Fatalf("buy failed: %s", model.notice)
	}
	if !strings.Contains(model.notice, "Ticket purchased") {
		t.Fatalf("notice = %q", model.notice)
	}
	if got := len(model.customer.Tickets()); got != 1 {
		t.Fatalf("wallet has %d tickets, want 1", got)
	}
}

func TestModelOrganizerFormOpenAndCancel(t *testing.T) {
	model, demo := newTestModel(t)
	if err := demo.Register(context.Background(), "olive", market.RoleOrganizer, "Olive"); err != nil {
		t.Fatal(err)
	}
	model = loginAs(t, model, "olive")

	model, _ = press(t, model, keyRunes("n"))
	if model.activeForm == nil {
		t.Fatal("create form did not open")
	}
	// While the form is open, list keys edit the form instead.
	model, _ = press(t, model, keyRunes("j"))
	if model.activeForm.Value(0) != "j" {
		t.Fatalf("form field = %q, want the typed rune", model.activeForm.Value(0))
	}

	model, _ = press(t, model, tea.KeyMsg{Type: tea.KeyEscape})
	if model.activeForm != nil {
		t.Fatal("escape did not close the form")
	}
}

func TestModelCustomerCannotOpenOrganizerForms(t *testing.T) {
	model, demo := newTestModel(t)
	if err := demo.Register(context.Background(), "carol", market.RoleCustomer, "Carol"); err != nil {
		t.Fatal(err)
	}
	model = loginAs(t, model, "carol")

	for _, chord := range []string{"n", "e", "v", "t", "i"} {
		model, _ = press(t, model, keyRunes(chord))
		if model.activeForm != nil {
			t.Fatalf("key %q opened a form for a customer", chord)
		}
	}
	model, _ = press(t, model, keyRunes("d"))
	if model.confirmDelete != nil {
		t.Fatal("delete confirmation opened for a customer")
	}
}

func TestModelLogoutClearsState(t *testing.T) {
	model, demo := newTestModel(t)
	if err := demo.Register(context.Background(), "carol", market.RoleCustomer, "Carol"); err != nil {
		t.Fatal(err)
	}
	model = loginAs(t, model, "carol")

	model, _ = press(t, model, tea.KeyMsg{Type: tea.KeyCtrlL})
	if model.screen != ScreenLogin {
		t.Fatalf("screen = %v, want ScreenLogin", model.screen)
	}
	if model.customer != nil || model.controller() != nil {
		t.Fatal("controller survived logout")
	}
	if model.session.State() != session.Unauthenticated {
		t.Fatalf("session state = %v after logout", model.session.State())
	}
	if len(model.coordinator.Concerts()) != 0 {
		t.Fatal("catalog survived logout")
	}

	// The same model can log in again as someone else.
	model = loginAs(t, model, "dave")
	if model.screen != ScreenRegister {
		t.Fatalf("screen = %v, want ScreenRegister for a new identity", model.screen)
	}
}

func TestModelDetailModalOpensAndCloses(t *testing.T) {
	model, demo := newTestModel(t)
	if err := demo.Register(context.Background(), "carol", market.RoleCustomer, "Carol"); err != nil {
		t.Fatal(err)
	}
	model = loginAs(t, model, "carol")

	model, _ = press(t, model, tea.KeyMsg{Type: tea.KeyEnter})
	if model.detailConcert == nil {
		t.Fatal("detail modal did not open")
	}
	if model.detailConcert.Name != "Electric Summer Fest" {
		t.Fatalf("detail shows %q, want the first catalog row", model.detailConcert.Name)
	}

	model, _ = press(t, model, tea.KeyMsg{Type: tea.KeyEscape})
	if model.detailConcert != nil {
		t.Fatal("escape did not close the detail modal")
	}
}

// tokenlessBackend reports the marketplace token as uninitialized
// regardless of the underlying backend state.
type tokenlessBackend struct {
	backend.Backend
}

func (tokenlessBackend) IsTokenInitialized(context.Context) (bool, error) {
	return false, nil
}

func TestModelTokenGate(t *testing.T) {
	demo := backend.NewDemoBackend()
	for identity, role := range map[string]market.Role{
		"carol": market.RoleCustomer,
		"olive": market.RoleOrganizer,
	} {
		if err := demo.Register(context.Background(), identity, role, identity); err != nil {
			t.Fatal(err)
		}
	}

	// Customers can only wait: purchases are refused client-side.
	model := NewModel(tokenlessBackend{demo}, 0)
	model, _ = press(t, model, tea.WindowSizeMsg{Width: 100, Height: 30})
	model = loginAs(t, model, "carol")
	if model.tokenReady {
		t.Fatal("token reported ready")
	}
	model, _ = press(t, model, keyRunes("b"))
	if !model.noticeError || !strings.Contains(model.notice, "not initialized") {
		t.Fatalf("notice = %q (error=%v)", model.notice, model.noticeError)
	}
	if got := len(model.customer.Tickets()); got != 0 {
		t.Fatalf("wallet has %d tickets despite the gate", got)
	}

	// Organizers get the setup form straight away.
	model = NewModel(tokenlessBackend{demo}, 0)
	model, _ = press(t, model, tea.WindowSizeMsg{Width: 100, Height: 30})
	model = loginAs(t, model, "olive")
	if model.activeForm == nil || model.activeKind != formInitializeToken {
		t.Fatal("initialize-token form did not open for the organizer")
	}
}

func TestModelMultiLineNoticeStaysOnOneRow(t *testing.T) {
	model, _ := newTestModel(t)

	// Gateway errors can arrive with response bodies spanning several
	// lines; the status bar must fold them into its single row.
	model.notice = "purchase failed: gateway refused\n\nstack detail line"
	model.noticeError = true

	bar := model.renderStatusBar()
	if strings.Contains(bar, "\n") {
		t.Fatalf("status bar spans multiple rows: %q", bar)
	}
	if !strings.Contains(bar, "gateway refused") {
		t.Fatalf("status bar lost the failure reason: %q", bar)
	}
	if strings.Contains(bar, "stack detail") {
		t.Fatalf("status bar leaked the follow-on lines: %q", bar)
	}
}
