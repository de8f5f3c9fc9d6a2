// Copyright 2026 The Medley Authors
// SPDX-License-Identifier: Apache-2.0

package marketui

import (
	"context"
	"fmt"
	"log/slog"
	"strings"
	"time"

	"github.com/charmbracelet/bubbles/key"
	tea "github.com/charmbracelet/bubbletea"

	"github.com/medley-live/medley/lib/backend"
	"github.com/medley-live/medley/lib/catalog"
	"github.com/medley-live/medley/lib/dashboard"
	"github.com/medley-live/medley/lib/market"
	"github.com/medley-live/medley/lib/money"
	"github.com/medley-live/medley/lib/session"
)

// Screen identifies which top-level view is active.
type Screen int

const (
	// ScreenLogin asks for an identity.
	ScreenLogin Screen = iota
	// ScreenRegister asks a new identity for a role and display name.
	ScreenRegister
	// ScreenDashboard is the main two-tab marketplace view.
	ScreenDashboard
)

// Tab identifies which dashboard view is active.
type Tab int

const (
	// TabCatalog shows the browsable concert catalog.
	TabCatalog Tab = iota
	// TabRole shows the role-specific dashboard: the customer's
	// wallet, the organizer's concerts, or the admin panel.
	TabRole
)

// formKind identifies which action an open form modal drives.
type formKind int

const (
	formNone formKind = iota
	formCreateConcert
	formEditConcert
	formValidateTicket
	formInitializeToken
	formTransfer
)

// roleLookupMsg is the outcome of the post-login role lookup.
type roleLookupMsg struct {
	role       market.Role
	name       string
	registered bool
	err        error
}

// registeredMsg is the outcome of a registration call.
type registeredMsg struct {
	role market.Role
	name string
	err  error
}

// catalogUpdateMsg carries a resolved catalog fetch back into the
// event loop. The coordinator decides whether it is still current.
type catalogUpdateMsg struct {
	update catalog.Update
}

// dashboardRefreshedMsg reports a completed dashboard refetch.
type dashboardRefreshedMsg struct {
	err error
}

// actionResultMsg reports a completed mutating operation. On success
// the dashboard has already been refetched by the controller.
type actionResultMsg struct {
	message string
	err     error
}

// tokenStatusMsg reports whether the marketplace token exists yet.
// Until it does, purchases are pointless: admins and organizers are
// offered the initialize form, customers see a wait notice.
type tokenStatusMsg struct {
	initialized bool
	err         error
}

// Model is the top-level bubbletea model for the Medley client.
type Model struct {
	backend     backend.Backend
	session     *session.Session
	coordinator *catalog.Coordinator
	timeout     time.Duration
	theme       Theme
	keys        KeyMap

	// Terminal dimensions (set by WindowSizeMsg).
	width  int
	height int
	ready  bool

	screen    Screen
	activeTab Tab

	// Login and registration state.
	loginForm          *FormModal
	registerRoleCursor int
	nameForm           *FormModal

	// Role controllers. Exactly one is non-nil once a role is
	// assigned; the others stay nil for the session.
	customer  *dashboard.Customer
	organizer *dashboard.Organizer
	admin     *dashboard.Admin

	// Catalog state.
	filter       FilterBar
	cursor       int
	scrollOffset int

	// Role view cursor (wallet rows, concert rows, user rows).
	roleCursor   int
	roleScroll   int
	refreshError string

	// Modal state. At most one of these is active at a time; all
	// keyboard input routes to the active one.
	activeForm    *FormModal
	activeKind    formKind
	editTarget    market.ConcertID
	detailConcert *market.Concert
	detailTicket  *market.ResolvedTicket
	confirmDelete *market.Concert

	// tokenReady is false while the marketplace token is known to be
	// uninitialized. Purchases are gated on it.
	tokenReady bool

	// Status bar notice. Cleared by noticeFadeMsg.
	notice      string
	noticeError bool
}

// NewModel creates a Model wired to the given backend. The catalog
// coordinator and the session start empty; the login screen is shown
// first.
func NewModel(b backend.Backend, timeout time.Duration) Model {
	return Model{
		backend:     b,
		session:     session.New(),
		coordinator: catalog.NewCoordinator(b),
		timeout:     timeout,
		theme:       DefaultTheme,
		keys:        DefaultKeyMap,
		screen:      ScreenLogin,
		tokenReady:  true,
		loginForm:   NewFormModal("Log In", FormField{Label: "Identity", Placeholder: "your identity"}),
	}
}

// Init implements tea.Model.
func (model Model) Init() tea.Cmd {
	return nil
}

// lookupRole resolves the logged-in identity's role in the background.
func (model Model) lookupRole(identity string) tea.Cmd {
	b := model.backend
	timeout := model.timeout
	return func() tea.Msg {
		ctx, cancel := callContext(timeout)
		defer cancel()
		role, found, err := b.GetRole(ctx, identity)
		return roleLookupMsg{role: role, registered: found, err: err}
	}
}

// register submits a registration in the background.
func (model Model) register(identity string, role market.Role, name string) tea.Cmd {
	b := model.backend
	timeout := model.timeout
	return func() tea.Msg {
		ctx, cancel := callContext(timeout)
		defer cancel()
		err := b.Register(ctx, identity, role, name)
		return registeredMsg{role: role, name: name, err: err}
	}
}

func callContext(timeout time.Duration) (context.Context, context.CancelFunc) {
	if timeout <= 0 {
		return context.WithCancel(context.Background())
	}
	return context.WithTimeout(context.Background(), timeout)
}

// fetchCatalog runs one coordinator request in the background. The
// sequence number inside the request lets Apply discard the outcome
// if a newer request was issued meanwhile.
func (model Model) fetchCatalog(request catalog.Request) tea.Cmd {
	coordinator := model.coordinator
	timeout := model.timeout
	return func() tea.Msg {
		ctx, cancel := callContext(timeout)
		defer cancel()
		return catalogUpdateMsg{update: coordinator.Fetch(ctx, request)}
	}
}

// beginCatalogFetch issues a new catalog request for the current
// filter criteria and returns the command that executes it.
func (model *Model) beginCatalogFetch() tea.Cmd {
	request := model.coordinator.Begin(model.filter.Criteria())
	return model.fetchCatalog(request)
}

// checkToken queries whether the marketplace token exists yet.
func (model Model) checkToken() tea.Cmd {
	b := model.backend
	timeout := model.timeout
	return func() tea.Msg {
		ctx, cancel := callContext(timeout)
		defer cancel()
		initialized, err := b.IsTokenInitialized(ctx)
		return tokenStatusMsg{initialized: initialized, err: err}
	}
}

// refreshDashboard refetches the active role controller's state.
func (model Model) refreshDashboard() tea.Cmd {
	controller := model.controller()
	if controller == nil {
		return nil
	}
	timeout := model.timeout
	return func() tea.Msg {
		ctx, cancel := callContext(timeout)
		defer cancel()
		return dashboardRefreshedMsg{err: controller.Refresh(ctx)}
	}
}

// runAction executes a mutating operation in the background and
// reports its outcome as an actionResultMsg.
func (model Model) runAction(action func(context.Context) (string, error)) tea.Cmd {
	timeout := model.timeout
	return func() tea.Msg {
		ctx, cancel := callContext(timeout)
		defer cancel()
		message, err := action(ctx)
		return actionResultMsg{message: message, err: err}
	}
}

// controller returns the active role controller, nil before a role is
// assigned.
func (model Model) controller() dashboard.Controller {
	switch {
	case model.customer != nil:
		return model.customer
	case model.organizer != nil:
		return model.organizer
	case model.admin != nil:
		return model.admin
	default:
		return nil
	}
}

// fadeNotice schedules the status bar notice to clear.
func fadeNotice() tea.Cmd {
	return tea.Tick(noticeFadeDelay, func(time.Time) tea.Msg {
		return noticeFadeMsg{}
	})
}

// setNotice records a status bar notice and schedules its fade.
func (model *Model) setNotice(text string, isError bool) tea.Cmd {
	model.notice = text
	model.noticeError = isError
	return fadeNotice()
}

// Update implements tea.Model.
func (model Model) Update(message tea.Msg) (tea.Model, tea.Cmd) {
	switch message := message.(type) {
	case tea.WindowSizeMsg:
		model.width = message.Width
		model.height = message.Height
		model.ready = true
		return model, nil

	case logRecordMsg:
		return model, model.setNotice(message.Summary, message.Level >= slog.LevelError)

	case noticeFadeMsg:
		model.notice = ""
		model.noticeError = false
		return model, nil

	case roleLookupMsg:
		return model.handleRoleLookup(message)

	case registeredMsg:
		return model.handleRegistered(message)

	case catalogUpdateMsg:
		model.coordinator.Apply(message.update)
		model.clampCatalogCursor()
		return model, nil

	case dashboardRefreshedMsg:
		if message.err != nil {
			model.refreshError = message.err.Error()
			return model, model.setNotice(message.err.Error(), true)
		}
		model.refreshError = ""
		model.clampRoleCursor()
		return model, nil

	case tokenStatusMsg:
		return model.handleTokenStatus(message)

	case actionResultMsg:
		if message.err != nil {
			return model, model.setNotice(message.err.Error(), true)
		}
		notice := message.message
		if notice == "" {
			notice = "Done"
		}
		if !model.tokenReady {
			// The action may have been the token setup; re-check.
			return model, tea.Batch(model.setNotice(notice, false), model.checkToken())
		}
		return model, model.setNotice(notice, false)

	case tea.KeyMsg:
		return model.handleKey(message)
	}

	return model, nil
}

// handleKey routes keyboard input by screen and modal state.
func (model Model) handleKey(message tea.KeyMsg) (tea.Model, tea.Cmd) {
	// A quit chord works everywhere except inside a text field, where
	// "q" is just a letter. Ctrl+C always quits.
	if message.Type == tea.KeyCtrlC {
		return model, tea.Quit
	}

	switch model.screen {
	case ScreenLogin:
		return model.handleLoginKeys(message)
	case ScreenRegister:
		return model.handleRegisterKeys(message)
	}

	// Dashboard modals take all input while open.
	if model.activeForm != nil {
		return model.handleFormKeys(message)
	}
	if model.confirmDelete != nil {
		return model.handleConfirmKeys(message)
	}
	if model.detailConcert != nil || model.detailTicket != nil {
		// Buying from the concert detail closes it and purchases the
		// concert under the cursor (the one the detail was opened on).
		if model.detailConcert != nil && key.Matches(message, model.keys.Buy) {
			model.detailConcert = nil
			return model.buySelected()
		}
		if message.Type == tea.KeyEscape || message.Type == tea.KeyEnter {
			model.detailConcert = nil
			model.detailTicket = nil
		}
		return model, nil
	}
	if model.filter.Active {
		return model.handleFilterKeys(message)
	}

	return model.handleDashboardKeys(message)
}

// handleLoginKeys drives the identity form.
func (model Model) handleLoginKeys(message tea.KeyMsg) (tea.Model, tea.Cmd) {
	submitted, cancelled := model.loginForm.Update(message)
	if cancelled {
		return model, tea.Quit
	}
	if !submitted {
		return model, nil
	}

	identity := strings.TrimSpace(model.loginForm.Value(0))
	if err := model.session.Login(identity); err != nil {
		return model, model.setNotice(err.Error(), true)
	}
	return model, model.lookupRole(identity)
}

// handleRoleLookup completes the login flow: registered identities go
// straight to their dashboard, new ones to the registration screen.
func (model Model) handleRoleLookup(message roleLookupMsg) (tea.Model, tea.Cmd) {
	if message.err != nil {
		model.session.Logout()
		return model, model.setNotice(message.err.Error(), true)
	}

	if !message.registered {
		model.screen = ScreenRegister
		model.registerRoleCursor = 0
		model.nameForm = NewFormModal("Register", FormField{Label: "Name", Placeholder: "display name"})
		return model, nil
	}

	return model.enterDashboard(message.role, message.name)
}

// handleRegisterKeys drives the role picker and name form. Left/right
// cycle the role; everything else edits the name field.
func (model Model) handleRegisterKeys(message tea.KeyMsg) (tea.Model, tea.Cmd) {
	switch message.Type {
	case tea.KeyLeft:
		model.registerRoleCursor = (model.registerRoleCursor - 1 + len(market.Roles)) % len(market.Roles)
		return model, nil
	case tea.KeyRight:
		model.registerRoleCursor = (model.registerRoleCursor + 1) % len(market.Roles)
		return model, nil
	}

	submitted, cancelled := model.nameForm.Update(message)
	if cancelled {
		model.session.Logout()
		model.screen = ScreenLogin
		model.loginForm = NewFormModal("Log In", FormField{Label: "Identity", Placeholder: "your identity"})
		return model, nil
	}
	if !submitted {
		return model, nil
	}

	role := market.Roles[model.registerRoleCursor]
	name := strings.TrimSpace(model.nameForm.Value(0))
	if err := session.ValidateRegistration(role, name); err != nil {
		// The registration never leaves the client.
		return model, model.setNotice(err.Error(), true)
	}
	return model, model.register(model.session.Identity(), role, name)
}

// handleRegistered completes registration.
func (model Model) handleRegistered(message registeredMsg) (tea.Model, tea.Cmd) {
	if message.err != nil {
		return model, model.setNotice(message.err.Error(), true)
	}
	return model.enterDashboard(message.role, message.name)
}

// enterDashboard assigns the role, builds the matching controller,
// and kicks off the initial fetches.
func (model Model) enterDashboard(role market.Role, name string) (tea.Model, tea.Cmd) {
	if err := model.session.AdoptRole(role, name); err != nil {
		return model, model.setNotice(err.Error(), true)
	}

	identity := model.session.Identity()
	switch role {
	case market.RoleCustomer:
		model.customer = dashboard.NewCustomer(model.backend, identity, nil)
	case market.RoleOrganizer:
		model.organizer = dashboard.NewOrganizer(model.backend, identity, nil)
	case market.RoleAdmin:
		model.admin = dashboard.NewAdmin(model.backend, identity, nil)
	}

	model.screen = ScreenDashboard
	model.activeTab = TabCatalog
	model.cursor = 0
	model.scrollOffset = 0

	return model, tea.Batch(model.beginCatalogFetch(), model.refreshDashboard(), model.checkToken())
}

// handleTokenStatus gates the dashboard on the marketplace token.
// Admins and organizers with an uninitialized token get the setup form
// straight away; customers can only wait.
func (model Model) handleTokenStatus(message tokenStatusMsg) (tea.Model, tea.Cmd) {
	if message.err != nil {
		return model, model.setNotice(message.err.Error(), true)
	}
	model.tokenReady = message.initialized
	if message.initialized {
		return model, nil
	}
	if model.admin != nil || model.organizer != nil {
		if model.activeForm == nil {
			return model.openInitTokenForm()
		}
		return model, nil
	}
	return model, model.setNotice("marketplace token not initialized yet; purchases unavailable", true)
}

// logout clears every piece of per-session state and returns to the
// login screen.
func (model Model) logout() (tea.Model, tea.Cmd) {
	model.session.Logout()
	model.coordinator.Reset()
	model.customer = nil
	model.organizer = nil
	model.admin = nil
	model.filter = FilterBar{}
	model.cursor = 0
	model.scrollOffset = 0
	model.roleCursor = 0
	model.roleScroll = 0
	model.activeForm = nil
	model.activeKind = formNone
	model.detailConcert = nil
	model.detailTicket = nil
	model.confirmDelete = nil
	model.notice = ""
	model.refreshError = ""
	model.tokenReady = true
	model.screen = ScreenLogin
	model.loginForm = NewFormModal("Log In", FormField{Label: "Identity", Placeholder: "your identity"})
	return model, nil
}

// handleFilterKeys routes input to the filter bar. Every change to
// the query issues a fresh catalog request.
func (model Model) handleFilterKeys(message tea.KeyMsg) (tea.Model, tea.Cmd) {
	switch message.Type {
	case tea.KeyEscape:
		model.filter.Clear()
		return model, model.beginCatalogFetch()

	case tea.KeyEnter:
		model.filter.Active = false
		return model, nil

	case tea.KeyBackspace:
		if model.filter.HandleBackspace() {
			model.cursor = 0
			model.scrollOffset = 0
			return model, model.beginCatalogFetch()
		}
		return model, nil

	case tea.KeyRunes, tea.KeySpace:
		changed := false
		for _, character := range message.Runes {
			changed = model.filter.HandleRune(character) || changed
		}
		if changed {
			model.cursor = 0
			model.scrollOffset = 0
			return model, model.beginCatalogFetch()
		}
		return model, nil
	}
	return model, nil
}

// handleDashboardKeys handles the main dashboard key set.
func (model Model) handleDashboardKeys(message tea.KeyMsg) (tea.Model, tea.Cmd) {
	switch {
	case key.Matches(message, model.keys.Quit):
		return model, tea.Quit

	case key.Matches(message, model.keys.Logout):
		return model.logout()

	case key.Matches(message, model.keys.TabCatalog):
		model.activeTab = TabCatalog
		return model, nil

	case key.Matches(message, model.keys.TabRole):
		model.activeTab = TabRole
		return model, nil

	case key.Matches(message, model.keys.Refresh):
		return model, tea.Batch(model.beginCatalogFetch(), model.refreshDashboard())

	case key.Matches(message, model.keys.FilterActivate):
		if model.activeTab == TabCatalog {
			model.filter.Active = true
			model.cursor = 0
			model.scrollOffset = 0
		}
		return model, nil

	case key.Matches(message, model.keys.FilterClear):
		if model.activeTab == TabCatalog && (model.filter.Input != "" || model.filter.OnlyAvailable) {
			model.filter = FilterBar{}
			return model, model.beginCatalogFetch()
		}
		return model, nil

	case key.Matches(message, model.keys.ToggleAvail):
		if model.activeTab == TabCatalog {
			model.filter.OnlyAvailable = !model.filter.OnlyAvailable
			model.cursor = 0
			model.scrollOffset = 0
			return model, model.beginCatalogFetch()
		}
		return model, nil

	case key.Matches(message, model.keys.Up):
		model.moveCursor(-1)
		return model, nil

	case key.Matches(message, model.keys.Down):
		model.moveCursor(1)
		return model, nil

	case key.Matches(message, model.keys.PageUp):
		model.moveCursor(-model.visibleRows())
		return model, nil

	case key.Matches(message, model.keys.PageDown):
		model.moveCursor(model.visibleRows())
		return model, nil

	case key.Matches(message, model.keys.Home):
		model.moveCursor(-1 << 30)
		return model, nil

	case key.Matches(message, model.keys.End):
		model.moveCursor(1 << 30)
		return model, nil

	case key.Matches(message, model.keys.Select):
		return model.openDetail()

	case key.Matches(message, model.keys.Buy):
		return model.buySelected()

	case key.Matches(message, model.keys.New):
		return model.openCreateForm()

	case key.Matches(message, model.keys.Edit):
		return model.openEditForm()

	case key.Matches(message, model.keys.Delete):
		return model.openDeleteConfirm()

	case key.Matches(message, model.keys.Validate):
		return model.openValidateForm()

	case key.Matches(message, model.keys.Transfer):
		return model.openTransferForm()

	case key.Matches(message, model.keys.InitToken):
		return model.openInitTokenForm()
	}

	return model, nil
}

// moveCursor moves the active list cursor, clamped to the list.
func (model *Model) moveCursor(delta int) {
	if model.activeTab == TabCatalog {
		model.cursor = clamp(model.cursor+delta, 0, len(model.coordinator.Concerts())-1)
		model.scrollToCursor(&model.scrollOffset, model.cursor)
		return
	}
	model.roleCursor = clamp(model.roleCursor+delta, 0, model.roleRowCount()-1)
	model.scrollToCursor(&model.roleScroll, model.roleCursor)
}

func clamp(value, low, high int) int {
	if high < low {
		high = low
	}
	if value < low {
		return low
	}
	if value > high {
		return high
	}
	return value
}

// scrollToCursor keeps the cursor row inside the visible window.
func (model *Model) scrollToCursor(offset *int, cursor int) {
	rows := model.visibleRows()
	if cursor < *offset {
		*offset = cursor
	}
	if cursor >= *offset+rows {
		*offset = cursor - rows + 1
	}
	if *offset < 0 {
		*offset = 0
	}
}

// clampCatalogCursor re-clamps the cursor after the catalog changed.
func (model *Model) clampCatalogCursor() {
	model.cursor = clamp(model.cursor, 0, len(model.coordinator.Concerts())-1)
	model.scrollToCursor(&model.scrollOffset, model.cursor)
}

// clampRoleCursor re-clamps the role view cursor after a refresh.
func (model *Model) clampRoleCursor() {
	model.roleCursor = clamp(model.roleCursor, 0, model.roleRowCount()-1)
	model.scrollToCursor(&model.roleScroll, model.roleCursor)
}

// roleRowCount is the number of selectable rows in the role view.
func (model Model) roleRowCount() int {
	switch {
	case model.customer != nil:
		return len(model.customer.Tickets())
	case model.organizer != nil:
		return len(model.organizer.Concerts())
	case model.admin != nil:
		return len(model.admin.Users())
	default:
		return 0
	}
}

// selectedConcert returns the concert under the cursor, considering
// the active tab. Organizers act on their own list in the role tab.
func (model Model) selectedConcert() (market.Concert, bool) {
	if model.activeTab == TabCatalog {
		concerts := model.coordinator.Concerts()
		if model.cursor >= 0 && model.cursor < len(concerts) {
			return concerts[model.cursor], true
		}
		return market.Concert{}, false
	}
	if model.organizer != nil {
		concerts := model.organizer.Concerts()
		if model.roleCursor >= 0 && model.roleCursor < len(concerts) {
			return concerts[model.roleCursor], true
		}
	}
	return market.Concert{}, false
}

// openDetail opens the detail modal for the cursor row.
func (model Model) openDetail() (tea.Model, tea.Cmd) {
	if model.activeTab == TabRole && model.customer != nil {
		tickets := model.customer.Tickets()
		if model.roleCursor >= 0 && model.roleCursor < len(tickets) {
			ticket := tickets[model.roleCursor]
			model.detailTicket = &ticket
		}
		return model, nil
	}
	if concert, found := model.selectedConcert(); found {
		model.detailConcert = &concert
	}
	return model, nil
}

// buySelected purchases a ticket for the cursor concert (customers,
// catalog tab only).
func (model Model) buySelected() (tea.Model, tea.Cmd) {
	if model.customer == nil || model.activeTab != TabCatalog {
		return model, nil
	}
	if !model.tokenReady {
		return model, model.setNotice("marketplace token not initialized yet; purchases unavailable", true)
	}
	concert, found := model.selectedConcert()
	if !found {
		return model, nil
	}
	customer := model.customer
	id := concert.ID
	name := concert.Name
	return model, tea.Batch(
		model.runAction(func(ctx context.Context) (string, error) {
			if _, err := customer.BuyTicket(ctx, id); err != nil {
				return "", err
			}
			return fmt.Sprintf("Ticket purchased for %s", name), nil
		}),
		model.beginCatalogFetch(),
	)
}

// Form constructors. Each records which action the form drives and
// hands keyboard focus to the modal.

func (model Model) openCreateForm() (tea.Model, tea.Cmd) {
	if model.organizer == nil {
		return model, nil
	}
	model.activeForm = NewFormModal("New Concert",
		FormField{Label: "Name"},
		FormField{Label: "Date", Placeholder: dateLayout},
		FormField{Label: "Capacity", Placeholder: "100"},
		FormField{Label: "Price", Placeholder: "5.00"},
	)
	model.activeKind = formCreateConcert
	return model, nil
}

func (model Model) openEditForm() (tea.Model, tea.Cmd) {
	if model.organizer == nil || model.activeTab != TabRole {
		return model, nil
	}
	concert, found := model.selectedConcert()
	if !found {
		return model, nil
	}
	if !concert.CanModify() {
		return model, model.setNotice(
			fmt.Sprintf("%q already has ticket sales and cannot be edited", concert.Name), true)
	}

	form := NewFormModal("Edit Concert",
		FormField{Label: "Name"},
		FormField{Label: "Date", Placeholder: dateLayout},
		FormField{Label: "Capacity"},
		FormField{Label: "Price"},
	)
	form.Fields[0].SetValue(concert.Name)
	form.Fields[1].SetValue(concert.StartsAt().Format(dateLayout))
	form.Fields[2].SetValue(fmt.Sprintf("%d", concert.TotalCapacity))
	form.Fields[3].SetValue(money.FormatBalance(concert.Price))

	model.activeForm = form
	model.activeKind = formEditConcert
	model.editTarget = concert.ID
	return model, nil
}

func (model Model) openDeleteConfirm() (tea.Model, tea.Cmd) {
	if model.organizer == nil || model.activeTab != TabRole {
		return model, nil
	}
	concert, found := model.selectedConcert()
	if !found {
		return model, nil
	}
	if !concert.CanModify() {
		return model, model.setNotice(
			fmt.Sprintf("%q already has ticket sales and cannot be deleted", concert.Name), true)
	}
	model.confirmDelete = &concert
	return model, nil
}

func (model Model) openValidateForm() (tea.Model, tea.Cmd) {
	if model.organizer == nil {
		return model, nil
	}
	model.activeForm = NewFormModal("Validate Ticket",
		FormField{Label: "Ticket ID"},
	)
	model.activeKind = formValidateTicket
	return model, nil
}

func (model Model) openTransferForm() (tea.Model, tea.Cmd) {
	if model.admin == nil {
		return model, nil
	}
	model.activeForm = NewFormModal("Transfer Tokens",
		FormField{Label: "Recipient"},
		FormField{Label: "Amount", Placeholder: "10.00"},
	)
	model.activeKind = formTransfer
	return model, nil
}

func (model Model) openInitTokenForm() (tea.Model, tea.Cmd) {
	if model.admin == nil && model.organizer == nil {
		return model, nil
	}
	model.activeForm = NewFormModal("Initialize Token",
		FormField{Label: "Name", Placeholder: "Medley Token"},
		FormField{Label: "Symbol", Placeholder: "MDY"},
		FormField{Label: "Supply", Placeholder: "1000000"},
		FormField{Label: "Logo URL"},
	)
	model.activeKind = formInitializeToken
	return model, nil
}

// handleConfirmKeys drives the delete confirmation modal.
func (model Model) handleConfirmKeys(message tea.KeyMsg) (tea.Model, tea.Cmd) {
	concert := model.confirmDelete
	switch {
	case message.Type == tea.KeyEscape,
		message.Type == tea.KeyRunes && len(message.Runes) == 1 && message.Runes[0] == 'n':
		model.confirmDelete = nil
		return model, nil

	case message.Type == tea.KeyEnter,
		message.Type == tea.KeyRunes && len(message.Runes) == 1 && message.Runes[0] == 'y':
		model.confirmDelete = nil
		organizer := model.organizer
		id := concert.ID
		name := concert.Name
		return model, tea.Batch(
			model.runAction(func(ctx context.Context) (string, error) {
				if err := organizer.DeleteConcert(ctx, id); err != nil {
					return "", err
				}
				return fmt.Sprintf("%s deleted", name), nil
			}),
			model.beginCatalogFetch(),
		)
	}
	return model, nil
}

// dateLayout is the input and display format for concert dates.
const dateLayout = "2006-01-02 15:04"

// handleFormKeys routes input to the active form and dispatches the
// matching action on submit.
func (model Model) handleFormKeys(message tea.KeyMsg) (tea.Model, tea.Cmd) {
	submitted, cancelled := model.activeForm.Update(message)
	if cancelled {
		model.activeForm = nil
		model.activeKind = formNone
		return model, nil
	}
	if !submitted {
		return model, nil
	}

	form := model.activeForm
	kind := model.activeKind
	model.activeForm = nil
	model.activeKind = formNone

	switch kind {
	case formCreateConcert, formEditConcert:
		draft, err := parseConcertDraft(form)
		if err != nil {
			return model, model.setNotice(err.Error(), true)
		}
		organizer := model.organizer
		if kind == formCreateConcert {
			return model, tea.Batch(
				model.runAction(func(ctx context.Context) (string, error) {
					if _, err := organizer.CreateConcert(ctx, draft); err != nil {
						return "", err
					}
					return fmt.Sprintf("%s created", draft.Name), nil
				}),
				model.beginCatalogFetch(),
			)
		}
		target := model.editTarget
		return model, tea.Batch(
			model.runAction(func(ctx context.Context) (string, error) {
				if err := organizer.EditConcert(ctx, target, draft); err != nil {
					return "", err
				}
				return fmt.Sprintf("%s updated", draft.Name), nil
			}),
			model.beginCatalogFetch(),
		)

	case formValidateTicket:
		organizer := model.organizer
		ticketID := market.TicketID(strings.TrimSpace(form.Value(0)))
		return model, model.runAction(func(ctx context.Context) (string, error) {
			return organizer.ValidateTicket(ctx, ticketID)
		})

	case formTransfer:
		admin := model.admin
		recipient := strings.TrimSpace(form.Value(0))
		amount, err := money.ParseAmount(form.Value(1))
		if err != nil {
			return model, model.setNotice(err.Error(), true)
		}
		return model, model.runAction(func(ctx context.Context) (string, error) {
			if _, err := admin.Transfer(ctx, recipient, amount); err != nil {
				return "", err
			}
			return fmt.Sprintf("Transferred %s to %s", money.FormatBalance(amount), recipient), nil
		})

	case formInitializeToken:
		init := backend.TokenInit{
			Name:   strings.TrimSpace(form.Value(0)),
			Symbol: strings.TrimSpace(form.Value(1)),
			Logo:   strings.TrimSpace(form.Value(3)),
		}
		supply, err := money.ParseAmount(form.Value(2))
		if err != nil {
			return model, model.setNotice(err.Error(), true)
		}
		init.InitialSupply = supply
		admin := model.admin
		organizer := model.organizer
		return model, model.runAction(func(ctx context.Context) (string, error) {
			if admin != nil {
				return admin.InitializeToken(ctx, init)
			}
			return organizer.InitializeToken(ctx, init)
		})
	}

	return model, nil
}

// parseConcertDraft converts form text into a validated draft.
func parseConcertDraft(form *FormModal) (dashboard.ConcertDraft, error) {
	var draft dashboard.ConcertDraft
	draft.Name = strings.TrimSpace(form.Value(0))

	startsAt, err := time.ParseInLocation(dateLayout, strings.TrimSpace(form.Value(1)), time.Local)
	if err != nil {
		return draft, fmt.Errorf("invalid date %q, want %s", form.Value(1), dateLayout)
	}
	draft.StartsAt = startsAt

	var capacity uint32
	if _, err := fmt.Sscanf(strings.TrimSpace(form.Value(2)), "%d", &capacity); err != nil {
		return draft, fmt.Errorf("invalid capacity %q", form.Value(2))
	}
	draft.TotalCapacity = capacity

	price, err := money.ParseAmount(form.Value(3))
	if err != nil {
		return draft, err
	}
	draft.Price = price
	return draft, nil
}

// visibleRows is the number of list rows that fit between the header
// block and the status bar.
func (model Model) visibleRows() int {
	rows := model.height - 6
	if rows < 1 {
		return 1
	}
	return rows
}
