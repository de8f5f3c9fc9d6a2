// Copyright 2026 The Medley Authors
// SPDX-License-Identifier: Apache-2.0

package marketui

import (
	"fmt"
	"strings"
	"time"

	"github.com/charmbracelet/lipgloss"
	"github.com/charmbracelet/x/ansi"

	"github.com/medley-live/medley/lib/market"
	"github.com/medley-live/medley/lib/money"
	"github.com/medley-live/medley/lib/tui"
)

// View implements tea.Model.
func (model Model) View() string {
	if !model.ready {
		return "Loading Medley..."
	}

	switch model.screen {
	case ScreenLogin:
		return model.renderCenteredForm(model.loginForm)
	case ScreenRegister:
		return model.renderRegister()
	}

	var sections []string
	sections = append(sections, model.renderHeader())

	if model.activeTab == TabCatalog {
		if filterBar := model.filter.View(model.theme, model.width); filterBar != "" {
			sections = append(sections, filterBar)
		}
		sections = append(sections, model.renderCatalog())
	} else {
		sections = append(sections, model.renderRoleView())
	}

	sections = append(sections, model.renderStatusBar())
	view := strings.Join(sections, "\n")
	view = model.padToHeight(view)

	// Modals splice over the finished view.
	switch {
	case model.activeForm != nil:
		return tui.SpliceCentered(view, model.activeForm.View(model.theme), model.width, model.height)
	case model.confirmDelete != nil:
		return tui.SpliceCentered(view, model.renderConfirm(), model.width, model.height)
	case model.detailConcert != nil:
		return tui.SpliceCentered(view, model.renderConcertDetail(*model.detailConcert), model.width, model.height)
	case model.detailTicket != nil:
		return tui.SpliceCentered(view, model.renderTicketDetail(*model.detailTicket), model.width, model.height)
	}
	return view
}

// padToHeight fills the view with blank lines so overlays can anchor
// anywhere on screen.
func (model Model) padToHeight(view string) string {
	lines := strings.Count(view, "\n") + 1
	if missing := model.height - lines; missing > 0 {
		view += strings.Repeat("\n", missing)
	}
	return view
}

// renderCenteredForm shows a form modal over an otherwise empty
// screen, with the status bar at the bottom.
func (model Model) renderCenteredForm(form *FormModal) string {
	blank := strings.Repeat(strings.Repeat(" ", model.width)+"\n", max(model.height-1, 0))
	blank += model.renderStatusBar()
	return tui.SpliceCentered(blank, form.View(model.theme), model.width, model.height)
}

// renderRegister shows the role picker above the name form.
func (model Model) renderRegister() string {
	normal := lipgloss.NewStyle().Foreground(model.theme.NormalText)
	selected := lipgloss.NewStyle().
		Foreground(model.theme.SelectedForeground).
		Background(model.theme.SelectedBackground).
		Bold(true)
	faint := lipgloss.NewStyle().Foreground(model.theme.FaintText)

	var roles []string
	for index, role := range market.Roles {
		label := " " + string(role) + " "
		if index == model.registerRoleCursor {
			roles = append(roles, selected.Render(label))
		} else {
			roles = append(roles, normal.Render(label))
		}
	}

	lines := []string{
		faint.Render("Role (←/→ to change):"),
		strings.Join(roles, " "),
		"",
	}
	lines = append(lines, model.nameForm.View(model.theme)...)

	blank := strings.Repeat(strings.Repeat(" ", model.width)+"\n", max(model.height-1, 0))
	blank += model.renderStatusBar()
	return tui.SpliceCentered(blank, lines, model.width, model.height)
}

// renderHeader draws the title line and the tab bar.
func (model Model) renderHeader() string {
	header := lipgloss.NewStyle().Foreground(model.theme.HeaderForeground).Bold(true)
	faint := lipgloss.NewStyle().Foreground(model.theme.FaintText)
	moneyStyle := lipgloss.NewStyle().Foreground(model.theme.MoneyForeground)

	role, _ := model.session.Role()
	title := header.Render("Medley") + faint.Render("  ·  "+model.session.Identity()+"  ·  "+string(role))

	balance := ""
	switch {
	case model.customer != nil:
		balance = money.FormatBalance(model.customer.Balance())
	case model.organizer != nil:
		balance = money.FormatBalance(model.organizer.Balance())
	case model.admin != nil:
		balance = money.FormatBalance(model.admin.Balance())
	}
	if balance != "" {
		title += faint.Render("  ·  balance ") + moneyStyle.Render(balance)
	}
	if !model.tokenReady {
		title += lipgloss.NewStyle().
			Foreground(model.theme.NoticeError).
			Render("  ·  token not initialized")
	}

	tabs := model.renderTabs()
	if model.activeTab == TabCatalog && model.coordinator.Loading() {
		tabs += faint.Render("  loading…")
	}
	return title + "\n" + tabs
}

// renderTabs draws the two-tab bar with the active tab highlighted.
func (model Model) renderTabs() string {
	active := lipgloss.NewStyle().
		Foreground(model.theme.SelectedForeground).
		Background(model.theme.SelectedBackground).
		Bold(true)
	inactive := lipgloss.NewStyle().Foreground(model.theme.FaintText)

	roleLabel := "Dashboard"
	switch {
	case model.customer != nil:
		roleLabel = "My Tickets"
	case model.organizer != nil:
		roleLabel = "My Concerts"
	case model.admin != nil:
		roleLabel = "Admin"
	}

	catalogTab := " 1:Concerts "
	roleTab := " 2:" + roleLabel + " "
	if model.activeTab == TabCatalog {
		return active.Render(catalogTab) + inactive.Render(roleTab)
	}
	return inactive.Render(catalogTab) + active.Render(roleTab)
}

// renderCatalog draws the concert list for the catalog tab.
func (model Model) renderCatalog() string {
	concerts := model.coordinator.Concerts()
	faint := lipgloss.NewStyle().Foreground(model.theme.FaintText)

	if model.coordinator.Loading() && len(concerts) == 0 {
		return faint.Render("  Loading concerts...")
	}
	if err := model.coordinator.Err(); err != nil {
		return lipgloss.NewStyle().
			Foreground(model.theme.NoticeError).
			Render("  " + err.Error())
	}
	if len(concerts) == 0 {
		return faint.Render("  No concerts match.")
	}

	now := time.Now()
	var rows []string
	rows = append(rows, faint.Render(fmt.Sprintf("  %-30s %-17s %12s %11s  %s",
		"NAME", "DATE", "PRICE", "TICKETS", "STATUS")))

	end := min(model.scrollOffset+model.visibleRows(), len(concerts))
	for index := model.scrollOffset; index < end; index++ {
		concert := concerts[index]
		rows = append(rows, model.renderConcertRow(concert, index == model.cursor, now))
	}
	return strings.Join(rows, "\n")
}

// renderConcertRow draws one catalog or organizer row.
func (model Model) renderConcertRow(concert market.Concert, selected bool, now time.Time) string {
	availability := concert.Availability(now)
	availStyle := lipgloss.NewStyle().Foreground(model.theme.AvailabilityColor(availability))

	row := fmt.Sprintf("  %-30s %-17s %12s %11s  ",
		truncate(concert.Name, 30),
		concert.StartsAt().Format(dateLayout),
		money.FormatBalance(concert.Price),
		fmt.Sprintf("%d/%d", concert.SoldCount, concert.TotalCapacity),
	)

	if selected {
		style := lipgloss.NewStyle().
			Foreground(model.theme.SelectedForeground).
			Background(model.theme.SelectedBackground)
		return style.Render(row) + availStyle.Background(model.theme.SelectedBackground).Render(availability.String())
	}
	return lipgloss.NewStyle().Foreground(model.theme.NormalText).Render(row) +
		availStyle.Render(availability.String())
}

// truncate shortens a string to width columns with an ellipsis.
func truncate(text string, width int) string {
	if ansi.StringWidth(text) <= width {
		return text
	}
	return ansi.Truncate(text, width-1, "…")
}

// renderRoleView draws the second tab for the active role.
func (model Model) renderRoleView() string {
	if model.refreshError != "" {
		return lipgloss.NewStyle().
			Foreground(model.theme.NoticeError).
			Render("  Refresh failed: " + model.refreshError + " (r to retry)")
	}
	switch {
	case model.customer != nil:
		return model.renderWallet()
	case model.organizer != nil:
		return model.renderOrganizerView()
	case model.admin != nil:
		return model.renderAdminView()
	}
	return ""
}

// renderWallet draws the customer's reconciled tickets.
func (model Model) renderWallet() string {
	faint := lipgloss.NewStyle().Foreground(model.theme.FaintText)
	tickets := model.customer.Tickets()
	if len(tickets) == 0 {
		return faint.Render("  No tickets yet. Buy one from the Concerts tab (b).")
	}

	now := time.Now()
	var rows []string
	rows = append(rows, faint.Render(fmt.Sprintf("  %-38s %-30s %-17s %s",
		"TICKET", "CONCERT", "DATE", "STATUS")))

	end := min(model.roleScroll+model.visibleRows(), len(tickets))
	for index := model.roleScroll; index < end; index++ {
		ticket := tickets[index]
		status := ticket.Status(now)
		statusStyle := lipgloss.NewStyle().Foreground(model.theme.TicketStatusColor(status))

		concertName := "(concert no longer listed)"
		concertDate := "-"
		if ticket.Resolved() {
			concertName = ticket.Concert.Name
			concertDate = ticket.Concert.StartsAt().Format(dateLayout)
		}

		row := fmt.Sprintf("  %-38s %-30s %-17s ",
			truncate(string(ticket.Ticket.ID), 38),
			truncate(concertName, 30),
			concertDate,
		)
		if index == model.roleCursor {
			selected := lipgloss.NewStyle().
				Foreground(model.theme.SelectedForeground).
				Background(model.theme.SelectedBackground)
			rows = append(rows, selected.Render(row)+
				statusStyle.Background(model.theme.SelectedBackground).Render(status.String()))
			continue
		}
		rows = append(rows, lipgloss.NewStyle().Foreground(model.theme.NormalText).Render(row)+
			statusStyle.Render(status.String()))
	}
	return strings.Join(rows, "\n")
}

// renderOrganizerView draws the organizer's concerts plus revenue.
func (model Model) renderOrganizerView() string {
	faint := lipgloss.NewStyle().Foreground(model.theme.FaintText)
	moneyStyle := lipgloss.NewStyle().Foreground(model.theme.MoneyForeground)

	summary := faint.Render("  Revenue: ") + moneyStyle.Render(money.FormatBalance(model.organizer.Revenue()))

	concerts := model.organizer.Concerts()
	if len(concerts) == 0 {
		return summary + "\n" + faint.Render("  No concerts yet. Create one (n).")
	}

	now := time.Now()
	var rows []string
	rows = append(rows, summary)
	rows = append(rows, faint.Render(fmt.Sprintf("  %-30s %-17s %12s %11s  %s",
		"NAME", "DATE", "PRICE", "TICKETS", "STATUS")))

	end := min(model.roleScroll+model.visibleRows()-1, len(concerts))
	for index := model.roleScroll; index < end; index++ {
		rows = append(rows, model.renderConcertRow(concerts[index], index == model.roleCursor, now))
	}
	return strings.Join(rows, "\n")
}

// renderAdminView draws token settings and the user roster.
func (model Model) renderAdminView() string {
	faint := lipgloss.NewStyle().Foreground(model.theme.FaintText)
	normal := lipgloss.NewStyle().Foreground(model.theme.NormalText)
	moneyStyle := lipgloss.NewStyle().Foreground(model.theme.MoneyForeground)

	var rows []string
	settings, initialized := model.admin.TokenSettings()
	if !initialized {
		rows = append(rows, faint.Render("  Token not initialized. Press i to set it up."))
	} else {
		rows = append(rows, faint.Render("  Token: ")+
			normal.Render(fmt.Sprintf("%s (%s)", settings.Name, settings.Symbol))+
			faint.Render("  fee ")+moneyStyle.Render(money.FormatFee(settings.TransferFee))+
			faint.Render("  supply ")+moneyStyle.Render(money.FormatBalance(settings.TotalSupply)))
	}

	users := model.admin.Users()
	rows = append(rows, faint.Render(fmt.Sprintf("  %-30s %-12s %14s", "NAME", "ROLE", "BALANCE")))

	end := min(model.roleScroll+model.visibleRows()-1, len(users))
	for index := model.roleScroll; index < end; index++ {
		user := users[index]
		row := fmt.Sprintf("  %-30s %-12s %14s",
			truncate(user.Name, 30), user.Role, money.FormatBalance(user.Balance))
		if index == model.roleCursor {
			selected := lipgloss.NewStyle().
				Foreground(model.theme.SelectedForeground).
				Background(model.theme.SelectedBackground)
			rows = append(rows, selected.Render(row))
			continue
		}
		rows = append(rows, normal.Render(row))
	}
	return strings.Join(rows, "\n")
}

// renderStatusBar draws the notice or the contextual help line.
func (model Model) renderStatusBar() string {
	if model.notice != "" {
		color := model.theme.NoticeSuccess
		if model.noticeError {
			color = model.theme.NoticeError
		}
		// Backend failures can carry multi-line response bodies; the
		// status bar has one row, so keep the first line only.
		text := model.notice
		if excerpt := tui.ExtractExcerpt(text, max(model.width-1, 20), 1); len(excerpt) > 0 {
			text = excerpt[0]
		}
		return lipgloss.NewStyle().Foreground(color).Render(" " + text)
	}

	help := lipgloss.NewStyle().Foreground(model.theme.HelpText)
	switch model.screen {
	case ScreenLogin:
		return help.Render(" Enter your identity to log in · Esc quit")
	case ScreenRegister:
		return help.Render(" ←/→ role · type name · Enter register · Esc back")
	}

	bindings := []string{"j/k move", "1/2 tabs", "r refresh"}
	if model.activeTab == TabCatalog {
		bindings = append(bindings, "/ filter", "a available only")
		if model.customer != nil {
			bindings = append(bindings, "b buy")
		}
	}
	switch {
	case model.organizer != nil:
		bindings = append(bindings, "n new", "e edit", "d delete", "v validate", "i init token")
	case model.admin != nil:
		bindings = append(bindings, "t transfer", "i init token")
	}
	bindings = append(bindings, "Enter details", "C-l logout", "q quit")
	return help.Render(" " + strings.Join(bindings, " · "))
}

// detailInnerWidth is the content width of detail modals.
const detailInnerWidth = 52

// renderConcertDetail shows the full record for one concert.
func (model Model) renderConcertDetail(concert market.Concert) []string {
	faint := lipgloss.NewStyle().Foreground(model.theme.FaintText)
	normal := lipgloss.NewStyle().Foreground(model.theme.ModalForeground)
	moneyStyle := lipgloss.NewStyle().Foreground(model.theme.MoneyForeground)
	background := lipgloss.NewStyle().Background(model.theme.ModalBackground)
	border := lipgloss.NewStyle().Foreground(model.theme.BorderColor)

	now := time.Now()
	availability := concert.Availability(now)
	availStyle := lipgloss.NewStyle().Foreground(model.theme.AvailabilityColor(availability))

	remaining := uint32(0)
	if concert.TotalCapacity > concert.SoldCount {
		remaining = concert.TotalCapacity - concert.SoldCount
	}

	lines := []string{
		normal.Bold(true).Render(concert.Name),
		"",
		faint.Render("Date:      ") + normal.Render(concert.StartsAt().Format(dateLayout)),
		faint.Render("Price:     ") + moneyStyle.Render(money.FormatBalance(concert.Price)),
		faint.Render("Sold:      ") + normal.Render(fmt.Sprintf("%d of %d (%d left)",
			concert.SoldCount, concert.TotalCapacity, remaining)),
		faint.Render("Status:    ") + availStyle.Render(availability.String()),
		faint.Render("Revenue:   ") + moneyStyle.Render(money.FormatBalance(concert.Revenue())),
		faint.Render("Organizer: ") + normal.Render(concert.OrganizerID),
		"",
	}
	buyable := availability == market.Available || availability == market.FewLeft
	if model.customer != nil && model.activeTab == TabCatalog && buyable {
		lines = append(lines, faint.Render("b buy · Esc close"))
	} else {
		lines = append(lines, faint.Render("Esc close"))
	}
	return tui.BoxOverlay("Concert", lines, detailInnerWidth, border, background)
}

// renderTicketDetail shows one wallet entry with its derived status.
func (model Model) renderTicketDetail(ticket market.ResolvedTicket) []string {
	faint := lipgloss.NewStyle().Foreground(model.theme.FaintText)
	normal := lipgloss.NewStyle().Foreground(model.theme.ModalForeground)
	background := lipgloss.NewStyle().Background(model.theme.ModalBackground)
	border := lipgloss.NewStyle().Foreground(model.theme.BorderColor)

	status := ticket.Status(time.Now())
	statusStyle := lipgloss.NewStyle().Foreground(model.theme.TicketStatusColor(status))

	lines := []string{
		faint.Render("Ticket:  ") + normal.Render(string(ticket.Ticket.ID)),
		faint.Render("Status:  ") + statusStyle.Render(status.String()),
	}
	if ticket.Resolved() {
		lines = append(lines,
			faint.Render("Concert: ")+normal.Render(ticket.Concert.Name),
			faint.Render("Date:    ")+normal.Render(ticket.Concert.StartsAt().Format(dateLayout)),
		)
	} else {
		lines = append(lines, faint.Render("Concert: ")+normal.Render("(no longer listed)"))
	}
	lines = append(lines, "", faint.Render("Esc close"))
	return tui.BoxOverlay("Ticket", lines, detailInnerWidth, border, background)
}

// renderConfirm shows the delete confirmation modal.
func (model Model) renderConfirm() []string {
	faint := lipgloss.NewStyle().Foreground(model.theme.FaintText)
	normal := lipgloss.NewStyle().Foreground(model.theme.ModalForeground)
	warn := lipgloss.NewStyle().Foreground(model.theme.NoticeError).Bold(true)
	background := lipgloss.NewStyle().Background(model.theme.ModalBackground)
	border := lipgloss.NewStyle().Foreground(model.theme.BorderColor)

	lines := []string{
		warn.Render("Delete " + model.confirmDelete.Name + "?"),
		normal.Render("This cannot be undone."),
		"",
		faint.Render("y/Enter delete · n/Esc cancel"),
	}
	return tui.BoxOverlay("Confirm", lines, detailInnerWidth, border, background)
}
