// Copyright 2026 The Medley Authors
// SPDX-License-Identifier: Apache-2.0

package marketui

import (
	"github.com/charmbracelet/lipgloss"

	"github.com/medley-live/medley/lib/market"
)

// Theme defines the color palette and visual properties for the
// Medley terminal UI. All colors use lipgloss ANSI 256-color codes
// for broad terminal compatibility.
//
// The fields cover both universal chrome (text, selection, borders)
// and the semantic categories that recur across the dashboards:
// concert availability and ticket status.
type Theme struct {
	// Text colors.
	NormalText lipgloss.Color
	FaintText  lipgloss.Color

	// Selected row.
	SelectedBackground lipgloss.Color
	SelectedForeground lipgloss.Color

	// Availability colors.
	Available    lipgloss.Color
	FewLeft      lipgloss.Color
	SoldOut      lipgloss.Color
	NotAvailable lipgloss.Color

	// Ticket status colors.
	TicketValid      lipgloss.Color
	TicketUsed       lipgloss.Color
	TicketExpired    lipgloss.Color
	TicketUnresolved lipgloss.Color

	// UI chrome.
	HeaderForeground lipgloss.Color
	BorderColor      lipgloss.Color
	HelpText         lipgloss.Color

	// Status bar notices.
	NoticeError   lipgloss.Color
	NoticeSuccess lipgloss.Color

	// Balance and money figures.
	MoneyForeground lipgloss.Color

	// Modal boxes.
	ModalForeground lipgloss.Color
	ModalBackground lipgloss.Color
}

// AvailabilityColor returns the color for a concert availability
// classification.
func (theme Theme) AvailabilityColor(availability market.Availability) lipgloss.Color {
	switch availability {
	case market.Available:
		return theme.Available
	case market.FewLeft:
		return theme.FewLeft
	case market.SoldOut:
		return theme.SoldOut
	case market.NotAvailable:
		return theme.NotAvailable
	default:
		return theme.FaintText
	}
}

// TicketStatusColor returns the color for a wallet entry status.
func (theme Theme) TicketStatusColor(status market.TicketStatus) lipgloss.Color {
	switch status {
	case market.TicketValid:
		return theme.TicketValid
	case market.TicketUsed:
		return theme.TicketUsed
	case market.TicketExpired:
		return theme.TicketExpired
	case market.TicketUnresolved:
		return theme.TicketUnresolved
	default:
		return theme.FaintText
	}
}

// DefaultTheme is the built-in dark-terminal color scheme. Designed
// for 256-color terminals with a dark background.
var DefaultTheme = Theme{
	NormalText: lipgloss.Color("252"),
	FaintText:  lipgloss.Color("245"),

	SelectedBackground: lipgloss.Color("236"),
	SelectedForeground: lipgloss.Color("255"),

	Available:    lipgloss.Color("114"), // green
	FewLeft:      lipgloss.Color("220"), // yellow/amber
	SoldOut:      lipgloss.Color("196"), // red
	NotAvailable: lipgloss.Color("245"), // gray

	TicketValid:      lipgloss.Color("114"), // green
	TicketUsed:       lipgloss.Color("245"), // gray
	TicketExpired:    lipgloss.Color("208"), // orange
	TicketUnresolved: lipgloss.Color("240"), // dim gray

	HeaderForeground: lipgloss.Color("255"),
	BorderColor:      lipgloss.Color("240"),
	HelpText:         lipgloss.Color("241"),

	NoticeError:   lipgloss.Color("196"),
	NoticeSuccess: lipgloss.Color("114"),

	MoneyForeground: lipgloss.Color("75"), // blue

	ModalForeground: lipgloss.Color("252"),
	ModalBackground: lipgloss.Color("237"), // slightly lighter than terminal background
}
