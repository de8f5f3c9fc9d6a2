// Copyright 2026 The Medley Authors
// SPDX-License-Identifier: Apache-2.0

package marketui

import (
	"strings"

	"github.com/charmbracelet/lipgloss"

	"github.com/medley-live/medley/lib/market"
	"github.com/medley-live/medley/lib/money"
)

// FilterBar holds the catalog filter input. The query text is parsed
// into criteria on every keystroke: bare words become the name search,
// ">N" and "<N" tokens set the price bounds. The only-available flag
// is a separate toggle (bound to a key, not typed).
type FilterBar struct {
	// Input is the current filter query text.
	Input string

	// Active is true when the filter input has keyboard focus
	// (the user pressed / to start typing).
	Active bool

	// OnlyAvailable narrows the catalog to purchasable concerts.
	OnlyAvailable bool
}

// Criteria parses the current input into filter criteria. Price
// tokens that fail to parse are ignored rather than erroring; the
// filter refines with every keystroke and half-typed numbers are
// expected.
func (filter *FilterBar) Criteria() market.FilterCriteria {
	criteria := market.FilterCriteria{OnlyAvailable: filter.OnlyAvailable}

	var searchWords []string
	for _, token := range strings.Fields(filter.Input) {
		switch {
		case strings.HasPrefix(token, ">"):
			if amount, err := money.ParseAmount(token[1:]); err == nil {
				criteria.MinPrice = amount
			}
		case strings.HasPrefix(token, "<"):
			if amount, err := money.ParseAmount(token[1:]); err == nil {
				criteria.MaxPrice = amount
			}
		default:
			searchWords = append(searchWords, token)
		}
	}
	criteria.Search = strings.Join(searchWords, " ")
	return criteria
}

// HandleRune processes a character typed while the filter is active.
// Returns true if the input changed.
func (filter *FilterBar) HandleRune(character rune) bool {
	filter.Input += string(character)
	return true
}

// HandleBackspace removes the last character from the filter input.
// Returns true if the input changed.
func (filter *FilterBar) HandleBackspace() bool {
	if len(filter.Input) == 0 {
		return false
	}
	runes := []rune(filter.Input)
	filter.Input = string(runes[:len(runes)-1])
	return true
}

// Clear resets the filter input and deactivates it. The availability
// toggle survives: it is a view preference, not part of the query.
func (filter *FilterBar) Clear() {
	filter.Input = ""
	filter.Active = false
}

// View renders the filter bar. When active, shows the input with a
// cursor. When inactive with text, shows the filter text. When
// inactive with no text and no toggle, returns empty string (hidden).
func (filter *FilterBar) View(theme Theme, width int) string {
	suffix := ""
	if filter.OnlyAvailable {
		suffix = "  [available only]"
	}

	if !filter.Active && filter.Input == "" && suffix == "" {
		return ""
	}

	if filter.Active {
		style := lipgloss.NewStyle().
			Foreground(theme.NormalText).
			Width(width)
		cursor := lipgloss.NewStyle().
			Foreground(theme.HeaderForeground).
			Bold(true).
			Render("▎")
		return style.Render(" / " + filter.Input + cursor + suffix)
	}

	// Inactive but has text or toggle — show as a subtle indicator.
	dimStyle := lipgloss.NewStyle().
		Foreground(theme.FaintText).
		Width(width)
	label := ""
	if filter.Input != "" {
		label = " filter: " + filter.Input
	}
	return dimStyle.Render(label + suffix)
}
