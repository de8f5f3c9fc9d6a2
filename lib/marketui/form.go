// Copyright 2026 The Medley Authors
// SPDX-License-Identifier: Apache-2.0

package marketui

import (
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"

	"github.com/medley-live/medley/lib/tui"
)

// FormField is one single-line input in a form modal.
type FormField struct {
	Label       string
	Placeholder string

	buffer []rune
	cursor int
}

// Value returns the current text of the field.
func (field *FormField) Value() string {
	return string(field.buffer)
}

// SetValue replaces the field content, placing the cursor at the end.
// Used to prefill edit forms.
func (field *FormField) SetValue(text string) {
	field.buffer = []rune(text)
	field.cursor = len(field.buffer)
}

// FormModal is a modal overlay with labelled single-line inputs,
// rendered centered on top of the main view. Tab and arrow keys move
// between fields, enter submits, escape cancels. The model routes all
// keyboard input here while a form is open.
type FormModal struct {
	// Title identifies the form in the modal border (e.g. "New
	// Concert", "Transfer Tokens").
	Title string

	// Fields in display order.
	Fields []FormField

	focus int
}

// NewFormModal creates a form with the given title and field labels.
func NewFormModal(title string, fields ...FormField) *FormModal {
	return &FormModal{Title: title, Fields: fields}
}

// Focused returns the index of the focused field.
func (form *FormModal) Focused() int { return form.focus }

// Value returns the text of the field at the given index.
func (form *FormModal) Value(index int) string {
	if index < 0 || index >= len(form.Fields) {
		return ""
	}
	return form.Fields[index].Value()
}

// Update processes a key message. Enter on the last field (or from
// any field with shift+tab semantics reserved) reports submitted;
// escape reports cancelled. All other keys edit the focused field.
func (form *FormModal) Update(message tea.KeyMsg) (submitted, cancelled bool) {
	field := &form.Fields[form.focus]

	switch message.Type {
	case tea.KeyEscape:
		return false, true

	case tea.KeyEnter:
		if form.focus == len(form.Fields)-1 {
			return true, false
		}
		form.focus++

	case tea.KeyTab, tea.KeyDown:
		form.focus = (form.focus + 1) % len(form.Fields)

	case tea.KeyShiftTab, tea.KeyUp:
		form.focus = (form.focus - 1 + len(form.Fields)) % len(form.Fields)

	case tea.KeyLeft:
		if field.cursor > 0 {
			field.cursor--
		}

	case tea.KeyRight:
		if field.cursor < len(field.buffer) {
			field.cursor++
		}

	case tea.KeyHome, tea.KeyCtrlA:
		field.cursor = 0

	case tea.KeyEnd, tea.KeyCtrlE:
		field.cursor = len(field.buffer)

	case tea.KeyBackspace:
		if field.cursor > 0 {
			field.buffer = append(field.buffer[:field.cursor-1], field.buffer[field.cursor:]...)
			field.cursor--
		}

	case tea.KeyCtrlU:
		field.buffer = field.buffer[:0]
		field.cursor = 0

	case tea.KeyRunes, tea.KeySpace:
		for _, character := range message.Runes {
			field.buffer = append(field.buffer[:field.cursor],
				append([]rune{character}, field.buffer[field.cursor:]...)...)
			field.cursor++
		}
	}

	return false, false
}

// formInnerWidth is the content width of form modals.
const formInnerWidth = 46

// View renders the form as overlay lines ready for splicing.
func (form *FormModal) View(theme Theme) []string {
	labelStyle := lipgloss.NewStyle().Foreground(theme.FaintText)
	textStyle := lipgloss.NewStyle().Foreground(theme.ModalForeground)
	focusStyle := lipgloss.NewStyle().Foreground(theme.HeaderForeground).Bold(true)
	background := lipgloss.NewStyle().Background(theme.ModalBackground)
	border := lipgloss.NewStyle().Foreground(theme.BorderColor)

	var lines []string
	for index := range form.Fields {
		field := &form.Fields[index]

		label := labelStyle.Render(field.Label + ":")
		content := field.Value()
		if content == "" && index != form.focus {
			content = field.Placeholder
			lines = append(lines, label+" "+labelStyle.Render(content))
			continue
		}

		if index == form.focus {
			before := string(field.buffer[:field.cursor])
			after := string(field.buffer[field.cursor:])
			cursor := focusStyle.Render("▎")
			lines = append(lines, label+" "+textStyle.Render(before)+cursor+textStyle.Render(after))
		} else {
			lines = append(lines, label+" "+textStyle.Render(content))
		}
	}
	lines = append(lines, "")
	lines = append(lines, labelStyle.Render("Enter submit · Tab next field · Esc cancel"))

	return tui.BoxOverlay(form.Title, lines, formInnerWidth, border, background)
}
