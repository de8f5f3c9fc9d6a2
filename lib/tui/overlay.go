// Copyright 2026 The Medley Authors
// SPDX-License-Identifier: Apache-2.0

package tui

import (
	"strings"

	"github.com/charmbracelet/lipgloss"
	"github.com/charmbracelet/x/ansi"
)

// SpliceOverlay replaces a rectangular region of a rendered view with
// overlay content. The overlay lines are placed starting at (anchorX,
// anchorY) in screen coordinates. Uses ANSI-aware truncation so escape
// sequences in the original view are preserved on both sides of the
// overlay.
func SpliceOverlay(view string, overlayLines []string, anchorX, anchorY int) string {
	if len(overlayLines) == 0 {
		return view
	}

	viewLines := strings.Split(view, "\n")
	overlayWidth := ansi.StringWidth(overlayLines[0])

	for index, overlayLine := range overlayLines {
		viewLineIndex := anchorY + index
		if viewLineIndex < 0 || viewLineIndex >= len(viewLines) {
			continue
		}

		viewLine := viewLines[viewLineIndex]
		viewLineWidth := ansi.StringWidth(viewLine)

		// Build: prefix + reset + overlay + reset + suffix.
		var result strings.Builder

		// Prefix: everything before the overlay anchor.
		if anchorX > 0 {
			prefix := ansi.Truncate(viewLine, anchorX, "")
			result.WriteString(prefix)
		}
		result.WriteString("\x1b[0m")
		result.WriteString(overlayLine)
		result.WriteString("\x1b[0m")

		// Suffix: everything after the overlay region.
		suffixStart := anchorX + overlayWidth
		if suffixStart < viewLineWidth {
			suffix := ansi.TruncateLeft(viewLine, suffixStart, "")
			result.WriteString(suffix)
		}

		viewLines[viewLineIndex] = result.String()
	}

	return strings.Join(viewLines, "\n")
}

// SpliceCentered splices the overlay lines horizontally and vertically
// centered over a view of the given dimensions.
func SpliceCentered(view string, overlayLines []string, viewWidth, viewHeight int) string {
	if len(overlayLines) == 0 {
		return view
	}
	overlayWidth := ansi.StringWidth(overlayLines[0])
	anchorX := (viewWidth - overlayWidth) / 2
	if anchorX < 0 {
		anchorX = 0
	}
	anchorY := (viewHeight - len(overlayLines)) / 2
	if anchorY < 0 {
		anchorY = 0
	}
	return SpliceOverlay(view, overlayLines, anchorX, anchorY)
}

// PadOverlayLine takes styled content for the inner area and pads it
// to the full width with background-colored spaces. Returns
// " content  " with background applied to the padding.
func PadOverlayLine(styledContent string, innerWidth int, backgroundStyle lipgloss.Style) string {
	contentWidth := ansi.StringWidth(styledContent)
	rightPad := innerWidth - contentWidth
	if rightPad < 0 {
		rightPad = 0
	}
	return backgroundStyle.Render(" ") +
		styledContent +
		backgroundStyle.Render(strings.Repeat(" ", rightPad+1))
}

// BoxOverlay renders content lines inside a rounded border with a
// title, ready for splicing. Every line is padded to the same inner
// width so the overlay forms a solid rectangle over the underlying
// view.
func BoxOverlay(title string, contentLines []string, innerWidth int, borderStyle, backgroundStyle lipgloss.Style) []string {
	padded := make([]string, 0, len(contentLines))
	for _, line := range contentLines {
		padded = append(padded, PadOverlayLine(line, innerWidth, backgroundStyle))
	}

	boxed := borderStyle.
		Border(lipgloss.RoundedBorder()).
		Render(strings.Join(padded, "\n"))

	lines := strings.Split(boxed, "\n")
	if title != "" && len(lines) > 0 {
		// Embed the title in the top border line.
		top := lines[0]
		label := " " + title + " "
		if ansi.StringWidth(label)+4 <= ansi.StringWidth(top) {
			prefix := ansi.Truncate(top, 2, "")
			suffix := ansi.TruncateLeft(top, 2+ansi.StringWidth(label), "")
			lines[0] = prefix + borderStyle.Render(label) + suffix
		}
	}
	return lines
}

// ExtractExcerpt returns the first maxLines non-blank lines of a body
// text, each truncated to maxWidth. Blank lines and whitespace-only
// lines are skipped.
func ExtractExcerpt(body string, maxWidth, maxLines int) []string {
	bodyLines := strings.Split(body, "\n")
	var result []string
	for _, line := range bodyLines {
		trimmed := strings.TrimSpace(line)
		if trimmed == "" {
			continue
		}
		if ansi.StringWidth(trimmed) > maxWidth {
			trimmed = ansi.Truncate(trimmed, maxWidth-1, "…")
		}
		result = append(result, trimmed)
		if len(result) >= maxLines {
			break
		}
	}
	return result
}
