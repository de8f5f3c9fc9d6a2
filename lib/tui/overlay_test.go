// Copyright 2026 The Medley Authors
// SPDX-License-Identifier: Apache-2.0

package tui

import (
	"strings"
	"testing"

	"github.com/charmbracelet/lipgloss"
)

func TestSpliceOverlay(t *testing.T) {
	view := strings.Join([]string{
		"aaaaaaaaaa",
		"bbbbbbbbbb",
		"cccccccccc",
	}, "\n")

	result := SpliceOverlay(view, []string{"XXX", "YYY"}, 2, 1)
	lines := strings.Split(result, "\n")

	if lines[0] != "aaaaaaaaaa" {
		t.Errorf("line 0 should be untouched, got %q", lines[0])
	}
	if !strings.Contains(lines[1], "bb") || !strings.Contains(lines[1], "XXX") {
		t.Errorf("line 1 should contain prefix and overlay, got %q", lines[1])
	}
	if !strings.Contains(lines[2], "YYY") {
		t.Errorf("line 2 should contain overlay, got %q", lines[2])
	}
	// The suffix after the overlay region survives.
	if !strings.HasSuffix(strings.TrimSuffix(lines[1], "\x1b[0m"), "bbbbb") &&
		!strings.Contains(lines[1], "bbbbb") {
		t.Errorf("line 1 should keep the suffix, got %q", lines[1])
	}
}

func TestSpliceOverlayOutOfBounds(t *testing.T) {
	view := "only line"
	result := SpliceOverlay(view, []string{"AA", "BB", "CC"}, 0, 0)
	lines := strings.Split(result, "\n")
	if len(lines) != 1 {
		t.Fatalf("overlay must not grow the view, got %d lines", len(lines))
	}

	if got := SpliceOverlay(view, nil, 0, 0); got != view {
		t.Errorf("empty overlay should return the view unchanged")
	}
}

func TestSpliceCentered(t *testing.T) {
	view := strings.Join([]string{
		"..........",
		"..........",
		"..........",
		"..........",
	}, "\n")

	result := SpliceCentered(view, []string{"XX"}, 10, 4)
	lines := strings.Split(result, "\n")
	// Anchor: x=(10-2)/2=4, y=(4-1)/2=1.
	if !strings.Contains(lines[1], "XX") {
		t.Errorf("overlay should land on line 1, got %q", result)
	}
	if strings.Contains(lines[0], "XX") || strings.Contains(lines[2], "XX") {
		t.Errorf("overlay leaked to neighboring lines: %q", result)
	}
}

func TestBoxOverlaySolidRectangle(t *testing.T) {
	background := lipgloss.NewStyle()
	border := lipgloss.NewStyle()

	lines := BoxOverlay("Details", []string{"row one", "row two"}, 20, border, background)
	if len(lines) != 4 {
		t.Fatalf("expected 4 lines (border + 2 rows + border), got %d", len(lines))
	}
	if !strings.Contains(lines[0], "Details") {
		t.Errorf("title not embedded in top border: %q", lines[0])
	}
	if !strings.Contains(lines[1], "row one") {
		t.Errorf("content missing: %q", lines[1])
	}
}

func TestExtractExcerpt(t *testing.T) {
	body := "\n\n  first line  \nsecond line\n\nthird line\nfourth line"
	excerpt := ExtractExcerpt(body, 80, 3)
	if len(excerpt) != 3 {
		t.Fatalf("expected 3 lines, got %d: %v", len(excerpt), excerpt)
	}
	if excerpt[0] != "first line" || excerpt[1] != "second line" || excerpt[2] != "third line" {
		t.Errorf("excerpt = %v", excerpt)
	}

	long := ExtractExcerpt("this line is far too wide for the limit", 10, 1)
	if len(long) != 1 || len([]rune(long[0])) > 10 {
		t.Errorf("truncation failed: %v", long)
	}
}
