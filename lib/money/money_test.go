// Copyright 2026 The Medley Authors
// SPDX-License-Identifier: Apache-2.0

package money

import (
	"testing"
	"time"

	"github.com/shopspring/decimal"

	"github.com/medley-live/medley/lib/apperr"
)

func TestToDisplay(t *testing.T) {
	tests := []struct {
		scaled uint64
		want   string
	}{
		{0, "0"},
		{1, "0.00000001"},
		{Scale, "1"},
		{5 * Scale, "5"},
		{250_000_000, "2.5"},
		{123_456_789, "1.23456789"},
	}
	for _, test := range tests {
		got := ToDisplay(test.scaled)
		want, err := decimal.NewFromString(test.want)
		if err != nil {
			t.Fatalf("bad test value %q: %v", test.want, err)
		}
		if !got.Equal(want) {
			t.Errorf("ToDisplay(%d) = %s, want %s", test.scaled, got, want)
		}
	}
}

// TestScaledRoundTrip verifies that converting a display amount to
// scaled form and back recovers the original value exactly for inputs
// with at most eight fractional digits.
func TestScaledRoundTrip(t *testing.T) {
	inputs := []string{"0", "1", "0.00000001", "2.5", "199.99", "7.00000009", "12345678.87654321"}
	for _, input := range inputs {
		amount, err := decimal.NewFromString(input)
		if err != nil {
			t.Fatalf("bad test value %q: %v", input, err)
		}
		scaled, err := ToScaled(amount)
		if err != nil {
			t.Fatalf("ToScaled(%s): %v", input, err)
		}
		if got := ToDisplay(scaled); !got.Equal(amount) {
			t.Errorf("round trip of %s produced %s", input, got)
		}
	}
}

func TestToScaledRounds(t *testing.T) {
	// More than eight fractional digits rounds to the nearest scaled
	// unit rather than truncating.
	amount := decimal.RequireFromString("0.000000015")
	scaled, err := ToScaled(amount)
	if err != nil {
		t.Fatalf("ToScaled: %v", err)
	}
	if scaled != 2 {
		t.Errorf("ToScaled(0.000000015) = %d, want 2", scaled)
	}
}

func TestToScaledRejectsNegative(t *testing.T) {
	_, err := ToScaled(decimal.NewFromInt(-1))
	if err == nil {
		t.Fatal("expected error for negative amount")
	}
	if !apperr.IsValidation(err) {
		t.Errorf("expected validation error, got %v", err)
	}
}

func TestParseAmount(t *testing.T) {
	tests := []struct {
		input   string
		want    uint64
		wantErr bool
	}{
		{"2", 2 * Scale, false},
		{"0.5", Scale / 2, false},
		{"", 0, true},
		{"abc", 0, true},
		{"-3", 0, true},
	}
	for _, test := range tests {
		got, err := ParseAmount(test.input)
		if test.wantErr {
			if err == nil {
				t.Errorf("ParseAmount(%q): expected error", test.input)
			} else if !apperr.IsValidation(err) {
				t.Errorf("ParseAmount(%q): expected validation error, got %v", test.input, err)
			}
			continue
		}
		if err != nil {
			t.Errorf("ParseAmount(%q): %v", test.input, err)
			continue
		}
		if got != test.want {
			t.Errorf("ParseAmount(%q) = %d, want %d", test.input, got, test.want)
		}
	}
}

func TestInstantConversion(t *testing.T) {
	moment := time.Date(2026, time.June, 14, 20, 30, 0, 0, time.UTC)
	instant := ToInstant(moment)
	if got := FromInstant(instant); !got.Equal(moment) {
		t.Errorf("FromInstant(ToInstant(%v)) = %v", moment, got)
	}

	// Sub-millisecond precision in the backend instant is discarded.
	if got := FromInstant(instant + 999_999); !got.Equal(moment) {
		t.Errorf("expected sub-millisecond precision to be dropped, got %v", got)
	}
}

func TestFormatting(t *testing.T) {
	if got := FormatBalance(250_000_000); got != "2.50" {
		t.Errorf("FormatBalance = %q, want 2.50", got)
	}
	if got := FormatFee(10_000); got != "0.00010000" {
		t.Errorf("FormatFee = %q, want 0.00010000", got)
	}
}
