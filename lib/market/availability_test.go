// Copyright 2026 The Medley Authors
// SPDX-License-Identifier: Apache-2.0

package market

import (
	"testing"
	"time"
)

var classifyNow = time.Date(2026, time.March, 1, 12, 0, 0, 0, time.UTC)

func TestClassifyPastDateWinsOverCounters(t *testing.T) {
	past := classifyNow.Add(-time.Minute)
	tests := []struct {
		sold, total uint32
	}{
		{0, 100},
		{80, 100},
		{100, 100},
		{0, 0},
	}
	for _, test := range tests {
		if got := Classify(test.sold, test.total, past, classifyNow); got != NotAvailable {
			t.Errorf("Classify(%d, %d, past) = %v, want NotAvailable", test.sold, test.total, got)
		}
	}

	// The comparison is instant-level, not date-level: a concert that
	// started one second ago today is already unavailable.
	justStarted := classifyNow.Add(-time.Second)
	if got := Classify(0, 100, justStarted, classifyNow); got != NotAvailable {
		t.Errorf("concert past its start time classified %v", got)
	}
	// Exactly at the start instant counts as started.
	if got := Classify(0, 100, classifyNow, classifyNow); got != NotAvailable {
		t.Errorf("concert at its start instant classified %v", got)
	}
}

func TestClassifyThresholds(t *testing.T) {
	future := classifyNow.Add(24 * time.Hour)
	tests := []struct {
		name        string
		sold, total uint32
		want        Availability
	}{
		{"empty", 0, 100, Available},
		{"below threshold", 79, 100, Available},
		{"at threshold", 80, 100, FewLeft},
		{"above threshold", 99, 100, FewLeft},
		{"sold out", 100, 100, SoldOut},
		{"oversold", 120, 100, SoldOut},
		{"zero capacity", 0, 0, SoldOut},
		{"odd capacity at boundary", 4, 5, FewLeft},
		{"odd capacity below boundary", 3, 5, Available},
	}
	for _, test := range tests {
		if got := Classify(test.sold, test.total, future, classifyNow); got != test.want {
			t.Errorf("%s: Classify(%d, %d) = %v, want %v", test.name, test.sold, test.total, got, test.want)
		}
	}
}

func TestAvailabilityLabels(t *testing.T) {
	tests := []struct {
		availability Availability
		want         string
	}{
		{NotAvailable, "Not Available"},
		{SoldOut, "Sold Out"},
		{FewLeft, "Few Tickets Left"},
		{Available, "Available"},
	}
	for _, test := range tests {
		if got := test.availability.String(); got != test.want {
			t.Errorf("String() = %q, want %q", got, test.want)
		}
	}
}
