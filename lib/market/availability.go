// Copyright 2026 The Medley Authors
// SPDX-License-Identifier: Apache-2.0

package market

import "time"

// Availability labels a concert's sale status.
type Availability int

const (
	// NotAvailable means the concert's start time has passed. This
	// takes precedence over every counter-based label: an event is
	// unavailable the instant it starts, not merely on the day after.
	NotAvailable Availability = iota
	// SoldOut means every ticket has been sold.
	SoldOut
	// FewLeft means at least 80% of capacity has been sold.
	FewLeft
	// Available means tickets remain below the few-left threshold.
	Available
)

// String returns the display label for the availability.
func (a Availability) String() string {
	switch a {
	case NotAvailable:
		return "Not Available"
	case SoldOut:
		return "Sold Out"
	case FewLeft:
		return "Few Tickets Left"
	case Available:
		return "Available"
	}
	return "Unknown"
}

// Classify maps a concert's sale counters and start time to an
// availability label. Pure and total: a zero capacity classifies as
// SoldOut under the second rule, so no rule ever divides.
//
// Precedence:
//  1. start time at or before now: NotAvailable, regardless of counters
//  2. sold >= total (including total == 0): SoldOut
//  3. sold >= 0.8 * total: FewLeft
//  4. otherwise: Available
func Classify(sold, total uint32, startsAt, now time.Time) Availability {
	if !startsAt.After(now) {
		return NotAvailable
	}
	if sold >= total {
		return SoldOut
	}
	// sold >= 0.8*total, kept in integer arithmetic: 5*sold >= 4*total.
	if 5*uint64(sold) >= 4*uint64(total) {
		return FewLeft
	}
	return Available
}
