// Copyright 2026 The Medley Authors
// SPDX-License-Identifier: Apache-2.0

// Package money converts between the backend's fixed-point integer
// representation and display-ready decimal values.
//
// The ledger expresses every monetary quantity as an integer multiple
// of 10^-8 of the display unit. All arithmetic destined for display
// happens on decimals; everything sent back across the wire is an
// integer-scaled amount. Dates cross the wire as integer instants at
// nanosecond precision; the client divides by 10^6 and works at
// millisecond precision locally.
package money

import (
	"time"

	"github.com/shopspring/decimal"

	"github.com/medley-live/medley/lib/apperr"
)

// Scale is the number of scaled units per display unit.
const Scale = 100_000_000

// nanosPerMilli converts backend instants to millisecond precision.
const nanosPerMilli = 1_000_000

// scaleFactor is Scale as a decimal, shared by both conversions.
var scaleFactor = decimal.New(1, 8)

// ToDisplay converts a scaled ledger amount to its display value.
func ToDisplay(scaled uint64) decimal.Decimal {
	return decimal.NewFromUint64(scaled).Div(scaleFactor)
}

// ToScaled converts a display amount to the ledger's scaled integer
// form, rounding to the nearest scaled unit. Negative amounts are
// rejected: the ledger has no concept of a negative quantity on this
// side of the wire.
func ToScaled(amount decimal.Decimal) (uint64, error) {
	if amount.IsNegative() {
		return 0, apperr.Validation("amount must not be negative: %s", amount)
	}
	scaled := amount.Mul(scaleFactor).Round(0).BigInt()
	if !scaled.IsUint64() {
		return 0, apperr.Validation("amount too large: %s", amount)
	}
	return scaled.Uint64(), nil
}

// ParseAmount parses user-entered text into a scaled ledger amount.
// Rejects empty, unparseable, and negative input before any remote
// call sees it.
func ParseAmount(text string) (uint64, error) {
	if text == "" {
		return 0, apperr.Validation("amount is required")
	}
	amount, err := decimal.NewFromString(text)
	if err != nil {
		return 0, apperr.Validation("invalid amount %q", text)
	}
	return ToScaled(amount)
}

// FormatBalance renders a scaled amount with two fractional digits,
// the form used for balances, prices, and totals.
func FormatBalance(scaled uint64) string {
	return ToDisplay(scaled).StringFixed(2)
}

// FormatFee renders a scaled amount with full eight-digit precision,
// used for per-transfer fees where sub-cent values matter.
func FormatFee(scaled uint64) string {
	return ToDisplay(scaled).StringFixed(8)
}

// FromInstant converts a backend instant (nanoseconds since the epoch)
// to local time. Precision beyond a millisecond is discarded, matching
// the resolution the backend guarantees for event dates.
func FromInstant(nanos int64) time.Time {
	return time.UnixMilli(nanos / nanosPerMilli)
}

// ToInstant converts a local time to a backend instant.
func ToInstant(t time.Time) int64 {
	return t.UnixMilli() * nanosPerMilli
}
