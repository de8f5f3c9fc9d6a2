// Copyright 2026 The Medley Authors
// SPDX-License-Identifier: Apache-2.0

// Package tui provides generic terminal UI building blocks shared by
// Medley's bubbletea interfaces: ANSI-aware overlay splicing for modal
// boxes and small text helpers. Domain-specific rendering (catalog
// rows, dashboards, key maps) lives in marketui.
package tui
