// Copyright 2026 The Medley Authors
// SPDX-License-Identifier: Apache-2.0

// Package catalog maintains the browsable concert list. Fetches run
// concurrently with user input, so each request carries a sequence
// number and only the latest request's outcome is ever applied: a slow
// response for an old filter can never overwrite results for a newer
// one.
package catalog

import (
	"context"
	"sync"

	"github.com/medley-live/medley/lib/market"
)

// Fetcher loads concerts matching the criteria. backend.Backend
// satisfies this with its GetConcerts method.
type Fetcher interface {
	GetConcerts(ctx context.Context, criteria market.FilterCriteria) ([]market.Concert, error)
}

// Request identifies one catalog fetch. The sequence number ties the
// eventual Update back to the Begin call that issued it.
type Request struct {
	Seq      uint64
	Criteria market.FilterCriteria
}

// Update is the outcome of one fetch, ready to hand to Apply.
type Update struct {
	Seq      uint64
	Concerts []market.Concert
	Err      error
}

// Coordinator serializes catalog state across overlapping fetches.
// Begin and Apply are cheap and synchronous; Fetch does the blocking
// work and may run on any goroutine.
type Coordinator struct {
	mutex sync.Mutex

	fetcher Fetcher

	seq      uint64 // latest issued request
	resolved uint64 // latest applied request
	criteria market.FilterCriteria
	concerts []market.Concert
	err      error
}

// NewCoordinator creates a coordinator with an empty catalog.
func NewCoordinator(fetcher Fetcher) *Coordinator {
	return &Coordinator{fetcher: fetcher}
}

// Begin registers a new fetch for the given criteria and returns the
// request to execute. Any in-flight request is implicitly superseded:
// its outcome will be discarded by Apply.
func (c *Coordinator) Begin(criteria market.FilterCriteria) Request {
	c.mutex.Lock()
	defer c.mutex.Unlock()
	c.seq++
	c.criteria = criteria
	return Request{Seq: c.seq, Criteria: criteria}
}

// Fetch executes the request against the backend. It holds no locks,
// so overlapping fetches proceed independently.
func (c *Coordinator) Fetch(ctx context.Context, request Request) Update {
	concerts, err := c.fetcher.GetConcerts(ctx, request.Criteria)
	return Update{Seq: request.Seq, Concerts: concerts, Err: err}
}

// Apply records the fetch outcome if it belongs to the latest request.
// It reports whether the update was applied; a stale update is
// discarded without touching the catalog.
func (c *Coordinator) Apply(update Update) bool {
	c.mutex.Lock()
	defer c.mutex.Unlock()
	if update.Seq != c.seq {
		return false
	}
	c.resolved = update.Seq
	if update.Err != nil {
		c.concerts = nil
		c.err = update.Err
		return true
	}
	c.concerts = update.Concerts
	c.err = nil
	return true
}

// Loading reports whether the latest request is still unresolved.
func (c *Coordinator) Loading() bool {
	c.mutex.Lock()
	defer c.mutex.Unlock()
	return c.seq != c.resolved
}

// Concerts returns the catalog from the latest applied fetch.
func (c *Coordinator) Concerts() []market.Concert {
	c.mutex.Lock()
	defer c.mutex.Unlock()
	return c.concerts
}

// Criteria returns the criteria of the latest issued request.
func (c *Coordinator) Criteria() market.FilterCriteria {
	c.mutex.Lock()
	defer c.mutex.Unlock()
	return c.criteria
}

// Err returns the failure from the latest applied fetch, nil if it
// succeeded.
func (c *Coordinator) Err() error {
	c.mutex.Lock()
	defer c.mutex.Unlock()
	return c.err
}

// Reset clears the catalog and forgets any in-flight request, as on
// logout. Outcomes of requests issued before Reset are discarded.
func (c *Coordinator) Reset() {
	c.mutex.Lock()
	defer c.mutex.Unlock()
	c.seq++
	c.resolved = c.seq
	c.criteria = market.FilterCriteria{}
	c.concerts = nil
	c.err = nil
}
