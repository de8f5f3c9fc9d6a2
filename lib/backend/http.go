// Copyright 2026 The Medley Authors
// SPDX-License-Identifier: Apache-2.0

package backend

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"log/slog"
	"net/http"
	"net/url"
	"strings"

	"github.com/medley-live/medley/lib/apperr"
	"github.com/medley-live/medley/lib/market"
	"github.com/medley-live/medley/lib/result"
)

// HTTPConfig holds configuration for creating an HTTPBackend.
type HTTPConfig struct {
	// BaseURL is the backend gateway base URL (e.g. "https://api.medley.live").
	BaseURL string
	// HTTPClient is used for all requests. If nil, http.DefaultClient is used.
	HTTPClient *http.Client
	// Logger is used for structured logging. If nil, slog.Default() is used.
	Logger *slog.Logger
}

// HTTPBackend implements Backend over JSON-over-HTTP. Each operation
// is one POST to /v1/<operation>; the response body is always a tagged
// result, {"ok": payload} or {"err": "reason"}, decoded into
// result.Result and unwrapped here.
type HTTPBackend struct {
	baseURL    string
	httpClient *http.Client
	logger     *slog.Logger
}

// NewHTTPBackend creates a backend client for the given gateway.
func NewHTTPBackend(config HTTPConfig) (*HTTPBackend, error) {
	if config.BaseURL == "" {
		return nil, fmt.Errorf("backend: BaseURL is required")
	}
	if _, err := url.Parse(config.BaseURL); err != nil {
		return nil, fmt.Errorf("backend: invalid BaseURL %q: %w", config.BaseURL, err)
	}

	httpClient := config.HTTPClient
	if httpClient == nil {
		httpClient = http.DefaultClient
	}
	logger := config.Logger
	if logger == nil {
		logger = slog.Default()
	}

	return &HTTPBackend{
		baseURL:    strings.TrimRight(config.BaseURL, "/"),
		httpClient: httpClient,
		logger:     logger,
	}, nil
}

// doRequest posts the operation request and returns the raw response
// body. A transport failure or a non-2xx status is a remote error:
// from the caller's point of view, the operation rejected.
func (b *HTTPBackend) doRequest(ctx context.Context, operation string, requestBody any) ([]byte, error) {
	encoded, err := json.Marshal(requestBody)
	if err != nil {
		return nil, apperr.Internal("backend: encode %s request: %w", operation, err)
	}

	requestURL := b.baseURL + "/v1/" + operation
	request, err := http.NewRequestWithContext(ctx, http.MethodPost, requestURL, bytes.NewReader(encoded))
	if err != nil {
		return nil, apperr.Internal("backend: create %s request: %w", operation, err)
	}
	request.Header.Set("Content-Type", "application/json")

	response, err := b.httpClient.Do(request)
	if err != nil {
		return nil, apperr.Remote("%s failed: %v", operation, err)
	}
	defer response.Body.Close()

	responseBody, err := io.ReadAll(response.Body)
	if err != nil {
		return nil, apperr.Remote("%s failed: reading response: %v", operation, err)
	}

	if response.StatusCode < 200 || response.StatusCode >= 300 {
		b.logger.Warn("backend operation rejected",
			"operation", operation,
			"status", response.StatusCode,
		)
		// A 404 means the gateway has no such operation: a
		// misconfigured base URL rather than a rejected call.
		if response.StatusCode == http.StatusNotFound {
			return nil, apperr.NotFound("%s failed: gateway has no /v1/%s endpoint (check the backend URL)",
				operation, operation)
		}
		return nil, apperr.Remote("%s failed: %s: %s",
			operation, response.Status, strings.TrimSpace(string(responseBody)))
	}
	return responseBody, nil
}

// call posts the operation and decodes the tagged response. A tagged
// failure unwraps into a remote error carrying the backend's reason
// verbatim.
func call[T any](ctx context.Context, b *HTTPBackend, operation string, requestBody any) (T, error) {
	var zero T
	responseBody, err := b.doRequest(ctx, operation, requestBody)
	if err != nil {
		return zero, err
	}
	var tagged result.Result[T]
	if err := json.Unmarshal(responseBody, &tagged); err != nil {
		return zero, apperr.Internal("backend: decode %s response: %w", operation, err)
	}
	return tagged.Unwrap()
}

// Wire request shapes. Identity rides in the body the same way the
// ledger's canister interface passes the caller's principal.
type identityRequest struct {
	Identity string `json:"identity"`
}

type registerRequest struct {
	Identity string `json:"identity"`
	Role     string `json:"role"`
	Name     string `json:"name"`
}

type concertRequest struct {
	Identity string           `json:"identity,omitempty"`
	ID       market.ConcertID `json:"id"`
}

type concertWriteRequest struct {
	Identity      string           `json:"identity"`
	ID            market.ConcertID `json:"id,omitempty"`
	Name          string           `json:"name"`
	Date          int64            `json:"date"`
	TotalCapacity uint32           `json:"totalTickets"`
	Price         uint64           `json:"price"`
}

type buyTicketRequest struct {
	Identity  string           `json:"identity"`
	ConcertID market.ConcertID `json:"concertId"`
}

type validateTicketRequest struct {
	Identity string          `json:"identity"`
	TicketID market.TicketID `json:"ticketId"`
}

type initializeTokenRequest struct {
	Identity string    `json:"identity"`
	Init     TokenInit `json:"init"`
}

type transferRequest struct {
	Identity string `json:"identity"`
	To       string `json:"to"`
	Amount   uint64 `json:"amount"`
}

// concertLookup is the GetConcert response payload: the backend
// reports absence explicitly instead of erroring, so a deleted concert
// is an unresolved reference rather than a failed fetch.
type concertLookup struct {
	Concert market.Concert `json:"concert"`
	Found   bool           `json:"found"`
}

type settingsLookup struct {
	Settings market.TokenSettings `json:"settings"`
	Found    bool                 `json:"found"`
}

type roleLookup struct {
	Role  string `json:"role"`
	Found bool   `json:"found"`
}

// IsTokenInitialized implements Backend.
func (b *HTTPBackend) IsTokenInitialized(ctx context.Context) (bool, error) {
	return call[bool](ctx, b, "isTokenInitialized", struct{}{})
}

// GetRole implements Backend.
func (b *HTTPBackend) GetRole(ctx context.Context, identity string) (market.Role, bool, error) {
	lookup, err := call[roleLookup](ctx, b, "getRole", identityRequest{Identity: identity})
	if err != nil || !lookup.Found {
		return "", false, err
	}
	role, err := market.ParseRole(lookup.Role)
	if err != nil {
		return "", false, apperr.Internal("backend: getRole returned %q: %w", lookup.Role, err)
	}
	return role, true, nil
}

// Register implements Backend.
func (b *HTTPBackend) Register(ctx context.Context, identity string, role market.Role, name string) error {
	_, err := call[string](ctx, b, "register", registerRequest{
		Identity: identity,
		Role:     string(role),
		Name:     name,
	})
	return err
}

// GetConcerts implements Backend.
func (b *HTTPBackend) GetConcerts(ctx context.Context, criteria market.FilterCriteria) ([]market.Concert, error) {
	return call[[]market.Concert](ctx, b, "getConcerts", criteria)
}

// GetConcert implements Backend.
func (b *HTTPBackend) GetConcert(ctx context.Context, id market.ConcertID) (market.Concert, bool, error) {
	lookup, err := call[concertLookup](ctx, b, "getConcert", concertRequest{ID: id})
	if err != nil {
		return market.Concert{}, false, err
	}
	return lookup.Concert, lookup.Found, nil
}

// GetOrganizerConcerts implements Backend.
func (b *HTTPBackend) GetOrganizerConcerts(ctx context.Context, identity string) ([]market.ConcertID, error) {
	return call[[]market.ConcertID](ctx, b, "getOrganizerConcerts", identityRequest{Identity: identity})
}

// CreateConcert implements Backend.
func (b *HTTPBackend) CreateConcert(ctx context.Context, identity, name string, date int64, totalCapacity uint32, price uint64) (market.ConcertID, error) {
	return call[market.ConcertID](ctx, b, "createConcert", concertWriteRequest{
		Identity:      identity,
		Name:          name,
		Date:          date,
		TotalCapacity: totalCapacity,
		Price:         price,
	})
}

// EditConcert implements Backend.
func (b *HTTPBackend) EditConcert(ctx context.Context, identity string, id market.ConcertID, name string, date int64, totalCapacity uint32, price uint64) (bool, error) {
	return call[bool](ctx, b, "editConcert", concertWriteRequest{
		Identity:      identity,
		ID:            id,
		Name:          name,
		Date:          date,
		TotalCapacity: totalCapacity,
		Price:         price,
	})
}

// DeleteConcert implements Backend.
func (b *HTTPBackend) DeleteConcert(ctx context.Context, identity string, id market.ConcertID) (bool, error) {
	return call[bool](ctx, b, "deleteConcert", concertRequest{Identity: identity, ID: id})
}

// BuyTicket implements Backend.
func (b *HTTPBackend) BuyTicket(ctx context.Context, identity string, concertID market.ConcertID) (market.TicketID, error) {
	return call[market.TicketID](ctx, b, "buyTicket", buyTicketRequest{
		Identity:  identity,
		ConcertID: concertID,
	})
}

// ValidateTicket implements Backend.
func (b *HTTPBackend) ValidateTicket(ctx context.Context, identity string, ticketID market.TicketID) (string, error) {
	return call[string](ctx, b, "validateTicket", validateTicketRequest{
		Identity: identity,
		TicketID: ticketID,
	})
}

// GetCustomerTickets implements Backend.
func (b *HTTPBackend) GetCustomerTickets(ctx context.Context, identity string) ([]market.Ticket, error) {
	return call[[]market.Ticket](ctx, b, "getCustomerTickets", identityRequest{Identity: identity})
}

// Balance implements Backend.
func (b *HTTPBackend) Balance(ctx context.Context, identity string) (uint64, error) {
	return call[uint64](ctx, b, "balanceOf", identityRequest{Identity: identity})
}

// Revenue implements Backend.
func (b *HTTPBackend) Revenue(ctx context.Context, identity string) (uint64, error) {
	return call[uint64](ctx, b, "revenueOf", identityRequest{Identity: identity})
}

// InitializeToken implements Backend.
func (b *HTTPBackend) InitializeToken(ctx context.Context, identity string, init TokenInit) (string, error) {
	return call[string](ctx, b, "initializeToken", initializeTokenRequest{
		Identity: identity,
		Init:     init,
	})
}

// Transfer implements Backend.
func (b *HTTPBackend) Transfer(ctx context.Context, identity, to string, amount uint64) (string, error) {
	return call[string](ctx, b, "adminTransfer", transferRequest{
		Identity: identity,
		To:       to,
		Amount:   amount,
	})
}

// GetAllUsers implements Backend.
func (b *HTTPBackend) GetAllUsers(ctx context.Context, identity string) ([]market.UserAccount, error) {
	return call[[]market.UserAccount](ctx, b, "getAllUsers", identityRequest{Identity: identity})
}

// TokenSettings implements Backend.
func (b *HTTPBackend) TokenSettings(ctx context.Context, identity string) (market.TokenSettings, bool, error) {
	lookup, err := call[settingsLookup](ctx, b, "getTokenSettings", identityRequest{Identity: identity})
	if err != nil {
		return market.TokenSettings{}, false, err
	}
	return lookup.Settings, lookup.Found, nil
}
