// Package location mirrors the selected webhook into a shareable query
// string and persists it so a restart lands on the same view.
package location

import (
	"context"
	"errors"
	"net/url"
	"strings"
)

// Param is the query parameter carrying the selected webhook endpoint.
const Param = "webhook_endpoint"

// Common errors.
var (
	ErrStoreClosed = errors.New("location store is closed")
)

// Store persists the current location between runs.
type Store interface {
	// Load returns the saved query string, or "" if none was saved.
	Load(ctx context.Context) (string, error)

	// Save replaces the saved query string.
	Save(ctx context.Context, query string) error

	// Close closes the store.
	Close() error
}

// Location is the query-string state of the app.
type Location struct {
	values url.Values
}

// New returns an empty location.
func New() *Location {
	return &Location{values: url.Values{}}
}

// Parse reads a query string with or without a leading "?".
func Parse(raw string) (*Location, error) {
	values, err := url.ParseQuery(strings.TrimPrefix(raw, "?"))
	if err != nil {
		return nil, err
	}
	return &Location{values: values}, nil
}

// Endpoint returns the selected webhook endpoint, if any.
func (l *Location) Endpoint() string {
	return l.values.Get(Param)
}

// SetEndpoint records the selected webhook endpoint.
func (l *Location) SetEndpoint(endpoint string) {
	if endpoint == "" {
		l.values.Del(Param)
		return
	}
	l.values.Set(Param, endpoint)
}

// Clear removes the webhook endpoint parameter.
func (l *Location) Clear() {
	l.values.Del(Param)
}

// String renders the location as "?webhook_endpoint=..." or "".
func (l *Location) String() string {
	encoded := l.values.Encode()
	if encoded == "" {
		return ""
	}
	return "?" + encoded
}

// Restore loads the saved location from store. A missing store or an
// unreadable value yields an empty location.
func Restore(ctx context.Context, store Store) (*Location, error) {
	if store == nil {
		return New(), nil
	}
	raw, err := store.Load(ctx)
	if err != nil {
		return New(), err
	}
	loc, err := Parse(raw)
	if err != nil {
		return New(), err
	}
	return loc, nil
}
