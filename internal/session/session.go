package session

import (
	"context"
	"encoding/json"
	"errors"
	"time"
)

// ErrNotFound is returned for a session id that is unknown or already swept.
// Callers cannot tell the two apart, and must not try to.
var ErrNotFound = errors.New("session: not found")

// Session is one in-flight kiosk issuance: created when the cashier page
// loads, fulfilled when the customer's code resolves to a client, gone once
// the sweep decides it is too old.
type Session struct {
	ID           string          `json:"id"`
	CreatedAt    time.Time       `json:"created_at"`
	Fulfilled    bool            `json:"fulfilled"`
	ResolvedCode string          `json:"resolved_code,omitempty"`
	NotReady     bool            `json:"not_ready,omitempty"`
	Selection    json.RawMessage `json:"selection,omitempty"`
}

// Store defines how kiosk sessions are stored and mutated. All state lives
// behind this interface; handlers and the sweeper never touch the mapping
// directly.
type Store interface {
	// Create inserts a fresh unfulfilled session and returns it.
	Create(ctx context.Context) (*Session, error)

	// Get is a pure read. It does not slide expiry.
	Get(ctx context.Context, id string) (*Session, error)

	// MarkFulfilled resolves the session to code. First write wins: if the
	// session is already fulfilled the stored code is kept, and returned.
	MarkFulfilled(ctx context.Context, id, code string) (string, error)

	// MarkNotReady records that a client matched but the output artifact
	// was missing. No-op on an already fulfilled session.
	MarkNotReady(ctx context.Context, id string) error

	// SetSelection attaches or overwrites the opaque selection annotation.
	SetSelection(ctx context.Context, id string, selection json.RawMessage) error

	// Sweep removes every session older than maxAge and reports how many
	// were removed.
	Sweep(ctx context.Context, maxAge time.Duration) (int, error)
}
