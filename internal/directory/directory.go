package directory

import (
	"context"
	"errors"
)

// ErrClientNotFound is returned when no client carries the submitted code.
var ErrClientNotFound = errors.New("directory: client not found")

// Client is a pre-provisioned loyalty client. The kiosk only ever reads
// these records; provisioning happens out of band.
type Client struct {
	Code       string
	CardNumber string
	FirstName  string
	LastName   string
}

// Directory looks up clients by code.
type Directory interface {
	Lookup(ctx context.Context, code string) (*Client, error)
	Close() error
}
