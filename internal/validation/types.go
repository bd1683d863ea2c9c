package validation

import "encoding/json"

// ScanRequest is the body of POST /sessions/:id/scan.
type ScanRequest struct {
	Code string `json:"code" validate:"required"`
}

// SelectionRequest is the body of POST /sessions/:id/selection. The
// selection itself is opaque to the kiosk (design id, product, currency —
// whatever the cashier UI sends).
type SelectionRequest struct {
	Selection json.RawMessage `json:"selection" validate:"required"`
}
