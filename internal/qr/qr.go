package qr

import (
	"encoding/base64"
	"encoding/json"
	"fmt"

	qrcode "github.com/skip2/go-qrcode"
)

// DefaultSize is the pixel width of generated QR images.
const DefaultSize = 500

type payload struct {
	SessionID string `json:"sessionId"`
}

// Payload builds the JSON string a customer's scanner app decodes.
func Payload(sessionID string) string {
	b, _ := json.Marshal(payload{SessionID: sessionID})
	return string(b)
}

// PNG renders the payload as a QR code image.
func PNG(content string, size int) ([]byte, error) {
	b, err := qrcode.Encode(content, qrcode.Medium, size)
	if err != nil {
		return nil, fmt.Errorf("qr: encode: %w", err)
	}
	return b, nil
}

// DataURL renders the payload as an inline data: URL for direct embedding
// in the cashier page.
func DataURL(content string, size int) (string, error) {
	png, err := PNG(content, size)
	if err != nil {
		return "", err
	}
	return "data:image/png;base64," + base64.StdEncoding.EncodeToString(png), nil
}
