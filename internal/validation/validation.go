package validation

import (
	"net/http"
	"strings"

	"github.com/gin-gonic/gin"
	validatorv10 "github.com/go-playground/validator/v10"
)

// MinCodeLength is the shortest client code the kiosk accepts. The
// directory provisions codes down to three digits.
const MinCodeLength = 3

// New returns a configured validator.
func New() *validatorv10.Validate {
	return validatorv10.New()
}

// BindAndValidate binds the JSON body into out and runs validation. On
// failure it writes the kiosk's error-in-body response (the contract keeps
// HTTP 200 for caller mistakes) and returns an error so the handler can
// short-circuit.
func BindAndValidate(c *gin.Context, out interface{}, v *validatorv10.Validate) error {
	if err := c.ShouldBindJSON(out); err != nil {
		c.JSON(http.StatusOK, gin.H{"error": "invalid request body"})
		return err
	}

	if err := v.Struct(out); err != nil {
		c.JSON(http.StatusOK, gin.H{"error": "invalid request body"})
		return err
	}
	return nil
}

// NormalizeCode trims the submitted code and keeps digits only. Scanner
// apps pad codes with whitespace, dashes and the occasional stray letter.
func NormalizeCode(raw string) string {
	var b strings.Builder
	for _, r := range strings.TrimSpace(raw) {
		if r >= '0' && r <= '9' {
			b.WriteRune(r)
		}
	}
	return b.String()
}
