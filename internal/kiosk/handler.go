package kiosk

import (
	"errors"
	"fmt"
	"net/http"
	"time"

	"github.com/gin-gonic/gin"
	validatorv10 "github.com/go-playground/validator/v10"

	"github.com/Gor-Tutyan/qr-scaner/internal/directory"
	"github.com/Gor-Tutyan/qr-scaner/internal/logger"
	"github.com/Gor-Tutyan/qr-scaner/internal/metrics"
	"github.com/Gor-Tutyan/qr-scaner/internal/qr"
	"github.com/Gor-Tutyan/qr-scaner/internal/session"
	"github.com/Gor-Tutyan/qr-scaner/internal/sink"
	"github.com/Gor-Tutyan/qr-scaner/internal/validation"
)

// Handler translates kiosk HTTP requests into session store operations and
// collaborator calls. All session state goes through the store; the handler
// itself is stateless.
type Handler struct {
	store     session.Store
	directory directory.Directory
	sink      sink.Sink
	locator   sink.ArtifactLocator
	validate  *validatorv10.Validate
}

func NewHandler(
	store session.Store,
	dir directory.Directory,
	resultSink sink.Sink,
	locator sink.ArtifactLocator,
) *Handler {
	return &Handler{
		store:     store,
		directory: dir,
		sink:      resultSink,
		locator:   locator,
		validate:  validation.New(),
	}
}

func (h *Handler) RegisterRoutes(r *gin.Engine) {
	r.POST("/sessions", h.createSession)
	r.POST("/sessions/:id/selection", h.setSelection)
	r.POST("/sessions/:id/scan", h.submitScan)
	r.GET("/sessions/:id/status", h.pollStatus)
	r.GET("/sessions/:id/qr", h.qrImage)
}

// createSession backs the cashier page load: a fresh session plus the QR
// artifact the customer will scan.
func (h *Handler) createSession(c *gin.Context) {
	sess, err := h.store.Create(c.Request.Context())
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "failed to create session"})
		return
	}

	payload := qr.Payload(sess.ID)

	image, err := qr.DataURL(payload, qr.DefaultSize)
	if err != nil {
		logger.Error("qr render failed", map[string]any{
			"session_id": sess.ID,
			"error":      err.Error(),
		})
		c.JSON(http.StatusInternalServerError, gin.H{"error": "failed to render qr"})
		return
	}

	metrics.SessionsCreated.Inc()
	metrics.SessionsLive.Inc()

	c.JSON(http.StatusOK, gin.H{
		"sessionId": sess.ID,
		"qrPayload": payload,
		"qrImage":   image,
	})
}

// setSelection attaches the opaque design/product annotation. Unknown or
// expired sessions are reported as ignored rather than failing the cashier
// UI mid-flow.
func (h *Handler) setSelection(c *gin.Context) {
	var req validation.SelectionRequest
	if err := validation.BindAndValidate(c, &req, h.validate); err != nil {
		return
	}

	err := h.store.SetSelection(c.Request.Context(), c.Param("id"), req.Selection)
	if errors.Is(err, session.ErrNotFound) {
		c.JSON(http.StatusOK, gin.H{"ok": true, "ignored": true})
		return
	}
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "failed to store selection"})
		return
	}

	c.JSON(http.StatusOK, gin.H{"ok": true})
}

// submitScan resolves a customer code against the directory and commits the
// outcome to the session. Failed lookups leave the session untouched so the
// customer can retry with another code.
func (h *Handler) submitScan(c *gin.Context) {
	ctx := c.Request.Context()
	id := c.Param("id")

	var req validation.ScanRequest
	if err := validation.BindAndValidate(c, &req, h.validate); err != nil {
		return
	}

	code := validation.NormalizeCode(req.Code)
	if len(code) < validation.MinCodeLength {
		metrics.ScansTotal.WithLabelValues(metrics.OutcomeInvalidCode).Inc()
		c.JSON(http.StatusOK, gin.H{"error": "invalid code"})
		return
	}

	if _, err := h.store.Get(ctx, id); err != nil {
		metrics.ScansTotal.WithLabelValues(metrics.OutcomeSessionExpired).Inc()
		c.JSON(http.StatusOK, gin.H{"error": "session expired"})
		return
	}

	client, err := h.directory.Lookup(ctx, code)
	if errors.Is(err, directory.ErrClientNotFound) {
		metrics.ScansTotal.WithLabelValues(metrics.OutcomeClientNotFound).Inc()
		c.JSON(http.StatusOK, gin.H{"error": "client not found"})
		return
	}
	if err != nil {
		logger.Error("directory lookup failed", map[string]any{
			"session_id": id,
			"error":      err.Error(),
		})
		c.JSON(http.StatusInternalServerError, gin.H{"error": "directory unavailable"})
		return
	}

	if h.locator != nil {
		found, err := h.locator.Find(ctx, client.CardNumber)
		if err != nil {
			logger.Warn("artifact lookup failed", map[string]any{
				"session_id": id,
				"error":      err.Error(),
			})
		}
		if err == nil && !found {
			if err := h.store.MarkNotReady(ctx, id); errors.Is(err, session.ErrNotFound) {
				c.JSON(http.StatusOK, gin.H{"error": "session expired"})
				return
			}
			metrics.ScansTotal.WithLabelValues(metrics.OutcomeNotReady).Inc()
			c.JSON(http.StatusOK, gin.H{"success": false, "notReady": true})
			return
		}
	}

	winner, err := h.store.MarkFulfilled(ctx, id, code)
	if errors.Is(err, session.ErrNotFound) {
		// swept between the Get above and now
		metrics.ScansTotal.WithLabelValues(metrics.OutcomeSessionExpired).Inc()
		c.JSON(http.StatusOK, gin.H{"error": "session expired"})
		return
	}
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "failed to update session"})
		return
	}

	if winner != code {
		// an earlier scan already resolved this session; report that
		// resolution instead of ours
		client, err = h.directory.Lookup(ctx, winner)
		if err != nil {
			c.JSON(http.StatusOK, gin.H{"error": "client not found"})
			return
		}
	} else if h.sink != nil {
		if err := h.sink.Record(ctx, resultLine(client)); err != nil {
			// the match already happened; a lost line is logged, not fatal
			metrics.SinkWriteFailures.Inc()
			logger.Error("result sink write failed", map[string]any{
				"session_id": id,
				"card":       client.CardNumber,
				"error":      err.Error(),
			})
		}
	}

	metrics.ScansTotal.WithLabelValues(metrics.OutcomeFulfilled).Inc()
	c.JSON(http.StatusOK, gin.H{
		"success":     true,
		"first_name":  client.FirstName,
		"last_name":   client.LastName,
		"card_number": client.CardNumber,
	})
}

// pollStatus is the cashier page's repeatable read. Pending until a scan
// lands, then deterministically resolved (or notReady), expired once swept.
func (h *Handler) pollStatus(c *gin.Context) {
	ctx := c.Request.Context()

	sess, err := h.store.Get(ctx, c.Param("id"))
	if errors.Is(err, session.ErrNotFound) {
		c.JSON(http.StatusOK, gin.H{"error": "session expired"})
		return
	}
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "failed to read session"})
		return
	}

	switch {
	case sess.Fulfilled:
		client, err := h.directory.Lookup(ctx, sess.ResolvedCode)
		if errors.Is(err, directory.ErrClientNotFound) {
			c.JSON(http.StatusOK, gin.H{"error": "client not found"})
			return
		}
		if err != nil {
			c.JSON(http.StatusInternalServerError, gin.H{"error": "directory unavailable"})
			return
		}

		resp := gin.H{
			"success":     true,
			"first_name":  client.FirstName,
			"last_name":   client.LastName,
			"card_number": client.CardNumber,
		}
		if len(sess.Selection) > 0 {
			resp["selection"] = sess.Selection
		}
		c.JSON(http.StatusOK, resp)

	case sess.NotReady:
		c.JSON(http.StatusOK, gin.H{"success": false, "notReady": true})

	default:
		c.JSON(http.StatusOK, gin.H{"pending": true})
	}
}

// qrImage serves the session's QR code as a PNG, for pages that prefer an
// <img src> over the inline data URL.
func (h *Handler) qrImage(c *gin.Context) {
	id := c.Param("id")

	if _, err := h.store.Get(c.Request.Context(), id); err != nil {
		c.JSON(http.StatusNotFound, gin.H{"error": "session expired"})
		return
	}

	png, err := qr.PNG(qr.Payload(id), qr.DefaultSize)
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "failed to render qr"})
		return
	}

	c.Data(http.StatusOK, "image/png", png)
}

// resultLine formats the flat print-file record for a completed issuance.
func resultLine(c *directory.Client) string {
	return fmt.Sprintf("%s\t%s\t%s %s\t%s",
		time.Now().Format(time.RFC3339),
		c.CardNumber,
		c.LastName, c.FirstName,
		c.Code,
	)
}
