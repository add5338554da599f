// Package handler exposes the account and artifact operations over HTTP.
package handler

import (
	"context"
	"errors"
	"net/http"
	"time"

	"github.com/gin-gonic/gin"

	"careerfolio/internal/account"
	"careerfolio/internal/artifacts"
	"careerfolio/internal/logging"
	"careerfolio/internal/notify"
	"careerfolio/internal/queue"
	"careerfolio/internal/records"
	"careerfolio/internal/validation"
	"careerfolio/internal/view"
)

// History lists recorded artifact events for one account.
type History interface {
	ListByEmail(ctx context.Context, email string, limit int) ([]queue.Message, error)
}

// HealthCheck reports whether one dependency is reachable.
type HealthCheck func(ctx context.Context) bool

// Handler holds the services behind the API routes.
type Handler struct {
	accounts  *account.Service
	artifacts *artifacts.Manager
	notices   *notify.Notifier
	history   History
	checks    map[string]HealthCheck

	signingKey string
	issuer     string
	tokenTTL   time.Duration
}

// New creates a Handler.
func New(accounts *account.Service, arts *artifacts.Manager, notices *notify.Notifier, opts ...Option) *Handler {
	h := &Handler{
		accounts:  accounts,
		artifacts: arts,
		notices:   notices,
		checks:    map[string]HealthCheck{},
		tokenTTL:  defaultTokenTTL,
	}
	for _, opt := range opts {
		opt(h)
	}
	return h
}

// Healthz reports every registered dependency check.
func (h *Handler) Healthz(c *gin.Context) {
	status := http.StatusOK
	res := gin.H{"status": "ok"}
	for name, check := range h.checks {
		ok := check(c.Request.Context())
		res[name] = ok
		if !ok {
			status = http.StatusServiceUnavailable
			res["status"] = "degraded"
		}
	}
	c.JSON(status, res)
}

// render re-reads the session and builds the current view.
func (h *Handler) render(c *gin.Context) (view.View, error) {
	st, err := h.accounts.Current(c.Request.Context())
	if err != nil {
		return view.View{}, err
	}
	return view.Render(st, h.currentNotice()), nil
}

func (h *Handler) currentNotice() *notify.Notice {
	if h.notices == nil {
		return nil
	}
	if n, ok := h.notices.Current(); ok {
		return &n
	}
	return nil
}

// fail writes err as {"error","reason"} with the matching status.
func fail(c *gin.Context, err error) {
	var verr *validation.Error
	switch {
	case errors.As(err, &verr):
		c.JSON(statusFor(verr.Reason), gin.H{"error": verr.Message, "reason": verr.Reason})
	case errors.Is(err, records.ErrUnknownKind):
		c.JSON(http.StatusNotFound, gin.H{"error": err.Error(), "reason": "unknown_kind"})
	case errors.Is(err, account.ErrUnknownTab):
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error(), "reason": "unknown_tab"})
	default:
		logging.FromContext(c.Request.Context()).Error("request failed", "path", c.FullPath(), "err", err)
		c.JSON(http.StatusInternalServerError, gin.H{"error": "internal error"})
	}
}

func statusFor(r validation.Reason) int {
	switch r {
	case validation.ReasonEmailTaken:
		return http.StatusConflict
	case validation.ReasonTooLarge:
		return http.StatusRequestEntityTooLarge
	case validation.ReasonNoSuchAccount, validation.ReasonWrongPassword,
		validation.ReasonSessionExpired, validation.ReasonUserNotFound:
		return http.StatusUnauthorized
	default:
		return http.StatusBadRequest
	}
}

func badRequest(c *gin.Context, msg string) {
	c.JSON(http.StatusBadRequest, gin.H{"error": msg, "reason": "bad_request"})
}
