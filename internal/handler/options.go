package handler

import "time"

const defaultTokenTTL = 12 * time.Hour

// Option configures a Handler.
type Option func(*Handler)

// WithTokens sets the JWT signing key, issuer and lifetime.
func WithTokens(signingKey, issuer string, ttl time.Duration) Option {
	return func(h *Handler) {
		h.signingKey = signingKey
		h.issuer = issuer
		if ttl > 0 {
			h.tokenTTL = ttl
		}
	}
}

// WithHistory enables GET /v1/events.
func WithHistory(hist History) Option {
	return func(h *Handler) { h.history = hist }
}

// WithHealthCheck adds a named check to /healthz.
func WithHealthCheck(name string, check HealthCheck) Option {
	return func(h *Handler) { h.checks[name] = check }
}
