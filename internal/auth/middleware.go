// Package auth issues the bearer token handed out on login and checks it,
// together with the stored session pointer, on every dashboard request.
package auth

import (
	"context"
	"errors"
	"net/http"
	"strings"

	"github.com/gin-gonic/gin"

	"careerfolio/internal/logging"
	"careerfolio/internal/validation"
)

// EmailKey is the gin context key holding the authenticated email.
const EmailKey = "email"

// SessionSource returns the email the session pointer currently names.
type SessionSource interface {
	SessionEmail(ctx context.Context) (string, error)
}

// RequireSession enforces a valid bearer token whose subject is the account
// the session pointer names. A logout or a login as someone else therefore
// revokes every earlier token.
func RequireSession(signingKey, issuer string, sessions SessionSource) gin.HandlerFunc {
	return func(c *gin.Context) {
		authz := c.GetHeader("Authorization")
		if authz == "" || !strings.HasPrefix(strings.ToLower(authz), "bearer ") {
			c.AbortWithStatusJSON(http.StatusUnauthorized, gin.H{"error": "missing bearer token"})
			return
		}
		tokenStr := strings.TrimSpace(authz[len("bearer "):])
		claims, err := Parse(tokenStr, signingKey, issuer)
		if err != nil {
			c.AbortWithStatusJSON(http.StatusUnauthorized, gin.H{"error": "invalid token"})
			return
		}

		email, err := sessions.SessionEmail(c.Request.Context())
		if err != nil {
			var verr *validation.Error
			if errors.As(err, &verr) {
				c.AbortWithStatusJSON(http.StatusUnauthorized, gin.H{"error": verr.Message, "reason": verr.Reason})
				return
			}
			logging.FromContext(c.Request.Context()).Error("session lookup failed", "err", err)
			c.AbortWithStatusJSON(http.StatusInternalServerError, gin.H{"error": "internal error"})
			return
		}
		if email != claims.Subject {
			c.AbortWithStatusJSON(http.StatusUnauthorized, gin.H{
				"error":  validation.ErrSessionExpired.Message,
				"reason": validation.ErrSessionExpired.Reason,
			})
			return
		}

		c.Set(EmailKey, email)
		c.Request = c.Request.WithContext(logging.WithEmail(c.Request.Context(), email))
		c.Next()
	}
}
