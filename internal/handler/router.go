package handler

import (
	"time"

	"github.com/gin-contrib/cors"
	"github.com/gin-gonic/gin"
	"github.com/prometheus/client_golang/prometheus/promhttp"

	"careerfolio/internal/auth"
	"careerfolio/internal/httpmiddleware"
)

// RouterConfig holds the settings the router needs beyond the Handler.
type RouterConfig struct {
	RateLimitPerMin int
	AllowedOrigins  []string // empty allows any origin
}

// NewRouter wires every route and the shared middleware.
func NewRouter(h *Handler, cfg RouterConfig) *gin.Engine {
	r := gin.New()
	r.Use(gin.Recovery())
	r.Use(gin.LoggerWithConfig(gin.LoggerConfig{
		SkipPaths: []string{"/healthz", "/metrics"},
	}))
	r.Use(cors.New(corsConfig(cfg.AllowedOrigins)))
	r.Use(httpmiddleware.SecurityHeaders())
	r.Use(httpmiddleware.RequestID())
	if cfg.RateLimitPerMin > 0 {
		r.Use(httpmiddleware.NewRateLimiter(cfg.RateLimitPerMin, cfg.RateLimitPerMin).Middleware())
	}

	r.GET("/metrics", gin.WrapH(promhttp.Handler()))
	r.GET("/healthz", h.Healthz)

	// One request at a time touches the workspace.
	serialize := httpmiddleware.Serialize()
	requireSession := auth.RequireSession(h.signingKey, h.issuer, h.accounts)

	// Upload bodies are read before the lock is taken.
	r.POST("/v1/artifacts/:kind", h.ReadUpload, serialize, requireSession, h.SubmitArtifact)

	v1 := r.Group("/v1", serialize)
	{
		v1.POST("/signup", h.Signup)
		v1.POST("/login", h.Login)
		v1.POST("/logout", h.Logout)
		v1.GET("/view", h.View)
		v1.GET("/notice", h.Notice)
		v1.DELETE("/notice", h.DismissNotice)
	}

	authed := v1.Group("", requireSession)
	{
		authed.PUT("/tab", h.SelectTab)
		authed.DELETE("/artifacts/:kind", h.CancelArtifact)
		authed.GET("/events", h.Events)
	}
	return r
}

func corsConfig(origins []string) cors.Config {
	cfg := cors.Config{
		AllowMethods:     []string{"GET", "POST", "PUT", "DELETE", "OPTIONS"},
		AllowHeaders:     []string{"Origin", "Content-Type", "Accept", "Authorization", "X-Request-ID"},
		ExposeHeaders:    []string{"X-Request-ID"},
		AllowCredentials: true,
		MaxAge:           24 * time.Hour,
	}
	if len(origins) == 0 {
		cfg.AllowOriginFunc = func(string) bool { return true }
	} else {
		cfg.AllowOrigins = origins
	}
	return cfg
}
