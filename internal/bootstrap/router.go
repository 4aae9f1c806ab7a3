package bootstrap

import (
	"github.com/gin-contrib/cors"
	"github.com/gin-gonic/gin"

	httpapi "github.com/projectdesk/projectdesk-backend/internal/api/http"
	"github.com/projectdesk/projectdesk-backend/internal/api/http/middleware"

	"github.com/projectdesk/projectdesk-backend/internal/ai"
	"github.com/projectdesk/projectdesk-backend/internal/media"
	"github.com/projectdesk/projectdesk-backend/internal/projects"
	"github.com/projectdesk/projectdesk-backend/internal/ratelimit"
	"github.com/projectdesk/projectdesk-backend/internal/search"
)

type RouterDeps struct {
	ServiceName string
	Version     string
	CORSOrigin  string

	Store projects.Store

	OpenAI  ai.TextGenerator
	Gemini  ai.TextGenerator
	Algolia search.Searcher
	Pexels  media.PhotoSearcher

	// Limiter guards the proxy routes; nil disables rate limiting.
	Limiter ratelimit.Limiter
}

func BuildRouter(dep RouterDeps) *gin.Engine {
	r := gin.New()
	r.Use(gin.Recovery())
	r.Use(middleware.RequestIDMiddleware())
	r.Use(corsMiddleware(dep.CORSOrigin))

	healthHandler := httpapi.NewHealthHandler(dep.ServiceName, dep.Version, dep.Store)
	healthHandler.RegisterRoutes(r)

	projects.Register(r.Group("/projects"), dep.Store)

	proxy := r.Group("")
	if dep.Limiter != nil {
		proxy.Use(ratelimit.Middleware(dep.Limiter))
	}

	ai.Register(proxy.Group("/ai"), dep.OpenAI, dep.Gemini)
	search.Register(proxy.Group("/search"), dep.Algolia)
	media.Register(proxy.Group("/media/pexels"), dep.Pexels)

	return r
}

func corsMiddleware(origin string) gin.HandlerFunc {
	cfg := cors.Config{
		AllowMethods: []string{"GET", "POST", "PATCH", "DELETE", "OPTIONS"},
		AllowHeaders: []string{"Origin", "Content-Type", "Authorization", "X-Request-Id"},
	}
	if origin != "" && origin != "*" {
		cfg.AllowOrigins = []string{origin}
		return cors.New(cfg)
	}

	// The cors library skips Vary in allow-all mode; responses must carry it
	// on every configuration so caches never mix origins.
	cfg.AllowAllOrigins = true
	allowAll := cors.New(cfg)
	return func(c *gin.Context) {
		c.Writer.Header().Add("Vary", "Origin")
		allowAll(c)
	}
}
