// Package server wires the HTTP surface: routing, CORS, correlation ids
// and rate limiting around the permission grant flow.
package server

import (
	"os"
	"strings"

	"github.com/cyphera/gator-permissions/internal/handlers"
	"github.com/cyphera/gator-permissions/internal/middleware"
	"github.com/cyphera/gator-permissions/internal/orchestrator"
	"github.com/cyphera/gator-permissions/internal/permissions"
	"github.com/gin-contrib/cors"
	"github.com/gin-gonic/gin"
)

// Dependencies carries the wired collaborators the router exposes
type Dependencies struct {
	Orchestrator *orchestrator.Orchestrator
	Registry     *permissions.Registry

	// RequestsPerSecond and Burst configure the per-client rate limiter.
	// Zero values fall back to defaults.
	RequestsPerSecond int
	Burst             int
}

// NewRouter builds the HTTP router with all middleware and routes applied
func NewRouter(deps Dependencies) *gin.Engine {
	router := gin.New()
	router.Use(gin.Recovery())
	router.Use(configureCORS())
	router.Use(middleware.CorrelationIDMiddleware())

	requestsPerSecond := deps.RequestsPerSecond
	if requestsPerSecond <= 0 {
		requestsPerSecond = 10
	}
	burst := deps.Burst
	if burst <= 0 {
		burst = 20
	}
	router.Use(middleware.NewRateLimiter(requestsPerSecond, burst).Middleware())

	router.GET("/health", handlers.HealthCheck)

	permissionsHandler := handlers.NewPermissionsHandler(deps.Orchestrator, deps.Registry)

	v1 := router.Group("/api/v1")
	{
		v1.POST("/permissions/grant", permissionsHandler.GrantPermission)
		v1.GET("/permissions/types", permissionsHandler.ListPermissionTypes)
	}

	return router
}

// configureCORS returns a configured CORS middleware
func configureCORS() gin.HandlerFunc {
	corsConfig := cors.DefaultConfig()

	originsEnv := os.Getenv("CORS_ALLOWED_ORIGINS")
	if originsEnv == "" {
		// Default to localhost if not set
		corsConfig.AllowOrigins = []string{"http://localhost:3000"}
	} else {
		origins := strings.Split(originsEnv, ",")
		for i, origin := range origins {
			origins[i] = strings.TrimSpace(origin)
		}
		corsConfig.AllowOrigins = origins
	}

	corsConfig.AllowMethods = []string{"GET", "POST", "OPTIONS"}
	corsConfig.AllowHeaders = []string{"Origin", "Content-Type", "Accept", "X-API-Key", middleware.CorrelationIDHeader}
	corsConfig.ExposeHeaders = []string{middleware.CorrelationIDHeader}
	corsConfig.AllowCredentials = os.Getenv("CORS_ALLOW_CREDENTIALS") == "true"

	return cors.New(corsConfig)
}
