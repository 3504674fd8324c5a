// Package http provides HTTP server infrastructure including the Module interface
// that domain modules implement for route registration.
package http

import (
	"github.com/gin-gonic/gin"
)

// Module represents a bounded context that can register its HTTP routes.
// Each domain module implements this interface to encapsulate its own
// route setup, keeping the main router decoupled from specific endpoints.
type Module interface {
	// Name returns the module's identifier for logging purposes.
	Name() string
	// RegisterRoutes mounts the module's routes on the provided router groups.
	RegisterRoutes(ctx *RouterContext)
}

// RouterContext provides shared route groups for module registration.
type RouterContext struct {
	// Engine is the root Gin engine, for routes outside /api such as /metrics.
	Engine *gin.Engine
	// API is the /api route group.
	API *gin.RouterGroup
	// Limited is the /api route group behind the per-IP rate limiter.
	Limited *gin.RouterGroup
}
