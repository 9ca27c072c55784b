package api

import (
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	"github.com/sensusai/sensus-server/internal/api/handlers"
	"github.com/sensusai/sensus-server/internal/api/middleware"
	v1 "github.com/sensusai/sensus-server/internal/api/v1"
)

func init() {
	// Set Gin to release mode to disable debug logging
	gin.SetMode(gin.ReleaseMode)
}

type Router struct {
	engine   *gin.Engine
	endpoint string
}

func NewRouter(authHandler *handlers.AuthHandler, recordingHandler *handlers.RecordingHandler, jwtSecret string, endpoint string) *Router {
	engine := gin.New()

	engine.Use(gin.Recovery())
	engine.Use(middleware.Logging())
	engine.Use(middleware.Metrics())

	r := &Router{
		engine:   engine,
		endpoint: endpoint,
	}

	r.registerRoutes(authHandler, recordingHandler, jwtSecret)
	return r
}

func (r *Router) registerRoutes(authHandler *handlers.AuthHandler, recordingHandler *handlers.RecordingHandler, jwtSecret string) {
	r.engine.GET("/metrics", gin.WrapH(promhttp.Handler()))

	api := r.engine.Group(r.endpoint)
	api.GET("/health", handlers.Health)
	v1.RegisterRoutes(api, authHandler, recordingHandler, jwtSecret)
}

func (r *Router) Engine() *gin.Engine {
	return r.engine
}

func (r *Router) AddMiddleware(middleware gin.HandlerFunc) {
	r.engine.Use(middleware)
}

func (r *Router) ServeHTTP(w http.ResponseWriter, req *http.Request) {
	r.engine.ServeHTTP(w, req)
}
