package v1

import (
	"time"

	"github.com/gin-gonic/gin"
	"github.com/sensusai/sensus-server/internal/api/handlers"
	"github.com/sensusai/sensus-server/internal/api/middleware"
	"golang.org/x/time/rate"
)

// 30 challenge/verify calls per minute per IP, burst of 10
var authLimiter = middleware.NewRateLimiter(rate.Every(2*time.Second), 10)

func registerAuthRoutes(router *gin.RouterGroup, authHandler *handlers.AuthHandler) {
	auth := router.Group("/auth")
	auth.Use(middleware.RateLimit(authLimiter))
	{
		auth.GET("/challenge", authHandler.Challenge)
		auth.POST("/verify", authHandler.Verify)
	}
}

func registerRecordingRoutes(router *gin.RouterGroup, recordingHandler *handlers.RecordingHandler) {
	recordings := router.Group("/recordings")
	{
		recordings.POST("", recordingHandler.CreateRecording)
		recordings.GET("", recordingHandler.ListRecordings)
		recordings.GET("/:id", recordingHandler.GetRecording)
	}

	router.GET("/balance", recordingHandler.GetBalance)
	router.GET("/dashboard", recordingHandler.GetDashboard)
}

func RegisterRoutes(api *gin.RouterGroup, authHandler *handlers.AuthHandler, recordingHandler *handlers.RecordingHandler, jwtSecret string) {
	v1 := api.Group("/v1")
	v1.GET("/topics", handlers.ListTopics)
	registerAuthRoutes(v1, authHandler)

	authed := v1.Group("")
	authed.Use(middleware.Auth(jwtSecret))
	registerRecordingRoutes(authed, recordingHandler)
}
