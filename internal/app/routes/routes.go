package routes

import (
	"github.com/aarjjun/EventSync/internal/app/controllers"
	"github.com/aarjjun/EventSync/internal/middleware"
	"github.com/aarjjun/EventSync/internal/pkg/websocket"
	"github.com/gin-gonic/gin"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

// SetupRouter configures all application routes
func SetupRouter(
	router *gin.Engine,
	authController *controllers.AuthController,
	eventController *controllers.EventController,
	reportController *controllers.ReportController,
	healthController *controllers.HealthController,
	notificationHandler *websocket.Handler,
	authMiddleware *middleware.AuthMiddleware,
) {
	router.GET("/metrics", gin.WrapH(promhttp.Handler()))

	v1 := router.Group("/api/v1")
	v1.GET("/health", healthController.Health)

	// Every other route may carry a bearer token
	v1.Use(authMiddleware.JWTAuth())

	// Auth routes
	authRoutes := v1.Group("/auth")
	{
		authRoutes.POST("/register", authController.Register)
		authRoutes.POST("/login", authController.Login)
		authRoutes.GET("/me", authMiddleware.RequireAuthenticated(), authController.Me)
	}

	// Event routes
	eventRoutes := v1.Group("/events")
	eventRoutes.Use(authMiddleware.RequireAuthenticated())
	{
		eventRoutes.GET("", eventController.List)
		eventRoutes.GET("/:id", eventController.Get)
		eventRoutes.POST("", eventController.Create)
	}
	v1.PATCH("/events/:id/status", authMiddleware.RequireReviewer(), eventController.UpdateStatus)

	// Report routes
	reportRoutes := v1.Group("/reports")
	reportRoutes.Use(authMiddleware.RequireAuthenticated())
	{
		reportRoutes.GET("/events.pdf", reportController.PDF)
		reportRoutes.GET("/events.xlsx", reportController.Workbook)
	}

	// Notification stream
	v1.GET("/notifications/ws", authMiddleware.RequireAuthenticated(), notificationHandler.HandleConnection)
}
