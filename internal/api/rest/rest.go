package rest

import (
	"github.com/gin-gonic/gin"

	"github.com/fairlaunch/curve-registry/internal/api/middleware"
)

// SetupRoutes configures all REST API routes
func SetupRoutes(router *gin.Engine, handler Handler, authCfg middleware.AuthConfig) {
	// Health check endpoint (no auth, no version prefix)
	router.GET("/health", handler.HealthCheck)

	// API v1 routes
	v1 := router.Group("/api/v1")
	{
		// Registry parameters (public read access)
		v1.GET("/params", handler.GetParams)

		// Asset and sale endpoints (open, anyone may create, buy, or settle)
		v1.POST("/assets", handler.CreateAsset)
		v1.GET("/assets/:id", handler.GetSale)
		v1.POST("/assets/:id/buy", handler.BuyAsset)
		v1.POST("/assets/:id/settle", handler.SettleAsset)
		v1.GET("/assets/:id/price", handler.GetPrice)
		v1.GET("/assets/:id/balances/:address", handler.GetBalance)

		// Sale enumeration (public read access)
		v1.GET("/sales", handler.ListSales)

		// Journaled operations (public read access)
		v1.GET("/events", handler.ListEvents)

		// Treasury endpoints (requires authentication)
		v1.GET("/treasury", middleware.Auth(authCfg), handler.GetTreasury)
		v1.POST("/treasury/withdraw", middleware.Auth(authCfg), handler.Withdraw)
	}
}
