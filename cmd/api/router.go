package api

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"voiceclone-backend/internal/auth/delivery"
	authUsecase "voiceclone-backend/internal/auth/usecase"
	historyDelivery "voiceclone-backend/internal/history/delivery"
	synthesisDelivery "voiceclone-backend/internal/synthesis/delivery"
)

func SetupRoutes(r *gin.Engine, authUc authUsecase.AuthUsecase, historyHandler *historyDelivery.HistoryHandler, synthesisHandler *synthesisDelivery.SynthesisHandler) {
	authHandler := delivery.NewAuthHandler(authUc)

	api := r.Group("/api")
	{
		// Health check (no auth required)
		api.GET("/health", func(c *gin.Context) {
			c.JSON(http.StatusOK, gin.H{"status": "ok"})
		})

		// Auth routes
		auth := api.Group("/auth")
		{
			auth.POST("/register", authHandler.Register)
			auth.POST("/login", authHandler.Login)
			auth.POST("/refresh", authHandler.RefreshToken)
			auth.POST("/logout", authHandler.Logout)
			auth.GET("/me", delivery.AuthMiddleware(authUc), authHandler.Me)
		}

		// Synthesis (protected)
		api.POST("/synthesize", delivery.AuthMiddleware(authUc), synthesisHandler.Synthesize)

		// History routes (protected)
		history := api.Group("/history")
		history.Use(delivery.AuthMiddleware(authUc))
		{
			history.GET("", historyHandler.List)
			history.GET("/search", historyHandler.Search)
			history.GET("/:id", historyHandler.Get)
			history.GET("/:id/audio", historyHandler.Audio)
			history.GET("/:id/voice", historyHandler.Voice)
			history.DELETE("/:id", historyHandler.Delete)
		}

		// Settings routes - Runtime configuration
		settings := api.Group("/settings")
		{
			settings.GET("/tts", GetTTSSettings)
			settings.PUT("/tts", UpdateTTSSettings)
			settings.POST("/tts/test", TestTTSConnection)
		}
	}
}
