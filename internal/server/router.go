package server

import (
	"github.com/gin-gonic/gin"

	"github.com/wsanec-lang/sencoten-backend/internal/handlers"
	"github.com/wsanec-lang/sencoten-backend/internal/middleware"
	"github.com/wsanec-lang/sencoten-backend/internal/platform/logger"
)

type RouterConfig struct {
	Log               *logger.Logger
	AuthHandler       *handlers.AuthHandler
	AuthMiddleware    *middleware.AuthMiddleware
	DictionaryHandler *handlers.DictionaryHandler
	SSEHandler        *handlers.SSEHandler
	CORSOrigins       []string

	// StaticImageDir, when set, is served under /static/dictionary so locally
	// stored entry images resolve.
	StaticImageDir string
}

func NewRouter(cfg RouterConfig) *gin.Engine {
	router := gin.New()
	router.Use(gin.Recovery())
	router.Use(middleware.RequestLogger(cfg.Log))
	router.Use(middleware.CORS(cfg.CORSOrigins))

	if cfg.StaticImageDir != "" {
		router.Static("/static/dictionary", cfg.StaticImageDir)
	}

	// ===============
	// || Public    ||
	// ===============
	router.GET("/healthcheck", handlers.HealthCheck)
	api := router.Group("/api")
	{
		api.POST("/login", cfg.AuthHandler.Login)
		api.POST("/refresh", cfg.AuthHandler.Refresh)
		api.GET("/dictionary/public", cfg.DictionaryHandler.ListPublic)
	}

	// ===============
	// || Protected ||
	// ===============
	protected := router.Group("/api")
	protected.Use(cfg.AuthMiddleware.RequireAuth())
	// Auth
	protected.POST("/logout", cfg.AuthHandler.Logout)
	// Dictionary
	protected.GET("/dictionary", cfg.DictionaryHandler.List)
	protected.GET("/dictionary/:id", cfg.DictionaryHandler.Get)
	protected.POST("/dictionary", cfg.DictionaryHandler.Create)
	protected.PUT("/dictionary/:id", cfg.DictionaryHandler.Update)
	protected.PUT("/dictionary/:id/verify", cfg.DictionaryHandler.SetVerified)
	protected.PUT("/dictionary/:id/visibility", cfg.DictionaryHandler.SetVisibility)
	protected.DELETE("/dictionary/:id", cfg.DictionaryHandler.Delete)
	protected.POST("/dictionary/seed", cfg.DictionaryHandler.Seed)
	protected.POST("/dictionary/:id/image", cfg.DictionaryHandler.UploadImage)
	protected.POST("/dictionary/:id/image/generate", cfg.DictionaryHandler.GenerateImage)
	// SSE
	protected.GET("/events/stream", cfg.SSEHandler.Stream)

	return router
}
