package app

import (
	"github.com/gin-gonic/gin"

	"github.com/wsanec-lang/sencoten-backend/internal/platform/logger"
	"github.com/wsanec-lang/sencoten-backend/internal/server"
	"github.com/wsanec-lang/sencoten-backend/internal/storage"
)

func wireRouter(log *logger.Logger, cfg Config, handlerset Handlers, mw Middleware) *gin.Engine {
	staticDir := ""
	if cfg.Storage.Mode == storage.ModeLocal {
		staticDir = cfg.Storage.LocalDir
	}
	return server.NewRouter(server.RouterConfig{
		Log:               log,
		AuthHandler:       handlerset.Auth,
		AuthMiddleware:    mw.Auth,
		DictionaryHandler: handlerset.Dictionary,
		SSEHandler:        handlerset.SSE,
		CORSOrigins:       cfg.CORSOrigins,
		StaticImageDir:    staticDir,
	})
}
