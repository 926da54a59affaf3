package app

import (
	"github.com/wsanec-lang/sencoten-backend/internal/handlers"
	"github.com/wsanec-lang/sencoten-backend/internal/platform/logger"
	"github.com/wsanec-lang/sencoten-backend/internal/sse"
)

type Handlers struct {
	Auth       *handlers.AuthHandler
	Dictionary *handlers.DictionaryHandler
	SSE        *handlers.SSEHandler
}

func wireHandlers(log *logger.Logger, serviceset Services, hub *sse.Hub) Handlers {
	log.Info("Wiring handlers...")
	return Handlers{
		Auth:       handlers.NewAuthHandler(serviceset.Auth),
		Dictionary: handlers.NewDictionaryHandler(log, serviceset.Dictionary, serviceset.Placeholder),
		SSE:        handlers.NewSSEHandler(log, hub),
	}
}
