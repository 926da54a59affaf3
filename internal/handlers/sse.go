package handlers

import (
	"encoding/json"
	"errors"
	"fmt"
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"

	"github.com/wsanec-lang/sencoten-backend/internal/platform/logger"
	"github.com/wsanec-lang/sencoten-backend/internal/platform/requestdata"
	"github.com/wsanec-lang/sencoten-backend/internal/sse"
)

type SSEHandler struct {
	log *logger.Logger
	hub *sse.Hub
}

func NewSSEHandler(log *logger.Logger, hub *sse.Hub) *SSEHandler {
	return &SSEHandler{log: log.With("handler", "SSEHandler"), hub: hub}
}

// Stream holds the connection open and emits one event per dictionary change.
// Clients re-fetch the lists they display when an event arrives.
func (sh *SSEHandler) Stream(c *gin.Context) {
	actor := requestdata.GetActor(c.Request.Context())
	if actor == nil || actor.UserID == uuid.Nil {
		RespondError(c, http.StatusUnauthorized, "unauthorized", errors.New("not authenticated"))
		return
	}

	flusher, ok := c.Writer.(http.Flusher)
	if !ok {
		RespondError(c, http.StatusInternalServerError, "streaming_unsupported", errors.New("streaming unsupported"))
		return
	}

	client := sh.hub.NewClient(actor.UserID)
	sh.hub.Subscribe(client, sse.ChannelDictionary)
	defer sh.hub.Remove(client)

	sh.log.Info("SSE stream open", "clientID", client.ID, "userID", actor.UserID)

	c.Writer.Header().Set("Content-Type", "text/event-stream")
	c.Writer.Header().Set("Cache-Control", "no-cache")
	c.Writer.Header().Set("Connection", "keep-alive")
	c.Writer.WriteHeader(http.StatusOK)

	fmt.Fprint(c.Writer, ": connected\n\n")
	flusher.Flush()

	for {
		select {
		case <-c.Request.Context().Done():
			return
		case <-client.Done():
			return
		case msg := <-client.Outbound:
			payload, err := json.Marshal(msg)
			if err != nil {
				sh.log.Error("Failed to encode SSE message", "error", err)
				continue
			}
			fmt.Fprintf(c.Writer, "event: %s\ndata: %s\n\n", msg.Event, payload)
			flusher.Flush()
		}
	}
}
