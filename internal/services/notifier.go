package services

import (
	"context"

	"github.com/google/uuid"

	"github.com/wsanec-lang/sencoten-backend/internal/clients/redis"
	"github.com/wsanec-lang/sencoten-backend/internal/platform/logger"
	"github.com/wsanec-lang/sencoten-backend/internal/sse"
)

// ChangeNotifier tells connected admin sessions that the entry list changed
// so they can re-fetch it. Events carry the entry id only.
type ChangeNotifier interface {
	EntryChanged(ctx context.Context, event sse.Event, entryID uuid.UUID)
}

type changeNotifier struct {
	log *logger.Logger
	hub *sse.Hub
	bus redis.Bus
}

// NewChangeNotifier builds a notifier over the in-process hub plus an
// optional redis bus (nil for single-instance deployments).
func NewChangeNotifier(log *logger.Logger, hub *sse.Hub, bus redis.Bus) ChangeNotifier {
	return &changeNotifier{
		log: log.With("service", "ChangeNotifier"),
		hub: hub,
		bus: bus,
	}
}

func (n *changeNotifier) EntryChanged(ctx context.Context, event sse.Event, entryID uuid.UUID) {
	msg := sse.Message{
		Channel: sse.ChannelDictionary,
		Event:   event,
		EntryID: entryID.String(),
	}
	if n.bus != nil {
		// The forwarder echoes published messages back into the hub, the
		// same way replicas receive them.
		if err := n.bus.Publish(ctx, msg); err != nil {
			n.log.Warn("Failed to publish change event, falling back to local hub", "error", err)
			n.hub.Broadcast(msg)
		}
		return
	}
	n.hub.Broadcast(msg)
}
