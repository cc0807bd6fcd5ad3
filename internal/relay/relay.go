// Package relay pushes events at a participant's current connection, if any.
// There is no queueing, no retry and no durability: a participant without a
// live connection simply misses the event.
package relay

import (
	"go.uber.org/zap"

	"legalserve/internal/directory"
)

type Relay struct {
	directory *directory.Directory
	logger    *zap.Logger
}

func New(dir *directory.Directory, logger *zap.Logger) *Relay {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &Relay{
		directory: dir,
		logger:    logger,
	}
}

// Notify looks up participantID's connection and pushes the event over it.
// An absent binding is a deliberate no-op. A failed push is logged and
// dropped; the connection's own read loop owns teardown.
func (r *Relay) Notify(participantID, event string, payload any) {
	h, ok := r.directory.Lookup(participantID)
	if !ok {
		r.logger.Debug("no live connection, dropping event",
			zap.String("participant", participantID),
			zap.String("event", event),
		)
		return
	}

	if err := h.Push(event, payload); err != nil {
		r.logger.Warn("push failed",
			zap.String("participant", participantID),
			zap.String("event", event),
			zap.Error(err),
		)
	}
}
