package ws

import (
	"context"
	"time"

	"go.uber.org/zap"
)

func (g *Gate) heartbeatLoop(ctx context.Context) {
	if g.heartbeatInterval <= 0 {
		return
	}

	ticker := time.NewTicker(g.heartbeatInterval)
	defer ticker.Stop()

	for {
		select {
		case <-ctx.Done():
			return
		case <-ticker.C:
			g.checkHeartbeat()
		}
	}
}

func (g *Gate) checkHeartbeat() {
	if g.heartbeatTimeout <= 0 {
		return
	}

	now := time.Now()
	for _, s := range g.sessions.snapshot() {
		if now.Sub(s.seenAt()) > g.heartbeatTimeout {
			participantID, _ := s.participant()
			g.logger.Warn("heartbeat timeout",
				zap.Int64("session", s.ID),
				zap.String("participant", participantID),
			)
			// Closing unblocks the read loop, which runs the usual
			// disconnect cleanup.
			s.Conn.close()
			continue
		}
		if err := s.Conn.ping(); err != nil {
			s.Conn.close()
		}
	}
}

// gcLoop sweeps sessions whose read loop never got to clean up, e.g. after
// a handler goroutine was lost to a runtime fault. Under normal operation it
// finds nothing.
func (g *Gate) gcLoop(ctx context.Context) {
	if g.gcInterval <= 0 {
		return
	}

	ticker := time.NewTicker(g.gcInterval)
	defer ticker.Stop()

	for {
		select {
		case <-ctx.Done():
			return
		case <-ticker.C:
			g.sweepStale()
		}
	}
}

func (g *Gate) sweepStale() {
	now := time.Now()
	for _, s := range g.sessions.snapshot() {
		if now.Sub(s.seenAt()) > 2*g.heartbeatTimeout {
			g.onConnClose(s)
		}
	}
}
