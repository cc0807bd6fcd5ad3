// Package ws is the realtime transport: it upgrades HTTP connections,
// tracks a session per connection, and dispatches named event frames to
// handlers that call the same booking service the REST layer uses.
package ws

import (
	"context"
	"net/http"
	"sync/atomic"
	"time"

	"github.com/gorilla/websocket"
	"go.uber.org/zap"
	"golang.org/x/time/rate"

	"legalserve/internal/apperrors"
	"legalserve/internal/booking"
	"legalserve/internal/config"
	"legalserve/internal/directory"
	"legalserve/internal/relay"
)

type Gate struct {
	logger   *zap.Logger
	svc      booking.Service
	dir      *directory.Directory
	sessions *SessionManager
	registry *Registry
	upgrader websocket.Upgrader

	heartbeatInterval time.Duration
	heartbeatTimeout  time.Duration
	gcInterval        time.Duration
	registerLimit     rate.Limit
	registerBurst     int

	nextID atomic.Int64
}

func NewGate(logger *zap.Logger, svc booking.Service, dir *directory.Directory, cfg config.WSConfig) *Gate {
	if logger == nil {
		logger = zap.NewNop()
	}
	g := &Gate{
		logger:   logger,
		svc:      svc,
		dir:      dir,
		sessions: NewSessionManager(),
		registry: NewRegistry(),
		upgrader: websocket.Upgrader{
			ReadBufferSize:  4 * 1024,
			WriteBufferSize: 4 * 1024,
			// Cross-origin policy is enforced by the CORS layer on the REST
			// surface; the upgrade endpoint accepts any origin.
			CheckOrigin: func(*http.Request) bool { return true },
		},
		heartbeatInterval: secondsOr(cfg.HeartbeatIntervalSec, 10*time.Second),
		heartbeatTimeout:  secondsOr(cfg.HeartbeatTimeoutSec, 30*time.Second),
		gcInterval:        secondsOr(cfg.PruneIntervalSec, time.Minute),
	}

	burst := cfg.RegisterRateCount
	if burst <= 0 {
		burst = 5
	}
	window := secondsOr(cfg.RegisterRateWindowSec, 10*time.Second)
	g.registerBurst = burst
	g.registerLimit = rate.Every(window / time.Duration(burst))

	g.registerHandlers()
	return g
}

func secondsOr(sec int, fallback time.Duration) time.Duration {
	if sec <= 0 {
		return fallback
	}
	return time.Duration(sec) * time.Second
}

func (g *Gate) Start(ctx context.Context) {
	go g.heartbeatLoop(ctx)
	go g.gcLoop(ctx)
}

// ServeHTTP upgrades the connection and runs its read loop until the peer
// goes away.
func (g *Gate) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	wsConn, err := g.upgrader.Upgrade(w, r, nil)
	if err != nil {
		g.logger.Warn("upgrade failed",
			zap.String("remote", r.RemoteAddr),
			zap.Error(err),
		)
		return
	}

	id := g.nextID.Add(1)
	c := newConn(id, wsConn)
	s := &Session{
		ID:              id,
		Conn:            c,
		registerLimiter: rate.NewLimiter(g.registerLimit, g.registerBurst),
	}
	s.touch()
	g.sessions.Add(s)

	wsConn.SetPongHandler(func(string) error {
		s.touch()
		return nil
	})

	g.logger.Info("connection opened",
		zap.Int64("session", s.ID),
		zap.String("remote", r.RemoteAddr),
	)

	g.readLoop(r.Context(), s)
}

func (g *Gate) readLoop(ctx context.Context, s *Session) {
	for {
		_ = s.Conn.ws.SetReadDeadline(time.Now().Add(g.heartbeatTimeout))
		_, data, err := s.Conn.ws.ReadMessage()
		if err != nil {
			g.onConnClose(s)
			return
		}
		s.touch()
		g.dispatch(ctx, s, data)
	}
}

// onConnClose removes every directory binding held by this connection and
// drops the session. Unregister matches by handle, so a participant who has
// since re-registered on a newer connection keeps that newer binding.
func (g *Gate) onConnClose(s *Session) {
	g.dir.Unregister(s.Conn)
	s.Conn.close()
	g.sessions.Remove(s.ID)

	participantID, _ := s.participant()
	g.logger.Info("connection closed",
		zap.Int64("session", s.ID),
		zap.String("participant", participantID),
	)
}

func (g *Gate) dispatch(ctx context.Context, s *Session, data []byte) {
	ec := &EventContext{
		Context: ctx,
		Session: s,
		Reply: func(event string, payload any) error {
			return s.Conn.Push(event, payload)
		},
		ReplyError: func(message string) error {
			return s.Conn.Push(relay.EventError, map[string]any{"message": message})
		},
	}

	env, err := decodeEnvelope(data)
	if err != nil {
		g.logger.Warn("malformed frame",
			zap.Int64("session", s.ID),
			zap.Error(err),
		)
		_ = ec.ReplyError("malformed frame")
		return
	}
	ec.Event = env.Event
	ec.Data = env.Data

	handler, ok := g.registry.Get(env.Event)
	if !ok {
		g.logger.Warn("unknown event",
			zap.Int64("session", s.ID),
			zap.String("event", env.Event),
		)
		_ = ec.ReplyError("unknown event " + env.Event)
		return
	}

	if err := g.invoke(handler, ec); err != nil {
		appErr := apperrors.From(err)
		if appErr.Code == apperrors.CodeInternal {
			g.logger.Error("handler error",
				zap.Int64("session", s.ID),
				zap.String("event", env.Event),
				zap.Error(err),
			)
		}
		_ = ec.ReplyError(appErr.Message)
	}
}

// invoke runs a handler with panic containment: a panicking handler is an
// internal error for this one frame, not a dead process.
func (g *Gate) invoke(handler HandlerFunc, ec *EventContext) (err error) {
	defer func() {
		if rec := recover(); rec != nil {
			g.logger.Error("handler panic",
				zap.Int64("session", ec.Session.ID),
				zap.String("event", ec.Event),
				zap.Any("panic", rec),
			)
			err = apperrors.Internal("internal error", nil)
		}
	}()
	return handler(ec)
}
