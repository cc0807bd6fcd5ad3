package ws

import (
	"testing"
	"time"

	"legalserve/internal/relay"
)

// waitForSessions polls until the gate tracks exactly n sessions; the server
// side of an upgrade or a close runs on its own goroutine.
func waitForSessions(t *testing.T, g *Gate, n int) {
	t.Helper()
	deadline := time.Now().Add(3 * time.Second)
	for g.sessions.Len() != n {
		if time.Now().After(deadline) {
			t.Fatalf("expected %d sessions, have %d", n, g.sessions.Len())
		}
		time.Sleep(10 * time.Millisecond)
	}
}

func onlySession(t *testing.T, g *Gate) *Session {
	t.Helper()
	waitForSessions(t, g, 1)
	return g.sessions.snapshot()[0]
}

func backdate(s *Session, age time.Duration) {
	s.lastSeen.Store(time.Now().Add(-age).UnixNano())
}

func TestHeartbeatTimeoutClosesStaleConnection(t *testing.T) {
	e := newTestEnv(t)

	stale := e.dial(t)
	staleSess := onlySession(t, e.gate)

	live := e.dial(t)
	waitForSessions(t, e.gate, 2)

	backdate(staleSess, time.Hour)
	e.gate.checkHeartbeat()

	// The timed-out connection is closed server-side; its read fails.
	_ = stale.SetReadDeadline(time.Now().Add(3 * time.Second))
	if _, _, err := stale.ReadMessage(); err == nil {
		t.Fatal("expected read failure on timed-out connection")
	}
	// Its read loop runs the usual disconnect cleanup.
	waitForSessions(t, e.gate, 1)

	// The fresh session survived the sweep and still handles events.
	register(t, live, "professional", "P1")
}

func TestHeartbeatLeavesLiveSessionAlone(t *testing.T) {
	e := newTestEnv(t)

	conn := e.dial(t)
	onlySession(t, e.gate)

	e.gate.checkHeartbeat()

	register(t, conn, "professional", "P1")
	if e.gate.sessions.Len() != 1 {
		t.Errorf("live session pruned, have %d sessions", e.gate.sessions.Len())
	}
}

func TestStaleSweepDropsSessionAndBinding(t *testing.T) {
	e := newTestEnv(t)

	conn := e.dial(t)
	register(t, conn, "professional", "P1")
	sess := onlySession(t, e.gate)

	backdate(sess, 2*e.gate.heartbeatTimeout+time.Minute)
	e.gate.sweepStale()

	if e.gate.sessions.Len() != 0 {
		t.Errorf("expected session removed, have %d", e.gate.sessions.Len())
	}
	if _, ok := e.dir.Lookup("P1"); ok {
		t.Error("expected directory binding removed")
	}
	_ = conn.SetReadDeadline(time.Now().Add(3 * time.Second))
	if _, _, err := conn.ReadMessage(); err == nil {
		t.Fatal("expected read failure on swept connection")
	}

	// A notify to the swept participant is now a silent no-op.
	e.relay.Notify("P1", relay.EventAppointmentRequest, map[string]any{"id": "a1"})
}

func TestStaleSweepKeepsRecentSession(t *testing.T) {
	e := newTestEnv(t)

	conn := e.dial(t)
	sess := onlySession(t, e.gate)

	// Older than the heartbeat timeout, but not old enough for the sweep.
	backdate(sess, e.gate.heartbeatTimeout+time.Second)
	e.gate.sweepStale()

	if e.gate.sessions.Len() != 1 {
		t.Fatalf("expected session kept, have %d", e.gate.sessions.Len())
	}
	register(t, conn, "client", "C1")
}
