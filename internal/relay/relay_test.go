package relay

import (
	"errors"
	"testing"

	"legalserve/internal/directory"
)

type recordingHandle struct {
	events   []string
	payloads []any
	pushErr  error
}

func (h *recordingHandle) Push(event string, payload any) error {
	if h.pushErr != nil {
		return h.pushErr
	}
	h.events = append(h.events, event)
	h.payloads = append(h.payloads, payload)
	return nil
}

func TestNotifyDelivers(t *testing.T) {
	dir := directory.New()
	h := &recordingHandle{}
	dir.Register("prof-1", h)

	r := New(dir, nil)
	r.Notify("prof-1", EventAppointmentRequest, map[string]any{"id": "a1"})

	if len(h.events) != 1 {
		t.Fatalf("expected 1 event, got %d", len(h.events))
	}
	if h.events[0] != EventAppointmentRequest {
		t.Errorf("expected %s, got %s", EventAppointmentRequest, h.events[0])
	}
}

func TestNotifyOfflineParticipantIsNoop(t *testing.T) {
	r := New(directory.New(), nil)

	// Must not panic, retry or error.
	r.Notify("nobody", EventAppointmentCreated, nil)
}

func TestNotifyPushFailureIsSwallowed(t *testing.T) {
	dir := directory.New()
	h := &recordingHandle{pushErr: errors.New("broken pipe")}
	dir.Register("client-1", h)

	r := New(dir, nil)
	r.Notify("client-1", EventAppointmentUpdate, nil)

	if len(h.events) != 0 {
		t.Errorf("expected no recorded events on push failure, got %d", len(h.events))
	}
}
