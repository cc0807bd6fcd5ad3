package booking

import (
	"context"
	"errors"
	"testing"

	"legalserve/internal/apperrors"
	"legalserve/internal/model"
	"legalserve/internal/relay"
	"legalserve/internal/store"
)

type notified struct {
	participant string
	event       string
	payload     any
}

type fakeNotifier struct {
	events []notified
}

func (f *fakeNotifier) Notify(participantID, event string, payload any) {
	f.events = append(f.events, notified{participant: participantID, event: event, payload: payload})
}

func (f *fakeNotifier) byEvent(event string) []notified {
	var out []notified
	for _, n := range f.events {
		if n.event == event {
			out = append(out, n)
		}
	}
	return out
}

type failingArchive struct {
	err error
}

func (a *failingArchive) SaveAppointment(ctx context.Context, appt *model.Appointment) error {
	return a.err
}

func (a *failingArchive) SaveParticipant(ctx context.Context, p *model.Participant) error {
	return a.err
}

func newTestService() (Service, *store.Store, *fakeNotifier) {
	st := store.New()
	n := &fakeNotifier{}
	return NewService(st, n, nil, nil), st, n
}

func validCreate() *CreateRequest {
	return &CreateRequest{
		ProfessionalID: "P1",
		ClientID:       "C1",
		Time:           "2025-01-01T10:00:00Z",
	}
}

func TestCreateAppointmentNotifiesBothParties(t *testing.T) {
	svc, _, n := newTestService()

	appt, err := svc.CreateAppointment(context.Background(), validCreate())
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if appt.Status != model.StatusPending {
		t.Errorf("expected pending, got %s", appt.Status)
	}

	reqs := n.byEvent(relay.EventAppointmentRequest)
	if len(reqs) != 1 || reqs[0].participant != "P1" {
		t.Errorf("expected one appointment:request to P1, got %+v", reqs)
	}
	created := n.byEvent(relay.EventAppointmentCreated)
	if len(created) != 1 || created[0].participant != "C1" {
		t.Errorf("expected one appointment:created to C1, got %+v", created)
	}
}

func TestCreateAppointmentMissingField(t *testing.T) {
	svc, st, n := newTestService()

	req := validCreate()
	req.Time = ""
	_, err := svc.CreateAppointment(context.Background(), req)
	if err == nil {
		t.Fatal("expected validation error")
	}
	if apperrors.From(err).HTTPStatus != 400 {
		t.Errorf("expected 400, got %d", apperrors.From(err).HTTPStatus)
	}

	if got := st.ListAppointments("", ""); len(got) != 0 {
		t.Error("no record must be stored on failed create")
	}
	if len(n.events) != 0 {
		t.Error("no notification must be sent on failed create")
	}
}

func TestCreateAppointmentBadTime(t *testing.T) {
	svc, _, _ := newTestService()

	req := validCreate()
	req.Time = "tomorrow-ish"
	if _, err := svc.CreateAppointment(context.Background(), req); err == nil {
		t.Fatal("expected validation error for unparseable time")
	}
}

func TestRespondNotifiesClientOnce(t *testing.T) {
	svc, _, n := newTestService()
	appt, _ := svc.CreateAppointment(context.Background(), validCreate())

	updated, err := svc.Respond(context.Background(), &RespondRequest{
		AppointmentID: appt.ID,
		RequesterID:   "P1",
		Status:        model.StatusAccepted,
	})
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if updated.Status != model.StatusAccepted {
		t.Errorf("expected accepted, got %s", updated.Status)
	}

	updates := n.byEvent(relay.EventAppointmentUpdate)
	if len(updates) != 1 {
		t.Fatalf("expected exactly one appointment:update, got %d", len(updates))
	}
	if updates[0].participant != "C1" {
		t.Errorf("update must go to the client, went to %s", updates[0].participant)
	}
	got, ok := updates[0].payload.(*model.Appointment)
	if !ok || got.Status != model.StatusAccepted {
		t.Error("update payload must carry the updated record")
	}
}

func TestRespondUnauthorized(t *testing.T) {
	svc, _, n := newTestService()
	appt, _ := svc.CreateAppointment(context.Background(), validCreate())

	_, err := svc.Respond(context.Background(), &RespondRequest{
		AppointmentID: appt.ID,
		RequesterID:   "P2",
		Status:        model.StatusAccepted,
	})
	if apperrors.From(err).HTTPStatus != 403 {
		t.Fatalf("expected 403, got %v", err)
	}

	// Record unchanged, client not notified.
	got, _ := svc.GetAppointment(context.Background(), appt.ID)
	if got.Status != model.StatusPending {
		t.Error("record must be unchanged after unauthorized respond")
	}
	if len(n.byEvent(relay.EventAppointmentUpdate)) != 0 {
		t.Error("no update event after unauthorized respond")
	}
}

func TestRespondInvalidStatus(t *testing.T) {
	svc, _, _ := newTestService()
	appt, _ := svc.CreateAppointment(context.Background(), validCreate())

	for _, status := range []model.Status{model.StatusPending, "done"} {
		_, err := svc.Respond(context.Background(), &RespondRequest{
			AppointmentID: appt.ID,
			RequesterID:   "P1",
			Status:        status,
		})
		if apperrors.From(err).HTTPStatus != 400 {
			t.Errorf("status %q: expected 400, got %v", status, err)
		}
	}
}

func TestRespondNotFoundBeforeAuthorization(t *testing.T) {
	svc, _, _ := newTestService()

	_, err := svc.Respond(context.Background(), &RespondRequest{
		AppointmentID: "missing",
		RequesterID:   "",
		Status:        model.StatusAccepted,
	})
	if apperrors.From(err).HTTPStatus != 404 {
		t.Errorf("unknown appointment must report not-found first, got %v", err)
	}
}

func TestGetAppointmentNotFound(t *testing.T) {
	svc, _, _ := newTestService()

	_, err := svc.GetAppointment(context.Background(), "missing")
	if apperrors.From(err).HTTPStatus != 404 {
		t.Errorf("expected 404, got %v", err)
	}
}

func TestRegisterParticipant(t *testing.T) {
	svc, st, _ := newTestService()

	p, err := svc.RegisterParticipant(context.Background(), model.RoleProfessional, "", "Dr. A")
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if p.ID == "" {
		t.Error("expected generated id")
	}
	if _, ok := st.GetParticipant(p.ID); !ok {
		t.Error("participant not stored")
	}

	if _, err := svc.RegisterParticipant(context.Background(), "robot", "R1", ""); err == nil {
		t.Error("expected error for unknown role")
	}
}

func TestArchiveFailureDoesNotFailOperations(t *testing.T) {
	st := store.New()
	n := &fakeNotifier{}
	svc := NewService(st, n, &failingArchive{err: errors.New("redis down")}, nil)

	appt, err := svc.CreateAppointment(context.Background(), validCreate())
	if err != nil {
		t.Fatalf("create must succeed despite archive failure: %v", err)
	}
	if _, err := svc.Respond(context.Background(), &RespondRequest{
		AppointmentID: appt.ID,
		RequesterID:   "P1",
		Status:        model.StatusRejected,
	}); err != nil {
		t.Fatalf("respond must succeed despite archive failure: %v", err)
	}
	if _, err := svc.RegisterParticipant(context.Background(), model.RoleClient, "C9", ""); err != nil {
		t.Fatalf("register must succeed despite archive failure: %v", err)
	}
}
