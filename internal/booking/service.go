// Package booking is the single business-logic layer behind both transports.
// The REST handlers and the realtime gate call the same methods here, so the
// two surfaces cannot drift apart.
package booking

import (
	"context"
	"errors"
	"time"

	"github.com/go-playground/validator/v10"
	"go.uber.org/zap"

	"legalserve/internal/apperrors"
	"legalserve/internal/model"
	"legalserve/internal/relay"
	"legalserve/internal/store"
)

// Notifier is what the service needs from the relay.
type Notifier interface {
	Notify(participantID, event string, payload any)
}

type CreateRequest struct {
	ProfessionalID string         `json:"professionalId" validate:"required"`
	ClientID       string         `json:"clientId" validate:"required"`
	Time           string         `json:"time" validate:"required"`
	Meta           map[string]any `json:"meta"`
}

// RespondRequest deliberately requires only the appointment id up front:
// requester and status are judged against the record itself, so an unknown
// appointment reports not-found before a bad requester reports forbidden,
// regardless of transport.
type RespondRequest struct {
	AppointmentID string `validate:"required"`
	RequesterID   string
	Status        model.Status
	Note          string
}

type Service interface {
	RegisterParticipant(ctx context.Context, role model.Role, id, name string) (*model.Participant, error)
	CreateAppointment(ctx context.Context, req *CreateRequest) (*model.Appointment, error)
	GetAppointment(ctx context.Context, id string) (*model.Appointment, error)
	ListAppointments(ctx context.Context, professionalID, clientID string) ([]*model.Appointment, error)
	Respond(ctx context.Context, req *RespondRequest) (*model.Appointment, error)
}

type bookingService struct {
	store    *store.Store
	notifier Notifier
	archive  store.Archive // nil when archiving is disabled
	validate *validator.Validate
	logger   *zap.Logger
}

func NewService(st *store.Store, notifier Notifier, archive store.Archive, logger *zap.Logger) Service {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &bookingService{
		store:    st,
		notifier: notifier,
		archive:  archive,
		validate: validator.New(),
		logger:   logger,
	}
}

func (s *bookingService) RegisterParticipant(ctx context.Context, role model.Role, id, name string) (*model.Participant, error) {
	if !role.Known() {
		return nil, apperrors.InvalidInput("unknown role")
	}

	p := s.store.PutParticipant(role, id, name)
	s.archiveParticipant(ctx, p)

	s.logger.Info("participant registered",
		zap.String("participant", p.ID),
		zap.String("role", string(p.Role)),
	)
	return p, nil
}

func (s *bookingService) CreateAppointment(ctx context.Context, req *CreateRequest) (*model.Appointment, error) {
	if err := s.validate.Struct(req); err != nil {
		return nil, apperrors.InvalidInput("professionalId, clientId and time required")
	}
	when, err := time.Parse(time.RFC3339, req.Time)
	if err != nil {
		return nil, apperrors.InvalidInput("time must be RFC3339")
	}

	appt, err := s.store.CreateAppointment(req.ProfessionalID, req.ClientID, when, req.Meta)
	if err != nil {
		return nil, mapStoreError(err)
	}
	s.archiveAppointment(ctx, appt)

	// Notify both parties. Either may be offline; the relay no-ops then and
	// the appointment is still created and returned to the caller.
	s.notifier.Notify(appt.ProfessionalID, relay.EventAppointmentRequest, appt)
	s.notifier.Notify(appt.ClientID, relay.EventAppointmentCreated, appt)

	s.logger.Info("appointment created",
		zap.String("appointment", appt.ID),
		zap.String("professional", appt.ProfessionalID),
		zap.String("client", appt.ClientID),
		zap.Time("time", appt.Time),
	)
	return appt, nil
}

func (s *bookingService) GetAppointment(ctx context.Context, id string) (*model.Appointment, error) {
	if id == "" {
		return nil, apperrors.InvalidInput("appointment id required")
	}
	appt, err := s.store.GetAppointment(id)
	if err != nil {
		return nil, mapStoreError(err)
	}
	return appt, nil
}

func (s *bookingService) ListAppointments(ctx context.Context, professionalID, clientID string) ([]*model.Appointment, error) {
	return s.store.ListAppointments(professionalID, clientID), nil
}

func (s *bookingService) Respond(ctx context.Context, req *RespondRequest) (*model.Appointment, error) {
	if err := s.validate.Struct(req); err != nil {
		return nil, apperrors.InvalidInput("appointmentId and status required")
	}

	appt, err := s.store.UpdateStatus(req.AppointmentID, req.RequesterID, req.Status, req.Note)
	if err != nil {
		return nil, mapStoreError(err)
	}
	s.archiveAppointment(ctx, appt)

	s.notifier.Notify(appt.ClientID, relay.EventAppointmentUpdate, appt)

	s.logger.Info("appointment status updated",
		zap.String("appointment", appt.ID),
		zap.String("professional", appt.ProfessionalID),
		zap.String("status", string(appt.Status)),
	)
	return appt, nil
}

func (s *bookingService) archiveAppointment(ctx context.Context, appt *model.Appointment) {
	if s.archive == nil {
		return
	}
	if err := s.archive.SaveAppointment(ctx, appt); err != nil {
		s.logger.Warn("archive appointment failed",
			zap.String("appointment", appt.ID),
			zap.Error(err),
		)
	}
}

func (s *bookingService) archiveParticipant(ctx context.Context, p *model.Participant) {
	if s.archive == nil {
		return
	}
	if err := s.archive.SaveParticipant(ctx, p); err != nil {
		s.logger.Warn("archive participant failed",
			zap.String("participant", p.ID),
			zap.Error(err),
		)
	}
}

func mapStoreError(err error) *apperrors.AppError {
	switch {
	case errors.Is(err, store.ErrNotFound):
		return apperrors.NotFound("appointment")
	case errors.Is(err, store.ErrNotProfessional):
		return apperrors.Forbidden("not authorized")
	case errors.Is(err, store.ErrInvalidStatus):
		return apperrors.InvalidInput("invalid status")
	case errors.Is(err, store.ErrMissingField):
		return apperrors.InvalidInput("professionalId, clientId and time required")
	default:
		return apperrors.Internal("internal error", err)
	}
}
