package rest

import (
	"net/http"

	json "github.com/goccy/go-json"
	"github.com/julienschmidt/httprouter"
	"go.uber.org/zap"

	"legalserve/internal/apperrors"
	"legalserve/internal/booking"
	"legalserve/internal/model"
)

type Handler struct {
	svc    booking.Service
	logger *zap.Logger
}

func NewHandler(svc booking.Service, logger *zap.Logger) *Handler {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &Handler{svc: svc, logger: logger}
}

type registerRequest struct {
	Name string `json:"name"`
	ID   string `json:"id"`
}

type respondRequest struct {
	ProfessionalID string `json:"professionalId"`
	Action         string `json:"action"`
	Note           string `json:"note"`
}

func (h *Handler) RegisterProfessional(w http.ResponseWriter, r *http.Request, _ httprouter.Params) {
	h.registerParticipant(w, r, model.RoleProfessional, "professionalId")
}

func (h *Handler) RegisterClient(w http.ResponseWriter, r *http.Request, _ httprouter.Params) {
	h.registerParticipant(w, r, model.RoleClient, "clientId")
}

func (h *Handler) registerParticipant(w http.ResponseWriter, r *http.Request, role model.Role, idField string) {
	var req registerRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		h.writeErr(w, apperrors.InvalidInput("invalid request body"))
		return
	}

	p, err := h.svc.RegisterParticipant(r.Context(), role, req.ID, req.Name)
	if err != nil {
		h.writeErr(w, err)
		return
	}

	h.write(w, http.StatusOK, map[string]any{
		"success": true,
		idField:   p.ID,
	})
}

func (h *Handler) CreateAppointment(w http.ResponseWriter, r *http.Request, _ httprouter.Params) {
	var req booking.CreateRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		h.writeErr(w, apperrors.InvalidInput("invalid request body"))
		return
	}

	appt, err := h.svc.CreateAppointment(r.Context(), &req)
	if err != nil {
		h.writeErr(w, err)
		return
	}

	h.write(w, http.StatusOK, map[string]any{
		"success":     true,
		"appointment": appt,
	})
}

func (h *Handler) GetAppointment(w http.ResponseWriter, r *http.Request, ps httprouter.Params) {
	appt, err := h.svc.GetAppointment(r.Context(), ps.ByName("id"))
	if err != nil {
		h.writeErr(w, err)
		return
	}
	h.write(w, http.StatusOK, appt)
}

func (h *Handler) ListAppointments(w http.ResponseWriter, r *http.Request, _ httprouter.Params) {
	query := r.URL.Query()
	appts, err := h.svc.ListAppointments(r.Context(), query.Get("professionalId"), query.Get("clientId"))
	if err != nil {
		h.writeErr(w, err)
		return
	}
	h.write(w, http.StatusOK, appts)
}

func (h *Handler) RespondToAppointment(w http.ResponseWriter, r *http.Request, ps httprouter.Params) {
	var req respondRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		h.writeErr(w, apperrors.InvalidInput("invalid request body"))
		return
	}

	appt, err := h.svc.Respond(r.Context(), &booking.RespondRequest{
		AppointmentID: ps.ByName("id"),
		RequesterID:   req.ProfessionalID,
		Status:        model.Status(req.Action),
		Note:          req.Note,
	})
	if err != nil {
		h.writeErr(w, err)
		return
	}

	h.write(w, http.StatusOK, map[string]any{
		"success": true,
		"appt":    appt,
	})
}

func (h *Handler) Health(w http.ResponseWriter, _ *http.Request, _ httprouter.Params) {
	h.write(w, http.StatusOK, map[string]any{"status": "ok"})
}

func (h *Handler) write(w http.ResponseWriter, status int, v any) {
	if err := writeJSON(w, status, v); err != nil {
		h.logger.Error("failed to write response", zap.Error(err))
	}
}

func (h *Handler) writeErr(w http.ResponseWriter, err error) {
	appErr := apperrors.From(err)
	if appErr.Code == apperrors.CodeInternal {
		h.logger.Error("request failed", zap.Error(err))
	}
	if writeErr := writeError(w, err); writeErr != nil {
		h.logger.Error("failed to write error response", zap.Error(writeErr))
	}
}
