package ws

import (
	"go.uber.org/zap"

	"legalserve/internal/apperrors"
	"legalserve/internal/booking"
	"legalserve/internal/model"
	"legalserve/internal/relay"
)

func (g *Gate) registerHandlers() {
	// Registration errors here mean a duplicate event name, which is a
	// programming error.
	if err := g.registry.Register(relay.EventRegister, g.onRegister); err != nil {
		panic(err)
	}
	if err := g.registry.Register(relay.EventAppointmentResponse, g.onAppointmentResponse); err != nil {
		panic(err)
	}
}

type registerPayload struct {
	Role string `json:"role"`
	ID   string `json:"id"`
}

func (g *Gate) onRegister(ctx *EventContext) error {
	if !ctx.Session.registerLimiter.Allow() {
		return apperrors.InvalidInput("too many register attempts")
	}

	var p registerPayload
	if err := ctx.Bind(&p); err != nil {
		return apperrors.InvalidInput("role and id required for register")
	}
	if p.Role == "" || p.ID == "" {
		return apperrors.InvalidInput("role and id required for register")
	}

	// Unknown roles are acked but never bound, matching the HTTP surface's
	// tolerance; only professionals and clients are routable.
	role := model.Role(p.Role)
	if role.Known() {
		if _, err := g.svc.RegisterParticipant(ctx, role, p.ID, ""); err != nil {
			return err
		}
		g.dir.Register(p.ID, ctx.Session.Conn)
		ctx.Session.setParticipant(p.ID, role)

		g.logger.Info("participant bound",
			zap.Int64("session", ctx.Session.ID),
			zap.String("participant", p.ID),
			zap.String("role", p.Role),
		)
	}

	return ctx.Reply(relay.EventRegistered, map[string]any{"ok": true})
}

type responsePayload struct {
	AppointmentID string `json:"appointmentId"`
	Status        string `json:"status"`
	Note          string `json:"note"`
}

func (g *Gate) onAppointmentResponse(ctx *EventContext) error {
	var p responsePayload
	if err := ctx.Bind(&p); err != nil {
		return apperrors.InvalidInput("appointmentId and status required")
	}
	if p.AppointmentID == "" || p.Status == "" {
		return apperrors.InvalidInput("appointmentId and status required")
	}

	// The requester identity comes from the session binding, never the
	// payload. Sessions registered as clients, or not registered at all,
	// carry no professional identity and fail the store's ownership check.
	requesterID := ""
	if id, role := ctx.Session.participant(); role == model.RoleProfessional {
		requesterID = id
	}

	appt, err := g.svc.Respond(ctx, &booking.RespondRequest{
		AppointmentID: p.AppointmentID,
		RequesterID:   requesterID,
		Status:        model.Status(p.Status),
		Note:          p.Note,
	})
	if err != nil {
		return err
	}

	return ctx.Reply(relay.EventAppointmentResponseAck, appt)
}
