package rest

import (
	"net/http"

	"github.com/go-chi/cors"
	"github.com/julienschmidt/httprouter"
)

// NewRouter wires the REST surface plus the websocket upgrade endpoint and
// wraps everything with CORS; the front end is served from another origin.
func NewRouter(h *Handler, wsHandler http.Handler, allowedOrigins []string) http.Handler {
	router := httprouter.New()

	router.POST("/professionals", h.RegisterProfessional)
	router.POST("/clients", h.RegisterClient)
	router.POST("/appointments", h.CreateAppointment)
	router.GET("/appointments", h.ListAppointments)
	router.GET("/appointments/:id", h.GetAppointment)
	router.POST("/appointments/:id/respond", h.RespondToAppointment)
	router.GET("/healthz", h.Health)

	if wsHandler != nil {
		router.Handler(http.MethodGet, "/ws", wsHandler)
	}

	if len(allowedOrigins) == 0 {
		allowedOrigins = []string{"*"}
	}
	c := cors.New(cors.Options{
		AllowedOrigins: allowedOrigins,
		AllowedMethods: []string{http.MethodGet, http.MethodPost},
		AllowedHeaders: []string{"*"},
	})
	return c.Handler(router)
}
