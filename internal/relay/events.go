package relay

// Wire event names, shared by both transports. These are part of the
// external contract and must not drift.
const (
	// client -> server
	EventRegister            = "register"
	EventAppointmentResponse = "appointment:response"

	// server -> client
	EventRegistered             = "registered"
	EventAppointmentRequest     = "appointment:request"
	EventAppointmentCreated     = "appointment:created"
	EventAppointmentUpdate      = "appointment:update"
	EventAppointmentResponseAck = "appointment:response:ack"
	EventError                  = "error"
)
