package model

import "time"

type Role string

const (
	RoleProfessional Role = "professional"
	RoleClient       Role = "client"
)

// Known reports whether r is one of the two roles the system routes to.
// Unknown roles are tolerated on registration but never bound.
func (r Role) Known() bool {
	return r == RoleProfessional || r == RoleClient
}

type Participant struct {
	ID   string `json:"id"`
	Name string `json:"name"`
	Role Role   `json:"role"`
}

type Status string

const (
	StatusPending   Status = "pending"
	StatusAccepted  Status = "accepted"
	StatusRejected  Status = "rejected"
	StatusCancelled Status = "cancelled"
)

// ValidResponse reports whether s is a status the assigned professional may
// set. Pending is the initial state only; setting it explicitly is invalid.
func (s Status) ValidResponse() bool {
	switch s {
	case StatusAccepted, StatusRejected, StatusCancelled:
		return true
	}
	return false
}

type Appointment struct {
	ID             string         `json:"id"`
	ProfessionalID string         `json:"professionalId"`
	ClientID       string         `json:"clientId"`
	Time           time.Time      `json:"time"`
	Status         Status         `json:"status"`
	Meta           map[string]any `json:"meta"`
	CreatedAt      time.Time      `json:"createdAt"`
}

// Clone returns a deep copy so callers can hand records across goroutines
// without sharing the metadata map.
func (a *Appointment) Clone() *Appointment {
	if a == nil {
		return nil
	}
	cp := *a
	cp.Meta = make(map[string]any, len(a.Meta))
	for k, v := range a.Meta {
		cp.Meta[k] = v
	}
	return &cp
}
