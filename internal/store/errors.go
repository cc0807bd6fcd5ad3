package store

import "errors"

var (
	ErrNotFound = errors.New("appointment not found")

	ErrMissingField = errors.New("missing required field")

	// ErrNotProfessional means the requester is not the appointment's
	// assigned professional. Only the assigned professional may change
	// status, regardless of transport.
	ErrNotProfessional = errors.New("requester is not the assigned professional")

	ErrInvalidStatus = errors.New("invalid status")
)
