package rest

import (
	"net/http"

	json "github.com/goccy/go-json"

	"legalserve/internal/apperrors"
)

type errorResponse struct {
	Error string `json:"error"`
}

func writeJSON(w http.ResponseWriter, status int, v any) error {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	return json.NewEncoder(w).Encode(v)
}

// writeError maps any error onto the flat {"error": message} body the
// original contract uses, with the AppError's status.
func writeError(w http.ResponseWriter, err error) error {
	appErr := apperrors.From(err)
	return writeJSON(w, appErr.HTTPStatus, errorResponse{Error: appErr.Message})
}
