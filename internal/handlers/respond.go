package handlers

import (
	"encoding/json"
	"net/http"

	"github.com/khanhng/coinfolio/internal/apperrors"
)

type errorResponse struct {
	Message string `json:"message"`
}

func respondJSON(w http.ResponseWriter, status int, v interface{}) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	if v != nil {
		_ = json.NewEncoder(w).Encode(v)
	}
}

// respondError maps the error taxonomy onto HTTP statuses. Upstream failures
// that reach a handler become 502; everything unclassified is a 500 with a
// generic message.
func respondError(w http.ResponseWriter, err error) {
	switch {
	case apperrors.IsValidation(err):
		respondJSON(w, http.StatusBadRequest, errorResponse{Message: err.Error()})
	case apperrors.IsAuth(err):
		respondJSON(w, http.StatusUnauthorized, errorResponse{Message: "Unauthorized"})
	case apperrors.IsNotFound(err):
		respondJSON(w, http.StatusNotFound, errorResponse{Message: err.Error()})
	case apperrors.IsConflict(err):
		respondJSON(w, http.StatusConflict, errorResponse{Message: err.Error()})
	case apperrors.IsUpstream(err):
		respondJSON(w, http.StatusBadGateway, errorResponse{Message: "upstream service unavailable"})
	default:
		respondJSON(w, http.StatusInternalServerError, errorResponse{Message: "Server error"})
	}
}
