package handler

import (
	"encoding/json"
	"net/http"
	"strings"
)

func (h *Handler) writeError(w http.ResponseWriter, code, message string) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(getStatusCode(code))
	json.NewEncoder(w).Encode(ErrorResponse{
		Error: ErrorDetail{
			Code:    code,
			Message: message,
		},
	})
}

func getStatusCode(errorCode string) int {
	switch {
	case errorCode == "AUTH_ERROR":
		return http.StatusUnauthorized
	case errorCode == "ACCESS_DENIED":
		return http.StatusForbidden
	case errorCode == "VALIDATION_ERROR", errorCode == "MISSING_TEAM", errorCode == "BAD_REQUEST":
		return http.StatusBadRequest
	case strings.HasSuffix(errorCode, "_NOT_FOUND"):
		return http.StatusNotFound
	default:
		return http.StatusInternalServerError
	}
}
