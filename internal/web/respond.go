package web

import (
	"errors"
	"log/slog"
	"net/http"

	"github.com/bytedance/sonic"

	"github.com/omarshaarawi/ffdash/internal/service"
)

func respondJSON(w http.ResponseWriter, status int, data any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	if err := sonic.ConfigStd.NewEncoder(w).Encode(data); err != nil {
		slog.Error("Failed to encode response", "error", err)
	}
}

func respondError(w http.ResponseWriter, status int, message string, err error) {
	response := map[string]any{
		"error":  message,
		"status": status,
	}
	if err != nil {
		response["details"] = err.Error()
	}
	respondJSON(w, status, response)
}

// statusFor maps a service error onto an HTTP status. Anything that is not a
// bad selection came from loading league data.
func statusFor(err error) int {
	if errors.Is(err, service.ErrInvalidSelection) {
		return http.StatusBadRequest
	}
	return http.StatusBadGateway
}

func messageFor(status int) string {
	if status == http.StatusBadRequest {
		return "Invalid selection"
	}
	return "Failed to load league data"
}
