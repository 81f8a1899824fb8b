package utils

import (
	"encoding/json"
	"net/http"

	"go.uber.org/zap"
)

// Envelope is the response body for every endpoint.
type Envelope struct {
	Success bool   `json:"success"`
	Data    any    `json:"data,omitempty"`
	Message string `json:"message,omitempty"`
	Error   string `json:"error,omitempty"`
	Token   string `json:"token,omitempty"`
}

// RespondJSON sends a JSON response with the given status code and payload.
func RespondJSON(w http.ResponseWriter, status int, payload interface{}) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	if err := json.NewEncoder(w).Encode(payload); err != nil {
		// headers are already sent, nothing left but to log
		zap.L().Error("encode json response", zap.Error(err))
	}
}

// RespondData sends a successful envelope carrying data.
func RespondData(w http.ResponseWriter, data any) {
	RespondJSON(w, http.StatusOK, Envelope{Success: true, Data: data})
}

// RespondMessage sends a successful envelope carrying a message.
func RespondMessage(w http.ResponseWriter, message string) {
	RespondJSON(w, http.StatusOK, Envelope{Success: true, Message: message})
}

// RespondError sends a failed envelope. Business failures use 200; only the
// access control stages pass 401 or 403.
func RespondError(w http.ResponseWriter, status int, message string) {
	RespondJSON(w, status, Envelope{Success: false, Error: message})
}
