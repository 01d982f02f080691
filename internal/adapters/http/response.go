package http

import (
	"encoding/json"
	"net/http"

	"github.com/inkinno/projects/internal/contracts"
)

func writeJSON(w http.ResponseWriter, statusCode int, payload any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(statusCode)
	_ = json.NewEncoder(w).Encode(payload)
}

func writeSuccess(w http.ResponseWriter, statusCode int, data any) {
	writeJSON(w, statusCode, contracts.Envelope[any]{
		Status: "success",
		Data:   data,
	})
}

func writeMessage(w http.ResponseWriter, statusCode int, message string) {
	writeJSON(w, statusCode, contracts.Envelope[any]{
		Status:  "success",
		Message: message,
	})
}

func writeError(w http.ResponseWriter, statusCode int, code, message string) {
	writeJSON(w, statusCode, contracts.Envelope[any]{
		Status:  "error",
		Code:    code,
		Message: message,
	})
}

// writeErrorWithData is used when a failed operation still has a partial result to report.
func writeErrorWithData(w http.ResponseWriter, statusCode int, code, message string, data any) {
	writeJSON(w, statusCode, contracts.Envelope[any]{
		Status:  "error",
		Data:    data,
		Code:    code,
		Message: message,
	})
}
