package utils

import (
	"encoding/json"
	"log"
	"net/http"

	"coffee-backend/internal/apperr"
)

func JSON(w http.ResponseWriter, status int, data interface{}) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	if data == nil {
		return
	}
	if err := json.NewEncoder(w).Encode(data); err != nil {
		log.Printf("[HTTP] Failed to encode response: %v", err)
	}
}

// Message writes {"message": msg}.
func Message(w http.ResponseWriter, status int, msg string) {
	JSON(w, status, map[string]string{"message": msg})
}

// Error writes err with the status of its kind. Unclassified errors are
// logged and hidden behind a generic message.
func Error(w http.ResponseWriter, r *http.Request, err error) {
	status := apperr.HTTPStatus(err)
	if status == http.StatusInternalServerError {
		log.Printf("[HTTP] %s %s: %v", r.Method, r.URL.Path, err)
		Message(w, status, "internal server error")
		return
	}
	Message(w, status, err.Error())
}
