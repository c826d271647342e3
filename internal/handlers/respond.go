package handlers

import (
	"encoding/json"
	"net/http"

	log "github.com/sirupsen/logrus"

	"github.com/staranysa/TheHappyHaul/internal/services"
)

func writeJSON(w http.ResponseWriter, status int, body any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	if err := json.NewEncoder(w).Encode(body); err != nil {
		log.WithError(err).Warn("Failed to encode response")
	}
}

func writeError(w http.ResponseWriter, status int, message string) {
	writeJSON(w, status, map[string]string{"error": message})
}

// writeServiceError reports a service failure. Client errors keep their own
// message; anything else is logged and answered with fallback.
func writeServiceError(w http.ResponseWriter, err error, fallback string) {
	switch services.KindOf(err) {
	case services.KindValidation:
		writeError(w, http.StatusBadRequest, err.Error())
	case services.KindNotFound:
		writeError(w, http.StatusNotFound, err.Error())
	case services.KindForbidden:
		writeError(w, http.StatusForbidden, err.Error())
	case services.KindUnauthorized:
		writeError(w, http.StatusUnauthorized, err.Error())
	default:
		log.WithError(err).Error(fallback)
		writeError(w, http.StatusInternalServerError, fallback)
	}
}

func decodeJSON(w http.ResponseWriter, r *http.Request, dst any) bool {
	defer r.Body.Close()
	if err := json.NewDecoder(r.Body).Decode(dst); err != nil {
		log.WithError(err).Warn("Failed to decode request body")
		writeError(w, http.StatusBadRequest, "Invalid request payload")
		return false
	}
	return true
}

type successResponse struct {
	Success bool `json:"success"`
}
