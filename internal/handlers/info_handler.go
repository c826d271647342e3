package handlers

import (
	"net/http"
)

// Version is reported by the root info route.
const Version = "1.0.0"

// InfoHandler describes the API.
func InfoHandler(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, http.StatusOK, map[string]any{
		"message": "The Happy Haul API",
		"version": Version,
		"endpoints": map[string]string{
			"auth":   "/api/auth/register, /api/auth/login, /api/auth/me",
			"kids":   "/api/kids",
			"search": "/api/search",
			"share":  "/api/share/:shareToken",
		},
	})
}

// HealthHandler reports liveness.
func HealthHandler(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, http.StatusOK, map[string]string{"status": "ok"})
}

// NotFoundHandler answers requests that match no route.
func NotFoundHandler(w http.ResponseWriter, r *http.Request) {
	writeError(w, http.StatusNotFound, "Route not found")
}
