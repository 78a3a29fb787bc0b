package controllers

import (
	"encoding/json"
	"errors"
	"log"
	"net/http"

	"blindmatch_server/services"
)

// writeJSON writes a JSON response with the given status code
func writeJSON(w http.ResponseWriter, status int, payload interface{}) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	if err := json.NewEncoder(w).Encode(payload); err != nil {
		log.Printf("❌ Failed to encode response: %v", err)
	}
}

// writeServiceError translates domain errors into HTTP responses. Anything
// unrecognized is a 500.
func writeServiceError(w http.ResponseWriter, err error) {
	var notEligible *services.RevealNotEligibleError
	switch {
	case errors.Is(err, services.ErrMatchNotFound):
		writeJSON(w, http.StatusNotFound, map[string]string{"error": "Match not found"})
	case errors.Is(err, services.ErrNotParticipant):
		writeJSON(w, http.StatusForbidden, map[string]string{"error": "Not a participant in this match"})
	case errors.Is(err, services.ErrMatchEnded):
		writeJSON(w, http.StatusGone, map[string]string{"error": "Match has ended"})
	case errors.Is(err, services.ErrAlreadyRevealed):
		writeJSON(w, http.StatusConflict, map[string]string{"error": "Match is already revealed"})
	case errors.Is(err, services.ErrMatchingDisabled):
		writeJSON(w, http.StatusForbidden, map[string]string{"error": "Matching is not enabled for this user"})
	case errors.As(err, &notEligible):
		writeJSON(w, http.StatusConflict, map[string]interface{}{
			"error":             "Not enough messages exchanged yet",
			"remainingMessages": notEligible.Remaining,
		})
	default:
		log.Printf("❌ Unexpected service error: %v", err)
		writeJSON(w, http.StatusInternalServerError, map[string]string{"error": "Internal server error"})
	}
}

// HealthCheckHandler provides a basic health check
func HealthCheckHandler(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, http.StatusOK, map[string]string{"status": "healthy"})
}
