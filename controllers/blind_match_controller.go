package controllers

import (
	"context"
	"encoding/json"
	"log"
	"net/http"

	"blindmatch_server/services"

	"github.com/gorilla/mux"
)

// BlindMatchController handles HTTP requests for the blind match lifecycle
type BlindMatchController struct {
	Matcher   *services.MatcherService
	Lifecycle *services.LifecycleService
}

// NewBlindMatchController creates a new BlindMatchController instance
func NewBlindMatchController(matcher *services.MatcherService, lifecycle *services.LifecycleService) *BlindMatchController {
	return &BlindMatchController{Matcher: matcher, Lifecycle: lifecycle}
}

// HandleGetMatches returns the caller's current matches with the partner masked
func (bc *BlindMatchController) HandleGetMatches(w http.ResponseWriter, r *http.Request) {
	userID := mux.Vars(r)["userId"]
	if userID == "" {
		http.Error(w, "userId is required", http.StatusBadRequest)
		return
	}

	views, err := bc.Lifecycle.ListActiveMatches(context.Background(), userID)
	if err != nil {
		writeServiceError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, map[string]interface{}{"matches": views})
}

// HandleFindMatch tries to create a match for the requesting user right now
func (bc *BlindMatchController) HandleFindMatch(w http.ResponseWriter, r *http.Request) {
	var request struct {
		UserID string `json:"userId"`
	}
	if err := json.NewDecoder(r.Body).Decode(&request); err != nil || request.UserID == "" {
		http.Error(w, "userId is required", http.StatusBadRequest)
		return
	}

	match, err := bc.Matcher.FindMatchNow(context.Background(), request.UserID)
	if err != nil {
		writeServiceError(w, err)
		return
	}
	if match == nil {
		writeJSON(w, http.StatusOK, map[string]interface{}{
			"matched": false,
			"message": "No match available right now",
		})
		return
	}

	writeJSON(w, http.StatusOK, map[string]interface{}{
		"matched":         true,
		"matchId":         match.MatchID,
		"revealThreshold": match.RevealThreshold,
	})
}

// HandleRequestReveal records one participant's consent to reveal identities
func (bc *BlindMatchController) HandleRequestReveal(w http.ResponseWriter, r *http.Request) {
	var request struct {
		MatchID string `json:"matchId"`
		UserID  string `json:"userId"`
	}
	if err := json.NewDecoder(r.Body).Decode(&request); err != nil || request.MatchID == "" || request.UserID == "" {
		http.Error(w, "matchId and userId are required", http.StatusBadRequest)
		return
	}

	outcome, err := bc.Lifecycle.RequestReveal(context.Background(), request.MatchID, request.UserID)
	if err != nil {
		writeServiceError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, outcome)
}

// HandleMessageReceived counts a message delivered over an external transport
// against the match's reveal threshold
func (bc *BlindMatchController) HandleMessageReceived(w http.ResponseWriter, r *http.Request) {
	var request struct {
		MatchID string `json:"matchId"`
	}
	if err := json.NewDecoder(r.Body).Decode(&request); err != nil || request.MatchID == "" {
		http.Error(w, "matchId is required", http.StatusBadRequest)
		return
	}

	count, err := bc.Lifecycle.RecordMessage(context.Background(), request.MatchID)
	if err != nil {
		writeServiceError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, map[string]int{"messageCount": count})
}

// HandleEndMatch terminates a match on behalf of one participant
func (bc *BlindMatchController) HandleEndMatch(w http.ResponseWriter, r *http.Request) {
	var request struct {
		MatchID string `json:"matchId"`
		UserID  string `json:"userId"`
		Reason  string `json:"reason"`
	}
	if err := json.NewDecoder(r.Body).Decode(&request); err != nil || request.MatchID == "" || request.UserID == "" {
		http.Error(w, "matchId and userId are required", http.StatusBadRequest)
		return
	}

	if err := bc.Lifecycle.EndMatch(context.Background(), request.MatchID, request.UserID, request.Reason); err != nil {
		writeServiceError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, map[string]string{"message": "Match ended"})
}

// HandleRunMatchingPass triggers one batch matching pass immediately
func (bc *BlindMatchController) HandleRunMatchingPass(w http.ResponseWriter, r *http.Request) {
	created, err := bc.Matcher.RunMatchingPass(context.Background())
	if err != nil {
		log.Println("Error running matching pass:", err)
		writeServiceError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, map[string]interface{}{"matchesCreated": len(created)})
}
