package controllers

import (
	"context"
	"encoding/json"
	"log"
	"net/http"

	"blindmatch_server/models"
	"blindmatch_server/services"

	"github.com/gorilla/mux"
)

// PreferenceController handles HTTP requests for matching preferences and blocks
type PreferenceController struct {
	PreferenceService *services.PreferenceService
}

// NewPreferenceController creates a new PreferenceController instance
func NewPreferenceController(preferenceService *services.PreferenceService) *PreferenceController {
	return &PreferenceController{PreferenceService: preferenceService}
}

// HandleGetPreferences returns a user's matching preferences
func (pc *PreferenceController) HandleGetPreferences(w http.ResponseWriter, r *http.Request) {
	userID := mux.Vars(r)["userId"]
	if userID == "" {
		http.Error(w, "userId is required", http.StatusBadRequest)
		return
	}

	prefs, err := pc.PreferenceService.GetPreferences(context.Background(), userID)
	if err != nil {
		writeServiceError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, prefs)
}

// HandleEnableMatching opts a user into blind matching
func (pc *PreferenceController) HandleEnableMatching(w http.ResponseWriter, r *http.Request) {
	var request struct {
		UserID string `json:"userId"`
	}
	if err := json.NewDecoder(r.Body).Decode(&request); err != nil || request.UserID == "" {
		http.Error(w, "Invalid request payload", http.StatusBadRequest)
		return
	}

	prefs, err := pc.PreferenceService.Enable(context.Background(), request.UserID)
	if err != nil {
		writeServiceError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, prefs)
}

// HandleDisableMatching opts a user out of future matching passes
func (pc *PreferenceController) HandleDisableMatching(w http.ResponseWriter, r *http.Request) {
	var request struct {
		UserID string `json:"userId"`
	}
	if err := json.NewDecoder(r.Body).Decode(&request); err != nil || request.UserID == "" {
		http.Error(w, "Invalid request payload", http.StatusBadRequest)
		return
	}

	if err := pc.PreferenceService.Disable(context.Background(), request.UserID); err != nil {
		writeServiceError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, map[string]string{"message": "Matching disabled"})
}

// HandleUpdatePreferences replaces a user's matching preferences
func (pc *PreferenceController) HandleUpdatePreferences(w http.ResponseWriter, r *http.Request) {
	var request models.MatchingPreferences
	if err := json.NewDecoder(r.Body).Decode(&request); err != nil {
		log.Println("Invalid preferences payload:", err)
		http.Error(w, "Invalid request payload", http.StatusBadRequest)
		return
	}
	if request.UserID == "" {
		http.Error(w, "userId is required", http.StatusBadRequest)
		return
	}

	updated, err := pc.PreferenceService.UpdatePreferences(context.Background(), request)
	if err != nil {
		writeServiceError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, updated)
}

// HandleBlockUser records a block so the pair is never matched again
func (pc *PreferenceController) HandleBlockUser(w http.ResponseWriter, r *http.Request) {
	var request struct {
		UserID       string `json:"userId"`
		TargetUserID string `json:"targetUserId"`
	}
	if err := json.NewDecoder(r.Body).Decode(&request); err != nil || request.UserID == "" || request.TargetUserID == "" {
		http.Error(w, "userId and targetUserId are required", http.StatusBadRequest)
		return
	}

	if err := pc.PreferenceService.BlockUser(context.Background(), request.UserID, request.TargetUserID); err != nil {
		writeServiceError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, map[string]string{"message": "User blocked"})
}

// HandleUnblockUser removes a previously recorded block
func (pc *PreferenceController) HandleUnblockUser(w http.ResponseWriter, r *http.Request) {
	var request struct {
		UserID       string `json:"userId"`
		TargetUserID string `json:"targetUserId"`
	}
	if err := json.NewDecoder(r.Body).Decode(&request); err != nil || request.UserID == "" || request.TargetUserID == "" {
		http.Error(w, "userId and targetUserId are required", http.StatusBadRequest)
		return
	}

	if err := pc.PreferenceService.UnblockUser(context.Background(), request.UserID, request.TargetUserID); err != nil {
		writeServiceError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, map[string]string{"message": "User unblocked"})
}
