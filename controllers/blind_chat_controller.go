package controllers

import (
	"context"
	"encoding/json"
	"net/http"
	"strconv"

	"blindmatch_server/services"

	"github.com/gorilla/mux"
)

// BlindChatController handles HTTP requests for in-match chat
type BlindChatController struct {
	ChatService *services.BlindChatService
}

// NewBlindChatController creates a new BlindChatController instance
func NewBlindChatController(chatService *services.BlindChatService) *BlindChatController {
	return &BlindChatController{ChatService: chatService}
}

// HandleSendMessage filters and delivers one chat message. A blocked message
// comes back as 422 with the finding categories; the flagged text itself is
// never echoed.
func (cc *BlindChatController) HandleSendMessage(w http.ResponseWriter, r *http.Request) {
	var request struct {
		MatchID  string `json:"matchId"`
		SenderID string `json:"senderId"`
		Content  string `json:"content"`
	}
	if err := json.NewDecoder(r.Body).Decode(&request); err != nil || request.MatchID == "" || request.SenderID == "" || request.Content == "" {
		http.Error(w, "matchId, senderId and content are required", http.StatusBadRequest)
		return
	}

	message, result, err := cc.ChatService.SendMessage(context.Background(), request.MatchID, request.SenderID, request.Content)
	if err != nil {
		writeServiceError(w, err)
		return
	}
	if result.Blocked {
		writeJSON(w, http.StatusUnprocessableEntity, map[string]interface{}{
			"blocked":    true,
			"categories": result.Categories(),
			"message":    "This message looks like it would reveal your identity",
		})
		return
	}

	writeJSON(w, http.StatusOK, message)
}

// HandleFilterPreview runs the identity filter without sending anything, so
// clients can warn before submission
func (cc *BlindChatController) HandleFilterPreview(w http.ResponseWriter, r *http.Request) {
	var request struct {
		Content string `json:"content"`
	}
	if err := json.NewDecoder(r.Body).Decode(&request); err != nil {
		http.Error(w, "Invalid request payload", http.StatusBadRequest)
		return
	}

	result := cc.ChatService.PreviewFilter(context.Background(), request.Content)
	writeJSON(w, http.StatusOK, map[string]interface{}{
		"blocked":       result.Blocked,
		"categories":    result.Categories(),
		"sanitizedText": result.SanitizedText,
	})
}

// HandleGetMessages returns the most recent messages for a match
func (cc *BlindChatController) HandleGetMessages(w http.ResponseWriter, r *http.Request) {
	matchID := mux.Vars(r)["matchId"]
	userID := r.URL.Query().Get("userId")
	if matchID == "" || userID == "" {
		http.Error(w, "matchId and userId are required", http.StatusBadRequest)
		return
	}

	limit := 0
	if raw := r.URL.Query().Get("limit"); raw != "" {
		parsed, err := strconv.Atoi(raw)
		if err != nil {
			http.Error(w, "Invalid limit value", http.StatusBadRequest)
			return
		}
		limit = parsed
	}

	messages, err := cc.ChatService.GetMessages(context.Background(), matchID, userID, limit)
	if err != nil {
		writeServiceError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, map[string]interface{}{"messages": messages})
}

// HandleMarkRead marks the partner's messages in a match as read
func (cc *BlindChatController) HandleMarkRead(w http.ResponseWriter, r *http.Request) {
	var request struct {
		MatchID string `json:"matchId"`
		UserID  string `json:"userId"`
	}
	if err := json.NewDecoder(r.Body).Decode(&request); err != nil || request.MatchID == "" || request.UserID == "" {
		http.Error(w, "matchId and userId are required", http.StatusBadRequest)
		return
	}

	if err := cc.ChatService.MarkMessagesRead(context.Background(), request.MatchID, request.UserID); err != nil {
		writeServiceError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, map[string]string{"message": "Messages marked as read"})
}
