package routes

import (
	"blindmatch_server/controllers"
	"blindmatch_server/services"

	"github.com/gorilla/mux"
)

// RegisterBlindChatRoutes sets up routes for in-match chat under /api/chat
func RegisterBlindChatRoutes(r *mux.Router, chatService *services.BlindChatService) {
	controller := controllers.NewBlindChatController(chatService)

	chatRouter := r.PathPrefix("/api/chat").Subrouter()

	chatRouter.HandleFunc("/message", controller.HandleSendMessage).Methods("POST")
	chatRouter.HandleFunc("/filter", controller.HandleFilterPreview).Methods("POST")
	chatRouter.HandleFunc("/messages/{matchId}", controller.HandleGetMessages).Methods("GET")
	chatRouter.HandleFunc("/markRead", controller.HandleMarkRead).Methods("POST")
}
