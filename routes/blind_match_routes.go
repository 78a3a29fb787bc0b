package routes

import (
	"blindmatch_server/controllers"
	"blindmatch_server/services"

	"github.com/gorilla/mux"
)

// RegisterBlindMatchRoutes sets up routes for the match lifecycle under /api/matches
func RegisterBlindMatchRoutes(r *mux.Router, matcher *services.MatcherService, lifecycle *services.LifecycleService) {
	controller := controllers.NewBlindMatchController(matcher, lifecycle)

	matchRouter := r.PathPrefix("/api/matches").Subrouter()

	matchRouter.HandleFunc("/user/{userId}", controller.HandleGetMatches).Methods("GET")
	matchRouter.HandleFunc("/find", controller.HandleFindMatch).Methods("POST")
	matchRouter.HandleFunc("/message-received", controller.HandleMessageReceived).Methods("POST")
	matchRouter.HandleFunc("/reveal", controller.HandleRequestReveal).Methods("POST")
	matchRouter.HandleFunc("/end", controller.HandleEndMatch).Methods("POST")
	matchRouter.HandleFunc("/run-pass", controller.HandleRunMatchingPass).Methods("POST")
}
