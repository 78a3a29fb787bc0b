package routes

import (
	"blindmatch_server/controllers"
	"blindmatch_server/services"

	"github.com/gorilla/mux"
)

// RegisterPreferenceRoutes sets up routes for matching preferences under /api/preferences
func RegisterPreferenceRoutes(r *mux.Router, preferenceService *services.PreferenceService) {
	controller := controllers.NewPreferenceController(preferenceService)

	preferenceRouter := r.PathPrefix("/api/preferences").Subrouter()

	preferenceRouter.HandleFunc("/{userId}", controller.HandleGetPreferences).Methods("GET")
	preferenceRouter.HandleFunc("/enable", controller.HandleEnableMatching).Methods("POST")
	preferenceRouter.HandleFunc("/disable", controller.HandleDisableMatching).Methods("POST")
	preferenceRouter.HandleFunc("", controller.HandleUpdatePreferences).Methods("PUT")
	preferenceRouter.HandleFunc("/block", controller.HandleBlockUser).Methods("POST")
	preferenceRouter.HandleFunc("/unblock", controller.HandleUnblockUser).Methods("POST")
}
