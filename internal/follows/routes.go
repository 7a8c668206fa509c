// internal/follows/routes.go

package follows

import (
	"github.com/gorilla/mux"

	"github.com/dapoadedire/vybe-backend/internal/auth"
)

func RegisterRoutes(router *mux.Router, handler *Handler, authMiddleware *auth.Middleware) {
	api := router.PathPrefix("/api/v1").Subrouter()
	api.Use(authMiddleware.Authenticate)

	api.HandleFunc("/users/{id}/follow", handler.ToggleFollow).Methods("POST")
	api.HandleFunc("/users/{id}/follow-counts", handler.GetCounts).Methods("GET")
	api.HandleFunc("/users/{id}/followers", handler.GetFollowers).Methods("GET")
	api.HandleFunc("/users/{id}/following", handler.GetFollowing).Methods("GET")
}
