// internal/comments/routes.go

package comments

import (
	"github.com/gorilla/mux"

	"github.com/dapoadedire/vybe-backend/internal/auth"
)

func RegisterRoutes(router *mux.Router, handler *Handler, authMiddleware *auth.Middleware) {
	api := router.PathPrefix("/api/v1").Subrouter()

	protected := api.NewRoute().Subrouter()
	protected.Use(authMiddleware.Authenticate)
	protected.HandleFunc("/posts/{id}/comments", handler.CreateComment).Methods("POST")
	protected.HandleFunc("/comments/{id}", handler.DeleteComment).Methods("DELETE")

	// Threads are readable logged out
	public := api.NewRoute().Subrouter()
	public.Use(authMiddleware.OptionalAuthenticate)
	public.HandleFunc("/posts/{id}/comments", handler.GetComments).Methods("GET")
}
