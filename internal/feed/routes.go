// internal/feed/routes.go

package feed

import (
	"github.com/gorilla/mux"

	"github.com/dapoadedire/vybe-backend/internal/auth"
)

func RegisterRoutes(router *mux.Router, handler *Handler, authMiddleware *auth.Middleware) {
	api := router.PathPrefix("/api/v1").Subrouter()

	protected := api.PathPrefix("/feed").Subrouter()
	protected.Use(authMiddleware.Authenticate)
	protected.HandleFunc("/for-you", handler.ForYou).Methods("GET")
	protected.HandleFunc("/following", handler.Following).Methods("GET")
	protected.HandleFunc("/explore", handler.Explore).Methods("GET")
	protected.HandleFunc("/me", handler.MyFeed).Methods("GET")
	protected.HandleFunc("/saved", handler.SavedPosts).Methods("GET")

	// Profile feeds are viewable logged out
	public := api.NewRoute().Subrouter()
	public.Use(authMiddleware.OptionalAuthenticate)
	public.HandleFunc("/users/{id}/posts", handler.UserPosts).Methods("GET")
}
