// internal/profile/routes.go

package profile

import (
	"github.com/gorilla/mux"

	"github.com/dapoadedire/vybe-backend/internal/auth"
)

func RegisterRoutes(router *mux.Router, handler *Handler, authMiddleware *auth.Middleware) {
	api := router.PathPrefix("/api/v1").Subrouter()

	protected := api.NewRoute().Subrouter()
	protected.Use(authMiddleware.Authenticate)
	protected.HandleFunc("/profile", handler.GetMyProfile).Methods("GET")
	protected.HandleFunc("/profile", handler.UpdateProfile).Methods("PUT")
	protected.HandleFunc("/profile/avatar", handler.UploadAvatar).Methods("POST")

	public := api.NewRoute().Subrouter()
	public.Use(authMiddleware.OptionalAuthenticate)
	public.HandleFunc("/users/{id}/profile", handler.GetUserProfile).Methods("GET")
	public.HandleFunc("/profiles/{username}", handler.GetProfileByUsername).Methods("GET")
}
