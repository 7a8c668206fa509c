// internal/posts/routes.go

package posts

import (
	"github.com/gorilla/mux"

	"github.com/dapoadedire/vybe-backend/internal/auth"
)

func RegisterRoutes(router *mux.Router, handler *Handler, authMiddleware *auth.Middleware) {
	api := router.PathPrefix("/api/v1").Subrouter()
	api.Use(authMiddleware.Authenticate)

	// Must come before the {id} routes
	api.HandleFunc("/posts/images", handler.UploadImage).Methods("POST")

	// Post CRUD operations
	api.HandleFunc("/posts", handler.CreatePost).Methods("POST")
	api.HandleFunc("/posts/{id}", handler.GetPost).Methods("GET")
	api.HandleFunc("/posts/{id}", handler.UpdatePost).Methods("PUT")
	api.HandleFunc("/posts/{id}", handler.DeletePost).Methods("DELETE")

	// Toggle operations
	api.HandleFunc("/posts/{id}/like", handler.ToggleLike).Methods("POST")
	api.HandleFunc("/posts/{id}/share", handler.ToggleShare).Methods("POST")
	api.HandleFunc("/posts/{id}/save", handler.ToggleSave).Methods("POST")
}
