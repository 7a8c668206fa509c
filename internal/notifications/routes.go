// internal/notifications/routes.go

package notifications

import (
	"github.com/gorilla/mux"

	"github.com/dapoadedire/vybe-backend/internal/auth"
)

func RegisterRoutes(router *mux.Router, handler *Handler, authMiddleware *auth.Middleware) {
	api := router.PathPrefix("/api/v1/notifications").Subrouter()
	api.Use(authMiddleware.Authenticate)

	// Fixed paths before {id}
	api.HandleFunc("/unread-count", handler.GetUnreadCount).Methods("GET")
	api.HandleFunc("/read-all", handler.MarkAllRead).Methods("PUT")

	api.HandleFunc("", handler.GetNotifications).Methods("GET")
	api.HandleFunc("/{id}/read", handler.MarkRead).Methods("PUT")
}
