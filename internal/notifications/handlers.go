// internal/notifications/handlers.go

package notifications

import (
	"net/http"
	"strconv"

	"github.com/gorilla/mux"

	"github.com/dapoadedire/vybe-backend/internal/auth"
	"github.com/dapoadedire/vybe-backend/internal/common/utils"
)

type Handler struct {
	service Service
}

func NewHandler(service Service) *Handler {
	return &Handler{service: service}
}

// GetNotifications handles GET /notifications
func (h *Handler) GetNotifications(w http.ResponseWriter, r *http.Request) {
	userID, ok := auth.UserIDFromContext(r.Context())
	if !ok {
		utils.ErrorResponse(w, "Authentication required", http.StatusUnauthorized)
		return
	}

	limit, offset := getPagination(r)
	list, err := h.service.List(r.Context(), userID, limit, offset)
	if err != nil {
		utils.ErrorResponse(w, "Failed to load notifications", http.StatusInternalServerError)
		return
	}
	utils.SuccessResponse(w, list, http.StatusOK)
}

// MarkRead handles PUT /notifications/{id}/read
func (h *Handler) MarkRead(w http.ResponseWriter, r *http.Request) {
	userID, ok := auth.UserIDFromContext(r.Context())
	if !ok {
		utils.ErrorResponse(w, "Authentication required", http.StatusUnauthorized)
		return
	}

	id := mux.Vars(r)["id"]
	if err := h.service.MarkRead(r.Context(), id, userID); err != nil {
		if err == ErrNotificationNotFound {
			utils.ErrorResponse(w, "Notification not found", http.StatusNotFound)
			return
		}
		utils.ErrorResponse(w, "Failed to update notification", http.StatusInternalServerError)
		return
	}
	utils.MessageResponse(w, "Notification marked as read", http.StatusOK)
}

// MarkAllRead handles PUT /notifications/read-all
func (h *Handler) MarkAllRead(w http.ResponseWriter, r *http.Request) {
	userID, ok := auth.UserIDFromContext(r.Context())
	if !ok {
		utils.ErrorResponse(w, "Authentication required", http.StatusUnauthorized)
		return
	}

	if err := h.service.MarkAllRead(r.Context(), userID); err != nil {
		utils.ErrorResponse(w, "Failed to update notifications", http.StatusInternalServerError)
		return
	}
	utils.MessageResponse(w, "All notifications marked as read", http.StatusOK)
}

// GetUnreadCount handles GET /notifications/unread-count
func (h *Handler) GetUnreadCount(w http.ResponseWriter, r *http.Request) {
	userID, ok := auth.UserIDFromContext(r.Context())
	if !ok {
		utils.ErrorResponse(w, "Authentication required", http.StatusUnauthorized)
		return
	}

	count, err := h.service.CountUnread(r.Context(), userID)
	if err != nil {
		utils.ErrorResponse(w, "Failed to count notifications", http.StatusInternalServerError)
		return
	}
	utils.SuccessResponse(w, map[string]int{"unread_count": count}, http.StatusOK)
}

func getPagination(r *http.Request) (int, int) {
	limit := 20
	offset := 0

	if v := r.URL.Query().Get("limit"); v != "" {
		if parsed, err := strconv.Atoi(v); err == nil && parsed > 0 && parsed <= 100 {
			limit = parsed
		}
	}
	if v := r.URL.Query().Get("offset"); v != "" {
		if parsed, err := strconv.Atoi(v); err == nil && parsed >= 0 {
			offset = parsed
		}
	}
	return limit, offset
}
