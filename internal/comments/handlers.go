// internal/comments/handlers.go

package comments

import (
	"encoding/json"
	"net/http"

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

// CreateComment handles POST /posts/{id}/comments
func (h *Handler) CreateComment(w http.ResponseWriter, r *http.Request) {
	userID, ok := auth.UserIDFromContext(r.Context())
	if !ok {
		utils.ErrorResponse(w, "Authentication required", http.StatusUnauthorized)
		return
	}
	postID := mux.Vars(r)["id"]

	var req CreateCommentRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		utils.ErrorResponse(w, "Invalid request body", http.StatusBadRequest)
		return
	}
	if err := utils.ValidateStruct(&req); err != nil {
		utils.ErrorResponse(w, err.Error(), http.StatusBadRequest)
		return
	}

	comment, err := h.service.Create(r.Context(), postID, userID, &req)
	if err != nil {
		switch err {
		case ErrPostNotFound:
			utils.ErrorResponse(w, "Post not found", http.StatusNotFound)
		case ErrEmptyComment:
			utils.ErrorResponse(w, "Comment content is required", http.StatusBadRequest)
		default:
			utils.ErrorResponse(w, "Failed to create comment", http.StatusInternalServerError)
		}
		return
	}
	utils.SuccessResponse(w, comment, http.StatusCreated)
}

// GetComments handles GET /posts/{id}/comments
func (h *Handler) GetComments(w http.ResponseWriter, r *http.Request) {
	postID := mux.Vars(r)["id"]

	thread, err := h.service.GetThread(r.Context(), postID)
	if err != nil {
		utils.ErrorResponse(w, "Failed to load comments", http.StatusInternalServerError)
		return
	}
	utils.SuccessResponse(w, thread, http.StatusOK)
}

// DeleteComment handles DELETE /comments/{id}
func (h *Handler) DeleteComment(w http.ResponseWriter, r *http.Request) {
	userID, ok := auth.UserIDFromContext(r.Context())
	if !ok {
		utils.ErrorResponse(w, "Authentication required", http.StatusUnauthorized)
		return
	}
	commentID := mux.Vars(r)["id"]

	if err := h.service.Delete(r.Context(), commentID, userID); err != nil {
		switch err {
		case ErrCommentNotFound:
			utils.ErrorResponse(w, "Comment not found", http.StatusNotFound)
		case ErrForbidden:
			utils.ErrorResponse(w, "You can only delete your own comments", http.StatusForbidden)
		default:
			utils.ErrorResponse(w, "Failed to delete comment", http.StatusInternalServerError)
		}
		return
	}
	utils.MessageResponse(w, "Comment deleted", http.StatusOK)
}
