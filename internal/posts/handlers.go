// internal/posts/handlers.go

package posts

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"

	"github.com/gorilla/mux"

	"github.com/dapoadedire/vybe-backend/internal/auth"
	"github.com/dapoadedire/vybe-backend/internal/common/utils"
)

type Handler struct {
	service *Service
}

func NewHandler(service *Service) *Handler {
	return &Handler{service: service}
}

func (h *Handler) CreatePost(w http.ResponseWriter, r *http.Request) {
	userID, ok := auth.UserIDFromContext(r.Context())
	if !ok {
		utils.ErrorResponse(w, "Unauthorized", http.StatusUnauthorized)
		return
	}

	var req CreatePostRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		utils.ErrorResponse(w, "Invalid request body", http.StatusBadRequest)
		return
	}

	if err := utils.ValidateStruct(&req); err != nil {
		utils.ErrorResponse(w, err.Error(), http.StatusBadRequest)
		return
	}

	email, _ := r.Context().Value("email").(string)
	username, _ := r.Context().Value("username").(string)
	seed := &auth.ProfileSeed{UserID: userID, Username: username}
	if email != "" {
		seed.Email = &email
	}

	post, err := h.service.CreatePost(r.Context(), seed, &req)
	if err != nil {
		if errors.Is(err, ErrEmptyPost) {
			utils.ErrorResponse(w, err.Error(), http.StatusBadRequest)
			return
		}
		utils.ErrorResponse(w, "Failed to create post", http.StatusInternalServerError)
		return
	}

	utils.SuccessResponse(w, post, http.StatusCreated)
}

func (h *Handler) GetPost(w http.ResponseWriter, r *http.Request) {
	postID := mux.Vars(r)["id"]

	post, err := h.service.GetPost(r.Context(), postID)
	if err != nil {
		if errors.Is(err, ErrPostNotFound) {
			utils.ErrorResponse(w, "Post not found", http.StatusNotFound)
			return
		}
		utils.ErrorResponse(w, "Failed to get post", http.StatusInternalServerError)
		return
	}

	utils.SuccessResponse(w, post, http.StatusOK)
}

func (h *Handler) UpdatePost(w http.ResponseWriter, r *http.Request) {
	userID, ok := auth.UserIDFromContext(r.Context())
	if !ok {
		utils.ErrorResponse(w, "Unauthorized", http.StatusUnauthorized)
		return
	}

	postID := mux.Vars(r)["id"]

	var req UpdatePostRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		utils.ErrorResponse(w, "Invalid request body", http.StatusBadRequest)
		return
	}

	if err := utils.ValidateStruct(&req); err != nil {
		utils.ErrorResponse(w, err.Error(), http.StatusBadRequest)
		return
	}

	post, err := h.service.UpdatePost(r.Context(), postID, userID, &req)
	if err != nil {
		h.writeMutationError(w, err, "Failed to update post")
		return
	}

	utils.SuccessResponse(w, post, http.StatusOK)
}

func (h *Handler) DeletePost(w http.ResponseWriter, r *http.Request) {
	userID, ok := auth.UserIDFromContext(r.Context())
	if !ok {
		utils.ErrorResponse(w, "Unauthorized", http.StatusUnauthorized)
		return
	}

	postID := mux.Vars(r)["id"]

	if err := h.service.DeletePost(r.Context(), postID, userID); err != nil {
		h.writeMutationError(w, err, "Failed to delete post")
		return
	}

	utils.MessageResponse(w, "Post deleted successfully", http.StatusOK)
}

func (h *Handler) ToggleLike(w http.ResponseWriter, r *http.Request) {
	h.toggle(w, r, h.service.ToggleLike, "liked")
}

func (h *Handler) ToggleShare(w http.ResponseWriter, r *http.Request) {
	h.toggle(w, r, h.service.ToggleShare, "shared")
}

func (h *Handler) ToggleSave(w http.ResponseWriter, r *http.Request) {
	h.toggle(w, r, h.service.ToggleSave, "saved")
}

func (h *Handler) UploadImage(w http.ResponseWriter, r *http.Request) {
	if _, ok := auth.UserIDFromContext(r.Context()); !ok {
		utils.ErrorResponse(w, "Unauthorized", http.StatusUnauthorized)
		return
	}

	if err := r.ParseMultipartForm(10 << 20); err != nil {
		utils.ErrorResponse(w, "Failed to parse form", http.StatusBadRequest)
		return
	}

	file, header, err := r.FormFile("image")
	if err != nil {
		utils.ErrorResponse(w, "Missing image file", http.StatusBadRequest)
		return
	}
	defer file.Close()

	url, err := h.service.UploadImage(file, header)
	if err != nil {
		utils.ErrorResponse(w, "Failed to upload image", http.StatusInternalServerError)
		return
	}

	utils.SuccessResponse(w, map[string]string{"url": url}, http.StatusCreated)
}

func (h *Handler) toggle(w http.ResponseWriter, r *http.Request, fn func(ctx context.Context, postID, userID string) (bool, error), field string) {
	userID, ok := auth.UserIDFromContext(r.Context())
	if !ok {
		utils.ErrorResponse(w, "Unauthorized", http.StatusUnauthorized)
		return
	}

	postID := mux.Vars(r)["id"]

	state, err := fn(r.Context(), postID, userID)
	if err != nil {
		if errors.Is(err, ErrPostNotFound) {
			utils.ErrorResponse(w, "Post not found", http.StatusNotFound)
			return
		}
		utils.ErrorResponse(w, "Failed to update post", http.StatusInternalServerError)
		return
	}

	utils.SuccessResponse(w, map[string]interface{}{field: state}, http.StatusOK)
}

func (h *Handler) writeMutationError(w http.ResponseWriter, err error, fallback string) {
	switch {
	case errors.Is(err, ErrPostNotFound):
		utils.ErrorResponse(w, "Post not found", http.StatusNotFound)
	case errors.Is(err, ErrForbidden):
		utils.ErrorResponse(w, "You can only modify your own posts", http.StatusForbidden)
	default:
		utils.ErrorResponse(w, fallback, http.StatusInternalServerError)
	}
}
