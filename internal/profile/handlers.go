// internal/profile/handlers.go

package profile

import (
	"encoding/json"
	"net/http"

	"github.com/gorilla/mux"

	"github.com/dapoadedire/vybe-backend/internal/auth"
	"github.com/dapoadedire/vybe-backend/internal/common/utils"
	"github.com/dapoadedire/vybe-backend/internal/posts"
)

type Handler struct {
	service  Service
	uploader *posts.UploadService
}

func NewHandler(service Service, uploader *posts.UploadService) *Handler {
	return &Handler{service: service, uploader: uploader}
}

// GetMyProfile handles GET /profile
func (h *Handler) GetMyProfile(w http.ResponseWriter, r *http.Request) {
	userID, ok := auth.UserIDFromContext(r.Context())
	if !ok {
		utils.ErrorResponse(w, "Authentication required", http.StatusUnauthorized)
		return
	}

	p, err := h.service.GetProfile(r.Context(), userID, userID)
	if err != nil {
		h.writeProfileError(w, err)
		return
	}
	utils.SuccessResponse(w, p, http.StatusOK)
}

// GetUserProfile handles GET /users/{id}/profile
func (h *Handler) GetUserProfile(w http.ResponseWriter, r *http.Request) {
	requesterID, _ := auth.UserIDFromContext(r.Context())
	id := mux.Vars(r)["id"]

	p, err := h.service.GetProfile(r.Context(), id, requesterID)
	if err != nil {
		h.writeProfileError(w, err)
		return
	}
	utils.SuccessResponse(w, p, http.StatusOK)
}

// GetProfileByUsername handles GET /profiles/{username}
func (h *Handler) GetProfileByUsername(w http.ResponseWriter, r *http.Request) {
	requesterID, _ := auth.UserIDFromContext(r.Context())
	username := mux.Vars(r)["username"]

	p, err := h.service.GetProfileByUsername(r.Context(), username, requesterID)
	if err != nil {
		h.writeProfileError(w, err)
		return
	}
	utils.SuccessResponse(w, p, http.StatusOK)
}

// UpdateProfile handles PUT /profile
func (h *Handler) UpdateProfile(w http.ResponseWriter, r *http.Request) {
	userID, ok := auth.UserIDFromContext(r.Context())
	if !ok {
		utils.ErrorResponse(w, "Authentication required", http.StatusUnauthorized)
		return
	}

	var req UpdateProfileRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		utils.ErrorResponse(w, "Invalid request body", http.StatusBadRequest)
		return
	}
	if err := utils.ValidateStruct(&req); err != nil {
		utils.ErrorResponse(w, err.Error(), http.StatusBadRequest)
		return
	}

	p, err := h.service.Update(r.Context(), userID, &req)
	if err != nil {
		if err == ErrUsernameTaken {
			utils.ErrorResponse(w, "Username already taken", http.StatusConflict)
			return
		}
		h.writeProfileError(w, err)
		return
	}
	utils.SuccessResponse(w, p, http.StatusOK)
}

// UploadAvatar handles POST /profile/avatar
func (h *Handler) UploadAvatar(w http.ResponseWriter, r *http.Request) {
	userID, ok := auth.UserIDFromContext(r.Context())
	if !ok {
		utils.ErrorResponse(w, "Authentication required", http.StatusUnauthorized)
		return
	}

	if err := r.ParseMultipartForm(10 << 20); err != nil {
		utils.ErrorResponse(w, "Invalid multipart form", http.StatusBadRequest)
		return
	}
	file, header, err := r.FormFile("avatar")
	if err != nil {
		utils.ErrorResponse(w, "Avatar file is required", http.StatusBadRequest)
		return
	}
	defer file.Close()

	url, err := h.uploader.UploadFile(file, header)
	if err != nil {
		utils.ErrorResponse(w, err.Error(), http.StatusBadRequest)
		return
	}

	p, err := h.service.UpdateAvatar(r.Context(), userID, url)
	if err != nil {
		h.writeProfileError(w, err)
		return
	}
	utils.SuccessResponse(w, p, http.StatusOK)
}

func (h *Handler) writeProfileError(w http.ResponseWriter, err error) {
	if err == ErrProfileNotFound {
		utils.ErrorResponse(w, "Profile not found", http.StatusNotFound)
		return
	}
	utils.ErrorResponse(w, "Failed to load profile", http.StatusInternalServerError)
}
