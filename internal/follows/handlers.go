// internal/follows/handlers.go

package follows

import (
	"errors"
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

func (h *Handler) ToggleFollow(w http.ResponseWriter, r *http.Request) {
	userID, ok := auth.UserIDFromContext(r.Context())
	if !ok {
		utils.ErrorResponse(w, "Unauthorized", http.StatusUnauthorized)
		return
	}

	followeeID := mux.Vars(r)["id"]

	following, err := h.service.ToggleFollow(r.Context(), userID, followeeID)
	if err != nil {
		if errors.Is(err, ErrSelfFollow) {
			utils.ErrorResponse(w, "You cannot follow yourself", http.StatusBadRequest)
			return
		}
		utils.ErrorResponse(w, "Failed to update follow", http.StatusInternalServerError)
		return
	}

	utils.SuccessResponse(w, map[string]interface{}{"following": following}, http.StatusOK)
}

func (h *Handler) GetCounts(w http.ResponseWriter, r *http.Request) {
	userID := mux.Vars(r)["id"]

	counts, err := h.service.GetCounts(r.Context(), userID)
	if err != nil {
		utils.ErrorResponse(w, "Failed to get follow counts", http.StatusInternalServerError)
		return
	}

	utils.SuccessResponse(w, counts, http.StatusOK)
}

func (h *Handler) GetFollowers(w http.ResponseWriter, r *http.Request) {
	userID := mux.Vars(r)["id"]
	limit, offset := h.getPagination(r)

	users, err := h.service.GetFollowers(r.Context(), userID, limit, offset)
	if err != nil {
		utils.ErrorResponse(w, "Failed to get followers", http.StatusInternalServerError)
		return
	}

	utils.SuccessResponse(w, users, http.StatusOK)
}

func (h *Handler) GetFollowing(w http.ResponseWriter, r *http.Request) {
	userID := mux.Vars(r)["id"]
	limit, offset := h.getPagination(r)

	users, err := h.service.GetFollowing(r.Context(), userID, limit, offset)
	if err != nil {
		utils.ErrorResponse(w, "Failed to get following", http.StatusInternalServerError)
		return
	}

	utils.SuccessResponse(w, users, http.StatusOK)
}

func (h *Handler) getPagination(r *http.Request) (int, int) {
	limit := 20
	offset := 0

	if l := r.URL.Query().Get("limit"); l != "" {
		if val, err := strconv.Atoi(l); err == nil && val > 0 && val <= 100 {
			limit = val
		}
	}

	if o := r.URL.Query().Get("offset"); o != "" {
		if val, err := strconv.Atoi(o); err == nil && val >= 0 {
			offset = val
		}
	}

	return limit, offset
}
