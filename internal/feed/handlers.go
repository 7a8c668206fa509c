package feed

import (
	"net/http"
	"strconv"

	"github.com/gorilla/mux"

	"github.com/dapoadedire/vybe-backend/internal/auth"
	"github.com/dapoadedire/vybe-backend/internal/common/utils"
)

type Handler struct {
	service     Service
	seeds       *SeedStore
	defaultPage int
	maxPage     int
}

func NewHandler(service Service, seeds *SeedStore, defaultPageSize, maxPageSize int) *Handler {
	return &Handler{
		service:     service,
		seeds:       seeds,
		defaultPage: defaultPageSize,
		maxPage:     maxPageSize,
	}
}

// ForYou handles GET /feed/for-you
func (h *Handler) ForYou(w http.ResponseWriter, r *http.Request) {
	userID, ok := auth.UserIDFromContext(r.Context())
	if !ok {
		utils.ErrorResponse(w, "Authentication required", http.StatusUnauthorized)
		return
	}

	limit, offset := h.getPagination(r)
	views, err := h.service.ForYou(r.Context(), userID, limit, offset)
	if err != nil {
		utils.ErrorResponse(w, "Failed to load feed", http.StatusInternalServerError)
		return
	}
	utils.SuccessResponse(w, views, http.StatusOK)
}

// Following handles GET /feed/following
func (h *Handler) Following(w http.ResponseWriter, r *http.Request) {
	userID, ok := auth.UserIDFromContext(r.Context())
	if !ok {
		utils.ErrorResponse(w, "Authentication required", http.StatusUnauthorized)
		return
	}

	limit, offset := h.getPagination(r)
	views, err := h.service.Following(r.Context(), userID, limit, offset)
	if err != nil {
		utils.ErrorResponse(w, "Failed to load feed", http.StatusInternalServerError)
		return
	}
	utils.SuccessResponse(w, views, http.StatusOK)
}

// Explore handles GET /feed/explore. Passing refresh=1 rotates the caller's
// shuffle seed so the next pages come back in a new order.
func (h *Handler) Explore(w http.ResponseWriter, r *http.Request) {
	userID, ok := auth.UserIDFromContext(r.Context())
	if !ok {
		utils.ErrorResponse(w, "Authentication required", http.StatusUnauthorized)
		return
	}

	limit, offset := h.getPagination(r)
	refresh := r.URL.Query().Get("refresh") == "1"
	seed := h.seeds.Get(r.Context(), userID, refresh)

	views, err := h.service.Explore(r.Context(), userID, limit, offset, seed)
	if err != nil {
		utils.ErrorResponse(w, "Failed to load feed", http.StatusInternalServerError)
		return
	}
	utils.SuccessResponse(w, views, http.StatusOK)
}

// MyFeed handles GET /feed/me
func (h *Handler) MyFeed(w http.ResponseWriter, r *http.Request) {
	userID, ok := auth.UserIDFromContext(r.Context())
	if !ok {
		utils.ErrorResponse(w, "Authentication required", http.StatusUnauthorized)
		return
	}

	limit, offset := h.getPagination(r)
	views, err := h.service.MyFeed(r.Context(), userID, limit, offset)
	if err != nil {
		utils.ErrorResponse(w, "Failed to load feed", http.StatusInternalServerError)
		return
	}
	utils.SuccessResponse(w, views, http.StatusOK)
}

// SavedPosts handles GET /feed/saved
func (h *Handler) SavedPosts(w http.ResponseWriter, r *http.Request) {
	userID, ok := auth.UserIDFromContext(r.Context())
	if !ok {
		utils.ErrorResponse(w, "Authentication required", http.StatusUnauthorized)
		return
	}

	limit, offset := h.getPagination(r)
	views, err := h.service.Saved(r.Context(), userID, limit, offset)
	if err != nil {
		utils.ErrorResponse(w, "Failed to load saved posts", http.StatusInternalServerError)
		return
	}
	utils.SuccessResponse(w, views, http.StatusOK)
}

// UserPosts handles GET /users/{id}/posts. Works without authentication;
// an anonymous viewer just sees everything labeled featured.
func (h *Handler) UserPosts(w http.ResponseWriter, r *http.Request) {
	authorID := mux.Vars(r)["id"]
	requesterID, _ := auth.UserIDFromContext(r.Context())

	limit, offset := h.getPagination(r)
	views, err := h.service.Profile(r.Context(), requesterID, authorID, limit, offset)
	if err != nil {
		utils.ErrorResponse(w, "Failed to load posts", http.StatusInternalServerError)
		return
	}
	utils.SuccessResponse(w, views, http.StatusOK)
}

func (h *Handler) getPagination(r *http.Request) (int, int) {
	limit := h.defaultPage
	offset := 0

	if v := r.URL.Query().Get("limit"); v != "" {
		if parsed, err := strconv.Atoi(v); err == nil && parsed > 0 && parsed <= h.maxPage {
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
