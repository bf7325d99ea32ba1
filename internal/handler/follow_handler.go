package handler

import (
	"net/http"

	"github.com/go-chi/chi/v5"

	"go-blog-api/internal/service"
)

type FollowHandler struct {
	service *service.FollowService
}

func NewFollowHandler(service *service.FollowService) *FollowHandler {
	return &FollowHandler{service: service}
}

func (h *FollowHandler) Follow(w http.ResponseWriter, r *http.Request) {
	user, ok := currentUser(w, r)
	if !ok {
		return
	}

	username := chi.URLParam(r, "username")
	if err := h.service.Follow(r.Context(), user.ID, username); err != nil {
		writeError(w, r, err)
		return
	}

	writeMessage(w, http.StatusOK, "Followed "+username, nil)
}

func (h *FollowHandler) Unfollow(w http.ResponseWriter, r *http.Request) {
	user, ok := currentUser(w, r)
	if !ok {
		return
	}

	username := chi.URLParam(r, "username")
	if err := h.service.Unfollow(r.Context(), user.ID, username); err != nil {
		writeError(w, r, err)
		return
	}

	writeMessage(w, http.StatusOK, "Unfollowed "+username, nil)
}

func (h *FollowHandler) Followers(w http.ResponseWriter, r *http.Request) {
	items, meta, err := h.service.Followers(r.Context(), chi.URLParam(r, "username"), pageFromQuery(r))
	if err != nil {
		writeError(w, r, err)
		return
	}

	writeSuccess(w, http.StatusOK, items, meta)
}

func (h *FollowHandler) Followings(w http.ResponseWriter, r *http.Request) {
	items, meta, err := h.service.Followings(r.Context(), chi.URLParam(r, "username"), pageFromQuery(r))
	if err != nil {
		writeError(w, r, err)
		return
	}

	writeSuccess(w, http.StatusOK, items, meta)
}
