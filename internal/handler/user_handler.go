package handler

import (
	"net/http"

	"github.com/go-chi/chi/v5"

	"go-blog-api/internal/model"
	"go-blog-api/internal/service"
)

type UserHandler struct {
	accounts      *service.AccountService
	cookies       CookieConfig
	maxUploadSize int64
}

func NewUserHandler(accounts *service.AccountService, cookies CookieConfig, maxUploadSize int64) *UserHandler {
	return &UserHandler{accounts: accounts, cookies: cookies, maxUploadSize: maxUploadSize}
}

func (h *UserHandler) CurrentUser(w http.ResponseWriter, r *http.Request) {
	user, ok := currentUser(w, r)
	if !ok {
		return
	}

	public, err := h.accounts.CurrentUser(r.Context(), user.ID)
	if err != nil {
		writeError(w, r, err)
		return
	}

	writeSuccess(w, http.StatusOK, public, nil)
}

func (h *UserHandler) UpdateDetails(w http.ResponseWriter, r *http.Request) {
	user, ok := currentUser(w, r)
	if !ok {
		return
	}

	var payload model.UpdateAccountRequest
	if err := decodeJSON(r, &payload); err != nil {
		writeError(w, r, err)
		return
	}

	updated, err := h.accounts.UpdateDetails(r.Context(), user.ID, payload)
	if err != nil {
		writeError(w, r, err)
		return
	}

	writeMessage(w, http.StatusOK, "Account details updated", updated)
}

func (h *UserHandler) UpdateEmail(w http.ResponseWriter, r *http.Request) {
	user, ok := currentUser(w, r)
	if !ok {
		return
	}

	var payload model.UpdateEmailRequest
	if err := decodeJSON(r, &payload); err != nil {
		writeError(w, r, err)
		return
	}

	updated, err := h.accounts.UpdateEmail(r.Context(), user.ID, payload.Email)
	if err != nil {
		writeError(w, r, err)
		return
	}

	writeMessage(w, http.StatusOK, "Email updated", updated)
}

// UploadProfilePicture handles the multipart profilePicture replacement.
func (h *UserHandler) UploadProfilePicture(w http.ResponseWriter, r *http.Request) {
	user, ok := currentUser(w, r)
	if !ok {
		return
	}

	if err := parseMultipart(w, r, h.maxUploadSize); err != nil {
		writeError(w, r, err)
		return
	}
	defer cleanupMultipart(r)

	picture, file, err := formImage(r, "profilePicture")
	if err != nil {
		writeError(w, r, err)
		return
	}
	defer closeFile(file)

	updated, err := h.accounts.UpdateProfilePicture(r.Context(), user.ID, picture)
	if err != nil {
		writeError(w, r, err)
		return
	}

	writeMessage(w, http.StatusOK, "Profile picture updated", updated)
}

func (h *UserHandler) DeleteAccount(w http.ResponseWriter, r *http.Request) {
	user, ok := currentUser(w, r)
	if !ok {
		return
	}

	if err := h.accounts.DeleteAccount(r.Context(), user.ID); err != nil {
		writeError(w, r, err)
		return
	}

	h.cookies.clearSession(w)
	writeMessage(w, http.StatusOK, "User deleted successfully", nil)
}

func (h *UserHandler) PublicProfile(w http.ResponseWriter, r *http.Request) {
	user, ok := currentUser(w, r)
	if !ok {
		return
	}

	profile, err := h.accounts.PublicProfile(r.Context(), user.ID, chi.URLParam(r, "username"))
	if err != nil {
		writeError(w, r, err)
		return
	}

	writeSuccess(w, http.StatusOK, profile, nil)
}
