package handler

import (
	"net/http"
	"strings"

	"go-blog-api/internal/model"
	"go-blog-api/internal/service"
	"go-blog-api/pkg/apierror"
)

type SessionHandler struct {
	service       *service.SessionService
	cookies       CookieConfig
	maxUploadSize int64
}

func NewSessionHandler(service *service.SessionService, cookies CookieConfig, maxUploadSize int64) *SessionHandler {
	return &SessionHandler{service: service, cookies: cookies, maxUploadSize: maxUploadSize}
}

// Register handles POST /api/v1/users/register (multipart, profilePicture file).
func (h *SessionHandler) Register(w http.ResponseWriter, r *http.Request) {
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

	user, err := h.service.Register(r.Context(), service.RegisterInput{
		FirstName:      formValue(r, "firstName"),
		LastName:       formValue(r, "lastName"),
		Username:       formValue(r, "username"),
		Email:          formValue(r, "email"),
		Password:       r.FormValue("password"),
		DateOfBirth:    formValue(r, "dateOfBirth"),
		ProfilePicture: picture,
	})
	if err != nil {
		writeError(w, r, err)
		return
	}

	writeMessage(w, http.StatusOK, "User registered successfully", user)
}

func (h *SessionHandler) Login(w http.ResponseWriter, r *http.Request) {
	var payload model.LoginRequest
	if err := decodeJSON(r, &payload); err != nil {
		writeError(w, r, err)
		return
	}

	result, err := h.service.Login(r.Context(), strings.TrimSpace(payload.LoginIdentifier()), payload.Password)
	if err != nil {
		writeError(w, r, err)
		return
	}

	h.cookies.setSession(w, result.TokenPair)
	writeMessage(w, http.StatusOK, "User logged in successfully", result)
}

// Refresh accepts the refresh token from its cookie or, failing that, from
// the JSON body.
func (h *SessionHandler) Refresh(w http.ResponseWriter, r *http.Request) {
	token := ""
	if cookie, err := r.Cookie(refreshTokenCookie); err == nil {
		token = strings.TrimSpace(cookie.Value)
	}

	if token == "" && r.Method == http.MethodPost && r.ContentLength != 0 {
		var payload model.RefreshRequest
		if err := decodeJSON(r, &payload); err != nil {
			writeError(w, r, err)
			return
		}
		token = strings.TrimSpace(payload.RefreshToken)
	}

	if token == "" {
		writeError(w, r, apierror.Validation("refresh token is required", "refreshToken"))
		return
	}

	pair, err := h.service.Refresh(r.Context(), token)
	if err != nil {
		writeError(w, r, err)
		return
	}

	h.cookies.setSession(w, pair)
	writeMessage(w, http.StatusOK, "Access token refreshed", pair)
}

func (h *SessionHandler) Logout(w http.ResponseWriter, r *http.Request) {
	user, ok := currentUser(w, r)
	if !ok {
		return
	}

	if err := h.service.Logout(r.Context(), user.ID); err != nil {
		writeError(w, r, err)
		return
	}

	h.cookies.clearSession(w)
	writeMessage(w, http.StatusOK, "User logged out successfully", nil)
}

func (h *SessionHandler) ChangePassword(w http.ResponseWriter, r *http.Request) {
	user, ok := currentUser(w, r)
	if !ok {
		return
	}

	var payload model.ChangePasswordRequest
	if err := decodeJSON(r, &payload); err != nil {
		writeError(w, r, err)
		return
	}

	if err := h.service.ChangePassword(r.Context(), user.ID, payload.OldPassword, payload.NewPassword); err != nil {
		writeError(w, r, err)
		return
	}

	writeMessage(w, http.StatusOK, "Password changed successfully", nil)
}
