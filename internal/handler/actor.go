package handler

import (
	"net/http"

	"go-blog-api/internal/middleware"
	"go-blog-api/internal/model"
	"go-blog-api/pkg/apierror"
)

// currentUser returns the user attached by the access guard and writes a 401
// when the route was mounted without it.
func currentUser(w http.ResponseWriter, r *http.Request) (model.User, bool) {
	user, ok := middleware.UserFromContext(r.Context())
	if !ok {
		writeError(w, r, apierror.Unauthenticated("authentication required"))
		return model.User{}, false
	}
	return user, true
}

// viewerID is the id of the optional caller, or "" for anonymous requests.
func viewerID(r *http.Request) string {
	user, ok := middleware.UserFromContext(r.Context())
	if !ok {
		return ""
	}
	return user.ID
}
