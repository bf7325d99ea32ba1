package middleware

import (
	"context"
	"net/http"
	"strings"

	"go-blog-api/internal/model"
	"go-blog-api/pkg/apierror"
)

const AccessTokenCookie = "accessToken"

type accessVerifier interface {
	VerifyAccess(token string) (model.AccessClaims, error)
}

type userResolver interface {
	FindByID(ctx context.Context, id string) (model.User, error)
}

type contextKey string

const userContextKey contextKey = "auth_user"

type AuthMiddleware struct {
	verifier accessVerifier
	users    userResolver
}

func NewAuthMiddleware(verifier accessVerifier, users userResolver) *AuthMiddleware {
	return &AuthMiddleware{verifier: verifier, users: users}
}

// RequireAuth rejects the request with 401 unless it carries a valid access
// token for a user that still exists.
func (m *AuthMiddleware) RequireAuth(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		token := tokenFromRequest(r)
		if token == "" {
			writeError(w, apierror.Unauthenticated("authentication required"))
			return
		}

		user, ok := m.resolve(r.Context(), token)
		if !ok {
			writeError(w, apierror.Unauthenticated("invalid or expired access token"))
			return
		}

		next.ServeHTTP(w, r.WithContext(WithUser(r.Context(), user)))
	})
}

// OptionalAuth attaches the user when a valid token is present and otherwise
// lets the request through anonymously.
func (m *AuthMiddleware) OptionalAuth(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if token := tokenFromRequest(r); token != "" {
			if user, ok := m.resolve(r.Context(), token); ok {
				r = r.WithContext(WithUser(r.Context(), user))
			}
		}
		next.ServeHTTP(w, r)
	})
}

func (m *AuthMiddleware) resolve(ctx context.Context, token string) (model.User, bool) {
	claims, err := m.verifier.VerifyAccess(token)
	if err != nil {
		return model.User{}, false
	}

	user, err := m.users.FindByID(ctx, claims.UserID)
	if err != nil {
		return model.User{}, false
	}

	return user.Sanitized(), true
}

func tokenFromRequest(r *http.Request) string {
	if cookie, err := r.Cookie(AccessTokenCookie); err == nil {
		if value := strings.TrimSpace(cookie.Value); value != "" {
			return value
		}
	}

	header := strings.TrimSpace(r.Header.Get("Authorization"))
	if len(header) < 7 || !strings.EqualFold(header[:7], "bearer ") {
		return ""
	}

	return strings.TrimSpace(header[7:])
}

func WithUser(ctx context.Context, user model.User) context.Context {
	return context.WithValue(ctx, userContextKey, user)
}

func UserFromContext(ctx context.Context) (model.User, bool) {
	user, ok := ctx.Value(userContextKey).(model.User)
	return user, ok
}
