package handler

import (
	"net/http"
	"time"

	"go-blog-api/internal/middleware"
	"go-blog-api/internal/model"
)

const refreshTokenCookie = "refreshToken"

type CookieConfig struct {
	Secure     bool
	SameSite   http.SameSite
	Domain     string
	AccessTTL  time.Duration
	RefreshTTL time.Duration
}

func (c CookieConfig) setSession(w http.ResponseWriter, pair model.TokenPair) {
	http.SetCookie(w, c.cookie(middleware.AccessTokenCookie, pair.AccessToken, int(c.AccessTTL.Seconds())))
	http.SetCookie(w, c.cookie(refreshTokenCookie, pair.RefreshToken, int(c.RefreshTTL.Seconds())))
}

func (c CookieConfig) clearSession(w http.ResponseWriter) {
	http.SetCookie(w, c.cookie(middleware.AccessTokenCookie, "", -1))
	http.SetCookie(w, c.cookie(refreshTokenCookie, "", -1))
}

func (c CookieConfig) cookie(name string, value string, maxAge int) *http.Cookie {
	sameSite := c.SameSite
	// Browsers drop SameSite=None cookies that are not Secure.
	if sameSite == http.SameSiteNoneMode && !c.Secure {
		sameSite = http.SameSiteLaxMode
	}

	return &http.Cookie{
		Name:     name,
		Value:    value,
		Path:     "/",
		Domain:   c.Domain,
		MaxAge:   maxAge,
		HttpOnly: true,
		Secure:   c.Secure,
		SameSite: sameSite,
	}
}
