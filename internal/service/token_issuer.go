package service

import (
	"errors"
	"fmt"
	"net/http"
	"strings"
	"time"

	"github.com/golang-jwt/jwt/v5"
	"github.com/google/uuid"

	"go-blog-api/internal/model"
	"go-blog-api/pkg/apierror"
)

const (
	tokenTypeAccess  = "access"
	tokenTypeRefresh = "refresh"
)

// TokenConfig holds the signing secrets and lifetimes. It is built once from
// the process configuration and handed to NewTokenIssuer.
type TokenConfig struct {
	AccessSecret  string
	RefreshSecret string
	AccessTTL     time.Duration
	RefreshTTL    time.Duration
	Issuer        string
	// Clock overrides time.Now for issuance and expiry checks.
	Clock func() time.Time
}

type accessTokenClaims struct {
	UserID   string `json:"id"`
	Username string `json:"username"`
	Email    string `json:"email"`
	Type     string `json:"typ"`
	jwt.RegisteredClaims
}

// refreshTokenClaims deliberately carry only the user id.
type refreshTokenClaims struct {
	UserID string `json:"id"`
	Type   string `json:"typ"`
	jwt.RegisteredClaims
}

type TokenIssuer struct {
	cfg TokenConfig
	now func() time.Time
}

func NewTokenIssuer(cfg TokenConfig) (*TokenIssuer, error) {
	if strings.TrimSpace(cfg.AccessSecret) == "" || strings.TrimSpace(cfg.RefreshSecret) == "" {
		return nil, errors.New("token signing secrets are required")
	}
	if cfg.AccessTTL <= 0 || cfg.RefreshTTL <= 0 {
		return nil, errors.New("token lifetimes must be positive")
	}

	now := cfg.Clock
	if now == nil {
		now = func() time.Time { return time.Now().UTC() }
	}
	return &TokenIssuer{cfg: cfg, now: now}, nil
}

func (i *TokenIssuer) AccessTTL() time.Duration {
	return i.cfg.AccessTTL
}

func (i *TokenIssuer) RefreshTTL() time.Duration {
	return i.cfg.RefreshTTL
}

func (i *TokenIssuer) IssueAccessToken(identity model.Identity) (string, error) {
	claims := accessTokenClaims{
		UserID:           identity.ID,
		Username:         identity.Username,
		Email:            identity.Email,
		Type:             tokenTypeAccess,
		RegisteredClaims: i.registered(identity.ID, i.cfg.AccessTTL),
	}
	return sign(claims, i.cfg.AccessSecret)
}

func (i *TokenIssuer) IssueRefreshToken(identity model.Identity) (string, error) {
	claims := refreshTokenClaims{
		UserID:           identity.ID,
		Type:             tokenTypeRefresh,
		RegisteredClaims: i.registered(identity.ID, i.cfg.RefreshTTL),
	}
	return sign(claims, i.cfg.RefreshSecret)
}

func (i *TokenIssuer) IssuePair(identity model.Identity) (model.TokenPair, error) {
	access, err := i.IssueAccessToken(identity)
	if err != nil {
		return model.TokenPair{}, err
	}

	refresh, err := i.IssueRefreshToken(identity)
	if err != nil {
		return model.TokenPair{}, err
	}

	return model.TokenPair{AccessToken: access, RefreshToken: refresh}, nil
}

func (i *TokenIssuer) VerifyAccess(token string) (model.AccessClaims, error) {
	claims := &accessTokenClaims{}
	if err := i.parse(token, claims, i.cfg.AccessSecret); err != nil {
		return model.AccessClaims{}, err
	}
	if claims.Type != tokenTypeAccess || claims.UserID == "" {
		return model.AccessClaims{}, invalidToken("wrong token type")
	}

	return model.AccessClaims{
		UserID:   claims.UserID,
		Username: claims.Username,
		Email:    claims.Email,
		TokenID:  claims.ID,
	}, nil
}

func (i *TokenIssuer) VerifyRefresh(token string) (model.RefreshClaims, error) {
	claims := &refreshTokenClaims{}
	if err := i.parse(token, claims, i.cfg.RefreshSecret); err != nil {
		return model.RefreshClaims{}, err
	}
	if claims.Type != tokenTypeRefresh || claims.UserID == "" {
		return model.RefreshClaims{}, invalidToken("wrong token type")
	}

	return model.RefreshClaims{UserID: claims.UserID, TokenID: claims.ID}, nil
}

func (i *TokenIssuer) registered(subject string, ttl time.Duration) jwt.RegisteredClaims {
	now := i.now()
	return jwt.RegisteredClaims{
		Subject:   subject,
		Issuer:    i.cfg.Issuer,
		IssuedAt:  jwt.NewNumericDate(now),
		ExpiresAt: jwt.NewNumericDate(now.Add(ttl)),
		ID:        uuid.NewString(),
	}
}

func (i *TokenIssuer) parse(token string, claims jwt.Claims, secret string) error {
	if strings.TrimSpace(token) == "" {
		return invalidToken("token is empty")
	}

	opts := []jwt.ParserOption{
		jwt.WithValidMethods([]string{jwt.SigningMethodHS256.Alg()}),
		jwt.WithExpirationRequired(),
		jwt.WithTimeFunc(i.now),
	}
	if i.cfg.Issuer != "" {
		opts = append(opts, jwt.WithIssuer(i.cfg.Issuer))
	}

	parsed, err := jwt.ParseWithClaims(token, claims, func(*jwt.Token) (interface{}, error) {
		return []byte(secret), nil
	}, opts...)
	if err != nil {
		if errors.Is(err, jwt.ErrTokenExpired) {
			return invalidToken("token has expired")
		}
		return invalidToken(err.Error())
	}
	if !parsed.Valid {
		return invalidToken("token is not valid")
	}

	return nil
}

func sign(claims jwt.Claims, secret string) (string, error) {
	signed, err := jwt.NewWithClaims(jwt.SigningMethodHS256, claims).SignedString([]byte(secret))
	if err != nil {
		return "", fmt.Errorf("sign token: %w", err)
	}
	return signed, nil
}

func invalidToken(details string) *apierror.APIError {
	return apierror.New(apierror.CodeInvalidToken, "invalid or expired token", details, http.StatusUnauthorized)
}
