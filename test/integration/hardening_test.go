//go:build integration

package integration

import (
	"io"
	"net/http"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"go-blog-api/internal/config"
)

func TestSecurityHeaders(t *testing.T) {
	server, _ := newServer(t, nil)

	resp := doRequest(t, newJSONRequest(t, http.MethodGet, server.URL+"/health", nil))
	require.Equal(t, http.StatusOK, resp.StatusCode)
	assert.Equal(t, "nosniff", resp.Header.Get("X-Content-Type-Options"))
	assert.Equal(t, "DENY", resp.Header.Get("X-Frame-Options"))
	assert.Equal(t, "no-referrer", resp.Header.Get("Referrer-Policy"))
	assert.NotEmpty(t, resp.Header.Get("X-Request-ID"))
}

func TestCORSPreflightAllowsCredentials(t *testing.T) {
	server, _ := newServer(t, nil)

	req := newJSONRequest(t, http.MethodOptions, server.URL+"/api/v1/users/login", nil)
	req.Header.Set("Origin", "http://localhost:3000")
	req.Header.Set("Access-Control-Request-Method", http.MethodPost)
	resp := doRequest(t, req)

	assert.Equal(t, "http://localhost:3000", resp.Header.Get("Access-Control-Allow-Origin"))
	assert.Equal(t, "true", resp.Header.Get("Access-Control-Allow-Credentials"))
}

func TestAuthRateLimit(t *testing.T) {
	server, _ := newServer(t, func(cfg *config.Config) {
		cfg.AuthRateLimitRPM = 3
	})

	for i := 0; i < 3; i++ {
		resp := doRequest(t, newJSONRequest(t, http.MethodPost, server.URL+"/api/v1/users/login", map[string]string{
			"username": "nobody",
			"password": "whatever1",
		}))
		assert.Equal(t, http.StatusUnauthorized, resp.StatusCode)
	}

	resp := doRequest(t, newJSONRequest(t, http.MethodPost, server.URL+"/api/v1/users/login", map[string]string{
		"username": "nobody",
		"password": "whatever1",
	}))
	assert.Equal(t, http.StatusTooManyRequests, resp.StatusCode)
	assert.Equal(t, "60", resp.Header.Get("Retry-After"))
	assert.Equal(t, "RATE_LIMITED", decodeEnvelope(t, resp, nil).Error.Code)

	resp = doRequest(t, newJSONRequest(t, http.MethodGet, server.URL+"/api/v1/categories/all", nil))
	assert.NotEqual(t, http.StatusTooManyRequests, resp.StatusCode)
}

func TestHealthAndMetrics(t *testing.T) {
	server, _ := newServer(t, nil)

	resp := doRequest(t, newJSONRequest(t, http.MethodGet, server.URL+"/health", nil))
	assert.Equal(t, http.StatusOK, resp.StatusCode)

	resp = doRequest(t, newJSONRequest(t, http.MethodGet, server.URL+"/metrics", nil))
	require.Equal(t, http.StatusOK, resp.StatusCode)
	body, err := io.ReadAll(resp.Body)
	require.NoError(t, err)
	assert.True(t, strings.Contains(string(body), "http_requests_total"))
}
