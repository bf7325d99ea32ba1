//go:build integration

package integration

import (
	"bytes"
	"context"
	"encoding/json"
	"image"
	"image/color"
	"image/png"
	"io"
	"mime/multipart"
	"net/http"
	"net/http/httptest"
	"os"
	"testing"
	"time"

	"github.com/stretchr/testify/require"

	"go-blog-api/internal/app"
	"go-blog-api/internal/config"
	"go-blog-api/internal/database"
	"go-blog-api/internal/model"
)

// newTestDB connects to TEST_DATABASE_URL, applies migrations and empties every
// table. Tests in this package share one database and must not run in parallel.
func newTestDB(t *testing.T) *database.DB {
	t.Helper()

	url := os.Getenv("TEST_DATABASE_URL")
	if url == "" {
		t.Skip("TEST_DATABASE_URL not set")
	}

	ctx := context.Background()
	db, err := database.New(ctx, url, 5, 1)
	require.NoError(t, err)
	t.Cleanup(db.Close)

	require.NoError(t, db.Migrate(ctx))
	_, err = db.Pool.Exec(ctx, "TRUNCATE audit_entries, follows, posts, categories, users CASCADE")
	require.NoError(t, err)
	return db
}

func testConfig(t *testing.T) *config.Config {
	t.Helper()
	return &config.Config{
		RequestTimeout:     10 * time.Second,
		AccessTokenSecret:  "integration-access-secret",
		AccessTokenTTL:     15 * time.Minute,
		RefreshTokenSecret: "integration-refresh-secret",
		RefreshTokenTTL:    7 * 24 * time.Hour,
		TokenIssuer:        "go-blog-api-integration",
		BcryptCost:         4,
		CookieSecure:       true,
		CookieSameSite:     "none",
		CORSOrigins:        []string{"http://localhost:3000"},
		RateLimitRPM:       -1,
		AuthRateLimitRPM:   -1,
		MaxUploadSize:      2 << 20,
		MediaBackend:       "local",
		MediaLocalRoot:     t.TempDir(),
		MediaPublicBaseURL: "http://localhost/media",
		ImageMaxDimension:  256,
		MetricsEnabled:     true,
	}
}

// newServer starts the fully wired application over a fresh database. mutate
// may adjust the configuration before wiring.
func newServer(t *testing.T, mutate func(*config.Config)) (*httptest.Server, *database.DB) {
	t.Helper()

	db := newTestDB(t)
	cfg := testConfig(t)
	if mutate != nil {
		mutate(cfg)
	}

	h, stop, err := app.NewHandler(context.Background(), cfg, db)
	require.NoError(t, err)
	t.Cleanup(stop)

	server := httptest.NewServer(h)
	t.Cleanup(server.Close)
	return server, db
}

func pngBytes(t *testing.T) []byte {
	t.Helper()
	img := image.NewRGBA(image.Rect(0, 0, 20, 10))
	for x := 0; x < 20; x++ {
		for y := 0; y < 10; y++ {
			img.Set(x, y, color.RGBA{R: 180, G: 40, A: 255})
		}
	}
	var buf bytes.Buffer
	require.NoError(t, png.Encode(&buf, img))
	return buf.Bytes()
}

func newMultipartRequest(t *testing.T, url string, fields map[string]string, fileField string, file []byte) *http.Request {
	t.Helper()
	var body bytes.Buffer
	writer := multipart.NewWriter(&body)
	for k, v := range fields {
		require.NoError(t, writer.WriteField(k, v))
	}
	if file != nil {
		part, err := writer.CreateFormFile(fileField, "image.png")
		require.NoError(t, err)
		_, err = part.Write(file)
		require.NoError(t, err)
	}
	require.NoError(t, writer.Close())

	req, err := http.NewRequest(http.MethodPost, url, &body)
	require.NoError(t, err)
	req.Header.Set("Content-Type", writer.FormDataContentType())
	return req
}

func newJSONRequest(t *testing.T, method string, url string, payload any) *http.Request {
	t.Helper()
	var body io.Reader
	if payload != nil {
		raw, err := json.Marshal(payload)
		require.NoError(t, err)
		body = bytes.NewReader(raw)
	}
	req, err := http.NewRequest(method, url, body)
	require.NoError(t, err)
	if payload != nil {
		req.Header.Set("Content-Type", "application/json")
	}
	return req
}

func doRequest(t *testing.T, req *http.Request, cookies ...*http.Cookie) *http.Response {
	t.Helper()
	for _, c := range cookies {
		req.AddCookie(&http.Cookie{Name: c.Name, Value: c.Value})
	}
	resp, err := http.DefaultClient.Do(req)
	require.NoError(t, err)
	t.Cleanup(func() { _ = resp.Body.Close() })
	return resp
}

func decodeEnvelope(t *testing.T, resp *http.Response, data any) model.APIResponse {
	t.Helper()
	var envelope struct {
		model.APIResponse
		Data json.RawMessage `json:"data"`
	}
	require.NoError(t, json.NewDecoder(resp.Body).Decode(&envelope))
	if data != nil && len(envelope.Data) > 0 {
		require.NoError(t, json.Unmarshal(envelope.Data, data))
	}
	return envelope.APIResponse
}

func findCookie(resp *http.Response, name string) *http.Cookie {
	for _, c := range resp.Cookies() {
		if c.Name == name {
			return c
		}
	}
	return nil
}

func register(t *testing.T, server *httptest.Server, username string, email string) model.PublicUser {
	t.Helper()
	resp := doRequest(t, newMultipartRequest(t, server.URL+"/api/v1/users/register", map[string]string{
		"firstName":   "Test",
		"lastName":    "User",
		"username":    username,
		"email":       email,
		"password":    "secret123",
		"dateOfBirth": "1995-05-05",
	}, "profilePicture", pngBytes(t)))
	require.Equal(t, http.StatusOK, resp.StatusCode)

	var user model.PublicUser
	decodeEnvelope(t, resp, &user)
	return user
}

func loginUser(t *testing.T, server *httptest.Server, identifier string) (*http.Cookie, *http.Cookie) {
	t.Helper()
	resp := doRequest(t, newJSONRequest(t, http.MethodPost, server.URL+"/api/v1/users/login", map[string]string{
		"username": identifier,
		"password": "secret123",
	}))
	require.Equal(t, http.StatusOK, resp.StatusCode)

	access := findCookie(resp, "accessToken")
	refresh := findCookie(resp, "refreshToken")
	require.NotNil(t, access)
	require.NotNil(t, refresh)
	return access, refresh
}
