package router

import (
	"io/fs"
	"net/http"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/prometheus/client_golang/prometheus/promhttp"

	"go-blog-api/internal/config"
	"go-blog-api/internal/handler"
	"go-blog-api/internal/middleware"
)

const serviceName = "go-blog-api"

type Handlers struct {
	Health   *handler.HealthHandler
	Session  *handler.SessionHandler
	User     *handler.UserHandler
	Follow   *handler.FollowHandler
	Post     *handler.PostHandler
	Category *handler.CategoryHandler
	Audit    *handler.AuditHandler
}

// New builds the HTTP surface. mediaRoot is the LocalStore directory served
// under /media; it is empty when media lives in S3.
func New(cfg *config.Config, auth *middleware.AuthMiddleware, h Handlers, mediaRoot string) http.Handler {
	r := chi.NewRouter()
	rateLimitMiddleware := middleware.NewRateLimitMiddleware(cfg.RateLimitRPM, cfg.AuthRateLimitRPM)

	r.Use(middleware.Recovery)
	r.Use(middleware.Logging)
	if cfg.MetricsEnabled {
		r.Use(middleware.Metrics(serviceName))
	}
	r.Use(middleware.CORS(cfg.CORSOrigins))
	r.Use(middleware.SecurityHeaders)
	r.Use(rateLimitMiddleware.Handler)

	r.Get("/health", h.Health.Check)
	if cfg.MetricsEnabled {
		r.Handle("/metrics", promhttp.Handler())
	}

	if mediaRoot != "" {
		media := http.StripPrefix("/media/", http.FileServer(noDirListing{http.Dir(mediaRoot)}))
		r.With(middleware.StreamingTimeout(2*time.Minute, 30*time.Second)).Handle("/media/*", media)
	}

	r.Route("/api/v1", func(api chi.Router) {
		api.Use(middleware.Timeout(cfg.RequestTimeout))

		api.Route("/users", func(users chi.Router) {
			users.Post("/register", h.Session.Register)
			users.Post("/login", h.Session.Login)
			users.Get("/refresh-access-token", h.Session.Refresh)
			users.Post("/refresh-access-token", h.Session.Refresh)

			users.Group(func(private chi.Router) {
				private.Use(auth.RequireAuth)

				private.Post("/logout", h.Session.Logout)
				private.Post("/change-current-password", h.Session.ChangePassword)
				private.Get("/get-current-user", h.User.CurrentUser)
				private.Post("/update-account-details", h.User.UpdateDetails)
				private.Post("/update-email", h.User.UpdateEmail)
				private.Post("/upload-profile-pic", h.User.UploadProfilePicture)
				private.Post("/delete-user", h.User.DeleteAccount)
				private.Get("/get-user-public-info/{username}", h.User.PublicProfile)

				private.Post("/follow/{username}", h.Follow.Follow)
				private.Delete("/follow/{username}", h.Follow.Unfollow)
				private.Get("/{username}/followers", h.Follow.Followers)
				private.Get("/{username}/followings", h.Follow.Followings)

				private.Get("/audit", h.Audit.List)

				private.Post("/posts/create", h.Post.Create)
				private.Put("/posts/edit/{postId}", h.Post.Edit)
				private.Patch("/posts/toggle/{postId}", h.Post.ToggleVisibility)
				private.Delete("/posts/delete/{postId}", h.Post.Delete)
			})
		})

		api.With(auth.OptionalAuth).Get("/posts", h.Post.List)
		api.With(auth.OptionalAuth).Get("/posts/{postId}", h.Post.Get)

		api.Get("/categories/all", h.Category.List)
		api.With(auth.RequireAuth).Post("/categories/create", h.Category.Create)
	})

	return r
}

// noDirListing hides directory indexes under /media.
type noDirListing struct {
	fs http.FileSystem
}

func (n noDirListing) Open(name string) (http.File, error) {
	f, err := n.fs.Open(name)
	if err != nil {
		return nil, err
	}

	stat, err := f.Stat()
	if err != nil {
		_ = f.Close()
		return nil, err
	}
	if stat.IsDir() {
		_ = f.Close()
		return nil, fs.ErrNotExist
	}

	return f, nil
}
