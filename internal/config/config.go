package config

import (
	"fmt"
	"net/http"
	"strings"
	"time"

	"github.com/caarlos0/env/v11"
	"github.com/joho/godotenv"
)

type Config struct {
	ServerPort              string        `env:"SERVER_PORT" envDefault:"8000"`
	ServerReadHeaderTimeout time.Duration `env:"SERVER_READ_HEADER_TIMEOUT" envDefault:"10s"`
	ServerWriteTimeout      time.Duration `env:"SERVER_WRITE_TIMEOUT" envDefault:"30s"`
	ServerIdleTimeout       time.Duration `env:"SERVER_IDLE_TIMEOUT" envDefault:"120s"`
	RequestTimeout          time.Duration `env:"REQUEST_TIMEOUT" envDefault:"30s"`

	DatabaseURL string `env:"DATABASE_URL"`
	DBMaxConns  int32  `env:"DB_MAX_CONNS" envDefault:"10"`
	DBMinConns  int32  `env:"DB_MIN_CONNS" envDefault:"2"`

	AccessTokenSecret  string        `env:"ACCESS_TOKEN_SECRET"`
	AccessTokenTTL     time.Duration `env:"ACCESS_TOKEN_TTL" envDefault:"15m"`
	RefreshTokenSecret string        `env:"REFRESH_TOKEN_SECRET"`
	RefreshTokenTTL    time.Duration `env:"REFRESH_TOKEN_TTL" envDefault:"168h"`
	TokenIssuer        string        `env:"TOKEN_ISSUER" envDefault:"go-blog-api"`
	BcryptCost         int           `env:"BCRYPT_COST" envDefault:"10"`

	RevokeSessionsOnPasswordChange bool `env:"REVOKE_SESSIONS_ON_PASSWORD_CHANGE" envDefault:"false"`

	CookieSecure   bool   `env:"COOKIE_SECURE" envDefault:"true"`
	CookieSameSite string `env:"COOKIE_SAME_SITE" envDefault:"none"`
	CookieDomain   string `env:"COOKIE_DOMAIN"`

	CORSOrigins      []string `env:"CORS_ORIGINS" envSeparator:"," envDefault:"http://localhost:3000"`
	RateLimitRPM     int      `env:"RATE_LIMIT_RPM" envDefault:"100"`
	AuthRateLimitRPM int      `env:"AUTH_RATE_LIMIT_RPM" envDefault:"10"`
	MaxUploadSize    int64    `env:"MAX_UPLOAD_SIZE" envDefault:"2097152"`

	MediaBackend       string `env:"MEDIA_BACKEND" envDefault:"local"`
	MediaLocalRoot     string `env:"MEDIA_LOCAL_ROOT" envDefault:"./public/media"`
	MediaPublicBaseURL string `env:"MEDIA_PUBLIC_BASE_URL" envDefault:"http://localhost:8000/media"`
	S3Bucket           string `env:"S3_BUCKET"`
	S3Region           string `env:"S3_REGION" envDefault:"us-east-1"`
	S3Endpoint         string `env:"S3_ENDPOINT"`
	S3AccessKey        string `env:"S3_ACCESS_KEY"`
	S3SecretKey        string `env:"S3_SECRET_KEY"`
	S3PublicBaseURL    string `env:"S3_PUBLIC_BASE_URL"`
	ImageMaxDimension  int    `env:"IMAGE_MAX_DIMENSION" envDefault:"1024"`

	LogLevel       string `env:"LOG_LEVEL" envDefault:"info"`
	LogFormat      string `env:"LOG_FORMAT" envDefault:"pretty"`
	MetricsEnabled bool   `env:"METRICS_ENABLED" envDefault:"true"`
}

func Load() (*Config, error) {
	_ = godotenv.Load()

	cfg := &Config{}
	if err := env.Parse(cfg); err != nil {
		return nil, fmt.Errorf("parse env: %w", err)
	}

	cfg.normalize()

	if err := cfg.Validate(); err != nil {
		return nil, err
	}

	return cfg, nil
}

func (c *Config) normalize() {
	c.DatabaseURL = strings.TrimSpace(c.DatabaseURL)
	c.AccessTokenSecret = strings.TrimSpace(c.AccessTokenSecret)
	c.RefreshTokenSecret = strings.TrimSpace(c.RefreshTokenSecret)
	c.MediaBackend = strings.ToLower(strings.TrimSpace(c.MediaBackend))
	c.CookieSameSite = strings.ToLower(strings.TrimSpace(c.CookieSameSite))
	c.MediaPublicBaseURL = strings.TrimRight(strings.TrimSpace(c.MediaPublicBaseURL), "/")
	c.S3PublicBaseURL = strings.TrimRight(strings.TrimSpace(c.S3PublicBaseURL), "/")

	origins := make([]string, 0, len(c.CORSOrigins))
	for _, origin := range c.CORSOrigins {
		if trimmed := strings.TrimSpace(origin); trimmed != "" {
			origins = append(origins, trimmed)
		}
	}
	c.CORSOrigins = origins
}

func (c *Config) Validate() error {
	if c.DatabaseURL == "" {
		return fmt.Errorf("DATABASE_URL is required")
	}

	if c.AccessTokenSecret == "" {
		return fmt.Errorf("ACCESS_TOKEN_SECRET is required")
	}

	if c.RefreshTokenSecret == "" {
		return fmt.Errorf("REFRESH_TOKEN_SECRET is required")
	}

	if c.AccessTokenSecret == c.RefreshTokenSecret {
		return fmt.Errorf("ACCESS_TOKEN_SECRET and REFRESH_TOKEN_SECRET must differ")
	}

	if c.AccessTokenTTL <= 0 || c.RefreshTokenTTL <= 0 {
		return fmt.Errorf("token TTLs must be positive")
	}

	if c.ServerPort == "" {
		return fmt.Errorf("SERVER_PORT cannot be empty")
	}

	if c.MaxUploadSize <= 0 {
		return fmt.Errorf("MAX_UPLOAD_SIZE must be positive")
	}

	if c.RequestTimeout <= 0 {
		return fmt.Errorf("REQUEST_TIMEOUT must be positive")
	}

	if c.ImageMaxDimension <= 0 {
		return fmt.Errorf("IMAGE_MAX_DIMENSION must be positive")
	}

	switch c.CookieSameSite {
	case "none", "lax", "strict":
	default:
		return fmt.Errorf("COOKIE_SAME_SITE must be one of none, lax, strict")
	}

	switch c.MediaBackend {
	case "local":
		if strings.TrimSpace(c.MediaLocalRoot) == "" {
			return fmt.Errorf("MEDIA_LOCAL_ROOT cannot be empty")
		}
	case "s3":
		if strings.TrimSpace(c.S3Bucket) == "" {
			return fmt.Errorf("S3_BUCKET is required when MEDIA_BACKEND=s3")
		}
	default:
		return fmt.Errorf("MEDIA_BACKEND must be local or s3")
	}

	return nil
}

// SameSite maps COOKIE_SAME_SITE onto the net/http constant.
func (c *Config) SameSite() http.SameSite {
	switch c.CookieSameSite {
	case "lax":
		return http.SameSiteLaxMode
	case "strict":
		return http.SameSiteStrictMode
	default:
		return http.SameSiteNoneMode
	}
}
