package config

import (
	"os"
	"strconv"
	"strings"
	"time"

	"github.com/joho/godotenv"
	"github.com/pkg/errors"
)

const (
	EnvDevelopment = "development"
	EnvProduction  = "production"
)

// LoadDotEnv loads environment variables from a .env file if present.
// Existing environment variables are not overwritten.
func LoadDotEnv(path string) error {
	if _, err := os.Stat(path); err != nil {
		if os.IsNotExist(err) {
			return nil
		}
		return err
	}
	return godotenv.Load(path)
}

type R2Config struct {
	AccountID       string
	AccessKeyID     string
	AccessKeySecret string
	Bucket          string
	CDNBaseURL      string
}

// Enabled reports whether enough credentials are present to talk to R2.
func (r R2Config) Enabled() bool {
	return r.AccountID != "" && r.AccessKeyID != "" && r.AccessKeySecret != "" && r.Bucket != ""
}

type Config struct {
	Environment     string
	Port            int
	DatabaseURL     string
	ClientURL       string
	JWTSecret       string
	JWTExpiresIn    time.Duration
	AdminEmail      string
	AdminPassword   string
	RedisURL        string
	KafkaBrokers    []string
	KafkaTopic      string
	R2              R2Config
	UploadDir       string
	PublicDir       string
	SitemapHostname string
	SitemapInterval time.Duration
	RateLimitMax    int
	RateLimitWindow time.Duration
	DBMaxOpenConns  int
	DBMaxIdleConns  int
}

func Default() Config {
	return Config{
		Environment:     EnvDevelopment,
		Port:            5000,
		ClientURL:       "http://localhost:3000",
		JWTSecret:       "cricanalyzer-secret-key",
		JWTExpiresIn:    7 * 24 * time.Hour,
		AdminEmail:      "admin@cricanalyzer.com",
		KafkaTopic:      "cricanalyzer.content",
		UploadDir:       "uploads",
		PublicDir:       "public",
		SitemapHostname: "https://cricanalyzer.com",
		SitemapInterval: 6 * time.Hour,
		RateLimitMax:    100,
		RateLimitWindow: 15 * time.Minute,
		DBMaxOpenConns:  10,
		DBMaxIdleConns:  10,
	}
}

// Load reads the process environment on top of Default. It is meant to be
// called once at startup.
func Load() (Config, error) {
	cfg := Default()
	if raw := os.Getenv("APP_ENV"); raw != "" {
		cfg.Environment = raw
	}
	if raw := os.Getenv("PORT"); raw != "" {
		value, err := strconv.Atoi(raw)
		if err != nil || value <= 0 {
			return cfg, errors.Errorf("invalid PORT %q", raw)
		}
		cfg.Port = value
	}
	cfg.DatabaseURL = os.Getenv("DATABASE_URL")
	if cfg.DatabaseURL == "" {
		return cfg, errors.New("DATABASE_URL is not set")
	}
	if raw := os.Getenv("CLIENT_URL"); raw != "" {
		cfg.ClientURL = raw
	}
	if raw := os.Getenv("JWT_SECRET"); raw != "" {
		cfg.JWTSecret = raw
	}
	if raw := os.Getenv("JWT_EXPIRES_IN"); raw != "" {
		d, err := ParseDuration(raw)
		if err != nil {
			return cfg, errors.Wrap(err, "JWT_EXPIRES_IN")
		}
		cfg.JWTExpiresIn = d
	}
	if raw := os.Getenv("ADMIN_EMAIL"); raw != "" {
		cfg.AdminEmail = raw
	}
	// With a password set, startup creates the admin account if missing.
	cfg.AdminPassword = os.Getenv("ADMIN_PASSWORD")
	cfg.RedisURL = os.Getenv("REDIS_URL")
	if raw := os.Getenv("KAFKA_BROKERS"); raw != "" {
		cfg.KafkaBrokers = splitList(raw)
	}
	if raw := os.Getenv("KAFKA_TOPIC"); raw != "" {
		cfg.KafkaTopic = raw
	}
	cfg.R2 = R2Config{
		AccountID:       os.Getenv("CLOUDFLARE_ACCOUNT_ID"),
		AccessKeyID:     os.Getenv("R2_ACCESS_KEY_ID"),
		AccessKeySecret: os.Getenv("R2_ACCESS_KEY_SECRET"),
		Bucket:          os.Getenv("R2_BUCKET_NAME"),
		CDNBaseURL:      os.Getenv("CDN_BASE_URL"),
	}
	if raw := os.Getenv("UPLOAD_DIR"); raw != "" {
		cfg.UploadDir = raw
	}
	if raw := os.Getenv("PUBLIC_DIR"); raw != "" {
		cfg.PublicDir = raw
	}
	if raw := os.Getenv("SITEMAP_HOSTNAME"); raw != "" {
		cfg.SitemapHostname = strings.TrimRight(raw, "/")
	}
	if raw := os.Getenv("SITEMAP_INTERVAL"); raw != "" {
		d, err := ParseDuration(raw)
		if err != nil {
			return cfg, errors.Wrap(err, "SITEMAP_INTERVAL")
		}
		cfg.SitemapInterval = d
	}
	if raw := os.Getenv("RATE_LIMIT_MAX"); raw != "" {
		if value, err := strconv.Atoi(raw); err == nil && value > 0 {
			cfg.RateLimitMax = value
		}
	}
	if raw := os.Getenv("RATE_LIMIT_WINDOW"); raw != "" {
		if d, err := ParseDuration(raw); err == nil && d > 0 {
			cfg.RateLimitWindow = d
		}
	}
	if raw := os.Getenv("DB_MAX_OPEN_CONNS"); raw != "" {
		if value, err := strconv.Atoi(raw); err == nil && value > 0 {
			cfg.DBMaxOpenConns = value
		}
	}
	if raw := os.Getenv("DB_MAX_IDLE_CONNS"); raw != "" {
		if value, err := strconv.Atoi(raw); err == nil && value > 0 {
			cfg.DBMaxIdleConns = value
		}
	}
	return cfg, nil
}

func (c Config) IsProduction() bool {
	return c.Environment == EnvProduction
}

// ParseDuration accepts Go durations ("36h") plus a day suffix ("7d").
func ParseDuration(raw string) (time.Duration, error) {
	raw = strings.TrimSpace(raw)
	if strings.HasSuffix(raw, "d") {
		days, err := strconv.Atoi(strings.TrimSuffix(raw, "d"))
		if err != nil || days < 0 {
			return 0, errors.Errorf("invalid duration %q", raw)
		}
		return time.Duration(days) * 24 * time.Hour, nil
	}
	d, err := time.ParseDuration(raw)
	if err != nil {
		return 0, errors.Wrapf(err, "invalid duration %q", raw)
	}
	return d, nil
}

func splitList(raw string) []string {
	var out []string
	for _, part := range strings.Split(raw, ",") {
		if part = strings.TrimSpace(part); part != "" {
			out = append(out, part)
		}
	}
	return out
}
