package config

import (
	"fmt"
	"log"
	"os"
	"strconv"
	"strings"
	"time"

	"github.com/joho/godotenv"
)

type Config struct {
	Server    ServerConfig
	App       AppConfig
	Store     StoreConfig
	Firebase  FirebaseConfig
	Database  DatabaseConfig
	Redis     RedisConfig
	SMTP      SMTPConfig
	RateLimit RateLimitConfig
	Digest    DigestConfig
	CORS      CORSConfig
	Site      SiteConfig
}

type ServerConfig struct {
	Port string
	// TrustedProxies are the proxy addresses or CIDRs whose X-Forwarded-For
	// gin honours when resolving the client IP. Empty trusts no proxy.
	TrustedProxies []string
}

type AppConfig struct {
	Environment string
	Version     string
	ServiceName string
}

// StoreConfig selects the document store backing contact submissions.
type StoreConfig struct {
	Backend string // "firestore" or "postgres"
}

type FirebaseConfig struct {
	ProjectID       string
	CredentialsPath string
}

type DatabaseConfig struct {
	Host     string
	Port     int
	User     string
	Password string
	Name     string
	SSLMode  string
}

type RedisConfig struct {
	Addr     string
	Password string
	DB       int
}

type SMTPConfig struct {
	Host        string
	Port        int
	Username    string
	Password    string
	DialTimeout time.Duration
}

type RateLimitConfig struct {
	Enabled bool
	Backend string // "memory" or "redis"
	// Requests allowed per client IP inside Window.
	Requests int
	Window   time.Duration
}

type DigestConfig struct {
	Schedule string
}

type CORSConfig struct {
	AllowedOrigins []string
}

// SiteConfig is the immutable site-wide configuration. It is loaded once at
// startup and passed by value to whatever needs it.
type SiteConfig struct {
	Name             string
	URL              string
	AdminEmail       string
	FromEmail        string
	DefaultLocale    string
	SupportedLocales []string
}

const (
	StoreFirestore = "firestore"
	StorePostgres  = "postgres"

	RateLimitMemory = "memory"
	RateLimitRedis  = "redis"

	// FallbackLocale is used when a SiteConfig carries no default locale.
	FallbackLocale = "en"
)

func Load() (*Config, error) {
	// Load .env file if it exists (ignore error in production)
	if err := godotenv.Load(); err != nil {
		log.Println("No .env file found, using environment variables")
	}

	cfg := &Config{
		Server: ServerConfig{
			Port:           getEnv("PORT", "8080"),
			TrustedProxies: getEnvAsList("TRUSTED_PROXIES", nil),
		},
		App: AppConfig{
			Environment: getEnv("APP_ENV", "development"),
			Version:     getEnv("APP_VERSION", "1.0.0"),
			ServiceName: getEnv("SERVICE_NAME", "website-backend"),
		},
		Store: StoreConfig{
			Backend: strings.ToLower(getEnv("STORE_BACKEND", StoreFirestore)),
		},
		Firebase: FirebaseConfig{
			ProjectID:       getEnv("FIREBASE_PROJECT_ID", ""),
			CredentialsPath: getEnv("FIREBASE_CREDENTIALS_PATH", ""),
		},
		Database: DatabaseConfig{
			Host:     getEnv("DB_HOST", "localhost"),
			Port:     getEnvAsInt("DB_PORT", 5432),
			User:     getEnv("DB_USER", "postgres"),
			Password: getEnv("DB_PASSWORD", ""),
			Name:     getEnv("DB_NAME", "website"),
			SSLMode:  getEnv("DB_SSLMODE", "disable"),
		},
		Redis: RedisConfig{
			Addr:     getEnv("REDIS_ADDR", "localhost:6379"),
			Password: getEnv("REDIS_PASSWORD", ""),
			DB:       getEnvAsInt("REDIS_DB", 0),
		},
		SMTP: SMTPConfig{
			Host:        getEnv("SMTP_HOST", ""),
			Port:        getEnvAsInt("SMTP_PORT", 587),
			Username:    getEnv("SMTP_USERNAME", ""),
			Password:    getEnv("SMTP_PASSWORD", ""),
			DialTimeout: getEnvAsDuration("SMTP_DIAL_TIMEOUT", 10*time.Second),
		},
		RateLimit: RateLimitConfig{
			Enabled:  getEnvAsBool("RATE_LIMIT_ENABLED", true),
			Backend:  strings.ToLower(getEnv("RATE_LIMIT_BACKEND", RateLimitMemory)),
			Requests: getEnvAsInt("RATE_LIMIT_REQUESTS", 5),
			Window:   getEnvAsDuration("RATE_LIMIT_WINDOW", time.Minute),
		},
		Digest: DigestConfig{
			Schedule: getEnv("DIGEST_CRON", "0 0 8 * * *"),
		},
		CORS: CORSConfig{
			AllowedOrigins: getEnvAsList("CORS_ALLOWED_ORIGINS", []string{"http://localhost:3000"}),
		},
		Site: SiteConfig{
			Name:             getEnv("SITE_NAME", "Nexora Labs"),
			URL:              getEnv("SITE_URL", "https://nexoralabs.lk"),
			AdminEmail:       getEnv("SITE_ADMIN_EMAIL", ""),
			FromEmail:        getEnv("SITE_FROM_EMAIL", ""),
			DefaultLocale:    getEnv("SITE_DEFAULT_LOCALE", FallbackLocale),
			SupportedLocales: getEnvAsList("SITE_LOCALES", []string{"en", "si", "ta", "ar"}),
		},
	}

	if err := cfg.Validate(); err != nil {
		return nil, err
	}

	return cfg, nil
}

func (c *Config) Validate() error {
	if c.Server.Port == "" {
		return fmt.Errorf("PORT is required")
	}

	switch c.Store.Backend {
	case StoreFirestore:
		if c.Firebase.ProjectID == "" && c.Firebase.CredentialsPath == "" {
			return fmt.Errorf("FIREBASE_PROJECT_ID or FIREBASE_CREDENTIALS_PATH is required for the firestore store")
		}
	case StorePostgres:
		if c.Database.Host == "" {
			return fmt.Errorf("DB_HOST is required")
		}
	default:
		return fmt.Errorf("unknown STORE_BACKEND %q", c.Store.Backend)
	}

	if c.Site.DefaultLocale != "" && !c.Site.IsSupportedLocale(c.Site.DefaultLocale) {
		return fmt.Errorf("SITE_DEFAULT_LOCALE %q is not one of SITE_LOCALES", c.Site.DefaultLocale)
	}

	if c.RateLimit.Enabled {
		if c.RateLimit.Backend != RateLimitMemory && c.RateLimit.Backend != RateLimitRedis {
			return fmt.Errorf("unknown RATE_LIMIT_BACKEND %q", c.RateLimit.Backend)
		}
		if c.RateLimit.Requests <= 0 || c.RateLimit.Window <= 0 {
			return fmt.Errorf("RATE_LIMIT_REQUESTS and RATE_LIMIT_WINDOW must be positive")
		}
	}

	return nil
}

// IsSupportedLocale reports whether locale is one of the site's locales.
func (s SiteConfig) IsSupportedLocale(locale string) bool {
	for _, l := range s.SupportedLocales {
		if l == locale {
			return true
		}
	}
	return false
}

// NormalizeLocale returns locale when the site supports it and the site's
// default locale otherwise.
func (s SiteConfig) NormalizeLocale(locale string) string {
	if s.IsSupportedLocale(locale) {
		return locale
	}
	if s.DefaultLocale == "" {
		return FallbackLocale
	}
	return s.DefaultLocale
}

func getEnv(key, defaultValue string) string {
	if value := os.Getenv(key); value != "" {
		return value
	}
	return defaultValue
}

func getEnvAsInt(key string, defaultValue int) int {
	valueStr := os.Getenv(key)
	if valueStr == "" {
		return defaultValue
	}

	value, err := strconv.Atoi(valueStr)
	if err != nil {
		log.Printf("Warning: Invalid integer for %s, using default: %d", key, defaultValue)
		return defaultValue
	}

	return value
}

func getEnvAsBool(key string, defaultValue bool) bool {
	valueStr := os.Getenv(key)
	if valueStr == "" {
		return defaultValue
	}

	value, err := strconv.ParseBool(valueStr)
	if err != nil {
		log.Printf("Warning: Invalid boolean for %s, using default: %t", key, defaultValue)
		return defaultValue
	}

	return value
}

func getEnvAsDuration(key string, defaultValue time.Duration) time.Duration {
	valueStr := os.Getenv(key)
	if valueStr == "" {
		return defaultValue
	}

	value, err := time.ParseDuration(valueStr)
	if err != nil {
		log.Printf("Warning: Invalid duration for %s, using default: %s", key, defaultValue)
		return defaultValue
	}

	return value
}

func getEnvAsList(key string, defaultValue []string) []string {
	valueStr := os.Getenv(key)
	if valueStr == "" {
		return defaultValue
	}

	var out []string
	for _, part := range strings.Split(valueStr, ",") {
		if p := strings.TrimSpace(part); p != "" {
			out = append(out, p)
		}
	}
	if len(out) == 0 {
		return defaultValue
	}
	return out
}
