package config

import (
	"encoding/base64"
	"encoding/json"
	"errors"
	"fmt"
	"os"
	"strconv"
	"strings"

	"github.com/joho/godotenv"
)

const (
	StoreDriverPostgres = "postgres"
	StoreDriverMemory   = "memory"

	defaultJWKSURL = "https://www.googleapis.com/service_accounts/v1/jwk/securetoken@system.gserviceaccount.com"
)

type Config struct {
	// Store
	StoreDriver string
	DBHost      string
	DBPort      string
	DBUser      string
	DBPassword  string
	DBName      string
	DBSSLMode   string

	// Identity provider
	IdentityProjectID string
	IdentityJWKSURL   string
	IdentityIssuer    string

	// Media host (S3 compatible)
	MediaEndpoint  string
	MediaAccessKey string
	MediaSecretKey string
	MediaBucket    string
	MediaRegion    string
	MediaUseSSL    bool
	MediaPublicURL string

	// Server
	Port               string
	AppEnv             string
	CORSOrigins        string
	RateLimitPerMinute int
	WriteRatePerMinute int

	SentryDSN string
}

// Load reads an optional .env file and then the process environment.
func Load() *Config {
	// A missing .env is the normal case outside local development.
	_ = godotenv.Load()

	cfg := &Config{
		StoreDriver: strings.ToLower(getEnv("STORE_DRIVER", StoreDriverPostgres)),
		DBHost:      getEnv("DB_HOST", "localhost"),
		DBPort:      getEnv("DB_PORT", "5432"),
		DBUser:      getEnv("DB_USER", "postgres"),
		DBPassword:  getEnv("DB_PASSWORD", ""),
		DBName:      getEnv("DB_NAME", "apporbit"),
		DBSSLMode:   getEnv("DB_SSLMODE", "disable"),

		IdentityProjectID: getEnv("IDENTITY_PROJECT_ID", ""),
		IdentityJWKSURL:   getEnv("IDENTITY_JWKS_URL", defaultJWKSURL),
		IdentityIssuer:    getEnv("IDENTITY_ISSUER", ""),

		MediaEndpoint:  getEnv("MEDIA_ENDPOINT", ""),
		MediaAccessKey: getEnv("MEDIA_ACCESS_KEY", ""),
		MediaSecretKey: getEnv("MEDIA_SECRET_KEY", ""),
		MediaBucket:    getEnv("MEDIA_BUCKET", "apporbit-media"),
		MediaRegion:    getEnv("MEDIA_REGION", "us-east-1"),
		MediaUseSSL:    parseBool(getEnv("MEDIA_USE_SSL", "true")),
		MediaPublicURL: getEnv("MEDIA_PUBLIC_URL", ""),

		Port:               getEnv("PORT", "3000"),
		AppEnv:             getEnv("APP_ENV", "development"),
		CORSOrigins:        getEnv("CORS_ORIGINS", "*"),
		RateLimitPerMinute: parseInt(getEnv("RATE_LIMIT_PER_MINUTE", "60"), 60),
		WriteRatePerMinute: parseInt(getEnv("WRITE_RATE_PER_MINUTE", "30"), 30),

		SentryDSN: getEnv("SENTRY_DSN", ""),
	}

	if cfg.IdentityProjectID == "" {
		if blob := os.Getenv("FIREBASE_SERVICE_ACCOUNT"); blob != "" {
			if id, err := ProjectIDFromServiceAccount(blob); err == nil {
				cfg.IdentityProjectID = id
			}
		}
	}
	if cfg.IdentityIssuer == "" && cfg.IdentityProjectID != "" {
		cfg.IdentityIssuer = "https://securetoken.google.com/" + cfg.IdentityProjectID
	}

	return cfg
}

// Validate reports the first required setting that is missing.
func (c *Config) Validate() error {
	switch c.StoreDriver {
	case StoreDriverPostgres:
		if c.DBPassword == "" {
			return errors.New("DB_PASSWORD environment variable is required")
		}
	case StoreDriverMemory:
	default:
		return fmt.Errorf("unsupported STORE_DRIVER %q", c.StoreDriver)
	}
	if c.IdentityProjectID == "" {
		return errors.New("FIREBASE_SERVICE_ACCOUNT or IDENTITY_PROJECT_ID is required")
	}
	return nil
}

func (c *Config) MediaEnabled() bool {
	return c.MediaEndpoint != "" && c.MediaAccessKey != "" && c.MediaSecretKey != ""
}

func (c *Config) DSN() string {
	return "host=" + c.DBHost +
		" user=" + c.DBUser +
		" password=" + c.DBPassword +
		" dbname=" + c.DBName +
		" port=" + c.DBPort +
		" sslmode=" + c.DBSSLMode +
		" TimeZone=UTC"
}

// ProjectIDFromServiceAccount decodes a base64 service-account JSON blob and
// returns its project_id.
func ProjectIDFromServiceAccount(blob string) (string, error) {
	raw, err := base64.StdEncoding.DecodeString(strings.TrimSpace(blob))
	if err != nil {
		return "", fmt.Errorf("decode service account: %w", err)
	}
	var account struct {
		ProjectID string `json:"project_id"`
	}
	if err := json.Unmarshal(raw, &account); err != nil {
		return "", fmt.Errorf("parse service account: %w", err)
	}
	if account.ProjectID == "" {
		return "", errors.New("service account has no project_id")
	}
	return account.ProjectID, nil
}

func getEnv(key, fallback string) string {
	if val := os.Getenv(key); val != "" {
		return val
	}
	return fallback
}

func parseInt(s string, fallback int) int {
	n, err := strconv.Atoi(s)
	if err != nil || n <= 0 {
		return fallback
	}
	return n
}

func parseBool(s string) bool {
	b, err := strconv.ParseBool(s)
	if err != nil {
		return false
	}
	return b
}
