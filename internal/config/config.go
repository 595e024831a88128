// internal/config/config.go
package config

import (
	"fmt"
	"net"
	"net/url"
	"os"
	"strconv"
	"strings"
	"time"

	"github.com/joho/godotenv"
)

type Config struct {
	Environment string
	LogLevel    string
	Server      ServerConfig
	Backend     BackendConfig
	Uploads     UploadConfig
	Catalog     CatalogConfig
	Drafts      DraftConfig
	RateLimit   RateLimitConfig
	CORS        CORSConfig
}

type ServerConfig struct {
	Port         string
	Host         string
	ReadTimeout  int
	WriteTimeout int
	IdleTimeout  int
}

type BackendConfig struct {
	BaseURL       string
	Timeout       time.Duration
	SigningSecret string
	TokenTTL      time.Duration
	Issuer        string
}

type UploadConfig struct {
	MaxVariantImageSize int64 // in bytes
	MaxMeasureImageSize int64
	MaxIconSize         int64
	MaxMultipartMemory  int64
}

type CatalogConfig struct {
	Sizes string
}

type DraftConfig struct {
	IdleTTL       time.Duration
	SweepInterval time.Duration
}

type RateLimitConfig struct {
	GeneralPerSecond int
	GeneralBurst     int
	UploadPerMinute  int
	UploadBurst      int
}

type CORSConfig struct {
	AllowedOrigins   []string
	AllowCredentials bool
	MaxAge           time.Duration
}

func Load() (*Config, error) {
	// Load .env file if it exists
	godotenv.Load()

	config := &Config{
		Environment: getEnv("ENVIRONMENT", "development"),
		LogLevel:    getEnv("LOG_LEVEL", "info"),
		Server: ServerConfig{
			Port:         getEnv("SERVER_PORT", "8080"),
			Host:         getEnv("SERVER_HOST", ""), // empty binds every interface
			ReadTimeout:  getEnvAsInt("SERVER_READ_TIMEOUT", 30),
			WriteTimeout: getEnvAsInt("SERVER_WRITE_TIMEOUT", 60),
			IdleTimeout:  getEnvAsInt("SERVER_IDLE_TIMEOUT", 60),
		},
		Backend: BackendConfig{
			BaseURL:       strings.TrimRight(getEnv("BACKEND_BASE_URL", "http://localhost:5000/api"), "/"),
			Timeout:       getEnvAsDuration("BACKEND_TIMEOUT", 30*time.Second),
			SigningSecret: getEnv("BACKEND_SIGNING_SECRET", ""),
			TokenTTL:      getEnvAsDuration("BACKEND_TOKEN_TTL", 5*time.Minute),
			Issuer:        getEnv("BACKEND_TOKEN_ISSUER", "catalog-admin"),
		},
		Uploads: UploadConfig{
			MaxVariantImageSize: getEnvAsInt64("UPLOAD_MAX_VARIANT_IMAGE_SIZE", 10*1024*1024), // 10MB
			MaxMeasureImageSize: getEnvAsInt64("UPLOAD_MAX_MEASURE_IMAGE_SIZE", 5*1024*1024),  // 5MB
			MaxIconSize:         getEnvAsInt64("UPLOAD_MAX_ICON_SIZE", 1024*1024),             // 1MB
			MaxMultipartMemory:  getEnvAsInt64("UPLOAD_MAX_MULTIPART_MEMORY", 32*1024*1024),
		},
		Catalog: CatalogConfig{
			Sizes: getEnv("CATALOG_SIZES", ""),
		},
		Drafts: DraftConfig{
			IdleTTL:       getEnvAsDuration("DRAFT_IDLE_TTL", 2*time.Hour),
			SweepInterval: getEnvAsDuration("DRAFT_SWEEP_INTERVAL", 5*time.Minute),
		},
		RateLimit: RateLimitConfig{
			GeneralPerSecond: getEnvAsInt("RATE_LIMIT_GENERAL_PER_SECOND", 10),
			GeneralBurst:     getEnvAsInt("RATE_LIMIT_GENERAL_BURST", 20),
			UploadPerMinute:  getEnvAsInt("RATE_LIMIT_UPLOAD_PER_MINUTE", 30),
			UploadBurst:      getEnvAsInt("RATE_LIMIT_UPLOAD_BURST", 10),
		},
		CORS: CORSConfig{
			AllowedOrigins:   getEnvAsList("CORS_ALLOWED_ORIGINS", []string{"http://localhost:3000"}),
			AllowCredentials: getEnvAsBool("CORS_ALLOW_CREDENTIALS", true),
			MaxAge:           getEnvAsDuration("CORS_MAX_AGE", 12*time.Hour),
		},
	}

	return config, config.Validate()
}

func (c *Config) Validate() error {
	u, err := url.Parse(c.Backend.BaseURL)
	if err != nil || u.Scheme == "" || u.Host == "" {
		return fmt.Errorf("invalid backend base url %q", c.Backend.BaseURL)
	}

	if c.Backend.SigningSecret == "" && c.Environment == "production" {
		return fmt.Errorf("backend signing secret is required in production")
	}

	if c.Backend.Timeout <= 0 {
		return fmt.Errorf("backend timeout must be positive")
	}

	if c.Drafts.IdleTTL <= 0 || c.Drafts.SweepInterval <= 0 {
		return fmt.Errorf("draft idle ttl and sweep interval must be positive")
	}

	if c.RateLimit.GeneralPerSecond <= 0 || c.RateLimit.UploadPerMinute <= 0 {
		return fmt.Errorf("rate limits must be positive")
	}

	return nil
}

// Addr is the listen address built from SERVER_HOST and SERVER_PORT.
func (s ServerConfig) Addr() string {
	return net.JoinHostPort(s.Host, s.Port)
}

func (c *Config) IsProduction() bool {
	return c.Environment == "production"
}

// Helper functions
func getEnv(key, defaultValue string) string {
	if value := os.Getenv(key); value != "" {
		return value
	}
	return defaultValue
}

func getEnvAsInt(key string, defaultValue int) int {
	if value := os.Getenv(key); value != "" {
		if intValue, err := strconv.Atoi(value); err == nil {
			return intValue
		}
	}
	return defaultValue
}

func getEnvAsInt64(key string, defaultValue int64) int64 {
	if value := os.Getenv(key); value != "" {
		if intValue, err := strconv.ParseInt(value, 10, 64); err == nil {
			return intValue
		}
	}
	return defaultValue
}

func getEnvAsBool(key string, defaultValue bool) bool {
	if value := os.Getenv(key); value != "" {
		if boolValue, err := strconv.ParseBool(strings.ToLower(value)); err == nil {
			return boolValue
		}
	}
	return defaultValue
}

// getEnvAsDuration accepts Go durations ("90s") or a bare number of seconds.
func getEnvAsDuration(key string, defaultValue time.Duration) time.Duration {
	value := os.Getenv(key)
	if value == "" {
		return defaultValue
	}
	if d, err := time.ParseDuration(value); err == nil {
		return d
	}
	if secs, err := strconv.Atoi(value); err == nil {
		return time.Duration(secs) * time.Second
	}
	return defaultValue
}

func getEnvAsList(key string, defaultValue []string) []string {
	value := os.Getenv(key)
	if value == "" {
		return defaultValue
	}
	var out []string
	for _, part := range strings.Split(value, ",") {
		if part = strings.TrimSpace(part); part != "" {
			out = append(out, part)
		}
	}
	if len(out) == 0 {
		return defaultValue
	}
	return out
}
