package config

import (
	"errors"
	"fmt"
	"os"
	"strings"
	"time"
)

// ErrCredentialsMissing signals that the service-account credentials for the
// backing spreadsheet are not configured. Startup fails on it.
var ErrCredentialsMissing = errors.New("google service account credentials are not set")

type Config struct {
	Port string

	// Backing spreadsheet. The private key arrives with literal \n sequences
	// when set through a single-line env var; Load normalizes them.
	ServiceAccountEmail string
	PrivateKey          string
	SpreadsheetID       string

	// Sheet (tab) names inside the spreadsheet. Row 1 of each is a header.
	ItemsSheet string
	LoansSheet string
	UsersSheet string

	// Photo storage. An empty bucket disables uploads; loans then record an
	// attachment sentinel instead of a URL.
	GCSBucket          string
	GCSCredentialsJSON string

	// Built-in credential pairs checked before the Users sheet.
	AdminUsername  string
	AdminPassword  string
	AdminFullName  string
	ViewerUsername string
	ViewerPassword string
	ViewerFullName string

	JWTSecret   string
	JWTIssuer   string
	JWTAudience string
	JWTExpiry   time.Duration
}

func Load() *Config {
	config := &Config{
		Port:                getEnv("PORT", "8080"),
		ServiceAccountEmail: os.Getenv("GOOGLE_SERVICE_ACCOUNT_EMAIL"),
		PrivateKey:          strings.ReplaceAll(os.Getenv("GOOGLE_PRIVATE_KEY"), `\n`, "\n"),
		SpreadsheetID:       os.Getenv("GOOGLE_SPREADSHEET_ID"),
		ItemsSheet:          getEnv("ITEMS_SHEET", "Items"),
		LoansSheet:          getEnv("LOANS_SHEET", "Loans"),
		UsersSheet:          getEnv("USERS_SHEET", "Users"),
		GCSBucket:           os.Getenv("GCS_BUCKET"),
		GCSCredentialsJSON:  os.Getenv("GCS_CREDENTIALS_JSON"),
		AdminUsername:       getEnv("ADMIN_USERNAME", "admin"),
		AdminPassword:       getEnv("ADMIN_PASSWORD", "admin123"),
		AdminFullName:       getEnv("ADMIN_FULL_NAME", "Asset Administrator"),
		ViewerUsername:      getEnv("VIEWER_USERNAME", "viewer"),
		ViewerPassword:      getEnv("VIEWER_PASSWORD", "viewer123"),
		ViewerFullName:      getEnv("VIEWER_FULL_NAME", "Viewer"),
		JWTSecret:           getEnv("JWT_SECRET", "your-secret-key-change-in-production"),
		JWTIssuer:           getEnv("JWT_ISS", "asset-lending-api"),
		JWTAudience:         getEnv("JWT_AUD", "asset-lending-api"),
		JWTExpiry:           24 * time.Hour, // Default to 24 hours
	}

	// Parse JWT expiry from environment if provided
	if expiryStr := os.Getenv("JWT_EXPIRY"); expiryStr != "" {
		if expiry, err := time.ParseDuration(expiryStr); err == nil {
			config.JWTExpiry = expiry
		}
	}

	return config
}

// Validate checks the pieces the server cannot run without.
func (c *Config) Validate() error {
	if c.ServiceAccountEmail == "" || c.PrivateKey == "" {
		return ErrCredentialsMissing
	}
	if c.SpreadsheetID == "" {
		return errors.New("GOOGLE_SPREADSHEET_ID is required")
	}
	if c.ItemsSheet == "" || c.LoansSheet == "" || c.UsersSheet == "" {
		return errors.New("sheet names must not be empty")
	}

	if c.JWTSecret == "" {
		return errors.New("JWT secret must not be empty")
	}
	if len(c.JWTSecret) < 16 {
		return errors.New("JWT secret must be at least 16 characters")
	}
	if os.Getenv("ENVIRONMENT") == "production" && c.JWTSecret == "your-secret-key-change-in-production" {
		return errors.New("default JWT secret must not be used in production")
	}
	if c.JWTIssuer == "" {
		return errors.New("JWT issuer must not be empty")
	}
	if c.JWTAudience == "" {
		return errors.New("JWT audience must not be empty")
	}
	if c.JWTExpiry < time.Minute {
		return fmt.Errorf("JWT expiry %v is too short", c.JWTExpiry)
	}
	if c.JWTExpiry > 30*24*time.Hour {
		return fmt.Errorf("JWT expiry %v is too long", c.JWTExpiry)
	}

	return nil
}

func LoadAndValidate() (*Config, error) {
	cfg := Load()
	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return cfg, nil
}

func getEnv(key, defaultValue string) string {
	if value := os.Getenv(key); value != "" {
		return value
	}
	return defaultValue
}
