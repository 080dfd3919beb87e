package config

import (
	"fmt"
	"os"
	"strconv"

	"github.com/joho/godotenv"
)

var (
	Addr = ":8080"

	// File-backed store settings
	DataDir = "./data"

	// MongoDB-backed store settings; the Mongo store is used when
	// MongoURI is non-empty.
	MongoURI      = ""
	MongoDatabase = "aicd"

	// Admin identity. AdminPasswordHash, when set, takes precedence over
	// the plaintext AdminPassword and must be a bcrypt hash.
	AdminUsername     = "admin"
	AdminPassword     = ""
	AdminPasswordHash = ""

	// Session settings
	SessionSecret = "change-me"
	SessionMaxAge = 86400 // seconds

	// Upload settings
	UploadDir     = "./public/uploads"
	MaxUploadSize = int64(5 * 1024 * 1024)

	// Logging
	LogLevel  = "info"
	LogFormat = "json"
)

func Init() {
	if err := godotenv.Load(); err != nil {
		fmt.Println("No .env file found or error loading it.")
	}

	// Helper to get env with default
	getEnv := func(key, fallback string) string {
		if v := os.Getenv(key); v != "" {
			return v
		}
		return fallback
	}

	Addr = getEnv("ADDR", ":8080")

	DataDir = getEnv("DATA_DIR", "./data")
	MongoURI = getEnv("MONGODB_URI", "")
	MongoDatabase = getEnv("MONGODB_DB", "aicd")

	AdminUsername = getEnv("ADMIN_USERNAME", "admin")
	AdminPassword = getEnv("ADMIN_PASSWORD", "")
	AdminPasswordHash = getEnv("ADMIN_PASSWORD_HASH", "")

	SessionSecret = getEnv("SESSION_SECRET", "change-me")
	if v := os.Getenv("SESSION_MAX_AGE"); v != "" {
		if n, err := strconv.Atoi(v); err == nil && n > 0 {
			SessionMaxAge = n
		}
	}

	UploadDir = getEnv("UPLOAD_DIR", "./public/uploads")
	if v := os.Getenv("MAX_UPLOAD_SIZE"); v != "" {
		if n, err := strconv.ParseInt(v, 10, 64); err == nil && n > 0 {
			MaxUploadSize = n
		}
	}

	LogLevel = getEnv("LOG_LEVEL", "info")
	LogFormat = getEnv("LOG_FORMAT", "json")
}
