package config

import (
	"os"
	"strings"
	"time"

	"github.com/joho/godotenv"
	"github.com/sirupsen/logrus"
)

// Config holds all runtime configuration for The Happy Haul server.
type Config struct {
	Port            string
	Environment     string
	LogLevel        string
	JWTSecret       string
	TokenExpiry     time.Duration
	DataDir         string
	UploadsDir      string
	StorageBackend  string
	MongoURI        string
	MongoDatabase   string
	UploadBackend   string
	S3              S3Config
	AllowedOrigins  []string
	MetadataTimeout time.Duration
}

// S3Config describes an S3-compatible bucket used for image uploads.
type S3Config struct {
	AccountID       string
	Endpoint        string
	AccessKeyID     string
	SecretAccessKey string
	BucketName      string
	Region          string
	PublicBaseURL   string
}

const (
	BackendFile  = "file"
	BackendMongo = "mongo"

	UploadLocal = "local"
	UploadS3    = "s3"
)

// LoadConfig reads the optional .env file and the process environment.
func LoadConfig() *Config {
	envFile := getEnv("ENV_FILE", ".env")
	if err := godotenv.Load(envFile); err != nil {
		logrus.WithField("file", envFile).Debug("No env file found, using environment variables")
	}

	origins := splitList(getEnv("ALLOWED_ORIGINS", "http://localhost:3000,https://thehappyhaul.vercel.app"))
	if frontend := os.Getenv("FRONTEND_URL"); frontend != "" {
		origins = append(origins, frontend)
	}

	return &Config{
		Port:            getEnv("PORT", "3001"),
		Environment:     getEnv("NODE_ENV", "development"),
		LogLevel:        getEnv("LOG_LEVEL", "info"),
		JWTSecret:       getEnv("JWT_SECRET", "your-secret-key-change-in-production"),
		TokenExpiry:     getDuration("TOKEN_EXPIRY", 7*24*time.Hour),
		DataDir:         getEnv("DATA_DIR", "./data"),
		UploadsDir:      getEnv("UPLOADS_DIR", "./uploads"),
		StorageBackend:  strings.ToLower(getEnv("STORAGE_BACKEND", BackendFile)),
		MongoURI:        getEnv("MONGO_URI", "mongodb://localhost:27017"),
		MongoDatabase:   getEnv("MONGO_DATABASE", "happyhaul"),
		UploadBackend:   strings.ToLower(getEnv("UPLOAD_BACKEND", UploadLocal)),
		AllowedOrigins:  origins,
		MetadataTimeout: getDuration("METADATA_TIMEOUT", 5*time.Second),
		S3: S3Config{
			AccountID:       getEnv("S3_ACCOUNT_ID", ""),
			Endpoint:        getEnv("S3_ENDPOINT", ""),
			AccessKeyID:     getEnv("S3_ACCESS_KEY_ID", ""),
			SecretAccessKey: getEnv("S3_SECRET_ACCESS_KEY", ""),
			BucketName:      getEnv("S3_BUCKET_NAME", ""),
			Region:          getEnv("S3_REGION", "auto"),
			PublicBaseURL:   getEnv("S3_PUBLIC_BASE_URL", ""),
		},
	}
}

// Gets the env by key or fallbacks
func getEnv(key, fallback string) string {
	if value, ok := os.LookupEnv(key); ok && value != "" {
		return value
	}
	return fallback
}

func getDuration(key string, fallback time.Duration) time.Duration {
	raw := os.Getenv(key)
	if raw == "" {
		return fallback
	}
	d, err := time.ParseDuration(raw)
	if err != nil || d <= 0 {
		logrus.WithFields(logrus.Fields{"key": key, "value": raw}).Warn("Invalid duration, using default")
		return fallback
	}
	return d
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
