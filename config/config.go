package config

import (
	"os"
	"strconv"
)

type Config struct {
	Port           string
	MongoURI       string
	DBName         string
	JWTSecret      string
	CORSOrigin     string
	ChatbotAPIKey  string
	ChatbotAPIURL  string
	S3Bucket       string
	S3Region       string
	S3AccessKeyID  string
	S3SecretKey    string
	MaxUploadMB    int64
}

func Load() (*Config, error) {
	maxMB := int64(50)
	if v := getEnv("MAX_UPLOAD_MB", "50"); v != "" {
		if n, err := strconv.ParseInt(v, 10, 64); err == nil && n > 0 {
			maxMB = n
		}
	}

	return &Config{
		Port:           getEnv("PORT", "5000"),
		MongoURI:       getEnv("MONGODB_URI", "mongodb://localhost:27017"),
		DBName:         getEnv("MONGODB_DB", "novelhub"),
		JWTSecret:      getEnv("JWT_SECRET", "change-me-in-production"),
		CORSOrigin:     getEnv("CORS_ORIGIN", "http://localhost:5173"),
		ChatbotAPIKey:  getEnv("CHATBOT_API_KEY", ""),
		ChatbotAPIURL:  getEnv("CHATBOT_API_URL", ""),
		S3Bucket:       getEnv("AWS_S3_BUCKET", ""),
		S3Region:       getEnv("AWS_REGION", "us-east-1"),
		S3AccessKeyID:  getEnv("AWS_ACCESS_KEY_ID", ""),
		S3SecretKey:    getEnv("AWS_SECRET_ACCESS_KEY", ""),
		MaxUploadMB:    maxMB,
	}, nil
}

func getEnv(key, fallback string) string {
	if v := os.Getenv(key); v != "" {
		return v
	}
	return fallback
}
