package config

import (
	"os"

	"github.com/joho/godotenv"
)

type Config struct {
	Port          string
	MongoURI      string
	MongoDB       string
	RedisAddr     string
	JWTSecret     string
	AdminCode     string
	CloudinaryURL string
	UploadDir     string
	HMACSecret    string
}

// Load reads configuration from the environment, falling back to
// development defaults. The JWT secret default is a known weakness and
// must be overridden in production.
func Load() *Config {
	// load .env if present; system environment wins otherwise
	_ = godotenv.Load()

	return &Config{
		Port:          getEnv("PORT", "8080"),
		MongoURI:      getEnv("MONGODB_URI", "mongodb://localhost:27017"),
		MongoDB:       getEnv("MONGODB_DB", "bazaardb"),
		RedisAddr:     getEnv("REDIS_ADDR", "localhost:6379"),
		JWTSecret:     getEnv("JWT_SECRET", "your_secret_key"),
		AdminCode:     getEnv("ADMIN_CODE", ""),
		CloudinaryURL: getEnv("CLOUDINARY_URL", ""),
		UploadDir:     getEnv("UPLOAD_DIR", "./static/uploads"),
		HMACSecret:    getEnv("HMAC_SECRET", "invoice-signing-key"),
	}
}

func getEnv(key, defaultValue string) string {
	if value := os.Getenv(key); value != "" {
		return value
	}
	return defaultValue
}
