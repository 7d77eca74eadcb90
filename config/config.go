package config

import (
	"os"

	"github.com/joho/godotenv"
)

// Config carries every environment-sourced setting. It is built once in main
// and handed by reference to the modules that need it, so nothing reads the
// environment after startup.
type Config struct {
	Port          string
	DatabasePath  string
	JWTSecret     string
	CookieSecure  bool
	Domain        string
	AdminEmail    string
	AdminPassword string
	CloudinaryURL string
	FormspreeURL  string
}

func Load() *Config {
	_ = godotenv.Load()

	return &Config{
		Port:          getEnv("PORT", "8080"),
		DatabasePath:  getEnv("SQLITE_DB", "inkwell.db"),
		JWTSecret:     getEnv("JWT_SECRET", ""),
		CookieSecure:  getEnv("COOKIE_SECURE", "") == "true",
		Domain:        getEnv("DOMAIN", "http://localhost:8080"),
		AdminEmail:    getEnv("ADMIN_EMAIL", ""),
		AdminPassword: getEnv("ADMIN_PASSWORD", ""),
		CloudinaryURL: getEnv("CLOUDINARY_URL", ""),
		FormspreeURL:  getEnv("FORMSPREE_ENDPOINT", ""),
	}
}

func getEnv(key, defaultVal string) string {
	if value := os.Getenv(key); value != "" {
		return value
	}
	return defaultVal
}
