package config

import (
	"os"
	"strings"
)

// App holds runtime configuration derived from env vars.
type App struct {
	Environment   string
	LogLevel      string
	LogEncoding   string
	APIPort       string
	CORSOrigins   []string
	ConfigPath    string
	StorageDriver string
	StoragePath   string
	DatabaseURL   string
}

// FromEnv loads the application configuration from environment variables.
func FromEnv() App {
	return App{
		Environment:   getEnv("ENVIRONMENT", "production"),
		LogLevel:      getEnv("LOG_LEVEL", "info"),
		LogEncoding:   getEnv("LOG_ENCODING", "json"),
		APIPort:       getEnv("API_PORT", "8080"),
		CORSOrigins:   getCORSOrigins(),
		ConfigPath:    getEnv("CONFIG_PATH", "configs/default.yaml"),
		StorageDriver: os.Getenv("STORAGE_DRIVER"),
		StoragePath:   os.Getenv("STORAGE_PATH"),
		DatabaseURL:   os.Getenv("DATABASE_URL"),
	}
}

// ApplyTo overrides the file's storage section with whatever the environment sets.
func (a App) ApplyTo(f *File) {
	if a.StorageDriver != "" {
		f.Storage.Driver = a.StorageDriver
	}
	if a.StoragePath != "" {
		f.Storage.SQLitePath = a.StoragePath
	}
	if a.DatabaseURL != "" {
		f.Storage.DSN = a.DatabaseURL
	}
}

func getEnv(key, defaultValue string) string {
	if v := os.Getenv(key); v != "" {
		return v
	}
	return defaultValue
}

func getCORSOrigins() []string {
	raw := os.Getenv("CORS_ORIGINS")
	if raw == "" {
		return []string{"*"}
	}
	origins := make([]string, 0)
	for _, o := range strings.Split(raw, ",") {
		if o = strings.TrimSpace(o); o != "" {
			origins = append(origins, o)
		}
	}
	return origins
}
