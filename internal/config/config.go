package config

import (
	"log"
	"os"

	"github.com/joho/godotenv"
)

// Config holds application configuration loaded from environment variables
type Config struct {
	AdminPassword string
	DBPath        string
	SessionSecret string

	AzureOpenAIEndpoint   string
	AzureOpenAIAPIKey     string
	AzureOpenAIDeployment string
	AzureOpenAIAPIVersion string

	Env         string
	Port        string
	LogLevel    string
	LogFormat   string
	SeedDevData bool
}

// Load reads configuration from environment variables. A .env file in the
// working directory is applied first when present; real deployments set the
// variables directly.
func Load() *Config {
	_ = godotenv.Load()

	cfg := &Config{
		AdminPassword: os.Getenv("ADMIN_PASSWORD"),
		DBPath:        getEnvWithDefault("USER_DB_PATH", "users.db"),
		SessionSecret: os.Getenv("SESSION_SECRET"),

		AzureOpenAIEndpoint:   os.Getenv("AZURE_OPENAI_ENDPOINT"),
		AzureOpenAIAPIKey:     os.Getenv("AZURE_OPENAI_API_KEY"),
		AzureOpenAIDeployment: getEnvWithDefault("AZURE_OPENAI_DEPLOYMENT_NAME", "gpt-4o"),
		AzureOpenAIAPIVersion: getEnvWithDefault("AZURE_OPENAI_API_VERSION", "2024-02-01"),

		Env:         getEnvWithDefault("ENV", "development"),
		Port:        getEnvWithDefault("PORT", "8080"),
		LogLevel:    getEnvWithDefault("LOG_LEVEL", "info"),
		LogFormat:   getEnvWithDefault("LOG_FORMAT", "text"),
		SeedDevData: os.Getenv("SEED_DEV_DATA") == "true",
	}

	// Warn if using default session secret (insecure for production)
	if cfg.SessionSecret == "" {
		cfg.SessionSecret = "dev-secret-change-in-production-use-openssl-rand-hex-32"
		log.Println("WARNING: Using default SESSION_SECRET. Generate a secure secret with: openssl rand -hex 32")
	}

	return cfg
}

func getEnvWithDefault(key, defaultValue string) string {
	if value := os.Getenv(key); value != "" {
		return value
	}
	return defaultValue
}
