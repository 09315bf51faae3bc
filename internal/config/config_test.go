package config

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestLoadDefaults(t *testing.T) {
	t.Setenv("ADMIN_PASSWORD", "")
	t.Setenv("USER_DB_PATH", "")
	t.Setenv("AZURE_OPENAI_DEPLOYMENT_NAME", "")
	t.Setenv("AZURE_OPENAI_API_VERSION", "")
	t.Setenv("SESSION_SECRET", "")
	t.Setenv("ENV", "")
	t.Setenv("PORT", "")

	cfg := Load()

	assert.Equal(t, "users.db", cfg.DBPath)
	assert.Equal(t, "gpt-4o", cfg.AzureOpenAIDeployment)
	assert.Equal(t, "2024-02-01", cfg.AzureOpenAIAPIVersion)
	assert.Equal(t, "development", cfg.Env)
	assert.Equal(t, "8080", cfg.Port)
	assert.Equal(t, "info", cfg.LogLevel)
	assert.False(t, cfg.SeedDevData)
	// Falls back to a dev secret rather than failing startup.
	assert.NotEmpty(t, cfg.SessionSecret)
}

func TestLoadFromEnvironment(t *testing.T) {
	t.Setenv("ADMIN_PASSWORD", "hunter2")
	t.Setenv("USER_DB_PATH", "/data/app.db")
	t.Setenv("AZURE_OPENAI_ENDPOINT", "https://example.openai.azure.com/")
	t.Setenv("AZURE_OPENAI_API_KEY", "key-123")
	t.Setenv("AZURE_OPENAI_DEPLOYMENT_NAME", "gpt-4o-mini")
	t.Setenv("SESSION_SECRET", "s3cret")
	t.Setenv("SEED_DEV_DATA", "true")

	cfg := Load()

	assert.Equal(t, "hunter2", cfg.AdminPassword)
	assert.Equal(t, "/data/app.db", cfg.DBPath)
	assert.Equal(t, "https://example.openai.azure.com/", cfg.AzureOpenAIEndpoint)
	assert.Equal(t, "key-123", cfg.AzureOpenAIAPIKey)
	assert.Equal(t, "gpt-4o-mini", cfg.AzureOpenAIDeployment)
	assert.Equal(t, "s3cret", cfg.SessionSecret)
	assert.True(t, cfg.SeedDevData)
}
