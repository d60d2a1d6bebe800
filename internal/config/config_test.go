package config

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func clearLLMEnv(t *testing.T) {
	t.Helper()
	for _, key := range []string{
		"LLM_PROVIDER", "LLM_MODEL", "LLM_BASE_URL",
		"GEMINI_API_KEY", "API_KEY", "GOOGLE_API_KEY", "OPENAI_API_KEY", "LLM_API_KEY",
	} {
		t.Setenv(key, "")
	}
}

func TestLoadDefaults(t *testing.T) {
	clearLLMEnv(t)
	t.Setenv("LLM_PROVIDER", "google")

	cfg, err := Load()
	require.NoError(t, err)

	assert.Equal(t, "google", cfg.LLMProvider)
	assert.Equal(t, 30*time.Second, cfg.ShutdownTimeout)
	assert.Equal(t, 2*time.Hour, cfg.SessionIdleTTL)
	assert.Equal(t, 10*time.Minute, cfg.SessionSweepInterval)
	assert.False(t, cfg.HasAPIKey())
}

func TestLoadFromEnv(t *testing.T) {
	clearLLMEnv(t)
	t.Setenv("PORT", "9090")
	t.Setenv("DEBUG_MODE", "false")
	t.Setenv("ALLOWED_ORIGINS", "http://localhost:5173,https://tubegenius.app")
	t.Setenv("SESSION_IDLE_TTL", "45m")

	cfg, err := Load()
	require.NoError(t, err)

	assert.Equal(t, "9090", cfg.Port)
	assert.False(t, cfg.DebugMode)
	assert.Equal(t, []string{"http://localhost:5173", "https://tubegenius.app"}, cfg.AllowedOrigins)
	assert.Equal(t, 45*time.Minute, cfg.SessionIdleTTL)
}

func TestResolveAPIKeyFallbackOrder(t *testing.T) {
	cfg := &Config{APIKey: "generic", GoogleAPIKey: "google"}
	assert.Equal(t, "generic", cfg.ResolveAPIKey("google"))

	cfg.GeminiAPIKey = "gemini"
	assert.Equal(t, "gemini", cfg.ResolveAPIKey("google"))

	cfg = &Config{GoogleAPIKey: "google"}
	assert.Equal(t, "google", cfg.ResolveAPIKey("google"))

	cfg = &Config{OpenAIAPIKey: "sk-test", LLMAPIKey: "other"}
	assert.Equal(t, "sk-test", cfg.ResolveAPIKey("openai"))
	assert.Equal(t, "other", cfg.ResolveAPIKey("openrouter"))
}

func TestLLMSettings(t *testing.T) {
	cfg := &Config{
		LLMProvider:  "google",
		LLMModel:     "gemini-2.5-pro",
		GeminiAPIKey: "key",
	}
	assert.Equal(t, map[string]string{"api_key": "key", "default_model": "gemini-2.5-pro"}, cfg.LLMSettings())

	// 运行时配置优先
	cfg.LLMConfig = map[string]string{"api_key": "override"}
	settings := cfg.LLMSettings()
	assert.Equal(t, "override", settings["api_key"])

	settings["api_key"] = "mutated"
	assert.Equal(t, "override", cfg.LLMConfig["api_key"])
}

func TestUpdateLLMConfigKeepsEnvKey(t *testing.T) {
	clearLLMEnv(t)
	t.Setenv("OPENAI_API_KEY", "sk-env")

	_, err := InitConfig()
	require.NoError(t, err)

	require.NoError(t, UpdateLLMConfig("openai", map[string]string{"default_model": "gpt-4.1"}))

	cfg := GetCurrentConfig()
	assert.Equal(t, "openai", cfg.LLMProvider)
	assert.Equal(t, "gpt-4.1", cfg.LLMModel)
	assert.Equal(t, "sk-env", cfg.LLMSettings()["api_key"])

	// 返回的是副本
	cfg.LLMConfig["api_key"] = "changed"
	assert.Equal(t, "sk-env", GetCurrentConfig().LLMConfig["api_key"])
}

func TestPrepareLLMSettingsDoesNotCommit(t *testing.T) {
	clearLLMEnv(t)
	t.Setenv("LLM_PROVIDER", "google")
	t.Setenv("LLM_API_KEY", "llm-env")

	_, err := InitConfig()
	require.NoError(t, err)

	settings, err := PrepareLLMSettings("openrouter", map[string]string{"default_model": "x/y"})
	require.NoError(t, err)
	assert.Equal(t, "llm-env", settings["api_key"])
	assert.Equal(t, "x/y", settings["default_model"])

	cfg := GetCurrentConfig()
	assert.Equal(t, "google", cfg.LLMProvider)
	assert.Nil(t, cfg.LLMConfig)
}
