package main

import (
	"bytes"
	"context"
	"os"
	"path/filepath"
	"testing"

	"NewsBriefing/internal/config"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
)

func loadDryRunConfig(t *testing.T, env map[string]string) *config.Config {
	t.Helper()
	cfg, err := config.Load(config.Options{
		EnvFile:      writeTemp(t, ".env", ""),
		SettingsFile: writeTemp(t, "digest.yaml", "{}\n"),
		DryRun:       true,
		LookupEnv: func(key string) (string, bool) {
			v, ok := env[key]
			return v, ok
		},
	})
	require.NoError(t, err)
	return cfg
}

func TestBuildOrchestratorDryRun(t *testing.T) {
	cfg := loadDryRunConfig(t, map[string]string{"GEMINI_API_KEY": "test-key"})

	o, err := buildOrchestrator(context.Background(), cfg, zap.NewNop(), &bytes.Buffer{})
	require.NoError(t, err)
	assert.NotNil(t, o)
}

func TestBuildOrchestratorBadPromptOverride(t *testing.T) {
	cfg := loadDryRunConfig(t, map[string]string{"GEMINI_API_KEY": "test-key"})
	cfg.Settings.PromptPath = writeTemp(t, "prompt.md", "no placeholder")

	_, err := buildOrchestrator(context.Background(), cfg, zap.NewNop(), &bytes.Buffer{})
	var cfgErr *config.ConfigurationError
	assert.ErrorAs(t, err, &cfgErr)
}

func TestBuildOrchestratorBadChatID(t *testing.T) {
	cfg := loadDryRunConfig(t, map[string]string{"GEMINI_API_KEY": "test-key"})
	cfg.DryRun = false
	cfg.Telegram = config.Telegram{Token: "123:abc", ChatID: "general"}

	_, err := buildOrchestrator(context.Background(), cfg, zap.NewNop(), &bytes.Buffer{})
	var cfgErr *config.ConfigurationError
	assert.ErrorAs(t, err, &cfgErr)
}

func writeTemp(t *testing.T, name, content string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), name)
	require.NoError(t, os.WriteFile(path, []byte(content), 0o600))
	return path
}
