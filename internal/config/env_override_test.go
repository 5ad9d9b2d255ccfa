package config

import (
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestEnvOverrides(t *testing.T) {
	t.Setenv("GEMINI_API_KEY", "test-key-123")
	t.Setenv("REFURRM_ADDR", ":4242")
	t.Setenv("REFURRM_DB", "/var/lib/refurrm/refurrm.db")
	t.Setenv("REFURRM_ROSTER", "/etc/refurrm/roster.yaml")

	cfg, err := Load(filepath.Join(t.TempDir(), "absent.yaml"))
	require.NoError(t, err)

	assert.Equal(t, "test-key-123", cfg.LLM.APIKey)
	assert.Equal(t, ":4242", cfg.Server.Addr)
	assert.Equal(t, "/var/lib/refurrm/refurrm.db", cfg.Store.DatabasePath)
	assert.Equal(t, "/etc/refurrm/roster.yaml", cfg.Directory.RosterPath)
}

func TestEnvOverridesBeatFileValues(t *testing.T) {
	t.Setenv("REFURRM_MODEL", "gemini-2.5-pro")

	path := filepath.Join(t.TempDir(), "refurrm.yaml")
	cfg := DefaultConfig()
	cfg.LLM.Model = "gemini-2.5-flash"
	require.NoError(t, cfg.Save(path))

	loaded, err := Load(path)
	require.NoError(t, err)
	assert.Equal(t, "gemini-2.5-pro", loaded.LLM.Model)
}

func TestGeminiKeyKeepsProviderWhenSet(t *testing.T) {
	t.Setenv("GEMINI_API_KEY", "abc")

	path := filepath.Join(t.TempDir(), "refurrm.yaml")
	cfg := DefaultConfig()
	cfg.LLM.Provider = "genai"
	require.NoError(t, cfg.Save(path))

	loaded, err := Load(path)
	require.NoError(t, err)
	assert.Equal(t, "genai", loaded.LLM.Provider)
	assert.Equal(t, "abc", loaded.LLM.APIKey)
}
