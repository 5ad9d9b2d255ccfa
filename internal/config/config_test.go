package config

import (
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestLoadMissingFileReturnsDefaults(t *testing.T) {
	cfg, err := Load(filepath.Join(t.TempDir(), "nope.yaml"))
	require.NoError(t, err)

	assert.Equal(t, "ReFurrm", cfg.Name)
	assert.Equal(t, "gemini", cfg.LLM.Provider)
	assert.Equal(t, "gemini-2.5-flash", cfg.LLM.Model)
	assert.Equal(t, ":8090", cfg.Server.Addr)
	assert.Equal(t, "data/refurrm.db", cfg.Store.DatabasePath)
}

func TestLoadParsesYAML(t *testing.T) {
	path := filepath.Join(t.TempDir(), "refurrm.yaml")
	content := `
name: ReFurrm
llm:
  provider: genai
  model: gemini-2.0-flash
  timeout: 60s
server:
  addr: ":9999"
store:
  database_path: /tmp/test.db
directory:
  roster_path: /tmp/roster.yaml
  watch_roster: true
`
	require.NoError(t, os.WriteFile(path, []byte(content), 0644))

	cfg, err := Load(path)
	require.NoError(t, err)

	assert.Equal(t, "genai", cfg.LLM.Provider)
	assert.Equal(t, "gemini-2.0-flash", cfg.LLM.Model)
	assert.Equal(t, 60*time.Second, cfg.GetLLMTimeout())
	assert.Equal(t, ":9999", cfg.Server.Addr)
	assert.Equal(t, "/tmp/test.db", cfg.Store.DatabasePath)
	assert.Equal(t, "/tmp/roster.yaml", cfg.Directory.RosterPath)
	assert.True(t, cfg.Directory.WatchRoster)
}

func TestLoadInvalidYAML(t *testing.T) {
	path := filepath.Join(t.TempDir(), "bad.yaml")
	require.NoError(t, os.WriteFile(path, []byte("llm: [not : a map"), 0644))

	_, err := Load(path)
	assert.Error(t, err)
}

func TestSaveRoundTrip(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "sub", "refurrm.yaml")

	cfg := DefaultConfig()
	cfg.Server.Addr = ":7070"
	require.NoError(t, cfg.Save(path))

	loaded, err := Load(path)
	require.NoError(t, err)
	assert.Equal(t, ":7070", loaded.Server.Addr)
}

func TestTimeoutFallbacks(t *testing.T) {
	cfg := DefaultConfig()
	cfg.LLM.Timeout = "garbage"
	cfg.Server.ShutdownTimeout = ""

	assert.Equal(t, 120*time.Second, cfg.GetLLMTimeout())
	assert.Equal(t, 10*time.Second, cfg.GetShutdownTimeout())
}

func TestValidate(t *testing.T) {
	cfg := DefaultConfig()
	require.NoError(t, cfg.Validate())

	cfg.LLM.Provider = "openrouter"
	assert.Error(t, cfg.Validate())

	cfg = DefaultConfig()
	cfg.Store.DatabasePath = ""
	assert.Error(t, cfg.Validate())
}
