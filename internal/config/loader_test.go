package config

import (
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestLoad_MissingFileYieldsDefaults(t *testing.T) {
	cfg, err := Load(filepath.Join(t.TempDir(), "config.json"))
	require.NoError(t, err)
	assert.Equal(t, "claude", cfg.DefaultAgent)
	assert.Empty(t, cfg.ProjectName)
}

func TestLoad_ReadsAllFields(t *testing.T) {
	path := filepath.Join(t.TempDir(), "config.json")
	content := `{
  "project_name": "Spoon",
  "project_code": "spoon",
  "default_agent": "gemini",
  "backend": "django",
  "frontend": "nextjs"
}
`
	require.NoError(t, os.WriteFile(path, []byte(content), 0o644))

	cfg, err := Load(path)
	require.NoError(t, err)
	assert.Equal(t, "Spoon", cfg.ProjectName)
	assert.Equal(t, "spoon", cfg.ProjectCode)
	assert.Equal(t, "gemini", cfg.DefaultAgent)
	assert.Equal(t, "django", cfg.Backend)
	assert.Equal(t, "nextjs", cfg.Frontend)
}

func TestLoad_MalformedNamesTheFile(t *testing.T) {
	path := filepath.Join(t.TempDir(), "config.json")
	require.NoError(t, os.WriteFile(path, []byte("{not json"), 0o644))

	_, err := Load(path)
	require.Error(t, err)
	var ce *ConfigError
	require.ErrorAs(t, err, &ce)
	assert.Equal(t, path, ce.File)
	assert.Contains(t, err.Error(), path)
}

func TestLoad_NullFieldsTolerated(t *testing.T) {
	// The backend/frontend keys may hold null when no framework was picked.
	path := filepath.Join(t.TempDir(), "config.json")
	content := `{"project_name": "p", "backend": null, "frontend": null}`
	require.NoError(t, os.WriteFile(path, []byte(content), 0o644))

	cfg, err := Load(path)
	require.NoError(t, err)
	assert.Empty(t, cfg.Backend)
	assert.Empty(t, cfg.Frontend)
}

func TestSaveLoadRoundTrip(t *testing.T) {
	path := filepath.Join(t.TempDir(), ".x100", "config.json")
	cfg := Config{
		ProjectName:  "Spoon",
		ProjectCode:  "spoon",
		DefaultAgent: "claude",
	}

	require.NoError(t, Save(path, cfg))

	loaded, err := Load(path)
	require.NoError(t, err)
	assert.Equal(t, cfg, loaded)

	data, err := os.ReadFile(path)
	require.NoError(t, err)
	assert.True(t, strings.HasSuffix(string(data), "}\n"))
}

func TestSave_LeavesNoTempFiles(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "config.json")
	require.NoError(t, Save(path, Defaults()))

	entries, err := os.ReadDir(dir)
	require.NoError(t, err)
	require.Len(t, entries, 1)
	assert.Equal(t, "config.json", entries[0].Name())
}

func TestLoadRaw_PreservesUnknownKeys(t *testing.T) {
	path := filepath.Join(t.TempDir(), "config.json")
	content := `{"project_name": "p", "custom_tool": {"opt": 1}}`
	require.NoError(t, os.WriteFile(path, []byte(content), 0o644))

	raw, err := LoadRaw(path)
	require.NoError(t, err)

	val, ok := GetValueAtPath(raw, []string{"custom_tool", "opt"})
	require.True(t, ok)
	assert.Equal(t, float64(1), val)
}

func TestLoadRaw_MissingFileYieldsEmptyMap(t *testing.T) {
	raw, err := LoadRaw(filepath.Join(t.TempDir(), "config.json"))
	require.NoError(t, err)
	assert.Empty(t, raw)
}

func TestSaveRaw_RoundTrip(t *testing.T) {
	path := filepath.Join(t.TempDir(), "config.json")
	raw := map[string]any{"project_name": "p"}
	SetValueAtPath(raw, []string{"github", "repo"}, "octo/spoon")

	require.NoError(t, SaveRaw(path, raw))

	loaded, err := LoadRaw(path)
	require.NoError(t, err)
	val, ok := GetValueAtPath(loaded, []string{"github", "repo"})
	require.True(t, ok)
	assert.Equal(t, "octo/spoon", val)
}

func TestConfigAgent(t *testing.T) {
	assert.Equal(t, "claude", Config{}.Agent())
	assert.Equal(t, "qwen", Config{DefaultAgent: "qwen"}.Agent())
}
