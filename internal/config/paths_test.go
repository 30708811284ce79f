package config

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// writeWorkspace creates a minimal .x100 workspace under dir.
func writeWorkspace(t *testing.T, dir string) {
	t.Helper()
	require.NoError(t, os.MkdirAll(filepath.Join(dir, ".x100"), 0o755))
	require.NoError(t, os.WriteFile(filepath.Join(dir, ".x100", "config.json"), []byte("{}\n"), 0o644))
}

// --- PathsAt tests ---

func TestPathsAt_AllFields(t *testing.T) {
	paths := PathsAt("/work/proj")

	assert.Equal(t, "/work/proj", paths.Root)
	assert.Equal(t, filepath.Join("/work/proj", ".x100"), paths.ToolDir)
	assert.Equal(t, filepath.Join("/work/proj", ".x100", "config.json"), paths.Config)
	assert.Equal(t, filepath.Join("/work/proj", ".x100", "nextstep.json"), paths.Nextstep)
	assert.Equal(t, filepath.Join("/work/proj", ".x100", "reports"), paths.Reports)
	assert.Equal(t, filepath.Join("/work/proj", ".x100", "history.db"), paths.HistoryDB)
}

// --- ResolvePaths tests ---

func TestResolvePaths_EnvOverride(t *testing.T) {
	root := t.TempDir()
	writeWorkspace(t, root)
	t.Setenv("X100_ROOT", root)

	paths, err := ResolvePaths()
	require.NoError(t, err)
	assert.Equal(t, root, paths.Root)
}

func TestResolvePaths_WalksUp(t *testing.T) {
	root := t.TempDir()
	writeWorkspace(t, root)
	nested := filepath.Join(root, "src", "deep", "pkg")
	require.NoError(t, os.MkdirAll(nested, 0o755))
	t.Setenv("X100_ROOT", nested)

	paths, err := ResolvePaths()
	require.NoError(t, err)
	assert.Equal(t, root, paths.Root)
}

func TestResolvePaths_NoWorkspace(t *testing.T) {
	t.Setenv("X100_ROOT", t.TempDir())

	_, err := ResolvePaths()
	require.Error(t, err)
	var nw *NotAWorkspaceError
	require.ErrorAs(t, err, &nw)
	assert.Contains(t, err.Error(), "x100 init")
}

func TestResolvePaths_ConfigFileRequired(t *testing.T) {
	// A bare .x100 directory without config.json is not a workspace.
	root := t.TempDir()
	require.NoError(t, os.MkdirAll(filepath.Join(root, ".x100"), 0o755))
	t.Setenv("X100_ROOT", root)

	_, err := ResolvePaths()
	assert.Error(t, err)
}

// --- IsProject tests ---

func TestIsProject(t *testing.T) {
	root := t.TempDir()
	assert.False(t, IsProject(root))

	writeWorkspace(t, root)
	assert.True(t, IsProject(root))
}

// --- EnsureDirs tests ---

func TestEnsureDirs(t *testing.T) {
	paths := PathsAt(t.TempDir())

	require.NoError(t, paths.EnsureDirs())
	for _, dir := range []string{paths.ToolDir, paths.Reports} {
		info, err := os.Stat(dir)
		require.NoError(t, err)
		assert.True(t, info.IsDir())
	}

	require.NoError(t, paths.EnsureDirs()) // second call should succeed
}

// --- ParseConfigPath tests ---

func TestParseConfigPath(t *testing.T) {
	tests := []struct {
		name    string
		input   string
		want    []string
		wantErr bool
	}{
		{"single segment", "project_name", []string{"project_name"}, false},
		{"two segments", "github.repo", []string{"github", "repo"}, false},
		{"three segments", "a.b.c", []string{"a", "b", "c"}, false},
		{"empty", "", nil, true},
		{"empty segment", "github..repo", nil, true},
		{"leading dot", ".github", nil, true},
		{"trailing dot", "github.", nil, true},
		{"blocked __proto__", "foo.__proto__.bar", nil, true},
		{"blocked prototype", "prototype.x", nil, true},
		{"blocked constructor", "constructor", nil, true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, err := ParseConfigPath(tt.input)
			if tt.wantErr {
				assert.Error(t, err)
				var ce *ConfigError
				assert.ErrorAs(t, err, &ce)
			} else {
				require.NoError(t, err)
				assert.Equal(t, tt.want, got)
			}
		})
	}
}

// --- value-at-path tests ---

func TestGetValueAtPath(t *testing.T) {
	root := map[string]any{
		"github": map[string]any{
			"repo": "octo/spoon",
			"auth": map[string]any{"token_env": "GITHUB_TOKEN"},
		},
		"project_name": "spoon",
	}

	tests := []struct {
		name string
		path []string
		want any
		ok   bool
	}{
		{"nested value", []string{"github", "repo"}, "octo/spoon", true},
		{"deeply nested", []string{"github", "auth", "token_env"}, "GITHUB_TOKEN", true},
		{"top level", []string{"project_name"}, "spoon", true},
		{"missing key", []string{"nonexistent"}, nil, false},
		{"missing nested", []string{"github", "nonexistent"}, nil, false},
		{"non-map intermediate", []string{"project_name", "sub"}, nil, false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			val, ok := GetValueAtPath(root, tt.path)
			assert.Equal(t, tt.ok, ok)
			if tt.ok {
				assert.Equal(t, tt.want, val)
			}
		})
	}
}

func TestSetValueAtPath_CreatesIntermediates(t *testing.T) {
	root := map[string]any{}

	SetValueAtPath(root, []string{"a", "b", "c"}, "deep")
	val, ok := GetValueAtPath(root, []string{"a", "b", "c"})
	assert.True(t, ok)
	assert.Equal(t, "deep", val)
}

func TestSetValueAtPath_OverwritesNonMap(t *testing.T) {
	root := map[string]any{"github": "string-not-map"}

	SetValueAtPath(root, []string{"github", "repo"}, "octo/spoon")
	val, ok := GetValueAtPath(root, []string{"github", "repo"})
	assert.True(t, ok)
	assert.Equal(t, "octo/spoon", val)
}

func TestUnsetValueAtPath_PreserveSiblings(t *testing.T) {
	root := map[string]any{
		"github": map[string]any{"repo": "octo/spoon", "enabled": true},
	}

	ok := UnsetValueAtPath(root, []string{"github", "repo"})
	assert.True(t, ok)

	_, found := GetValueAtPath(root, []string{"github", "repo"})
	assert.False(t, found)

	val, found := GetValueAtPath(root, []string{"github", "enabled"})
	assert.True(t, found)
	assert.Equal(t, true, val)
}

func TestUnsetValueAtPath_NotFound(t *testing.T) {
	root := map[string]any{"github": map[string]any{}}

	assert.False(t, UnsetValueAtPath(root, []string{"github", "repo"}))
	assert.False(t, UnsetValueAtPath(root, []string{"a", "b"}))
}
