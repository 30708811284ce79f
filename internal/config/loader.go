package config

import (
	"encoding/json"
	"os"
	"path/filepath"

	"github.com/x100-tools/x100/internal/fsutil"
)

// Load reads .x100/config.json. A missing file yields defaults; a file that
// exists but does not parse yields a *ConfigError naming it, since the fix
// is a manual edit, not an overwrite.
func Load(path string) (Config, error) {
	cfg := Defaults()

	data, err := os.ReadFile(path)
	if err != nil {
		if os.IsNotExist(err) {
			return cfg, nil
		}
		return cfg, err
	}

	if err := json.Unmarshal(data, &cfg); err != nil {
		return Defaults(), &ConfigError{File: path, Message: "invalid JSON: " + err.Error()}
	}
	if cfg.DefaultAgent == "" {
		cfg.DefaultAgent = Defaults().DefaultAgent
	}
	return cfg, nil
}

// Save writes the config with two-space indentation and a trailing newline,
// atomically so a crash cannot leave a half-written file.
func Save(path string, cfg Config) error {
	data, err := json.MarshalIndent(cfg, "", "  ")
	if err != nil {
		return err
	}
	if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
		return err
	}
	return fsutil.WriteFileAtomic(path, append(data, '\n'), 0o644)
}

// LoadRaw reads the config file into a generic map for path-based access.
// Keys the typed Config does not know about are preserved.
func LoadRaw(path string) (map[string]any, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		if os.IsNotExist(err) {
			return map[string]any{}, nil
		}
		return nil, err
	}

	var raw map[string]any
	if err := json.Unmarshal(data, &raw); err != nil {
		return nil, &ConfigError{File: path, Message: "invalid JSON: " + err.Error()}
	}
	return raw, nil
}

// SaveRaw writes a generic map back to the JSON config file.
func SaveRaw(path string, raw map[string]any) error {
	data, err := json.MarshalIndent(raw, "", "  ")
	if err != nil {
		return err
	}
	if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
		return err
	}
	return fsutil.WriteFileAtomic(path, append(data, '\n'), 0o644)
}
