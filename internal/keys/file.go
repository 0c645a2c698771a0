package keys

import (
	"bytes"
	"errors"
	"fmt"
	"io/fs"
	"os"
	"path/filepath"

	"github.com/BurntSushi/toml"
)

// BindingConfig is one override entry in keybindings.toml.
type BindingConfig struct {
	Scope  string   `toml:"scope"`
	Action string   `toml:"action"`
	Keys   []string `toml:"keys"`
}

type fileFormat struct {
	Version int             `toml:"version"`
	Binding []BindingConfig `toml:"binding"`
}

const fileVersion = 1

// LoadFile builds a registry with the overrides in path applied. A missing
// file yields the defaults.
func LoadFile(path string) (*Registry, error) {
	r := NewRegistry()
	if path == "" {
		return r, nil
	}
	data, err := os.ReadFile(path)
	if errors.Is(err, fs.ErrNotExist) {
		return r, nil
	}
	if err != nil {
		return nil, fmt.Errorf("read keybindings: %w", err)
	}
	var f fileFormat
	if _, err := toml.Decode(string(data), &f); err != nil {
		return nil, fmt.Errorf("parse keybindings %s: %w", path, err)
	}
	if f.Version != 0 && f.Version != fileVersion {
		return nil, fmt.Errorf("keybindings %s: unsupported version %d", path, f.Version)
	}
	if err := r.ApplyConfig(f.Binding); err != nil {
		return nil, fmt.Errorf("keybindings %s: %w", path, err)
	}
	return r, nil
}

// WriteFile exports the registry's bindings to path, replacing it atomically.
func WriteFile(path string, r *Registry) error {
	if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
		return fmt.Errorf("mkdir keybindings dir: %w", err)
	}
	var buf bytes.Buffer
	buf.WriteString("# shapearea keybindings\n")
	if err := toml.NewEncoder(&buf).Encode(fileFormat{Version: fileVersion, Binding: r.ExportConfig()}); err != nil {
		return fmt.Errorf("encode keybindings: %w", err)
	}
	// Write then rename so the watcher never reads a half-written file.
	tmp := path + ".tmp"
	if err := os.WriteFile(tmp, buf.Bytes(), 0o644); err != nil {
		return fmt.Errorf("write keybindings: %w", err)
	}
	if err := os.Rename(tmp, path); err != nil {
		return fmt.Errorf("write keybindings: %w", err)
	}
	return nil
}
