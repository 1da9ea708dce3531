package phpruntime

import (
	"fmt"
	"os"

	"gopkg.in/yaml.v3"
)

// Snapshot is a captured PHP runtime, stored as YAML so an audit can be run
// without the PHP binary available.
type Snapshot struct {
	PHPVersion    string  `yaml:"php_version,omitempty"`
	PHPBinaryPath string  `yaml:"php_binary,omitempty"`
	ExtensionDir  string  `yaml:"extension_dir"`
	Extensions    []Entry `yaml:"extensions"`
}

// LoadSnapshot reads a runtime snapshot file.
func LoadSnapshot(path string) (*Runtime, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("reading runtime snapshot %s: %w", path, err)
	}

	var snap Snapshot
	if err := yaml.Unmarshal(data, &snap); err != nil {
		return nil, fmt.Errorf("parsing runtime snapshot %s: %w", path, err)
	}

	rt, err := snap.Runtime()
	if err != nil {
		return nil, fmt.Errorf("runtime snapshot %s: %w", path, err)
	}
	return rt, nil
}

// SaveSnapshot writes a runtime as a snapshot file atomically.
func SaveSnapshot(path string, rt *Runtime) error {
	snap := Snapshot{
		PHPVersion:    rt.PHPVersion,
		PHPBinaryPath: rt.PHPBinaryPath,
		ExtensionDir:  rt.ExtensionDir,
		Extensions:    rt.Modules.Entries(),
	}

	data, err := yaml.Marshal(&snap)
	if err != nil {
		return fmt.Errorf("marshaling runtime snapshot: %w", err)
	}

	tmp := path + ".tmp"
	if err := os.WriteFile(tmp, data, 0644); err != nil {
		return fmt.Errorf("writing temp snapshot %s: %w", tmp, err)
	}

	if err := os.Rename(tmp, path); err != nil {
		_ = os.Remove(tmp)
		return fmt.Errorf("renaming temp snapshot to %s: %w", path, err)
	}

	return nil
}

// Runtime converts the snapshot into an index, rejecting duplicate names.
func (s Snapshot) Runtime() (*Runtime, error) {
	rt := &Runtime{
		Modules:       NewIndex(),
		ExtensionDir:  s.ExtensionDir,
		PHPVersion:    s.PHPVersion,
		PHPBinaryPath: s.PHPBinaryPath,
	}
	for i, e := range s.Extensions {
		if err := rt.Modules.Add(e); err != nil {
			return nil, fmt.Errorf("extensions[%d]: %w", i, err)
		}
	}
	return rt, nil
}
