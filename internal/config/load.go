package config

import (
	"errors"
	"fmt"
	"io/fs"
	"os"
	"strings"

	"gopkg.in/yaml.v3"
)

// Load reads and validates a single pie-audit.yaml file.
func Load(path string) (*Config, error) {
	cfg, err := parse(path)
	if err != nil {
		return nil, err
	}

	if errs := Validate(cfg); len(errs) > 0 {
		return nil, &ValidationError{Errors: errs}
	}

	return cfg, nil
}

func parse(path string) (*Config, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("reading config %s: %w", path, err)
	}

	var cfg Config
	if err := yaml.Unmarshal(data, &cfg); err != nil {
		return nil, fmt.Errorf("parsing config %s: %w", path, err)
	}
	return &cfg, nil
}

// HierarchicalResult is the merged config plus the layers that produced it.
type HierarchicalResult struct {
	Config *Config
	Layers []ConfigLayerInfo
}

// LoadHierarchical discovers, loads and merges config layers from lowest to
// highest precedence. Missing files are skipped. When PIE_AUDIT_NO_INHERIT is
// set only the project layer is read. The result Config is nil when no layer
// exists.
func LoadHierarchical(opts DiscoverOptions) (*HierarchicalResult, error) {
	layers := DiscoverPaths(opts)
	if EnvNoInherit() {
		layers = layers[len(layers)-1:]
	}

	var configs []*Config
	for i := range layers {
		cfg, err := parse(layers[i].Path)
		if errors.Is(err, fs.ErrNotExist) {
			continue
		}
		if err != nil {
			layers[i].Err = err
			return &HierarchicalResult{Layers: layers}, err
		}
		layers[i].Loaded = true
		configs = append(configs, cfg)
	}

	hr := &HierarchicalResult{Layers: layers}
	if len(configs) == 0 {
		return hr, nil
	}

	merged, err := MergeAll(configs)
	if err != nil {
		return hr, err
	}
	if errs := Validate(merged); len(errs) > 0 {
		return hr, &ValidationError{Errors: errs}
	}

	hr.Config = merged
	return hr, nil
}

// ValidationError holds multiple validation failures.
type ValidationError struct {
	Errors []string
}

func (e *ValidationError) Error() string {
	return fmt.Sprintf("config validation failed:\n  - %s", strings.Join(e.Errors, "\n  - "))
}

// Validate checks a Config for semantic correctness.
// Returns a list of validation error messages (empty if valid).
func Validate(cfg *Config) []string {
	var errs []string

	if cfg.Version != 1 {
		errs = append(errs, fmt.Sprintf("unsupported version %d — only version 1 is supported", cfg.Version))
	}

	errs = append(errs, validateFields(cfg.ExtensionSuffix, cfg.Format)...)

	return errs
}

// ValidateSettings checks the effective settings before an audit runs. An
// empty InstalledJSON is valid: it is discovered from PIE's working directory.
func ValidateSettings(s Settings) []string {
	var errs []string

	if s.Snapshot == "" && s.PHPBinary == "" {
		errs = append(errs, "one of 'php_binary' or 'snapshot' is required")
	}

	errs = append(errs, validateFields(s.ExtensionSuffix, s.Format)...)

	return errs
}

func validateFields(suffix, format string) []string {
	var errs []string

	if suffix != "" && !strings.HasPrefix(suffix, ".") {
		errs = append(errs, fmt.Sprintf("invalid extension_suffix '%s' — must start with '.', e.g. '.so'", suffix))
	}

	switch format {
	case "", FormatText, FormatJSON, FormatYAML:
		// valid
	default:
		errs = append(errs, fmt.Sprintf("invalid format '%s' — must be one of: text, json, yaml", format))
	}

	return errs
}
