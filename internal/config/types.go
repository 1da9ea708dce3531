package config

// Config represents a pie-audit.yaml configuration file. Every field except
// Version is optional; unset fields fall through to lower-precedence layers.
type Config struct {
	Version int `yaml:"version"`

	// PHPBinary is the PHP CLI used to list loaded extensions.
	PHPBinary string `yaml:"php_binary,omitempty"`

	// InstalledJSON is the Composer installed.json PIE maintains.
	InstalledJSON string `yaml:"installed_json,omitempty"`

	// Snapshot replaces the PHP query with a captured runtime file.
	Snapshot string `yaml:"snapshot,omitempty"`

	// ExtensionDir overrides the extension_dir reported by PHP.
	ExtensionDir string `yaml:"extension_dir,omitempty"`

	// ExtensionSuffix overrides the host default (".so" or ".dll").
	ExtensionSuffix string `yaml:"extension_suffix,omitempty"`

	// Format is the default output format: text, json or yaml.
	Format string `yaml:"format,omitempty"`
}

// Settings are the effective values an audit runs with, after config layers,
// environment variables and flags have been applied.
type Settings struct {
	PHPBinary       string
	InstalledJSON   string
	Snapshot        string
	ExtensionDir    string
	ExtensionSuffix string
	Format          string
}

// Output formats.
const (
	FormatText = "text"
	FormatJSON = "json"
	FormatYAML = "yaml"
)

// DefaultPHPBinary is used when nothing else names a PHP binary.
const DefaultPHPBinary = "php"

// Defaults returns the settings used when no layer sets a value.
func Defaults() Settings {
	return Settings{
		PHPBinary: DefaultPHPBinary,
		Format:    FormatText,
	}
}

// Apply overlays the non-empty fields of cfg on s.
func (s Settings) Apply(cfg *Config) Settings {
	if cfg == nil {
		return s
	}
	if cfg.PHPBinary != "" {
		s.PHPBinary = cfg.PHPBinary
	}
	if cfg.InstalledJSON != "" {
		s.InstalledJSON = cfg.InstalledJSON
	}
	if cfg.Snapshot != "" {
		s.Snapshot = cfg.Snapshot
	}
	if cfg.ExtensionDir != "" {
		s.ExtensionDir = cfg.ExtensionDir
	}
	if cfg.ExtensionSuffix != "" {
		s.ExtensionSuffix = cfg.ExtensionSuffix
	}
	if cfg.Format != "" {
		s.Format = cfg.Format
	}
	return s
}
