package engine

import (
	"github.com/bianoble/pie-audit/internal/config"
)

// ConfigLayerStatus describes a config layer's load status for display.
type ConfigLayerStatus struct {
	Level  string // "system", "user", "project"
	Path   string
	Loaded bool
}

// InfoResult holds the resolved audit settings for the info command.
type InfoResult struct {
	Version         string
	PHPBinary       string
	InstalledJSON   string
	Snapshot        string
	ExtensionDir    string
	ExtensionSuffix string
	ConfigChain     []ConfigLayerStatus
}

// Info gathers the settings an audit would run with.
func Info(version string, settings config.Settings, layers []config.ConfigLayerInfo) *InfoResult {
	r := &InfoResult{
		Version:         version,
		PHPBinary:       settings.PHPBinary,
		InstalledJSON:   settings.InstalledJSON,
		Snapshot:        settings.Snapshot,
		ExtensionDir:    settings.ExtensionDir,
		ExtensionSuffix: settings.ExtensionSuffix,
	}

	for _, l := range layers {
		r.ConfigChain = append(r.ConfigChain, ConfigLayerStatus{
			Level:  string(l.Level),
			Path:   l.Path,
			Loaded: l.Loaded,
		})
	}

	return r
}
