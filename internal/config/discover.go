package config

import (
	"crypto/md5"
	"encoding/hex"
	"fmt"
	"os"
	"path/filepath"
	"runtime"
	"sort"
	"strings"

	"github.com/bmatcuk/doublestar/v4"
)

// ConfigLevel represents the precedence level of a configuration file.
type ConfigLevel string

const (
	LevelSystem  ConfigLevel = "system"
	LevelUser    ConfigLevel = "user"
	LevelProject ConfigLevel = "project"
)

// ConfigLayerInfo describes a discovered config file and its load status.
type ConfigLayerInfo struct {
	Err    error // non-nil if the file exists but failed to load
	Path   string
	Level  ConfigLevel
	Loaded bool
}

// DiscoverOptions controls how config paths are discovered.
type DiscoverOptions struct {
	// ProjectPath is the project-level config path (required).
	ProjectPath string

	// SystemConfigPath and UserConfigPath replace the OS defaults when set.
	SystemConfigPath string
	UserConfigPath   string
}

// DiscoverPaths lists the pie-audit.yaml layers to read, lowest precedence
// first. A layer resolving to the same file as an earlier one is dropped.
func DiscoverPaths(opts DiscoverOptions) []ConfigLayerInfo {
	candidates := []ConfigLayerInfo{
		{Level: LevelSystem, Path: firstNonEmpty(opts.SystemConfigPath, systemConfigPath())},
		{Level: LevelUser, Path: firstNonEmpty(opts.UserConfigPath, userConfigPath())},
		{Level: LevelProject, Path: opts.ProjectPath},
	}

	seen := make(map[string]bool)
	var layers []ConfigLayerInfo
	for _, c := range candidates {
		if c.Path == "" {
			continue
		}
		key := c.Path
		if abs, err := filepath.Abs(c.Path); err == nil {
			key = abs
		}
		if seen[key] {
			continue
		}
		seen[key] = true
		layers = append(layers, c)
	}
	return layers
}

func systemConfigPath() string {
	if runtime.GOOS == "windows" {
		return filepath.Join(firstNonEmpty(os.Getenv("ProgramData"), `C:\ProgramData`), "pie-audit", "pie-audit.yaml")
	}
	return "/etc/pie-audit/pie-audit.yaml"
}

func userConfigPath() string {
	dir, err := os.UserConfigDir()
	if err != nil {
		return ""
	}
	return filepath.Join(dir, "pie-audit", "pie-audit.yaml")
}

// EnvNoInherit reports whether PIE_AUDIT_NO_INHERIT asks for the project
// layer alone ("1" or "true", any case).
func EnvNoInherit() bool {
	switch strings.ToLower(strings.TrimSpace(os.Getenv("PIE_AUDIT_NO_INHERIT"))) {
	case "1", "true":
		return true
	}
	return false
}

// EnvPieWorkingDirectory overrides PIE's base working directory, as it does
// for PIE itself.
const EnvPieWorkingDirectory = "PIE_WORKING_DIRECTORY"

// PieBaseDirectory returns the directory under which PIE keeps one Composer
// project per PHP installation: $PIE_WORKING_DIRECTORY, else ~/.pie.
func PieBaseDirectory() string {
	if dir := strings.TrimSpace(os.Getenv(EnvPieWorkingDirectory)); dir != "" {
		return dir
	}
	home, err := os.UserHomeDir()
	if err != nil {
		return ""
	}
	return filepath.Join(home, ".pie")
}

// PieWorkingDirectory names PIE's project for one PHP installation:
// php<major.minor>_<md5 of the PHP binary path>.
func PieWorkingDirectory(base, phpVersion, phpBinary string) string {
	sum := md5.Sum([]byte(phpBinary))
	return filepath.Join(base, "php"+phpVersion+"_"+hex.EncodeToString(sum[:]))
}

// InstalledJSONIn returns the installed.json Composer maintains in a PIE
// working directory.
func InstalledJSONIn(workDir string) string {
	return filepath.Join(workDir, "vendor", "composer", "installed.json")
}

// DiscoverInstalledJSON finds the installed.json PIE maintains for a PHP
// installation. The exact working directory for phpVersion and phpBinary is
// tried first. Otherwise the base directory is scanned, narrowed to
// phpVersion when known, and exactly one candidate must remain.
func DiscoverInstalledJSON(base, phpVersion, phpBinary string) (string, error) {
	if base == "" {
		return "", fmt.Errorf("PIE working directory unknown: set %s or pass --installed-json", EnvPieWorkingDirectory)
	}

	if phpVersion != "" && phpBinary != "" {
		exact := InstalledJSONIn(PieWorkingDirectory(base, phpVersion, phpBinary))
		if info, err := os.Stat(exact); err == nil && !info.IsDir() {
			return exact, nil
		}
	}

	pattern := "php*_*"
	if phpVersion != "" {
		pattern = "php" + phpVersion + "_*"
	}
	entries, err := os.ReadDir(base)
	if err != nil && !os.IsNotExist(err) {
		return "", fmt.Errorf("scanning %s: %w", base, err)
	}

	var matches []string
	for _, entry := range entries {
		if !entry.IsDir() {
			continue
		}
		if ok, _ := doublestar.Match(pattern, entry.Name()); !ok {
			continue
		}
		candidate := InstalledJSONIn(filepath.Join(base, entry.Name()))
		if info, statErr := os.Stat(candidate); statErr == nil && !info.IsDir() {
			matches = append(matches, candidate)
		}
	}
	sort.Strings(matches)

	switch len(matches) {
	case 1:
		return matches[0], nil
	case 0:
		return "", fmt.Errorf("no PIE installed.json found under %s — pass --installed-json", base)
	default:
		return "", fmt.Errorf("%d PIE installations found under %s — pass --installed-json to choose one", len(matches), base)
	}
}

func firstNonEmpty(values ...string) string {
	for _, v := range values {
		if v != "" {
			return v
		}
	}
	return ""
}
