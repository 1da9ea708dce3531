package cmd

import (
	"context"
	"fmt"
	"os"

	"github.com/bianoble/pie-audit/internal/config"
	"github.com/bianoble/pie-audit/internal/phpruntime"
	"github.com/bianoble/pie-audit/pkg/pieaudit"
	"github.com/charmbracelet/log"
	"github.com/mattn/go-isatty"
)

// Setting keys shared by flags, environment variables and viper.
const (
	keyPHP             = "php"
	keyInstalledJSON   = "installed-json"
	keySnapshot        = "snapshot"
	keyExtensionDir    = "extension-dir"
	keyExtensionSuffix = "extension-suffix"
	keyFormat          = "format"
)

// loadConfigHierarchical reads the system, user and project config layers.
func loadConfigHierarchical() (*config.HierarchicalResult, error) {
	hr, err := config.LoadHierarchical(config.DiscoverOptions{ProjectPath: configPath})
	if err != nil {
		return hr, fmt.Errorf("loading config: %w", err)
	}
	return hr, nil
}

// resolveSettings applies defaults, config layers, then environment and flags.
func resolveSettings() (config.Settings, *config.HierarchicalResult, error) {
	hr, err := loadConfigHierarchical()
	if err != nil {
		return config.Settings{}, hr, err
	}

	s := config.Defaults().Apply(hr.Config)
	s = overrideFromFlags(s)

	return s, hr, nil
}

// overrideFromFlags applies values set by flag or PIE_AUDIT_* variable.
func overrideFromFlags(s config.Settings) config.Settings {
	if p := v.GetString(keyPHP); p != "" {
		s.PHPBinary = p
	}
	if p := v.GetString(keyInstalledJSON); p != "" {
		s.InstalledJSON = p
	}
	if p := v.GetString(keySnapshot); p != "" {
		s.Snapshot = p
	}
	if p := v.GetString(keyExtensionDir); p != "" {
		s.ExtensionDir = p
	}
	if p := v.GetString(keyExtensionSuffix); p != "" {
		s.ExtensionSuffix = p
	}
	if p := v.GetString(keyFormat); p != "" {
		s.Format = p
	}
	return s
}

// loadRuntime reads the snapshot when one is set, otherwise queries PHP.
func loadRuntime(ctx context.Context, s config.Settings) (*phpruntime.Runtime, error) {
	if s.Snapshot != "" {
		return phpruntime.LoadSnapshot(s.Snapshot)
	}
	return phpruntime.Query(ctx, s.PHPBinary)
}

// newClient validates the settings and creates a library client.
func newClient(s config.Settings, logger *log.Logger) (*pieaudit.Client, error) {
	if errs := config.ValidateSettings(s); len(errs) > 0 {
		return nil, &config.ValidationError{Errors: errs}
	}
	return pieaudit.New(pieaudit.Options{
		PHPBinary:       s.PHPBinary,
		InstalledJSON:   s.InstalledJSON,
		Snapshot:        s.Snapshot,
		ExtensionDir:    s.ExtensionDir,
		ExtensionSuffix: s.ExtensionSuffix,
		Logger:          logger,
	})
}

// newLogger creates the stderr logger at the level the global flags ask for.
func newLogger() *log.Logger {
	return log.NewWithOptions(os.Stderr, log.Options{
		Prefix: "pie-audit",
		Level:  logLevel(verbose, quiet),
	})
}

func logLevel(verbose, quiet bool) log.Level {
	switch {
	case quiet:
		return log.ErrorLevel
	case verbose:
		return log.DebugLevel
	default:
		return log.WarnLevel
	}
}

// useColor reports whether styled output should be written to stdout.
func useColor() bool {
	return colorEnabled(noColor, os.Getenv("NO_COLOR"), isatty.IsTerminal(os.Stdout.Fd()))
}

func colorEnabled(noColorFlag bool, noColorEnv string, terminal bool) bool {
	return !noColorFlag && noColorEnv == "" && terminal
}

// info prints a line unless quiet mode is active.
func info(format string, args ...any) {
	if !quiet {
		fmt.Printf(format+"\n", args...)
	}
}

// detail prints a line only in verbose mode.
func detail(format string, args ...any) {
	if verbose {
		fmt.Printf("  "+format+"\n", args...)
	}
}

// errorf prints an error message to stderr.
func errorf(format string, args ...any) {
	fmt.Fprintf(os.Stderr, "error: "+format+"\n", args...)
}
