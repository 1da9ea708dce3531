package cmd

import (
	"fmt"

	"github.com/bianoble/pie-audit/internal/config"
	"github.com/bianoble/pie-audit/internal/engine"
	"github.com/bianoble/pie-audit/internal/phpruntime"
	"github.com/bianoble/pie-audit/internal/platform"
	"github.com/spf13/cobra"
)

var infoCmd = &cobra.Command{
	Use:   "info",
	Short: "Show the settings an audit would run with",
	Long: `Displays the pie-audit version, the configuration chain, the PHP binary or
runtime snapshot in use, the installed.json path, and the extension directory
and suffix used to build conventional binary paths.`,
	RunE: func(cmd *cobra.Command, args []string) error {
		settings, hr, err := resolveSettings()
		if err != nil {
			// Show what is known even when a config layer is broken.
			errorf("%v", err)
			settings = overrideFromFlags(config.Defaults())
		}

		var layers []config.ConfigLayerInfo
		if hr != nil {
			layers = hr.Layers
		}

		settings.ExtensionSuffix = platform.ResolveSuffix(settings.ExtensionSuffix)
		if settings.ExtensionDir == "" || settings.InstalledJSON == "" {
			rt, rtErr := loadRuntime(cmd.Context(), settings)
			if rtErr == nil {
				settings = fillFromRuntime(settings, rt, config.PieBaseDirectory())
			} else {
				detail("could not read runtime: %v", rtErr)
			}
		}

		result := engine.Info(version, settings, layers)

		fmt.Printf("pie-audit %s\n", result.Version)
		if len(result.ConfigChain) > 0 {
			fmt.Println("  config chain:")
			for _, layer := range result.ConfigChain {
				status := "not found"
				if layer.Loaded {
					status = "loaded"
				}
				fmt.Printf("    %-10s %s (%s)\n", layer.Level+":", layer.Path, status)
			}
		}

		if result.Snapshot != "" {
			fmt.Printf("  snapshot:         %s\n", result.Snapshot)
		} else {
			fmt.Printf("  php binary:       %s\n", result.PHPBinary)
		}
		fmt.Printf("  installed.json:   %s\n", orUnset(result.InstalledJSON))
		fmt.Printf("  extension dir:    %s\n", orUnset(result.ExtensionDir))
		fmt.Printf("  extension suffix: %s\n", result.ExtensionSuffix)

		return nil
	},
}

// fillFromRuntime completes the settings an audit of rt would discover:
// PHP's extension_dir and the installed.json PIE keeps for that PHP.
func fillFromRuntime(s config.Settings, rt *phpruntime.Runtime, pieBase string) config.Settings {
	if s.ExtensionDir == "" {
		s.ExtensionDir = rt.ExtensionDir
	}
	if s.InstalledJSON == "" {
		if path, err := config.DiscoverInstalledJSON(pieBase, rt.PHPVersion, rt.PHPBinaryPath); err == nil {
			s.InstalledJSON = path
		} else {
			detail("%v", err)
		}
	}
	return s
}

func orUnset(s string) string {
	if s == "" {
		return "(not set)"
	}
	return s
}

func init() {
	rootCmd.AddCommand(infoCmd)
}
