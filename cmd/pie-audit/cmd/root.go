package cmd

import (
	"fmt"
	"os"
	"strings"

	"github.com/spf13/cobra"
	"github.com/spf13/viper"
)

// Build-time variables set via -ldflags.
var (
	version = "dev"
	commit  = "none"
	date    = "unknown"
)

// Global flags.
var (
	configPath string
	verbose    bool
	quiet      bool
	noColor    bool
)

// v binds the settings flags to PIE_AUDIT_* environment variables.
var v = viper.New()

var rootCmd = &cobra.Command{
	Use:   "pie-audit",
	Short: "Audit PHP extensions installed by PIE",
	Long: `pie-audit compares the extensions a PHP runtime has loaded with the
extension packages PIE installed, and checks each loaded binary against the
SHA256 checksum PIE recorded at install time. It never modifies anything.`,
	SilenceUsage:  true,
	SilenceErrors: true,
	PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
		syncGlobalFlags()
		return nil
	},
}

var versionCmd = &cobra.Command{
	Use:   "version",
	Short: "Print version information",
	Run: func(cmd *cobra.Command, args []string) {
		fmt.Printf("pie-audit %s\n", version)
		fmt.Printf("  commit:  %s\n", commit)
		fmt.Printf("  built:   %s\n", date)
	},
}

func init() {
	pf := rootCmd.PersistentFlags()
	pf.StringVar(&configPath, "config", "pie-audit.yaml", "path to project config file")
	pf.String(keyPHP, "", "PHP binary to query for loaded extensions (default \"php\")")
	pf.String(keyInstalledJSON, "", "path to the installed.json maintained by PIE")
	pf.String(keySnapshot, "", "read loaded extensions from a runtime snapshot instead of PHP")
	pf.String(keyExtensionDir, "", "override the extension_dir reported by PHP")
	pf.String(keyExtensionSuffix, "", "override the extension file suffix (default .so, .dll on Windows)")
	pf.BoolVar(&verbose, "verbose", false, "detailed output")
	pf.BoolVar(&quiet, "quiet", false, "minimal output (errors only)")
	pf.BoolVar(&noColor, "no-color", false, "disable colored output")

	v.SetEnvPrefix("PIE_AUDIT")
	v.SetEnvKeyReplacer(strings.NewReplacer("-", "_"))
	v.AutomaticEnv()
	_ = v.BindPFlags(pf)

	rootCmd.AddCommand(versionCmd)
}

// syncGlobalFlags reads the global flags back through viper so that
// PIE_AUDIT_VERBOSE, PIE_AUDIT_QUIET, PIE_AUDIT_NO_COLOR and PIE_AUDIT_CONFIG
// apply when the flag itself is not given.
func syncGlobalFlags() {
	configPath = v.GetString("config")
	verbose = v.GetBool("verbose")
	quiet = v.GetBool("quiet")
	noColor = v.GetBool("no-color")
}

// Execute runs the root command.
func Execute() error {
	if err := rootCmd.Execute(); err != nil {
		fmt.Fprintln(os.Stderr, "error:", err)
		return err
	}
	return nil
}
