package cmd

import (
	"os"

	"github.com/bianoble/pie-audit/internal/report"
	"github.com/spf13/cobra"
)

var (
	showAll    bool
	showSorted bool
)

var showCmd = &cobra.Command{
	Use:   "show",
	Short: "List the loaded PIE extensions and verify their binaries",
	Long: `Lists the extensions loaded by the target PHP runtime that were installed
by PIE, with the PIE package each one came from. Where PIE recorded a checksum
for the binary at the conventional path, the binary is re-hashed and a match
or mismatch is shown. PIE packages that are installed but not loaded are
listed last.`,
	RunE: func(cmd *cobra.Command, args []string) error {
		settings, _, err := resolveSettings()
		if err != nil {
			return err
		}

		logger := newLogger()
		client, err := newClient(settings, logger)
		if err != nil {
			return err
		}

		rt, err := client.Runtime(cmd.Context())
		if err != nil {
			return err
		}
		installedJSON, err := client.InstalledJSON(rt)
		if err != nil {
			return err
		}
		result, err := client.Reconcile(rt, installedJSON)
		if err != nil {
			return err
		}
		if showSorted {
			result = result.Sorted()
		}

		return report.Render(os.Stdout, result, report.Options{
			Format:        settings.Format,
			ShowAll:       showAll,
			Verbose:       verbose,
			Quiet:         quiet,
			Color:         useColor(),
			InstalledJSON: installedJSON,
		})
	},
}

func init() {
	showCmd.Flags().BoolVar(&showAll, "all", false, "show all loaded extensions, including those PIE does not manage")
	showCmd.Flags().BoolVar(&showSorted, "sort", false, "sort modules by name instead of load order")
	showCmd.Flags().String(keyFormat, "", "output format: text, json or yaml")
	_ = v.BindPFlag(keyFormat, showCmd.Flags().Lookup(keyFormat))
	rootCmd.AddCommand(showCmd)
}
