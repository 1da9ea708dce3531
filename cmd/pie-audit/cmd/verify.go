package cmd

import (
	"github.com/spf13/cobra"
)

var verifyCmd = &cobra.Command{
	Use:   "verify",
	Short: "Verify loaded PIE extension binaries against their recorded checksums",
	Long: `Re-hashes every loaded PIE extension binary for which PIE recorded a checksum
and compares the result. Does NOT modify anything. Exit 0 if no binary differs
from its record; exit non-zero if any does. Modules that cannot be checked are
listed with --verbose but never fail the command.`,
	RunE: func(cmd *cobra.Command, args []string) error {
		settings, _, err := resolveSettings()
		if err != nil {
			return err
		}

		client, err := newClient(settings, newLogger())
		if err != nil {
			return err
		}

		result, err := client.Verify(cmd.Context())
		if err != nil {
			return err
		}

		for _, name := range result.Verified {
			info("  ✓ %-20s  matches recorded checksum", name)
		}
		for _, d := range result.Changed {
			info("  ✗ %-20s  %s → %s", d.Module, d.Before, d.After)
		}
		for _, name := range result.Unverified {
			detail("- %-20s  not verifiable", name)
		}

		if err := result.Failed(); err != nil {
			return err
		}

		info("\nAll verifiable binaries match their recorded checksums.")
		return nil
	},
}

func init() {
	rootCmd.AddCommand(verifyCmd)
}
