package cmd

import (
	"github.com/bianoble/pie-audit/internal/phpruntime"
	"github.com/spf13/cobra"
)

var snapshotCmd = &cobra.Command{
	Use:   "snapshot <file>",
	Short: "Capture the loaded extensions of a PHP runtime to a file",
	Long: `Queries the PHP binary once and writes its loaded extensions and
extension_dir to a YAML file. Pass the file to --snapshot to audit that runtime
later, or on a machine where PHP is not on the PATH.`,
	Args: cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		settings, _, err := resolveSettings()
		if err != nil {
			return err
		}

		rt, err := phpruntime.Query(cmd.Context(), settings.PHPBinary)
		if err != nil {
			return err
		}

		if err := phpruntime.SaveSnapshot(args[0], rt); err != nil {
			return err
		}

		info("Captured %d extension(s) from %s to %s", rt.Modules.Len(), settings.PHPBinary, args[0])
		return nil
	},
}

func init() {
	rootCmd.AddCommand(snapshotCmd)
}
