package cli

import (
	"fmt"
	"path/filepath"

	"github.com/spf13/cobra"

	"github.com/mvp-joe/pith/internal/config"
)

var initForce bool

// initCmd represents the init command
var initCmd = &cobra.Command{
	Use:   "init [path]",
	Short: "Write a default .pith/config.yml",
	Long: `Init writes the built-in defaults to .pith/config.yml in the given directory
(default: current directory) so they can be edited.`,
	Args: cobra.MaximumNArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		dir := firstArg(args)
		if dir == "" {
			dir = "."
		}
		root, err := filepath.Abs(dir)
		if err != nil {
			return err
		}

		path, err := config.Write(root, config.Default(), initForce)
		if err != nil {
			return err
		}
		fmt.Fprintf(cmd.OutOrStdout(), "✓ Wrote %s\n", path)
		return nil
	},
}

func init() {
	rootCmd.AddCommand(initCmd)
	initCmd.Flags().BoolVar(&initForce, "force", false, "Overwrite an existing config file")
}
