// Package cli implements the pith command tree.
package cli

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"
)

var verbose bool

// rootCmd represents the base command when called without any subcommands
var rootCmd = &cobra.Command{
	Use:   "pith",
	Short: "Pith - structural codemaps for LLM context",
	Long: `Pith extracts compact codemaps from source files: imports, functions,
types, their signatures and line ranges, without bodies. Codemaps give an
assistant the shape of a codebase at a fraction of the tokens.

Supported languages: Rust, TypeScript/TSX, JavaScript/JSX, Python, Go.`,
	SilenceUsage: true,
}

// Execute adds all child commands to the root command and sets flags appropriately.
// This is called by main.main(). It only needs to happen once to the rootCmd.
func Execute() {
	if err := rootCmd.Execute(); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}

func init() {
	rootCmd.PersistentFlags().BoolVarP(&verbose, "verbose", "v", false, "verbose output")
}
