package cli

import (
	"encoding/json"
	"fmt"
	"io"
	"strings"

	"github.com/spf13/cobra"

	"github.com/mvp-joe/pith/internal/codemap"
)

var languagesJSON bool

// languagesCmd represents the languages command
var languagesCmd = &cobra.Command{
	Use:   "languages",
	Short: "List supported languages and their file extensions",
	Args:  cobra.NoArgs,
	RunE: func(cmd *cobra.Command, args []string) error {
		return writeLanguages(cmd.OutOrStdout(), languagesJSON)
	},
}

func init() {
	rootCmd.AddCommand(languagesCmd)
	languagesCmd.Flags().BoolVar(&languagesJSON, "json", false, "Emit JSON instead of text")
}

type languageInfo struct {
	Language   codemap.Language `json:"language"`
	Extensions []string         `json:"extensions"`
}

func writeLanguages(w io.Writer, asJSON bool) error {
	infos := make([]languageInfo, 0, len(codemap.Languages))
	for _, lang := range codemap.Languages {
		infos = append(infos, languageInfo{Language: lang, Extensions: lang.Extensions()})
	}

	if asJSON {
		enc := json.NewEncoder(w)
		enc.SetIndent("", "  ")
		return enc.Encode(infos)
	}

	for _, info := range infos {
		if _, err := fmt.Fprintf(w, "%-12s %s\n", info.Language, strings.Join(info.Extensions, " ")); err != nil {
			return err
		}
	}
	return nil
}
