package cli

import (
	"encoding/json"
	"fmt"
	"io"
	"os"
	"slices"

	"github.com/spf13/cobra"

	"github.com/mvp-joe/pith/internal/codemap"
	"github.com/mvp-joe/pith/internal/extractor"
	"github.com/mvp-joe/pith/internal/tokens"
)

var tokensFlags struct {
	json     bool
	encoding string
	perFile  bool
}

// tokensCmd represents the tokens command
var tokensCmd = &cobra.Command{
	Use:   "tokens [path]",
	Short: "Count the tokens of raw source files",
	Long: `Tokens counts the tokens of the source files a codemap would cover,
read in full. Compare with the summary printed by 'pith codemap' to see how
much a codemap saves.

Examples:
  pith tokens
  pith tokens src --per-file --encoding o200k_base
`,
	Args: cobra.MaximumNArgs(1),
	RunE: runTokens,
}

func init() {
	rootCmd.AddCommand(tokensCmd)
	tokensCmd.Flags().BoolVar(&tokensFlags.json, "json", false, "Emit JSON instead of text")
	tokensCmd.Flags().StringVar(&tokensFlags.encoding, "encoding", "", "Token encoding: cl100k_base or o200k_base")
	tokensCmd.Flags().BoolVar(&tokensFlags.perFile, "per-file", false, "List the count of every file")
}

// tokenReport is the result of counting a tree.
type tokenReport struct {
	Encoding    tokens.Encoding `json:"encoding"`
	TotalTokens int             `json:"total_tokens"`
	Files       map[string]int  `json:"files"`
	order       []string
}

func runTokens(cmd *cobra.Command, args []string) error {
	p, err := loadProject(firstArg(args))
	if err != nil {
		return err
	}
	if cmd.Flags().Changed("encoding") {
		p.cfg.Tokens.Encoding = tokensFlags.encoding
	}

	counter, err := tokens.NewCounter(p.cfg.Tokens.Encoding)
	if err != nil {
		return err
	}

	report, err := countTokens(p, counter)
	if err != nil {
		return err
	}
	return writeTokenReport(cmd.OutOrStdout(), report, tokensFlags.json, tokensFlags.perFile)
}

// countTokens counts every supported source file the project selects.
func countTokens(p *project, counter tokens.Counter) (*tokenReport, error) {
	discovery, err := extractor.NewDiscovery(p.target, p.cfg.Paths.Include, p.cfg.Paths.Ignore)
	if err != nil {
		return nil, err
	}
	paths, err := discovery.Discover()
	if err != nil {
		return nil, err
	}
	langs, err := p.cfg.LanguageFilter()
	if err != nil {
		return nil, err
	}

	report := &tokenReport{Encoding: counter.Encoding(), Files: map[string]int{}}
	for _, path := range paths {
		lang, ok := codemap.LanguageFromPath(path)
		if !ok || (len(langs) > 0 && !slices.Contains(langs, lang)) {
			continue
		}
		content, err := os.ReadFile(path)
		if err != nil {
			return nil, fmt.Errorf("failed to read %s: %w", path, err)
		}

		rel := discovery.Rel(path)
		n := counter.Count(string(content))
		report.Files[rel] = n
		report.order = append(report.order, rel)
		report.TotalTokens += n
	}
	return report, nil
}

func writeTokenReport(w io.Writer, report *tokenReport, asJSON, perFile bool) error {
	if asJSON {
		enc := json.NewEncoder(w)
		enc.SetIndent("", "  ")
		return enc.Encode(report)
	}

	if perFile {
		for _, rel := range report.order {
			fmt.Fprintf(w, "%8d  %s\n", report.Files[rel], rel)
		}
	}
	encoding := string(report.Encoding)
	if encoding == "" {
		encoding = "estimate"
	}
	_, err := fmt.Fprintf(w, "Total: %d tokens across %d files (%s)\n", report.TotalTokens, len(report.Files), encoding)
	return err
}
