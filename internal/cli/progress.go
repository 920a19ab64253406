package cli

import (
	"io"
	"log"
	"time"

	"github.com/schollz/progressbar/v3"

	"github.com/mvp-joe/pith/internal/extractor"
)

// progressReporter draws a file progress bar on stderr and logs a summary.
type progressReporter struct {
	quiet bool
	out   io.Writer
	bar   *progressbar.ProgressBar
}

func newProgressReporter(quiet bool, out io.Writer) *progressReporter {
	return &progressReporter{quiet: quiet, out: out}
}

func (p *progressReporter) OnDiscoveryComplete(files int) {
	if p.quiet {
		return
	}
	log.Printf("Extracting %d source files\n", files)

	p.bar = progressbar.NewOptions(files,
		progressbar.OptionSetWriter(p.out),
		progressbar.OptionSetDescription("Extracting"),
		progressbar.OptionSetWidth(40),
		progressbar.OptionShowCount(),
		progressbar.OptionShowIts(),
		progressbar.OptionSetItsString("files/s"),
		progressbar.OptionThrottle(65*time.Millisecond),
		progressbar.OptionClearOnFinish(),
	)
}

func (p *progressReporter) OnFileProcessed(path string) {
	if p.quiet || p.bar == nil {
		return
	}
	p.bar.Add(1)
}

func (p *progressReporter) OnComplete(stats extractor.Stats) {
	if p.quiet {
		return
	}
	if p.bar != nil {
		p.bar.Finish()
	}
	log.Printf("✓ Extracted %d files (%d tokens, %d parse errors) in %v\n",
		stats.Files, stats.Tokens, stats.ParseErrors, stats.Duration.Round(time.Millisecond))
}
