package extractor

import "time"

// Progress receives callbacks while a directory is extracted.
// Implementations can draw progress bars, log, or stay silent.
type Progress interface {
	// OnDiscoveryComplete is called once the file list is known.
	OnDiscoveryComplete(files int)

	// OnFileProcessed is called after each file, from worker goroutines.
	OnFileProcessed(path string)

	// OnComplete is called when every scheduled file has finished.
	OnComplete(stats Stats)
}

// Stats summarizes one ExtractDir run.
type Stats struct {
	Files       int
	ParseErrors int
	Tokens      int
	Duration    time.Duration
}

// NoOpProgress is a Progress that does nothing.
// Used when progress reporting is disabled (e.g., --quiet flag).
type NoOpProgress struct{}

func (NoOpProgress) OnDiscoveryComplete(files int) {}
func (NoOpProgress) OnFileProcessed(path string)   {}
func (NoOpProgress) OnComplete(stats Stats)        {}
