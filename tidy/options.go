package tidy

import (
	"github.com/jonboulle/clockwork"
	"go.uber.org/zap"
)

// Kind distinguishes archived files from archived directories.
type Kind string

const (
	KindFile      Kind = "file"
	KindDirectory Kind = "directory"
)

// Phase names the sweep an event belongs to.
type Phase string

const (
	PhaseArchive Phase = "archive"
	PhasePrune   Phase = "prune"
)

// Recorder receives one call per decision a sweep makes. Dry runs report the
// same events a real run would.
type Recorder interface {
	Archived(kind Kind)
	Deleted()
	Skipped(phase Phase)
}

// Ignorer excludes source entries from archival. It is satisfied by
// gitignore.IgnoreMatcher.
type Ignorer interface {
	Match(path string, isDir bool) bool
}

// Options carries the collaborators shared by the sweeps. Zero values are
// replaced with the real clock, a no-op logger and a no-op recorder.
type Options struct {
	Clock    clockwork.Clock
	Logger   *zap.Logger
	Recorder Recorder
	Ignore   Ignorer
}

func (o Options) withDefaults() Options {
	if o.Clock == nil {
		o.Clock = clockwork.NewRealClock()
	}
	if o.Logger == nil {
		o.Logger = zap.NewNop()
	}
	if o.Recorder == nil {
		o.Recorder = nopRecorder{}
	}
	return o
}

type nopRecorder struct{}

func (nopRecorder) Archived(Kind) {}
func (nopRecorder) Deleted()      {}
func (nopRecorder) Skipped(Phase) {}
