package driver

import "time"

// Stage describes a pipeline phase of one file.
type Stage string

const (
	StageLoad     Stage = "load"
	StageParse    Stage = "parse"
	StageSema     Stage = "sema"
	StageAnalyze  Stage = "analyze"
	StageGenerate Stage = "generate"
)

// Status captures progress state within a stage.
type Status string

const (
	StatusQueued  Status = "queued"
	StatusWorking Status = "working"
	StatusCached  Status = "cached"
	StatusDone    Status = "done"
	StatusError   Status = "error"
)

// Event reports progress for a file (or for the whole run when File is empty).
// Loops and Kernels are set once a file is done or served from the cache.
type Event struct {
	File    string
	Stage   Stage
	Status  Status
	Err     error
	Elapsed time.Duration
	Loops   int
	Kernels int
}

// ProgressSink consumes progress events. Implementations must be safe for
// concurrent use; directory mode reports from several workers.
type ProgressSink interface {
	OnEvent(Event)
}

// ChannelSink forwards events into a channel.
type ChannelSink struct {
	Ch chan<- Event
}

func (s ChannelSink) OnEvent(evt Event) {
	if s.Ch == nil {
		return
	}
	s.Ch <- evt
}

func emit(sink ProgressSink, evt Event) {
	if sink != nil {
		sink.OnEvent(evt)
	}
}
