package manifest

import (
	"time"

	"github.com/blackcoderx/cannon/internal/assert"
	"github.com/blackcoderx/cannon/internal/capture"
	"github.com/blackcoderx/cannon/internal/job"
	"github.com/blackcoderx/cannon/internal/operation"
	"github.com/blackcoderx/cannon/internal/value"
)

// Manifest is the scheduler-ready, decoded pipeline description (spec §3).
type Manifest struct {
	Name      string
	Vars      *value.Object
	Auth      *RawAuth
	Groups    []Group
	Resources map[string]string // name -> resolved file path
}

// Group is a named, ordered list of entries (JobGroup in spec terms, before
// RunInfo ids are assigned — see scheduler.Build).
type Group struct {
	Name    string
	Entries []Entry
}

// Entry is one PipelineEntry, fully resolved into engine-ready values:
// the Job to execute, the captures/operations/assertions to run against
// it, and the per-entry scheduling parameters.
type Entry struct {
	Name       string
	Job        job.Job
	Vars       *value.Object
	Repeats    uint64
	Delay      time.Duration
	Captures   []CaptureBinding
	Operations []operation.Operation
	Assertions []assert.Assertion
}

// CaptureBinding pairs a Capture strategy with the variable name it
// populates (spec §3 CaptureEntry).
type CaptureBinding struct {
	Variable string
	Capture  capture.Capture
}
