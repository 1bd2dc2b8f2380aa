package scheduler

import (
	"time"

	"github.com/google/uuid"

	"github.com/blackcoderx/cannon/internal/assert"
	"github.com/blackcoderx/cannon/internal/job"
	"github.com/blackcoderx/cannon/internal/manifest"
	"github.com/blackcoderx/cannon/internal/operation"
	"github.com/blackcoderx/cannon/internal/varscope"
)

// RunInfo is derived from a manifest.Entry at load time (spec §3): a fresh
// id, plus the immutable captures/operations/assertions a job's repeats
// will run. Owned by its JobGroup; immutable after construction.
type RunInfo struct {
	ID         uuid.UUID
	Name       string
	Repeats    uint64
	Delay      time.Duration
	Captures   []manifest.CaptureBinding
	Operations []operation.Operation
	Assertions []assert.Assertion
}

// JobGroup pairs a group name with its (Job, RunInfo) pairs, immutable
// after construction.
type JobGroup struct {
	Name string
	Jobs []jobRun
}

type jobRun struct {
	Job  job.Job
	Info RunInfo
}

// Build converts a manifest's groups into scheduler-ready JobGroups,
// assigning each entry a fresh RunInfo.ID (spec §3 invariant 1: every
// RunInfo's id is unique within a process run). If only is non-empty, any
// group name not in it is skipped entirely — never spawned (spec §4.7
// "Selection"). Entries carrying authored vars seed the pool's contextual
// overlay for their RunInfo.ID before any worker ever calls NewContext.
func Build(groups []manifest.Group, only []string, pool *varscope.Pool) []JobGroup {
	selected := selectionSet(only)

	var built []JobGroup
	for _, g := range groups {
		if len(selected) > 0 && !selected[g.Name] {
			continue
		}
		jobs := make([]jobRun, 0, len(g.Entries))
		for _, e := range g.Entries {
			id := uuid.New()
			if e.Vars != nil && len(e.Vars.Keys()) > 0 {
				pool.PushContextualVars(id, e.Vars)
			}
			jobs = append(jobs, jobRun{
				Job: e.Job,
				Info: RunInfo{
					ID:         id,
					Name:       e.Name,
					Repeats:    e.Repeats,
					Delay:      e.Delay,
					Captures:   e.Captures,
					Operations: e.Operations,
					Assertions: e.Assertions,
				},
			})
		}
		built = append(built, JobGroup{Name: g.Name, Jobs: jobs})
	}
	return built
}

func selectionSet(only []string) map[string]bool {
	set := make(map[string]bool, len(only))
	for _, name := range only {
		set[name] = true
	}
	return set
}
