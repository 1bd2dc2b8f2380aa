package scheduler

import (
	"sync"
	"time"

	"github.com/charmbracelet/log"

	"github.com/blackcoderx/cannon/internal/assert"
	"github.com/blackcoderx/cannon/internal/job"
	"github.com/blackcoderx/cannon/internal/report"
	"github.com/blackcoderx/cannon/internal/style"
	"github.com/blackcoderx/cannon/internal/varscope"
)

// Event is the tagged union the scheduler's workers emit onto the shared
// channel the main task drains (spec §4.7/§5).
type Event interface{ isEvent() }

type Reported struct{ Result report.TestResult }

func (Reported) isEvent() {}

type GroupFinished struct{ Group string }

func (GroupFinished) isEvent() {}

// Scheduler spawns one worker per selected group and fans their results
// into a single event channel (spec §4.7).
type Scheduler struct {
	Pool   *varscope.Pool
	Sender job.Sender
	Logger *log.Logger
}

// Run spawns a worker per group and returns a channel the caller must drain
// until it sees len(groups) GroupFinished events (or the channel closes).
// The channel capacity follows §5's suggestion of group-count-scaled
// buffering to avoid unnecessary worker suspension on send.
func (s *Scheduler) Run(groups []JobGroup) <-chan Event {
	events := make(chan Event, len(groups)*2048)
	var wg sync.WaitGroup
	for _, g := range groups {
		wg.Add(1)
		go func(g JobGroup) {
			defer wg.Done()
			s.runGroup(g, events)
		}(g)
	}
	go func() {
		wg.Wait()
		close(events)
	}()
	return events
}

func (s *Scheduler) runGroup(g JobGroup, events chan<- Event) {
	for _, jr := range g.Jobs {
		s.runJob(g.Name, jr, events)
	}
	events <- GroupFinished{Group: g.Name}
}

func (s *Scheduler) runJob(groupName string, jr jobRun, events chan<- Event) {
	local, err := s.Pool.NewContext(jr.Info.ID)
	if err != nil {
		s.Logger.Error("failed to build context", "job", jr.Info.Name, "err", err)
		return
	}

	var firstUUID string
	for i := uint64(0); i < jr.Info.Repeats; i++ {
		if jr.Info.Delay > 0 {
			time.Sleep(jr.Info.Delay)
		}

		if errs := local.Next(); len(errs) > 0 {
			for _, e := range errs {
				s.Logger.Warn("record iterator error", "job", jr.Info.Name, "err", e)
			}
		}

		result := s.runRepeat(groupName, jr, local, i, firstUUID)
		if i == 0 {
			firstUUID = result.UUID
		}
		events <- Reported{Result: result}
	}

	s.Pool.Merge(local, groupName)
}

func (s *Scheduler) runRepeat(groupName string, jr jobRun, local *varscope.Context, repeat uint64, firstUUID string) report.TestResult {
	start := time.Now()

	execResp, execErr := jr.Job.Execute(local, s.Sender)

	var steps []report.ExecutableItem
	if execErr != nil {
		s.Logger.Error("connection failure", "job", jr.Info.Name, "err", execErr)
		// Assertions still produce Steps with status Broken because operand
		// resolution cannot succeed (spec §7).
		for _, a := range jr.Info.Assertions {
			message, err := local.Apply(a.Message)
			if err != nil {
				// Same fatal class as any other template render error (§7).
				panic(err)
			}
			steps = append(steps, brokenStep(message))
		}
	} else {
		exported := applyCaptures(jr.Info.Captures, execResp, s.Logger)
		local.PushVars(exported)

		for _, a := range jr.Info.Assertions {
			outcome := assert.Evaluate(a, local)
			steps = append(steps, stepFromOutcome(outcome, start))
			logAssertion(s.Logger, outcome)
		}

		for _, op := range jr.Info.Operations {
			if err := op.Perform(local); err != nil {
				s.Logger.Error("operation failed", "job", jr.Info.Name, "err", err)
			}
		}
	}

	stop := time.Now()

	status := rollup(steps)
	if execErr != nil {
		// §3 invariant 5 / §7: a Connection error is recorded on the item as
		// Failed even when there are zero assertions to roll up (rollup(nil)
		// would otherwise report Passed).
		status = report.StatusFailed
	}
	item := report.ExecutableItem{
		Name:          jr.Info.Name,
		Status:        status,
		StatusDetails: report.StatusDetails{},
		Stage:         report.StageFinished,
		Steps:         steps,
		Attachments:   []any{},
		Parameters:    []any{},
		Start:         start.UnixMilli(),
		Stop:          stop.UnixMilli(),
	}

	rerunOf := ""
	if repeat > 0 {
		rerunOf = firstUUID
	}

	return report.TestResult{
		ExecutableItem: item,
		UUID:           report.NewUUID(),
		FullName:       jr.Info.Name,
		TestCaseID:     jr.Info.ID.String(),
		RerunOf:        rerunOf,
		Labels:         []report.Label{report.LanguageLabel("English"), report.SuiteLabel(groupName)},
		Links:          []any{},
	}
}

func brokenStep(message string) report.ExecutableItem {
	now := time.Now().UnixMilli()
	return report.ExecutableItem{
		Name:        message,
		Status:      report.StatusBroken,
		Stage:       report.StageFinished,
		Steps:       []report.ExecutableItem{},
		Attachments: []any{},
		Parameters:  []any{},
		Start:       now,
		Stop:        now,
	}
}

func stepFromOutcome(outcome assert.Outcome, start time.Time) report.ExecutableItem {
	status := report.StatusPassed
	switch outcome.Status {
	case assert.StatusFailed:
		status = report.StatusFailed
	case assert.StatusBroken:
		status = report.StatusBroken
	}
	now := time.Now()
	return report.ExecutableItem{
		Name:        outcome.Message,
		Status:      status,
		Stage:       report.StageFinished,
		Steps:       []report.ExecutableItem{},
		Attachments: []any{},
		Parameters:  []any{},
		Start:       start.UnixMilli(),
		Stop:        now.UnixMilli(),
	}
}

func logAssertion(logger *log.Logger, outcome assert.Outcome) {
	switch outcome.Status {
	case assert.StatusPassed:
		logger.Info(style.Ok(outcome.Message))
	case assert.StatusFailed:
		logger.Info(style.Failed(outcome.Message))
	default:
		logger.Info(style.Broken(outcome.Message))
	}
}
