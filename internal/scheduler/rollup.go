package scheduler

import "github.com/blackcoderx/cannon/internal/report"

// rollup resolves the spec's §9 open question: the overall status of an
// ExecutableItem is the worst of its steps (Broken > Failed > Passed),
// not an unconditional Passed. A step's caller-visible status ordering:
// Broken outranks Failed outranks Passed.
func rollup(steps []report.ExecutableItem) report.Status {
	worst := report.StatusPassed
	for _, s := range steps {
		if rank(s.Status) > rank(worst) {
			worst = s.Status
		}
	}
	return worst
}

func rank(s report.Status) int {
	switch s {
	case report.StatusBroken:
		return 2
	case report.StatusFailed:
		return 1
	default:
		return 0
	}
}
