package scheduler

import (
	"github.com/charmbracelet/log"

	"github.com/blackcoderx/cannon/internal/job"
	"github.com/blackcoderx/cannon/internal/manifest"
	"github.com/blackcoderx/cannon/internal/value"
)

// applyCaptures runs each CaptureBinding against the job's response body
// and collects the results into a single Object for Context.PushVars
// (spec §4.7 step d-e). A capture failure does not fail the job: it is
// logged and the variable is left unset, per §4.3.
func applyCaptures(bindings []manifest.CaptureBinding, resp job.ExecutionResponse, logger *log.Logger) *value.Object {
	exported := value.NewObject()
	for _, b := range bindings {
		v, err := b.Capture.Capture(resp.Body)
		if err != nil {
			logger.Warn("capture failed", "variable", b.Variable, "err", err)
			continue
		}
		exported.Set(b.Variable, v)
	}
	return exported
}
