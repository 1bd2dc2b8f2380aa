// Package report builds step/test/suite records and emits one JSON file per
// test, in the bit-exact on-disk format specified in spec §6. Grounded on
// the teacher's performance_engine/tool.go report-emission pattern
// (directory creation + os.WriteFile), adapted from Markdown to this JSON
// schema.
package report

import (
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"

	"github.com/google/uuid"
)

// Status is the ExecutableItem/StepResult status enum (spec §6).
type Status string

const (
	StatusFailed   Status = "Failed"
	StatusBroken   Status = "Broken"
	StatusPassed   Status = "Passed"
	StatusSkipped  Status = "Skipped"
)

// Stage is the ExecutableItem lifecycle stage (spec §6).
type Stage string

const (
	StageScheduled   Stage = "Scheduled"
	StageRunning     Stage = "Running"
	StageFinished    Stage = "Finished"
	StagePending     Stage = "Pending"
	StageInterrupted Stage = "Interrupted"
)

// StatusDetails carries an optional failure message/trace.
type StatusDetails struct {
	Message string `json:"message,omitempty"`
	Trace   string `json:"trace,omitempty"`
}

// Label is a tagged name/value pair; the variant tag becomes the uppercase
// "name" field (spec §6: `labels[]` entries serialise as
// `{"name": <label-name-uppercase>, "value": <value>}`).
type Label struct {
	Name  string `json:"name"`
	Value string `json:"value"`
}

func LanguageLabel(lang string) Label { return Label{Name: "LANGUAGE", Value: lang} }
func SuiteLabel(suite string) Label   { return Label{Name: "SUITE", Value: suite} }

// ExecutableItem is the recursive record shape used for both the top-level
// TestResult body and for each contained Step (spec §6: "Step records use
// the same ExecutableItem shape recursively").
type ExecutableItem struct {
	Name            string          `json:"name"`
	Status          Status          `json:"status"`
	StatusDetails   StatusDetails   `json:"statusDetails"`
	Stage           Stage           `json:"stage"`
	Description     string          `json:"description"`
	DescriptionHTML string          `json:"descriptionHtml,omitempty"`
	Steps           []ExecutableItem `json:"steps"`
	Attachments     []any           `json:"attachments"`
	Parameters      []any           `json:"parameters"`
	Start           int64           `json:"start"`
	Stop            int64           `json:"stop"`
}

// TestResult is the report record emitted for one job repeat (spec §6).
type TestResult struct {
	ExecutableItem
	UUID       string  `json:"uuid"`
	HistoryID  string  `json:"historyId,omitempty"`
	FullName   string  `json:"fullName"`
	TestCaseID string  `json:"testCaseId"`
	RerunOf    string  `json:"rerunOf,omitempty"`
	Labels     []Label `json:"labels"`
	Links      []any   `json:"links"`
}

// NewUUID returns a fresh UUID string for TestResult.uuid / RunInfo.id
// (DESIGN.md A9).
func NewUUID() string {
	return uuid.NewString()
}

// Writer emits one JSON file per TestResult into dir, named
// "<uuid>-result.json" (spec §6). No batching, no locking between
// workers: each file name is unique, matching §5's shared-resource policy.
type Writer struct {
	dir string
}

func NewWriter(dir string) *Writer {
	return &Writer{dir: dir}
}

func (w *Writer) Write(result TestResult) error {
	if err := os.MkdirAll(w.dir, 0755); err != nil {
		return fmt.Errorf("creating report directory %q: %w", w.dir, err)
	}
	data, err := json.MarshalIndent(result, "", "  ")
	if err != nil {
		return fmt.Errorf("encoding test result: %w", err)
	}
	path := filepath.Join(w.dir, fmt.Sprintf("%s-result.json", result.UUID))
	if err := os.WriteFile(path, data, 0644); err != nil {
		return fmt.Errorf("writing test result %q: %w", path, err)
	}
	return nil
}
