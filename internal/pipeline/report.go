package pipeline

import (
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"time"

	"git.home.luguber.info/inful/texbuild/internal/config"
)

// BuildOutcome is the typed enumeration of final build result states.
type BuildOutcome string

const (
	OutcomeSuccess BuildOutcome = "success"
	OutcomeWarning BuildOutcome = "warning"
	OutcomeFailed  BuildOutcome = "failed"
	OutcomeAborted BuildOutcome = "aborted" // a fatal diagnostic halted the pipeline
)

// Exit codes consumed by the invoking editor. ExitDismissLog tells the
// caller the diagnostic view can be closed: nothing went wrong and the
// output is viewed elsewhere.
const (
	ExitSuccess    = 0
	ExitDismissLog = 200
)

// StageRecord is the folded result of one stage invocation.
type StageRecord struct {
	Stage      StageName     `json:"stage"`
	Tool       string        `json:"tool"`
	ExitStatus int           `json:"exit_status"`
	Errors     int           `json:"errors"`
	Warnings   int           `json:"warnings"`
	Fatal      bool          `json:"fatal"`
	Duration   time.Duration `json:"duration_ns"`
}

// Report captures the cumulative outcome of one end-to-end build. It is
// owned by the Coordinator for the duration of the build and consumed at
// the end to compute the final exit status.
type Report struct {
	BuildID  string    `json:"build_id"`
	Document string    `json:"document"`
	Start    time.Time `json:"start"`
	End      time.Time `json:"end"`

	Errors   int  `json:"errors"`
	Warnings int  `json:"warnings"`
	Fatal    bool `json:"fatal"`
	Passes   int  `json:"passes"` // typesetting passes performed

	Stages  []StageRecord `json:"stages"`
	Outcome BuildOutcome  `json:"outcome"`
}

// fold adds one stage's counts into the cumulative state: counts by
// addition, fatal by logical OR.
func (r *Report) fold(rec StageRecord) {
	r.Stages = append(r.Stages, rec)
	r.Errors += rec.Errors
	r.Warnings += rec.Warnings
	r.Fatal = r.Fatal || rec.Fatal
}

// finish stamps the end time and derives the outcome.
func (r *Report) finish() {
	r.End = time.Now()
	switch {
	case r.Fatal:
		r.Outcome = OutcomeAborted
	case r.Errors > 0:
		r.Outcome = OutcomeFailed
	case r.Warnings > 0:
		r.Outcome = OutcomeWarning
	default:
		r.Outcome = OutcomeSuccess
	}
}

// Summary renders the one-line result the caller prints after a build.
func (r *Report) Summary() string {
	return fmt.Sprintf("Found %d errors, and %d warnings in %d runs",
		r.Errors, r.Warnings, r.Passes)
}

// ExitCode selects the process exit code for this report. 200 signals
// "no errors, safe to dismiss the diagnostic view"; it only applies when
// the viewer is not the host editor (otherwise the view is the output)
// and the user did not ask to keep the log window.
func (r *Report) ExitCode(prefs *config.Preferences) int {
	if r.Errors == 0 && prefs.Viewer != config.ViewerEditor && !prefs.KeepLogWindow {
		return ExitDismissLog
	}
	return ExitSuccess
}

// Persist writes the report as JSON. Parent directories are created as
// needed.
func (r *Report) Persist(path string) error {
	data, err := json.MarshalIndent(r, "", "  ")
	if err != nil {
		return fmt.Errorf("marshal build report: %w", err)
	}
	if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
		return fmt.Errorf("create report directory: %w", err)
	}
	if err := os.WriteFile(path, data, 0o644); err != nil {
		return fmt.Errorf("write build report: %w", err)
	}
	return nil
}
