package prebuild

import (
	"fmt"
	"time"

	"git.home.luguber.info/inful/sitebuilder/internal/validate"
)

// Outcome is the terminal state of a prebuild run.
type Outcome string

const (
	OutcomePassed Outcome = "passed"
	OutcomeFailed Outcome = "failed"
)

// Report records a single prebuild run: what was checked, how long each stage
// took, and every issue found. One invocation yields the complete defect list.
type Report struct {
	ID          string                   `json:"id"`
	ProjectPath string                   `json:"project_path"`
	Commit      string                   `json:"commit,omitempty"`
	StartedAt   time.Time                `json:"started_at"`
	Duration    time.Duration            `json:"duration"`
	Outcome     Outcome                  `json:"outcome"`
	FatalReason string                   `json:"fatal_reason,omitempty"`
	StageOrder  []string                 `json:"stage_order"`
	Timings     map[string]time.Duration `json:"timings"`
	Issues      []validate.Issue         `json:"-"`
}

// Passed reports whether the run ended in the passing terminal state.
func (r *Report) Passed() bool {
	return r.Outcome == OutcomePassed
}

// Lines renders the report's failure detail as user-facing lines. A fatal
// precondition yields a single line; otherwise every aggregated issue appears,
// artifact-prefixed, in discovery order.
func (r *Report) Lines() []string {
	if r.FatalReason != "" {
		return []string{r.FatalReason}
	}
	lines := make([]string, 0, len(r.Issues))
	for _, issue := range r.Issues {
		lines = append(lines, issue.String())
	}
	return lines
}

// Summary is a one-line human summary of the run.
func (r *Report) Summary() string {
	if r.Passed() {
		return fmt.Sprintf("prebuild passed in %s", r.Duration.Round(time.Millisecond))
	}
	if r.FatalReason != "" {
		return fmt.Sprintf("prebuild failed: %s", r.FatalReason)
	}
	return fmt.Sprintf("prebuild failed with %d issue(s)", len(r.Issues))
}
