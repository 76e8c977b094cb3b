package events

import (
	"encoding/json"
	"testing"
	"time"

	"github.com/stretchr/testify/require"

	"git.home.luguber.info/inful/sitebuilder/internal/prebuild"
	"git.home.luguber.info/inful/sitebuilder/internal/validate"
)

func TestConnect_EmptyURLDisables(t *testing.T) {
	p, err := Connect("", "")
	require.NoError(t, err)
	require.False(t, p.Enabled())

	// Publishing and closing on a disabled publisher are safe no-ops.
	require.NoError(t, p.PublishRun(&prebuild.Report{ID: "x"}))
	p.Close()
}

func TestRunEvent_Shape(t *testing.T) {
	report := &prebuild.Report{
		ID:          "run-1",
		ProjectPath: "/tmp/acme",
		Commit:      "abc123",
		StartedAt:   time.Date(2026, 3, 1, 12, 0, 0, 0, time.UTC),
		Duration:    1500 * time.Millisecond,
		Outcome:     prebuild.OutcomeFailed,
		Issues: []validate.Issue{
			{Artifact: "site.yaml", Message: "unresolved placeholder"},
			{Artifact: "assets/fonts/inter.woff2", Message: "font file missing"},
		},
	}

	event := RunEvent{
		RunID:       report.ID,
		ProjectPath: report.ProjectPath,
		Commit:      report.Commit,
		Outcome:     string(report.Outcome),
		FatalReason: report.FatalReason,
		IssueCount:  len(report.Issues),
		StartedAt:   report.StartedAt,
		DurationMs:  report.Duration.Milliseconds(),
	}
	data, err := json.Marshal(event)
	require.NoError(t, err)

	var decoded map[string]any
	require.NoError(t, json.Unmarshal(data, &decoded))
	require.Equal(t, "failed", decoded["outcome"])
	require.EqualValues(t, 2, decoded["issue_count"])
	require.EqualValues(t, 1500, decoded["duration_ms"])
	require.NotContains(t, decoded, "fatal_reason")
}
