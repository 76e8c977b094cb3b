// Package prebuild sequences the gate check and manifest validators for a
// project and aggregates their findings into a single run report.
//
// The state/gate check is a hard precondition: when it fails the run aborts
// immediately. Every other validator runs to completion regardless of earlier
// failures so one invocation reports the complete defect list.
package prebuild

import (
	"context"
	"fmt"
	"log/slog"
	"os"
	"time"

	"github.com/google/uuid"

	"git.home.luguber.info/inful/sitebuilder/internal/config"
	sberrors "git.home.luguber.info/inful/sitebuilder/internal/errors"
	"git.home.luguber.info/inful/sitebuilder/internal/gitinfo"
	"git.home.luguber.info/inful/sitebuilder/internal/metrics"
	"git.home.luguber.info/inful/sitebuilder/internal/observability"
	"git.home.luguber.info/inful/sitebuilder/internal/validate"
)

// Runner executes prebuild runs against a project.
type Runner struct {
	recorder metrics.Recorder
}

// NewRunner creates a runner. A nil recorder defaults to NoopRecorder.
func NewRunner(recorder metrics.Recorder) *Runner {
	if recorder == nil {
		recorder = metrics.NoopRecorder{}
	}
	return &Runner{recorder: recorder}
}

// Run executes the full prebuild pipeline for the project and returns its
// report. The report is never nil; the terminal outcome maps to the process
// exit code at the CLI boundary.
func (r *Runner) Run(ctx context.Context, projectPath string) *Report {
	report := &Report{
		ID:          uuid.NewString(),
		ProjectPath: projectPath,
		StartedAt:   time.Now().UTC(),
		Timings:     make(map[string]time.Duration),
	}

	ctx = observability.WithProject(ctx, projectPath)
	ctx = observability.WithRunID(ctx, report.ID)
	observability.InfoContext(ctx, "Starting prebuild run")

	if commit, err := gitinfo.HeadCommit(projectPath); err == nil {
		report.Commit = commit
	}

	rs := &RunState{
		ProjectPath: projectPath,
		Report:      report,
	}

	// The gate check runs before config is touched so a fatal precondition
	// aborts with a clean report, no half-collected issues from site.yaml.
	err := runStages(ctx, rs, r.recorder, []stageStep{
		{StageCheckState, stageCheckState},
	})
	if err == nil {
		rs.Config = loadConfigBestEffort(projectPath, report)
		err = runStages(ctx, rs, r.recorder, []stageStep{
			{StageContextDocs, stageContextDocs},
			{StageManifests, stageManifests},
			{StageImages, stageImages},
			{StageProvenance, stageProvenance},
			{StageFonts, stageFonts},
		})
	}
	report.Duration = time.Since(report.StartedAt)
	r.recorder.ObserveRunDuration(report.Duration)

	switch {
	case err != nil:
		report.Outcome = OutcomeFailed
		report.FatalReason = err.Error()
		observability.ErrorContext(ctx, "Prebuild aborted",
			slog.String("reason", report.FatalReason),
			slog.String("category", string(sberrors.GetCategory(err))))
	case len(report.Issues) > 0:
		report.Outcome = OutcomeFailed
		observability.WarnContext(ctx, "Prebuild failed", slog.Int("issues", len(report.Issues)))
	default:
		report.Outcome = OutcomePassed
		observability.InfoContext(ctx, "Prebuild passed")
	}
	r.recorder.IncRunOutcome(string(report.Outcome))

	return report
}

// loadConfigBestEffort loads site.yaml, degrading to defaults when it cannot
// be parsed. A missing file is left to the site-config validator to report; a
// present-but-unparseable file is recorded as an issue here because the
// validators that need parsed config would otherwise check nothing.
func loadConfigBestEffort(projectPath string, report *Report) *config.Config {
	cfg, err := config.Load(projectPath)
	if err == nil {
		return cfg
	}

	if _, statErr := os.Stat(config.Path(projectPath)); statErr == nil {
		report.Issues = append(report.Issues, configParseIssue(err))
	}

	return &config.Config{
		Images: config.ImagesConfig{MinAssetBytes: config.DefaultMinAssetBytes},
	}
}

func configParseIssue(err error) validate.Issue {
	return validate.Issue{
		Artifact: config.FileName,
		Message:  fmt.Sprintf("cannot load: %v", err),
	}
}
