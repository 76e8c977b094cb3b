package prebuild

import (
	"context"
	"errors"
	"fmt"
	"time"

	"git.home.luguber.info/inful/sitebuilder/internal/buildstate"
	"git.home.luguber.info/inful/sitebuilder/internal/config"
	sberrors "git.home.luguber.info/inful/sitebuilder/internal/errors"
	"git.home.luguber.info/inful/sitebuilder/internal/metrics"
	"git.home.luguber.info/inful/sitebuilder/internal/observability"
	"git.home.luguber.info/inful/sitebuilder/internal/phase"
	"git.home.luguber.info/inful/sitebuilder/internal/validate"
)

// Stage names, in execution order. Transitions are strictly sequential with
// no backtracking.
const (
	StageCheckState  = "checking-state"
	StageContextDocs = "checking-context-docs"
	StageManifests   = "checking-manifests"
	StageImages      = "checking-images"
	StageProvenance  = "checking-provenance"
	StageFonts       = "checking-fonts"
)

// Stage is a discrete unit of work in the prebuild run.
type Stage func(ctx context.Context, rs *RunState) error

// StageErrorKind enumerates structured stage error categories.
type StageErrorKind string

const (
	StageErrorFatal    StageErrorKind = "fatal"    // Run must abort; later checks are meaningless.
	StageErrorCanceled StageErrorKind = "canceled" // Context cancellation.
)

// StageError is a structured error carrying category and underlying cause.
type StageError struct {
	Kind  StageErrorKind
	Stage string
	Err   error
}

func (e *StageError) Error() string { return fmt.Sprintf("%s stage %s: %v", e.Kind, e.Stage, e.Err) }
func (e *StageError) Unwrap() error { return e.Err }

func newFatalStageError(stage string, err error) *StageError {
	return &StageError{Kind: StageErrorFatal, Stage: stage, Err: err}
}
func newCanceledStageError(stage string, err error) *StageError {
	return &StageError{Kind: StageErrorCanceled, Stage: stage, Err: err}
}

// RunState carries mutable state across stages.
type RunState struct {
	ProjectPath string
	Config      *config.Config
	State       *buildstate.BuildState
	Report      *Report
}

// stageStep pairs a stage with its reported name.
type stageStep struct {
	name string
	fn   Stage
}

// runStages executes stages in order, recording timing and stopping on the
// first fatal error. Validator stages never return errors; they append issues
// to the report and the run continues so the caller sees every defect at once.
func runStages(ctx context.Context, rs *RunState, recorder metrics.Recorder, stages []stageStep) error {
	for _, st := range stages {
		select {
		case <-ctx.Done():
			se := newCanceledStageError(st.name, ctx.Err())
			recorder.IncStageResult(st.name, metrics.ResultCanceled)
			return se
		default:
		}

		stageCtx := observability.WithStage(ctx, st.name)
		issuesBefore := len(rs.Report.Issues)

		t0 := time.Now()
		err := st.fn(stageCtx, rs)
		dur := time.Since(t0)
		rs.Report.Timings[st.name] = dur
		rs.Report.StageOrder = append(rs.Report.StageOrder, st.name)
		recorder.ObserveStageDuration(st.name, dur)

		if err != nil {
			var se *StageError
			if !errors.As(err, &se) {
				// Wrap unknown errors as fatal by default.
				se = newFatalStageError(st.name, err)
			}
			switch se.Kind {
			case StageErrorCanceled:
				recorder.IncStageResult(st.name, metrics.ResultCanceled)
			default:
				recorder.IncStageResult(st.name, metrics.ResultFatal)
			}
			return se
		}

		if len(rs.Report.Issues) > issuesBefore {
			recorder.IncStageResult(st.name, metrics.ResultIssues)
		} else {
			recorder.IncStageResult(st.name, metrics.ResultSuccess)
		}
	}
	return nil
}

// stageCheckState loads the build state and checks the final-phase gate.
// Both failures are hard preconditions: the run aborts before any manifest
// validator executes.
func stageCheckState(ctx context.Context, rs *RunState) error {
	state, err := buildstate.Load(rs.ProjectPath)
	if err != nil {
		statePath := buildstate.StatePath(rs.ProjectPath)
		switch {
		case errors.Is(err, buildstate.ErrNotFound):
			return newFatalStageError(StageCheckState, sberrors.StateNotFound(statePath))
		case errors.Is(err, buildstate.ErrInvalid):
			return newFatalStageError(StageCheckState, sberrors.StateInvalid(statePath, err))
		default:
			return newFatalStageError(StageCheckState, sberrors.InternalError("load build state", err))
		}
	}
	rs.State = state

	gate := buildstate.CheckAllGates(state, phase.Final)
	if !gate.Passed {
		return newFatalStageError(StageCheckState, sberrors.GateFailure(gate.Reason))
	}

	observability.DebugContext(ctx, "Build state loaded and gates passed")
	return nil
}

// runValidators executes validators and appends their issues to the report.
func runValidators(ctx context.Context, rs *RunState, validators ...validate.Validator) error {
	for _, v := range validators {
		vctx := observability.WithValidator(ctx, v.Name())
		result := v.Validate(rs.ProjectPath)
		if !result.Valid() {
			observability.WarnContext(vctx, "Validator found issues")
		}
		rs.Report.Issues = append(rs.Report.Issues, result.Issues...)
	}
	return nil
}

func stageContextDocs(ctx context.Context, rs *RunState) error {
	return runValidators(ctx, rs, &validate.ContextDocsValidator{})
}

func stageManifests(ctx context.Context, rs *RunState) error {
	return runValidators(ctx, rs,
		&validate.SiteConfigValidator{},
		&validate.ImageManifestValidator{},
		&validate.PageRegistryValidator{},
	)
}

func stageImages(ctx context.Context, rs *RunState) error {
	return runValidators(ctx, rs, &validate.ImageFolderValidator{
		MinBytes: rs.Config.Images.MinAssetBytes,
	})
}

func stageProvenance(ctx context.Context, rs *RunState) error {
	return runValidators(ctx, rs, &validate.ProvenanceValidator{})
}

func stageFonts(ctx context.Context, rs *RunState) error {
	return runValidators(ctx, rs, &validate.FontValidator{Fonts: rs.Config.Fonts})
}
