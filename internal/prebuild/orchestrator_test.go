package prebuild

import (
	"bytes"
	"context"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/require"

	"git.home.luguber.info/inful/sitebuilder/internal/buildstate"
	sberrors "git.home.luguber.info/inful/sitebuilder/internal/errors"
	"git.home.luguber.info/inful/sitebuilder/internal/manifest"
	"git.home.luguber.info/inful/sitebuilder/internal/phase"
)

// fixtureProject lays out a complete, valid project with all phases done.
func fixtureProject(t *testing.T) string {
	t.Helper()
	dir := t.TempDir()

	write := func(rel string, content []byte) {
		full := filepath.Join(dir, rel)
		require.NoError(t, os.MkdirAll(filepath.Dir(full), 0o755))
		require.NoError(t, os.WriteFile(full, content, 0o644))
	}

	write("site.yaml", []byte(`site:
  name: Acme Plumbing
fonts:
  - name: Inter
    file: assets/fonts/inter.woff2
`))
	write("context/brief.md", []byte("# Brief\n"))
	write("context/art-direction.md", []byte("# Art direction\n"))
	write("pages/home.md", []byte("# Home\n"))
	write("pages/registry.json", []byte(`{
  "pages": [{"id": "home", "title": "Home", "route": "/", "source": "pages/home.md"}]
}`))
	write("assets/images/hero/hero-01.png", bytes.Repeat([]byte{0x89}, 4096))
	write("assets/images/manifest.json", []byte(`{
  "slots": {"hero": [{"file": "assets/images/hero/hero-01.png"}]},
  "required_slots": ["hero"]
}`))
	write("assets/images/generation.json", []byte(`{
  "model": "gpt-image-1",
  "promptSource": "prompts/image-briefs.json"
}`))
	write("assets/fonts/inter.woff2", bytes.Repeat([]byte{0x00}, 2048))

	bs := buildstate.New(buildstate.BuilderTemplate)
	for _, p := range phase.All() {
		require.NoError(t, bs.MarkPhaseComplete(p))
	}
	require.NoError(t, buildstate.Save(dir, bs))

	return dir
}

func TestRun_ValidProjectPasses(t *testing.T) {
	dir := fixtureProject(t)

	report := NewRunner(nil).Run(context.Background(), dir)
	require.Equal(t, OutcomePassed, report.Outcome)
	require.True(t, report.Passed())
	require.Empty(t, report.Issues)
	require.Empty(t, report.Lines())
	require.NotEmpty(t, report.ID)
}

func TestRun_MissingStateShortCircuits(t *testing.T) {
	dir := fixtureProject(t)
	require.NoError(t, os.RemoveAll(filepath.Join(dir, buildstate.StateDirName)))

	report := NewRunner(nil).Run(context.Background(), dir)
	require.Equal(t, OutcomeFailed, report.Outcome)
	require.Contains(t, report.FatalReason, "not found")
	// No manifest validator ran after the precondition failure.
	require.Equal(t, []string{StageCheckState}, report.StageOrder)
	require.Empty(t, report.Issues)
}

func TestRun_InvalidStateShortCircuits(t *testing.T) {
	dir := fixtureProject(t)
	statePath := buildstate.StatePath(dir)
	require.NoError(t, os.WriteFile(statePath, []byte("{broken"), 0o644))

	report := NewRunner(nil).Run(context.Background(), dir)
	require.Equal(t, OutcomeFailed, report.Outcome)
	require.Contains(t, report.FatalReason, "invalid")
	require.Equal(t, []string{StageCheckState}, report.StageOrder)
}

func TestRun_UnmetFinalGateShortCircuits(t *testing.T) {
	dir := fixtureProject(t)
	bs := buildstate.New(buildstate.BuilderTemplate)
	for _, p := range phase.Through(phase.PhaseAssembly) {
		require.NoError(t, bs.MarkPhaseComplete(p))
	}
	require.NoError(t, buildstate.Save(dir, bs))

	report := NewRunner(nil).Run(context.Background(), dir)
	require.Equal(t, OutcomeFailed, report.Outcome)
	require.Contains(t, report.FatalReason, "phase-6")
	require.Equal(t, []string{StageCheckState}, report.StageOrder)
}

func TestStageCheckState_ReturnsCategorizedErrors(t *testing.T) {
	t.Run("missing state", func(t *testing.T) {
		dir := fixtureProject(t)
		require.NoError(t, os.RemoveAll(filepath.Join(dir, buildstate.StateDirName)))

		err := stageCheckState(context.Background(), &RunState{ProjectPath: dir})
		require.Error(t, err)
		var sbe *sberrors.SiteBuilderError
		require.ErrorAs(t, err, &sbe)
		require.True(t, sberrors.IsCategory(err, sberrors.CategoryState))
		require.Equal(t, buildstate.StatePath(dir), sbe.Context["path"])
	})

	t.Run("invalid state", func(t *testing.T) {
		dir := fixtureProject(t)
		require.NoError(t, os.WriteFile(buildstate.StatePath(dir), []byte("{broken"), 0o644))

		err := stageCheckState(context.Background(), &RunState{ProjectPath: dir})
		require.True(t, sberrors.IsCategory(err, sberrors.CategoryState))
	})

	t.Run("unmet gate", func(t *testing.T) {
		dir := fixtureProject(t)
		bs := buildstate.New(buildstate.BuilderTemplate)
		for _, p := range phase.Through(phase.PhaseAssembly) {
			require.NoError(t, bs.MarkPhaseComplete(p))
		}
		require.NoError(t, buildstate.Save(dir, bs))

		err := stageCheckState(context.Background(), &RunState{ProjectPath: dir})
		require.True(t, sberrors.IsCategory(err, sberrors.CategoryGate))
		require.Equal(t, sberrors.CategoryGate, sberrors.GetCategory(err))
	})
}

func TestRun_FatalPreconditionKeepsReportClean(t *testing.T) {
	dir := fixtureProject(t)
	// A broken site.yaml must not contribute an issue when the run never
	// gets past the state check.
	require.NoError(t, os.WriteFile(filepath.Join(dir, "site.yaml"), []byte("site: [unclosed\n"), 0o644))
	require.NoError(t, os.RemoveAll(filepath.Join(dir, buildstate.StateDirName)))

	report := NewRunner(nil).Run(context.Background(), dir)
	require.Equal(t, OutcomeFailed, report.Outcome)
	require.Contains(t, report.FatalReason, "not found")
	require.Empty(t, report.Issues)
	require.Empty(t, report.Lines())
}

func TestRun_AggregatesAllValidatorIssues(t *testing.T) {
	dir := fixtureProject(t)
	// Three independent defects across different stages.
	require.NoError(t, os.Remove(filepath.Join(dir, "pages/home.md")))
	require.NoError(t, os.Remove(filepath.Join(dir, "assets/fonts/inter.woff2")))
	require.NoError(t, manifest.WriteJSON(dir, manifest.GenerationManifestPath, &manifest.GenerationManifest{
		Model:        "wrong-model",
		PromptSource: manifest.RequiredPromptSource,
	}))

	report := NewRunner(nil).Run(context.Background(), dir)
	require.Equal(t, OutcomeFailed, report.Outcome)
	require.Empty(t, report.FatalReason)
	require.Len(t, report.Issues, 3)
	// Every stage still ran: no short-circuit on validator failure.
	require.Equal(t, []string{
		StageCheckState, StageContextDocs, StageManifests,
		StageImages, StageProvenance, StageFonts,
	}, report.StageOrder)
}

func TestRun_IsIdempotent(t *testing.T) {
	dir := fixtureProject(t)
	require.NoError(t, os.Remove(filepath.Join(dir, "context/brief.md")))

	runner := NewRunner(nil)
	first := runner.Run(context.Background(), dir)
	second := runner.Run(context.Background(), dir)

	require.Equal(t, first.Outcome, second.Outcome)
	require.Equal(t, first.Lines(), second.Lines())
}

func TestRun_CanceledContext(t *testing.T) {
	dir := fixtureProject(t)
	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	report := NewRunner(nil).Run(ctx, dir)
	require.Equal(t, OutcomeFailed, report.Outcome)
	require.Contains(t, report.FatalReason, "canceled")
}

func TestRun_UnparseableConfigBecomesIssue(t *testing.T) {
	dir := fixtureProject(t)
	require.NoError(t, os.WriteFile(filepath.Join(dir, "site.yaml"), []byte("site: [unclosed\n"), 0o644))

	report := NewRunner(nil).Run(context.Background(), dir)
	require.Equal(t, OutcomeFailed, report.Outcome)

	found := false
	for _, issue := range report.Issues {
		if issue.Artifact == "site.yaml" {
			found = true
		}
	}
	require.True(t, found, "expected an issue for site.yaml, got %v", report.Lines())
}

func TestReport_SummaryShapes(t *testing.T) {
	dir := fixtureProject(t)
	report := NewRunner(nil).Run(context.Background(), dir)
	require.Contains(t, report.Summary(), "passed")

	require.NoError(t, os.RemoveAll(filepath.Join(dir, buildstate.StateDirName)))
	report = NewRunner(nil).Run(context.Background(), dir)
	require.Contains(t, report.Summary(), "failed")
}
