package commands

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"os"

	"git.home.luguber.info/inful/sitebuilder/internal/history"
	"git.home.luguber.info/inful/sitebuilder/internal/prebuild"
)

// PrebuildCmd implements the 'prebuild' command.
type PrebuildCmd struct {
	NoHistory bool `help:"Do not record the run in the project history"`
}

// errFailed makes the process exit non-zero without kong repeating the
// already-printed defect list.
var errFailed = errors.New("prebuild failed")

func (p *PrebuildCmd) Run(_ *Global, root *CLI) error {
	report := runPrebuild(context.Background(), root.Project, !p.NoHistory)

	for _, line := range report.Lines() {
		fmt.Fprintln(os.Stderr, line)
	}
	fmt.Println(report.Summary())

	if !report.Passed() {
		return errFailed
	}
	return nil
}

// runPrebuild executes one prebuild run and records it, best effort, in the
// project history.
func runPrebuild(ctx context.Context, project string, record bool) *prebuild.Report {
	report := prebuild.NewRunner(nil).Run(ctx, project)

	if record {
		store, err := history.OpenProject(project)
		if err != nil {
			slog.Warn("History unavailable", "error", err)
			return report
		}
		defer func() {
			_ = store.Close()
		}()
		if err := store.RecordRun(ctx, report); err != nil {
			slog.Warn("Failed to record run", "error", err)
		}
	}
	return report
}
