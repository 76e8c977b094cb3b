package commands

import (
	"context"
	"fmt"
	"os"

	"git.home.luguber.info/inful/sitebuilder/internal/render"
)

// RenderCmd implements the 'render' command.
type RenderCmd struct {
	Output string `short:"o" help:"Output directory (defaults to <project>/dist)"`
	Force  bool   `help:"Render even when prebuild fails"`
}

func (r *RenderCmd) Run(_ *Global, root *CLI) error {
	// Rendering trusts the manifests, so the gate check and validators run
	// first.
	report := runPrebuild(context.Background(), root.Project, true)
	if !report.Passed() {
		for _, line := range report.Lines() {
			fmt.Fprintln(os.Stderr, line)
		}
		if !r.Force {
			return errFailed
		}
		fmt.Fprintln(os.Stderr, "Continuing despite prebuild failure (--force)")
	}

	result, err := render.New().Build(context.Background(), root.Project, r.Output)
	if err != nil {
		return err
	}
	fmt.Printf("Rendered %d page(s) to %s\n", len(result.Pages), result.OutputDir)
	return nil
}
