package commands

import (
	"log/slog"
	"os"

	"github.com/alecthomas/kong"
)

// Global context passed to subcommands if we need to share global state later.
type Global struct {
	Logger *slog.Logger
}

// CLI definition & global flags.
type CLI struct {
	Project string           `short:"p" help:"Project directory" default:"."`
	Verbose bool             `short:"v" help:"Enable verbose logging"`
	Version kong.VersionFlag `name:"version" help:"Show version and exit"`

	Scaffold ScaffoldCmd `cmd:"" help:"Scaffold a new site project"`
	Prebuild PrebuildCmd `cmd:"" help:"Check phase gates and validate manifests before a build"`
	Images   ImagesCmd   `cmd:"" help:"Sync the image manifest with the placement folders"`
	Capture  CaptureCmd  `cmd:"" help:"Screenshot the configured competitor sites"`
	Render   RenderCmd   `cmd:"" help:"Render the registered pages to a static site"`
	Watch    WatchCmd    `cmd:"" help:"Watch the project and rerun prebuild on changes"`
	History  HistoryCmd  `cmd:"" help:"Show recent prebuild runs"`
}

// AfterApply runs after flag parsing; setup logging once.
// nolint:unparam // AfterApply currently never returns an error.
func (c *CLI) AfterApply() error {
	level := slog.LevelInfo
	if c.Verbose {
		level = slog.LevelDebug
	}
	logger := slog.New(slog.NewTextHandler(os.Stderr, &slog.HandlerOptions{Level: level}))
	slog.SetDefault(logger)
	return nil
}
