package commands

import (
	"context"
	"fmt"
	"log/slog"
	"os/signal"
	"syscall"

	"git.home.luguber.info/inful/sitebuilder/internal/capture"
	"git.home.luguber.info/inful/sitebuilder/internal/config"
	"git.home.luguber.info/inful/sitebuilder/internal/history"
)

// CaptureCmd implements the 'capture' command.
type CaptureCmd struct {
	URL []string `help:"Capture these URLs instead of the configured competitors"`
}

func (c *CaptureCmd) Run(_ *Global, root *CLI) error {
	cfg, err := config.Load(root.Project)
	if err != nil {
		return fmt.Errorf("load config: %w", err)
	}
	captureCfg := cfg.Capture
	if len(c.URL) > 0 {
		captureCfg.Competitors = c.URL
	}
	if len(captureCfg.Competitors) == 0 {
		return fmt.Errorf("no competitor URLs configured; set capture.competitors in %s or pass --url", config.FileName)
	}

	ctx, cancel := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer cancel()

	capturer := capture.NewCapturer(captureCfg, nil)
	if err := capturer.Connect(ctx); err != nil {
		return err
	}
	defer func() {
		_ = capturer.Close()
	}()

	shots, errs := capturer.CaptureAll(ctx, root.Project)
	recordCaptures(ctx, root.Project, shots)

	for _, shot := range shots {
		fmt.Printf("Captured %s -> %s\n", shot.URL, shot.File)
	}
	for _, err := range errs {
		slog.Error("Capture failed", "error", err)
	}
	if len(errs) > 0 {
		return fmt.Errorf("%d of %d capture(s) failed", len(errs), len(errs)+len(shots))
	}
	return nil
}

func recordCaptures(ctx context.Context, project string, shots []capture.Shot) {
	if len(shots) == 0 {
		return
	}
	store, err := history.OpenProject(project)
	if err != nil {
		slog.Warn("History unavailable", "error", err)
		return
	}
	defer func() {
		_ = store.Close()
	}()
	for _, shot := range shots {
		if err := store.RecordCapture(ctx, shot.URL, shot.File, shot.TakenAt); err != nil {
			slog.Warn("Failed to record capture", "error", err)
		}
	}
}
