// Package capture takes reference screenshots of competitor sites with a
// headless browser and records page metadata next to each shot. The captures
// feed the brief and design phases.
package capture

import (
	"context"
	"encoding/json"
	"fmt"
	"log/slog"
	"net/url"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/go-rod/rod"
	"github.com/go-rod/rod/lib/launcher"
	"github.com/go-rod/rod/lib/proto"

	"git.home.luguber.info/inful/sitebuilder/internal/config"
	"git.home.luguber.info/inful/sitebuilder/internal/errors"
	"git.home.luguber.info/inful/sitebuilder/internal/metrics"
	"git.home.luguber.info/inful/sitebuilder/internal/observability"
)

// CapturesDir is where competitor captures land, relative to the project.
const CapturesDir = "research/screenshots"

// Shot is one completed capture.
type Shot struct {
	URL     string    `json:"url"`
	File    string    `json:"file"`
	Meta    Metadata  `json:"meta"`
	TakenAt time.Time `json:"taken_at"`
}

// Capturer drives a headless browser to screenshot competitor sites.
type Capturer struct {
	cfg      config.CaptureConfig
	recorder metrics.Recorder
	browser  *rod.Browser
}

// NewCapturer creates a capturer. A nil recorder defaults to NoopRecorder.
func NewCapturer(cfg config.CaptureConfig, recorder metrics.Recorder) *Capturer {
	if recorder == nil {
		recorder = metrics.NoopRecorder{}
	}
	return &Capturer{cfg: cfg, recorder: recorder}
}

// Connect launches a headless browser and attaches to it. Call Close when
// done.
func (c *Capturer) Connect(ctx context.Context) error {
	controlURL, err := launcher.New().Headless(true).Launch()
	if err != nil {
		return errors.CaptureFailed("launch headless browser", err)
	}
	browser := rod.New().ControlURL(controlURL).Context(ctx)
	if err := browser.Connect(); err != nil {
		return errors.CaptureFailed("connect to browser", err)
	}
	c.browser = browser
	return nil
}

// Close shuts the browser down.
func (c *Capturer) Close() error {
	if c.browser == nil {
		return nil
	}
	return c.browser.Close()
}

// Capture navigates to the URL and returns the screenshot bytes with the
// extracted page metadata.
func (c *Capturer) Capture(ctx context.Context, target string) ([]byte, Metadata, error) {
	if c.browser == nil {
		return nil, Metadata{}, errors.CaptureFailed(target, fmt.Errorf("capturer is not connected"))
	}

	t0 := time.Now()
	shot, meta, err := c.capturePage(ctx, target)
	success := err == nil
	c.recorder.ObserveCaptureDuration(target, time.Since(t0), success)
	c.recorder.IncCaptureResult(success)
	if err != nil {
		return nil, Metadata{}, err
	}
	return shot, meta, nil
}

func (c *Capturer) capturePage(ctx context.Context, target string) ([]byte, Metadata, error) {
	page, err := c.browser.Page(proto.TargetCreateTarget{URL: "about:blank"})
	if err != nil {
		return nil, Metadata{}, errors.CaptureFailed(target, err)
	}
	defer func() {
		_ = page.Close()
	}()

	if err := (proto.EmulationSetDeviceMetricsOverride{
		Width:             c.cfg.ViewportWidth,
		Height:            c.cfg.ViewportHeight,
		DeviceScaleFactor: 1,
	}).Call(page); err != nil {
		return nil, Metadata{}, errors.CaptureFailed(target, err)
	}

	timeout := time.Duration(c.cfg.TimeoutSeconds) * time.Second
	page = page.Context(ctx).Timeout(timeout)
	if err := page.Navigate(target); err != nil {
		return nil, Metadata{}, errors.CaptureFailed(target, err)
	}
	if err := page.WaitLoad(); err != nil {
		return nil, Metadata{}, errors.CaptureFailed(target, err)
	}

	content, err := page.HTML()
	if err != nil {
		return nil, Metadata{}, errors.CaptureFailed(target, err)
	}
	meta, err := ExtractMetadata(content)
	if err != nil {
		return nil, Metadata{}, errors.CaptureFailed(target, err)
	}

	shot, err := page.Screenshot(c.cfg.FullPage, nil)
	if err != nil {
		return nil, Metadata{}, errors.CaptureFailed(target, err)
	}
	return shot, meta, nil
}

// CaptureAll screenshots every configured competitor into the project's
// captures folder and writes a sidecar metadata file per shot. Failures on
// individual sites are collected; the rest proceed.
func (c *Capturer) CaptureAll(ctx context.Context, projectPath string) ([]Shot, []error) {
	ctx = observability.WithProject(ctx, projectPath)
	outDir := filepath.Join(projectPath, CapturesDir)

	var shots []Shot
	var errs []error
	for _, target := range c.cfg.Competitors {
		select {
		case <-ctx.Done():
			errs = append(errs, ctx.Err())
			return shots, errs
		default:
		}

		png, meta, err := c.Capture(ctx, target)
		if err != nil {
			observability.WarnContext(ctx, "Capture failed", slog.String("url", target))
			errs = append(errs, err)
			continue
		}

		shot, err := saveShot(outDir, target, png, meta)
		if err != nil {
			errs = append(errs, err)
			continue
		}
		shots = append(shots, shot)
		observability.InfoContext(ctx, "Captured competitor", slog.String("url", target))
	}
	return shots, errs
}

// saveShot writes the screenshot plus a research-notes sidecar next to it.
func saveShot(outDir, target string, png []byte, meta Metadata) (Shot, error) {
	if err := os.MkdirAll(outDir, 0o750); err != nil {
		return Shot{}, fmt.Errorf("create captures folder: %w", err)
	}
	name := FileStem(target)
	file := filepath.Join(outDir, name+".png")
	if err := os.WriteFile(file, png, 0o644); err != nil {
		return Shot{}, fmt.Errorf("write capture %s: %w", file, err)
	}

	shot := Shot{URL: target, File: file, Meta: meta, TakenAt: time.Now().UTC()}
	notes, err := json.MarshalIndent(shot, "", "  ")
	if err != nil {
		return Shot{}, fmt.Errorf("marshal capture notes: %w", err)
	}
	notesFile := filepath.Join(outDir, name+".json")
	if err := os.WriteFile(notesFile, append(notes, '\n'), 0o644); err != nil {
		return Shot{}, fmt.Errorf("write capture notes %s: %w", notesFile, err)
	}
	return shot, nil
}

// FileStem derives a stable file name stem from a capture URL.
func FileStem(target string) string {
	u, err := url.Parse(target)
	if err != nil || u.Host == "" {
		return sanitize(target)
	}
	stem := u.Host
	if p := strings.Trim(u.Path, "/"); p != "" {
		stem += "-" + p
	}
	return sanitize(stem)
}

func sanitize(s string) string {
	var b strings.Builder
	for _, r := range strings.ToLower(s) {
		switch {
		case r >= 'a' && r <= 'z', r >= '0' && r <= '9', r == '-', r == '.':
			b.WriteRune(r)
		default:
			b.WriteRune('-')
		}
	}
	return strings.Trim(b.String(), "-")
}
