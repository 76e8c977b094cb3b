// Package render turns the page registry's markdown sources into a static
// HTML tree. Rendering is the step after a passing prebuild; it trusts the
// manifests the validators already checked.
package render

import (
	"bytes"
	"context"
	"fmt"
	"html"
	"log/slog"
	"os"
	"path/filepath"
	"strings"

	"github.com/yuin/goldmark"
	gmhtml "github.com/yuin/goldmark/renderer/html"

	"git.home.luguber.info/inful/sitebuilder/internal/config"
	"git.home.luguber.info/inful/sitebuilder/internal/manifest"
	"git.home.luguber.info/inful/sitebuilder/internal/observability"
)

// DefaultOutputDir is the rendered-site directory, relative to the project.
const DefaultOutputDir = "dist"

// Result summarizes a render.
type Result struct {
	OutputDir string
	Pages     []string // output paths relative to OutputDir
}

// Renderer renders registry pages to HTML.
type Renderer struct {
	md goldmark.Markdown
}

// New creates a renderer with unsafe raw HTML enabled; page sources are
// project-authored, not user input.
func New() *Renderer {
	return &Renderer{
		md: goldmark.New(
			goldmark.WithRendererOptions(gmhtml.WithUnsafe()),
		),
	}
}

// Build renders every registered page into outDir (DefaultOutputDir when
// empty). Routes map to directory-style paths: "/" becomes index.html and
// "/about" becomes about/index.html.
func (r *Renderer) Build(ctx context.Context, projectPath, outDir string) (*Result, error) {
	ctx = observability.WithProject(ctx, projectPath)

	cfg, err := config.Load(projectPath)
	if err != nil {
		return nil, fmt.Errorf("load site config: %w", err)
	}
	registry, err := manifest.LoadPageRegistry(projectPath)
	if err != nil {
		return nil, fmt.Errorf("load page registry: %w", err)
	}

	if outDir == "" {
		outDir = filepath.Join(projectPath, DefaultOutputDir)
	}
	result := &Result{OutputDir: outDir}

	for _, page := range registry.Pages {
		rel, err := r.renderPage(projectPath, outDir, cfg, page)
		if err != nil {
			return nil, fmt.Errorf("render page %s: %w", page.ID, err)
		}
		result.Pages = append(result.Pages, rel)
	}

	observability.InfoContext(ctx, "Site rendered", slog.Int("pages", len(result.Pages)))
	return result, nil
}

func (r *Renderer) renderPage(projectPath, outDir string, cfg *config.Config, page manifest.Page) (string, error) {
	source, err := os.ReadFile(filepath.Join(projectPath, page.Source))
	if err != nil {
		return "", fmt.Errorf("read source: %w", err)
	}

	var body bytes.Buffer
	if err := r.md.Convert(source, &body); err != nil {
		return "", fmt.Errorf("convert markdown: %w", err)
	}

	rel := RouteToFile(page.Route)
	fullPath := filepath.Join(outDir, rel)
	if err := os.MkdirAll(filepath.Dir(fullPath), 0o750); err != nil {
		return "", fmt.Errorf("create output directory: %w", err)
	}

	doc := renderDocument(pageTitle(cfg, page), body.Bytes())
	if err := os.WriteFile(fullPath, doc, 0o644); err != nil {
		return "", fmt.Errorf("write output: %w", err)
	}
	return rel, nil
}

// RouteToFile maps a route to its output file: directory-style URLs with an
// index.html per route.
func RouteToFile(route string) string {
	trimmed := strings.Trim(route, "/")
	if trimmed == "" {
		return "index.html"
	}
	return filepath.Join(filepath.FromSlash(trimmed), "index.html")
}

func pageTitle(cfg *config.Config, page manifest.Page) string {
	if cfg.Site.Name == "" {
		return page.Title
	}
	if page.Title == "" {
		return cfg.Site.Name
	}
	return page.Title + " | " + cfg.Site.Name
}

func renderDocument(title string, body []byte) []byte {
	var b bytes.Buffer
	b.WriteString("<!doctype html>\n<html lang=\"en\">\n<head>\n<meta charset=\"utf-8\">\n")
	b.WriteString("<meta name=\"viewport\" content=\"width=device-width, initial-scale=1\">\n")
	fmt.Fprintf(&b, "<title>%s</title>\n", html.EscapeString(title))
	b.WriteString("</head>\n<body>\n")
	b.Write(body)
	b.WriteString("</body>\n</html>\n")
	return b.Bytes()
}
