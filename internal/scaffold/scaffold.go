// Package scaffold creates new site projects: the configuration skeleton with
// placeholder tokens, context documents, empty manifests, image placement
// folders and the initial build state.
//
// A freshly scaffolded project deliberately fails prebuild: every placeholder
// and empty manifest is a work item the build phases fill in.
package scaffold

import (
	"context"
	"fmt"
	"os"
	"path/filepath"

	"git.home.luguber.info/inful/sitebuilder/internal/buildstate"
	"git.home.luguber.info/inful/sitebuilder/internal/config"
	"git.home.luguber.info/inful/sitebuilder/internal/manifest"
	"git.home.luguber.info/inful/sitebuilder/internal/observability"
)

// Options controls project creation.
type Options struct {
	// Name is the site's display name; its slug becomes the project directory
	// when Dir is empty.
	Name string
	// Dir overrides the target directory.
	Dir string
	// Builder selects the site assembly strategy.
	Builder buildstate.BuilderType
	// Slots are the image slot names to prepare placement folders for.
	// Defaults to defaultSlots when empty.
	Slots []string
}

var defaultSlots = []string{"hero", "about", "services", "gallery"}

const siteConfigTemplate = `site:
  name: {{SITE_NAME}}
  tagline: {{SITE_TAGLINE}}
  domain: {{SITE_DOMAIN}}
  contact_email: {{CONTACT_EMAIL}}

fonts:
  - name: {{HEADING_FONT}}
    file: assets/fonts/{{HEADING_FONT_FILE}}
  - name: {{BODY_FONT}}
    file: assets/fonts/{{BODY_FONT_FILE}}

images:
  min_asset_bytes: %d
`

const briefTemplate = `# Brief: %s

Fill in during the brief phase:

- Business goals
- Target audience
- Key offerings
- Tone of voice
`

const starterHomeTemplate = `# %s

{{HERO_HEADLINE}}

{{HERO_SUBHEADLINE}}
`

const artDirectionTemplate = `# Art direction: %s

Fill in during the design phase:

- Color palette
- Typography direction
- Imagery style
`

// Create lays out a new project and returns its directory. The target
// directory must not already contain a project.
func Create(ctx context.Context, opts Options) (string, error) {
	if opts.Name == "" {
		return "", fmt.Errorf("site name is required")
	}
	slug := Slugify(opts.Name)
	if slug == "" {
		return "", fmt.Errorf("site name %q yields an empty slug", opts.Name)
	}

	dir := opts.Dir
	if dir == "" {
		dir = slug
	}
	if !opts.Builder.Valid() {
		opts.Builder = buildstate.BuilderTemplate
	}
	slots := opts.Slots
	if len(slots) == 0 {
		slots = defaultSlots
	}

	ctx = observability.WithProject(ctx, dir)
	if _, err := os.Stat(config.Path(dir)); err == nil {
		return "", fmt.Errorf("project already exists at %s", dir)
	}
	if err := os.MkdirAll(dir, 0o750); err != nil {
		return "", fmt.Errorf("create project directory: %w", err)
	}

	siteYAML := fmt.Appendf(nil, siteConfigTemplate, config.DefaultMinAssetBytes)
	if _, err := writeProjectFile(dir, config.FileName, siteYAML); err != nil {
		return "", err
	}
	contextDocs := map[string][]byte{
		"brief.md":         fmt.Appendf(nil, briefTemplate, opts.Name),
		"art-direction.md": fmt.Appendf(nil, artDirectionTemplate, opts.Name),
	}
	for name, content := range contextDocs {
		if _, err := writeProjectFile(dir, filepath.Join(manifest.ContextDocsDir, name), content); err != nil {
			return "", err
		}
	}

	starterHome := fmt.Appendf(nil, starterHomeTemplate, opts.Name)
	if _, err := writeProjectFile(dir, "pages/home.md", starterHome); err != nil {
		return "", err
	}

	if err := writeInitialManifests(dir, slots); err != nil {
		return "", err
	}

	for _, slot := range slots {
		slotDir := filepath.Join(dir, "assets", "images", slot)
		if err := os.MkdirAll(slotDir, 0o750); err != nil {
			return "", fmt.Errorf("create slot folder %s: %w", slot, err)
		}
	}
	if err := os.MkdirAll(filepath.Join(dir, "assets", "fonts"), 0o750); err != nil {
		return "", fmt.Errorf("create fonts folder: %w", err)
	}
	if err := os.MkdirAll(filepath.Join(dir, "pages"), 0o750); err != nil {
		return "", fmt.Errorf("create pages folder: %w", err)
	}

	bs := buildstate.New(opts.Builder)
	if err := buildstate.Save(dir, bs); err != nil {
		return "", fmt.Errorf("write initial build state: %w", err)
	}

	observability.InfoContext(ctx, "Project scaffolded")
	return dir, nil
}

func writeInitialManifests(dir string, slots []string) error {
	im := &manifest.ImageManifest{
		Slots:         make(map[string][]manifest.ImageEntry, len(slots)),
		RequiredSlots: slots,
	}
	for _, slot := range slots {
		im.Slots[slot] = []manifest.ImageEntry{}
	}
	if err := manifest.WriteJSON(dir, manifest.ImageManifestPath, im); err != nil {
		return fmt.Errorf("write image manifest: %w", err)
	}

	registry := &manifest.PageRegistry{Pages: []manifest.Page{
		{ID: "home", Title: "Home", Route: "/", Source: "pages/home.md"},
	}}
	if err := manifest.WriteJSON(dir, manifest.PageRegistryPath, registry); err != nil {
		return fmt.Errorf("write page registry: %w", err)
	}
	return nil
}
