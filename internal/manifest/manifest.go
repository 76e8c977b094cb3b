// Package manifest defines the typed build-input artifacts a project carries:
// the image manifest, the page registry, and the generated-image manifest.
//
// All artifacts are externally authored JSON. Loaders validate field presence
// and reject unknown-shaped input with a named error kind instead of silently
// proceeding on a duck-typed blob.
package manifest

import (
	"encoding/json"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"time"
)

// Named error kinds for artifact loading, distinguishable with errors.Is.
var (
	// ErrMissing indicates the artifact file does not exist.
	ErrMissing = errors.New("manifest missing")
	// ErrMalformed indicates the artifact exists but is not valid JSON or does
	// not match the expected schema.
	ErrMalformed = errors.New("manifest malformed")
)

// Artifact locations relative to the project root.
const (
	ImageManifestPath      = "assets/images/manifest.json"
	PageRegistryPath       = "pages/registry.json"
	GenerationManifestPath = "assets/images/generation.json"
	ContextDocsDir         = "context"
)

// Required provenance constants for generated imagery. The prebuild pipeline
// refuses assets produced by anything else.
const (
	RequiredModel        = "gpt-image-1"
	RequiredPromptSource = "prompts/image-briefs.json"
)

// ImageEntry is a single image placement in the image manifest.
type ImageEntry struct {
	File string `json:"file"`
	Alt  string `json:"alt,omitempty"`
}

// ImageManifest maps placement slots to the images that fill them.
type ImageManifest struct {
	Slots         map[string][]ImageEntry `json:"slots"`
	RequiredSlots []string                `json:"required_slots"`
}

// Page is a single page in the page registry.
type Page struct {
	ID     string `json:"id"`
	Title  string `json:"title"`
	Route  string `json:"route"`
	Source string `json:"source"` // markdown source relative to the project root
}

// PageRegistry enumerates the site's pages.
type PageRegistry struct {
	Pages []Page `json:"pages"`
}

// GeneratedImage records provenance for one generated asset.
type GeneratedImage struct {
	File        string    `json:"file"`
	Prompt      string    `json:"prompt,omitempty"`
	GeneratedAt time.Time `json:"generated_at,omitempty"`
}

// GenerationManifest records how the project's imagery was produced.
type GenerationManifest struct {
	Model        string           `json:"model"`
	PromptSource string           `json:"promptSource"`
	Images       []GeneratedImage `json:"images,omitempty"`
}

// LoadImageManifest reads and validates the image manifest for a project.
func LoadImageManifest(projectPath string) (*ImageManifest, error) {
	var m ImageManifest
	if err := loadArtifact(projectPath, ImageManifestPath, &m); err != nil {
		return nil, err
	}
	if m.Slots == nil {
		return nil, fmt.Errorf("%w: %s: missing required key slots", ErrMalformed, ImageManifestPath)
	}
	if m.RequiredSlots == nil {
		return nil, fmt.Errorf("%w: %s: missing required key required_slots", ErrMalformed, ImageManifestPath)
	}
	return &m, nil
}

// LoadPageRegistry reads and validates the page registry for a project.
func LoadPageRegistry(projectPath string) (*PageRegistry, error) {
	var r PageRegistry
	if err := loadArtifact(projectPath, PageRegistryPath, &r); err != nil {
		return nil, err
	}
	if r.Pages == nil {
		return nil, fmt.Errorf("%w: %s: missing required key pages", ErrMalformed, PageRegistryPath)
	}
	for i, p := range r.Pages {
		if p.ID == "" || p.Route == "" || p.Source == "" {
			return nil, fmt.Errorf("%w: %s: page %d missing id, route, or source", ErrMalformed, PageRegistryPath, i)
		}
	}
	return &r, nil
}

// LoadGenerationManifest reads and validates the generated-image manifest.
func LoadGenerationManifest(projectPath string) (*GenerationManifest, error) {
	var g GenerationManifest
	if err := loadArtifact(projectPath, GenerationManifestPath, &g); err != nil {
		return nil, err
	}
	if g.Model == "" {
		return nil, fmt.Errorf("%w: %s: missing required key model", ErrMalformed, GenerationManifestPath)
	}
	if g.PromptSource == "" {
		return nil, fmt.Errorf("%w: %s: missing required key promptSource", ErrMalformed, GenerationManifestPath)
	}
	return &g, nil
}

// loadArtifact reads a JSON artifact into dst, mapping I/O and decode failures
// onto the named error kinds.
func loadArtifact(projectPath, relPath string, dst any) error {
	fullPath := filepath.Join(projectPath, relPath)
	data, err := os.ReadFile(fullPath)
	if err != nil {
		if os.IsNotExist(err) {
			return fmt.Errorf("%w: %s", ErrMissing, relPath)
		}
		return fmt.Errorf("read %s: %w", relPath, err)
	}
	if err := json.Unmarshal(data, dst); err != nil {
		return fmt.Errorf("%w: %s: %v", ErrMalformed, relPath, err)
	}
	return nil
}

// WriteJSON serializes an artifact with stable indentation.
func WriteJSON(projectPath, relPath string, artifact any) error {
	data, err := json.MarshalIndent(artifact, "", "  ")
	if err != nil {
		return fmt.Errorf("marshal %s: %w", relPath, err)
	}
	fullPath := filepath.Join(projectPath, relPath)
	if err := os.MkdirAll(filepath.Dir(fullPath), 0o755); err != nil {
		return fmt.Errorf("create directory for %s: %w", relPath, err)
	}
	if err := os.WriteFile(fullPath, append(data, '\n'), 0o644); err != nil {
		return fmt.Errorf("write %s: %w", relPath, err)
	}
	return nil
}
