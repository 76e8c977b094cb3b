package validate

import (
	"os"
	"path/filepath"

	"git.home.luguber.info/inful/sitebuilder/internal/manifest"
)

// PageRegistryValidator checks the page registry structure and that every
// referenced page source exists on disk.
type PageRegistryValidator struct{}

func (v *PageRegistryValidator) Name() string { return "page-registry" }

func (v *PageRegistryValidator) Validate(projectPath string) Result {
	var r Result

	reg, err := manifest.LoadPageRegistry(projectPath)
	if err != nil {
		r.addf(manifest.PageRegistryPath, "%v", err)
		return r
	}

	if len(reg.Pages) == 0 {
		r.addf(manifest.PageRegistryPath, "registry has no pages")
		return r
	}

	seen := make(map[string]bool)
	for _, p := range reg.Pages {
		if seen[p.ID] {
			r.addf(manifest.PageRegistryPath, "duplicate page id %q", p.ID)
		}
		seen[p.ID] = true

		if _, err := os.Stat(filepath.Join(projectPath, p.Source)); err != nil {
			r.addf(manifest.PageRegistryPath, "page %q references missing source %s", p.ID, p.Source)
		}
	}

	return r
}

// ContextDocsValidator confirms the project's context documents exist and are
// non-empty. These feed every downstream phase, so an empty brief means the
// rest of the pipeline is validating guesswork.
type ContextDocsValidator struct{}

// requiredContextDocs are the documents each project carries under context/.
var requiredContextDocs = []string{"brief.md", "art-direction.md"}

func (v *ContextDocsValidator) Name() string { return "context-docs" }

func (v *ContextDocsValidator) Validate(projectPath string) Result {
	var r Result

	for _, doc := range requiredContextDocs {
		rel := filepath.Join(manifest.ContextDocsDir, doc)
		info, err := os.Stat(filepath.Join(projectPath, rel))
		if err != nil {
			r.addf(rel, "context document missing")
			continue
		}
		if info.Size() == 0 {
			r.addf(rel, "context document is empty")
		}
	}

	return r
}
