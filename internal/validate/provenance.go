package validate

import "git.home.luguber.info/inful/sitebuilder/internal/manifest"

// ProvenanceValidator confirms the generation manifest records the required
// model and prompt source. A mismatch means the imagery was produced outside
// the sanctioned generation flow.
type ProvenanceValidator struct{}

func (v *ProvenanceValidator) Name() string { return "provenance" }

func (v *ProvenanceValidator) Validate(projectPath string) Result {
	var r Result

	g, err := manifest.LoadGenerationManifest(projectPath)
	if err != nil {
		r.addf(manifest.GenerationManifestPath, "%v", err)
		return r
	}

	if g.Model != manifest.RequiredModel {
		r.addf(manifest.GenerationManifestPath,
			"model %q does not match required %q", g.Model, manifest.RequiredModel)
	}
	if g.PromptSource != manifest.RequiredPromptSource {
		r.addf(manifest.GenerationManifestPath,
			"promptSource %q does not match required %q", g.PromptSource, manifest.RequiredPromptSource)
	}

	return r
}
