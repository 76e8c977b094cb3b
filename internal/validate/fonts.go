package validate

import (
	"os"
	"path/filepath"

	"git.home.luguber.info/inful/sitebuilder/internal/config"
)

// FontValidator confirms every font file referenced by the site configuration
// exists on disk.
type FontValidator struct {
	Fonts []config.FontRef
}

func (v *FontValidator) Name() string { return "fonts" }

func (v *FontValidator) Validate(projectPath string) Result {
	var r Result

	for _, font := range v.Fonts {
		if font.File == "" {
			r.addf(config.FileName, "font %q has no file", font.Name)
			continue
		}
		if _, err := os.Stat(filepath.Join(projectPath, font.File)); err != nil {
			r.addf(font.File, "font file for %q missing", font.Name)
		}
	}

	return r
}
