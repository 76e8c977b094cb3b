package validate

import (
	"errors"
	"io/fs"
	"regexp"

	"git.home.luguber.info/inful/sitebuilder/internal/config"
)

// placeholderPattern matches unresolved scaffolding tokens like {{BUSINESS_NAME}}.
var placeholderPattern = regexp.MustCompile(`\{\{[A-Z][A-Z0-9_]*\}\}`)

// SiteConfigValidator scans the site configuration for unresolved placeholder
// tokens left over from scaffolding.
type SiteConfigValidator struct{}

func (v *SiteConfigValidator) Name() string { return "site-config" }

func (v *SiteConfigValidator) Validate(projectPath string) Result {
	var r Result

	raw, err := config.ReadRaw(projectPath)
	if err != nil {
		if errors.Is(err, fs.ErrNotExist) {
			r.addf(config.FileName, "configuration file missing")
		} else {
			r.addf(config.FileName, "unreadable: %v", err)
		}
		return r
	}

	seen := make(map[string]bool)
	for _, token := range placeholderPattern.FindAllString(string(raw), -1) {
		if seen[token] {
			continue
		}
		seen[token] = true
		r.addf(config.FileName, "unresolved placeholder %s", token)
	}

	return r
}
