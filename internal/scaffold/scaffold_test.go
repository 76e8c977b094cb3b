package scaffold

import (
	"context"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/require"

	"git.home.luguber.info/inful/sitebuilder/internal/buildstate"
	"git.home.luguber.info/inful/sitebuilder/internal/manifest"
	"git.home.luguber.info/inful/sitebuilder/internal/validate"
)

func TestSlugify(t *testing.T) {
	cases := map[string]string{
		"Acme Plumbing":       "acme-plumbing",
		"CaféØlsen & Sons":   "cafe-lsen-sons",
		"  spaced   out  ":    "spaced-out",
		"Already-Slugged-123": "already-slugged-123",
		"!!!":                 "",
	}
	for in, want := range cases {
		require.Equal(t, want, Slugify(in), "input %q", in)
	}
}

func TestCreate_LaysOutProject(t *testing.T) {
	base := t.TempDir()
	dir, err := Create(context.Background(), Options{
		Name: "Acme Plumbing",
		Dir:  filepath.Join(base, "acme"),
	})
	require.NoError(t, err)

	// Configuration exists and still carries placeholders for later phases.
	result := (&validate.SiteConfigValidator{}).Validate(dir)
	require.False(t, result.Valid())

	// Initial state has no completed phases.
	bs, err := buildstate.Load(dir)
	require.NoError(t, err)
	require.Equal(t, buildstate.BuilderTemplate, bs.BuilderType)
	require.Empty(t, bs.CompletedPhases)

	// Manifests are well-formed even when empty.
	im, err := manifest.LoadImageManifest(dir)
	require.NoError(t, err)
	require.ElementsMatch(t, []string{"hero", "about", "services", "gallery"}, im.RequiredSlots)
	reg, err := manifest.LoadPageRegistry(dir)
	require.NoError(t, err)
	require.Len(t, reg.Pages, 1)
	require.Equal(t, "pages/home.md", reg.Pages[0].Source)

	for _, rel := range []string{
		"context/brief.md",
		"context/art-direction.md",
		"pages/home.md",
		"assets/images/hero",
		"assets/fonts",
		"pages",
	} {
		_, err := os.Stat(filepath.Join(dir, rel))
		require.NoError(t, err, rel)
	}
}

func TestCreate_DefaultsDirToSlug(t *testing.T) {
	base := t.TempDir()
	wd, err := os.Getwd()
	require.NoError(t, err)
	require.NoError(t, os.Chdir(base))
	t.Cleanup(func() { _ = os.Chdir(wd) })

	dir, err := Create(context.Background(), Options{Name: "Acme Plumbing"})
	require.NoError(t, err)
	require.Equal(t, "acme-plumbing", dir)
}

func TestCreate_RefusesExistingProject(t *testing.T) {
	base := t.TempDir()
	opts := Options{Name: "Acme", Dir: filepath.Join(base, "acme")}
	_, err := Create(context.Background(), opts)
	require.NoError(t, err)

	_, err = Create(context.Background(), opts)
	require.ErrorContains(t, err, "already exists")
}

func TestCreate_CustomSlots(t *testing.T) {
	base := t.TempDir()
	dir, err := Create(context.Background(), Options{
		Name:    "Acme",
		Dir:     filepath.Join(base, "acme"),
		Builder: buildstate.BuilderCustom,
		Slots:   []string{"banner"},
	})
	require.NoError(t, err)

	im, err := manifest.LoadImageManifest(dir)
	require.NoError(t, err)
	require.Equal(t, []string{"banner"}, im.RequiredSlots)

	bs, err := buildstate.Load(dir)
	require.NoError(t, err)
	require.Equal(t, buildstate.BuilderCustom, bs.BuilderType)
}

func TestCreate_RejectsUnsluggableName(t *testing.T) {
	_, err := Create(context.Background(), Options{Name: "!!!", Dir: t.TempDir()})
	require.ErrorContains(t, err, "empty slug")
}

func TestWriteProjectFile_RejectsTraversal(t *testing.T) {
	dir := t.TempDir()
	_, err := writeProjectFile(dir, "../escape.txt", []byte("x"))
	require.Error(t, err)

	_, err = writeProjectFile(dir, "/abs/path.txt", []byte("x"))
	require.Error(t, err)
}

func TestWriteProjectFile_NeverOverwrites(t *testing.T) {
	dir := t.TempDir()
	_, err := writeProjectFile(dir, "a/b.txt", []byte("first"))
	require.NoError(t, err)

	_, err = writeProjectFile(dir, "a/b.txt", []byte("second"))
	require.ErrorContains(t, err, "already exists")

	content, err := os.ReadFile(filepath.Join(dir, "a", "b.txt"))
	require.NoError(t, err)
	require.Equal(t, "first", string(content))
}
