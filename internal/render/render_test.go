package render

import (
	"context"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/require"
)

func writeFile(t *testing.T, dir, rel, content string) {
	t.Helper()
	full := filepath.Join(dir, rel)
	require.NoError(t, os.MkdirAll(filepath.Dir(full), 0o755))
	require.NoError(t, os.WriteFile(full, []byte(content), 0o644))
}

func renderableProject(t *testing.T) string {
	t.Helper()
	dir := t.TempDir()
	writeFile(t, dir, "site.yaml", "site:\n  name: Acme Plumbing\n")
	writeFile(t, dir, "pages/home.md", "# Welcome\n\nCall us **today**.\n")
	writeFile(t, dir, "pages/about.md", "# About\n")
	writeFile(t, dir, "pages/registry.json", `{
  "pages": [
    {"id": "home", "title": "Home", "route": "/", "source": "pages/home.md"},
    {"id": "about", "title": "About Us", "route": "/about", "source": "pages/about.md"}
  ]
}`)
	return dir
}

func TestRouteToFile(t *testing.T) {
	require.Equal(t, "index.html", RouteToFile("/"))
	require.Equal(t, "index.html", RouteToFile(""))
	require.Equal(t, filepath.Join("about", "index.html"), RouteToFile("/about"))
	require.Equal(t, filepath.Join("services", "drains", "index.html"), RouteToFile("/services/drains/"))
}

func TestBuild_RendersRegistryPages(t *testing.T) {
	dir := renderableProject(t)

	result, err := New().Build(context.Background(), dir, "")
	require.NoError(t, err)
	require.Equal(t, filepath.Join(dir, DefaultOutputDir), result.OutputDir)
	require.Len(t, result.Pages, 2)

	home, err := os.ReadFile(filepath.Join(result.OutputDir, "index.html"))
	require.NoError(t, err)
	require.Contains(t, string(home), "<title>Home | Acme Plumbing</title>")
	require.Contains(t, string(home), "<h1>Welcome</h1>")
	require.Contains(t, string(home), "<strong>today</strong>")

	about, err := os.ReadFile(filepath.Join(result.OutputDir, "about", "index.html"))
	require.NoError(t, err)
	require.Contains(t, string(about), "<title>About Us | Acme Plumbing</title>")
}

func TestBuild_MissingSourceFails(t *testing.T) {
	dir := renderableProject(t)
	require.NoError(t, os.Remove(filepath.Join(dir, "pages/about.md")))

	_, err := New().Build(context.Background(), dir, "")
	require.ErrorContains(t, err, "render page about")
}

func TestBuild_MissingRegistryFails(t *testing.T) {
	dir := renderableProject(t)
	require.NoError(t, os.Remove(filepath.Join(dir, "pages/registry.json")))

	_, err := New().Build(context.Background(), dir, "")
	require.Error(t, err)
}
