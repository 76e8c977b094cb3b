package capture

import (
	"context"
	"testing"

	"github.com/stretchr/testify/require"

	"git.home.luguber.info/inful/sitebuilder/internal/config"
)

func TestExtractMetadata(t *testing.T) {
	doc := `<!doctype html>
<html>
<head>
  <title>Acme Plumbing — Reliable Repairs</title>
  <meta name="description" content="24/7 emergency plumbing.">
  <meta property="og:title" content="Acme Plumbing">
  <meta property="og:image" content="https://example.com/hero.jpg">
</head>
<body>
  <h1>Welcome to Acme</h1>
  <h2>Our Services</h2>
  <h3>Not a top-level heading</h3>
</body>
</html>`

	meta, err := ExtractMetadata(doc)
	require.NoError(t, err)
	require.Equal(t, "Acme Plumbing — Reliable Repairs", meta.Title)
	require.Equal(t, "24/7 emergency plumbing.", meta.Description)
	require.Equal(t, []string{"Welcome to Acme", "Our Services"}, meta.Headings)
	require.Equal(t, map[string]string{
		"og:title": "Acme Plumbing",
		"og:image": "https://example.com/hero.jpg",
	}, meta.OpenGraph)
}

func TestExtractMetadata_EmptyDocument(t *testing.T) {
	meta, err := ExtractMetadata("")
	require.NoError(t, err)
	require.Empty(t, meta.Title)
	require.Empty(t, meta.Description)
	require.Empty(t, meta.Headings)
}

func TestFileStem(t *testing.T) {
	cases := map[string]string{
		"https://www.example.com":       "www.example.com",
		"https://example.com/pricing/":  "example.com-pricing",
		"https://example.com/a/b?utm=1": "example.com-a-b",
		"not a url":                     "not-a-url",
	}
	for in, want := range cases {
		require.Equal(t, want, FileStem(in), "input %q", in)
	}
}

func TestCapture_RequiresConnect(t *testing.T) {
	c := NewCapturer(config.CaptureConfig{}, nil)
	_, _, err := c.Capture(context.Background(), "https://example.com")
	require.ErrorContains(t, err, "not connected")
}
