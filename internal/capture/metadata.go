package capture

import (
	"strings"

	"golang.org/x/net/html"
)

// Metadata is the page-level context extracted from a captured competitor
// site, recorded alongside the screenshot for the design phases.
type Metadata struct {
	Title       string            `json:"title,omitempty"`
	Description string            `json:"description,omitempty"`
	Headings    []string          `json:"headings,omitempty"`
	OpenGraph   map[string]string `json:"open_graph,omitempty"`
}

// ExtractMetadata parses an HTML document and pulls out the title, the meta
// description and the top-level headings.
func ExtractMetadata(htmlContent string) (Metadata, error) {
	doc, err := html.Parse(strings.NewReader(htmlContent))
	if err != nil {
		return Metadata{}, err
	}

	var meta Metadata
	var walk func(n *html.Node)
	walk = func(n *html.Node) {
		if n.Type == html.ElementNode {
			switch n.Data {
			case "title":
				if meta.Title == "" {
					meta.Title = strings.TrimSpace(textContent(n))
				}
			case "meta":
				if strings.EqualFold(getAttr(n, "name"), "description") {
					meta.Description = strings.TrimSpace(getAttr(n, "content"))
				}
				if prop := getAttr(n, "property"); strings.HasPrefix(prop, "og:") {
					if meta.OpenGraph == nil {
						meta.OpenGraph = make(map[string]string)
					}
					meta.OpenGraph[prop] = strings.TrimSpace(getAttr(n, "content"))
				}
			case "h1", "h2":
				if text := strings.TrimSpace(textContent(n)); text != "" {
					meta.Headings = append(meta.Headings, text)
				}
			}
		}
		for c := n.FirstChild; c != nil; c = c.NextSibling {
			walk(c)
		}
	}
	walk(doc)
	return meta, nil
}

func textContent(n *html.Node) string {
	var b strings.Builder
	var walk func(n *html.Node)
	walk = func(n *html.Node) {
		if n.Type == html.TextNode {
			b.WriteString(n.Data)
		}
		for c := n.FirstChild; c != nil; c = c.NextSibling {
			walk(c)
		}
	}
	walk(n)
	return b.String()
}

func getAttr(n *html.Node, key string) string {
	for _, attr := range n.Attr {
		if attr.Key == key {
			return attr.Val
		}
	}
	return ""
}
