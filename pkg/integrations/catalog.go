package integrations

import (
	"fmt"
	"html"
	"os"
	"path/filepath"
	"strings"

	"github.com/go-shiori/go-epub"
	"github.com/kerbaras/lucollection/pkg/data"
	"github.com/samber/lo"
)

// CatalogBuilder compiles the collection into an EPUB with one section per kind.
type CatalogBuilder struct {
	Title  string
	Author string
}

func NewCatalogBuilder(title string) *CatalogBuilder {
	return &CatalogBuilder{Title: title, Author: "lu-collection"}
}

// Build writes the catalog to outPath and returns it.
func (b *CatalogBuilder) Build(items []CatalogItem, outPath string) (string, error) {
	if len(items) == 0 {
		return "", fmt.Errorf("no entries to catalog")
	}

	workDir, err := os.MkdirTemp("", "lucollection-catalog-*")
	if err != nil {
		return "", fmt.Errorf("failed to create work directory: %w", err)
	}
	defer os.RemoveAll(workDir)

	e, err := epub.NewEpub(b.Title)
	if err != nil {
		return "", fmt.Errorf("failed to create EPub: %w", err)
	}
	e.SetAuthor(b.Author)
	e.SetDescription(fmt.Sprintf("%d bundled assets", len(items)))
	e.SetLang("zh")

	groups := lo.GroupBy(items, func(i CatalogItem) data.Kind { return i.Entry.Kind })
	for _, kind := range []data.Kind{data.KindCharacter, data.KindTheme} {
		group := groups[kind]
		if len(group) == 0 {
			continue
		}
		if err := b.addSection(e, workDir, sectionTitle(kind), group); err != nil {
			return "", err
		}
	}

	if err := os.MkdirAll(filepath.Dir(outPath), 0755); err != nil {
		return "", fmt.Errorf("failed to create output directory: %w", err)
	}
	if err := e.Write(outPath); err != nil {
		return "", fmt.Errorf("failed to write EPub: %w", err)
	}
	return outPath, nil
}

func (b *CatalogBuilder) addSection(e *epub.Epub, workDir, title string, items []CatalogItem) error {
	var body strings.Builder
	fmt.Fprintf(&body, "<h1>%s</h1>\n", html.EscapeString(title))

	for i, item := range items {
		fmt.Fprintf(&body, "<h2>%s</h2>\n", html.EscapeString(item.Entry.Name))
		if len(item.Image) > 0 {
			src, err := addImage(e, workDir, fmt.Sprintf("%s-%d.png", item.Entry.Kind, i), item.Image)
			if err != nil {
				return fmt.Errorf("failed to add image for %q: %w", item.Entry.Name, err)
			}
			fmt.Fprintf(&body, `<div class="image"><img src="%s" alt="%s" style="max-width:50%%;height:auto;"/></div>%s`,
				src, html.EscapeString(item.Entry.Name), "\n")
		}
		if desc := item.Describe(); desc != "" {
			fmt.Fprintf(&body, "<p>%s</p>\n", html.EscapeString(desc))
		}
		if item.Card != nil && item.Card.Creator != "" {
			fmt.Fprintf(&body, "<p><small>by %s</small></p>\n", html.EscapeString(item.Card.Creator))
		}
		fmt.Fprintf(&body, "<p><code>%s</code></p>\n", html.EscapeString(item.Entry.File))
	}

	if _, err := e.AddSection(body.String(), title, "", ""); err != nil {
		return fmt.Errorf("failed to add section: %w", err)
	}
	return nil
}

func addImage(e *epub.Epub, workDir, name string, content []byte) (string, error) {
	path := filepath.Join(workDir, name)
	if err := os.WriteFile(path, content, 0644); err != nil {
		return "", err
	}
	return e.AddImage(path, name)
}

func sectionTitle(kind data.Kind) string {
	if kind == data.KindTheme {
		return "Themes"
	}
	return "Characters"
}

// SanitizeFilename replaces characters that are invalid in file names.
func SanitizeFilename(name string) string {
	invalid := []string{"/", "\\", ":", "*", "?", "\"", "<", ">", "|"}
	result := name
	for _, char := range invalid {
		result = strings.ReplaceAll(result, char, "_")
	}
	result = strings.TrimSpace(result)
	result = strings.Trim(result, ".")
	return result
}
