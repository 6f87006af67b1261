// Package bundle holds the lu-collection assets compiled into the binary and
// the manifest that lists them.
package bundle

import (
	"embed"
	"errors"
	"fmt"
	"io/fs"
	"strings"

	"github.com/kerbaras/lucollection/pkg/data"
	"github.com/rs/zerolog/log"
	"github.com/sahilm/fuzzy"
	"github.com/samber/lo"
	"gopkg.in/yaml.v3"
)

// ExtensionName is the directory name the collection is installed under on the host.
const ExtensionName = "lu-collection"

//go:embed manifest.yaml
var manifestYAML []byte

//go:embed assets
var assets embed.FS

var ErrInvalidManifest = errors.New("invalid manifest")

// Manifest lists every bundled asset by kind.
type Manifest struct {
	Themes     []data.ManifestEntry `yaml:"themes"`
	Characters []data.ManifestEntry `yaml:"characters"`
}

// FS returns the embedded asset tree rooted like the extension directory.
func FS() fs.FS {
	sub, err := fs.Sub(assets, "assets")
	if err != nil {
		panic(err)
	}
	return sub
}

// Load parses the embedded manifest.
func Load() (*Manifest, error) {
	return Parse(manifestYAML)
}

// Parse decodes a manifest. Placeholder entries without a name or file are
// dropped; duplicate names are kept but logged.
func Parse(raw []byte) (*Manifest, error) {
	var m Manifest
	if err := yaml.Unmarshal(raw, &m); err != nil {
		return nil, fmt.Errorf("%w: %v", ErrInvalidManifest, err)
	}

	var err error
	if m.Themes, err = normalize(m.Themes, data.KindTheme); err != nil {
		return nil, err
	}
	if m.Characters, err = normalize(m.Characters, data.KindCharacter); err != nil {
		return nil, err
	}
	return &m, nil
}

func normalize(entries []data.ManifestEntry, kind data.Kind) ([]data.ManifestEntry, error) {
	out := make([]data.ManifestEntry, 0, len(entries))
	for _, e := range entries {
		if e.Name == "" || e.File == "" {
			log.Debug().Str("kind", string(kind)).Str("name", e.Name).Msg("skipping empty manifest entry")
			continue
		}
		if e.Type == "" {
			e.Type = data.AssetType(e.Ext())
		}
		if e.Type != data.AssetPNG && e.Type != data.AssetJSON {
			return nil, fmt.Errorf("%w: %q has unsupported type %q", ErrInvalidManifest, e.Name, e.Type)
		}
		if kind == data.KindTheme && e.Type != data.AssetJSON {
			return nil, fmt.Errorf("%w: theme %q must be json", ErrInvalidManifest, e.Name)
		}
		e.Kind = kind
		out = append(out, e)
	}

	dups := lo.FindDuplicatesBy(out, func(e data.ManifestEntry) string { return e.Name })
	for _, d := range dups {
		log.Warn().Str("kind", string(kind)).Str("name", d.Name).Msg("duplicate manifest entry name")
	}
	return out, nil
}

// Entries returns the entries of one kind in manifest order.
func (m *Manifest) Entries(kind data.Kind) []data.ManifestEntry {
	if kind == data.KindTheme {
		return m.Themes
	}
	return m.Characters
}

// All returns characters followed by themes.
func (m *Manifest) All() []data.ManifestEntry {
	return append(append([]data.ManifestEntry{}, m.Characters...), m.Themes...)
}

// Find looks an entry up by display name, then by file name.
func (m *Manifest) Find(name string) (data.ManifestEntry, bool) {
	all := m.All()
	if e, ok := lo.Find(all, func(e data.ManifestEntry) bool { return e.Name == name }); ok {
		return e, true
	}
	return lo.Find(all, func(e data.ManifestEntry) bool { return e.FileName() == name })
}

type entrySource []data.ManifestEntry

func (s entrySource) String(i int) string {
	return strings.ToLower(s[i].Name + " " + s[i].FileName())
}

func (s entrySource) Len() int {
	return len(s)
}

// Search ranks entries by fuzzy match of query against name and file name,
// best first.
func (m *Manifest) Search(query string) []data.ManifestEntry {
	if query == "" {
		return nil
	}
	source := entrySource(m.All())
	matches := fuzzy.FindFrom(strings.ToLower(query), source)
	out := make([]data.ManifestEntry, len(matches))
	for i, match := range matches {
		out[i] = source[match.Index]
	}
	return out
}
