package services

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"

	"github.com/kerbaras/lucollection/pkg/data"
	"github.com/kerbaras/lucollection/pkg/integrations"
	"github.com/kerbaras/lucollection/pkg/sources"
	"github.com/rs/zerolog/log"
)

// Asset is a loaded manifest entry ready for import.
type Asset struct {
	Entry data.ManifestEntry
	// Raw holds the file as fetched. PNG cards are uploaded from it unchanged.
	Raw []byte
	// Fields holds the decoded document of JSON assets.
	Fields map[string]any
	// Card is the card's embedded metadata; nil for themes and cards without any.
	Card *integrations.Card
	// Location names where the file was served from.
	Location string
}

// ThemeName is the "name" field of a theme document.
func (a *Asset) ThemeName() string {
	name, _ := a.Fields["name"].(string)
	return name
}

// AssetLoader fetches bundled files from a primary location, falling back to
// the next location on any failure. Each location is tried once.
type AssetLoader struct {
	locations []sources.Location
}

// NewAssetLoader builds a loader over primary followed by the fallbacks.
// Nil fallbacks are skipped.
func NewAssetLoader(primary sources.Location, fallbacks ...sources.Location) *AssetLoader {
	l := &AssetLoader{locations: []sources.Location{primary}}
	for _, loc := range fallbacks {
		if loc != nil {
			l.locations = append(l.locations, loc)
		}
	}
	return l
}

// Locations names the locations in the order they are tried.
func (l *AssetLoader) Locations() []string {
	names := make([]string, len(l.locations))
	for i, loc := range l.locations {
		names[i] = loc.Name()
	}
	return names
}

// Fetch returns the raw file and the name of the location that served it.
func (l *AssetLoader) Fetch(ctx context.Context, file string) ([]byte, string, error) {
	var lastErr error
	for _, loc := range l.locations {
		content, err := loc.Fetch(ctx, file)
		if err == nil {
			return content, loc.Name(), nil
		}
		if errors.Is(err, context.Canceled) {
			return nil, "", err
		}
		log.Debug().Err(err).Str("path", file).Str("location", loc.Name()).Msg("location failed")
		lastErr = err
	}
	return nil, "", fmt.Errorf("%w: %s: %v", ErrAssetUnavailable, file, lastErr)
}

// Load fetches an entry and parses it according to its kind and type.
func (l *AssetLoader) Load(ctx context.Context, entry data.ManifestEntry) (*Asset, error) {
	raw, location, err := l.Fetch(ctx, entry.File)
	if err != nil {
		return nil, err
	}

	asset := &Asset{Entry: entry, Raw: raw, Location: location}
	switch {
	case entry.Kind == data.KindTheme:
		if err := json.Unmarshal(raw, &asset.Fields); err != nil || asset.Fields == nil {
			return nil, fmt.Errorf("%w: %q is not a JSON object", ErrInvalidTheme, entry.Name)
		}
		if asset.ThemeName() == "" {
			return nil, fmt.Errorf("%w: %q has no name", ErrInvalidTheme, entry.Name)
		}

	case entry.Type == data.AssetJSON:
		if err := json.Unmarshal(raw, &asset.Fields); err != nil || asset.Fields == nil {
			return nil, fmt.Errorf("%w: %q is not a JSON object", ErrInvalidCard, entry.Name)
		}
		asset.Card, _ = integrations.ParseCard(raw)

	default:
		if !integrations.IsPNG(raw) {
			return nil, fmt.Errorf("%w: %q is not a PNG file", ErrInvalidCard, entry.Name)
		}
		card, err := integrations.ReadPNGCard(raw)
		if err != nil {
			log.Debug().Err(err).Str("entry", entry.Name).Msg("card carries no readable metadata")
		}
		asset.Card = card
	}

	log.Debug().Str("entry", entry.Name).Str("location", location).Int("bytes", len(raw)).Msg("asset loaded")
	return asset, nil
}

// LoadPreview fetches the entry's preview image, or the avatar of PNG cards.
// It returns nil when the entry has none.
func (l *AssetLoader) LoadPreview(ctx context.Context, entry data.ManifestEntry) ([]byte, error) {
	file := entry.Preview
	if file == "" {
		if entry.Kind != data.KindCharacter || entry.Type != data.AssetPNG {
			return nil, nil
		}
		file = entry.File
	}
	raw, _, err := l.Fetch(ctx, file)
	return raw, err
}
