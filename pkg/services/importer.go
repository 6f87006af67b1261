package services

import (
	"context"
	"fmt"
	"maps"
	"regexp"

	"github.com/kerbaras/lucollection/pkg/data"
	"github.com/kerbaras/lucollection/pkg/sources"
	"github.com/rs/zerolog/log"
)

var cardExtension = regexp.MustCompile(`(?i)\.(png|json|ya?ml|charx)$`)

// Importer uploads loaded assets to the host.
type Importer struct {
	host      sources.Host
	maxSuffix int
}

func NewImporter(host sources.Host, maxSuffix int) *Importer {
	return &Importer{host: host, maxSuffix: maxSuffix}
}

// Import dispatches on the asset's kind.
func (im *Importer) Import(ctx context.Context, asset *Asset, overwrite bool) (data.ImportResult, error) {
	if asset.Entry.Kind == data.KindTheme {
		return im.ImportTheme(ctx, asset, overwrite)
	}
	return im.ImportCharacter(ctx, asset, overwrite)
}

// ImportTheme saves the theme under its own name, or under the first free
// suffixed name unless overwrite is set.
func (im *Importer) ImportTheme(ctx context.Context, asset *Asset, overwrite bool) (data.ImportResult, error) {
	base := asset.ThemeName()
	if base == "" {
		return data.ImportResult{}, fmt.Errorf("%w: %q has no name", ErrInvalidTheme, asset.Entry.Name)
	}

	index := NewThemeIndex(im.host)
	name, err := ResolveName(ctx, base, overwrite, index.Exists, im.maxSuffix)
	if err != nil {
		return data.ImportResult{BaseName: base, FinalName: base}, err
	}

	theme := maps.Clone(asset.Fields)
	theme["name"] = name
	if err := im.host.SaveTheme(ctx, theme); err != nil {
		return data.ImportResult{BaseName: base, FinalName: name}, err
	}

	log.Info().Str("entry", asset.Entry.Name).Str("final_name", name).Bool("overwrite", overwrite).Msg("theme imported")
	return data.ImportResult{Success: true, BaseName: base, FinalName: name, WasRenamed: name != base}, nil
}

// ImportCharacter uploads the card file as is. With overwrite set the host is
// asked to keep the file name so an existing card with that name is replaced.
func (im *Importer) ImportCharacter(ctx context.Context, asset *Asset, overwrite bool) (data.ImportResult, error) {
	upload := sources.CharacterUpload{
		FileName:    asset.Entry.FileName(),
		FileType:    string(asset.Entry.Type),
		ContentType: contentType(asset.Entry.Type),
		Content:     asset.Raw,
	}
	if overwrite {
		upload.PreservedName = PreservedName(upload.FileName)
	}

	name := asset.Entry.Name
	if _, err := im.host.ImportCharacter(ctx, upload); err != nil {
		return data.ImportResult{BaseName: name, FinalName: name}, err
	}

	log.Info().Str("entry", name).Str("file", upload.FileName).Bool("overwrite", overwrite).Msg("character imported")
	return data.ImportResult{Success: true, BaseName: name, FinalName: name}, nil
}

// PreservedName strips a card file extension, case-insensitively.
func PreservedName(fileName string) string {
	return cardExtension.ReplaceAllString(fileName, "")
}

func contentType(t data.AssetType) string {
	if t == data.AssetJSON {
		return "application/json"
	}
	return "image/png"
}
