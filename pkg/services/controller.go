package services

import (
	"context"
	"fmt"
	"sync"

	"github.com/kerbaras/lucollection/pkg/bundle"
	"github.com/kerbaras/lucollection/pkg/data"
	"github.com/kerbaras/lucollection/pkg/integrations"
	"github.com/kerbaras/lucollection/pkg/sources"
	"github.com/rs/zerolog/log"
)

// Repository is what the controller needs from the local store.
type Repository interface {
	LoadSettings() (data.Settings, error)
	SaveSettings(settings data.Settings) error
	RecordImport(rec *data.ImportRecord) error
	ListImports(limit int) ([]*data.ImportRecord, error)
	LatestImports() (map[string]*data.ImportRecord, error)
	Close() error
}

// ControllerConfig wires a Controller.
type ControllerConfig struct {
	Host      sources.Host
	Locations []sources.Location // tried in order; at least one
	Manifest  *bundle.Manifest
	ExportDir string
	MaxSuffix int
}

// CollectionController owns the user's settings and runs every action the
// CLI and TUI expose.
type CollectionController struct {
	repo      Repository
	manifest  *bundle.Manifest
	loader    *AssetLoader
	importer  *Importer
	installer *Installer
	exporter  *Exporter

	mu       sync.Mutex
	settings data.Settings
}

func NewCollectionController(repo Repository, cfg ControllerConfig) (*CollectionController, error) {
	if len(cfg.Locations) == 0 {
		return nil, fmt.Errorf("at least one asset location is required")
	}
	if cfg.Manifest == nil {
		m, err := bundle.Load()
		if err != nil {
			return nil, err
		}
		cfg.Manifest = m
	}

	settings, err := repo.LoadSettings()
	if err != nil {
		return nil, err
	}

	loader := NewAssetLoader(cfg.Locations[0], cfg.Locations[1:]...)
	importer := NewImporter(cfg.Host, cfg.MaxSuffix)
	return &CollectionController{
		repo:      repo,
		manifest:  cfg.Manifest,
		loader:    loader,
		importer:  importer,
		installer: NewInstaller(loader, importer, repo),
		exporter:  NewExporter(loader, cfg.ExportDir),
		settings:  settings,
	}, nil
}

func (c *CollectionController) Manifest() *bundle.Manifest {
	return c.manifest
}

func (c *CollectionController) Loader() *AssetLoader {
	return c.loader
}

func (c *CollectionController) Exporter() *Exporter {
	return c.exporter
}

// Progress streams install progress for every batch and single import.
func (c *CollectionController) Progress() <-chan InstallProgress {
	return c.installer.Progress()
}

func (c *CollectionController) Settings() data.Settings {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.settings
}

// SetOverwrite changes one kind's overwrite flag and persists the settings.
func (c *CollectionController) SetOverwrite(kind data.Kind, overwrite bool) (data.Settings, error) {
	c.mu.Lock()
	defer c.mu.Unlock()

	next := c.settings.WithOverwrite(kind, overwrite)
	if err := c.repo.SaveSettings(next); err != nil {
		return c.settings, err
	}
	c.settings = next
	log.Info().Str("kind", string(kind)).Bool("overwrite", overwrite).Msg("settings saved")
	return next, nil
}

// ToggleOverwrite flips one kind's overwrite flag.
func (c *CollectionController) ToggleOverwrite(kind data.Kind) (data.Settings, error) {
	return c.SetOverwrite(kind, !c.Settings().Overwrite(kind))
}

// Entry looks a manifest entry up by name or file name.
func (c *CollectionController) Entry(name string) (data.ManifestEntry, error) {
	entry, ok := c.manifest.Find(name)
	if ok {
		return entry, nil
	}
	if matches := c.manifest.Search(name); len(matches) > 0 {
		return data.ManifestEntry{}, fmt.Errorf("%w: %q (did you mean %q?)", ErrUnknownEntry, name, matches[0].Name)
	}
	return data.ManifestEntry{}, fmt.Errorf("%w: %q", ErrUnknownEntry, name)
}

// Search ranks entries by fuzzy match against query.
func (c *CollectionController) Search(query string) []data.ManifestEntry {
	return c.manifest.Search(query)
}

// Entries returns the entries of kind, or every entry when kind is empty.
func (c *CollectionController) Entries(kind data.Kind) []data.ManifestEntry {
	if kind == "" {
		return c.manifest.All()
	}
	return c.manifest.Entries(kind)
}

// Import loads and imports one entry with the current settings.
func (c *CollectionController) Import(ctx context.Context, entry data.ManifestEntry) (data.ImportResult, error) {
	return c.installer.InstallEntry(ctx, entry, c.Settings().Overwrite(entry.Kind))
}

// InstallAll imports every entry of kind (every entry when kind is empty).
func (c *CollectionController) InstallAll(ctx context.Context, kind data.Kind) (*Tally, error) {
	return c.installer.Install(ctx, c.Entries(kind), c.Settings())
}

// Export writes every entry of kind to dir, or the configured export directory.
func (c *CollectionController) Export(ctx context.Context, kind data.Kind, dir string) ([]string, error) {
	return c.exporter.Export(ctx, c.Entries(kind), dir)
}

// Load fetches and parses an entry without importing it.
func (c *CollectionController) Load(ctx context.Context, entry data.ManifestEntry) (*Asset, error) {
	return c.loader.Load(ctx, entry)
}

// Preview returns the entry's preview image, or nil when it has none.
func (c *CollectionController) Preview(ctx context.Context, entry data.ManifestEntry) ([]byte, error) {
	return c.loader.LoadPreview(ctx, entry)
}

// CatalogItems loads everything needed to describe the collection. Entries
// that fail to load are listed without card or image.
func (c *CollectionController) CatalogItems(ctx context.Context) []integrations.CatalogItem {
	var items []integrations.CatalogItem
	for _, entry := range c.manifest.All() {
		item := integrations.CatalogItem{Entry: entry}
		if asset, err := c.loader.Load(ctx, entry); err == nil {
			item.Card = asset.Card
		} else {
			log.Warn().Err(err).Str("entry", entry.Name).Msg("catalog entry without metadata")
		}
		if img, err := c.loader.LoadPreview(ctx, entry); err == nil {
			item.Image = img
		}
		items = append(items, item)
	}
	return items
}

func (c *CollectionController) History(limit int) ([]*data.ImportRecord, error) {
	return c.repo.ListImports(limit)
}

// LatestImports returns the newest import per entry, keyed by data.ImportKey.
func (c *CollectionController) LatestImports() (map[string]*data.ImportRecord, error) {
	return c.repo.LatestImports()
}

func (c *CollectionController) Close() error {
	c.installer.Close()
	return c.repo.Close()
}
