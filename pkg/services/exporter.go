package services

import (
	"context"
	"errors"
	"fmt"
	"os"
	"path/filepath"

	"github.com/kerbaras/lucollection/pkg/data"
	"github.com/kerbaras/lucollection/pkg/integrations"
	"github.com/rs/zerolog/log"
)

// Exporter writes bundled files to disk for manual installation.
type Exporter struct {
	loader *AssetLoader
	dir    string
}

func NewExporter(loader *AssetLoader, dir string) *Exporter {
	return &Exporter{loader: loader, dir: dir}
}

func (e *Exporter) Dir() string {
	return e.dir
}

// ExportPath is where an entry is written: "<entry name>.<ext>" under dir.
func (e *Exporter) ExportPath(dir string, entry data.ManifestEntry) string {
	if dir == "" {
		dir = e.dir
	}
	return filepath.Join(dir, integrations.SanitizeFilename(entry.Name)+"."+entry.Ext())
}

// Export writes every entry to dir, or to the exporter's directory when dir
// is empty. Entries that fail are skipped and reported in the joined error.
func (e *Exporter) Export(ctx context.Context, entries []data.ManifestEntry, dir string) ([]string, error) {
	if dir == "" {
		dir = e.dir
	}
	if err := os.MkdirAll(dir, 0755); err != nil {
		return nil, fmt.Errorf("failed to create export directory: %w", err)
	}

	var (
		written []string
		errs    []error
	)
	for _, entry := range entries {
		if err := ctx.Err(); err != nil {
			return written, err
		}
		raw, _, err := e.loader.Fetch(ctx, entry.File)
		if err != nil {
			errs = append(errs, fmt.Errorf("%s: %w", entry.Name, err))
			continue
		}
		path := e.ExportPath(dir, entry)
		if err := os.WriteFile(path, raw, 0644); err != nil {
			errs = append(errs, fmt.Errorf("%s: %w", entry.Name, err))
			continue
		}
		log.Debug().Str("entry", entry.Name).Str("path", path).Msg("asset exported")
		written = append(written, path)
	}
	return written, errors.Join(errs...)
}
