package services

import (
	"context"
	"sync"

	"github.com/kerbaras/lucollection/pkg/data"
	"github.com/rs/zerolog/log"
)

// Install progress statuses.
const (
	StatusLoading   = "loading"
	StatusImporting = "importing"
	StatusDone      = "done"
	StatusFailed    = "failed"
)

// InstallProgress reports one step of a batch.
type InstallProgress struct {
	Entry  data.ManifestEntry
	Index  int // 1-based position in the batch
	Total  int
	Status string
	Result data.ImportResult
	Error  error
}

// Rename records a theme saved under a different name than its own.
type Rename struct {
	From string
	To   string
}

// Tally summarizes a batch.
type Tally struct {
	Total     int
	Loaded    int
	Succeeded int
	Failed    int
	Renamed   []Rename
}

// HistoryRecorder stores import attempts.
type HistoryRecorder interface {
	RecordImport(rec *data.ImportRecord) error
}

// Installer drives load, resolve and import over manifest entries, one entry
// at a time. Calls are serialized so collision checks never interleave.
type Installer struct {
	mu           sync.Mutex
	loader       *AssetLoader
	importer     *Importer
	history      HistoryRecorder
	progressChan chan InstallProgress
	closeOnce    sync.Once
}

// NewInstaller wires an installer. history may be nil.
func NewInstaller(loader *AssetLoader, importer *Importer, history HistoryRecorder) *Installer {
	return &Installer{
		loader:       loader,
		importer:     importer,
		history:      history,
		progressChan: make(chan InstallProgress, 100),
	}
}

// Progress returns the channel progress updates are sent on. Updates are
// dropped while the channel is full.
func (in *Installer) Progress() <-chan InstallProgress {
	return in.progressChan
}

// InstallEntry loads and imports a single entry.
func (in *Installer) InstallEntry(ctx context.Context, entry data.ManifestEntry, overwrite bool) (data.ImportResult, error) {
	in.mu.Lock()
	defer in.mu.Unlock()

	result, _, err := in.install(ctx, entry, overwrite, 1, 1)
	return result, err
}

// Install processes entries in order. A failing entry is counted and the
// batch moves on; only cancellation stops it early.
func (in *Installer) Install(ctx context.Context, entries []data.ManifestEntry, settings data.Settings) (*Tally, error) {
	in.mu.Lock()
	defer in.mu.Unlock()

	tally := &Tally{Total: len(entries)}

	for i, entry := range entries {
		if err := ctx.Err(); err != nil {
			return tally, err
		}

		result, loaded, err := in.install(ctx, entry, settings.Overwrite(entry.Kind), i+1, len(entries))
		if loaded {
			tally.Loaded++
		}
		if err != nil {
			tally.Failed++
			continue
		}
		tally.Succeeded++
		if result.WasRenamed {
			tally.Renamed = append(tally.Renamed, Rename{From: result.BaseName, To: result.FinalName})
		}
	}

	log.Info().
		Int("total", tally.Total).
		Int("succeeded", tally.Succeeded).
		Int("failed", tally.Failed).
		Int("renamed", len(tally.Renamed)).
		Msg("batch finished")
	return tally, nil
}

func (in *Installer) install(ctx context.Context, entry data.ManifestEntry, overwrite bool, index, total int) (data.ImportResult, bool, error) {
	progress := InstallProgress{Entry: entry, Index: index, Total: total, Status: StatusLoading}
	in.sendProgress(progress)

	asset, err := in.loader.Load(ctx, entry)
	if err != nil {
		in.fail(progress, data.ImportResult{}, err)
		return data.ImportResult{}, false, err
	}

	progress.Status = StatusImporting
	in.sendProgress(progress)

	result, err := in.importer.Import(ctx, asset, overwrite)
	if err != nil {
		in.fail(progress, result, err)
		return result, true, err
	}

	progress.Status = StatusDone
	progress.Result = result
	in.sendProgress(progress)
	in.record(entry, result, nil)
	return result, true, nil
}

func (in *Installer) fail(progress InstallProgress, result data.ImportResult, err error) {
	log.Warn().Err(err).Str("entry", progress.Entry.Name).Str("kind", string(progress.Entry.Kind)).Msg("import failed")
	progress.Status = StatusFailed
	progress.Result = result
	progress.Error = err
	in.sendProgress(progress)
	in.record(progress.Entry, result, err)
}

func (in *Installer) record(entry data.ManifestEntry, result data.ImportResult, err error) {
	if in.history == nil {
		return
	}
	rec := &data.ImportRecord{
		EntryName:  entry.Name,
		Kind:       entry.Kind,
		FinalName:  result.FinalName,
		Success:    err == nil,
		WasRenamed: result.WasRenamed,
	}
	if err != nil {
		rec.Error = err.Error()
	}
	if err := in.history.RecordImport(rec); err != nil {
		log.Warn().Err(err).Str("entry", entry.Name).Msg("failed to record import")
	}
}

// sendProgress sends a progress update (non-blocking)
func (in *Installer) sendProgress(progress InstallProgress) {
	select {
	case in.progressChan <- progress:
	default:
	}
}

// Close closes the progress channel.
func (in *Installer) Close() {
	in.closeOnce.Do(func() { close(in.progressChan) })
}
