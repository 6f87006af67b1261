package screens

import (
	"context"
	"time"

	"github.com/kerbaras/lucollection/pkg/data"
	"github.com/kerbaras/lucollection/pkg/services"
)

// Collection is what the screens need from the controller.
type Collection interface {
	Settings() data.Settings
	ToggleOverwrite(kind data.Kind) (data.Settings, error)
	Entries(kind data.Kind) []data.ManifestEntry
	Import(ctx context.Context, entry data.ManifestEntry) (data.ImportResult, error)
	InstallAll(ctx context.Context, kind data.Kind) (*services.Tally, error)
	Export(ctx context.Context, kind data.Kind, dir string) ([]string, error)
	Load(ctx context.Context, entry data.ManifestEntry) (*services.Asset, error)
	Preview(ctx context.Context, entry data.ManifestEntry) ([]byte, error)
	LatestImports() (map[string]*data.ImportRecord, error)
	Progress() <-chan services.InstallProgress
}

// SwitchScreenMsg asks the root screen to show another screen.
type SwitchScreenMsg struct {
	Screen string
	Data   interface{}
}

// ToastMsg asks the root screen to show a notification.
type ToastMsg struct {
	Level string
	Text  string
	// TTL <= 0 keeps the toast until dismissed.
	TTL time.Duration
}

// ImportedMsg reports a finished import so every screen can refresh its status.
type ImportedMsg struct {
	Entry  data.ManifestEntry
	Result data.ImportResult
	Err    error
}

type progressMsg services.InstallProgress

type batchDoneMsg struct {
	kind  data.Kind
	tally *services.Tally
	err   error
}

type exportDoneMsg struct {
	kind  data.Kind
	paths []string
	err   error
}

type settingsChangedMsg struct {
	kind     data.Kind
	settings data.Settings
	err      error
}

type latestLoadedMsg struct {
	latest map[string]*data.ImportRecord
	err    error
}

type toastTickMsg time.Time
