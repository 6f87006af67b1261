package services

import (
	"context"
	"sync"
	"testing"
	"time"

	"github.com/kerbaras/lucollection/pkg/data"
	"github.com/kerbaras/lucollection/pkg/sources"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newTestInstaller(host *mockHost, history HistoryRecorder) *Installer {
	loader := NewAssetLoader(sources.NewFSLocation("fs", testFS()))
	return NewInstaller(loader, NewImporter(host, DefaultMaxSuffix), history)
}

func drain(ch <-chan InstallProgress) []InstallProgress {
	var out []InstallProgress
	for {
		select {
		case p := <-ch:
			out = append(out, p)
		default:
			return out
		}
	}
}

func TestInstall_LoadFailuresDoNotHaltBatch(t *testing.T) {
	host := &mockHost{}
	history := &mockHistory{}
	installer := newTestInstaller(host, history)

	entries := []data.ManifestEntry{
		charEntry("A", "characters/a.png", data.AssetPNG),
		charEntry("Missing", "characters/missing.png", data.AssetPNG),
		charEntry("B", "characters/b.json", data.AssetJSON),
		charEntry("Broken", "characters/broken.png", data.AssetPNG),
	}

	tally, err := installer.Install(context.Background(), entries, data.DefaultSettings())

	require.NoError(t, err)
	assert.Equal(t, 4, tally.Total)
	assert.Equal(t, 2, tally.Loaded)
	assert.Equal(t, 2, tally.Succeeded)
	assert.Equal(t, 2, tally.Failed)
	assert.LessOrEqual(t, tally.Succeeded, tally.Total-2)
	assert.Len(t, host.uploads, 2)

	require.Len(t, history.records, 4)
	assert.True(t, history.records[0].Success)
	assert.False(t, history.records[1].Success)
	assert.Contains(t, history.records[1].Error, "asset unavailable")
}

func TestInstall_ImportFailureCounted(t *testing.T) {
	host := &mockHost{importCharacterFunc: func(context.Context, sources.CharacterUpload) (*sources.ImportResponse, error) {
		return nil, &sources.HostError{Op: "import character", Message: "rejected"}
	}}
	installer := newTestInstaller(host, nil)

	tally, err := installer.Install(context.Background(), []data.ManifestEntry{
		charEntry("A", "characters/a.png", data.AssetPNG),
	}, data.DefaultSettings())

	require.NoError(t, err)
	assert.Equal(t, 1, tally.Loaded)
	assert.Equal(t, 0, tally.Succeeded)
	assert.Equal(t, 1, tally.Failed)
}

func TestInstall_ThemesTrackRenames(t *testing.T) {
	themes := []string{"Dark"}
	host := &mockHost{
		listThemesFunc: func(context.Context) ([]string, error) { return themes, nil },
		saveThemeFunc: func(_ context.Context, theme map[string]any) error {
			themes = append(themes, theme["name"].(string))
			return nil
		},
	}
	installer := newTestInstaller(host, nil)
	entries := []data.ManifestEntry{
		themeEntry("Dark", "themes/dark.json"),
		themeEntry("Dark again", "themes/dark.json"),
	}

	settings := data.Settings{OverwriteThemes: false}
	tally, err := installer.Install(context.Background(), entries, settings)

	require.NoError(t, err)
	assert.Equal(t, 2, tally.Succeeded)
	assert.Equal(t, []Rename{{From: "Dark", To: "Dark1"}, {From: "Dark", To: "Dark2"}}, tally.Renamed)
	assert.Equal(t, 2, host.listCalls, "one theme listing per resolution")
}

func TestInstallEntry_ConcurrentImportsGetDistinctNames(t *testing.T) {
	themes := []string{"Dark"}
	host := &mockHost{
		listThemesFunc: func(context.Context) ([]string, error) {
			snapshot := append([]string{}, themes...)
			time.Sleep(20 * time.Millisecond)
			return snapshot, nil
		},
		saveThemeFunc: func(_ context.Context, theme map[string]any) error {
			themes = append(themes, theme["name"].(string))
			return nil
		},
	}
	installer := newTestInstaller(host, nil)
	entry := themeEntry("Dark", "themes/dark.json")

	names := make([]string, 2)
	var wg sync.WaitGroup
	for i := range names {
		wg.Add(1)
		go func() {
			defer wg.Done()
			result, err := installer.InstallEntry(context.Background(), entry, false)
			assert.NoError(t, err)
			names[i] = result.FinalName
		}()
	}
	wg.Wait()

	assert.ElementsMatch(t, []string{"Dark1", "Dark2"}, names)
	assert.Equal(t, []string{"Dark", "Dark1", "Dark2"}, themes)
}

func TestInstall_UsesOverwritePerKind(t *testing.T) {
	host := &mockHost{}
	installer := newTestInstaller(host, nil)
	entries := []data.ManifestEntry{
		charEntry("A", "characters/a.png", data.AssetPNG),
		themeEntry("Dark", "themes/dark.json"),
	}

	_, err := installer.Install(context.Background(), entries, data.Settings{OverwriteCharacters: true, OverwriteThemes: true})

	require.NoError(t, err)
	require.Len(t, host.uploads, 1)
	assert.Equal(t, "a", host.uploads[0].PreservedName)
	assert.Zero(t, host.listCalls)
}

func TestInstall_Cancelled(t *testing.T) {
	host := &mockHost{}
	installer := newTestInstaller(host, nil)
	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	tally, err := installer.Install(ctx, []data.ManifestEntry{
		charEntry("A", "characters/a.png", data.AssetPNG),
	}, data.DefaultSettings())

	assert.ErrorIs(t, err, context.Canceled)
	assert.Equal(t, 1, tally.Total)
	assert.Zero(t, tally.Succeeded)
	assert.Empty(t, host.uploads)
}

func TestInstall_ProgressEvents(t *testing.T) {
	installer := newTestInstaller(&mockHost{}, nil)

	_, err := installer.InstallEntry(context.Background(), charEntry("A", "characters/a.png", data.AssetPNG), false)
	require.NoError(t, err)

	events := drain(installer.Progress())
	require.Len(t, events, 3)
	assert.Equal(t, StatusLoading, events[0].Status)
	assert.Equal(t, StatusImporting, events[1].Status)
	assert.Equal(t, StatusDone, events[2].Status)
	assert.Equal(t, 1, events[2].Total)
	assert.True(t, events[2].Result.Success)

	_, err = installer.InstallEntry(context.Background(), charEntry("X", "characters/missing.png", data.AssetPNG), false)
	require.Error(t, err)
	events = drain(installer.Progress())
	require.Len(t, events, 2)
	assert.Equal(t, StatusFailed, events[1].Status)
	assert.Error(t, events[1].Error)
}

func TestInstall_FullProgressChannelDoesNotBlock(t *testing.T) {
	installer := newTestInstaller(&mockHost{}, nil)
	entries := make([]data.ManifestEntry, 60)
	for i := range entries {
		entries[i] = charEntry("A", "characters/a.png", data.AssetPNG)
	}

	tally, err := installer.Install(context.Background(), entries, data.DefaultSettings())

	require.NoError(t, err)
	assert.Equal(t, 60, tally.Succeeded)
	assert.Len(t, drain(installer.Progress()), 100)
}

func TestInstaller_HistoryErrorIsNotFatal(t *testing.T) {
	installer := newTestInstaller(&mockHost{}, &mockHistory{err: errBoom})

	result, err := installer.InstallEntry(context.Background(), charEntry("A", "characters/a.png", data.AssetPNG), false)

	require.NoError(t, err)
	assert.True(t, result.Success)
}

func TestInstaller_CloseTwice(t *testing.T) {
	installer := newTestInstaller(&mockHost{}, nil)
	installer.Close()
	installer.Close()
	_, ok := <-installer.Progress()
	assert.False(t, ok)
}
