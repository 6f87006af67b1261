package screens

import (
	"bytes"
	"context"
	"errors"
	"image"
	"image/color"
	"image/png"
	"testing"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"
	"github.com/kerbaras/lucollection/pkg/data"
	"github.com/kerbaras/lucollection/pkg/services"
	"github.com/muesli/termenv"
)

func init() {
	lipgloss.SetColorProfile(termenv.Ascii)
}

var errBoom = errors.New("boom")

type fakeCollection struct {
	settings data.Settings
	entries  map[data.Kind][]data.ManifestEntry
	latest   map[string]*data.ImportRecord
	progress chan services.InstallProgress

	importResult data.ImportResult
	importErr    error
	imported     []string

	tally      *services.Tally
	installErr error

	asset   *services.Asset
	loadErr error
	preview []byte
}

func newFakeCollection() *fakeCollection {
	return &fakeCollection{
		settings: data.DefaultSettings(),
		entries: map[data.Kind][]data.ManifestEntry{
			data.KindCharacter: {
				{Name: "Gu Lin", File: "characters/gu-lin.png", Type: data.AssetPNG, Kind: data.KindCharacter},
				{Name: "Shen Yue", File: "characters/shen-yue.json", Type: data.AssetJSON, Kind: data.KindCharacter},
			},
			data.KindTheme: {
				{Name: "Dark", File: "themes/dark.json", Type: data.AssetJSON, Kind: data.KindTheme, Description: "A dark theme"},
			},
		},
		latest:   map[string]*data.ImportRecord{},
		progress: make(chan services.InstallProgress, 10),
	}
}

func (f *fakeCollection) Settings() data.Settings { return f.settings }

func (f *fakeCollection) ToggleOverwrite(kind data.Kind) (data.Settings, error) {
	if kind == data.KindTheme {
		f.settings.OverwriteThemes = !f.settings.OverwriteThemes
	} else {
		f.settings.OverwriteCharacters = !f.settings.OverwriteCharacters
	}
	return f.settings, nil
}

func (f *fakeCollection) Entries(kind data.Kind) []data.ManifestEntry { return f.entries[kind] }

func (f *fakeCollection) Import(ctx context.Context, entry data.ManifestEntry) (data.ImportResult, error) {
	f.imported = append(f.imported, entry.Name)
	return f.importResult, f.importErr
}

func (f *fakeCollection) InstallAll(ctx context.Context, kind data.Kind) (*services.Tally, error) {
	return f.tally, f.installErr
}

func (f *fakeCollection) Export(ctx context.Context, kind data.Kind, dir string) ([]string, error) {
	return []string{"a", "b"}, nil
}

func (f *fakeCollection) Load(ctx context.Context, entry data.ManifestEntry) (*services.Asset, error) {
	if f.loadErr != nil {
		return nil, f.loadErr
	}
	if f.asset != nil {
		return f.asset, nil
	}
	return &services.Asset{Entry: entry, Location: "embedded"}, nil
}

func (f *fakeCollection) Preview(ctx context.Context, entry data.ManifestEntry) ([]byte, error) {
	return f.preview, nil
}

func (f *fakeCollection) LatestImports() (map[string]*data.ImportRecord, error) {
	return f.latest, nil
}

func (f *fakeCollection) Progress() <-chan services.InstallProgress { return f.progress }

// drain runs cmd and every command it batches, returning the produced messages.
// Only use it on commands that do not wait on timers.
func drain(cmd tea.Cmd) []tea.Msg {
	if cmd == nil {
		return nil
	}
	msg := cmd()
	if batch, ok := msg.(tea.BatchMsg); ok {
		var out []tea.Msg
		for _, c := range batch {
			out = append(out, drain(c)...)
		}
		return out
	}
	if msg == nil {
		return nil
	}
	return []tea.Msg{msg}
}

func findMsg[T any](msgs []tea.Msg) (T, bool) {
	for _, m := range msgs {
		if v, ok := m.(T); ok {
			return v, true
		}
	}
	var zero T
	return zero, false
}

func key(s string) tea.KeyMsg {
	switch s {
	case "enter":
		return tea.KeyMsg{Type: tea.KeyEnter}
	case "esc":
		return tea.KeyMsg{Type: tea.KeyEsc}
	case "tab":
		return tea.KeyMsg{Type: tea.KeyTab}
	}
	return tea.KeyMsg{Type: tea.KeyRunes, Runes: []rune(s)}
}

func testPNG(t *testing.T) []byte {
	t.Helper()
	img := image.NewRGBA(image.Rect(0, 0, 8, 8))
	for y := 0; y < 8; y++ {
		for x := 0; x < 8; x++ {
			img.Set(x, y, color.RGBA{R: 200, A: 255})
		}
	}
	var buf bytes.Buffer
	if err := png.Encode(&buf, img); err != nil {
		t.Fatal(err)
	}
	return buf.Bytes()
}
