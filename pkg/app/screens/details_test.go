package screens

import (
	"context"
	"testing"
	"time"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/kerbaras/lucollection/pkg/data"
	"github.com/kerbaras/lucollection/pkg/integrations"
	"github.com/kerbaras/lucollection/pkg/services"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func loadedDetails(t *testing.T, f *fakeCollection, entry data.ManifestEntry) *DetailsScreen {
	t.Helper()
	s := NewDetailsScreen(context.Background(), f, entry)
	s.Update(tea.WindowSizeMsg{Width: 120, Height: 40})
	for _, msg := range drain(s.Init()) {
		s.Update(msg)
	}
	return s
}

func TestDetailsScreenTheme(t *testing.T) {
	f := newFakeCollection()
	entry := f.entries[data.KindTheme][0]
	f.asset = &services.Asset{
		Entry:    entry,
		Fields:   map[string]any{"name": "Dark", "blur_strength": 10, "font_scale": 1},
		Location: "http://localhost:8000/scripts/extensions/third-party/lu-collection",
	}
	f.latest[data.ImportKey(data.KindTheme, "Dark")] = &data.ImportRecord{
		EntryName: "Dark", Kind: data.KindTheme, FinalName: "Dark2", Success: true, WasRenamed: true,
		ImportedAt: time.Date(2025, 3, 1, 10, 30, 0, 0, time.UTC),
	}

	s := loadedDetails(t, f, entry)
	view := s.View()

	assert.Contains(t, view, "Dark")
	assert.Contains(t, view, "A dark theme")
	assert.Contains(t, view, "Theme name: Dark (2 settings)")
	assert.Contains(t, view, "File: themes/dark.json (json)")
	assert.Contains(t, view, "Served from: http://localhost:8000/scripts/extensions/third-party/lu-collection")
	assert.Contains(t, view, `Imported as "Dark2" on Mar 1 10:30`)
	assert.Contains(t, view, services.OverwriteNotice(data.KindTheme, true))
}

func TestDetailsScreenCharacterCard(t *testing.T) {
	f := newFakeCollection()
	entry := f.entries[data.KindCharacter][0]
	f.asset = &services.Asset{
		Entry: entry,
		Card: &integrations.Card{
			Spec:        "chara_card_v2",
			Name:        "Gu Lin",
			Description: "A wandering swordsman",
			Creator:     "lu",
			Tags:        []string{"xianxia", "male"},
		},
		Location: "embedded",
	}
	f.preview = testPNG(t)

	s := loadedDetails(t, f, entry)
	view := s.View()

	assert.Contains(t, view, "A wandering swordsman")
	assert.Contains(t, view, "Creator: lu")
	assert.Contains(t, view, "Tags: xianxia, male")
	assert.Contains(t, view, "Card: chara_card_v2")
	assert.NotEmpty(t, s.thumbnail)
	assert.Contains(t, view, "▀")
}

func TestDetailsScreenLoadError(t *testing.T) {
	f := newFakeCollection()
	f.loadErr = errBoom

	s := loadedDetails(t, f, f.entries[data.KindCharacter][1])

	assert.Contains(t, s.View(), "Error: boom")
	assert.Empty(t, s.thumbnail)
}

func TestDetailsScreenImport(t *testing.T) {
	f := newFakeCollection()
	entry := f.entries[data.KindCharacter][0]
	s := loadedDetails(t, f, entry)

	_, cmd := s.Update(key("i"))
	assert.True(t, s.importing)
	assert.Contains(t, s.View(), "importing...")

	_, again := s.Update(key("enter"))
	assert.Nil(t, again, "a second import waits for the first")

	imported, ok := findMsg[ImportedMsg](drain(cmd))
	require.True(t, ok)
	assert.Equal(t, []string{"Gu Lin"}, f.imported)

	_, cmd = s.Update(imported)
	assert.False(t, s.importing)
	_, ok = findMsg[latestLoadedMsg](drain(cmd))
	assert.True(t, ok)
}

func TestDetailsScreenBack(t *testing.T) {
	f := newFakeCollection()
	s := loadedDetails(t, f, f.entries[data.KindTheme][0])

	_, cmd := s.Update(key("esc"))
	sw, ok := findMsg[SwitchScreenMsg](drain(cmd))
	require.True(t, ok)
	assert.Equal(t, "collection", sw.Screen)
	assert.Equal(t, data.KindTheme, sw.Data)
}

func TestGuideScreen(t *testing.T) {
	s := NewGuideScreen(data.KindCharacter, data.Settings{OverwriteCharacters: true})

	view := s.View()
	assert.Contains(t, view, "Character card guide")
	assert.Contains(t, view, "1. Prefer \"install all characters\".")
	assert.Contains(t, view, "Current setting: importing overwrites cards with the same file name.")

	_, cmd := s.Update(key("esc"))
	sw, ok := findMsg[SwitchScreenMsg](drain(cmd))
	require.True(t, ok)
	assert.Equal(t, data.KindCharacter, sw.Data)
}
