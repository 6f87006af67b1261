package screens

import (
	"testing"
	"time"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/kerbaras/lucollection/pkg/app/components"
	"github.com/kerbaras/lucollection/pkg/data"
	"github.com/kerbaras/lucollection/pkg/services"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newTestRoot(f *fakeCollection) (*RootScreen, *time.Time) {
	r := NewRootScreen(f)
	now := time.Date(2025, 3, 1, 12, 0, 0, 0, time.UTC)
	r.now = func() time.Time { return now }
	r.Update(tea.WindowSizeMsg{Width: 120, Height: 40})
	return r, &now
}

func TestRootSwitchesTabs(t *testing.T) {
	r, _ := newTestRoot(newFakeCollection())

	view := r.View()
	assert.Contains(t, view, "Characters")
	assert.Contains(t, view, "Themes")
	assert.Contains(t, view, "2 characters")

	r.Update(key("tab"))
	assert.Equal(t, themesView, r.currentView)
	assert.Contains(t, r.View(), "1 themes")

	r.Update(key("tab"))
	assert.Equal(t, charactersView, r.currentView)
}

func TestRootDetailsRoundTrip(t *testing.T) {
	f := newFakeCollection()
	r, _ := newTestRoot(f)

	_, cmd := r.Update(SwitchScreenMsg{Screen: "details", Data: f.entries[data.KindTheme][0]})
	require.Equal(t, detailsView, r.currentView)
	require.NotNil(t, r.details)
	for _, msg := range drain(cmd) {
		r.Update(msg)
	}
	assert.Contains(t, r.View(), "File: themes/dark.json")
	assert.NotContains(t, r.View(), "Characters", "tabs are hidden on the details screen")

	r.Update(key("tab"))
	assert.Equal(t, detailsView, r.currentView)

	_, cmd = r.Update(key("esc"))
	sw, ok := findMsg[SwitchScreenMsg](drain(cmd))
	require.True(t, ok)

	r.Update(sw)
	assert.Equal(t, themesView, r.currentView, "back lands on the tab of the entry")
	assert.Nil(t, r.details)
}

func TestRootGuide(t *testing.T) {
	f := newFakeCollection()
	r, _ := newTestRoot(f)

	r.Update(SwitchScreenMsg{Screen: "guide", Data: data.KindTheme})
	require.Equal(t, guideView, r.currentView)
	assert.Contains(t, r.View(), "Current setting: importing overwrites themes with the same name.")
}

func TestRootImportedToast(t *testing.T) {
	f := newFakeCollection()
	r, _ := newTestRoot(f)

	entry := f.entries[data.KindTheme][0]
	r.Update(ImportedMsg{Entry: entry, Result: data.ImportResult{Success: true, FinalName: "Dark2", WasRenamed: true}})

	items := r.toasts.Items()
	require.Len(t, items, 1)
	assert.Equal(t, components.LevelInfo, items[0].Level)
	assert.Contains(t, items[0].Text, `renamed to "Dark2"`)

	r.Update(ImportedMsg{Entry: entry, Err: errBoom})
	items = r.toasts.Items()
	require.Len(t, items, 2)
	assert.Equal(t, components.LevelError, items[1].Level)
}

func TestRootToastsExpireAndDismiss(t *testing.T) {
	r, now := newTestRoot(newFakeCollection())

	r.Update(ToastMsg{Level: components.LevelInfo, Text: "short", TTL: time.Second})
	r.Update(ToastMsg{Level: components.LevelWarning, Text: "sticky"})
	assert.Contains(t, r.View(), "short")

	*now = now.Add(2 * time.Second)
	_, cmd := r.Update(toastTickMsg(*now))
	assert.NotNil(t, cmd, "the toast clock keeps ticking")
	require.Len(t, r.toasts.Items(), 1)
	assert.Equal(t, "sticky", r.toasts.Items()[0].Text)

	r.Update(key("esc"))
	assert.Empty(t, r.toasts.Items())
}

func TestRootRelaysProgress(t *testing.T) {
	f := newFakeCollection()
	r, _ := newTestRoot(f)

	r.Update(key("a"))
	f.progress <- services.InstallProgress{Entry: f.entries[data.KindCharacter][0], Index: 1, Total: 2, Status: services.StatusLoading}

	msg := r.listenForProgress()()
	progress, ok := msg.(progressMsg)
	require.True(t, ok)

	r.Update(progress)
	assert.Contains(t, r.View(), "loading: Gu Lin")

	close(f.progress)
	assert.Nil(t, r.listenForProgress()())
}

func TestRootQuitCancelsContext(t *testing.T) {
	r, _ := newTestRoot(newFakeCollection())

	_, cmd := r.Update(key("q"))
	require.NotNil(t, cmd)
	assert.IsType(t, tea.QuitMsg{}, cmd())
	assert.Error(t, r.ctx.Err())
}
