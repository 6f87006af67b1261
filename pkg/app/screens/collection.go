package screens

import (
	"context"
	"fmt"

	"github.com/charmbracelet/bubbles/spinner"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/kerbaras/lucollection/pkg/app/components"
	"github.com/kerbaras/lucollection/pkg/app/styles"
	"github.com/kerbaras/lucollection/pkg/data"
	"github.com/kerbaras/lucollection/pkg/services"
)

// CollectionScreen lists the bundled entries of one kind.
type CollectionScreen struct {
	collection Collection
	ctx        context.Context
	kind       data.Kind
	list       *components.AssetList
	progress   *components.ProgressTracker
	spinner    spinner.Model
	busy       string
	latest     map[string]*data.ImportRecord
	width      int
	height     int
	err        error
}

func NewCollectionScreen(ctx context.Context, collection Collection, kind data.Kind) *CollectionScreen {
	list := components.NewAssetList()
	list.Empty = fmt.Sprintf("No %s bundled", services.KindLabel(kind))

	s := &CollectionScreen{
		collection: collection,
		ctx:        ctx,
		kind:       kind,
		list:       list,
		progress:   components.NewProgressTracker(80),
		spinner:    spinner.New(spinner.WithSpinner(spinner.Dot)),
	}
	s.refreshItems()
	return s
}

func (s *CollectionScreen) Kind() data.Kind {
	return s.kind
}

// Busy reports whether a batch or export is running.
func (s *CollectionScreen) Busy() bool {
	return s.busy != ""
}

func (s *CollectionScreen) Init() tea.Cmd {
	return s.loadLatest
}

func (s *CollectionScreen) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.WindowSizeMsg:
		s.width = msg.Width
		s.height = msg.Height
		s.list.Width = msg.Width - 4
		s.list.Height = msg.Height - 14
		s.progress.SetWidth(msg.Width - 4)

	case tea.KeyMsg:
		switch msg.String() {
		case "up", "k":
			s.list.Prev()
		case "down", "j":
			s.list.Next()
		case "r":
			return s, s.loadLatest
		case "enter", "i":
			if s.Busy() {
				return s, nil
			}
			if selected := s.list.Selected(); selected != nil {
				return s, s.importEntry(selected.Entry)
			}
		case "p":
			if selected := s.list.Selected(); selected != nil {
				entry := selected.Entry
				return s, func() tea.Msg {
					return SwitchScreenMsg{Screen: "details", Data: entry}
				}
			}
		case "a":
			if s.Busy() {
				return s, nil
			}
			s.busy = fmt.Sprintf("Installing all %s", services.KindLabel(s.kind))
			s.progress.Clear()
			return s, tea.Batch(s.spinner.Tick, s.installAll)
		case "x":
			if s.Busy() {
				return s, nil
			}
			s.busy = fmt.Sprintf("Exporting %s", services.KindLabel(s.kind))
			return s, tea.Batch(s.spinner.Tick, s.exportAll)
		case "g":
			kind := s.kind
			return s, func() tea.Msg {
				return SwitchScreenMsg{Screen: "guide", Data: kind}
			}
		case "o":
			return s, s.toggleOverwrite
		}

	case latestLoadedMsg:
		if msg.err != nil {
			s.err = msg.err
			break
		}
		s.latest = msg.latest
		s.refreshItems()

	case ImportedMsg:
		if msg.Entry.Kind == s.kind {
			return s, s.loadLatest
		}

	case progressMsg:
		if msg.Entry.Kind == s.kind && s.Busy() {
			s.progress.Update(services.InstallProgress(msg))
		}

	case batchDoneMsg:
		if msg.kind != s.kind {
			break
		}
		s.busy = ""
		s.progress.Clear()
		if msg.err != nil {
			toast := ToastMsg{Level: components.LevelError, Text: fmt.Sprintf("Install stopped: %v", msg.err), TTL: components.DefaultToastTTL}
			return s, tea.Batch(toastCmd(toast), s.loadLatest)
		}
		toast := ToastMsg{Level: components.LevelSuccess, Text: services.BatchSummary(s.kind, msg.tally), TTL: components.DefaultToastTTL}
		switch {
		case msg.tally.Failed > 0 && msg.tally.Succeeded == 0:
			toast.Level = components.LevelError
		case msg.tally.Failed > 0:
			toast.Level = components.LevelWarning
		}
		return s, tea.Batch(toastCmd(toast), s.loadLatest)

	case exportDoneMsg:
		if msg.kind != s.kind {
			break
		}
		s.busy = ""
		if msg.err != nil {
			return s, toastCmd(ToastMsg{Level: components.LevelWarning, Text: fmt.Sprintf("Exported %d files, some failed: %v", len(msg.paths), msg.err), TTL: components.DefaultToastTTL})
		}
		return s, toastCmd(ToastMsg{Level: components.LevelSuccess, Text: fmt.Sprintf("Exported %d %s", len(msg.paths), services.KindLabel(s.kind)), TTL: components.DefaultToastTTL})

	case settingsChangedMsg:
		if msg.kind != s.kind {
			break
		}
		if msg.err != nil {
			return s, toastCmd(ToastMsg{Level: components.LevelError, Text: fmt.Sprintf("Failed to save settings: %v", msg.err), TTL: components.DefaultToastTTL})
		}
		return s, toastCmd(ToastMsg{Level: components.LevelInfo, Text: services.OverwriteNotice(s.kind, msg.settings.Overwrite(s.kind)), TTL: components.DefaultToastTTL})

	case spinner.TickMsg:
		if s.Busy() {
			var cmd tea.Cmd
			s.spinner, cmd = s.spinner.Update(msg)
			return s, cmd
		}
	}

	return s, nil
}

func (s *CollectionScreen) View() string {
	if s.width == 0 {
		return "Loading..."
	}

	overwrite := "off"
	if s.collection.Settings().Overwrite(s.kind) {
		overwrite = "on"
	}
	header := styles.SubtitleStyle.Render(fmt.Sprintf("%d %s · overwrite %s", len(s.list.Items), services.KindLabel(s.kind), overwrite))

	var errorMsg string
	if s.err != nil {
		errorMsg = styles.StatusError.Render(fmt.Sprintf("Error: %s", s.err))
		errorMsg += "\n\n"
	}

	var busy string
	if s.Busy() {
		busy = s.spinner.View() + " " + styles.StatusWorking.Render(s.busy) + "\n" + s.progress.View() + "\n"
	}

	help := styles.HelpStyle.Render(
		"↑/k ↓/j: move • i/enter: import • p: details • a: install all • x: export all • g: guide • o: toggle overwrite • tab: switch • q: quit",
	)

	return fmt.Sprintf("%s\n\n%s%s%s\n%s", header, errorMsg, busy, s.list.View(), help)
}

func (s *CollectionScreen) refreshItems() {
	entries := s.collection.Entries(s.kind)
	items := make([]components.AssetListItem, len(entries))
	for i, entry := range entries {
		items[i] = components.AssetListItem{Entry: entry, Last: s.latest[data.ImportKey(entry.Kind, entry.Name)]}
	}
	s.list.SetItems(items)
}

// Commands
func (s *CollectionScreen) loadLatest() tea.Msg {
	latest, err := s.collection.LatestImports()
	return latestLoadedMsg{latest: latest, err: err}
}

func (s *CollectionScreen) importEntry(entry data.ManifestEntry) tea.Cmd {
	return importCmd(s.ctx, s.collection, entry)
}

func (s *CollectionScreen) installAll() tea.Msg {
	tally, err := s.collection.InstallAll(s.ctx, s.kind)
	return batchDoneMsg{kind: s.kind, tally: tally, err: err}
}

func (s *CollectionScreen) exportAll() tea.Msg {
	paths, err := s.collection.Export(s.ctx, s.kind, "")
	return exportDoneMsg{kind: s.kind, paths: paths, err: err}
}

func (s *CollectionScreen) toggleOverwrite() tea.Msg {
	settings, err := s.collection.ToggleOverwrite(s.kind)
	return settingsChangedMsg{kind: s.kind, settings: settings, err: err}
}

func importCmd(ctx context.Context, collection Collection, entry data.ManifestEntry) tea.Cmd {
	return func() tea.Msg {
		result, err := collection.Import(ctx, entry)
		return ImportedMsg{Entry: entry, Result: result, Err: err}
	}
}

func toastCmd(toast ToastMsg) tea.Cmd {
	return func() tea.Msg { return toast }
}
