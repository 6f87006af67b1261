package screens

import (
	"context"
	"fmt"
	"time"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"
	"github.com/kerbaras/lucollection/pkg/app/components"
	"github.com/kerbaras/lucollection/pkg/app/styles"
	"github.com/kerbaras/lucollection/pkg/data"
	"github.com/kerbaras/lucollection/pkg/services"
)

type screenType int

const (
	charactersView screenType = iota
	themesView
	detailsView
	guideView
)

const toastTick = time.Second

type RootScreen struct {
	collection Collection
	ctx        context.Context
	cancel     context.CancelFunc

	currentView screenType
	lastTab     screenType
	characters  *CollectionScreen
	themes      *CollectionScreen
	details     *DetailsScreen
	guide       *GuideScreen
	toasts      *components.Toasts
	now         func() time.Time

	width  int
	height int
}

func NewRootScreen(collection Collection) *RootScreen {
	ctx, cancel := context.WithCancel(context.Background())
	return &RootScreen{
		collection:  collection,
		ctx:         ctx,
		cancel:      cancel,
		currentView: charactersView,
		lastTab:     charactersView,
		characters:  NewCollectionScreen(ctx, collection, data.KindCharacter),
		themes:      NewCollectionScreen(ctx, collection, data.KindTheme),
		toasts:      components.NewToasts(3),
		now:         time.Now,
	}
}

func (r *RootScreen) Init() tea.Cmd {
	return tea.Batch(
		r.characters.Init(),
		r.themes.Init(),
		r.listenForProgress(),
		r.tickToasts(),
	)
}

// listenForProgress relays installer progress until the channel closes.
func (r *RootScreen) listenForProgress() tea.Cmd {
	ch := r.collection.Progress()
	if ch == nil {
		return nil
	}
	return func() tea.Msg {
		progress, ok := <-ch
		if !ok {
			return nil
		}
		return progressMsg(progress)
	}
}

func (r *RootScreen) tickToasts() tea.Cmd {
	return tea.Tick(toastTick, func(t time.Time) tea.Msg { return toastTickMsg(t) })
}

func (r *RootScreen) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.WindowSizeMsg:
		r.width = msg.Width
		r.height = msg.Height
		r.toasts.SetWidth(msg.Width - 4)

	case tea.KeyMsg:
		switch msg.String() {
		case "q", "ctrl+c":
			r.cancel()
			return r, tea.Quit
		case "tab", "shift+tab":
			if r.currentView == detailsView || r.currentView == guideView {
				break
			}
			if r.currentView == charactersView {
				r.currentView = themesView
			} else {
				r.currentView = charactersView
			}
			r.lastTab = r.currentView
			return r, nil
		case "esc":
			if len(r.toasts.Items()) > 0 {
				r.toasts.Dismiss()
				return r, nil
			}
		}
		return r, r.updateActive(msg)

	case SwitchScreenMsg:
		return r, r.switchScreen(msg)

	case ToastMsg:
		r.toasts.Push(msg.Level, msg.Text, msg.TTL, r.now())
		return r, nil

	case toastTickMsg:
		r.toasts.Prune(r.now())
		return r, r.tickToasts()

	case progressMsg:
		return r, tea.Batch(r.broadcast(msg), r.listenForProgress())

	case ImportedMsg:
		overwrite := r.collection.Settings().Overwrite(msg.Entry.Kind)
		level := components.LevelSuccess
		switch {
		case msg.Err != nil:
			level = components.LevelError
		case msg.Result.WasRenamed:
			level = components.LevelInfo
		}
		r.toasts.Push(level, services.ImportNotice(msg.Entry, msg.Result, overwrite, msg.Err), components.DefaultToastTTL, r.now())
		return r, r.broadcast(msg)
	}

	return r, r.broadcast(msg)
}

func (r *RootScreen) switchScreen(msg SwitchScreenMsg) tea.Cmd {
	switch msg.Screen {
	case "collection":
		if kind, ok := msg.Data.(data.Kind); ok {
			r.lastTab = tabFor(kind)
		}
		r.currentView = r.lastTab
		r.details = nil
		r.guide = nil
		return r.activeCollection().Init()
	case "details":
		entry, ok := msg.Data.(data.ManifestEntry)
		if !ok {
			return nil
		}
		r.lastTab = tabFor(entry.Kind)
		r.details = NewDetailsScreen(r.ctx, r.collection, entry)
		r.details.Update(tea.WindowSizeMsg{Width: r.width, Height: r.height})
		r.currentView = detailsView
		return r.details.Init()
	case "guide":
		kind, ok := msg.Data.(data.Kind)
		if !ok {
			return nil
		}
		r.lastTab = tabFor(kind)
		r.guide = NewGuideScreen(kind, r.collection.Settings())
		r.currentView = guideView
		return r.guide.Init()
	}
	return nil
}

// updateActive sends input to the visible screen only.
func (r *RootScreen) updateActive(msg tea.Msg) tea.Cmd {
	var cmd tea.Cmd
	switch r.currentView {
	case charactersView:
		_, cmd = r.characters.Update(msg)
	case themesView:
		_, cmd = r.themes.Update(msg)
	case detailsView:
		if r.details != nil {
			_, cmd = r.details.Update(msg)
		}
	case guideView:
		if r.guide != nil {
			_, cmd = r.guide.Update(msg)
		}
	}
	return cmd
}

// broadcast delivers background results to every live screen; each screen
// ignores what is not addressed to its kind or entry.
func (r *RootScreen) broadcast(msg tea.Msg) tea.Cmd {
	cmds := []tea.Cmd{}
	_, cmd := r.characters.Update(msg)
	cmds = append(cmds, cmd)
	_, cmd = r.themes.Update(msg)
	cmds = append(cmds, cmd)
	if r.details != nil {
		_, cmd = r.details.Update(msg)
		cmds = append(cmds, cmd)
	}
	return tea.Batch(cmds...)
}

func (r *RootScreen) activeCollection() *CollectionScreen {
	if r.lastTab == themesView {
		return r.themes
	}
	return r.characters
}

func tabFor(kind data.Kind) screenType {
	if kind == data.KindTheme {
		return themesView
	}
	return charactersView
}

func (r *RootScreen) View() string {
	var content string
	switch r.currentView {
	case charactersView:
		content = r.characters.View()
	case themesView:
		content = r.themes.View()
	case detailsView:
		if r.details != nil {
			content = r.details.View()
		}
	case guideView:
		if r.guide != nil {
			content = r.guide.View()
		}
	}

	view := content
	if tabs := r.renderTabs(); tabs != "" {
		view = fmt.Sprintf("%s\n\n%s", tabs, content)
	}
	if toasts := r.toasts.View(); toasts != "" {
		view = fmt.Sprintf("%s\n%s", view, toasts)
	}
	return view
}

func (r *RootScreen) renderTabs() string {
	if r.currentView == detailsView || r.currentView == guideView {
		return ""
	}

	charactersTab := "Characters"
	themesTab := "Themes"

	if r.currentView == charactersView {
		charactersTab = styles.ActiveTabStyle.Render(charactersTab)
		themesTab = styles.InactiveTabStyle.Render(themesTab)
	} else {
		charactersTab = styles.InactiveTabStyle.Render(charactersTab)
		themesTab = styles.ActiveTabStyle.Render(themesTab)
	}

	return lipgloss.JoinHorizontal(lipgloss.Top, charactersTab, themesTab)
}
