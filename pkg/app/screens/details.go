package screens

import (
	"context"
	"fmt"
	"strings"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"
	"github.com/kerbaras/lucollection/pkg/app/styles"
	"github.com/kerbaras/lucollection/pkg/data"
	"github.com/kerbaras/lucollection/pkg/integrations"
	"github.com/kerbaras/lucollection/pkg/services"
)

// DetailsScreen shows one entry: its description, card metadata and preview.
type DetailsScreen struct {
	collection Collection
	ctx        context.Context
	entry      data.ManifestEntry
	asset      *services.Asset
	thumbnail  string
	last       *data.ImportRecord
	importing  bool
	loaded     bool
	width      int
	height     int
	err        error
}

func NewDetailsScreen(ctx context.Context, collection Collection, entry data.ManifestEntry) *DetailsScreen {
	return &DetailsScreen{
		collection: collection,
		ctx:        ctx,
		entry:      entry,
	}
}

func (s *DetailsScreen) Entry() data.ManifestEntry {
	return s.entry
}

func (s *DetailsScreen) Init() tea.Cmd {
	return tea.Batch(s.loadDetails, s.loadLast)
}

func (s *DetailsScreen) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.WindowSizeMsg:
		s.width = msg.Width
		s.height = msg.Height

	case tea.KeyMsg:
		switch msg.String() {
		case "i", "enter":
			if s.importing {
				return s, nil
			}
			s.importing = true
			return s, importCmd(s.ctx, s.collection, s.entry)
		case "r":
			return s, s.loadDetails
		case "esc", "backspace":
			return s, func() tea.Msg {
				return SwitchScreenMsg{Screen: "collection", Data: s.entry.Kind}
			}
		}

	case detailsLoadedMsg:
		s.loaded = true
		s.asset = msg.asset
		s.thumbnail = msg.thumbnail
		s.err = msg.err

	case latestLoadedMsg:
		if msg.err == nil {
			s.last = msg.latest[data.ImportKey(s.entry.Kind, s.entry.Name)]
		}

	case ImportedMsg:
		if msg.Entry.Name == s.entry.Name && msg.Entry.Kind == s.entry.Kind {
			s.importing = false
			return s, s.loadLast
		}
	}

	return s, nil
}

func (s *DetailsScreen) View() string {
	if s.width == 0 || !s.loaded {
		return "Loading..."
	}

	header := styles.TitleStyle.Render(s.entry.Name)

	var errorMsg string
	if s.err != nil {
		errorMsg = styles.StatusError.Render(fmt.Sprintf("Error: %s", s.err))
		errorMsg += "\n\n"
	}

	info := s.renderInfo()
	if s.thumbnail != "" {
		info = lipgloss.JoinHorizontal(lipgloss.Top, s.thumbnail, "  ", info)
	}

	status := ""
	if s.importing {
		status = styles.StatusWorking.Render("importing...") + "\n"
	}

	help := styles.HelpStyle.Render("i/enter: import • r: reload • esc: back • q: quit")

	return fmt.Sprintf("%s\n\n%s%s\n%s%s", header, errorMsg, styles.CardStyle.Render(info), status, help)
}

func (s *DetailsScreen) renderInfo() string {
	lines := []string{}
	if desc := s.description(); desc != "" {
		lines = append(lines, styles.TextStyle.Render(desc), "")
	}
	if s.asset != nil && s.asset.Card != nil {
		card := s.asset.Card
		if card.Creator != "" {
			lines = append(lines, styles.MutedStyle.Render("Creator: "+card.Creator))
		}
		if len(card.Tags) > 0 {
			lines = append(lines, styles.MutedStyle.Render("Tags: "+strings.Join(card.Tags, ", ")))
		}
		lines = append(lines, styles.MutedStyle.Render("Card: "+card.Spec))
	}
	if s.asset != nil && s.entry.Kind == data.KindTheme && s.asset.Fields != nil {
		lines = append(lines, styles.MutedStyle.Render(fmt.Sprintf("Theme name: %s (%d settings)", s.asset.ThemeName(), len(s.asset.Fields)-1)))
	}
	lines = append(lines, styles.MutedStyle.Render(fmt.Sprintf("File: %s (%s)", s.entry.File, s.entry.Type)))
	if s.asset != nil {
		lines = append(lines, styles.MutedStyle.Render("Served from: "+s.asset.Location))
	}

	overwrite := s.collection.Settings().Overwrite(s.entry.Kind)
	lines = append(lines, "", styles.MutedStyle.Render(services.OverwriteNotice(s.entry.Kind, overwrite)))

	if s.last != nil {
		text := "Last import failed: " + s.last.Error
		if s.last.Success {
			text = fmt.Sprintf("Imported as %q", s.last.FinalName)
		}
		state := "failed"
		if s.last.Success {
			state = "imported"
		}
		lines = append(lines, styles.StatusStyle(state).Render(text+" on "+s.last.ImportedAt.Format("Jan 2 15:04")))
	}
	return lipgloss.JoinVertical(lipgloss.Left, lines...)
}

func (s *DetailsScreen) description() string {
	if s.entry.Description != "" {
		return s.entry.Description
	}
	if s.asset != nil && s.asset.Card != nil {
		return s.asset.Card.Description
	}
	return ""
}

type detailsLoadedMsg struct {
	asset     *services.Asset
	thumbnail string
	err       error
}

func (s *DetailsScreen) loadDetails() tea.Msg {
	asset, err := s.collection.Load(s.ctx, s.entry)
	if err != nil {
		return detailsLoadedMsg{err: err}
	}

	msg := detailsLoadedMsg{asset: asset}
	img, err := s.collection.Preview(s.ctx, s.entry)
	if err == nil && len(img) > 0 {
		msg.thumbnail, _ = integrations.Thumbnail(img, integrations.DefaultThumbnailWidth)
	}
	return msg
}

func (s *DetailsScreen) loadLast() tea.Msg {
	latest, err := s.collection.LatestImports()
	return latestLoadedMsg{latest: latest, err: err}
}
