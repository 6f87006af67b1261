package screens

import (
	"fmt"
	"strings"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/kerbaras/lucollection/pkg/app/styles"
	"github.com/kerbaras/lucollection/pkg/data"
	"github.com/kerbaras/lucollection/pkg/services"
)

// GuideScreen explains how to install one kind of asset.
type GuideScreen struct {
	kind     data.Kind
	settings data.Settings
}

func NewGuideScreen(kind data.Kind, settings data.Settings) *GuideScreen {
	return &GuideScreen{kind: kind, settings: settings}
}

func (s *GuideScreen) Init() tea.Cmd {
	return nil
}

func (s *GuideScreen) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	if key, ok := msg.(tea.KeyMsg); ok {
		switch key.String() {
		case "esc", "backspace", "enter", "g":
			kind := s.kind
			return s, func() tea.Msg {
				return SwitchScreenMsg{Screen: "collection", Data: kind}
			}
		}
	}
	return s, nil
}

func (s *GuideScreen) View() string {
	title := "Theme install guide"
	if s.kind == data.KindCharacter {
		title = "Character card guide"
	}

	var b strings.Builder
	for i, line := range services.Guide(s.kind, s.settings) {
		fmt.Fprintf(&b, "%d. %s\n", i+1, line)
	}

	return styles.TitleStyle.Render(title) + "\n\n" +
		styles.GuideStyle.Render(strings.TrimSuffix(b.String(), "\n")) + "\n" +
		styles.HelpStyle.Render("esc: back • q: quit")
}
