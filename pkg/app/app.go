package app

import (
	tea "github.com/charmbracelet/bubbletea"
	"github.com/kerbaras/lucollection/pkg/app/screens"
)

type App struct {
	collection screens.Collection
}

func NewApp(collection screens.Collection) *App {
	return &App{collection: collection}
}

func (a *App) Run() error {
	model := screens.NewRootScreen(a.collection)
	p := tea.NewProgram(model, tea.WithAltScreen(), tea.WithMouseCellMotion())
	_, err := p.Run()
	return err
}
