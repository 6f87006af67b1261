package components

import (
	"fmt"
	"strings"

	"github.com/charmbracelet/lipgloss"
	"github.com/kerbaras/lucollection/pkg/app/styles"
	"github.com/kerbaras/lucollection/pkg/data"
)

type AssetListItem struct {
	Entry data.ManifestEntry
	// Last is the newest import attempt, nil when the entry was never imported.
	Last *data.ImportRecord
}

// Status is "imported", "failed" or "" for never imported.
func (i AssetListItem) Status() string {
	switch {
	case i.Last == nil:
		return ""
	case i.Last.Success:
		return "imported"
	default:
		return "failed"
	}
}

type AssetList struct {
	Items         []AssetListItem
	SelectedIndex int
	Width         int
	Height        int
	Empty         string
}

func NewAssetList() *AssetList {
	return &AssetList{
		Items:  []AssetListItem{},
		Width:  80,
		Height: 20,
		Empty:  "Nothing bundled",
	}
}

func (m *AssetList) SetItems(items []AssetListItem) {
	m.Items = items
	if m.SelectedIndex >= len(items) && len(items) > 0 {
		m.SelectedIndex = len(items) - 1
	}
	if len(items) == 0 {
		m.SelectedIndex = 0
	}
}

func (m *AssetList) Next() {
	if len(m.Items) == 0 {
		return
	}
	m.SelectedIndex++
	if m.SelectedIndex >= len(m.Items) {
		m.SelectedIndex = 0
	}
}

func (m *AssetList) Prev() {
	if len(m.Items) == 0 {
		return
	}
	m.SelectedIndex--
	if m.SelectedIndex < 0 {
		m.SelectedIndex = len(m.Items) - 1
	}
}

func (m *AssetList) Selected() *AssetListItem {
	if len(m.Items) == 0 || m.SelectedIndex >= len(m.Items) {
		return nil
	}
	return &m.Items[m.SelectedIndex]
}

// visible returns the window of items that fits Height, keeping the
// selection in view. Each card takes three lines.
func (m *AssetList) visible() (int, int) {
	per := m.Height / 3
	if per < 1 {
		per = 1
	}
	if len(m.Items) <= per {
		return 0, len(m.Items)
	}
	start := m.SelectedIndex - per/2
	if start < 0 {
		start = 0
	}
	end := start + per
	if end > len(m.Items) {
		end = len(m.Items)
		start = end - per
	}
	return start, end
}

func (m *AssetList) View() string {
	if len(m.Items) == 0 {
		emptyMsg := styles.MutedStyle.Render(m.Empty)
		return lipgloss.Place(m.Width, m.Height, lipgloss.Center, lipgloss.Center, emptyMsg)
	}

	var b strings.Builder
	start, end := m.visible()
	for i := start; i < end; i++ {
		item := m.Items[i]
		cardStyle := styles.CardStyle
		if i == m.SelectedIndex {
			cardStyle = styles.ActiveCardStyle
		}

		title := lipgloss.NewStyle().Bold(true).Render(item.Entry.Name)
		kind := styles.MutedStyle.Render(fmt.Sprintf("%s · %s", item.Entry.Type, item.Entry.FileName()))

		statusText := "not imported"
		if item.Last != nil {
			statusText = item.Status()
			if item.Last.Success && item.Last.FinalName != "" && item.Last.FinalName != item.Entry.Name {
				statusText = fmt.Sprintf("imported as %q", item.Last.FinalName)
			}
			statusText += " " + item.Last.ImportedAt.Format("Jan 2 15:04")
		}
		status := styles.StatusStyle(item.Status()).Render(statusText)

		header := lipgloss.JoinHorizontal(lipgloss.Top, title, "  ", kind, "  ", status)
		desc := styles.TextStyle.Render(Truncate(item.Entry.Description, m.Width-10))

		card := cardStyle.Width(m.Width - 4).Render(lipgloss.JoinVertical(lipgloss.Left, header, desc))
		b.WriteString(card)
		b.WriteString("\n")
	}
	if start > 0 || end < len(m.Items) {
		b.WriteString(styles.MutedStyle.Render(fmt.Sprintf("%d-%d of %d", start+1, end, len(m.Items))))
		b.WriteString("\n")
	}

	return b.String()
}

// Truncate shortens s to max runes, ending with "...".
func Truncate(s string, max int) string {
	r := []rune(s)
	if max < 4 || len(r) <= max {
		return s
	}
	return string(r[:max-3]) + "..."
}
