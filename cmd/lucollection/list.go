package lucollection

import (
	"fmt"

	"github.com/charmbracelet/bubbles/table"
	"github.com/charmbracelet/lipgloss"
	"github.com/kerbaras/lucollection/pkg/app/components"
	"github.com/kerbaras/lucollection/pkg/data"
	"github.com/spf13/cobra"
)

var listSearch string

var listCmd = &cobra.Command{
	Use:       "list [themes|characters|all]",
	Short:     "List the bundled entries",
	Long:      "Display every bundled entry with the outcome of its last import in a formatted table",
	Args:      cobra.MaximumNArgs(1),
	ValidArgs: []string{"themes", "characters", "all"},
	RunE: func(cmd *cobra.Command, args []string) error {
		arg := "all"
		if len(args) == 1 {
			arg = args[0]
		}
		kinds, err := parseKinds(arg)
		if err != nil {
			return err
		}

		controller, err := newController(cfg)
		if err != nil {
			return err
		}
		defer controller.Close()

		latest, err := controller.LatestImports()
		if err != nil {
			return err
		}

		columns := []table.Column{
			{Title: "Name", Width: 30},
			{Title: "Kind", Width: 10},
			{Title: "File", Width: 30},
			{Title: "Last import", Width: 30},
		}

		entries := controller.Entries("")
		if listSearch != "" {
			entries = controller.Search(listSearch)
		}

		rows := []table.Row{}
		for _, kind := range kinds {
			for _, entry := range entries {
				if entry.Kind != kind {
					continue
				}
				rows = append(rows, table.Row{
					components.Truncate(entry.Name, 28),
					string(entry.Kind),
					components.Truncate(entry.FileName(), 28),
					lastImport(latest[data.ImportKey(entry.Kind, entry.Name)]),
				})
			}
		}

		if len(rows) == 0 {
			fmt.Println("No entries bundled.")
			return nil
		}

		t := table.New(
			table.WithColumns(columns),
			table.WithRows(rows),
			table.WithFocused(false),
			table.WithHeight(len(rows)),
		)

		s := table.DefaultStyles()
		s.Header = s.Header.
			BorderStyle(lipgloss.NormalBorder()).
			BorderForeground(lipgloss.Color("240")).
			BorderBottom(true).
			Bold(true)
		s.Selected = s.Selected.
			Foreground(lipgloss.Color("229")).
			Background(lipgloss.Color("57")).
			Bold(false)
		t.SetStyles(s)

		fmt.Printf("\nlu-collection (%d entries)\n\n", len(rows))
		fmt.Println(t.View())
		return nil
	},
}

func init() {
	listCmd.Flags().StringVarP(&listSearch, "search", "s", "", "only show entries fuzzy-matching this text")
}

func lastImport(rec *data.ImportRecord) string {
	switch {
	case rec == nil:
		return "not imported"
	case !rec.Success:
		return "failed " + rec.ImportedAt.Format("Jan 2 15:04")
	case rec.WasRenamed:
		return fmt.Sprintf("as %q %s", rec.FinalName, rec.ImportedAt.Format("Jan 2 15:04"))
	}
	return "imported " + rec.ImportedAt.Format("Jan 2 15:04")
}
