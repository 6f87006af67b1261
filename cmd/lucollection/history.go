package lucollection

import (
	"github.com/kerbaras/lucollection/pkg/app/components"
	"github.com/pterm/pterm"
	"github.com/spf13/cobra"
)

var historyLimit int

var historyCmd = &cobra.Command{
	Use:   "history",
	Short: "Show past import attempts, newest first",
	Args:  cobra.NoArgs,
	RunE: func(cmd *cobra.Command, args []string) error {
		controller, err := newController(cfg)
		if err != nil {
			return err
		}
		defer controller.Close()

		records, err := controller.History(historyLimit)
		if err != nil {
			return err
		}
		if len(records) == 0 {
			pterm.Info.Println("Nothing imported yet.")
			return nil
		}

		table := pterm.TableData{{"When", "Kind", "Entry", "Imported as", "Result"}}
		for _, rec := range records {
			result := "ok"
			if !rec.Success {
				result = components.Truncate(rec.Error, 60)
			}
			table = append(table, []string{
				rec.ImportedAt.Format("2006-01-02 15:04:05"),
				string(rec.Kind),
				rec.EntryName,
				rec.FinalName,
				result,
			})
		}
		_ = pterm.DefaultTable.WithHasHeader().WithData(table).Render()
		return nil
	},
}

func init() {
	historyCmd.Flags().IntVarP(&historyLimit, "limit", "n", 20, "number of attempts to show (0 for all)")
}
