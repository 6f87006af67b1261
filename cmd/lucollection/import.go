package lucollection

import (
	"github.com/kerbaras/lucollection/pkg/services"
	"github.com/pterm/pterm"
	"github.com/spf13/cobra"
)

var importCmd = &cobra.Command{
	Use:   "import <entry>",
	Short: "Import one bundled entry by name or file name",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		controller, err := newController(cfg)
		if err != nil {
			return err
		}
		defer controller.Close()

		entry, err := controller.Entry(args[0])
		if err != nil {
			return err
		}

		ctx, cancel := signalContext(cmd)
		defer cancel()

		spinner, _ := pterm.DefaultSpinner.Start("Importing " + entry.Name)
		result, err := controller.Import(ctx, entry)
		if spinner != nil {
			spinner.Stop()
		}

		notice := services.ImportNotice(entry, result, controller.Settings().Overwrite(entry.Kind), err)
		if err != nil {
			pterm.Error.Println(notice)
			return err
		}
		pterm.Success.Println(notice)
		openHostPage()
		return nil
	},
}

func init() {
	importCmd.Flags().BoolVar(&openHost, "open", false, "open the host in the browser when done")
}
