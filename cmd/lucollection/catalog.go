package lucollection

import (
	"path/filepath"

	"github.com/kerbaras/lucollection/pkg/integrations"
	"github.com/pterm/pterm"
	"github.com/spf13/cobra"
)

var catalogOut string

var catalogCmd = &cobra.Command{
	Use:   "catalog",
	Short: "Write an EPUB describing every bundled entry",
	Args:  cobra.NoArgs,
	RunE: func(cmd *cobra.Command, args []string) error {
		controller, err := newController(cfg)
		if err != nil {
			return err
		}
		defer controller.Close()

		ctx, cancel := signalContext(cmd)
		defer cancel()

		out := catalogOut
		if out == "" {
			out = filepath.Join(controller.Exporter().Dir(), "lu-collection.epub")
		}

		spinner, _ := pterm.DefaultSpinner.Start("Building catalog")
		items := controller.CatalogItems(ctx)
		path, err := integrations.NewCatalogBuilder("lu-collection").Build(items, out)
		if err != nil {
			if spinner != nil {
				spinner.Fail(err.Error())
			}
			return err
		}
		if spinner != nil {
			spinner.Success("Catalog written to " + path)
		}
		return nil
	},
}

func init() {
	catalogCmd.Flags().StringVarP(&catalogOut, "out", "o", "", "output file (default <data.export_dir>/lu-collection.epub)")
}
