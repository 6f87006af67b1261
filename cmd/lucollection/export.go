package lucollection

import (
	"github.com/kerbaras/lucollection/pkg/services"
	"github.com/pterm/pterm"
	"github.com/spf13/cobra"
)

var exportDir string

var exportCmd = &cobra.Command{
	Use:       "export [themes|characters|all]",
	Short:     "Write the bundled files to disk for manual installation",
	Long:      "Write every bundled file of a category to a directory, named after the entry, so it can be installed by hand.",
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

		ctx, cancel := signalContext(cmd)
		defer cancel()

		dir := exportDir
		if dir == "" {
			dir = controller.Exporter().Dir()
		}

		var exportErr error
		for _, kind := range kinds {
			paths, err := controller.Export(ctx, kind, dir)
			for _, p := range paths {
				pterm.Success.Println(p)
			}
			if err != nil {
				pterm.Warning.Printfln("Some %s could not be exported: %v", services.KindLabel(kind), err)
				exportErr = err
			}
		}
		pterm.Info.Printfln("Files written to %s", dir)
		return exportErr
	},
}

func init() {
	exportCmd.Flags().StringVarP(&exportDir, "dir", "d", "", "output directory (default data.export_dir)")
}

