package lucollection

import (
	"errors"
	"fmt"

	"github.com/kerbaras/lucollection/pkg/data"
	"github.com/kerbaras/lucollection/pkg/services"
	"github.com/pterm/pterm"
	"github.com/spf13/cobra"
)

var installCmd = &cobra.Command{
	Use:       "install [themes|characters|all]",
	Short:     "Import every bundled theme or character card",
	Long:      "Import every bundled entry of a category into the host, one after another. Failed entries are reported and skipped.",
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
		ctx, cancel := signalContext(cmd)
		defer cancel()

		done := make(chan struct{})
		go func() {
			defer close(done)
			for p := range controller.Progress() {
				printProgress(p)
			}
		}()

		tallies := make(map[data.Kind]*services.Tally, len(kinds))
		var runErr error
		for _, kind := range kinds {
			tally, err := controller.InstallAll(ctx, kind)
			tallies[kind] = tally
			if err != nil {
				runErr = err
				break
			}
		}
		closeErr := controller.Close()
		<-done

		pterm.Println()
		allFailed := true
		for _, kind := range kinds {
			tally := tallies[kind]
			if tally == nil {
				continue
			}
			printNotice(batchLevel(tally), services.BatchSummary(kind, tally))
			if tally.Total == 0 || tally.Succeeded > 0 {
				allFailed = false
			}
		}

		if runErr != nil {
			return fmt.Errorf("install stopped: %w", runErr)
		}
		if allFailed {
			return errors.New("every entry failed to install")
		}
		openHostPage()
		return closeErr
	},
}

func init() {
	installCmd.Flags().BoolVar(&openHost, "open", false, "open the host in the browser when done")
}

func printProgress(p services.InstallProgress) {
	switch p.Status {
	case services.StatusDone:
		name := p.Entry.Name
		if p.Result.WasRenamed {
			name = fmt.Sprintf("%s → %s", p.Entry.Name, p.Result.FinalName)
		}
		pterm.Success.Printfln("[%d/%d] %s", p.Index, p.Total, name)
	case services.StatusFailed:
		pterm.Warning.Printfln("[%d/%d] %s: %v", p.Index, p.Total, p.Entry.Name, p.Error)
	}
}

func batchLevel(tally *services.Tally) string {
	switch {
	case tally.Failed > 0 && tally.Succeeded == 0:
		return "error"
	case tally.Failed > 0:
		return "warning"
	}
	return "success"
}
