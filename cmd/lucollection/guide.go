package lucollection

import (
	"fmt"

	"github.com/kerbaras/lucollection/pkg/data"
	"github.com/kerbaras/lucollection/pkg/services"
	"github.com/pterm/pterm"
	"github.com/spf13/cobra"
)

var guideCmd = &cobra.Command{
	Use:       "guide [themes|characters]",
	Short:     "Show how to install themes or character cards",
	Args:      cobra.MaximumNArgs(1),
	ValidArgs: []string{"themes", "characters"},
	RunE: func(cmd *cobra.Command, args []string) error {
		arg := "all"
		if len(args) == 1 {
			arg = args[0]
		}
		kinds, err := parseKinds(arg)
		if err != nil {
			return err
		}

		settings, err := loadSettings()
		if err != nil {
			return err
		}

		for i, kind := range kinds {
			if i > 0 {
				pterm.Println()
			}
			pterm.Info.Printfln("Installing %s", services.KindLabel(kind))
			for n, line := range services.Guide(kind, settings) {
				pterm.Printf("  %d. %s\n", n+1, line)
			}
		}
		return nil
	},
}

// loadSettings reads the overwrite settings without contacting the host.
func loadSettings() (data.Settings, error) {
	repo, err := data.NewDuckDBRepository(cfg.Data.DBPath)
	if err != nil {
		return data.Settings{}, fmt.Errorf("failed to open database: %w", err)
	}
	defer repo.Close()
	return repo.LoadSettings()
}
