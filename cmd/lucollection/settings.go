package lucollection

import (
	"fmt"
	"strconv"

	"github.com/kerbaras/lucollection/pkg/data"
	"github.com/kerbaras/lucollection/pkg/services"
	"github.com/pterm/pterm"
	"github.com/spf13/cobra"
)

var settingsCmd = &cobra.Command{
	Use:   "settings",
	Short: "Show the overwrite settings",
	Args:  cobra.NoArgs,
	RunE: func(cmd *cobra.Command, args []string) error {
		settings, err := loadSettings()
		if err != nil {
			return err
		}
		printSettings(settings)
		return nil
	},
}

var settingsSetCmd = &cobra.Command{
	Use:   "set <overwriteThemes|overwriteCharacters> <true|false>",
	Short: "Change an overwrite setting",
	Long: "Change whether importing replaces an existing theme or card with the same name " +
		"(true) or creates a new copy next to it (false).",
	Args: cobra.ExactArgs(2),
	RunE: func(cmd *cobra.Command, args []string) error {
		kind, err := settingKind(args[0])
		if err != nil {
			return err
		}
		overwrite, err := strconv.ParseBool(args[1])
		if err != nil {
			return fmt.Errorf("invalid value %q: want true or false", args[1])
		}

		repo, err := data.NewDuckDBRepository(cfg.Data.DBPath)
		if err != nil {
			return fmt.Errorf("failed to open database: %w", err)
		}
		defer repo.Close()

		settings, err := repo.LoadSettings()
		if err != nil {
			return err
		}
		if err := repo.SaveSettings(settings.WithOverwrite(kind, overwrite)); err != nil {
			return err
		}

		pterm.Success.Println(services.OverwriteNotice(kind, overwrite))
		return nil
	},
}

func init() {
	settingsCmd.AddCommand(settingsSetCmd)
}

// settingKind accepts the stored key names and the category names.
func settingKind(key string) (data.Kind, error) {
	switch key {
	case "overwriteThemes", "overwrite-themes", "themes":
		return data.KindTheme, nil
	case "overwriteCharacters", "overwrite-characters", "characters":
		return data.KindCharacter, nil
	}
	return "", fmt.Errorf("unknown setting %q (want overwriteThemes or overwriteCharacters)", key)
}

func printSettings(settings data.Settings) {
	table := pterm.TableData{
		{"Setting", "Value", "Effect"},
		{"overwriteThemes", strconv.FormatBool(settings.OverwriteThemes), services.OverwriteNotice(data.KindTheme, settings.OverwriteThemes)},
		{"overwriteCharacters", strconv.FormatBool(settings.OverwriteCharacters), services.OverwriteNotice(data.KindCharacter, settings.OverwriteCharacters)},
	}
	_ = pterm.DefaultTable.WithHasHeader().WithData(table).Render()
}
