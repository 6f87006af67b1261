package lucollection

import (
	"strings"

	"github.com/kerbaras/lucollection/pkg/data"
	"github.com/kerbaras/lucollection/pkg/integrations"
	"github.com/kerbaras/lucollection/pkg/services"
	"github.com/pterm/pterm"
	"github.com/rs/zerolog/log"
	"github.com/spf13/cobra"
)

var (
	showImport bool
	showWidth  int
)

var showCmd = &cobra.Command{
	Use:   "show <entry>",
	Short: "Describe a bundled entry and preview its image",
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

		asset, err := controller.Load(ctx, entry)
		if err != nil {
			return err
		}

		if img, err := controller.Preview(ctx, entry); err != nil {
			log.Debug().Err(err).Str("entry", entry.Name).Msg("no preview")
		} else if len(img) > 0 {
			thumb, err := integrations.Thumbnail(img, showWidth)
			if err != nil {
				log.Debug().Err(err).Str("entry", entry.Name).Msg("preview is not a decodable image")
			} else {
				pterm.Println(thumb)
			}
		}

		pterm.Println()
		pterm.Info.Printfln("%s (%s, %s)", entry.Name, entry.Kind, entry.FileName())
		item := integrations.CatalogItem{Entry: entry, Card: asset.Card}
		if desc := item.Describe(); desc != "" {
			pterm.Println(desc)
		}
		if card := asset.Card; card != nil {
			if card.Creator != "" {
				pterm.Printf("Creator: %s\n", card.Creator)
			}
			if len(card.Tags) > 0 {
				pterm.Printf("Tags: %s\n", strings.Join(card.Tags, ", "))
			}
		}
		if entry.Kind == data.KindTheme {
			pterm.Printf("Theme name: %s\n", asset.ThemeName())
		}
		pterm.Printf("Served from: %s\n", asset.Location)

		overwrite := controller.Settings().Overwrite(entry.Kind)
		if !showImport {
			pterm.Println()
			pterm.Info.Println(services.OverwriteNotice(entry.Kind, overwrite))
			pterm.Printf("Import it with: lucollection import %q\n", entry.Name)
			return nil
		}

		result, err := controller.Import(ctx, entry)
		notice := services.ImportNotice(entry, result, overwrite, err)
		if err != nil {
			pterm.Error.Println(notice)
			return err
		}
		pterm.Success.Println(notice)
		return nil
	},
}

func init() {
	showCmd.Flags().BoolVarP(&showImport, "import", "i", false, "import the entry after showing it")
	showCmd.Flags().IntVarP(&showWidth, "width", "w", integrations.DefaultThumbnailWidth, "preview width in terminal columns")
}
