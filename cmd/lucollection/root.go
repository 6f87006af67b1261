package lucollection

import (
	"context"
	"fmt"
	"os"
	"os/signal"
	"syscall"

	"github.com/kerbaras/lucollection/pkg/app"
	"github.com/kerbaras/lucollection/pkg/bundle"
	"github.com/kerbaras/lucollection/pkg/config"
	"github.com/kerbaras/lucollection/pkg/data"
	"github.com/kerbaras/lucollection/pkg/logging"
	"github.com/kerbaras/lucollection/pkg/services"
	"github.com/kerbaras/lucollection/pkg/sources"
	"github.com/pkg/browser"
	"github.com/pterm/pterm"
	"github.com/rs/zerolog/log"
	"github.com/spf13/cobra"
)

var (
	cfgFile  string
	cfg      *config.Config
	openHost bool

	closeLog = func() error { return nil }
)

var rootCmd = &cobra.Command{
	Use:   "lucollection",
	Short: "Install the lu-collection themes and character cards into SillyTavern",
	Long: "Browse the bundled lu-collection assets and import them into a running " +
		"SillyTavern host, one at a time or all at once.",
	SilenceUsage: true,
	PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
		var err error
		cfg, err = config.Load(cfgFile, cmd.Flags())
		if err != nil {
			return err
		}
		closeLog, err = logging.Setup(logging.Options{
			Level:  cfg.Logging.Level,
			File:   cfg.Logging.File,
			ToFile: cmd == cmd.Root(),
		})
		return err
	},
	PersistentPostRunE: func(cmd *cobra.Command, args []string) error {
		return closeLog()
	},
	RunE: func(cmd *cobra.Command, args []string) error {
		// Launch TUI by default
		controller, err := newController(cfg)
		if err != nil {
			return err
		}
		defer controller.Close()

		return app.NewApp(controller).Run()
	},
}

func init() {
	rootCmd.PersistentFlags().StringVar(&cfgFile, "config", "", "config file (default ~/.lucollection/config.yaml)")
	rootCmd.PersistentFlags().String("host", "", "SillyTavern URL, e.g. http://127.0.0.1:8000")
	rootCmd.PersistentFlags().String("log-level", "", "log level (debug, info, warn, error)")

	rootCmd.AddCommand(installCmd)
	rootCmd.AddCommand(importCmd)
	rootCmd.AddCommand(exportCmd)
	rootCmd.AddCommand(showCmd)
	rootCmd.AddCommand(guideCmd)
	rootCmd.AddCommand(settingsCmd)
	rootCmd.AddCommand(listCmd)
	rootCmd.AddCommand(historyCmd)
	rootCmd.AddCommand(catalogCmd)
	rootCmd.AddCommand(loginCmd)
	rootCmd.AddCommand(logoutCmd)
}

func Execute() {
	if err := rootCmd.Execute(); err != nil {
		os.Exit(1)
	}
}

// signalContext is canceled on Ctrl+C so batches stop between entries.
func signalContext(cmd *cobra.Command) (context.Context, context.CancelFunc) {
	return signal.NotifyContext(cmd.Context(), os.Interrupt, syscall.SIGTERM)
}

// newController wires the host client, asset locations and local store from cfg.
func newController(cfg *config.Config) (*services.CollectionController, error) {
	password, err := config.NewCredentials().ResolvePassword(cfg.Host)
	if err != nil {
		log.Warn().Err(err).Msg("could not read the host password from the keyring")
	}

	host, err := sources.NewSillyTavern(sources.SillyTavernOptions{
		BaseURL:  cfg.Host.URL,
		Username: cfg.Host.Username,
		Password: password,
		Timeout:  cfg.Host.Timeout,
	})
	if err != nil {
		return nil, err
	}

	locations, err := assetLocations(cfg, host)
	if err != nil {
		return nil, err
	}

	repo, err := data.NewDuckDBRepository(cfg.Data.DBPath)
	if err != nil {
		return nil, fmt.Errorf("failed to open database: %w", err)
	}

	controller, err := services.NewCollectionController(repo, services.ControllerConfig{
		Host:      host,
		Locations: locations,
		ExportDir: cfg.Data.ExportDir,
		MaxSuffix: cfg.Resolver.MaxSuffix,
	})
	if err != nil {
		repo.Close()
		return nil, err
	}
	return controller, nil
}

// assetLocations lists where bundled files are fetched from, in order: a
// local directory or the host's primary path, the host's secondary path,
// then the copy compiled into the binary.
func assetLocations(cfg *config.Config, host *sources.SillyTavern) ([]sources.Location, error) {
	var locations []sources.Location
	if cfg.Assets.Dir != "" {
		dir, err := sources.NewDirLocation(cfg.Assets.Dir)
		if err != nil {
			return nil, fmt.Errorf("assets.dir: %w", err)
		}
		locations = append(locations, dir)
	} else if cfg.Assets.PrimaryPath != "" {
		locations = append(locations, host.StaticLocation(cfg.Assets.PrimaryPath))
	}
	if cfg.Assets.SecondaryPath != "" {
		locations = append(locations, host.StaticLocation(cfg.Assets.SecondaryPath))
	}
	if cfg.Assets.Embedded {
		locations = append(locations, sources.NewFSLocation("embedded", bundle.FS()))
	}
	if len(locations) == 0 {
		return nil, fmt.Errorf("no asset location configured; set assets.dir, assets.primary_path or assets.embedded")
	}
	return locations, nil
}

// parseKinds maps a command argument to the kinds it covers.
func parseKinds(arg string) ([]data.Kind, error) {
	switch arg {
	case "themes", "theme":
		return []data.Kind{data.KindTheme}, nil
	case "characters", "character", "chars":
		return []data.Kind{data.KindCharacter}, nil
	case "all", "":
		return []data.Kind{data.KindCharacter, data.KindTheme}, nil
	}
	return nil, fmt.Errorf("unknown category %q (want themes, characters or all)", arg)
}

func printNotice(level, text string) {
	switch level {
	case "error":
		pterm.Error.Println(text)
	case "warning":
		pterm.Warning.Println(text)
	case "success":
		pterm.Success.Println(text)
	default:
		pterm.Info.Println(text)
	}
}

// openHostPage opens the host in the browser so new assets show up after a reload.
func openHostPage() {
	if !openHost {
		return
	}
	if err := browser.OpenURL(cfg.Host.URL); err != nil {
		pterm.Warning.Printf("Could not open browser automatically: %v\n", err)
		return
	}
	pterm.Info.Println("(Opened the host in the browser)")
}
