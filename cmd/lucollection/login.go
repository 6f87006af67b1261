package lucollection

import (
	"bufio"
	"context"
	"errors"
	"fmt"
	"os"
	"strings"

	"github.com/kerbaras/lucollection/pkg/config"
	"github.com/kerbaras/lucollection/pkg/sources"
	"github.com/pterm/pterm"
	"github.com/spf13/cobra"
)

var (
	loginUsername      string
	loginPasswordStdin bool
	loginSkipVerify    bool
)

var loginCmd = &cobra.Command{
	Use:   "login",
	Short: "Store the host's basic-auth password in the OS keyring",
	Args:  cobra.NoArgs,
	RunE: func(cmd *cobra.Command, args []string) error {
		username := cfg.Host.Username
		if loginUsername != "" && loginUsername != username {
			if err := config.Set(cfg.Path, "host.username", loginUsername); err != nil {
				return err
			}
			username = loginUsername
		}
		if username == "" {
			return errors.New("no username: pass --username or set host.username")
		}

		password, err := readPassword()
		if err != nil {
			return err
		}

		if !loginSkipVerify {
			if err := verifyLogin(cmd.Context(), username, password); err != nil {
				return fmt.Errorf("host rejected the credentials: %w", err)
			}
		}

		if err := config.NewCredentials().SetPassword(cfg.Host.URL, username, password); err != nil {
			return err
		}
		pterm.Success.Printfln("Password for %s@%s stored in the keyring", username, cfg.Host.URL)
		return nil
	},
}

var logoutCmd = &cobra.Command{
	Use:   "logout",
	Short: "Remove the stored host password",
	Args:  cobra.NoArgs,
	RunE: func(cmd *cobra.Command, args []string) error {
		if cfg.Host.Username == "" {
			pterm.Info.Println("No username configured, nothing to remove.")
			return nil
		}
		if err := config.NewCredentials().DeletePassword(cfg.Host.URL, cfg.Host.Username); err != nil {
			return err
		}
		pterm.Success.Printfln("Password for %s@%s removed", cfg.Host.Username, cfg.Host.URL)
		return nil
	},
}

func init() {
	loginCmd.Flags().StringVarP(&loginUsername, "username", "u", "", "basic-auth username (saved to host.username)")
	loginCmd.Flags().BoolVar(&loginPasswordStdin, "password-stdin", false, "read the password from stdin")
	loginCmd.Flags().BoolVar(&loginSkipVerify, "skip-verify", false, "store the password without contacting the host")
}

func readPassword() (string, error) {
	if loginPasswordStdin {
		line, err := bufio.NewReader(os.Stdin).ReadString('\n')
		if err != nil && line == "" {
			return "", fmt.Errorf("read password: %w", err)
		}
		return strings.TrimRight(line, "\r\n"), nil
	}
	return pterm.DefaultInteractiveTextInput.WithMask("*").Show("Password")
}

func verifyLogin(ctx context.Context, username, password string) error {
	host, err := sources.NewSillyTavern(sources.SillyTavernOptions{
		BaseURL:  cfg.Host.URL,
		Username: username,
		Password: password,
		Timeout:  cfg.Host.Timeout,
	})
	if err != nil {
		return err
	}
	_, err = host.ListThemes(ctx)
	return err
}
