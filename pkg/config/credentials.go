package config

import (
	"errors"
	"fmt"

	"github.com/zalando/go-keyring"
)

// KeyringService is the keyring service the host password is stored under.
const KeyringService = "lucollection"

// Credentials stores the host's basic-auth password in the OS keyring.
type Credentials struct {
	service string
}

func NewCredentials() *Credentials {
	return &Credentials{service: KeyringService}
}

func account(hostURL, username string) string {
	return username + "@" + hostURL
}

func (c *Credentials) SetPassword(hostURL, username, password string) error {
	if username == "" {
		return fmt.Errorf("host.username is not set")
	}
	if err := keyring.Set(c.service, account(hostURL, username), password); err != nil {
		return fmt.Errorf("store password: %w", err)
	}
	return nil
}

// Password returns the stored password, or "" when none is stored.
func (c *Credentials) Password(hostURL, username string) (string, error) {
	secret, err := keyring.Get(c.service, account(hostURL, username))
	if errors.Is(err, keyring.ErrNotFound) {
		return "", nil
	}
	if err != nil {
		return "", fmt.Errorf("read password: %w", err)
	}
	return secret, nil
}

func (c *Credentials) DeletePassword(hostURL, username string) error {
	err := keyring.Delete(c.service, account(hostURL, username))
	if err != nil && !errors.Is(err, keyring.ErrNotFound) {
		return fmt.Errorf("delete password: %w", err)
	}
	return nil
}

// ResolvePassword prefers LUCOLLECTION_HOST_PASSWORD over the keyring.
func (c *Credentials) ResolvePassword(host HostConfig) (string, error) {
	if host.Password != "" || host.Username == "" {
		return host.Password, nil
	}
	return c.Password(host.URL, host.Username)
}
