package config

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/zalando/go-keyring"
)

func TestCredentials(t *testing.T) {
	keyring.MockInit()
	creds := NewCredentials()
	host := HostConfig{URL: "http://127.0.0.1:8000", Username: "lu"}

	password, err := creds.ResolvePassword(host)
	require.NoError(t, err)
	assert.Empty(t, password)

	require.NoError(t, creds.SetPassword(host.URL, host.Username, "hunter2"))
	password, err = creds.ResolvePassword(host)
	require.NoError(t, err)
	assert.Equal(t, "hunter2", password)

	host.Password = "from-env"
	password, err = creds.ResolvePassword(host)
	require.NoError(t, err)
	assert.Equal(t, "from-env", password)

	require.NoError(t, creds.DeletePassword(host.URL, host.Username))
	require.NoError(t, creds.DeletePassword(host.URL, host.Username), "deleting twice is fine")
	password, err = creds.Password(host.URL, host.Username)
	require.NoError(t, err)
	assert.Empty(t, password)
}

func TestCredentials_RequiresUsername(t *testing.T) {
	keyring.MockInit()
	assert.Error(t, NewCredentials().SetPassword("http://h", "", "x"))
}
