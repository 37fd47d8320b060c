package config

import (
	"errors"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"Addrforge/address"
	"Addrforge/keys"
)

func writeFile(t *testing.T, body string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), "config.yaml")
	require.NoError(t, os.WriteFile(path, []byte(body), 0644))
	return path
}

func TestDefault(t *testing.T) {
	cfg := Default()
	require.NoError(t, cfg.Validate())

	params, err := cfg.AddressParams()
	require.NoError(t, err)
	assert.Equal(t, address.DefaultParams(address.NetworkTestnet), params)

	b, err := cfg.KeyBackend()
	require.NoError(t, err)
	assert.Equal(t, keys.NameEd25519, b.Name())
}

func TestLoad(t *testing.T) {
	path := writeFile(t, `
network: mainnet
backend: schnorr
workers: 3
index_path: /tmp/idx
`)

	cfg, err := Load(path)
	require.NoError(t, err)
	assert.Equal(t, 3, cfg.Workers)
	assert.Equal(t, "/tmp/idx", cfg.IndexPath)

	params, err := cfg.AddressParams()
	require.NoError(t, err)
	assert.Equal(t, address.NetworkMainnet, params.Network)
	assert.Equal(t, address.PrefixMainnet, params.Prefix)
	assert.Equal(t, address.KindEnterpriseKey, params.Kind)
}

func TestLoadCustomPrefix(t *testing.T) {
	cfg, err := Load(writeFile(t, "prefix: addr_dev\n"))
	require.NoError(t, err)

	params, err := cfg.AddressParams()
	require.NoError(t, err)
	assert.Equal(t, "addr_dev", params.Prefix)
	assert.Equal(t, address.NetworkTestnet, params.Network)
}

func TestLoadRejects(t *testing.T) {
	bodies := []string{
		"network: moon\n",
		"kind: stake\n",
		"backend: rsa\n",
		"workers: 0\n",
		"prefix: Addr\n",
		"unknown_field: 1\n",
	}
	for _, body := range bodies {
		_, err := Load(writeFile(t, body))
		assert.True(t, errors.Is(err, ErrInvalidConfig), "%q: %v", body, err)
	}

	_, err := Load(filepath.Join(t.TempDir(), "missing.yaml"))
	assert.Error(t, err)
}

func TestLoadOrDefaultAndSave(t *testing.T) {
	missing := filepath.Join(t.TempDir(), "missing.yaml")
	cfg, err := LoadOrDefault(missing)
	require.NoError(t, err)
	assert.Equal(t, Default(), cfg)

	cfg.Network = "mainnet"
	cfg.Debug = true
	require.NoError(t, cfg.Save(missing))

	loaded, err := LoadOrDefault(missing)
	require.NoError(t, err)
	assert.Equal(t, cfg, loaded)
}
