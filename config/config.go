package config

import (
	"errors"
	"fmt"
	"os"

	"gopkg.in/yaml.v2"

	"Addrforge/address"
	"Addrforge/constants"
	"Addrforge/keys"
	"Addrforge/utils"
)

var ErrInvalidConfig = errors.New("invalid configuration")

// Config selects the key backend, address parameters and storage
// locations. Zero values fall back to Default.
type Config struct {
	Network   string `yaml:"network"`
	Kind      string `yaml:"kind"`
	Prefix    string `yaml:"prefix"`
	Backend   string `yaml:"backend"`
	Workers   int    `yaml:"workers"`
	IndexPath string `yaml:"index_path"`
	Debug     bool   `yaml:"debug"`
}

// Default returns testnet enterprise addresses from ed25519 keys.
func Default() *Config {
	return &Config{
		Network: address.NetworkTestnet.String(),
		Kind:    address.KindEnterpriseKey.String(),
		Backend: keys.NameEd25519,
		Workers: constants.NumWorkers,
	}
}

// Load reads a YAML file over the defaults. Unknown keys are rejected.
func Load(path string) (*Config, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("read config %s: %w", path, err)
	}

	cfg := Default()
	if err := yaml.UnmarshalStrict(data, cfg); err != nil {
		return nil, fmt.Errorf("%w: %s: %v", ErrInvalidConfig, path, err)
	}
	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return cfg, nil
}

// LoadOrDefault loads path if it exists, otherwise returns Default.
func LoadOrDefault(path string) (*Config, error) {
	if path == "" {
		return Default(), nil
	}
	if !utils.FileExists(path) {
		return Default(), nil
	}
	return Load(path)
}

// Save writes the config as YAML.
func (c *Config) Save(path string) error {
	data, err := yaml.Marshal(c)
	if err != nil {
		return fmt.Errorf("marshal config: %w", err)
	}
	return os.WriteFile(path, data, 0644)
}

// Validate checks every enumerated field.
func (c *Config) Validate() error {
	if _, err := c.AddressParams(); err != nil {
		return fmt.Errorf("%w: %v", ErrInvalidConfig, err)
	}
	if _, err := keys.ByName(c.Backend); err != nil {
		return fmt.Errorf("%w: %v", ErrInvalidConfig, err)
	}
	if c.Workers < 1 {
		return fmt.Errorf("%w: workers must be positive, got %d", ErrInvalidConfig, c.Workers)
	}
	return nil
}

// AddressParams resolves the network, kind and prefix. An empty prefix
// takes the network's conventional one.
func (c *Config) AddressParams() (address.Params, error) {
	network, err := address.ParseNetwork(c.Network)
	if err != nil {
		return address.Params{}, err
	}
	kind, err := address.ParseKind(c.Kind)
	if err != nil {
		return address.Params{}, err
	}

	params := address.Params{Kind: kind, Network: network, Prefix: c.Prefix}
	if params.Prefix == "" {
		params.Prefix = address.PrefixFor(network)
	}
	return params, params.Validate()
}

// KeyBackend returns the configured key backend.
func (c *Config) KeyBackend() (keys.Backend, error) {
	return keys.ByName(c.Backend)
}
