/*
Copyright © 2024 Acronis International GmbH.

Released under MIT license.
*/

package lrumemo

import (
	"fmt"

	"github.com/pbougue/utils/config"
)

const cfgDefaultKeyPrefix = "memo"

const cfgKeyCapacity = "capacity"

// Config represents a set of configuration parameters for the LRUMemo.
// Configuration can be loaded in different formats (YAML, JSON) using config.Loader, viper,
// or with json.Unmarshal/yaml.Unmarshal functions directly.
type Config struct {
	// Capacity is the maximum number of memoized results. 0 disables memoization.
	Capacity int `mapstructure:"capacity" yaml:"capacity" json:"capacity"`

	keyPrefix string
}

var _ config.Config = (*Config)(nil)
var _ config.KeyPrefixProvider = (*Config)(nil)

// NewConfig creates a new instance of the Config with the given key prefix.
// If the key prefix is empty, "memo" is used.
func NewConfig(keyPrefix string) *Config {
	return &Config{Capacity: DefaultCapacity, keyPrefix: keyPrefix}
}

// NewDefaultConfig creates a new instance of the Config with default values.
func NewDefaultConfig() *Config {
	return &Config{Capacity: DefaultCapacity}
}

// KeyPrefix returns a key prefix with which all configuration parameters should be presented.
// Implements config.KeyPrefixProvider interface.
func (c *Config) KeyPrefix() string {
	if c.keyPrefix == "" {
		return cfgDefaultKeyPrefix
	}
	return c.keyPrefix
}

// SetProviderDefaults sets default configuration values in config.DataProvider.
// Implements config.Config interface.
func (c *Config) SetProviderDefaults(dp config.DataProvider) {
	dp.SetDefault(cfgKeyCapacity, DefaultCapacity)
}

// Set sets configuration values from config.DataProvider.
// Implements config.Config interface.
func (c *Config) Set(dp config.DataProvider) error {
	capacity, err := dp.GetInt(cfgKeyCapacity)
	if err != nil {
		return err
	}
	if capacity < 0 {
		return dp.WrapKeyErr(cfgKeyCapacity, fmt.Errorf("should be >= 0"))
	}
	c.Capacity = capacity
	return nil
}
