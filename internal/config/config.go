// Package config loads the supplier API credentials and cache settings
// from config.yaml, with .env and environment variables layered on top.
package config

import (
	"fmt"
	"strings"

	"github.com/joho/godotenv"
	"github.com/spf13/viper"
)

// Config carries the pricing-integration settings. A run without any
// credentials still produces a BOM, just without distributor data.
type Config struct {
	MouserKey           string
	DigiKeyClientID     string
	DigiKeyClientSecret string
	CacheDir            string
}

// HasMouser reports whether the Mouser API can be queried.
func (c *Config) HasMouser() bool { return c.MouserKey != "" }

// HasDigiKey reports whether the DigiKey API can be queried.
func (c *Config) HasDigiKey() bool {
	return c.DigiKeyClientID != "" && c.DigiKeyClientSecret != ""
}

// HasAnySupplier reports whether at least one supplier is configured.
func (c *Config) HasAnySupplier() bool { return c.HasMouser() || c.HasDigiKey() }

// Load reads config.yaml from the working directory. A missing file is not
// an error; credentials can still arrive via .env or the environment
// (OTBOM_APIS_MOUSER_KEY and friends). Only a malformed file fails.
func Load() (*Config, error) {
	// .env entries become plain environment variables for viper to pick up.
	_ = godotenv.Load()

	v := viper.New()
	v.SetConfigName("config")
	v.SetConfigType("yaml")
	v.AddConfigPath(".")
	v.SetEnvPrefix("otbom")
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	v.AutomaticEnv()

	v.SetDefault("cache.dir", ".otbom-cache")

	if err := v.ReadInConfig(); err != nil {
		if _, ok := err.(viper.ConfigFileNotFoundError); !ok {
			return nil, fmt.Errorf("reading config.yaml: %w", err)
		}
	}

	return &Config{
		MouserKey:           v.GetString("apis.mouser.key"),
		DigiKeyClientID:     v.GetString("apis.digikey.client_id"),
		DigiKeyClientSecret: v.GetString("apis.digikey.client_secret"),
		CacheDir:            v.GetString("cache.dir"),
	}, nil
}
