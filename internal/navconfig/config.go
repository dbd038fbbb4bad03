// Package navconfig loads operator-facing configuration for cmd/navcli
// using spf13/viper (with joho/godotenv for local .env overrides), then
// translates it into a plain navcore.Config struct. pkg/navcore itself never
// imports viper or godotenv — per section 6, the library takes configuration
// as a struct, never reads environment variables or flag files on its own;
// only the CLI boundary does that translation.
//
// Grounded on the teacher's cmd/backend/main.go configuration bootstrap
// (environment variables read once at startup, collected into a small
// config struct passed down to constructors), generalized from os.Getenv
// calls to a viper-backed loader with file, env, and default-value layering.
package navconfig

import (
	"fmt"
	"os"
	"strings"

	"github.com/joho/godotenv"
	"github.com/spf13/viper"

	"github.com/fieldforge/navcore/pkg/navcore"
)

// File describes where configuration may come from: an optional config
// file plus the NAVCORE_-prefixed environment, in that precedence order
// (environment wins).
type File struct {
	Path string // e.g. "navcore.yaml"; empty means "search standard locations"
}

// Load reads configuration from .env (if present), a config file, and the
// environment, and returns a ready-to-use navcore.Config.
func Load(f File) (navcore.Config, error) {
	_ = godotenv.Load() // local .env is optional; absence is not an error

	v := viper.New()
	v.SetEnvPrefix("NAVCORE")
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	v.AutomaticEnv()

	v.SetDefault("grid.width", 256)
	v.SetDefault("grid.height", 256)
	v.SetDefault("grid.pitch", 1.0)
	v.SetDefault("zone.block_size", 16)
	v.SetDefault("search.pool_capacity", 1<<16)
	v.SetDefault("search.max_expansions", 1<<14)
	v.SetDefault("queue.capacity", 4096)
	v.SetDefault("persist.dsn", "")

	if f.Path != "" {
		v.SetConfigFile(f.Path)
		// A named file that does not exist leaves the defaults in place.
		if err := v.ReadInConfig(); err != nil && !os.IsNotExist(err) {
			return navcore.Config{}, fmt.Errorf("navconfig: reading %s: %w", f.Path, err)
		}
	} else {
		v.SetConfigName("navcore")
		v.AddConfigPath(".")
		v.AddConfigPath("$HOME/.config/navcore")
		if err := v.ReadInConfig(); err != nil {
			if _, notFound := err.(viper.ConfigFileNotFoundError); !notFound {
				return navcore.Config{}, fmt.Errorf("navconfig: reading config: %w", err)
			}
		}
	}

	cfg := navcore.Config{
		Width:              int32(v.GetInt("grid.width")),
		Height:             int32(v.GetInt("grid.height")),
		Pitch:              v.GetFloat64("grid.pitch"),
		ZoneBlockSize:      int32(v.GetInt("zone.block_size")),
		SearchPoolCapacity: v.GetInt("search.pool_capacity"),
		MaxExpansions:      v.GetInt("search.max_expansions"),
		QueueCapacity:      v.GetInt("queue.capacity"),
	}
	return cfg, nil
}

// PersistDSN returns the configured persistence connection string, read
// separately from Config since it belongs to the persist package, not the
// engine itself.
func PersistDSN(f File) (string, error) {
	v := viper.New()
	v.SetEnvPrefix("NAVCORE")
	v.AutomaticEnv()
	v.SetDefault("persist.dsn", "")
	if f.Path != "" {
		v.SetConfigFile(f.Path)
		_ = v.ReadInConfig()
	}
	return v.GetString("persist.dsn"), nil
}
