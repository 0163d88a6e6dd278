// Package config loads the image layout used by the binfo commands.
package config

import (
	"fmt"
	"os"
	"strings"

	"github.com/spf13/viper"

	"github.com/deploymenttheory/go-binaryinfo/internal/layout"
	"github.com/deploymenttheory/go-binaryinfo/internal/types"
)

// BinfoConfig holds configuration for building and reading images
type BinfoConfig struct {
	FlashOrigin   uint32 `mapstructure:"flash_origin" json:"flash_origin" yaml:"flash_origin"`
	ProgramOffset uint32 `mapstructure:"program_offset" json:"program_offset" yaml:"program_offset"`
	HeaderOffset  uint32 `mapstructure:"header_offset" json:"header_offset" yaml:"header_offset"`
	SearchWindow  uint32 `mapstructure:"search_window" json:"search_window" yaml:"search_window"`
	RAMOrigin     uint32 `mapstructure:"ram_origin" json:"ram_origin" yaml:"ram_origin"`
	RAMSize       uint32 `mapstructure:"ram_size" json:"ram_size" yaml:"ram_size"`
	EmitBinaryEnd bool   `mapstructure:"emit_binary_end" json:"emit_binary_end" yaml:"emit_binary_end"`
	Boot2Path     string `mapstructure:"boot2_path" json:"boot2_path,omitempty" yaml:"boot2_path,omitempty"`
	UF2Family     uint32 `mapstructure:"uf2_family" json:"uf2_family" yaml:"uf2_family"`

	// File the settings were read from, empty when only defaults and
	// environment were used.
	Source string `mapstructure:"-" json:"source,omitempty" yaml:"source,omitempty"`
}

// Load reads binfo-config.yaml from the usual places, or from path when it is
// not empty. Addresses may be written in hex ("0x10000000") in the file and
// in BINFO_* environment variables.
func Load(path string) (*BinfoConfig, error) {
	v := viper.New()

	if path != "" {
		v.SetConfigFile(path)
	} else {
		v.SetConfigName("binfo-config")
		v.SetConfigType("yaml")
		v.AddConfigPath(".")
		v.AddConfigPath("./config")
		v.AddConfigPath("$HOME/.binfo")
	}

	// Set defaults
	v.SetDefault("flash_origin", layout.DefaultFlashOrigin)
	v.SetDefault("program_offset", layout.DefaultProgramOffset)
	v.SetDefault("header_offset", layout.DefaultHeaderOffset)
	v.SetDefault("search_window", layout.DefaultSearchWindow)
	v.SetDefault("ram_origin", layout.DefaultRAMOrigin)
	v.SetDefault("ram_size", layout.DefaultRAMSize)
	v.SetDefault("emit_binary_end", true)
	v.SetDefault("boot2_path", "")
	v.SetDefault("uf2_family", types.UF2FamilyRP2040)

	// Allow environment variables
	v.SetEnvPrefix("BINFO")
	v.SetEnvKeyReplacer(strings.NewReplacer("-", "_"))
	v.AutomaticEnv()

	if err := v.ReadInConfig(); err != nil {
		if _, ok := err.(viper.ConfigFileNotFoundError); !ok {
			return nil, fmt.Errorf("error reading config file: %w", err)
		}
		// Config file not found is OK, we'll use defaults
	}

	var cfg BinfoConfig
	if err := v.Unmarshal(&cfg); err != nil {
		return nil, fmt.Errorf("error unmarshaling config: %w", err)
	}
	cfg.Source = v.ConfigFileUsed()

	return &cfg, nil
}

// Default returns the configuration used when nothing overrides it
func Default() *BinfoConfig {
	return &BinfoConfig{
		FlashOrigin:   layout.DefaultFlashOrigin,
		ProgramOffset: layout.DefaultProgramOffset,
		HeaderOffset:  layout.DefaultHeaderOffset,
		SearchWindow:  layout.DefaultSearchWindow,
		RAMOrigin:     layout.DefaultRAMOrigin,
		RAMSize:       layout.DefaultRAMSize,
		EmitBinaryEnd: true,
		UF2Family:     types.UF2FamilyRP2040,
	}
}

// Layout converts the configuration into a link layout, reading the boot2
// blob if one is configured.
func (c *BinfoConfig) Layout() (layout.Config, error) {
	cfg := layout.Config{
		FlashOrigin:   c.FlashOrigin,
		ProgramOffset: c.ProgramOffset,
		HeaderOffset:  c.HeaderOffset,
		SearchWindow:  c.SearchWindow,
		RAMOrigin:     c.RAMOrigin,
		RAMSize:       c.RAMSize,
		EmitBinaryEnd: c.EmitBinaryEnd,
	}

	if c.Boot2Path != "" {
		boot2, err := os.ReadFile(c.Boot2Path)
		if err != nil {
			return layout.Config{}, fmt.Errorf("failed to read boot2: %w", err)
		}
		cfg.Boot2 = boot2
	}

	if err := cfg.Validate(); err != nil {
		return layout.Config{}, err
	}
	return cfg, nil
}
