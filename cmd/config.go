package cmd

import (
	"encoding/json"
	"fmt"
	"io"

	"github.com/spf13/cobra"
	"gopkg.in/yaml.v3"

	"github.com/deploymenttheory/go-binaryinfo/internal/config"
)

var configCmd = &cobra.Command{
	Use:   "config",
	Short: "Show the effective layout configuration",
	Long: `Print the layout configuration after applying defaults, the config file
and BINFO_* environment variables, in that order.

Examples:
  BINFO_HEADER_OFFSET=0x40 binfo config
  binfo config --config board.yaml --output yaml`,

	Args: cobra.NoArgs,
	RunE: func(cmd *cobra.Command, args []string) error {
		ctx, err := newContext(cmd)
		if err != nil {
			return err
		}
		defer ctx.Sync()

		cfg, err := loadConfig(ctx)
		if err != nil {
			return err
		}
		return writeConfig(cmd.OutOrStdout(), cfg, ctx.OutputFormat)
	},
}

func init() {
	rootCmd.AddCommand(configCmd)
}

func writeConfig(w io.Writer, cfg *config.BinfoConfig, format string) error {
	switch format {
	case "json":
		encoder := json.NewEncoder(w)
		encoder.SetIndent("", "  ")
		return encoder.Encode(cfg)
	case "yaml":
		encoder := yaml.NewEncoder(w)
		defer encoder.Close()
		encoder.SetIndent(2)
		return encoder.Encode(cfg)
	}

	source := cfg.Source
	if source == "" {
		source = "(defaults)"
	}
	fmt.Fprintf(w, "Source:          %s\n", source)
	fmt.Fprintf(w, "Flash origin:    0x%08X\n", cfg.FlashOrigin)
	fmt.Fprintf(w, "Program offset:  0x%X\n", cfg.ProgramOffset)
	fmt.Fprintf(w, "Header offset:   0x%X\n", cfg.HeaderOffset)
	fmt.Fprintf(w, "Search window:   %d\n", cfg.SearchWindow)
	fmt.Fprintf(w, "RAM:             0x%08X-0x%08X\n", cfg.RAMOrigin, uint64(cfg.RAMOrigin)+uint64(cfg.RAMSize))
	fmt.Fprintf(w, "Binary end:      %t\n", cfg.EmitBinaryEnd)
	if cfg.Boot2Path != "" {
		fmt.Fprintf(w, "Boot2:           %s\n", cfg.Boot2Path)
	}
	fmt.Fprintf(w, "UF2 family:      0x%08X\n", cfg.UF2Family)
	return nil
}
