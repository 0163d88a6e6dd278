package cmd

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"github.com/deploymenttheory/go-binaryinfo/internal/config"
	"github.com/deploymenttheory/go-binaryinfo/pkg/app"
)

var (
	// Global flags
	verbose      bool
	quiet        bool
	outputFormat string
	configPath   string
)

var rootCmd = &cobra.Command{
	Use:   "binfo",
	Short: "Build and inspect RP2040 binary info metadata",
	Long: `binfo produces firmware images carrying a binary info block: a header
that host tools such as picotool find near the start of the program, a table
of entry addresses, the entries themselves and a RAM to flash mapping table.

Commands:
  build       Link a manifest into a .bin or .uf2 image
  inspect     Read the binary info out of an image
  translate   Find where a run-time address is stored in an image
  ids         List the Raspberry Pi defined IDs
  config      Show the effective layout configuration`,
	Version:       "0.1.0-dev",
	SilenceUsage:  true,
	SilenceErrors: true,
	PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
		return app.ValidateOutputFormat(outputFormat)
	},
}

// Execute adds all child commands to the root command and sets flags appropriately.
func Execute() {
	if err := rootCmd.Execute(); err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		if code := app.ErrorCode(err); code != "" && verbose {
			fmt.Fprintf(os.Stderr, "Code: %s\n", code)
		}
		os.Exit(1)
	}
}

func init() {
	rootCmd.PersistentFlags().BoolVarP(&verbose, "verbose", "v", false, "enable verbose output")
	rootCmd.PersistentFlags().BoolVarP(&quiet, "quiet", "q", false, "suppress output except errors")
	rootCmd.PersistentFlags().StringVarP(&outputFormat, "output", "o", "table", "output format (table, json, yaml)")
	rootCmd.PersistentFlags().StringVar(&configPath, "config", "", "config file (default: binfo-config.yaml in ., ./config or $HOME/.binfo)")
	rootCmd.MarkFlagsMutuallyExclusive("verbose", "quiet")
}

// newContext creates the application context from the global flags
func newContext(cmd *cobra.Command) (*app.Context, error) {
	ctx := app.NewContext()
	if cmd.Context() != nil {
		ctx.Context = cmd.Context()
	}
	ctx.OutputFormat = outputFormat
	ctx.Verbose = verbose
	ctx.Quiet = quiet
	ctx.ConfigPath = configPath

	if err := ctx.SetupLogger(); err != nil {
		return nil, err
	}
	return ctx, nil
}

// loadConfig loads the layout configuration named by --config
func loadConfig(ctx *app.Context) (*config.BinfoConfig, error) {
	cfg, err := config.Load(ctx.ConfigPath)
	if err != nil {
		return nil, app.NewError(app.ErrCodeInvalidInput, "failed to load configuration", err)
	}
	if cfg.Source != "" {
		ctx.Log("Loaded configuration from " + cfg.Source)
	}
	return cfg, nil
}
