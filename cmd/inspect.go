package cmd

import (
	"github.com/spf13/cobra"

	"github.com/deploymenttheory/go-binaryinfo/pkg/app/inspect"
)

var (
	inspectWindow  int64
	inspectScanAll bool
)

var inspectCmd = &cobra.Command{
	Use:   "inspect [image]",
	Short: "Read the binary info out of a .bin or .uf2 image",
	Long: `Locate the binary info header in an image and decode every entry.

Flat binaries are assumed to start at the configured flash origin. UF2 files
carry their own addresses.

Examples:
  binfo inspect blinky.uf2
  binfo inspect blinky.bin --output json
  binfo inspect firmware.bin --all`,

	Args: cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		return runInspect(cmd, args[0])
	},
}

func init() {
	rootCmd.AddCommand(inspectCmd)

	inspectCmd.Flags().Int64Var(&inspectWindow, "window", 0, "bytes after the program start to search for the header (default from config)")
	inspectCmd.Flags().BoolVar(&inspectScanAll, "all", false, "search the whole image for the header")

	inspectCmd.MarkFlagsMutuallyExclusive("window", "all")
}

func runInspect(cmd *cobra.Command, imagePath string) error {
	ctx, err := newContext(cmd)
	if err != nil {
		return err
	}
	defer ctx.Sync()

	cfg, err := loadConfig(ctx)
	if err != nil {
		return err
	}

	request := &inspect.Request{
		ImagePath: imagePath,
		Window:    inspectWindow,
		Config:    cfg,
	}
	if inspectScanAll {
		request.Window = -1
	}

	response, err := inspect.Handle(ctx, request)
	if err != nil {
		return err
	}

	return inspect.FormatOutput(cmd.OutOrStdout(), response, ctx.OutputFormat)
}
