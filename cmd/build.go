package cmd

import (
	"fmt"
	"os"
	"os/signal"
	"syscall"

	"github.com/spf13/cobra"

	"github.com/deploymenttheory/go-binaryinfo/pkg/app/build"
)

var (
	buildOut          string
	buildFormat       string
	buildStampBuildID bool
	buildWatch        bool
)

var buildCmd = &cobra.Command{
	Use:   "build [manifest]",
	Short: "Link a binary info manifest into an image",
	Long: `Build an image holding the binary info described by a YAML manifest.

Examples:
  # Flat binary loaded at the configured flash origin
  binfo build blinky.yaml --out blinky.bin

  # UF2 ready to copy onto a board in BOOTSEL mode
  binfo build blinky.yaml --out blinky.uf2

  # Rebuild on every save, tagging the image with the manifest's build ID
  binfo build blinky.yaml --out blinky.uf2 --stamp-build-id --watch`,

	Args: cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		return runBuild(cmd, args[0])
	},
}

func init() {
	rootCmd.AddCommand(buildCmd)

	buildCmd.Flags().StringVar(&buildOut, "out", "", "output image path")
	buildCmd.Flags().StringVar(&buildFormat, "format", "", "image format (bin, uf2); default from --out extension")
	buildCmd.Flags().BoolVar(&buildStampBuildID, "stamp-build-id", false, "add a build-id build attribute derived from the manifest")
	buildCmd.Flags().BoolVar(&buildWatch, "watch", false, "rebuild whenever the manifest changes")

	_ = buildCmd.MarkFlagRequired("out")
}

func runBuild(cmd *cobra.Command, manifestPath string) error {
	ctx, err := newContext(cmd)
	if err != nil {
		return err
	}
	defer ctx.Sync()

	cfg, err := loadConfig(ctx)
	if err != nil {
		return err
	}

	request := &build.Request{
		ManifestPath: manifestPath,
		OutPath:      buildOut,
		Format:       buildFormat,
		StampBuildID: buildStampBuildID,
		Config:       cfg,
	}

	if !buildWatch {
		response, err := build.Handle(ctx, request)
		if err != nil {
			return err
		}
		if ctx.Quiet {
			return nil
		}
		return build.FormatOutput(cmd.OutOrStdout(), response, ctx.OutputFormat)
	}

	signalCtx, stop := signal.NotifyContext(ctx.Context, os.Interrupt, syscall.SIGTERM)
	defer stop()
	ctx.Context = signalCtx

	return build.Watch(ctx, request, func(response *build.Response, err error) {
		if err != nil {
			ctx.Error("Build failed")
			fmt.Fprintf(cmd.ErrOrStderr(), "Error: %v\n", err)
			return
		}
		if !ctx.Quiet {
			_ = build.FormatOutput(cmd.OutOrStdout(), response, ctx.OutputFormat)
		}
	})
}
