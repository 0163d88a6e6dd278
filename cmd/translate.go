package cmd

import (
	"github.com/spf13/cobra"

	"github.com/deploymenttheory/go-binaryinfo/pkg/app/inspect"
)

var translateCmd = &cobra.Command{
	Use:   "translate [image] [address]",
	Short: "Find where a run-time address is stored in an image",
	Long: `Translate an address through the image's mapping table.

Addresses inside the image are returned unchanged. RAM addresses covered by
the mapping table are translated to the flash copy that is loaded into RAM at
startup.

Examples:
  binfo translate blinky.uf2 0x20000050`,

	Args: cobra.ExactArgs(2),
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

		response, err := inspect.Translate(ctx, &inspect.TranslateRequest{
			ImagePath: args[0],
			Address:   args[1],
			Config:    cfg,
		})
		if err != nil {
			return err
		}
		return inspect.FormatTranslation(cmd.OutOrStdout(), response, ctx.OutputFormat)
	},
}

func init() {
	rootCmd.AddCommand(translateCmd)
}
