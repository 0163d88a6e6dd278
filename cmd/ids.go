package cmd

import (
	"encoding/json"
	"fmt"
	"io"
	"text/tabwriter"

	"github.com/spf13/cobra"
	"gopkg.in/yaml.v3"

	"github.com/deploymenttheory/go-binaryinfo/pkg/binaryinfo"
)

type idRow struct {
	Tag        string `json:"tag" yaml:"tag"`
	ID         string `json:"id" yaml:"id"`
	Name       string `json:"name" yaml:"name"`
	DataType   string `json:"data_type" yaml:"data_type"`
	Repeatable bool   `json:"repeatable" yaml:"repeatable"`
}

var idsCmd = &cobra.Command{
	Use:   "ids",
	Short: "List the Raspberry Pi defined binary info IDs",
	Args:  cobra.NoArgs,
	RunE: func(cmd *cobra.Command, args []string) error {
		return writeIDs(cmd.OutOrStdout(), outputFormat)
	},
}

func init() {
	rootCmd.AddCommand(idsCmd)
}

func writeIDs(w io.Writer, format string) error {
	rows := make([]idRow, 0, len(binaryinfo.WellKnownIDs))
	for _, info := range binaryinfo.WellKnownIDs {
		rows = append(rows, idRow{
			Tag:        binaryinfo.TagString(info.Tag),
			ID:         fmt.Sprintf("0x%08x", info.ID),
			Name:       info.Name,
			DataType:   info.DataType.String(),
			Repeatable: info.Repeatable,
		})
	}

	switch format {
	case "json":
		encoder := json.NewEncoder(w)
		encoder.SetIndent("", "  ")
		return encoder.Encode(rows)
	case "yaml":
		encoder := yaml.NewEncoder(w)
		defer encoder.Close()
		encoder.SetIndent(2)
		return encoder.Encode(rows)
	}

	tw := tabwriter.NewWriter(w, 0, 0, 2, ' ', 0)
	fmt.Fprintf(tw, "TAG\tID\tNAME\tTYPE\tREPEATABLE\n")
	for _, r := range rows {
		fmt.Fprintf(tw, "%s\t%s\t%s\t%s\t%t\n", r.Tag, r.ID, r.Name, r.DataType, r.Repeatable)
	}
	return tw.Flush()
}
