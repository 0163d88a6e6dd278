package build

import (
	"encoding/json"
	"fmt"
	"io"
	"text/tabwriter"

	"gopkg.in/yaml.v3"
)

// FormatOutput writes build results in the given output format
func FormatOutput(w io.Writer, response *Response, format string) error {
	switch format {
	case "json":
		return formatJSON(w, response)
	case "yaml":
		return formatYAML(w, response)
	case "table":
		return formatTable(w, response)
	default:
		return fmt.Errorf("unsupported output format: %s", format)
	}
}

// formatTable formats results as a table
func formatTable(w io.Writer, response *Response) error {
	fmt.Fprintf(w, "Wrote %s (%s, %d bytes)\n", response.Output, response.Format, response.FileSize)
	fmt.Fprintf(w, "Image: 0x%08X-0x%08X (%d bytes)\n",
		response.Origin, response.Origin+uint32(response.ImageSize), response.ImageSize)
	fmt.Fprintf(w, "Header: 0x%08X  entries 0x%08X-0x%08X  mapping table 0x%08X\n",
		response.HeaderAddress, response.EntriesStart, response.EntriesEnd, response.MappingTable)
	if response.BuildID != "" {
		fmt.Fprintf(w, "Build ID: %s\n", response.BuildID)
	}
	fmt.Fprintln(w)

	if len(response.Entries) == 0 {
		fmt.Fprintln(w, "No entries.")
		return nil
	}

	tw := tabwriter.NewWriter(w, 0, 0, 2, ' ', 0)

	// Header
	fmt.Fprintf(tw, "ADDRESS\tTAG\tID\tNAME\tPLACEMENT\tVALUE\n")
	fmt.Fprintf(tw, "-------\t---\t--\t----\t---------\t-----\n")

	// Data rows
	for _, e := range response.Entries {
		name := e.Name
		if name == "" {
			name = "-"
		}
		placement := e.Placement
		if placement == "" {
			placement = "-"
		}
		fmt.Fprintf(tw, "0x%08X\t%s\t0x%08X\t%s\t%s\t%s\n", e.Address, e.Tag, e.ID, name, placement, e.Value)
	}

	if err := tw.Flush(); err != nil {
		return err
	}

	fmt.Fprintf(w, "\n%d entries in %v\n", len(response.Entries), response.BuildTime)
	return nil
}

// formatJSON formats results as JSON
func formatJSON(w io.Writer, response *Response) error {
	encoder := json.NewEncoder(w)
	encoder.SetIndent("", "  ")
	return encoder.Encode(response)
}

// formatYAML formats results as YAML
func formatYAML(w io.Writer, response *Response) error {
	encoder := yaml.NewEncoder(w)
	defer encoder.Close()
	encoder.SetIndent(2)
	return encoder.Encode(response)
}
