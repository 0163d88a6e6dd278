package inspect

import (
	"encoding/json"
	"fmt"
	"io"
	"text/tabwriter"

	"gopkg.in/yaml.v3"
)

// FormatOutput writes inspection results in the given output format
func FormatOutput(w io.Writer, response *Response, format string) error {
	switch format {
	case "json":
		return encodeJSON(w, response)
	case "yaml":
		return encodeYAML(w, response)
	case "table":
		return formatTable(w, response)
	default:
		return fmt.Errorf("unsupported output format: %s", format)
	}
}

// FormatTranslation writes a translation result in the given output format
func FormatTranslation(w io.Writer, response *TranslateResponse, format string) error {
	switch format {
	case "json":
		return encodeJSON(w, response)
	case "yaml":
		return encodeYAML(w, response)
	case "table":
		fmt.Fprintf(w, "0x%08X -> 0x%08X (image offset 0x%X, via %s)\n",
			response.Address, response.LoadAddress, response.Offset, response.Via)
		return nil
	default:
		return fmt.Errorf("unsupported output format: %s", format)
	}
}

func formatTable(w io.Writer, response *Response) error {
	img := response.Image
	fmt.Fprintf(w, "File: %s (%s, %d bytes at 0x%08X)\n", img.Path, img.Format, img.Size, img.Origin)
	if img.FamilyID != 0 {
		fmt.Fprintf(w, "UF2 family: 0x%08X\n", img.FamilyID)
	}
	fmt.Fprintf(w, "Header: 0x%08X\n", response.HeaderAddress)
	fmt.Fprintf(w, "Entries: 0x%08X-0x%08X (%d)\n", response.EntriesStart, response.EntriesEnd, len(response.Entries))
	fmt.Fprintf(w, "Mapping table: 0x%08X\n", response.MappingTable)
	for _, m := range response.Mapping {
		fmt.Fprintf(w, "  0x%08X-0x%08X <- 0x%08X\n", m.DestStart, m.DestEnd, m.Source)
	}
	fmt.Fprintln(w)

	if len(response.Entries) == 0 {
		fmt.Fprintln(w, "No entries.")
		return nil
	}

	tw := tabwriter.NewWriter(w, 0, 0, 2, ' ', 0)
	fmt.Fprintf(tw, "ADDRESS\tTYPE\tTAG\tID\tNAME\tVALUE\n")
	fmt.Fprintf(tw, "-------\t----\t---\t--\t----\t-----\n")
	for _, e := range response.Entries {
		name := e.Name
		if name == "" {
			name = "-"
		}
		value := e.Value
		if !e.Supported {
			value = "(unsupported)"
		}
		fmt.Fprintf(tw, "0x%08X\t%s\t%s\t0x%08X\t%s\t%s\n", e.Address, e.DataType, e.Tag, e.ID, name, value)
	}
	return tw.Flush()
}

func encodeJSON(w io.Writer, v any) error {
	encoder := json.NewEncoder(w)
	encoder.SetIndent("", "  ")
	return encoder.Encode(v)
}

func encodeYAML(w io.Writer, v any) error {
	encoder := yaml.NewEncoder(w)
	defer encoder.Close()
	encoder.SetIndent(2)
	return encoder.Encode(v)
}
