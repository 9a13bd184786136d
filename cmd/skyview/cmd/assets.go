package cmd

import (
	"fmt"
	"strconv"

	"github.com/spf13/cobra"

	"github.com/agentstation/skyview"
	"github.com/agentstation/skyview/internal/cmd/output"
)

// assetRow describes one embedded bundle file for listing.
type assetRow struct {
	Path        string `json:"path"`
	Size        int    `json:"size"`
	ContentType string `json:"content_type"`
	ETag        string `json:"etag"`
}

// assetsCmd represents the assets command.
var assetsCmd = &cobra.Command{
	Use:   "assets",
	Short: "List the embedded Swagger UI bundle files",
	Long: `Assets lists every file of the embedded Swagger UI bundle with its
size, content type, and ETag. These are the exact bytes a mount serves.`,
	Example: `  skyview assets
  skyview assets -o json
  skyview assets -o wide`,
	RunE: runAssets,
}

func init() {
	rootCmd.AddCommand(assetsCmd)
}

func runAssets(_ *cobra.Command, _ []string) error {
	format, err := output.ParseFormat(globalFlags.Output)
	if err != nil {
		return err
	}

	// A root mount makes every bundle path resolvable as "/"+path.
	ui, err := skyview.New(skyview.WithBasePath(""))
	if err != nil {
		return fmt.Errorf("loading bundle: %w", err)
	}

	rows := make([]assetRow, 0, len(ui.AssetPaths()))
	for _, path := range ui.AssetPaths() {
		target := ui.Resolve("GET", "/"+path)
		rows = append(rows, assetRow{
			Path:        path,
			Size:        len(target.Body),
			ContentType: target.ContentType,
			ETag:        target.ETag,
		})
	}

	switch format {
	case output.FormatTable, output.FormatWide:
		return output.Print(assetsTable(rows, format == output.FormatWide), format)
	default:
		return output.Print(rows, format)
	}
}

// assetsTable lays the rows out for table output. Wide adds the ETag column.
func assetsTable(rows []assetRow, wide bool) output.Data {
	headers := []string{"Path", "Size", "Content Type"}
	alignment := []output.Align{output.AlignLeft, output.AlignRight, output.AlignLeft}
	if wide {
		headers = append(headers, "ETag")
		alignment = append(alignment, output.AlignLeft)
	}

	data := output.Data{
		Headers:         headers,
		ColumnAlignment: alignment,
	}
	for _, row := range rows {
		cells := []string{row.Path, strconv.Itoa(row.Size), row.ContentType}
		if wide {
			cells = append(cells, row.ETag)
		}
		data.Rows = append(data.Rows, cells)
	}
	return data
}
