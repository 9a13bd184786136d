package cmd

import (
	"fmt"
	"path/filepath"

	"github.com/spf13/cobra"

	"github.com/agentstation/skyview"
	"github.com/agentstation/skyview/internal/cmd/emoji"
	"github.com/agentstation/skyview/internal/fetch"
	"github.com/agentstation/skyview/pkg/logging"
)

var (
	fetchVersion string
	fetchDir     string
)

// fetchCmd represents the fetch command.
var fetchCmd = &cobra.Command{
	Use:   "fetch",
	Short: "Download a Swagger UI release into a local dist directory",
	Long: `Fetch downloads an upstream Swagger UI release archive and extracts the
distribution files the bundle ships. It refreshes the tree that gets
compiled into the binary, so a rebuild is needed before the new bundle
is served.`,
	Example: `  # Refresh the embedded bundle to the compiled-in version
  skyview fetch

  # Pull a specific upstream release into another directory
  skyview fetch --version 5.22.0 --dir /tmp/swagger-dist`,
	RunE: runFetch,
}

func init() {
	rootCmd.AddCommand(fetchCmd)

	fetchCmd.Flags().StringVar(&fetchVersion, "version", skyview.Version(), "Upstream Swagger UI release to download")
	fetchCmd.Flags().StringVar(&fetchDir, "dir", filepath.Join("internal", "bundle", "dist"), "Directory to extract the distribution into")
}

func runFetch(cmd *cobra.Command, _ []string) error {
	logger := logging.Default()

	fmt.Printf("🚀 Fetching Swagger UI %s\n", fetchVersion)

	client := fetch.New(logger)
	if err := client.Refresh(cmd.Context(), fetchVersion, fetchDir); err != nil {
		fmt.Printf("%s Fetch failed\n", emoji.Error)
		return fmt.Errorf("fetching bundle: %w", err)
	}

	fmt.Printf("%s Distribution %s extracted to %s\n", emoji.Success, fetchVersion, fetchDir)
	if fetchVersion != skyview.Version() {
		fmt.Printf("%s Embedded bundle is built as %s; update the bundle version before rebuilding\n",
			emoji.Warning, skyview.Version())
	}
	return nil
}
