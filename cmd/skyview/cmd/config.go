package cmd

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"github.com/agentstation/skyview/internal/server"
	"github.com/agentstation/skyview/pkg/logging"
)

// configCmd represents the config command.
var configCmd = &cobra.Command{
	Use:   "config",
	Short: "Preview the UI configuration a mount would serve",
	Long: `Config renders the swagger-ui-config.json document for the given flags
exactly as a mount would serve it. Useful for checking document URLs and
UI options before starting a server.`,
	Example: `  skyview config --spec api/openapi.yaml
  skyview config --base-path /api-docs --url https://example.com/openapi.json
  skyview config --spec api.yaml --ui-option docExpansion=list`,
	RunE: runConfig,
}

func init() {
	rootCmd.AddCommand(configCmd)

	defaults := server.DefaultConfig()

	configCmd.Flags().String("base-path", defaults.BasePath, "Mount path for the UI")
	configCmd.Flags().StringSlice("spec", nil, "OpenAPI document file to serve (repeatable)")
	configCmd.Flags().StringSlice("url", nil, "Remote OpenAPI document URL (repeatable)")
	configCmd.Flags().StringToString("ui-option", nil, "Swagger UI option as key=value (repeatable)")
}

func runConfig(cmd *cobra.Command, _ []string) error {
	cfg := server.DefaultConfig()
	cfg.BasePath, _ = cmd.Flags().GetString("base-path")
	cfg.SpecFiles, _ = cmd.Flags().GetStringSlice("spec")
	cfg.SpecURLs, _ = cmd.Flags().GetStringSlice("url")

	uiOptions, _ := cmd.Flags().GetStringToString("ui-option")
	cfg.UIOptions = parseUIOptions(uiOptions)

	ui, err := server.BuildUI(cfg, logging.Default())
	if err != nil {
		return fmt.Errorf("building mount: %w", err)
	}

	// The rendered document is the deliverable, so it goes to stdout
	// unchanged regardless of the output flag.
	configJSON := ui.ConfigJSON()
	if _, err := os.Stdout.Write(configJSON); err != nil {
		return err
	}
	if len(configJSON) == 0 || configJSON[len(configJSON)-1] != '\n' {
		fmt.Println()
	}
	return nil
}
