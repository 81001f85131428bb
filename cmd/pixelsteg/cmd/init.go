/*
Copyright © 2025 NAME HERE <EMAIL ADDRESS>
*/
package cmd

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/ssargent/pixelsteg/pkg/config"
)

func newInitCmd() *cobra.Command {
	initCmd := &cobra.Command{
		Use:   "init",
		Short: "Create a pixelsteg configuration file",
		Long: `Create a configuration file with defaults and a generated API key for
pixelsteg serve.

Examples:
  pixelsteg init
  pixelsteg init --config ./pixelsteg.yaml --data-dir ./data --print-key`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			rt := appContextFrom(cmd)

			dataDir, _ := cmd.Flags().GetString("data-dir")
			force, _ := cmd.Flags().GetBool("force")
			printKey, _ := cmd.Flags().GetBool("print-key")

			if config.ConfigExists(rt.configPath) && !force {
				cmd.Printf("Configuration already exists at %s. Use --force to overwrite.\n", rt.configPath)
				return nil
			}

			cfg, err := config.BootstrapConfig(rt.configPath, dataDir)
			if err != nil {
				return fmt.Errorf("failed to create configuration: %w", err)
			}

			cmd.Printf("✅ Configuration written to %s\n", rt.configPath)
			cmd.Printf("Artifact data directory: %s\n", cfg.Storage.DataDir)
			if printKey {
				cmd.Printf("API key: %s\n", cfg.Server.APIKey)
			} else {
				cmd.Printf("API key stored in the configuration file (use --print-key to show it)\n")
			}
			cmd.Printf("\nYou can now start the server with:\n")
			cmd.Printf("  pixelsteg serve --config %s\n", rt.configPath)
			return nil
		},
	}

	initCmd.Flags().String("data-dir", "", "Artifact data directory (default ./data)")
	initCmd.Flags().Bool("force", false, "Overwrite an existing configuration")
	initCmd.Flags().Bool("print-key", false, "Print the generated API key")

	return initCmd
}
