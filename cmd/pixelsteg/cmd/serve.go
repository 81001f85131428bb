/*
Copyright © 2025 NAME HERE <EMAIL ADDRESS>
*/
package cmd

import (
	"fmt"
	"os"
	"os/signal"
	"syscall"

	"github.com/spf13/cobra"

	"github.com/ssargent/pixelsteg/pkg/api"
	"github.com/ssargent/pixelsteg/pkg/config"
)

func newServeCmd() *cobra.Command {
	serveCmd := &cobra.Command{
		Use:   "serve",
		Short: "Start the REST API server",
		Long: `Start the pixelsteg REST API server.

Clients authenticate with the X-API-Key header. Encoded images can be kept
in the artifact store under data-dir and downloaded later by ID.

Examples:
  pixelsteg serve
  pixelsteg serve --port 9000 --api-key mysecretkey
  pixelsteg serve --no-store`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			rt := appContextFrom(cmd)
			cfg := rt.config

			if cmd.Flags().Changed("port") {
				cfg.Server.Port, _ = cmd.Flags().GetInt("port")
			}
			if cmd.Flags().Changed("bind") {
				cfg.Server.Bind, _ = cmd.Flags().GetString("bind")
			}
			if cmd.Flags().Changed("api-key") {
				cfg.Server.APIKey, _ = cmd.Flags().GetString("api-key")
			}
			if cmd.Flags().Changed("data-dir") {
				cfg.Storage.DataDir, _ = cmd.Flags().GetString("data-dir")
			}
			noStore, _ := cmd.Flags().GetBool("no-store")

			apiKey, err := resolveAPIKey(cfg.Server.APIKey)
			if err != nil {
				return err
			}
			if apiKey != cfg.Server.APIKey {
				cmd.PrintErrf("Generated API key for this session: %s\n", apiKey)
			}

			var artifacts api.ArtifactStore
			if !noStore {
				if err := os.MkdirAll(cfg.Storage.DataDir, 0750); err != nil {
					return fmt.Errorf("failed to create data dir: %w", err)
				}
				store, err := rt.container.GetStoreOpener()(cfg.Storage.DataDir)
				if err != nil {
					return err
				}
				defer store.Close()
				artifacts = store
			}

			ctx, stop := signal.NotifyContext(cmd.Context(), os.Interrupt, syscall.SIGTERM)
			defer stop()

			starter := rt.container.GetServerFactory().CreateServerStarter()
			return starter.StartServer(ctx, rt.newService(cfg.Seed), artifacts, api.ServerConfig{
				Port:           cfg.Server.Port,
				Bind:           cfg.Server.Bind,
				APIKey:         apiKey,
				MaxUploadBytes: cfg.Server.MaxUploadBytes,
				OutputFormat:   cfg.OutputFormat,
				Compress:       cfg.Compress,
			}, rt.logger)
		},
	}

	serveCmd.Flags().IntP("port", "p", 8080, "Port to listen on")
	serveCmd.Flags().String("bind", "127.0.0.1", "Address to bind")
	serveCmd.Flags().String("api-key", "", "API key for client authentication")
	serveCmd.Flags().String("data-dir", "./data", "Artifact data directory")
	serveCmd.Flags().Bool("no-store", false, "Disable the artifact store")

	return serveCmd
}

// resolveAPIKey replaces the "auto" placeholder with a fresh key. An empty
// key is rejected so the server is never open by accident.
func resolveAPIKey(key string) (string, error) {
	switch key {
	case "":
		return "", fmt.Errorf("an API key is required: set server.api_key or pass --api-key (run 'pixelsteg init' to generate one)")
	case "auto":
		return config.GenerateSecureKey(32)
	default:
		return key, nil
	}
}
