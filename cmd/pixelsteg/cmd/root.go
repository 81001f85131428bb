/*
Copyright © 2025 NAME HERE <EMAIL ADDRESS>
*/
package cmd

import (
	"context"
	"fmt"
	"io"
	"log/slog"
	"os"

	"github.com/spf13/cobra"

	"github.com/ssargent/pixelsteg/pkg/capacity"
	"github.com/ssargent/pixelsteg/pkg/config"
	"github.com/ssargent/pixelsteg/pkg/di"
	"github.com/ssargent/pixelsteg/pkg/steg"
)

type appContextKey struct{}

// appContext is what the root command resolves for its subcommands
type appContext struct {
	configPath string
	config     *config.Config
	logger     *slog.Logger
	container  *di.Container
}

func appContextFrom(cmd *cobra.Command) *appContext {
	rt, _ := cmd.Context().Value(appContextKey{}).(*appContext)
	return rt
}

// NewRootCmd builds the command tree
func NewRootCmd(container *di.Container) *cobra.Command {
	rootCmd := &cobra.Command{
		Use:   "pixelsteg",
		Short: "pixelsteg - hide data in image pixels",
		Long: `pixelsteg hides arbitrary payloads in the least-significant bits of
PNG and BMP images and recovers them without any outside metadata.

A small header written into the first pixels records where the payload
starts, which bits of each pixel carry it and how long it is.`,
		SilenceUsage: true,
		PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
			configPath, _ := cmd.Flags().GetString("config")
			verbose, _ := cmd.Flags().GetBool("verbose")

			if configPath == "" {
				configPath = config.GetDefaultConfigPath()
			}

			cfg := config.DefaultConfig()
			if config.ConfigExists(configPath) {
				loaded, err := config.LoadConfig(configPath)
				if err != nil {
					return err
				}
				cfg = loaded
			}

			level, err := config.ParseLevel(cfg.Logging.Level)
			if err != nil {
				return err
			}
			if verbose {
				level = slog.LevelDebug
			}

			// stdout carries payloads and images
			logger := slog.New(slog.NewTextHandler(cmd.ErrOrStderr(), &slog.HandlerOptions{Level: level}))

			ctx := cmd.Context()
			if ctx == nil {
				ctx = context.Background()
			}
			cmd.SetContext(context.WithValue(ctx, appContextKey{}, &appContext{
				configPath: configPath,
				config:     cfg,
				logger:     logger,
				container:  container,
			}))
			return nil
		},
	}

	rootCmd.PersistentFlags().String("config", "", "Config file (default ~/.config/pixelsteg/config.yaml)")
	rootCmd.PersistentFlags().BoolP("verbose", "v", false, "Enable debug logging")

	rootCmd.AddCommand(
		newEncodeCmd(),
		newDecodeCmd(),
		newStatCmd(),
		newInitCmd(),
		newServeCmd(),
	)

	return rootCmd
}

// Execute runs the root command. This is called by main.main().
func Execute(container *di.Container) {
	if err := NewRootCmd(container).Execute(); err != nil {
		os.Exit(1)
	}
}

// newService builds the embedding service. A seed makes placement
// reproducible.
func (rt *appContext) newService(seed *uint64) *steg.Service {
	var opts []steg.Option
	opts = append(opts, steg.WithLogger(rt.logger))
	if seed != nil {
		opts = append(opts, steg.WithPlanner(capacity.NewPlanner(capacity.WithRand(capacity.NewSeededRand(*seed)))))
	}
	return steg.NewService(steg.New(opts...), rt.logger)
}

// readInput reads path, or stdin when path is "-" or empty.
func readInput(cmd *cobra.Command, path string) ([]byte, error) {
	if path == "" || path == "-" {
		data, err := io.ReadAll(cmd.InOrStdin())
		if err != nil {
			return nil, fmt.Errorf("failed to read stdin: %w", err)
		}
		return data, nil
	}
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("failed to read %s: %w", path, err)
	}
	return data, nil
}

// writeOutput writes data to path, or stdout when path is "-" or empty.
func writeOutput(cmd *cobra.Command, path string, data []byte) error {
	if path == "" || path == "-" {
		if _, err := cmd.OutOrStdout().Write(data); err != nil {
			return fmt.Errorf("failed to write stdout: %w", err)
		}
		return nil
	}
	if err := os.WriteFile(path, data, 0644); err != nil {
		return fmt.Errorf("failed to write %s: %w", path, err)
	}
	return nil
}
