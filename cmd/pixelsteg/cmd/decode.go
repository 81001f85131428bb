package cmd

import (
	"fmt"

	"github.com/spf13/cobra"
)

func newDecodeCmd() *cobra.Command {
	decodeCmd := &cobra.Command{
		Use:     "decode",
		Aliases: []string{"d", "dec"},
		Short:   "Recover a payload from an image",
		Long: `Recover the payload hidden in a PNG or BMP image by pixelsteg encode.

Examples:
  pixelsteg decode -s secret.png
  cat secret.png | pixelsteg decode --compress -o notes.txt`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			rt := appContextFrom(cmd)

			source, _ := cmd.Flags().GetString("source")
			out, _ := cmd.Flags().GetString("out")

			decompress := rt.config.Compress
			if cmd.Flags().Changed("compress") {
				decompress, _ = cmd.Flags().GetBool("compress")
			}

			src, err := readInput(cmd, source)
			if err != nil {
				return err
			}

			data, err := rt.newService(nil).DecodeImage(src, decompress)
			if err != nil {
				return fmt.Errorf("failed to decode: %w", err)
			}

			rt.logger.Info("decoded payload", "payload_bytes", len(data))
			return writeOutput(cmd, out, data)
		},
	}

	decodeCmd.Flags().StringP("source", "s", "-", "Image path, - for stdin")
	decodeCmd.Flags().StringP("out", "o", "-", "Output path, - for stdout")
	decodeCmd.Flags().Bool("compress", false, "zstd-decompress the extracted payload")

	return decodeCmd
}
