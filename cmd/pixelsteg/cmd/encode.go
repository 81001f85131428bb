package cmd

import (
	"fmt"
	"path/filepath"
	"strings"

	"github.com/spf13/cobra"

	"github.com/ssargent/pixelsteg/pkg/imageio"
	"github.com/ssargent/pixelsteg/pkg/steg"
)

func newEncodeCmd() *cobra.Command {
	encodeCmd := &cobra.Command{
		Use:     "encode <source>",
		Aliases: []string{"e", "enc"},
		Short:   "Hide a payload in an image",
		Long: `Hide a payload in the least-significant bits of a PNG or BMP image.

The payload is the --message text, or stdin when no message is given.
The new image goes to --out, or stdout.

Examples:
  pixelsteg encode cover.png -m "Such Message, much wow" -o secret.png
  cat notes.txt | pixelsteg encode cover.png --compress > secret.png
  pixelsteg encode cover.png -m hello --format bmp -o secret.bmp`,
		Args: cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			rt := appContextFrom(cmd)

			out, _ := cmd.Flags().GetString("out")
			format, _ := cmd.Flags().GetString("format")

			var data []byte
			if cmd.Flags().Changed("message") {
				message, _ := cmd.Flags().GetString("message")
				data = []byte(message)
			} else {
				if args[0] == "-" {
					return fmt.Errorf("stdin cannot carry both the image and the payload, use --message")
				}
				var err error
				if data, err = readInput(cmd, "-"); err != nil {
					return err
				}
			}

			compress := rt.config.Compress
			if cmd.Flags().Changed("compress") {
				compress, _ = cmd.Flags().GetBool("compress")
			}

			seed := rt.config.Seed
			if cmd.Flags().Changed("seed") {
				s, _ := cmd.Flags().GetUint64("seed")
				seed = &s
			}

			container, err := outputContainer(format, out, rt.config.OutputFormat)
			if err != nil {
				return err
			}

			src, err := readInput(cmd, args[0])
			if err != nil {
				return err
			}

			res, err := rt.newService(seed).EncodeImage(src, data, steg.EncodeOptions{
				Container: container,
				Compress:  compress,
			})
			if err != nil {
				return fmt.Errorf("failed to encode %s: %w", args[0], err)
			}

			rt.logger.Info("encoded payload",
				"payload_bytes", res.PayloadBytes,
				"bits_per_pixel", res.Plan.BitsPerPixel,
				"data_mask", res.Plan.DataMask.String(),
				"start_pixel", res.Plan.StartPixel,
				"container", string(res.Container),
			)

			return writeOutput(cmd, out, res.Image)
		},
	}

	encodeCmd.Flags().StringP("message", "m", "", "Payload text (default: read stdin)")
	encodeCmd.Flags().StringP("out", "o", "-", "Output image path, - for stdout")
	encodeCmd.Flags().String("format", "", "Output container: png or bmp (default: from --out extension, then config)")
	encodeCmd.Flags().Bool("compress", false, "zstd-compress the payload before embedding")
	encodeCmd.Flags().Uint64("seed", 0, "Seed for payload placement, for reproducible output")

	return encodeCmd
}

// outputContainer picks the output container: explicit flag, then the
// output file extension, then the configured default. Empty keeps the
// source container.
func outputContainer(flag, out, configured string) (imageio.Container, error) {
	if flag != "" {
		return imageio.ParseContainer(flag)
	}
	if out != "" && out != "-" {
		ext := strings.TrimPrefix(filepath.Ext(out), ".")
		if c, err := imageio.ParseContainer(ext); err == nil {
			return c, nil
		}
	}
	if configured != "" {
		return imageio.ParseContainer(configured)
	}
	return "", nil
}
