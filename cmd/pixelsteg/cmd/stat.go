package cmd

import (
	"encoding/json"
	"fmt"
	"io"
	"text/tabwriter"

	"github.com/spf13/cobra"

	"github.com/ssargent/pixelsteg/pkg/steg"
)

func newStatCmd() *cobra.Command {
	statCmd := &cobra.Command{
		Use:     "stat",
		Aliases: []string{"s"},
		Short:   "Describe an image and its embedded header",
		Long: `Report an image's geometry, pixel format and capacity, and the header
pixelsteg encode left in it, if any.

Examples:
  pixelsteg stat -s secret.png
  pixelsteg stat -s secret.png --json`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			rt := appContextFrom(cmd)

			source, _ := cmd.Flags().GetString("source")
			asJSON, _ := cmd.Flags().GetBool("json")

			src, err := readInput(cmd, source)
			if err != nil {
				return err
			}

			report, err := rt.newService(nil).StatImage(src)
			if err != nil {
				return fmt.Errorf("failed to read image: %w", err)
			}

			if asJSON {
				enc := json.NewEncoder(cmd.OutOrStdout())
				enc.SetIndent("", "  ")
				return enc.Encode(report)
			}
			return printReport(cmd.OutOrStdout(), report)
		},
	}

	statCmd.Flags().StringP("source", "s", "-", "Image path, - for stdin")
	statCmd.Flags().Bool("json", false, "Print the report as JSON")

	return statCmd
}

func printReport(w io.Writer, r *steg.Report) error {
	tw := tabwriter.NewWriter(w, 0, 0, 2, ' ', 0)
	fmt.Fprintf(tw, "Container:\t%s\n", r.Container)
	fmt.Fprintf(tw, "Dimensions:\t%dx%d\n", r.Width, r.Height)
	fmt.Fprintf(tw, "Pixel format:\t%s\n", r.Format)
	fmt.Fprintf(tw, "Pixels:\t%d (%d reserved for the header)\n", r.PixelCount, r.ReservedPixels)
	fmt.Fprintf(tw, "Capacity:\t%d bytes\n", r.CapacityBytes)

	switch {
	case r.HeaderFound:
		fmt.Fprintf(tw, "Header:\tversion %d\n", r.Version)
		fmt.Fprintf(tw, "Payload length:\t%d bytes\n", r.DataLen)
		fmt.Fprintf(tw, "Start pixel:\t%d\n", r.StartPixel)
		fmt.Fprintf(tw, "Data mask:\t%s\n", r.DataMask)
		fmt.Fprintf(tw, "Bits per pixel:\t%d %v\n", r.BitsPerPixel, r.ChannelBits)
		fmt.Fprintf(tw, "Pixels used:\t%d\n", r.PixelsUsed)
	case r.Damaged:
		fmt.Fprintf(tw, "Header:\tdamaged (%s)\n", r.HeaderError)
	default:
		fmt.Fprintf(tw, "Header:\tnone\n")
	}
	return tw.Flush()
}
