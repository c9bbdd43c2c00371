package commands

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/anas-shakeel/bmpfx/internal/bmp"
	"github.com/anas-shakeel/bmpfx/internal/diagnostics"
)

func newInspectCmd() *cobra.Command {
	var (
		format  string
		dump    bool
		preview bool
	)

	cmd := &cobra.Command{
		Use:   "inspect <file.bmp>",
		Short: "Print bitmap metadata without modifying anything",
		Long: `Print the file and info headers of a bitmap.

Examples:
  # Metadata table
  bmp inspect image.bmp

  # Metadata as JSON
  bmp inspect image.bmp --format json

  # Raw header fields and the pixel array in hex
  bmp inspect image.bmp --dump`,
		Args: cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, err := loadConfig(cmd)
			if err != nil {
				return err
			}

			f, err := diagnostics.ParseFormat(format)
			if err != nil {
				return err
			}

			b, err := bmp.ReadBitmap(args[0],
				bmp.WithStrict(cfg.Strict),
				bmp.WithMaxPixelBytes(cfg.MaxImageSize.Uint64()),
			)
			if err != nil {
				return err
			}

			out := cmd.OutOrStdout()
			if dump {
				if err := diagnostics.Dump(out, b); err != nil {
					return err
				}
			} else if err := diagnostics.WriteReport(out, diagnostics.Summary(b), f); err != nil {
				return err
			}

			if preview {
				fmt.Fprintln(out)
				return diagnostics.Preview(out, b)
			}
			return nil
		},
	}

	cmd.Flags().StringVar(&format, "format", "text", "output format: text, json, yaml")
	cmd.Flags().BoolVar(&dump, "dump", false, "print raw header fields and the pixel array in hex")
	cmd.Flags().BoolVar(&preview, "preview", false, "draw the image with terminal colors (small images only)")

	return cmd
}
