package commands

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"
	xbmp "golang.org/x/image/bmp"

	"github.com/anas-shakeel/bmpfx/internal/bmp"
)

func newVerifyCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "verify <file.bmp>",
		Short: "Check that a bitmap decodes with this tool and with golang.org/x/image/bmp",
		Long: `Decode a bitmap with the strict codec and with golang.org/x/image/bmp,
and check that both agree on its dimensions. Useful for checking files
written by this tool, which keep OffBits from their input.`,
		Args: cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, err := loadConfig(cmd)
			if err != nil {
				return err
			}
			out := cmd.OutOrStdout()
			path := args[0]

			b, err := bmp.ReadBitmap(path,
				bmp.WithStrict(true),
				bmp.WithMaxPixelBytes(cfg.MaxImageSize.Uint64()),
			)
			if err != nil {
				return err
			}
			fmt.Fprintf(out, "codec:       ok (%dx%d, %d pixel bytes)\n",
				b.InfoHeader.Width, b.InfoHeader.Height, len(b.Pixels))

			width, height, err := decodeStandard(path)
			if err != nil {
				return fmt.Errorf("x/image/bmp: %w", err)
			}
			fmt.Fprintf(out, "x/image/bmp: ok (%dx%d)\n", width, height)

			if uint32(width) != b.InfoHeader.Width || uint32(height) != b.InfoHeader.Height {
				return fmt.Errorf("dimension mismatch: header says %dx%d, decoder produced %dx%d",
					b.InfoHeader.Width, b.InfoHeader.Height, width, height)
			}
			return nil
		},
	}
}

// decodeStandard fully decodes path with golang.org/x/image/bmp.
func decodeStandard(path string) (int, int, error) {
	f, err := os.Open(path)
	if err != nil {
		return 0, 0, err
	}
	defer f.Close()

	img, err := xbmp.Decode(f)
	if err != nil {
		return 0, 0, err
	}
	bounds := img.Bounds()
	return bounds.Dx(), bounds.Dy(), nil
}
