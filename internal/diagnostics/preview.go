package diagnostics

import (
	"bufio"
	"fmt"
	"io"

	"github.com/anas-shakeel/bmpfx/internal/bmp"
	"github.com/anas-shakeel/bmpfx/internal/utils"
)

// MaxPreviewWidth bounds the preview; wider images are refused.
const MaxPreviewWidth = 160

// Preview prints the bitmap in the terminal as colored blocks. Use for small images only.
// Rows are stored bottom-up, so the last stored row is printed first.
func Preview(w io.Writer, b *bmp.Bitmap) error {
	width := int(b.InfoHeader.Width)
	height := int(b.InfoHeader.Height)
	if b.InfoHeader.BitCount != 24 {
		return fmt.Errorf("preview supports 24-bit bitmaps only, got %d", b.InfoHeader.BitCount)
	}
	if width > MaxPreviewWidth {
		return fmt.Errorf("image too wide for preview: %d px (max %d)", width, MaxPreviewWidth)
	}

	// Rows past the end of the buffer are not drawn, whatever Height claims.
	stride := b.Stride()
	rows := 0
	if stride > 0 {
		rows = min(height, (len(b.Pixels)+stride-1)/stride)
	}

	bw := bufio.NewWriter(w)
	for row := rows - 1; row >= 0; row-- {
		start := row * stride
		for col := range width {
			i := start + col*3
			if i+2 >= len(b.Pixels) {
				break
			}
			p := b.Pixels[i : i+3]
			bw.WriteString(utils.ColoredBlock("  ", int(p[2]), int(p[1]), int(p[0])))
		}
		bw.WriteByte('\n')
	}
	return bw.Flush()
}
