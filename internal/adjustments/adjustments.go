// Adjusts image dimensions, orientation, or structure.
package adjustments

import (
	"github.com/anas-shakeel/bmpfx/internal/bmp"
	"github.com/anas-shakeel/bmpfx/internal/logger"
)

// Rotate is the hook for rotating a bitmap by degrees. Rotation is not
// implemented yet: a warning is logged, the bitmap is left untouched and nil
// is returned.
// TODO: swap rows/columns for multiples of 90 and rewrite Width, Height and SizeImage.
func Rotate(b *bmp.Bitmap, degrees int) error {
	if degrees != 0 {
		logger.Warn("rotation requested but not implemented",
			logger.KeyDegrees, degrees,
			logger.KeyPath, b.Filename,
		)
	}
	return nil
}
