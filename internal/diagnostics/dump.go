// Package diagnostics renders bitmap headers and pixel data for humans.
// Nothing in this package mutates the bitmap.
package diagnostics

import (
	"bufio"
	"fmt"
	"io"

	"github.com/anas-shakeel/bmpfx/internal/bmp"
)

// BytesPerLine is the number of pixel bytes printed per line by WritePixels.
const BytesPerLine = 32

// WriteHeaders prints every header field as a labeled key/value line.
func WriteHeaders(w io.Writer, fh bmp.FileHeader, ih bmp.InfoHeader) error {
	bw := bufio.NewWriter(w)

	field := func(label, format string, v any) {
		fmt.Fprintf(bw, "%-14s= "+format+"\n", label, v)
	}

	fmt.Fprintln(bw, "bitmap file header:")
	field("Type", "0x%04X", fh.Type)
	field("Size", "%d bytes", fh.Size)
	field("Reserved1", "0x%X", fh.Reserved1)
	field("Reserved2", "0x%X", fh.Reserved2)
	field("OffBits", "%d bytes", fh.OffBits)
	fmt.Fprintln(bw)

	fmt.Fprintln(bw, "bitmap info header:")
	field("Size", "%d bytes", ih.Size)
	field("Width", "%d pixels", ih.Width)
	field("Height", "%d pixels", ih.Height)
	field("Planes", "%d", ih.Planes)
	field("BitCount", "%d bits/pixel", ih.BitCount)
	field("Compression", "0x%X", ih.Compression)
	field("SizeImage", "%d bytes", ih.SizeImage)
	field("XPelsPerMeter", "%d", ih.XPelsPerMeter)
	field("YPelsPerMeter", "%d", ih.YPelsPerMeter)
	field("ClrUsed", "%d", ih.ClrUsed)
	field("ClrImportant", "%d", ih.ClrImportant)

	return bw.Flush()
}

// WritePixels prints the buffer as space separated two-digit hex bytes,
// BytesPerLine bytes to a line.
func WritePixels(w io.Writer, pixels []byte) error {
	bw := bufio.NewWriter(w)
	for i, p := range pixels {
		if i%BytesPerLine != 0 {
			bw.WriteByte(' ')
		}
		fmt.Fprintf(bw, "%02X", p)
		if (i+1)%BytesPerLine == 0 {
			bw.WriteByte('\n')
		}
	}
	if len(pixels)%BytesPerLine != 0 {
		bw.WriteByte('\n')
	}
	return bw.Flush()
}

// Dump prints headers followed by the pixel array.
func Dump(w io.Writer, b *bmp.Bitmap) error {
	if err := WriteHeaders(w, b.FileHeader, b.InfoHeader); err != nil {
		return err
	}
	if _, err := fmt.Fprint(w, "\npixel array:\n"); err != nil {
		return err
	}
	return WritePixels(w, b.Pixels)
}
