// BMP-specific structs and types
package bmp

import (
	"encoding/binary"
	"io"
)

const (
	FileHeaderLen = 14                            // Size of BITMAPFILEHEADER on disk
	InfoHeaderLen = 40                            // Size of BITMAPINFOHEADER on disk
	HeaderLen     = FileHeaderLen + InfoHeaderLen // Fixed header region

	// Signature is "BM" read as a little-endian uint16.
	Signature uint16 = 0x4D42
)

// The FileHeader structure contains information about the type, size,
// and layout of a file that contains a DIB [device-independent bitmap].
// https://learn.microsoft.com/en-us/windows/win32/api/wingdi/ns-wingdi-bitmapfileheader
type FileHeader struct {
	Type      uint16 // The file type: must be 0x4d42 (ASCII string "BM").
	Size      uint32 // The size, in bytes, of the bitmap file.
	Reserved1 uint16 // Reserved; must be zero.
	Reserved2 uint16 // Reserved; must be zero.
	OffBits   uint32 // Bitmap File Offset (In bytes) to Pixel Arrays
}

// The InfoHeader structure contains information about the
// dimensions and color format of DIB [device-independent bitmap].
//
// Width and Height are signed in the general format; this tool treats them as unsigned.
type InfoHeader struct {
	Size          uint32 // The number of bytes required by the structure.
	Width         uint32 // The width of the bitmap, in pixels.
	Height        uint32 // The height of the bitmap, in pixels
	Planes        uint16 // The number of planes for the target device.
	BitCount      uint16 // The number of bits-per-pixel.
	Compression   uint32 // The type of compression
	SizeImage     uint32 // The size of the image (in bytes).
	XPelsPerMeter uint32 // The horizontal resolution, in pixels-per-meter.
	YPelsPerMeter uint32 // The vertical resolution, in pixels-per-meter.
	ClrUsed       uint32 // Number of color indexes that are actually used by bitmap.
	ClrImportant  uint32 // Number of color indexes required for displaying the bitmap.
}

// MarshalBinary encodes the header into its 14-byte on-disk layout.
func (h FileHeader) MarshalBinary() ([]byte, error) {
	b := make([]byte, FileHeaderLen)
	le := binary.LittleEndian
	le.PutUint16(b[0:2], h.Type)
	le.PutUint32(b[2:6], h.Size)
	le.PutUint16(b[6:8], h.Reserved1)
	le.PutUint16(b[8:10], h.Reserved2)
	le.PutUint32(b[10:14], h.OffBits)
	return b, nil
}

// UnmarshalBinary decodes the first 14 bytes of b.
func (h *FileHeader) UnmarshalBinary(b []byte) error {
	if len(b) < FileHeaderLen {
		return io.ErrUnexpectedEOF
	}
	le := binary.LittleEndian
	h.Type = le.Uint16(b[0:2])
	h.Size = le.Uint32(b[2:6])
	h.Reserved1 = le.Uint16(b[6:8])
	h.Reserved2 = le.Uint16(b[8:10])
	h.OffBits = le.Uint32(b[10:14])
	return nil
}

// MarshalBinary encodes the header into its 40-byte on-disk layout.
func (h InfoHeader) MarshalBinary() ([]byte, error) {
	b := make([]byte, InfoHeaderLen)
	le := binary.LittleEndian
	le.PutUint32(b[0:4], h.Size)
	le.PutUint32(b[4:8], h.Width)
	le.PutUint32(b[8:12], h.Height)
	le.PutUint16(b[12:14], h.Planes)
	le.PutUint16(b[14:16], h.BitCount)
	le.PutUint32(b[16:20], h.Compression)
	le.PutUint32(b[20:24], h.SizeImage)
	le.PutUint32(b[24:28], h.XPelsPerMeter)
	le.PutUint32(b[28:32], h.YPelsPerMeter)
	le.PutUint32(b[32:36], h.ClrUsed)
	le.PutUint32(b[36:40], h.ClrImportant)
	return b, nil
}

// UnmarshalBinary decodes the first 40 bytes of b.
// Offsets are relative to the start of the info header (file offset 14).
func (h *InfoHeader) UnmarshalBinary(b []byte) error {
	if len(b) < InfoHeaderLen {
		return io.ErrUnexpectedEOF
	}
	le := binary.LittleEndian
	h.Size = le.Uint32(b[0:4])
	h.Width = le.Uint32(b[4:8])
	h.Height = le.Uint32(b[8:12])
	h.Planes = le.Uint16(b[12:14])
	h.BitCount = le.Uint16(b[14:16])
	h.Compression = le.Uint32(b[16:20])
	h.SizeImage = le.Uint32(b[20:24])
	h.XPelsPerMeter = le.Uint32(b[24:28])
	h.YPelsPerMeter = le.Uint32(b[28:32])
	h.ClrUsed = le.Uint32(b[32:36])
	h.ClrImportant = le.Uint32(b[36:40])
	return nil
}
