// Package bmp reads and writes 24-bit uncompressed bitmaps as a header pair
// plus an opaque pixel buffer.
package bmp

import (
	"bufio"
	"errors"
	"fmt"
	"io"
	"os"
	"path/filepath"
)

// DefaultMaxPixelBytes caps the pixel buffer Decode is willing to allocate.
const DefaultMaxPixelBytes = 512 << 20

// Bitmap is the (FileHeader, InfoHeader, PixelBuffer) triple produced by a
// single decode. Pixels holds B-G-R triplets, row-major, with whatever row
// padding the producer wrote; len(Pixels) == InfoHeader.SizeImage.
type Bitmap struct {
	Filename   string
	FileHeader FileHeader
	InfoHeader InfoHeader
	Pixels     []byte
}

// Option configures Decode and ReadBitmap.
type Option func(*decodeConfig)

type decodeConfig struct {
	strict        bool
	maxPixelBytes uint64
}

// WithStrict rejects headers that are not single-plane, 24-bit and uncompressed.
func WithStrict(strict bool) Option {
	return func(c *decodeConfig) {
		c.strict = strict
	}
}

// WithMaxPixelBytes sets the allocation cap for the pixel buffer. Zero disables the cap.
func WithMaxPixelBytes(n uint64) Option {
	return func(c *decodeConfig) {
		c.maxPixelBytes = n
	}
}

// Creates and returns a blank bitmap image (24 bit uncompressed)
func NewBitmap(width, height int) (*Bitmap, error) {
	if width <= 0 {
		return nil, errors.New("width must be greater than 0")
	} else if height <= 0 {
		return nil, errors.New("height must be greater than 0")
	}

	bitsPerPixel := 24
	stride := ((width*bitsPerPixel + 31) / 32) * 4
	sizeImage := uint32(stride * height)

	return &Bitmap{
		FileHeader: FileHeader{
			Type:    Signature,
			Size:    HeaderLen + sizeImage, // Size of the whole bitmap file
			OffBits: HeaderLen,
		},
		InfoHeader: InfoHeader{
			Size:      InfoHeaderLen,
			Width:     uint32(width),
			Height:    uint32(height),
			Planes:    1,
			BitCount:  24,
			SizeImage: sizeImage,
		},
		Pixels: make([]byte, sizeImage),
	}, nil
}

// ReadBitmap opens filename and decodes it. The file is closed on every path.
func ReadBitmap(filename string, opts ...Option) (*Bitmap, error) {
	file, err := os.Open(filename)
	if err != nil {
		return nil, &IOError{Op: "open", Path: filename, Err: err}
	}
	defer file.Close()

	b, err := Decode(file, opts...)
	if err != nil {
		return nil, withPath(err, filename)
	}
	b.Filename = filename
	return b, nil
}

// Decode reads a file header, an info header and SizeImage bytes of pixel data
// starting at OffBits. Any palette between the headers and OffBits is skipped.
//
// If r is an io.Seeker the pixel data is located with an absolute seek;
// otherwise the gap is discarded, and an OffBits pointing back into the
// headers is an error.
func Decode(r io.Reader, opts ...Option) (*Bitmap, error) {
	cfg := decodeConfig{maxPixelBytes: DefaultMaxPixelBytes}
	for _, opt := range opts {
		opt(&cfg)
	}

	var hdr [HeaderLen]byte

	// Read File Header
	if _, err := io.ReadFull(r, hdr[:FileHeaderLen]); err != nil {
		return nil, &IOError{Op: "read file header", Err: unexpectedEOF(err)}
	}
	var fh FileHeader
	if err := fh.UnmarshalBinary(hdr[:FileHeaderLen]); err != nil {
		return nil, &IOError{Op: "read file header", Err: err}
	}

	// Verify that this is a .BMP file by checking bitmap id (0x4d42)
	if fh.Type != Signature {
		return nil, &FormatError{Type: fh.Type}
	}

	// Read Info Header
	if _, err := io.ReadFull(r, hdr[FileHeaderLen:]); err != nil {
		return nil, &IOError{Op: "read info header", Err: unexpectedEOF(err)}
	}
	var ih InfoHeader
	if err := ih.UnmarshalBinary(hdr[FileHeaderLen:]); err != nil {
		return nil, &IOError{Op: "read info header", Err: err}
	}

	if cfg.strict {
		if err := checkSupported(ih); err != nil {
			return nil, err
		}
	}

	// Seek to Pixel Array (OffBits)
	if err := skipTo(r, fh.OffBits); err != nil {
		return nil, &IOError{Op: "seek pixel data", Err: err}
	}

	if cfg.maxPixelBytes > 0 && uint64(ih.SizeImage) > cfg.maxPixelBytes {
		return nil, &IOError{
			Op:  "allocate pixel buffer",
			Err: fmt.Errorf("%d bytes exceeds limit of %d", ih.SizeImage, cfg.maxPixelBytes),
		}
	}
	pixels := make([]byte, ih.SizeImage)

	if _, err := io.ReadFull(r, pixels); err != nil {
		return nil, &IOError{Op: "read pixel data", Err: unexpectedEOF(err)}
	}

	return &Bitmap{
		FileHeader: fh,
		InfoHeader: ih,
		Pixels:     pixels,
	}, nil
}

// Encode writes the file header, the info header and the pixel buffer back to
// back. OffBits is written as stored, even when the decoded input had a
// palette gap.
func (b *Bitmap) Encode(w io.Writer) error {
	fh, err := b.FileHeader.MarshalBinary()
	if err != nil {
		return &IOError{Op: "write file header", Err: err}
	}
	ih, err := b.InfoHeader.MarshalBinary()
	if err != nil {
		return &IOError{Op: "write info header", Err: err}
	}

	chunks := []struct {
		op   string
		data []byte
	}{
		{"write file header", fh},
		{"write info header", ih},
		{"write pixel data", b.Pixels},
	}
	for _, c := range chunks {
		n, err := w.Write(c.data)
		if err == nil && n < len(c.data) {
			err = io.ErrShortWrite
		}
		if err != nil {
			return &IOError{Op: c.op, Err: err}
		}
	}
	return nil
}

// Saves the bitmap image onto local disk.
// The image is written to a temporary file next to filename and renamed into
// place, so a failed save leaves any existing file untouched.
func (b *Bitmap) Save(filename string) (err error) {
	file, err := os.CreateTemp(filepath.Dir(filename), "."+filepath.Base(filename)+".tmp-*")
	if err != nil {
		return &IOError{Op: "create", Path: filename, Err: err}
	}
	tmp := file.Name()
	defer func() {
		if err != nil {
			_ = file.Close()
			_ = os.Remove(tmp)
		}
	}()

	// Create a buffer (to reduce syscalls)
	w := bufio.NewWriter(file)

	if err := b.Encode(w); err != nil {
		return withPath(err, filename)
	}
	if err := w.Flush(); err != nil {
		return &IOError{Op: "flush", Path: filename, Err: err}
	}
	if err := file.Chmod(0644); err != nil {
		return &IOError{Op: "chmod", Path: filename, Err: err}
	}
	if err := file.Close(); err != nil {
		return &IOError{Op: "close", Path: filename, Err: err}
	}
	if err := os.Rename(tmp, filename); err != nil {
		return &IOError{Op: "rename", Path: filename, Err: err}
	}
	return nil
}

// Stride returns the row length in bytes, including padding, for the declared width.
func (b *Bitmap) Stride() int {
	return ((int(b.InfoHeader.Width)*int(b.InfoHeader.BitCount) + 31) / 32) * 4
}

func checkSupported(ih InfoHeader) error {
	switch {
	case ih.Planes != 1:
		return &UnsupportedError{Field: "planes", Value: uint32(ih.Planes)}
	case ih.BitCount != 24:
		return &UnsupportedError{Field: "bit count", Value: uint32(ih.BitCount)}
	case ih.Compression != 0:
		return &UnsupportedError{Field: "compression", Value: ih.Compression}
	}
	return nil
}

// skipTo moves r to absolute offset off, assuming HeaderLen bytes were consumed.
func skipTo(r io.Reader, off uint32) error {
	if s, ok := r.(io.Seeker); ok {
		_, err := s.Seek(int64(off), io.SeekStart)
		return err
	}
	if off < HeaderLen {
		return fmt.Errorf("offset %d points inside the headers of a non-seekable source", off)
	}
	if _, err := io.CopyN(io.Discard, r, int64(off-HeaderLen)); err != nil {
		return unexpectedEOF(err)
	}
	return nil
}

func unexpectedEOF(err error) error {
	if err == io.EOF {
		return io.ErrUnexpectedEOF
	}
	return err
}
