package bmp

import (
	"bytes"
	"errors"
	"io"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	xbmp "golang.org/x/image/bmp"
)

// buildBitmap returns an encoded 24-bit bitmap with gap filler bytes between
// the headers and the pixel data.
func buildBitmap(t *testing.T, width, height uint32, pixels []byte, gap int) []byte {
	t.Helper()

	fh := FileHeader{
		Type:    Signature,
		Size:    uint32(HeaderLen + gap + len(pixels)),
		OffBits: uint32(HeaderLen + gap),
	}
	ih := InfoHeader{
		Size:          InfoHeaderLen,
		Width:         width,
		Height:        height,
		Planes:        1,
		BitCount:      24,
		SizeImage:     uint32(len(pixels)),
		XPelsPerMeter: 2835,
		YPelsPerMeter: 2835,
	}
	fb, err := fh.MarshalBinary()
	require.NoError(t, err)
	ib, err := ih.MarshalBinary()
	require.NoError(t, err)

	var buf bytes.Buffer
	buf.Write(fb)
	buf.Write(ib)
	buf.Write(bytes.Repeat([]byte{0xAA}, gap))
	buf.Write(pixels)
	return buf.Bytes()
}

// samplePixels is a 2x2 image: 6 bytes of pixels plus 2 bytes of padding per row.
func samplePixels() []byte {
	return []byte{
		10, 20, 30, 40, 50, 60, 0, 0,
		70, 80, 90, 100, 110, 120, 0, 0,
	}
}

// nonSeeker hides the Seek method of the wrapped reader.
type nonSeeker struct{ io.Reader }

// shortWriter accepts one byte less than it is given.
type shortWriter struct{}

func (shortWriter) Write(p []byte) (int, error) {
	if len(p) == 0 {
		return 0, nil
	}
	return len(p) - 1, nil
}

func TestDecodeEncodeRoundTrip(t *testing.T) {
	data := buildBitmap(t, 2, 2, samplePixels(), 0)

	b, err := Decode(bytes.NewReader(data))
	require.NoError(t, err)

	assert.Equal(t, Signature, b.FileHeader.Type)
	assert.Equal(t, uint32(HeaderLen), b.FileHeader.OffBits)
	assert.Equal(t, uint32(2), b.InfoHeader.Width)
	assert.Equal(t, uint32(2), b.InfoHeader.Height)
	assert.Len(t, b.Pixels, int(b.InfoHeader.SizeImage))
	assert.Equal(t, samplePixels(), b.Pixels)

	var out bytes.Buffer
	require.NoError(t, b.Encode(&out))
	assert.Equal(t, data, out.Bytes())
}

func TestDecodeFormatError(t *testing.T) {
	data := buildBitmap(t, 2, 2, samplePixels(), 0)
	data[0], data[1] = 'M', 'B'

	_, err := Decode(bytes.NewReader(data))
	require.Error(t, err)
	assert.True(t, IsFormatError(err))
	assert.False(t, IsIOError(err))

	var fe *FormatError
	require.ErrorAs(t, err, &fe)
	assert.Equal(t, uint16(0x424D), fe.Type)
}

func TestDecodeShortInput(t *testing.T) {
	full := buildBitmap(t, 2, 2, samplePixels(), 0)

	tests := []struct {
		name   string
		length int
		op     string
	}{
		{"empty", 0, "read file header"},
		{"partial file header", 13, "read file header"},
		{"partial info header", 20, "read info header"},
		{"one byte short of headers", HeaderLen - 1, "read info header"},
		{"no pixel data", HeaderLen, "read pixel data"},
		{"partial pixel data", HeaderLen + 5, "read pixel data"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			b, err := Decode(bytes.NewReader(full[:tt.length]))
			assert.Nil(t, b)
			require.Error(t, err)

			var ioErr *IOError
			require.ErrorAs(t, err, &ioErr)
			assert.Equal(t, tt.op, ioErr.Op)
			assert.ErrorIs(t, err, io.ErrUnexpectedEOF)
		})
	}
}

func TestDecodeSkipsPaletteGap(t *testing.T) {
	data := buildBitmap(t, 2, 2, samplePixels(), 8)

	t.Run("Seekable", func(t *testing.T) {
		b, err := Decode(bytes.NewReader(data))
		require.NoError(t, err)
		assert.Equal(t, samplePixels(), b.Pixels)
		assert.Equal(t, uint32(HeaderLen+8), b.FileHeader.OffBits)
	})

	t.Run("NonSeekable", func(t *testing.T) {
		b, err := Decode(nonSeeker{bytes.NewReader(data)})
		require.NoError(t, err)
		assert.Equal(t, samplePixels(), b.Pixels)
	})

	t.Run("EncodeKeepsOffBitsAndDropsGap", func(t *testing.T) {
		b, err := Decode(bytes.NewReader(data))
		require.NoError(t, err)

		var out bytes.Buffer
		require.NoError(t, b.Encode(&out))

		encoded := out.Bytes()
		assert.Len(t, encoded, HeaderLen+len(samplePixels()))
		assert.Equal(t, data[:HeaderLen], encoded[:HeaderLen])
		assert.Equal(t, samplePixels(), encoded[HeaderLen:])
	})
}

func TestDecodeNonSeekableBackwardOffset(t *testing.T) {
	data := buildBitmap(t, 2, 2, samplePixels(), 0)
	data[10] = 14 // OffBits points inside the info header

	_, err := Decode(nonSeeker{bytes.NewReader(data)})
	var ioErr *IOError
	require.ErrorAs(t, err, &ioErr)
	assert.Equal(t, "seek pixel data", ioErr.Op)
}

func TestDecodeStrict(t *testing.T) {
	tests := []struct {
		name   string
		offset int
		value  byte
		field  string
	}{
		{"planes", 26, 2, "planes"},
		{"bit count", 28, 32, "bit count"},
		{"compression", 30, 1, "compression"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			data := buildBitmap(t, 2, 2, samplePixels(), 0)
			data[tt.offset] = tt.value

			// Lenient by default.
			_, err := Decode(bytes.NewReader(data))
			require.NoError(t, err)

			_, err = Decode(bytes.NewReader(data), WithStrict(true))
			var ue *UnsupportedError
			require.ErrorAs(t, err, &ue)
			assert.Equal(t, tt.field, ue.Field)
			assert.Equal(t, uint32(tt.value), ue.Value)
		})
	}
}

func TestDecodeMaxPixelBytes(t *testing.T) {
	data := buildBitmap(t, 2, 2, samplePixels(), 0)

	_, err := Decode(bytes.NewReader(data), WithMaxPixelBytes(8))
	var ioErr *IOError
	require.ErrorAs(t, err, &ioErr)
	assert.Equal(t, "allocate pixel buffer", ioErr.Op)

	_, err = Decode(bytes.NewReader(data), WithMaxPixelBytes(0))
	assert.NoError(t, err)

	_, err = Decode(bytes.NewReader(data), WithMaxPixelBytes(16))
	assert.NoError(t, err)
}

func TestDecodeKeepsReservedFields(t *testing.T) {
	data := buildBitmap(t, 2, 2, samplePixels(), 0)
	data[6], data[8] = 0x12, 0x34

	b, err := Decode(bytes.NewReader(data))
	require.NoError(t, err)
	assert.Equal(t, uint16(0x12), b.FileHeader.Reserved1)
	assert.Equal(t, uint16(0x34), b.FileHeader.Reserved2)
}

func TestReadBitmap(t *testing.T) {
	dir := t.TempDir()

	t.Run("MissingFile", func(t *testing.T) {
		path := filepath.Join(dir, "missing.bmp")
		_, err := ReadBitmap(path)

		var ioErr *IOError
		require.ErrorAs(t, err, &ioErr)
		assert.Equal(t, "open", ioErr.Op)
		assert.Equal(t, path, ioErr.Path)
		assert.True(t, errors.Is(err, os.ErrNotExist))
		assert.Contains(t, err.Error(), "missing.bmp")
	})

	t.Run("NotABitmap", func(t *testing.T) {
		path := filepath.Join(dir, "text.bmp")
		require.NoError(t, os.WriteFile(path, bytes.Repeat([]byte("x"), 64), 0644))

		_, err := ReadBitmap(path)
		var fe *FormatError
		require.ErrorAs(t, err, &fe)
		assert.Equal(t, path, fe.Path)
		assert.Contains(t, err.Error(), "text.bmp")
	})

	t.Run("TooShort", func(t *testing.T) {
		path := filepath.Join(dir, "short.bmp")
		require.NoError(t, os.WriteFile(path, []byte("BM"), 0644))

		_, err := ReadBitmap(path)
		var ioErr *IOError
		require.ErrorAs(t, err, &ioErr)
		assert.Equal(t, path, ioErr.Path)
	})

	t.Run("Valid", func(t *testing.T) {
		path := filepath.Join(dir, "valid.bmp")
		require.NoError(t, os.WriteFile(path, buildBitmap(t, 2, 2, samplePixels(), 0), 0644))

		b, err := ReadBitmap(path)
		require.NoError(t, err)
		assert.Equal(t, path, b.Filename)
		assert.Equal(t, samplePixels(), b.Pixels)
	})
}

func TestSave(t *testing.T) {
	dir := t.TempDir()

	b, err := NewBitmap(3, 2)
	require.NoError(t, err)
	// First stored pixel is the bottom-left one.
	copy(b.Pixels, []byte{10, 20, 30})

	path := filepath.Join(dir, "out.bmp")
	require.NoError(t, b.Save(path))

	t.Run("ReadBack", func(t *testing.T) {
		got, err := ReadBitmap(path)
		require.NoError(t, err)
		assert.Equal(t, b.FileHeader, got.FileHeader)
		assert.Equal(t, b.InfoHeader, got.InfoHeader)
		assert.Equal(t, b.Pixels, got.Pixels)
	})

	t.Run("StandardDecoder", func(t *testing.T) {
		f, err := os.Open(path)
		require.NoError(t, err)
		defer f.Close()

		img, err := xbmp.Decode(f)
		require.NoError(t, err)
		assert.Equal(t, 3, img.Bounds().Dx())
		assert.Equal(t, 2, img.Bounds().Dy())

		r, g, bl, _ := img.At(0, 1).RGBA()
		assert.Equal(t, uint32(30), r>>8)
		assert.Equal(t, uint32(20), g>>8)
		assert.Equal(t, uint32(10), bl>>8)
	})

	t.Run("CreateFails", func(t *testing.T) {
		err := b.Save(filepath.Join(dir, "no-such-dir", "out.bmp"))
		var ioErr *IOError
		require.ErrorAs(t, err, &ioErr)
		assert.Equal(t, "create", ioErr.Op)
	})
}

func TestSaveReplacesAtomically(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "out.bmp")

	first, err := NewBitmap(1, 1)
	require.NoError(t, err)
	require.NoError(t, first.Save(path))

	second, err := NewBitmap(2, 2)
	require.NoError(t, err)
	copy(second.Pixels, []byte{1, 2, 3})
	require.NoError(t, second.Save(path))

	got, err := ReadBitmap(path)
	require.NoError(t, err)
	assert.Equal(t, second.Pixels, got.Pixels)

	info, err := os.Stat(path)
	require.NoError(t, err)
	assert.Equal(t, os.FileMode(0644), info.Mode().Perm())

	entries, err := os.ReadDir(dir)
	require.NoError(t, err)
	require.Len(t, entries, 1)
	assert.Equal(t, "out.bmp", entries[0].Name())
}

func TestSaveFailureKeepsDestination(t *testing.T) {
	dir := t.TempDir()

	// A non-empty directory at the destination makes the final rename fail.
	dest := filepath.Join(dir, "out.bmp")
	require.NoError(t, os.Mkdir(dest, 0755))
	require.NoError(t, os.WriteFile(filepath.Join(dest, "keep"), []byte("x"), 0644))

	b, err := NewBitmap(2, 2)
	require.NoError(t, err)

	err = b.Save(dest)
	var ioErr *IOError
	require.ErrorAs(t, err, &ioErr)
	assert.Equal(t, "rename", ioErr.Op)
	assert.Equal(t, dest, ioErr.Path)

	kept, err := os.ReadFile(filepath.Join(dest, "keep"))
	require.NoError(t, err)
	assert.Equal(t, []byte("x"), kept)

	entries, err := os.ReadDir(dir)
	require.NoError(t, err)
	require.Len(t, entries, 1, "temporary file left behind")
}

func TestEncodeShortWrite(t *testing.T) {
	b, err := NewBitmap(1, 1)
	require.NoError(t, err)

	err = b.Encode(shortWriter{})
	var ioErr *IOError
	require.ErrorAs(t, err, &ioErr)
	assert.Equal(t, "write file header", ioErr.Op)
	assert.ErrorIs(t, err, io.ErrShortWrite)
}

func TestNewBitmap(t *testing.T) {
	b, err := NewBitmap(2, 2)
	require.NoError(t, err)
	assert.Equal(t, 8, b.Stride())
	assert.Equal(t, uint32(16), b.InfoHeader.SizeImage)
	assert.Equal(t, uint32(HeaderLen+16), b.FileHeader.Size)
	assert.Len(t, b.Pixels, 16)

	_, err = NewBitmap(0, 2)
	assert.Error(t, err)
	_, err = NewBitmap(2, -1)
	assert.Error(t, err)
}
