package logger

import (
	"log/slog"
	"time"
)

// Standard field keys for structured logging.
const (
	KeyPath       = "path"        // Input or output file path
	KeyOutput     = "output"      // Output file path
	KeyOperation  = "operation"   // Pipeline step: decode, invert, filter, encode
	KeyFilter     = "filter"      // Selected color filter
	KeyDegrees    = "degrees"     // Requested rotation
	KeySize       = "size"        // Pixel buffer size in bytes
	KeyWidth      = "width"       // Image width in pixels
	KeyHeight     = "height"      // Image height in pixels
	KeyBitCount   = "bit_count"   // Bits per pixel
	KeyOffBits    = "off_bits"    // Pixel data offset
	KeyDurationMs = "duration_ms" // Step duration in milliseconds
	KeyError      = "error"       // Error message
)

// Path returns a slog.Attr for a file path
func Path(p string) slog.Attr {
	return slog.String(KeyPath, p)
}

// Size returns a slog.Attr for a byte count
func Size(n int) slog.Attr {
	return slog.Int(KeySize, n)
}

// Err returns a slog.Attr for an error; nil errors log as an empty string.
func Err(err error) slog.Attr {
	if err == nil {
		return slog.String(KeyError, "")
	}
	return slog.String(KeyError, err.Error())
}

// Duration returns duration since start time in milliseconds
func Duration(start time.Time) float64 {
	return float64(time.Since(start).Microseconds()) / 1000.0
}
