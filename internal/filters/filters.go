// Filters perform color manipulation and per-pixel operations on a raw
// B-G-R pixel buffer. Every function mutates buf in place and returns it.
// Trailing bytes that do not form a whole pixel are left alone.
package filters

import (
	"errors"
	"fmt"
	"math"
	"strings"

	"github.com/anas-shakeel/bmpfx/internal/utils"
)

const bytesPerPixel = 3

// Filter selects at most one color filter per run.
type Filter int

const (
	None Filter = iota
	Sepia
	Greyscale
)

func (f Filter) String() string {
	switch f {
	case None:
		return "none"
	case Sepia:
		return "sepia"
	case Greyscale:
		return "greyscale"
	default:
		return fmt.Sprintf("filter(%d)", int(f))
	}
}

// ParseFilter accepts a filter name or its numeric code (0, 1, 2).
func ParseFilter(s string) (Filter, error) {
	switch strings.ToLower(strings.TrimSpace(s)) {
	case "", "0", "none":
		return None, nil
	case "1", "sepia":
		return Sepia, nil
	case "2", "greyscale", "grayscale":
		return Greyscale, nil
	default:
		return None, fmt.Errorf("invalid filter %q: must be none, sepia or greyscale (0, 1, 2)", s)
	}
}

// Apply runs the selected filter over buf.
func Apply(buf []byte, f Filter) []byte {
	switch f {
	case Sepia:
		return ApplySepia(buf)
	case Greyscale:
		return ApplyGreyscale(buf)
	default:
		return buf
	}
}

// Inverts (negates) every byte of the buffer
func Invert(buf []byte) []byte {
	for i := range buf {
		buf[i] = 255 - buf[i]
	}
	return buf
}

// ApplySepia tones every pixel. All three channels are computed from the
// pixel's original values.
func ApplySepia(buf []byte) []byte {
	for i := 0; i+bytesPerPixel <= len(buf); i += bytesPerPixel {
		b, g, r := float64(buf[i]), float64(buf[i+1]), float64(buf[i+2])

		buf[i+2] = clamp(0.393*r + 0.769*g + 0.189*b)
		buf[i+1] = clamp(0.349*r + 0.686*g + 0.168*b)
		buf[i] = clamp(0.272*r + 0.534*g + 0.131*b)
	}
	return buf
}

// Converts a buffer to Black-and-White
func ApplyGreyscale(buf []byte) []byte {
	for i := 0; i+bytesPerPixel <= len(buf); i += bytesPerPixel {
		// Find the average value for pixel
		avg := byte(utils.Average(int(buf[i]), int(buf[i+1]), int(buf[i+2])))

		buf[i] = avg
		buf[i+1] = avg
		buf[i+2] = avg
	}
	return buf
}

// Adjusts the Brightness of a buffer in-place.
//
// method can be "add" (adds value to each channel) or "multiply" (multiplies each channel by value).
// Pixel values are clipped to [0, 255].
func Brightness(buf []byte, factor float64, method string) ([]byte, error) {
	type Operation func(x, y float64) float64
	var operation Operation

	// Select an operation of brightness (additive or multiplicative)
	switch method {
	case "add":
		operation = func(x, y float64) float64 {
			return x + y
		}
	case "multiply":
		operation = func(x, y float64) float64 {
			return x * y
		}
	default:
		return buf, errors.New("invalid method: method must be add or multiply")
	}

	n := len(buf) / bytesPerPixel * bytesPerPixel
	for i := 0; i < n; i++ {
		buf[i] = clamp(operation(float64(buf[i]), factor))
	}

	return buf, nil
}

// Adjusts the Contrast of a buffer in-place.
// factor > 1.0 increases Contrast, factor < 1.0 decreases it.
func Contrast(buf []byte, factor float64) []byte {
	pixels := len(buf) / bytesPerPixel
	if pixels == 0 {
		return buf
	}

	// Compute mean for each channel
	var sum [bytesPerPixel]int
	for i := 0; i < pixels*bytesPerPixel; i++ {
		sum[i%bytesPerPixel] += int(buf[i])
	}
	var mean [bytesPerPixel]float64
	for c := range mean {
		mean[c] = float64(sum[c] / pixels)
	}

	for i := 0; i < pixels*bytesPerPixel; i++ {
		buf[i] = clamp(float64(buf[i])*factor + (1-factor)*mean[i%bytesPerPixel])
	}

	return buf
}

// clamp truncates v toward zero and clips it to [0, 255].
func clamp(v float64) byte {
	return byte(math.Min(math.Max(v, 0), 255))
}
