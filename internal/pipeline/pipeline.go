// Package pipeline runs one decode, transform, encode pass over a bitmap file.
package pipeline

import (
	"errors"
	"fmt"
	"io"
	"time"

	"github.com/anas-shakeel/bmpfx/internal/adjustments"
	"github.com/anas-shakeel/bmpfx/internal/bmp"
	"github.com/anas-shakeel/bmpfx/internal/diagnostics"
	"github.com/anas-shakeel/bmpfx/internal/filters"
	"github.com/anas-shakeel/bmpfx/internal/logger"
)

// Options is the resolved configuration for a single run.
type Options struct {
	Input  string
	Output string

	Invert bool
	Filter filters.Filter
	Rotate int

	// Brightness is skipped when zero.
	Brightness       float64
	BrightnessMethod string
	// Contrast is skipped when zero or one.
	Contrast float64

	Strict        bool
	MaxPixelBytes uint64

	// Verbose dumps the bitmap to Dump before and after editing.
	Verbose bool
	Dump    io.Writer
}

// Result describes what a run did.
type Result struct {
	Input   string
	Output  string
	Steps   []string
	Bitmap  *bmp.Bitmap
	Elapsed time.Duration
}

// Run decodes opts.Input, applies the requested transforms in order
// (rotate, invert, filter, brightness, contrast) and saves to opts.Output.
// Nothing is written if decoding or any transform fails.
func Run(opts Options) (*Result, error) {
	if opts.Input == "" {
		return nil, errors.New("no input file given")
	}
	if opts.Output == "" {
		return nil, errors.New("no output file given")
	}
	if opts.Verbose && opts.Dump == nil {
		return nil, errors.New("verbose mode needs a dump writer")
	}

	start := time.Now()
	res := &Result{Input: opts.Input, Output: opts.Output}
	log := logger.With(logger.Path(opts.Input))

	b, err := bmp.ReadBitmap(opts.Input,
		bmp.WithStrict(opts.Strict),
		bmp.WithMaxPixelBytes(opts.MaxPixelBytes),
	)
	if err != nil {
		log.Debug("decode failed", logger.Err(err))
		return nil, err
	}
	res.Bitmap = b
	log.Debug("decoded bitmap",
		logger.KeyWidth, b.InfoHeader.Width,
		logger.KeyHeight, b.InfoHeader.Height,
		logger.KeyBitCount, b.InfoHeader.BitCount,
		logger.KeyOffBits, b.FileHeader.OffBits,
		logger.Size(len(b.Pixels)),
	)

	if err := adjustments.Rotate(b, opts.Rotate); err != nil {
		return nil, fmt.Errorf("rotate: %w", err)
	}

	if opts.Verbose {
		if err := dump(opts.Dump, ".bmp file before editing:", b); err != nil {
			return nil, err
		}
	}

	if opts.Invert {
		filters.Invert(b.Pixels)
		res.Steps = append(res.Steps, "invert")
	}

	if opts.Filter != filters.None {
		filters.Apply(b.Pixels, opts.Filter)
		res.Steps = append(res.Steps, opts.Filter.String())
	}

	if opts.Brightness != 0 {
		method := opts.BrightnessMethod
		if method == "" {
			method = "add"
		}
		if _, err := filters.Brightness(b.Pixels, opts.Brightness, method); err != nil {
			return nil, fmt.Errorf("brightness: %w", err)
		}
		res.Steps = append(res.Steps, "brightness")
	}

	if opts.Contrast != 0 && opts.Contrast != 1 {
		filters.Contrast(b.Pixels, opts.Contrast)
		res.Steps = append(res.Steps, "contrast")
	}

	if err := b.Save(opts.Output); err != nil {
		logger.Error("failed to write bitmap",
			logger.KeyOutput, opts.Output,
			logger.Err(err),
		)
		return nil, err
	}
	log.Debug("saved bitmap",
		logger.KeyOutput, opts.Output,
		logger.KeyOperation, res.Steps,
		logger.Size(len(b.Pixels)),
	)

	if opts.Verbose {
		if err := dump(opts.Dump, ".bmp file after editing:", b); err != nil {
			return nil, err
		}
	}

	res.Elapsed = time.Since(start)
	logger.Info("processed bitmap",
		logger.KeyPath, opts.Input,
		logger.KeyOutput, opts.Output,
		logger.KeyFilter, opts.Filter.String(),
		logger.KeyDurationMs, logger.Duration(start),
	)
	return res, nil
}

func dump(w io.Writer, title string, b *bmp.Bitmap) error {
	if _, err := fmt.Fprintln(w, title); err != nil {
		return err
	}
	if err := diagnostics.Dump(w, b); err != nil {
		return err
	}
	_, err := fmt.Fprintln(w)
	return err
}
