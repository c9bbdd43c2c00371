package bmp

import (
	"errors"
	"fmt"
)

// IOError reports a failure to open, read, seek, allocate or write.
// Op names the step that failed.
type IOError struct {
	Op   string
	Path string
	Err  error
}

func (e *IOError) Error() string {
	if e.Path == "" {
		return fmt.Sprintf("bmp: %s: %v", e.Op, e.Err)
	}
	return fmt.Sprintf("bmp: %s %q: %v", e.Op, e.Path, e.Err)
}

func (e *IOError) Unwrap() error { return e.Err }

// FormatError reports that the signature field is not "BM".
type FormatError struct {
	Path string
	Type uint16
}

func (e *FormatError) Error() string {
	if e.Path == "" {
		return fmt.Sprintf("bmp: bitmap ID check failed: got 0x%04X, want 0x%04X", e.Type, Signature)
	}
	return fmt.Sprintf("bmp: bitmap ID check failed for %q: got 0x%04X, want 0x%04X", e.Path, e.Type, Signature)
}

// UnsupportedError is returned in strict mode for headers outside the
// 24-bit uncompressed single-plane variant.
type UnsupportedError struct {
	Path  string
	Field string
	Value uint32
}

func (e *UnsupportedError) Error() string {
	if e.Path == "" {
		return fmt.Sprintf("bmp: unsupported %s %d", e.Field, e.Value)
	}
	return fmt.Sprintf("bmp: unsupported %s %d in %q", e.Field, e.Value, e.Path)
}

// IsIOError reports whether err is, or wraps, an *IOError.
func IsIOError(err error) bool {
	var e *IOError
	return errors.As(err, &e)
}

// IsFormatError reports whether err is, or wraps, a *FormatError.
func IsFormatError(err error) bool {
	var e *FormatError
	return errors.As(err, &e)
}

// withPath stamps path on the typed errors produced by Decode.
func withPath(err error, path string) error {
	var ioErr *IOError
	var fmtErr *FormatError
	var unsErr *UnsupportedError
	switch {
	case errors.As(err, &ioErr):
		ioErr.Path = path
	case errors.As(err, &fmtErr):
		fmtErr.Path = path
	case errors.As(err, &unsErr):
		unsErr.Path = path
	}
	return err
}
