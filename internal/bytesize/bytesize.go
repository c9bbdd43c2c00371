package bytesize

import (
	"fmt"
	"strconv"
	"strings"

	"github.com/dustin/go-humanize"
)

// ByteSize represents a size in bytes that can be unmarshaled from human-readable
// strings like "512Mi", "64MiB", "100MB", or plain numbers.
//
// Binary units (Ki, Mi, Gi, ...) are ×1024, decimal units (K, M, G, ...) are ×1000.
type ByteSize uint64

// Common byte size constants
const (
	B   ByteSize = 1
	KiB ByteSize = 1024
	MiB ByteSize = 1024 * KiB
	GiB ByteSize = 1024 * MiB
)

// ParseByteSize parses a human-readable byte size string into a ByteSize value.
func ParseByteSize(s string) (ByteSize, error) {
	if strings.TrimSpace(s) == "" {
		return 0, fmt.Errorf("empty byte size string")
	}
	n, err := humanize.ParseBytes(s)
	if err != nil {
		return 0, fmt.Errorf("invalid byte size %q: %w", s, err)
	}
	return ByteSize(n), nil
}

// UnmarshalText implements encoding.TextUnmarshaler for ByteSize.
func (b *ByteSize) UnmarshalText(text []byte) error {
	size, err := ParseByteSize(string(text))
	if err != nil {
		return err
	}
	*b = size
	return nil
}

// MarshalText writes the size in binary units so it round-trips through config files.
func (b ByteSize) MarshalText() ([]byte, error) {
	return []byte(b.String()), nil
}

// String returns a human-readable representation of the byte size, falling
// back to a plain number when the rounded form would not parse back exactly.
func (b ByteSize) String() string {
	s := strings.ReplaceAll(humanize.IBytes(uint64(b)), " ", "")
	if n, err := humanize.ParseBytes(s); err == nil && n == uint64(b) {
		return s
	}
	return strconv.FormatUint(uint64(b), 10)
}

// Uint64 returns the ByteSize as a uint64.
func (b ByteSize) Uint64() uint64 {
	return uint64(b)
}
