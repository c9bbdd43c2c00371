package bytesize

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestParseByteSize(t *testing.T) {
	tests := []struct {
		input   string
		want    ByteSize
		wantErr bool
	}{
		{"1024", 1024, false},
		{"512MiB", 512 * MiB, false},
		{"1GiB", GiB, false},
		{"100MB", 100 * 1000 * 1000, false},
		{"64 KiB", 64 * KiB, false},
		{"", 0, true},
		{"   ", 0, true},
		{"lots", 0, true},
	}

	for _, tt := range tests {
		t.Run(tt.input, func(t *testing.T) {
			got, err := ParseByteSize(tt.input)
			if tt.wantErr {
				assert.Error(t, err)
				return
			}
			require.NoError(t, err)
			assert.Equal(t, tt.want, got)
		})
	}
}

func TestByteSizeString(t *testing.T) {
	tests := []struct {
		size ByteSize
		want string
	}{
		{512 * MiB, "512MiB"},
		{1536, "1.5KiB"},
		{1025, "1025"},
	}
	for _, tt := range tests {
		t.Run(tt.want, func(t *testing.T) {
			assert.Equal(t, tt.want, tt.size.String())

			back, err := ParseByteSize(tt.size.String())
			require.NoError(t, err)
			assert.Equal(t, tt.size, back)
		})
	}
}

func TestByteSizeText(t *testing.T) {
	var b ByteSize
	require.NoError(t, b.UnmarshalText([]byte("2MiB")))
	assert.Equal(t, 2*MiB, b)
	assert.Equal(t, uint64(2*1024*1024), b.Uint64())

	text, err := b.MarshalText()
	require.NoError(t, err)
	assert.Equal(t, "2.0MiB", string(text))

	assert.Error(t, b.UnmarshalText([]byte("nope")))
	assert.Equal(t, 2*MiB, b)
}

func TestByteSizeTextRoundTrip(t *testing.T) {
	for _, size := range []ByteSize{0, 1, 999, 1000, 1023, KiB, 1536, 2 * MiB, 9 * MiB, 512 * MiB, GiB, 3*GiB + 7} {
		text, err := size.MarshalText()
		require.NoError(t, err)

		var back ByteSize
		require.NoError(t, back.UnmarshalText(text), "text %q", text)
		assert.Equal(t, size, back, "text %q", text)
	}
}
