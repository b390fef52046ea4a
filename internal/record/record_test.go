package record

import (
	"encoding/binary"
	"hash/crc32"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestEncodeDecodeRecord(t *testing.T) {
	tests := []struct {
		name  string
		key   string
		value string
	}{
		{"simple pair", "language", "go"},
		{"empty value", "name", ""},
		{"empty key", "", "orphan"},
		{"value with spaces", "city", "new york"},
		{"unicode", "emoji", "🚀🔥 ünïcödé"},
		{"large value", "big", strings.Repeat("x", 64*1024)},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			encoded, err := Encode(tt.key, tt.value)
			require.NoError(t, err)
			assert.Len(t, encoded, HeaderSizeBytes+len(tt.key)+len(tt.value))

			key, value, err := Decode(encoded)
			require.NoError(t, err)
			assert.Equal(t, tt.key, key)
			assert.Equal(t, tt.value, value)
		})
	}
}

func TestEncodedByteLayout(t *testing.T) {
	encoded, err := Encode("a", "bc")
	require.NoError(t, err)

	// Expected bytes structure:
	// uint32 CRC
	// uint32 KeySize
	// uint32 ValueSize
	// []byte Key
	// []byte Value
	assert.Equal(t, crc32.ChecksumIEEE(encoded[4:]), binary.BigEndian.Uint32(encoded[0:4]))
	assert.Equal(t, uint32(1), binary.BigEndian.Uint32(encoded[4:8]))
	assert.Equal(t, uint32(2), binary.BigEndian.Uint32(encoded[8:12]))
	assert.Equal(t, "abc", string(encoded[12:]))
}

func TestEncodeCountsBytesNotRunes(t *testing.T) {
	encoded, err := Encode("ключ", "値")
	require.NoError(t, err)

	header, err := DecodeHeader(encoded)
	require.NoError(t, err)
	assert.Equal(t, uint32(8), header.KeySize)
	assert.Equal(t, uint32(3), header.ValueSize)
	assert.Equal(t, int64(len(encoded)), header.Size())
}

func TestEncodeRejectsInvalidUTF8(t *testing.T) {
	_, err := Encode("bad\xff", "v")
	assert.ErrorIs(t, err, ErrInvalidUTF8)

	_, err = Encode("k", "\xc3\x28")
	assert.ErrorIs(t, err, ErrInvalidUTF8)
}

func TestDecodeDetectsCorruption(t *testing.T) {
	encoded, err := Encode("language", "golang")
	require.NoError(t, err)

	t.Run("key and value bytes", func(t *testing.T) {
		for i := HeaderSizeBytes; i < len(encoded); i++ {
			mutated := append([]byte(nil), encoded...)
			mutated[i] ^= 0x01

			_, _, err := Decode(mutated)
			assert.ErrorIs(t, err, ErrDataCorruption, "byte %d", i)
		}
	})

	t.Run("length fields", func(t *testing.T) {
		for i := 4; i < HeaderSizeBytes; i++ {
			mutated := append([]byte(nil), encoded...)
			mutated[i] ^= 0x01

			_, _, err := Decode(mutated)
			assert.ErrorIs(t, err, ErrDataCorruption, "byte %d", i)
			assert.NotErrorIs(t, err, ErrTruncatedRecord, "byte %d", i)
		}
	})

	t.Run("checksum field", func(t *testing.T) {
		mutated := append([]byte(nil), encoded...)
		mutated[0] ^= 0x80

		_, _, err := Decode(mutated)
		assert.ErrorIs(t, err, ErrDataCorruption)
	})

	t.Run("trailing bytes", func(t *testing.T) {
		_, _, err := Decode(append(append([]byte(nil), encoded...), 'x'))
		assert.ErrorIs(t, err, ErrDataCorruption)
	})
}

func TestDecodeErrorsOnTruncatedData(t *testing.T) {
	encoded, err := Encode("abc", "xy")
	require.NoError(t, err)

	t.Run("short header", func(t *testing.T) {
		for i := 0; i < HeaderSizeBytes; i++ {
			_, _, err := Decode(encoded[:i])
			assert.ErrorIs(t, err, ErrTruncatedRecord, "length %d", i)
		}
	})

	// Past the header the checksum no longer covers the bytes it was computed over
	t.Run("short body", func(t *testing.T) {
		for i := HeaderSizeBytes; i < len(encoded); i++ {
			_, _, err := Decode(encoded[:i])
			assert.ErrorIs(t, err, ErrDataCorruption, "length %d", i)
		}
	})
}

func TestDecodeRejectsInvalidUTF8(t *testing.T) {
	key := []byte("k")
	value := []byte{0xff, 0xfe}

	buf := make([]byte, HeaderSizeBytes)
	binary.BigEndian.PutUint32(buf[4:8], uint32(len(key)))
	binary.BigEndian.PutUint32(buf[8:12], uint32(len(value)))
	buf = append(buf, key...)
	buf = append(buf, value...)
	binary.BigEndian.PutUint32(buf[0:4], crc32.ChecksumIEEE(buf[4:]))

	_, _, err := Decode(buf)
	assert.ErrorIs(t, err, ErrInvalidUTF8)
	assert.NotErrorIs(t, err, ErrDataCorruption)
}
