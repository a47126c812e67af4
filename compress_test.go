package encryptedfield

import (
	"bytes"
	"crypto/rand"
	"strings"
	"testing"

	"github.com/stretchr/testify/require"
)

func TestMaybeCompress_BelowThreshold(t *testing.T) {
	data := []byte("short")
	out, flag := maybeCompress(data, defaultCompressionThreshold, false)
	require.Equal(t, flagNoCompression, flag)
	require.Equal(t, data, out)
}

func TestMaybeCompress_Disabled(t *testing.T) {
	data := bytes.Repeat([]byte("compressible "), 1024)
	out, flag := maybeCompress(data, defaultCompressionThreshold, true)
	require.Equal(t, flagNoCompression, flag)
	require.Equal(t, data, out)
}

func TestMaybeCompress_Compressible(t *testing.T) {
	data := bytes.Repeat([]byte("compressible "), 1024)
	out, flag := maybeCompress(data, defaultCompressionThreshold, false)
	require.Equal(t, flagZstd, flag)
	require.Less(t, len(out), len(data))

	decompressed, err := decompress(out, flag)
	require.NoError(t, err)
	require.Equal(t, data, decompressed)
}

func TestMaybeCompress_IncompressibleStaysRaw(t *testing.T) {
	// Random data does not meet the minimum savings; stored raw.
	data := make([]byte, 8192)
	_, err := rand.Read(data)
	require.NoError(t, err)

	out, flag := maybeCompress(data, defaultCompressionThreshold, false)
	require.Equal(t, flagNoCompression, flag)
	require.Equal(t, data, out)
}

func TestDecompress_PassThrough(t *testing.T) {
	data := []byte("raw")
	out, err := decompress(data, flagNoCompression)
	require.NoError(t, err)
	require.Equal(t, data, out)
}

func TestDecompress_UnknownFlag(t *testing.T) {
	_, err := decompress([]byte("data"), 0x7f)
	require.ErrorIs(t, err, ErrInvalidFormat)
}

func TestDecompress_Garbage(t *testing.T) {
	_, err := decompress([]byte("definitely not zstd"), flagZstd)
	require.ErrorIs(t, err, ErrDecompressionFailed)
}

func TestCompress_RoundTripLarge(t *testing.T) {
	data := []byte(strings.Repeat("0123456789abcdef", 64*1024))
	compressed, err := compressZstd(data)
	require.NoError(t, err)

	out, err := decompressZstd(compressed)
	require.NoError(t, err)
	require.Equal(t, data, out)
}
