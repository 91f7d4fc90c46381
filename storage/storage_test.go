package storage_test

import (
	"bytes"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/byte4ever/pain/storage"
)

var sample = bytes.Repeat(
	[]byte("346C60C31E403C5E55B20CC3834D60FE9824168703DC83F5;"),
	200,
)

func TestCompression_String_and_Parse(t *testing.T) {
	t.Parallel()

	for _, c := range []storage.Compression{
		storage.CompressionNone,
		storage.CompressionZstd,
		storage.CompressionLZ4,
	} {
		got, err := storage.ParseCompression(c.String())
		require.NoError(t, err)
		assert.Equal(t, c, got)
	}

	got, err := storage.ParseCompression("")
	require.NoError(t, err)
	assert.Equal(t, storage.CompressionNone, got)

	_, err = storage.ParseCompression("brotli")
	require.ErrorIs(t, err, storage.ErrUnknownCompression)

	assert.Equal(t, "unknown(9)", storage.Compression(9).String())
}

func TestCompress_roundtrip(t *testing.T) {
	t.Parallel()

	for _, c := range []storage.Compression{
		storage.CompressionNone,
		storage.CompressionZstd,
		storage.CompressionLZ4,
	} {
		t.Run(c.String(), func(t *testing.T) {
			t.Parallel()

			framed, err := storage.Compress(sample, c)
			require.NoError(t, err)
			assert.Equal(t, c, storage.Detect(framed))

			if c != storage.CompressionNone {
				assert.Less(t, len(framed), len(sample))
			}

			plain, detected, err := storage.Decompress(framed)
			require.NoError(t, err)
			assert.Equal(t, c, detected)
			assert.Equal(t, sample, plain)
		})
	}
}

func TestCompress_unknown(t *testing.T) {
	t.Parallel()

	_, err := storage.Compress(sample, storage.Compression(7))
	require.ErrorIs(t, err, storage.ErrUnknownCompression)
}

func TestDecompress_corrupt_zstd(t *testing.T) {
	t.Parallel()

	framed, err := storage.Compress(sample, storage.CompressionZstd)
	require.NoError(t, err)

	_, _, err = storage.Decompress(framed[:len(framed)/2])
	require.Error(t, err)
}

func TestWriteFile_ReadFile_roundtrip(t *testing.T) {
	t.Parallel()

	dir := t.TempDir()

	for _, c := range []storage.Compression{
		storage.CompressionNone,
		storage.CompressionZstd,
		storage.CompressionLZ4,
	} {
		pa := filepath.Join(dir, c.String()+".pain")

		require.NoError(t, storage.WriteFile(pa, sample, c))

		got, err := storage.ReadFile(pa)
		require.NoError(t, err)
		assert.Equal(t, sample, got)
	}
}

func TestReadFile_missing(t *testing.T) {
	t.Parallel()

	_, err := storage.ReadFile("/nonexistent/encrypted.pain")
	require.ErrorIs(t, err, os.ErrNotExist)
}

func TestChecksum_roundtrip(t *testing.T) {
	t.Parallel()

	dir := t.TempDir()
	pa := filepath.Join(dir, "encrypted.pain")
	require.NoError(t, os.WriteFile(pa, []byte("hello"), 0o600))

	require.NoError(t, storage.SaveChecksum(pa))

	got, err := storage.GetChecksum(pa)
	require.NoError(t, err)
	// sha256("hello")
	assert.Equal(
		t,
		"2cf24dba5fb0a30e26e83b2ac5b9e29e1b161e5c1fa7425e73043362938b9824",
		got,
	)

	require.NoError(t, storage.VerifyChecksum(pa))
}

func TestChecksum_missing_sidecar(t *testing.T) {
	t.Parallel()

	dir := t.TempDir()
	pa := filepath.Join(dir, "encrypted.pain")
	require.NoError(t, os.WriteFile(pa, []byte("hello"), 0o600))

	got, err := storage.GetChecksum(pa)
	require.NoError(t, err)
	assert.Empty(t, got)

	assert.NoError(t, storage.VerifyChecksum(pa))
}

func TestChecksum_tampered(t *testing.T) {
	t.Parallel()

	dir := t.TempDir()
	pa := filepath.Join(dir, "encrypted.pain")
	require.NoError(t, storage.WriteFile(pa, sample, storage.CompressionZstd))
	require.NoError(t, storage.SaveChecksum(pa))

	require.NoError(t, os.WriteFile(pa, []byte("tampered"), 0o600))

	require.ErrorIs(t, storage.VerifyChecksum(pa), storage.ErrChecksumMismatch)

	_, err := storage.ReadFile(pa)
	require.ErrorIs(t, err, storage.ErrChecksumMismatch)
}

func TestCalculateChecksum_missing(t *testing.T) {
	t.Parallel()

	_, err := storage.CalculateChecksum("/nonexistent")
	require.Error(t, err)
}

func TestRemoveChecksum(t *testing.T) {
	t.Parallel()

	dir := t.TempDir()
	pa := filepath.Join(dir, "encrypted.pain")
	require.NoError(t, os.WriteFile(pa, []byte("hello"), 0o600))
	require.NoError(t, storage.SaveChecksum(pa))

	require.NoError(t, storage.RemoveChecksum(pa))

	_, err := os.Stat(pa + storage.ChecksumSuffix)
	require.ErrorIs(t, err, os.ErrNotExist)

	// Removing an absent sidecar succeeds.
	require.NoError(t, storage.RemoveChecksum(pa))
}
