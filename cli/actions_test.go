package cli_test

import (
	"bytes"
	"context"
	"image"
	"image/color"
	"os"
	"path/filepath"
	"testing"

	json "github.com/goccy/go-json"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/byte4ever/pain/cli"
	"github.com/byte4ever/pain/config"
	"github.com/byte4ever/pain/pixel"
	"github.com/byte4ever/pain/report"
	"github.com/byte4ever/pain/storage"
)

func runnerConfig(dir string) config.Config {
	cfg := config.Default()
	cfg.Algorithm = "sha256"
	cfg.Workers = 2
	cfg.Compression = "lz4"
	cfg.Checksum = true
	cfg.Progress = "off"
	cfg.LogLevel = "error"
	cfg.Report = filepath.Join(dir, "{{name}}.report.json")
	cfg.Output.Encrypted = "{{dir}}/{{name}}.pain"
	cfg.Output.Decrypted = "{{dir}}/{{name}}.decrypted.png"

	return cfg
}

func readReport(t *testing.T, path string) report.Summary {
	t.Helper()

	data, err := os.ReadFile(path)
	require.NoError(t, err)

	var s report.Summary

	require.NoError(t, json.Unmarshal(data, &s))

	return s
}

func TestRunner_round_trip(t *testing.T) {
	t.Parallel()

	dir := t.TempDir()
	cfg := runnerConfig(dir)
	in := filepath.Join(dir, "cat.png")

	img := image.NewNRGBA(image.Rect(0, 0, 2, 2))
	img.SetNRGBA(0, 0, color.NRGBA{A: 1})
	img.SetNRGBA(1, 1, color.NRGBA{G: 0, B: 2, A: 255})
	require.NoError(t, pixel.Save(in, img))

	var out, errOut bytes.Buffer

	r := &cli.Runner{Out: &out, Err: &errOut}

	enc, err := r.Encrypt(context.Background(), cfg, in)
	require.NoError(t, err)
	assert.Equal(t, filepath.Join(dir, "cat.pain"), enc)

	raw, err := os.ReadFile(enc)
	require.NoError(t, err)
	assert.Equal(t, storage.CompressionLZ4, storage.Detect(raw))

	_, err = os.Stat(enc + storage.ChecksumSuffix)
	require.NoError(t, err)

	encReport := readReport(t, filepath.Join(dir, "cat.report.json"))
	assert.Equal(t, "encrypt", encReport.Command)
	assert.Equal(t, "sha256", encReport.Algorithm)
	assert.Equal(t, "lz4", encReport.Compression)
	assert.Equal(t, 4, encReport.Pixels)
	assert.Empty(t, encReport.Error)

	dec, err := r.Decrypt(context.Background(), cfg, enc)
	require.NoError(t, err)
	assert.Equal(t, filepath.Join(dir, "cat.decrypted.png"), dec)

	_, _, want, err := pixel.Open(in)
	require.NoError(t, err)

	_, _, got, err := pixel.Open(dec)
	require.NoError(t, err)
	assert.Equal(t, want, got)

	decReport := readReport(t, filepath.Join(dir, "cat.report.json"))
	assert.Equal(t, "decrypt", decReport.Command)
	assert.Equal(t, 2, decReport.Chunks)
	assert.Equal(t, 2, decReport.Width)
	assert.Positive(t, decReport.Checked)
}

func TestRunner_failure_is_reported(t *testing.T) {
	t.Parallel()

	dir := t.TempDir()
	cfg := runnerConfig(dir)
	in := filepath.Join(dir, "missing.png")

	var out, errOut bytes.Buffer

	_, err := (&cli.Runner{Out: &out, Err: &errOut}).
		Encrypt(context.Background(), cfg, in)

	require.ErrorIs(t, err, pixel.ErrImageLoad)

	rep := readReport(t, filepath.Join(dir, "missing.report.json"))
	assert.NotEmpty(t, rep.Error)
}

func TestRunner_selftest(t *testing.T) {
	t.Parallel()

	dir := t.TempDir()
	cfg := runnerConfig(dir)
	cfg.Algorithm = "sha3-512"
	cfg.Output.TestImage = filepath.Join(dir, "pixels.png")

	var out, errOut bytes.Buffer

	require.NoError(t, (&cli.Runner{Out: &out, Err: &errOut}).
		SelfTest(context.Background(), cfg))

	assert.Contains(t, out.String(), "Encrypted content: 10:10;")

	for _, name := range []string{
		"pixels.png", "pixels.pain", "pixels.decrypted.png",
		"pixels.report.json",
	} {
		_, err := os.Stat(filepath.Join(dir, name))
		require.NoError(t, err, name)
	}
}
