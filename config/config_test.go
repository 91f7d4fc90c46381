package config_test

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/byte4ever/pain/config"
	"github.com/byte4ever/pain/digest"
	"github.com/byte4ever/pain/progress"
	"github.com/byte4ever/pain/storage"
)

func TestDefault_is_valid(t *testing.T) {
	t.Parallel()

	cfg := config.Default()

	require.NoError(t, cfg.Validate())
	assert.Equal(t, "sha3-512", cfg.Algorithm)
	assert.Equal(t, "encrypted.pain", cfg.Output.Encrypted)
	assert.Equal(t, "decrypted.png", cfg.Output.Decrypted)
	assert.Equal(t, "pixels.png", cfg.Output.TestImage)

	alg, err := cfg.DigestAlgorithm()
	require.NoError(t, err)
	assert.Equal(t, digest.Default, alg)
}

func TestParse_overrides_keep_defaults(t *testing.T) {
	t.Parallel()

	cfg, err := config.Parse([]byte(`
algorithm: blake3
workers: 6
compression: zstd
checksum: true
output:
  encrypted: "{{dir}}/{{name}}.pain"
`))
	require.NoError(t, err)

	assert.Equal(t, "blake3", cfg.Algorithm)
	assert.Equal(t, 6, cfg.Workers)
	assert.True(t, cfg.Checksum)
	assert.Equal(t, "{{dir}}/{{name}}.pain", cfg.Output.Encrypted)
	assert.Equal(t, "decrypted.png", cfg.Output.Decrypted)
	assert.Equal(t, "info", cfg.LogLevel)

	c, err := cfg.CompressionValue()
	require.NoError(t, err)
	assert.Equal(t, storage.CompressionZstd, c)

	m, err := cfg.ProgressMode()
	require.NoError(t, err)
	assert.Equal(t, progress.ModeAuto, m)
}

func TestParse_empty_document(t *testing.T) {
	t.Parallel()

	cfg, err := config.Parse(nil)

	require.NoError(t, err)
	assert.Equal(t, config.Default(), cfg)
}

func TestParse_rejects(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name string
		yaml string
	}{
		{"unknown key", "colour: blue\n"},
		{"negative workers", "workers: -1\n"},
		{"unknown algorithm", "algorithm: md5\n"},
		{"unknown compression", "compression: gzip\n"},
		{"unknown progress", "progress: fancy\n"},
		{"unknown level", "log_level: loud\n"},
		{"empty output", "output:\n  decrypted: \"\"\n"},
		{"not yaml", "workers: [\n"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()

			_, err := config.Parse([]byte(tt.yaml))

			require.ErrorIs(t, err, config.ErrInvalidConfig)
		})
	}
}

func TestLoad_file(t *testing.T) {
	t.Parallel()

	path := filepath.Join(t.TempDir(), "pain.yaml")
	require.NoError(t, os.WriteFile(path, []byte("workers: 3\n"), 0o600))

	cfg, err := config.Load(path)

	require.NoError(t, err)
	assert.Equal(t, 3, cfg.Workers)
}

func TestLoad_empty_path(t *testing.T) {
	t.Parallel()

	cfg, err := config.Load("")

	require.NoError(t, err)
	assert.Equal(t, config.Default(), cfg)
}

func TestLoad_missing_file(t *testing.T) {
	t.Parallel()

	_, err := config.Load(filepath.Join(t.TempDir(), "nope.yaml"))

	require.ErrorIs(t, err, os.ErrNotExist)
}

func TestPath(t *testing.T) {
	t.Setenv(config.EnvVar, "/etc/pain.yaml")

	assert.Equal(t, "x.yaml", config.Path("x.yaml"))
	assert.Equal(t, "/etc/pain.yaml", config.Path(""))
}

func TestRenderPath(t *testing.T) {
	t.Parallel()

	tests := []struct {
		tpl   string
		input string
		want  string
	}{
		{"encrypted.pain", "img/cat.png", "encrypted.pain"},
		{"{{dir}}/{{name}}.pain", "img/cat.png", "img/cat.pain"},
		{"{{name}}{{ext}}.bak", "/tmp/a.b.jpg", "a.b.jpg.bak"},
		{"{{dir}}/{{name}}.png", "cat.pain", "./cat.png"},
		{"{{name}}-{{other}}", "cat.png", "cat-{{other}}"},
		{"{{dir}}/out.png", "", "./out.png"},
	}

	for _, tt := range tests {
		t.Run(tt.tpl+"|"+tt.input, func(t *testing.T) {
			t.Parallel()

			assert.Equal(t, tt.want, config.RenderPath(tt.tpl, tt.input))
		})
	}
}
