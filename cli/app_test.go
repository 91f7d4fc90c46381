package cli_test

import (
	"bytes"
	"context"
	"errors"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/byte4ever/pain/cli"
	"github.com/byte4ever/pain/config"
)

type call struct {
	action string
	input  string
	cfg    config.Config
}

type fakeActions struct {
	calls []call
	err   error
}

func (f *fakeActions) Encrypt(
	_ context.Context,
	cfg config.Config,
	input string,
) (string, error) {
	f.calls = append(f.calls, call{"encrypt", input, cfg})

	return config.RenderPath(cfg.Output.Encrypted, input), f.err
}

func (f *fakeActions) Decrypt(
	_ context.Context,
	cfg config.Config,
	input string,
) (string, error) {
	f.calls = append(f.calls, call{"decrypt", input, cfg})

	return config.RenderPath(cfg.Output.Decrypted, input), f.err
}

func (f *fakeActions) SelfTest(_ context.Context, cfg config.Config) error {
	f.calls = append(f.calls, call{"selftest", "", cfg})

	return f.err
}

type harness struct {
	app     *cli.App
	actions *fakeActions
	out     *bytes.Buffer
	errOut  *bytes.Buffer
}

func newHarness(stdin string) *harness {
	h := &harness{
		actions: &fakeActions{},
		out:     &bytes.Buffer{},
		errOut:  &bytes.Buffer{},
	}

	h.app = &cli.App{
		In:      strings.NewReader(stdin),
		Out:     h.out,
		Err:     h.errOut,
		Actions: h.actions,
	}

	return h
}

// configFile writes yaml to a temporary file so tests never depend on
// $PAIN_CONFIG.
func configFile(t *testing.T, yaml string) string {
	t.Helper()

	path := filepath.Join(t.TempDir(), "pain.yaml")
	require.NoError(t, os.WriteFile(path, []byte(yaml), 0o600))

	return path
}

func TestMenu_prompts(t *testing.T) {
	t.Parallel()

	h := newHarness("9\n")

	require.NoError(t, h.app.Menu(context.Background(), config.Default()))

	assert.Equal(t,
		"Choose action:\n"+
			"1. Encrypt image\n"+
			"2. Decrypt image\n"+
			"3. Run test\n"+
			"Enter number (1-3):\n"+
			"Invalid option!\n",
		h.out.String(),
	)
	assert.Empty(t, h.actions.calls)
}

func TestMenu_encrypt(t *testing.T) {
	t.Parallel()

	h := newHarness("1\n  photos/cat.png \n")

	require.NoError(t, h.app.Menu(context.Background(), config.Default()))

	require.Len(t, h.actions.calls, 1)
	assert.Equal(t, "encrypt", h.actions.calls[0].action)
	assert.Equal(t, "photos/cat.png", h.actions.calls[0].input)
	assert.Contains(t, h.out.String(), "Enter image path:\n")
	assert.Contains(t, h.out.String(), "Encryption complete! See encrypted.pain\n")
}

func TestMenu_decrypt(t *testing.T) {
	t.Parallel()

	h := newHarness("2\nencrypted.pain")

	require.NoError(t, h.app.Menu(context.Background(), config.Default()))

	require.Len(t, h.actions.calls, 1)
	assert.Equal(t, "decrypt", h.actions.calls[0].action)
	assert.Contains(t, h.out.String(), "Enter encrypted file path:\n")
	assert.Contains(t, h.out.String(), "Decryption complete! See decrypted.png\n")
}

func TestMenu_decrypt_rejects_extension(t *testing.T) {
	t.Parallel()

	h := newHarness("2\nencrypted.png\n")

	require.NoError(t, h.app.Menu(context.Background(), config.Default()))

	assert.Empty(t, h.actions.calls)
	assert.Contains(t, h.out.String(), "Error: File must have .pain extension!\n")
}

func TestMenu_selftest(t *testing.T) {
	t.Parallel()

	h := newHarness("3\n")

	require.NoError(t, h.app.Menu(context.Background(), config.Default()))

	require.Len(t, h.actions.calls, 1)
	assert.Equal(t, "selftest", h.actions.calls[0].action)
	assert.Contains(t, h.out.String(), "Running test...\n")
}

func TestMenu_action_failure(t *testing.T) {
	t.Parallel()

	boom := errors.New("boom")
	h := newHarness("1\ncat.png\n")
	h.actions.err = boom

	err := h.app.Menu(context.Background(), config.Default())

	require.ErrorIs(t, err, boom)
	assert.NotContains(t, h.out.String(), "Encryption complete!")
}

func TestMenu_empty_input(t *testing.T) {
	t.Parallel()

	h := newHarness("")

	require.NoError(t, h.app.Menu(context.Background(), config.Default()))
	assert.Contains(t, h.out.String(), "Invalid option!")
}

func TestRun_no_args_opens_menu(t *testing.T) {
	t.Parallel()

	h := newHarness("3\n")

	require.NoError(t, h.app.Run(
		context.Background(),
		[]string{"--config", configFile(t, "workers: 2\n")},
	))

	require.Len(t, h.actions.calls, 1)
	assert.Equal(t, 2, h.actions.calls[0].cfg.Workers)
}

func TestRun_encrypt_flags_override_file(t *testing.T) {
	t.Parallel()

	h := newHarness("")
	cfgPath := configFile(t, "workers: 2\nalgorithm: sha256\ncompression: zstd\n")

	require.NoError(t, h.app.Run(context.Background(), []string{
		"encrypt",
		"--config", cfgPath,
		"-w", "5",
		"--algorithm", "blake3",
		"--checksum",
		"-o", "{{dir}}/{{name}}.pain",
		"img/cat.png",
	}))

	require.Len(t, h.actions.calls, 1)

	c := h.actions.calls[0]
	assert.Equal(t, "img/cat.png", c.input)
	assert.Equal(t, 5, c.cfg.Workers)
	assert.Equal(t, "blake3", c.cfg.Algorithm)
	assert.Equal(t, "zstd", c.cfg.Compression)
	assert.True(t, c.cfg.Checksum)
	assert.Contains(t, h.out.String(), "Encryption complete! See img/cat.pain\n")
}

func TestRun_decrypt_rejects_extension(t *testing.T) {
	t.Parallel()

	h := newHarness("")

	err := h.app.Run(context.Background(), []string{
		"decrypt", "--config", configFile(t, "workers: 1\n"), "image.png",
	})

	require.ErrorIs(t, err, cli.ErrInvalidExtension)
	assert.Empty(t, h.actions.calls)
}

func TestRun_decrypt(t *testing.T) {
	t.Parallel()

	h := newHarness("")

	require.NoError(t, h.app.Run(context.Background(), []string{
		"decrypt",
		"--config", configFile(t, "workers: 1\n"),
		"--output", "out/{{name}}.png",
		"enc/cat.pain",
	}))

	require.Len(t, h.actions.calls, 1)
	assert.Equal(t, "out/{{name}}.png", h.actions.calls[0].cfg.Output.Decrypted)
	assert.Contains(t, h.out.String(), "Decryption complete! See out/cat.png\n")
}

func TestRun_selftest(t *testing.T) {
	t.Parallel()

	h := newHarness("")

	require.NoError(t, h.app.Run(context.Background(), []string{
		"selftest", "--config", configFile(t, "workers: 1\n"),
		"--progress", "off",
	}))

	require.Len(t, h.actions.calls, 1)
	assert.Equal(t, "off", h.actions.calls[0].cfg.Progress)
	assert.Contains(t, h.out.String(), "Test passed!")
}

func TestRun_rejects(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name string
		args []string
		want error
	}{
		{"encrypt without path", []string{"encrypt"}, cli.ErrUsage},
		{"encrypt with two paths", []string{"encrypt", "a.png", "b.png"}, cli.ErrUsage},
		{"unknown flag", []string{"encrypt", "--colour", "a.png"}, cli.ErrUsage},
		{"unknown command", []string{"explode"}, cli.ErrUsage},
		{"selftest with args", []string{"selftest", "x"}, cli.ErrUsage},
		{"bad algorithm", []string{"encrypt", "-a", "md5", "a.png"}, config.ErrInvalidConfig},
		{"negative workers", []string{"selftest", "-w", "-1"}, config.ErrInvalidConfig},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()

			h := newHarness("")
			args := append(tt.args, "--config", configFile(t, "workers: 1\n"))

			err := h.app.Run(context.Background(), args)

			require.ErrorIs(t, err, tt.want)
			assert.Empty(t, h.actions.calls)
		})
	}
}

func TestRun_help(t *testing.T) {
	t.Parallel()

	for _, args := range [][]string{
		{"--help"},
		{"-h"},
		{"encrypt", "--help"},
		{"decrypt", "-h"},
	} {
		h := newHarness("")

		require.NoError(t, h.app.Run(context.Background(), args))
		assert.Contains(t, h.errOut.String(), "Usage:")
		assert.Empty(t, h.actions.calls)
	}
}

func TestRoot_help_lists_commands(t *testing.T) {
	t.Parallel()

	var buf bytes.Buffer

	(&cli.App{}).Root().PrintHelp(&buf)

	for _, want := range []string{"encrypt", "decrypt", "selftest", "--workers", "--algorithm"} {
		assert.Contains(t, buf.String(), want)
	}
}

func TestValidateStreamPath(t *testing.T) {
	t.Parallel()

	require.NoError(t, cli.ValidateStreamPath("encrypted.pain"))
	require.NoError(t, cli.ValidateStreamPath("/tmp/x.y.pain"))

	for _, bad := range []string{"", "pain", "x.png", "x.pain.zst", "x.PAIN"} {
		assert.ErrorIs(t, cli.ValidateStreamPath(bad), cli.ErrInvalidExtension, bad)
	}
}
