package config

import (
	"bytes"
	"errors"
	"fmt"
	"io"
	"os"

	"github.com/goccy/go-yaml"

	"github.com/byte4ever/pain/digest"
	"github.com/byte4ever/pain/logging"
	"github.com/byte4ever/pain/progress"
	"github.com/byte4ever/pain/storage"
)

// EnvVar names the environment variable holding the default
// configuration file path.
const EnvVar = "PAIN_CONFIG"

// Default output file names.
const (
	DefaultEncrypted = "encrypted.pain"
	DefaultDecrypted = "decrypted.png"
	DefaultTestImage = "pixels.png"
)

// ErrInvalidConfig reports a configuration that cannot be used.
var ErrInvalidConfig = errors.New("invalid configuration")

// Config holds every user-tunable setting.
type Config struct {
	// Algorithm names the digest algorithm.
	Algorithm string `yaml:"algorithm"`

	// Workers is the parallelism of encode stripes and decode chunks.
	// Zero means one per CPU.
	Workers int `yaml:"workers"`

	// Compression frames written streams: none, zstd or lz4.
	Compression string `yaml:"compression"`

	// Checksum writes a SHA-256 sidecar next to each stream.
	Checksum bool `yaml:"checksum"`

	// Progress selects the progress display: auto, bars, log or off.
	Progress string `yaml:"progress"`

	// LogLevel is the minimum level logged.
	LogLevel string `yaml:"log_level"`

	// Report, when set, is a path template for a JSON run report.
	Report string `yaml:"report"`

	Output Output `yaml:"output"`
}

// Output holds the output path templates.
type Output struct {
	Encrypted string `yaml:"encrypted"`
	Decrypted string `yaml:"decrypted"`
	TestImage string `yaml:"test_image"`
}

// Default returns the built-in settings.
func Default() Config {
	return Config{
		Algorithm:   digest.Default.Name(),
		Compression: storage.CompressionNone.String(),
		Progress:    string(progress.ModeAuto),
		LogLevel:    "info",
		Output: Output{
			Encrypted: DefaultEncrypted,
			Decrypted: DefaultDecrypted,
			TestImage: DefaultTestImage,
		},
	}
}

// Path returns explicit when set and the value of EnvVar otherwise.
func Path(explicit string) string {
	if explicit != "" {
		return explicit
	}

	return os.Getenv(EnvVar)
}

// Load reads the YAML file at path over the defaults and validates the
// result. An empty path yields the defaults.
func Load(path string) (Config, error) {
	const errCtx = "loading config"

	if path == "" {
		return Default(), nil
	}

	data, err := os.ReadFile(path) //nolint:gosec // path is caller-provided by design
	if err != nil {
		return Config{}, fmt.Errorf("%s: %w", errCtx, err)
	}

	cfg, err := Parse(data)
	if err != nil {
		return Config{}, fmt.Errorf("%s: %s: %w", errCtx, path, err)
	}

	return cfg, nil
}

// Parse decodes YAML over the defaults and validates the result.
// Unknown keys are rejected.
func Parse(data []byte) (Config, error) {
	const errCtx = "parsing config"

	cfg := Default()

	dec := yaml.NewDecoder(
		bytes.NewReader(data),
		yaml.DisallowUnknownField(),
	)

	if err := dec.Decode(&cfg); err != nil && !errors.Is(err, io.EOF) {
		return Config{}, fmt.Errorf(
			"%s: %w: %w", errCtx, ErrInvalidConfig, err,
		)
	}

	if err := cfg.Validate(); err != nil {
		return Config{}, fmt.Errorf("%s: %w", errCtx, err)
	}

	return cfg, nil
}

// Validate checks every field.
func (c Config) Validate() error {
	var errs []error

	if c.Workers < 0 {
		errs = append(errs, fmt.Errorf("workers must be >= 0, got %d", c.Workers))
	}

	if _, err := c.DigestAlgorithm(); err != nil {
		errs = append(errs, err)
	}

	if _, err := c.CompressionValue(); err != nil {
		errs = append(errs, err)
	}

	if _, err := c.ProgressMode(); err != nil {
		errs = append(errs, err)
	}

	if _, err := logging.ParseLevel(c.LogLevel); err != nil {
		errs = append(errs, err)
	}

	for name, tpl := range map[string]string{
		"output.encrypted":  c.Output.Encrypted,
		"output.decrypted":  c.Output.Decrypted,
		"output.test_image": c.Output.TestImage,
	} {
		if tpl == "" {
			errs = append(errs, fmt.Errorf("%s must not be empty", name))
		}
	}

	if len(errs) > 0 {
		return fmt.Errorf("%w: %w", ErrInvalidConfig, errors.Join(errs...))
	}

	return nil
}

// DigestAlgorithm resolves Algorithm.
func (c Config) DigestAlgorithm() (digest.Algorithm, error) {
	return digest.Lookup(c.Algorithm)
}

// CompressionValue resolves Compression.
func (c Config) CompressionValue() (storage.Compression, error) {
	return storage.ParseCompression(c.Compression)
}

// ProgressMode resolves Progress.
func (c Config) ProgressMode() (progress.Mode, error) {
	return progress.ParseMode(c.Progress)
}
