package cli

import (
	"fmt"
	"strings"

	"github.com/spf13/pflag"

	"github.com/byte4ever/pain/config"
	"github.com/byte4ever/pain/digest"
)

// Options are the flags shared by every command.
type Options struct {
	ConfigPath  string
	Output      string
	Workers     int
	Algorithm   string
	Compression string
	Checksum    bool
	Report      string
	Progress    string
	LogLevel    string

	fs *pflag.FlagSet
}

// FlagSet returns a fresh flag set named name, bound to o.
func (o *Options) FlagSet(name string) *pflag.FlagSet {
	fs := pflag.NewFlagSet(name, pflag.ContinueOnError)

	fs.StringVarP(
		&o.ConfigPath, "config", "c", "",
		"YAML configuration file (default $"+config.EnvVar+")",
	)
	fs.StringVarP(
		&o.Output, "output", "o", "",
		"output path template; {{dir}}, {{name}} and {{ext}} expand from the input",
	)
	fs.IntVarP(
		&o.Workers, "workers", "w", 0,
		"parallel workers, 0 for one per CPU",
	)
	fs.StringVarP(
		&o.Algorithm, "algorithm", "a", "",
		"digest algorithm: "+strings.Join(digest.Names(), ", "),
	)
	fs.StringVar(
		&o.Compression, "compression", "",
		"stream framing: none, zstd or lz4",
	)
	fs.BoolVar(
		&o.Checksum, "checksum", false,
		"write a SHA-256 sidecar next to the stream",
	)
	fs.StringVar(
		&o.Report, "report", "",
		"write a JSON run report to this path template",
	)
	fs.StringVar(
		&o.Progress, "progress", "",
		"progress display: auto, bars, log or off",
	)
	fs.StringVar(
		&o.LogLevel, "log-level", "",
		"minimum log level: debug, info, warn or error",
	)

	o.fs = fs

	return fs
}

// Config loads the configuration file and applies every flag the user
// set on top of it. The --output flag is left to the command.
func (o *Options) Config() (config.Config, error) {
	const errCtx = "resolving configuration"

	cfg, err := config.Load(config.Path(o.ConfigPath))
	if err != nil {
		return config.Config{}, fmt.Errorf("%s: %w", errCtx, err)
	}

	if o.changed("workers") {
		cfg.Workers = o.Workers
	}

	if o.changed("algorithm") {
		cfg.Algorithm = o.Algorithm
	}

	if o.changed("compression") {
		cfg.Compression = o.Compression
	}

	if o.changed("checksum") {
		cfg.Checksum = o.Checksum
	}

	if o.changed("report") {
		cfg.Report = o.Report
	}

	if o.changed("progress") {
		cfg.Progress = o.Progress
	}

	if o.changed("log-level") {
		cfg.LogLevel = o.LogLevel
	}

	if err := cfg.Validate(); err != nil {
		return config.Config{}, fmt.Errorf("%s: %w", errCtx, err)
	}

	return cfg, nil
}

// changed reports whether the user set flag name.
func (o *Options) changed(name string) bool {
	return o.fs != nil && o.fs.Changed(name)
}
