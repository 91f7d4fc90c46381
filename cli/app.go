package cli

import (
	"bufio"
	"context"
	"errors"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strings"

	"github.com/spf13/pflag"

	"github.com/byte4ever/pain/config"
)

// StreamExt is the extension decrypt accepts.
const StreamExt = ".pain"

var (
	// ErrInvalidExtension reports a decrypt target without StreamExt.
	ErrInvalidExtension = errors.New("file must have .pain extension")

	// ErrUsage reports a malformed command line.
	ErrUsage = errors.New("usage error")
)

// ValidateStreamPath checks that path names a stream file. The check
// looks at the extension only.
func ValidateStreamPath(path string) error {
	if filepath.Ext(path) != StreamExt {
		return fmt.Errorf("%w: %q", ErrInvalidExtension, path)
	}

	return nil
}

// App binds the command tree to its streams.
type App struct {
	In  io.Reader
	Out io.Writer
	Err io.Writer

	// Actions defaults to a Runner over Out and Err.
	Actions Actions
}

// Run executes the command line args, without the program name.
func (a *App) Run(ctx context.Context, args []string) error {
	return a.Root().Execute(ctx, args)
}

// Root builds the command tree.
func (a *App) Root() *Command {
	var opts Options

	return &Command{
		Name:    "pain",
		Summary: "Turn images into per-pixel digest streams and brute-force them back.",
		Usage:   "pain [command] [flags]   (no command opens the menu)",
		Help:    a.errWriter(),
		Flags:   func() *pflag.FlagSet { return opts.FlagSet("pain") },
		Subcommands: []*Command{
			a.encryptCommand(),
			a.decryptCommand(),
			a.selfTestCommand(),
		},
		Run: func(ctx context.Context, args []string) error {
			if len(args) > 0 {
				return fmt.Errorf(
					"%w: unknown command %q, run 'pain --help' for usage",
					ErrUsage, args[0],
				)
			}

			cfg, err := opts.Config()
			if err != nil {
				return err
			}

			if opts.Output != "" {
				cfg.Output.Encrypted = opts.Output
				cfg.Output.Decrypted = opts.Output
			}

			return a.Menu(ctx, cfg)
		},
	}
}

// encryptCommand builds "pain encrypt <image>".
func (a *App) encryptCommand() *Command {
	var opts Options

	return &Command{
		Name:    "encrypt",
		Summary: "Digest every pixel of an image into a stream file",
		Usage:   "pain encrypt <image> [flags]",
		Flags:   func() *pflag.FlagSet { return opts.FlagSet("encrypt") },
		Run: func(ctx context.Context, args []string) error {
			input, err := single(args, "image path")
			if err != nil {
				return err
			}

			cfg, err := opts.Config()
			if err != nil {
				return err
			}

			if opts.Output != "" {
				cfg.Output.Encrypted = opts.Output
			}

			return a.encrypt(ctx, cfg, input)
		},
	}
}

// decryptCommand builds "pain decrypt <file.pain>".
func (a *App) decryptCommand() *Command {
	var opts Options

	return &Command{
		Name:    "decrypt",
		Summary: "Recover an image from a stream file by exhaustive search",
		Usage:   "pain decrypt <file.pain> [flags]",
		Flags:   func() *pflag.FlagSet { return opts.FlagSet("decrypt") },
		Run: func(ctx context.Context, args []string) error {
			input, err := single(args, "stream path")
			if err != nil {
				return err
			}

			cfg, err := opts.Config()
			if err != nil {
				return err
			}

			if opts.Output != "" {
				cfg.Output.Decrypted = opts.Output
			}

			return a.decrypt(ctx, cfg, input)
		},
	}
}

// selfTestCommand builds "pain selftest".
func (a *App) selfTestCommand() *Command {
	var opts Options

	return &Command{
		Name:    "selftest",
		Summary: "Round-trip a 10x10 blue image and compare",
		Usage:   "pain selftest [flags]",
		Flags:   func() *pflag.FlagSet { return opts.FlagSet("selftest") },
		Run: func(ctx context.Context, args []string) error {
			if len(args) > 0 {
				return fmt.Errorf("%w: selftest takes no arguments", ErrUsage)
			}

			cfg, err := opts.Config()
			if err != nil {
				return err
			}

			if opts.Output != "" {
				cfg.Output.TestImage = opts.Output
			}

			return a.selfTest(ctx, cfg)
		},
	}
}

// Menu asks for an action on In and performs it. An unknown choice or a
// decrypt target with the wrong extension is reported on Out and is not
// an error.
func (a *App) Menu(ctx context.Context, cfg config.Config) error {
	in := bufio.NewReader(a.in())

	a.say(
		"Choose action:",
		"1. Encrypt image",
		"2. Decrypt image",
		"3. Run test",
		"Enter number (1-3):",
	)

	choice, err := readLine(in)
	if err != nil {
		return err
	}

	switch choice {
	case "1":
		a.say("Enter image path:")

		path, err := readLine(in)
		if err != nil {
			return err
		}

		return a.encrypt(ctx, cfg, path)
	case "2":
		a.say("Enter encrypted file path:")

		path, err := readLine(in)
		if err != nil {
			return err
		}

		err = a.decrypt(ctx, cfg, path)
		if errors.Is(err, ErrInvalidExtension) {
			return nil
		}

		return err
	case "3":
		return a.selfTest(ctx, cfg)
	default:
		a.say("Invalid option!")

		return nil
	}
}

// encrypt runs the encrypt action and reports where the stream went.
func (a *App) encrypt(
	ctx context.Context,
	cfg config.Config,
	input string,
) error {
	out, err := a.actions().Encrypt(ctx, cfg, input)
	if err != nil {
		return err
	}

	a.say("Encryption complete! See " + out)

	return nil
}

// decrypt checks the extension, runs the decrypt action and reports
// where the image went.
func (a *App) decrypt(
	ctx context.Context,
	cfg config.Config,
	input string,
) error {
	if err := ValidateStreamPath(input); err != nil {
		a.say("Error: File must have .pain extension!")

		return err
	}

	out, err := a.actions().Decrypt(ctx, cfg, input)
	if err != nil {
		return err
	}

	a.say("Decryption complete! See " + out)

	return nil
}

// selfTest runs the self-test action between status lines.
func (a *App) selfTest(ctx context.Context, cfg config.Config) error {
	a.say("Running test...")

	if err := a.actions().SelfTest(ctx, cfg); err != nil {
		return err
	}

	a.say("Test passed!")

	return nil
}

// actions returns Actions or the production Runner.
func (a *App) actions() Actions {
	if a.Actions != nil {
		return a.Actions
	}

	return &Runner{Out: a.out(), Err: a.errWriter()}
}

// say prints each line to Out.
func (a *App) say(lines ...string) {
	for _, l := range lines {
		fmt.Fprintln(a.out(), l)
	}
}

// in returns In, defaulting to stdin.
func (a *App) in() io.Reader {
	if a.In == nil {
		return os.Stdin
	}

	return a.In
}

// out returns Out, defaulting to stdout.
func (a *App) out() io.Writer {
	if a.Out == nil {
		return os.Stdout
	}

	return a.Out
}

// errWriter returns Err, defaulting to stderr.
func (a *App) errWriter() io.Writer {
	if a.Err == nil {
		return os.Stderr
	}

	return a.Err
}

// readLine returns the next line without surrounding blanks. End of
// input ends the line.
func readLine(r *bufio.Reader) (string, error) {
	line, err := r.ReadString('\n')
	if err != nil && !errors.Is(err, io.EOF) {
		return "", fmt.Errorf("reading input: %w", err)
	}

	return strings.TrimSpace(line), nil
}

// single returns the only positional argument.
func single(args []string, what string) (string, error) {
	if len(args) != 1 {
		return "", fmt.Errorf(
			"%w: expected one %s, got %d arguments", ErrUsage, what, len(args),
		)
	}

	return args[0], nil
}
