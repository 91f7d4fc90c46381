package cli

import (
	"context"
	"errors"
	"fmt"
	"io"
	"strings"
	"text/tabwriter"

	"github.com/spf13/pflag"
)

// Command is a node of the command tree.
type Command struct {
	// Name is the word typed by the user.
	Name string

	// Summary is the one-line description shown by the parent's help.
	Summary string

	// Usage overrides the synthesized usage line.
	Usage string

	// Flags returns the flag set of the command. Nil means no flags.
	Flags func() *pflag.FlagSet

	// Subcommands are dispatched by the first positional argument.
	Subcommands []*Command

	// Run receives the positional arguments left after flag parsing. It
	// is used when no subcommand matches.
	Run func(ctx context.Context, args []string) error

	// Help receives help output.
	Help io.Writer

	parent *Command
}

// Execute dispatches args to a subcommand or to Run.
func (c *Command) Execute(ctx context.Context, args []string) error {
	if len(args) > 0 && isHelpFlag(args[0]) {
		c.PrintHelp(c.helpWriter())

		return nil
	}

	if len(c.Subcommands) > 0 && len(args) > 0 &&
		!strings.HasPrefix(args[0], "-") {
		for _, sub := range c.Subcommands {
			if sub.Name == args[0] {
				sub.parent = c

				return sub.Execute(ctx, args[1:])
			}
		}

		if c.Run == nil {
			return fmt.Errorf(
				"%w: unknown command %q, run '%s --help' for usage",
				ErrUsage, args[0], c.fullName(),
			)
		}
	}

	if c.Flags != nil {
		fs := c.Flags()
		fs.SetOutput(io.Discard)

		err := fs.Parse(args)
		if errors.Is(err, pflag.ErrHelp) {
			c.PrintHelp(c.helpWriter())

			return nil
		}

		if err != nil {
			return fmt.Errorf(
				"%w: %w, run '%s --help' for usage",
				ErrUsage, err, c.fullName(),
			)
		}

		args = fs.Args()
	}

	if c.Run == nil {
		c.PrintHelp(c.helpWriter())

		return fmt.Errorf("%w: %s needs a command", ErrUsage, c.fullName())
	}

	return c.Run(ctx, args)
}

// PrintHelp writes usage, subcommands and flags to w.
func (c *Command) PrintHelp(w io.Writer) {
	if c.Summary != "" {
		fmt.Fprintf(w, "%s\n\n", c.Summary)
	}

	switch {
	case c.Usage != "":
		fmt.Fprintf(w, "Usage:\n  %s\n", c.Usage)
	case len(c.Subcommands) > 0:
		fmt.Fprintf(w, "Usage:\n  %s [command] [flags]\n", c.fullName())
	default:
		fmt.Fprintf(w, "Usage:\n  %s [flags]\n", c.fullName())
	}

	if len(c.Subcommands) > 0 {
		fmt.Fprintf(w, "\nCommands:\n")

		tw := tabwriter.NewWriter(w, 2, 0, 3, ' ', 0)
		for _, sub := range c.Subcommands {
			fmt.Fprintf(tw, "  %s\t%s\n", sub.Name, sub.Summary)
		}

		_ = tw.Flush()
	}

	if c.Flags != nil {
		if usage := c.Flags().FlagUsages(); usage != "" {
			fmt.Fprintf(w, "\nFlags:\n%s", usage)
		}
	}
}

// helpWriter returns the nearest Help writer up the tree.
func (c *Command) helpWriter() io.Writer {
	for n := c; n != nil; n = n.parent {
		if n.Help != nil {
			return n.Help
		}
	}

	return io.Discard
}

// fullName returns the command path, e.g. "pain decrypt".
func (c *Command) fullName() string {
	if c.parent == nil {
		return c.Name
	}

	return c.parent.fullName() + " " + c.Name
}

// isHelpFlag reports whether arg asks for help.
func isHelpFlag(arg string) bool {
	return arg == "-h" || arg == "--help" || arg == "help"
}
