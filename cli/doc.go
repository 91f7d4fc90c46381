// Package cli implements the pain command line: an interactive menu when
// run without arguments, and the encrypt, decrypt and selftest
// subcommands.
//
// Settings are resolved per command from config.Default, the YAML file
// named by --config or $PAIN_CONFIG, and finally the flags the user
// actually set.
package cli
