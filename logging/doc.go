// Package logging builds the process logger: human-readable text on a
// terminal, one JSON object per record everywhere else.
package logging
