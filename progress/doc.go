// Package progress tracks per-task counters during encoding and decoding
// and renders them. Counters are observational only: nothing in the
// pipeline reads them to make a decision.
//
// A Tracker owns the tasks created for one operation. A Renderer samples
// the tracker on an interval and draws one bar per task on a terminal,
// or emits structured log records when the output is not a terminal.
package progress
