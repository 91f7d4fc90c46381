// Package report writes a JSON summary of one encrypt, decrypt or
// self-test run.
package report
