// Package selftest runs the whole encrypt and decrypt pipeline on a
// small solid blue image and checks that the recovered image matches.
package selftest
