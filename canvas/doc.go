// Package canvas assembles recovered pixels into an output image.
//
// A Canvas is one flat arena of width*height pixels. Region hands out
// disjoint windows of that arena, one per search chunk, so concurrent
// writers never share an index and need no lock. The canvas must only be
// read after every writer has finished.
package canvas
