// Package pixel converts between decoded images and the row-major sequence
// of four-channel pixel values the rest of the pipeline works on. It also
// opens and saves raster files: PNG, JPEG and GIF through the standard
// library, BMP, TIFF and WebP through golang.org/x/image.
package pixel
