// Package encoder turns an image into a digest stream. Pixels are digested
// in parallel stripes; every worker owns a disjoint range of output slots,
// so the stream order always equals the pixel order regardless of
// scheduling.
//
// The pipeline is Loaded -> Digesting -> Serialized -> Persisted. Encode
// covers digesting only; EncodeFile runs the whole pipeline.
package encoder
