// Package imgenc encodes page images as PNG (with resolution metadata) and
// WebP (when an in-process encoder is compiled in).
package imgenc
