// Package pipeline implements the raster post-processing stages applied to
// every rendered page.
//
// Stages run in a fixed order:
//   - Trim: crop to the bounding box of non-background content
//   - Pad: add a solid white margin on all sides
//   - Resize: scale proportionally with a Lanczos filter
//
// Every stage is a pure function: the input image is never modified and a
// new image is returned (or the input itself when the stage is a no-op).
// Rendering and encoding are handled by the root pdfpages package.
package pipeline
