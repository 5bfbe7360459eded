// Package pdfpages splits a PDF into per-page artifacts: single-page PDFs,
// PNG images and WebP images.
//
// # Quick Start
//
//	spec := pdfpages.DefaultOutputSpec("book.pdf", "out")
//	spec.Outputs = pdfpages.Outputs{PDF: true, PNG: true}
//
//	res, err := pdfpages.NewConverter().Run(ctx, spec)
//	if err != nil {
//	    log.Fatal(err)
//	}
//	fmt.Println(len(res.Documents), "documents,", len(res.Images), "images")
//
// # Pipeline
//
// A run opens the document, then makes up to two passes over its pages:
//
//  1. Splitting (PDF output): each page is extracted with pdfcpu and written
//     as a standalone one-page PDF.
//  2. Rendering (PNG or WebP output): each page is rasterized, trimmed to its
//     content, padded with a white margin, resized, then encoded.
//
// Pages are processed in order and the first error aborts the run. A page
// the renderer cannot reference is skipped and reported as an
// EventPageSkipped event.
//
// # Backends
//
// Pages are rasterized in process with MuPDF (go-fitz) unless
// OutputSpec.ExternalRenderer is set, in which case pdftocairo or pdftoppm
// is used. WebP is encoded in process unless the binary was built with
// -tags nowebp, in which case cwebp is used. Both choices are made once per
// run; see ResolveRenderBackend and ResolveEncodeBackend.
//
// # Progress
//
// Use WithProgress for a callback, or Converter.Start to run in the
// background and read events from a channel:
//
//	job := conv.Start(ctx, spec)
//	for e := range job.Events() {
//	    fmt.Println(e)
//	}
//	res, err := job.Wait()
//
// # File Names
//
// Output names depend on the optional chapter label: "01.png" without a
// chapter, "CH03_F01_raschka.png" for chapter "3" and
// "intro_F01_raschka.png" for chapter "intro". See FileName.
package pdfpages
