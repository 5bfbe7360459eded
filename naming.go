package pdfpages

import (
	"fmt"
	"strconv"
	"strings"
)

// File extensions for each output kind.
const (
	ExtPDF  = "pdf"
	ExtPNG  = "png"
	ExtWebP = "webp"
)

// ChapterPrefix returns the file name prefix for a chapter label.
// A numeric label becomes "CH03_", other text is used as is with a trailing
// underscore, and an empty label yields no prefix.
func ChapterPrefix(chapter string) string {
	chapter = strings.TrimSpace(chapter)
	if chapter == "" {
		return ""
	}
	if n, err := strconv.Atoi(chapter); err == nil {
		return fmt.Sprintf("CH%02d_", n)
	}
	return chapter + "_"
}

// BaseName returns the extension-less file name for the page at index
// (0-based). Page numbers in names are 1-based and zero-padded to two digits.
func BaseName(chapter string, index int) string {
	prefix := ChapterPrefix(chapter)
	if prefix == "" {
		return fmt.Sprintf("%02d", index+1)
	}
	return fmt.Sprintf("%sF%02d_raschka", prefix, index+1)
}

// FileName returns BaseName with ext appended.
//
//	FileName("", 0, "pdf")      // "01.pdf"
//	FileName("3", 0, "pdf")     // "CH03_F01_raschka.pdf"
//	FileName("intro", 0, "png") // "intro_F01_raschka.png"
func FileName(chapter string, index int, ext string) string {
	return BaseName(chapter, index) + "." + ext
}
