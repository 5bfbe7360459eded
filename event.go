package pdfpages

import "fmt"

// EventKind identifies a progress event.
type EventKind int

const (
	EventPageSplit    EventKind = iota // one single-page PDF written
	EventSplitDone                     // all pages split; Count is the total
	EventImageWritten                  // one PNG or WebP file written
	EventPageSkipped                   // page could not be rendered; Err says why
	EventImagesDone                    // all pages rendered; Count is the number of files
)

func (k EventKind) String() string {
	switch k {
	case EventPageSplit:
		return "page-split"
	case EventSplitDone:
		return "split-done"
	case EventImageWritten:
		return "image-written"
	case EventPageSkipped:
		return "page-skipped"
	case EventImagesDone:
		return "images-done"
	default:
		return fmt.Sprintf("EventKind(%d)", int(k))
	}
}

// Event reports one completed step of a run. Page is 1-based.
type Event struct {
	Kind  EventKind
	Page  int
	Total int
	Path  string
	Count int
	Err   error
}

// String renders the event as a single progress line.
func (e Event) String() string {
	switch e.Kind {
	case EventPageSplit:
		return fmt.Sprintf("Saved page %d/%d: %s", e.Page, e.Total, e.Path)
	case EventSplitDone:
		return fmt.Sprintf("Split %d pages into single-page PDFs", e.Count)
	case EventImageWritten:
		return fmt.Sprintf("Wrote page %d/%d: %s", e.Page, e.Total, e.Path)
	case EventPageSkipped:
		if e.Err != nil {
			return fmt.Sprintf("Skipped page %d/%d: %v", e.Page, e.Total, e.Err)
		}
		return fmt.Sprintf("Skipped page %d/%d", e.Page, e.Total)
	case EventImagesDone:
		return fmt.Sprintf("Wrote %d images", e.Count)
	default:
		return e.Kind.String()
	}
}

// ProgressFunc receives events in order from the goroutine running the
// conversion. It must not block for long.
type ProgressFunc func(Event)
