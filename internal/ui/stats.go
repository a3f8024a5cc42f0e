package ui

import (
	"fmt"
	"io"
	"time"

	"github.com/brogergvhs/nelodl/internal/util"
)

// Stats accumulates what a run produced. Chapters are processed one at a
// time, so no locking is needed.
type Stats struct {
	Chapters int
	Pages    int
	Missing  int
	Bytes    int64
	Elapsed  time.Duration
}

func (s *Stats) Print(w io.Writer) {
	_, _ = fmt.Fprintln(w)
	_, _ = fmt.Fprintln(w, "Download Summary:")
	_, _ = fmt.Fprintf(w, "Chapters: %d\n", s.Chapters)
	_, _ = fmt.Fprintf(w, "Pages:    %d\n", s.Pages)
	if s.Missing > 0 {
		_, _ = fmt.Fprintf(w, "Missing:  %d\n", s.Missing)
	}
	_, _ = fmt.Fprintf(w, "Data:     %s\n", util.Human(s.Bytes))
	_, _ = fmt.Fprintf(w, "Time:     %s\n", s.Elapsed.Round(time.Second))
}
