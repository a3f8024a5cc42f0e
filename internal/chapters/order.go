package chapters

import (
	"math"
	"regexp"
	"slices"
	"strconv"
	"strings"

	"github.com/brogergvhs/nelodl/internal/providers"
)

// Keyword is the substring a chapter name must contain to be downloaded.
const Keyword = "Chapter"

var reChapterNumber = regexp.MustCompile(`Chapter (\d+(?:\.\d+)?)`)

// Key extracts the chapter number from a name such as "Vol.2 Chapter 12.5".
func Key(name string) (float64, bool) {
	m := reChapterNumber.FindStringSubmatch(name)
	if m == nil {
		return 0, false
	}

	n, err := strconv.ParseFloat(m[1], 64)
	if err != nil || math.IsNaN(n) {
		return 0, false
	}

	return n, true
}

func sortKey(name string) float64 {
	if n, ok := Key(name); ok {
		return n
	}

	return math.Inf(1)
}

// Sort returns chs ordered by chapter number. Names without a number go last;
// equal keys keep their input order.
func Sort(chs []providers.ChapterRef) []providers.ChapterRef {
	type keyed struct {
		ref providers.ChapterRef
		key float64
	}

	tmp := make([]keyed, len(chs))
	for i, c := range chs {
		tmp[i] = keyed{ref: c, key: sortKey(c.Name)}
	}

	slices.SortStableFunc(tmp, func(a, b keyed) int {
		switch {
		case a.key < b.key:
			return -1
		case a.key > b.key:
			return 1
		default:
			return 0
		}
	})

	out := make([]providers.ChapterRef, len(tmp))
	for i := range tmp {
		out[i] = tmp[i].ref
	}

	return out
}

// FilterKeyword keeps the chapters whose name contains kw (case-sensitive).
func FilterKeyword(chs []providers.ChapterRef, kw string) []providers.ChapterRef {
	out := make([]providers.ChapterRef, 0, len(chs))
	for _, c := range chs {
		if strings.Contains(c.Name, kw) {
			out = append(out, c)
		}
	}

	return out
}
