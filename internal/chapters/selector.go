package chapters

import (
	"fmt"
	"strconv"
	"strings"

	"github.com/brogergvhs/nelodl/internal/providers"
)

// Select narrows an ordered chapter list by 1-based position. rng is "a-b"
// (inclusive), list is "i,j,k"; rng wins when both are set. With neither, all
// chapters are returned.
func Select(all []providers.ChapterRef, rng, list string) ([]providers.ChapterRef, error) {
	switch {
	case strings.TrimSpace(rng) != "":
		return selectRange(all, rng)
	case strings.TrimSpace(list) != "":
		return selectList(all, list)
	default:
		return all, nil
	}
}

func selectRange(all []providers.ChapterRef, rng string) ([]providers.ChapterRef, error) {
	parts := strings.Split(rng, "-")
	if len(parts) != 2 {
		return nil, fmt.Errorf("invalid range %q, want <start>-<end>", rng)
	}

	start, err1 := atoi(parts[0])
	end, err2 := atoi(parts[1])
	if err1 != nil || err2 != nil {
		return nil, fmt.Errorf("invalid range %q, want <start>-<end>", rng)
	}
	if start <= 0 || start > end || end > len(all) {
		return nil, fmt.Errorf("range %q out of bounds (1-%d)", rng, len(all))
	}

	return all[start-1 : end], nil
}

func selectList(all []providers.ChapterRef, list string) ([]providers.ChapterRef, error) {
	var out []providers.ChapterRef

	for _, n := range strings.Split(list, ",") {
		n = strings.TrimSpace(n)
		if n == "" {
			continue
		}

		idx, err := atoi(n)
		if err != nil {
			return nil, fmt.Errorf("invalid chapter position %q", n)
		}
		if idx <= 0 || idx > len(all) {
			return nil, fmt.Errorf("chapter position %d out of bounds (1-%d)", idx, len(all))
		}

		out = append(out, all[idx-1])
	}

	return out, nil
}

func atoi(s string) (int, error) {
	return strconv.Atoi(strings.TrimSpace(s))
}
