package chapters_test

import (
	"math"
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/brogergvhs/nelodl/internal/chapters"
	"github.com/brogergvhs/nelodl/internal/providers"
)

func refs(names ...string) []providers.ChapterRef {
	out := make([]providers.ChapterRef, len(names))
	for i, n := range names {
		out[i] = providers.ChapterRef{Name: n, Link: "/c/" + n}
	}
	return out
}

func names(chs []providers.ChapterRef) []string {
	out := make([]string, len(chs))
	for i, c := range chs {
		out[i] = c.Name
	}
	return out
}

func TestKey(t *testing.T) {
	cases := []struct {
		name string
		want float64
		ok   bool
	}{
		{"Chapter 2", 2, true},
		{"Chapter 1.5", 1.5, true},
		{"Vol.3 Chapter 10: The End", 10, true},
		{"Chapter 007", 7, true},
		{"Chapter", 0, false},
		{"Chapter x", 0, false},
		{"chapter 4", 0, false},
		{"Extra", 0, false},
	}

	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			got, ok := chapters.Key(tc.name)
			assert.Equal(t, tc.ok, ok)
			assert.Equal(t, tc.want, got)
			assert.False(t, math.IsNaN(got))
		})
	}
}

func TestSortNumericWithUnparsableLast(t *testing.T) {
	in := refs("Chapter 2", "Chapter 10", "Chapter 1.5", "Extra")

	got := chapters.Sort(in)

	assert.Equal(t, []string{"Chapter 1.5", "Chapter 2", "Chapter 10", "Extra"}, names(got))
	assert.Equal(t, []string{"Chapter 2", "Chapter 10", "Chapter 1.5", "Extra"}, names(in), "input must not be reordered")
}

func TestSortIsStable(t *testing.T) {
	in := []providers.ChapterRef{
		{Name: "Special B", Link: "/b"},
		{Name: "Chapter 3", Link: "/3a"},
		{Name: "Special A", Link: "/a"},
		{Name: "Chapter 3", Link: "/3b"},
		{Name: "Chapter 1", Link: "/1"},
	}

	got := chapters.Sort(in)

	links := make([]string, len(got))
	for i, c := range got {
		links[i] = c.Link
	}
	assert.Equal(t, []string{"/1", "/3a", "/3b", "/b", "/a"}, links)
}

func TestSortEmpty(t *testing.T) {
	assert.Empty(t, chapters.Sort(nil))
}

func TestFilterKeyword(t *testing.T) {
	in := refs("Chapter 2", "Notice: hiatus", "Vol.1 Chapter 1", "chapter 5", "Extra")

	got := chapters.FilterKeyword(in, chapters.Keyword)

	assert.Equal(t, []string{"Chapter 2", "Vol.1 Chapter 1"}, names(got))
}

func TestFilterThenSortNeverYieldsNonChapters(t *testing.T) {
	in := refs("Extra", "Chapter 10", "Author Note", "Chapter 9")

	got := chapters.Sort(chapters.FilterKeyword(in, chapters.Keyword))

	assert.Equal(t, []string{"Chapter 9", "Chapter 10"}, names(got))
}
