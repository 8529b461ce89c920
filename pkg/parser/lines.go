package parser

import "sort"

// lineIndex maps byte offsets to 1-based line numbers.
type lineIndex []int

func newLineIndex(text string) lineIndex {
	offsets := lineIndex{0}
	for i := 0; i < len(text); i++ {
		if text[i] == '\n' {
			offsets = append(offsets, i+1)
		}
	}
	return offsets
}

// Line returns the 1-based line containing offset.
func (l lineIndex) Line(offset int) int {
	return sort.Search(len(l), func(i int) bool { return l[i] > offset })
}
