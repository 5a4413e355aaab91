package utils

import (
	"regexp"
	"strings"
)

// MultipleSpaces matches any sequence of whitespace (including newlines).
var MultipleSpaces = regexp.MustCompile(`\s+`)

// CompressAllWhitespace replaces all whitespace sequences (including newlines)
// with a single space and trims the result.
func CompressAllWhitespace(s string) string {
	return strings.TrimSpace(MultipleSpaces.ReplaceAllString(s, " "))
}

// LongestRun returns the length of the longest run of identical consecutive
// runes in s. Used by the spam heuristic ("aaaaaaaaaa" has a run of 10).
func LongestRun(s string) int {
	var (
		longest int
		current int
		prev    rune
	)

	for i, r := range s {
		if i == 0 || r != prev {
			current = 1
		} else {
			current++
		}

		if current > longest {
			longest = current
		}

		prev = r
	}

	return longest
}
