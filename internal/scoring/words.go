// Package scoring computes derived review statistics for papers: word
// counts, reply-tree depth, rating summaries, and battle intensity.
package scoring

import (
	"strings"
)

// markdownControlChars are stripped before counting so formatting noise
// never splits or merges words.
const markdownControlChars = "#*_`~[]()>"

// CountWords counts words in mixed Latin/CJK text. A maximal run of
// Latin letters counts as one word; each CJK ideograph (U+4E00-U+9FFF)
// counts as one word on its own, since character runs are not
// whitespace-delimited in Chinese text. Returns 0 for empty input.
func CountWords(text string) int {
	if text == "" {
		return 0
	}

	count := 0
	inLatinRun := false
	for _, r := range text {
		switch {
		case strings.ContainsRune(markdownControlChars, r):
			inLatinRun = false
		case r >= 0x4E00 && r <= 0x9FFF:
			count++
			inLatinRun = false
		case (r >= 'a' && r <= 'z') || (r >= 'A' && r <= 'Z'):
			if !inLatinRun {
				count++
				inLatinRun = true
			}
		default:
			inLatinRun = false
		}
	}
	return count
}
