package scoring

import (
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestCountWords(t *testing.T) {
	tests := []struct {
		name string
		text string
		want int
	}{
		{"empty string", "", 0},
		{"two latin words", "hello world", 2},
		{"single word", "transformer", 1},
		{"markdown bold stripped", "**bold**", 1},
		{"markdown heading stripped", "# Title here", 2},
		{"markdown link stripped", "[anchor](https://example.com)", 4},
		{"punctuation splits runs", "state-of-the-art", 4},
		{"digits ignored", "score 42 given", 2},
		{"chinese chars count individually", "论文很好", 4},
		{"mixed scripts", "the 模型 works", 4},
		{"whitespace only", "   \n\t ", 0},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, CountWords(tt.text))
		})
	}
}

func TestCountWords_LongCJKRun(t *testing.T) {
	// Each ideograph is independently significant: N characters = N words.
	text := strings.Repeat("学", 37)
	assert.Equal(t, 37, CountWords(text))
}
