package components

import (
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestSanitizeOneLineStripsOscAndNewlines(t *testing.T) {
	input := "\x1b]8;;https://evil\x07click\x1b]8;;\x07\nline\tmore"
	out := SanitizeOneLine(input)

	assert.False(t, strings.Contains(out, "\x1b"))
	assert.False(t, strings.Contains(out, "\n"))
	assert.False(t, strings.Contains(out, "\t"))
	assert.Equal(t, "click line more", out)
}

func TestSanitizeTextRemovesBidiControls(t *testing.T) {
	input := "safe\u202eexe.txt"
	out := SanitizeText(input)

	assert.NotContains(t, out, "\u202e")
}

func TestSanitizeTextKeepsNewlinesDropsColors(t *testing.T) {
	out := SanitizeText("\x1b[31mred\x1b[0m\nnext\x1b]0;title\x1b\\")
	assert.Equal(t, "red\nnext", out)
}

func TestSanitizeEmpty(t *testing.T) {
	assert.Equal(t, "", SanitizeText(""))
	assert.Equal(t, "", SanitizeOneLine(""))
}
