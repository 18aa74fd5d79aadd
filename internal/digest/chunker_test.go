package digest

import (
	"strings"
	"testing"
	"unicode/utf8"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func join(segments []Segment) string {
	var sb strings.Builder
	for _, s := range segments {
		sb.WriteString(s.Text)
	}
	return sb.String()
}

func TestChunkProperties(t *testing.T) {
	texts := []string{
		"a",
		"hello world",
		strings.Repeat("x", 3000),
		strings.Repeat("x", 3001),
		strings.Repeat("가나다라", 1000),
		"📅 뉴스 브리핑\n\n🔥 AI 반도체 — https://example.com/a?b=c\n",
	}
	sizes := []int{1, 2, 7, 100, 3000}

	for _, text := range texts {
		for _, max := range sizes {
			segments := Chunk(text, max)

			assert.Equal(t, text, join(segments))

			runes := utf8.RuneCountInString(text)
			assert.Len(t, segments, (runes+max-1)/max)

			for i, s := range segments {
				assert.Equal(t, i, s.Ordinal)
				assert.LessOrEqual(t, utf8.RuneCountInString(s.Text), max)
				assert.True(t, utf8.ValidString(s.Text))
				assert.NotEmpty(t, s.Text)
			}
		}
	}
}

func TestChunkEmpty(t *testing.T) {
	assert.Empty(t, Chunk("", 3000))
}

func TestChunkShorterThanMax(t *testing.T) {
	segments := Chunk("short digest", 3000)
	require.Len(t, segments, 1)
	assert.Equal(t, "short digest", segments[0].Text)
}

func TestChunkSevenThousand(t *testing.T) {
	text := strings.Repeat("a", 3000) + strings.Repeat("b", 3000) + strings.Repeat("c", 1000)

	segments := Chunk(text, 3000)

	require.Len(t, segments, 3)
	assert.Equal(t, strings.Repeat("a", 3000), segments[0].Text)
	assert.Equal(t, strings.Repeat("b", 3000), segments[1].Text)
	assert.Equal(t, strings.Repeat("c", 1000), segments[2].Text)
}

func TestChunkKeepsInvalidBytes(t *testing.T) {
	text := "ab\xffcd\xfe"
	segments := Chunk(text, 2)
	assert.Equal(t, text, join(segments))
	assert.Len(t, segments, 3)
}

func TestChunkPanicsOnNonPositiveMax(t *testing.T) {
	assert.Panics(t, func() { Chunk("text", 0) })
}
