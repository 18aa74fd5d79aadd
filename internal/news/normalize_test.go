package news

import (
	"strings"
	"testing"

	"NewsBriefing/internal/categories"

	"github.com/stretchr/testify/assert"
)

func TestNormalize(t *testing.T) {
	rec := ArticleRecord{
		Title:       "<b>삼성</b>전자 &quot;AI 반도체&quot; 투자",
		Description: "  <b>HBM</b>   공급 &quot;확대&quot;\n계획 ",
		Link:        " https://n.news.naver.com/1 ",
	}

	got := Normalize(rec, "AI", categories.Domestic)

	assert.Equal(t, `삼성전자 "AI 반도체" 투자`, got.Title)
	assert.Equal(t, `HBM 공급 "확대" 계획`, got.Summary)
	assert.Equal(t, "https://n.news.naver.com/1", got.Link)
	assert.Equal(t, "AI", got.Category)
	assert.Equal(t, categories.Domestic, got.Scope)
	assert.True(t, got.Valid())
}

func TestNormalizeStripsMarkupAndQuoteEntities(t *testing.T) {
	inputs := []string{
		"<b>bold</b> &quot;quoted&quot;",
		"&lt;b&gt;escaped tag&lt;/b&gt;",
		"nested <b><b>twice</b></b> &amp;quot;double&amp;quot;",
		"<B>upper</B> case",
		"plain text",
		"",
	}
	for _, in := range inputs {
		got := cleanText(in)
		lower := strings.ToLower(got)
		assert.NotContains(t, lower, "<b>", in)
		assert.NotContains(t, lower, "</b>", in)
		assert.NotContains(t, got, "&quot;", in)
	}
}

func TestNormalizeIsIdempotent(t *testing.T) {
	inputs := []string{
		"<b>AI</b> 반도체 &quot;역대 최대&quot;",
		"a < b and c > d",
		"Tom &amp; Jerry's &#39;show&#39;",
		"&lt;b&gt;escaped&lt;/b&gt;",
		"  spaced   out  ",
	}
	for _, in := range inputs {
		once := cleanText(in)
		assert.Equal(t, once, cleanText(once), in)
	}
}

func TestNormalizeEmptyTitleIsInvalid(t *testing.T) {
	got := Normalize(ArticleRecord{Title: "<b></b>", Link: "https://x"}, "AI", categories.Domestic)
	assert.False(t, got.Valid())

	got = Normalize(ArticleRecord{Title: "title", Link: "  "}, "AI", categories.Domestic)
	assert.False(t, got.Valid())
}
