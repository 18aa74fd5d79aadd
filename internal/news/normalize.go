package news

import (
	"html"
	"strings"

	"NewsBriefing/internal/categories"

	"github.com/microcosm-cc/bluemonday"
)

// strictPolicy strips every tag; search APIs wrap matched terms in <b></b>
var strictPolicy = bluemonday.StrictPolicy()

// maxCleanPasses bounds the work on doubly-escaped input such as &amp;lt;b&amp;gt;
const maxCleanPasses = 4

// Normalize turns a raw record into a plain-text article of the given category
func Normalize(rec ArticleRecord, category string, scope categories.Scope) NormalizedArticle {
	return NormalizedArticle{
		Title:    cleanText(rec.Title),
		Summary:  cleanText(rec.Description),
		Link:     strings.TrimSpace(rec.Link),
		Category: category,
		Scope:    scope,
	}
}

// cleanText removes tags, unescapes entities and collapses whitespace.
// It repeats until the text stops changing, so cleanText(cleanText(s)) == cleanText(s).
func cleanText(text string) string {
	for i := 0; i < maxCleanPasses; i++ {
		next := cleanOnce(text)
		if next == text {
			return next
		}
		text = next
	}
	return text
}

func cleanOnce(text string) string {
	text = strictPolicy.Sanitize(text)
	text = html.UnescapeString(text)
	return strings.Join(strings.Fields(text), " ")
}
