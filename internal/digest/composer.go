package digest

import (
	_ "embed"
	"errors"
	"fmt"
	"os"
	"strings"

	"NewsBriefing/internal/categories"
	"NewsBriefing/internal/news"
)

// NewsPlaceholder marks where the collected news goes inside the instructions
const NewsPlaceholder = "{{.News}}"

//go:embed prompts/digest.md
var defaultInstructions string

// ErrNoContent means no category had a single qualifying article
var ErrNoContent = errors.New("no qualifying articles")

// CategoryBlock is the capped list of articles of one keyword
type CategoryBlock struct {
	Category string
	Scope    categories.Scope
	Articles []news.NormalizedArticle
}

// Text renders the block the way the summarizer receives it
func (b CategoryBlock) Text() string {
	var sb strings.Builder
	fmt.Fprintf(&sb, "### [%s] %s 카테고리 ###\n", categories.ScopeLabel(b.Scope), b.Category)
	for i, a := range b.Articles {
		if i > 0 {
			sb.WriteString("\n")
		}
		fmt.Fprintf(&sb, "제목: %s\n", a.Title)
		if a.Summary != "" {
			fmt.Fprintf(&sb, "요약: %s\n", a.Summary)
		}
		fmt.Fprintf(&sb, "링크: %s\n", a.Link)
	}
	return sb.String()
}

// Request is what the summarizer gets for one run
type Request struct {
	Instructions string
	Body         string
	Blocks       []CategoryBlock
}

// Prompt is the instructions with the body put in place of the placeholder
func (r Request) Prompt() string {
	return strings.Replace(r.Instructions, NewsPlaceholder, r.Body, 1)
}

// ArticleCount is the number of articles embedded in the body
func (r Request) ArticleCount() int {
	n := 0
	for _, b := range r.Blocks {
		n += len(b.Articles)
	}
	return n
}

// Composer builds the summarizer request from collected keywords
type Composer struct {
	maxPerCategory int
	instructions   string
}

// NewComposer validates the instructions template. Empty instructions mean the embedded default.
func NewComposer(maxPerCategory int, instructions string) (*Composer, error) {
	if maxPerCategory < 1 {
		return nil, fmt.Errorf("max per category must be positive, got %d", maxPerCategory)
	}
	if instructions == "" {
		instructions = defaultInstructions
	}
	if !strings.Contains(instructions, NewsPlaceholder) {
		return nil, fmt.Errorf("digest instructions must contain %s", NewsPlaceholder)
	}
	return &Composer{maxPerCategory: maxPerCategory, instructions: instructions}, nil
}

// LoadInstructions reads a prompt override; an empty path returns the embedded default
func LoadInstructions(path string) (string, error) {
	if path == "" {
		return defaultInstructions, nil
	}
	content, err := os.ReadFile(path)
	if err != nil {
		return "", fmt.Errorf("read prompt %s: %w", path, err)
	}
	return string(content), nil
}

// Compose keeps keyword order, skips empty keywords and caps every block.
// It returns ErrNoContent when nothing is left.
func (c *Composer) Compose(results []news.KeywordResult) (Request, error) {
	var blocks []CategoryBlock
	for _, r := range results {
		if len(r.Articles) == 0 {
			continue
		}
		articles := r.Articles
		if len(articles) > c.maxPerCategory {
			articles = articles[:c.maxPerCategory]
		}
		blocks = append(blocks, CategoryBlock{
			Category: r.Category,
			Scope:    r.Scope,
			Articles: append([]news.NormalizedArticle(nil), articles...),
		})
	}

	if len(blocks) == 0 {
		return Request{}, ErrNoContent
	}

	texts := make([]string, len(blocks))
	for i, b := range blocks {
		texts[i] = b.Text()
	}

	return Request{
		Instructions: c.instructions,
		Body:         strings.Join(texts, "\n\n"),
		Blocks:       blocks,
	}, nil
}
