package categories

import "strings"

// Scope separates keywords searched on the domestic source from the international one
type Scope string

const (
	Domestic      Scope = "domestic"
	International Scope = "international"
)

// Category is one topical bucket of the digest
type Category struct {
	Name  string
	Scope Scope
	// Label is how the bucket is announced to the summarizer
	Label string
}

// DefaultDomesticKeywords are searched on Naver when settings don't override them
var DefaultDomesticKeywords = []string{
	"국내 경제",
	"세계 경제",
	"빅테크 신기술",
	"2차전지",
	"AI",
}

// DefaultInternationalKeywords are searched on NewsAPI when settings don't override them
var DefaultInternationalKeywords = []string{
	"global economy",
	"big tech",
	"battery",
	"artificial intelligence",
}

// Build turns the keyword lists into ordered categories: domestic first, then international.
// Blank and repeated keywords within one scope are skipped.
func Build(domestic, international []string) []Category {
	var result []Category
	result = appendScope(result, domestic, Domestic)
	result = appendScope(result, international, International)
	return result
}

func appendScope(dst []Category, keywords []string, scope Scope) []Category {
	seen := make(map[string]bool, len(keywords))
	for _, kw := range keywords {
		kw = strings.TrimSpace(kw)
		if kw == "" || seen[strings.ToLower(kw)] {
			continue
		}
		seen[strings.ToLower(kw)] = true
		dst = append(dst, Category{Name: kw, Scope: scope, Label: ScopeLabel(scope)})
	}
	return dst
}

// ScopeLabel returns the tag used in digest headers
func ScopeLabel(scope Scope) string {
	switch scope {
	case Domestic:
		return "국내"
	case International:
		return "해외"
	default:
		return "기타"
	}
}
