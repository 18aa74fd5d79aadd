package news

import (
	"context"
	"errors"
	"time"

	"NewsBriefing/internal/categories"
)

// ErrSourceDisabled marks a source whose credentials are not configured
var ErrSourceDisabled = errors.New("source disabled: credentials not configured")

// ArticleRecord is an article exactly as a search API returned it
type ArticleRecord struct {
	Title       string
	Description string
	Link        string
	// PubDate is the raw date string of the upstream API
	PubDate string
}

// NormalizedArticle is a markup-free article assigned to the keyword it was fetched under
type NormalizedArticle struct {
	Title    string
	Summary  string
	Link     string
	Category string
	Scope    categories.Scope
}

// Valid reports whether the article can be shown (title and link are mandatory)
func (a NormalizedArticle) Valid() bool {
	return a.Title != "" && a.Link != ""
}

// Query is one keyword search
type Query struct {
	Keyword string
	// Since is only honoured by sources that filter by date server-side
	Since time.Time
	Limit int
}

// Status tags the outcome of a fetch or of a whole keyword
type Status string

const (
	StatusOK       Status = "ok"
	StatusEmpty    Status = "empty"
	StatusFailed   Status = "failed"
	StatusDisabled Status = "disabled"
)

// FetchOutcome is what a NewsSource returns instead of an error
type FetchOutcome struct {
	Status  Status
	Records []ArticleRecord
	Err     error
}

// Fetched wraps records into an ok or empty outcome
func Fetched(records []ArticleRecord) FetchOutcome {
	if len(records) == 0 {
		return FetchOutcome{Status: StatusEmpty}
	}
	return FetchOutcome{Status: StatusOK, Records: records}
}

// Failed wraps a fetch error
func Failed(err error) FetchOutcome {
	return FetchOutcome{Status: StatusFailed, Err: err}
}

// Disabled is returned by sources without credentials
func Disabled() FetchOutcome {
	return FetchOutcome{Status: StatusDisabled, Err: ErrSourceDisabled}
}

// NewsSource is a keyword search API
type NewsSource interface {
	Name() string
	Scope() categories.Scope
	// Fetch never returns an error: failures are logged and reported in the outcome
	Fetch(ctx context.Context, q Query) FetchOutcome
}

// KeywordResult is everything collected for one configured keyword
type KeywordResult struct {
	Category string
	Scope    categories.Scope
	Status   Status
	Articles []NormalizedArticle
	Err      error
}
