package news

import (
	"context"
	"time"

	"NewsBriefing/internal/categories"

	"go.uber.org/zap"
)

// Binding attaches a source to its scope together with how it is queried
type Binding struct {
	Source NewsSource
	Limit  int
	// PostFilter runs fetched records through the RecencyFilter.
	// Sources that constrain dates in the query itself leave it off.
	PostFilter bool
}

// Aggregator collects articles keyword by keyword, one source call at a time
type Aggregator struct {
	bindings map[categories.Scope]Binding
	filter   *RecencyFilter
	log      *zap.Logger
}

// NewAggregator creates an aggregator with no sources
func NewAggregator(filter *RecencyFilter, log *zap.Logger) *Aggregator {
	return &Aggregator{
		bindings: make(map[categories.Scope]Binding),
		filter:   filter,
		log:      log,
	}
}

// AddSource registers the source for its scope, replacing any previous one
func (a *Aggregator) AddSource(b Binding) {
	a.bindings[b.Source.Scope()] = b
}

// Collect queries every category in order. A failing source only empties its own keywords.
func (a *Aggregator) Collect(ctx context.Context, cats []categories.Category, now time.Time) []KeywordResult {
	referenceDay := a.filter.ReferenceDay(now)
	since := a.filter.WindowStart(referenceDay)

	results := make([]KeywordResult, 0, len(cats))
	total := 0

	for _, cat := range cats {
		result := KeywordResult{Category: cat.Name, Scope: cat.Scope}

		if err := ctx.Err(); err != nil {
			result.Status = StatusFailed
			result.Err = err
			results = append(results, result)
			continue
		}

		b, ok := a.bindings[cat.Scope]
		if !ok {
			a.log.Warn("⚠️ No source for scope", zap.String("keyword", cat.Name), zap.String("scope", string(cat.Scope)))
			result.Status = StatusDisabled
			result.Err = ErrSourceDisabled
			results = append(results, result)
			continue
		}

		outcome := b.Source.Fetch(ctx, Query{Keyword: cat.Name, Since: since, Limit: b.Limit})
		switch outcome.Status {
		case StatusFailed, StatusDisabled:
			result.Status = outcome.Status
			result.Err = outcome.Err
			results = append(results, result)
			continue
		}

		skippedOld, skippedInvalid := 0, 0
		for _, rec := range outcome.Records {
			if b.PostFilter && !a.filter.IsRecent(rec, referenceDay) {
				skippedOld++
				continue
			}
			article := Normalize(rec, cat.Name, cat.Scope)
			if !article.Valid() {
				skippedInvalid++
				continue
			}
			result.Articles = append(result.Articles, article)
		}

		result.Status = StatusOK
		if len(result.Articles) == 0 {
			result.Status = StatusEmpty
		}
		total += len(result.Articles)
		results = append(results, result)

		a.log.Info("✅ Keyword collected",
			zap.String("source", b.Source.Name()),
			zap.String("keyword", cat.Name),
			zap.Int("fetched", len(outcome.Records)),
			zap.Int("kept", len(result.Articles)),
			zap.Int("out_of_window", skippedOld),
			zap.Int("invalid", skippedInvalid),
		)
	}

	a.log.Info("📰 Collection finished",
		zap.Int("keywords", len(cats)),
		zap.Int("articles", total),
		zap.String("reference_day", referenceDay.Format("2006-01-02")),
	)
	return results
}
