package pipeline

import (
	"context"
	"errors"
	"fmt"
	"time"

	"NewsBriefing/internal/bot"
	"NewsBriefing/internal/categories"
	"NewsBriefing/internal/digest"
	"NewsBriefing/internal/news"

	"github.com/google/uuid"
	"go.uber.org/zap"
)

// State is where a run is in the collect, summarize, deliver sequence
type State string

const (
	StateInit            State = "init"
	StateCollecting      State = "collecting"
	StateEmptyExit       State = "empty_exit"
	StateComposing       State = "composing"
	StateSummarizing     State = "summarizing"
	StateSummarizeFailed State = "summarize_failed"
	StateChunking        State = "chunking"
	StateDelivering      State = "delivering"
	StateDone            State = "done"
)

// Terminal reports whether a run stops in this state
func (s State) Terminal() bool {
	switch s {
	case StateEmptyExit, StateSummarizeFailed, StateDone:
		return true
	}
	return false
}

// Delivery is the aggregate outcome of sending all segments
type Delivery string

const (
	DeliveryNone         Delivery = "none"
	DeliveryAllSucceeded Delivery = "all_succeeded"
	DeliveryPartial      Delivery = "partial"
	DeliveryAllFailed    Delivery = "all_failed"
)

// Collector gathers articles for every keyword
type Collector interface {
	Collect(ctx context.Context, cats []categories.Category, now time.Time) []news.KeywordResult
}

// Summarizer turns the composed request into digest text
type Summarizer interface {
	Summarize(ctx context.Context, req digest.Request) (string, error)
}

// Notifier delivers one segment
type Notifier interface {
	Deliver(ctx context.Context, seg digest.Segment) bot.DeliveryResult
}

// Report describes one finished run
type Report struct {
	RunID      string
	State      State
	Keywords   int
	Categories int
	Articles   int
	Segments   int
	Delivered  int
	Failed     int
	Collected  []news.KeywordResult
	Results    []bot.DeliveryResult
	Err        error
	Started    time.Time
	Finished   time.Time
}

// Delivery summarizes the per-segment results
func (r Report) Delivery() Delivery {
	switch {
	case r.Segments == 0:
		return DeliveryNone
	case r.Failed == 0:
		return DeliveryAllSucceeded
	case r.Delivered == 0:
		return DeliveryAllFailed
	default:
		return DeliveryPartial
	}
}

// Deps are the collaborators of an Orchestrator
type Deps struct {
	Categories []categories.Category
	Collector  Collector
	Composer   *digest.Composer
	Summarizer Summarizer
	Notifier   Notifier
	ChunkSize  int
	Logger     *zap.Logger
}

// Option customizes an Orchestrator
type Option func(*Orchestrator)

// WithClock replaces time.Now
func WithClock(now func() time.Time) Option {
	return func(o *Orchestrator) {
		o.now = now
	}
}

// WithRunID replaces the uuid run id generator
func WithRunID(newID func() string) Option {
	return func(o *Orchestrator) {
		o.newID = newID
	}
}

// Orchestrator runs the digest job once per Run call
type Orchestrator struct {
	deps  Deps
	now   func() time.Time
	newID func() string
	log   *zap.Logger
}

// New checks the collaborators and returns a ready orchestrator
func New(deps Deps, opts ...Option) (*Orchestrator, error) {
	switch {
	case deps.Collector == nil:
		return nil, errors.New("pipeline: collector is required")
	case deps.Composer == nil:
		return nil, errors.New("pipeline: composer is required")
	case deps.Summarizer == nil:
		return nil, errors.New("pipeline: summarizer is required")
	case deps.Notifier == nil:
		return nil, errors.New("pipeline: notifier is required")
	case deps.ChunkSize <= 0:
		return nil, fmt.Errorf("pipeline: chunk size must be positive, got %d", deps.ChunkSize)
	}

	log := deps.Logger
	if log == nil {
		log = zap.NewNop()
	}

	o := &Orchestrator{
		deps:  deps,
		now:   time.Now,
		newID: uuid.NewString,
		log:   log,
	}
	for _, opt := range opts {
		opt(o)
	}
	return o, nil
}

// Run executes init → collecting → composing → summarizing → chunking → delivering → done.
// It stops early in empty_exit when nothing qualifies and in summarize_failed when the
// model call fails. Source and delivery failures never abort the run.
func (o *Orchestrator) Run(ctx context.Context) Report {
	report := Report{
		RunID:    o.newID(),
		State:    StateInit,
		Keywords: len(o.deps.Categories),
		Started:  o.now(),
	}
	log := o.log.With(zap.String("run_id", report.RunID))

	transition := func(next State) {
		log.Debug("state", zap.String("from", string(report.State)), zap.String("to", string(next)))
		report.State = next
	}
	finish := func() Report {
		report.Finished = o.now()
		return report
	}

	log.Info("🚀 News briefing started", zap.Int("keywords", report.Keywords))

	transition(StateCollecting)
	report.Collected = o.deps.Collector.Collect(ctx, o.deps.Categories, report.Started)
	o.logCollection(log, report.Collected)

	if countArticles(report.Collected) == 0 {
		transition(StateEmptyExit)
		log.Warn("📭 No articles from yesterday, nothing to send")
		return finish()
	}

	transition(StateComposing)
	req, err := o.deps.Composer.Compose(report.Collected)
	if err != nil {
		report.Err = err
		transition(StateEmptyExit)
		log.Warn("📭 Nothing to summarize", zap.Error(err))
		return finish()
	}
	report.Categories = len(req.Blocks)
	report.Articles = req.ArticleCount()

	transition(StateSummarizing)
	text, err := o.deps.Summarizer.Summarize(ctx, req)
	if err != nil {
		report.Err = err
		transition(StateSummarizeFailed)
		log.Error("❌ Digest generation failed, nothing sent", zap.Error(err))
		return finish()
	}

	transition(StateChunking)
	segments := digest.Chunk(text, o.deps.ChunkSize)
	report.Segments = len(segments)

	transition(StateDelivering)
	var failures []error
	for _, seg := range segments {
		res := o.deps.Notifier.Deliver(ctx, seg)
		report.Results = append(report.Results, res)
		if res.Success {
			report.Delivered++
			log.Info("📨 Segment sent", zap.Int("segment", seg.Ordinal), zap.Int("of", len(segments)))
			continue
		}
		report.Failed++
		failures = append(failures, fmt.Errorf("segment %d: %w", seg.Ordinal, res.Err))
		log.Error("❌ Segment not sent",
			zap.Int("segment", seg.Ordinal),
			zap.Int("of", len(segments)),
			zap.Int("status", res.StatusCode),
			zap.Error(res.Err),
		)
	}
	report.Err = errors.Join(failures...)

	transition(StateDone)
	log.Info("🏁 News briefing finished",
		zap.String("delivery", string(report.Delivery())),
		zap.Int("categories", report.Categories),
		zap.Int("articles", report.Articles),
		zap.Int("segments", report.Segments),
		zap.Int("delivered", report.Delivered),
		zap.Int("failed", report.Failed),
	)
	return finish()
}

func (o *Orchestrator) logCollection(log *zap.Logger, results []news.KeywordResult) {
	for _, r := range results {
		switch r.Status {
		case news.StatusFailed:
			log.Warn("⚠️ Keyword skipped after source error", zap.String("keyword", r.Category), zap.Error(r.Err))
		case news.StatusDisabled:
			log.Debug("keyword skipped, source disabled", zap.String("keyword", r.Category))
		}
	}
}

func countArticles(results []news.KeywordResult) int {
	n := 0
	for _, r := range results {
		n += len(r.Articles)
	}
	return n
}
