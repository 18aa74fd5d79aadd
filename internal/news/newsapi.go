package news

import (
	"context"
	"fmt"
	"net/http"
	"net/url"
	"strconv"
	"time"

	"NewsBriefing/internal/categories"
	"NewsBriefing/internal/config"

	"go.uber.org/zap"
)

const newsAPIEverythingURL = "https://newsapi.org/v2/everything"

// removedTitle is what NewsAPI puts in place of articles taken down by the publisher
const removedTitle = "[Removed]"

// NewsAPISource searches NewsAPI by relevance, constrained to a date range
type NewsAPISource struct {
	apiKey     string
	language   string
	baseURL    string
	httpClient *http.Client
	log        *zap.Logger
}

type newsAPIResponse struct {
	Status   string `json:"status"`
	Code     string `json:"code"`
	Message  string `json:"message"`
	Articles []struct {
		Title       string `json:"title"`
		URL         string `json:"url"`
		PublishedAt string `json:"publishedAt"`
	} `json:"articles"`
}

// APIError is a NewsAPI {"status":"error"} payload
type APIError struct {
	Code    string
	Message string
}

func (e *APIError) Error() string {
	return fmt.Sprintf("newsapi: %s: %s", e.Code, e.Message)
}

// NewsAPIOption configures a NewsAPISource
type NewsAPIOption func(*NewsAPISource)

// WithNewsAPIBaseURL points the source at another endpoint (tests)
func WithNewsAPIBaseURL(u string) NewsAPIOption {
	return func(s *NewsAPISource) {
		s.baseURL = u
	}
}

// NewNewsAPISource creates the international source. Without a key it stays disabled.
func NewNewsAPISource(cfg config.NewsAPI, language string, timeout time.Duration, log *zap.Logger, opts ...NewsAPIOption) *NewsAPISource {
	if language == "" {
		language = "en"
	}
	s := &NewsAPISource{
		apiKey:     cfg.APIKey,
		language:   language,
		baseURL:    newsAPIEverythingURL,
		httpClient: newHTTPClient(timeout),
		log:        log.Named("newsapi"),
	}
	for _, opt := range opts {
		opt(s)
	}
	return s
}

func (s *NewsAPISource) Name() string {
	return "NewsAPI"
}

func (s *NewsAPISource) Scope() categories.Scope {
	return categories.International
}

// Fetch returns at most q.Limit articles published on or after q.Since.
// Only titles are kept.
func (s *NewsAPISource) Fetch(ctx context.Context, q Query) FetchOutcome {
	if s.apiKey == "" {
		s.log.Warn("⚠️ NEWS_API_KEY is not set, skipping", zap.String("keyword", q.Keyword))
		return Disabled()
	}

	params := url.Values{}
	params.Set("q", q.Keyword)
	if !q.Since.IsZero() {
		params.Set("from", q.Since.Format("2006-01-02"))
	}
	params.Set("language", s.language)
	params.Set("sortBy", "relevancy")
	params.Set("pageSize", strconv.Itoa(q.Limit))
	params.Set("apiKey", s.apiKey)

	req, err := http.NewRequest(http.MethodGet, s.baseURL+"?"+params.Encode(), nil)
	if err != nil {
		s.log.Error("❌ NewsAPI request build failed", zap.String("keyword", q.Keyword), zap.Error(err))
		return Failed(err)
	}

	var payload newsAPIResponse
	if err := getJSON(ctx, s.httpClient, s.Name(), req, &payload); err != nil {
		s.log.Error("❌ NewsAPI search failed", zap.String("keyword", q.Keyword), zap.Error(err))
		return Failed(err)
	}
	if payload.Status == "error" {
		err := &APIError{Code: payload.Code, Message: payload.Message}
		s.log.Error("❌ NewsAPI returned an error", zap.String("keyword", q.Keyword), zap.Error(err))
		return Failed(err)
	}

	records := make([]ArticleRecord, 0, len(payload.Articles))
	for _, a := range payload.Articles {
		if q.Limit > 0 && len(records) == q.Limit {
			break
		}
		if a.Title == removedTitle {
			continue
		}
		records = append(records, ArticleRecord{
			Title:   a.Title,
			Link:    a.URL,
			PubDate: a.PublishedAt,
		})
	}

	s.log.Debug("NewsAPI search done", zap.String("keyword", q.Keyword), zap.Int("items", len(records)))
	return Fetched(records)
}
