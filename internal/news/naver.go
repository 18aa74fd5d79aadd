package news

import (
	"context"
	"net/http"
	"net/url"
	"strconv"
	"time"

	"NewsBriefing/internal/categories"
	"NewsBriefing/internal/config"

	"go.uber.org/zap"
)

const naverNewsURL = "https://openapi.naver.com/v1/search/news.json"

// NaverSource searches Naver news, newest first
type NaverSource struct {
	clientID     string
	clientSecret string
	baseURL      string
	httpClient   *http.Client
	log          *zap.Logger
}

type naverResponse struct {
	Items []struct {
		Title        string `json:"title"`
		OriginalLink string `json:"originallink"`
		Link         string `json:"link"`
		Description  string `json:"description"`
		PubDate      string `json:"pubDate"`
	} `json:"items"`
}

// NaverOption configures a NaverSource
type NaverOption func(*NaverSource)

// WithNaverBaseURL points the source at another endpoint (tests)
func WithNaverBaseURL(u string) NaverOption {
	return func(s *NaverSource) {
		s.baseURL = u
	}
}

// NewNaverSource creates the domestic source. Without credentials it stays disabled.
func NewNaverSource(cfg config.Naver, timeout time.Duration, log *zap.Logger, opts ...NaverOption) *NaverSource {
	s := &NaverSource{
		clientID:     cfg.ClientID,
		clientSecret: cfg.ClientSecret,
		baseURL:      naverNewsURL,
		httpClient:   newHTTPClient(timeout),
		log:          log.Named("naver"),
	}
	for _, opt := range opts {
		opt(s)
	}
	return s
}

func (s *NaverSource) Name() string {
	return "Naver"
}

func (s *NaverSource) Scope() categories.Scope {
	return categories.Domestic
}

// Fetch returns at most q.Limit articles for q.Keyword sorted by date
func (s *NaverSource) Fetch(ctx context.Context, q Query) FetchOutcome {
	if s.clientID == "" || s.clientSecret == "" {
		s.log.Warn("⚠️ Naver credentials are not set, skipping", zap.String("keyword", q.Keyword))
		return Disabled()
	}

	params := url.Values{}
	params.Set("query", q.Keyword)
	params.Set("display", strconv.Itoa(q.Limit))
	params.Set("sort", "date")

	req, err := http.NewRequest(http.MethodGet, s.baseURL+"?"+params.Encode(), nil)
	if err != nil {
		s.log.Error("❌ Naver request build failed", zap.String("keyword", q.Keyword), zap.Error(err))
		return Failed(err)
	}
	req.Header.Set("X-Naver-Client-Id", s.clientID)
	req.Header.Set("X-Naver-Client-Secret", s.clientSecret)

	var payload naverResponse
	if err := getJSON(ctx, s.httpClient, s.Name(), req, &payload); err != nil {
		s.log.Error("❌ Naver search failed", zap.String("keyword", q.Keyword), zap.Error(err))
		return Failed(err)
	}

	records := make([]ArticleRecord, 0, len(payload.Items))
	for _, item := range payload.Items {
		if q.Limit > 0 && len(records) == q.Limit {
			break
		}
		link := item.Link
		if link == "" {
			link = item.OriginalLink
		}
		records = append(records, ArticleRecord{
			Title:       item.Title,
			Description: item.Description,
			Link:        link,
			PubDate:     item.PubDate,
		})
	}

	s.log.Debug("Naver search done", zap.String("keyword", q.Keyword), zap.Int("items", len(records)))
	return Fetched(records)
}
