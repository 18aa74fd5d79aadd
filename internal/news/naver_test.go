package news

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"sync/atomic"
	"testing"
	"time"

	"NewsBriefing/internal/config"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
)

func TestNaverFetch(t *testing.T) {
	payload := map[string]interface{}{
		"items": []map[string]interface{}{
			{
				"title":        "<b>AI</b> 반도체 수출 &quot;역대 최대&quot;",
				"originallink": "https://example.kr/original/1",
				"link":         "https://n.news.naver.com/1",
				"description":  "<b>AI</b> 수요로 반도체 수출이 늘었다",
				"pubDate":      "Wed, 14 Oct 2026 09:30:00 +0900",
			},
			{
				"title":        "두번째 기사",
				"originallink": "https://example.kr/original/2",
				"link":         "",
				"description":  "",
				"pubDate":      "Wed, 14 Oct 2026 08:00:00 +0900",
			},
			{
				"title":   "잘려야 하는 기사",
				"link":    "https://n.news.naver.com/3",
				"pubDate": "Wed, 14 Oct 2026 07:00:00 +0900",
			},
		},
	}

	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, http.MethodGet, r.Method)
		assert.Equal(t, "client-id", r.Header.Get("X-Naver-Client-Id"))
		assert.Equal(t, "client-secret", r.Header.Get("X-Naver-Client-Secret"))
		assert.Equal(t, "AI", r.URL.Query().Get("query"))
		assert.Equal(t, "2", r.URL.Query().Get("display"))
		assert.Equal(t, "date", r.URL.Query().Get("sort"))
		w.Header().Set("Content-Type", "application/json")
		json.NewEncoder(w).Encode(payload)
	}))
	defer srv.Close()

	src := NewNaverSource(config.Naver{ClientID: "client-id", ClientSecret: "client-secret"}, time.Second, zap.NewNop(), WithNaverBaseURL(srv.URL))

	out := src.Fetch(context.Background(), Query{Keyword: "AI", Limit: 2})

	require.Equal(t, StatusOK, out.Status)
	require.Len(t, out.Records, 2)
	assert.Equal(t, "<b>AI</b> 반도체 수출 &quot;역대 최대&quot;", out.Records[0].Title)
	assert.Equal(t, "https://n.news.naver.com/1", out.Records[0].Link)
	assert.Equal(t, "Wed, 14 Oct 2026 09:30:00 +0900", out.Records[0].PubDate)
	assert.Equal(t, "https://example.kr/original/2", out.Records[1].Link)
}

func TestNaverFetchWithoutCredentials(t *testing.T) {
	var calls int32
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		atomic.AddInt32(&calls, 1)
	}))
	defer srv.Close()

	src := NewNaverSource(config.Naver{ClientID: "only-id"}, time.Second, zap.NewNop(), WithNaverBaseURL(srv.URL))
	out := src.Fetch(context.Background(), Query{Keyword: "AI", Limit: 10})

	assert.Equal(t, StatusDisabled, out.Status)
	assert.ErrorIs(t, out.Err, ErrSourceDisabled)
	assert.Empty(t, out.Records)
	assert.Zero(t, atomic.LoadInt32(&calls))
}

func TestNaverFetchHTTPError(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusUnauthorized)
		w.Write([]byte(`{"errorMessage":"Authentication failed","errorCode":"024"}`))
	}))
	defer srv.Close()

	src := NewNaverSource(config.Naver{ClientID: "id", ClientSecret: "bad"}, time.Second, zap.NewNop(), WithNaverBaseURL(srv.URL))
	out := src.Fetch(context.Background(), Query{Keyword: "AI", Limit: 10})

	assert.Equal(t, StatusFailed, out.Status)
	var statusErr *StatusError
	require.ErrorAs(t, out.Err, &statusErr)
	assert.Equal(t, http.StatusUnauthorized, statusErr.StatusCode)
	assert.Contains(t, statusErr.Body, "Authentication failed")
}

func TestNaverFetchMalformedJSON(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Write([]byte(`{"items": [`))
	}))
	defer srv.Close()

	src := NewNaverSource(config.Naver{ClientID: "id", ClientSecret: "secret"}, time.Second, zap.NewNop(), WithNaverBaseURL(srv.URL))
	out := src.Fetch(context.Background(), Query{Keyword: "AI", Limit: 10})

	assert.Equal(t, StatusFailed, out.Status)
	assert.Error(t, out.Err)
}

func TestNaverFetchEmpty(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Write([]byte(`{"items": []}`))
	}))
	defer srv.Close()

	src := NewNaverSource(config.Naver{ClientID: "id", ClientSecret: "secret"}, time.Second, zap.NewNop(), WithNaverBaseURL(srv.URL))
	out := src.Fetch(context.Background(), Query{Keyword: "AI", Limit: 10})

	assert.Equal(t, StatusEmpty, out.Status)
	assert.NoError(t, out.Err)
}

func TestNaverFetchTimeout(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		time.Sleep(200 * time.Millisecond)
		w.Write([]byte(`{"items": []}`))
	}))
	defer srv.Close()

	src := NewNaverSource(config.Naver{ClientID: "id", ClientSecret: "secret"}, 20*time.Millisecond, zap.NewNop(), WithNaverBaseURL(srv.URL))
	out := src.Fetch(context.Background(), Query{Keyword: "AI", Limit: 10})

	assert.Equal(t, StatusFailed, out.Status)
}
