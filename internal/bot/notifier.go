package bot

import (
	"bytes"
	"context"
	"errors"
	"fmt"
	"io"
	"net/http"
	"strconv"
	"strings"
	"sync"
	"time"

	"NewsBriefing/internal/config"
	"NewsBriefing/internal/digest"

	tgbotapi "github.com/go-telegram-bot-api/telegram-bot-api/v5"
	"go.uber.org/zap"
)

// maxBodySnippet bounds the raw response kept in a DeliveryResult
const maxBodySnippet = 1024

// DeliveryResult is the outcome of sending one segment
type DeliveryResult struct {
	Ordinal    int
	Success    bool
	StatusCode int
	Body       string
	Err        error
}

// recordingClient keeps the raw status and body of the last call,
// which tgbotapi otherwise only exposes as a decoded error
type recordingClient struct {
	client *http.Client

	mu         sync.Mutex
	ctx        context.Context
	statusCode int
	body       []byte
}

func (c *recordingClient) begin(ctx context.Context) {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.ctx = ctx
	c.statusCode = 0
	c.body = nil
}

func (c *recordingClient) last() (int, string) {
	c.mu.Lock()
	defer c.mu.Unlock()
	body := c.body
	if len(body) > maxBodySnippet {
		body = body[:maxBodySnippet]
	}
	return c.statusCode, string(body)
}

func (c *recordingClient) Do(req *http.Request) (*http.Response, error) {
	c.mu.Lock()
	ctx := c.ctx
	c.mu.Unlock()
	if ctx != nil {
		req = req.WithContext(ctx)
	}

	resp, err := c.client.Do(req)
	if err != nil {
		return nil, err
	}
	defer resp.Body.Close()

	body, err := io.ReadAll(resp.Body)
	c.mu.Lock()
	c.statusCode = resp.StatusCode
	c.body = body
	c.mu.Unlock()
	if err != nil {
		return nil, fmt.Errorf("read telegram response: %w", err)
	}

	resp.Body = io.NopCloser(bytes.NewReader(body))
	return resp, nil
}

// TelegramNotifier posts digest segments to one chat through the Bot API
type TelegramNotifier struct {
	api            *tgbotapi.BotAPI
	client         *recordingClient
	chatID         int64
	channel        string
	banner         string
	disablePreview bool
	log            *zap.Logger
}

// NotifierOption customizes the notifier
type NotifierOption func(*notifierOptions)

type notifierOptions struct {
	endpoint string
}

// WithAPIEndpoint points the notifier at another Bot API server. The format
// follows tgbotapi.APIEndpoint.
func WithAPIEndpoint(endpoint string) NotifierOption {
	return func(o *notifierOptions) {
		o.endpoint = endpoint
	}
}

// NewTelegramNotifier prepares delivery without calling the API.
// CHAT_ID is either a numeric id or an @channel username.
func NewTelegramNotifier(cfg config.Telegram, banner string, disablePreview bool, timeout time.Duration, log *zap.Logger, opts ...NotifierOption) (*TelegramNotifier, error) {
	if cfg.Token == "" {
		return nil, errors.New("TELEGRAM_TOKEN is not set")
	}

	o := notifierOptions{endpoint: tgbotapi.APIEndpoint}
	for _, opt := range opts {
		opt(&o)
	}

	n := &TelegramNotifier{
		banner:         banner,
		disablePreview: disablePreview,
		log:            log.Named("telegram"),
	}

	chatID := strings.TrimSpace(cfg.ChatID)
	switch {
	case strings.HasPrefix(chatID, "@") && len(chatID) > 1:
		n.channel = chatID
	default:
		id, err := strconv.ParseInt(chatID, 10, 64)
		if err != nil {
			return nil, fmt.Errorf("invalid CHAT_ID %q: %w", chatID, err)
		}
		n.chatID = id
	}

	n.client = &recordingClient{client: &http.Client{Timeout: timeout}}
	n.api = &tgbotapi.BotAPI{
		Token:  cfg.Token,
		Client: n.client,
		Buffer: 100,
	}
	n.api.SetAPIEndpoint(o.endpoint)

	return n, nil
}

func (n *TelegramNotifier) message(text string) tgbotapi.MessageConfig {
	var msg tgbotapi.MessageConfig
	if n.channel != "" {
		msg = tgbotapi.NewMessageToChannel(n.channel, text)
	} else {
		msg = tgbotapi.NewMessage(n.chatID, text)
	}
	msg.DisableWebPagePreview = n.disablePreview
	return msg
}

// Text returns what is actually sent for a segment; the first one carries the banner
func (n *TelegramNotifier) Text(seg digest.Segment) string {
	if seg.Ordinal == 0 && n.banner != "" {
		return n.banner + "\n\n" + seg.Text
	}
	return seg.Text
}

// Deliver sends one segment. Failures are reported in the result, never retried.
func (n *TelegramNotifier) Deliver(ctx context.Context, seg digest.Segment) DeliveryResult {
	result := DeliveryResult{Ordinal: seg.Ordinal}
	if err := ctx.Err(); err != nil {
		result.Err = err
		return result
	}

	n.client.begin(ctx)
	sent, err := n.api.Send(n.message(n.Text(seg)))
	result.StatusCode, result.Body = n.client.last()

	if err != nil {
		var apiErr *tgbotapi.Error
		if errors.As(err, &apiErr) {
			result.Err = fmt.Errorf("telegram error %d: %s", apiErr.Code, apiErr.Message)
		} else {
			result.Err = fmt.Errorf("send segment %d: %w", seg.Ordinal, err)
		}
		n.log.Error("❌ Segment delivery failed",
			zap.Int("segment", seg.Ordinal),
			zap.Int("status", result.StatusCode),
			zap.String("body", result.Body),
			zap.Error(result.Err),
		)
		return result
	}

	result.Success = true
	n.log.Info("📨 Segment delivered",
		zap.Int("segment", seg.Ordinal),
		zap.Int("status", result.StatusCode),
		zap.Int("message_id", sent.MessageID),
	)
	return result
}
