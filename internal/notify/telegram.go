package notify

import (
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"net/url"
	"strings"
	"time"

	"github.com/optionslab/optionslab-client/internal/metrics"
	"github.com/optionslab/optionslab-client/internal/normalize"
	"github.com/optionslab/optionslab-client/internal/telegramtmpl"
	"github.com/optionslab/optionslab-client/internal/views"
)

const defaultAPIBase = "https://api.telegram.org"

// Notifier sends simulation alerts to a Telegram chat via the Bot API.
type Notifier struct {
	botToken   string
	chatID     string
	httpClient *http.Client
	enabled    bool
	baseURL    string // overridable for testing; defaults to Telegram API
}

// NewNotifier creates a Notifier. Notifications are enabled only when both
// botToken and chatID are non-empty.
func NewNotifier(botToken, chatID string) *Notifier {
	return &Notifier{
		botToken:   botToken,
		chatID:     chatID,
		httpClient: &http.Client{Timeout: 10 * time.Second},
		enabled:    botToken != "" && chatID != "",
	}
}

// Enabled reports whether the notifier is active.
func (n *Notifier) Enabled() bool { return n.enabled }

func (n *Notifier) endpoint() string {
	if n.baseURL != "" {
		return n.baseURL
	}
	return fmt.Sprintf("%s/bot%s/sendMessage", defaultAPIBase, n.botToken)
}

// Send posts an HTML message to the configured chat. A disabled notifier
// drops the message and returns nil.
func (n *Notifier) Send(ctx context.Context, msg string) (err error) {
	if !n.enabled {
		return nil
	}
	defer func() { metrics.ObserveNotification(err) }()

	form := url.Values{
		"chat_id":                  {n.chatID},
		"text":                     {msg},
		"parse_mode":               {"HTML"},
		"disable_web_page_preview": {"true"},
	}
	req, err := http.NewRequestWithContext(ctx, http.MethodPost, n.endpoint(), strings.NewReader(form.Encode()))
	if err != nil {
		return fmt.Errorf("notify: build request: %w", err)
	}
	req.Header.Set("Content-Type", "application/x-www-form-urlencoded")

	resp, err := n.httpClient.Do(req)
	if err != nil {
		return fmt.Errorf("notify: send: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		var body struct {
			Description string `json:"description"`
		}
		_ = json.NewDecoder(resp.Body).Decode(&body)
		return fmt.Errorf("notify: telegram %d: %s", resp.StatusCode, body.Description)
	}
	return nil
}

// NotifyConcluded sends the alert for a simulation that just concluded.
func (n *Notifier) NotifyConcluded(ctx context.Context, rec normalize.SimulationRecord) error {
	return n.Send(ctx, telegramtmpl.RenderConcludedHTML(telegramtmpl.BuildAlertData(rec)))
}

// NotifyDigest sends the dashboard digest.
func (n *Notifier) NotifyDigest(ctx context.Context, d views.Dashboard) error {
	return n.Send(ctx, telegramtmpl.RenderDigestHTML(telegramtmpl.BuildDigestData(d)))
}
