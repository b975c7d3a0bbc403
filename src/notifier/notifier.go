package notifier

import (
	"context"
	"time"

	"github.com/go-resty/resty/v2"
	logger "github.com/sirupsen/logrus"

	"signalengine/src/model"
)

// Notifier is the fire-and-forget delivery sink for generated signals and
// conflict warnings. Delivery failures are logged, never surfaced to the
// pipeline.
type Notifier interface {
	SignalGenerated(signal *model.TradingSignal)
	ConflictDetected(req *model.TradeRequest, c *model.Conflict)
}

type Noop struct{}

func (Noop) SignalGenerated(*model.TradingSignal)                  {}
func (Noop) ConflictDetected(*model.TradeRequest, *model.Conflict) {}

// WebhookNotifier posts JSON payloads to a configured webhook URL.
type WebhookNotifier struct {
	http *resty.Client
	url  string
}

func NewWebhookNotifier(url string, timeout time.Duration) *WebhookNotifier {
	return &WebhookNotifier{
		http: resty.New().SetTimeout(timeout),
		url:  url,
	}
}

type webhookPayload struct {
	Event    string               `json:"event"`
	Signal   *model.TradingSignal `json:"signal,omitempty"`
	Request  *model.TradeRequest  `json:"request,omitempty"`
	Conflict *model.Conflict      `json:"conflict,omitempty"`
	SentAt   time.Time            `json:"sent_at"`
}

func (n *WebhookNotifier) SignalGenerated(signal *model.TradingSignal) {
	n.deliver(webhookPayload{Event: "signal_generated", Signal: signal, SentAt: time.Now().UTC()})
}

func (n *WebhookNotifier) ConflictDetected(req *model.TradeRequest, c *model.Conflict) {
	n.deliver(webhookPayload{Event: "conflict_detected", Request: req, Conflict: c, SentAt: time.Now().UTC()})
}

func (n *WebhookNotifier) deliver(payload webhookPayload) {
	go func() {
		ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
		defer cancel()

		resp, err := n.http.R().
			SetContext(ctx).
			SetHeader("Content-Type", "application/json").
			SetBody(payload).
			Post(n.url)
		if err != nil {
			logger.WithError(err).WithField("event", payload.Event).Warn("Webhook delivery failed")
			return
		}
		if !resp.IsSuccess() {
			logger.WithFields(logger.Fields{
				"event":  payload.Event,
				"status": resp.StatusCode(),
			}).Warn("Webhook delivery rejected")
		}
	}()
}
