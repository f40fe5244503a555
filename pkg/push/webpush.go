package push

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"net/http"

	webpush "github.com/SherClockHolmes/webpush-go"
	"go.uber.org/zap"

	"github.com/civicodehq/civicode-engine/pkg/models"
)

// ErrSubscriptionGone marks a push endpoint the browser has dropped.
// Callers should delete the subscription row when they see it.
var ErrSubscriptionGone = errors.New("push subscription gone")

// Sender delivers Web Push notifications.
type Sender interface {
	Send(ctx context.Context, sub *models.PushSubscription, payload Payload) error
	Enabled() bool
	PublicKey() string
}

// Payload is the JSON body delivered to the service worker.
type Payload struct {
	Title string `json:"title"`
	Body  string `json:"body"`
	URL   string `json:"url,omitempty"`
}

// Config holds VAPID keys.
type Config struct {
	VAPIDPublicKey  string
	VAPIDPrivateKey string
	Subject         string
}

type webpushSender struct {
	cfg    Config
	logger *zap.Logger
}

// NewWebPushSender creates a Web Push sender. Without VAPID keys it reports
// disabled and drops sends silently.
func NewWebPushSender(cfg Config, logger *zap.Logger) Sender {
	return &webpushSender{cfg: cfg, logger: logger}
}

func (s *webpushSender) Enabled() bool {
	return s.cfg.VAPIDPublicKey != "" && s.cfg.VAPIDPrivateKey != ""
}

func (s *webpushSender) PublicKey() string {
	return s.cfg.VAPIDPublicKey
}

func (s *webpushSender) Send(ctx context.Context, sub *models.PushSubscription, payload Payload) error {
	if !s.Enabled() {
		return nil
	}

	body, err := json.Marshal(payload)
	if err != nil {
		return fmt.Errorf("failed to marshal push payload: %w", err)
	}

	resp, err := webpush.SendNotification(body, &webpush.Subscription{
		Endpoint: sub.Endpoint,
		Keys: webpush.Keys{
			P256dh: sub.P256DH,
			Auth:   sub.Auth,
		},
	}, &webpush.Options{
		Subscriber:      s.cfg.Subject,
		VAPIDPublicKey:  s.cfg.VAPIDPublicKey,
		VAPIDPrivateKey: s.cfg.VAPIDPrivateKey,
		TTL:             60,
	})
	if err != nil {
		return fmt.Errorf("failed to send push to %s: %w", sub.Endpoint, err)
	}
	defer resp.Body.Close()

	// The push service answers 404/410 once the browser has unsubscribed.
	if resp.StatusCode == http.StatusNotFound || resp.StatusCode == http.StatusGone {
		return ErrSubscriptionGone
	}
	if resp.StatusCode >= 400 {
		return fmt.Errorf("push service rejected notification: status %d", resp.StatusCode)
	}

	s.logger.Debug("Push notification sent",
		zap.Int64("user_id", sub.UserID),
		zap.Int("status", resp.StatusCode))
	return nil
}
