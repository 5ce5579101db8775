package notify

import (
	"context"
	"encoding/json"
	"fmt"
	"net/http"

	"github.com/SherClockHolmes/webpush-go"

	"meetroom/internal/store"
)

// PushSender sends one web push message. Split out so tests can stub the
// network call.
type PushSender interface {
	Send(payload []byte, sub *webpush.Subscription, options *webpush.Options) (*http.Response, error)
}

type webPushSender struct{}

func (webPushSender) Send(payload []byte, sub *webpush.Subscription, options *webpush.Options) (*http.Response, error) {
	return webpush.SendNotification(payload, sub, options)
}

// SubscriptionSource lists the registered push subscriptions.
type SubscriptionSource interface {
	ListPushSubscriptions(ctx context.Context) ([]store.PushSubscription, error)
}

// WebPushSink fans booking events out to every registered browser push
// subscription.
type WebPushSink struct {
	subs    SubscriptionSource
	options *webpush.Options
	sender  PushSender
}

// NewWebPushSink creates a push sink with VAPID credentials.
func NewWebPushSink(subs SubscriptionSource, subscriber, vapidPublic, vapidPrivate string) *WebPushSink {
	return &WebPushSink{
		subs: subs,
		options: &webpush.Options{
			Subscriber:      subscriber,
			VAPIDPublicKey:  vapidPublic,
			VAPIDPrivateKey: vapidPrivate,
			TTL:             300,
		},
		sender: webPushSender{},
	}
}

// Name implements Sink.
func (s *WebPushSink) Name() string { return "webpush" }

// Send implements Sink. A subscription that rejects the push does not stop
// delivery to the rest.
func (s *WebPushSink) Send(ctx context.Context, e Event) error {
	subs, err := s.subs.ListPushSubscriptions(ctx)
	if err != nil {
		return fmt.Errorf("list subscriptions: %w", err)
	}
	if len(subs) == 0 {
		return nil
	}

	payload, err := json.Marshal(map[string]string{
		"title": Subject(e),
		"body":  fmt.Sprintf("%s, %s – %s", e.Room, e.Start.Format("2006-01-02 15:04"), e.End.Format("15:04")),
	})
	if err != nil {
		return err
	}

	var lastErr error
	for _, sub := range subs {
		resp, err := s.sender.Send(payload, &webpush.Subscription{
			Endpoint: sub.Endpoint,
			Keys:     webpush.Keys{P256dh: sub.P256DH, Auth: sub.Auth},
		}, s.options)
		if err != nil {
			lastErr = err
			continue
		}
		resp.Body.Close()
	}
	return lastErr
}
