// Package notifications publishes best-effort notices into Redis channels,
// where an external delivery worker (email, push) picks them up. Nothing in
// this package participates in any transaction: losing a notice never rolls
// back the state change that produced it.
package notifications

import (
	"context"
	"encoding/json"
	"fmt"

	"github.com/redis/go-redis/v9"
)

// Notice is one message for one recipient.
type Notice struct {
	// Recipient is the destination email address; UserID is set when the
	// recipient is a known user, 0 for the admin address.
	Recipient string `json:"recipient"`
	UserID    uint   `json:"user_id,omitempty"`
	Subject   string `json:"subject"`
	Body      string `json:"body"`
}

// Sender delivers a single notice. Implementations must be safe for
// concurrent use.
type Sender interface {
	Send(ctx context.Context, n Notice) error
}

// Notifier publishes notices into Redis pub/sub channels.
type Notifier struct {
	rdb *redis.Client
}

// NewNotifier creates a notifier over the given Redis client. A nil client
// turns every send into a no-op.
func NewNotifier(rdb *redis.Client) *Notifier {
	return &Notifier{rdb: rdb}
}

// Send publishes the notice to the recipient's channel.
func (n *Notifier) Send(ctx context.Context, notice Notice) error {
	if n.rdb == nil {
		return nil
	}
	payload, err := json.Marshal(notice)
	if err != nil {
		return err
	}
	return n.rdb.Publish(ctx, channelFor(notice), payload).Err()
}

func channelFor(n Notice) string {
	if n.UserID == 0 {
		return "notifications:admin"
	}
	return fmt.Sprintf("notifications:user:%d", n.UserID)
}

// StartPatternSubscriber subscribes to every user notification channel and
// calls onMessage for each incoming message. Used by delivery workers.
func (n *Notifier) StartPatternSubscriber(
	ctx context.Context, onMessage func(channel string, payload string)) error {
	if n.rdb == nil {
		return nil
	}
	sub := n.rdb.PSubscribe(ctx, "notifications:*")
	ch := sub.Channel()

	go func() {
		for msg := range ch {
			onMessage(msg.Channel, msg.Payload)
		}
	}()

	return nil
}
