package redis

import (
	"context"
	"fmt"
	"time"

	"github.com/redis/go-redis/v9"
)

const defaultMailDedupTTL = time.Minute

// MailDedup records handled mail ids so a redelivered mail is not sent twice
// within the TTL window.
// Key format: mail:dedup:<mail id>
type MailDedup struct {
	client *redis.Client
	ttl    time.Duration
}

// NewMailDedup wraps client. A non-positive ttl falls back to one minute.
func NewMailDedup(client *redis.Client, ttl time.Duration) *MailDedup {
	if ttl <= 0 {
		ttl = defaultMailDedupTTL
	}
	return &MailDedup{client: client, ttl: ttl}
}

// FirstSeen atomically records id and reports whether it was not already
// recorded inside the window.
func (d *MailDedup) FirstSeen(ctx context.Context, id string) (bool, error) {
	ok, err := d.client.SetNX(ctx, mailKey(id), "1", d.ttl).Result()
	if err != nil {
		return false, fmt.Errorf("mail dedup: %w", err)
	}
	return ok, nil
}

func mailKey(id string) string {
	return "mail:dedup:" + id
}
