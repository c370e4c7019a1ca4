package leader

import (
	"context"
	"errors"
	"time"

	"github.com/go-redis/redis/v8"
)

// Lease is a Redis SETNX leadership lease for work that must run on a single
// instance at a time, such as the state cache reconciler. The holder renews
// the lease on every TryAcquire; a crashed holder loses it after the TTL.
type Lease struct {
	client *redis.Client
	key    string
	id     string
	ttl    time.Duration
}

func NewLease(client *redis.Client, key, instanceID string, ttl time.Duration) *Lease {
	return &Lease{client: client, key: key, id: instanceID, ttl: ttl}
}

// TryAcquire reports whether this instance holds the lease, taking it when
// free and extending it when already held by this instance.
func (l *Lease) TryAcquire(ctx context.Context) (bool, error) {
	acquired, err := l.client.SetNX(ctx, l.key, l.id, l.ttl).Result()
	if err != nil {
		return false, err
	}
	if acquired {
		return true, nil
	}

	holder, err := l.client.Get(ctx, l.key).Result()
	if errors.Is(err, redis.Nil) {
		return false, nil
	}
	if err != nil {
		return false, err
	}
	if holder != l.id {
		return false, nil
	}
	return true, l.client.Expire(ctx, l.key, l.ttl).Err()
}

// Release drops the lease if this instance still holds it. The compare and
// delete run atomically so a newer holder is never evicted.
func (l *Lease) Release(ctx context.Context) error {
	script := `
        if redis.call("GET", KEYS[1]) == ARGV[1] then
            return redis.call("DEL", KEYS[1])
        else
            return 0
        end
    `
	_, err := l.client.Eval(ctx, script, []string{l.key}, l.id).Result()
	return err
}
