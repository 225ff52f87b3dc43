package redis

import (
	"context"
	"fmt"
	"time"

	redislib "github.com/redis/go-redis/v9"

	"github.com/taskhive/backend/repository"
)

type loginThrottle struct {
	client *redislib.Client
	prefix string
}

// NewLoginThrottle creates a Redis-backed failed-login counter. The counter
// uses a fixed window: the first failure sets the key's TTL and subsequent
// failures increment it until the window expires.
func NewLoginThrottle(client *redislib.Client) repository.LoginThrottle {
	return &loginThrottle{
		client: client,
		prefix: "login_fail:",
	}
}

func (t *loginThrottle) Hit(ctx context.Context, username string, window time.Duration) (int, error) {
	if window <= 0 {
		window = 15 * time.Minute
	}
	key := t.key(username)

	count, err := t.client.Incr(ctx, key).Result()
	if err != nil {
		return 0, err
	}
	if count == 1 {
		if err := t.client.Expire(ctx, key, window).Err(); err != nil {
			return int(count), err
		}
	}
	return int(count), nil
}

func (t *loginThrottle) Reset(ctx context.Context, username string) error {
	return t.client.Del(ctx, t.key(username)).Err()
}

func (t *loginThrottle) key(username string) string {
	return fmt.Sprintf("%s%s", t.prefix, username)
}
