package checks

import (
	"context"
	"errors"
	"fmt"
	"sync"
	"time"

	"github.com/redis/go-redis/v9"

	"github.com/pleme-io/pleme-health/health"
)

// sentinelKey is read on every check; its absence is not a failure.
const sentinelKey = "__health_check__"

// RedisChecker checks Redis connectivity with PING followed by a GET.
type RedisChecker struct {
	url string

	once      sync.Once
	client    redis.UniversalClient
	clientErr error
}

// Redis creates a checker for the Redis server at url
// (redis://[user:password@]host:port/db). The client is created on the first
// check and reused afterwards.
func Redis(url string) *RedisChecker {
	return &RedisChecker{url: url}
}

// RedisClient creates a checker that reuses an existing client.
func RedisClient(client redis.UniversalClient) *RedisChecker {
	c := &RedisChecker{client: client}
	c.once.Do(func() {})
	return c
}

// Check performs the Redis health check.
func (c *RedisChecker) Check(ctx context.Context) health.Result {
	start := time.Now()

	client, err := c.connect()
	if err != nil {
		return health.Unhealthy(fmt.Sprintf("redis client creation failed: %v", err))
	}

	if err := client.Ping(ctx).Err(); err != nil {
		return health.Unhealthy(fmt.Sprintf("redis connection failed: %v", err))
	}

	if err := client.Get(ctx, sentinelKey).Err(); err != nil && !errors.Is(err, redis.Nil) {
		return health.Unhealthy(fmt.Sprintf("redis check failed: %v", err))
	}

	return health.Healthy().WithDuration(time.Since(start))
}

// Close releases the client created from the URL. Clients passed to
// RedisClient are owned by the caller and left open.
func (c *RedisChecker) Close() error {
	if c.url == "" || c.client == nil {
		return nil
	}
	return c.client.Close()
}

func (c *RedisChecker) connect() (redis.UniversalClient, error) {
	c.once.Do(func() {
		opts, err := redis.ParseURL(c.url)
		if err != nil {
			c.clientErr = err
			return
		}
		opts.MaxRetries = -1
		c.client = redis.NewClient(opts)
	})
	return c.client, c.clientErr
}
