package cache

import (
	"context"
	"encoding/json"
	"log/slog"
	"time"

	"github.com/valkey-io/valkey-go"

	"github.com/spacesedan/reviewlens/internal/clients"
)

const valkeyOpTimeout = 500 * time.Millisecond

// ValkeyCache shares memoized values between runs and between processes.
// Lookups that fail for any reason are reported as misses.
type ValkeyCache[V any] struct {
	client *clients.ValkeyClient
	prefix string
	ttl    time.Duration
}

func NewValkeyCache[V any](client *clients.ValkeyClient, prefix string, ttl time.Duration) *ValkeyCache[V] {
	return &ValkeyCache[V]{client: client, prefix: prefix, ttl: ttl}
}

func (c *ValkeyCache[V]) Get(key string) (V, bool) {
	var zero V
	if !c.client.Available() {
		return zero, false
	}

	ctx, cancel := context.WithTimeout(context.Background(), valkeyOpTimeout)
	defer cancel()

	vc := c.client.Client()
	res := c.client.DoWithRetry(ctx, vc.B().Get().Key(c.key(key)).Build(), 1)
	raw, err := res.ToString()
	if err != nil {
		if !valkey.IsValkeyNil(err) {
			slog.Debug("[ValkeyCache] Get failed", slog.String("error", err.Error()))
		}
		return zero, false
	}

	var value V
	if err := json.Unmarshal([]byte(raw), &value); err != nil {
		slog.Warn("[ValkeyCache] Dropping undecodable entry",
			slog.String("key", c.key(key)),
			slog.String("error", err.Error()))
		return zero, false
	}
	return value, true
}

func (c *ValkeyCache[V]) Add(key string, value V) {
	if !c.client.Available() {
		return
	}
	data, err := json.Marshal(value)
	if err != nil {
		return
	}

	ctx, cancel := context.WithTimeout(context.Background(), valkeyOpTimeout)
	defer cancel()

	vc := c.client.Client()
	set := vc.B().Set().Key(c.key(key)).Value(string(data))
	var cmd valkey.Completed
	if c.ttl >= time.Second {
		cmd = set.ExSeconds(int64(c.ttl.Seconds())).Build()
	} else {
		cmd = set.Build()
	}
	if err := c.client.DoWithRetry(ctx, cmd, 1).Error(); err != nil {
		slog.Debug("[ValkeyCache] Set failed", slog.String("error", err.Error()))
	}
}

func (c *ValkeyCache[V]) key(k string) string {
	return c.prefix + ":" + clients.HashKey(k)
}
