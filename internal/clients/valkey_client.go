package clients

import (
	"context"
	"crypto/sha256"
	"crypto/tls"
	"encoding/hex"
	"fmt"
	"log/slog"
	"strings"
	"sync"
	"sync/atomic"
	"time"

	"github.com/valkey-io/valkey-go"
)

type ValkeyConfig struct {
	Address  string
	Password string
	TLS      bool
}

type ValkeyClient struct {
	cfg    ValkeyConfig
	client valkey.Client
	mu     sync.Mutex
	// down is set after a failed reconnect and never cleared, so a dead
	// backend costs one dial per process instead of one per command.
	down atomic.Bool
}

func NewValkeyClient(cfg ValkeyConfig) (*ValkeyClient, error) {
	client, err := dialValkey(cfg)
	if err != nil {
		return nil, err
	}

	slog.Info("[ValkeyClient] Successfully connected to valkey",
		slog.String("address", cfg.Address))

	return &ValkeyClient{cfg: cfg, client: client}, nil
}

func dialValkey(cfg ValkeyConfig) (valkey.Client, error) {
	opts := valkey.ClientOption{
		InitAddress:      []string{cfg.Address},
		Password:         cfg.Password,
		ConnWriteTimeout: 5 * time.Second,
		SelectDB:         0,
	}

	if cfg.TLS {
		opts.TLSConfig = &tls.Config{InsecureSkipVerify: false}
	}

	client, err := valkey.NewClient(opts)
	if err != nil {
		return nil, fmt.Errorf("[ValkeyClient] failed to create Valkey: %w", err)
	}

	ctx, cancel := context.WithTimeout(context.Background(), time.Second*3)
	defer cancel()

	if err := client.Do(ctx, client.B().Ping().Build()).Error(); err != nil {
		client.Close()
		return nil, fmt.Errorf("[ValkeyClient] failed to ping Valkey: %w", err)
	}

	return client, nil
}

// Client returns the current connection. It may change after a reconnect.
func (vc *ValkeyClient) Client() valkey.Client {
	vc.mu.Lock()
	defer vc.mu.Unlock()
	return vc.client
}

func (vc *ValkeyClient) Close() {
	vc.mu.Lock()
	defer vc.mu.Unlock()
	if vc.client != nil {
		vc.client.Close()
	}
}

// Available reports whether the backend is still worth calling.
func (vc *ValkeyClient) Available() bool {
	return !vc.down.Load()
}

// Disable stops all further calls to the backend for the life of the client.
func (vc *ValkeyClient) Disable() {
	vc.down.Store(true)
}

func (vc *ValkeyClient) recreateClient() {
	vc.mu.Lock()
	defer vc.mu.Unlock()

	if vc.down.Load() {
		return
	}

	slog.Warn("[ValkeyClient] Attempting to recreate Valkey client...")
	client, err := dialValkey(vc.cfg)
	if err != nil {
		vc.Disable()
		slog.Error("[ValkeyClient] Recreate failed, disabling valkey for this run",
			slog.String("error", err.Error()))
		return
	}

	if vc.client != nil {
		vc.client.Close()
	}
	vc.client = client
	slog.Info("[ValkeyClient] Successfully reconnected to valkey")
}

func (vc *ValkeyClient) DoWithRetry(ctx context.Context, completed valkey.Completed, retries int) valkey.ValkeyResult {
	var result valkey.ValkeyResult
	if retries > 1 {
		// commands are recycled after Do unless pinned
		completed = completed.Pin()
	}
	for i := 0; i < retries; i++ {
		result = vc.Client().Do(ctx, completed)
		err := result.Error()
		if err == nil || valkey.IsValkeyNil(err) {
			break
		}

		slog.Warn("[ValkeyClient] Do failed",
			slog.Int("attempt", i+1),
			slog.String("error", err.Error()))

		if isConnectionError(err) {
			vc.recreateClient()
			if !vc.Available() {
				break
			}
		}

		if i < retries-1 {
			time.Sleep(250 * time.Millisecond)
		}
	}

	return result
}

// HashKey keeps cache keys short and free of whitespace regardless of the text.
func HashKey(text string) string {
	hash := sha256.Sum256([]byte(text))
	return hex.EncodeToString(hash[:])
}

func isConnectionError(err error) bool {
	if err == nil {
		return false
	}
	msg := err.Error()
	return strings.Contains(msg, "connection refused") ||
		strings.Contains(msg, "EOF") ||
		strings.Contains(msg, "i/o timeout")
}
