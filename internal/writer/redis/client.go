// internal/writer/redis/client.go
package redis

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/redis/go-redis/v9"
)

// Publisher mirrors each poll into a Redis hash and notifies subscribers.
// Key and Channel are independent: either may be empty, not both.
type Publisher struct {
	client  *redis.Client
	key     string
	channel string
	payload string

	ctx    context.Context
	cancel context.CancelFunc
}

type Config struct {
	Addr    string
	DB      int
	Key     string // hash updated with HSET
	Channel string // channel notified with PUBLISH
	Payload string // PUBLISH message
	Timeout time.Duration
}

// NewPublisher connects and pings once. No retries.
func NewPublisher(cfg Config) (*Publisher, error) {
	if cfg.Addr == "" {
		return nil, errors.New("writer redis: addr required")
	}
	if cfg.Key == "" && cfg.Channel == "" {
		return nil, errors.New("writer redis: key or channel required")
	}
	if cfg.Timeout <= 0 {
		cfg.Timeout = 2 * time.Second
	}

	ctx, cancel := context.WithCancel(context.Background())
	p := &Publisher{
		client: redis.NewClient(&redis.Options{
			Addr:         cfg.Addr,
			DB:           cfg.DB,
			DialTimeout:  cfg.Timeout,
			ReadTimeout:  cfg.Timeout,
			WriteTimeout: cfg.Timeout,
		}),
		key:     cfg.Key,
		channel: cfg.Channel,
		payload: cfg.Payload,
		ctx:     ctx,
		cancel:  cancel,
	}

	if err := p.client.Ping(ctx).Err(); err != nil {
		p.Close()
		return nil, fmt.Errorf("writer redis: connect %s: %w", cfg.Addr, err)
	}

	return p, nil
}

// Publish sets fields on the hash and notifies the channel in one pipeline.
func (p *Publisher) Publish(fields map[string]interface{}) error {
	pipe := p.client.Pipeline()
	if p.key != "" {
		pipe.HSet(p.ctx, p.key, fields)
	}
	if p.channel != "" {
		pipe.Publish(p.ctx, p.channel, p.payload)
	}
	if _, err := pipe.Exec(p.ctx); err != nil {
		return fmt.Errorf("writer redis: %w", err)
	}
	return nil
}

func (p *Publisher) Close() error {
	p.cancel()
	return p.client.Close()
}
