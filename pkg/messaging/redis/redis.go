package redis

import (
	"context"
	"encoding/json"
	"fmt"
	"time"

	"github.com/redis/go-redis/v9"
	"github.com/rs/zerolog"

	"github.com/teraclinic/clinic-api/pkg/messaging"
)

type Config struct {
	URL          string        `yaml:"url"`
	MaxRetries   int           `yaml:"max_retries"`
	RetryBackoff time.Duration `yaml:"retry_backoff"`
	PoolSize     int           `yaml:"pool_size"`
	MinIdleConns int           `yaml:"min_idle_conns"`
}

type RedisBroker struct {
	client *redis.Client
	logger *zerolog.Logger
}

func NewRedisBroker(config Config, logger *zerolog.Logger) (messaging.Broker, error) {
	opts, err := redis.ParseURL(config.URL)
	if err != nil {
		return nil, fmt.Errorf("failed to parse Redis URL: %w", err)
	}

	opts.MaxRetries = config.MaxRetries
	opts.MinRetryBackoff = config.RetryBackoff
	opts.PoolSize = config.PoolSize
	opts.MinIdleConns = config.MinIdleConns

	client := redis.NewClient(opts)

	if err := client.Ping(context.Background()).Err(); err != nil {
		return nil, fmt.Errorf("failed to connect to Redis: %w", err)
	}

	return &RedisBroker{client: client, logger: logger}, nil
}

func (b *RedisBroker) Publish(ctx context.Context, channel string, message interface{}) error {
	payload, err := json.Marshal(message)
	if err != nil {
		return fmt.Errorf("failed to marshal message: %w", err)
	}
	return b.client.Publish(ctx, channel, payload).Err()
}

func (b *RedisBroker) Subscribe(ctx context.Context, channel string) (<-chan []byte, error) {
	pubsub := b.client.Subscribe(ctx, channel)
	msgChan := make(chan []byte, 100)

	go func() {
		defer func() {
			pubsub.Close()
			close(msgChan)
		}()

		for {
			select {
			case <-ctx.Done():
				return
			case msg, ok := <-pubsub.Channel():
				if !ok {
					return
				}
				select {
				case msgChan <- []byte(msg.Payload):
				default:
					b.logger.Warn().Str("channel", channel).Msg("subscriber buffer full, dropping message")
				}
			}
		}
	}()

	return msgChan, nil
}

func (b *RedisBroker) Close() error {
	return b.client.Close()
}
