package bus

import (
	"context"
	"encoding/json"

	"github.com/fekuna/omnipos-seller-cms/internal/docstore"
	"github.com/fekuna/omnipos-seller-cms/pkg/logger"
	"github.com/redis/go-redis/v9"
	"go.uber.org/zap"
)

type Config struct {
	Addr     string
	Password string
	DB       int
	Channel  string
}

// RedisBus publishes document changes on a Redis pub/sub channel.
type RedisBus struct {
	Client  *redis.Client
	channel string
	logger  logger.ZapLogger
}

var _ docstore.Bus = (*RedisBus)(nil)

func NewRedisBus(ctx context.Context, cfg *Config, log logger.ZapLogger) (*RedisBus, error) {
	client := redis.NewClient(&redis.Options{
		Addr:     cfg.Addr,
		Password: cfg.Password,
		DB:       cfg.DB,
	})
	if err := client.Ping(ctx).Err(); err != nil {
		_ = client.Close()
		return nil, err
	}
	return &RedisBus{Client: client, channel: cfg.Channel, logger: log}, nil
}

func (b *RedisBus) Publish(ctx context.Context, c docstore.Change) error {
	payload, err := json.Marshal(c)
	if err != nil {
		return err
	}
	return b.Client.Publish(ctx, b.channel, payload).Err()
}

func (b *RedisBus) Listen(ctx context.Context, handle func(docstore.Change)) error {
	sub := b.Client.Subscribe(ctx, b.channel)
	defer sub.Close()

	if _, err := sub.Receive(ctx); err != nil {
		return err
	}
	b.logger.Info("Listening for document changes", zap.String("channel", b.channel))

	ch := sub.Channel()
	for {
		select {
		case <-ctx.Done():
			return nil
		case msg, ok := <-ch:
			if !ok {
				return nil
			}
			var c docstore.Change
			if err := json.Unmarshal([]byte(msg.Payload), &c); err != nil {
				b.logger.Error("Failed to unmarshal document change", zap.Error(err))
				continue
			}
			handle(c)
		}
	}
}

func (b *RedisBus) Close() error {
	return b.Client.Close()
}
