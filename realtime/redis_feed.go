package realtime

import (
	"context"
	"encoding/json"
	"fmt"

	"github.com/go-redis/redis/v8"
	"github.com/yeremiapane/restaurant-pos/utils"
)

// RedisFeed menyebarkan perubahan lewat Redis pub/sub sehingga beberapa
// instance server saling melihat perubahan.
type RedisFeed struct {
	client  *redis.Client
	channel string
}

type RedisOptions struct {
	Addr     string
	Password string
	DB       int
	Channel  string
}

func NewRedisFeed(opts RedisOptions) *RedisFeed {
	channel := opts.Channel
	if channel == "" {
		channel = "pos:changes"
	}
	return &RedisFeed{
		client: redis.NewClient(&redis.Options{
			Addr:     opts.Addr,
			Password: opts.Password,
			DB:       opts.DB,
		}),
		channel: channel,
	}
}

func (f *RedisFeed) Ping(ctx context.Context) error {
	return f.client.Ping(ctx).Err()
}

func (f *RedisFeed) Publish(ctx context.Context, change Change) error {
	data, err := json.Marshal(change)
	if err != nil {
		return err
	}
	if err := f.client.Publish(ctx, f.channel, data).Err(); err != nil {
		return fmt.Errorf("publish change to redis: %w", err)
	}
	return nil
}

func (f *RedisFeed) Subscribe(ctx context.Context) (<-chan Change, error) {
	pubsub := f.client.Subscribe(ctx, f.channel)
	// Pastikan subscription aktif sebelum mengembalikan channel
	if _, err := pubsub.Receive(ctx); err != nil {
		pubsub.Close()
		return nil, fmt.Errorf("subscribe to redis channel %s: %w", f.channel, err)
	}

	out := make(chan Change, subscriberBuffer)
	go func() {
		defer close(out)
		defer pubsub.Close()

		msgs := pubsub.Channel()
		for {
			select {
			case msg, ok := <-msgs:
				if !ok {
					return
				}
				change, err := decodeChange(msg.Payload)
				if err != nil {
					utils.ErrorLogger.Errorf("Error decoding change from redis: %v", err)
					continue
				}
				select {
				case out <- change:
				default:
				}
			case <-ctx.Done():
				return
			}
		}
	}()

	return out, nil
}

func (f *RedisFeed) Close() error {
	return f.client.Close()
}

func decodeChange(payload string) (Change, error) {
	var change Change
	err := json.Unmarshal([]byte(payload), &change)
	return change, err
}
