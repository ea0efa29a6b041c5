package realtime

import (
	"context"
	"encoding/json"
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/redis/go-redis/v9"
	"github.com/sirupsen/logrus"

	"github.com/ray-remotestate/swiftserve/config"
	"github.com/ray-remotestate/swiftserve/models"
)

const publishTimeout = 2 * time.Second

// Broadcaster delivers events to the peers of this instance.
type Broadcaster interface {
	Publish(ev models.Event)
}

type envelope struct {
	Origin string       `json:"origin"`
	Event  models.Event `json:"event"`
}

// Relay forwards local events to a Redis channel and re-broadcasts events
// published by other instances.
type Relay struct {
	local   Broadcaster
	client  *redis.Client
	channel string
	origin  string
}

func NewRelay(cfg config.RedisConfig, local Broadcaster) *Relay {
	client := redis.NewClient(&redis.Options{
		Addr:     cfg.Addr,
		Password: cfg.Password,
		DB:       cfg.DB,
	})
	return &Relay{
		local:   local,
		client:  client,
		channel: cfg.Channel,
		origin:  uuid.NewString(),
	}
}

func (r *Relay) Ping(ctx context.Context) error {
	return r.client.Ping(ctx).Err()
}

// Publish broadcasts locally first, then forwards to the other instances.
func (r *Relay) Publish(ev models.Event) {
	r.local.Publish(ev)

	payload, err := r.encode(ev)
	if err != nil {
		logrus.WithError(err).Error("failed to encode relay event")
		return
	}
	ctx, cancel := context.WithTimeout(context.Background(), publishTimeout)
	defer cancel()
	if err := r.client.Publish(ctx, r.channel, payload).Err(); err != nil {
		logrus.WithError(err).WithField("channel", r.channel).Warn("failed to relay event")
	}
}

func (r *Relay) encode(ev models.Event) ([]byte, error) {
	return json.Marshal(envelope{Origin: r.origin, Event: ev})
}

// handle re-broadcasts a relayed payload unless this instance sent it.
func (r *Relay) handle(payload string) error {
	var env envelope
	if err := json.Unmarshal([]byte(payload), &env); err != nil {
		return fmt.Errorf("decode relay payload: %w", err)
	}
	if env.Origin == r.origin {
		return nil
	}
	r.local.Publish(env.Event)
	return nil
}

// Run subscribes to the channel until ctx is done.
func (r *Relay) Run(ctx context.Context) error {
	sub := r.client.Subscribe(ctx, r.channel)
	defer sub.Close()

	if _, err := sub.Receive(ctx); err != nil {
		return fmt.Errorf("subscribe %s: %w", r.channel, err)
	}
	logrus.WithField("channel", r.channel).Info("relay subscribed")

	ch := sub.Channel()
	for {
		select {
		case <-ctx.Done():
			return nil
		case msg, ok := <-ch:
			if !ok {
				return nil
			}
			if err := r.handle(msg.Payload); err != nil {
				logrus.WithError(err).Warn("ignoring relay message")
			}
		}
	}
}

func (r *Relay) Close() error {
	return r.client.Close()
}
