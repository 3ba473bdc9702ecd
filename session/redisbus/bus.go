// Package redisbus shares session phase changes between console processes
// over a Redis pub/sub channel. Credentials never leave the process: only
// the identity, phase and error message are published.
package redisbus

import (
	"context"
	"encoding/json"
	"fmt"
	"sync"
	"time"

	"github.com/google/uuid"
	"github.com/jrsteele09/go-warehouse-console/models"
	"github.com/jrsteele09/go-warehouse-console/session"
	"github.com/redis/go-redis/v9"
	"github.com/rs/zerolog/log"
)

const (
	DefaultChannel = "warehouse-console:session"
	queueSize      = 64
	publishTimeout = 2 * time.Second
)

// Event is the wire form of a session.State
type Event struct {
	Origin  string        `json:"origin"`
	User    string        `json:"user,omitempty"`
	Role    models.Role   `json:"role,omitempty"`
	Phase   session.Phase `json:"phase"`
	Loading bool          `json:"loading,omitempty"`
	Error   string        `json:"error,omitempty"`
	At      time.Time     `json:"at"`
}

type Bus struct {
	client  *redis.Client
	channel string
	origin  string
}

func New(client *redis.Client, channel string) *Bus {
	if channel == "" {
		channel = DefaultChannel
	}
	return &Bus{
		client:  client,
		channel: channel,
		origin:  uuid.NewString(),
	}
}

// Origin identifies events published by this bus
func (b *Bus) Origin() string {
	return b.origin
}

func (b *Bus) event(state session.State) Event {
	return Event{
		Origin:  b.origin,
		User:    state.User,
		Role:    state.Role,
		Phase:   state.Phase(),
		Loading: state.Loading,
		Error:   state.Error,
		At:      time.Now().UTC(),
	}
}

func (b *Bus) Publish(ctx context.Context, state session.State) error {
	payload, err := json.Marshal(b.event(state))
	if err != nil {
		return fmt.Errorf("[redisbus Publish] marshal: %w", err)
	}
	if err := b.client.Publish(ctx, b.channel, payload).Err(); err != nil {
		return fmt.Errorf("[redisbus Publish] %s: %w", b.channel, err)
	}
	return nil
}

// Attach publishes every transition of sessions until detach is called.
// Publishing happens on its own goroutine so a slow Redis never holds up a
// session transition; if the queue fills, events are dropped and logged.
func (b *Bus) Attach(sessions *session.Store) (detach func()) {
	queue := make(chan session.State, queueSize)
	done := make(chan struct{})
	var wg sync.WaitGroup

	wg.Add(1)
	go func() {
		defer wg.Done()
		for {
			select {
			case <-done:
				return
			case state := <-queue:
				ctx, cancel := context.WithTimeout(context.Background(), publishTimeout)
				if err := b.Publish(ctx, state); err != nil {
					log.Err(err).Msg("publish session event")
				}
				cancel()
			}
		}
	}()

	unsubscribe := sessions.Subscribe(func(state session.State) {
		select {
		case queue <- state:
		case <-done:
		default:
			log.Warn().Str("phase", string(state.Phase())).Msg("session event queue full, dropping event")
		}
	})

	var once sync.Once
	return func() {
		once.Do(func() {
			unsubscribe()
			close(done)
			wg.Wait()
		})
	}
}

// Listen subscribes to the channel and calls fn for every event published
// by another bus. It returns once the subscription is confirmed; stop ends
// it. Undecodable messages are logged and skipped.
func (b *Bus) Listen(ctx context.Context, fn func(Event)) (stop func() error, err error) {
	pubsub := b.client.Subscribe(ctx, b.channel)
	if _, err := pubsub.Receive(ctx); err != nil {
		_ = pubsub.Close()
		return nil, fmt.Errorf("[redisbus Listen] subscribe %s: %w", b.channel, err)
	}

	var wg sync.WaitGroup
	wg.Add(1)
	go func() {
		defer wg.Done()
		for msg := range pubsub.Channel() {
			var ev Event
			if err := json.Unmarshal([]byte(msg.Payload), &ev); err != nil {
				log.Warn().Err(err).Str("channel", msg.Channel).Msg("skipping undecodable session event")
				continue
			}
			if ev.Origin == b.origin {
				continue
			}
			fn(ev)
		}
	}()

	var once sync.Once
	return func() error {
		var closeErr error
		once.Do(func() {
			closeErr = pubsub.Close()
			wg.Wait()
		})
		return closeErr
	}, nil
}
