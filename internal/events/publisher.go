// Package events publishes domain events onto Redis queues for the notifier
// to consume. Publishing is best-effort: callers log failures and move on.
package events

import (
	"context"
	"encoding/json"
	"fmt"
	"sync"
	"time"

	"github.com/redis/go-redis/v9"
	"github.com/sirupsen/logrus"

	"github.com/matchup-gg/matchup/internal/models"
)

// Queue names shared with the notifier.
const (
	LobbyQueue  = "notifications:lobby"
	FriendQueue = "notifications:friend"
)

const (
	connectTimeout = 3 * time.Second
	maxBackoff     = 30 * time.Second
)

// Publisher owns a lazily-established Redis connection. It is safe for
// concurrent use and reconnects with capped backoff after failures, so a
// queue outage costs each publish at most one cheap gate check.
type Publisher struct {
	opts *redis.Options
	log  *logrus.Logger

	mu        sync.Mutex
	client    *redis.Client
	backoff   time.Duration
	nextRetry time.Time
}

// NewPublisher builds a publisher for the Redis instance at addr. No
// connection is made until the first publish.
func NewPublisher(addr, password string, db int, log *logrus.Logger) *Publisher {
	return &Publisher{
		opts: &redis.Options{Addr: addr, Password: password, DB: db},
		log:  log,
	}
}

// conn returns a live client, dialing if needed. While inside a backoff
// window it fails fast without touching the network.
func (p *Publisher) conn(ctx context.Context) (*redis.Client, error) {
	p.mu.Lock()
	defer p.mu.Unlock()

	if p.client != nil {
		return p.client, nil
	}
	if now := time.Now(); now.Before(p.nextRetry) {
		return nil, fmt.Errorf("redis reconnect backoff until %s", p.nextRetry.Format(time.RFC3339))
	}

	client := redis.NewClient(p.opts)
	pingCtx, cancel := context.WithTimeout(ctx, connectTimeout)
	defer cancel()
	if err := client.Ping(pingCtx).Err(); err != nil {
		client.Close()
		if p.backoff == 0 {
			p.backoff = time.Second
		} else if p.backoff < maxBackoff {
			p.backoff *= 2
		}
		p.nextRetry = time.Now().Add(p.backoff)
		return nil, fmt.Errorf("connect redis at %s: %w", p.opts.Addr, err)
	}

	p.client = client
	p.backoff = 0
	p.nextRetry = time.Time{}
	p.log.WithField("addr", p.opts.Addr).Info("connected to event queue")
	return client, nil
}

// dropConn discards a client that returned an error so the next publish
// redials.
func (p *Publisher) dropConn(client *redis.Client) {
	p.mu.Lock()
	defer p.mu.Unlock()
	if p.client == client {
		p.client.Close()
		p.client = nil
	}
}

func (p *Publisher) publish(ctx context.Context, queue string, v any) error {
	data, err := json.Marshal(v)
	if err != nil {
		return fmt.Errorf("marshal event: %w", err)
	}
	client, err := p.conn(ctx)
	if err != nil {
		return err
	}
	if err := client.RPush(ctx, queue, data).Err(); err != nil {
		p.dropConn(client)
		return fmt.Errorf("rpush to %s: %w", queue, err)
	}
	return nil
}

// PublishLobbyJoin queues a lobby-join event.
func (p *Publisher) PublishLobbyJoin(ctx context.Context, ev models.LobbyJoinEvent) error {
	return p.publish(ctx, LobbyQueue, ev)
}

// PublishFriendRequest queues a friend-request event.
func (p *Publisher) PublishFriendRequest(ctx context.Context, ev models.FriendRequestEvent) error {
	return p.publish(ctx, FriendQueue, ev)
}

// Close releases the connection if one was established.
func (p *Publisher) Close() error {
	p.mu.Lock()
	defer p.mu.Unlock()
	if p.client != nil {
		err := p.client.Close()
		p.client = nil
		return err
	}
	return nil
}
