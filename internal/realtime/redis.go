package realtime

import (
	"context"
	"encoding/json"
	"log"
	"strconv"
	"strings"

	"github.com/redis/go-redis/v9"
)

// RedisPublisher fans events out through Redis pub/sub so delivery works
// across server instances. PUBLISH to a channel nobody subscribes to is a
// no-op, matching the fire-and-forget contract.
type RedisPublisher struct {
	rdb *redis.Client
}

func NewRedisPublisher(rdb *redis.Client) *RedisPublisher {
	return &RedisPublisher{rdb: rdb}
}

func (p *RedisPublisher) Publish(topic string, event Event) error {
	event.Topic = topic
	data, err := json.Marshal(event)
	if err != nil {
		return err
	}
	return p.rdb.Publish(context.Background(), topic, data).Err()
}

// Sink receives raw event frames pulled off the broker, keyed by the topic
// owner. The websocket hub implements this.
type Sink interface {
	DeliverToUser(userID uint, data []byte)
	DeliverToMatch(matchID uint, data []byte)
}

// RunBridge subscribes to every match- and user-scoped channel and forwards
// frames into the local sink. Runs until ctx is cancelled; delivery is
// best-effort with no acknowledgment, clients reconcile via the synchronous
// queries on reconnect.
func RunBridge(ctx context.Context, rdb *redis.Client, sink Sink) {
	sub := rdb.PSubscribe(ctx, "match-*", "user-*")
	defer sub.Close()
	ch := sub.Channel()
	for {
		select {
		case <-ctx.Done():
			return
		case msg, ok := <-ch:
			if !ok {
				return
			}
			dispatch(sink, msg.Channel, []byte(msg.Payload))
		}
	}
}

func dispatch(sink Sink, channel string, payload []byte) {
	switch {
	case strings.HasPrefix(channel, "user-"):
		id, err := strconv.ParseUint(strings.TrimPrefix(channel, "user-"), 10, 64)
		if err != nil {
			log.Printf("[realtime] bad user channel %q", channel)
			return
		}
		sink.DeliverToUser(uint(id), payload)
	case strings.HasPrefix(channel, "match-"):
		id, err := strconv.ParseUint(strings.TrimPrefix(channel, "match-"), 10, 64)
		if err != nil {
			log.Printf("[realtime] bad match channel %q", channel)
			return
		}
		sink.DeliverToMatch(uint(id), payload)
	}
}
