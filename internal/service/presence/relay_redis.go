package presence

import (
	"context"
	"encoding/json"

	"openbook_server/pkg/errorx"

	"github.com/redis/go-redis/v9"
	"go.uber.org/zap"
)

const relayChannel = "presence:relay"

// RedisRelay broadcasts envelopes over a Redis pub/sub channel that
// every server process subscribes to. Pub/sub is fire-and-forget,
// matching the at-most-once contract of live push.
type RedisRelay struct {
	rdb    *redis.Client
	pubsub *redis.PubSub
	cancel context.CancelFunc
}

func NewRedisRelay(rdb *redis.Client) *RedisRelay {
	return &RedisRelay{rdb: rdb}
}

func (r *RedisRelay) Publish(ctx context.Context, env Envelope) error {
	data, err := json.Marshal(env)
	if err != nil {
		return errorx.Wrap(err, errorx.CodeCacheError, "marshal relay envelope")
	}
	if err := r.rdb.Publish(ctx, relayChannel, data).Err(); err != nil {
		return errorx.Wrap(err, errorx.CodeCacheError, "publish relay envelope")
	}
	return nil
}

func (r *RedisRelay) Subscribe(handler func(Envelope)) {
	ctx, cancel := context.WithCancel(context.Background())
	r.cancel = cancel
	r.pubsub = r.rdb.Subscribe(ctx, relayChannel)

	go func() {
		for msg := range r.pubsub.Channel() {
			var env Envelope
			if err := json.Unmarshal([]byte(msg.Payload), &env); err != nil {
				zap.L().Error("bad relay envelope", zap.Error(err))
				continue
			}
			handler(env)
		}
	}()
}

func (r *RedisRelay) Close() error {
	if r.cancel != nil {
		r.cancel()
	}
	if r.pubsub != nil {
		return r.pubsub.Close()
	}
	return nil
}
