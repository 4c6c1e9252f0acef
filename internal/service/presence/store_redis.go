package presence

import (
	"context"
	"errors"

	"openbook_server/pkg/errorx"

	"github.com/redis/go-redis/v9"
)

const sessionKeyPrefix = "presence:session:"

// clearIfScript deletes the session key only while it still holds the
// given connection id. Runs atomically on the Redis server.
var clearIfScript = redis.NewScript(`
if redis.call("GET", KEYS[1]) == ARGV[1] then
	return redis.call("DEL", KEYS[1])
end
return 0
`)

// RedisSessionStore implements SessionStore on a shared Redis
// instance, making registrations visible to every server process.
type RedisSessionStore struct {
	rdb *redis.Client
}

func NewRedisSessionStore(rdb *redis.Client) *RedisSessionStore {
	return &RedisSessionStore{rdb: rdb}
}

// Put overwrites unconditionally: last connection wins.
func (s *RedisSessionStore) Put(ctx context.Context, userId, connId string) error {
	if err := s.rdb.Set(ctx, sessionKeyPrefix+userId, connId, 0).Err(); err != nil {
		return errorx.Wrapf(err, errorx.CodeCacheError, "presence put %s", userId)
	}
	return nil
}

func (s *RedisSessionStore) Get(ctx context.Context, userId string) (string, error) {
	connId, err := s.rdb.Get(ctx, sessionKeyPrefix+userId).Result()
	if err != nil {
		if errors.Is(err, redis.Nil) {
			return "", nil
		}
		return "", errorx.Wrapf(err, errorx.CodeCacheError, "presence get %s", userId)
	}
	return connId, nil
}

func (s *RedisSessionStore) ClearIf(ctx context.Context, userId, connId string) error {
	err := clearIfScript.Run(ctx, s.rdb, []string{sessionKeyPrefix + userId}, connId).Err()
	if err != nil && !errors.Is(err, redis.Nil) {
		return errorx.Wrapf(err, errorx.CodeCacheError, "presence clear %s", userId)
	}
	return nil
}
