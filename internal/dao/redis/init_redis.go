// Package redis holds the shared Redis client. The presence registry
// uses it as the cross-process session store and (in redis relay mode)
// as the pub/sub relay transport.
package redis

import (
	"context"
	"strconv"

	"openbook_server/internal/config"

	"github.com/redis/go-redis/v9"
	"go.uber.org/zap"
)

var redisClient *redis.Client

// Init creates the client from config and verifies connectivity.
func Init() {
	conf := config.GetConfig()
	addr := conf.RedisConfig.Host + ":" + strconv.Itoa(conf.RedisConfig.Port)

	redisClient = redis.NewClient(&redis.Options{
		Addr:         addr,
		Password:     conf.RedisConfig.Password,
		DB:           conf.RedisConfig.Db,
		PoolSize:     50,
		MinIdleConns: 10,
	})

	if err := redisClient.Ping(context.Background()).Err(); err != nil {
		zap.L().Fatal("redis ping failed", zap.Error(err))
	}
}

// GetClient returns the shared client. Init must have been called.
func GetClient() *redis.Client {
	return redisClient
}
