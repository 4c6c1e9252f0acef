package main

import (
	"os"
	"os/signal"
	"syscall"
	"time"

	"openbook_server/internal/config"
	"openbook_server/internal/dao/mysql"
	"openbook_server/internal/dao/redis"
	"openbook_server/internal/handler"
	"openbook_server/internal/http_server"
	"openbook_server/internal/infrastructure/filestore"
	"openbook_server/internal/infrastructure/logger"
	"openbook_server/internal/service"
	"openbook_server/internal/service/notify"
	"openbook_server/internal/service/presence"
	"openbook_server/pkg/util/jwt"
	"openbook_server/pkg/util/snowflake"

	"go.uber.org/zap"
)

func main() {
	cfg := config.GetConfig()

	if err := logger.Init(&cfg.LogConfig, "release"); err != nil {
		panic(err)
	}
	defer func() { _ = zap.L().Sync() }()

	jwt.Init(cfg.JWTConfig.Secret, cfg.JWTConfig.AccessTokenExpiry)
	snowflake.Init(cfg.SnowflakeConfig.MachineID)
	if err := handler.InitValidator(); err != nil {
		zap.L().Fatal("init validator failed", zap.Error(err))
	}

	repos := mysql.Init()

	files, err := filestore.NewDiskStore(cfg.StaticSrcConfig.StaticFilePath)
	if err != nil {
		zap.L().Fatal("init file store failed", zap.Error(err))
	}
	handler.SetFileStore(files)

	conns := presence.NewConnTable()
	registry := buildRegistry(cfg, conns)
	defer func() { _ = registry.Close() }()
	handler.SetPresence(registry, conns)

	pool := notify.NewTaskPool(8, 512)
	defer pool.Close()
	dispatcher := notify.NewDispatcher(repos.Notification, registry, pool)
	service.InitServices(repos, dispatcher, files)

	srv := http_server.New(cfg)
	go func() {
		zap.L().Info("server starting",
			zap.String("host", cfg.MainConfig.Host),
			zap.Int("port", cfg.MainConfig.Port),
			zap.String("presenceMode", cfg.PresenceConfig.Mode),
		)
		if err := srv.Run(); err != nil {
			zap.L().Fatal("server failed", zap.Error(err))
		}
	}()

	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit

	zap.L().Info("shutting down")
	if err := srv.Shutdown(5 * time.Second); err != nil {
		zap.L().Error("shutdown failed", zap.Error(err))
	}
}

// buildRegistry selects the presence backing from configuration.
// "local" serves a single process; "shared" keeps sessions in Redis
// and relays events over Redis pub/sub or Kafka so any process can
// reach any socket.
func buildRegistry(cfg *config.Config, conns *presence.ConnTable) presence.Registry {
	if cfg.PresenceConfig.Mode != "shared" {
		return presence.NewLocalRegistry(conns)
	}

	redis.Init()
	store := presence.NewRedisSessionStore(redis.GetClient())

	var relay presence.Relay
	if cfg.PresenceConfig.Relay == "kafka" {
		relay = presence.NewKafkaRelay(&cfg.KafkaConfig)
	} else {
		relay = presence.NewRedisRelay(redis.GetClient())
	}

	registry := presence.NewSharedRegistry(store, relay, conns)
	registry.Start()
	return registry
}
