// Package config loads the application configuration from a TOML file,
// trying a short list of candidate paths so the binary can run from the
// repo root or from cmd/openbook_server.
package config

import (
	"fmt"

	"github.com/BurntSushi/toml"
)

type MainConfig struct {
	AppName  string `toml:"appName"`
	Host     string `toml:"host"`
	Port     int    `toml:"port"`
	PageSize int    `toml:"pageSize"` // results per page for paginated endpoints
}

type MysqlConfig struct {
	Host         string `toml:"host"`
	Port         int    `toml:"port"`
	User         string `toml:"user"`
	Password     string `toml:"password"`
	DatabaseName string `toml:"databaseName"`
}

type RedisConfig struct {
	Host     string `toml:"host"`
	Port     int    `toml:"port"`
	Password string `toml:"password"`
	Db       int    `toml:"db"`
}

type LogConfig struct {
	LogPath    string `toml:"logPath"`
	FileName   string `toml:"fileName"`
	MaxSize    int    `toml:"maxSize"`
	MaxBackups int    `toml:"maxBackups"`
	MaxAge     int    `toml:"maxAge"`
	Level      string `toml:"level"`
}

// PresenceConfig selects the presence registry backing.
// Mode "local" keeps the user->connection map in process memory: a
// degraded configuration that loses delivery across a horizontal
// scale-out. Mode "shared" uses Redis for the session map and either
// Redis pub/sub or Kafka as the cross-process relay.
type PresenceConfig struct {
	Mode  string `toml:"mode"`  // "local" or "shared"
	Relay string `toml:"relay"` // "redis" or "kafka", shared mode only
}

type KafkaConfig struct {
	HostPort   string `toml:"hostPort"`
	RelayTopic string `toml:"relayTopic"`
	Timeout    int    `toml:"timeout"` // seconds
}

type JWTConfig struct {
	Secret            string `toml:"secret"`
	AccessTokenExpiry int    `toml:"accessTokenExpiry"` // minutes
}

type SnowflakeConfig struct {
	MachineID int64 `toml:"machineId"`
}

type StaticSrcConfig struct {
	StaticFilePath string `toml:"staticFilePath"` // content-addressed file store directory
}

type Config struct {
	MainConfig      `toml:"mainConfig"`
	MysqlConfig     `toml:"mysqlConfig"`
	RedisConfig     `toml:"redisConfig"`
	LogConfig       `toml:"logConfig"`
	PresenceConfig  `toml:"presenceConfig"`
	KafkaConfig     `toml:"kafkaConfig"`
	JWTConfig       `toml:"jwtConfig"`
	SnowflakeConfig `toml:"snowflakeConfig"`
	StaticSrcConfig `toml:"staticSrcConfig"`
}

var config *Config

// LoadConfig tries each candidate path and stops at the first one that
// parses.
func LoadConfig() error {
	paths := []string{
		"configs/config_local.toml",
		"configs/config.toml",
		"../../configs/config_local.toml",
		"../../configs/config.toml",
	}
	for _, path := range paths {
		if _, err := toml.DecodeFile(path, config); err == nil {
			applyDefaults(config)
			return nil
		}
	}
	return fmt.Errorf("could not find configuration file in any of the search paths")
}

func applyDefaults(c *Config) {
	if c.MainConfig.PageSize <= 0 {
		c.MainConfig.PageSize = 10
	}
	if c.PresenceConfig.Mode == "" {
		c.PresenceConfig.Mode = "local"
	}
	if c.PresenceConfig.Relay == "" {
		c.PresenceConfig.Relay = "redis"
	}
}

// GetConfig returns the configuration singleton, loading it on first use.
func GetConfig() *Config {
	if config == nil {
		config = new(Config)
		_ = LoadConfig()
		applyDefaults(config)
	}
	return config
}
