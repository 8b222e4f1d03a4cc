package config

import (
	"fmt"
	"net/url"
	"os"
	"time"

	"gopkg.in/yaml.v3"
)

const (
	defaultAddress       = "https://localhost:7256/api"
	defaultMaxPlayers    = 10
	defaultPromptTimeout = 30
	defaultLogLevel      = "info"
)

// Config SDK 与主持人控制台配置
type Config struct {
	Service ServiceConfig `yaml:"service"`
	Room    RoomConfig    `yaml:"room"`
	Redis   RedisConfig   `yaml:"redis"`
	Log     LogConfig     `yaml:"log"`
}

// ServiceConfig Leebox 服务地址
type ServiceConfig struct {
	Address        string `yaml:"address"`
	RequestTimeout int    `yaml:"request_timeout"` // HTTP 客户端超时（秒），0 表示不限制
}

// RoomConfig 房间默认参数
type RoomConfig struct {
	MaxPlayers    int `yaml:"max_players"`
	PromptTimeout int `yaml:"prompt_timeout"` // ask/option/draw 默认超时（秒）
}

// RedisConfig 答案记录使用的 Redis，Addr 为空时不启用
type RedisConfig struct {
	Addr     string `yaml:"addr"`
	Password string `yaml:"password"`
	DB       int    `yaml:"db"`
}

// LogConfig 日志配置
type LogConfig struct {
	Level string `yaml:"level"`
}

// RequestTimeoutDuration 返回 HTTP 客户端超时时长
func (c *ServiceConfig) RequestTimeoutDuration() time.Duration {
	return time.Duration(c.RequestTimeout) * time.Second
}

// JournalEnabled 是否启用答案记录
func (c *RedisConfig) JournalEnabled() bool {
	return c.Addr != ""
}

// Load 加载配置文件
func Load(path string) (*Config, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, err
	}

	var cfg Config
	if err := yaml.Unmarshal(data, &cfg); err != nil {
		return nil, err
	}

	cfg.applyDefaults()
	if err := cfg.Validate(); err != nil {
		return nil, err
	}

	return &cfg, nil
}

// Default 返回默认配置
func Default() *Config {
	return &Config{
		Service: ServiceConfig{
			Address: defaultAddress,
		},
		Room: RoomConfig{
			MaxPlayers:    defaultMaxPlayers,
			PromptTimeout: defaultPromptTimeout,
		},
		Log: LogConfig{
			Level: defaultLogLevel,
		},
	}
}

func (c *Config) applyDefaults() {
	if c.Service.Address == "" {
		c.Service.Address = defaultAddress
	}
	if c.Room.MaxPlayers == 0 {
		c.Room.MaxPlayers = defaultMaxPlayers
	}
	if c.Room.PromptTimeout == 0 {
		c.Room.PromptTimeout = defaultPromptTimeout
	}
	if c.Log.Level == "" {
		c.Log.Level = defaultLogLevel
	}
}

// Validate 校验配置
func (c *Config) Validate() error {
	u, err := url.Parse(c.Service.Address)
	if err != nil {
		return fmt.Errorf("service.address: %w", err)
	}
	if (u.Scheme != "http" && u.Scheme != "https") || u.Host == "" {
		return fmt.Errorf("service.address: %q is not an http(s) url", c.Service.Address)
	}
	if c.Service.RequestTimeout < 0 {
		return fmt.Errorf("service.request_timeout: must not be negative")
	}
	if c.Room.MaxPlayers < 0 {
		return fmt.Errorf("room.max_players: must not be negative")
	}
	if c.Room.PromptTimeout < 0 {
		return fmt.Errorf("room.prompt_timeout: must not be negative")
	}
	if c.Redis.DB < 0 {
		return fmt.Errorf("redis.db: must not be negative")
	}
	return nil
}
