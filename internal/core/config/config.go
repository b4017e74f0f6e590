package config

import (
	"errors"
	"fmt"
	"os"
	"strings"

	"github.com/spf13/viper"
)

type HTTP struct {
	Host            string
	Port            int
	ReadTimeoutSec  int
	WriteTimeoutSec int
	IdleTimeoutSec  int
}

// OpsHTTP 运维端口（/metrics、/ops/v1），Port 为 0 时不启动
type OpsHTTP struct {
	Host string
	Port int
}

type App struct {
	Name     string
	Env      string
	Mode     string // gin 模式：debug / release / test
	BasePath string
	HTTP     HTTP
	Ops      OpsHTTP
}

type Rotate struct {
	Enable     bool
	Filename   string
	MaxSizeMB  int
	MaxBackups int
	MaxAgeDays int
	Compress   bool
}

type Log struct {
	Level  string
	JSON   bool
	Rotate Rotate
}

type Limits struct {
	RPS          float64
	Burst        int
	PerIPRPS     float64 `mapstructure:"per_ip_rps"`
	PerIPBurst   int     `mapstructure:"per_ip_burst"`
	MaxInFlight  int64
	MaxBodyBytes int64
	TimeoutSec   int
}

type SeedUser struct {
	ID   int64  `mapstructure:"id"`
	Name string `mapstructure:"name"`
	Role string `mapstructure:"role"`
}

type Store struct {
	Seed []SeedUser `mapstructure:"seed"`
}

type Config struct {
	App    App
	Log    Log
	Limits Limits
	Store  Store
}

func setDefaults(v *viper.Viper) {
	v.SetDefault("app.name", "user-api")
	v.SetDefault("app.env", "local")
	v.SetDefault("app.mode", "release")
	v.SetDefault("app.basepath", "/")
	v.SetDefault("app.http.host", "0.0.0.0")
	v.SetDefault("app.http.port", 3000)
	v.SetDefault("app.http.readtimeoutsec", 5)
	v.SetDefault("app.http.writetimeoutsec", 10)
	v.SetDefault("app.http.idletimeoutsec", 60)
	v.SetDefault("app.ops.host", "127.0.0.1")
	v.SetDefault("app.ops.port", 0)

	v.SetDefault("log.level", "info")
	v.SetDefault("log.json", false)
	v.SetDefault("log.rotate.enable", false)
	v.SetDefault("log.rotate.filename", "logs/app.log")
	v.SetDefault("log.rotate.maxsizemb", 100)
	v.SetDefault("log.rotate.maxbackups", 7)
	v.SetDefault("log.rotate.maxagedays", 30)
	v.SetDefault("log.rotate.compress", true)

	v.SetDefault("limits.rps", 200)
	v.SetDefault("limits.burst", 400)
	v.SetDefault("limits.per_ip_rps", 0)
	v.SetDefault("limits.per_ip_burst", 0)
	v.SetDefault("limits.maxinflight", 300)
	v.SetDefault("limits.maxbodybytes", 1<<20)
	v.SetDefault("limits.timeoutsec", 10)

	v.SetDefault("store.seed", []map[string]any{
		{"id": 1, "name": "Jane1 Doe", "role": "Admin"},
		{"id": 2, "name": "Jane2 Doe", "role": "Admin"},
		{"id": 3, "name": "Jane3 Doe", "role": "Admin"},
	})
}

// Load 优先级：默认值 < 配置文件 < APP_ 前缀环境变量；文件不存在时只用默认值
func Load(path string) (*Config, error) {
	v := viper.New()
	setDefaults(v)
	if path == "" {
		path = os.Getenv("CONFIG_PATH")
		if path == "" {
			path = "./configs/config.local.yaml"
		}
	}
	v.SetConfigFile(path)
	v.SetConfigType("yaml")
	v.SetEnvPrefix("APP")
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	v.AutomaticEnv()

	if err := v.ReadInConfig(); err != nil && !isNotExist(err) {
		return nil, fmt.Errorf("read config %s: %w", path, err)
	}
	var c Config
	if err := v.Unmarshal(&c); err != nil {
		return nil, fmt.Errorf("unmarshal config: %w", err)
	}
	if err := c.Validate(); err != nil {
		return nil, err
	}
	return &c, nil
}

func isNotExist(err error) bool {
	var nf viper.ConfigFileNotFoundError
	return errors.As(err, &nf) || errors.Is(err, os.ErrNotExist)
}

func (c *Config) Validate() error {
	if c.App.HTTP.Port <= 0 || c.App.HTTP.Port > 65535 {
		return fmt.Errorf("app.http.port out of range: %d", c.App.HTTP.Port)
	}
	if c.App.Ops.Port < 0 || c.App.Ops.Port > 65535 {
		return fmt.Errorf("app.ops.port out of range: %d", c.App.Ops.Port)
	}
	if c.App.Ops.Port != 0 && c.App.Ops.Port == c.App.HTTP.Port && c.App.Ops.Host == c.App.HTTP.Host {
		return errors.New("app.ops must not share the api listener")
	}
	for _, u := range c.Store.Seed {
		if u.ID <= 0 {
			return fmt.Errorf("store.seed: id must be positive, got %d", u.ID)
		}
		if strings.TrimSpace(u.Name) == "" {
			return fmt.Errorf("store.seed: user %d has an empty name", u.ID)
		}
	}
	return nil
}
