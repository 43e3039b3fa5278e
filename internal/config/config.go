package config

import (
	"fmt"
	"os"
	"path/filepath"
	"time"

	"github.com/spf13/viper"
)

type Config struct {
	Server    ServerConfig
	Database  DatabaseConfig
	Sync      SyncConfig      `mapstructure:"sync"`
	Quiz      QuizConfig      `mapstructure:"quiz"`
	CORS      CORSConfig      `mapstructure:"cors"`
	RateLimit RateLimitConfig `mapstructure:"rate_limit"`

	// 运行时标志（非配置文件，通过命令行参数设置）
	MigrateOnly bool `mapstructure:"-"` // 仅迁移模式（迁移后退出）
	SeedContent bool `mapstructure:"-"` // 启动时执行本地内容种子
}

type ServerConfig struct {
	Port string
	Mode string
}

type DatabaseConfig struct {
	Path          string `mapstructure:"path"`
	BusyTimeoutMS int    `mapstructure:"busy_timeout_ms"`
}

type SyncConfig struct {
	BaseURL         string        `mapstructure:"base_url"`
	BatchSize       int           `mapstructure:"batch_size"`
	Interval        time.Duration `mapstructure:"interval_seconds"`
	RequestTimeout  time.Duration `mapstructure:"timeout_seconds"`
	TokenPath       string        `mapstructure:"token_path"`
	DisablePeriodic bool          `mapstructure:"disable_periodic"`
}

type QuizConfig struct {
	PassScore   int `mapstructure:"pass_score"`
	SessionSize int `mapstructure:"session_size"`
}

type CORSConfig struct {
	AllowedOrigins []string `mapstructure:"allowed_origins"`
}

type RateLimitConfig struct {
	MaxRequests   int `mapstructure:"max_requests"`
	WindowMinutes int `mapstructure:"window_minutes"`
}

func LoadConfig(path string) (*Config, error) {
	viper.AddConfigPath(path)
	viper.SetConfigName("config")
	viper.SetConfigType("yaml")

	viper.SetEnvPrefix("KIDQUIZ")
	viper.AutomaticEnv()

	// Database
	viper.BindEnv("database.path", "KIDQUIZ_DB_PATH")

	// Sync
	viper.BindEnv("sync.base_url", "KIDQUIZ_SYNC_BASE_URL")
	viper.BindEnv("sync.batch_size", "KIDQUIZ_SYNC_BATCH_SIZE")
	viper.BindEnv("sync.token_path", "KIDQUIZ_TOKEN_PATH")

	// Server
	viper.BindEnv("server.mode", "KIDQUIZ_SERVER_MODE")
	viper.BindEnv("server.port", "KIDQUIZ_SERVER_PORT")

	viper.SetDefault("database.busy_timeout_ms", 5000)
	viper.SetDefault("sync.batch_size", 200)
	viper.SetDefault("sync.interval_seconds", 300)
	viper.SetDefault("sync.timeout_seconds", 15)
	viper.SetDefault("quiz.pass_score", 8)
	viper.SetDefault("quiz.session_size", 10)
	viper.SetDefault("rate_limit.max_requests", 1000)
	viper.SetDefault("rate_limit.window_minutes", 1)

	if err := viper.ReadInConfig(); err != nil {
		return nil, err
	}

	var cfg Config
	if err := viper.Unmarshal(&cfg); err != nil {
		return nil, err
	}

	cfg.Sync.Interval = cfg.Sync.Interval * time.Second
	cfg.Sync.RequestTimeout = cfg.Sync.RequestTimeout * time.Second

	if cfg.Database.Path == "" {
		return nil, fmt.Errorf("database.path is required")
	}

	// 数据目录不存在时先建好，sqlite 不会自己创建目录
	dataDir := filepath.Dir(cfg.Database.Path)
	if _, err := os.Stat(dataDir); os.IsNotExist(err) {
		os.MkdirAll(dataDir, 0755)
	}

	if cfg.Sync.TokenPath == "" {
		cfg.Sync.TokenPath = filepath.Join(dataDir, "auth_token")
	}

	return &cfg, nil
}
