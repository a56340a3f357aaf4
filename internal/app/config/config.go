package config

import (
	"fmt"
	"time"

	"github.com/spf13/viper"
)

// Config 应用配置
type Config struct {
	App    AppConfig    `mapstructure:"app"`
	Server ServerConfig `mapstructure:"server"`
	Store  StoreConfig  `mapstructure:"store"`
	Redis  RedisConfig  `mapstructure:"redis"`
	Upload UploadConfig `mapstructure:"upload"`
	Report ReportConfig `mapstructure:"report"`
}

// AppConfig 应用配置
type AppConfig struct {
	Name     string `mapstructure:"name"`
	Env      string `mapstructure:"env"`
	LogLevel string `mapstructure:"log_level"`
}

// ServerConfig HTTP 服务配置
type ServerConfig struct {
	Port string `mapstructure:"port"`
}

// StoreConfig 存储配置
// driver 可选 memory / redis，分析结果只做带 TTL 的缓存，不做持久化
type StoreConfig struct {
	Driver           string        `mapstructure:"driver"`
	EvictionInterval time.Duration `mapstructure:"eviction_interval"`
}

// RedisConfig Redis 配置（store.driver = redis 时生效）
type RedisConfig struct {
	Addr     string `mapstructure:"addr"`
	Password string `mapstructure:"password"`
	DB       int    `mapstructure:"db"`
}

// UploadConfig 上传配置
type UploadConfig struct {
	MaxFileBytes   int64 `mapstructure:"max_file_bytes"`
	MaxRows        int   `mapstructure:"max_rows"`
	RetentionHours int   `mapstructure:"retention_hours"`
}

// ReportConfig 报告配置
type ReportConfig struct {
	RetentionDays int `mapstructure:"retention_days"`
}

// Load 从配置文件加载配置
func Load(configPath string) (*Config, error) {
	viper.SetConfigFile(configPath)
	viper.SetConfigType("yaml")

	if err := viper.ReadInConfig(); err != nil {
		return nil, fmt.Errorf("read config failed: %w", err)
	}

	var cfg Config
	if err := viper.Unmarshal(&cfg); err != nil {
		return nil, fmt.Errorf("unmarshal config failed: %w", err)
	}

	cfg.applyDefaults()

	return &cfg, nil
}

// LoadDefault 加载默认配置文件路径
func LoadDefault() (*Config, error) {
	return Load("config/config.yaml")
}

// applyDefaults 对空字段填充默认值
func (c *Config) applyDefaults() {
	if c.Server.Port == "" {
		c.Server.Port = "8080"
	}
	if c.Store.Driver == "" {
		c.Store.Driver = "memory"
	}
	if c.Store.EvictionInterval <= 0 {
		c.Store.EvictionInterval = 10 * time.Minute
	}
	if c.Upload.MaxFileBytes <= 0 {
		c.Upload.MaxFileBytes = 5 * 1024 * 1024
	}
	if c.Upload.MaxRows <= 0 {
		c.Upload.MaxRows = 200
	}
	if c.Upload.RetentionHours <= 0 {
		c.Upload.RetentionHours = 24
	}
	if c.Report.RetentionDays <= 0 {
		c.Report.RetentionDays = 7
	}
}

// Validate 验证配置完整性
func (c *Config) Validate() error {
	if c.App.Name == "" {
		return fmt.Errorf("app.name is required")
	}
	if c.Store.Driver != "memory" && c.Store.Driver != "redis" {
		return fmt.Errorf("store.driver must be memory or redis, got %q", c.Store.Driver)
	}
	if c.Store.Driver == "redis" && c.Redis.Addr == "" {
		return fmt.Errorf("redis.addr is required when store.driver is redis")
	}
	return nil
}

// UploadRetention 上传数据保留时长
func (c *Config) UploadRetention() time.Duration {
	return time.Duration(c.Upload.RetentionHours) * time.Hour
}
