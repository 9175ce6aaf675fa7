package config

import (
	"fmt"
	"strings"
	"time"

	"github.com/spf13/viper"
)

// Config 监控daemon配置结构
type Config struct {
	Daemon  DaemonConfig  `mapstructure:"daemon"`
	Monitor MonitorConfig `mapstructure:"monitor"`
}

// DaemonConfig Daemon基础配置
type DaemonConfig struct {
	LogLevel       string          `mapstructure:"log_level"`
	LogFile        string          `mapstructure:"log_file"`
	MetricsLogFile string          `mapstructure:"metrics_log_file"`
	PIDFile        string          `mapstructure:"pid_file"`
	WorkDir        string          `mapstructure:"work_dir"`
	LogRotate      LogRotateConfig `mapstructure:"log_rotate"`
}

// LogRotateConfig 日志轮转配置
type LogRotateConfig struct {
	MaxSize    int  `mapstructure:"max_size"`    // 单个文件最大大小(MB)
	MaxBackups int  `mapstructure:"max_backups"` // 保留的旧日志文件数量
	MaxAge     int  `mapstructure:"max_age"`     // 保留天数
	Compress   bool `mapstructure:"compress"`    // 是否压缩旧日志
}

// MonitorConfig 系统指标监控器配置
type MonitorConfig struct {
	// Instance 实例标识，写入每条指标记录的instance字段，必填
	Instance string `mapstructure:"instance"`

	// SampleInterval 采样间隔
	SampleInterval time.Duration `mapstructure:"sample_interval"`

	CPU       GroupConfig     `mapstructure:"cpu"`
	Uptime    GroupConfig     `mapstructure:"uptime"`
	Memory    GroupConfig     `mapstructure:"memory"`
	Network   NetworkConfig   `mapstructure:"network"`
	DiskIO    GroupConfig     `mapstructure:"disk_io"`
	DiskUsage DiskUsageConfig `mapstructure:"disk_usage"`
}

// GroupConfig 指标组开关配置
type GroupConfig struct {
	Enabled bool `mapstructure:"enabled"`
}

// NetworkConfig 网络指标组配置
type NetworkConfig struct {
	Enabled    bool     `mapstructure:"enabled"`
	Interfaces []string `mapstructure:"interfaces"`
}

// DiskUsageConfig 分区使用率指标组配置
type DiskUsageConfig struct {
	Enabled     bool     `mapstructure:"enabled"`
	MountPoints []string `mapstructure:"mount_points"`
}

// Load 加载配置文件
func Load(configPath string) (*Config, error) {
	v := viper.New()

	v.SetConfigFile(configPath)
	v.SetConfigType("yaml")

	// 指标组默认全部启用，配置中可显式关闭
	v.SetDefault("monitor.cpu.enabled", true)
	v.SetDefault("monitor.uptime.enabled", true)
	v.SetDefault("monitor.memory.enabled", true)
	v.SetDefault("monitor.network.enabled", true)
	v.SetDefault("monitor.disk_io.enabled", true)
	v.SetDefault("monitor.disk_usage.enabled", true)

	// 启用环境变量支持
	v.AutomaticEnv()
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))

	// 绑定特定的环境变量到配置项
	v.BindEnv("monitor.instance", "MONITOR_INSTANCE")
	v.BindEnv("daemon.log_level", "LOG_LEVEL")

	if err := v.ReadInConfig(); err != nil {
		return nil, fmt.Errorf("failed to read config file: %w", err)
	}

	config := &Config{}
	if err := v.Unmarshal(config); err != nil {
		return nil, fmt.Errorf("failed to unmarshal config: %w", err)
	}

	setDefaults(config)

	if err := validate(config); err != nil {
		return nil, fmt.Errorf("config validation failed: %w", err)
	}

	return config, nil
}

// validate 验证配置
func validate(config *Config) error {
	validLogLevels := map[string]bool{
		"debug": true,
		"info":  true,
		"warn":  true,
		"error": true,
	}
	if !validLogLevels[config.Daemon.LogLevel] {
		return fmt.Errorf("invalid log level: %s", config.Daemon.LogLevel)
	}

	if config.Monitor.Instance == "" {
		return fmt.Errorf("monitor.instance is required")
	}

	if config.Monitor.SampleInterval < time.Second {
		return fmt.Errorf("monitor.sample_interval too small: %s (minimum 1s)",
			config.Monitor.SampleInterval)
	}

	return nil
}
