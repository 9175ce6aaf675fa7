package main

import (
	"flag"
	"fmt"
	"os"

	"github.com/bingooyong/sysmetrics-monitor/internal/config"
	"github.com/bingooyong/sysmetrics-monitor/internal/daemon"
	"github.com/bingooyong/sysmetrics-monitor/internal/logger"
	"go.uber.org/zap"
)

var (
	configFile = flag.String("config", "/etc/sysmond/sysmond.yaml", "path to config file")
	version    = flag.Bool("version", false, "print version and exit")
)

func main() {
	flag.Parse()

	// 打印版本
	if *version {
		fmt.Println("sysmond v1.0.0")
		os.Exit(0)
	}

	// 加载配置
	cfg, err := config.Load(*configFile)
	if err != nil {
		fmt.Fprintf(os.Stderr, "Failed to load config: %v\n", err)
		os.Exit(1)
	}

	// 初始化日志
	logCfg := &logger.Config{
		Level:      cfg.Daemon.LogLevel,
		FilePath:   cfg.Daemon.LogFile,
		MaxSize:    cfg.Daemon.LogRotate.MaxSize,
		MaxBackups: cfg.Daemon.LogRotate.MaxBackups,
		MaxAge:     cfg.Daemon.LogRotate.MaxAge,
		Compress:   cfg.Daemon.LogRotate.Compress,
	}
	if err := logger.Init(logCfg); err != nil {
		fmt.Fprintf(os.Stderr, "Failed to initialize logger: %v\n", err)
		os.Exit(1)
	}
	defer func() {
		_ = logger.Sync() // 忽略日志同步错误，程序退出时无法处理
	}()

	logger.Info("starting sysmond",
		zap.String("instance", cfg.Monitor.Instance))

	// 创建并启动Daemon
	d := daemon.New(*configFile, cfg, logger.Logger)
	if err := d.Start(); err != nil {
		fmt.Fprintf(os.Stderr, "failed to start daemon: %v\n", err)
		logger.Error("failed to start daemon", zap.Error(err))
		os.Exit(1)
	}

	// 等待退出信号
	d.WaitForSignal()

	logger.Info("sysmond exited")
}
