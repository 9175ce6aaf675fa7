package daemon

import (
	"fmt"
	"os"
	"path/filepath"
	"sync"

	"github.com/bingooyong/sysmetrics-monitor/internal/config"
	"github.com/bingooyong/sysmetrics-monitor/internal/emitter"
	"github.com/bingooyong/sysmetrics-monitor/internal/metrics"
	"github.com/bingooyong/sysmetrics-monitor/internal/monitor"
	"github.com/bingooyong/sysmetrics-monitor/pkg/types"
	"go.uber.org/zap"
)

// Daemon 监控守护进程
// 持有监控器管理器和配置监听器，负责组件的启动顺序与优雅退出
type Daemon struct {
	configPath string
	config     *config.Config
	logger     *zap.Logger
	state      *types.NodeState
	emitter    *emitter.LogEmitter
	manager    *monitor.Manager
	watcher    *ConfigWatcher

	// mu 保护config/manager/emitter在热重载时的替换
	mu      sync.Mutex
	stopped bool
}

// New 创建Daemon实例
func New(configPath string, cfg *config.Config, logger *zap.Logger) *Daemon {
	return &Daemon{
		configPath: configPath,
		config:     cfg,
		logger:     logger,
	}
}

// Start 启动Daemon
func (d *Daemon) Start() error {
	d.mu.Lock()
	defer d.mu.Unlock()

	d.stopped = false

	// 1. 创建工作目录
	if err := os.MkdirAll(d.config.Daemon.WorkDir, 0755); err != nil {
		return fmt.Errorf("failed to create work directory: %w", err)
	}

	// 2. 加载或创建节点状态
	state, err := LoadOrCreateState(filepath.Join(d.config.Daemon.WorkDir, "node.yaml"))
	if err != nil {
		return fmt.Errorf("failed to load node state: %w", err)
	}
	d.state = state
	d.logger.Info("node identity loaded",
		zap.String("node_id", state.NodeID),
		zap.String("hostname", state.Hostname))

	// 3. 写入PID文件
	if err := d.writePIDFile(); err != nil {
		return fmt.Errorf("failed to write PID file: %w", err)
	}

	// 4. 创建发射器和监控器并启动管理器
	if err := d.startManager(d.config); err != nil {
		return err
	}

	// 5. 启动配置文件监听
	d.watcher = NewConfigWatcher(d.configPath, d.applyConfig, d.logger)
	if err := d.watcher.Start(); err != nil {
		d.logger.Error("failed to start config watcher", zap.Error(err))
		// 热重载不可用不影响运行
	}

	d.logger.Info("daemon started successfully")

	return nil
}

// Stop 停止Daemon
func (d *Daemon) Stop() {
	d.mu.Lock()
	defer d.mu.Unlock()

	d.logger.Info("stopping daemon")
	d.stopped = true

	if d.watcher != nil {
		d.watcher.Stop()
	}

	d.stopManager()

	os.Remove(d.config.Daemon.PIDFile)

	d.logger.Info("daemon stopped")
}

// Reload 从磁盘重新加载配置并应用
func (d *Daemon) Reload() {
	cfg, err := config.Load(d.configPath)
	if err != nil {
		d.logger.Warn("reload rejected, keeping current config", zap.Error(err))
		return
	}
	d.applyConfig(cfg)
}

// applyConfig 应用新配置
// 以新配置重建发射器与监控器并重启管理器，失败时保持旧配置运行
func (d *Daemon) applyConfig(cfg *config.Config) {
	d.mu.Lock()
	defer d.mu.Unlock()

	// Stop期间排队的重载回调可能在停止后才拿到锁，此时不能再重建管理器
	if d.stopped {
		d.logger.Info("daemon stopped, ignoring config reload")
		return
	}

	d.logger.Info("applying new config",
		zap.String("instance", cfg.Monitor.Instance),
		zap.Duration("sample_interval", cfg.Monitor.SampleInterval))

	d.stopManager()

	if err := d.startManager(cfg); err != nil {
		d.logger.Error("failed to apply new config, restoring previous", zap.Error(err))
		if err := d.startManager(d.config); err != nil {
			d.logger.Error("failed to restore previous config", zap.Error(err))
		}
		return
	}

	d.config = cfg
}

// startManager 根据配置创建发射器、监控器并启动管理器
// 调用方必须持有d.mu
func (d *Daemon) startManager(cfg *config.Config) error {
	em, err := emitter.New(&emitter.Config{
		FilePath:   cfg.Daemon.MetricsLogFile,
		MaxSize:    cfg.Daemon.LogRotate.MaxSize,
		MaxBackups: cfg.Daemon.LogRotate.MaxBackups,
		MaxAge:     cfg.Daemon.LogRotate.MaxAge,
		Compress:   cfg.Daemon.LogRotate.Compress,
	}, "system_metrics", cfg.Monitor.Instance)
	if err != nil {
		return fmt.Errorf("failed to create emitter: %w", err)
	}

	registry := metrics.BuildRegistry(metrics.NewSystemProvider(), registryOptions(cfg))
	systemMonitor := monitor.NewSystemMonitor(
		true, cfg.Monitor.SampleInterval, registry, em, d.logger)

	d.emitter = em
	d.manager = monitor.NewManager([]monitor.Monitor{systemMonitor}, d.logger)
	d.manager.Start()

	return nil
}

// stopManager 停止管理器并刷新发射器缓冲
// 调用方必须持有d.mu
func (d *Daemon) stopManager() {
	if d.manager != nil {
		d.manager.Stop()
		d.manager = nil
	}
	if d.emitter != nil {
		_ = d.emitter.Close() // 退出路径上无法处理刷新失败
		d.emitter = nil
	}
}

// Status 返回监控器运行状态快照
func (d *Daemon) Status() map[string]types.MonitorStatus {
	d.mu.Lock()
	defer d.mu.Unlock()

	if d.manager == nil {
		return nil
	}
	return d.manager.GetStatus()
}

// writePIDFile 写入PID文件
func (d *Daemon) writePIDFile() error {
	pid := os.Getpid()
	return os.WriteFile(d.config.Daemon.PIDFile, []byte(fmt.Sprintf("%d", pid)), 0644)
}

// registryOptions 将监控器配置转换为注册表构建选项
func registryOptions(cfg *config.Config) metrics.Options {
	return metrics.Options{
		CPU:         cfg.Monitor.CPU.Enabled,
		Uptime:      cfg.Monitor.Uptime.Enabled,
		Memory:      cfg.Monitor.Memory.Enabled,
		Network:     cfg.Monitor.Network.Enabled,
		DiskIO:      cfg.Monitor.DiskIO.Enabled,
		DiskUsage:   cfg.Monitor.DiskUsage.Enabled,
		Interfaces:  cfg.Monitor.Network.Interfaces,
		MountPoints: cfg.Monitor.DiskUsage.MountPoints,
	}
}
