package daemon

import (
	"context"
	"fmt"
	"path/filepath"

	"github.com/bingooyong/sysmetrics-monitor/internal/config"
	"github.com/fsnotify/fsnotify"
	"go.uber.org/zap"
)

// ConfigWatcher 配置文件监听器
// 监听配置文件所在目录，文件被写入时重新加载并验证配置，
// 验证通过后通过onChange回调应用；无效配置被拒绝，旧配置继续生效
type ConfigWatcher struct {
	configPath string
	onChange   func(*config.Config)
	logger     *zap.Logger
	watcher    *fsnotify.Watcher
	ctx        context.Context
	cancel     context.CancelFunc
}

// NewConfigWatcher 创建配置文件监听器
func NewConfigWatcher(configPath string, onChange func(*config.Config), logger *zap.Logger) *ConfigWatcher {
	ctx, cancel := context.WithCancel(context.Background())
	return &ConfigWatcher{
		configPath: configPath,
		onChange:   onChange,
		logger:     logger,
		ctx:        ctx,
		cancel:     cancel,
	}
}

// Start 开始监听配置文件变化
func (w *ConfigWatcher) Start() error {
	watcher, err := fsnotify.NewWatcher()
	if err != nil {
		return fmt.Errorf("failed to create file watcher: %w", err)
	}
	w.watcher = watcher

	// 监听目录（而不是文件），因为某些系统的编辑器用rename替换文件
	configDir := filepath.Dir(w.configPath)
	if err := watcher.Add(configDir); err != nil {
		watcher.Close()
		return fmt.Errorf("failed to watch config directory: %w", err)
	}

	w.logger.Info("watching config file", zap.String("config_file", w.configPath))

	go w.handleFileEvents()

	return nil
}

// Stop 停止监听配置文件变化
func (w *ConfigWatcher) Stop() {
	w.cancel()
	if w.watcher != nil {
		if err := w.watcher.Close(); err != nil {
			w.logger.Error("failed to close file watcher", zap.Error(err))
		}
	}
	w.logger.Info("config file watching stopped")
}

// handleFileEvents 处理文件变化事件
func (w *ConfigWatcher) handleFileEvents() {
	for {
		select {
		case <-w.ctx.Done():
			return

		case event, ok := <-w.watcher.Events:
			if !ok {
				return
			}

			// 只处理目标文件的写入和创建事件
			if filepath.Clean(event.Name) != filepath.Clean(w.configPath) {
				continue
			}
			if event.Op&fsnotify.Write == fsnotify.Write || event.Op&fsnotify.Create == fsnotify.Create {
				w.handleConfigChange()
			}

		case err, ok := <-w.watcher.Errors:
			if !ok {
				return
			}
			w.logger.Warn("file watcher error", zap.Error(err))
		}
	}
}

// handleConfigChange 处理配置文件变化
func (w *ConfigWatcher) handleConfigChange() {
	w.logger.Info("config file changed, reloading",
		zap.String("config_file", w.configPath))

	cfg, err := config.Load(w.configPath)
	if err != nil {
		w.logger.Warn("ignoring invalid config change",
			zap.String("config_file", w.configPath),
			zap.Error(err))
		return
	}

	w.onChange(cfg)
}
