package daemon

import (
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/bingooyong/sysmetrics-monitor/internal/config"
	"go.uber.org/zap"
)

func TestConfigWatcher_ReloadsOnChange(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "sysmond.yaml")
	writeFile(t, path, `
monitor:
  instance: host-01
`)

	changes := make(chan *config.Config, 1)
	watcher := NewConfigWatcher(path, func(cfg *config.Config) {
		changes <- cfg
	}, zap.NewNop())

	if err := watcher.Start(); err != nil {
		t.Fatalf("failed to start watcher: %v", err)
	}
	defer watcher.Stop()

	// 修改配置文件触发重载
	writeFile(t, path, `
monitor:
  instance: host-01
  sample_interval: 5s
`)

	select {
	case cfg := <-changes:
		if cfg.Monitor.SampleInterval != 5*time.Second {
			t.Errorf("expected sample interval 5s, got %s", cfg.Monitor.SampleInterval)
		}
	case <-time.After(3 * time.Second):
		t.Fatal("timed out waiting for config change")
	}
}

func TestConfigWatcher_RejectsInvalidConfig(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "sysmond.yaml")
	writeFile(t, path, `
monitor:
  instance: host-01
`)

	changes := make(chan *config.Config, 1)
	watcher := NewConfigWatcher(path, func(cfg *config.Config) {
		changes <- cfg
	}, zap.NewNop())

	if err := watcher.Start(); err != nil {
		t.Fatalf("failed to start watcher: %v", err)
	}
	defer watcher.Stop()

	// 写入无效配置，旧配置继续生效，不触发回调
	writeFile(t, path, `
daemon:
  log_level: info
`)

	select {
	case cfg := <-changes:
		t.Fatalf("unexpected config change: %+v", cfg)
	case <-time.After(500 * time.Millisecond):
	}
}

func TestConfigWatcher_IgnoresOtherFiles(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "sysmond.yaml")
	writeFile(t, path, `
monitor:
  instance: host-01
`)

	changes := make(chan *config.Config, 1)
	watcher := NewConfigWatcher(path, func(cfg *config.Config) {
		changes <- cfg
	}, zap.NewNop())

	if err := watcher.Start(); err != nil {
		t.Fatalf("failed to start watcher: %v", err)
	}
	defer watcher.Stop()

	// 同目录下其它文件的变化不触发重载
	writeFile(t, filepath.Join(dir, "other.yaml"), "unrelated: true")

	select {
	case cfg := <-changes:
		t.Fatalf("unexpected config change: %+v", cfg)
	case <-time.After(500 * time.Millisecond):
	}
}

func TestConfigWatcher_StopBeforeStart(t *testing.T) {
	watcher := NewConfigWatcher("/nonexistent/sysmond.yaml", func(*config.Config) {}, zap.NewNop())

	// 未启动就停止，不应panic
	watcher.Stop()
}

// writeFile 写入测试文件
func writeFile(t *testing.T, path, content string) {
	t.Helper()
	if err := os.WriteFile(path, []byte(content), 0644); err != nil {
		t.Fatalf("failed to write %s: %v", path, err)
	}
}
