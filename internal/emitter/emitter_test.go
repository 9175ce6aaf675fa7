package emitter

import (
	"os"
	"path/filepath"
	"testing"

	"go.uber.org/zap/zapcore"
	"go.uber.org/zap/zaptest/observer"
)

func TestLogEmitter_EmitValue(t *testing.T) {
	core, logs := observer.New(zapcore.InfoLevel)
	em := NewWithCore(core, "system_metrics", "host-01")

	em.EmitValue("sys.cpu", 123.5, map[string]string{"type": "user"})

	entries := logs.All()
	if len(entries) != 1 {
		t.Fatalf("expected 1 record, got %d", len(entries))
	}

	fields := entries[0].ContextMap()
	if fields["monitor"] != "system_metrics" {
		t.Errorf("expected monitor system_metrics, got %v", fields["monitor"])
	}
	if fields["instance"] != "host-01" {
		t.Errorf("expected instance host-01, got %v", fields["instance"])
	}
	if fields["metric"] != "sys.cpu" {
		t.Errorf("expected metric sys.cpu, got %v", fields["metric"])
	}
	if fields["value"] != 123.5 {
		t.Errorf("expected value 123.5, got %v", fields["value"])
	}
	if fields["type"] != "user" {
		t.Errorf("expected type user, got %v", fields["type"])
	}
}

func TestLogEmitter_EmitValue_NoExtraFields(t *testing.T) {
	core, logs := observer.New(zapcore.InfoLevel)
	em := NewWithCore(core, "system_metrics", "host-01")

	em.EmitValue("sys.uptime", int64(3600), nil)

	entries := logs.All()
	if len(entries) != 1 {
		t.Fatalf("expected 1 record, got %d", len(entries))
	}

	fields := entries[0].ContextMap()
	if len(fields) != 4 {
		t.Errorf("expected 4 fields, got %d: %v", len(fields), fields)
	}
	if fields["value"] != int64(3600) {
		t.Errorf("expected value 3600, got %v", fields["value"])
	}
}

func TestLogEmitter_MultipleValues(t *testing.T) {
	core, logs := observer.New(zapcore.InfoLevel)
	em := NewWithCore(core, "system_metrics", "host-01")

	em.EmitValue("disk.usage", 42.5, map[string]string{"mount": "/"})
	em.EmitValue("disk.usage", 80.0, map[string]string{"mount": "/data"})

	entries := logs.All()
	if len(entries) != 2 {
		t.Fatalf("expected 2 records, got %d", len(entries))
	}
	if entries[0].ContextMap()["mount"] != "/" {
		t.Errorf("expected first mount /, got %v", entries[0].ContextMap()["mount"])
	}
	if entries[1].ContextMap()["mount"] != "/data" {
		t.Errorf("expected second mount /data, got %v", entries[1].ContextMap()["mount"])
	}
}

func TestNew_CreatesLogDirectory(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "logs", "metrics.log")

	em, err := New(&Config{FilePath: path, MaxSize: 1}, "system_metrics", "host-01")
	if err != nil {
		t.Fatalf("new emitter failed: %v", err)
	}

	em.EmitValue("sys.uptime", int64(1), nil)
	if err := em.Sync(); err != nil {
		t.Fatalf("sync failed: %v", err)
	}
}

func TestLogEmitter_Close(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "metrics.log")

	em, err := New(&Config{FilePath: path, MaxSize: 1}, "system_metrics", "host-01")
	if err != nil {
		t.Fatalf("new emitter failed: %v", err)
	}

	em.EmitValue("sys.uptime", int64(1), nil)
	if err := em.Close(); err != nil {
		t.Fatalf("close failed: %v", err)
	}

	// 关闭后文件句柄已释放，日志文件可以删除
	if err := os.Remove(path); err != nil {
		t.Fatalf("remove after close failed: %v", err)
	}
}

func TestNew_RequiresFilePath(t *testing.T) {
	if _, err := New(&Config{}, "system_metrics", "host-01"); err == nil {
		t.Fatal("expected error for empty file path")
	}
}
