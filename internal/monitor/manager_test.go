package monitor

import (
	"context"
	"errors"
	"sync/atomic"
	"testing"
	"time"

	"go.uber.org/zap"
)

// fakeMonitor 测试用监控器
type fakeMonitor struct {
	name     string
	enabled  bool
	interval time.Duration
	samples  atomic.Uint64
	fail     bool
}

func (m *fakeMonitor) Name() string            { return m.name }
func (m *fakeMonitor) Interval() time.Duration { return m.interval }
func (m *fakeMonitor) Enabled() bool           { return m.enabled }

func (m *fakeMonitor) GatherSample(ctx context.Context) error {
	m.samples.Add(1)
	if m.fail {
		return errors.New("sample failed")
	}
	return nil
}

func TestNewManager(t *testing.T) {
	manager := NewManager([]Monitor{
		&fakeMonitor{name: "a", enabled: true, interval: time.Second},
	}, zap.NewNop())
	if manager == nil {
		t.Fatal("expected non-nil manager")
	}
}

func TestManager_Start_Stop(t *testing.T) {
	mon := &fakeMonitor{name: "a", enabled: true, interval: 50 * time.Millisecond}
	manager := NewManager([]Monitor{mon}, zap.NewNop())

	manager.Start()

	// 等待采样循环运行
	time.Sleep(200 * time.Millisecond)

	manager.Stop()

	if mon.samples.Load() == 0 {
		t.Error("expected at least one sample")
	}
}

func TestManager_ImmediateFirstSample(t *testing.T) {
	mon := &fakeMonitor{name: "a", enabled: true, interval: time.Hour}
	manager := NewManager([]Monitor{mon}, zap.NewNop())

	manager.Start()
	defer manager.Stop()

	// 启动后无需等待完整间隔即完成首次采样
	time.Sleep(100 * time.Millisecond)

	if mon.samples.Load() != 1 {
		t.Errorf("expected exactly 1 immediate sample, got %d", mon.samples.Load())
	}
}

func TestManager_DisabledMonitor(t *testing.T) {
	enabled := &fakeMonitor{name: "on", enabled: true, interval: 50 * time.Millisecond}
	disabled := &fakeMonitor{name: "off", enabled: false, interval: 50 * time.Millisecond}

	manager := NewManager([]Monitor{enabled, disabled}, zap.NewNop())
	manager.Start()
	defer manager.Stop()

	time.Sleep(200 * time.Millisecond)

	if disabled.samples.Load() != 0 {
		t.Error("disabled monitor should not be sampled")
	}
	if enabled.samples.Load() == 0 {
		t.Error("enabled monitor should be sampled")
	}
}

func TestManager_GetStatus(t *testing.T) {
	mon := &fakeMonitor{name: "a", enabled: true, interval: 50 * time.Millisecond}
	manager := NewManager([]Monitor{mon}, zap.NewNop())

	manager.Start()
	defer manager.Stop()

	time.Sleep(200 * time.Millisecond)

	status, ok := manager.GetStatusByName("a")
	if !ok {
		t.Fatal("expected status for monitor a")
	}
	if status.SampleCount == 0 {
		t.Error("expected non-zero sample count")
	}
	if status.LastSample.IsZero() {
		t.Error("expected non-zero last sample time")
	}
	if status.ErrorCount != 0 {
		t.Errorf("expected zero error count, got %d", status.ErrorCount)
	}
}

func TestManager_GetStatus_BeforeStart(t *testing.T) {
	manager := NewManager([]Monitor{
		&fakeMonitor{name: "a", enabled: true, interval: time.Second},
	}, zap.NewNop())

	if status := manager.GetStatus(); len(status) != 0 {
		t.Errorf("expected empty status before start, got %v", status)
	}
}

func TestManager_ErrorCount(t *testing.T) {
	mon := &fakeMonitor{name: "a", enabled: true, interval: 50 * time.Millisecond, fail: true}
	manager := NewManager([]Monitor{mon}, zap.NewNop())

	manager.Start()
	defer manager.Stop()

	time.Sleep(200 * time.Millisecond)

	status, ok := manager.GetStatusByName("a")
	if !ok {
		t.Fatal("expected status for monitor a")
	}
	if status.ErrorCount == 0 {
		t.Error("expected non-zero error count")
	}
	if status.ErrorCount != status.SampleCount {
		t.Errorf("expected error count %d to equal sample count %d",
			status.ErrorCount, status.SampleCount)
	}
}

func TestManager_StopBeforeStart(t *testing.T) {
	manager := NewManager([]Monitor{
		&fakeMonitor{name: "a", enabled: true, interval: time.Second},
	}, zap.NewNop())

	// 未启动就停止，不应panic
	manager.Stop()
}

func TestManager_EmptyMonitors(t *testing.T) {
	manager := NewManager(nil, zap.NewNop())
	manager.Start()
	defer manager.Stop()

	if status := manager.GetStatus(); len(status) != 0 {
		t.Error("expected empty status for empty monitors")
	}
}

func TestManager_ConcurrentAccess(t *testing.T) {
	mon := &fakeMonitor{name: "a", enabled: true, interval: 20 * time.Millisecond}
	manager := NewManager([]Monitor{mon}, zap.NewNop())

	manager.Start()
	defer manager.Stop()

	// 并发读取状态
	done := make(chan bool)
	for i := 0; i < 5; i++ {
		go func() {
			for j := 0; j < 10; j++ {
				_ = manager.GetStatus()
				_, _ = manager.GetStatusByName("a")
				time.Sleep(5 * time.Millisecond)
			}
			done <- true
		}()
	}

	for i := 0; i < 5; i++ {
		<-done
	}
}
