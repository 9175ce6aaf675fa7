package monitor

import (
	"context"
	"errors"
	"sync"
	"time"

	"github.com/bingooyong/sysmetrics-monitor/pkg/types"
	"go.uber.org/zap"
)

// Manager 监控器管理器
// 为每个启用的监控器运行一个独立的采样循环
type Manager struct {
	monitors []Monitor
	status   map[string]*types.MonitorStatus
	mu       sync.RWMutex
	logger   *zap.Logger
	ctx      context.Context
	cancel   context.CancelFunc
	wg       sync.WaitGroup
}

// NewManager 创建监控器管理器
func NewManager(monitors []Monitor, logger *zap.Logger) *Manager {
	ctx, cancel := context.WithCancel(context.Background())
	return &Manager{
		monitors: monitors,
		status:   make(map[string]*types.MonitorStatus),
		logger:   logger,
		ctx:      ctx,
		cancel:   cancel,
	}
}

// Start 启动所有监控器
func (m *Manager) Start() {
	m.logger.Info("starting monitor manager")

	for _, mon := range m.monitors {
		if !mon.Enabled() {
			m.logger.Info("monitor disabled, skipping",
				zap.String("monitor", mon.Name()))
			continue
		}

		m.wg.Add(1)
		go m.runMonitor(mon)

		m.logger.Info("monitor started",
			zap.String("monitor", mon.Name()),
			zap.Duration("interval", mon.Interval()))
	}
}

// Stop 停止所有监控器
func (m *Manager) Stop() {
	m.logger.Info("stopping monitor manager")
	m.cancel()
	m.wg.Wait()
	m.logger.Info("monitor manager stopped")
}

// runMonitor 运行单个监控器的采样循环
func (m *Manager) runMonitor(mon Monitor) {
	defer m.wg.Done()

	ticker := time.NewTicker(mon.Interval())
	defer ticker.Stop()

	// 启动后立即采样一次
	m.sample(mon)

	for {
		select {
		case <-m.ctx.Done():
			return
		case <-ticker.C:
			m.sample(mon)
		}
	}
}

// sample 执行一次采样并更新状态
func (m *Manager) sample(mon Monitor) {
	start := time.Now()

	err := mon.GatherSample(m.ctx)
	if errors.Is(err, context.Canceled) {
		// 停止过程中被打断的采样不计入错误
		return
	}

	m.mu.Lock()
	status, ok := m.status[mon.Name()]
	if !ok {
		status = &types.MonitorStatus{Name: mon.Name()}
		m.status[mon.Name()] = status
	}
	status.LastSample = start
	status.SampleCount++
	if err != nil {
		status.ErrorCount++
	}
	m.mu.Unlock()

	if err != nil {
		m.logger.Error("failed to gather sample",
			zap.String("monitor", mon.Name()),
			zap.Error(err))
		return
	}

	m.logger.Debug("sample gathered",
		zap.String("monitor", mon.Name()),
		zap.Duration("duration", time.Since(start)))
}

// GetStatus 获取所有监控器的运行状态快照
func (m *Manager) GetStatus() map[string]types.MonitorStatus {
	m.mu.RLock()
	defer m.mu.RUnlock()

	result := make(map[string]types.MonitorStatus, len(m.status))
	for name, status := range m.status {
		result[name] = *status
	}
	return result
}

// GetStatusByName 获取指定监控器的运行状态
func (m *Manager) GetStatusByName(name string) (types.MonitorStatus, bool) {
	m.mu.RLock()
	defer m.mu.RUnlock()

	status, ok := m.status[name]
	if !ok {
		return types.MonitorStatus{}, false
	}
	return *status, true
}
