package monitor

import (
	"context"
	"time"

	"github.com/bingooyong/sysmetrics-monitor/internal/emitter"
	"github.com/bingooyong/sysmetrics-monitor/internal/metrics"
	"go.uber.org/zap"
)

// SystemMonitor 系统指标监控器
// 每次采样遍历指标注册表，调用各指标的采集函数并发射每个采样值
type SystemMonitor struct {
	enabled  bool
	interval time.Duration
	registry []metrics.Metric
	emitter  emitter.Emitter
	logger   *zap.Logger
}

// NewSystemMonitor 创建系统指标监控器
func NewSystemMonitor(enabled bool, interval time.Duration, registry []metrics.Metric, em emitter.Emitter, logger *zap.Logger) *SystemMonitor {
	return &SystemMonitor{
		enabled:  enabled,
		interval: interval,
		registry: registry,
		emitter:  em,
		logger:   logger,
	}
}

// Name 返回监控器名称
func (m *SystemMonitor) Name() string {
	return "system_metrics"
}

// Interval 返回采样间隔
func (m *SystemMonitor) Interval() time.Duration {
	return m.interval
}

// Enabled 返回是否启用
func (m *SystemMonitor) Enabled() bool {
	return m.enabled
}

// GatherSample 执行一次采样
// 单个指标采集失败只记录日志并跳过，不影响同一轮中的其余指标
func (m *SystemMonitor) GatherSample(ctx context.Context) error {
	for _, metric := range m.registry {
		if err := ctx.Err(); err != nil {
			return err
		}

		samples, err := metric.Gather(ctx)
		if err != nil {
			m.logger.Warn("failed to gather metric",
				zap.String("metric", metric.Spec.Name),
				zap.Error(err))
			continue
		}

		for _, sample := range samples {
			m.emitter.EmitValue(metric.Spec.Name, sample.Value,
				mergeFields(metric.Spec.ExtraFields, sample.ExtraFields))
		}
	}

	return nil
}

// mergeFields 合并指标静态维度与采样动态维度
// 动态维度覆盖同名的静态维度
func mergeFields(static, dynamic map[string]string) map[string]string {
	if len(dynamic) == 0 {
		return static
	}
	if len(static) == 0 {
		return dynamic
	}

	merged := make(map[string]string, len(static)+len(dynamic))
	for k, v := range static {
		merged[k] = v
	}
	for k, v := range dynamic {
		merged[k] = v
	}
	return merged
}
