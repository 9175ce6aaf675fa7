package monitor

import (
	"context"
	"time"
)

// Monitor 监控器接口
// 由宿主调度器按固定间隔调用GatherSample完成一次采样
type Monitor interface {
	// Name 返回监控器名称
	Name() string

	// GatherSample 执行一次采样，将采样值发射到日志
	GatherSample(ctx context.Context) error

	// Interval 返回采样间隔
	Interval() time.Duration

	// Enabled 返回是否启用
	Enabled() bool
}
