package metrics

import (
	"time"

	"github.com/shirou/gopsutil/v3/cpu"
	"github.com/shirou/gopsutil/v3/disk"
	"github.com/shirou/gopsutil/v3/mem"
	psnet "github.com/shirou/gopsutil/v3/net"
)

// Options 注册表构建选项
// 控制各指标组是否启用以及网卡/挂载点过滤
type Options struct {
	CPU       bool
	Uptime    bool
	Memory    bool
	Network   bool
	DiskIO    bool
	DiskUsage bool

	// Interfaces 网卡白名单，空表示统计全部网卡
	Interfaces []string

	// MountPoints 挂载点白名单，空表示采集全部挂载点
	MountPoints []string

	// Now 当前时间函数，为空时使用time.Now（测试用）
	Now func() time.Time
}

// DefaultOptions 返回启用全部指标组的选项
func DefaultOptions() Options {
	return Options{
		CPU:       true,
		Uptime:    true,
		Memory:    true,
		Network:   true,
		DiskIO:    true,
		DiskUsage: true,
	}
}

// BuildRegistry 构建指标注册表
// 返回按组拼接的指标定义列表，每项为静态配置与采集函数的组合
func BuildRegistry(p Provider, opts Options) []Metric {
	now := opts.Now
	if now == nil {
		now = time.Now
	}

	var registry []Metric

	if opts.CPU {
		registry = append(registry, cpuMetrics(p)...)
	}
	if opts.Uptime {
		registry = append(registry, uptimeMetrics(p, now)...)
	}
	if opts.Memory {
		registry = append(registry, memoryMetrics(p)...)
	}
	if opts.Network {
		registry = append(registry, networkMetrics(p, opts.Interfaces)...)
	}
	if opts.DiskIO {
		registry = append(registry, diskIOMetrics(p)...)
	}
	if opts.DiskUsage {
		registry = append(registry, diskUsageMetrics(p, opts.MountPoints)...)
	}

	return registry
}

// cpuMetrics CPU时间指标组
func cpuMetrics(p Provider) []Metric {
	spec := func(mode string) MetricSpec {
		return MetricSpec{
			Name:        "sys.cpu",
			Description: "The seconds the cpu has spent in the given mode.",
			Category:    "general",
			Unit:        "secs:1.00",
			Cumulative:  true,
			ExtraFields: map[string]string{"type": mode},
		}
	}

	return []Metric{
		{Spec: spec("user"), Gather: cpuTime(p, func(t cpu.TimesStat) float64 { return t.User })},
		{Spec: spec("system"), Gather: cpuTime(p, func(t cpu.TimesStat) float64 { return t.System })},
		{Spec: spec("idle"), Gather: cpuTime(p, func(t cpu.TimesStat) float64 { return t.Idle })},
	}
}

// uptimeMetrics 系统运行时长指标组
func uptimeMetrics(p Provider, now func() time.Time) []Metric {
	return []Metric{
		{
			Spec: MetricSpec{
				Name:        "sys.uptime",
				Description: "Seconds since the system booted.",
				Category:    "general",
				Unit:        "sec",
				Cumulative:  true,
			},
			Gather: uptime(p, now),
		},
	}
}

// memoryMetrics 内存指标组
// memory.physical来自物理内存统计，memory.virtual来自交换区统计
func memoryMetrics(p Provider) []Metric {
	physSpec := func(kind string) MetricSpec {
		return MetricSpec{
			Name:        "memory.physical",
			Description: "The amount of physical memory in the given state.",
			Category:    "general",
			Unit:        "bytes",
			ExtraFields: map[string]string{"type": kind},
		}
	}
	virtSpec := func(kind string) MetricSpec {
		return MetricSpec{
			Name:        "memory.virtual",
			Description: "The amount of virtual (swap) memory in the given state.",
			Category:    "general",
			Unit:        "bytes",
			ExtraFields: map[string]string{"type": kind},
		}
	}

	return []Metric{
		{Spec: physSpec("total"), Gather: physicalMemory(p, func(vm *mem.VirtualMemoryStat) uint64 { return vm.Total })},
		{Spec: physSpec("used"), Gather: physicalMemory(p, func(vm *mem.VirtualMemoryStat) uint64 { return vm.Used })},
		{Spec: physSpec("free"), Gather: physicalMemory(p, func(vm *mem.VirtualMemoryStat) uint64 { return vm.Free })},
		{Spec: physSpec("available"), Gather: physicalMemory(p, func(vm *mem.VirtualMemoryStat) uint64 { return vm.Available })},
		{Spec: virtSpec("total"), Gather: swapMemory(p, func(s *mem.SwapMemoryStat) uint64 { return s.Total })},
		{Spec: virtSpec("used"), Gather: swapMemory(p, func(s *mem.SwapMemoryStat) uint64 { return s.Used })},
		{Spec: virtSpec("free"), Gather: swapMemory(p, func(s *mem.SwapMemoryStat) uint64 { return s.Free })},
	}
}

// networkMetrics 网络IO指标组
func networkMetrics(p Provider, interfaces []string) []Metric {
	spec := func(name, unit, direction string) MetricSpec {
		return MetricSpec{
			Name:        name,
			Description: "Network interface counters, summed over interfaces.",
			Category:    "general",
			Unit:        unit,
			Cumulative:  true,
			ExtraFields: map[string]string{"direction": direction},
		}
	}

	return []Metric{
		{Spec: spec("network.io.bytes", "bytes", "sent"),
			Gather: netCounter(p, interfaces, func(io psnet.IOCountersStat) uint64 { return io.BytesSent })},
		{Spec: spec("network.io.bytes", "bytes", "recv"),
			Gather: netCounter(p, interfaces, func(io psnet.IOCountersStat) uint64 { return io.BytesRecv })},
		{Spec: spec("network.io.packets", "packets", "sent"),
			Gather: netCounter(p, interfaces, func(io psnet.IOCountersStat) uint64 { return io.PacketsSent })},
		{Spec: spec("network.io.packets", "packets", "recv"),
			Gather: netCounter(p, interfaces, func(io psnet.IOCountersStat) uint64 { return io.PacketsRecv })},
		{Spec: spec("network.io.errors", "errors", "in"),
			Gather: netCounter(p, interfaces, func(io psnet.IOCountersStat) uint64 { return io.Errin })},
		{Spec: spec("network.io.errors", "errors", "out"),
			Gather: netCounter(p, interfaces, func(io psnet.IOCountersStat) uint64 { return io.Errout })},
		{Spec: spec("network.io.dropped", "packets", "in"),
			Gather: netCounter(p, interfaces, func(io psnet.IOCountersStat) uint64 { return io.Dropin })},
		{Spec: spec("network.io.dropped", "packets", "out"),
			Gather: netCounter(p, interfaces, func(io psnet.IOCountersStat) uint64 { return io.Dropout })},
	}
}

// diskIOMetrics 磁盘IO指标组
func diskIOMetrics(p Provider) []Metric {
	spec := func(name, unit, kind string) MetricSpec {
		return MetricSpec{
			Name:        name,
			Description: "Disk I/O counters, summed over devices.",
			Category:    "general",
			Unit:        unit,
			Cumulative:  true,
			ExtraFields: map[string]string{"type": kind},
		}
	}

	return []Metric{
		{Spec: spec("disk.io.bytes", "bytes", "read"),
			Gather: diskCounter(p, func(io disk.IOCountersStat) uint64 { return io.ReadBytes })},
		{Spec: spec("disk.io.bytes", "bytes", "write"),
			Gather: diskCounter(p, func(io disk.IOCountersStat) uint64 { return io.WriteBytes })},
		{Spec: spec("disk.io.ops", "count", "read"),
			Gather: diskCounter(p, func(io disk.IOCountersStat) uint64 { return io.ReadCount })},
		{Spec: spec("disk.io.ops", "count", "write"),
			Gather: diskCounter(p, func(io disk.IOCountersStat) uint64 { return io.WriteCount })},
	}
}

// diskUsageMetrics 分区使用率指标组
func diskUsageMetrics(p Provider, mountPoints []string) []Metric {
	return []Metric{
		{
			Spec: MetricSpec{
				Name:        "disk.usage",
				Description: "Disk usage percentage for each partition.",
				Category:    "general",
				Unit:        "percent",
			},
			Gather: partitionUsage(p, mountPoints),
		},
	}
}
