package metrics

import (
	"context"

	"github.com/shirou/gopsutil/v3/cpu"
	"github.com/shirou/gopsutil/v3/disk"
	"github.com/shirou/gopsutil/v3/host"
	"github.com/shirou/gopsutil/v3/mem"
	psnet "github.com/shirou/gopsutil/v3/net"
)

// Provider 系统指标查询接口
// 注册表中的采集函数通过该接口读取操作系统计数器，测试中可替换为fake实现
type Provider interface {
	// CPUTimes 返回全局CPU时间统计（所有核心汇总）
	CPUTimes(ctx context.Context) (cpu.TimesStat, error)

	// BootTime 返回系统启动时间（秒级Unix时间戳）
	BootTime(ctx context.Context) (uint64, error)

	// VirtualMemory 返回物理内存统计
	VirtualMemory(ctx context.Context) (*mem.VirtualMemoryStat, error)

	// SwapMemory 返回交换区（虚拟内存）统计
	SwapMemory(ctx context.Context) (*mem.SwapMemoryStat, error)

	// NetIOCounters 返回各网卡的网络IO计数器
	NetIOCounters(ctx context.Context) ([]psnet.IOCountersStat, error)

	// DiskIOCounters 返回各块设备的磁盘IO计数器
	DiskIOCounters(ctx context.Context) (map[string]disk.IOCountersStat, error)

	// Partitions 返回已挂载的分区列表
	Partitions(ctx context.Context) ([]disk.PartitionStat, error)

	// Usage 返回指定挂载点的磁盘使用情况
	Usage(ctx context.Context, path string) (*disk.UsageStat, error)
}

// SystemProvider 基于gopsutil的Provider实现
type SystemProvider struct{}

// NewSystemProvider 创建系统指标Provider
func NewSystemProvider() *SystemProvider {
	return &SystemProvider{}
}

// CPUTimes 返回全局CPU时间统计
func (p *SystemProvider) CPUTimes(ctx context.Context) (cpu.TimesStat, error) {
	times, err := cpu.TimesWithContext(ctx, false)
	if err != nil {
		return cpu.TimesStat{}, err
	}
	if len(times) == 0 {
		return cpu.TimesStat{}, ErrNoData
	}
	return times[0], nil
}

// BootTime 返回系统启动时间
func (p *SystemProvider) BootTime(ctx context.Context) (uint64, error) {
	return host.BootTimeWithContext(ctx)
}

// VirtualMemory 返回物理内存统计
func (p *SystemProvider) VirtualMemory(ctx context.Context) (*mem.VirtualMemoryStat, error) {
	return mem.VirtualMemoryWithContext(ctx)
}

// SwapMemory 返回交换区统计
func (p *SystemProvider) SwapMemory(ctx context.Context) (*mem.SwapMemoryStat, error) {
	return mem.SwapMemoryWithContext(ctx)
}

// NetIOCounters 返回各网卡的网络IO计数器
func (p *SystemProvider) NetIOCounters(ctx context.Context) ([]psnet.IOCountersStat, error) {
	return psnet.IOCountersWithContext(ctx, true)
}

// DiskIOCounters 返回各块设备的磁盘IO计数器
func (p *SystemProvider) DiskIOCounters(ctx context.Context) (map[string]disk.IOCountersStat, error) {
	return disk.IOCountersWithContext(ctx)
}

// Partitions 返回已挂载的分区列表
func (p *SystemProvider) Partitions(ctx context.Context) ([]disk.PartitionStat, error) {
	return disk.PartitionsWithContext(ctx, false)
}

// Usage 返回指定挂载点的磁盘使用情况
func (p *SystemProvider) Usage(ctx context.Context, path string) (*disk.UsageStat, error) {
	return disk.UsageWithContext(ctx, path)
}
