package metrics

import (
	"context"
	"errors"
	"sync"
	"time"

	"github.com/shirou/gopsutil/v3/cpu"
	"github.com/shirou/gopsutil/v3/disk"
	"github.com/shirou/gopsutil/v3/mem"
	psnet "github.com/shirou/gopsutil/v3/net"
)

// ErrNoData 系统查询返回了空结果
var ErrNoData = errors.New("metrics: no data returned by system query")

// gatherValue 构造返回单个采样值的采集函数
func gatherValue(query func(ctx context.Context) (interface{}, error)) GatherFunc {
	return func(ctx context.Context) ([]Sample, error) {
		value, err := query(ctx)
		if err != nil {
			return nil, err
		}
		return []Sample{{Value: value}}, nil
	}
}

// cpuTime 构造CPU时间采集函数，pick选取对应模式的秒数
func cpuTime(p Provider, pick func(cpu.TimesStat) float64) GatherFunc {
	return gatherValue(func(ctx context.Context) (interface{}, error) {
		times, err := p.CPUTimes(ctx)
		if err != nil {
			return nil, err
		}
		return pick(times), nil
	})
}

// uptime 构造系统运行时长采集函数，值为距启动时刻的秒数
func uptime(p Provider, now func() time.Time) GatherFunc {
	return gatherValue(func(ctx context.Context) (interface{}, error) {
		bootTime, err := p.BootTime(ctx)
		if err != nil {
			return nil, err
		}
		return now().Unix() - int64(bootTime), nil
	})
}

// physicalMemory 构造物理内存采集函数，pick选取对应字段
func physicalMemory(p Provider, pick func(*mem.VirtualMemoryStat) uint64) GatherFunc {
	return gatherValue(func(ctx context.Context) (interface{}, error) {
		vm, err := p.VirtualMemory(ctx)
		if err != nil {
			return nil, err
		}
		return pick(vm), nil
	})
}

// swapMemory 构造交换区采集函数，pick选取对应字段
func swapMemory(p Provider, pick func(*mem.SwapMemoryStat) uint64) GatherFunc {
	return gatherValue(func(ctx context.Context) (interface{}, error) {
		swap, err := p.SwapMemory(ctx)
		if err != nil {
			return nil, err
		}
		return pick(swap), nil
	})
}

// netCounter 构造网络计数器采集函数
// 对各网卡的计数器求和；指定了interfaces时只统计列表中的网卡
func netCounter(p Provider, interfaces []string, pick func(psnet.IOCountersStat) uint64) GatherFunc {
	return gatherValue(func(ctx context.Context) (interface{}, error) {
		counters, err := p.NetIOCounters(ctx)
		if err != nil {
			return nil, err
		}

		var total uint64
		for _, io := range counters {
			if len(interfaces) > 0 && !contains(interfaces, io.Name) {
				continue
			}
			total += pick(io)
		}
		return total, nil
	})
}

// diskCounter 构造磁盘IO计数器采集函数，对各块设备的计数器求和
func diskCounter(p Provider, pick func(disk.IOCountersStat) uint64) GatherFunc {
	return gatherValue(func(ctx context.Context) (interface{}, error) {
		counters, err := p.DiskIOCounters(ctx)
		if err != nil {
			return nil, err
		}

		var total uint64
		for _, io := range counters {
			total += pick(io)
		}
		return total, nil
	})
}

// partitionUsage 构造分区使用率采集函数
// 首次调用时枚举一次挂载点并缓存，之后每次采集对缓存中的每个挂载点
// 产生一个采样值。查询失败的挂载点（如光驱）直接跳过。
// 指定了mountPoints时只采集列表中的挂载点。
func partitionUsage(p Provider, mountPoints []string) GatherFunc {
	once := new(sync.Once)
	var cached []string

	return func(ctx context.Context) ([]Sample, error) {
		var initErr error
		once.Do(func() {
			partitions, err := p.Partitions(ctx)
			if err != nil {
				initErr = err
				return
			}
			for _, part := range partitions {
				if len(mountPoints) > 0 && !contains(mountPoints, part.Mountpoint) {
					continue
				}
				cached = append(cached, part.Mountpoint)
			}
		})
		if initErr != nil {
			// 枚举失败时不缓存空列表，下次采集重试
			once = new(sync.Once)
			return nil, initErr
		}

		samples := make([]Sample, 0, len(cached))
		for _, mount := range cached {
			usage, err := p.Usage(ctx, mount)
			if err != nil {
				continue
			}
			samples = append(samples, Sample{
				Value:       usage.UsedPercent,
				ExtraFields: map[string]string{"mount": mount},
			})
		}
		return samples, nil
	}
}

// contains 判断字符串是否在列表中
func contains(list []string, s string) bool {
	for _, item := range list {
		if item == s {
			return true
		}
	}
	return false
}
