package metrics

import "context"

// MetricSpec 指标静态配置
// 描述一个指标的名称、元数据和固定维度字段
type MetricSpec struct {
	// Name 指标名称，如 sys.cpu
	Name string

	// Description 指标描述
	Description string

	// Category 指标分类
	Category string

	// Unit 指标单位，如 bytes、secs:1.00
	Unit string

	// Cumulative 是否为累计型计数器（只增不减）
	Cumulative bool

	// ExtraFields 固定维度字段，如 type=user、direction=sent
	ExtraFields map[string]string
}

// Sample 单次采样值
// ExtraFields为采样时动态产生的维度字段（如分区挂载点），
// 发射时与MetricSpec.ExtraFields合并
type Sample struct {
	Value       interface{}
	ExtraFields map[string]string
}

// GatherFunc 采集函数
// 每次调用返回指标的当前值，一次采集可以产生多个采样值
type GatherFunc func(ctx context.Context) ([]Sample, error)

// Metric 指标定义：静态配置与采集函数的组合
type Metric struct {
	Spec   MetricSpec
	Gather GatherFunc
}
