package types

import "time"

// MetricRecord 指标日志记录的固定字段
// 每个采样值对应一条结构化日志记录，由emitter写入指标日志文件；
// 采样值的维度字段（如mount、type）以额外的顶层键附加在记录中
type MetricRecord struct {
	Timestamp time.Time   `json:"time"`
	Monitor   string      `json:"monitor"`
	Instance  string      `json:"instance"`
	Metric    string      `json:"metric"`
	Value     interface{} `json:"value"`
}

// NodeState 节点状态
// 持久化在工作目录下的状态文件中，daemon重启时复用其中的节点ID
type NodeState struct {
	NodeID     string    `yaml:"node_id"`
	Hostname   string    `yaml:"hostname"`
	OS         string    `yaml:"os"`
	Arch       string    `yaml:"arch"`
	FirstStart time.Time `yaml:"first_start"`
	LastStart  time.Time `yaml:"last_start"`
}

// MonitorStatus 监控器运行状态
type MonitorStatus struct {
	Name        string    `json:"name"`
	LastSample  time.Time `json:"last_sample"`
	SampleCount uint64    `json:"sample_count"`
	ErrorCount  uint64    `json:"error_count"`
}
