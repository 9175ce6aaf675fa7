package daemon

import (
	"fmt"
	"os"
	"runtime"
	"time"

	"github.com/bingooyong/sysmetrics-monitor/pkg/types"
	"github.com/google/uuid"
	"gopkg.in/yaml.v3"
)

// LoadOrCreateState 加载或创建节点状态文件
// 文件存在时复用其中的节点ID并刷新LastStart；
// 不存在时生成新的节点ID并写入
func LoadOrCreateState(path string) (*types.NodeState, error) {
	now := time.Now()

	data, err := os.ReadFile(path)
	if err == nil {
		state := &types.NodeState{}
		if err := yaml.Unmarshal(data, state); err != nil {
			return nil, fmt.Errorf("failed to parse state file: %w", err)
		}
		if state.NodeID == "" {
			return nil, fmt.Errorf("state file has empty node_id: %s", path)
		}

		state.LastStart = now
		if err := writeState(path, state); err != nil {
			return nil, err
		}
		return state, nil
	}
	if !os.IsNotExist(err) {
		return nil, fmt.Errorf("failed to read state file: %w", err)
	}

	hostname, _ := os.Hostname()
	state := &types.NodeState{
		NodeID:     uuid.New().String(),
		Hostname:   hostname,
		OS:         runtime.GOOS,
		Arch:       runtime.GOARCH,
		FirstStart: now,
		LastStart:  now,
	}

	if err := writeState(path, state); err != nil {
		return nil, err
	}
	return state, nil
}

// writeState 原子性写入状态文件
func writeState(path string, state *types.NodeState) error {
	data, err := yaml.Marshal(state)
	if err != nil {
		return fmt.Errorf("failed to marshal state: %w", err)
	}

	tmpFile := path + ".tmp"
	if err := os.WriteFile(tmpFile, data, 0644); err != nil {
		return fmt.Errorf("failed to write temp state file: %w", err)
	}

	if err := os.Rename(tmpFile, path); err != nil {
		os.Remove(tmpFile)
		return fmt.Errorf("failed to replace state file: %w", err)
	}

	return nil
}
