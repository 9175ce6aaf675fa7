package emitter

import (
	"fmt"
	"io"
	"os"
	"path/filepath"
	"sort"

	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"
	"gopkg.in/natefinch/lumberjack.v2"
)

// Emitter 指标值发射器接口
// 监控器的每个采样值通过EmitValue写出为一条结构化日志记录
type Emitter interface {
	EmitValue(metric string, value interface{}, extraFields map[string]string)
}

// Config 发射器配置
type Config struct {
	FilePath   string // 指标日志文件路径
	MaxSize    int    // 单个文件最大大小(MB)
	MaxBackups int    // 保留的旧日志文件数量
	MaxAge     int    // 保留天数
	Compress   bool   // 是否压缩旧日志
}

// LogEmitter 将采样值写为JSON日志记录的发射器
// 每条记录包含monitor、instance、metric、value字段，
// 外加该采样值的维度字段
type LogEmitter struct {
	logger   *zap.Logger
	monitor  string
	instance string
	writer   io.Closer
}

// New 创建指标日志发射器
// 指标记录写入独立的日志文件，通过lumberjack按大小轮转
func New(cfg *Config, monitor, instance string) (*LogEmitter, error) {
	if cfg.FilePath == "" {
		return nil, fmt.Errorf("emitter: file path is required")
	}

	if err := os.MkdirAll(filepath.Dir(cfg.FilePath), 0755); err != nil {
		return nil, fmt.Errorf("failed to create metrics log directory: %w", err)
	}

	writer := &lumberjack.Logger{
		Filename:   cfg.FilePath,
		MaxSize:    cfg.MaxSize,
		MaxBackups: cfg.MaxBackups,
		MaxAge:     cfg.MaxAge,
		Compress:   cfg.Compress,
	}

	core := zapcore.NewCore(
		zapcore.NewJSONEncoder(encoderConfig()),
		zapcore.AddSync(writer),
		zapcore.InfoLevel,
	)

	em := NewWithCore(core, monitor, instance)
	em.writer = writer
	return em, nil
}

// NewWithCore 基于给定core创建发射器（测试用）
func NewWithCore(core zapcore.Core, monitor, instance string) *LogEmitter {
	return &LogEmitter{
		logger:   zap.New(core),
		monitor:  monitor,
		instance: instance,
	}
}

// EmitValue 发射一个采样值
// extraFields按键名排序后追加，保证记录中字段顺序稳定
func (e *LogEmitter) EmitValue(metric string, value interface{}, extraFields map[string]string) {
	fields := make([]zap.Field, 0, 4+len(extraFields))
	fields = append(fields,
		zap.String("monitor", e.monitor),
		zap.String("instance", e.instance),
		zap.String("metric", metric),
		zap.Any("value", value),
	)

	keys := make([]string, 0, len(extraFields))
	for k := range extraFields {
		keys = append(keys, k)
	}
	sort.Strings(keys)
	for _, k := range keys {
		fields = append(fields, zap.String(k, extraFields[k]))
	}

	e.logger.Info("sample", fields...)
}

// Sync 刷新日志缓冲
func (e *LogEmitter) Sync() error {
	return e.logger.Sync()
}

// Close 刷新缓冲并关闭指标日志文件
// 热重载会以新配置重建发射器，旧文件句柄必须在此释放
func (e *LogEmitter) Close() error {
	err := e.logger.Sync()
	if e.writer != nil {
		if cerr := e.writer.Close(); err == nil {
			err = cerr
		}
	}
	return err
}

// encoderConfig 指标日志编码配置
func encoderConfig() zapcore.EncoderConfig {
	return zapcore.EncoderConfig{
		TimeKey:        "time",
		LevelKey:       zapcore.OmitKey,
		NameKey:        zapcore.OmitKey,
		CallerKey:      zapcore.OmitKey,
		FunctionKey:    zapcore.OmitKey,
		MessageKey:     "msg",
		StacktraceKey:  zapcore.OmitKey,
		LineEnding:     zapcore.DefaultLineEnding,
		EncodeTime:     zapcore.RFC3339TimeEncoder,
		EncodeDuration: zapcore.SecondsDurationEncoder,
	}
}
