package config

import "time"

// setDefaults 设置默认值
func setDefaults(config *Config) {
	setDaemonDefaults(&config.Daemon)
	setMonitorDefaults(&config.Monitor)
}

// setDaemonDefaults 设置 Daemon 默认值
func setDaemonDefaults(daemon *DaemonConfig) {
	if daemon.LogLevel == "" {
		daemon.LogLevel = "info"
	}
	if daemon.LogFile == "" {
		daemon.LogFile = "/var/log/sysmond/sysmond.log"
	}
	if daemon.MetricsLogFile == "" {
		daemon.MetricsLogFile = "/var/log/sysmond/metrics.log"
	}
	if daemon.PIDFile == "" {
		daemon.PIDFile = "/var/run/sysmond.pid"
	}
	if daemon.WorkDir == "" {
		daemon.WorkDir = "/var/lib/sysmond"
	}
	setLogRotateDefaults(&daemon.LogRotate)
}

// setLogRotateDefaults 设置日志轮转默认值
func setLogRotateDefaults(rotate *LogRotateConfig) {
	if rotate.MaxSize == 0 {
		rotate.MaxSize = 100
	}
	if rotate.MaxBackups == 0 {
		rotate.MaxBackups = 5
	}
	if rotate.MaxAge == 0 {
		rotate.MaxAge = 7
	}
}

// setMonitorDefaults 设置监控器默认值
func setMonitorDefaults(monitor *MonitorConfig) {
	if monitor.SampleInterval == 0 {
		monitor.SampleInterval = 30 * time.Second
	}
}
