package daemon

import (
	"os"
	"os/signal"
	"syscall"

	"go.uber.org/zap"
)

// WaitForSignal 等待退出信号
// SIGHUP触发配置重载，SIGINT/SIGTERM/SIGQUIT触发优雅退出
func (d *Daemon) WaitForSignal() {
	sigCh := make(chan os.Signal, 1)
	signal.Notify(sigCh, syscall.SIGHUP, syscall.SIGINT, syscall.SIGTERM, syscall.SIGQUIT)

	for sig := range sigCh {
		d.logger.Info("received signal", zap.String("signal", sig.String()))

		if sig == syscall.SIGHUP {
			d.Reload()
			continue
		}

		// 优雅退出
		d.Stop()
		return
	}
}
