package node

import (
	"context"
	"os"
	"os/signal"
	"syscall"
	"time"
)

// shutdownTimeout bounds each handler's StopFunc.
const shutdownTimeout = 30 * time.Second

// ShutdownHandler stops one daemon component.
type ShutdownHandler struct {
	Component string
	StopFunc  StopFunc
}

// MonitorShutdown waits for SIGTERM, SIGINT or a value on triggerCh, then runs
// handlers one after another in the given order. A failing handler is logged
// and the rest still run.
//
// The returned channel is closed after the last handler returned.
func MonitorShutdown(triggerCh <-chan struct{}, handlers ...ShutdownHandler) <-chan struct{} {
	sigCh := make(chan os.Signal, 2)
	done := make(chan struct{})

	go func() {
		select {
		case sig := <-sigCh:
			log.Warnw("shutdown requested", "signal", sig)
		case <-triggerCh:
			log.Warn("shutdown requested")
		}

		for _, h := range handlers {
			ctx, cancel := context.WithTimeout(context.Background(), shutdownTimeout)
			err := h.StopFunc(ctx)
			cancel()
			if err != nil {
				log.Errorw("stopping component failed", "component", h.Component, "error", err)
				continue
			}
			log.Infow("component stopped", "component", h.Component)
		}

		log.Warn("registry daemon stopped")
		_ = log.Sync() //nolint:errcheck
		close(done)
	}()

	signal.Reset(syscall.SIGTERM, syscall.SIGINT)
	signal.Notify(sigCh, syscall.SIGTERM, syscall.SIGINT)

	return done
}
