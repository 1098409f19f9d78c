package graceful

import (
	"context"
	"sync/atomic"
	"time"

	"github.com/Laisky/zap"

	"github.com/songquanpeng/echobin/common/logger"
)

// In-flight request tracking for graceful shutdown.

var inFlightRequests int64

// BeginRequest increments the in-flight request counter and returns a function
// to decrement it. Use with `defer` at the top of request handlers/middlewares.
func BeginRequest() func() {
	atomic.AddInt64(&inFlightRequests, 1)
	return func() {
		atomic.AddInt64(&inFlightRequests, -1)
	}
}

// InFlight reports the number of requests currently being handled.
func InFlight() int64 {
	return atomic.LoadInt64(&inFlightRequests)
}

// Drain waits for in-flight requests to reach zero after Server.Shutdown stops
// accepting new ones, bounded by ctx deadline.
func Drain(ctx context.Context) error {
	ticker := time.NewTicker(100 * time.Millisecond)
	defer ticker.Stop()

	for {
		select {
		case <-ctx.Done():
			logger.Logger.Error("graceful drain timeout",
				zap.Int64("in_flight_requests", InFlight()))
			return ctx.Err()
		case <-ticker.C:
			if InFlight() == 0 {
				return nil
			}
		}
	}
}
