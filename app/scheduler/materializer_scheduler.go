// Package scheduler runs the periodic maintenance jobs of the analytics service
package scheduler

import (
	"context"
	"io"
	"log"
	"os"
	"path/filepath"
	"time"

	businessflow "github.com/powergridhq/disco-analytics/business_flow"
	"gopkg.in/natefinch/lumberjack.v2"
)

// MaterializerScheduler refreshes the derived feeder-energy facts on a
// fixed interval. Each run is incremental: yesterday's daily rows and the
// last calendar month's monthly rows.
type MaterializerScheduler struct {
	flow     businessflow.MaterializerFlow
	logger   *log.Logger
	interval time.Duration
	timeout  time.Duration
}

// NewMaterializerScheduler creates a scheduler running every interval;
// logDir receives a rotating scheduler log next to stdout.
func NewMaterializerScheduler(flow businessflow.MaterializerFlow, interval time.Duration, logDir string) *MaterializerScheduler {
	if interval <= 0 {
		interval = 24 * time.Hour
	}

	out := io.Writer(os.Stdout)
	if logDir != "" {
		rotating := &lumberjack.Logger{
			Filename:   filepath.Join(logDir, "materializer.log"),
			MaxSize:    50, // megabytes
			MaxBackups: 5,
			MaxAge:     30, // days
			Compress:   true,
		}
		out = io.MultiWriter(os.Stdout, rotating)
	}

	return &MaterializerScheduler{
		flow:     flow,
		logger:   log.New(out, "materializer: ", log.LstdFlags|log.LUTC),
		interval: interval,
		timeout:  10 * time.Minute,
	}
}

// Start launches the scheduler loop and returns its cancel function
func (s *MaterializerScheduler) Start(parent context.Context) func() {
	ctx, cancel := context.WithCancel(parent)

	go func() {
		ticker := time.NewTicker(s.interval)
		defer ticker.Stop()

		for {
			select {
			case <-ctx.Done():
				return
			case <-ticker.C:
				s.runOnce(ctx)
			}
		}
	}()

	return cancel
}

func (s *MaterializerScheduler) runOnce(parent context.Context) {
	ctx, cancel := context.WithTimeout(parent, s.timeout)
	defer cancel()

	result, err := s.flow.Run(ctx, businessflow.MaterializeIncremental)
	if err != nil {
		s.logger.Printf("incremental run failed: %v", err)
		return
	}
	s.logger.Printf("incremental run done: %d daily rows, %d monthly rows in %dms",
		result.DailyRows, result.MonthlyRows, result.DurationMsec)
}
