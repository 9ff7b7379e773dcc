package scheduler

import (
	"context"
	"sync"
	"time"

	"TSDB/internal/application/service"
	"TSDB/internal/platform/config"
	"go.uber.org/zap"
)

type Sweeper interface {
	Execute(command service.FaultSweepCommand) service.FaultSweepResult
}

// SweepScheduler runs the fault sweep at a fixed cadence. Ticks that fire
// while a sweep is still running are dropped, never queued.
type SweepScheduler struct {
	sweeper  Sweeper
	mu       sync.Mutex
	interval time.Duration
	resetCh  chan struct{}
	logger   *zap.Logger
}

// NewSweepScheduler starts paused when no sweep series is configured.
func NewSweepScheduler(sweepService *service.FaultSweepService, cfg config.Config, logger *zap.Logger) *SweepScheduler {
	interval := cfg.SweepInterval
	if cfg.Sweep.SeriesID == "" {
		logger.Info("no SWEEP_SERIES_ID configured, scheduled sweeps paused")
		interval = 0
	}
	return newSweepScheduler(sweepService, interval, logger)
}

func newSweepScheduler(sweeper Sweeper, interval time.Duration, logger *zap.Logger) *SweepScheduler {
	return &SweepScheduler{
		sweeper:  sweeper,
		interval: interval,
		resetCh:  make(chan struct{}, 1),
		logger:   logger.Named("scheduler"),
	}
}

func (s *SweepScheduler) Interval() time.Duration {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.interval
}

// SetInterval changes the cadence; the next sweep happens one full interval
// later. A non-positive interval pauses the schedule.
func (s *SweepScheduler) SetInterval(interval time.Duration) {
	s.mu.Lock()
	s.interval = interval
	s.mu.Unlock()

	select {
	case s.resetCh <- struct{}{}:
	default:
	}
}

func (s *SweepScheduler) Run(ctx context.Context) error {
	var ticker *time.Ticker
	var tick <-chan time.Time
	reset := func() {
		if ticker != nil {
			ticker.Stop()
			ticker, tick = nil, nil
		}
		interval := s.Interval()
		if interval <= 0 {
			s.logger.Info("fault sweep schedule paused")
			return
		}
		ticker = time.NewTicker(interval)
		tick = ticker.C
		s.logger.Info("fault sweep scheduled", zap.Duration("interval", interval))
	}
	reset()
	defer func() {
		if ticker != nil {
			ticker.Stop()
		}
	}()

	for {
		select {
		case <-ctx.Done():
			return nil
		case <-s.resetCh:
			reset()
		case <-tick:
			result := s.sweeper.Execute(service.FaultSweepCommand{})
			if result.Err == nil {
				s.logger.Debug("scheduled sweep done", zap.String("run_id", result.RunId), zap.Int("flagged", result.Flagged))
			}
		}
	}
}
