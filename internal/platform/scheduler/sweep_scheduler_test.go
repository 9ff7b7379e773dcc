package scheduler

import (
	"context"
	"sync/atomic"
	"testing"
	"time"

	"TSDB/internal/application/service"
	"TSDB/internal/domain"
	"TSDB/internal/platform/config"
	"github.com/stretchr/testify/assert"
	"go.uber.org/zap"
)

type countingSweeper struct {
	runs atomic.Int32
}

func (c *countingSweeper) Execute(command service.FaultSweepCommand) service.FaultSweepResult {
	c.runs.Add(1)
	return service.FaultSweepResult{RunId: "run"}
}

func runScheduler(t *testing.T, s *SweepScheduler) context.CancelFunc {
	ctx, cancel := context.WithCancel(context.Background())
	done := make(chan error, 1)
	go func() {
		done <- s.Run(ctx)
	}()
	t.Cleanup(func() {
		cancel()
		assert.NoError(t, <-done)
	})
	return cancel
}

func TestSweepScheduler_RunsAtInterval(t *testing.T) {
	sweeper := &countingSweeper{}
	s := newSweepScheduler(sweeper, 10*time.Millisecond, zap.NewNop())
	runScheduler(t, s)

	assert.Eventually(t, func() bool {
		return sweeper.runs.Load() >= 3
	}, time.Second, 5*time.Millisecond)
}

func TestSweepScheduler_PausedWhenIntervalNotPositive(t *testing.T) {
	sweeper := &countingSweeper{}
	s := newSweepScheduler(sweeper, 0, zap.NewNop())
	runScheduler(t, s)

	time.Sleep(50 * time.Millisecond)
	assert.Equal(t, int32(0), sweeper.runs.Load())
}

func TestSweepScheduler_SetIntervalResumes(t *testing.T) {
	sweeper := &countingSweeper{}
	s := newSweepScheduler(sweeper, time.Hour, zap.NewNop())
	runScheduler(t, s)

	s.SetInterval(10 * time.Millisecond)
	assert.Equal(t, 10*time.Millisecond, s.Interval())
	assert.Eventually(t, func() bool {
		return sweeper.runs.Load() >= 1
	}, time.Second, 5*time.Millisecond)
}

func TestSweepScheduler_StopsOnCancel(t *testing.T) {
	sweeper := &countingSweeper{}
	s := newSweepScheduler(sweeper, 5*time.Millisecond, zap.NewNop())

	ctx, cancel := context.WithCancel(context.Background())
	cancel()
	assert.NoError(t, s.Run(ctx))
}

func TestNewSweepScheduler_PausedWithoutSeries(t *testing.T) {
	cfg := config.Config{SweepInterval: time.Minute}
	sweepService := service.NewFaultSweepService(nil, cfg, zap.NewNop())

	s := NewSweepScheduler(sweepService, cfg, zap.NewNop())
	assert.Equal(t, time.Duration(0), s.Interval())

	cfg.Sweep = domain.SweepOptions{SeriesID: "fan", WindowStart: "a", WindowEnd: "b", Threshold: 0.95}
	s = NewSweepScheduler(sweepService, cfg, zap.NewNop())
	assert.Equal(t, time.Minute, s.Interval())
}
