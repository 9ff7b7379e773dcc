package service

import (
	"time"

	"TSDB/internal/domain"
	"TSDB/internal/platform/config"
	"github.com/google/uuid"
	"go.uber.org/zap"
)

type FaultSweepService struct {
	repository domain.RecordRepository
	defaults   domain.SweepOptions
	logger     *zap.Logger
}

func NewFaultSweepService(repository domain.RecordRepository, config config.Config, logger *zap.Logger) *FaultSweepService {
	return &FaultSweepService{
		repository: repository,
		defaults:   config.Sweep,
		logger:     logger.Named("sweep"),
	}
}

// FaultSweepCommand overrides the configured options with its non-zero fields.
type FaultSweepCommand struct {
	Options domain.SweepOptions
}

type FaultSweepResult struct {
	RunId   string
	Flagged int
	Err     error
}

func (s *FaultSweepService) Execute(command FaultSweepCommand) FaultSweepResult {
	options := s.defaults.Merge(command.Options)
	runId := uuid.NewString()
	log := s.logger.With(zap.String("run_id", runId), zap.String("timeseries_id", options.SeriesID))

	start := time.Now()
	flagged, err := s.repository.FaultSweep(options)
	if err != nil {
		log.Error("fault sweep failed", zap.Int("flagged", flagged), zap.Error(err))
		return FaultSweepResult{RunId: runId, Flagged: flagged, Err: err}
	}
	log.Info("fault sweep finished",
		zap.String("window_start", options.WindowStart),
		zap.String("window_end", options.WindowEnd),
		zap.Float64("threshold", options.Threshold),
		zap.Int("flagged", flagged),
		zap.Duration("took", time.Since(start)))
	return FaultSweepResult{RunId: runId, Flagged: flagged}
}
