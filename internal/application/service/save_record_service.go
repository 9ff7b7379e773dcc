package service

import (
	"TSDB/internal/domain"
	"go.uber.org/zap"
)

type SaveRecordService struct {
	repository domain.RecordRepository
	logger     *zap.Logger
}

func NewSaveRecordService(repository domain.RecordRepository, logger *zap.Logger) *SaveRecordService {
	return &SaveRecordService{
		repository: repository,
		logger:     logger.Named("save"),
	}
}

type SaveRecordCommand struct {
	Record domain.Record
}

type SaveRecordResult struct {
	Record domain.Record
	Err    error
}

func (s *SaveRecordService) Execute(command SaveRecordCommand) SaveRecordResult {
	if err := s.repository.Insert(command.Record); err != nil {
		s.logger.Warn("insert rejected",
			zap.String("timeseries_id", command.Record.SeriesID),
			zap.String("timestamp", command.Record.Timestamp),
			zap.Error(err))
		return SaveRecordResult{Err: err}
	}
	return SaveRecordResult{Record: command.Record}
}
