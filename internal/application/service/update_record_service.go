package service

import (
	"TSDB/internal/domain"
	"go.uber.org/zap"
)

type UpdateRecordService struct {
	repository domain.RecordRepository
	logger     *zap.Logger
}

func NewUpdateRecordService(repository domain.RecordRepository, logger *zap.Logger) *UpdateRecordService {
	return &UpdateRecordService{
		repository: repository,
		logger:     logger.Named("update"),
	}
}

type UpdateRecordCommand struct {
	Record domain.Record
}

type UpdateRecordResult struct {
	Record domain.Record
	Err    error
}

func (s *UpdateRecordService) Execute(command UpdateRecordCommand) UpdateRecordResult {
	if err := s.repository.Update(command.Record); err != nil {
		s.logger.Debug("update failed",
			zap.String("timeseries_id", command.Record.SeriesID),
			zap.String("timestamp", command.Record.Timestamp),
			zap.Error(err))
		return UpdateRecordResult{Err: err}
	}
	return UpdateRecordResult{Record: command.Record}
}
