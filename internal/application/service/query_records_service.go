package service

import (
	"TSDB/internal/domain"
)

type QueryRecordsService struct {
	repository domain.RecordRepository
}

func NewQueryRecordsService(repository domain.RecordRepository) *QueryRecordsService {
	return &QueryRecordsService{
		repository: repository,
	}
}

type QueryRecordsQuery struct {
	SeriesID string
	Start    string
	End      string
}

type QueryRecordsResult struct {
	Records []domain.Record
	Err     error
}

func (s *QueryRecordsService) Execute(query QueryRecordsQuery) QueryRecordsResult {
	records, err := s.repository.QueryBySeries(query.SeriesID, query.Start, query.End)
	if err != nil {
		return QueryRecordsResult{Err: err}
	}
	return QueryRecordsResult{Records: records}
}
