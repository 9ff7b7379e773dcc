package repository

import (
	"TSDB/internal/domain"
	"TSDB/internal/platform/repository/pagetable"
)

type PagedRecordRepository struct {
	table *pagetable.Table
}

func NewPagedRecordRepository(table *pagetable.Table) *PagedRecordRepository {
	return &PagedRecordRepository{
		table: table,
	}
}

func (r *PagedRecordRepository) Insert(record domain.Record) error {
	return r.table.Insert(record)
}

func (r *PagedRecordRepository) Update(record domain.Record) error {
	return r.table.Update(record)
}

func (r *PagedRecordRepository) QueryBySeries(seriesID, start, end string) ([]domain.Record, error) {
	return r.table.QueryBySeries(seriesID, start, end)
}

func (r *PagedRecordRepository) FaultSweep(options domain.SweepOptions) (int, error) {
	return r.table.FaultSweep(options)
}

func (r *PagedRecordRepository) Count() int {
	return r.table.Count()
}
