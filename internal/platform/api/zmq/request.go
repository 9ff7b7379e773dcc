package zmq

import "TSDB/internal/domain"

type ApiRequest struct {
	Action    string               `json:"action,omitempty"`
	Record    *domain.Record       `json:"record,omitempty"`
	SeriesID  string               `json:"timeseries_id,omitempty"`
	StartTime string               `json:"start_time,omitempty"`
	EndTime   string               `json:"end_time,omitempty"`
	Sweep     *domain.SweepOptions `json:"sweep,omitempty"`
}

type ApiResponse struct {
	Success bool            `json:"success"`
	Error   string          `json:"error,omitempty"`
	Records []domain.Record `json:"records"`
	Flagged int             `json:"flagged,omitempty"`
	RunId   string          `json:"run_id,omitempty"`
}
