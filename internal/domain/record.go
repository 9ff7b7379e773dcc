package domain

import (
	"fmt"
	"strings"
	"unicode/utf8"
)

// FaultSentinel is the flag byte written by the fault sweep.
const FaultSentinel uint8 = 1

// Record is one time-series observation. A zero FaultFlag means the flag is absent.
type Record struct {
	SensorName string  `json:"sensor_name"`
	Timestamp  string  `json:"timestamp"`
	Value      float64 `json:"value"`
	FaultFlag  uint8   `json:"fc1_flag,omitempty"`
	SeriesID   string  `json:"timeseries_id"`
}

func (r Record) HasFault() bool {
	return r.FaultFlag != 0
}

func (r Record) WithFault(flag uint8) Record {
	r.FaultFlag = flag
	return r
}

// Validate rejects records that could never be located again: the series id
// and the timestamp form the update key.
func (r Record) Validate() error {
	if r.SeriesID == "" {
		return fmt.Errorf("%w: empty timeseries_id", ErrInvalidRecord)
	}
	if r.Timestamp == "" {
		return fmt.Errorf("%w: empty timestamp", ErrInvalidRecord)
	}
	for name, text := range map[string]string{
		"sensor_name":   r.SensorName,
		"timestamp":     r.Timestamp,
		"timeseries_id": r.SeriesID,
	} {
		if !utf8.ValidString(text) {
			return fmt.Errorf("%w: %s is not valid utf-8", ErrInvalidRecord, name)
		}
		// NUL is the field padding byte
		if strings.IndexByte(text, 0) >= 0 {
			return fmt.Errorf("%w: %s contains a NUL byte", ErrInvalidRecord, name)
		}
	}
	return nil
}

// SameKey reports whether both records address the same (timestamp, series) pair.
func (r Record) SameKey(other Record) bool {
	return r.Timestamp == other.Timestamp && r.SeriesID == other.SeriesID
}

// InRange reports whether r belongs to seriesID and start <= timestamp <= end,
// comparing timestamps byte-wise.
func (r Record) InRange(seriesID, start, end string) bool {
	return r.SeriesID == seriesID && r.Timestamp >= start && r.Timestamp <= end
}

type RecordRepository interface {
	Insert(record Record) error
	Update(record Record) error
	QueryBySeries(seriesID, start, end string) ([]Record, error)
	FaultSweep(options SweepOptions) (int, error)
	Count() int
}
