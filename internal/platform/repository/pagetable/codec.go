package pagetable

import (
	"bytes"
	"encoding/binary"
	"fmt"
	"math"
	"unicode/utf8"

	. "TSDB/internal/domain"
)

const (
	SensorNameSize = 32
	TimestampSize  = 32
	ValueSize      = 8
	FlagSize       = 1
	SeriesIDSize   = 32

	RowSize = SensorNameSize + TimestampSize + ValueSize + FlagSize + SeriesIDSize
)

// field offsets inside a row
const (
	sensorNameOffset = 0
	timestampOffset  = sensorNameOffset + SensorNameSize
	valueOffset      = timestampOffset + TimestampSize
	flagOffset       = valueOffset + ValueSize
	seriesIDOffset   = flagOffset + FlagSize
)

// EncodeRow serializes r into the first RowSize bytes of dst.
// Text longer than its field is truncated; every byte of the row is rewritten.
func EncodeRow(dst []byte, r Record) {
	row := dst[:RowSize]
	putText(row[sensorNameOffset:timestampOffset], r.SensorName)
	putText(row[timestampOffset:valueOffset], r.Timestamp)
	binary.NativeEndian.PutUint64(row[valueOffset:flagOffset], math.Float64bits(r.Value))
	row[flagOffset] = r.FaultFlag
	putText(row[seriesIDOffset:RowSize], r.SeriesID)
}

// DecodeRow parses one encoded row. Text fields holding invalid UTF-8 yield
// ErrCorruptRecord.
func DecodeRow(src []byte) (Record, error) {
	if len(src) < RowSize {
		return Record{}, fmt.Errorf("%w: row has %d bytes, want %d", ErrCorruptRecord, len(src), RowSize)
	}
	row := src[:RowSize]

	sensorName, err := readText(row[sensorNameOffset:timestampOffset], "sensor_name")
	if err != nil {
		return Record{}, err
	}
	timestamp, err := readText(row[timestampOffset:valueOffset], "timestamp")
	if err != nil {
		return Record{}, err
	}
	seriesID, err := readText(row[seriesIDOffset:RowSize], "timeseries_id")
	if err != nil {
		return Record{}, err
	}

	return Record{
		SensorName: sensorName,
		Timestamp:  timestamp,
		Value:      math.Float64frombits(binary.NativeEndian.Uint64(row[valueOffset:flagOffset])),
		FaultFlag:  row[flagOffset],
		SeriesID:   seriesID,
	}, nil
}

// Truncate returns s cut to at most size bytes without splitting a UTF-8 sequence.
func Truncate(s string, size int) string {
	if len(s) <= size {
		return s
	}
	cut := size
	for cut > 0 && !utf8.RuneStart(s[cut]) {
		cut--
	}
	return s[:cut]
}

func putText(field []byte, s string) {
	n := copy(field, Truncate(s, len(field)))
	clear(field[n:])
}

func readText(field []byte, name string) (string, error) {
	trimmed := bytes.TrimRight(field, "\x00")
	if !utf8.Valid(trimmed) {
		return "", fmt.Errorf("%w: invalid utf-8 in %s", ErrCorruptRecord, name)
	}
	return string(trimmed), nil
}

func isEmptySlot(row []byte) bool {
	for _, b := range row[:RowSize] {
		if b != 0 {
			return false
		}
	}
	return true
}
