package domain

import (
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestRecord_Validate(t *testing.T) {
	valid := Record{Timestamp: "2024-08-28T12:00:00Z", SeriesID: "s1"}
	assert.NoError(t, valid.Validate())

	noSeries := Record{Timestamp: "2024-08-28T12:00:00Z"}
	assert.True(t, errors.Is(noSeries.Validate(), ErrInvalidRecord))

	noTimestamp := Record{SeriesID: "s1"}
	assert.True(t, errors.Is(noTimestamp.Validate(), ErrInvalidRecord))
}

func TestRecord_InRangeIsLexicographic(t *testing.T) {
	r := Record{Timestamp: "2024-08-28T12:01:00Z", SeriesID: "s1"}

	assert.True(t, r.InRange("s1", "2024-08-28T12:00:00Z", "2024-08-28T12:01:00Z"))
	assert.True(t, r.InRange("s1", "2024-08-28T12:01:00Z", "2024-08-28T12:01:00Z"))
	assert.False(t, r.InRange("s2", "2024-08-28T12:00:00Z", "2024-08-28T12:05:00Z"))
	assert.False(t, r.InRange("s1", "2024-08-28T12:02:00Z", "2024-08-28T12:05:00Z"))
	// "2024-8-..." sorts after "2024-08-..." byte-wise even though it is the same month
	assert.False(t, r.InRange("s1", "2024-8-28", "2024-9-01"))
}

func TestRecord_WithFault(t *testing.T) {
	r := Record{SeriesID: "s1", Timestamp: "t"}
	assert.False(t, r.HasFault())

	flagged := r.WithFault(FaultSentinel)
	assert.True(t, flagged.HasFault())
	assert.False(t, r.HasFault(), "WithFault must not mutate the receiver")
	assert.True(t, flagged.SameKey(r))
}

func TestSweepOptions_Validate(t *testing.T) {
	ok := SweepOptions{SeriesID: "s1", WindowStart: "a", WindowEnd: "b", Threshold: 0.95}
	assert.NoError(t, ok.Validate())

	inverted := SweepOptions{SeriesID: "s1", WindowStart: "b", WindowEnd: "a"}
	assert.ErrorIs(t, inverted.Validate(), ErrInvalidRecord)

	assert.ErrorIs(t, SweepOptions{}.Validate(), ErrInvalidRecord)
}

func TestSweepOptions_MergeKeepsDefaultsForZeroFields(t *testing.T) {
	defaults := SweepOptions{SeriesID: "s1", WindowStart: "a", WindowEnd: "z", Threshold: 0.95}

	assert.Equal(t, defaults, defaults.Merge(SweepOptions{}))

	merged := defaults.Merge(SweepOptions{Threshold: 0.5, WindowEnd: "m"})
	assert.Equal(t, SweepOptions{SeriesID: "s1", WindowStart: "a", WindowEnd: "m", Threshold: 0.5}, merged)
}

func TestRecord_ValidateRejectsInvalidUTF8(t *testing.T) {
	r := Record{SensorName: "fan\xff", Timestamp: "t", SeriesID: "s1"}
	assert.ErrorIs(t, r.Validate(), ErrInvalidRecord)
}

func TestRecord_ValidateRejectsNUL(t *testing.T) {
	r := Record{SensorName: "fan", Timestamp: "\x00", SeriesID: "s1"}
	assert.ErrorIs(t, r.Validate(), ErrInvalidRecord)
}
