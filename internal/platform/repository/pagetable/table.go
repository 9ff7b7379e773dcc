package pagetable

import (
	"fmt"
	"sync"

	. "TSDB/internal/domain"
	"github.com/spf13/afero"
	"go.uber.org/zap"
)

// Table is an append-only store of fixed-width rows held in memory and
// rewritten in full to its backing file after every mutation. One mutex
// serializes all operations, flushes included.
type Table struct {
	mu       sync.Mutex
	pages    pageTable
	pager    *pager
	rowCount int
	logger   *zap.Logger
}

type options struct {
	sync   bool
	logger *zap.Logger
}

type Option func(*options)

// WithSync controls whether every flush ends with an fsync of the backing file.
func WithSync(sync bool) Option {
	return func(o *options) {
		o.sync = sync
	}
}

func WithLogger(logger *zap.Logger) Option {
	return func(o *options) {
		o.logger = logger
	}
}

// Open creates or loads the table stored at path.
func Open(fs afero.Fs, path string, opts ...Option) (*Table, error) {
	o := options{sync: true, logger: zap.NewNop()}
	for _, opt := range opts {
		opt(&o)
	}

	p, err := openPager(fs, path, o.sync, o.logger)
	if err != nil {
		return nil, err
	}
	t := &Table{
		pager:  p,
		logger: o.logger,
	}
	rows, err := p.load(&t.pages)
	if err != nil {
		p.close()
		return nil, err
	}
	t.rowCount = rows

	t.logger.Info("table loaded",
		zap.String("path", path),
		zap.Int("rows", rows),
		zap.Int("pages", t.pages.materialized()))
	return t, nil
}

// Insert appends r after the last stored row.
func (t *Table) Insert(r Record) error {
	if err := r.Validate(); err != nil {
		return err
	}
	t.mu.Lock()
	defer t.mu.Unlock()

	if t.rowCount >= MaxRows {
		return fmt.Errorf("%w: %d rows stored", ErrCapacityExceeded, t.rowCount)
	}
	slot, err := t.pages.slot(t.rowCount)
	if err != nil {
		return err
	}
	EncodeRow(slot, r)
	t.rowCount++
	return t.flush("insert")
}

// Update overwrites, in place, the first row sharing r's timestamp and series id.
func (t *Table) Update(r Record) error {
	if err := r.Validate(); err != nil {
		return err
	}
	t.mu.Lock()
	defer t.mu.Unlock()

	return t.update(r)
}

// QueryBySeries returns, in insertion order, the rows of seriesID whose
// timestamp lies in [start, end] under byte-wise comparison.
func (t *Table) QueryBySeries(seriesID, start, end string) ([]Record, error) {
	t.mu.Lock()
	defer t.mu.Unlock()

	return t.query(seriesID, start, end)
}

// FaultSweep flags every row of the sweep window whose value exceeds the
// threshold. Each flagged row is written through its own update and flush.
func (t *Table) FaultSweep(opts SweepOptions) (int, error) {
	if err := opts.Validate(); err != nil {
		return 0, err
	}
	t.mu.Lock()
	defer t.mu.Unlock()

	rows, err := t.query(opts.SeriesID, opts.WindowStart, opts.WindowEnd)
	if err != nil {
		return 0, err
	}
	flagged := 0
	for _, r := range rows {
		if r.Value <= opts.Threshold {
			continue
		}
		if err := t.update(r.WithFault(FaultSentinel)); err != nil {
			return flagged, err
		}
		flagged++
	}
	return flagged, nil
}

func (t *Table) Count() int {
	t.mu.Lock()
	defer t.mu.Unlock()
	return t.rowCount
}

func (t *Table) Close() error {
	t.mu.Lock()
	defer t.mu.Unlock()
	return t.pager.close()
}

func (t *Table) update(r Record) error {
	key := Normalize(r)
	for i := 0; i < t.rowCount; i++ {
		slot, err := t.pages.slot(i)
		if err != nil {
			return err
		}
		stored, err := DecodeRow(slot)
		if err != nil {
			return fmt.Errorf("row %d: %w", i, err)
		}
		if !stored.SameKey(key) {
			continue
		}
		EncodeRow(slot, r)
		return t.flush("update")
	}
	return fmt.Errorf("%w: timestamp %q timeseries_id %q", ErrNotFound, r.Timestamp, r.SeriesID)
}

func (t *Table) query(seriesID, start, end string) ([]Record, error) {
	seriesID = Truncate(seriesID, SeriesIDSize)
	results := []Record{}
	for i := 0; i < t.rowCount; i++ {
		row := t.pages.peek(i)
		if row == nil {
			return nil, fmt.Errorf("%w: row %d has no backing page", ErrCorruptRecord, i)
		}
		r, err := DecodeRow(row)
		if err != nil {
			return nil, fmt.Errorf("row %d: %w", i, err)
		}
		if r.InRange(seriesID, start, end) {
			results = append(results, r)
		}
	}
	return results, nil
}

func (t *Table) flush(op string) error {
	if err := t.pager.flush(&t.pages); err != nil {
		t.logger.Error("flush failed",
			zap.String("op", op),
			zap.Int("rows", t.rowCount),
			zap.Error(err))
		return err
	}
	return nil
}

// Normalize applies the field-width truncation a row goes through on its way
// to storage.
func Normalize(r Record) Record {
	r.SensorName = Truncate(r.SensorName, SensorNameSize)
	r.Timestamp = Truncate(r.Timestamp, TimestampSize)
	r.SeriesID = Truncate(r.SeriesID, SeriesIDSize)
	return r
}
