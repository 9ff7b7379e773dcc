package pagetable

import (
	"fmt"

	. "TSDB/internal/domain"
)

const (
	PageSize    = 4096
	MaxPages    = 100
	RowsPerPage = PageSize / RowSize
	MaxRows     = RowsPerPage * MaxPages
)

// pageTable maps row indexes onto lazily allocated pages. A nil page is
// absent; pages are never released once allocated.
type pageTable struct {
	pages [MaxPages][]byte
}

func locate(rowIndex int) (page, offset int) {
	return rowIndex / RowsPerPage, (rowIndex % RowsPerPage) * RowSize
}

// slot returns the writable region of rowIndex, allocating its page first if needed.
func (pt *pageTable) slot(rowIndex int) ([]byte, error) {
	if rowIndex < 0 || rowIndex >= MaxRows {
		return nil, fmt.Errorf("%w: row %d outside %d-row table", ErrCapacityExceeded, rowIndex, MaxRows)
	}
	page, offset := locate(rowIndex)
	if pt.pages[page] == nil {
		pt.pages[page] = make([]byte, PageSize)
	}
	return pt.pages[page][offset : offset+RowSize], nil
}

// peek returns the region of rowIndex without allocating; nil when the page is absent.
func (pt *pageTable) peek(rowIndex int) []byte {
	if rowIndex < 0 || rowIndex >= MaxRows {
		return nil
	}
	page, offset := locate(rowIndex)
	if pt.pages[page] == nil {
		return nil
	}
	return pt.pages[page][offset : offset+RowSize]
}

func (pt *pageTable) materialized() int {
	n := 0
	for _, p := range pt.pages {
		if p != nil {
			n++
		}
	}
	return n
}

// occupiedPrefix counts leading non-empty slots. A non-empty slot after an
// empty one means the rows were not written append-only.
func (pt *pageTable) occupiedPrefix() (int, error) {
	rows := 0
	gapAt := -1
	for i := 0; i < MaxRows; i++ {
		row := pt.peek(i)
		if row == nil {
			break
		}
		if isEmptySlot(row) {
			if gapAt < 0 {
				gapAt = i
			}
			continue
		}
		if gapAt >= 0 {
			return 0, fmt.Errorf("%w: row %d is populated after empty row %d", ErrCorruptRecord, i, gapAt)
		}
		rows++
	}
	return rows, nil
}
