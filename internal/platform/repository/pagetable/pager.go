package pagetable

import (
	"errors"
	"fmt"
	"io"
	"os"

	. "TSDB/internal/domain"
	"github.com/spf13/afero"
	"go.uber.org/zap"
)

// pager mirrors the materialized pages of a pageTable into one backing file,
// page i at offset i*PageSize.
type pager struct {
	path   string
	fd     afero.File
	sync   bool
	logger *zap.Logger

	// reused across flushes; holds the materialized pages back to back
	scratch []byte
}

func openPager(fs afero.Fs, path string, sync bool, logger *zap.Logger) (*pager, error) {
	fd, err := fs.OpenFile(path, os.O_CREATE|os.O_RDWR, 0644)
	if err != nil {
		return nil, fmt.Errorf("%w: open %s: %v", ErrStorageIO, path, err)
	}
	return &pager{
		path:   path,
		fd:     fd,
		sync:   sync,
		logger: logger,
	}, nil
}

// load reads every full page of the backing file into pt and returns the
// number of rows they hold.
func (p *pager) load(pt *pageTable) (int, error) {
	info, err := p.fd.Stat()
	if err != nil {
		return 0, fmt.Errorf("%w: stat %s: %v", ErrStorageIO, p.path, err)
	}
	size := info.Size()
	if size%PageSize != 0 {
		return 0, fmt.Errorf("%w: %s is %d bytes, not a whole number of %d-byte pages",
			ErrCorruptRecord, p.path, size, PageSize)
	}
	if size > MaxPages*PageSize {
		p.logger.Warn("backing file exceeds table capacity, ignoring trailing pages",
			zap.String("path", p.path), zap.Int64("size", size), zap.Int("max_pages", MaxPages))
	}

	if _, err := p.fd.Seek(0, io.SeekStart); err != nil {
		return 0, fmt.Errorf("%w: seek %s: %v", ErrStorageIO, p.path, err)
	}
	for i := 0; i < MaxPages; i++ {
		buf := make([]byte, PageSize)
		if _, err := io.ReadFull(p.fd, buf); err != nil {
			if errors.Is(err, io.EOF) || errors.Is(err, io.ErrUnexpectedEOF) {
				break
			}
			return 0, fmt.Errorf("%w: read page %d of %s: %v", ErrStorageIO, i, p.path, err)
		}
		pt.pages[i] = buf
	}

	return pt.occupiedPrefix()
}

// flush rewrites every materialized page from offset 0. Absent pages are
// skipped, so callers must materialize pages in ascending order.
func (p *pager) flush(pt *pageTable) error {
	if p.fd == nil {
		return fmt.Errorf("%w: %s is closed", ErrStorageIO, p.path)
	}
	if _, err := p.fd.Seek(0, io.SeekStart); err != nil {
		return fmt.Errorf("%w: seek %s: %v", ErrStorageIO, p.path, err)
	}
	p.scratch = p.scratch[:0]
	for _, page := range pt.pages {
		if page != nil {
			p.scratch = append(p.scratch, page...)
		}
	}
	if _, err := p.fd.Write(p.scratch); err != nil {
		return fmt.Errorf("%w: write %d pages to %s: %v", ErrStorageIO, len(p.scratch)/PageSize, p.path, err)
	}
	if p.sync {
		if err := p.fd.Sync(); err != nil {
			return fmt.Errorf("%w: sync %s: %v", ErrStorageIO, p.path, err)
		}
	}
	return nil
}

func (p *pager) close() error {
	// p.fd will be nil if close is already called
	if p.fd == nil {
		return nil
	}
	err := p.fd.Close()
	p.fd = nil
	if err != nil {
		return fmt.Errorf("%w: close %s: %v", ErrStorageIO, p.path, err)
	}
	return nil
}
