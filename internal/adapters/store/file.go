package store

// file.go — the work order file.
//
// The file is an operator-owned resource: it exists before the first run,
// outlives the process, and always holds one COIN:ACTION:FIAT:PRICE:ORDERREF
// record. Rewrites seek to offset 0 and overwrite in place, followed by
// blank padding wide enough to blank out any longer prior record. The file
// is never truncated, so there is no window where it is zero-length.

import (
	"errors"
	"fmt"
	"io"
	"os"
	"strings"

	"github.com/bigsaw04/mercury/internal/domain"
)

// recordPadding must cover the maximum plausible length difference between
// two consecutive records (a long order reference vs NONE).
const recordPadding = 40

var (
	// ErrCorrupt indicates an empty or unparseable work order file.
	ErrCorrupt = errors.New("work order file is corrupted or damaged")

	// ErrUnexpectedState indicates the coin or fiat changed between reads.
	ErrUnexpectedState = errors.New("unexpected information in the work order file")
)

// File is the file-backed work order store. Single reader, single writer:
// the trade cycle driver, always from the same goroutine.
type File struct {
	f    *os.File
	path string
	coin string // captured on first Load
	fiat string
}

// Open opens an existing work order file for reading and writing. The file
// must already exist; mercury never creates or deletes it.
func Open(path string) (*File, error) {
	f, err := os.OpenFile(path, os.O_RDWR, 0)
	if err != nil {
		return nil, fmt.Errorf("store.Open: %w", err)
	}
	return &File{f: f, path: path}, nil
}

// Load reads and parses the current record. The record is the first
// whitespace-delimited token in the file; padding from earlier rewrites is
// ignored. After the first load the coin and fiat must match the captured
// pair, otherwise the file is considered corrupted.
func (s *File) Load() (domain.WorkOrder, error) {
	if _, err := s.f.Seek(0, io.SeekStart); err != nil {
		return domain.WorkOrder{}, fmt.Errorf("store.Load: seek %q: %w", s.path, err)
	}
	data, err := io.ReadAll(s.f)
	if err != nil {
		return domain.WorkOrder{}, fmt.Errorf("store.Load: read %q: %w", s.path, err)
	}

	fields := strings.Fields(string(data))
	if len(fields) == 0 {
		return domain.WorkOrder{}, fmt.Errorf("store.Load: no instructions in %q: %w", s.path, ErrCorrupt)
	}

	order, err := domain.ParseWorkOrder(fields[0])
	if err != nil {
		return domain.WorkOrder{}, fmt.Errorf("store.Load: %q: %w", s.path, err)
	}

	if s.coin == "" && s.fiat == "" {
		s.coin, s.fiat = order.Coin, order.Fiat
	} else if order.Coin != s.coin || order.Fiat != s.fiat {
		return domain.WorkOrder{}, fmt.Errorf("store.Load: pair changed from %s-%s to %s-%s: %w",
			s.coin, s.fiat, order.Coin, order.Fiat, ErrUnexpectedState)
	}

	return order, nil
}

// Save rewrites the record in place and pads it so leftover bytes from a
// previous, longer record cannot resurface.
func (s *File) Save(order domain.WorkOrder) error {
	if _, err := s.f.Seek(0, io.SeekStart); err != nil {
		return fmt.Errorf("store.Save: seek %q: %w", s.path, err)
	}
	record := order.Record() + "\n" + strings.Repeat(" ", recordPadding)
	if _, err := s.f.WriteString(record); err != nil {
		return fmt.Errorf("store.Save: write %q: %w", s.path, err)
	}
	if err := s.f.Sync(); err != nil {
		return fmt.Errorf("store.Save: sync %q: %w", s.path, err)
	}
	return nil
}

// Close closes the underlying file.
func (s *File) Close() error {
	return s.f.Close()
}
