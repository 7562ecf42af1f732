// Package csvio reads and writes tables as CSV files with a header row.
package csvio

import (
	"context"
	"encoding/csv"
	"errors"
	"fmt"
	"io"
	"io/fs"
	"path/filepath"
	"strings"

	"github.com/spf13/afero"

	"github.com/bobdeve/credit-risk-model/internal/domain/model"
)

const utf8BOM = "\ufeff"

// TableStore implements port.TableReader and port.TableWriter on a filesystem.
type TableStore struct {
	fs afero.Fs
}

// NewTableStore creates a store on fs.
func NewTableStore(fs afero.Fs) *TableStore {
	return &TableStore{fs: fs}
}

// NewOSTableStore creates a store on the local filesystem.
func NewOSTableStore() *TableStore {
	return NewTableStore(afero.NewOsFs())
}

// ReadTable loads the CSV file at location. A file without a header row
// yields model.ErrEmptyInput; a header with no records is a valid empty table.
func (s *TableStore) ReadTable(ctx context.Context, location string) (*model.Table, error) {
	f, err := s.fs.Open(location)
	if err != nil {
		return nil, fmt.Errorf("csvio: open %s: %w", location, err)
	}
	defer f.Close()

	r := csv.NewReader(f)
	r.ReuseRecord = false

	header, err := r.Read()
	if errors.Is(err, io.EOF) {
		return nil, fmt.Errorf("csvio: %s: %w", location, model.ErrEmptyInput)
	}
	if err != nil {
		return nil, fmt.Errorf("csvio: read header of %s: %w", location, err)
	}
	header[0] = strings.TrimPrefix(header[0], utf8BOM)

	var rows [][]string
	for {
		if len(rows)%4096 == 0 {
			if err := ctx.Err(); err != nil {
				return nil, err
			}
		}
		rec, err := r.Read()
		if errors.Is(err, io.EOF) {
			break
		}
		if err != nil {
			return nil, fmt.Errorf("csvio: read %s: %w", location, err)
		}
		rows = append(rows, rec)
	}

	t, err := model.NewTable(header, rows)
	if err != nil {
		return nil, fmt.Errorf("csvio: %s: %w", location, err)
	}
	return t, nil
}

// WriteTable writes t to location through a temporary file in the same
// directory that is renamed into place once complete. On failure the
// destination is left untouched.
func (s *TableStore) WriteTable(ctx context.Context, location string, t *model.Table) (err error) {
	dir := filepath.Dir(location)
	if err := s.fs.MkdirAll(dir, 0o755); err != nil {
		return fmt.Errorf("csvio: create %s: %w", dir, err)
	}

	tmp, err := afero.TempFile(s.fs, dir, "."+filepath.Base(location)+".tmp-*")
	if err != nil {
		return fmt.Errorf("csvio: create temp file in %s: %w", dir, err)
	}
	tmpName := tmp.Name()
	defer func() {
		if err != nil {
			_ = tmp.Close()
			_ = s.fs.Remove(tmpName)
		}
	}()

	w := csv.NewWriter(tmp)
	if err := w.Write(t.Columns()); err != nil {
		return fmt.Errorf("csvio: write header: %w", err)
	}
	for i := range t.Len() {
		if i%4096 == 0 {
			if err := ctx.Err(); err != nil {
				return err
			}
		}
		if err := w.Write(t.Row(i)); err != nil {
			return fmt.Errorf("csvio: write row %d: %w", i+1, err)
		}
	}
	w.Flush()
	if err := w.Error(); err != nil {
		return fmt.Errorf("csvio: flush %s: %w", tmpName, err)
	}
	if err := tmp.Close(); err != nil {
		return fmt.Errorf("csvio: close %s: %w", tmpName, err)
	}
	if err := s.fs.Rename(tmpName, location); err != nil {
		return fmt.Errorf("csvio: rename to %s: %w", location, err)
	}
	return nil
}

// RemoveTable deletes the dataset at location. A missing file is not an error.
func (s *TableStore) RemoveTable(_ context.Context, location string) error {
	if err := s.fs.Remove(location); err != nil && !errors.Is(err, fs.ErrNotExist) {
		return fmt.Errorf("csvio: remove %s: %w", location, err)
	}
	return nil
}
