package parquetread

import (
	"fmt"
	"io"
	"os"

	"github.com/parquet-go/parquet-go"

	"github.com/gyeh/healthnav/internal/model"
)

// Reader streams ChargeFixtureRow records out of a seed fixture.
type Reader struct {
	file   *os.File
	reader *parquet.GenericReader[model.ChargeFixtureRow]
}

// Open opens a Parquet fixture and returns a streaming Reader.
func Open(path string) (*Reader, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, fmt.Errorf("open parquet file: %w", err)
	}

	stat, err := f.Stat()
	if err != nil {
		f.Close()
		return nil, fmt.Errorf("stat parquet file: %w", err)
	}

	pf, err := parquet.OpenFile(f, stat.Size())
	if err != nil {
		f.Close()
		return nil, fmt.Errorf("open parquet: %w", err)
	}

	if err := ValidateSchema(pf.Schema()); err != nil {
		f.Close()
		return nil, err
	}

	r := parquet.NewGenericReader[model.ChargeFixtureRow](pf)
	return &Reader{file: f, reader: r}, nil
}

// NumRows returns the total number of rows in the fixture.
func (r *Reader) NumRows() int64 {
	return r.reader.NumRows()
}

// Read reads up to len(rows) records into the provided slice.
// Returns the number of rows read and io.EOF when done.
func (r *Reader) Read(rows []model.ChargeFixtureRow) (int, error) {
	n, err := r.reader.Read(rows)
	if err != nil && err != io.EOF {
		return n, fmt.Errorf("read parquet rows: %w", err)
	}
	return n, err
}

// Each calls fn for every row in batches of batchSize. Iteration stops at
// the first error returned by fn. The buffer is zeroed before every read,
// so optional fields of a row kept past fn are never overwritten by a
// later batch.
func (r *Reader) Each(batchSize int, fn func(*model.ChargeFixtureRow) error) (int64, error) {
	if batchSize <= 0 {
		batchSize = 1024
	}
	buf := make([]model.ChargeFixtureRow, batchSize)
	var total int64
	for {
		clear(buf)
		n, err := r.Read(buf)
		for i := 0; i < n; i++ {
			if ferr := fn(&buf[i]); ferr != nil {
				return total, ferr
			}
			total++
		}
		if err == io.EOF {
			return total, nil
		}
		if err != nil {
			return total, err
		}
	}
}

// Close releases all resources.
func (r *Reader) Close() error {
	if err := r.reader.Close(); err != nil {
		r.file.Close()
		return err
	}
	return r.file.Close()
}

// Write writes rows to a new Parquet fixture at path.
func Write(path string, rows []model.ChargeFixtureRow) error {
	f, err := os.Create(path)
	if err != nil {
		return fmt.Errorf("create parquet file: %w", err)
	}
	w := parquet.NewGenericWriter[model.ChargeFixtureRow](f)
	if _, err := w.Write(rows); err != nil {
		f.Close()
		return fmt.Errorf("write parquet rows: %w", err)
	}
	if err := w.Close(); err != nil {
		f.Close()
		return fmt.Errorf("close parquet writer: %w", err)
	}
	return f.Close()
}
