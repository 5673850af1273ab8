package db

import "sync"

// CopyRow is a row that can present itself in COPY column order.
type CopyRow interface {
	CopyValues() []any
}

// ChannelSource implements pgx.CopyFromSource by reading rows from a channel.
// This provides natural backpressure between the Parquet reader and COPY writer.
// A producer that stops early calls Fail before closing the channel so the
// COPY is aborted instead of committing a partial load.
type ChannelSource[T CopyRow] struct {
	ch      <-chan T
	current T

	mu  sync.Mutex
	err error
}

// NewChannelSource creates a CopyFromSource backed by a channel.
func NewChannelSource[T CopyRow](ch <-chan T) *ChannelSource[T] {
	return &ChannelSource[T]{ch: ch}
}

// Next advances to the next row. Returns false when the channel is closed.
func (s *ChannelSource[T]) Next() bool {
	row, ok := <-s.ch
	if !ok {
		return false
	}
	s.current = row
	return true
}

// Values returns the current row's values in COPY column order.
func (s *ChannelSource[T]) Values() ([]any, error) {
	return s.current.CopyValues(), nil
}

// Fail records the producer error returned by Err. Only the first error is kept.
func (s *ChannelSource[T]) Fail(err error) {
	if err == nil {
		return
	}
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.err == nil {
		s.err = err
	}
}

// Err returns the error recorded by Fail, if any.
func (s *ChannelSource[T]) Err() error {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.err
}
